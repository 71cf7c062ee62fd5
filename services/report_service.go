package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
)

// ReservationStats -> jumlah reservasi per bulan ("2006-01"),
// per minggu ("2006-W05", minggu dimulai hari Minggu) dan per hari
type ReservationStats struct {
	Monthly map[string]int `json:"monthly"`
	Weekly  map[string]int `json:"weekly"`
	Daily   map[string]int `json:"daily"`
	Total   int            `json:"total"`
}

// Aggregate menghitung statistik dari reservasi yang diberikan.
// Time slot yang rusak dilewati.
func Aggregate(reservations []models.Reservation) ReservationStats {
	stats := ReservationStats{
		Monthly: map[string]int{},
		Weekly:  map[string]int{},
		Daily:   map[string]int{},
	}
	for _, res := range reservations {
		start, ok := utils.ParseTimeSlot(res.TimeSlot)
		if !ok {
			continue
		}
		stats.Monthly[start.Format("2006-01")]++
		stats.Weekly[WeekKey(start)]++
		stats.Daily[start.Format(utils.DateLayout)]++
		stats.Total++
	}
	return stats
}

// WeekKey -> "YYYY-Www". Minggu ke-00 berisi hari-hari sebelum hari Minggu pertama.
func WeekKey(t time.Time) string {
	week := (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

type ReportService struct {
	store ReservationLister
	clock utils.Clock
}

func NewReportService(store ReservationLister, clock utils.Clock) *ReportService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ReportService{store: store, clock: clock}
}

// Stats hanya menghitung reservasi yang tidak dibatalkan
func (s *ReportService) Stats(ctx context.Context) (ReservationStats, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return ReservationStats{}, err
	}
	active := make([]models.Reservation, 0, len(all))
	for _, res := range all {
		if res.Status == models.StatusReserved {
			active = append(active, res)
		}
	}
	return Aggregate(active), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lastN(keys []string, n int) []string {
	if len(keys) > n {
		return keys[len(keys)-n:]
	}
	return keys
}

// ExportPDF menulis laporan statistik (bulanan, 12 minggu terakhir,
// 30 hari terakhir) beserta grafik batang bulanan ke w.
func (s *ReportService) ExportPDF(stats ReservationStats, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reservation Statistics Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(4, 120, 87)
	pdf.CellFormat(0, 12, "Reservation Statistics Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Generated: "+s.clock.Now().Format(utils.TimeSlotLayout), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	months := sortedKeys(stats.Monthly)
	writeCountTable(pdf, "Monthly Reservations", "Month", months, stats.Monthly, "No monthly data available")

	if len(months) > 0 {
		png, err := monthlyChart(months, stats.Monthly)
		if err != nil {
			utils.Error().Errorf("Failed to render monthly chart: %v", err)
		} else {
			opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			pdf.RegisterImageOptionsReader("monthly_chart", opts, bytes.NewReader(png))
			pdf.Ln(4)
			pdf.ImageOptions("monthly_chart", 15, pdf.GetY(), 180, 0, true, opts, 0, "")
		}
	}

	pdf.AddPage()
	weeks := lastN(sortedKeys(stats.Weekly), 12)
	writeCountTable(pdf, "Weekly Reservations (Last 12 weeks)", "Week", weeks, stats.Weekly, "No weekly data available")

	pdf.AddPage()
	days := lastN(sortedKeys(stats.Daily), 30)
	writeCountTable(pdf, "Daily Reservations (Last 30 days)", "Date", days, stats.Daily, "No daily data available")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf.Output(w)
}

func writeCountTable(pdf *fpdf.Fpdf, title, label string, keys []string, counts map[string]int, empty string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	if len(keys) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, empty, "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	const colW, rowH = 60.0, 8.0
	left := (210 - 2*colW) / 2

	// header hijau
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(4, 120, 87)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(left)
	pdf.CellFormat(colW, rowH, label, "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW, rowH, "Count", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	total := 0
	for _, k := range keys {
		pdf.SetX(left)
		pdf.CellFormat(colW, rowH, k, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW, rowH, fmt.Sprint(counts[k]), "1", 1, "C", false, 0, "")
		total += counts[k]
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(232, 245, 233)
	pdf.SetX(left)
	pdf.CellFormat(colW, rowH, "TOTAL", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW, rowH, fmt.Sprint(total), "1", 1, "C", true, 0, "")
	pdf.Ln(6)
}

func monthlyChart(months []string, counts map[string]int) ([]byte, error) {
	bars := make([]chart.Value, 0, len(months))
	maxCount := 0
	for _, m := range months {
		bars = append(bars, chart.Value{Label: m, Value: float64(counts[m])})
		if counts[m] > maxCount {
			maxCount = counts[m]
		}
	}

	width := 800
	if n := len(bars) * 70; n > width {
		width = n
	}

	graph := chart.BarChart{
		Title:      "Monthly reservations",
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      width,
		Height:     400,
		BarWidth:   40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
