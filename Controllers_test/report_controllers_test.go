package Controllers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservations/services"
)

func TestReportStats(t *testing.T) {
	app := setupApp(t)
	for i, slot := range []string{"2025-05-30 12:00", "2025-06-01 12:00", "2025-06-01 18:00"} {
		w, _ := app.do(t, http.MethodPost, "/reservations", reservationBody(i+1, slot, "Guest"))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := app.do(t, http.MethodDelete, "/reservations/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := app.do(t, http.MethodGet, "/reports/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.ReservationStats
	decode(t, env.Data, &stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, map[string]int{"2025-06": 2}, stats.Monthly)
	assert.Equal(t, 2, stats.Daily["2025-06-01"])
}

func TestExportPDF(t *testing.T) {
	app := setupApp(t)
	w, _ := app.do(t, http.MethodPost, "/reservations", reservationBody(1, "2025-06-01 12:00", "Guest"))
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = app.do(t, http.MethodGet, "/reports/export-pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t,
		fmt.Sprintf("attachment; filename=%q", "reservations_report_20250601_195000.pdf"),
		w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
