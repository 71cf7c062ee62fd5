package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type ReportController struct {
	Reports *services.ReportService
	Clock   utils.Clock
}

func NewReportController(reports *services.ReportService, clock utils.Clock) *ReportController {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ReportController{Reports: reports, Clock: clock}
}

func (rc *ReportController) GetStats(c *gin.Context) {
	stats, err := rc.Reports.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation statistics", stats)
}

// ExportPDF -> unduh laporan statistik sebagai PDF
func (rc *ReportController) ExportPDF(c *gin.Context) {
	stats, err := rc.Reports.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := rc.Reports.ExportPDF(stats, &buf); err != nil {
		utils.Error().Errorf("Error generating PDF: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("reservations_report_%s.pdf", rc.Clock.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
