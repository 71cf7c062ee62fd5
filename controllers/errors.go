package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

// statusFor memetakan error service ke HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidTimeSlot),
		errors.Is(err, services.ErrInvalidReservation),
		errors.Is(err, services.ErrInvalidTable),
		errors.Is(err, services.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrReservationConflict),
		errors.Is(err, services.ErrSectionExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrWaiterNotFound),
		errors.Is(err, services.ErrBackupNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.Error().Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	utils.RespondError(c, code, err)
}
