package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type ShiftController struct {
	Shifts *services.ShiftService
	Clock  utils.Clock
}

func NewShiftController(shifts *services.ShiftService, clock utils.Clock) *ShiftController {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ShiftController{Shifts: shifts, Clock: clock}
}

// CheckIn -> POST /waiters/:waiter_id/check-in
func (sc *ShiftController) CheckIn(c *gin.Context) {
	id, err := utils.ParamUint(c, "waiter_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	shift, err := sc.Shifts.CheckIn(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Waiter checked in", shift)
}

// GetShifts -> GET /shifts?date=YYYY-MM-DD
func (sc *ShiftController) GetShifts(c *gin.Context) {
	date, _, err := viewContext(c, sc.Clock)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	list, err := sc.Shifts.List(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of shifts", list)
}
