package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type ReservationController struct {
	Store *services.ReservationService
	Query *services.ReservationQueryService
	Clock utils.Clock
}

func NewReservationController(store *services.ReservationService, query *services.ReservationQueryService, clock utils.Clock) *ReservationController {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ReservationController{Store: store, Query: query, Clock: clock}
}

type reservationRequest struct {
	services.ReservationInput
	Status models.ReservationStatus `json:"status"`
}

// GetReservations -> daftar reservasi sesuai ?date=&time=&status=&table=
func (rc *ReservationController) GetReservations(c *gin.Context) {
	date, at, err := viewContext(c, rc.Clock)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	table, err := queryInt(c, "table")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	filter := services.ReservationFilter{Date: date, Time: at, Table: table}
	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		if !status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status %q", raw))
			return
		}
		filter.Status = &status
	}

	list, err := rc.Query.ListForContext(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, err := utils.ParamUint(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	res, err := rc.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

// CreateReservation -> 409 jika meja sudah terisi pada interval yang sama
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.ReservationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := rc.Store.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", res)
}

// UpdateReservation -> semua field ditimpa; status kosong berarti Reserved
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := utils.ParamUint(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		req.Status = models.StatusReserved
	}

	res, err := rc.Store.Update(c.Request.Context(), id, req.ReservationInput, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", res)
}

// CancelReservation -> DELETE tidak menghapus baris, hanya status Cancelled
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := utils.ParamUint(c, "reservation_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := rc.Store.Cancel(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	res, err := rc.Store.GetByID(c.Request.Context(), id)
	if errors.Is(err, services.ErrReservationNotFound) {
		utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"id": id})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", res)
}
