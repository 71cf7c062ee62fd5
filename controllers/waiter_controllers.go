package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type WaiterController struct {
	Waiters *services.WaiterService
}

func NewWaiterController(waiters *services.WaiterService) *WaiterController {
	return &WaiterController{Waiters: waiters}
}

type waiterRequest struct {
	Name string `json:"name" binding:"required"`
}

func (wc *WaiterController) GetWaiters(c *gin.Context) {
	list, err := wc.Waiters.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of waiters", list)
}

func (wc *WaiterController) CreateWaiter(c *gin.Context) {
	var req waiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	waiter, err := wc.Waiters.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Waiter created successfully", waiter)
}

func (wc *WaiterController) RenameWaiter(c *gin.Context) {
	id, err := utils.ParamUint(c, "waiter_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req waiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	waiter, err := wc.Waiters.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter updated", waiter)
}

// DeleteWaiter -> reservasi milik waiter ini tetap ada, waiter_id dikosongkan
func (wc *WaiterController) DeleteWaiter(c *gin.Context) {
	id, err := utils.ParamUint(c, "waiter_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := wc.Waiters.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter deleted", gin.H{"id": id})
}
