package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

// TableController -> denah meja; state meja selalu dihitung dari reservasi
type TableController struct {
	Layout    *services.TableLayoutService
	Clock     utils.Clock
	NumTables int
	MaxTables int
}

func NewTableController(layout *services.TableLayoutService, clock utils.Clock, numTables, maxTables int) *TableController {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if maxTables < numTables {
		maxTables = numTables
	}
	return &TableController{Layout: layout, Clock: clock, NumTables: numTables, MaxTables: maxTables}
}

// GetLayout -> GET /layout?date=&time=&tables=&include=true
func (tc *TableController) GetLayout(c *gin.Context) {
	date, at, err := viewContext(c, tc.Clock)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tables, err := queryInt(c, "tables")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	q := services.LayoutQuery{
		Date:               date,
		Time:               at,
		NumTables:          tc.NumTables,
		IncludeReservation: utils.QueryBool(c, "include"),
	}
	if tables != nil {
		if *tables > tc.MaxTables {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("tables must be at most %d", tc.MaxTables))
			return
		}
		q.NumTables = *tables
	}

	states, err := tc.Layout.ComputeStates(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	viewAt := tc.Clock.Now()
	if at != nil {
		viewAt = *at
	}
	utils.RespondJSON(c, http.StatusOK, "Table layout", services.NewLayoutSnapshot(viewAt, states))
}
