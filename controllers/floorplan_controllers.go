package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/table-reservations/hub"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

// FloorPlanController -> websocket untuk denah meja live
type FloorPlanController struct {
	Hub       *hub.Hub
	Layout    *services.TableLayoutService
	Clock     utils.Clock
	NumTables int
	upgrader  websocket.Upgrader
}

func NewFloorPlanController(h *hub.Hub, layout *services.TableLayoutService, clock utils.Clock, numTables int, origins []string) *FloorPlanController {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &FloorPlanController{
		Hub:       h,
		Layout:    layout,
		Clock:     clock,
		NumTables: numTables,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// FloorPlanHandler -> endpoint WebSocket. Client langsung menerima snapshot
// saat ini, lalu table_states setiap kali ada perubahan.
func (fc *FloorPlanController) FloorPlanHandler(c *gin.Context) {
	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	now := fc.Clock.Now()
	states, err := fc.Layout.ComputeStates(c.Request.Context(), services.LayoutQuery{Time: &now, NumTables: fc.NumTables})
	if err == nil {
		_ = ws.WriteJSON(hub.Message{Event: hub.EventTableStates, Data: services.NewLayoutSnapshot(now, states)})
	} else {
		utils.Error().Errorf("Error computing initial table states: %v", err)
	}

	fc.Hub.Register(ws, uuid.NewString())

	// Baca pesan sampai client menutup koneksi
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.Hub.Unregister(ws)
}
