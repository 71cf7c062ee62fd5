package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/table-reservations/utils"
)

// Event types
const (
	EventTableStates    = "table_states"
	EventBackupRestored = "backup_restored"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client denah meja yang terhubung lewat websocket
type Hub struct {
	clients map[*websocket.Conn]string // conn -> client id
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Register -> menambahkan connection
func (h *Hub) Register(conn *websocket.Conn, clientID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = clientID
	utils.Info().WithField("client_id", clientID).Debug("Floor plan client connected")
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	if id, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		utils.Info().WithField("client_id", id).Debug("Floor plan client disconnected")
	}
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast -> kirim event ke semua client
func (h *Hub) Broadcast(event string, data interface{}) {
	h.BroadcastMessage(Message{Event: event, Data: data})
}

func (h *Hub) BroadcastMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.Error().Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, id := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// client yang gagal menerima dianggap sudah putus
			utils.Error().WithField("client_id", id).Errorf("Error sending message to client: %v", err)
			h.remove(conn)
		}
	}
}
