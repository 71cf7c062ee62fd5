package services

import (
	"context"
	"sort"
	"time"

	"github.com/yeremiapane/table-reservations/hub"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
)

// Broadcaster -> dipenuhi oleh *hub.Hub
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// LayoutSnapshot -> isi pesan table_states dan respons GET /layout
type LayoutSnapshot struct {
	At      string               `json:"at"`
	Tables  []models.TableStatus `json:"tables"`
	Summary LayoutSummary        `json:"summary"`
}

func NewLayoutSnapshot(at time.Time, states map[int]models.TableStatus) LayoutSnapshot {
	return LayoutSnapshot{
		At:      utils.FormatTimeSlot(at),
		Tables:  SortedStates(states),
		Summary: Summary(states),
	}
}

// SortedStates -> state meja urut nomor meja
func SortedStates(states map[int]models.TableStatus) []models.TableStatus {
	out := make([]models.TableStatus, 0, len(states))
	for _, st := range states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out
}

// LayoutMonitor menghitung ulang denah "saat ini" secara berkala dan
// mengirim table_states ke client hanya jika ada meja yang berubah state.
type LayoutMonitor struct {
	layout      *TableLayoutService
	broadcaster Broadcaster
	clock       utils.Clock
	numTables   int

	Interval time.Duration
	StopChan chan struct{}
	trigger  chan struct{}

	last map[int]models.TableState
}

func NewLayoutMonitor(layout *TableLayoutService, b Broadcaster, clock utils.Clock, numTables int, interval time.Duration) *LayoutMonitor {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LayoutMonitor{
		layout:      layout,
		broadcaster: b,
		clock:       clock,
		numTables:   numTables,
		Interval:    interval,
		StopChan:    make(chan struct{}),
		trigger:     make(chan struct{}, 1),
	}
}

func (m *LayoutMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.checkStates()
			case <-m.trigger:
				m.checkStates()
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *LayoutMonitor) Stop() {
	close(m.StopChan)
}

// Refresh meminta pengecekan segera, tidak pernah blocking
func (m *LayoutMonitor) Refresh() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

// checkStates mengembalikan true jika snapshot baru dikirim
func (m *LayoutMonitor) checkStates() bool {
	now := m.clock.Now()
	states, err := m.layout.ComputeStates(context.Background(), LayoutQuery{
		Time:      &now,
		NumTables: m.numTables,
	})
	if err != nil {
		utils.Error().Errorf("Error computing table states: %v", err)
		return false
	}

	current := make(map[int]models.TableState, len(states))
	changed := len(m.last) != len(states)
	for n, st := range states {
		current[n] = st.State
		if m.last[n] != st.State {
			changed = true
		}
	}
	if !changed {
		return false
	}

	m.last = current
	snapshot := NewLayoutSnapshot(now, states)
	utils.Info().WithField("summary", snapshot.Summary).Debug("Broadcasting table states")
	m.broadcaster.Broadcast(hub.EventTableStates, snapshot)
	return true
}
