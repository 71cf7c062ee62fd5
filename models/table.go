package models

import "time"

// TableState tidak pernah disimpan; selalu dihitung ulang dari reservasi
type TableState string

const (
	TableFree     TableState = "free"
	TableOccupied TableState = "occupied"
	TableSoon30   TableState = "soon_30"
)

// TableStatus -> state satu meja untuk konteks tanggal/jam tertentu.
// Start dan Reservation hanya terisi jika State bukan free.
type TableStatus struct {
	TableNumber int          `json:"table_number"`
	State       TableState   `json:"state"`
	Start       *time.Time   `json:"start,omitempty"`
	Reservation *Reservation `json:"reservation,omitempty"`
}
