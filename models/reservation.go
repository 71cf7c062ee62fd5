package models

import "time"

// ReservationStatus adalah enum tertutup: Reserved atau Cancelled
type ReservationStatus string

const (
	StatusReserved  ReservationStatus = "Reserved"
	StatusCancelled ReservationStatus = "Cancelled"
)

func (s ReservationStatus) Valid() bool {
	return s == StatusReserved || s == StatusCancelled
}

// Reservation -> satu reservasi meja. TimeSlot disimpan sebagai teks kanonik
// "YYYY-MM-DD HH:MM" tanpa zona waktu.
type Reservation struct {
	ID             uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	TableNumber    int               `gorm:"not null;index:idx_table_status" json:"table_number"`
	TimeSlot       string            `gorm:"type:varchar(16);not null" json:"time_slot"`
	CustomerName   string            `gorm:"type:varchar(255);not null" json:"customer_name"`
	PhoneNumber    string            `gorm:"type:varchar(50)" json:"phone_number"`
	AdditionalInfo string            `gorm:"type:text" json:"additional_info"`
	WaiterID       *uint             `gorm:"index" json:"waiter_id,omitempty"`
	Waiter         *Waiter           `gorm:"foreignKey:WaiterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Status         ReservationStatus `gorm:"type:varchar(20);not null;default:'Reserved';index:idx_table_status" json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
