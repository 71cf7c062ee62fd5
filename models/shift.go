package models

// Shift -> satu check-in waiter. ShiftDate disimpan sebagai teks naive
// "YYYY-MM-DD HH:MM:SS" seperti time slot reservasi.
type Shift struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	WaiterID  uint    `gorm:"not null;index" json:"waiter_id"`
	Waiter    *Waiter `gorm:"foreignKey:WaiterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ShiftDate string  `gorm:"type:varchar(19);not null;index" json:"shift_date"`
}
