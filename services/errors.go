package services

import "errors"

var (
	ErrInvalidTimeSlot     = errors.New("invalid time slot, expected YYYY-MM-DD HH:MM")
	ErrInvalidReservation  = errors.New("invalid reservation data")
	ErrReservationConflict = errors.New("table is already reserved for an overlapping time")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrBackupNotFound    = errors.New("backup not found")
	ErrInvalidBackup     = errors.New("backup is not a valid database")
	ErrBackupUnsupported = errors.New("backups require a file based database")

	ErrSectionExists   = errors.New("section with this name already exists")
	ErrSectionNotFound = errors.New("section not found")
	ErrWaiterNotFound  = errors.New("waiter not found")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidTable    = errors.New("table number must be positive")
)
