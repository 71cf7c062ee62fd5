package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/gorm"
)

const ShiftTimeLayout = "2006-01-02 15:04:05"

type ShiftService struct {
	db    *database.Handle
	clock utils.Clock
}

func NewShiftService(db *database.Handle, clock utils.Clock) *ShiftService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &ShiftService{db: db, clock: clock}
}

// CheckIn mencatat waiter mulai shift pada jam sekarang
func (s *ShiftService) CheckIn(ctx context.Context, waiterID uint) (models.Shift, error) {
	shift := models.Shift{
		WaiterID:  waiterID,
		ShiftDate: s.clock.Now().Format(ShiftTimeLayout),
	}
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&models.Waiter{}, waiterID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrWaiterNotFound
				}
				return err
			}
			return tx.Create(&shift).Error
		})
	})
	if err != nil {
		return models.Shift{}, err
	}

	utils.Info().WithFields(logrus.Fields{
		"waiter_id":  waiterID,
		"shift_date": shift.ShiftDate,
	}).Info("Waiter checked in")
	return shift, nil
}

// List -> semua check-in, atau hanya tanggal tertentu jika date diisi
func (s *ShiftService) List(ctx context.Context, date *time.Time) ([]models.Shift, error) {
	shifts := []models.Shift{}
	err := s.db.Do(func(db *gorm.DB) error {
		q := db.WithContext(ctx).Order("shift_date ASC, id ASC")
		if date != nil {
			q = q.Where("shift_date LIKE ?", date.Format(utils.DateLayout)+" %")
		}
		return q.Find(&shifts).Error
	})
	if err != nil {
		return nil, err
	}
	return shifts, nil
}
