package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/models"
	"gorm.io/gorm"
)

type WaiterService struct {
	db *database.Handle
}

func NewWaiterService(db *database.Handle) *WaiterService {
	return &WaiterService{db: db}
}

func (s *WaiterService) List(ctx context.Context) ([]models.Waiter, error) {
	var waiters []models.Waiter
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Order("name ASC").Find(&waiters).Error
	})
	return waiters, err
}

func (s *WaiterService) Create(ctx context.Context, name string) (models.Waiter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Waiter{}, ErrNameRequired
	}
	waiter := models.Waiter{Name: name}
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Create(&waiter).Error
	})
	return waiter, err
}

func (s *WaiterService) Rename(ctx context.Context, id uint, name string) (models.Waiter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Waiter{}, ErrNameRequired
	}
	var waiter models.Waiter
	err := s.db.Do(func(db *gorm.DB) error {
		if err := db.WithContext(ctx).First(&waiter, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWaiterNotFound
			}
			return err
		}
		waiter.Name = name
		return db.WithContext(ctx).Save(&waiter).Error
	})
	if err != nil {
		return models.Waiter{}, err
	}
	return waiter, nil
}

// Delete melepas waiter dari reservasinya (waiter_id = NULL), menghapus
// riwayat check-in, lalu menghapus waiter
func (s *WaiterService) Delete(ctx context.Context, id uint) error {
	return s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Reservation{}).
				Where("waiter_id = ?", id).
				Update("waiter_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("waiter_id = ?", id).Delete(&models.Shift{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Waiter{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrWaiterNotFound
			}
			return nil
		})
	})
}
