package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-reservations/database"
	"github.com/yeremiapane/table-reservations/events"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
	"gorm.io/gorm"
)

// ReservationInput -> field yang bisa diisi saat create/update
type ReservationInput struct {
	TableNumber    int    `json:"table_number"`
	TimeSlot       string `json:"time_slot"`
	CustomerName   string `json:"customer_name"`
	PhoneNumber    string `json:"phone_number"`
	AdditionalInfo string `json:"additional_info"`
	WaiterID       *uint  `json:"waiter_id"`
}

// parse memvalidasi input dan mengembalikan awal reservasi
func (in ReservationInput) parse() (time.Time, error) {
	start, ok := utils.ParseTimeSlot(in.TimeSlot)
	if !ok {
		return time.Time{}, ErrInvalidTimeSlot
	}
	if in.TableNumber <= 0 {
		return time.Time{}, fmt.Errorf("%w: table number must be positive", ErrInvalidReservation)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return time.Time{}, fmt.Errorf("%w: customer name is required", ErrInvalidReservation)
	}
	return start, nil
}

// ReservationService adalah satu-satunya jalur tulis ke tabel reservations.
// Create dan Update dijalankan satu per satu (mu) dan cek overlap + insert
// berada dalam satu transaksi, jadi dua request bersamaan untuk meja dan jam
// yang sama tidak bisa lolos berdua. Event dan onChange dikirim setelah mu
// dilepas.
type ReservationService struct {
	db        *database.Handle
	publisher events.Publisher

	mu       sync.Mutex
	onChange func()
}

func NewReservationService(db *database.Handle, publisher events.Publisher) *ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ReservationService{db: db, publisher: publisher}
}

// OnChange mendaftarkan callback setelah setiap penulisan berhasil (mis. refresh denah)
func (s *ReservationService) OnChange(fn func()) {
	s.onChange = fn
}

// Create menyimpan reservasi baru dengan status Reserved.
// Gagal dengan ErrReservationConflict jika interval 90 menitnya bertabrakan
// dengan reservasi Reserved lain di meja yang sama; tidak ada yang ditulis.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (models.Reservation, error) {
	start, err := in.parse()
	if err != nil {
		return models.Reservation{}, err
	}

	s.mu.Lock()

	res := models.Reservation{
		TableNumber:    in.TableNumber,
		TimeSlot:       in.TimeSlot,
		CustomerName:   in.CustomerName,
		PhoneNumber:    in.PhoneNumber,
		AdditionalInfo: in.AdditionalInfo,
		WaiterID:       in.WaiterID,
		Status:         models.StatusReserved,
	}

	err = s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := checkOverlap(tx, in.TableNumber, start, 0); err != nil {
				return err
			}
			return tx.Create(&res).Error
		})
	})
	s.mu.Unlock()
	if err != nil {
		return models.Reservation{}, err
	}

	utils.Info().WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"table":          res.TableNumber,
		"time_slot":      res.TimeSlot,
	}).Info("Reservation created")

	s.afterWrite(ctx, events.ActionCreated, res)
	return res, nil
}

// Update menimpa semua field reservasi. Cek overlap hanya dilakukan jika
// status hasilnya Reserved, dan reservasi itu sendiri tidak ikut dibandingkan.
func (s *ReservationService) Update(ctx context.Context, id uint, in ReservationInput, status models.ReservationStatus) (models.Reservation, error) {
	start, err := in.parse()
	if err != nil {
		return models.Reservation{}, err
	}
	if !status.Valid() {
		return models.Reservation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidReservation, status)
	}

	s.mu.Lock()

	var res models.Reservation
	err = s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&res, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReservationNotFound
				}
				return err
			}

			if status == models.StatusReserved {
				if err := checkOverlap(tx, in.TableNumber, start, id); err != nil {
					return err
				}
			}

			res.TableNumber = in.TableNumber
			res.TimeSlot = in.TimeSlot
			res.CustomerName = in.CustomerName
			res.PhoneNumber = in.PhoneNumber
			res.AdditionalInfo = in.AdditionalInfo
			res.WaiterID = in.WaiterID
			res.Status = status
			return tx.Save(&res).Error
		})
	})
	s.mu.Unlock()
	if err != nil {
		return models.Reservation{}, err
	}

	utils.Info().WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"table":          res.TableNumber,
		"time_slot":      res.TimeSlot,
		"status":         res.Status,
	}).Info("Reservation updated")

	s.afterWrite(ctx, events.ActionUpdated, res)
	return res, nil
}

// Cancel mengubah status menjadi Cancelled. Reservasi tidak pernah dihapus
// secara fisik. Aman dipanggil berulang; id yang tidak ada diabaikan.
func (s *ReservationService) Cancel(ctx context.Context, id uint) error {
	s.mu.Lock()

	var (
		res   models.Reservation
		found bool
	)
	err := s.db.Do(func(db *gorm.DB) error {
		result := db.WithContext(ctx).
			Model(&models.Reservation{}).
			Where("id = ?", id).
			Update("status", models.StatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true
		return db.WithContext(ctx).First(&res, id).Error
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if !found {
		utils.Info().WithField("reservation_id", id).Debug("Cancel ignored, reservation does not exist")
		return nil
	}

	utils.Info().WithField("reservation_id", id).Info("Reservation cancelled")
	s.afterWrite(ctx, events.ActionCancelled, res)
	return nil
}

// ListAll -> semua reservasi tanpa filter dan tanpa urutan tertentu
func (s *ReservationService) ListAll(ctx context.Context) ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id uint) (models.Reservation, error) {
	var res models.Reservation
	err := s.db.Do(func(db *gorm.DB) error {
		return db.WithContext(ctx).First(&res, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

func (s *ReservationService) afterWrite(ctx context.Context, action events.Action, res models.Reservation) {
	if err := s.publisher.Publish(ctx, events.NewEvent(action, res)); err != nil {
		utils.Error().WithFields(logrus.Fields{
			"reservation_id": res.ID,
			"action":         action,
		}).Errorf("Failed to publish reservation event: %v", err)
	}
	if s.onChange != nil {
		s.onChange()
	}
}

// checkOverlap membandingkan [start, start+90m) dengan semua reservasi Reserved
// di meja yang sama. excludeID = 0 berarti tidak ada yang dikecualikan.
// Baris dengan time_slot rusak dilewati.
func checkOverlap(tx *gorm.DB, table int, start time.Time, excludeID uint) error {
	query := tx.Where("table_number = ? AND status = ?", table, models.StatusReserved)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var existing []models.Reservation
	if err := query.Find(&existing).Error; err != nil {
		return err
	}

	end := utils.ReservationEnd(start)
	for _, other := range existing {
		otherStart, ok := utils.ParseTimeSlot(other.TimeSlot)
		if !ok {
			utils.Info().WithFields(logrus.Fields{
				"reservation_id": other.ID,
				"time_slot":      other.TimeSlot,
			}).Debug("Skipping reservation with malformed time slot")
			continue
		}
		if utils.Overlaps(start, end, otherStart, utils.ReservationEnd(otherStart)) {
			return fmt.Errorf("%w (reservation %d at %s)", ErrReservationConflict, other.ID, other.TimeSlot)
		}
	}
	return nil
}
