package services

import (
	"context"
	"sort"
	"time"

	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
)

// ReservationLister -> sumber data untuk query dan denah meja
type ReservationLister interface {
	ListAll(ctx context.Context) ([]models.Reservation, error)
}

// ReservationFilter: semua field opsional (nil = tidak difilter)
type ReservationFilter struct {
	Date   *time.Time
	Time   *time.Time
	Status *models.ReservationStatus
	Table  *int
}

type ReservationQueryService struct {
	store ReservationLister
}

func NewReservationQueryService(store ReservationLister) *ReservationQueryService {
	return &ReservationQueryService{store: store}
}

type parsedReservation struct {
	res   models.Reservation
	start time.Time
}

// ListForContext mengembalikan reservasi untuk tampilan tertentu, urut dari
// yang paling awal.
//
// Tanggal dibandingkan dengan tanggal mulai saja: reservasi 23:50 tidak muncul
// di hari berikutnya walaupun intervalnya lewat tengah malam. Jika Time diisi,
// hanya reservasi yang sedang berjalan atau mulai pada atau setelah Time yang tampil.
func (q *ReservationQueryService) ListForContext(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	all, err := q.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]parsedReservation, 0, len(all))
	for _, res := range all {
		start, ok := utils.ParseTimeSlot(res.TimeSlot)
		if !ok {
			continue
		}
		if f.Date != nil && !utils.SameDate(start, *f.Date) {
			continue
		}
		if f.Time != nil {
			ongoing := utils.IsOngoing(start, utils.ReservationEnd(start), *f.Time)
			if !ongoing && start.Before(*f.Time) {
				continue
			}
		}
		if f.Status != nil && res.Status != *f.Status {
			continue
		}
		if f.Table != nil && res.TableNumber != *f.Table {
			continue
		}
		matched = append(matched, parsedReservation{res: res, start: start})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].start.Before(matched[j].start)
	})

	out := make([]models.Reservation, len(matched))
	for i, m := range matched {
		out[i] = m.res
	}
	return out, nil
}
