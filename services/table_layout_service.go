package services

import (
	"context"
	"time"

	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
)

// LayoutQuery -> konteks tampilan denah. Time dan Date opsional.
type LayoutQuery struct {
	Time               *time.Time
	Date               *time.Time
	NumTables          int
	IncludeReservation bool
}

type LayoutSummary struct {
	Total    int `json:"total"`
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
	Soon     int `json:"soon_30"`
}

type TableLayoutService struct {
	store         ReservationLister
	clock         utils.Clock
	defaultTables int
}

func NewTableLayoutService(store ReservationLister, clock utils.Clock, defaultTables int) *TableLayoutService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &TableLayoutService{store: store, clock: clock, defaultTables: defaultTables}
}

type tableMark struct {
	start time.Time
	res   models.Reservation
}

// ComputeStates mengklasifikasikan meja 1..N menjadi free, occupied atau soon_30.
// Hasilnya selalu berisi tepat N entri. Occupied selalu menang atas soon_30.
//
// Tanpa Time, reservasi dianggap occupied hanya jika mulai pada atau setelah
// jam sekarang; reservasi yang sudah berjalan tidak ditandai.
func (s *TableLayoutService) ComputeStates(ctx context.Context, q LayoutQuery) (map[int]models.TableStatus, error) {
	n := q.NumTables
	if n <= 0 {
		n = s.defaultTables
	}

	states := make(map[int]models.TableStatus, n)
	for i := 1; i <= n; i++ {
		states[i] = models.TableStatus{TableNumber: i, State: models.TableFree}
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	occupied := map[int]tableMark{}
	soon := map[int]tableMark{}
	var now time.Time
	if q.Time == nil {
		now = s.clock.Now()
	}

	for _, res := range all {
		if res.Status != models.StatusReserved {
			continue
		}
		start, ok := utils.ParseTimeSlot(res.TimeSlot)
		if !ok {
			continue
		}
		if q.Date != nil && !utils.SameDate(start, *q.Date) {
			continue
		}
		// meja di luar 1..N tidak ada di denah
		if res.TableNumber < 1 || res.TableNumber > n {
			continue
		}

		mark := tableMark{start: start, res: res}
		if q.Time != nil {
			at := *q.Time
			if utils.IsOngoing(start, utils.ReservationEnd(start), at) {
				occupied[res.TableNumber] = mark
			} else if _, taken := occupied[res.TableNumber]; !taken && utils.IsStartingSoon(start, at, utils.SoonThreshold) {
				soon[res.TableNumber] = mark
			}
			continue
		}

		if !start.Before(now) {
			occupied[res.TableNumber] = mark
		}
	}

	for table, mark := range occupied {
		states[table] = markStatus(table, models.TableOccupied, mark, q.IncludeReservation)
	}
	for table, mark := range soon {
		if states[table].State == models.TableFree {
			states[table] = markStatus(table, models.TableSoon30, mark, q.IncludeReservation)
		}
	}
	return states, nil
}

func markStatus(table int, state models.TableState, mark tableMark, include bool) models.TableStatus {
	start := mark.start
	st := models.TableStatus{TableNumber: table, State: state, Start: &start}
	if include {
		res := mark.res
		st.Reservation = &res
	}
	return st
}

// Summary -> jumlah meja per state
func Summary(states map[int]models.TableStatus) LayoutSummary {
	sum := LayoutSummary{Total: len(states)}
	for _, st := range states {
		switch st.State {
		case models.TableOccupied:
			sum.Occupied++
		case models.TableSoon30:
			sum.Soon++
		default:
			sum.Free++
		}
	}
	return sum
}
