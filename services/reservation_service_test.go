package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservations/events"
	"github.com/yeremiapane/table-reservations/models"
	"github.com/yeremiapane/table-reservations/utils"
)

func TestCreateAdjacentReservationsDoNotConflict(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, input(5, "2025-06-01 14:00", "Ana"))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, models.StatusReserved, first.Status)

	_, err = svc.Create(ctx, input(5, "2025-06-01 15:30", "Boris"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input(5, "2025-06-01 12:30", "Cvetan"))
	require.NoError(t, err, "ends exactly when the 14:00 reservation starts")
}

func TestCreateAcrossDaylightSavingChange(t *testing.T) {
	sofia, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)
	old := time.Local
	time.Local = sofia
	t.Cleanup(func() { time.Local = old })

	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	_, err = svc.Create(ctx, input(5, "2025-03-30 02:00", "Ana"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input(5, "2025-03-30 04:00", "Boris"))
	require.NoError(t, err, "02:00 reservation ends at 03:30 on the wall clock")

	// 03:30 tidak ada di jam lokal Sofia hari itu, tapi tetap slot yang sah
	gap, err := svc.Create(ctx, input(6, "2025-03-30 03:30", "Cvetan"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-30 03:30", gap.TimeSlot)

	_, err = svc.Create(ctx, input(5, "2025-03-30 03:00", "Dimitar"))
	assert.ErrorIs(t, err, ErrReservationConflict)
}

func TestCreateRejectsOverlapWithoutWriting(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, input(5, "2025-06-01 14:00", "Ana"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input(5, "2025-06-01 14:30", "Boris"))
	assert.ErrorIs(t, err, ErrReservationConflict)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)

	// meja lain di jam yang sama boleh
	_, err = svc.Create(ctx, input(6, "2025-06-01 14:30", "Boris"))
	assert.NoError(t, err)
}

func TestCancelFreesTheTable(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, input(5, "2025-06-01 14:00", "Ana"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input(5, "2025-06-01 14:30", "Boris"))
	require.ErrorIs(t, err, ErrReservationConflict)

	require.NoError(t, svc.Cancel(ctx, first.ID))

	second, err := svc.Create(ctx, input(5, "2025-06-01 14:30", "Boris"))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// tidak pernah dihapus secara fisik
	cancelled, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, input(3, "2025-06-01 19:00", "Dora"))
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, res.ID))
	require.NoError(t, svc.Cancel(ctx, res.ID))

	got, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	assert.NoError(t, svc.Cancel(ctx, 9999), "unknown id is ignored")
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ReservationInput
		want error
	}{
		{"malformed slot", input(1, "2025-06-01 9:30", "Ana"), ErrInvalidTimeSlot},
		{"empty slot", input(1, "", "Ana"), ErrInvalidTimeSlot},
		{"zero table", input(0, "2025-06-01 09:30", "Ana"), ErrInvalidReservation},
		{"blank name", input(1, "2025-06-01 09:30", "   "), ErrInvalidReservation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateSkipsMalformedStoredRows(t *testing.T) {
	h := newTestDB(t)
	svc := NewReservationService(h, nil)
	ctx := context.Background()

	insertRaw(t, h, models.Reservation{TableNumber: 5, TimeSlot: "01/06/2025 14:00", CustomerName: "Legacy", Status: models.StatusReserved})

	_, err := svc.Create(ctx, input(5, "2025-06-01 14:00", "Ana"))
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, input(5, "2025-06-01 14:00", "Ana"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, input(5, "2025-06-01 16:00", "Boris"))
	require.NoError(t, err)

	t.Run("moving within its own window does not conflict with itself", func(t *testing.T) {
		in := input(5, "2025-06-01 14:15", "Ana Petrova")
		in.PhoneNumber = "+359 888 000 000"
		in.AdditionalInfo = "window seat"
		got, err := svc.Update(ctx, a.ID, in, models.StatusReserved)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-01 14:15", got.TimeSlot)
		assert.Equal(t, "Ana Petrova", got.CustomerName)
		assert.Equal(t, "window seat", got.AdditionalInfo)
	})

	t.Run("overlap with another reservation is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, input(5, "2025-06-01 15:00", "Ana"), models.StatusReserved)
		assert.ErrorIs(t, err, ErrReservationConflict)

		got, err := svc.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-01 14:15", got.TimeSlot, "no partial write")
		assert.Equal(t, "Ana Petrova", got.CustomerName)
	})

	t.Run("cancelling skips the overlap check", func(t *testing.T) {
		got, err := svc.Update(ctx, a.ID, input(5, "2025-06-01 16:30", "Ana"), models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, got.Status)
	})

	t.Run("reactivating re-checks overlap", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, input(5, "2025-06-01 16:30", "Ana"), models.StatusReserved)
		assert.ErrorIs(t, err, ErrReservationConflict)
	})

	t.Run("moving to another table", func(t *testing.T) {
		got, err := svc.Update(ctx, b.ID, input(8, "2025-06-01 16:00", "Boris"), models.StatusReserved)
		require.NoError(t, err)
		assert.Equal(t, 8, got.TableNumber)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, 4242, input(5, "2025-06-01 10:00", "Nobody"), models.StatusReserved)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.Update(ctx, b.ID, input(8, "2025-06-01 16:00", "Boris"), models.ReservationStatus("Seated"))
		assert.ErrorIs(t, err, ErrInvalidReservation)
	})

	t.Run("malformed slot", func(t *testing.T) {
		_, err := svc.Update(ctx, b.ID, input(8, "tomorrow", "Boris"), models.StatusReserved)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})
}

func TestUpdateClearsWaiter(t *testing.T) {
	h := newTestDB(t)
	svc := NewReservationService(h, nil)
	waiters := NewWaiterService(h)
	ctx := context.Background()

	w, err := waiters.Create(ctx, "Ivan")
	require.NoError(t, err)

	in := input(2, "2025-06-01 12:00", "Ana")
	in.WaiterID = &w.ID
	res, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, res.WaiterID)

	in.WaiterID = nil
	got, err := svc.Update(ctx, res.ID, in, models.StatusReserved)
	require.NoError(t, err)
	assert.Nil(t, got.WaiterID)
}

func assertNoDoubleBooking(t *testing.T, all []models.Reservation) {
	t.Helper()
	byTable := map[int][]models.Reservation{}
	for _, r := range all {
		if r.Status == models.StatusReserved {
			byTable[r.TableNumber] = append(byTable[r.TableNumber], r)
		}
	}
	for table, list := range byTable {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a := slot(t, list[i].TimeSlot)
				b := slot(t, list[j].TimeSlot)
				require.False(t,
					utils.Overlaps(a, utils.ReservationEnd(a), b, utils.ReservationEnd(b)),
					"table %d: %s overlaps %s", table, list[i].TimeSlot, list[j].TimeSlot)
			}
		}
	}
}

func TestRandomWritesNeverDoubleBook(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	randomSlot := func() string {
		hour := 10 + rng.Intn(12)
		minute := rng.Intn(4) * 15
		return fmt.Sprintf("2025-06-0%d %02d:%02d", 1+rng.Intn(2), hour, minute)
	}

	var ids []uint
	accepted, rejected := 0, 0
	for i := 0; i < 200; i++ {
		switch op := rng.Intn(10); {
		case op < 6 || len(ids) == 0:
			res, err := svc.Create(ctx, input(1+rng.Intn(3), randomSlot(), "Guest"))
			if err == nil {
				ids = append(ids, res.ID)
				accepted++
			} else {
				require.ErrorIs(t, err, ErrReservationConflict)
				rejected++
			}
		case op < 9:
			id := ids[rng.Intn(len(ids))]
			status := models.StatusReserved
			if rng.Intn(4) == 0 {
				status = models.StatusCancelled
			}
			_, err := svc.Update(ctx, id, input(1+rng.Intn(3), randomSlot(), "Guest"), status)
			if err != nil {
				require.ErrorIs(t, err, ErrReservationConflict)
			}
		default:
			require.NoError(t, svc.Cancel(ctx, ids[rng.Intn(len(ids))]))
		}

		all, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assertNoDoubleBooking(t, all)
	}
	assert.Positive(t, accepted)
	assert.Positive(t, rejected)
}

func TestConcurrentCreatesForSameSlot(t *testing.T) {
	svc := NewReservationService(newTestDB(t), nil)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, input(9, "2025-06-01 20:00", fmt.Sprintf("Guest %d", i)))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWritesPublishEventsAndNotify(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewReservationService(newTestDB(t), pub)
	changes := 0
	svc.OnChange(func() { changes++ })
	ctx := context.Background()

	res, err := svc.Create(ctx, input(4, "2025-06-01 18:00", "Ana"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, res.ID, input(4, "2025-06-01 18:30", "Ana"), models.StatusReserved)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, res.ID))
	_, err = svc.Create(ctx, input(4, "bad", "Ana"))
	require.Error(t, err)
	require.NoError(t, svc.Cancel(ctx, 777))

	assert.Equal(t, []events.Action{events.ActionCreated, events.ActionUpdated, events.ActionCancelled}, pub.actions())
	assert.Equal(t, 3, changes)
	assert.Equal(t, models.StatusCancelled, pub.events[2].Reservation.Status)
}

// slowPublisher menahan publish pertama sampai release ditutup
type slowPublisher struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *slowPublisher) Publish(_ context.Context, _ events.Event) error {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	return nil
}

func (p *slowPublisher) Close() error { return nil }

func TestSlowPublisherDoesNotBlockOtherWrites(t *testing.T) {
	pub := &slowPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewReservationService(newTestDB(t), pub)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Create(ctx, input(1, "2025-06-01 18:00", "Ana"))
		firstDone <- err
	}()
	<-pub.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := svc.Create(ctx, input(2, "2025-06-01 18:00", "Boris"))
		secondDone <- err
	}()

	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(pub.release)
		t.Fatal("second create waited for the first event to be published")
	}

	close(pub.release)
	require.NoError(t, <-firstDone)
}
