package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservations/models"
)

func reservationBody(table int, slot, name string) map[string]interface{} {
	return map[string]interface{}{
		"table_number":  table,
		"time_slot":     slot,
		"customer_name": name,
		"phone_number":  "+359 888 123 456",
	}
}

func TestReservationLifecycle(t *testing.T) {
	app := setupApp(t)

	w, env := app.do(t, http.MethodPost, "/reservations", reservationBody(5, "2025-06-01 14:00", "Ana"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Reservation created successfully", env.Message)
	var created models.Reservation
	decode(t, env.Data, &created)
	assert.Equal(t, models.StatusReserved, created.Status)

	w, env = app.do(t, http.MethodPost, "/reservations", reservationBody(5, "2025-06-01 14:30", "Boris"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Status)

	w, _ = app.do(t, http.MethodPost, "/reservations", reservationBody(5, "2025-06-01 15:30", "Boris"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = app.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Reservation
	decode(t, env.Data, &got)
	assert.Equal(t, "Ana", got.CustomerName)

	update := reservationBody(5, "2025-06-01 13:30", "Ana P.")
	w, env = app.do(t, http.MethodPut, fmt.Sprintf("/reservations/%d", created.ID), update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &got)
	assert.Equal(t, "2025-06-01 13:30", got.TimeSlot)
	assert.Equal(t, models.StatusReserved, got.Status)

	w, env = app.do(t, http.MethodDelete, fmt.Sprintf("/reservations/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &got)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// cancel kedua kali tetap sukses
	w, _ = app.do(t, http.MethodDelete, fmt.Sprintf("/reservations/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodPost, "/reservations", reservationBody(5, "2025-06-01 14:30", "Boris"))
	assert.Equal(t, http.StatusConflict, w.Code, "15:30 reservation still blocks 14:30")
	w, _ = app.do(t, http.MethodPost, "/reservations", reservationBody(5, "2025-06-01 14:00", "Boris"))
	assert.Equal(t, http.StatusCreated, w.Code, "freed by cancellation")
}

func TestReservationValidation(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"malformed slot", http.MethodPost, "/reservations", reservationBody(1, "2025-06-01 9:30", "Ana"), http.StatusBadRequest},
		{"missing name", http.MethodPost, "/reservations", reservationBody(1, "2025-06-01 09:30", ""), http.StatusBadRequest},
		{"not json", http.MethodPost, "/reservations", "plain", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/reservations/abc", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/reservations/999", nil, http.StatusNotFound},
		{"update unknown id", http.MethodPut, "/reservations/999", reservationBody(1, "2025-06-01 09:30", "Ana"), http.StatusNotFound},
		{"bad date filter", http.MethodGet, "/reservations?date=01.06.2025", nil, http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/reservations?status=Seated", nil, http.StatusBadRequest},
		{"bad table filter", http.MethodGet, "/reservations?table=five", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := app.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.False(t, env.Status)
		})
	}
}

func TestGetReservationsForContext(t *testing.T) {
	app := setupApp(t)
	for _, b := range []map[string]interface{}{
		reservationBody(5, "2025-05-31 23:50", "Late"),
		reservationBody(3, "2025-06-01 21:00", "Dinner"),
		reservationBody(4, "2025-06-01 12:00", "Lunch"),
		reservationBody(5, "2025-06-01 19:00", "Now"),
	} {
		w, _ := app.do(t, http.MethodPost, "/reservations", b)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := app.do(t, http.MethodGet, "/reservations?date=2025-06-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Reservation
	decode(t, env.Data, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "Lunch", list[0].CustomerName)
	assert.Equal(t, "Dinner", list[2].CustomerName)

	w, env = app.do(t, http.MethodGet, "/reservations?date=2025-06-01&time=19:50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Now", list[0].CustomerName)

	// jam tanpa tanggal memakai tanggal hari ini
	w, env = app.do(t, http.MethodGet, "/reservations?time=20:00&table=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Dinner", list[0].CustomerName)

	w, env = app.do(t, http.MethodGet, "/reservations?status=Cancelled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	assert.Empty(t, list)
}
