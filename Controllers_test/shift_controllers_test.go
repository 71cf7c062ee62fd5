package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservations/models"
)

func TestShiftEndpoints(t *testing.T) {
	app := setupApp(t)

	w, env := app.do(t, http.MethodPost, "/waiters", map[string]interface{}{"name": "Maria"})
	require.Equal(t, http.StatusCreated, w.Code)
	var maria models.Waiter
	decode(t, env.Data, &maria)

	w, env = app.do(t, http.MethodPost, fmt.Sprintf("/waiters/%d/check-in", maria.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var shift models.Shift
	decode(t, env.Data, &shift)
	assert.Equal(t, "2025-06-01 19:50:00", shift.ShiftDate)
	assert.Equal(t, maria.ID, shift.WaiterID)

	w, _ = app.do(t, http.MethodPost, "/waiters/999/check-in", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.do(t, http.MethodPost, "/waiters/abc/check-in", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.do(t, http.MethodGet, "/shifts?date=2025-06-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Shift
	decode(t, env.Data, &list)
	require.Len(t, list, 1)
	assert.Equal(t, shift.ID, list[0].ID)

	w, env = app.do(t, http.MethodGet, "/shifts?date=2025-06-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	assert.Empty(t, list)

	w, _ = app.do(t, http.MethodGet, "/shifts?date=June", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
