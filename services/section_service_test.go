package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservations/models"
)

func TestSectionsDefaultLayout(t *testing.T) {
	sections := NewSectionService(newTestDB(t))

	list, err := sections.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Main hall", list[0].Name)
	assert.Len(t, list[0].TableNumbers, 20)
	assert.Equal(t, 1, list[0].TableNumbers[0])
	assert.Equal(t, []int{36, 37}, list[2].TableNumbers[:2])
}

func TestSectionCreateRenameDelete(t *testing.T) {
	sections := NewSectionService(newTestDB(t))
	ctx := context.Background()

	terrace, err := sections.Create(ctx, "Terrace", 4)
	require.NoError(t, err)
	assert.NotZero(t, terrace.ID)

	_, err = sections.Create(ctx, "Terrace", 5)
	assert.ErrorIs(t, err, ErrSectionExists)
	_, err = sections.Create(ctx, "  ", 5)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = sections.Rename(ctx, terrace.ID, "Garden")
	assert.ErrorIs(t, err, ErrSectionExists)
	renamed, err := sections.Rename(ctx, terrace.ID, "Roof terrace")
	require.NoError(t, err)
	assert.Equal(t, "Roof terrace", renamed.Name)
	_, err = sections.Rename(ctx, 999, "Nowhere")
	assert.ErrorIs(t, err, ErrSectionNotFound)

	require.NoError(t, sections.AssignTables(ctx, terrace.ID, []int{51, 52}))
	require.NoError(t, sections.Delete(ctx, terrace.ID))
	assert.ErrorIs(t, sections.Delete(ctx, terrace.ID), ErrSectionNotFound)

	list, err := sections.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestAssignTablesMovesBetweenSections(t *testing.T) {
	sections := NewSectionService(newTestDB(t))
	ctx := context.Background()

	terrace, err := sections.Create(ctx, "Terrace", 4)
	require.NoError(t, err)

	// meja 1 dan 2 pindah dari Main hall
	require.NoError(t, sections.AssignTables(ctx, terrace.ID, []int{2, 1, 51, 2}))

	list, err := sections.List(ctx)
	require.NoError(t, err)
	byName := map[string][]int{}
	for _, s := range list {
		byName[s.Name] = s.TableNumbers
	}
	assert.Equal(t, []int{1, 2, 51}, byName["Terrace"])
	assert.Len(t, byName["Main hall"], 18)
	assert.NotContains(t, byName["Main hall"], 1)

	// daftar baru menggantikan yang lama
	require.NoError(t, sections.AssignTables(ctx, terrace.ID, []int{60}))
	list, err = sections.List(ctx)
	require.NoError(t, err)
	for _, s := range list {
		if s.Name == "Terrace" {
			assert.Equal(t, []int{60}, s.TableNumbers)
		}
	}

	assert.ErrorIs(t, sections.AssignTables(ctx, terrace.ID, []int{0}), ErrInvalidTable)
	assert.ErrorIs(t, sections.AssignTables(ctx, 999, []int{1}), ErrSectionNotFound)
}

func TestWaiters(t *testing.T) {
	h := newTestDB(t)
	waiters := NewWaiterService(h)
	store := NewReservationService(h, nil)
	ctx := context.Background()

	ivan, err := waiters.Create(ctx, "Ivan")
	require.NoError(t, err)
	_, err = waiters.Create(ctx, "Asen")
	require.NoError(t, err)
	_, err = waiters.Create(ctx, "")
	assert.ErrorIs(t, err, ErrNameRequired)

	list, err := waiters.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Asen", list[0].Name)

	renamed, err := waiters.Rename(ctx, ivan.ID, "Ivan P.")
	require.NoError(t, err)
	assert.Equal(t, "Ivan P.", renamed.Name)
	_, err = waiters.Rename(ctx, 999, "Ghost")
	assert.ErrorIs(t, err, ErrWaiterNotFound)

	in := input(3, "2025-06-01 20:00", "Ana")
	in.WaiterID = &ivan.ID
	res, err := store.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, waiters.Delete(ctx, ivan.ID))
	assert.ErrorIs(t, waiters.Delete(ctx, ivan.ID), ErrWaiterNotFound)

	got, err := store.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, got.WaiterID)
	assert.Equal(t, models.StatusReserved, got.Status)
}
