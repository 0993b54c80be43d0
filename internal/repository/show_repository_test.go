package repository_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-shop/internal/repository"
	"github.com/iliyamo/ticket-shop/internal/testutil"
)

func TestShowRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	eventID := testutil.InsertEvent(t, pc, "Summer Festival")
	repo := repository.NewShowRepo(pc)

	desc := "Opening night"
	s := testutil.NewShow(eventID, "Gala")
	s.Description = &desc
	require.NoError(t, repo.Create(ctx, &s))

	assert.NotZero(t, s.ID)
	assert.NotEmpty(t, s.CreatedAt)
	assert.NotEmpty(t, s.UpdatedAt)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, *got)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Opening night", *got.Description)
}

func TestShowRepo_GetByID_NotFound(t *testing.T) {
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	repo := repository.NewShowRepo(pc)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestShowRepo_Lists(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	e1 := testutil.InsertEvent(t, pc, "Opera")
	e2 := testutil.InsertEvent(t, pc, "Ballet")
	repo := repository.NewShowRepo(pc)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	late := testutil.NewShow(e1, "Late")
	late.StartsAt = "2025-06-02 21:00:00"
	early := testutil.NewShow(e1, "Early")
	early.StartsAt = "2025-06-02 18:00:00"
	other := testutil.NewShow(e2, "Other")
	require.NoError(t, repo.Create(ctx, &late))
	require.NoError(t, repo.Create(ctx, &early))
	require.NoError(t, repo.Create(ctx, &other))

	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byEvent, err := repo.ListByEvent(ctx, e1)
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	assert.Equal(t, "Early", byEvent[0].Name)
	assert.Equal(t, "Late", byEvent[1].Name)

	none, err := repo.ListByEvent(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestShowRepo_Update(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	eventID := testutil.InsertEvent(t, pc, "Jazz Week")
	repo := repository.NewShowRepo(pc)

	s := testutil.NewShow(eventID, "Matinee")
	require.NoError(t, repo.Create(ctx, &s))

	upd := s
	upd.Name = "Evening"
	upd.PriceCents = 6000
	upd.AvailableTickets = 80
	require.NoError(t, repo.Update(ctx, &upd))
	assert.Equal(t, s.ID, upd.ID)
	assert.Equal(t, "Evening", upd.Name)
	assert.Equal(t, uint32(6000), upd.PriceCents)
	assert.Equal(t, uint32(80), upd.AvailableTickets)

	// Same values again must not be reported as a missing row.
	require.NoError(t, repo.Update(ctx, &upd))

	missing := testutil.NewShow(eventID, "Ghost")
	missing.ID = 777
	assert.ErrorIs(t, repo.Update(ctx, &missing), repository.ErrShowNotFound)
}

func TestShowRepo_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	eventID := testutil.InsertEvent(t, pc, "Circus")
	repo := repository.NewShowRepo(pc)

	s := testutil.NewShow(eventID, "Finale")
	require.NoError(t, repo.Create(ctx, &s))

	deleted, err := repo.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, *deleted)

	_, err = repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)

	_, err = repo.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestShowRepo_CreateRejectsUnknownEvent(t *testing.T) {
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	repo := repository.NewShowRepo(pc)

	s := testutil.NewShow(12345, "Orphan")
	require.Error(t, repo.Create(context.Background(), &s))
	assert.Zero(t, s.ID)
}

func TestShowRepo_UnbindableIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	eventID := testutil.InsertEvent(t, pc, "Late Night")
	repo := repository.NewShowRepo(pc)

	for _, id := range []uint64{math.MaxInt64 + 1, math.MaxUint64} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrShowNotFound)

		_, err = repo.Delete(ctx, id)
		assert.ErrorIs(t, err, repository.ErrShowNotFound)

		s := testutil.NewShow(eventID, "Ghost")
		s.ID = id
		assert.ErrorIs(t, repo.Update(ctx, &s), repository.ErrShowNotFound)
	}
}
