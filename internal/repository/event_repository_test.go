package repository_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-shop/internal/model"
	"github.com/iliyamo/ticket-shop/internal/repository"
	"github.com/iliyamo/ticket-shop/internal/testutil"
)

func TestEventRepo(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewContext(t, testutil.NewRegistry(t))
	repo := repository.NewEventRepo(pc)

	e := model.Event{Name: "Rock am Ring"}
	require.NoError(t, repo.Create(ctx, &e))
	assert.NotZero(t, e.ID)
	assert.NotEmpty(t, e.CreatedAt)

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, *got)

	_, err = repo.GetByID(ctx, e.ID+1)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
	_, err = repo.GetByID(ctx, math.MaxUint64)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Event{e}, all)
}
