package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticket-shop/internal/database"
	"github.com/iliyamo/ticket-shop/internal/model"
)

// NewRegistry returns a registry backed by a private in-memory SQLite
// store with the schema applied.  The production MySQL registration is
// added afterwards, the same way cmd/server does it; it must be skipped.
func NewRegistry(t *testing.T) *database.Registry {
	t.Helper()
	reg := database.NewRegistry()
	require.NoError(t, reg.AddPersistence(func(o *database.Options) { o.UseSQLite(":memory:") }))
	database.ConfigureMySQL(reg, "root@tcp(127.0.0.1:3306)/unused")

	require.NoError(t, reg.Migrate(context.Background()))
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

// NewContext opens a persistence context that is closed with the test.
func NewContext(t *testing.T, reg *database.Registry) *database.Context {
	t.Helper()
	pc, err := reg.Persistence(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })
	return pc
}

// InsertEvent creates an event row and returns its ID.
func InsertEvent(t *testing.T, pc *database.Context, name string) uint64 {
	t.Helper()
	res, err := pc.Conn().ExecContext(context.Background(), `INSERT INTO events (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// NewShow returns a valid, unsaved show for the given event.
func NewShow(eventID uint64, name string) model.Show {
	return model.Show{
		EventID:          eventID,
		Name:             name,
		StartsAt:         "2025-06-01 19:30:00",
		AvailableTickets: 120,
		PriceCents:       4500,
	}
}
