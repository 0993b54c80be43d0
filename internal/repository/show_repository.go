// This file holds the repository for shows. A Show is one scheduled
// performance of an event.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides the ErrNoRows sentinel
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/ticket-shop/internal/database"
	"github.com/iliyamo/ticket-shop/internal/model"
)

// showColumns is the column list every SELECT on shows uses, in the
// order matching the db tags on model.Show.
const showColumns = `id, event_id, name, description, starts_at, available_tickets, price_cents, created_at, updated_at`

// ShowRepo manages persistence for shows within one persistence context.
type ShowRepo struct {
	pc *database.Context
}

// NewShowRepo constructs a ShowRepo bound to the given persistence context.
func NewShowRepo(pc *database.Context) *ShowRepo {
	return &ShowRepo{pc: pc}
}

// ListAll returns every show ordered by ID.  When no shows exist it
// returns an empty slice and nil error.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	shows := []model.Show{}
	const q = `SELECT ` + showColumns + ` FROM shows ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.pc.Conn(), &shows, q); err != nil {
		return nil, errors.Wrap(err, "list shows")
	}
	return shows, nil
}

// ListByEvent returns the shows of one event ordered by start time.
// An unknown event yields an empty slice.
func (r *ShowRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Show, error) {
	shows := []model.Show{}
	const q = `SELECT ` + showColumns + ` FROM shows WHERE event_id = ? ORDER BY starts_at, id`
	if err := sqlx.SelectContext(ctx, r.pc.Conn(), &shows, q, eventID); err != nil {
		return nil, errors.Wrapf(err, "list shows of event %d", eventID)
	}
	return shows, nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	return getShow(ctx, r.pc.Conn(), id)
}

// Create inserts a new show and populates the generated ID and the
// DB-default fields (created_at, updated_at) on the given struct.  The
// insert and the read-back share one transaction.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	return withTx(ctx, r.pc, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO shows (event_id, name, description, starts_at, available_tickets, price_cents)
                   VALUES (?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, s.EventID, s.Name, s.Description, s.StartsAt, s.AvailableTickets, s.PriceCents)
		if err != nil {
			return errors.Wrap(err, "insert show")
		}
		// Retrieve the auto-incremented ID assigned by the database.
		id, err := res.LastInsertId()
		if err != nil {
			return errors.Wrap(err, "read inserted show id")
		}
		fresh, err := getShow(ctx, tx, uint64(id))
		if err != nil {
			return err
		}
		*s = *fresh
		return nil
	})
}

// Update replaces every mutable column of the show identified by s.ID
// and reloads the row into s.  It returns ErrShowNotFound when no such
// show exists.
func (r *ShowRepo) Update(ctx context.Context, s *model.Show) error {
	return withTx(ctx, r.pc, func(tx *sqlx.Tx) error {
		const q = `UPDATE shows
                   SET event_id = ?, name = ?, description = ?, starts_at = ?, available_tickets = ?, price_cents = ?,
                       updated_at = CURRENT_TIMESTAMP
                   WHERE id = ?`
		if s.ID > math.MaxInt64 {
			return ErrShowNotFound
		}
		// MySQL reports zero affected rows when nothing changed, so the
		// read-back below decides whether the show exists.
		if _, err := tx.ExecContext(ctx, q, s.EventID, s.Name, s.Description, s.StartsAt, s.AvailableTickets, s.PriceCents, s.ID); err != nil {
			return errors.Wrapf(err, "update show %d", s.ID)
		}
		fresh, err := getShow(ctx, tx, s.ID)
		if err != nil {
			return err
		}
		*s = *fresh
		return nil
	})
}

// Delete removes a show and returns the row as it was before deletion.
// It returns ErrShowNotFound if the show does not exist.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) (*model.Show, error) {
	var deleted *model.Show
	err := withTx(ctx, r.pc, func(tx *sqlx.Tx) error {
		s, err := getShow(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id); err != nil {
			return errors.Wrapf(err, "delete show %d", id)
		}
		deleted = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// getShow loads one show.  IDs the drivers cannot bind (high bit set)
// can never have been assigned, so they are reported as not found.
func getShow(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Show, error) {
	if id > math.MaxInt64 {
		return nil, ErrShowNotFound
	}
	var s model.Show
	err := sqlx.GetContext(ctx, q, &s, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, errors.Wrapf(err, "get show %d", id)
	}
	return &s, nil
}
