package repository

import (
	"context"
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/ticket-shop/internal/database"
	"github.com/iliyamo/ticket-shop/internal/model"
)

// EventRepo manages persistence for events.  Shows reference events by
// ID, so handlers use it to check that an event exists before writing.
type EventRepo struct {
	pc *database.Context
}

// NewEventRepo constructs an EventRepo bound to the given persistence context.
func NewEventRepo(pc *database.Context) *EventRepo {
	return &EventRepo{pc: pc}
}

// Create inserts a new event and fills in its ID and created_at.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	return withTx(ctx, r.pc, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO events (name) VALUES (?)`, e.Name)
		if err != nil {
			return errors.Wrap(err, "insert event")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.Wrap(err, "read inserted event id")
		}
		fresh, err := getEvent(ctx, tx, uint64(id))
		if err != nil {
			return err
		}
		*e = *fresh
		return nil
	})
}

// GetByID retrieves an event by ID or returns ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	return getEvent(ctx, r.pc.Conn(), id)
}

// ListAll returns all events ordered by ID.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	if err := sqlx.SelectContext(ctx, r.pc.Conn(), &events, `SELECT id, name, created_at FROM events ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	return events, nil
}

func getEvent(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Event, error) {
	if id > math.MaxInt64 {
		return nil, ErrEventNotFound
	}
	var e model.Event
	err := sqlx.GetContext(ctx, q, &e, `SELECT id, name, created_at FROM events WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, errors.Wrapf(err, "get event %d", id)
	}
	return &e, nil
}
