package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/ticket-shop/internal/database"
)

// withTx runs fn inside a transaction on the context's connection.  The
// transaction is committed when fn returns nil and rolled back otherwise.
func withTx(ctx context.Context, pc *database.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := pc.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
