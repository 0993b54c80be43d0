package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Context is the persistence context of a single unit of work (usually
// one HTTP request).  It holds a dedicated connection from the pool and
// is not safe for concurrent use.
type Context struct {
	conn   *sqlx.Conn
	driver string
}

// Conn returns the connection owned by this context.
func (c *Context) Conn() *sqlx.Conn { return c.conn }

// Driver returns the driver name of the underlying pool.
func (c *Context) Driver() string { return c.driver }

// BeginTx starts a transaction on the context's connection.
func (c *Context) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return c.conn.BeginTxx(ctx, nil)
}

// Close returns the connection to the pool.
func (c *Context) Close() error {
	return c.conn.Close()
}
