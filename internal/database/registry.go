// Package database owns the persistence context: which store the
// application talks to, how the connection pool is opened, and how a
// unit of work obtains its own connection.
package database

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// ErrNotConfigured is returned when a context is requested from a
// registry whose options never selected a backend.
var ErrNotConfigured = errors.New("persistence is not configured")

// Registry collects persistence registrations at startup and hands out
// one Context per unit of work afterwards.  The pool is opened lazily on
// the first request for a context.
type Registry struct {
	mu          sync.Mutex
	configurers []func(*Options)
	opts        *Options
	db          *sqlx.DB
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// ErrAlreadyOpen is returned by AddPersistence once the pool is open.
var ErrAlreadyOpen = errors.New("persistence already in use")

// AddPersistence records a function that configures the persistence
// options.  Configurers run in registration order when the options are
// first built, so an earlier registration (for example a test harness
// selecting SQLite) is visible to later ones.  Configuration ends when
// the pool is first opened; later registrations are rejected with
// ErrAlreadyOpen.
func (r *Registry) AddPersistence(configure func(*Options)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return ErrAlreadyOpen
	}
	r.configurers = append(r.configurers, configure)
	r.opts = nil // rebuild on next use
	return nil
}

// Options returns a copy of the effective options.
func (r *Registry) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.buildOptions()
}

func (r *Registry) buildOptions() *Options {
	if r.opts != nil {
		return r.opts
	}
	opts := &Options{}
	for _, configure := range r.configurers {
		configure(opts)
	}
	r.opts = opts
	return opts
}

// DB returns the shared pool, opening it on first call.  sqlx.Open does
// not dial, so an unreachable server is reported by the first query.
func (r *Registry) DB() (*sqlx.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return r.db, nil
	}
	opts := r.buildOptions()
	if !opts.IsConfigured() {
		return nil, ErrNotConfigured
	}
	db, err := sqlx.Open(opts.driver, opts.dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s pool", opts.driver)
	}
	db.SetMaxOpenConns(opts.maxOpenConns)
	db.SetMaxIdleConns(opts.maxIdleConns)
	db.SetConnMaxLifetime(opts.connMaxLifetime)
	r.db = db
	return db, nil
}

// Persistence returns a new Context bound to one pooled connection.
// The caller owns the Context and must Close it.
func (r *Registry) Persistence(ctx context.Context) (*Context, error) {
	db, err := r.DB()
	if err != nil {
		return nil, err
	}
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection")
	}
	return &Context{conn: conn, driver: db.DriverName()}, nil
}

// Ping verifies the store is reachable.
func (r *Registry) Ping(ctx context.Context) error {
	db, err := r.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close closes the pool if it was ever opened.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}
