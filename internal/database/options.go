package database

import "time"

// Driver names registered by the blank imports in registry.go.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options describes how the persistence context reaches its store.  A
// zero Options is unconfigured; the first Use* call picks the backend.
type Options struct {
	driver          string
	dsn             string
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// IsConfigured reports whether a backend has already been chosen.
func (o Options) IsConfigured() bool {
	return o.driver != ""
}

// Driver returns the database/sql driver name, empty when unconfigured.
func (o Options) Driver() string { return o.driver }

// DSN returns the connection string handed to the driver.
func (o Options) DSN() string { return o.dsn }

// UseMySQL binds the options to a MySQL server.  The DSN is not parsed
// or dialled here; problems surface on first use.
func (o *Options) UseMySQL(dsn string) *Options {
	o.driver = DriverMySQL
	o.dsn = dsn
	// Pool settings
	o.maxOpenConns = 25
	o.maxIdleConns = 25
	o.connMaxLifetime = 30 * time.Minute
	return o
}

// UseSQLite binds the options to a SQLite database.  ":memory:" gives a
// private in-memory store, which is what the tests use.  The pool is
// pinned to a single connection so an in-memory database survives for
// the lifetime of the registry.
func (o *Options) UseSQLite(dsn string) *Options {
	o.driver = DriverSQLite
	o.dsn = dsn
	o.maxOpenConns = 1
	o.maxIdleConns = 1
	o.connMaxLifetime = 0
	return o
}
