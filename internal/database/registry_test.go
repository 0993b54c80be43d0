package database

import (
	"context"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureMySQL_Idempotent(t *testing.T) {
	reg := NewRegistry()
	ConfigureMySQL(reg, "user:pass@tcp(db-1:3306)/shop")
	ConfigureMySQL(reg, "user:pass@tcp(db-1:3306)/shop")

	opts := reg.Options()
	assert.True(t, opts.IsConfigured())
	assert.Equal(t, DriverMySQL, opts.Driver())
	assert.Equal(t, "user:pass@tcp(db-1:3306)/shop", opts.DSN())
}

func TestConfigureMySQL_KeepsEarlierConfiguration(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddPersistence(func(o *Options) { o.UseSQLite(":memory:") }))
	ConfigureMySQL(reg, "user:pass@tcp(db-1:3306)/shop")

	opts := reg.Options()
	assert.Equal(t, DriverSQLite, opts.Driver())
	assert.Equal(t, ":memory:", opts.DSN())

	ctx := context.Background()
	require.NoError(t, reg.Migrate(ctx))
	t.Cleanup(func() { _ = reg.Close() })

	pc, err := reg.Persistence(ctx)
	require.NoError(t, err)
	defer pc.Close()
	assert.Equal(t, DriverSQLite, pc.Driver())

	var n int
	require.NoError(t, pc.Conn().QueryRowxContext(ctx, `SELECT COUNT(*) FROM shows`).Scan(&n))
	assert.Zero(t, n)
}

func TestConfigureMySQL_DoesNotValidateUntilFirstUse(t *testing.T) {
	reg := NewRegistry()
	ConfigureMySQL(reg, "definitely not a dsn")
	assert.True(t, reg.Options().IsConfigured())

	_, err := reg.Persistence(context.Background())
	require.Error(t, err)
}

func TestRegistry_NotConfigured(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Persistence(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, reg.Ping(context.Background()), ErrNotConfigured)
	assert.NoError(t, reg.Close())
}

func TestRegistry_MigrateTwice(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddPersistence(func(o *Options) { o.UseSQLite(":memory:") }))
	t.Cleanup(func() { _ = reg.Close() })

	ctx := context.Background()
	require.NoError(t, reg.Migrate(ctx))
	require.NoError(t, reg.Migrate(ctx))
	require.NoError(t, reg.Ping(ctx))
}

func TestRegistry_ConfigurationEndsAtFirstUse(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddPersistence(func(o *Options) { o.UseSQLite(":memory:") }))
	t.Cleanup(func() { _ = reg.Close() })
	require.NoError(t, reg.Ping(context.Background()))

	err := reg.AddPersistence(func(o *Options) { o.UseMySQL("user:pass@tcp(db-1:3306)/shop") })
	assert.ErrorIs(t, err, ErrAlreadyOpen)
	ConfigureMySQL(reg, "user:pass@tcp(db-1:3306)/shop")
	assert.Equal(t, DriverSQLite, reg.Options().Driver())
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN("shop", "s3cret", "db.internal", "3306", "ticketshop")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.internal:3306", cfg.Addr)
	assert.Equal(t, "ticketshop", cfg.DBName)
	assert.False(t, cfg.ParseTime)
}
