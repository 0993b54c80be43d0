package database

import (
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// ConfigureMySQL registers the MySQL-backed persistence context.  When
// the options were already configured by an earlier registration the
// call leaves them untouched, so calling it twice, or after a test
// harness selected another store, is harmless.  Calling it after the
// pool was opened changes nothing and logs a warning.
func ConfigureMySQL(reg *Registry, connectionString string) {
	err := reg.AddPersistence(func(opts *Options) {
		if !opts.IsConfigured() {
			opts.UseMySQL(connectionString)
		}
	})
	if err != nil {
		logrus.WithError(err).Warn("mysql persistence registered after first use; ignored")
	}
}

// MySQLDSN assembles a DSN from its parts.  parseTime stays off so that
// DATETIME columns scan into strings laid out as "2006-01-02 15:04:05";
// loc=UTC keeps times consistent.
func MySQLDSN(user, pass, host, port, name string) string {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}
