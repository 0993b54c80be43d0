package database

import (
	"context"
	"embed"
	"strings"

	"github.com/pkg/errors"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Migrate creates the tables the application needs, using the DDL for
// the context's driver.  Every statement is idempotent.
func Migrate(ctx context.Context, pc *Context) error {
	ddl, err := schemaFiles.ReadFile("schema/" + pc.Driver() + ".sql")
	if err != nil {
		return errors.Wrapf(err, "no schema for driver %q", pc.Driver())
	}
	for _, stmt := range strings.Split(string(ddl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pc.Conn().ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "apply schema statement %.40q", stmt)
		}
	}
	return nil
}

// Migrate opens a short-lived context and applies the schema.
func (r *Registry) Migrate(ctx context.Context) error {
	pc, err := r.Persistence(ctx)
	if err != nil {
		return err
	}
	defer pc.Close()
	return Migrate(ctx, pc)
}
