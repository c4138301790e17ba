package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
)

// Table describes one table created at start-up. ForeignKeys are raw bun
// ForeignKey clauses; Indexes are extra CREATE INDEX statements.
type Table struct {
	Model       interface{}
	ForeignKeys []string
	Indexes     []Index
}

type Index struct {
	Name    string
	Columns []string
}

// RunMigrations creates missing tables in order. Parents must come before children.
func RunMigrations(ctx context.Context, db *bun.DB, tables ...Table) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range tables {
			q := tx.NewCreateTable().Model(table.Model).IfNotExists()
			for _, fk := range table.ForeignKeys {
				q = q.ForeignKey(fk)
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", table.Model, err)
			}

			for _, idx := range table.Indexes {
				_, err := tx.NewCreateIndex().
					Model(table.Model).
					Index(idx.Name).
					Column(idx.Columns...).
					IfNotExists().
					Exec(ctx)
				if err != nil {
					return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
				}
			}
		}
		slog.Info("database migrations completed successfully")
		return nil
	})
}
