package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/functionalflows/internal/log"
	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/migrate"
)

// SQLiteSink appends results to a SQLite database in long format: one row
// per time step, component and output column, keyed by RunID. Per water
// year matched counts go to the summaries table. The schema is migrated on
// every write.
type SQLiteSink struct {
	Path  string
	RunID uuid.UUID
}

func (s *SQLiteSink) Write(ctx context.Context, t *Table) error {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrationsFS, "migrations", ""))
	if err := migrator.MigrateUp(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.Path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := s.RunID.String()
	if _, err := tx.ExecContext(ctx, insertRunSQL, runID, time.Now().UTC().Format(time.RFC3339), t.Input.StartOfWaterYear(), t.Rows()); err != nil {
		return fmt.Errorf("failed to record run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertResultSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	dates, flowValues, dsowy := t.Input.Dates(), t.Input.Flows(), t.Input.DSOWY()
	for _, o := range t.Outputs {
		cols := o.Columns()
		for i := 0; i < t.Rows(); i++ {
			date := dates[i].Format(DateLayout)
			for j, v := range o.Data.Row(i) {
				if _, err := stmt.ExecContext(ctx, runID, i, date, flowValues[i], dsowy[i], o.ComponentName, cols[j], int(v)); err != nil {
					return fmt.Errorf("failed to insert result row %d for %s: %w", i, o.ComponentName, err)
				}
			}
		}
	}

	summaries, err := tx.PrepareContext(ctx, insertSummarySQL)
	if err != nil {
		return err
	}
	defer summaries.Close()

	for _, o := range t.Outputs {
		sum, err := flows.Summarize(t.Input, o)
		if err != nil {
			return err
		}
		for wy, matched := range sum.ByWaterYear {
			if _, err := summaries.ExecContext(ctx, runID, sum.Component, sum.Label, wy, matched); err != nil {
				return fmt.Errorf("failed to insert summary for %s: %w", sum.Component, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", runID, err)
	}
	log.Infow("stored results", "path", s.Path, "run_id", runID, "components", len(t.Outputs), "rows", t.Rows())
	return nil
}
