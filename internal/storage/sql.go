package storage

import "embed"

//go:embed migrations/*.sql
var migrationsFS embed.FS

const insertRunSQL = `INSERT INTO runs (run_id, created_at, start_of_water_year, row_count) VALUES (?, ?, ?, ?)`

const insertResultSQL = `INSERT INTO results
	(run_id, row_index, date, flow, day_of_water_year, component, output, value)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertSummarySQL = `INSERT INTO summaries (run_id, component, label, water_year, matched) VALUES (?, ?, ?, ?, ?)`
