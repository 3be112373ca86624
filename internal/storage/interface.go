// Package storage persists analysis results: the input series joined by row
// position with every component's output columns.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chrissnell/functionalflows/pkg/responseformat"
)

// Sink is a destination for a result Table.
type Sink interface {
	Write(ctx context.Context, t *Table) error
}

// NewSink selects a sink from the file extension of path: .csv, .xlsx,
// .json, .msgpack, .db or .sqlite. runID tags rows in database sinks.
func NewSink(path string, runID uuid.UUID) (Sink, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return &CSVSink{Path: path}, nil
	case ".xlsx":
		return &XLSXSink{Path: path}, nil
	case ".json":
		return &EncodedSink{Path: path, Format: responseformat.JSON}, nil
	case ".msgpack":
		return &EncodedSink{Path: path, Format: responseformat.MsgPack}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSink{Path: path, RunID: runID}, nil
	default:
		return nil, fmt.Errorf("unsupported output type %q; use .csv, .xlsx, .json, .msgpack or .db", ext)
	}
}
