package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVSink writes the joined table as comma-separated values with a header.
type CSVSink struct {
	Path string
}

func (s *CSVSink) Write(ctx context.Context, t *Table) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	defer f.Close()

	if err := WriteCSV(ctx, f, t); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return f.Close()
}

// WriteCSV writes the header and every row of t to w.
func WriteCSV(ctx context.Context, w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	for i := 0; i < t.Rows(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(t.Record(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
