package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/chrissnell/functionalflows/pkg/responseformat"
)

// EncodedSink writes the table as a JSON or MessagePack Document, including
// per-component summaries.
type EncodedSink struct {
	Path   string
	Format responseformat.Format
}

func (s *EncodedSink) Write(ctx context.Context, t *Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := t.Document(true)
	if err != nil {
		return err
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Path, err)
	}
	defer f.Close()

	if err := responseformat.Encode(f, s.Format, doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.Path, err)
	}
	return f.Close()
}
