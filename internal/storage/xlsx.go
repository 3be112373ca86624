package storage

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the worksheet the XLSX sink writes.
const XLSXSheet = "Results"

// XLSXSink writes the joined table to an Excel workbook using a stream
// writer, one row per time step.
type XLSXSink struct {
	Path string
}

func (s *XLSXSink) Write(ctx context.Context, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(XLSXSheet)
	if err != nil {
		return err
	}

	header := t.Header()
	row := make([]any, len(header))
	for j, h := range header {
		row[j] = h
	}
	if err := sw.SetRow("A1", row); err != nil {
		return err
	}

	for i := 0; i < t.Rows(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row = row[:0]
		row = append(row, t.Input.Dates()[i].Format(DateLayout), t.Input.Flows()[i], t.Input.DSOWY()[i])
		for _, o := range t.Outputs {
			for _, v := range o.Data.Row(i) {
				row = append(row, int(v))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.Path, err)
	}
	return nil
}
