// Package dataio reads daily flow series from CSV files and Excel workbooks
// into a flows.Input.
package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/waterday"
)

// Options controls how a series file is read.
type Options struct {
	// StartOfWaterYear is the first day of the water year; zero means
	// waterday.DefaultStart.
	StartOfWaterYear int
	// Sheet selects the worksheet of an .xlsx file; empty means the first.
	Sheet string
	// FlowUnits converts flows to m³/s before evaluation; empty means cms.
	FlowUnits flows.FlowUnits
}

func (o Options) start() int {
	if o.StartOfWaterYear == 0 {
		return waterday.DefaultStart
	}
	return o.StartOfWaterYear
}

// Accepted header spellings, compared case-insensitively.
var (
	dateHeaders = []string{"date", "dates"}
	flowHeaders = []string{"flow", "flows"}
)

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// ReadFile reads a .csv or .xlsx series. A missing or unreadable file is an
// flows.ErrFile; malformed content is an flows.ErrData.
func ReadFile(path string, opts Options) (*flows.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", flows.ErrFile, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f, opts)
	case ".xlsx":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported data file type %q; use .csv or .xlsx", flows.ErrFile, ext)
	}
}

// ReadCSV reads a series from CSV text with a header row.
func ReadCSV(r io.Reader, opts Options) (*flows.Input, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %w", flows.ErrData, err)
	}
	return buildInput(rows, opts, nil)
}

// ReadXLSX reads a series from an Excel workbook. Date cells may hold
// serial numbers or text.
func ReadXLSX(r io.Reader, opts Options) (*flows.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel workbook: %w", flows.ErrData, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", flows.ErrData)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %s: %w", flows.ErrData, sheet, err)
	}
	return buildInput(rows, opts, excelSerialDate)
}

func excelSerialDate(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// buildInput locates the date and flow columns in rows[0] and parses the
// remaining rows. extraDate, when set, is tried before the text layouts.
func buildInput(rows [][]string, opts Options, extraDate func(string) (time.Time, bool)) (*flows.Input, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", flows.ErrData)
	}

	dateCol, err := findColumn(rows[0], dateHeaders)
	if err != nil {
		return nil, err
	}
	flowCol, err := findColumn(rows[0], flowHeaders)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(rows)-1)
	values := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		if dateCol >= len(row) || flowCol >= len(row) {
			return nil, fmt.Errorf("%w: row %d has %d columns", flows.ErrData, line, len(row))
		}

		raw := strings.TrimSpace(row[dateCol])
		t, ok := time.Time{}, false
		if extraDate != nil {
			t, ok = extraDate(raw)
		}
		if !ok {
			t, err = parseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", flows.ErrData, line, err)
			}
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(row[flowCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid flow %q", flows.ErrData, line, row[flowCol])
		}

		dates = append(dates, t)
		values = append(values, v)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no data rows", flows.ErrData)
	}

	values, err = flows.ConvertFlows(values, opts.FlowUnits)
	if err != nil {
		return nil, err
	}
	return flows.NewInput(dates, values, opts.start())
}

func findColumn(header []string, names []string) (int, error) {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no %q column in header %v", flows.ErrData, names[0], header)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
