package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotCSV is returned for uploads whose filename does not end in ".csv".
	ErrNotCSV = errors.New("unsupported file format, please upload a valid CSV file")

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("file contains no header row")
)

// Dataset is the currently uploaded telemetry table: a header plus ordered
// rows of raw string cells. Numeric coercion happens at chart-build time,
// never here.
type Dataset struct {
	Filename string
	Columns  []string
	Rows     [][]string
}

// ParseCSV validates the filename suffix and parses header + records.
// Any failure returns before the caller touches the store, so a bad upload
// is never destructive.
func ParseCSV(filename string, r io.Reader) (*Dataset, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, ErrNotCSV
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error processing the file: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return &Dataset{
		Filename: filename,
		Columns:  records[0],
		Rows:     records[1:],
	}, nil
}

// NumRows returns the number of data rows (header excluded).
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns the raw cell values of a named column. Rows shorter
// than the header contribute empty strings.
func (d *Dataset) ColumnValues(name string) ([]string, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, true
}

// XColumn picks the chart X axis: a "Date/Time" column when present,
// otherwise the first column.
func (d *Dataset) XColumn() string {
	if d.ColumnIndex("Date/Time") >= 0 {
		return "Date/Time"
	}
	if len(d.Columns) > 0 {
		return d.Columns[0]
	}
	return ""
}
