// Package dataset parses uploaded CSV files and keeps them available to the
// identity that uploaded them between the upload and chart requests.
package dataset

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chartdeck/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset is a parsed table. Every row has len(Columns) cells.
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Empty reports whether the dataset has no data rows.
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Index returns the position of the named column or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the raw values of the named column.
func (d *Dataset) Column(name string) ([]string, bool) {
	idx := d.Index(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Numeric returns the named column parsed as float64. Blank cells and cells
// that are not numbers are reported by row number (1-based, header excluded).
func (d *Dataset) Numeric(name string) ([]float64, error) {
	raw, ok := d.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]float64, len(raw))
	for i, cell := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %q is not a number", name, i+1, cell)
		}
		values[i] = v
	}
	return values, nil
}

// IsNumeric reports whether every cell of the named column parses as a number.
func (d *Dataset) IsNumeric(name string) bool {
	_, err := d.Numeric(name)
	return err == nil
}

// ParseCSV reads a comma separated file with a header row.
func ParseCSV(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", errors.ErrInvalidDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidDataset, err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", errors.ErrInvalidDataset, i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", errors.ErrInvalidDataset, name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ErrFieldCount carries the line number
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidDataset, err)
		}
		rows = append(rows, record)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}
