package table

import (
	"fmt"
	"strings"

	"godescribe/domain/core"
)

// Record represents a row of raw cell text keyed by column name
type Record map[string]string

// View provides indexed, read-only access to a loaded table.
// The statistics engine reads every cell through this interface, so a
// row-oriented and a column-oriented table are interchangeable.
type View interface {
	Len() int
	Columns() []string
	// Cell returns the raw text of a cell; absent cells read as "".
	Cell(row int, column string) string
}

// Table is the row-oriented in-memory table produced by the loaders
type Table struct {
	columns []string
	records []Record
}

// NewTable builds a table from a header and raw rows. Rows shorter than the
// header are padded with blanks and cells past the header are dropped, so
// every record carries exactly the header's column set.
func NewTable(header []string, rows [][]string) (*Table, error) {
	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(columns))
		for j, col := range columns {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return &Table{columns: columns, records: records}, nil
}

// NewTableFromRecords builds a table from records that already carry their values by name.
func NewTableFromRecords(header []string, records []Record) (*Table, error) {
	columns, err := normalizeHeader(header)
	if err != nil {
		return nil, err
	}

	out := make([]Record, len(records))
	for i, r := range records {
		rec := make(Record, len(columns))
		for _, col := range columns {
			rec[col] = r[col]
		}
		out[i] = rec
	}
	return &Table{columns: columns, records: out}, nil
}

func normalizeHeader(header []string) ([]string, error) {
	if len(header) == 0 {
		return nil, core.ErrNoHeader
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.TrimSpace(h)
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", core.ErrDuplicateColumn, name)
		}
		seen[name] = true
		columns[i] = name
	}
	return columns, nil
}

func (t *Table) Len() int          { return len(t.records) }
func (t *Table) Columns() []string { return t.columns }

func (t *Table) Cell(row int, column string) string {
	if row < 0 || row >= len(t.records) {
		return ""
	}
	return t.records[row][column]
}


