package table

// Columnar is a column-major table: one slice of cell text per column.
type Columnar struct {
	columns []string
	cells   map[string][]string
	rows    int
}

// NewColumnar copies any view into column-major storage
func NewColumnar(v View) *Columnar {
	columns := append([]string(nil), v.Columns()...)
	cells := make(map[string][]string, len(columns))
	for _, col := range columns {
		values := make([]string, v.Len())
		for i := range values {
			values[i] = v.Cell(i, col)
		}
		cells[col] = values
	}
	return &Columnar{columns: columns, cells: cells, rows: v.Len()}
}

func (c *Columnar) Len() int          { return c.rows }
func (c *Columnar) Columns() []string { return c.columns }

func (c *Columnar) Cell(row int, column string) string {
	values, ok := c.cells[column]
	if !ok || row < 0 || row >= len(values) {
		return ""
	}
	return values[row]
}
