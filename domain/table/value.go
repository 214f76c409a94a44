package table

import "strings"

// Number is the outcome of one attempt to read a cell as a number.
// OK is false for blank and non-numeric cells alike; Blank tells them apart.
type Number struct {
	Value float64
	OK    bool
	Blank bool
}

// NotNumeric is the result for a non-blank cell that failed to parse
var NotNumeric = Number{}

// BlankCell is the result for an empty or whitespace-only cell
var BlankCell = Number{Blank: true}

// Numeric wraps a successfully parsed value
func Numeric(v float64) Number {
	return Number{Value: v, OK: true}
}

// IsBlank reports whether a cell is missing after trimming surrounding whitespace
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
