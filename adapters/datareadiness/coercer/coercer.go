package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"godescribe/domain/table"
)

// NumberFormat selects how cell text is read as a number
type NumberFormat string

const (
	// FormatStrict accepts plain decimal floats only, surrounding whitespace allowed
	FormatStrict NumberFormat = "strict"
	// FormatLenient also accepts currency symbols, thousands separators,
	// parenthesised negatives, percent signs and European decimal commas
	FormatLenient NumberFormat = "lenient"
)

// TypeCoercer reads raw cell text as numbers with deterministic rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NumberFormat NumberFormat `json:"number_format"`
}

// DefaultCoercionConfig returns the strict plain-float rules
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumberFormat: FormatStrict,
	}
}

// ParseNumberFormat validates a number format name
func ParseNumberFormat(s string) (NumberFormat, error) {
	switch NumberFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatStrict:
		return FormatStrict, nil
	case FormatLenient:
		return FormatLenient, nil
	}
	return "", fmt.Errorf("unknown number format %q (want strict or lenient)", s)
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.NumberFormat == "" {
		config.NumberFormat = FormatStrict
	}
	return &TypeCoercer{config: config}
}

// ParseNumber attempts to read one cell as a finite number
func (c *TypeCoercer) ParseNumber(cell string) table.Number {
	clean := strings.TrimSpace(cell)
	if clean == "" {
		return table.BlankCell
	}

	var (
		val float64
		ok  bool
	)
	if c.config.NumberFormat == FormatLenient {
		val, ok = parseFormatted(clean)
	} else {
		val, ok = parsePlain(clean)
	}
	if !ok {
		return table.NotNumeric
	}
	return table.Numeric(val)
}

// parsePlain accepts decimal and scientific notation. Hexadecimal floats,
// digit separators, NaN and infinities are rejected.
func parsePlain(s string) (float64, bool) {
	if strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// parseFormatted handles international formats: parentheses for negatives,
// European decimals, currency symbols
func parseFormatted(cleanVal string) (float64, bool) {
	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimPrefix(cleanVal, "(")
		cleanVal = strings.TrimSuffix(cleanVal, ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	// European format: period as thousands separator, comma as decimal
	// French format: space as thousands separator, comma as decimal
	if hasComma && (hasPeriod || hasSpace) {
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 2 && allDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	} else if hasComma && strings.Count(cleanVal, ",") == 1 && len(cleanVal)-strings.Index(cleanVal, ",")-1 != 3 {
		// A single comma not followed by exactly three digits is a decimal comma
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	return parsePlain(cleanVal)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ToText converts a typed scalar from a loader (SQL row, JSON value, workbook
// cell) into the cell text the engine works on. nil becomes a blank cell.
func ToText(val interface{}) string {
	if val == nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ColumnAnalysis counts how the inspected cells of one column parse
type ColumnAnalysis struct {
	TotalCount      int     `json:"total_count"`
	BlankCount      int     `json:"blank_count"`
	NumericCount    int     `json:"numeric_count"`
	NonNumericCount int     `json:"non_numeric_count"`
	NumericRatio    float64 `json:"numeric_ratio"`
}

// NonBlankCount is the number of inspected cells that carried a value
func (a ColumnAnalysis) NonBlankCount() int {
	return a.TotalCount - a.BlankCount
}

// IsNumeric reports whether the column has at least one value and every value parsed
func (a ColumnAnalysis) IsNumeric() bool {
	return a.NonBlankCount() > 0 && a.NonNumericCount == 0
}

// AnalyzeColumn parses every cell of a column sample
func (c *TypeCoercer) AnalyzeColumn(cells []string) ColumnAnalysis {
	analysis := ColumnAnalysis{TotalCount: len(cells)}

	for _, cell := range cells {
		n := c.ParseNumber(cell)
		switch {
		case n.Blank:
			analysis.BlankCount++
		case n.OK:
			analysis.NumericCount++
		default:
			analysis.NonNumericCount++
		}
	}

	if nonBlank := analysis.NonBlankCount(); nonBlank > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(nonBlank)
	}
	return analysis
}
