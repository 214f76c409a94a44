package engine

import (
	"fmt"
	"strings"

	"godescribe/adapters/datareadiness/coercer"
	"godescribe/domain/describe"
	"godescribe/domain/table"
)

// SampleStrategy selects which rows the classifier inspects
type SampleStrategy string

const (
	// SamplePrefix inspects the leading rows
	SamplePrefix SampleStrategy = "prefix"
	// SampleStratified inspects evenly spaced rows across the table
	SampleStratified SampleStrategy = "stratified"
)

// ParseSampleStrategy validates a strategy name
func ParseSampleStrategy(s string) (SampleStrategy, error) {
	switch SampleStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SamplePrefix:
		return SamplePrefix, nil
	case SampleStratified:
		return SampleStratified, nil
	}
	return "", fmt.Errorf("unknown sample strategy %q (want prefix or stratified)", s)
}

// Classifier decides per column whether it is numeric or categorical
type Classifier struct {
	coercer    *coercer.TypeCoercer
	sampleRows int
	strategy   SampleStrategy
}

// NewClassifier creates a classifier inspecting at most sampleRows rows (0 = all)
func NewClassifier(c *coercer.TypeCoercer, sampleRows int, strategy SampleStrategy) *Classifier {
	if strategy == "" {
		strategy = SamplePrefix
	}
	return &Classifier{coercer: c, sampleRows: sampleRows, strategy: strategy}
}

// Classify returns the numeric and categorical columns in table order. A
// column is numeric when the sample holds at least one non-blank cell and
// every non-blank cell parses. Values past the sample are not inspected, so a
// numeric-looking prefix wins; later bad cells are dropped during aggregation.
func (c *Classifier) Classify(v table.View) describe.Classification {
	result := describe.Classification{
		Numeric:     []string{},
		Categorical: []string{},
	}
	if v.Len() == 0 {
		return result
	}

	sample := c.sample(v)
	for _, col := range v.Columns() {
		cells := make([]string, sample.Len())
		for i := range cells {
			cells[i] = sample.Cell(i, col)
		}

		if c.coercer.AnalyzeColumn(cells).IsNumeric() {
			result.Numeric = append(result.Numeric, col)
		} else {
			result.Categorical = append(result.Categorical, col)
		}
	}
	return result
}

func (c *Classifier) sample(v table.View) table.View {
	if c.sampleRows <= 0 || c.sampleRows >= v.Len() {
		return v
	}
	if c.strategy == SampleStratified {
		return table.NewSubView(v, stratifiedIndices(v.Len(), c.sampleRows))
	}
	return table.Prefix(v, c.sampleRows)
}

// stratifiedIndices returns sampleSize evenly distributed, strictly increasing row indices
func stratifiedIndices(totalRows, sampleSize int) []int {
	if sampleSize >= totalRows {
		indices := make([]int, totalRows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, sampleSize)
	step := float64(totalRows) / float64(sampleSize)
	for i := range indices {
		indices[i] = int(float64(i) * step)
	}
	return indices
}
