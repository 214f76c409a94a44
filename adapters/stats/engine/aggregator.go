package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"godescribe/adapters/datareadiness/coercer"
	"godescribe/domain/describe"
	"godescribe/domain/table"
)

// TopValuesLimit bounds the top_5_values map
const TopValuesLimit = 5

// Aggregator computes the statistic bundles of a set of rows
type Aggregator struct {
	coercer *coercer.TypeCoercer
}

// NewAggregator creates an aggregator reading numbers with c
func NewAggregator(c *coercer.TypeCoercer) *Aggregator {
	return &Aggregator{coercer: c}
}

// Aggregate computes one bundle per listed column over every row of v.
// Malformed cells are excluded, never reported.
func (a *Aggregator) Aggregate(v table.View, numericColumns, categoricalColumns []string) describe.Bundles {
	numeric := describe.NewNumericStats()
	for _, col := range numericColumns {
		numeric.Set(col, NumericBundle(a.numericValues(v, col)))
	}

	categorical := describe.NewCategoricalStats()
	for _, col := range categoricalColumns {
		categorical.Set(col, CategoricalBundle(categoricalValues(v, col)))
	}

	return describe.Bundles{Numeric: numeric, Categorical: categorical}
}

func (a *Aggregator) numericValues(v table.View, column string) []float64 {
	values := make([]float64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if n := a.coercer.ParseNumber(v.Cell(i, column)); n.OK {
			values = append(values, n.Value)
		}
	}
	return values
}

func categoricalValues(v table.View, column string) []string {
	values := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if cell := strings.TrimSpace(v.Cell(i, column)); cell != "" {
			values = append(values, cell)
		}
	}
	return values
}

// NumericBundle summarises parsed values. Mean, median and std_dev are
// rounded to 4 decimals; min and max are reported as read.
func NumericBundle(values []float64) describe.NumericBundle {
	if len(values) == 0 {
		return describe.NumericBundle{Count: 0}
	}

	mean, stdDev := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		stdDev = 0
	}

	// montanaflynn/stats only errors on empty input, which is excluded above
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	return describe.NumericBundle{
		Count:  len(values),
		Mean:   float64Ptr(Round4(mean)),
		Median: float64Ptr(Round4(median)),
		Min:    float64Ptr(min),
		Max:    float64Ptr(max),
		StdDev: float64Ptr(Round4(stdDev)),
	}
}

// CategoricalBundle counts trimmed, non-blank values. Ties in frequency are
// ranked by first appearance.
func CategoricalBundle(values []string) describe.CategoricalBundle {
	if len(values) == 0 {
		return describe.CategoricalBundle{}
	}

	ranked := rankValues(values)

	top := describe.NewFrequencies()
	for i := 0; i < len(ranked) && i < TopValuesLimit; i++ {
		top.Set(ranked[i].value, ranked[i].count)
	}

	mode := ranked[0].value
	return describe.CategoricalBundle{
		UniqueValues: len(ranked),
		Mode:         &mode,
		ModeCount:    ranked[0].count,
		TotalCount:   len(values),
		TopValues:    top,
	}
}

type valueCount struct {
	value string
	count int
}

// rankValues returns distinct values by descending count, first appearance breaking ties
func rankValues(values []string) []valueCount {
	index := make(map[string]int)
	var counts []valueCount
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, valueCount{value: v, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	return counts
}

// Round4 rounds to 4 decimal places. Rounding works on the exact binary
// value, so 0.00035 (stored just below the half) rounds down; exact ties go
// to even.
func Round4(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 4, 64), 64)
	return r
}

func float64Ptr(f float64) *float64 {
	return &f
}
