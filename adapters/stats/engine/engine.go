package engine

import (
	"godescribe/adapters/datareadiness/coercer"
	"godescribe/domain/describe"
	"godescribe/domain/table"
)

// DefaultSampleRows is the number of leading rows inspected during classification
const DefaultSampleRows = 100

// Config tunes classification and number parsing
type Config struct {
	// SampleRows bounds the rows inspected by the classifier; 0 inspects every row.
	SampleRows     int
	SampleStrategy SampleStrategy
	NumberFormat   coercer.NumberFormat
}

// DefaultConfig returns the prefix-100, strict-number configuration
func DefaultConfig() Config {
	return Config{
		SampleRows:     DefaultSampleRows,
		SampleStrategy: SamplePrefix,
		NumberFormat:   coercer.FormatStrict,
	}
}

// StatsEngine classifies columns and computes overall and grouped statistics.
// It holds no mutable state; one engine may serve concurrent passes.
type StatsEngine struct {
	classifier *Classifier
	aggregator *Aggregator
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(config Config) *StatsEngine {
	c := coercer.NewTypeCoercer(coercer.CoercionConfig{NumberFormat: config.NumberFormat})
	return &StatsEngine{
		classifier: NewClassifier(c, config.SampleRows, config.SampleStrategy),
		aggregator: NewAggregator(c),
	}
}

// Classify partitions the view's columns into numeric and categorical sets
func (e *StatsEngine) Classify(v table.View) describe.Classification {
	return e.classifier.Classify(v)
}

// Aggregate computes the bundles of the given columns over every row of v
func (e *StatsEngine) Aggregate(v table.View, c describe.Classification) describe.Bundles {
	return e.aggregator.Aggregate(v, c.Numeric, c.Categorical)
}

// Overall computes the whole-table document: the single implicit group without its key wrapper
func (e *StatsEngine) Overall(v table.View, c describe.Classification) *describe.OverallDocument {
	bundles := e.Aggregate(v, c)
	return &describe.OverallDocument{
		DatasetInfo: describe.DatasetInfo{
			TotalRows:          v.Len(),
			NumericColumns:     c.Numeric,
			CategoricalColumns: c.Categorical,
		},
		Numeric:     bundles.Numeric,
		Categorical: bundles.Categorical,
	}
}

// GroupBy partitions v by keyColumns and aggregates every partition
func (e *StatsEngine) GroupBy(v table.View, keyColumns []string, c describe.Classification) *describe.ResultCollection {
	return GroupBy(v, keyColumns, func(part table.View) describe.Bundles {
		return e.Aggregate(part, c)
	})
}
