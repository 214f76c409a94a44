package describe

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ColumnKind is the classification of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Classification partitions a table's columns into numeric and categorical sets.
// Both slices keep the table's column order; together they cover every column once.
type Classification struct {
	Numeric     []string `json:"numeric_columns"`
	Categorical []string `json:"categorical_columns"`
}

// NumericBundle contains the statistics of one numeric column.
// Every field except Count is nil when Count is zero.
type NumericBundle struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	StdDev *float64 `json:"std_dev"`
}

// CategoricalBundle contains the statistics of one categorical column
type CategoricalBundle struct {
	UniqueValues int     `json:"unique_values"`
	Mode         *string `json:"mode"`
	ModeCount    int     `json:"mode_count"`
	TotalCount   int     `json:"total_count"`
	// TopValues maps up to five values to their frequency, most frequent first.
	TopValues *Frequencies `json:"top_5_values,omitempty"`
}

// Frequencies is an insertion-ordered value -> count map
type Frequencies = orderedmap.OrderedMap[string, int]

// NumericStats maps numeric column names to their bundles in column order
type NumericStats = orderedmap.OrderedMap[string, NumericBundle]

// CategoricalStats maps categorical column names to their bundles in column order
type CategoricalStats = orderedmap.OrderedMap[string, CategoricalBundle]

// NewFrequencies creates an empty frequency map
func NewFrequencies() *Frequencies { return orderedmap.New[string, int]() }

// NewNumericStats creates an empty numeric bundle map
func NewNumericStats() *NumericStats { return orderedmap.New[string, NumericBundle]() }

// NewCategoricalStats creates an empty categorical bundle map
func NewCategoricalStats() *CategoricalStats { return orderedmap.New[string, CategoricalBundle]() }

// Bundles is the pair of statistic maps computed over one set of records
type Bundles struct {
	Numeric     *NumericStats
	Categorical *CategoricalStats
}

// GroupResult holds the statistics of one partition
type GroupResult struct {
	GroupSize   int               `json:"group_size"`
	Numeric     *NumericStats     `json:"numeric_stats"`
	Categorical *CategoricalStats `json:"categorical_stats"`
}

// ResultCollection maps canonical group keys to group results in first-occurrence order
type ResultCollection = orderedmap.OrderedMap[string, GroupResult]

// NewResultCollection creates an empty collection
func NewResultCollection() *ResultCollection { return orderedmap.New[string, GroupResult]() }

// DatasetInfo summarises the table the statistics were computed on
type DatasetInfo struct {
	TotalRows          int      `json:"total_rows"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
}

// OverallDocument is the whole-table statistics document
type OverallDocument struct {
	DatasetInfo DatasetInfo       `json:"dataset_info"`
	Numeric     *NumericStats     `json:"numeric"`
	Categorical *CategoricalStats `json:"categorical"`
}

// KeySet is a named list of grouping columns, such as by_page_ad = [page_id, ad_id]
type KeySet struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Grouping is the result of grouping by one key set
type Grouping struct {
	KeySet  KeySet
	Results *ResultCollection
}

// TotalGroupSize sums group_size over every group in the collection
func TotalGroupSize(rc *ResultCollection) int {
	total := 0
	for pair := rc.Oldest(); pair != nil; pair = pair.Next() {
		total += pair.Value.GroupSize
	}
	return total
}
