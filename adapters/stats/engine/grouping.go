package engine

import (
	"strconv"
	"strings"

	"godescribe/domain/describe"
	"godescribe/domain/table"
)

// AggregateFunc computes the bundles of one partition
type AggregateFunc func(part table.View) describe.Bundles

// Partition is one group of rows sharing a key
type Partition struct {
	Key  describe.GroupKey
	View table.View
}

// PartitionBy buckets the rows of v by their normalized key in a single pass.
// Partitions are returned in first-occurrence order of their key; with no key
// columns the whole view is one partition with an empty key.
func PartitionBy(v table.View, keyColumns []string) []Partition {
	if len(keyColumns) == 0 {
		return []Partition{{Key: describe.GroupKey{}, View: v}}
	}

	index := make(map[string]int)
	var keys []describe.GroupKey
	var rows [][]int

	for i := 0; i < v.Len(); i++ {
		key := make(describe.GroupKey, len(keyColumns))
		for j, col := range keyColumns {
			key[j] = describe.NormalizeKeyPart(v.Cell(i, col))
		}

		// Buckets are keyed by the exact tuple; canonicalization happens later.
		id := tupleID(key)
		b, ok := index[id]
		if !ok {
			b = len(keys)
			index[id] = b
			keys = append(keys, key)
			rows = append(rows, nil)
		}
		rows[b] = append(rows[b], i)
	}

	partitions := make([]Partition, len(keys))
	for b, key := range keys {
		partitions[b] = Partition{Key: key, View: table.NewSubView(v, rows[b])}
	}
	return partitions
}

// tupleID encodes a key so that distinct tuples never share an ID
func tupleID(key describe.GroupKey) string {
	quoted := make([]string, len(key))
	for i, part := range key {
		quoted[i] = strconv.Quote(part)
	}
	return strings.Join(quoted, "\x1f")
}

// GroupBy partitions v by keyColumns, aggregates each partition and keys the
// results by canonical group key. Tuples that only differ in where a "|"
// falls collapse onto one canonical key; the later group's result replaces
// the earlier one in the earlier one's position.
func GroupBy(v table.View, keyColumns []string, aggregate AggregateFunc) *describe.ResultCollection {
	results := describe.NewResultCollection()
	if v.Len() == 0 {
		return results
	}

	for _, p := range PartitionBy(v, keyColumns) {
		bundles := aggregate(p.View)
		results.Set(p.Key.Canonical(), describe.GroupResult{
			GroupSize:   p.View.Len(),
			Numeric:     bundles.Numeric,
			Categorical: bundles.Categorical,
		})
	}
	return results
}
