package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godescribe/domain/core"
)

func TestNewTablePadsAndTruncatesRows(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b", "c"}, [][]string{
		{"1", "2"},
		{"1", "2", "3", "4"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, Record{"a": "1", "b": "2", "c": ""}, tbl.records[0])
	assert.Equal(t, Record{"a": "1", "b": "2", "c": "3"}, tbl.records[1])
}

func TestNewTableHeaderNormalization(t *testing.T) {
	tbl, err := NewTable([]string{"\ufeffpage_id", " spend "}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"page_id", "spend"}, tbl.Columns())
	assert.Equal(t, 0, tbl.Len())
}

func TestNewTableRejectsBadHeaders(t *testing.T) {
	_, err := NewTable(nil, nil)
	assert.ErrorIs(t, err, core.ErrNoHeader)

	_, err = NewTable([]string{"a", " a"}, nil)
	assert.ErrorIs(t, err, core.ErrDuplicateColumn)
}

func TestCellOutOfRangeReadsBlank(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, [][]string{{"x"}})
	require.NoError(t, err)

	assert.Equal(t, "x", tbl.Cell(0, "a"))
	assert.Equal(t, "", tbl.Cell(1, "a"))
	assert.Equal(t, "", tbl.Cell(-1, "a"))
	assert.Equal(t, "", tbl.Cell(0, "missing"))
}

func TestNewTableFromRecords(t *testing.T) {
	tbl, err := NewTableFromRecords([]string{"a", "b"}, []Record{
		{"a": "1", "extra": "x"},
		{"b": "2"},
	})
	require.NoError(t, err)

	assert.Equal(t, Record{"a": "1", "b": ""}, tbl.records[0])
	assert.Equal(t, Record{"a": "", "b": "2"}, tbl.records[1])
}

func TestColumnarMatchesRows(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	col := NewColumnar(tbl)
	assert.Equal(t, tbl.Len(), col.Len())
	assert.Equal(t, tbl.Columns(), col.Columns())
	for i := 0; i < tbl.Len(); i++ {
		for _, c := range tbl.Columns() {
			assert.Equal(t, tbl.Cell(i, c), col.Cell(i, c))
		}
	}
	assert.Equal(t, "", col.Cell(0, "missing"))
	assert.Equal(t, "", col.Cell(5, "a"))
}

func TestSubViewAndPrefix(t *testing.T) {
	tbl, err := NewTable([]string{"n"}, [][]string{{"0"}, {"1"}, {"2"}, {"3"}})
	require.NoError(t, err)

	sub := NewSubView(tbl, []int{3, 1})
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, "3", sub.Cell(0, "n"))
	assert.Equal(t, "1", sub.Cell(1, "n"))
	assert.Equal(t, "", sub.Cell(2, "n"))
	assert.Equal(t, []string{"n"}, sub.Columns())

	assert.Equal(t, 2, Prefix(tbl, 2).Len())
	assert.Equal(t, "1", Prefix(tbl, 2).Cell(1, "n"))
	assert.Same(t, View(tbl), Prefix(tbl, 0))
	assert.Same(t, View(tbl), Prefix(tbl, 10))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n"))
	assert.False(t, IsBlank(" 0 "))
}
