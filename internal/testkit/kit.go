package testkit

import (
	"context"

	"godescribe/domain/core"
	"godescribe/domain/table"
	"godescribe/ports"
)

// StaticLoader serves a fixed table; Calls counts Load invocations
type StaticLoader struct {
	Table  *table.Table
	Source string
	Err    error
	Calls  int
}

var _ ports.TableLoader = (*StaticLoader)(nil)

// NewStaticLoader wraps tbl as a loader named source
func NewStaticLoader(source string, tbl *table.Table) *StaticLoader {
	return &StaticLoader{Table: tbl, Source: source}
}

func (l *StaticLoader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	l.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}
	return &ports.LoadedTable{
		Table:  l.Table,
		Source: l.Source,
		Hash:   core.NewHash([]byte(l.Source)),
	}, nil
}

// AdsLoader returns a loader over a generated ads table
func AdsLoader(config AdsGeneratorConfig) (*StaticLoader, error) {
	tbl, err := NewAdsGenerator(config).Table()
	if err != nil {
		return nil, err
	}
	return NewStaticLoader("generated_ads.csv", tbl), nil
}
