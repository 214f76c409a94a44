package ports

import (
	"context"

	"godescribe/domain/core"
	"godescribe/domain/table"
)

// LoadedTable is a table together with where it came from
type LoadedTable struct {
	Table *table.Table
	// Source is a human-readable description with credentials removed.
	Source string
	// Hash is the SHA-256 of the raw input bytes; empty for database sources.
	Hash core.Hash
}

// TableLoader reads one tabular source into memory
type TableLoader interface {
	Load(ctx context.Context) (*LoadedTable, error)
}
