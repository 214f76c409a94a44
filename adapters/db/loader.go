package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// SQL drivers selectable through SQL_DRIVER
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"godescribe/adapters/datareadiness/coercer"
	"godescribe/domain/table"
	"godescribe/internal"
	apperrors "godescribe/internal/errors"
	"godescribe/ports"
)

// QueryLoader runs one SELECT and returns its result set as a table
type QueryLoader struct {
	driver string
	dsn    string
	query  string
	logger *internal.Logger
}

// NewQueryLoader creates a loader for driver (postgres, mysql, sqlite3 or sqlserver)
func NewQueryLoader(driver, dsn, query string, logger *internal.Logger) *QueryLoader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &QueryLoader{driver: driver, dsn: dsn, query: query, logger: logger}
}

var _ ports.TableLoader = (*QueryLoader)(nil)

// Source describes the database without credentials
func (l *QueryLoader) Source() string {
	return fmt.Sprintf("%s:%s", l.driver, SanitizeConnectionString(l.dsn))
}

// Load connects, runs the query and converts every value to cell text. NULL reads as blank.
func (l *QueryLoader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	l.logger.Info("[QueryLoader] connecting to %s", l.Source())

	db, err := sqlx.ConnectContext(ctx, l.driver, l.dsn)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to connect to "+l.Source(), errors.New(SanitizeError(err)))
	}
	defer db.Close()

	return l.LoadFrom(ctx, db)
}

// LoadFrom runs the query on an existing connection
func (l *QueryLoader) LoadFrom(ctx context.Context, db *sqlx.DB) (*ports.LoadedTable, error) {
	start := time.Now()
	l.logger.Debug("[QueryLoader] running %s", SanitizeQuery(l.query))

	rows, err := db.QueryxContext(ctx, l.query)
	if err != nil {
		return nil, apperrors.DatabaseError("query failed", errors.New(SanitizeError(err)))
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, apperrors.DatabaseError("failed to read result columns", err)
	}

	var data [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, apperrors.DatabaseError("failed to scan row", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = coercer.ToText(v)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError("failed to iterate rows", err)
	}

	tbl, err := table.NewTable(header, data)
	if err != nil {
		return nil, apperrors.LoadFailed(l.Source(), err)
	}

	l.logger.Info("[QueryLoader] %d rows, %d columns in %s", tbl.Len(), len(header), time.Since(start))
	return &ports.LoadedTable{Table: tbl, Source: l.Source()}, nil
}
