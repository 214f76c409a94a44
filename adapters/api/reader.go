package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"godescribe/domain/core"
	"godescribe/domain/table"
	"godescribe/internal"
	apperrors "godescribe/internal/errors"
	"godescribe/ports"
)

// RecordsReader loads an array of JSON objects as a table. Column order is
// the order in which keys first appear across the records.
type RecordsReader struct {
	config     RecordsConfig
	httpClient *http.Client
	logger     *internal.Logger
}

// NewRecordsReader creates a reader for a JSON file or endpoint
func NewRecordsReader(config RecordsConfig, logger *internal.Logger) *RecordsReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &RecordsReader{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

var _ ports.TableLoader = (*RecordsReader)(nil)

// IsURL reports whether location should be fetched over HTTP
func IsURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load fetches and parses the configured source
func (r *RecordsReader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	var (
		body []byte
		err  error
	)
	if IsURL(r.config.Location) {
		body, err = r.fetch(ctx)
	} else {
		body, err = os.ReadFile(r.config.Location)
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewNotFoundError("input file", r.config.Location))
		}
	}
	if err != nil {
		return nil, apperrors.LoadFailed(r.config.Location, err)
	}

	return r.ReadBytes(ctx, r.config.Location, body)
}

// ReadFrom parses a JSON document from an open stream
func (r *RecordsReader) ReadFrom(ctx context.Context, source string, rd io.Reader) (*ports.LoadedTable, error) {
	body, err := io.ReadAll(rd)
	if err != nil {
		return nil, apperrors.LoadFailed(source, err)
	}
	return r.ReadBytes(ctx, source, body)
}

// ReadBytes parses a JSON document held in memory
func (r *RecordsReader) ReadBytes(ctx context.Context, source string, body []byte) (*ports.LoadedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl, err := ParseRecords(body, r.config.DataPath)
	if err != nil {
		return nil, apperrors.LoadFailed(source, err)
	}
	r.logger.Info("[RecordsReader] %s parsed (%d columns, %d rows)", source, len(tbl.Columns()), tbl.Len())

	return &ports.LoadedTable{Table: tbl, Source: source, Hash: core.NewHash(body)}, nil
}

func (r *RecordsReader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.Location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}

	reqStart := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	r.logger.Debug("[RecordsReader] GET %s -> %d in %s", r.config.Location, resp.StatusCode, time.Since(reqStart))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return body, nil
}

// ParseRecords extracts the records at dataPath. A single object is one
// record; nested values keep their raw JSON text and null reads as blank.
func ParseRecords(body []byte, dataPath string) (*table.Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON document")
	}
	if dataPath == "" {
		dataPath = "@this"
	}

	data := gjson.GetBytes(body, dataPath)
	if !data.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in document", dataPath)
	}

	var items []gjson.Result
	switch {
	case data.IsArray():
		items = data.Array()
	case data.IsObject():
		items = []gjson.Result{data}
	default:
		return nil, fmt.Errorf("%w: data path '%s' is not an array or object", core.ErrNonTabular, dataPath)
	}

	var header []string
	seen := make(map[string]bool)
	records := make([]table.Record, 0, len(items))

	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: record %d is not an object", core.ErrNonTabular, i)
		}
		rec := make(table.Record)
		item.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if !seen[name] {
				seen[name] = true
				header = append(header, name)
			}
			rec[name] = cellText(value)
			return true
		})
		records = append(records, rec)
	}

	if len(header) == 0 {
		return nil, core.ErrNoHeader
	}
	return table.NewTableFromRecords(header, records)
}

func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		// Numbers keep their source text; objects and arrays stay raw JSON
		return v.Raw
	}
}
