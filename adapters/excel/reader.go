package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"godescribe/domain/core"
	"godescribe/domain/table"
	"godescribe/internal"
	apperrors "godescribe/internal/errors"
	"godescribe/ports"
)

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	config   ReaderConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.Delimiter == ',' && strings.EqualFold(filepath.Ext(config.FilePath), ".tsv") {
		config.Delimiter = '\t'
	}
	return &DataReader{
		config:   config,
		fileType: DetectFileType(config.FilePath, config.FileType),
		logger:   logger,
	}
}

// DetectFileType resolves "auto" (or empty) from the file extension.
// Unknown extensions are returned as-is so Load can reject them.
func DetectFileType(path, fileType string) string {
	fileType = strings.ToLower(strings.TrimSpace(fileType))
	if fileType != "" && fileType != "auto" {
		return fileType
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

var _ ports.TableLoader = (*DataReader)(nil)

// Load reads the configured file. A missing file is a NOT_FOUND error;
// anything unreadable as a table is LOAD_FAILED.
func (r *DataReader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	r.logger.Info("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if r.fileType != "csv" && r.fileType != "xlsx" {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput,
			fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, r.config.FilePath))
	}

	raw, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewNotFoundError("input file", r.config.FilePath))
		}
		return nil, apperrors.LoadFailed(r.config.FilePath, err)
	}

	return r.ReadBytes(ctx, r.config.FilePath, raw)
}

// ReadFrom parses an already opened stream, such as an HTTP upload
func (r *DataReader) ReadFrom(ctx context.Context, source string, rd io.Reader) (*ports.LoadedTable, error) {
	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, apperrors.LoadFailed(source, err)
	}
	return r.ReadBytes(ctx, source, raw)
}

// ReadBytes parses raw file contents in place
func (r *DataReader) ReadBytes(ctx context.Context, source string, raw []byte) (*ports.LoadedTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	var (
		tbl *table.Table
		err error
	)
	switch r.fileType {
	case "csv":
		tbl, err = r.readCSVData(raw)
	case "xlsx":
		tbl, err = r.readExcelData(raw)
	default:
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput,
			fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, r.fileType))
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.LoadFailed(source, err)
	}

	r.logger.Info("[DataReader] %s file processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(startTime).Nanoseconds())/1e6, len(tbl.Columns()), tbl.Len())

	return &ports.LoadedTable{
		Table:  tbl,
		Source: source,
		Hash:   core.NewHash(raw),
	}, nil
}

// readExcelData reads the configured sheet (first sheet by default)
func (r *DataReader) readExcelData(raw []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrNonTabular
		}
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, core.NewNotFoundError("sheet", sheet))
	}

	// Raw values keep number formats such as thousands separators out of the cells
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %q read (%d rows)", sheet, len(rows))

	return processRows(rows)
}

// readCSVData reads delimited text. Ragged rows are accepted.
func (r *DataReader) readCSVData(raw []byte) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = r.config.Delimiter
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return processRows(rows)
}

// processRows splits the header row from the data rows
func processRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, core.ErrNoHeader
	}
	return table.NewTable(rows[0], rows[1:])
}
