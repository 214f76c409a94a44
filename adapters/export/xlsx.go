package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"godescribe/domain/describe"
	"godescribe/domain/run"
	"godescribe/internal"
	apperrors "godescribe/internal/errors"
)

const maxSheetNameLength = 31

var (
	numericHeader     = []interface{}{"column", "count", "mean", "median", "min", "max", "std_dev"}
	categoricalHeader = []interface{}{"column", "unique_values", "mode", "mode_count", "total_count", "top_5_values"}
	groupHeader       = []interface{}{
		"group_key", "group_size", "column", "kind",
		"count", "mean", "median", "min", "max", "std_dev",
		"unique_values", "mode", "mode_count", "total_count",
	}
)

// XLSXWriter writes a single <base>.xlsx workbook: overall numeric and
// categorical sheets plus one long-format sheet per grouping.
type XLSXWriter struct {
	target Target
	logger *internal.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(target Target, logger *internal.Logger) *XLSXWriter {
	return &XLSXWriter{target: target, logger: logger}
}

func (w *XLSXWriter) Format() string { return "xlsx" }

func (w *XLSXWriter) Write(ctx context.Context, report *run.Report) ([]string, error) {
	if err := w.target.ensureDir(); err != nil {
		return nil, err
	}
	path := w.target.File("xlsx")

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "overall_numeric"); err != nil {
		return nil, apperrors.ExportFailed(path, err)
	}
	if err := writeRows(f, "overall_numeric", numericRows(report.Overall.Numeric)); err != nil {
		return nil, apperrors.ExportFailed(path, err)
	}

	if _, err := f.NewSheet("overall_categorical"); err != nil {
		return nil, apperrors.ExportFailed(path, err)
	}
	if err := writeRows(f, "overall_categorical", categoricalRows(report.Overall.Categorical)); err != nil {
		return nil, apperrors.ExportFailed(path, err)
	}

	used := map[string]bool{"overall_numeric": true, "overall_categorical": true}
	for _, g := range report.Groupings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := SheetName(g.KeySet.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, apperrors.ExportFailed(path, err)
		}
		if err := writeRows(f, sheet, groupRows(g.Results)); err != nil {
			return nil, apperrors.ExportFailed(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, apperrors.ExportFailed(path, err)
	}
	w.logger.Info("Saved workbook to %s (%d sheets)", path, len(f.GetSheetList()))
	return []string{path}, nil
}

// SheetName makes name a valid, unused worksheet name and marks it used
func SheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "group"
	}
	if len([]rune(clean)) > maxSheetNameLength {
		clean = string([]rune(clean)[:maxSheetNameLength])
	}

	candidate := clean
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		base := []rune(clean)
		if len(base)+len(suffix) > maxSheetNameLength {
			base = base[:maxSheetNameLength-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func numericRows(stats *describe.NumericStats) [][]interface{} {
	rows := [][]interface{}{numericHeader}
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		b := pair.Value
		rows = append(rows, []interface{}{
			pair.Key, b.Count, floatCell(b.Mean), floatCell(b.Median), floatCell(b.Min), floatCell(b.Max), floatCell(b.StdDev),
		})
	}
	return rows
}

func categoricalRows(stats *describe.CategoricalStats) [][]interface{} {
	rows := [][]interface{}{categoricalHeader}
	for pair := stats.Oldest(); pair != nil; pair = pair.Next() {
		b := pair.Value
		rows = append(rows, []interface{}{
			pair.Key, b.UniqueValues, stringCell(b.Mode), b.ModeCount, b.TotalCount, formatTopValues(b.TopValues),
		})
	}
	return rows
}

func groupRows(results *describe.ResultCollection) [][]interface{} {
	rows := [][]interface{}{groupHeader}
	for group := results.Oldest(); group != nil; group = group.Next() {
		gr := group.Value
		for pair := gr.Numeric.Oldest(); pair != nil; pair = pair.Next() {
			b := pair.Value
			rows = append(rows, []interface{}{
				group.Key, gr.GroupSize, pair.Key, string(describe.KindNumeric),
				b.Count, floatCell(b.Mean), floatCell(b.Median), floatCell(b.Min), floatCell(b.Max), floatCell(b.StdDev),
				nil, nil, nil, nil,
			})
		}
		for pair := gr.Categorical.Oldest(); pair != nil; pair = pair.Next() {
			b := pair.Value
			rows = append(rows, []interface{}{
				group.Key, gr.GroupSize, pair.Key, string(describe.KindCategorical),
				nil, nil, nil, nil, nil, nil,
				b.UniqueValues, stringCell(b.Mode), b.ModeCount, b.TotalCount,
			})
		}
	}
	return rows
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringCell(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
