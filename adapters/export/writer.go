package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"godescribe/internal"
	apperrors "godescribe/internal/errors"
	"godescribe/ports"
)

// Target names the directory and file basename every writer derives its paths from
type Target struct {
	Dir      string
	Basename string
}

// Path returns <dir>/<basename>_<suffix>
func (t Target) Path(suffix string) string {
	return filepath.Join(t.Dir, fmt.Sprintf("%s_%s", t.Basename, suffix))
}

// File returns <dir>/<basename>.<ext>
func (t Target) File(ext string) string {
	return filepath.Join(t.Dir, t.Basename+"."+ext)
}

func (t Target) ensureDir() error {
	if t.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return apperrors.ExportFailed(t.Dir, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.ExportFailed(path, err)
	}
	return nil
}

// NewWriters builds one writer per output format name (json, xlsx, md, html)
func NewWriters(formats []string, target Target, logger *internal.Logger) ([]ports.ReportWriter, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	var writers []ports.ReportWriter
	seen := make(map[string]bool)
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true

		switch f {
		case "json":
			writers = append(writers, NewJSONWriter(target, logger))
		case "xlsx":
			writers = append(writers, NewXLSXWriter(target, logger))
		case "md":
			writers = append(writers, NewMarkdownWriter(target, logger))
		case "html":
			writers = append(writers, NewHTMLWriter(target, logger))
		default:
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown output format %q", f))
		}
	}
	return writers, nil
}
