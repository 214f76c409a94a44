package export

import (
	"bytes"
	"context"
	"encoding/json"

	"godescribe/domain/run"
	"godescribe/internal"
	apperrors "godescribe/internal/errors"
)

// JSONWriter writes <base>_overall.json and one <base>_<key set>.json per grouping
type JSONWriter struct {
	target Target
	logger *internal.Logger
}

// NewJSONWriter creates a JSON document writer
func NewJSONWriter(target Target, logger *internal.Logger) *JSONWriter {
	return &JSONWriter{target: target, logger: logger}
}

func (w *JSONWriter) Format() string { return "json" }

// Write stores the overall document and every grouping, two-space indented
func (w *JSONWriter) Write(ctx context.Context, report *run.Report) ([]string, error) {
	if err := w.target.ensureDir(); err != nil {
		return nil, err
	}

	var written []string
	path := w.target.Path("overall.json")
	if err := writeJSON(path, report.Overall); err != nil {
		return written, err
	}
	written = append(written, path)
	w.logger.Info("Saved overall statistics to %s", path)

	for _, g := range report.Groupings {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := w.target.Path(g.KeySet.Name + ".json")
		if err := writeJSON(path, g.Results); err != nil {
			return written, err
		}
		written = append(written, path)
		w.logger.Info("Saved %s statistics to %s (%d groups)", g.KeySet.Name, path, g.Results.Len())
	}
	return written, nil
}

// ManifestWriter stores the run manifest as <base>_manifest.json
type ManifestWriter struct {
	target Target
}

// NewManifestWriter creates a manifest writer
func NewManifestWriter(target Target) *ManifestWriter {
	return &ManifestWriter{target: target}
}

// Path is where the manifest will be written
func (w *ManifestWriter) Path() string {
	return w.target.Path("manifest.json")
}

func (w *ManifestWriter) WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error) {
	if err := w.target.ensureDir(); err != nil {
		return "", err
	}
	path := w.Path()
	return path, writeJSON(path, manifest)
}

func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return apperrors.ExportFailed(path, err)
	}
	return writeFile(path, unescapeHTML(buf.Bytes()))
}

// unescapeHTML turns \u003c, \u003e and \u0026 back into < > &. Ordered maps
// marshal their entries with json.Marshal, which escapes them regardless of
// the encoder setting. Escaped backslashes are copied through untouched.
func unescapeHTML(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' || i+1 >= len(data) {
			out = append(out, c)
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			if r, ok := htmlEscapes[string(bytes.ToLower(data[i+2:i+6]))]; ok {
				out = append(out, r)
				i += 5
				continue
			}
		}
		out = append(out, c, data[i+1])
		i++
	}
	return out
}

var htmlEscapes = map[string]byte{"003c": '<', "003e": '>', "0026": '&'}
