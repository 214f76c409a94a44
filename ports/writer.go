package ports

import (
	"context"

	"godescribe/domain/run"
)

// ReportWriter persists a finished report in one output format
type ReportWriter interface {
	// Format names the output format, e.g. "json" or "xlsx".
	Format() string
	// Write stores the report and returns the paths it wrote.
	Write(ctx context.Context, report *run.Report) ([]string, error)
}

// ManifestWriter persists the run manifest once every report writer has finished
type ManifestWriter interface {
	WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error)
}
