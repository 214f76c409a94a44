package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"godescribe/adapters/stats/engine"
	"godescribe/domain/describe"
	"godescribe/domain/run"
	"godescribe/domain/table"
	"godescribe/internal"
	"godescribe/internal/errors"
	"godescribe/ports"
)

// Options configure a DescribeService
type Options struct {
	Engine  engine.Config
	Workers int
	// Columnar copies the loaded table into column-major storage before analysis.
	Columnar    bool
	CodeVersion string
}

// DescribeService runs the load, classify, aggregate and write pipeline
type DescribeService struct {
	engine  *engine.StatsEngine
	options Options
	logger  *internal.Logger
}

// DescribeRequest defines the inputs of one run
type DescribeRequest struct {
	Loader  ports.TableLoader
	KeySets []describe.KeySet
}

// NewDescribeService creates a describe service
func NewDescribeService(options Options, logger *internal.Logger) *DescribeService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if options.Workers < 1 {
		options.Workers = 1
	}
	return &DescribeService{
		engine:  engine.NewStatsEngine(options.Engine),
		options: options,
		logger:  logger,
	}
}

// Classify loads a source and returns its column classification
func (s *DescribeService) Classify(ctx context.Context, loader ports.TableLoader) (*ports.LoadedTable, describe.Classification, error) {
	loaded, err := s.load(ctx, loader)
	if err != nil {
		return nil, describe.Classification{}, err
	}
	return loaded, s.engine.Classify(s.view(loaded.Table)), nil
}

// Describe loads the source, classifies it once and computes the overall
// document plus one grouping per runnable key set. Passes run concurrently,
// bounded by Options.Workers; their order in the report follows the request.
func (s *DescribeService) Describe(ctx context.Context, req DescribeRequest) (*run.Report, error) {
	loadStart := time.Now()
	loaded, err := s.load(ctx, req.Loader)
	if err != nil {
		return nil, err
	}
	loadMS := time.Since(loadStart).Milliseconds()

	view := s.view(loaded.Table)

	classifyStart := time.Now()
	classification := s.engine.Classify(view)
	classifyMS := time.Since(classifyStart).Milliseconds()
	s.logger.Info("Numeric columns: %v", classification.Numeric)
	s.logger.Info("Categorical columns: %v", classification.Categorical)

	runnable, skipped := ResolveKeySets(req.KeySets, view.Columns())
	for _, sk := range skipped {
		s.logger.Warn("Skipping %s: %s", sk.Name, sk.Reason)
	}

	manifest := run.NewManifest(loaded.Source, loaded.Hash, req.KeySets, s.settings())
	manifest.Rows = view.Len()
	manifest.Columns = len(view.Columns())
	manifest.Classification = classification
	manifest.Skipped = skipped

	aggregateStart := time.Now()
	report := &run.Report{
		Manifest:  manifest,
		Groupings: make([]describe.Grouping, len(runnable)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.Workers)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report.Overall = s.engine.Overall(view, classification)
		return nil
	})
	for i, ks := range runnable {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.logger.Debug("Grouping by %v", ks.Columns)
			report.Groupings[i] = describe.Grouping{
				KeySet:  ks,
				Results: s.engine.GroupBy(view, ks.Columns, classification),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "describe run cancelled")
	}

	for _, gr := range report.Groupings {
		manifest.Executed = append(manifest.Executed, run.ExecutedKeySet{
			Name:    gr.KeySet.Name,
			Columns: gr.KeySet.Columns,
			Groups:  gr.Results.Len(),
		})
	}
	manifest.Timings = run.Timings{
		LoadMS:      loadMS,
		ClassifyMS:  classifyMS,
		AggregateMS: time.Since(aggregateStart).Milliseconds(),
	}

	s.logger.Info("Described %s: %d rows, %d columns, %d groupings (%d skipped)",
		loaded.Source, manifest.Rows, manifest.Columns, len(report.Groupings), len(skipped))
	return report, nil
}

// Persist checks the manifest, runs every writer in order, then records the
// written files in the manifest
func (s *DescribeService) Persist(ctx context.Context, report *run.Report, writers []ports.ReportWriter, manifestWriter ports.ManifestWriter) ([]string, error) {
	if err := report.Manifest.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInternalError, err)
	}

	start := time.Now()
	for _, w := range writers {
		paths, err := w.Write(ctx, report)
		report.Manifest.Files = append(report.Manifest.Files, paths...)
		if err != nil {
			return report.Manifest.Files, errors.Wrapf(err, "%s export failed", w.Format())
		}
	}
	report.Manifest.Timings.WriteMS = time.Since(start).Milliseconds()

	files := append([]string(nil), report.Manifest.Files...)
	if manifestWriter != nil {
		path, err := manifestWriter.WriteManifest(ctx, report.Manifest)
		if err != nil {
			return files, errors.Wrap(err, "manifest export failed")
		}
		files = append(files, path)
	}
	return files, nil
}

func (s *DescribeService) load(ctx context.Context, loader ports.TableLoader) (*ports.LoadedTable, error) {
	if loader == nil {
		return nil, errors.InvalidInput("no input source configured")
	}
	loaded, err := loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load input")
	}
	return loaded, nil
}

func (s *DescribeService) view(t *table.Table) table.View {
	if s.options.Columnar {
		return table.NewColumnar(t)
	}
	return t
}

func (s *DescribeService) settings() run.Settings {
	return run.Settings{
		SampleRows:     s.options.Engine.SampleRows,
		SampleStrategy: string(s.options.Engine.SampleStrategy),
		NumberFormat:   string(s.options.Engine.NumberFormat),
		CodeVersion:    s.options.CodeVersion,
	}
}
