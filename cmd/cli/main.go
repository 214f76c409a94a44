package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"godescribe/adapters/export"
	"godescribe/app"
	"godescribe/internal"
	"godescribe/internal/api"
	"godescribe/internal/config"
)

// version is injected at build time
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "godescribe",
		Short:         "Descriptive statistics for tabular data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "ERROR|WARN|INFO|DEBUG|TRACE (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newDescribeCmd(opts),
		newClassifyCmd(opts),
		newServeCmd(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFlags are shared by commands that read a table
type sourceFlags struct {
	input     string
	format    string
	sheet     string
	delimiter string
	dataPath  string
	driver    string
	dsn       string
	query     string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input file path or URL (overrides INPUT_PATH)")
	cmd.Flags().StringVar(&f.format, "format", "", "auto|csv|xlsx|json")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet name for xlsx input")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter")
	cmd.Flags().StringVar(&f.dataPath, "data-path", "", "gjson path to the records in a JSON document")
	cmd.Flags().StringVar(&f.driver, "driver", "", "SQL driver: postgres|mysql|sqlite3|sqlserver")
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "SQL connection string (overrides DATABASE_URL)")
	cmd.Flags().StringVar(&f.query, "query", "", "SQL query whose result set is described")
}

func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("input", &cfg.Input.Path, f.input)
	set("format", &cfg.Input.Format, f.format)
	set("sheet", &cfg.Input.Sheet, f.sheet)
	set("delimiter", &cfg.Input.Delimiter, f.delimiter)
	set("data-path", &cfg.Input.DataPath, f.dataPath)
	set("driver", &cfg.Database.Driver, f.driver)
	set("dsn", &cfg.Database.DSN, f.dsn)
	set("query", &cfg.Database.Query, f.query)
}

// analysisFlags tune classification and grouping
type analysisFlags struct {
	groupBy      string
	sampleRows   int
	strategy     string
	numberFormat string
	workers      int
	layout       string
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.groupBy, "group-by", "g", "", `key sets, e.g. "by_page=page_id;by_page_ad=page_id,ad_id"`)
	cmd.Flags().IntVar(&f.sampleRows, "sample-rows", 0, "rows inspected by the classifier; 0 inspects all")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "sampling strategy: prefix|stratified")
	cmd.Flags().StringVar(&f.numberFormat, "number-format", "", "strict|lenient")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent aggregation passes")
	cmd.Flags().StringVar(&f.layout, "layout", "", "in-memory layout: rows|columns")
}

func (f *analysisFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("group-by") {
		cfg.Analysis.GroupBy = f.groupBy
	}
	if flags.Changed("sample-rows") {
		cfg.Analysis.SampleRows = f.sampleRows
	}
	if flags.Changed("strategy") {
		cfg.Analysis.SampleStrategy = f.strategy
	}
	if flags.Changed("number-format") {
		cfg.Analysis.NumberFormat = f.numberFormat
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if flags.Changed("layout") {
		cfg.Analysis.Layout = f.layout
	}
}

// setup loads configuration, applies flag overrides and builds the logger
func setup(opts *rootOptions, override func(*config.Config)) (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)), nil
}

func serviceOptions(cfg *config.Config) (app.Options, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return app.Options{}, err
	}
	return app.Options{
		Engine:      engineCfg,
		Workers:     cfg.Analysis.Workers,
		Columnar:    cfg.Analysis.Layout == "columns",
		CodeVersion: version,
	}, nil
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var (
		source   sourceFlags
		analysis analysisFlags
		outDir   string
		basename string
		formats  []string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Compute overall and grouped descriptive statistics",
		Long: `Load a table, classify its columns as numeric or categorical, compute
overall statistics and one grouping per key set, and write the results.

Example:
  godescribe describe -i ads.csv -g "by_page=page_id;by_page_ad=page_id,ad_id" --formats json,xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts, func(cfg *config.Config) {
				source.apply(cmd, cfg)
				analysis.apply(cmd, cfg)
				if cmd.Flags().Changed("output-dir") {
					cfg.Output.Dir = outDir
				}
				if cmd.Flags().Changed("basename") {
					cfg.Output.Basename = basename
				}
				if cmd.Flags().Changed("formats") {
					cfg.Output.Formats = formats
				}
			})
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runDescribe(cmd.Context(), cfg, logger)
		},
	}

	source.register(cmd)
	analysis.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "output directory (overrides OUTPUT_DIR)")
	cmd.Flags().StringVar(&basename, "basename", "", "output file basename (overrides OUTPUT_BASENAME)")
	cmd.Flags().StringSliceVar(&formats, "formats", nil, "output formats: json,xlsx,md,html")
	return cmd
}

func runDescribe(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	loader, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	keySets, err := cfg.KeySets()
	if err != nil {
		return err
	}
	options, err := serviceOptions(cfg)
	if err != nil {
		return err
	}

	target := export.Target{Dir: cfg.Output.Dir, Basename: cfg.Output.Basename}
	writers, err := export.NewWriters(cfg.Output.Formats, target, logger)
	if err != nil {
		return err
	}

	svc := app.NewDescribeService(options, logger)
	report, err := svc.Describe(ctx, app.DescribeRequest{Loader: loader, KeySets: keySets})
	if err != nil {
		return err
	}

	files, err := svc.Persist(ctx, report, writers, export.NewManifestWriter(target))
	if err != nil {
		return err
	}
	for _, f := range files {
		logger.Info("Saved %s", f)
	}
	return nil
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var (
		source   sourceFlags
		analysis analysisFlags
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the numeric and categorical columns of a table as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts, func(cfg *config.Config) {
				source.apply(cmd, cfg)
				analysis.apply(cmd, cfg)
			})
			if err != nil {
				return err
			}
			defer logger.Sync()

			loader, err := newLoader(cfg, logger)
			if err != nil {
				return err
			}
			options, err := serviceOptions(cfg)
			if err != nil {
				return err
			}

			_, classification, err := app.NewDescribeService(options, logger).Classify(cmd.Context(), loader)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(classification)
		},
	}

	source.register(cmd)
	analysis.register(cmd)
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the describe and classify endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts, func(cfg *config.Config) {
				if cmd.Flags().Changed("port") {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}
			defer logger.Sync()

			server, err := api.NewServerFromConfig(cfg, version, logger)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}
