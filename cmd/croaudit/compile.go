package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/config"
	"github.com/liftlens/croaudit/internal/database"
	"github.com/liftlens/croaudit/internal/log"
	"github.com/liftlens/croaudit/internal/pipeline"
	"github.com/liftlens/croaudit/internal/report"
)

// NewCompileCmd creates the compile command.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [audit-record.json...]",
		Short: "Compile audit records into CRO reports",
		Long: `Compile validates and aggregates audit records produced by the auditing
agent, then renders them as reports.

For each record it computes:
- Page scores and the overall site score (1-5 scale)
- Per-lens averages and score/priority distributions
- The top findings ranked by priority tier and severity
- An action plan partitioned by impact and effort

Examples:
  # Compile a single record to HTML on stdout
  croaudit compile audit.json

  # Write a Markdown report to a file
  croaudit compile --format markdown -o report.md audit.json

  # Compile several records concurrently; reports land next to each input
  croaudit compile shop1.json shop2.json shop3.json

  # Byte-identical output for repeated runs
  croaudit compile --timestamp 2026-02-14T09:00:00Z audit.json

  # Skip saving to the local audit history
  croaudit compile --no-save audit.json

Configuration file (.croaudit) example:
  defaults:
    topFindings: 5
  sites:
    shop.example.com:
      format: markdown
      colors:
        critical: "#b91c1c"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCompileCmd,
	}

	// Report shape flags
	cmd.Flags().StringP("format", "F", config.DefaultFormat,
		"Output format: html, markdown, text, or json")
	cmd.Flags().StringP("output", "o", "",
		"Output file (single input) or directory (multiple inputs); default is stdout for one input")
	cmd.Flags().IntP("top", "t", config.DefaultTopFindings,
		"Number of site-level top findings to include")
	cmd.Flags().Bool("embed-images", true,
		"Inline screenshots into the HTML report as data URIs")
	cmd.Flags().String("timestamp", "",
		"Report generation time in RFC 3339 format (default: now); set it to make runs reproducible")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent compilations for multiple inputs")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the compiled audit to the local history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .croaudit in current or home directory)")

	return cmd
}

// runCompileCmd executes the compile command.
func runCompileCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCompileConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with oversized-value truncation so verbose
	// runs never dump embedded screenshots into the terminal.
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received shutdown signal, cancelling...")
		cancel()
	}()

	// The --format flag wins over any site config format when set
	// explicitly on the command line.
	formatLocked := cmd.Flags().Changed("format")

	return runCompile(ctx, cfg, formatLocked, logger)
}

// buildCompileConfig creates a Config from cobra command flags.
func buildCompileConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.InputFiles = args

	var err error

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.TopFindings, err = cmd.Flags().GetInt("top")
	if err != nil {
		return nil, err
	}

	cfg.EmbedImages, err = cmd.Flags().GetBool("embed-images")
	if err != nil {
		return nil, err
	}

	cfg.Timestamp, err = cmd.Flags().GetString("timestamp")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose, err = getVerboseFlag(cmd)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from the config file.
	// An explicitly specified path must exist; an implicit search that
	// finds nothing silently yields an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its root.
func getVerboseFlag(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Lookup("verbose") != nil {
		return cmd.Flags().GetBool("verbose")
	}
	return cmd.Root().PersistentFlags().GetBool("verbose")
}

// runCompile executes the compilation.
func runCompile(ctx context.Context, cfg *config.Config, formatLocked bool, logger *slog.Logger) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	generatedAt := time.Now()
	if cfg.Timestamp != "" {
		generatedAt, err = time.Parse(time.RFC3339, cfg.Timestamp)
		if err != nil {
			return fmt.Errorf("invalid timestamp (use RFC 3339, e.g. 2026-02-14T09:00:00Z): %w", err)
		}
	}

	baseOpts := compile.Options{
		TopFindings: cfg.TopFindings,
		GeneratedAt: generatedAt,
		EmbedImages: cfg.EmbedImages,
	}

	// Open the audit history database unless saving is disabled.
	var db *database.AuditDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "dir", cfg.DBDir)
	}

	batch := len(cfg.InputFiles) > 1

	// In batch mode reports are always written to files; an explicit
	// output path names the directory they land in.
	outputDir := ""
	if batch && cfg.OutputFile != "" {
		outputDir = cfg.OutputFile
		if err := os.MkdirAll(outputDir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			pipeline.NewDecodeStep(pipeline.WithDecodeLogger(logger)),
			pipeline.NewSanitizeStep(),
			&siteOptionsStep{
				sites:        cfg.SiteConfigs,
				base:         baseOpts,
				format:       format,
				formatLocked: formatLocked,
				derive:       batch,
				outputDir:    outputDir,
			},
			pipeline.NewCompileStep(baseOpts),
			pipeline.NewRenderStep(format, pipeline.WithRenderLogger(logger)),
			pipeline.NewSaveStep(db, pipeline.WithSaveLogger(logger)),
		)
		return p
	}

	if batch {
		return runBatchCompile(ctx, cfg, factory, logger)
	}
	return runSingleCompile(ctx, cfg, factory)
}

// runSingleCompile compiles one record, rendering to stdout unless an
// output file was requested.
func runSingleCompile(ctx context.Context, cfg *config.Config, factory func() *pipeline.Pipeline) error {
	job := pipeline.NewJob(cfg.InputFiles[0])
	job.OutputPath = cfg.OutputFile

	if err := factory().Execute(ctx, job); err != nil {
		return err
	}

	// A report on stdout needs no trailing chatter.
	if job.OutputPath != "" {
		printJobSummary(job)
	}
	return nil
}

// runBatchCompile compiles multiple records concurrently using the
// BatchProcessor.
func runBatchCompile(ctx context.Context, cfg *config.Config, factory func() *pipeline.Pipeline, logger *slog.Logger) error {
	fmt.Printf("Compiling %d audit records (concurrency: %d)...\n\n",
		len(cfg.InputFiles), cfg.BatchSize)

	startTime := time.Now()

	jobs := make([]*pipeline.Job, len(cfg.InputFiles))
	for i, input := range cfg.InputFiles {
		jobs[i] = pipeline.NewJob(input)
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	var failed int
	err := bp.ProcessBatchWithCallback(ctx, jobs, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()

		if job.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[%d/%d] FAILED %s: %v\n",
				index+1, len(jobs), job.InputPath, job.Err)
			return
		}

		fmt.Printf("[%d/%d] ", index+1, len(jobs))
		printJobSummary(job)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nBatch compile completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed to compile", failed, len(jobs))
	}
	return nil
}

// printJobSummary prints one line describing a compiled report.
func printJobSummary(job *pipeline.Job) {
	c := job.Compiled
	titler := cases.Title(language.English)

	score := "overall N/A"
	if c.OverallDefined {
		score = fmt.Sprintf("overall %.1f", c.OverallScore)
	}

	platform := c.Report.Platform
	if platform != "" && platform != "unknown" {
		platform = " [" + titler.String(platform) + "]"
	} else {
		platform = ""
	}

	fmt.Printf("%s%s: %s, %d findings (%d urgent) -> %s (%d bytes)\n",
		c.Report.DisplayName(), platform, score,
		c.TotalFindings, c.UrgentFindings,
		job.OutputPath, job.BytesWritten)
}

// siteOptionsStep applies per-site configuration to a job after decoding.
// It must run after the decode step (it needs the site URL) and before the
// compile step (it sets the compile options).
type siteOptionsStep struct {
	// sites holds the loaded configuration file.
	sites *config.File

	// base holds the CLI-level compile options that site config refines.
	base compile.Options

	// format is the CLI-level output format.
	format report.Format

	// formatLocked is true when --format was given explicitly, in which
	// case a site config format is ignored.
	formatLocked bool

	// derive controls whether the output path is derived from the input
	// path. True in batch mode, where stdout is not an option.
	derive bool

	// outputDir is the directory for derived output paths. Empty means
	// next to the input file.
	outputDir string
}

// Name returns the step name.
func (s *siteOptionsStep) Name() string {
	return "configure"
}

// Do merges site configuration into the job's compile options.
func (s *siteOptionsStep) Do(_ context.Context, job *pipeline.Job) error {
	if job.Report == nil {
		return fmt.Errorf("configure: no decoded record (decode step must run first)")
	}

	opts := s.base
	format := s.format

	if s.sites != nil {
		sc := s.sites.GetSiteConfig(siteHost(job.Report.SiteURL))

		if sc.TopFindings > 0 {
			opts.TopFindings = sc.TopFindings
		}
		if sc.EmbedImages != nil {
			opts.EmbedImages = *sc.EmbedImages
		}

		colors, err := sc.ColorOverrides()
		if err != nil {
			return fmt.Errorf("site config for %s: %w", job.Report.SiteURL, err)
		}
		if colors != nil {
			opts.Colors = colors
		}

		if sc.Format != "" && !s.formatLocked {
			f, err := report.ParseFormat(sc.Format)
			if err != nil {
				return fmt.Errorf("site config for %s: %w", job.Report.SiteURL, err)
			}
			format = f
		}
	}

	job.Options = &opts
	job.Format = format

	if s.derive {
		job.OutputPath = derivedOutputPath(job.InputPath, s.outputDir, format)
	}
	return nil
}

// siteHost extracts the host from a site URL for config file lookup.
// Config file keys are hosts without the protocol.
func siteHost(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	host := strings.TrimPrefix(raw, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// derivedOutputPath builds the report path for batch mode: the input file
// name with the format's extension, placed in dir or next to the input.
func derivedOutputPath(inputPath, dir string, format report.Format) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, base+"."+format.Extension())
}
