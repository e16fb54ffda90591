package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/liftlens/croaudit/internal/assets"
	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/database"
	"github.com/liftlens/croaudit/internal/record"
	"github.com/liftlens/croaudit/internal/report"
	"github.com/liftlens/croaudit/internal/sanitize"
)

// DecodeStep reads and decodes the audit record JSON file.
type DecodeStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// DecodeStepOption configures a DecodeStep.
type DecodeStepOption func(*DecodeStep)

// WithDecodeLogger sets a custom logger for the decode step.
func WithDecodeLogger(logger *slog.Logger) DecodeStepOption {
	return func(s *DecodeStep) {
		s.logger = logger
	}
}

// NewDecodeStep creates a new decode step.
func NewDecodeStep(opts ...DecodeStepOption) *DecodeStep {
	s := &DecodeStep{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do reads the job's input file into a model.AuditReport.
func (s *DecodeStep) Do(_ context.Context, job *Job) error {
	r, err := record.DecodeFile(job.InputPath)
	if err != nil {
		return err
	}
	job.Report = r

	s.logger.Debug("record decoded",
		"input", job.InputPath,
		"site", r.SiteURL,
		"pages", len(r.Pages),
	)
	return nil
}

// SanitizeStep strips markup from narrative fields of the decoded record.
// It must run before compilation so every renderer sees the same text.
type SanitizeStep struct{}

// NewSanitizeStep creates a new sanitize step.
func NewSanitizeStep() *SanitizeStep {
	return &SanitizeStep{}
}

// Name returns the step name.
func (s *SanitizeStep) Name() string {
	return "sanitize"
}

// Do sanitizes the job's decoded record in place.
func (s *SanitizeStep) Do(_ context.Context, job *Job) error {
	if job.Report == nil {
		return fmt.Errorf("sanitize: no decoded record (decode step must run first)")
	}
	sanitize.Report(job.Report)
	return nil
}

// CompileStep validates and aggregates the decoded record.
type CompileStep struct {
	// opts are the compilation options used when the job carries none.
	opts compile.Options
}

// NewCompileStep creates a compile step with the given default options.
// A job can override them by setting Job.Options, which is how per-site
// configuration is applied in batch mode.
func NewCompileStep(opts compile.Options) *CompileStep {
	return &CompileStep{opts: opts}
}

// Name returns the step name.
func (s *CompileStep) Name() string {
	return "compile"
}

// Do compiles the job's record into render-ready aggregates.
func (s *CompileStep) Do(_ context.Context, job *Job) error {
	if job.Report == nil {
		return fmt.Errorf("compile: no decoded record (decode step must run first)")
	}

	opts := s.opts
	if job.Options != nil {
		opts = *job.Options
	}

	compiled, err := compile.Compile(job.Report, opts)
	if err != nil {
		return err
	}
	job.Compiled = compiled
	return nil
}

// RenderStep writes the compiled audit in the configured format.
//
// Screenshot references in the record are resolved relative to the input
// file's directory, matching how the auditing agent lays out its output.
type RenderStep struct {
	// format is the output format to render.
	format report.Format

	// stdout is the destination used when the job has no output path.
	stdout io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderStdout sets the writer used when a job has no output path.
// Defaults to os.Stdout.
func WithRenderStdout(w io.Writer) RenderStepOption {
	return func(s *RenderStep) {
		s.stdout = w
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a render step for the given format.
func NewRenderStep(format report.Format, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		format: format,
		stdout: os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders the compiled audit to the job's output path or stdout.
func (s *RenderStep) Do(_ context.Context, job *Job) error {
	if job.Compiled == nil {
		return fmt.Errorf("render: no compiled audit (compile step must run first)")
	}

	format := s.format
	if job.Format != "" {
		format = job.Format
	}

	// Render into memory first. A writer failure must leave no partial
	// file behind, so the output path is only touched on success.
	var buf bytes.Buffer
	writer, err := newWriter(format, &buf, job)
	if err != nil {
		return err
	}

	n, err := writer.Write(job.Compiled)
	if err != nil {
		return err
	}

	if job.OutputPath != "" {
		if err := os.WriteFile(job.OutputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else if _, err := s.stdout.Write(buf.Bytes()); err != nil {
		return err
	}
	job.BytesWritten = n

	s.logger.Debug("report rendered",
		"input", job.InputPath,
		"output", job.OutputPath,
		"format", format.String(),
		"bytes", n,
	)
	return nil
}

// newWriter builds the format writer. The HTML writer gets an asset loader
// rooted at the input file's directory so relative screenshot paths resolve.
func newWriter(format report.Format, out io.Writer, job *Job) (report.Writer, error) {
	if format == report.FormatHTML {
		loader := assets.NewLoader(filepath.Dir(job.InputPath))
		return report.NewHTMLWriter(out, report.WithAssetLoader(loader)), nil
	}
	return report.NewWriter(format, out)
}

// SaveStep persists the compiled audit for later comparison.
type SaveStep struct {
	// db is the audit history store. A nil db makes the step a no-op,
	// which is how --no-save is implemented.
	db *database.AuditDB

	// logger for structured logging.
	logger *slog.Logger
}

// SaveStepOption configures a SaveStep.
type SaveStepOption func(*SaveStep)

// WithSaveLogger sets a custom logger for the save step.
func WithSaveLogger(logger *slog.Logger) SaveStepOption {
	return func(s *SaveStep) {
		s.logger = logger
	}
}

// NewSaveStep creates a save step backed by the given database.
func NewSaveStep(db *database.AuditDB, opts ...SaveStepOption) *SaveStep {
	s := &SaveStep{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the compiled audit. Skipped when no database is configured.
func (s *SaveStep) Do(ctx context.Context, job *Job) error {
	if s.db == nil {
		s.logger.Debug("skipping save, no database configured")
		return nil
	}
	if job.Compiled == nil {
		return fmt.Errorf("save: no compiled audit (compile step must run first)")
	}

	id, err := s.db.SaveAudit(ctx, job.Compiled)
	if err != nil {
		return err
	}
	job.SavedID = id

	s.logger.Debug("audit saved",
		"site", job.Compiled.Report.SiteURL,
		"id", id,
	)
	return nil
}

// DefaultPipeline creates a pipeline with the standard compile steps in
// order: decode, sanitize, compile, render, save.
//
// Design decision: We provide a default pipeline because the step order is
// a correctness constraint, not a preference. Sanitization must precede
// compilation so aggregates and rendered text agree, and saving works on
// the compiled form.
//
// A nil db disables saving without changing the step sequence.
func DefaultPipeline(compileOpts compile.Options, format report.Format, db *database.AuditDB, pipelineOpts []Option, renderOpts ...RenderStepOption) *Pipeline {
	p := New(pipelineOpts...)

	p.AddSteps(
		NewDecodeStep(WithDecodeLogger(p.logger)),
		NewSanitizeStep(),
		NewCompileStep(compileOpts),
		NewRenderStep(format, append([]RenderStepOption{WithRenderLogger(p.logger)}, renderOpts...)...),
		NewSaveStep(db, WithSaveLogger(p.logger)),
	)

	return p
}
