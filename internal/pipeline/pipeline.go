package pipeline

import (
	"context"
	"log/slog"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
	"github.com/liftlens/croaudit/internal/report"
)

// Job carries one audit record through the pipeline. Steps fill in fields
// as they run: decode sets Report, compile sets Compiled, render sets
// BytesWritten, save sets SavedID.
type Job struct {
	// InputPath is the audit record JSON file to compile.
	InputPath string

	// OutputPath is the report destination. Empty means stdout.
	OutputPath string

	// Options, when non-nil, overrides the compile step's default options
	// for this job. Batch mode uses this for per-site configuration.
	Options *compile.Options

	// Format, when non-empty, overrides the render step's format for this
	// job. Set alongside Options when a site config requests a format.
	Format report.Format

	// Report is the decoded audit record.
	Report *model.AuditReport

	// Compiled is the aggregated, render-ready audit.
	Compiled *compile.CompiledAudit

	// BytesWritten is the size of the rendered report.
	BytesWritten int

	// SavedID is the database ID of the saved audit, zero when not saved.
	SavedID int64

	// Err holds the first step failure, nil on success.
	Err error

	// ErrorMessage is Err.Error(), kept separately so a serialized job
	// still carries the failure text.
	ErrorMessage string

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string
}

// NewJob creates a job for one input file.
func NewJob(inputPath string) *Job {
	return &Job{InputPath: inputPath}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the job as accumulated by
// previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., skipping, retries)
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the job to modify. Returns an error if the step
	// fails critically.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution even
// when a step fails. Failed steps are logged and recorded on the job, but
// subsequent steps still execute.
//
// The default is to stop on error because every step here depends on its
// predecessor: there is nothing to render when compilation failed. The
// option exists for steps with independent side effects, such as saving
// a compiled audit even when rendering to disk failed.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded on the job).
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			job.Err = ctx.Err()
			job.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"input", job.InputPath,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"input", job.InputPath,
				"error", err,
			)

			if job.Err == nil {
				job.Err = err
				job.ErrorMessage = err.Error()
			}

			if !p.continueOnError {
				return err
			}
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return job.Err
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
