package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/psiscan/internal/anonymize"
	"github.com/nao1215/psiscan/internal/cv"
	"github.com/nao1215/psiscan/internal/model"
)

// Step is one stage of per-file processing. Each step reads what earlier
// steps left in the result and adds its own output.
type Step interface {
	// Do runs the step. A returned error stops processing of the file.
	Do(ctx context.Context, res *model.FileResult) error

	// Name returns the step's name for logging and for FileResult.Steps.
	Name() string
}

// Pipeline runs its steps in order over one file at a time.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	textSource TextSource
	honorifics []string
	labels     map[model.Attribute][]string
	anonOpts   []anonymize.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used while executing steps.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New returns an empty pipeline. Add steps with AddStep, or use Default.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:      make([]Step, 0),
		textSource: TextSourceSections,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over res. Cancellation is checked before each step.
// The first failing step ends execution and its error is returned as a
// *StepError; res.Steps lists the steps that completed.
func (p *Pipeline) Execute(ctx context.Context, res *model.FileResult) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"file", res.File,
				"reason", err,
			)
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"file", res.File,
		)

		if err := step.Do(ctx, res); err != nil {
			return &StepError{Step: step.Name(), Err: err}
		}
		res.Steps = append(res.Steps, step.Name())
	}
	return nil
}

// Process runs the pipeline over one loaded CV.
//
// A file-level failure (for example a missing PersonalStatement) marks the
// result skipped and returns it with a nil error. Recognizer failures and
// cancellation are returned as errors alongside the partial result.
func (p *Pipeline) Process(ctx context.Context, doc cv.Document) (*model.FileResult, error) {
	res := model.NewFileResult(doc.Name, doc.Record)
	if doc.Record == nil {
		res.MarkSkipped(ErrNoRecord)
		return res, nil
	}

	err := p.Execute(ctx, res)
	switch {
	case err == nil:
		return res, nil
	case IsFatal(err):
		res.MarkSkipped(err)
		return res, err
	default:
		p.logger.Warn("skipping file",
			"file", res.File,
			"error", err,
		)
		res.MarkSkipped(err)
		return res, nil
	}
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
