package pipeline

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/nao1215/psiscan/internal/anonymize"
	"github.com/nao1215/psiscan/internal/cv"
	"github.com/nao1215/psiscan/internal/extract"
	"github.com/nao1215/psiscan/internal/model"
	"github.com/nao1215/psiscan/internal/ner"
)

// TextSource selects how CV text is assembled.
type TextSource string

const (
	// TextSourceSections concatenates the text of every section entry.
	TextSourceSections TextSource = "sections"

	// TextSourceStatement uses the first PersonalStatement entry alone.
	TextSourceStatement TextSource = "statement"
)

// WithTextSource selects the text assembly used by Default.
func WithTextSource(src TextSource) Option {
	return func(p *Pipeline) {
		p.textSource = src
	}
}

// WithHonorifics sets the titles the regex step skips when looking for names.
func WithHonorifics(titles ...string) Option {
	return func(p *Pipeline) {
		p.honorifics = titles
	}
}

// WithLabels sets the recognizer label mapping used by Default.
func WithLabels(labels map[model.Attribute][]string) Option {
	return func(p *Pipeline) {
		p.labels = labels
	}
}

// WithSeed makes anonymization reproducible.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) {
		p.anonOpts = append(p.anonOpts, anonymize.WithSeed(seed))
	}
}

// WithRand sets the random source used for anonymization.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.anonOpts = append(p.anonOpts, anonymize.WithRand(rng))
	}
}

// Default returns the standard pipeline: assemble, regex, ner, merge, anonymize.
// The recognizer is used as given and is not closed by the pipeline.
func Default(recognizer ner.Recognizer, opts ...Option) (*Pipeline, error) {
	p := New(opts...)

	labels := p.labels
	if labels == nil {
		labels = extract.DefaultLabels(extract.DefaultEducationLabel)
	}
	labelMap, err := extract.NewLabelMap(labels)
	if err != nil {
		return nil, fmt.Errorf("building label map: %w", err)
	}

	assemble, err := NewAssembleStep(p.textSource)
	if err != nil {
		return nil, err
	}

	var regexOpts []extract.RegexOption
	if p.honorifics != nil {
		regexOpts = append(regexOpts, extract.WithHonorifics(p.honorifics...))
	}

	p.AddSteps(
		assemble,
		NewRegexStep(extract.NewRegexExtractor(regexOpts...)),
		NewNERStep(extract.NewNERExtractor(recognizer, labelMap, p.logger)),
		NewMergeStep(),
		NewAnonymizeStep(anonymize.New(p.anonOpts...)),
	)
	return p, nil
}

// AssembleStep fills FileResult.Text from the parsed CV.
type AssembleStep struct {
	source TextSource
}

// NewAssembleStep returns an assemble step for the given text source.
func NewAssembleStep(source TextSource) (*AssembleStep, error) {
	switch source {
	case TextSourceSections, TextSourceStatement:
		return &AssembleStep{source: source}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTextSource, source)
	}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do assembles the CV text.
func (s *AssembleStep) Do(_ context.Context, res *model.FileResult) error {
	if res.Source == nil {
		return ErrNoRecord
	}
	if s.source == TextSourceStatement {
		text, err := cv.PersonalStatement(res.Source)
		if err != nil {
			return err
		}
		res.Text = text
		return nil
	}
	res.Text = cv.AssembleText(res.Source)
	return nil
}

// RegexStep runs the pattern extractor.
type RegexStep struct {
	extractor *extract.RegexExtractor
}

// NewRegexStep returns a regex step.
func NewRegexStep(extractor *extract.RegexExtractor) *RegexStep {
	return &RegexStep{extractor: extractor}
}

// Name returns the step name.
func (s *RegexStep) Name() string {
	return "regex"
}

// Do extracts the pattern attributes. It never fails.
func (s *RegexStep) Do(_ context.Context, res *model.FileResult) error {
	res.RegexPSI = s.extractor.Extract(res.Text)
	return nil
}

// NERStep runs entity recognition.
type NERStep struct {
	extractor *extract.NERExtractor
}

// NewNERStep returns an entity recognition step.
func NewNERStep(extractor *extract.NERExtractor) *NERStep {
	return &NERStep{extractor: extractor}
}

// Name returns the step name.
func (s *NERStep) Name() string {
	return "ner"
}

// Do recognizes entities. Any failure is reported as ErrRecognition.
func (s *NERStep) Do(ctx context.Context, res *model.FileResult) error {
	rec, err := s.extractor.Extract(ctx, res.Text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRecognition, err)
	}
	res.EntityPSI = rec
	return nil
}

// MergeStep combines the regex and entity results into FileResult.PSI.
type MergeStep struct{}

// NewMergeStep returns a merge step.
func NewMergeStep() *MergeStep {
	return &MergeStep{}
}

// Name returns the step name.
func (s *MergeStep) Name() string {
	return "merge"
}

// Do merges regex results first, then entity results.
func (s *MergeStep) Do(_ context.Context, res *model.FileResult) error {
	res.PSI = extract.Merge(res.RegexPSI, res.EntityPSI)
	return nil
}

// AnonymizeStep fills FileResult.Anonymized.
type AnonymizeStep struct {
	anonymizer *anonymize.Anonymizer
}

// NewAnonymizeStep returns an anonymize step.
func NewAnonymizeStep(anonymizer *anonymize.Anonymizer) *AnonymizeStep {
	return &AnonymizeStep{anonymizer: anonymizer}
}

// Name returns the step name.
func (s *AnonymizeStep) Name() string {
	return "anonymize"
}

// Do anonymizes the merged record.
func (s *AnonymizeStep) Do(_ context.Context, res *model.FileResult) error {
	if res.PSI == nil {
		res.PSI = model.NewRecord()
	}
	res.Anonymized = s.anonymizer.Anonymize(res.PSI)
	return nil
}
