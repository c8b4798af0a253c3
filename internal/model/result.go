package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/psiscan/internal/cv"
)

// FileResult is the outcome of processing one CV file.
// Steps of the processing pipeline fill it in progressively.
type FileResult struct {
	// File is the base name of the CV file.
	File string `json:"file"`

	// ProcessedAt is when processing of the file started.
	ProcessedAt time.Time `json:"processed_at"`

	// PSI is the merged extraction result.
	PSI *Record `json:"psi,omitempty"`

	// Anonymized is PSI with every value masked or substituted.
	Anonymized *Record `json:"anonymized,omitempty"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps,omitempty"`

	// Skipped is true when the file could not be processed.
	Skipped bool `json:"skipped,omitempty"`

	// ErrorMessage describes why the file was skipped.
	ErrorMessage string `json:"error,omitempty"`

	// Err is the underlying error. Not serialized.
	Err error `json:"-"`

	// Source is the parsed CV. Not serialized: it holds raw PSI.
	Source *cv.Record `json:"-"`

	// Text is the assembled CV text fed to the extractors.
	Text string `json:"-"`

	// RegexPSI and EntityPSI hold the two extractors' results before merging.
	RegexPSI  *Record `json:"-"`
	EntityPSI *Record `json:"-"`
}

// NewFileResult returns a result for the named file.
func NewFileResult(file string, source *cv.Record) *FileResult {
	return &FileResult{
		File:        file,
		ProcessedAt: time.Now(),
		Source:      source,
	}
}

// MarkSkipped records err as the reason the file was not processed.
func (r *FileResult) MarkSkipped(err error) {
	r.Skipped = true
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Run collects the results of one pass over an input directory.
type Run struct {
	// ID identifies the run in reports and logs.
	ID string `json:"id"`

	// InputDir is the directory that was scanned.
	InputDir string `json:"input_dir"`

	// Recognizer names the entity recognition backend used.
	Recognizer string `json:"recognizer"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Results holds one entry per file, in processing order.
	Results []*FileResult `json:"results"`
}

// NewRun starts a run over dir with a fresh random ID.
func NewRun(dir, recognizer string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		InputDir:   dir,
		Recognizer: recognizer,
		StartedAt:  time.Now(),
		Results:    make([]*FileResult, 0),
	}
}

// Add appends a file result.
func (r *Run) Add(res *FileResult) {
	r.Results = append(r.Results, res)
}

// Finish stamps the completion time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
}

// ProcessedCount returns the number of files that were fully processed.
func (r *Run) ProcessedCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Skipped {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of files that were skipped.
func (r *Run) SkippedCount() int {
	return len(r.Results) - r.ProcessedCount()
}

// AttributeCounts returns, for each attribute in vocabulary order, how many
// values were detected across all processed files. A scalar counts once; a
// list counts its entries. Attributes never detected are omitted.
func (r *Run) AttributeCounts() []AttributeCount {
	totals := make(map[Attribute]int)
	for _, res := range r.Results {
		if res.Skipped || res.PSI == nil {
			continue
		}
		for _, k := range res.PSI.Keys() {
			v, _ := res.PSI.Get(k)
			totals[k] += v.Len()
		}
	}

	counts := make([]AttributeCount, 0, len(totals))
	for _, a := range AllAttributes() {
		if n := totals[a]; n > 0 {
			counts = append(counts, AttributeCount{Attribute: a, Count: n})
		}
	}
	return counts
}

// AttributeCount pairs an attribute with a detection count.
type AttributeCount struct {
	Attribute Attribute `json:"attribute"`
	Count     int       `json:"count"`
}
