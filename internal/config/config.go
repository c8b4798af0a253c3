package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/psiscan/internal/extract"
	"github.com/nao1215/psiscan/internal/model"
)

// AppName is used for XDG directory paths.
const AppName = "psiscan"

// Text sources.
const (
	// TextSourceSections assembles text from every section of the CV.
	TextSourceSections = "sections"

	// TextSourceStatement uses only the first PersonalStatement entry.
	TextSourceStatement = "statement"
)

// Entity recognition backends.
const (
	// BackendONNX runs a local token-classification model.
	BackendONNX = "onnx"

	// BackendHTTP calls a remote recognition service.
	BackendHTTP = "http"

	// BackendGazetteer matches configured phrase lists.
	BackendGazetteer = "gazetteer"
)

// Default configuration values.
const (
	DefaultInputDir   = "resources/CVs"
	DefaultTextSource = TextSourceSections
	DefaultNERBackend = BackendONNX

	// DefaultHTTPTimeout bounds one request to a remote recognizer.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMinConfidence is the lowest token score the local model keeps.
	DefaultMinConfidence = 0.5
)

// Config holds every setting of one psiscan run. It is built from defaults,
// then the config file, then command-line flags.
type Config struct {
	// InputDir is the directory of CV JSON files.
	InputDir string

	// TextSource is TextSourceSections or TextSourceStatement.
	TextSource string

	// NER configures the entity recognizer.
	NER NERConfig

	// Labels maps recognizer labels onto the entity attributes.
	Labels Labels

	// Honorifics are skipped when looking for names.
	Honorifics []string

	// Seed makes anonymization reproducible. Nil means seeded from the clock.
	Seed *int64

	// Gazetteer maps a recognizer label to its phrases, for BackendGazetteer.
	Gazetteer map[string][]string

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport and MarkdownReport select the report format. They are
	// mutually exclusive; neither means the simple text report.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile sends the report to a file instead of stdout.
	ReportFile string

	// Strict makes any skipped file fail the run.
	Strict bool

	// SentryDSN enables failure notification.
	SentryDSN string

	// ConfigFilePath is the config file given on the command line.
	ConfigFilePath string
}

// NERConfig configures the entity recognizer.
type NERConfig struct {
	Backend string

	// ModelDir holds the local model. File names left empty use the
	// backend defaults.
	ModelDir      string
	ModelFile     string
	TokenizerFile string
	LabelFile     string

	// SharedLibrary is the onnxruntime library path.
	SharedLibrary string

	// MinConfidence drops low-scoring tokens from the local model.
	MinConfidence float64

	URL    string
	APIKey string

	// Timeout bounds one HTTP request.
	Timeout time.Duration

	// RequestsPerSecond limits HTTP calls. Zero means unlimited.
	RequestsPerSecond float64
}

// Labels lists the recognizer labels accepted for each entity attribute.
type Labels struct {
	Organization []string
	Person       []string
	Location     []string
	Education    []string
}

// Map returns the labels keyed by attribute.
func (l Labels) Map() map[model.Attribute][]string {
	return map[model.Attribute][]string{
		model.AttrOrganization: l.Organization,
		model.AttrEducation:    l.Education,
		model.AttrLocation:     l.Location,
		model.AttrPerson:       l.Person,
	}
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		InputDir:   DefaultInputDir,
		TextSource: DefaultTextSource,
		NER: NERConfig{
			Backend:       DefaultNERBackend,
			ModelDir:      DefaultModelDir(),
			MinConfidence: DefaultMinConfidence,
			Timeout:       DefaultHTTPTimeout,
		},
		Labels: Labels{
			Organization: []string{extract.DefaultOrganizationLabel},
			Person:       []string{extract.DefaultPersonLabel},
			Location:     []string{extract.DefaultLocationLabel},
			Education:    []string{extract.DefaultEducationLabel},
		},
		Honorifics: append([]string(nil), extract.DefaultHonorifics...),
	}
}

// XDGDataDir returns the psiscan data directory, for example
// ~/.local/share/psiscan on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the psiscan config directory, for example
// ~/.config/psiscan on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultModelDir is where the local model is looked for when no directory
// is configured.
func DefaultModelDir() string {
	return filepath.Join(XDGDataDir(), "model")
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return ErrNoInputDir
	}

	switch c.TextSource {
	case TextSourceSections, TextSourceStatement:
	default:
		return ErrInvalidTextSource
	}

	if err := c.NER.validate(c.Gazetteer); err != nil {
		return err
	}

	if len(c.Labels.Education) == 0 {
		return ErrNoEducationLabel
	}
	for _, labels := range c.Labels.Map() {
		for _, l := range labels {
			if l == "" {
				return ErrEmptyLabel
			}
		}
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

func (n NERConfig) validate(gazetteer map[string][]string) error {
	switch n.Backend {
	case BackendONNX:
		if n.ModelDir == "" {
			return ErrNoModelDir
		}
		if n.MinConfidence < 0 || n.MinConfidence > 1 {
			return ErrInvalidConfidence
		}
	case BackendHTTP:
		if n.URL == "" {
			return ErrNoNERURL
		}
		if n.Timeout <= 0 {
			return ErrInvalidTimeout
		}
		if n.RequestsPerSecond < 0 {
			return ErrInvalidRate
		}
	case BackendGazetteer:
		if len(gazetteer) == 0 {
			return ErrEmptyGazetteer
		}
	default:
		return ErrUnknownBackend
	}
	return nil
}
