package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the structure of the psiscan YAML configuration file. Every field
// is optional; unset fields leave the defaults alone.
type File struct {
	Input      string              `yaml:"input,omitempty"`
	TextSource string              `yaml:"textSource,omitempty" validate:"omitempty,oneof=sections statement"`
	NER        NERFile             `yaml:"ner,omitempty"`
	Labels     LabelsFile          `yaml:"labels,omitempty"`
	Honorifics []string            `yaml:"honorifics,omitempty" validate:"omitempty,dive,required,alpha"`
	Anonymize  AnonymizeFile       `yaml:"anonymize,omitempty"`
	Gazetteer  map[string][]string `yaml:"gazetteer,omitempty" validate:"omitempty,dive,keys,required,endkeys,min=1,dive,required"`
}

// NERFile is the ner section of the configuration file.
type NERFile struct {
	Backend           string        `yaml:"backend,omitempty" validate:"omitempty,oneof=onnx http gazetteer"`
	ModelDir          string        `yaml:"modelDir,omitempty"`
	ModelFile         string        `yaml:"modelFile,omitempty"`
	TokenizerFile     string        `yaml:"tokenizerFile,omitempty"`
	LabelFile         string        `yaml:"labelFile,omitempty"`
	SharedLibrary     string        `yaml:"sharedLibrary,omitempty"`
	MinConfidence     *float64      `yaml:"minConfidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	URL               string        `yaml:"url,omitempty" validate:"omitempty,url"`
	APIKey            string        `yaml:"apiKey,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond,omitempty" validate:"gte=0"`
}

// LabelsFile is the labels section. Each entry accepts a single label or a list.
type LabelsFile struct {
	Organization LabelList `yaml:"organization,omitempty" validate:"omitempty,dive,required"`
	Person       LabelList `yaml:"person,omitempty" validate:"omitempty,dive,required"`
	Location     LabelList `yaml:"location,omitempty" validate:"omitempty,dive,required"`
	Education    LabelList `yaml:"education,omitempty" validate:"omitempty,dive,required"`
}

// AnonymizeFile is the anonymize section.
type AnonymizeFile struct {
	Seed *int64 `yaml:"seed,omitempty"`
}

// LabelList is a list of labels that may be written as a single scalar.
type LabelList []string

// UnmarshalYAML accepts "EDU" as well as [EDU, EDUCATION].
func (l *LabelList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = LabelList{value.Value}
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Validate checks the file's values. The error wraps ErrInvalidConfigFile
// and names every offending field.
func (f *File) Validate() error {
	err := validator.New().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fieldPath(fe.Namespace()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfigFile, strings.Join(msgs, "; "))
}

// Apply copies every field set in the file onto c.
func (f *File) Apply(c *Config) {
	if f.Input != "" {
		c.InputDir = f.Input
	}
	if f.TextSource != "" {
		c.TextSource = f.TextSource
	}

	n := f.NER
	setString(&c.NER.Backend, n.Backend)
	setString(&c.NER.ModelDir, n.ModelDir)
	setString(&c.NER.ModelFile, n.ModelFile)
	setString(&c.NER.TokenizerFile, n.TokenizerFile)
	setString(&c.NER.LabelFile, n.LabelFile)
	setString(&c.NER.SharedLibrary, n.SharedLibrary)
	setString(&c.NER.URL, n.URL)
	setString(&c.NER.APIKey, n.APIKey)
	if n.MinConfidence != nil {
		c.NER.MinConfidence = *n.MinConfidence
	}
	if n.Timeout != 0 {
		c.NER.Timeout = n.Timeout
	}
	if n.RequestsPerSecond != 0 {
		c.NER.RequestsPerSecond = n.RequestsPerSecond
	}

	setLabels(&c.Labels.Organization, f.Labels.Organization)
	setLabels(&c.Labels.Person, f.Labels.Person)
	setLabels(&c.Labels.Location, f.Labels.Location)
	setLabels(&c.Labels.Education, f.Labels.Education)

	if len(f.Honorifics) > 0 {
		c.Honorifics = append([]string(nil), f.Honorifics...)
	}
	if f.Anonymize.Seed != nil {
		seed := *f.Anonymize.Seed
		c.Seed = &seed
	}
	if len(f.Gazetteer) > 0 {
		c.Gazetteer = f.Gazetteer
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setLabels(dst *[]string, v LabelList) {
	if len(v) > 0 {
		*dst = append([]string(nil), v...)
	}
}

// fieldPath turns "File.NER.Backend" into "NER.Backend".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}
