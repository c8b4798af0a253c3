package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/psiscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default entity labels. Models trained on CoNLL-03 know ORG, PER and LOC;
// the education category has no standard name, so it is configurable.
const (
	DefaultOrganizationLabel = "ORG"
	DefaultPersonLabel       = "PER"
	DefaultLocationLabel     = "LOC"
	DefaultEducationLabel    = "EDU"
)

var (
	// ErrEmptyLabel is returned when a label mapping contains a blank label.
	ErrEmptyLabel = errors.New("empty entity label")

	// ErrDuplicateLabel is returned when one label is mapped to two attributes.
	ErrDuplicateLabel = errors.New("entity label mapped to more than one attribute")

	// ErrNotEntityAttribute is returned when a label is mapped to a regex attribute.
	ErrNotEntityAttribute = errors.New("attribute is not populated by entity recognition")
)

var upper = cases.Upper(language.Und)

// LabelMap routes recognizer labels to PSI attributes. Labels compare
// case-insensitively and ignore a leading B- or I- tag.
type LabelMap struct {
	byLabel map[string]model.Attribute
}

// DefaultLabels returns the standard mapping with the given education label.
func DefaultLabels(education string) map[model.Attribute][]string {
	return map[model.Attribute][]string{
		model.AttrOrganization: {DefaultOrganizationLabel},
		model.AttrPerson:       {DefaultPersonLabel},
		model.AttrLocation:     {DefaultLocationLabel},
		model.AttrEducation:    {education},
	}
}

// NewLabelMap builds a LabelMap. Each entity attribute may accept several labels.
func NewLabelMap(labels map[model.Attribute][]string) (*LabelMap, error) {
	m := &LabelMap{byLabel: make(map[string]model.Attribute)}
	for attr, names := range labels {
		if !attr.IsEntity() {
			return nil, fmt.Errorf("%w: %s", ErrNotEntityAttribute, attr)
		}
		for _, name := range names {
			key := canonicalLabel(name)
			if key == "" {
				return nil, fmt.Errorf("%w for %s", ErrEmptyLabel, attr)
			}
			if prev, ok := m.byLabel[key]; ok && prev != attr {
				return nil, fmt.Errorf("%w: %s (%s, %s)", ErrDuplicateLabel, key, prev, attr)
			}
			m.byLabel[key] = attr
		}
	}
	return m, nil
}

// Lookup returns the attribute for a recognizer label.
func (m *LabelMap) Lookup(label string) (model.Attribute, bool) {
	attr, ok := m.byLabel[canonicalLabel(label)]
	return attr, ok
}

// Bucket sorts entities into the four entity attributes. The result always
// has all four keys, each a list in entity order. Unknown labels are dropped.
func (m *LabelMap) Bucket(entities []Entity) *model.Record {
	buckets := make(map[model.Attribute][]string, len(model.EntityAttributes))
	for _, e := range entities {
		attr, ok := m.Lookup(e.Label)
		if !ok {
			continue
		}
		buckets[attr] = append(buckets[attr], e.Text)
	}

	rec := model.NewRecord()
	for _, attr := range model.EntityAttributes {
		rec.Set(attr, model.List(buckets[attr]...))
	}
	return rec
}

func canonicalLabel(label string) string {
	label = upper.String(strings.TrimSpace(label))
	for _, tag := range []string{"B-", "I-"} {
		label = strings.TrimPrefix(label, tag)
	}
	return label
}
