package anonymize

import (
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nao1215/psiscan/internal/model"
)

// MaskRune is the character masks are made of.
const MaskRune = '*'

// Anonymizer replaces PSI values with masks or synthetic stand-ins.
//
// Person entries become synthetic names, Location entries are paired into
// city/country units and each unit becomes a synthetic location, and every
// other value is masked with one asterisk per character.
//
// An Anonymizer owns its random source and is not safe for concurrent use.
type Anonymizer struct {
	rng *rand.Rand
}

// Option configures an Anonymizer.
type Option func(*Anonymizer)

// WithRand makes the Anonymizer draw from rng.
func WithRand(rng *rand.Rand) Option {
	return func(a *Anonymizer) {
		a.rng = rng
	}
}

// WithSeed makes output reproducible for a given seed.
func WithSeed(seed int64) Option {
	return func(a *Anonymizer) {
		a.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // filler text, not a secret
	}
}

// New returns an Anonymizer seeded from the clock unless an option says otherwise.
func New(opts ...Option) *Anonymizer {
	a := &Anonymizer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // filler text, not a secret
	}
	return a
}

// Anonymize returns a new record with the same keys, in the same order, as rec.
func (a *Anonymizer) Anonymize(rec *model.Record) *model.Record {
	out := model.NewRecord()
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		out.Set(key, a.anonymizeValue(key, v))
	}
	return out
}

func (a *Anonymizer) anonymizeValue(key model.Attribute, v model.Value) model.Value {
	if !v.IsList() {
		return model.Scalar(Mask(v.Text()))
	}

	items := v.Items()
	switch key {
	case model.AttrLocation:
		units := PairLocations(items)
		replaced := make([]string, len(units))
		for i := range units {
			replaced[i] = SyntheticLocation(a.rng)
		}
		return model.List(replaced...)
	case model.AttrPerson:
		replaced := make([]string, len(items))
		for i := range items {
			replaced[i] = SyntheticName(a.rng)
		}
		return model.List(replaced...)
	default:
		replaced := make([]string, len(items))
		for i, item := range items {
			replaced[i] = Mask(item)
		}
		return model.List(replaced...)
	}
}

// Mask returns one MaskRune per character of s.
func Mask(s string) string {
	return strings.Repeat(string(MaskRune), utf8.RuneCountInString(s))
}

// PairLocations groups consecutive entries two at a time into "city, country"
// units. An odd trailing entry stands alone.
func PairLocations(items []string) []string {
	units := make([]string, 0, (len(items)+1)/2)
	for i := 0; i < len(items); i += 2 {
		if i+1 < len(items) {
			units = append(units, items[i]+", "+items[i+1])
			continue
		}
		units = append(units, items[i])
	}
	return units
}
