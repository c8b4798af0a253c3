package anonymize

import (
	"math/rand"
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/nao1215/psiscan/internal/model"
)

var syntheticNamePattern = regexp.MustCompile(`^[A-Z][aeiou][bcdfghjklmnpqrstvwxyz] [A-Z][aeiou][bcdfghjklmnpqrstvwxyz][A-Z][aeiou][bcdfghjklmnpqrstvwxyz]$`)

func sampleRecord() *model.Record {
	rec := model.NewRecord()
	rec.Set(model.AttrFirstName, model.Scalar("John"))
	rec.Set(model.AttrLastName, model.Scalar("Smith"))
	rec.Set(model.AttrAge, model.Scalar("34 years old"))
	rec.Set(model.AttrOrganization, model.List("Acme Corp", "Globex"))
	rec.Set(model.AttrEducation, model.List())
	rec.Set(model.AttrLocation, model.List("Paris", "France", "Berlin"))
	rec.Set(model.AttrPerson, model.List("John Smith", "Jane Doe"))
	return rec
}

func TestAnonymizeKeepsKeys(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	out := New(WithSeed(1)).Anonymize(rec)

	inKeys, outKeys := rec.Keys(), out.Keys()
	if len(inKeys) != len(outKeys) {
		t.Fatalf("expected %d keys, got %d", len(inKeys), len(outKeys))
	}
	for i := range inKeys {
		if inKeys[i] != outKeys[i] {
			t.Errorf("key %d: expected %q, got %q", i, inKeys[i], outKeys[i])
		}
	}
}

func TestAnonymizeScalarsAreMasked(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	out := New(WithSeed(1)).Anonymize(rec)

	for _, key := range []model.Attribute{model.AttrFirstName, model.AttrLastName, model.AttrAge} {
		orig, _ := rec.Get(key)
		got, _ := out.Get(key)
		if got.IsList() {
			t.Errorf("%s: expected scalar", key)
		}
		if got.Text() != Mask(orig.Text()) {
			t.Errorf("%s: expected %q, got %q", key, Mask(orig.Text()), got.Text())
		}
		if len(got.Text()) != len(orig.Text()) {
			t.Errorf("%s: length changed", key)
		}
	}
}

func TestAnonymizeGenericListsAreMasked(t *testing.T) {
	t.Parallel()

	rec := sampleRecord()
	out := New(WithSeed(1)).Anonymize(rec)

	orig, _ := rec.Get(model.AttrOrganization)
	got, _ := out.Get(model.AttrOrganization)
	if got.Len() != orig.Len() {
		t.Fatalf("expected %d entries, got %d", orig.Len(), got.Len())
	}
	for i, item := range orig.Items() {
		if got.Items()[i] != Mask(item) {
			t.Errorf("entry %d: expected %q, got %q", i, Mask(item), got.Items()[i])
		}
	}

	edu, _ := out.Get(model.AttrEducation)
	if !edu.IsList() || edu.Len() != 0 {
		t.Errorf("expected empty Education list to stay an empty list, got %v", edu)
	}
}

func TestAnonymizePersonAndLocation(t *testing.T) {
	t.Parallel()

	out := New(WithSeed(7)).Anonymize(sampleRecord())

	persons, _ := out.Get(model.AttrPerson)
	if persons.Len() != 2 {
		t.Fatalf("expected 2 persons, got %d", persons.Len())
	}
	for _, p := range persons.Items() {
		if !syntheticNamePattern.MatchString(p) {
			t.Errorf("synthetic name %q does not match expected shape", p)
		}
	}

	locations, _ := out.Get(model.AttrLocation)
	if locations.Len() != 2 {
		t.Fatalf("expected 2 locations for 3 entries, got %d", locations.Len())
	}
	for _, l := range locations.Items() {
		if !isSyntheticLocation(l) {
			t.Errorf("synthetic location %q does not match expected shape", l)
		}
	}
}

func TestAnonymizeIsReproducibleWithSeed(t *testing.T) {
	t.Parallel()

	a := New(WithSeed(42)).Anonymize(sampleRecord())
	b := New(WithSeed(42)).Anonymize(sampleRecord())
	if a.String() != b.String() {
		t.Errorf("expected identical output for identical seeds:\n%s\n%s", a, b)
	}
}

func TestAnonymizeWithRand(t *testing.T) {
	t.Parallel()

	a := New(WithRand(rand.New(rand.NewSource(3)))).Anonymize(sampleRecord())
	b := New(WithSeed(3)).Anonymize(sampleRecord())
	if a.String() != b.String() {
		t.Error("expected WithRand and WithSeed on the same seed to agree")
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"John", "****"},
		{"34 years old", "************"},
		{"Zoë", "***"},
		{"東京", "**"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := Mask(tt.in)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if utf8.RuneCountInString(got) != utf8.RuneCountInString(tt.in) {
				t.Error("mask length differs from character count")
			}
		})
	}
}

func TestPairLocations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"Paris"}, []string{"Paris"}},
		{"pair", []string{"Paris", "France"}, []string{"Paris, France"}},
		{"odd", []string{"Paris", "France", "Berlin"}, []string{"Paris, France", "Berlin"}},
		{"even", []string{"a", "b", "c", "d"}, []string{"a, b", "c, d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PairLocations(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("unit %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSyntheticNameShape(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		if name := SyntheticName(rng); !syntheticNamePattern.MatchString(name) {
			t.Fatalf("name %q does not match expected shape", name)
		}
	}
}

func TestSyntheticLocationShape(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		if loc := SyntheticLocation(rng); !isSyntheticLocation(loc) {
			t.Fatalf("location %q does not match expected shape", loc)
		}
	}
}

func isSyntheticLocation(s string) bool {
	for _, p := range CityPrefixes {
		for _, suf := range CitySuffixes {
			for _, c := range Countries {
				if s == p+suf+", "+c {
					return true
				}
			}
		}
	}
	return false
}
