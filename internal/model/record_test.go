package model

import (
	"encoding/json"
	"testing"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	r.Set(AttrGender, Scalar("Male"))
	r.Set(AttrFirstName, Scalar("John"))
	r.Set(AttrOrganization, List("Acme", "Globex"))

	keys := r.Keys()
	want := []Attribute{AttrGender, AttrFirstName, AttrOrganization}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}

func TestRecordSetOverwritesInPlace(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	r.Set(AttrFirstName, Scalar("John"))
	r.Set(AttrAge, Scalar("34 years old"))
	r.Set(AttrFirstName, Scalar("Jane"))

	if r.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", r.Len())
	}
	if r.Keys()[0] != AttrFirstName {
		t.Errorf("expected First Name to stay first, got %q", r.Keys()[0])
	}
	v, _ := r.Get(AttrFirstName)
	if v.Text() != "Jane" {
		t.Errorf("expected Jane, got %q", v.Text())
	}
}

func TestRecordMerge(t *testing.T) {
	t.Parallel()

	t.Run("disjoint keys union", func(t *testing.T) {
		t.Parallel()

		a := NewRecord()
		a.Set(AttrFirstName, Scalar("John"))
		b := NewRecord()
		b.Set(AttrPerson, List("John Smith"))

		a.Merge(b)
		if !a.Has(AttrFirstName) || !a.Has(AttrPerson) {
			t.Errorf("expected both keys, got %v", a.Keys())
		}
	})

	t.Run("overlapping key is overwritten", func(t *testing.T) {
		t.Parallel()

		a := NewRecord()
		a.Set(AttrLocation, List("Paris"))
		b := NewRecord()
		b.Set(AttrLocation, List("Berlin", "Germany"))

		a.Merge(b)
		v, _ := a.Get(AttrLocation)
		if v.Len() != 2 {
			t.Errorf("expected merged value from second record, got %v", v)
		}
	})

	t.Run("nil is ignored", func(t *testing.T) {
		t.Parallel()

		a := NewRecord()
		a.Merge(nil)
		if a.Len() != 0 {
			t.Errorf("expected empty record, got %d keys", a.Len())
		}
	})
}

func TestValueListIsCopied(t *testing.T) {
	t.Parallel()

	items := []string{"Acme"}
	v := List(items...)
	items[0] = "changed"

	if v.Items()[0] != "Acme" {
		t.Errorf("expected list to be independent of caller slice, got %q", v.Items()[0])
	}

	got := v.Items()
	got[0] = "changed"
	if v.Items()[0] != "Acme" {
		t.Error("expected Items to return a copy")
	}
}

func TestEmptyListStaysList(t *testing.T) {
	t.Parallel()

	v := List()
	if !v.IsList() {
		t.Fatal("expected empty list to be list-valued")
	}
	if v.Len() != 0 {
		t.Errorf("expected length 0, got %d", v.Len())
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	r.Set(AttrLastName, Scalar("Smith"))
	r.Set(AttrFirstName, Scalar("John"))
	r.Set(AttrOrganization, List("Acme"))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"Last Name":"Smith","First Name":"John","Organization":["Acme"]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestRecordString(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	r.Set(AttrFirstName, Scalar("John"))
	r.Set(AttrLocation, List("Paris", "France"))

	want := "{First Name: John, Location: [Paris, France]}"
	if got := r.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRecordClone(t *testing.T) {
	t.Parallel()

	r := NewRecord()
	r.Set(AttrGender, Scalar("Female"))
	c := r.Clone()
	c.Set(AttrAge, Scalar("40 years old"))

	if r.Has(AttrAge) {
		t.Error("expected clone to be independent")
	}
	if !c.Has(AttrGender) {
		t.Error("expected clone to carry original keys")
	}
}
