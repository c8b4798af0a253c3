package model

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// Value is a PSI value: either a single string or an ordered list of strings.
// The zero value is an empty scalar.
type Value struct {
	text  string
	items []string
	list  bool
}

// Scalar returns a single-string value.
func Scalar(s string) Value {
	return Value{text: s}
}

// List returns a list value holding a copy of items.
// A list with no items is still a list.
func List(items ...string) Value {
	return Value{items: slices.Clone(items), list: true}
}

// IsList reports whether v is list-valued.
func (v Value) IsList() bool {
	return v.list
}

// Text returns the scalar string. It is empty for list values.
func (v Value) Text() string {
	return v.text
}

// Items returns a copy of the list entries. It is nil for scalar values.
func (v Value) Items() []string {
	if !v.list {
		return nil
	}
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of entries for a list and 1 for a scalar.
func (v Value) Len() int {
	if v.list {
		return len(v.items)
	}
	return 1
}

// String renders the value for human inspection.
func (v Value) String() string {
	if !v.list {
		return v.text
	}
	return "[" + strings.Join(v.items, ", ") + "]"
}

// MarshalJSON encodes a scalar as a JSON string and a list as a JSON array.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.list {
		items := v.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.text)
}

// Record maps attributes to values and remembers insertion order.
// Setting an existing key replaces its value in place.
type Record struct {
	keys   []Attribute
	values map[Attribute]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[Attribute]Value)}
}

// Set stores v under a.
func (r *Record) Set(a Attribute, v Value) {
	if r.values == nil {
		r.values = make(map[Attribute]Value)
	}
	if _, ok := r.values[a]; !ok {
		r.keys = append(r.keys, a)
	}
	r.values[a] = v
}

// Get returns the value stored under a.
func (r *Record) Get(a Attribute) (Value, bool) {
	v, ok := r.values[a]
	return v, ok
}

// Has reports whether a is present.
func (r *Record) Has(a Attribute) bool {
	_, ok := r.values[a]
	return ok
}

// Keys returns the attributes in insertion order.
func (r *Record) Keys() []Attribute {
	return slices.Clone(r.keys)
}

// Len returns the number of attributes.
func (r *Record) Len() int {
	return len(r.keys)
}

// Merge copies every entry of other into r, overwriting values for keys
// that are already present.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Clone returns an independent copy.
func (r *Record) Clone() *Record {
	c := NewRecord()
	c.Merge(r)
	return c
}

// String renders the record as {Key: value, Key: [a, b]} in key order.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(k))
		sb.WriteString(": ")
		sb.WriteString(r.values[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the record as a JSON object whose members follow
// insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
