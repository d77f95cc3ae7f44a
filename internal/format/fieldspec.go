// Package format renders result sets as fixed-width terminal tables
// under an ordered field projection.
package format

import (
	"fmt"
	"strings"
)

// Field is one projected column: a record field path (one level of
// nesting allowed, e.g. "assigned_to.name") and its display label.
type Field struct {
	Path  string
	Label string
}

// FieldSpec is an ordered field-path to label projection. Narrowing
// filters membership only; the configured order is never changed.
type FieldSpec struct {
	fields []Field
}

// ParseFieldSpec parses a comma-delimited "path|Label" projection
// string, e.g. "id|ID,subject|Subject".
func ParseFieldSpec(s string) (FieldSpec, error) {
	var spec FieldSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		path, label, ok := strings.Cut(part, "|")
		if !ok || path == "" || label == "" {
			return FieldSpec{}, fmt.Errorf("malformed field projection %q, expected \"path|Label\"", part)
		}
		spec.fields = append(spec.fields, Field{Path: path, Label: label})
	}
	if len(spec.fields) == 0 {
		return FieldSpec{}, fmt.Errorf("empty field projection")
	}
	return spec, nil
}

func (s FieldSpec) Len() int {
	return len(s.fields)
}

// Fields returns the projected columns in display order.
func (s FieldSpec) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Without drops the column with the given path, if present.
func (s FieldSpec) Without(path string) FieldSpec {
	kept := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Path != path {
			kept = append(kept, f)
		}
	}
	return FieldSpec{fields: kept}
}

// Narrow intersects the projection with the requested field names,
// case-insensitive, preserving the configured order. Requested names
// absent from the projection come back for the caller to report.
func (s FieldSpec) Narrow(requested []string) (FieldSpec, []string) {
	if len(requested) == 0 {
		return s, nil
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			want[name] = true
		}
	}

	var narrowed FieldSpec
	for _, f := range s.fields {
		if want[strings.ToLower(f.Path)] {
			narrowed.fields = append(narrowed.fields, f)
			delete(want, strings.ToLower(f.Path))
		}
	}

	var unknown []string
	for _, name := range requested {
		key := strings.ToLower(strings.TrimSpace(name))
		if want[key] {
			unknown = append(unknown, name)
			delete(want, key)
		}
	}
	return narrowed, unknown
}
