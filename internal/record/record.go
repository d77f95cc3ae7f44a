// Package record defines the schema-less result types returned by the
// upstream services. Payload shapes genuinely vary by endpoint and API
// version, so fields are presence-checked rather than forced into structs.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one upstream object: an issue, a merge request, a project.
type Record map[string]any

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Str returns the value at key rendered as a string. Missing keys and
// nested objects render as the empty string.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// Int returns the value at key as an int. JSON numbers decode as float64,
// so both shapes are accepted.
func (r Record) Int(key string) (int, bool) {
	switch t := r[key].(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Float returns the value at key as a float64.
func (r Record) Float(key string) (float64, bool) {
	switch t := r[key].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

// Name returns the "name" member of a nested object at key, the common
// upstream shape for references like {"status": {"id": 1, "name": "New"}}.
func (r Record) Name(key string) (string, bool) {
	obj, ok := r[key].(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := obj["name"].(string)
	return name, ok
}

// Field resolves a field path with at most one level of nesting, for
// example "assignee.name". A missing segment returns (nil, false).
func (r Record) Field(path string) (any, bool) {
	head, tail, nested := strings.Cut(path, ".")
	v, ok := r[head]
	if !ok || !nested {
		return v, ok
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok = obj[tail]
	return v, ok
}

// Sub returns the nested record at key.
func (r Record) Sub(key string) (Record, bool) {
	obj, ok := r[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(obj), true
}

// List returns the slice of nested records at key.
func (r Record) List(key string) []Record {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, Record(obj))
		}
	}
	return out
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// IDName is one entry of a flat listing capability response.
type IDName struct {
	ID   int
	Name string
}

func (e IDName) String() string {
	return fmt.Sprintf("%d:%s", e.ID, e.Name)
}
