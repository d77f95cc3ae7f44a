package record

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return m
}

func TestRecordAccessors(t *testing.T) {
	r := Record(decode(t, `{
		"id": 8915,
		"subject": "Fix the widget",
		"estimated_hours": 4.5,
		"status": {"id": 1, "name": "New"},
		"assigned_to": {"id": 7, "name": "John Doe"}
	}`))

	if got := r.Str("subject"); got != "Fix the widget" {
		t.Errorf("Str(subject) = %q", got)
	}
	if got := r.Str("id"); got != "8915" {
		t.Errorf("Str(id) = %q, want integer rendering", got)
	}
	if got := r.Str("estimated_hours"); got != "4.5" {
		t.Errorf("Str(estimated_hours) = %q", got)
	}
	if got := r.Str("missing"); got != "" {
		t.Errorf("Str(missing) = %q, want empty", got)
	}
	if id, ok := r.Int("id"); !ok || id != 8915 {
		t.Errorf("Int(id) = %d, %v", id, ok)
	}
	if name, ok := r.Name("status"); !ok || name != "New" {
		t.Errorf("Name(status) = %q, %v", name, ok)
	}
	if _, ok := r.Name("subject"); ok {
		t.Error("Name(subject) resolved on a scalar field")
	}
	if v, ok := r.Field("assigned_to.name"); !ok || v != "John Doe" {
		t.Errorf("Field(assigned_to.name) = %v, %v", v, ok)
	}
	if _, ok := r.Field("assigned_to.email"); ok {
		t.Error("Field resolved a missing nested member")
	}
	if !r.Has("estimated_hours") || r.Has("spent_hours") {
		t.Error("Has mismatch")
	}
}

func TestFromPayloadScalarMeta(t *testing.T) {
	payload := decode(t, `{
		"issues": [{"id": 1}, {"id": 2}],
		"total_count": 40,
		"limit": 25,
		"offset": 0
	}`)
	rs := FromPayload(payload, "issues")
	if rs.Len() != 2 {
		t.Fatalf("Len = %d", rs.Len())
	}
	if !rs.HasTotal || rs.TotalCount != 40 {
		t.Errorf("TotalCount = %d (has=%v)", rs.TotalCount, rs.HasTotal)
	}
	if rs.Limit != 25 {
		t.Errorf("Limit = %d", rs.Limit)
	}
}

func TestFromPayloadArrayMeta(t *testing.T) {
	// Merged paged responses hand back arrays: limits sum, the first
	// total wins.
	payload := decode(t, `{
		"issues": [{"id": 1}],
		"total_count": [120, 120],
		"limit": [100, 20],
		"offset": [0, 100]
	}`)
	rs := FromPayload(payload, "issues")
	if rs.TotalCount != 120 {
		t.Errorf("TotalCount = %d, want first element", rs.TotalCount)
	}
	if rs.Limit != 120 {
		t.Errorf("Limit = %d, want summed pages", rs.Limit)
	}
	if rs.Offset != 0 {
		t.Errorf("Offset = %d", rs.Offset)
	}
}

func TestFromPayloadUndercount(t *testing.T) {
	// A total_count below the actual item count must not break anything;
	// it only feeds the pagination hint.
	payload := decode(t, `{"issues": [{"id": 1}, {"id": 2}, {"id": 3}], "total_count": 1}`)
	rs := FromPayload(payload, "issues")
	if rs.Len() != 3 || rs.TotalCount != 1 {
		t.Errorf("Len = %d, TotalCount = %d", rs.Len(), rs.TotalCount)
	}
}

func TestEmpty(t *testing.T) {
	var nilSet *ResultSet
	if !nilSet.Empty() {
		t.Error("nil set should be empty")
	}
	if !(&ResultSet{}).Empty() {
		t.Error("zero set should be empty")
	}
	if (&ResultSet{Items: []Record{{}}}).Empty() {
		t.Error("populated set reported empty")
	}
}
