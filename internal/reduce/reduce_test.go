package reduce

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stokewood/triage/internal/record"
)

type fixtureIssue struct {
	id        int
	subject   string
	estimated float64
	priority  string
	prioID    int
}

// fixtureSet mirrors one page of real search output: eleven issues, two
// of them estimated, three with "Find" in the subject.
func fixtureSet() *record.ResultSet {
	issues := []fixtureIssue{
		{id: 8924, subject: "Restore nightly backup job"},
		{id: 8925, subject: "Upgrade proxy image"},
		{id: 8918, subject: "Broken pagination on the billing page"},
		{id: 8921, subject: "Find flaky checkout test", estimated: 4},
		{id: 8920, subject: "Find and remove dead feature flags", estimated: 8},
		{id: 8916, subject: "Find the dropped packets in staging"},
		{id: 8923, subject: "Rotate the deploy keys"},
		{id: 8922, subject: "Cache invalidation misses on logout"},
		{id: 8919, subject: "Migrate avatars to the new bucket"},
		{id: 8917, subject: "Timeouts against the payment gateway"},
		{id: 8915, subject: "Clean up orphaned uploads"},
	}
	items := make([]record.Record, 0, len(issues))
	for _, is := range issues {
		item := record.Record{
			"id":      float64(is.id),
			"subject": is.subject,
		}
		if is.estimated != 0 {
			item["estimated_hours"] = is.estimated
		}
		if is.priority != "" {
			item["priority"] = map[string]any{"id": float64(is.prioID), "name": is.priority}
		}
		items = append(items, item)
	}
	return &record.ResultSet{Items: items, TotalCount: 42, HasTotal: true, Limit: 50}
}

func ids(items []record.Record) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		id, _ := item.Int("id")
		out = append(out, id)
	}
	return out
}

func TestDropEstimated(t *testing.T) {
	rs := fixtureSet()
	DropEstimated(rs)

	want := []int{8924, 8925, 8918, 8916, 8923, 8922, 8919, 8917, 8915}
	if diff := cmp.Diff(want, ids(rs.Items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if rs.TotalCount != 40 {
		t.Errorf("total = %d, want 40", rs.TotalCount)
	}
}

func TestFilterSubject(t *testing.T) {
	rs := fixtureSet()
	FilterSubject(rs, "Find")

	want := []int{8921, 8920, 8916}
	if diff := cmp.Diff(want, ids(rs.Items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if rs.TotalCount != 34 {
		t.Errorf("total = %d, want 34", rs.TotalCount)
	}
}

func TestFilterSubjectIsCaseInsensitive(t *testing.T) {
	rs := fixtureSet()
	FilterSubject(rs, "fIND")
	if got := ids(rs.Items); len(got) != 3 {
		t.Errorf("kept %v", got)
	}
}

func TestKeepWhereNeverUnderflowsTotal(t *testing.T) {
	rs := fixtureSet()
	rs.TotalCount = 1
	FilterSubject(rs, "no such subject anywhere")
	if rs.TotalCount != 0 {
		t.Errorf("total = %d", rs.TotalCount)
	}
}

func prioritySet() *record.ResultSet {
	mk := func(id, prioID int, prio string) record.Record {
		return record.Record{
			"id":       float64(id),
			"priority": map[string]any{"id": float64(prioID), "name": prio},
		}
	}
	return &record.ResultSet{Items: []record.Record{
		mk(1, 4, "Normal"),
		mk(2, 5, "High"),
		mk(3, 3, "Low"),
		mk(4, 5, "High"),
		mk(5, 4, "Normal"),
	}}
}

func TestReorderPriorityDescending(t *testing.T) {
	rs := prioritySet()
	ReorderPriority(rs, "high", OrderDescending)

	// Matches first in original order, then the rest by id descending.
	want := []int{2, 4, 1, 5, 3}
	if diff := cmp.Diff(want, ids(rs.Items)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderPriorityAscending(t *testing.T) {
	rs := prioritySet()
	ReorderPriority(rs, "High", OrderAscending)

	want := []int{2, 4, 3, 1, 5}
	if diff := cmp.Diff(want, ids(rs.Items)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderPriorityIsAPartition(t *testing.T) {
	rs := fixtureSet()
	before := ids(rs.Items)
	ReorderPriority(rs, "High", OrderDescending)
	after := ids(rs.Items)

	if len(after) != len(before) {
		t.Fatalf("length changed: %d -> %d", len(before), len(after))
	}
	seen := make(map[int]int)
	for _, id := range after {
		seen[id]++
	}
	for _, id := range before {
		if seen[id] != 1 {
			t.Errorf("id %d appears %d times", id, seen[id])
		}
	}
}

func TestFilterContains(t *testing.T) {
	items := []record.Record{
		{"title": "Fix login redirect", "source_branch": "feature_8912_login"},
		{"title": "Bump deps", "source_branch": "chore_deps"},
		{"title": "Login audit events", "source_branch": "feature_8913_audit"},
	}
	kept := FilterContains(items, "login", "source_branch", "title")
	if len(kept) != 2 {
		t.Fatalf("kept %d records", len(kept))
	}
	if kept[0].Str("title") != "Fix login redirect" || kept[1].Str("title") != "Login audit events" {
		t.Errorf("kept %v", kept)
	}
}
