package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stokewood/triage/internal/record"
)

type stubMergeLister struct {
	pages map[int][]record.Record
	calls int
}

func (s *stubMergeLister) ListMergeRequests(_ context.Context, _, page, _ int) ([]record.Record, error) {
	s.calls++
	return s.pages[page], nil
}

func mergeRec(id int, title, branch string) record.Record {
	return record.Record{
		"id":            float64(id),
		"title":         title,
		"state":         "opened",
		"source_branch": branch,
		"target_branch": "main",
		"author":        map[string]any{"name": "Dana Voss"},
	}
}

func TestMRSearchRequiresFilter(t *testing.T) {
	var out bytes.Buffer
	err := runMRSearch(context.Background(), &stubMergeLister{}, 12, mrSearchOptions{Limit: 10, Position: "branch"}, &out)
	if err == nil {
		t.Fatal("expected error without issue or story")
	}
}

func TestMRSearchByIssueOnBranch(t *testing.T) {
	host := &stubMergeLister{pages: map[int][]record.Record{
		1: {
			mergeRec(301, "Fix login redirect", "acme-8916_fix_login"),
			mergeRec(302, "Rotate keys", "acme-8924_rotate_keys"),
		},
	}}
	var out bytes.Buffer

	opts := mrSearchOptions{Issue: "8916", Limit: 10, Position: "branch"}
	if err := runMRSearch(context.Background(), host, 12, opts, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "301") || strings.Contains(got, "302") {
		t.Fatalf("wrong merge requests kept:\n%s", got)
	}
}

func TestMRSearchByStoryOnTitle(t *testing.T) {
	host := &stubMergeLister{pages: map[int][]record.Record{
		1: {
			mergeRec(301, "ACME-101 fix login redirect", "feature-a"),
			mergeRec(302, "ACME-202 rotate keys", "feature-b"),
		},
	}}
	var out bytes.Buffer

	opts := mrSearchOptions{Story: "acme-202", Limit: 10, Position: "title"}
	if err := runMRSearch(context.Background(), host, 12, opts, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "302") || strings.Contains(got, "301") {
		t.Fatalf("wrong merge requests kept:\n%s", got)
	}
}

func TestMRSearchNoMatches(t *testing.T) {
	host := &stubMergeLister{pages: map[int][]record.Record{
		1: {mergeRec(301, "Fix login redirect", "acme-8916_fix_login")},
	}}
	var out bytes.Buffer

	opts := mrSearchOptions{Issue: "9999", Limit: 10, Position: "branch"}
	if err := runMRSearch(context.Background(), host, 12, opts, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "No Merge Requests found.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestMRSearchInvalidPosition(t *testing.T) {
	var out bytes.Buffer
	opts := mrSearchOptions{Issue: "1", Limit: 10, Position: "assignee"}
	if err := runMRSearch(context.Background(), &stubMergeLister{}, 12, opts, &out); err == nil {
		t.Fatal("expected error for invalid position")
	}
}

func TestCollectPagesUntilLimit(t *testing.T) {
	// Two matches per full page of three; the second page tops up the
	// requested three matches.
	host := &stubMergeLister{pages: map[int][]record.Record{
		1: {
			mergeRec(1, "x", "acme-1_a"),
			mergeRec(2, "x", "other"),
			mergeRec(3, "x", "acme-1_b"),
		},
		2: {
			mergeRec(4, "x", "acme-1_c"),
			mergeRec(5, "x", "acme-1_d"),
			mergeRec(6, "x", "other"),
		},
	}}
	keep := func(batch []record.Record) []record.Record {
		var out []record.Record
		for _, m := range batch {
			if strings.Contains(m.Str("source_branch"), "acme-1") {
				out = append(out, m)
			}
		}
		return out
	}

	merges, err := collectMergeRequests(context.Background(), host, 12, 3, keep)
	if err != nil {
		t.Fatal(err)
	}
	if len(merges) != 3 {
		t.Fatalf("len = %d", len(merges))
	}
	if host.calls != 2 {
		t.Fatalf("calls = %d", host.calls)
	}
}

func TestCollectStopsOnShortPage(t *testing.T) {
	host := &stubMergeLister{pages: map[int][]record.Record{
		1: {mergeRec(1, "x", "other")},
	}}
	keep := func(batch []record.Record) []record.Record { return nil }

	merges, err := collectMergeRequests(context.Background(), host, 12, 5, keep)
	if err != nil {
		t.Fatal(err)
	}
	if len(merges) != 0 || host.calls != 1 {
		t.Fatalf("len = %d calls = %d", len(merges), host.calls)
	}
}

func TestCollectPageCapExhausted(t *testing.T) {
	pages := map[int][]record.Record{}
	for page := 1; page <= maxSearchPages+1; page++ {
		pages[page] = []record.Record{
			mergeRec(page, "x", "other"),
			mergeRec(page+1000, "x", fmt.Sprintf("other-%d", page)),
		}
	}
	host := &stubMergeLister{pages: pages}
	keep := func(batch []record.Record) []record.Record { return nil }

	_, err := collectMergeRequests(context.Background(), host, 12, 2, keep)
	if !errors.Is(err, ErrPageCapExhausted) {
		t.Fatalf("err = %v", err)
	}
	if host.calls != maxSearchPages {
		t.Fatalf("calls = %d", host.calls)
	}
}
