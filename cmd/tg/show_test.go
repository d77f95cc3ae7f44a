package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stokewood/triage/internal/record"
)

type stubShower struct {
	issue   record.Record
	include string
}

func (s *stubShower) ShowIssue(_ context.Context, _ int, include string) (record.Record, error) {
	s.include = include
	return s.issue, nil
}

func journaled(notes ...string) record.Record {
	journals := make([]any, 0, len(notes))
	for _, n := range notes {
		journals = append(journals, map[string]any{
			"notes":      n,
			"user":       map[string]any{"name": "Dana Voss"},
			"created_on": "2024-03-01T10:00:00Z",
		})
	}
	return record.Record{
		"id":       float64(8916),
		"subject":  "Find the dropped packets in staging",
		"journals": journals,
	}
}

func TestShowSubjectAndURL(t *testing.T) {
	shower := &stubShower{issue: journaled()}
	var out bytes.Buffer

	err := runIssueShow(context.Background(), shower, "https://tracker.example.com", 8916, showOptions{}, &out)
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Subject: Find the dropped packets in staging") {
		t.Fatalf("missing subject:\n%s", got)
	}
	if !strings.Contains(got, "URL: https://tracker.example.com/issues/8916") {
		t.Fatalf("missing url:\n%s", got)
	}
	if shower.include != "journals" {
		t.Fatalf("include = %q", shower.include)
	}
}

func TestShowMergeRequestLinks(t *testing.T) {
	shower := &stubShower{issue: journaled(
		"opened https://git.example.com/acme/api/-/merge_requests/41 for review",
		"see also https://docs.example.com/runbook",
		"follow-up in HTTPS://git.example.com/acme/api/-/MERGE_REQUESTS/42",
	)}
	var out bytes.Buffer

	err := runIssueShow(context.Background(), shower, "https://tracker.example.com", 8916, showOptions{MR: true}, &out)
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "MR:") {
		t.Fatalf("missing MR section:\n%s", got)
	}
	if !strings.Contains(got, "https://git.example.com/acme/api/-/merge_requests/41") {
		t.Fatalf("missing first link:\n%s", got)
	}
	if !strings.Contains(got, "MERGE_REQUESTS/42") {
		t.Fatalf("case-insensitive match missed:\n%s", got)
	}
	if strings.Contains(got, "runbook") {
		t.Fatalf("unrelated link kept:\n%s", got)
	}
}

func TestShowNoMergeRequestLinks(t *testing.T) {
	shower := &stubShower{issue: journaled("plain note without links")}
	var out bytes.Buffer

	err := runIssueShow(context.Background(), shower, "https://tracker.example.com", 8916, showOptions{MR: true}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "MR:") {
		t.Fatalf("MR section printed without links:\n%s", out.String())
	}
}

func TestShowDescription(t *testing.T) {
	issue := journaled()
	issue["description"] = "  The packet loss only shows on the second pod.  "
	shower := &stubShower{issue: issue}
	var out bytes.Buffer

	err := runIssueShow(context.Background(), shower, "https://tracker.example.com", 8916, showOptions{Description: true}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "The packet loss only shows on the second pod.") {
		t.Fatalf("description missing:\n%s", out.String())
	}
}

func TestShowComplete(t *testing.T) {
	issue := journaled("Deployed a tcpdump sidecar.", "")
	issue["description"] = "Packet loss investigation."
	issue["status"] = map[string]any{"id": float64(2), "name": "In Progress"}
	shower := &stubShower{issue: issue}
	var out bytes.Buffer

	err := runIssueShow(context.Background(), shower, "https://tracker.example.com", 8916, showOptions{Complete: true}, &out)
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Status: In Progress") {
		t.Fatalf("missing field summary:\n%s", got)
	}
	if !strings.Contains(got, "Packet loss investigation.") {
		t.Fatalf("missing description:\n%s", got)
	}
	if !strings.Contains(got, "Deployed a tcpdump sidecar.") {
		t.Fatalf("missing journal note:\n%s", got)
	}
	if !strings.Contains(got, "Dana Voss") {
		t.Fatalf("missing journal author:\n%s", got)
	}
}
