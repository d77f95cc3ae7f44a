package gitwork

import (
	"errors"
	"testing"

	"github.com/stokewood/triage/internal/record"
)

func issueWithFields(fields ...map[string]any) record.Record {
	raw := make([]any, 0, len(fields))
	for _, f := range fields {
		raw = append(raw, f)
	}
	return record.Record{"custom_fields": raw}
}

func TestStoryCode(t *testing.T) {
	issue := issueWithFields(
		map[string]any{"name": "Severity", "value": "major"},
		map[string]any{"name": "Jira Story Code", "value": "ACME-101"},
	)
	story, err := StoryCode(issue)
	if err != nil {
		t.Fatal(err)
	}
	if story != "ACME-101" {
		t.Errorf("story = %q", story)
	}
}

func TestStoryCodeMissing(t *testing.T) {
	for _, issue := range []record.Record{
		issueWithFields(map[string]any{"name": "Severity", "value": "major"}),
		issueWithFields(map[string]any{"name": "Jira Story Code", "value": ""}),
		{},
	} {
		if _, err := StoryCode(issue); !errors.Is(err, ErrStoryCodeMissing) {
			t.Errorf("err = %v, want ErrStoryCodeMissing", err)
		}
	}
}

func TestStoryParts(t *testing.T) {
	prefix, code, name, err := StoryParts("ACME - ACME-101 - Fix the login - redirect loop")
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "ACME" || code != "ACME" {
		t.Errorf("prefix %q code %q", prefix, code)
	}
	if name != "101 - Fix the login - redirect loop" {
		t.Errorf("name %q", name)
	}

	if _, _, _, err := StoryParts("no separators here"); !errors.Is(err, ErrMalformedSubject) {
		t.Errorf("err = %v, want ErrMalformedSubject", err)
	}
}

func TestSlugStoryName(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"Fix the [login] redirect", "fix_the_login_redirect"},
		{"Cache   invalidation!!", "cache_invalidation_"},
		{"Already_slugged", "already_slugged"},
	} {
		if got := SlugStoryName(tc.in); got != tc.want {
			t.Errorf("%q -> %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanStoryName(t *testing.T) {
	name, err := CleanStoryName("ACME-101 Fix the login rédirect", "ACME-101")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Fix the login rdirect" {
		t.Errorf("name = %q", name)
	}

	if _, err := CleanStoryName("", "ACME-101"); err == nil {
		t.Error("empty subject accepted")
	}
	if _, err := CleanStoryName("subject", ""); err == nil {
		t.Error("empty story accepted")
	}
}

func TestCommitStoryName(t *testing.T) {
	if got := CommitStoryName(`fix 101 - Redirect the "broken" login`); got != `Redirect the 'broken' login` {
		t.Errorf("got %q", got)
	}
}

func TestExpandTemplate(t *testing.T) {
	got := ExpandTemplate("%(story)_%(issue_id)_%(story_name)", "ACME-101", 8916, "fix_the_login")
	if got != "ACME-101_8916_fix_the_login" {
		t.Errorf("got %q", got)
	}

	// Empty tokens leave no dangling underscores.
	got = ExpandTemplate("%(story)_%(issue_id)_%(story_name)", "", 8916, "")
	if got != "8916" {
		t.Errorf("got %q", got)
	}
}
