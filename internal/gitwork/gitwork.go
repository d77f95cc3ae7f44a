// Package gitwork derives git branch names and commit message prefixes
// from tracker issues, and runs the resulting git commands.
package gitwork

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/stokewood/triage/internal/record"
)

var (
	// ErrStoryCodeMissing reports an issue without a compiled story code.
	ErrStoryCodeMissing = errors.New("the issue is not consistent, please compile the Jira Story Code")

	// ErrMalformedSubject reports a subject that does not follow the
	// "PREFIX - CODE - Name" convention.
	ErrMalformedSubject = errors.New(`subject does not match the "PREFIX - CODE - Name" convention`)
)

const storyCodeField = "Jira Story Code"

// StoryCode extracts the story code from the issue's custom fields.
func StoryCode(issue record.Record) (string, error) {
	var story string
	for _, field := range issue.List("custom_fields") {
		if field.Str("name") == storyCodeField {
			story = field.Str("value")
		}
	}
	if story == "" {
		return "", ErrStoryCodeMissing
	}
	return story, nil
}

// StoryParts splits an issue subject of the form "PREFIX - CODE - Name"
// into its three components. The name segment may itself contain dashes.
func StoryParts(subject string) (prefix, code, name string, err error) {
	parts := strings.SplitN(subject, "-", 3)
	if len(parts) < 3 {
		return "", "", "", ErrMalformedSubject
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), nil
}

var nonWord = regexp.MustCompile(`\W`)

// SlugStoryName turns a free-form story name into a branch-safe slug:
// brackets stripped, non-word runs replaced by underscores, lowercased.
func SlugStoryName(name string) string {
	name = strings.NewReplacer("[", "", "]", "").Replace(name)
	name = strings.ToLower(nonWord.ReplaceAllString(name, "_"))
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return name
}

// CleanStoryName strips the story code out of the subject and reduces
// the remainder to ASCII.
func CleanStoryName(subject, story string) (string, error) {
	if subject == "" || story == "" {
		return "", errors.New("please provide a story name and story code")
	}
	name := strings.TrimSpace(strings.ReplaceAll(subject, story, ""))
	var b strings.Builder
	for _, r := range name {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

var leadingRun = regexp.MustCompile(`^[a-z0-9 ]*[- ]*`)

// CommitStoryName applies the commit-prefix cleanup: the leading
// lowercase run and its separator go, double quotes become single so
// the message survives shell quoting.
func CommitStoryName(name string) string {
	name = leadingRun.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, `"`, "'")
}

// ExpandTemplate fills a branch or commit template. Tokens: %(story),
// %(issue_id), %(story_name). Leading and trailing underscores left by
// empty tokens are trimmed.
func ExpandTemplate(tmpl, story string, issueID int, storyName string) string {
	out := strings.NewReplacer(
		"%(story)", story,
		"%(issue_id)", strconv.Itoa(issueID),
		"%(story_name)", storyName,
	).Replace(tmpl)
	return strings.Trim(out, "_")
}
