package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stokewood/triage/internal/client"
	"github.com/stokewood/triage/internal/record"
)

// UserResolver resolves a user's full name to their id.
type UserResolver interface {
	UserID(ctx context.Context, name, projectID string) (int, error)
}

// VersionResolver resolves a version name to its id within one project.
type VersionResolver interface {
	VersionID(ctx context.Context, projectID, name string) (int, error)
}

// TrackerResolver resolves a tracker name or validates a numeric id.
type TrackerResolver interface {
	TrackerID(ctx context.Context, value string) (int, error)
}

// CategoryResolver resolves a category name to its id within one project.
type CategoryResolver interface {
	CategoryID(ctx context.Context, projectID, name string) (int, error)
}

// reservedStatuses pass through to the upstream unresolved.
var reservedStatuses = map[string]bool{"*": true, "open": true, "close": true}

// assignedMagicTokens map directly to upstream values, no lookup.
var assignedMagicTokens = map[string]string{
	"me":     "me",
	"not me": "!me",
	"anyone": "*",
	"none":   "!*",
	"all":    "",
}

// NormalizeStatus validates a status option: a numeric id, a reserved
// token, a status name, or a comma-separated mix of those OR-joined for
// the upstream. Terms that resolve nothing at all fail.
func NormalizeStatus(ctx context.Context, statuses client.Lister, status string) (FilterOption, error) {
	if isNumeric(status) {
		return Equals(status), nil
	}

	terms := strings.Split(strings.ToLower(status), ",")
	var resolved []string
	var listing []record2name
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if reservedStatuses[term] {
			resolved = append(resolved, term)
			continue
		}
		if listing == nil {
			fetched, err := statuses.Listing(ctx, "issue_status")
			if err != nil {
				return FilterOption{}, fmt.Errorf("fetch statuses: %w", err)
			}
			listing = toRecord2name(fetched)
		}
		for _, entry := range listing {
			if entry.name == term {
				resolved = append(resolved, strconv.Itoa(entry.id))
			}
		}
	}
	switch len(resolved) {
	case 0:
		return FilterOption{}, ErrStatusNotFound
	case 1:
		if reservedStatuses[resolved[0]] {
			return MagicToken(resolved[0]), nil
		}
		return Equals(resolved[0]), nil
	default:
		return Disjunction(resolved), nil
	}
}

// NormalizeAssigned validates an assigned-to option. The magic token
// dictionary takes precedence over name lookup and performs no
// capability calls at all.
func NormalizeAssigned(ctx context.Context, users UserResolver, assigned, projectID string) (FilterOption, error) {
	if isNumeric(assigned) {
		return Equals(assigned), nil
	}
	if token, ok := assignedMagicTokens[assigned]; ok {
		return MagicToken(token), nil
	}
	id, err := users.UserID(ctx, assigned, projectID)
	if err != nil {
		return FilterOption{}, err
	}
	return Equals(strconv.Itoa(id)), nil
}

// NormalizeVersion validates a fixed-version (sprint) option, scoped to
// one project.
func NormalizeVersion(ctx context.Context, versions VersionResolver, projectID, value string) (FilterOption, error) {
	if isNumeric(value) {
		return Equals(value), nil
	}
	id, err := versions.VersionID(ctx, projectID, value)
	if err != nil {
		return FilterOption{}, err
	}
	return Equals(strconv.Itoa(id)), nil
}

// NormalizeTracker validates a tracker option against the tracker
// listing; numeric ids are validated too.
func NormalizeTracker(ctx context.Context, trackers TrackerResolver, value string) (FilterOption, error) {
	id, err := trackers.TrackerID(ctx, value)
	if err != nil {
		return FilterOption{}, err
	}
	return Equals(strconv.Itoa(id)), nil
}

// NormalizeCategory validates a category option. Category listings only
// exist per project, so a project id is a hard requirement.
func NormalizeCategory(ctx context.Context, categories CategoryResolver, projectID, value string) (FilterOption, error) {
	if projectID == "" {
		return FilterOption{}, ErrProjectRequired
	}
	if isNumeric(value) {
		return Equals(value), nil
	}
	id, err := categories.CategoryID(ctx, projectID, value)
	if err != nil {
		return FilterOption{}, err
	}
	return Equals(strconv.Itoa(id)), nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

type record2name struct {
	id   int
	name string
}

func toRecord2name(listing []record.IDName) []record2name {
	out := make([]record2name, 0, len(listing))
	for _, e := range listing {
		out = append(out, record2name{id: e.ID, name: strings.ToLower(e.Name)})
	}
	return out
}
