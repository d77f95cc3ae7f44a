// Package resolve turns human-facing names into upstream ids by reading
// tracker listings and the merge-request host's project search.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/stokewood/triage/internal/client"
	"github.com/stokewood/triage/internal/record"
)

var (
	// ErrUserNotFound reports a full name absent from the user listing.
	ErrUserNotFound = errors.New("user not found")

	// ErrVersionNotFound reports a version name absent from the project.
	ErrVersionNotFound = errors.New("version not found")

	// ErrTrackerUnknown reports a tracker name or id absent from the listing.
	ErrTrackerUnknown = errors.New("tracker not found")

	// ErrProjectRequired reports a membership-based lookup without a project.
	ErrProjectRequired = errors.New("to search by assigned user specify the project id")
)

// Listing fetch limits. Users beyond one page of 100 are out of reach by
// upstream pagination rules for non-admins anyway; versions accumulate
// over a project's life so their page is much larger.
const (
	userListLimit    = "100"
	versionListLimit = "500"
)

// Capability is the tracker surface the resolver draws on.
type Capability interface {
	client.Querier
	client.Lister
	ShowUser(ctx context.Context, id int) (record.Record, error)
	CurrentUser(ctx context.Context) (record.Record, error)
}

// Resolver resolves user, version, tracker and category names against
// tracker listings. Safe for concurrent use; it keeps no state.
type Resolver struct {
	tracker Capability
}

func NewResolver(tracker Capability) *Resolver {
	return &Resolver{tracker: tracker}
}

// UserID resolves a "firstname lastname" full name, compared lowercased
// and exact, to a user id. Admin callers read the global user listing;
// everyone else expands the project membership list member by member, so
// a project id is required for them.
func (r *Resolver) UserID(ctx context.Context, name, projectID string) (int, error) {
	users, err := r.listUsers(ctx, projectID)
	if err != nil {
		return 0, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, user := range users {
		full := strings.ToLower(user.Str("firstname") + " " + user.Str("lastname"))
		if full != want {
			continue
		}
		if id, ok := user.Int("id"); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUserNotFound, name)
}

func (r *Resolver) listUsers(ctx context.Context, projectID string) ([]record.Record, error) {
	admin, err := r.isAdmin(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("limit", userListLimit)

	if admin {
		rs, err := r.tracker.Query(ctx, "user", params)
		if err != nil {
			return nil, err
		}
		return rs.Items, nil
	}

	if projectID == "" {
		return nil, ErrProjectRequired
	}
	params.Set("project_id", projectID)
	rs, err := r.tracker.Query(ctx, "membership", params)
	if err != nil {
		return nil, err
	}

	// Membership entries only carry the user's display name, not the
	// first/last split the match runs on, so each member is expanded
	// into a full user record.
	var users []record.Record
	for _, member := range rs.Items {
		sub, ok := member.Sub("user")
		if !ok {
			continue
		}
		id, ok := sub.Int("id")
		if !ok {
			continue
		}
		user, err := r.tracker.ShowUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// isAdmin probes the authenticated user's record. The upstream includes
// the status field only for administrators.
func (r *Resolver) isAdmin(ctx context.Context) (bool, error) {
	current, err := r.tracker.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return current.Has("status"), nil
}

// VersionID resolves a version name within one project, case-insensitive
// exact match.
func (r *Resolver) VersionID(ctx context.Context, projectID, name string) (int, error) {
	params := url.Values{}
	params.Set("project_id", projectID)
	params.Set("limit", versionListLimit)
	rs, err := r.tracker.Query(ctx, "version", params)
	if err != nil {
		return 0, err
	}
	for _, version := range rs.Items {
		if !strings.EqualFold(version.Str("name"), name) {
			continue
		}
		if id, ok := version.Int("id"); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrVersionNotFound, name)
}

// TrackerID resolves a tracker name case-insensitively. Numeric input is
// validated against the same listing rather than trusted.
func (r *Resolver) TrackerID(ctx context.Context, value string) (int, error) {
	listing, err := r.tracker.Listing(ctx, "tracker")
	if err != nil {
		return 0, err
	}
	for _, entry := range listing {
		if strings.EqualFold(entry.Name, value) || fmt.Sprint(entry.ID) == value {
			return entry.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrTrackerUnknown, value)
}

// CategoryID resolves an issue-category name within one project.
func (r *Resolver) CategoryID(ctx context.Context, projectID, name string) (int, error) {
	if projectID == "" {
		return 0, ErrProjectRequired
	}
	params := url.Values{}
	params.Set("project_id", projectID)
	rs, err := r.tracker.Query(ctx, "category", params)
	if err != nil {
		return 0, err
	}
	for _, category := range rs.Items {
		if !strings.EqualFold(category.Str("name"), name) {
			continue
		}
		if id, ok := category.Int("id"); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("category not found: %q", name)
}
