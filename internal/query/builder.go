package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stokewood/triage/internal/client"
)

// Builtin defaults, overridable by configuration and flags in that order.
const (
	DefaultLimit  = 50
	DefaultSort   = "updated_on:desc"
	DefaultStatus = "open"
)

// RawOptions is the untranslated option set of one search invocation.
type RawOptions struct {
	Limit     int
	Sort      string
	ProjectID string
	Status    string
	Assigned  string
	Sprint    string
	Created   []string
	Updated   []string
	Tracker   string
	Category  string
}

// Deps are the capabilities the builder's normalizers draw on.
type Deps struct {
	Statuses   client.Lister
	Users      UserResolver
	Versions   VersionResolver
	Trackers   TrackerResolver
	Categories CategoryResolver
}

// Builder assembles one Params from raw options, applying precedence
// explicit flag > config default > builtin default. Building twice from
// the same inputs yields byte-identical Params.
type Builder struct {
	deps           Deps
	defaultProject string
}

func NewBuilder(deps Deps, defaultProject string) *Builder {
	return &Builder{deps: deps, defaultProject: defaultProject}
}

func (b *Builder) Build(ctx context.Context, raw RawOptions) (*Params, error) {
	params := NewParams()

	limit := raw.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	sort := raw.Sort
	if sort == "" {
		sort = DefaultSort
	}
	if err := validateSort(sort); err != nil {
		return nil, err
	}
	params.Set("sort", sort)

	projectID := raw.ProjectID
	if projectID == "" {
		projectID = b.defaultProject
	}
	if projectID != "" {
		params.Set("project_id", projectID)
		params.HideProject()

		// Version names only resolve inside a project.
		if raw.Sprint != "" {
			fo, err := NormalizeVersion(ctx, b.deps.Versions, projectID, raw.Sprint)
			if err != nil {
				return nil, err
			}
			params.Set("fixed_version_id", fo.String())
		}
	}

	if raw.Status != "" {
		fo, err := NormalizeStatus(ctx, b.deps.Statuses, raw.Status)
		if err != nil {
			return nil, err
		}
		params.Set("status_id", fo.String())
	}

	if raw.Assigned != "" {
		fo, err := NormalizeAssigned(ctx, b.deps.Users, raw.Assigned, projectID)
		if err != nil {
			return nil, err
		}
		// The "all" token renders empty: no assignment filter at all.
		if v := fo.String(); v != "" {
			params.Set("assigned_to_id", v)
		}
	}

	if len(raw.Created) > 0 {
		fo, err := NormalizeDate(raw.Created)
		if err != nil {
			return nil, err
		}
		params.Set("created_on", fo.String())
	}
	if len(raw.Updated) > 0 {
		fo, err := NormalizeDate(raw.Updated)
		if err != nil {
			return nil, err
		}
		params.Set("updated_on", fo.String())
	}

	if raw.Tracker != "" {
		fo, err := NormalizeTracker(ctx, b.deps.Trackers, raw.Tracker)
		if err != nil {
			return nil, err
		}
		params.Set("tracker_id", fo.String())
	}

	if raw.Category != "" {
		fo, err := NormalizeCategory(ctx, b.deps.Categories, projectID, raw.Category)
		if err != nil {
			return nil, err
		}
		params.Set("category_id", fo.String())
	}

	return params, nil
}

func validateSort(sort string) error {
	field, dir, ok := strings.Cut(sort, ":")
	if !ok || field == "" || (dir != "asc" && dir != "desc") {
		return fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}
	return nil
}
