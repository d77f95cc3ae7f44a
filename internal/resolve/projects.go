package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/stokewood/triage/internal/cache"
	"github.com/stokewood/triage/internal/record"
)

// ErrNoProjects reports a project search with zero hits.
var ErrNoProjects = errors.New("no projects found, remember the search string is case-sensitive")

const projectCacheTTL = time.Hour

// ProjectSearcher is the merge-request host surface used for project
// lookup.
type ProjectSearcher interface {
	SearchProjects(ctx context.Context, search string) ([]record.Record, error)
}

// Candidate is one hit of an ambiguous project search, kept for the
// caller to present as a disambiguation list.
type Candidate struct {
	ID       int
	Name     string
	FullName string
}

// ProjectResolver resolves project names to ids on the merge-request
// host, caching unique hits by normalized search string.
type ProjectResolver struct {
	host  ProjectSearcher
	cache cache.Cache
}

func NewProjectResolver(host ProjectSearcher, c cache.Cache) *ProjectResolver {
	return &ProjectResolver{host: host, cache: c}
}

// ProjectID resolves a project name. A unique hit returns its id and is
// cached for an hour. Multiple hits return candidates instead of an id;
// zero hits return ErrNoProjects.
func (p *ProjectResolver) ProjectID(ctx context.Context, name string) (int, []Candidate, error) {
	key := projectCacheKey(name)
	if cached, ok := p.cache.Get(key); ok {
		if id, err := strconv.Atoi(cached); err == nil {
			return id, nil, nil
		}
	}

	hits, err := p.host.SearchProjects(ctx, name)
	if err != nil {
		return 0, nil, err
	}

	switch len(hits) {
	case 0:
		return 0, nil, ErrNoProjects
	case 1:
		id, ok := hits[0].Int("id")
		if !ok {
			return 0, nil, ErrNoProjects
		}
		// A stale cache only costs one extra search, so write failures
		// are not fatal.
		_ = p.cache.Set(key, strconv.Itoa(id), projectCacheTTL)
		return id, nil, nil
	default:
		candidates := make([]Candidate, 0, len(hits))
		for _, hit := range hits {
			id, _ := hit.Int("id")
			candidates = append(candidates, Candidate{
				ID:       id,
				Name:     hit.Str("name"),
				FullName: hit.Str("name_with_namespace"),
			})
		}
		return 0, candidates, nil
	}
}

func projectCacheKey(name string) string {
	return "mrhost_project_id_" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
