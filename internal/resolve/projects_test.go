package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stokewood/triage/internal/cache"
	"github.com/stokewood/triage/internal/record"
)

type fakeSearcher struct {
	hits  []record.Record
	calls int
}

func (f *fakeSearcher) SearchProjects(ctx context.Context, search string) ([]record.Record, error) {
	f.calls++
	return f.hits, nil
}

func TestProjectIDUniqueHitIsCached(t *testing.T) {
	searcher := &fakeSearcher{hits: []record.Record{
		{"id": float64(314), "name": "Skunkworks", "name_with_namespace": "acme / Skunkworks"},
	}}
	c := cache.NewMemory()
	r := NewProjectResolver(searcher, c)

	id, candidates, err := r.ProjectID(context.Background(), "Skunkworks")
	if err != nil {
		t.Fatal(err)
	}
	if id != 314 || candidates != nil {
		t.Errorf("got id %d, candidates %v", id, candidates)
	}

	if cached, ok := c.Get("mrhost_project_id_skunkworks"); !ok || cached != "314" {
		t.Errorf("cache entry = %q, %v", cached, ok)
	}

	// Second resolution is served from the cache.
	id, _, err = r.ProjectID(context.Background(), "Skunkworks")
	if err != nil {
		t.Fatal(err)
	}
	if id != 314 || searcher.calls != 1 {
		t.Errorf("id %d after %d upstream searches, want 1", id, searcher.calls)
	}
}

func TestProjectIDCacheKeyNormalization(t *testing.T) {
	searcher := &fakeSearcher{hits: []record.Record{{"id": float64(7), "name": "Big Thing"}}}
	c := cache.NewMemory()
	if _, _, err := NewProjectResolver(searcher, c).ProjectID(context.Background(), "Big Thing"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("mrhost_project_id_big_thing"); !ok {
		t.Error("normalized cache key missing")
	}
}

func TestProjectIDAmbiguousReturnsCandidates(t *testing.T) {
	searcher := &fakeSearcher{hits: []record.Record{
		{"id": float64(1), "name": "api", "name_with_namespace": "acme / api"},
		{"id": float64(2), "name": "api-client", "name_with_namespace": "acme / api-client"},
	}}
	c := cache.NewMemory()

	id, candidates, err := NewProjectResolver(searcher, c).ProjectID(context.Background(), "api")
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Errorf("ambiguous search returned id %d", id)
	}
	want := []Candidate{
		{ID: 1, Name: "api", FullName: "acme / api"},
		{ID: 2, Name: "api-client", FullName: "acme / api-client"},
	}
	if diff := cmp.Diff(want, candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	// Ambiguity is never cached.
	if _, ok := c.Get("mrhost_project_id_api"); ok {
		t.Error("ambiguous search left a cache entry")
	}
}

func TestProjectIDNoHits(t *testing.T) {
	r := NewProjectResolver(&fakeSearcher{}, cache.NewMemory())
	_, _, err := r.ProjectID(context.Background(), "ghost")
	if !errors.Is(err, ErrNoProjects) {
		t.Errorf("err = %v, want ErrNoProjects", err)
	}
}
