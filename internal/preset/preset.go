// Package preset stores named snapshots of search options so a query can
// be replayed later exactly as typed.
package preset

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Query is the saved option set: flag name to one or more raw values.
// Flags that repeat (for example date ranges) carry multiple values.
type Query map[string][]string

// Preset is one named query snapshot.
type Preset struct {
	Name  string
	Query Query
}

// Store is the durable preset capability. Save overwrites unconditionally;
// collision handling is the caller's concern (it is interactive).
type Store interface {
	Get(name string) (*Preset, error)
	Save(p *Preset) error
	List() ([]*Preset, error)
	Delete(name string) error
}

// ErrNotFound reports a preset name with no stored snapshot.
var ErrNotFound = errors.New("preset not found")

// Strip returns a copy of q without empty values and without the meta
// options that control preset handling itself. Anything stripped here is
// inherited from command defaults at replay time.
func (q Query) Strip(meta ...string) Query {
	out := make(Query, len(q))
	for name, values := range q {
		if isMeta(name, meta) {
			continue
		}
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			out[name] = kept
		}
	}
	return out
}

func isMeta(name string, meta []string) bool {
	for _, m := range meta {
		if name == m {
			return true
		}
	}
	return false
}

// Render formats the query back into human-readable flag syntax, arrays
// as repeated flags, in stable name order.
func (q Query) Render() string {
	names := make([]string, 0, len(q))
	for name := range q {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		for _, v := range q[name] {
			fmt.Fprintf(&b, " --%s=%q", name, v)
		}
	}
	return strings.TrimPrefix(b.String(), " ")
}

// SQLStore implements Store over the presets table of the state database.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(name string) (*Preset, error) {
	var raw string
	err := s.db.QueryRow("SELECT query FROM presets WHERE name = ?", name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load preset %q: %w", name, err)
	}
	var q Query
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("decode preset %q: %w", name, err)
	}
	return &Preset{Name: name, Query: q}, nil
}

func (s *SQLStore) Save(p *Preset) error {
	raw, err := json.Marshal(p.Query)
	if err != nil {
		return fmt.Errorf("encode preset %q: %w", p.Name, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO presets (name, query) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET query = excluded.query",
		p.Name, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save preset %q: %w", p.Name, err)
	}
	return nil
}

func (s *SQLStore) List() ([]*Preset, error) {
	rows, err := s.db.Query("SELECT name, query FROM presets ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var out []*Preset
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		var q Query
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("decode preset %q: %w", name, err)
		}
		out = append(out, &Preset{Name: name, Query: q})
	}
	return out, rows.Err()
}

// Delete removes a preset by name. Deleting an absent preset is not an
// error.
func (s *SQLStore) Delete(name string) error {
	if _, err := s.db.Exec("DELETE FROM presets WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	return nil
}
