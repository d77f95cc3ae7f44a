// Package cache is the injected get/set-with-TTL capability used to
// avoid repeat lookup round trips across invocations.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache stores string values by key with an expiry.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration) error
}

// SQL is a Cache backed by the local state database.
type SQL struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQL wraps the state database in a Cache.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

func (c *SQL) Get(key string) (string, bool) {
	var value string
	var expires int64
	err := c.db.QueryRow("SELECT value, expires_at FROM cache WHERE key = ?", key).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) || err != nil {
		return "", false
	}
	if c.now().Unix() >= expires {
		_, _ = c.db.Exec("DELETE FROM cache WHERE key = ?", key)
		return "", false
	}
	return value, true
}

func (c *SQL) Set(key, value string, ttl time.Duration) error {
	expires := c.now().Add(ttl).Unix()
	_, err := c.db.Exec(
		"INSERT INTO cache (key, value, expires_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at",
		key, value, expires,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Memory is an in-process Cache for tests and for running without a
// state file.
type Memory struct {
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(key string) (string, bool) {
	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expires) {
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(key, value string, ttl time.Duration) error {
	m.entries[key] = memoryEntry{value: value, expires: m.now().Add(ttl)}
	return nil
}
