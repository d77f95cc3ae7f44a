// Package client provides the REST clients for the three upstream
// services and the narrow capability interfaces the core consumes.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stokewood/triage/internal/record"
)

// Querier runs one search against an upstream resource kind and returns
// the resulting record set. An empty result is a normal return, never an
// error.
type Querier interface {
	Query(ctx context.Context, kind string, params url.Values) (*record.ResultSet, error)
}

// Lister returns the flat id/name listing for a resource kind, used by
// name resolution.
type Lister interface {
	Listing(ctx context.Context, kind string) ([]record.IDName, error)
}

// UpstreamError is an explicit error payload or transport-level failure
// reported by an upstream service.
type UpstreamError struct {
	StatusCode int
	Messages   []string
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "\n")
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
