package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/stokewood/triage/internal/client"
)

var priorityOperators = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "=": true,
}

// PriorityOrder is a parsed, validated priority-order option.
type PriorityOrder struct {
	Op   string
	Name string
	ID   int
}

// ParsePriorityOrder parses an "operator|priority name" pair and
// validates the name against the fetched priority listing.
func ParsePriorityOrder(ctx context.Context, priorities client.Lister, arg string) (*PriorityOrder, error) {
	op, name, ok := strings.Cut(arg, "|")
	op = strings.TrimSpace(op)
	name = strings.TrimSpace(name)
	if !ok || name == "" || !priorityOperators[op] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriorityOrder, arg)
	}

	listing, err := priorities.Listing(ctx, "priority")
	if err != nil {
		return nil, fmt.Errorf("fetch priorities: %w", err)
	}
	for _, entry := range listing {
		if strings.EqualFold(entry.Name, name) {
			return &PriorityOrder{Op: op, Name: entry.Name, ID: entry.ID}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPriorityNotFound, name)
}
