package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stokewood/triage/internal/record"
)

// CodeHost is the REST client for the code-hosting service's issue API.
type CodeHost struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewCodeHost creates a code host client. baseURL defaults to the public
// API root when empty.
func NewCodeHost(baseURL, token string) *CodeHost {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &CodeHost{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// ListIssues fetches the repository's issues in the given state.
func (c *CodeHost) ListIssues(ctx context.Context, owner, repo, state string) ([]record.Record, error) {
	params := url.Values{}
	if state != "" {
		params.Set("state", state)
	}
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/issues"
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("code host request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var probe struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &probe); err == nil && probe.Message != "" {
			return nil, &UpstreamError{StatusCode: resp.StatusCode, Messages: []string{probe.Message}}
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := make([]record.Record, 0, len(raw))
	for _, item := range raw {
		out = append(out, record.Record(item))
	}
	return out, nil
}
