package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/stokewood/triage/internal/record"
)

// MRHost is the REST client for the merge-request host.
type MRHost struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewMRHost creates a merge-request host client. The base URL is the API
// root (e.g. "https://git.example.com/api/v4").
func NewMRHost(baseURL, token string) *MRHost {
	return &MRHost{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// ListMergeRequests fetches one page of merge requests for a project,
// all states, newest first. A short page signals that the listing is
// exhausted.
func (c *MRHost) ListMergeRequests(ctx context.Context, projectID, page, perPage int) ([]record.Record, error) {
	params := url.Values{}
	params.Set("state", "all")
	params.Set("order_by", "created_at")
	params.Set("sort", "desc")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path := "/projects/" + strconv.Itoa(projectID) + "/merge_requests"
	return c.getArray(ctx, path, params)
}

// SearchProjects runs a free-text substring search over project names.
func (c *MRHost) SearchProjects(ctx context.Context, search string) ([]record.Record, error) {
	params := url.Values{}
	params.Set("search", search)
	return c.getArray(ctx, "/projects", params)
}

func (c *MRHost) getArray(ctx context.Context, path string, params url.Values) ([]record.Record, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Private-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mr host request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mrHostError(resp.StatusCode, data)
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

func mrHostError(status int, data []byte) error {
	var probe struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Message != nil {
		return &UpstreamError{StatusCode: status, Messages: []string{fmt.Sprint(probe.Message)}}
	}
	return &UpstreamError{StatusCode: status}
}
