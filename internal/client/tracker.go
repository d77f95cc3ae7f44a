package client

import (
	"bytes"
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

// trackerEndpoint maps a resource kind to its REST path and the payload
// member holding the record array. Paths containing %s are project-scoped
// and consume the project_id query parameter.
type trackerEndpoint struct {
	path string
	key  string
}

var trackerEndpoints = map[string]trackerEndpoint{
	"issue":        {"/issues.json", "issues"},
	"issue_status": {"/issue_statuses.json", "issue_statuses"},
	"user":         {"/users.json", "users"},
	"project":      {"/projects.json", "projects"},
	"tracker":      {"/trackers.json", "trackers"},
	"priority":     {"/enumerations/issue_priorities.json", "issue_priorities"},
	"custom_field": {"/custom_fields.json", "custom_fields"},
	"version":      {"/projects/%s/versions.json", "versions"},
	"membership":   {"/projects/%s/memberships.json", "memberships"},
	"category":     {"/projects/%s/issue_categories.json", "issue_categories"},
}

// Tracker is the REST client for the issue-tracker service.
type Tracker struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTracker creates a tracker client for the given base URL. The API key
// is sent on every request.
func NewTracker(baseURL, apiKey string) *Tracker {
	return &Tracker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Query implements Querier against the tracker REST API.
func (c *Tracker) Query(ctx context.Context, kind string, params url.Values) (*record.ResultSet, error) {
	ep, ok := trackerEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("unknown tracker resource %q", kind)
	}
	path := ep.path
	if strings.Contains(path, "%s") {
		project := params.Get("project_id")
		if project == "" {
			return nil, fmt.Errorf("resource %q requires a project id", kind)
		}
		params = cloneValues(params)
		params.Del("project_id")
		path = fmt.Sprintf(path, url.PathEscape(project))
	}
	payload, err := c.getJSON(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return record.FromPayload(payload, ep.key), nil
}

// Listing implements Lister. Resolution listings are fetched with a high
// limit so a single page covers them.
func (c *Tracker) Listing(ctx context.Context, kind string) ([]record.IDName, error) {
	params := url.Values{}
	params.Set("limit", "100")
	rs, err := c.Query(ctx, kind, params)
	if err != nil {
		return nil, err
	}
	return toListing(rs), nil
}

// ShowIssue fetches one issue. include names associated data to embed,
// e.g. "journals".
func (c *Tracker) ShowIssue(ctx context.Context, id int, include string) (record.Record, error) {
	params := url.Values{}
	if include != "" {
		params.Set("include", include)
	}
	payload, err := c.getJSON(ctx, "/issues/"+strconv.Itoa(id)+".json", params)
	if err != nil {
		return nil, err
	}
	issue, ok := record.Record(payload).Sub("issue")
	if !ok {
		return nil, &UpstreamError{Messages: []string{"malformed issue payload"}}
	}
	return issue, nil
}

// UpdateIssue applies a partial update to one issue.
func (c *Tracker) UpdateIssue(ctx context.Context, id int, fields map[string]any) error {
	body := map[string]any{"issue": fields}
	return c.doJSON(ctx, http.MethodPut, "/issues/"+strconv.Itoa(id)+".json", nil, body, nil)
}

// ShowUser fetches one user record by id.
func (c *Tracker) ShowUser(ctx context.Context, id int) (record.Record, error) {
	payload, err := c.getJSON(ctx, "/users/"+strconv.Itoa(id)+".json", nil)
	if err != nil {
		return nil, err
	}
	user, ok := record.Record(payload).Sub("user")
	if !ok {
		return nil, &UpstreamError{Messages: []string{"malformed user payload"}}
	}
	return user, nil
}

// CurrentUser fetches the authenticated user's own record.
func (c *Tracker) CurrentUser(ctx context.Context) (record.Record, error) {
	payload, err := c.getJSON(ctx, "/users/current.json", nil)
	if err != nil {
		return nil, err
	}
	user, ok := record.Record(payload).Sub("user")
	if !ok {
		return nil, &UpstreamError{Messages: []string{"malformed user payload"}}
	}
	return user, nil
}

func (c *Tracker) getJSON(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	var payload map[string]any
	if err := c.doJSON(ctx, http.MethodGet, path, params, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Tracker) doJSON(ctx context.Context, method, path string, params url.Values, in any, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracker request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if messages := errorPayload(data); len(messages) > 0 {
		return &UpstreamError{StatusCode: resp.StatusCode, Messages: messages}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError converts a non-2xx response into an UpstreamError, keeping
// any error messages the service included in the body.
func decodeError(status int, data []byte) error {
	return &UpstreamError{StatusCode: status, Messages: errorPayload(data)}
}

// errorPayload extracts the {"errors": [...]} member some endpoints
// return with a 200 status.
func errorPayload(data []byte) []string {
	var probe struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil
	}
	return probe.Errors
}

func toListing(rs *record.ResultSet) []record.IDName {
	out := make([]record.IDName, 0, rs.Len())
	for _, item := range rs.Items {
		id, ok := item.Int("id")
		if !ok {
			continue
		}
		out = append(out, record.IDName{ID: id, Name: item.Str("name")})
	}
	return out
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
