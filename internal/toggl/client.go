package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Tiliavir/toggl-timesheet/internal/timecalc"
)

// ErrNoAdminWorkspace is returned when none of the user's workspaces grants
// admin access.
var ErrNoAdminWorkspace = errors.New("no admin workspace found")

// HTTPError is a non-2xx response from the Toggl API.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("toggl API error: %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Endpoint locates the Toggl APIs. Versions are separate because the track
// and reports APIs are versioned independently.
type Endpoint struct {
	BaseURL        string
	APIVersion     string
	ReportsVersion string
}

func (e Endpoint) apiPath(path string) string {
	return "/api/" + e.APIVersion + path
}

func (e Endpoint) reportsPath(path string) string {
	return "/reports/api/" + e.ReportsVersion + path
}

// Client talks to the Toggl track and reports APIs. Calls are synchronous
// and never retried.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. httpClient is expected to carry the
// authentication (see NewSession).
func NewClient(endpoint Endpoint, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	endpoint.BaseURL = strings.TrimRight(endpoint.BaseURL, "/")
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("toggl API request", "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("toggl API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(respBody)), 500),
		}
	}

	return respBody, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Organizations lists the organizations of the authenticated user.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	data, err := c.doRequest(ctx, http.MethodGet, c.endpoint.apiPath("/me/organizations"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting organizations: %w", err)
	}

	var orgs []Organization
	if err := json.Unmarshal(data, &orgs); err != nil {
		return nil, fmt.Errorf("parsing organizations response: %w", err)
	}
	return orgs, nil
}

// Workspaces lists the workspaces visible to the authenticated user.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	data, err := c.doRequest(ctx, http.MethodGet, c.endpoint.apiPath("/workspaces"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting workspaces: %w", err)
	}

	var workspaces []Workspace
	if err := json.Unmarshal(data, &workspaces); err != nil {
		return nil, fmt.Errorf("parsing workspaces response: %w", err)
	}
	return workspaces, nil
}

// TimeEntriesExport downloads the detailed report of a workspace for the
// given range as CSV. The payload is returned untouched.
func (c *Client) TimeEntriesExport(ctx context.Context, workspaceID int64, r timecalc.DateRange) ([]byte, error) {
	body := exportRequest{
		DurationFormat: "improved",
		Grouped:        false,
		HideAmounts:    false,
		OrderBy:        "date",
		OrderDir:       "ASC",
		PageSize:       0,
		StartDate:      r.Start.Format(timecalc.DateLayout),
		EndDate:        r.End.Format(timecalc.DateLayout),
	}
	path := c.endpoint.reportsPath(fmt.Sprintf("/workspace/%d/search/time_entries.csv", workspaceID))

	data, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("exporting time entries: %w", err)
	}
	return data, nil
}

// SelectAdminWorkspace returns the ID of the first workspace with admin
// access.
func SelectAdminWorkspace(workspaces []Workspace) (int64, error) {
	for _, w := range workspaces {
		if w.Admin {
			return w.ID, nil
		}
	}
	return 0, ErrNoAdminWorkspace
}
