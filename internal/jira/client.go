package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Issue statuses excluded from every board fetch.
const closedStatuses = `"Closed", "Done", "Resolved"`

// issueFields is the field selection requested from the API. Everything
// else Jira would return is dead weight for the report.
const issueFields = "project,issuetype,summary,created,updated,duedate,fixVersions"

const defaultPageSize = 50

// Config holds the static settings for a Client.
type Config struct {
	BaseURL  string
	Token    string
	PageSize int
	Timeout  time.Duration
	// RateLimit is the max requests per second against the API.
	// Zero disables client-side limiting.
	RateLimit float64
}

// Client talks to the Jira agile REST API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client from cfg, applying defaults for unset values.
func NewClient(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// BoardIssues fetches every non-closed issue on a board, following the
// server-reported pagination window until startAt+maxResults covers total.
// Issues are returned in response order across pages.
func (c *Client) BoardIssues(ctx context.Context, boardID string) ([]Issue, error) {
	var all []Issue
	startAt := 0

	for {
		page, err := c.fetchPage(ctx, boardID, startAt)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Issues...)

		if page.StartAt+page.MaxResults >= page.Total {
			return all, nil
		}

		// A window that does not advance would re-fetch the same offset
		// forever; treat it as a server fault rather than spin.
		next := page.StartAt + page.MaxResults
		if next <= startAt {
			return nil, fmt.Errorf("board %s: pagination stalled at offset %d (maxResults %d, total %d)",
				boardID, startAt, page.MaxResults, page.Total)
		}
		startAt = next
	}
}

func (c *Client) fetchPage(ctx context.Context, boardID string, startAt int) (*boardIssuesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("jql", fmt.Sprintf("status not in (%s)", closedStatuses))
	q.Set("fields", issueFields)
	q.Set("maxResults", fmt.Sprintf("%d", c.pageSize))
	q.Set("startAt", fmt.Sprintf("%d", startAt))

	reqURL := fmt.Sprintf("%s/rest/agile/1.0/board/%s/issue?%s", c.baseURL, boardID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request board %s: %w", boardID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("board %s: API error (status %d): %s", boardID, resp.StatusCode, string(body))
	}

	var page boardIssuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("board %s: decode response: %w", boardID, err)
	}

	return &page, nil
}

// Myself verifies the configured credentials against the current-user
// endpoint. Used by `boardline auth`.
func (c *Client) Myself(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/api/2/myself", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("auth check failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
