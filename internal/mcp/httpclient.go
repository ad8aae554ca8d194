package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/healthbridge/internal/models"
)

// HTTPClient implements DataSource by calling the HealthBridge REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// bridge lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) Authorize(ctx context.Context) (*models.AuthorizeResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/authorize", nil)
	if err != nil {
		return nil, err
	}

	var result models.AuthorizeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("httpclient: decode authorize result: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) GetHealthData(ctx context.Context, q models.HealthDataQuery) (*models.GetHealthDataResult, error) {
	params := url.Values{}
	params.Set("identifier", q.Identifier)
	params.Set("startDate", q.StartDate)
	params.Set("endDate", q.EndDate)
	if q.Aggregation != "" {
		params.Set("aggregation", q.Aggregation)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Ascending != nil {
		params.Set("ascending", strconv.FormatBool(*q.Ascending))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/health-data", params)
	if err != nil {
		return nil, err
	}

	var result models.GetHealthDataResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("httpclient: decode health data result: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) ListIdentifiers(ctx context.Context) (*IdentifierCatalog, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/identifiers", nil)
	if err != nil {
		return nil, err
	}

	var catalog IdentifierCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("httpclient: decode identifier catalog: %w", err)
	}
	return &catalog, nil
}

func (c *HTTPClient) SyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/background-sync", nil)
	if err != nil {
		return nil, err
	}

	var status models.SyncStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("httpclient: decode sync status: %w", err)
	}
	return &status, nil
}
