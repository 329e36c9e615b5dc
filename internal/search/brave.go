// Package search wraps the web-search backend used to gather evidence.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/worker"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1"

// maxCount is the backend's per-request result ceiling; requested counts are
// clamped to it
const maxCount = 5

// ErrNotConfigured distinguishes a missing credential from an HTTP-level
// search failure
var ErrNotConfigured = errors.New("search API key not configured")

// Client queries the Brave web-search API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// NewClient creates a search client from configuration
func NewClient(cfg model.SearchConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    worker.NewLimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// Configured reports whether a credential is present
func (c *Client) Configured() bool { return c.apiKey != "" }

// braveResponse is the subset of the search response we read
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs one web search and returns up to min(count, 5) results.
// Transient HTTP failures are retried with exponential backoff; client-side
// errors are not.
func (c *Client) Search(ctx context.Context, query string, count int) ([]model.EvidenceSource, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	if count <= 0 || count > maxCount {
		count = maxCount
	}

	endpoint := c.baseURL + "/web/search?" + url.Values{
		"q":     {query},
		"count": {strconv.Itoa(count)},
	}.Encode()

	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, err
	}

	operation := func() ([]model.EvidenceSource, error) {
		return c.doSearch(ctx, endpoint, count)
	}

	results, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}

func (c *Client) doSearch(ctx context.Context, endpoint string, count int) ([]model.EvidenceSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("search backend status %d", resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("search backend status %d", resp.StatusCode))
	}

	var payload braveResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode search response: %w", err))
	}

	sources := make([]model.EvidenceSource, 0, count)
	for _, r := range payload.Web.Results {
		if len(sources) >= count {
			break
		}
		sources = append(sources, model.EvidenceSource{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
	}
	return sources, nil
}
