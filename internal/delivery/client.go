// Package delivery is the read client for the content store's delivery
// API, the collaborator the sync pipeline resolves published items
// from.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/camphaven/searchsync/internal/apperr"
	"github.com/camphaven/searchsync/internal/content"
)

// waitForContentHeader asks the API to serve the freshest published
// snapshot instead of a possibly stale cached one. Webhooks arrive
// before caches settle, so every read sends it.
const waitForContentHeader = "X-Wait-For-Loading-New-Content"

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 10
	defaultBurst   = 5
)

type ClientOption func(*Client)

type Client struct {
	base          url.URL
	environmentID string
	apiKey        string
	http          *http.Client
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse delivery base url: %w", err)
	}

	client := &Client{
		base:          *base,
		environmentID: cfg.EnvironmentID,
		apiKey:        cfg.APIKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "delivery-api",
			Interval: 60 * time.Second,
			Timeout:  30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

func WithRateLimit(rps float64, burst int) ClientOption {
	return func(client *Client) {
		client.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// ItemResponse is one item with its server-expanded link graph: every
// linked item reachable within the requested depth, keyed by codename.
type ItemResponse struct {
	Item           content.Item            `json:"item"`
	ModularContent map[string]content.Item `json:"modular_content"`
}

// ListResponse is one page of the items listing.
type ListResponse struct {
	Items          []content.Item          `json:"items"`
	ModularContent map[string]content.Item `json:"modular_content"`
	Pagination     Pagination              `json:"pagination"`
}

type Pagination struct {
	Skip     int    `json:"skip"`
	Limit    int    `json:"limit"`
	Count    int    `json:"count"`
	NextPage string `json:"next_page"`
}

// Item fetches the published variant of one item together with its
// linked items up to depth hops. A missing or unpublished variant is
// apperr.ErrItemNotFound; transport and server failures are
// *apperr.TransientError.
func (c *Client) Item(ctx context.Context, codename, language string, depth int) (*ItemResponse, error) {
	if codename == "" {
		return nil, fmt.Errorf("missing item codename")
	}

	query := url.Values{}
	query.Set("language", language)
	query.Set("depth", strconv.Itoa(depth))

	var resp ItemResponse
	if err := c.get(ctx, "/"+c.environmentID+"/items/"+codename, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type ItemsQuery struct {
	Language string
	Depth    int
	Limit    int
	Skip     int
}

// Items fetches one page of the environment's published items, for the
// full-reindex path.
func (c *Client) Items(ctx context.Context, q ItemsQuery) (*ListResponse, error) {
	query := url.Values{}
	query.Set("language", q.Language)
	query.Set("depth", strconv.Itoa(q.Depth))
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("skip", strconv.Itoa(q.Skip))

	var resp ListResponse
	if err := c.get(ctx, "/"+c.environmentID+"/items", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type apiResult struct {
	status int
	body   []byte
}

func (c *Client) get(ctx context.Context, path string, query url.Values, respData any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("delivery rate wait: %w", err)
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, path, query)
	})
	if err != nil {
		return apperr.NewTransient("delivery GET "+path, err)
	}

	result := v.(*apiResult)
	if result.status == http.StatusNotFound {
		return fmt.Errorf("delivery GET %s: %w", path, apperr.ErrItemNotFound)
	}

	if err := json.Unmarshal(result.body, respData); err != nil {
		return fmt.Errorf("unmarshal delivery response: %w", err)
	}
	return nil
}

// roundTrip performs one request. A 404 is a successful round trip as
// far as the breaker is concerned; trips count transport failures and
// unexpected statuses only.
func (c *Client) roundTrip(ctx context.Context, path string, query url.Values) (*apiResult, error) {
	reqURL := c.base.JoinPath(path)
	reqURL.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set(waitForContentHeader, "true")
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return &apiResult{status: resp.StatusCode, body: body}, nil
}
