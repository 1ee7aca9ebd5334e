package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hn-sans-ai/internal/model"

	"go.uber.org/ratelimit"
)

// DefaultBaseAPI is the public Firebase endpoint.
const DefaultBaseAPI = "https://hacker-news.firebaseio.com/v0"

// Client is a minimal Hacker News API client.
// Docs: https://github.com/HackerNews/API
type Client struct {
	baseAPI string
	client  *http.Client
	limiter ratelimit.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero disables pacing.
func WithRateLimit(rps int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = ratelimit.New(rps)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.client = h
		}
	}
}

// NewClient creates a new Hacker News client. baseAPI should be something like
// "https://hacker-news.firebaseio.com/v0". If empty, it defaults to the v0 endpoint.
func NewClient(baseAPI string, opts ...Option) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = DefaultBaseAPI
	}
	c := &Client{
		baseAPI: strings.TrimRight(baseAPI, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: ratelimit.NewUnlimited(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FeedIDs loads the full id ordering of a story list such as topstories.
func (c *Client) FeedIDs(ctx context.Context, kind model.FeedKind) ([]int, error) {
	resource := kind.Endpoint()
	var ids []int
	if err := c.getJSON(ctx, resource, fmt.Sprintf("%s/%s.json", c.baseAPI, resource), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Item fetches a single item by id. Upstream answers "null" for unknown ids;
// that decodes to an item with ID 0.
func (c *Client) Item(ctx context.Context, id int) (model.Item, error) {
	var it model.Item
	resource := fmt.Sprintf("item %d", id)
	if err := c.getJSON(ctx, resource, fmt.Sprintf("%s/item/%d.json", c.baseAPI, id), &it); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (c *Client) getJSON(ctx context.Context, resource, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &NetworkError{Resource: resource, Err: err}
	}
	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return &NetworkError{Resource: resource, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Resource: resource, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Resource: resource, Err: err}
	}
	return nil
}
