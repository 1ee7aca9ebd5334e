package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hn-sans-ai/internal/model"
	"hn-sans-ai/internal/storage"
)

// ErrAlreadyReported is returned when the story was reported before.
var ErrAlreadyReported = errors.New("report: story already reported")

// Payload is the body posted to the form endpoint.
type Payload struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	HNLink  string `json:"hnLink"`
	Author  string `json:"author"`
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// Client posts false-negative reports to a third-party form endpoint and
// remembers reported ids in the persistent store.
type Client struct {
	endpoint string
	message  string
	http     *http.Client
	store    storage.Store
}

// New creates a report client. store may be nil to skip deduplication.
func New(endpoint, message string, timeout time.Duration, store storage.Store) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		message:  message,
		http:     &http.Client{Timeout: timeout},
		store:    store,
	}
}

func reportedKey(id int) string {
	return "reported:" + strconv.Itoa(id)
}

// PayloadFor builds the report body for an item.
func (c *Client) PayloadFor(it model.Item) Payload {
	u := it.URL
	if u == "" {
		u = "N/A"
	}
	return Payload{
		Title:   it.Title,
		URL:     u,
		HNLink:  it.DiscussionURL(),
		Author:  it.By,
		Score:   it.Score,
		Message: c.message,
	}
}

// Reported reports whether the id was already sent.
func (c *Client) Reported(ctx context.Context, id int) bool {
	if c.store == nil {
		return false
	}
	_, err := c.store.Get(ctx, reportedKey(id))
	return err == nil
}

// Send posts one report. It is attempted once; the outcome is recorded only
// on success.
func (c *Client) Send(ctx context.Context, it model.Item) error {
	if c.endpoint == "" {
		return errors.New("report endpoint not configured: set report.endpoint")
	}
	if c.Reported(ctx, it.ID) {
		return ErrAlreadyReported
	}
	body, err := json.Marshal(c.PayloadFor(it))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("report failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	c.markReported(ctx, it.ID)
	return nil
}

// markReported records the id without expiry. Losing the marker only risks
// a duplicate report.
func (c *Client) markReported(ctx context.Context, id int) {
	if c.store == nil {
		return
	}
	key, at := reportedKey(id), time.Now().UTC().Format(time.RFC3339)
	var err error
	if p, ok := c.store.(storage.PermanentSetter); ok {
		err = p.SetPermanent(ctx, key, at)
	} else {
		err = c.store.Set(ctx, key, at)
	}
	if err != nil {
		slog.Warn("report: could not record reported story", "id", id, "error", err)
	}
}
