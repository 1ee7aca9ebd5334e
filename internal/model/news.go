package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// KindStory is the only item kind the aggregator keeps.
const KindStory = "story"

// Item is a resolved Hacker News item. JSON tags mirror the upstream API so the
// same shape is stored in the persistent cache.
type Item struct {
	ID          int    `json:"id"`
	Kind        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
}

// IsStory reports whether the item is a story (comments, jobs, polls are not).
func (it Item) IsStory() bool {
	return strings.EqualFold(it.Kind, KindStory)
}

// CreatedAt converts the epoch seconds timestamp.
func (it Item) CreatedAt() time.Time {
	return time.Unix(it.Time, 0)
}

// DiscussionURL is the news.ycombinator.com page for the item.
func (it Item) DiscussionURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
}

// Link returns the external URL, or the discussion page for text posts.
func (it Item) Link() string {
	if strings.TrimSpace(it.URL) == "" {
		return it.DiscussionURL()
	}
	return it.URL
}

// Domain returns the host of the external URL without a leading "www.".
func (it Item) Domain() string {
	if it.URL == "" {
		return ""
	}
	u, err := url.Parse(it.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
