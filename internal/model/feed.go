package model

import (
	"fmt"
	"strings"
)

// FeedKind names one of the ranked story lists exposed by the upstream API.
type FeedKind string

const (
	FeedTop  FeedKind = "top"
	FeedNew  FeedKind = "new"
	FeedBest FeedKind = "best"
	FeedAsk  FeedKind = "ask"
	FeedShow FeedKind = "show"
	FeedJob  FeedKind = "job"
)

// FeedKinds lists every kind in display order.
func FeedKinds() []FeedKind {
	return []FeedKind{FeedTop, FeedNew, FeedBest, FeedAsk, FeedShow, FeedJob}
}

// Endpoint is the list resource name, e.g. "topstories".
func (k FeedKind) Endpoint() string {
	return string(k) + "stories"
}

// ParseFeedKind accepts short names ("top") and endpoint names ("topstories").
func ParseFeedKind(s string) (FeedKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "topstories":
		return FeedTop, nil
	case "new", "newest", "newstories":
		return FeedNew, nil
	case "best", "beststories":
		return FeedBest, nil
	case "ask", "askstories":
		return FeedAsk, nil
	case "show", "showcase", "showstories":
		return FeedShow, nil
	case "job", "jobs", "jobstories":
		return FeedJob, nil
	}
	return "", fmt.Errorf("unknown feed kind %q (valid: top, new, best, ask, show, job)", s)
}
