package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hn-sans-ai/internal/classify"
	"hn-sans-ai/internal/model"
)

// DefaultBatchSize is the number of ids resolved per window.
const DefaultBatchSize = 50

// ErrSuperseded is returned when a newer Start replaced the session whose
// results were being loaded. Those results are discarded.
var ErrSuperseded = errors.New("feed: session superseded")

// State is the controller lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Resolver is the fetch surface the controller drives.
type Resolver interface {
	ResolveIDs(ctx context.Context, kind model.FeedKind) ([]int, error)
	ResolveItems(ctx context.Context, ids []int) ([]model.Item, error)
}

// View is everything a presentation layer needs from the controller.
type View struct {
	Kind    model.FeedKind
	Items   []model.Item
	State   State
	Loading bool
	Err     string
	Stats   classify.Stats
	Cursor  int
	Total   int
	HasMore bool
}

// Controller paginates one feed session at a time. It owns the cursor and the
// visible list and is the only code that mutates them.
type Controller struct {
	resolver   Resolver
	classifier *classify.Classifier
	batchSize  int

	mu      sync.Mutex
	gen     uint64
	session context.Context
	cancel  context.CancelFunc
	state   State
	loading bool
	kind    model.FeedKind
	ids     []int
	cursor  int
	visible []model.Item
	stats   classify.Stats
	errMsg  string
}

// NewController creates an idle controller. batchSize <= 0 uses DefaultBatchSize.
func NewController(r Resolver, c *classify.Classifier, batchSize int) *Controller {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Controller{resolver: r, classifier: c, batchSize: batchSize}
}

// Start begins a new session for kind, superseding any previous one. It
// resolves the id list and the first window.
func (c *Controller) Start(ctx context.Context, kind model.FeedKind) (classify.Result, error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	// The session outlives ctx; only a newer Start or Close ends it.
	session, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.session = session
	c.cancel = cancel
	c.kind = kind
	c.ids = nil
	c.cursor = 0
	c.visible = nil
	c.stats = classify.Stats{}
	c.errMsg = ""
	c.state = Loading
	c.loading = true
	c.mu.Unlock()

	ctx, stopCall := context.WithCancel(ctx)
	defer stopCall()
	stop := context.AfterFunc(session, stopCall)
	defer stop()

	ids, err := c.resolver.ResolveIDs(ctx, kind)
	if err == nil {
		var res classify.Result
		res, err = c.loadWindow(ctx, ids, 0)
		if err == nil {
			return res, c.apply(gen, func() {
				c.ids = ids
				c.visible = res.Kept
				c.stats = c.stats.Add(res)
				c.cursor = c.batchSize
			})
		}
	}
	return classify.Result{}, c.fail(gen, fmt.Errorf("loading %s stories: %w", kind, err))
}

// LoadMore resolves the next window. It is a no-op returning a zero Result
// when a load is in flight or the id list is exhausted.
func (c *Controller) LoadMore(ctx context.Context) (classify.Result, error) {
	c.mu.Lock()
	if c.loading || c.state == Idle || c.cursor >= len(c.ids) {
		c.mu.Unlock()
		return classify.Result{}, nil
	}
	gen, kind, session := c.gen, c.kind, c.session
	ids, offset := c.ids, c.cursor
	c.loading = true
	c.state = Loading
	c.errMsg = ""
	c.mu.Unlock()

	// A newer Start cancels the session, which also aborts this window.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(session, cancel)
	defer stop()

	res, err := c.loadWindow(ctx, ids, offset)
	if err != nil {
		return classify.Result{}, c.fail(gen, fmt.Errorf("loading more %s stories: %w", kind, err))
	}
	return res, c.apply(gen, func() {
		c.visible = append(c.visible, res.Kept...)
		c.stats = c.stats.Add(res)
		c.cursor += c.batchSize
	})
}

func (c *Controller) loadWindow(ctx context.Context, ids []int, offset int) (classify.Result, error) {
	end := min(offset+c.batchSize, len(ids))
	if offset >= end {
		return c.classifier.FilterBatch(nil), nil
	}
	items, err := c.resolver.ResolveItems(ctx, ids[offset:end])
	if err != nil {
		return classify.Result{}, err
	}
	return c.classifier.FilterBatch(items), nil
}

// apply commits a successful load unless the session has been superseded.
func (c *Controller) apply(gen uint64, commit func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	commit()
	c.loading = false
	c.state = Ready
	slog.Debug("feed: window applied", "feed", c.kind, "cursor", c.cursor, "visible", len(c.visible), "excluded", c.stats.Excluded)
	return nil
}

// fail records the error for the current session. A failed Start keeps no
// partial state; a failed LoadMore keeps what was already visible.
func (c *Controller) fail(gen uint64, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	c.loading = false
	c.state = Failed
	c.errMsg = err.Error()
	slog.Warn("feed: load failed", "feed", c.kind, "error", err)
	return err
}

// Kind returns the feed of the current session.
func (c *Controller) Kind() model.FeedKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// HasMore reports whether ids remain beyond the cursor.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor < len(c.ids)
}

// View returns a snapshot safe to hand to a renderer.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Kind:    c.kind,
		Items:   append([]model.Item(nil), c.visible...),
		State:   c.state,
		Loading: c.loading,
		Err:     c.errMsg,
		Stats:   c.stats,
		Cursor:  min(c.cursor, len(c.ids)),
		Total:   len(c.ids),
		HasMore: c.cursor < len(c.ids),
	}
}

// Close cancels any in-flight load.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
