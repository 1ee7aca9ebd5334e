package classify

import (
	"regexp"
	"strings"

	"hn-sans-ai/internal/model"

	"github.com/samber/lo"
)

// Classifier decides whether an item belongs to the excluded topic.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	set      KeywordSet
	patterns []*regexp.Regexp
}

// Result is the outcome of filtering one batch.
type Result struct {
	Total    int
	Excluded int
	Kept     []model.Item
}

// Stats accumulates filtering counts across batches.
type Stats struct {
	Total    int `json:"total"`
	Excluded int `json:"excluded"`
}

// Add folds a batch result into the running totals.
func (s Stats) Add(r Result) Stats {
	return Stats{Total: s.Total + r.Total, Excluded: s.Excluded + r.Excluded}
}

// New compiles every keyword of the set into a word-boundary matcher.
func New(set KeywordSet) *Classifier {
	return &Classifier{
		set:      set,
		patterns: lo.Map(set.Keywords, func(kw string, _ int) *regexp.Regexp { return compile(kw) }),
	}
}

// Default builds a classifier over the embedded keyword set.
func Default() *Classifier {
	set, err := DefaultKeywordSet()
	if err != nil {
		panic("classify: embedded keyword set: " + err.Error())
	}
	return New(set)
}

// compile anchors a keyword on word boundaries; words of a phrase must follow
// each other separated only by whitespace.
func compile(keyword string) *regexp.Regexp {
	words := strings.Fields(keyword)
	quoted := lo.Map(words, func(w string, _ int) string { return regexp.QuoteMeta(w) })
	return regexp.MustCompile(`(?i)\b` + strings.Join(quoted, `\s+`) + `\b`)
}

// Keywords returns the compiled keyword set.
func (c *Classifier) Keywords() KeywordSet {
	return c.set
}

// IsMatch reports whether any keyword occurs in text.
func (c *Classifier) IsMatch(text string) bool {
	_, ok := c.firstMatch(text)
	return ok
}

func (c *Classifier) firstMatch(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for i, p := range c.patterns {
		if p.MatchString(text) {
			return c.set.Keywords[i], true
		}
	}
	return "", false
}

// ShouldExclude is true when the title or the URL matches.
func (c *Classifier) ShouldExclude(it model.Item) bool {
	_, _, ok := c.Match(it)
	return ok
}

// Match explains an exclusion: the first matching keyword and the field
// ("title" or "url") it was found in.
func (c *Classifier) Match(it model.Item) (keyword, field string, ok bool) {
	if kw, ok := c.firstMatch(it.Title); ok {
		return kw, "title", true
	}
	if it.URL != "" {
		if kw, ok := c.firstMatch(it.URL); ok {
			return kw, "url", true
		}
	}
	return "", "", false
}

// FilterBatch drops excluded items, keeping the relative order of the rest.
func (c *Classifier) FilterBatch(items []model.Item) Result {
	kept := lo.Filter(items, func(it model.Item, _ int) bool { return !c.ShouldExclude(it) })
	return Result{
		Total:    len(items),
		Excluded: len(items) - len(kept),
		Kept:     kept,
	}
}
