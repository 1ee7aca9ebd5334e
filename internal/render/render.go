package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"hn-sans-ai/internal/feed"
	"hn-sans-ai/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/feeds"
)

// Formats lists the supported output formats.
var Formats = []string{"text", "markdown", "rss", "atom", "json"}

// Render writes a controller view in the requested format.
func Render(w io.Writer, format string, v feed.View, now time.Time) error {
	switch strings.ToLower(format) {
	case "", "text":
		return Text(w, v, now)
	case "markdown", "md":
		return Markdown(w, v, now)
	case "rss", "atom":
		return Syndication(w, strings.ToLower(format), v, now)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Feed    model.FeedKind `json:"feed"`
			Items   []model.Item   `json:"items"`
			Total   int            `json:"total"`
			Hidden  int            `json:"excluded"`
			HasMore bool           `json:"has_more"`
		}{v.Kind, v.Items, v.Stats.Total, v.Stats.Excluded, v.HasMore})
	}
	return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(Formats, ", "))
}

var (
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Width(5).Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	domainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

// Text renders a terminal listing.
func Text(w io.Writer, v feed.View, now time.Time) error {
	var b strings.Builder
	fmt.Fprintln(&b, headerStyle.Render(fmt.Sprintf("HN Sans AI · %s", v.Kind)))
	if v.Stats.Total > 0 {
		fmt.Fprintln(&b, metaStyle.Render(StatsLine(v)))
	}
	fmt.Fprintln(&b)
	for _, it := range v.Items {
		title := titleStyle.Render(it.Title)
		if d := it.Domain(); d != "" {
			title += " " + domainStyle.Render("("+d+")")
		}
		fmt.Fprintf(&b, "%s  %s\n", scoreStyle.Render(fmt.Sprint(it.Score)), title)
		meta := fmt.Sprintf("by %s · %s · %d comments · %s", it.By, RelativeTime(it.CreatedAt(), now), it.Descendants, it.DiscussionURL())
		fmt.Fprintf(&b, "%s  %s\n", strings.Repeat(" ", 5), metaStyle.Render(meta))
	}
	if v.Err != "" {
		fmt.Fprintf(&b, "\nerror: %s\n", v.Err)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// StatsLine summarizes how much was filtered.
func StatsLine(v feed.View) string {
	line := fmt.Sprintf("Filtered %d of %d stories", v.Stats.Excluded, v.Stats.Total)
	if v.HasMore {
		line += fmt.Sprintf(" · %d of %d loaded", v.Cursor, v.Total)
	}
	return line
}

//go:embed digest.tmpl
var digestTpl string

var digest = template.Must(template.New("digest").Parse(digestTpl))

type digestItem struct {
	Title         string
	URL           string
	Domain        string
	By            string
	Score         int
	Comments      int
	Age           string
	DiscussionURL string
}

type digestData struct {
	Title    string
	Datetime string
	Feed     model.FeedKind
	Items    []digestItem
	Total    int
	Excluded int
}

// Markdown renders a digest with YAML frontmatter.
func Markdown(w io.Writer, v feed.View, now time.Time) error {
	data := digestData{
		Title:    fmt.Sprintf("Hacker News %s stories %s", v.Kind, now.UTC().Format("2006-01-02")),
		Datetime: now.UTC().Format("2006-01-02 15:04"),
		Feed:     v.Kind,
		Items:    make([]digestItem, 0, len(v.Items)),
		Total:    v.Stats.Total,
		Excluded: v.Stats.Excluded,
	}
	for _, it := range v.Items {
		data.Items = append(data.Items, digestItem{
			Title:         it.Title,
			URL:           it.Link(),
			Domain:        it.Domain(),
			By:            it.By,
			Score:         it.Score,
			Comments:      it.Descendants,
			Age:           RelativeTime(it.CreatedAt(), now),
			DiscussionURL: it.DiscussionURL(),
		})
	}
	var buf bytes.Buffer
	if err := digest.Execute(&buf, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Syndication renders an RSS or Atom document.
func Syndication(w io.Writer, format string, v feed.View, now time.Time) error {
	f := &feeds.Feed{
		Title:       fmt.Sprintf("Hacker News %s stories, without AI", v.Kind),
		Link:        &feeds.Link{Href: "https://news.ycombinator.com/"},
		Description: StatsLine(v),
		Created:     now,
	}
	for _, it := range v.Items {
		f.Items = append(f.Items, &feeds.Item{
			Id:          it.DiscussionURL(),
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link()},
			Author:      &feeds.Author{Name: it.By},
			Description: fmt.Sprintf("%d points, %d comments: %s", it.Score, it.Descendants, it.DiscussionURL()),
			Created:     it.CreatedAt(),
		})
	}
	var (
		out string
		err error
	)
	if format == "atom" {
		out, err = f.ToAtom()
	} else {
		out, err = f.ToRss()
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
