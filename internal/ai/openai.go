package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hn-sans-ai/internal/model"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

// Suggester proposes exclusion keywords for a story the classifier missed.
type Suggester interface {
	SuggestKeywords(ctx context.Context, it model.Item, existing []string) ([]string, error)
}

// OpenAIClient implements Suggester using the OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key must be specified")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

const suggestSystem = `
		You maintain a keyword list that hides stories about artificial intelligence from a Hacker News reader.
		Keywords are matched case-insensitively on whole words against the story title and URL.
		Reply with new keywords only, one per line, lowercase, no numbering, no commentary.
		Reply with nothing if no keyword is appropriate. Never repeat an existing keyword.
		`

func (o *OpenAIClient) SuggestKeywords(ctx context.Context, it model.Item, existing []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	user := fmt.Sprintf("Title: %s\nURL: %s\nExisting keywords: %s", it.Title, it.URL, strings.Join(existing, ", "))
	out, err := o.create(ctx, suggestSystem, user)
	if err != nil {
		slog.Error("openai: suggest keywords error", "id", it.ID, "err", err)
		return nil, err
	}
	return ParseSuggestions(out, existing), nil
}

// ParseSuggestions turns a line-oriented reply into clean, new keywords.
func ParseSuggestions(reply string, existing []string) []string {
	known := lo.SliceToMap(existing, func(k string) (string, struct{}) { return strings.ToLower(k), struct{}{} })
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		kw := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "-*0123456789.) ")))
		kw = strings.Trim(kw, "\"'`")
		if kw == "" {
			continue
		}
		if _, dup := known[kw]; dup {
			continue
		}
		known[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
