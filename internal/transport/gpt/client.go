// Package gpt is the completion client used for post enrichment and
// context-injected answering.
package gpt

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain/post"
	"github.com/benji-blog/benji/internal/metrics"
)

const (
	// MaxContextPosts caps how many posts are injected into the ask prompt.
	MaxContextPosts = 3
	// MaxContextSummary clamps each injected summary to this many runes.
	MaxContextSummary = 50

	defaultMaxTokens = 50
)

// Config holds the completion client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// Client calls the OpenAI-compatible completions API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// New creates a completion client.
func New(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// complete sends one completion request and returns the trimmed text.
func (c *Client) complete(ctx context.Context, operation, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
		N:           1,
	})
	if err != nil {
		metrics.GptRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("completion %s: %w", operation, err)
	}
	if len(resp.Choices) == 0 {
		metrics.GptRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("completion %s: empty response", operation)
	}
	metrics.GptRequestsTotal.WithLabelValues(operation, "success").Inc()
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

// Summarize produces a short summary of the text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "summarize", "Summarize the following text: "+text, defaultMaxTokens)
}

// Goal extracts the main idea of the text.
func (c *Client) Goal(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "goal",
		"What is the goal of what is described in the following text and how other people could benefit from it: "+text,
		defaultMaxTokens)
}

// Keywords extracts the most important words of the text, comma-separated.
func (c *Client) Keywords(ctx context.Context, text string) ([]string, error) {
	raw, err := c.complete(ctx, "keywords",
		"Give me a list of the most important 50 words, entities, and their synonyms "+
			"in the following text, separated by comma without any other text than the words: "+text,
		20)
	if err != nil {
		return nil, err
	}
	var keywords []string
	for _, word := range strings.Split(raw, ",") {
		if word = strings.TrimSpace(word); word != "" {
			keywords = append(keywords, word)
		}
	}
	return keywords, nil
}

// Ask answers the question with the given posts injected as context.
func (c *Client) Ask(ctx context.Context, question string, posts []*post.Post, maxTokens int) (string, error) {
	return c.complete(ctx, "ask", BuildAskPrompt(question, posts), maxTokens)
}

// BuildAskPrompt assembles the context-injection prompt from the top posts.
func BuildAskPrompt(question string, posts []*post.Post) string {
	if len(posts) > MaxContextPosts {
		posts = posts[:MaxContextPosts]
	}
	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		summary := p.Summary
		if runes := []rune(summary); len(runes) > MaxContextSummary {
			summary = string(runes[:MaxContextSummary])
		}
		lines = append(lines, strings.Join([]string{
			fmt.Sprintf("The blog post titled: '%s'", p.Title),
			fmt.Sprintf("is summarized as: '%s'", summary),
			fmt.Sprintf("and you can read it in the following link: '%s'", p.URL),
		}, " "))
	}
	return strings.Join([]string{
		"Digest the following summarized blog posts in a way that you can answer questions " +
			"based on them, and so that you can suggest reading them:",
		strings.Join(lines, "\n"),
		"Now, answer the following question in a separate paragraph (but always referring to " +
			"topics summarized above) and, in another paragraph give me a reference (the title " +
			"and the link) to only one of those blog posts explaining why I should read it: '" +
			question + "'",
	}, "\n")
}
