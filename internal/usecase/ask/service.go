// Package ask answers free-text questions with GPT context injection over
// the ranked search results.
package ask

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain/post"
	domsearch "github.com/benji-blog/benji/internal/domain/search"
)

// Searcher retrieves ranked posts for a question.
type Searcher interface {
	Search(ctx context.Context, question string, limit int) ([]*post.Post, error)
}

// Answerer generates the final answer from the question and context posts.
type Answerer interface {
	Ask(ctx context.Context, question string, posts []*post.Post, maxTokens int) (string, error)
}

// Result is one answered question.
type Result struct {
	Question string
	Answer   string
	Posts    []*post.Post
}

// Service wires retrieval and answer generation together.
type Service struct {
	search Searcher
	gpt    Answerer
	logger *zap.Logger
}

// New creates an ask service.
func New(search Searcher, gpt Answerer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{search: search, gpt: gpt, logger: logger}
}

// Ask retrieves the most relevant posts and asks GPT to answer with them as
// context.
func (s *Service) Ask(ctx context.Context, question string, maxTokens int) (Result, error) {
	posts, err := s.search.Search(ctx, question, domsearch.DefaultLimit)
	if err != nil {
		return Result{}, fmt.Errorf("search context: %w", err)
	}

	answer, err := s.gpt.Ask(ctx, question, posts, maxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("generate answer: %w", err)
	}

	s.logger.Info("answered question",
		zap.String("question", question),
		zap.Int("context_posts", len(posts)),
	)
	return Result{Question: question, Answer: answer, Posts: posts}, nil
}
