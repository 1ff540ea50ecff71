// Package search turns a free-text question into ranked posts.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain/post"
	domsearch "github.com/benji-blog/benji/internal/domain/search"
	"github.com/benji-blog/benji/internal/domain/vector"
)

// Service handles question vectorization, scored retrieval, and resolution
// of the ranked slugs back into posts.
type Service struct {
	index  Index
	posts  PostStore
	embed  vector.Embedder
	window int
	logger *zap.Logger
}

// New creates a search service. window <= 0 uses the default discovery window.
func New(index Index, posts PostStore, embed vector.Embedder, window int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, posts: posts, embed: embed, window: window, logger: logger}
}

// Search vectorizes the question, queries the index, ranks the hits, and
// resolves the top posts.
func (s *Service) Search(ctx context.Context, question string, limit int) ([]*post.Post, error) {
	vectors := vector.FromText(s.embed, question)

	query, err := domsearch.BuildQuery(vectors, s.window)
	if err != nil {
		return nil, err
	}
	if len(query.Vectors) == 0 {
		s.logger.Debug("no known query vectors", zap.String("question", question))
		return nil, nil
	}

	hits, err := s.index.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	ranked := domsearch.Rank(hits, limit)
	s.logger.Debug("ranked posts",
		zap.Int("raw_hits", len(hits)),
		zap.Int("ranked", len(ranked)),
	)

	slugs := make([]string, len(ranked))
	for i, r := range ranked {
		slugs[i] = r.Slug
	}
	return s.Resolve(slugs)
}

// Resolve loads posts for the slugs in order. A slug missing from the store
// is an index/store consistency fault and aborts the whole resolution.
func (s *Service) Resolve(slugs []string) ([]*post.Post, error) {
	posts := make([]*post.Post, 0, len(slugs))
	for _, slug := range slugs {
		data, err := s.posts.Load(slug)
		if err != nil {
			return nil, fmt.Errorf("resolve ranked post: %w", err)
		}
		p, err := post.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("resolve ranked post %q: %w", slug, err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}
