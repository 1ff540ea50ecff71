// Package ingest runs the pipeline that takes posts from the blog platform
// to the vector index: download, summarize, vectorize, index.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain/post"
)

// Service orchestrates the ingestion pipeline stages.
type Service struct {
	blog    Blog
	enrich  Enricher
	trainer Trainer
	cache   Cache
	index   Index
	logger  *zap.Logger
}

// New creates an ingestion service.
func New(blog Blog, enrich Enricher, trainer Trainer, cache Cache, index Index, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{blog: blog, enrich: enrich, trainer: trainer, cache: cache, index: index, logger: logger}
}

// Download fetches up to limit posts and caches them by slug. Posts already
// in the cache are skipped so enrichment and vectors survive reruns.
func (s *Service) Download(ctx context.Context, limit int) error {
	posts, err := s.blog.FetchAll(ctx, limit)
	if err != nil {
		return fmt.Errorf("fetch posts: %w", err)
	}
	for _, p := range posts {
		if s.cache.Exists(p.Slug()) {
			s.logger.Debug("post already cached", zap.String("slug", p.Slug()))
			continue
		}
		s.logger.Info("downloaded post", zap.String("date", p.Date), zap.String("title", p.Title))
		if err := s.save(p); err != nil {
			return err
		}
	}
	return nil
}

// Summarize fills the GPT-derived fields of every cached post that lacks
// them. Already-filled fields are kept, so reruns are cheap.
func (s *Service) Summarize(ctx context.Context) error {
	return s.eachPost(func(p *post.Post) error {
		text := strings.Join(p.Paragraphs(), " ")
		var err error
		if p.Summary == "" {
			if p.Summary, err = s.enrich.Summarize(ctx, text); err != nil {
				return fmt.Errorf("summarize %q: %w", p.Slug(), err)
			}
		}
		if len(p.Keywords) == 0 {
			if p.Keywords, err = s.enrich.Keywords(ctx, text); err != nil {
				return fmt.Errorf("keywords %q: %w", p.Slug(), err)
			}
		}
		if p.Goal == "" {
			if p.Goal, err = s.enrich.Goal(ctx, text); err != nil {
				return fmt.Errorf("goal %q: %w", p.Slug(), err)
			}
		}
		return s.save(p)
	})
}

// Vectorize replaces each cached post's vector set with vectors for its
// keywords, summary words, and goal words. Terms the model does not know get
// trained, so every stored vector ends up known.
func (s *Service) Vectorize(_ context.Context) error {
	return s.eachPost(func(p *post.Post) error {
		if len(p.Vectors) > 0 {
			return nil
		}
		terms := make([]string, 0, len(p.Keywords))
		terms = append(terms, p.Keywords...)
		terms = append(terms, strings.Fields(p.Summary)...)
		terms = append(terms, strings.Fields(p.Goal)...)

		vectors, err := s.trainer.Train(terms)
		if err != nil {
			return fmt.Errorf("vectorize %q: %w", p.Slug(), err)
		}
		p.Vectors = vectors
		s.logger.Info("vectorized post", zap.String("slug", p.Slug()), zap.Int("vectors", len(vectors)))
		return s.save(p)
	})
}

// Index initializes the vector index and upserts every cached post.
func (s *Service) Index(ctx context.Context) error {
	if err := s.index.Init(ctx); err != nil {
		return err
	}
	return s.eachPost(func(p *post.Post) error {
		if err := s.index.SavePost(ctx, p); err != nil {
			return err
		}
		s.logger.Info("indexed post", zap.String("slug", p.Slug()))
		return nil
	})
}

func (s *Service) eachPost(fn func(*post.Post) error) error {
	keys, err := s.cache.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		data, err := s.cache.Load(key)
		if err != nil {
			return err
		}
		p, err := post.Decode(data)
		if err != nil {
			return fmt.Errorf("decode cached post %q: %w", key, err)
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) save(p *post.Post) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := s.cache.Save(p.Slug(), data); err != nil {
		return fmt.Errorf("cache post %q: %w", p.Slug(), err)
	}
	return nil
}
