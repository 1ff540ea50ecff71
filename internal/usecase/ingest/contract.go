package ingest

import (
	"context"

	"github.com/benji-blog/benji/internal/domain/post"
	"github.com/benji-blog/benji/internal/domain/vector"
)

// Blog fetches published posts from the blog platform.
type Blog interface {
	FetchAll(ctx context.Context, limit int) ([]*post.Post, error)
}

// Enricher produces the GPT-derived post fields.
type Enricher interface {
	Summarize(ctx context.Context, text string) (string, error)
	Keywords(ctx context.Context, text string) ([]string, error)
	Goal(ctx context.Context, text string) (string, error)
}

// Trainer embeds terms, assigning fresh vectors to unknown ones and
// persisting the extended vocabulary.
type Trainer interface {
	Train(terms []string) ([]vector.Vector, error)
}

// Cache is the post blob store.
type Cache interface {
	Exists(key string) bool
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
	Keys() ([]string, error)
}

// Index upserts post vectors into the search index.
type Index interface {
	Init(ctx context.Context) error
	SavePost(ctx context.Context, p *post.Post) error
}
