package search

import (
	"context"

	domsearch "github.com/benji-blog/benji/internal/domain/search"
)

// Index runs scored similarity queries against the vector index.
type Index interface {
	Query(ctx context.Context, q domsearch.Query) ([]domsearch.Hit, error)
}

// PostStore reads serialized posts by slug.
type PostStore interface {
	Load(key string) ([]byte, error)
}
