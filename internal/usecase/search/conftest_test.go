package search

import (
	"context"

	domsearch "github.com/benji-blog/benji/internal/domain/search"
	"github.com/benji-blog/benji/internal/domain/vector"
)

type mockIndex struct {
	queryFunc func(ctx context.Context, q domsearch.Query) ([]domsearch.Hit, error)
}

func (m *mockIndex) Query(ctx context.Context, q domsearch.Query) ([]domsearch.Hit, error) {
	return m.queryFunc(ctx, q)
}

type mockPostStore struct {
	loadFunc func(key string) ([]byte, error)
}

func (m *mockPostStore) Load(key string) ([]byte, error) {
	return m.loadFunc(key)
}

// fakeEmbedder knows a fixed word table; anything else embeds to the
// zero vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	stops   map[string]bool
	dim     int
}

func (f *fakeEmbedder) Embed(term string) vector.Vector {
	if term == "" {
		return vector.Vector{}
	}
	if emb, ok := f.vectors[term]; ok {
		return vector.Vector{Word: term, Embedding: emb}
	}
	return vector.Vector{Word: term, Embedding: make([]float32, f.dim)}
}

func (f *fakeEmbedder) IsStop(term string) bool {
	return term == "" || f.stops[term]
}
