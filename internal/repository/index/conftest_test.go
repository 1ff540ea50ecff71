package index

import (
	"context"

	"github.com/benji-blog/benji/internal/db"
)

// mockStore implements the store contract with function fields so each test
// plugs in only the behavior it needs.
type mockStore struct {
	hsetFunc        func(ctx context.Context, key string, fields map[string]string) error
	existsFunc      func(ctx context.Context, key string) (bool, error)
	delFunc         func(ctx context.Context, key string) error
	createIndexFunc func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFunc func(ctx context.Context, name string) (bool, error)
	searchKNNFunc   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	return m.hsetFunc(ctx, key, fields)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	return m.existsFunc(ctx, key)
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	return m.delFunc(ctx, key)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	return m.createIndexFunc(ctx, def)
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	return m.indexExistsFunc(ctx, name)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	return m.searchKNNFunc(ctx, q)
}
