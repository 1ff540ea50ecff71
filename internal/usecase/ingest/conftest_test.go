package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/post"
	"github.com/benji-blog/benji/internal/domain/vector"
)

type mockBlog struct {
	fetchAllFunc func(ctx context.Context, limit int) ([]*post.Post, error)
}

func (m *mockBlog) FetchAll(ctx context.Context, limit int) ([]*post.Post, error) {
	return m.fetchAllFunc(ctx, limit)
}

type mockEnricher struct {
	summarizeFunc func(ctx context.Context, text string) (string, error)
	keywordsFunc  func(ctx context.Context, text string) ([]string, error)
	goalFunc      func(ctx context.Context, text string) (string, error)
}

func (m *mockEnricher) Summarize(ctx context.Context, text string) (string, error) {
	return m.summarizeFunc(ctx, text)
}

func (m *mockEnricher) Keywords(ctx context.Context, text string) ([]string, error) {
	return m.keywordsFunc(ctx, text)
}

func (m *mockEnricher) Goal(ctx context.Context, text string) (string, error) {
	return m.goalFunc(ctx, text)
}

type mockTrainer struct {
	trainFunc func(terms []string) ([]vector.Vector, error)
}

func (m *mockTrainer) Train(terms []string) ([]vector.Vector, error) {
	return m.trainFunc(terms)
}

type mockIndex struct {
	initFunc     func(ctx context.Context) error
	savePostFunc func(ctx context.Context, p *post.Post) error
}

func (m *mockIndex) Init(ctx context.Context) error {
	return m.initFunc(ctx)
}

func (m *mockIndex) SavePost(ctx context.Context, p *post.Post) error {
	return m.savePostFunc(ctx, p)
}

// memCache is an in-memory Cache for pipeline tests.
type memCache struct {
	blobs map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{blobs: make(map[string][]byte)}
}

func (c *memCache) Exists(key string) bool {
	_, ok := c.blobs[key]
	return ok
}

func (c *memCache) Save(key string, data []byte) error {
	c.blobs[key] = data
	return nil
}

func (c *memCache) Load(key string) ([]byte, error) {
	data, ok := c.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPostNotFound, key)
	}
	return data, nil
}

func (c *memCache) Keys() ([]string, error) {
	keys := make([]string, 0, len(c.blobs))
	for k := range c.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
