package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/post"
	domsearch "github.com/benji-blog/benji/internal/domain/search"
)

func encodePost(t *testing.T, title string) []byte {
	t.Helper()
	data, err := (&post.Post{Title: title}).Encode()
	if err != nil {
		t.Fatalf("encode %q: %v", title, err)
	}
	return data
}

func TestSearch_RanksAndResolves(t *testing.T) {
	embed := &fakeEmbedder{
		vectors: map[string][]float32{
			"rust":    {1, 0},
			"systems": {0.9, 0.1},
		},
		stops: map[string]bool{"about": true},
		dim:   2,
	}

	index := &mockIndex{
		queryFunc: func(_ context.Context, q domsearch.Query) ([]domsearch.Hit, error) {
			if len(q.Vectors) != 2 {
				t.Fatalf("query carries %d vectors, want 2 (unknown filtered)", len(q.Vectors))
			}
			// per-vector hits: the rust post is close to both query
			// vectors, the ocean post is not
			return []domsearch.Hit{
				{Slug: "why-rust", Score: 1.98},
				{Slug: "coral-reefs", Score: 1.02},
				{Slug: "why-rust", Score: 1.91},
				{Slug: "coral-reefs", Score: 1.05},
			}, nil
		},
	}

	store := &mockPostStore{
		loadFunc: func(key string) ([]byte, error) {
			switch key {
			case "why-rust":
				return encodePost(t, "Why Rust"), nil
			case "coral-reefs":
				return encodePost(t, "Coral Reefs"), nil
			}
			return nil, fmt.Errorf("%w: %q", domain.ErrPostNotFound, key)
		},
	}

	svc := New(index, store, embed, 0, nil)
	// "concurrency" is unknown and must not reach the index
	posts, err := svc.Search(context.Background(), "about rust systems concurrency", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Title != "Why Rust" {
		t.Errorf("top post = %q, want Why Rust", posts[0].Title)
	}
	if posts[1].Title != "Coral Reefs" {
		t.Errorf("second post = %q", posts[1].Title)
	}
}

func TestSearch_NoKnownVectors(t *testing.T) {
	embed := &fakeEmbedder{dim: 2}
	index := &mockIndex{
		queryFunc: func(_ context.Context, _ domsearch.Query) ([]domsearch.Hit, error) {
			t.Fatal("index must not be queried without known vectors")
			return nil, nil
		},
	}

	svc := New(index, &mockPostStore{}, embed, 0, nil)
	posts, err := svc.Search(context.Background(), "gibberish words only", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if posts != nil {
		t.Errorf("posts = %v, want nil", posts)
	}
}

func TestSearch_TooManyTerms(t *testing.T) {
	embed := &fakeEmbedder{dim: 2}
	svc := New(&mockIndex{}, &mockPostStore{}, embed, 0, nil)

	terms := make([]string, domsearch.MaxQueryVectors+1)
	for i := range terms {
		terms[i] = fmt.Sprintf("word%d", i)
	}
	_, err := svc.Search(context.Background(), strings.Join(terms, " "), 3)
	if !errors.Is(err, domain.ErrTooManyTerms) {
		t.Fatalf("expected ErrTooManyTerms, got %v", err)
	}
}

func TestResolve_AbortsOnMissingSlug(t *testing.T) {
	loads := 0
	store := &mockPostStore{
		loadFunc: func(key string) ([]byte, error) {
			loads++
			if key == "missing" {
				return nil, fmt.Errorf("%w: %q", domain.ErrPostNotFound, key)
			}
			return encodePost(t, key), nil
		},
	}

	svc := New(&mockIndex{}, store, &fakeEmbedder{dim: 2}, 0, nil)
	_, err := svc.Resolve([]string{"first", "missing", "last"})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if loads != 2 {
		t.Errorf("loaded %d slugs before aborting, want 2", loads)
	}
}

func TestResolve_KeepsOrder(t *testing.T) {
	store := &mockPostStore{
		loadFunc: func(key string) ([]byte, error) {
			return encodePost(t, key), nil
		},
	}

	svc := New(&mockIndex{}, store, &fakeEmbedder{dim: 2}, 0, nil)
	posts, err := svc.Resolve([]string{"bravo", "alpha"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if posts[0].Title != "bravo" || posts[1].Title != "alpha" {
		t.Errorf("order = %q, %q", posts[0].Title, posts[1].Title)
	}
}
