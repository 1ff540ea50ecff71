package ask

import (
	"context"
	"errors"
	"testing"

	"github.com/benji-blog/benji/internal/domain/post"
	domsearch "github.com/benji-blog/benji/internal/domain/search"
)

type mockSearcher struct {
	searchFunc func(ctx context.Context, question string, limit int) ([]*post.Post, error)
}

func (m *mockSearcher) Search(ctx context.Context, question string, limit int) ([]*post.Post, error) {
	return m.searchFunc(ctx, question, limit)
}

type mockAnswerer struct {
	askFunc func(ctx context.Context, question string, posts []*post.Post, maxTokens int) (string, error)
}

func (m *mockAnswerer) Ask(ctx context.Context, question string, posts []*post.Post, maxTokens int) (string, error) {
	return m.askFunc(ctx, question, posts, maxTokens)
}

func TestAsk(t *testing.T) {
	ranked := []*post.Post{{Title: "Why Rust"}}
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, question string, limit int) ([]*post.Post, error) {
			if limit != domsearch.DefaultLimit {
				t.Errorf("limit = %d, want %d", limit, domsearch.DefaultLimit)
			}
			if question != "should I learn rust?" {
				t.Errorf("question = %q", question)
			}
			return ranked, nil
		},
	}
	answerer := &mockAnswerer{
		askFunc: func(_ context.Context, _ string, posts []*post.Post, maxTokens int) (string, error) {
			if len(posts) != 1 || posts[0].Title != "Why Rust" {
				t.Errorf("context posts = %v", posts)
			}
			if maxTokens != 500 {
				t.Errorf("maxTokens = %d, want 500", maxTokens)
			}
			return "yes, you should", nil
		},
	}

	svc := New(searcher, answerer, nil)
	result, err := svc.Ask(context.Background(), "should I learn rust?", 500)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if result.Answer != "yes, you should" {
		t.Errorf("answer = %q", result.Answer)
	}
	if result.Question != "should I learn rust?" {
		t.Errorf("question = %q", result.Question)
	}
	if len(result.Posts) != 1 {
		t.Errorf("posts = %v", result.Posts)
	}
}

func TestAsk_SearchError(t *testing.T) {
	wantErr := errors.New("index down")
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ string, _ int) ([]*post.Post, error) {
			return nil, wantErr
		},
	}
	answerer := &mockAnswerer{
		askFunc: func(_ context.Context, _ string, _ []*post.Post, _ int) (string, error) {
			t.Fatal("answerer must not run when search fails")
			return "", nil
		},
	}

	svc := New(searcher, answerer, nil)
	if _, err := svc.Ask(context.Background(), "q", 0); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
}

func TestAsk_AnswerError(t *testing.T) {
	wantErr := errors.New("gpt down")
	searcher := &mockSearcher{
		searchFunc: func(_ context.Context, _ string, _ int) ([]*post.Post, error) {
			return nil, nil
		},
	}
	answerer := &mockAnswerer{
		askFunc: func(_ context.Context, _ string, _ []*post.Post, _ int) (string, error) {
			return "", wantErr
		},
	}

	svc := New(searcher, answerer, nil)
	if _, err := svc.Ask(context.Background(), "q", 0); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped answer error, got %v", err)
	}
}
