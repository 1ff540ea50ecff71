package wordpress

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postRowJSON(title string) string {
	return fmt.Sprintf(`{
        "content": {"rendered": "<p>body of %s</p>"},
        "yoast_head_json": {
            "og_title": %q,
            "og_description": "desc",
            "og_url": "https://blog.example/%s",
            "article_published_time": "2023-05-01T10:30:00+00:00",
            "og_image": [{"url": "https://img.example/%s.png"}]
        }
    }`, title, title, title, title)
}

func blogServer(t *testing.T, pages map[string]string) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		requests = append(requests, r.URL.Query())
		page := r.URL.Query().Get("page")
		body, ok := pages[page]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code": "rest_post_invalid_page_number"}`)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(srv *httptest.Server, pageSize int) *Client {
	u, _ := url.Parse(srv.URL)
	return New(Config{
		Protocol: "http",
		Hostname: u.Host,
		PageSize: pageSize,
	})
}

func TestFetchAll_PagesUntilInvalidPage(t *testing.T) {
	srv, requests := blogServer(t, map[string]string{
		"1": "[" + postRowJSON("first") + "," + postRowJSON("second") + "]",
		"2": "[" + postRowJSON("third") + "]",
	})

	c := newTestClient(srv, 2)
	posts, err := c.FetchAll(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}
	if posts[0].Title != "first" || posts[2].Title != "third" {
		t.Errorf("titles = %q %q %q", posts[0].Title, posts[1].Title, posts[2].Title)
	}
	if posts[0].Date != "2023-05-01" {
		t.Errorf("date = %q", posts[0].Date)
	}
	if posts[0].ImageURL != "https://img.example/first.png" {
		t.Errorf("image = %q", posts[0].ImageURL)
	}
	if !strings.Contains(posts[0].Content, "body of first") {
		t.Errorf("content = %q", posts[0].Content)
	}

	if len(*requests) != 3 {
		t.Fatalf("made %d requests, want 3", len(*requests))
	}
	q := (*requests)[0]
	if q.Get("status") != "publish" || q.Get("limit") != "2" {
		t.Errorf("query = %v", q)
	}
}

func TestFetchAll_StopsAtLimit(t *testing.T) {
	srv, requests := blogServer(t, map[string]string{
		"1": "[" + postRowJSON("first") + "," + postRowJSON("second") + "]",
	})

	c := newTestClient(srv, 2)
	posts, err := c.FetchAll(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if len(*requests) != 1 {
		t.Errorf("made %d requests, want 1", len(*requests))
	}
}

func TestFetchAll_EmptyFirstPage(t *testing.T) {
	srv, _ := blogServer(t, map[string]string{"1": "[]"})

	c := newTestClient(srv, 2)
	posts, err := c.FetchAll(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("posts = %v", posts)
	}
}

func TestFetchAll_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "benji" || pass != "secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	c := New(Config{
		Protocol: "http",
		Hostname: u.Host,
		Username: "benji",
		Password: "secret",
	})
	if _, err := c.FetchAll(context.Background(), 0); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
}
