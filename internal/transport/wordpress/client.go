// Package wordpress fetches published posts from the Wordpress REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain/post"
)

const defaultPageSize = 20

// Config holds the blog connection settings.
type Config struct {
	Protocol string
	Hostname string
	Username string
	Password string
	PageSize int
	Logger   *zap.Logger
}

// Client pages through /wp-json/wp/v2/posts.
type Client struct {
	http     *retryablehttp.Client
	base     string
	username string
	password string
	pageSize int
	logger   *zap.Logger
}

// New creates a Wordpress client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		http:     httpClient,
		base:     fmt.Sprintf("%s://%s/wp-json/wp", cfg.Protocol, cfg.Hostname),
		username: cfg.Username,
		password: cfg.Password,
		pageSize: pageSize,
		logger:   logger,
	}
}

// postRow is the slice of the Wordpress post payload this service consumes.
type postRow struct {
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
	Yoast struct {
		Title     string `json:"og_title"`
		Desc      string `json:"og_description"`
		URL       string `json:"og_url"`
		Published string `json:"article_published_time"`
		Images    []struct {
			URL string `json:"url"`
		} `json:"og_image"`
	} `json:"yoast_head_json"`
}

// FetchAll pages through all published posts, up to limit.
func (c *Client) FetchAll(ctx context.Context, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	for page := 1; ; page++ {
		rows, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return posts, nil
		}
		for _, row := range rows {
			posts = append(posts, rowToPost(row))
			if limit > 0 && len(posts) >= limit {
				return posts, nil
			}
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]postRow, error) {
	params := url.Values{}
	params.Set("status", "publish")
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("page", strconv.Itoa(page))
	endpoint := c.base + "/v2/posts?" + params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug("fetching posts", zap.Int("page", page))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}

	// Past the last page, Wordpress answers with an invalid-page-number error.
	if strings.Contains(string(body), "rest_post_invalid_page_number") {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %d: status %d: %s", page, resp.StatusCode, body)
	}

	var rows []postRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}
	return rows, nil
}

func rowToPost(row postRow) *post.Post {
	p := &post.Post{
		Title:       row.Yoast.Title,
		Description: row.Yoast.Desc,
		URL:         row.Yoast.URL,
		Content:     row.Content.Rendered,
	}
	if len(row.Yoast.Published) >= 10 {
		p.Date = row.Yoast.Published[:10]
	}
	if len(row.Yoast.Images) > 0 {
		p.ImageURL = row.Yoast.Images[0].URL
	}
	return p
}
