// Package post holds the blog post entity and its serialized form.
package post

import (
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/benji-blog/benji/internal/domain/vector"
)

// Post is a Wordpress blog post with its GPT enrichment and term vectors.
type Post struct {
	Title       string
	Content     string
	ImageURL    string
	Date        string
	URL         string
	Description string
	Summary     string
	Goal        string
	Keywords    []string
	Vectors     []vector.Vector
}

// Slug derives the stable post identifier from the title.
func (p *Post) Slug() string {
	return slug.Make(p.Title)
}

// postJSON is the cached blob format. Paragraphs are stored alongside the raw
// content so consumers do not need to re-parse the HTML.
type postJSON struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Date        string          `json:"date"`
	Content     string          `json:"content"`
	ImageURL    string          `json:"image_url"`
	URL         string          `json:"url"`
	Paragraphs  []string        `json:"paragraphs"`
	Description string          `json:"description"`
	Summary     string          `json:"summary"`
	Goal        string          `json:"goal"`
	Keywords    []string        `json:"keywords"`
	Vectors     []vector.Vector `json:"vectors"`
}

// Encode serializes the post for the cache.
func (p *Post) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(postJSON{
		Title:       p.Title,
		Slug:        p.Slug(),
		Date:        p.Date,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		URL:         p.URL,
		Paragraphs:  p.Paragraphs(),
		Description: p.Description,
		Summary:     p.Summary,
		Goal:        p.Goal,
		Keywords:    p.Keywords,
		Vectors:     p.Vectors,
	}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode post %q: %w", p.Slug(), err)
	}
	return data, nil
}

// Decode deserializes a cached post blob. Vectors with an empty word are
// dropped, matching the entity invariant.
func Decode(data []byte) (*Post, error) {
	var raw postJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	p := &Post{
		Title:       raw.Title,
		Content:     raw.Content,
		ImageURL:    raw.ImageURL,
		Date:        raw.Date,
		URL:         raw.URL,
		Description: raw.Description,
		Summary:     raw.Summary,
		Goal:        raw.Goal,
		Keywords:    raw.Keywords,
	}
	for _, v := range raw.Vectors {
		if v.Word != "" {
			p.Vectors = append(p.Vectors, v)
		}
	}
	return p, nil
}

// Small is the reduced post view returned by the HTTP API.
type Small struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	ImageURL string   `json:"image_url"`
	URL      string   `json:"url"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// Small returns the reduced view of the post.
func (p *Post) Small() Small {
	return Small{
		Title:    p.Title,
		Date:     p.Date,
		ImageURL: p.ImageURL,
		URL:      p.URL,
		Summary:  p.Summary,
		Keywords: p.Keywords,
	}
}
