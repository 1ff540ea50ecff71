package post

import (
	"strings"

	"golang.org/x/net/html"
)

// Paragraphs extracts the trimmed text content of <p> and <h1> elements from
// the rendered HTML content, in document order.
func (p *Post) Paragraphs() []string {
	node, err := html.Parse(strings.NewReader(p.Content))
	if err != nil {
		return nil
	}
	var out []string
	var capture bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		entered := false
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "h1") {
			capture = true
			entered = true
		}
		if n.Type == html.TextNode && capture {
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if entered {
			capture = false
		}
	}
	walk(node)
	return out
}
