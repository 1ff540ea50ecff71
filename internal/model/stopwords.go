package model

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/benji-blog/benji/internal/domain/vector"
)

//go:embed stopwords.txt
var defaultStopWords string

// loadStopWords fills the stop-word set from the override file when given,
// otherwise from the embedded English list.
func (m *Model) loadStopWords(path string) error {
	raw := defaultStopWords
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read stop words %q: %w", path, err)
		}
		raw = string(data)
	}

	m.stops = make(map[string]struct{})
	for _, line := range strings.Fields(raw) {
		if word := vector.Normalize(line); word != "" {
			m.stops[word] = struct{}{}
		}
	}
	return nil
}
