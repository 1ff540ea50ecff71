// Package vector holds the term/embedding value object shared by the
// model, the index, and the search pipeline.
package vector

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/benji-blog/benji/internal/domain"
)

// Embedder maps a normalized term to its embedding. Implemented by the
// word-vector model; defined here so ToVectors stays free of the model package.
type Embedder interface {
	Embed(term string) Vector
	IsStop(term string) bool
}

// Vector pairs a normalized word with its embedding. An unknown word carries
// the zero vector; an empty word carries no embedding at all.
type Vector struct {
	Word      string
	Embedding []float32
}

// Normalize canonicalizes a raw token into a vocabulary key: lower-cased,
// trimmed, stripped of every non-alphanumeric rune. Idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsKnown reports whether the word exists in the active vocabulary: the word
// is non-empty and the embedding has at least one non-zero dimension.
func (v Vector) IsKnown() bool {
	if v.Word == "" {
		return false
	}
	for _, f := range v.Embedding {
		if f != 0 {
			return true
		}
	}
	return false
}

// Floats exports the embedding as float64 values for index payloads.
// A non-empty word without a computed embedding is an internal invariant
// violation and yields ErrInvalidVector.
func (v Vector) Floats() ([]float64, error) {
	if v.Embedding == nil && v.Word != "" {
		return nil, fmt.Errorf("%w: no embedding for %q", domain.ErrInvalidVector, v.Word)
	}
	out := make([]float64, len(v.Embedding))
	for i, f := range v.Embedding {
		out[i] = float64(f)
	}
	return out, nil
}

// vectorJSON is the wire form: the embedding is a plain JSON number array.
type vectorJSON struct {
	Word  string    `json:"word"`
	Array []float32 `json:"array"`
}

// MarshalJSON implements json.Marshaler.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorJSON{Word: v.Word, Array: v.Embedding})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw vectorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidVector, err)
	}
	v.Word = raw.Word
	v.Embedding = raw.Array
	return nil
}

// ToVectors normalizes and embeds each term, dropping stop words and tokens
// that normalize to the empty string. Order of first appearance is preserved
// and duplicates are retained.
func ToVectors(e Embedder, terms []string) []Vector {
	vectors := make([]Vector, 0, len(terms))
	for _, term := range terms {
		word := Normalize(term)
		if e.IsStop(word) {
			continue
		}
		vectors = append(vectors, e.Embed(word))
	}
	return vectors
}

// FromText splits raw text on whitespace and vectorizes the tokens.
func FromText(e Embedder, text string) []Vector {
	return ToVectors(e, strings.Fields(text))
}
