package search

import (
	"fmt"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/vector"
)

const (
	// MaxQueryVectors caps the number of vectors one query may carry.
	MaxQueryVectors = 20
	// DefaultWindow is the number of raw hits requested from the index
	// before aggregation.
	DefaultWindow = 200
)

// Query is a scored-retrieval request against the vector index. For every
// indexed (term, post) entry the index must score
//
//	score = Σ_i (1 + cosine(Vectors[i], entry.vector))
//
// so orthogonal and negative-similarity terms still contribute a
// non-negative amount.
type Query struct {
	Vectors []vector.Vector
	Window  int
}

// BuildQuery shapes a query from the supplied vectors. Unknown vectors are
// filtered out before they reach the index; more than MaxQueryVectors is a
// precondition failure, not a degrade.
func BuildQuery(vectors []vector.Vector, window int) (Query, error) {
	if len(vectors) > MaxQueryVectors {
		return Query{}, fmt.Errorf("%w: %d vectors, maximum is %d",
			domain.ErrTooManyTerms, len(vectors), MaxQueryVectors)
	}
	if window <= 0 {
		window = DefaultWindow
	}

	known := make([]vector.Vector, 0, len(vectors))
	for _, v := range vectors {
		if v.IsKnown() {
			known = append(known, v)
		}
	}
	return Query{Vectors: known, Window: window}, nil
}
