// Package index stores one vector per (term, post) pair in the FT index and
// runs the scored similarity queries against it.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/db"
	dbredis "github.com/benji-blog/benji/internal/db/redis"
	"github.com/benji-blog/benji/internal/domain/post"
	"github.com/benji-blog/benji/internal/domain/search"
	"github.com/benji-blog/benji/internal/metrics"
)

// store is the consumer-side slice of db.Store this repo needs.
type store interface {
	db.HashStore
	db.IndexManager
	db.Searcher
}

// Repo is the vector index repository.
type Repo struct {
	store  store
	name   string
	prefix string
	dim    int
	logger *zap.Logger
}

// New creates an index repository. dim must match the loaded model.
func New(s store, name string, dim int, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{
		store:  s,
		name:   name,
		prefix: name + ":vec:",
		dim:    dim,
		logger: logger,
	}
}

// Init creates the index schema. An already-existing index is success.
func (r *Repo) Init(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, &db.IndexDefinition{
		Name:     r.name,
		Prefixes: []string{r.prefix},
		Fields: []db.IndexField{
			{Name: "vector", VectorDim: r.dim},
			{Name: "word", Tag: true},
			{Name: "slug", Tag: true},
		},
	})
	if errors.Is(err, db.ErrIndexExists) {
		r.logger.Debug("index already exists", zap.String("index", r.name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create index %q: %w", r.name, err)
	}
	r.logger.Info("index created", zap.String("index", r.name), zap.Int("dimensions", r.dim))
	return nil
}

// SavePost upserts every known vector of the post, one entry per (term, slug).
func (r *Repo) SavePost(ctx context.Context, p *post.Post) error {
	slug := p.Slug()
	for _, v := range p.Vectors {
		if !v.IsKnown() {
			continue
		}
		key := r.prefix + entryID(v.Word, slug)
		fields := map[string]string{
			"vector": dbredis.VectorToBytes(v.Embedding),
			"word":   v.Word,
			"slug":   slug,
		}
		if err := r.store.HSet(ctx, key, fields); err != nil {
			return fmt.Errorf("index %q for post %q: %w", v.Word, slug, err)
		}
	}
	return nil
}

// Query runs the scored retrieval: one KNN sub-search per query vector, each
// raw hit scored 1 + cosine similarity, so the per-slug sum downstream equals
// Σ_i (1 + cosine(query_i, entry.vector)) over every indexed entry.
func (r *Repo) Query(ctx context.Context, q search.Query) ([]search.Hit, error) {
	start := time.Now()

	var hits []search.Hit
	for _, v := range q.Vectors {
		res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
			IndexName:    r.name,
			Vector:       v.Embedding,
			K:            q.Window,
			ReturnFields: []string{"slug"},
		})
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("knn search for %q: %w", v.Word, err)
		}
		for _, entry := range res.Entries {
			slug, ok := entry.Fields["slug"]
			if !ok {
				continue
			}
			// __vector_score is the cosine distance; 2 - distance = 1 + cosine
			hits = append(hits, search.Hit{Slug: slug, Score: 2 - entry.Score})
		}
	}

	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	return hits, nil
}

// entryID derives the index key for a (term, slug) pair. The full hash keeps
// one entry per pair without collisions across distinct pairs.
func entryID(word, slug string) string {
	sum := sha256.Sum256([]byte(word + "|" + slug))
	return hex.EncodeToString(sum[:])
}
