package model

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/vector"
	"github.com/benji-blog/benji/internal/metrics"
)

// Sentinel is the fixed value written into dimension 0 of every vector
// generated for a previously-unknown term, so trained terms cluster together.
const Sentinel float32 = 1.0

// loadVocabulary merges the persisted custom vocabulary into the live word
// table. A missing file is an empty vocabulary, not an error.
func (m *Model) loadVocabulary() (int, error) {
	if m.vocabPath == "" {
		return 0, nil
	}
	data, err := os.ReadFile(m.vocabPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read vocabulary %q: %w", m.vocabPath, err)
	}

	var entries map[string][]float32
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse vocabulary %q: %w", m.vocabPath, err)
	}

	for word, embedding := range entries {
		if word == "" || len(embedding) == 0 {
			continue
		}
		if m.dim == 0 {
			m.dim = len(embedding)
		}
		if len(embedding) != m.dim {
			return 0, fmt.Errorf("vocabulary word %q has %d dimensions, expected %d", word, len(embedding), m.dim)
		}
		m.trained[word] = embedding
		m.words[word] = embedding
	}
	return len(entries), nil
}

// Train vectorizes the terms and assigns a freshly generated vector to every
// unknown one: dimension 0 is the Sentinel constant, the rest are uniform
// random draws. Already-known terms keep their existing vector. The whole
// custom vocabulary is then flushed to disk, replacing the previous file.
func (m *Model) Train(terms []string) ([]vector.Vector, error) {
	vectors := vector.ToVectors(m, terms)

	m.mu.Lock()
	changed := false
	for i, v := range vectors {
		if v.Word == "" {
			continue
		}
		// consult the live table, not the copy captured above: a term
		// repeated in one call must reuse its first occurrence's vector
		if embedding, ok := m.words[v.Word]; ok {
			vectors[i].Embedding = embedding
			continue
		}
		embedding := m.generate()
		m.words[v.Word] = embedding
		m.trained[v.Word] = embedding
		vectors[i].Embedding = embedding
		changed = true
		metrics.WordsTrainedTotal.Inc()
		m.logger.Debug("trained word vector", zap.String("word", v.Word))
	}
	m.mu.Unlock()

	if changed {
		if err := m.Flush(); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// generate builds a trained-term vector. Caller holds the write lock.
func (m *Model) generate() []float32 {
	embedding := make([]float32, m.dim)
	embedding[0] = Sentinel
	for i := 1; i < m.dim; i++ {
		embedding[i] = rand.Float32()*2 - 1
	}
	return embedding
}

// Flush persists the custom vocabulary to its fixed path. The write goes
// through a temp file and a rename so a failed flush leaves the previous
// file intact.
func (m *Model) Flush() error {
	if m.vocabPath == "" {
		return fmt.Errorf("%w: no vocabulary path configured", domain.ErrVocabularyPersist)
	}
	m.mu.RLock()
	data, err := json.MarshalIndent(m.trained, "", "    ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrVocabularyPersist, err)
	}

	dir := filepath.Dir(m.vocabPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.vocabPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVocabularyPersist, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", domain.ErrVocabularyPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", domain.ErrVocabularyPersist, err)
	}
	if err := os.Rename(tmp.Name(), m.vocabPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", domain.ErrVocabularyPersist, err)
	}
	return nil
}
