// Package model loads the pretrained word-vector artifact, answers embedding
// lookups, and maintains the persisted custom vocabulary for trained terms.
package model

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/benji-blog/benji/internal/domain"
	"github.com/benji-blog/benji/internal/domain/vector"
	"github.com/benji-blog/benji/internal/metrics"
)

// DefaultArtifactPath is the well-known artifact location used when the
// configured path is absent.
const DefaultArtifactPath = "data/en_core_vectors.txt"

// Config holds the model load settings.
type Config struct {
	// ArtifactPath points at the pretrained word-vector artifact. When the
	// file does not exist, DefaultArtifactPath is tried next.
	ArtifactPath string
	// VocabularyPath is the fixed location of the persisted custom vocabulary.
	VocabularyPath string
	// StopWordsPath optionally overrides the embedded stop-word list.
	StopWordsPath string
	Logger        *zap.Logger
}

// Model is the process-wide word-vector vocabulary. Loaded once, shared
// read-only except for Train, which holds the write lock.
type Model struct {
	mu        sync.RWMutex
	dim       int
	words     map[string][]float32
	trained   map[string][]float32
	stops     map[string]struct{}
	vocabPath string
	logger    *zap.Logger
}

// Load builds the model: the pretrained artifact from the configured path or
// the default one, merged with the persisted custom vocabulary. When no
// artifact exists but the vocabulary file does, the model runs on the
// vocabulary alone. With neither, nothing can be embedded: ErrModelUnavailable.
func Load(cfg Config) (*Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		words:     make(map[string][]float32),
		trained:   make(map[string][]float32),
		vocabPath: cfg.VocabularyPath,
		logger:    logger,
	}

	source, err := m.loadArtifact(cfg.ArtifactPath)
	if err != nil {
		return nil, err
	}

	loaded, err := m.loadVocabulary()
	if err != nil {
		return nil, err
	}
	if source == "" {
		if loaded == 0 {
			return nil, fmt.Errorf("%w: no artifact at %q or %q and no vocabulary at %q",
				domain.ErrModelUnavailable, cfg.ArtifactPath, DefaultArtifactPath, cfg.VocabularyPath)
		}
		source = "vocabulary-only"
	}
	// an artifact or vocabulary that parsed but held no word lines leaves
	// nothing embeddable and no dimensionality to train against
	if m.dim == 0 {
		return nil, fmt.Errorf("%w: source %q holds no word vectors", domain.ErrModelUnavailable, source)
	}

	if err := m.loadStopWords(cfg.StopWordsPath); err != nil {
		return nil, err
	}

	logger.Info("word-vector model loaded",
		zap.String("source", source),
		zap.Int("dimensions", m.dim),
		zap.Int("pretrained_words", len(m.words)-len(m.trained)),
		zap.Int("trained_words", len(m.trained)),
	)
	return m, nil
}

// loadArtifact reads the pretrained artifact, resolving the configured path
// first and the default path second. Returns which source loaded, or ""
// when neither file exists.
func (m *Model) loadArtifact(path string) (string, error) {
	for _, candidate := range []struct{ source, path string }{
		{"custom", path},
		{"default", DefaultArtifactPath},
	} {
		if candidate.path == "" {
			continue
		}
		file, err := os.Open(candidate.path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: open artifact %q: %w", domain.ErrModelUnavailable, candidate.path, err)
		}
		defer file.Close()
		if err := m.parseArtifact(file); err != nil {
			return "", fmt.Errorf("%w: parse artifact %q: %w", domain.ErrModelUnavailable, candidate.path, err)
		}
		return candidate.source, nil
	}
	return "", nil
}

// parseArtifact reads word-vector lines of the form "word v1 v2 ... vD".
// A leading "count dim" header (word2vec text format) is skipped.
func (m *Model) parseArtifact(file *os.File) error {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	first := true
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			if len(fields) == 2 {
				if _, err := strconv.Atoi(fields[0]); err == nil {
					continue
				}
			}
		}
		if len(fields) < 2 {
			return fmt.Errorf("malformed line for %q", fields[0])
		}
		word := vector.Normalize(fields[0])
		if word == "" {
			continue
		}
		embedding := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return fmt.Errorf("word %q dimension %d: %w", word, i, err)
			}
			embedding[i] = float32(v)
		}
		if m.dim == 0 {
			m.dim = len(embedding)
		} else if len(embedding) != m.dim {
			return fmt.Errorf("word %q has %d dimensions, expected %d", word, len(embedding), m.dim)
		}
		m.words[word] = embedding
	}
	return scanner.Err()
}

// Embed looks up the term in the active vocabulary. An empty term yields a
// vector with no embedding; an unknown term yields the zero vector. Training
// never happens here.
func (m *Model) Embed(term string) vector.Vector {
	if term == "" {
		return vector.Vector{}
	}
	m.mu.RLock()
	embedding, ok := m.words[term]
	dim := m.dim
	m.mu.RUnlock()

	if !ok {
		metrics.ModelLookupsTotal.WithLabelValues("miss").Inc()
		return vector.Vector{Word: term, Embedding: make([]float32, dim)}
	}
	metrics.ModelLookupsTotal.WithLabelValues("hit").Inc()
	out := make([]float32, len(embedding))
	copy(out, embedding)
	return vector.Vector{Word: term, Embedding: out}
}

// IsStop reports whether the term is empty or marked as a stop word.
func (m *Model) IsStop(term string) bool {
	if term == "" {
		return true
	}
	_, ok := m.stops[term]
	return ok
}

// Dim returns the embedding dimensionality of the loaded model.
func (m *Model) Dim() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dim
}
