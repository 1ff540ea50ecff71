package domain

import "errors"

var (
	// ErrTooManyTerms signals a search with more query vectors than the index accepts.
	ErrTooManyTerms = errors.New("too many search terms")
	// ErrModelUnavailable signals that no word-vector artifact could be loaded.
	ErrModelUnavailable = errors.New("word-vector model unavailable")
	// ErrVocabularyPersist signals a failed write of the custom vocabulary file.
	ErrVocabularyPersist = errors.New("vocabulary persist failed")
	// ErrPostNotFound signals a post missing from the cache.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidVector signals a vector with no computed embedding.
	ErrInvalidVector = errors.New("invalid vector")
)
