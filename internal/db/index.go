package db

import "errors"

// IndexField describes one field of an FT index schema. Only the field shapes
// this service indexes are modeled: a cosine FLAT vector and plain tags.
type IndexField struct {
	Name      string
	Tag       bool
	VectorDim int // >0 marks the field as a FLOAT32 cosine vector
}

// IndexDefinition is a complete FT index definition used by FT.CREATE.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	for _, f := range idx.Fields {
		if f.Name == "" {
			return errors.New("field name is required")
		}
		if f.Tag && f.VectorDim > 0 {
			return errors.New("field cannot be both tag and vector")
		}
	}
	return nil
}

// KNNQuery is the input for one vector similarity sub-search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Score carries the raw cosine distance
// reported by the index.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
