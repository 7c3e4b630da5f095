package base

import (
	"bytes"
	"encoding/json"
)

// Document is a JSON-serializable mapping which preserves key insertion order
//
// The ECS skeleton fields are written first and keep their position; nested values are plain maps
// and serialized in Go's default order.
type Document struct {
	keys   []string
	values map[string]interface{}
}

// NewDocument creates an empty Document with room for the ECS skeleton plus a few namespaces
func NewDocument() *Document {
	return &Document{
		keys:   make([]string, 0, 10),
		values: make(map[string]interface{}, 10),
	}
}

// Set adds a new key or replaces the value of an existing key in place
func (doc *Document) Set(key string, value interface{}) {
	if _, exists := doc.values[key]; !exists {
		doc.keys = append(doc.keys, key)
	}
	doc.values[key] = value
}

// Get returns the value of the given key
func (doc *Document) Get(key string) (interface{}, bool) {
	value, exists := doc.values[key]
	return value, exists
}

// Has tells whether the given key exists
func (doc *Document) Has(key string) bool {
	_, exists := doc.values[key]
	return exists
}

// Len returns the number of top-level keys
func (doc *Document) Len() int {
	return len(doc.keys)
}

// Keys returns top-level keys in insertion order; the slice is owned by the Document
func (doc *Document) Keys() []string {
	return doc.keys
}

// MarshalJSON serializes the document as a JSON object with keys in insertion order
func (doc *Document) MarshalJSON() ([]byte, error) {
	writer := &bytes.Buffer{}
	writer.WriteByte('{')
	for i, key := range doc.keys {
		if i > 0 {
			writer.WriteByte(',')
		}
		keyJSON, kerr := json.Marshal(key)
		if kerr != nil {
			return nil, kerr
		}
		writer.Write(keyJSON)
		writer.WriteByte(':')
		valueJSON, verr := json.Marshal(doc.values[key])
		if verr != nil {
			return nil, verr
		}
		writer.Write(valueJSON)
	}
	writer.WriteByte('}')
	return writer.Bytes(), nil
}
