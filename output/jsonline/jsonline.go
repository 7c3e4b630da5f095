// Package jsonline serializes ECS documents as newline-terminated JSON objects
package jsonline

import (
	"encoding/json"

	"github.com/relex/ecs-formatter/base"
)

type jsonLineSerializer struct {
	buffer []byte
}

// NewSerializer creates a DocumentSerializer producing one JSON object per line.
// Top-level key order of the document is preserved.
func NewSerializer() base.DocumentSerializer {
	return &jsonLineSerializer{
		buffer: make([]byte, 0, 1024),
	}
}

func (s *jsonLineSerializer) SerializeDocument(doc *base.Document) ([]byte, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	s.buffer = append(s.buffer[:0], encoded...)
	s.buffer = append(s.buffer, '\n')
	return s.buffer, nil
}
