// Package msgpackline serializes ECS documents as msgpack maps, one per SerializeDocument call,
// for downstream collectors that prefer msgpack streams over JSON lines
package msgpackline

import (
	"bytes"

	"github.com/relex/ecs-formatter/base"
	"github.com/vmihailenco/msgpack/v4"
)

type msgpackSerializer struct {
	buffer  bytes.Buffer
	encoder *msgpack.Encoder
}

// NewSerializer creates a DocumentSerializer producing one msgpack map per document.
// Top-level key order of the document is preserved.
func NewSerializer() base.DocumentSerializer {
	s := &msgpackSerializer{}
	s.encoder = msgpack.NewEncoder(&s.buffer)
	return s
}

func (s *msgpackSerializer) SerializeDocument(doc *base.Document) ([]byte, error) {
	s.buffer.Reset()
	if err := s.encoder.EncodeMapLen(doc.Len()); err != nil {
		return nil, err
	}
	for _, key := range doc.Keys() {
		if err := s.encoder.EncodeString(key); err != nil {
			return nil, err
		}
		value, _ := doc.Get(key)
		if err := s.encoder.Encode(value); err != nil {
			return nil, err
		}
	}
	return s.buffer.Bytes(), nil
}
