package jsonline

import (
	"testing"

	"github.com/relex/ecs-formatter/base"
	"github.com/stretchr/testify/assert"
)

func TestSerializeDocument(t *testing.T) {
	doc := base.NewDocument()
	doc.Set("@timestamp", "2022-07-01T10:30:00.000Z")
	doc.Set("log.level", "INFO")
	doc.Set("labels", map[string]interface{}{"a": "b"})

	serializer := NewSerializer()
	out, err := serializer.SerializeDocument(doc)
	assert.Nil(t, err)
	assert.Equal(t, `{"@timestamp":"2022-07-01T10:30:00.000Z","log.level":"INFO","labels":{"a":"b"}}`+"\n", string(out))
}
