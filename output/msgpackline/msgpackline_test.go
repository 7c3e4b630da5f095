package msgpackline

import (
	"testing"

	"github.com/relex/ecs-formatter/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v4"
)

func TestSerializeDocument(t *testing.T) {
	doc := base.NewDocument()
	doc.Set("@timestamp", "2022-07-01T10:30:00.000Z")
	doc.Set("log.level", "INFO")
	doc.Set("http", map[string]interface{}{
		"request": map[string]interface{}{"method": "GET"},
	})

	serializer := NewSerializer()
	out, err := serializer.SerializeDocument(doc)
	require.Nil(t, err)

	var decoded map[string]interface{}
	require.Nil(t, msgpack.Unmarshal(out, &decoded))
	assert.Equal(t, "2022-07-01T10:30:00.000Z", decoded["@timestamp"])
	assert.Equal(t, "INFO", decoded["log.level"])
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"method": "GET"},
	}, decoded["http"])
}
