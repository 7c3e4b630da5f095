package base

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSchemaIndex(t *testing.T) {
	index, err := NewSchemaIndex(strings.NewReader(`
http:
  fields:
    request:
      fields:
        method: {}
        body:
          fields:
            bytes: {}
    response:
      fields:
        status_code: {}
error:
  fields:
    message: {}
    type: {}
user:
  fields:
    id: {}
    name: {}
`))
	assert.Nil(t, err)
	assert.Equal(t, 3, index.Namespaces())

	httpFields := index.FieldsOf("http")
	assert.True(t, httpFields["request.method"])
	assert.True(t, httpFields["request.body.bytes"])
	assert.True(t, httpFields["response.status_code"])
	assert.False(t, httpFields["request"])
	assert.False(t, httpFields["method"])

	errorFields := index.FieldsOf("error")
	assert.True(t, errorFields["message"])
	assert.True(t, errorFields["type"])

	assert.Nil(t, index.FieldsOf("custom_ns"))
}

func TestNewSchemaIndexIgnoresExtraAttributes(t *testing.T) {
	index, err := NewSchemaIndex(strings.NewReader(`
user:
  title: User fields
  fields:
    id:
      description: Unique user identifier
      type: keyword
`))
	assert.Nil(t, err)
	assert.True(t, index.FieldsOf("user")["id"])
}

func TestNewSchemaIndexFromFile(t *testing.T) {
	index, err := NewSchemaIndexFromFile("testdata/schema.yml")
	assert.Nil(t, err)
	assert.Equal(t, 4, index.Namespaces())
	assert.True(t, index.FieldsOf("http")["request.body.bytes"])
	assert.True(t, index.FieldsOf("url")["path"])
	assert.True(t, index.FieldsOf("error")["stack_trace"])
}

func TestNewSchemaIndexErrors(t *testing.T) {
	_, err1 := NewSchemaIndex(strings.NewReader(`{}`))
	assert.ErrorContains(t, err1, "no namespaces")

	_, err2 := NewSchemaIndex(strings.NewReader(`[1, 2]`))
	assert.ErrorContains(t, err2, "failed to parse schema description")

	_, err3 := NewSchemaIndexFromFile("no-such-schema.yml")
	assert.ErrorContains(t, err3, "failed to open schema file")
}
