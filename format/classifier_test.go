package format

import (
	"strings"
	"testing"

	"github.com/relex/ecs-formatter/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFieldSet(t *testing.T, schemaYaml string) base.FieldSet {
	index, err := base.NewSchemaIndex(strings.NewReader(schemaYaml))
	require.Nil(t, err)
	return index.FieldsOf("http")
}

func TestClassifyNamespaceFullMatch(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    request:
      fields:
        method: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"request": map[string]interface{}{"method": "GET"},
	})
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"method": "GET"},
	}, structured)
	assert.Nil(t, remainder)
}

func TestClassifyNamespacePartialMatch(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    request:
      fields:
        method: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"request": map[string]interface{}{
			"method":        "GET",
			"unknown_field": "x",
		},
	})
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"method": "GET"},
	}, structured)
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"unknown_field": "x"},
	}, remainder)
}

func TestClassifyNamespaceCoercesFlattenedLeaves(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    response:
      fields:
        status_code: {}
        cached: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"response": map[string]interface{}{
			"status_code": int64(200),
			"cached":      false,
		},
	})
	assert.Equal(t, map[string]interface{}{
		"response": map[string]interface{}{
			"status_code": "200",
			"cached":      "false",
		},
	}, structured)
	assert.Nil(t, remainder)
}

func TestClassifyNamespaceDirectKeyKeepsType(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    version: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"version": int64(2),
	})
	assert.Equal(t, map[string]interface{}{"version": int64(2)}, structured)
	assert.Nil(t, remainder)
}

func TestClassifyNamespaceDualTest(t *testing.T) {
	// "request" is itself a known leaf name and also contains a known nested field
	known := newTestFieldSet(t, `
http:
  fields:
    request: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"request": map[string]interface{}{"anything": int64(1)},
	})
	// flatten test finds no "request.anything"; direct key test matches verbatim
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"anything": int64(1)},
	}, structured)
	assert.Nil(t, remainder)
}

func TestClassifyNamespaceNothingMatches(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    request:
      fields:
        method: {}
`)
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"whatever": "x",
		"nested":   map[string]interface{}{"a": int64(1)},
	})
	assert.Nil(t, structured)
	assert.Equal(t, map[string]interface{}{
		"whatever": "x",
		"nested":   map[string]interface{}{"a": int64(1)},
	}, remainder)
}

func TestClassifyNamespaceDoesNotModifyInput(t *testing.T) {
	known := newTestFieldSet(t, `
http:
  fields:
    request:
      fields:
        method: {}
`)
	input := map[string]interface{}{
		"request": map[string]interface{}{
			"method": "GET",
			"other":  "x",
		},
	}
	_, _ = classifyNamespace(known, input)
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{
			"method": "GET",
			"other":  "x",
		},
	}, input)
}

func TestRemoveFieldPathPrunesEmptyParents(t *testing.T) {
	tree := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{"c": int64(1)},
			"d": int64(2),
		},
	}
	removeFieldPath(tree, []string{"a", "b", "c"})
	assert.Equal(t, map[string]interface{}{
		"a": map[string]interface{}{"d": int64(2)},
	}, tree)

	removeFieldPath(tree, []string{"a", "d"})
	assert.Empty(t, tree)
}

func TestClassifyNamespaceDottedKey(t *testing.T) {
	known := base.FieldSet{"request.status.code": true}
	structured, remainder := classifyNamespace(known, map[string]interface{}{
		"request": map[string]interface{}{
			"status.code": int64(200),
			"ref":         "r1",
		},
	})
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{
			"status": map[string]interface{}{"code": "200"},
		},
	}, structured)
	assert.Equal(t, map[string]interface{}{
		"request": map[string]interface{}{"ref": "r1"},
	}, remainder)
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "text", coerceString("text"))
	assert.Equal(t, "false", coerceString(false))
	assert.Equal(t, "0", coerceString(int64(0)))
	assert.Equal(t, "1.5", coerceString(1.5))
	assert.Equal(t, "", coerceString(nil))
	assert.Equal(t, `[1,"two"]`, coerceString([]interface{}{int64(1), "two"}))
}
