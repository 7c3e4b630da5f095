package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

type yamlOuterType struct {
	Name  string
	Value yamlCheckedType
}

type yamlCheckedType string

func (yv *yamlCheckedType) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "fail" {
		return NewYamlError(node, "Fail")
	}
	*yv = yamlCheckedType(node.Value)
	return nil
}

func TestYAMLMarshal(t *testing.T) {
	y, err := MarshalYaml(&yamlOuterType{
		Name:  "succ",
		Value: yamlCheckedType("here"),
	})
	assert.Nil(t, err)
	assert.Equal(t, "name: succ\nvalue: here\n", y)
}

func TestYAMLUnmarshal(t *testing.T) {
	var yo yamlOuterType

	assert.ErrorContains(t, UnmarshalYamlString(`
name: hi
value: fail
`, &yo), "yaml line 3:8: Fail")

	assert.Nil(t, UnmarshalYamlString("name: hi\nvalue: ok\n", &yo))
	assert.Equal(t, yamlCheckedType("ok"), yo.Value)

	assert.Error(t, UnmarshalYamlString("name: hi\nbogus: 1\n", &yo)) // KnownFields
}
