package base

import (
	"fmt"
	"io"
	"os"

	"github.com/relex/gotils/logger"
	"gopkg.in/yaml.v3"
)

// FieldSet is a set of dotted field paths relative to a namespace root, e.g. "request.method"
type FieldSet map[string]bool

// SchemaIndex holds the known dotted field paths of every ECS top-level namespace
//
// It's built once from a schema description and immutable afterwards; safe to share across
// concurrent formatting calls.
type SchemaIndex struct {
	namespaces map[string]FieldSet
}

// schemaNode is one node in the schema description: a group if it has child fields, a leaf otherwise.
// Unknown attributes (description, type, ...) are ignored.
type schemaNode struct {
	Fields map[string]*schemaNode `yaml:"fields"`
}

// NewSchemaIndexFromFile builds a SchemaIndex from a schema description file
func NewSchemaIndexFromFile(path string) (SchemaIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return SchemaIndex{}, fmt.Errorf("failed to open schema file '%s': %w", path, err)
	}
	defer file.Close()
	index, serr := NewSchemaIndex(file)
	if serr != nil {
		return SchemaIndex{}, fmt.Errorf("failed to load schema file '%s': %w", path, serr)
	}
	return index, nil
}

// NewSchemaIndex builds a SchemaIndex from a schema description shaped as
// {namespace: {fields: {leaf: {...}, group: {fields: {...}}}}}
//
// An unreadable, unparseable or empty description is an error: an empty index would silently
// reclassify every structured field as a label.
func NewSchemaIndex(reader io.Reader) (SchemaIndex, error) {
	description := make(map[string]*schemaNode, 100)
	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&description); err != nil {
		return SchemaIndex{}, fmt.Errorf("failed to parse schema description: %w", err)
	}

	namespaces := make(map[string]FieldSet, len(description))
	for name, root := range description {
		if len(name) == 0 {
			return SchemaIndex{}, fmt.Errorf("schema contains namespace with empty name")
		}
		if root == nil {
			continue
		}
		fields := make(FieldSet, len(root.Fields)*2)
		collectFieldPaths(fields, "", root.Fields)
		namespaces[name] = fields
	}
	if len(namespaces) == 0 {
		return SchemaIndex{}, fmt.Errorf("schema description defines no namespaces")
	}
	return SchemaIndex{namespaces: namespaces}, nil
}

// MustNewSchemaIndexFromFile builds a SchemaIndex from a schema description file or panics
func MustNewSchemaIndexFromFile(path string) SchemaIndex {
	index, err := NewSchemaIndexFromFile(path)
	if err != nil {
		logger.Panic("failed to create schema index: ", err)
	}
	return index
}

func collectFieldPaths(collected FieldSet, prefix string, fields map[string]*schemaNode) {
	for name, node := range fields {
		path := name
		if len(prefix) > 0 {
			path = prefix + "." + name
		}
		if node != nil && len(node.Fields) > 0 {
			collectFieldPaths(collected, path, node.Fields)
			continue
		}
		collected[path] = true
	}
}

// FieldsOf returns the known field paths of the given namespace, or nil for an unknown namespace
func (index *SchemaIndex) FieldsOf(namespace string) FieldSet {
	return index.namespaces[namespace]
}

// Namespaces returns the number of registered namespaces
func (index *SchemaIndex) Namespaces() int {
	return len(index.namespaces)
}
