package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/relex/ecs-formatter/base"
)

// classifyNamespace partitions one namespace subtree into schema-recognized structured fields
// and the unmatched remainder, against the known field paths of that namespace
//
// Two independent tests decide recognition, matching namespaces that declare both scalar leaf
// fields and nested object fields at the same level:
//
//  1. map-valued entries are flattened and every dotted leaf path found in knownFields is moved
//     into the structured tree with its value coerced to string, leaving unmatched siblings behind
//  2. entry keys found in knownFields as-is are moved into the structured tree verbatim, without coercion
//
// Neither test overrides the other; map-valued contributions under the same key are merged.
// The input subtree is never modified: the remainder is a pruned copy. Empty containers are
// dropped from both return values, which are nil when empty.
func classifyNamespace(knownFields base.FieldSet, subtree map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	structured := make(map[string]interface{}, len(subtree))
	remainder := deepCopyFieldMap(subtree)

	for itemKey, itemValue := range subtree {
		if itemMap, isMap := itemValue.(map[string]interface{}); isMap {
			flat := flattenLeaves(map[string]interface{}{itemKey: itemMap})
			for path, leaf := range flat {
				if !knownFields[path] {
					continue
				}
				setNestedField(structured, path, coerceString(leaf.value))
				removeFieldPath(remainder, leaf.keyPath)
			}
		}
		if knownFields[itemKey] {
			setNestedField(structured, itemKey, deepCopyFieldValue(itemValue))
			delete(remainder, itemKey)
		}
	}

	if len(structured) == 0 {
		structured = nil
	}
	if len(remainder) == 0 {
		remainder = nil
	}
	return structured, remainder
}

// setNestedField writes a value at the given dotted path, creating intermediate maps as needed.
// A map value arriving where a map already exists is merged key by key instead of replacing it,
// so the flatten test and the direct key test contribute independently of their order.
func setNestedField(tree map[string]interface{}, path string, value interface{}) {
	segments := strings.Split(path, ".")
	node := tree
	for _, segment := range segments[:len(segments)-1] {
		child, exists := node[segment].(map[string]interface{})
		if !exists {
			child = make(map[string]interface{}, 1)
			node[segment] = child
		}
		node = child
	}
	leafKey := segments[len(segments)-1]
	newMap, newIsMap := value.(map[string]interface{})
	oldMap, oldIsMap := node[leafKey].(map[string]interface{})
	if newIsMap && oldIsMap {
		mergeFieldMaps(oldMap, newMap)
		return
	}
	node[leafKey] = value
}

func mergeFieldMaps(dest map[string]interface{}, src map[string]interface{}) {
	for key, value := range src {
		if srcChild, srcIsMap := value.(map[string]interface{}); srcIsMap {
			if destChild, destIsMap := dest[key].(map[string]interface{}); destIsMap {
				mergeFieldMaps(destChild, srcChild)
				continue
			}
		}
		dest[key] = value
	}
}

// fillMissingFields copies entries of src that are absent from dest, descending into maps
// present on both sides. Existing dest values are kept.
func fillMissingFields(dest map[string]interface{}, src map[string]interface{}) {
	for key, value := range src {
		existing, exists := dest[key]
		if !exists {
			dest[key] = value
			continue
		}
		destChild, destIsMap := existing.(map[string]interface{})
		srcChild, srcIsMap := value.(map[string]interface{})
		if destIsMap && srcIsMap {
			fillMissingFields(destChild, srcChild)
		}
	}
}

// removeFieldPath deletes the leaf at the given key sequence and prunes containers left empty,
// so extraction never leaves "{}" behind. Keys are taken literally, a key may contain dots.
func removeFieldPath(tree map[string]interface{}, segments []string) {
	parents := make([]map[string]interface{}, 0, len(segments))
	node := tree
	for _, segment := range segments[:len(segments)-1] {
		child, exists := node[segment].(map[string]interface{})
		if !exists {
			return
		}
		parents = append(parents, node)
		node = child
	}
	delete(node, segments[len(segments)-1])
	for i := len(parents) - 1; i >= 0; i-- {
		if len(node) > 0 {
			break
		}
		node = parents[i]
		delete(node, segments[i])
	}
}

// deepCopyFieldMap copies a normalized field tree; nested maps are copied recursively while
// scalars and sequences are shared, as formatting never modifies leaves
func deepCopyFieldMap(fields map[string]interface{}) map[string]interface{} {
	copied := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		copied[key] = deepCopyFieldValue(value)
	}
	return copied
}

func deepCopyFieldValue(value interface{}) interface{} {
	if childMap, isMap := value.(map[string]interface{}); isMap {
		return deepCopyFieldMap(childMap)
	}
	return value
}

// coerceString renders a matched leaf value in its textual representation, as the schema's
// structured string fields expect text
func coerceString(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case nil:
		return ""
	default:
		return stringifyFallback(value)
	}
}

// stringifyFallback handles sequences and partially-normalized leftovers
func stringifyFallback(value interface{}) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(encoded)
}
