// Package format implements the reshaping of normalized log records into Elastic Common Schema documents:
// classification of context fields against a schema index, label sanitization and log.origin extraction.
package format

// FlattenFields converts a nested mapping into a flat mapping of dot-joined path to leaf value
//
// Maps descend; scalars and sequences are leaves, including false, zero and empty strings.
// Empty maps produce no entries. The input is never modified.
func FlattenFields(nested map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(nested))
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string]interface{}, prefix string, nested map[string]interface{}) {
	for key, value := range nested {
		path := key
		if len(prefix) > 0 {
			path = prefix + "." + key
		}
		if sub, isMap := value.(map[string]interface{}); isMap {
			flattenInto(flat, path, sub)
			continue
		}
		flat[path] = value
	}
}

// flatLeaf pairs a flattened leaf value with the key sequence of its original nested location.
// The sequence differs from splitting the dotted path when a key contains a literal dot.
type flatLeaf struct {
	value   interface{}
	keyPath []string
}

// flattenLeaves is FlattenFields with provenance: each entry keeps the original key sequence,
// so callers can prune the source tree by location instead of re-splitting the dotted path
func flattenLeaves(nested map[string]interface{}) map[string]flatLeaf {
	flat := make(map[string]flatLeaf, len(nested))
	flattenLeavesInto(flat, "", nil, nested)
	return flat
}

func flattenLeavesInto(flat map[string]flatLeaf, prefix string, keyPath []string, nested map[string]interface{}) {
	for key, value := range nested {
		path := key
		if len(prefix) > 0 {
			path = prefix + "." + key
		}
		childPath := append(append(make([]string, 0, len(keyPath)+1), keyPath...), key)
		if sub, isMap := value.(map[string]interface{}); isMap {
			flattenLeavesInto(flat, path, childPath, sub)
			continue
		}
		flat[path] = flatLeaf{value: value, keyPath: childPath}
	}
}
