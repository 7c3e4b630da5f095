package input

import (
	"github.com/valyala/fastjson"
)

// NormalizeObject converts a parsed JSON object into a plain string-keyed map, descending at
// most maxDepth levels. Returns nil for missing or non-object values.
func NormalizeObject(value *fastjson.Value, maxDepth int) map[string]interface{} {
	if value == nil {
		return nil
	}
	object, err := value.Object()
	if err != nil {
		return nil
	}
	fields := make(map[string]interface{}, object.Len())
	object.Visit(func(key []byte, item *fastjson.Value) {
		fields[string(key)] = NormalizeValue(item, maxDepth-1)
	})
	return fields
}

// NormalizeValue converts one parsed JSON value into plain maps, slices and scalars
//
// Whole numbers become int64, other numbers float64. Objects nested deeper than maxDepth
// degrade to their raw JSON text instead of descending further, so downstream classification
// always terminates on bounded structures.
func NormalizeValue(value *fastjson.Value, maxDepth int) interface{} {
	switch value.Type() {
	case fastjson.TypeObject:
		if maxDepth <= 0 {
			return value.String()
		}
		return NormalizeObject(value, maxDepth)
	case fastjson.TypeArray:
		items, _ := value.Array()
		list := make([]interface{}, 0, len(items))
		for _, item := range items {
			list = append(list, NormalizeValue(item, maxDepth-1))
		}
		return list
	case fastjson.TypeString:
		text, _ := value.StringBytes()
		return string(text)
	case fastjson.TypeNumber:
		if integer, ierr := value.Int64(); ierr == nil {
			return integer
		}
		number, _ := value.Float64()
		return number
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
