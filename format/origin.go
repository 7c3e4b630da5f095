package format

import (
	"github.com/relex/ecs-formatter/defs"
)

// ExtractLogOrigin consumes the reserved origin keys (file, line, class, function) from a flat
// context-like mapping and derives the "log.origin" object from them
//
// All four keys are always removed from the given map. Values of the wrong type (non-textual
// file/class/function, non-integer line) contribute nothing. Returns nil if no key yields a value,
// so an empty log.origin is never emitted.
func ExtractLogOrigin(fields map[string]interface{}) map[string]interface{} {
	file, hasFile := fields[defs.OriginKeyFile]
	line, hasLine := fields[defs.OriginKeyLine]
	class, hasClass := fields[defs.OriginKeyClass]
	function, hasFunction := fields[defs.OriginKeyFunction]
	if !hasFile && !hasLine && !hasClass && !hasFunction {
		return nil
	}
	delete(fields, defs.OriginKeyFile)
	delete(fields, defs.OriginKeyLine)
	delete(fields, defs.OriginKeyClass)
	delete(fields, defs.OriginKeyFunction)

	originFile := make(map[string]interface{}, 2)
	if fileName, ok := file.(string); hasFile && ok {
		originFile["name"] = fileName
	}
	if lineNumber, ok := asInteger(line); hasLine && ok {
		originFile["line"] = lineNumber
	}

	origin := make(map[string]interface{}, 2)
	if len(originFile) > 0 {
		origin["file"] = originFile
	}
	if functionName, ok := function.(string); hasFunction && ok {
		if className, ok := class.(string); hasClass && ok {
			origin["function"] = className + "::" + functionName
		} else {
			origin["function"] = functionName
		}
	}
	if len(origin) == 0 {
		return nil
	}
	return origin
}

// asInteger accepts any integer kind a normalized record may carry, including whole floats
// from JSON decoding
func asInteger(value interface{}) (int64, bool) {
	switch number := value.(type) {
	case int:
		return int64(number), true
	case int8:
		return int64(number), true
	case int16:
		return int64(number), true
	case int32:
		return int64(number), true
	case int64:
		return number, true
	case uint:
		return int64(number), true
	case uint8:
		return int64(number), true
	case uint16:
		return int64(number), true
	case uint32:
		return int64(number), true
	case uint64:
		return int64(number), true
	case float32:
		if number == float32(int64(number)) {
			return int64(number), true
		}
	case float64:
		if number == float64(int64(number)) {
			return int64(number), true
		}
	}
	return 0, false
}
