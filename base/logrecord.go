package base

import (
	"time"
)

// LogRecord is one normalized log event before it's reshaped into an ECS document
//
// Context and Extra must already be normalized into plain maps, slices and scalars (see the input package);
// both are read-only inputs and never modified by formatting.
type LogRecord struct {
	Timestamp time.Time              // event time, zero if the source carried none
	LevelName string                 // severity name as given by the source, e.g. "INFO"
	Channel   string                 // logger or channel name
	Message   string                 // main message, may be empty
	Context   map[string]interface{} // caller-supplied structured data, may contain namespaced sub-maps
	Extra     map[string]interface{} // ambient data injected by the logging framework, same shape rules as Context
	RawLength int                    // input length or approximated length of entire record, for statistics
}
