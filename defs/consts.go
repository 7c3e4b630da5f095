package defs

// Common labels for logging
const (
	LabelComponent = "component"
	LabelName      = "name"
	LabelPart      = "part"
)

// ECS output constants
const (
	// EcsVersion is the version of the Elastic Common Schema declared in "ecs.version" of output documents
	EcsVersion = "1.6.0"

	// EcsTimestampFormat is the layout of the "@timestamp" field
	EcsTimestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Reserved context keys promoted into the "log.origin" object when origin extraction is enabled
const (
	OriginKeyFile     = "file"
	OriginKeyLine     = "line"
	OriginKeyClass    = "class"
	OriginKeyFunction = "function"
)
