package defs

var (
	// NormalizeMaxDepth defines how deep input values are normalized into plain maps before classification
	//
	// Values nested deeper degrade to their string representation instead of descending further
	NormalizeMaxDepth = 9

	// InputLineBufferSize defines the maximum size in bytes of one JSON log record line
	//
	// Longer lines are discarded and reported as invalid records; reading continues after them.
	InputLineBufferSize = 1 * 1024 * 1024
)
