package base

// DocumentSerializer serializes finished ECS documents into a stream format, e.g. JSON lines or msgpack
type DocumentSerializer interface {
	// SerializeDocument serializes the given document into bytes ready to be written out.
	// The returned slice is transient and only usable before the next call.
	SerializeDocument(doc *Document) ([]byte, error)
}
