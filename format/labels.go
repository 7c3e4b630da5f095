package format

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/puzpuzpuz/xsync"
	"github.com/relex/ecs-formatter/util"
	"gopkg.in/yaml.v3"
)

// labelKeyReplacer rewrites characters that would break indexing or querying of label keys
var labelKeyReplacer = strings.NewReplacer(
	".", "_",
	" ", "_",
	"*", "_",
	"\\", "_",
)

// SanitizeLabelKey normalizes a caller-chosen label key into a safe output field name:
// surrounding whitespace is trimmed and every '.', space, '*' and '\' is replaced with '_'
func SanitizeLabelKey(key string) string {
	return labelKeyReplacer.Replace(strings.TrimSpace(key))
}

// labelKeyCache caches sanitized label keys, as the same keys repeat across records.
// Safe for concurrent FormatRecord calls on a shared Formatter.
type labelKeyCache struct {
	keys *xsync.MapOf[string]
}

func newLabelKeyCache() *labelKeyCache {
	return &labelKeyCache{
		keys: xsync.NewMapOf[string](),
	}
}

func (cache *labelKeyCache) sanitize(key string) string {
	if sanitized, found := cache.keys.Load(key); found {
		return sanitized
	}
	sanitized := SanitizeLabelKey(key)
	cache.keys.Store(key, sanitized)
	return sanitized
}

// LabelPattern is a compiled glob pattern matched against sanitized label keys
type LabelPattern struct {
	matcher glob.Glob
	source  string
}

// MustNewLabelPattern compiles a glob pattern or panics, for tests and defaults
func MustNewLabelPattern(pattern string) LabelPattern {
	return LabelPattern{
		matcher: glob.MustCompile(pattern),
		source:  pattern,
	}
}

// Match tests the given sanitized label key against the pattern
func (p *LabelPattern) Match(key string) bool {
	return p.matcher.Match(key)
}

func (p LabelPattern) String() string {
	return p.source
}

// MarshalYAML provides custom marshalling to export readable config. The result is not reversible.
func (p LabelPattern) MarshalYAML() (interface{}, error) {
	return p.source, nil
}

// UnmarshalYAML compiles the pattern in place
func (p *LabelPattern) UnmarshalYAML(node *yaml.Node) error {
	matcher, err := glob.Compile(node.Value)
	if err != nil {
		return util.NewYamlError(node, fmt.Sprintf("invalid label pattern '%s': %s", node.Value, err.Error()))
	}
	p.matcher = matcher
	p.source = node.Value
	return nil
}
