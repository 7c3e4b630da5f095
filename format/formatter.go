package format

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/relex/ecs-formatter/base"
	"github.com/relex/ecs-formatter/defs"
	"github.com/relex/ecs-formatter/util"
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Config for Formatter
type Config struct {
	Tags                    []string          `yaml:"tags"`                    // optional enrichment emitted as "tags" in every document
	UseLogOriginFromContext bool              `yaml:"useLogOriginFromContext"` // derive "log.origin" from reserved context keys, default true
	ExcludeLabelKeys        []LabelPattern    `yaml:"excludeLabelKeys"`        // glob patterns of sanitized label keys to drop
	MaxValueLength          datasize.ByteSize `yaml:"maxValueLength"`          // truncate message and label string values, 0 = unlimited
}

// NewConfig creates a Config with defaults, to be overridden by YAML unmarshalling
func NewConfig() Config {
	return Config{
		Tags:                    nil,
		UseLogOriginFromContext: true,
		ExcludeLabelKeys:        nil,
		MaxValueLength:          0,
	}
}

// VerifyConfig verifies Formatter config
func (cfg *Config) VerifyConfig() error {
	for i, tag := range cfg.Tags {
		if len(tag) == 0 {
			return fmt.Errorf(".tags[%d] is empty", i)
		}
	}
	return nil
}

// Formatter reshapes normalized log records into ECS documents
//
// The schema index is shared and read-only; every call works on its own copies, so one Formatter
// may be used from concurrent goroutines.
type Formatter struct {
	schema          base.SchemaIndex
	tags            []string
	useLogOrigin    bool
	excludePatterns []LabelPattern
	maxValueLength  int
	labelKeys       *labelKeyCache
	metrics         formatterMetrics
}

type formatterMetrics struct {
	recordsTotal          promext.RWCounter
	structuredFieldsTotal promext.RWCounter
	labelFieldsTotal      promext.RWCounter
	excludedLabelsTotal   promext.RWCounter
	originsTotal          promext.RWCounter
}

// NewFormatter creates a Formatter from verified config and a built schema index
func (cfg *Config) NewFormatter(schema base.SchemaIndex, parentLogger logger.Logger, metricFactory *base.MetricFactory) *Formatter {
	flogger := parentLogger.WithField(defs.LabelComponent, "EcsFormatter")
	flogger.Infof("creating formatter with %d schema namespaces", schema.Namespaces())
	return &Formatter{
		schema:          schema,
		tags:            append([]string(nil), cfg.Tags...),
		useLogOrigin:    cfg.UseLogOriginFromContext,
		excludePatterns: cfg.ExcludeLabelKeys,
		maxValueLength:  int(cfg.MaxValueLength.Bytes()),
		labelKeys:       newLabelKeyCache(),
		metrics: formatterMetrics{
			recordsTotal:          metricFactory.AddOrGetCounter("records_formatted_total", "Numbers of formatted log records", nil, nil),
			structuredFieldsTotal: metricFactory.AddOrGetCounter("fields_total", "Numbers of output fields", []string{"kind"}, []string{"structured"}),
			labelFieldsTotal:      metricFactory.AddOrGetCounter("fields_total", "Numbers of output fields", []string{"kind"}, []string{"label"}),
			excludedLabelsTotal:   metricFactory.AddOrGetCounter("excluded_labels_total", "Numbers of labels dropped by exclude patterns", nil, nil),
			originsTotal:          metricFactory.AddOrGetCounter("origins_total", "Numbers of derived log.origin objects", nil, nil),
		},
	}
}

// FormatRecord builds the ECS document for one record. The record is not modified.
func (f *Formatter) FormatRecord(record *base.LogRecord) *base.Document {
	doc := base.NewDocument()
	doc.Set("@timestamp", record.Timestamp.Format(defs.EcsTimestampFormat))
	doc.Set("log.level", record.LevelName)
	doc.Set("log.logger", record.Channel)
	doc.Set("ecs.version", defs.EcsVersion)
	if len(record.Message) > 0 {
		doc.Set("message", f.truncateString(record.Message))
	}

	labels := make(map[string]interface{}, len(record.Context))
	context := deepCopyFieldMap(record.Context)

	// explicit "labels" entry carries caller-chosen keys which must be sanitized
	if rawLabels, isMap := context["labels"].(map[string]interface{}); isMap {
		for _, key := range sortedFieldKeys(rawLabels) {
			f.addLabel(labels, f.labelKeys.sanitize(key), rawLabels[key])
		}
		delete(context, "labels")
	}

	for _, namespace := range sortedFieldKeys(context) {
		subtree, isMap := context[namespace].(map[string]interface{})
		if !isMap {
			continue
		}
		knownFields := f.schema.FieldsOf(namespace)
		if knownFields == nil {
			continue
		}
		structured, remainder := classifyNamespace(knownFields, subtree)
		if structured != nil {
			doc.Set(namespace, structured)
			f.metrics.structuredFieldsTotal.Add(uint64(len(FlattenFields(structured))))
		}
		if remainder != nil {
			f.addLabel(labels, namespace, remainder)
		}
		delete(context, namespace)
	}

	// ambient extra first, then whatever classification left of the context
	f.mergeLoose(doc, labels, deepCopyFieldMap(record.Extra))
	f.mergeLoose(doc, labels, context)

	if len(labels) > 0 {
		doc.Set("labels", labels)
	}
	if len(f.tags) > 0 {
		doc.Set("tags", f.tags)
	}
	f.metrics.recordsTotal.Add(1)
	return doc
}

// mergeLoose distributes unclassified fields: a possible log.origin derivation first, then
// map values become label groups and scalars pass through to the top level. Keys already in
// the document are never overwritten.
func (f *Formatter) mergeLoose(doc *base.Document, labels map[string]interface{}, fields map[string]interface{}) {
	if len(fields) == 0 {
		return
	}
	if f.useLogOrigin {
		if origin := ExtractLogOrigin(fields); origin != nil && !doc.Has("log.origin") {
			doc.Set("log.origin", origin)
			f.metrics.originsTotal.Add(1)
		}
	}
	for _, key := range sortedFieldKeys(fields) {
		value := fields[key]
		if group, isMap := value.(map[string]interface{}); isMap {
			if len(group) > 0 {
				f.addLabel(labels, key, group)
			}
			continue
		}
		if doc.Has(key) {
			continue
		}
		doc.Set(key, f.truncateValue(value))
	}
}

// addLabel emits one label unless the key is excluded. The first value under a key wins; a
// later map contribution under the same key only fills entries the earlier group does not have.
func (f *Formatter) addLabel(labels map[string]interface{}, key string, value interface{}) {
	for i := range f.excludePatterns {
		if f.excludePatterns[i].Match(key) {
			f.metrics.excludedLabelsTotal.Add(1)
			return
		}
	}
	if existing, exists := labels[key]; exists {
		existingMap, existingIsMap := existing.(map[string]interface{})
		newMap, newIsMap := value.(map[string]interface{})
		if existingIsMap && newIsMap {
			fillMissingFields(existingMap, newMap)
		}
		return
	}
	labels[key] = f.truncateValue(value)
	f.metrics.labelFieldsTotal.Add(1)
}

func (f *Formatter) truncateValue(value interface{}) interface{} {
	if str, isString := value.(string); isString {
		return f.truncateString(str)
	}
	return value
}

func (f *Formatter) truncateString(value string) string {
	if f.maxValueLength <= 0 {
		return value
	}
	return util.TruncateUTF8(value, f.maxValueLength)
}

func sortedFieldKeys(fields map[string]interface{}) []string {
	keys := maps.Keys(fields)
	slices.Sort(keys)
	return keys
}
