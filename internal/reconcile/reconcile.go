// Package reconcile merges a provider's declared OAuth input fields, a stored
// hydrated connector configuration, and masked caller input into the single
// configuration document handed to an OAuth flow.
//
// The pipeline has three pure steps: BuildFieldPaths translates the declared
// field list into path expressions, ResolveStoredValues looks those paths up
// in the stored document, and MergeWithStored substitutes stored values for
// masked fields in the caller input. Missing stored fields degrade the result
// (warn and drop), they never fail it.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/pipedock/oauthbridge/internal/jsonpath"
)

// MaskSentinel is the fixed string the platform substitutes for secret values
// before sending a configuration to the browser. A caller echoing it back
// means "keep the stored value".
const MaskSentinel = "**********"

// Document is an untyped JSON-shaped configuration tree.
type Document = map[string]any

// FieldPathMap maps a logical field name to the path expression locating that
// field inside a connector configuration. Built once per provider spec and
// never mutated afterwards.
type FieldPathMap map[string]string

// BuildFieldPaths translates declared field-name to path-segment-list entries
// into rooted path expressions, one output entry per input entry.
func BuildFieldPaths(fields map[string][]string) FieldPathMap {
	paths := make(FieldPathMap, len(fields))
	for name, segments := range fields {
		paths[name] = jsonpath.FromSegments(segments)
	}
	return paths
}

// ResolveStoredValues looks up every field path in the stored document and
// collects the hits into a flat document keyed by field name. Fields whose
// path resolves to zero or multiple nodes are dropped with a warning; the
// call itself never fails.
func ResolveStoredValues(stored Document, paths FieldPathMap, logger *zap.Logger) Document {
	logger = orNop(logger)

	resolved := make(Document, len(paths))
	for name, path := range paths {
		value, found := jsonpath.GetSingleValue(stored, path)
		if !found {
			logger.Warn("field missing from stored configuration",
				zap.String("field", name))
			continue
		}
		resolved[name] = value
	}
	return resolved
}

// MergeWithStored produces the configuration sent onward to an OAuth flow.
// Every top-level caller field whose value equals the mask sentinel is
// replaced by the stored value of the same name; if the stored document has
// no such field, the field is dropped with a warning. All other caller fields
// pass through unchanged, and fields present only in stored are never added,
// so the output key set is always a subset of the input key set.
//
// Only top-level fields are scanned for the sentinel: masked secrets nested
// inside sub-objects are intentionally left as-is, matching long-standing
// platform behavior that downstream consumers rely on.
func MergeWithStored(input, stored Document, logger *zap.Logger) Document {
	logger = orNop(logger)

	merged := make(Document, len(input))
	for name, value := range input {
		if s, ok := value.(string); ok && s == MaskSentinel {
			storedValue, ok := stored[name]
			if !ok {
				logger.Warn("masked field has no stored value, dropping",
					zap.String("field", name))
				continue
			}
			merged[name] = storedValue
			continue
		}
		merged[name] = value
	}
	return merged
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
