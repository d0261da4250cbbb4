// Package jsonpath implements a small dot-path query language over untyped
// JSON trees (the map[string]any / []any shapes produced by encoding/json).
//
// Paths are rooted at "$." and join object keys with ".". A "*" segment fans
// out over every key of an object (or every element of an array), and a
// "name[n]" segment indexes into an array. The query API is deliberately
// single-value: callers that need "the one node at this path" use
// GetSingleValue, which refuses ambiguous results.
package jsonpath

import (
	"strconv"
	"strings"
)

// RootPrefix marks the document root in a path expression.
const RootPrefix = "$."

// FromSegments builds a path expression from an ordered list of object keys.
// An empty list yields the bare root marker. Segment content is not validated.
func FromSegments(segments []string) string {
	return RootPrefix + strings.Join(segments, ".")
}

// GetSingleValue resolves path against doc and returns the matched node.
// The second return value is false when the path matches zero nodes or more
// than one node; ambiguous paths are treated the same as absent ones.
func GetSingleValue(doc any, path string) (any, bool) {
	matches := Query(doc, path)
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

// Query resolves path against doc and returns every matched node.
// A malformed path matches nothing.
func Query(doc any, path string) []any {
	rest, ok := stripRoot(path)
	if !ok {
		return nil
	}
	nodes := []any{doc}
	if rest == "" {
		return nodes
	}
	for _, raw := range strings.Split(rest, ".") {
		seg, ok := parseSegment(raw)
		if !ok {
			return nil
		}
		nodes = seg.apply(nodes)
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

func stripRoot(path string) (string, bool) {
	if path == "$" {
		return "", true
	}
	if !strings.HasPrefix(path, RootPrefix) {
		return "", false
	}
	return path[len(RootPrefix):], true
}

// segment is one step of a path: a key (or "*" fan-out) followed by zero or
// more array index selectors.
type segment struct {
	key      string
	wildcard bool
	indexes  []int
}

func parseSegment(raw string) (segment, bool) {
	var seg segment

	name := raw
	if i := strings.IndexByte(raw, '['); i >= 0 {
		name = raw[:i]
		for _, part := range strings.Split(raw[i:], "[") {
			if part == "" {
				continue
			}
			if !strings.HasSuffix(part, "]") {
				return seg, false
			}
			idx, err := strconv.Atoi(strings.TrimSuffix(part, "]"))
			if err != nil || idx < 0 {
				return seg, false
			}
			seg.indexes = append(seg.indexes, idx)
		}
	}
	if name == "" && len(seg.indexes) == 0 {
		return seg, false
	}
	seg.key = name
	seg.wildcard = name == "*"
	return seg, true
}

func (s segment) apply(nodes []any) []any {
	var out []any
	for _, node := range nodes {
		selected := s.selectKey(node)
		for _, v := range selected {
			if v, ok := applyIndexes(v, s.indexes); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func (s segment) selectKey(node any) []any {
	if s.key == "" {
		// Bare "[n]" segment indexes the current node directly.
		return []any{node}
	}
	switch n := node.(type) {
	case map[string]any:
		if s.wildcard {
			out := make([]any, 0, len(n))
			for _, v := range n {
				out = append(out, v)
			}
			return out
		}
		if v, ok := n[s.key]; ok {
			return []any{v}
		}
	case []any:
		if s.wildcard {
			return n
		}
	}
	return nil
}

func applyIndexes(node any, indexes []int) (any, bool) {
	for _, idx := range indexes {
		arr, ok := node.([]any)
		if !ok || idx >= len(arr) {
			return nil, false
		}
		node = arr[idx]
	}
	return node, true
}
