// Package payload extracts typed hints from the loosely shaped JSON objects
// the assistant CLI hands to its hooks. Nothing in here fails on missing or
// oddly typed fields; absent data always resolves to a zero value.
package payload

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/grovetools/cmux-notify/errors"
)

// Payload is a decoded hook event. Values are the types produced by
// encoding/json: map[string]any, []any, string, float64, bool and nil.
type Payload map[string]any

// Parse decodes a hook payload. Empty input yields an empty payload; a
// document whose top level is not an object is treated the same way. Only
// malformed JSON returns an error, alongside an empty payload.
func Parse(data []byte) (Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Payload{}, nil
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Payload{}, errors.InvalidPayload(err)
	}

	if obj, ok := decoded.(map[string]any); ok {
		return Payload(obj), nil
	}
	return Payload{}, nil
}

// FindFirstString walks the value depth first and returns the first
// non-blank string stored under any of keys, trimmed.
//
// At each mapping every key is tried, in the order given, before any child
// is visited. Children are visited in lexical key order and list elements in
// index order; scalars inside lists are skipped.
func FindFirstString(root any, keys ...string) string {
	stack := []any{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, ok := asObject(current)
		if !ok {
			continue
		}

		for _, key := range keys {
			if s, ok := obj[key].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}

		stack = append(stack, childrenReversed(obj)...)
	}
	return ""
}

// childrenReversed returns the nested objects of obj in reverse visiting
// order so that popping from a stack yields lexical order.
func childrenReversed(obj map[string]any) []any {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var children []any
	for _, name := range names {
		switch v := obj[name].(type) {
		case map[string]any, Payload:
			children = append(children, v)
		case []any:
			for i := len(v) - 1; i >= 0; i-- {
				if _, ok := asObject(v[i]); ok {
					children = append(children, v[i])
				}
			}
		}
	}
	return children
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case Payload:
		return obj, true
	default:
		return nil, false
	}
}
