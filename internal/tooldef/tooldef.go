// Package tooldef parses tool definition documents and provides alias-tolerant
// field lookup over their generic tree representation. Source documents are
// semi-structured: the same concept may appear under several field names
// (timeout, timeoutMs, timeout_ms), so checks probe ordered candidate paths
// instead of fixed struct fields.
package tooldef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Definition is an immutable parsed tool definition. The tree is read-only for
// the duration of a scan.
type Definition struct {
	name string
	root map[string]any
}

// Parse decodes a single JSON tool definition document.
func Parse(data []byte) (*Definition, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid tool definition: %w", err)
	}
	return FromMap(root)
}

// FromMap wraps an already-decoded document. The required "name" field must
// be a non-empty string.
func FromMap(root map[string]any) (*Definition, error) {
	if root == nil {
		return nil, fmt.Errorf("tool definition is not an object")
	}
	name, _ := root["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("tool definition missing required field %q", "name")
	}
	return &Definition{name: name, root: root}, nil
}

// Name returns the tool's declared name.
func (d *Definition) Name() string { return d.name }

// Description returns the tool's description, or "" when absent.
func (d *Definition) Description() string {
	desc, _ := d.root["description"].(string)
	return desc
}

// Lookup resolves a dotted path ("config.timeout") in the definition tree.
func (d *Definition) Lookup(path string) (any, bool) {
	var node any = d.root
	for _, part := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// First returns the value at the first present path from an ordered candidate
// list, along with the path that matched.
func (d *Definition) First(paths ...string) (string, any, bool) {
	for _, p := range paths {
		if v, ok := d.Lookup(p); ok {
			return p, v, true
		}
	}
	return "", nil, false
}

// Has reports whether any of the candidate paths is declared.
func (d *Definition) Has(paths ...string) bool {
	_, _, ok := d.First(paths...)
	return ok
}

// Number returns the first candidate path holding a numeric value.
func (d *Definition) Number(paths ...string) (string, float64, bool) {
	for _, p := range paths {
		v, ok := d.Lookup(p)
		if !ok {
			continue
		}
		if n, ok := asNumber(v); ok {
			return p, n, true
		}
	}
	return "", 0, false
}

// Object returns the first candidate path holding a nested object. Malformed
// sub-documents (a scalar where an object is expected) are treated as absent.
func (d *Definition) Object(paths ...string) (string, map[string]any, bool) {
	for _, p := range paths {
		v, ok := d.Lookup(p)
		if !ok {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			return p, m, true
		}
	}
	return "", nil, false
}

// IgnoreRules returns inline suppression rule IDs declared by the definition
// itself under "x-readiness-ignore".
func (d *Definition) IgnoreRules() []string {
	raw, ok := d.root["x-readiness-ignore"].([]any)
	if !ok {
		return nil
	}
	var ids []string
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			ids = append(ids, strings.TrimSpace(s))
		}
	}
	return ids
}

// Canonical returns a deterministic serialization of the definition used by
// the pattern-rule provider. encoding/json sorts map keys, so the bytes are
// stable for identical trees.
func (d *Definition) Canonical() []byte {
	data, err := json.MarshalIndent(d.root, "", "  ")
	if err != nil {
		return nil
	}
	return data
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Split expands an input document into individual tool definition documents.
// A top-level array or an object with a "tools" array is a batch; anything
// else is a single definition. Batch entries are returned raw so a malformed
// entry fails on its own during per-tool parsing.
func Split(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []json.RawMessage
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("invalid document: %w", err)
		}
		return docs, nil
	}

	var probe struct {
		Tools []json.RawMessage `json:"tools"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if probe.Tools != nil {
		return probe.Tools, nil
	}
	return []json.RawMessage{data}, nil
}
