package storage

import "strings"

// Payload is a configuration payload: field name to value. Nested values
// are map[string]any.
type Payload map[string]any

// Clone returns a deep copy of p. Nested maps and slices are copied; other
// values are shared.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Payload:
		return val.Clone()
	case map[string]any:
		return map[string]any(Payload(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Overlay returns a copy of p with every top-level field of over replacing
// the field of the same name. Fields absent from over are kept.
func (p Payload) Overlay(over Payload) Payload {
	out := p.Clone()
	if out == nil {
		out = Payload{}
	}
	for k, v := range over {
		out[k] = cloneValue(v)
	}
	return out
}

// Get returns the value at a dotted path, e.g. "page.front". An empty path
// returns the whole payload.
func (p Payload) Get(path string) (any, bool) {
	if path == "" {
		return p, p != nil
	}
	var cur any = map[string]any(p)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at a dotted path, creating intermediate maps and
// replacing non-map intermediates.
func (p Payload) Set(path string, value any) {
	parts := strings.Split(path, ".")
	m := map[string]any(p)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(m[part])
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Clear removes the value at a dotted path. Missing paths are ignored.
func (p Payload) Clear(path string) {
	parts := strings.Split(path, ".")
	m := map[string]any(p)
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(m[part])
		if !ok {
			return
		}
		m = next
	}
	delete(m, parts[len(parts)-1])
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case Payload:
		return m, m != nil
	default:
		return nil, false
	}
}
