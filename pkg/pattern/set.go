package pattern

// Set is an ordered, de-duplicated collection of compiled patterns.
// The zero value is an empty set. A Set is immutable after construction.
type Set struct {
	patterns []Pattern
}

// NewSet compiles the given patterns, dropping empty strings and duplicates
// while preserving first-seen order.
func NewSet(patterns ...string) *Set {
	s := &Set{}
	seen := make(map[string]struct{}, len(patterns))
	for _, raw := range patterns {
		if raw == "" {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		s.patterns = append(s.patterns, Compile(raw))
	}
	return s
}

// AnyMatches reports whether key fully matches at least one pattern.
func (s *Set) AnyMatches(key string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.patterns {
		if p.Match(key) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Strings returns the raw patterns in order.
func (s *Set) Strings() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.raw
	}
	return out
}

// AnyMatches reports whether key fully matches any of patterns.
func AnyMatches(patterns []string, key string) bool {
	return NewSet(patterns...).AnyMatches(key)
}
