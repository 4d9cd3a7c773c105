// Package pattern compiles wildcard configuration-name patterns into
// anchored, case-sensitive matchers.
//
// A pattern is matched against the whole name. '*' matches any sequence of
// characters, including the empty sequence and including dots; every other
// character, regex metacharacters included, matches only itself.
package pattern

import (
	"regexp"
	"strings"
)

// Pattern is a compiled wildcard pattern.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// Compile compiles a wildcard pattern. It cannot fail: the generated
// expression only ever contains quoted literals and ".*".
func Compile(raw string) Pattern {
	parts := strings.Split(raw, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return Pattern{
		raw: raw,
		re:  regexp.MustCompile(`(?s)\A` + strings.Join(parts, ".*") + `\z`),
	}
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether key fully matches the pattern.
func (p Pattern) Match(key string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(key)
}

// Matches compiles pattern and reports whether key fully matches it.
func Matches(pattern, key string) bool {
	return Compile(pattern).Match(key)
}
