// Package glob compiles shell-style wildcard patterns into predicates for
// matching display names.
package glob

import (
	"fmt"
	"regexp"
	"strings"
)

// Compile turns a pattern containing * (any run) and ? (any single rune)
// into a case-insensitive whole-string predicate. A pattern without
// wildcards matches by exact, case-insensitive equality.
func Compile(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return re.MatchString, nil
}

// HasWildcard reports whether the pattern contains glob metacharacters.
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}
