package matching

import (
	"strings"
)

// MatchBodyContains checks if the body contains the substring.
func MatchBodyContains(body []byte, contains string) bool {
	if contains == "" {
		return true
	}
	return strings.Contains(string(body), contains)
}

// MatchBodyEquals checks if the body exactly equals the expected value.
// An empty expectation matches only an empty body.
func MatchBodyEquals(body []byte, expected string) bool {
	return string(body) == expected
}

// MatchBodyPattern checks if the request body matches a regex pattern.
// Uses Go's regexp package with RE2 syntax.
func MatchBodyPattern(pattern string, body []byte) bool {
	if pattern == "" {
		return false
	}
	re, err := CompileRegex(pattern, "")
	if err != nil {
		return false
	}
	return re.Match(body)
}
