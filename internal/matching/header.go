package matching

import "net/http"

// MatchHeader checks if a specific header matches.
// Header names are case-insensitive (RFC 9110). Any of the values of
// a repeated header may match.
func MatchHeader(name, expectedValue string, headers http.Header) bool {
	for _, v := range headers.Values(name) {
		if v == expectedValue {
			return true
		}
	}
	return false
}

// MatchHeaders checks if all specified headers match.
// Returns true only if ALL headers match.
func MatchHeaders(expected map[string]string, headers http.Header) bool {
	for name, value := range expected {
		if !MatchHeader(name, value, headers) {
			return false
		}
	}
	return true
}
