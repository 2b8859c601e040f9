package matching

import (
	"net/url"
	"slices"
	"strings"
)

// MatchQueryParams checks that every expected parameter is present with
// one of its expected values. Extra request parameters are ignored.
func MatchQueryParams(expected map[string][]string, params url.Values) bool {
	for name, want := range expected {
		got, ok := params[name]
		if !ok {
			return false
		}
		for _, w := range want {
			if !slices.Contains(got, w) {
				return false
			}
		}
	}
	return true
}

// HasQueryParam checks if a query parameter exists (regardless of value).
func HasQueryParam(name string, params url.Values) bool {
	_, exists := params[name]
	return exists
}

// MatchExactQuery compares the raw query string. The expected value is
// either empty, meaning the request has no query, or starts with "?".
func MatchExactQuery(expected, rawQuery string) bool {
	if expected == "" || expected == "?" {
		return rawQuery == ""
	}
	return strings.TrimPrefix(expected, "?") == rawQuery
}
