package matching

import "net/http"

// MatchCookies checks that every expected cookie is sent with the
// expected value.
func MatchCookies(expected map[string]string, cookies []*http.Cookie) bool {
	for name, want := range expected {
		found := false
		for _, c := range cookies {
			if c.Name == name && c.Value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
