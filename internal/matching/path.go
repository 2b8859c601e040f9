package matching

import (
	"strings"
)

// MatchPath checks if the request path matches the pattern.
// Supports:
//   - Exact match: "/api/users" matches "/api/users"
//   - Wildcard: "/api/users/*" matches "/api/users/123"
//   - Named params: "/api/users/{id}" matches "/api/users/123"
func MatchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	if strings.Contains(pattern, "{") && strings.Contains(pattern, "}") {
		if matchNamedParams(pattern, path) {
			return true
		}
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.Contains(pattern, "*") {
		return matchWildcard(pattern, path)
	}

	return false
}

// MatchSimplePath compares a path-or-URL pattern against a request.
// Patterns containing "://" are compared against the full URL without its
// query; anything else is compared against the path only. A trailing
// slash on either side is ignored.
func MatchSimplePath(pattern, path, urlWithoutQuery string) bool {
	if pattern == "" {
		return false
	}
	target := path
	if strings.Contains(pattern, "://") {
		target = urlWithoutQuery
		pattern = normalizeURLPattern(pattern)
	}
	return MatchPath(trimSlash(pattern), trimSlash(target))
}

func normalizeURLPattern(pattern string) string {
	scheme, rest, _ := strings.Cut(pattern, "://")
	host, path, found := strings.Cut(rest, "/")
	if !found {
		path = ""
	}
	return strings.ToLower(scheme) + "://" + strings.ToLower(host) + "/" + path
}

func trimSlash(s string) string {
	if len(s) > 1 {
		return strings.TrimSuffix(s, "/")
	}
	return s
}

// matchNamedParams checks if path matches a pattern with named parameters.
// Example: "/users/{id}" matches "/users/123"
func matchNamedParams(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, patternPart := range patternParts {
		if strings.HasPrefix(patternPart, "{") && strings.HasSuffix(patternPart, "}") {
			continue
		}
		if patternPart != pathParts[i] {
			return false
		}
	}

	return true
}

// matchWildcard performs simple wildcard pattern matching.
// * matches any sequence of characters.
func matchWildcard(pattern, path string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == path
	}

	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}

		if i == 0 {
			if !strings.HasPrefix(path, part) {
				return false
			}
			pos = len(part)
			continue
		}

		idx := strings.Index(path[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}

	// Without a trailing *, the last part must end the path.
	if last := parts[len(parts)-1]; last != "" && !strings.HasSuffix(path, last) {
		return false
	}

	return true
}
