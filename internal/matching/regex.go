package matching

import (
	"fmt"
	"regexp"
	"sync"
)

var regexCache sync.Map // map[string]*regexp.Regexp

// CompileRegex compiles pattern with optional inline flags ("i", "s",
// "m", "U"), caching the result.
func CompileRegex(pattern, flags string) (*regexp.Regexp, error) {
	src := pattern
	if flags != "" {
		src = "(?" + flags + ")" + pattern
	}
	if cached, ok := regexCache.Load(src); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	actual, _ := regexCache.LoadOrStore(src, re)
	return actual.(*regexp.Regexp), nil
}

// MatchRegex reports whether s contains a match for pattern. An invalid
// pattern never matches.
func MatchRegex(pattern, flags, s string) bool {
	if pattern == "" {
		return false
	}
	re, err := CompileRegex(pattern, flags)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// RegexCaptures returns the named capture groups of the first match of
// pattern in s, or nil if there is no match.
func RegexCaptures(pattern, flags, s string) map[string]string {
	re, err := CompileRegex(pattern, flags)
	if err != nil {
		return nil
	}
	match := re.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	captures := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" && i < len(match) {
			captures[name] = match[i]
		}
	}
	return captures
}

// ValidateRegex checks if a regex pattern with flags is valid.
func ValidateRegex(pattern, flags string) error {
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
		default:
			return fmt.Errorf("unsupported regular expression flag %q", f)
		}
	}
	_, err := CompileRegex(pattern, flags)
	return err
}
