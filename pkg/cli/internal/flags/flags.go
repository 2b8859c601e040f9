// Package flags provides reusable flag types for CLI commands.
package flags

import "strings"

// StringSlice is a repeatable string flag for -f and -H style options.
// Each occurrence appends one value as given; commas are kept, so header
// values and brace globs survive intact.
type StringSlice []string

func (s *StringSlice) String() string {
	return "[" + strings.Join(*s, ",") + "]"
}

func (s *StringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func (s *StringSlice) Type() string {
	return "strings"
}
