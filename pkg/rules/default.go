package rules

import (
	"github.com/getmockd/mockrules/pkg/rules/part"
)

// MatcherKey returns the key of a built-in matcher class. It panics when
// the class is not registered.
func MatcherKey(cls *part.Class) part.Key { return Default.MatcherKey(cls) }

// HandlerKey returns the key of a built-in handler class. It panics when
// the class is not registered.
func HandlerKey(cls *part.Class) part.Key { return Default.HandlerKey(cls) }

// InitialMatchers returns the built-in initial matchers.
func InitialMatchers() []*part.Class { return Default.InitialMatchers() }

// IsInitialMatcher reports whether cls is a built-in initial matcher.
func IsInitialMatcher(cls *part.Class) bool { return Default.IsInitialMatcher(cls) }

// AvailableAdditionalMatchers filters the built-in matchers of protocol p
// for a server at serverVersion. See Catalog.AvailableAdditionalMatchers.
func AvailableAdditionalMatchers(p part.Protocol, serverVersion string) []*part.Class {
	return Default.AvailableAdditionalMatchers(p, serverVersion)
}

// AvailableHandlers filters the built-in handlers of protocol p for a
// server at serverVersion. See Catalog.AvailableHandlers.
func AvailableHandlers(p part.Protocol, serverVersion string) []*part.Class {
	return Default.AvailableHandlers(p, serverVersion)
}

// IsPaidHandler reports whether h is an instance of a built-in paid handler.
func IsPaidHandler(h part.Handler) bool { return Default.IsPaidHandler(h) }

// IsPaidHandlerClass reports whether cls is a built-in paid handler class.
func IsPaidHandlerClass(cls *part.Class) bool { return Default.IsPaidHandlerClass(cls) }

// Validate checks r against the built-in catalog. See Catalog.Validate.
func Validate(r Rule, serverVersion string) error { return Default.Validate(r, serverVersion) }

// DecodeRule decodes a JSON rule using the built-in catalog.
func DecodeRule(data []byte) (Rule, error) { return Default.DecodeRule(data) }

// DecodeRuleSet decodes a rule set using the built-in catalog.
func DecodeRuleSet(data []byte, format Format) (*RuleSet, error) {
	return Default.DecodeRuleSet(data, format)
}
