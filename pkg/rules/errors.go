package rules

import (
	"fmt"
	"strings"
)

// Error is a simple error type for rule errors.
// It allows defining sentinel errors as constants.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// Sentinel errors for rule decoding and validation.
const (
	// ErrUnknownPart is returned when a part key is not registered.
	ErrUnknownPart = Error("unknown rule part")

	// ErrMissingPartType is returned when a serialized part has no type.
	ErrMissingPartType = Error("rule part has no type")

	// ErrPartTypeMismatch is returned when a decoded part does not report
	// the key it was decoded under.
	ErrPartTypeMismatch = Error("rule part type does not match its configuration")

	// ErrProtocolMismatch is returned when a part is used in a rule of a
	// different protocol.
	ErrProtocolMismatch = Error("rule part does not support this rule type")

	// ErrUnsupportedRuleType is returned for rule types other than http
	// and websocket.
	ErrUnsupportedRuleType = Error("unsupported rule type")

	// ErrMissingHandler is returned when a rule has no handler.
	ErrMissingHandler = Error("rule has no handler")

	// ErrNoMatchers is returned when a rule has no matchers.
	ErrNoMatchers = Error("rule has no matchers")

	// ErrInvalidStartingMatcher is returned when a rule's first matcher
	// cannot start a rule.
	ErrInvalidStartingMatcher = Error("first matcher cannot start a rule")

	// ErrServerTooOld is returned when a part needs a newer server.
	ErrServerTooOld = Error("rule part is not supported by the server version")

	// ErrMissingID is returned when a rule has no ID.
	ErrMissingID = Error("rule ID is required")

	// ErrUnsupportedFormat is returned for rule-set formats other than
	// JSON and YAML.
	ErrUnsupportedFormat = Error("unsupported rule set format")
)

// ValidationError describes a single problem with a rule.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel error classifying the problem, if any.
func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationErrors collects every problem found in a rule.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, v := range e {
		errs[i] = v
	}
	return errs
}
