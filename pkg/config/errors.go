package config

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for rule file loading/saving.
var (
	ErrFileNotFound     = errors.New("rule file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyFile        = errors.New("rule file is empty")
	ErrIsDirectory      = errors.New("path is a directory, not a file")
	ErrNoFiles          = errors.New("no rule files matched")
	ErrDuplicateRuleID  = errors.New("duplicate rule ID")
	ErrSchema           = errors.New("rule file does not match the rule set schema")
)

// FileError is an error loading a specific rule file.
type FileError struct {
	Path    string
	Message string
	Err     error
}

func (e *FileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error { return e.Err }

// RuleError is a rule in a loaded file that failed validation. Err is
// usually a rules.ValidationErrors.
type RuleError struct {
	Path   string
	Index  int
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("%s: rule %s: %v", e.Path, e.RuleID, e.Err)
	}
	return fmt.Sprintf("%s: rules[%d]: %v", e.Path, e.Index, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// SchemaViolation is a single schema error, located by JSON pointer.
type SchemaViolation struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (v SchemaViolation) String() string {
	if v.Location == "" {
		return v.Message
	}
	return v.Location + ": " + v.Message
}

// SchemaError lists every schema violation in a document. It matches
// ErrSchema with errors.Is.
type SchemaError struct {
	Violations []SchemaViolation
}

func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%v: %s", ErrSchema, strings.Join(msgs, "; "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
