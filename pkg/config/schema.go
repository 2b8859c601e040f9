package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed rules.schema.json
var ruleSetSchemaJSON []byte

// RuleSetSchema returns the JSON Schema rule files are checked against.
func RuleSetSchema() []byte {
	return bytes.Clone(ruleSetSchemaJSON)
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func ruleSetSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("rules.schema.json", bytes.NewReader(ruleSetSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("rules.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks a JSON rule set document against the rule set
// schema. It returns a *SchemaError listing every violation.
func ValidateSchema(data []byte) error {
	schema, err := ruleSetSchema()
	if err != nil {
		return fmt.Errorf("compiling rule set schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Violations: []SchemaViolation{{Message: "invalid JSON: " + err.Error()}}}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &SchemaError{Violations: []SchemaViolation{{Message: err.Error()}}}
	}
	result := &SchemaError{}
	collectViolations(verr, result)
	return result
}

// collectViolations flattens the leaf causes of a validation error.
func collectViolations(err *jsonschema.ValidationError, result *SchemaError) {
	if len(err.Causes) == 0 {
		result.Violations = append(result.Violations, SchemaViolation{
			Location: err.InstanceLocation,
			Message:  err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, result)
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars expands environment variables in the input string.
// Supports ${VAR_NAME} and ${VAR_NAME:-default} syntax.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		if len(submatch) >= 3 {
			return submatch[2]
		}
		return ""
	})
}

// ResolvePath resolves a potentially relative path against a base directory.
func ResolvePath(basePath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	if strings.HasPrefix(targetPath, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, targetPath[2:])
		}
	}
	return filepath.Join(basePath, targetPath)
}
