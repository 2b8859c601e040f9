package cli

import (
	"errors"
	"fmt"

	"github.com/getmockd/mockrules/pkg/cli/internal/flags"
	"github.com/getmockd/mockrules/pkg/cli/internal/output"
	"github.com/getmockd/mockrules/pkg/config"
	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/spf13/cobra"
)

// ErrInvalidRules is returned by validate when any rule is invalid.
var ErrInvalidRules = errors.New("rule validation failed")

// ValidateOutput is the JSON output of the validate command.
type ValidateOutput struct {
	Valid         bool              `json:"valid"`
	ServerVersion string            `json:"serverVersion,omitempty"`
	Files         int               `json:"files"`
	Rules         int               `json:"rules"`
	Problems      []ValidateProblem `json:"problems"`
}

// ValidateProblem is one problem found in a rule.
type ValidateProblem struct {
	File    string `json:"file"`
	Rule    string `json:"rule"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (a *app) newValidateCmd() *cobra.Command {
	var files flags.StringSlice

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate rule files",
		Long: `Validate rule files without applying them.

This command checks:
  - YAML/JSON syntax and the rule set schema
  - That every matcher and handler is known and fits the rule type
  - That each rule starts with a matcher that can start a rule
  - Part configuration (status codes, regexes, hosts, ...)
  - That the server version supports every part used
  - That rule IDs are unique across files

Exits non-zero when any rule is invalid.`,
		Example: `  # Validate the rule files named in the config
  mockrules validate

  # Validate specific files against a 1.5.0 server
  mockrules validate -f rules.yaml -f 'more/**/*.json' --server-version 1.5.0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate(cmd, files)
		},
	}

	cmd.Flags().VarP(&files, "file", "f", "Rule file or glob pattern (repeatable)")
	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, files []string) error {
	version, err := a.effectiveServerVersion(cmd.Context())
	if err != nil {
		return err
	}
	loader, res, err := a.loadRules(files)
	if err != nil {
		return err
	}

	out := ValidateOutput{
		ServerVersion: version,
		Files:         len(res.Files),
		Rules:         len(res.Rules),
		Problems:      []ValidateProblem{},
	}
	for _, ruleErr := range loader.Validate(res, version) {
		out.Problems = append(out.Problems, problemsOf(ruleErr)...)
	}
	out.Valid = len(out.Problems) == 0

	w := cmd.OutOrStdout()
	if a.cfg.JSON {
		if err := output.JSON(w, out); err != nil {
			return err
		}
	} else {
		if version == "" {
			output.Warn(cmd.ErrOrStderr(), "server version unknown, version requirements were not checked")
		}
		for _, p := range out.Problems {
			if p.Field != "" {
				fmt.Fprintf(w, "%s: %s: %s: %s\n", p.File, p.Rule, p.Field, p.Message)
			} else {
				fmt.Fprintf(w, "%s: %s: %s\n", p.File, p.Rule, p.Message)
			}
		}
		if out.Valid {
			fmt.Fprintf(w, "%d rules in %d files are valid\n", out.Rules, out.Files)
		}
	}

	if !out.Valid {
		return fmt.Errorf("%w: %d problems", ErrInvalidRules, len(out.Problems))
	}
	return nil
}

func problemsOf(ruleErr *config.RuleError) []ValidateProblem {
	name := ruleErr.RuleID
	if name == "" {
		name = fmt.Sprintf("rules[%d]", ruleErr.Index)
	}

	var verrs rules.ValidationErrors
	if !errors.As(ruleErr.Err, &verrs) {
		return []ValidateProblem{{File: ruleErr.Path, Rule: name, Message: ruleErr.Err.Error()}}
	}
	out := make([]ValidateProblem, 0, len(verrs))
	for _, v := range verrs {
		out = append(out, ValidateProblem{File: ruleErr.Path, Rule: name, Field: v.Field, Message: v.Message})
	}
	return out
}
