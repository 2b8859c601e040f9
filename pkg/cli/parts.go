package cli

import (
	"fmt"

	"github.com/getmockd/mockrules/pkg/cli/internal/output"
	"github.com/getmockd/mockrules/pkg/cli/internal/parse"
	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/spf13/cobra"
)

// partsOutput is the JSON output of the matchers and handlers commands.
type partsOutput struct {
	ServerVersion string            `json:"serverVersion,omitempty"`
	Parts         []rules.ClassInfo `json:"parts"`
}

func (a *app) newMatchersCmd() *cobra.Command {
	var (
		protocols string
		all       bool
		initial   bool
	)

	cmd := &cobra.Command{
		Use:   "matchers",
		Short: "List the matchers that can be added to a rule",
		Long: `List the matchers that can be added to a rule after its initial matcher.

Hidden matchers and matchers the server version does not support are left
out unless --all is given. --initial lists the matchers a new HTTP rule can
start with instead.`,
		Example: `  # Matchers for HTTP rules on any server
  mockrules matchers

  # Matchers a 1.4.0 server supports, for both rule types
  mockrules matchers --server-version 1.4.0 --protocol http,websocket

  # The full registry with visibility and version annotations
  mockrules matchers --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initial {
				return a.printInitialMatchers(cmd)
			}
			return a.printParts(cmd, part.RoleMatcher, protocols, all)
		},
	}

	cmd.Flags().StringVarP(&protocols, "protocol", "p", string(part.ProtocolHTTP), "Rule protocols, comma-separated: http, websocket")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden and unsupported matchers")
	cmd.Flags().BoolVar(&initial, "initial", false, "List the initial matchers instead")
	return cmd
}

func (a *app) newHandlersCmd() *cobra.Command {
	var (
		protocols string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "handlers",
		Short: "List the handlers a rule can use",
		Long: `List the handlers a rule can use. Handlers that need a paid account are
marked. Hidden handlers and handlers the server version does not support are
left out unless --all is given.`,
		Example: `  mockrules handlers
  mockrules handlers --protocol websocket --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printParts(cmd, part.RoleHandler, protocols, all)
		},
	}

	cmd.Flags().StringVarP(&protocols, "protocol", "p", string(part.ProtocolHTTP), "Rule protocols, comma-separated: http, websocket")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden and unsupported handlers")
	return cmd
}

func parseProtocols(s string) ([]part.Protocol, error) {
	names := parse.SplitTrim(s, ",")
	if len(names) == 0 {
		return nil, fmt.Errorf("no protocol given")
	}
	out := make([]part.Protocol, 0, len(names))
	for _, name := range names {
		p := part.Protocol(name)
		if !p.Valid() {
			return nil, fmt.Errorf("unknown protocol %q: expected http or websocket", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func (a *app) printParts(cmd *cobra.Command, role part.Role, protocols string, all bool) error {
	ps, err := parseProtocols(protocols)
	if err != nil {
		return err
	}
	version, err := a.effectiveServerVersion(cmd.Context())
	if err != nil {
		return err
	}

	out := partsOutput{ServerVersion: version, Parts: []rules.ClassInfo{}}
	for _, p := range ps {
		for _, info := range a.catalog.Describe(role, p, version) {
			if all || info.Available {
				out.Parts = append(out.Parts, info)
			}
		}
	}

	if a.cfg.JSON {
		return output.JSON(cmd.OutOrStdout(), out)
	}

	if len(out.Parts) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %ss available\n", role)
		return nil
	}

	tw := output.Table(cmd.OutOrStdout())
	switch {
	case role == part.RoleMatcher && all:
		output.Row(tw, "KEY", "PROTOCOL", "DESCRIPTION", "INITIAL", "HIDDEN", "REQUIRES", "AVAILABLE")
	case role == part.RoleMatcher:
		output.Row(tw, "KEY", "PROTOCOL", "DESCRIPTION", "REQUIRES")
	case all:
		output.Row(tw, "KEY", "PROTOCOL", "DESCRIPTION", "PAID", "HIDDEN", "REQUIRES", "AVAILABLE")
	default:
		output.Row(tw, "KEY", "PROTOCOL", "DESCRIPTION", "PAID", "REQUIRES")
	}
	for _, info := range out.Parts {
		cols := []string{string(info.Key), string(info.Protocol), info.Label}
		switch {
		case role == part.RoleMatcher && all:
			cols = append(cols, output.Mark(info.Initial), output.Mark(info.Hidden), output.OrDash(info.Requires), output.Mark(info.Available))
		case role == part.RoleMatcher:
			cols = append(cols, output.OrDash(info.Requires))
		case all:
			cols = append(cols, output.Mark(info.Paid), output.Mark(info.Hidden), output.OrDash(info.Requires), output.Mark(info.Available))
		default:
			cols = append(cols, output.Mark(info.Paid), output.OrDash(info.Requires))
		}
		output.Row(tw, cols...)
	}
	return tw.Flush()
}

func (a *app) printInitialMatchers(cmd *cobra.Command) error {
	classes := a.catalog.InitialMatchers()

	if a.cfg.JSON {
		infos := make([]rules.ClassInfo, 0, len(classes))
		for _, cls := range classes {
			infos = append(infos, rules.ClassInfo{
				Key:       a.catalog.MatcherKey(cls),
				Protocol:  cls.Protocol,
				Role:      cls.Role,
				Label:     cls.Label,
				Initial:   true,
				Supported: true,
				Available: true,
			})
		}
		return output.JSON(cmd.OutOrStdout(), partsOutput{Parts: infos})
	}

	tw := output.Table(cmd.OutOrStdout())
	output.Row(tw, "KEY", "DESCRIPTION")
	for _, cls := range classes {
		output.Row(tw, string(a.catalog.MatcherKey(cls)), cls.Label)
	}
	return tw.Flush()
}
