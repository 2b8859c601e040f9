package cli

import (
	"fmt"
	"net/http"

	"github.com/getmockd/mockrules/pkg/cli/internal/flags"
	"github.com/getmockd/mockrules/pkg/cli/internal/output"
	"github.com/getmockd/mockrules/pkg/cli/internal/parse"
	"github.com/getmockd/mockrules/pkg/exchange"
	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/getmockd/mockrules/pkg/traffic"
	"github.com/spf13/cobra"
)

// MatchOutput is the JSON output of the match command.
type MatchOutput struct {
	Request exchange.Summary `json:"request"`
	Matched *MatchedRule     `json:"matched"`

	// Candidates are every rule whose matchers accept the request, in
	// load order, whether or not they are activated.
	Candidates []MatchedRule `json:"candidates"`
}

// MatchedRule describes a rule that matches the request.
type MatchedRule struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	File      string   `json:"file,omitempty"`
	Activated bool     `json:"activated"`
	Priority  int      `json:"priority,omitempty"`
	Default   bool     `json:"default,omitempty"`
	Matchers  []string `json:"matchers"`
	Handler   string   `json:"handler,omitempty"`
	Paid      bool     `json:"paid,omitempty"`
}

func (a *app) newMatchCmd() *cobra.Command {
	var (
		files     flags.StringSlice
		headers   flags.StringSlice
		method    string
		rawURL    string
		body      string
		websocket bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show which rule would handle a request",
		Long: `Evaluate the loaded rules against a request and show the rule that would
handle it: the activated, matching rule with the highest priority, earliest
first. Rules matching any request by default only apply when no other rule
matches.`,
		Example: `  mockrules match -f rules.yaml --url https://api.example.com/users
  mockrules match -f rules.yaml -X POST --url https://example.com/login \
      -H 'Content-Type: application/json' --body '{"user":"ada"}'
  mockrules match -f rules.yaml --url wss://example.com/socket`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(method, rawURL, headers, body, websocket)
			if err != nil {
				return err
			}
			return a.runMatch(cmd, files, req)
		},
	}

	cmd.Flags().VarP(&files, "file", "f", "Rule file or glob pattern (repeatable)")
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "Request method")
	cmd.Flags().StringVar(&rawURL, "url", "", "Absolute request URL (http, https, ws or wss)")
	cmd.Flags().VarP(&headers, "header", "H", "Request header as 'Name: value' (repeatable)")
	cmd.Flags().StringVar(&body, "body", "", "Request body")
	cmd.Flags().BoolVar(&websocket, "websocket", false, "Treat the request as a WebSocket upgrade")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func buildRequest(method, rawURL string, headers []string, body string, websocket bool) (*traffic.Request, error) {
	req, err := traffic.NewRequest(method, rawURL)
	if err != nil {
		return nil, err
	}
	h, err := parse.Header(headers)
	if err != nil {
		return nil, err
	}
	req.Header = h
	if body != "" {
		req.Body = []byte(body)
	}
	if websocket {
		req.WebSocket = true
	}
	return req, nil
}

func (a *app) runMatch(cmd *cobra.Command, files []string, req *traffic.Request) error {
	_, res, err := a.loadRules(files)
	if err != nil {
		return err
	}

	ex := &exchange.Exchange{Request: req}
	out := MatchOutput{Request: ex.Summary(), Candidates: []MatchedRule{}}
	for _, r := range res.Rules {
		if rules.Matches(r, req) {
			out.Candidates = append(out.Candidates, a.describeRule(r, res.Sources))
		}
	}
	if r := rules.FirstMatch(res.Rules, req); r != nil {
		m := a.describeRule(r, res.Sources)
		out.Matched = &m
	}
	a.log.Debug("evaluated rules", "rules", len(res.Rules), "candidates", len(out.Candidates))

	w := cmd.OutOrStdout()
	if a.cfg.JSON {
		return output.JSON(w, out)
	}

	fmt.Fprintf(w, "Request: %s %s%s", out.Request.Method, out.Request.Host, out.Request.Path)
	if out.Request.Query != "" {
		fmt.Fprintf(w, "?%s", out.Request.Query)
	}
	fmt.Fprintln(w)

	if out.Matched == nil {
		fmt.Fprintln(w, "No rule matches")
		return nil
	}

	m := out.Matched
	fmt.Fprintf(w, "Matched: %s", m.ID)
	if m.Title != "" {
		fmt.Fprintf(w, " (%s)", m.Title)
	}
	fmt.Fprintln(w)
	if m.File != "" {
		fmt.Fprintf(w, "  file:     %s\n", m.File)
	}
	for _, explain := range m.Matchers {
		fmt.Fprintf(w, "  match:    %s\n", explain)
	}
	if m.Handler != "" {
		handler := m.Handler
		if m.Paid {
			handler += " (paid)"
		}
		fmt.Fprintf(w, "  handler:  %s\n", handler)
	}

	if len(out.Candidates) > 1 {
		fmt.Fprintln(w)
		tw := output.Table(w)
		output.Row(tw, "CANDIDATE", "ACTIVATED", "PRIORITY", "DEFAULT")
		for _, c := range out.Candidates {
			output.Row(tw, c.ID, output.Mark(c.Activated), fmt.Sprint(c.Priority), output.Mark(c.Default))
		}
		return tw.Flush()
	}
	return nil
}

func (a *app) describeRule(r rules.Rule, sources map[string]string) MatchedRule {
	base := r.Base()
	m := MatchedRule{
		ID:        base.ID,
		Title:     base.Title,
		File:      sources[base.ID],
		Activated: base.Activated,
		Priority:  base.Priority,
		Default:   rules.IsDefaultRule(r),
		Matchers:  make([]string, 0, len(base.Matchers)),
	}
	for _, matcher := range base.Matchers {
		if matcher != nil {
			m.Matchers = append(m.Matchers, matcher.Explain())
		}
	}
	if base.Handler != nil {
		m.Handler = base.Handler.Explain()
		m.Paid = a.catalog.IsPaidHandler(base.Handler)
	}
	return m
}
