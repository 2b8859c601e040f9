package rules

import (
	"github.com/getmockd/mockrules/internal/id"
	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/rules/wsdef"
	"github.com/getmockd/mockrules/pkg/traffic"
)

// RuleType is the serialized discriminant of a rule.
type RuleType string

// Rule types.
const (
	RuleTypeHTTP      RuleType = "http"
	RuleTypeWebSocket RuleType = "websocket"
)

// Protocol returns the part protocol of a rule type.
func (t RuleType) Protocol() part.Protocol {
	switch t {
	case RuleTypeHTTP:
		return part.ProtocolHTTP
	case RuleTypeWebSocket:
		return part.ProtocolWebSocket
	default:
		return ""
	}
}

// Rule is an HTTP or WebSocket interception rule. The set of
// implementations is closed: *HTTPRule and *WebSocketRule.
type Rule interface {
	// Type returns the rule's discriminant.
	Type() RuleType

	// Base returns the fields shared by every rule type.
	Base() *RuleBase

	sealed()
}

// RuleBase holds the fields shared by every rule type.
type RuleBase struct {
	ID        string
	Title     string
	Activated bool

	// Priority orders overlapping rules; higher wins.
	Priority int

	Matchers []part.Matcher
	Handler  part.Handler
}

// Base returns r.
func (r *RuleBase) Base() *RuleBase { return r }

// HTTPRule intercepts plain HTTP requests.
type HTTPRule struct {
	RuleBase
}

// Type returns RuleTypeHTTP.
func (*HTTPRule) Type() RuleType { return RuleTypeHTTP }
func (*HTTPRule) sealed()        {}

// WebSocketRule intercepts WebSocket upgrade requests.
type WebSocketRule struct {
	RuleBase
}

// Type returns RuleTypeWebSocket.
func (*WebSocketRule) Type() RuleType { return RuleTypeWebSocket }
func (*WebSocketRule) sealed()        {}

// NewHTTPRule returns an activated HTTP rule with a fresh ID.
func NewHTTPRule(handler part.Handler, matchers ...part.Matcher) *HTTPRule {
	return &HTTPRule{RuleBase{
		ID:        id.UUID(),
		Activated: true,
		Matchers:  matchers,
		Handler:   handler,
	}}
}

// NewWebSocketRule returns an activated WebSocket rule with a fresh ID.
func NewWebSocketRule(handler part.Handler, matchers ...part.Matcher) *WebSocketRule {
	return &WebSocketRule{RuleBase{
		ID:        id.UUID(),
		Activated: true,
		Matchers:  matchers,
		Handler:   handler,
	}}
}

// IsHTTPRule reports whether r is a non-nil HTTP rule.
func IsHTTPRule(r Rule) bool {
	_, ok := AsHTTPRule(r)
	return ok
}

// IsWebSocketRule reports whether r is a non-nil WebSocket rule.
func IsWebSocketRule(r Rule) bool {
	_, ok := AsWebSocketRule(r)
	return ok
}

// AsHTTPRule returns r as an *HTTPRule.
func AsHTTPRule(r Rule) (*HTTPRule, bool) {
	h, ok := r.(*HTTPRule)
	return h, ok && h != nil
}

// AsWebSocketRule returns r as a *WebSocketRule.
func AsWebSocketRule(r Rule) (*WebSocketRule, bool) {
	w, ok := r.(*WebSocketRule)
	return w, ok && w != nil
}

// isNil reports whether r is nil or a nil pointer of a rule type.
func isNil(r Rule) bool {
	switch v := r.(type) {
	case nil:
		return true
	case *HTTPRule:
		return v == nil
	case *WebSocketRule:
		return v == nil
	}
	return false
}

// Matches reports whether every matcher of r matches req. HTTP rules only
// match plain requests and WebSocket rules only match upgrades. A rule
// without matchers matches nothing. Activation is not considered.
func Matches(r Rule, req *traffic.Request) bool {
	if isNil(r) || req == nil {
		return false
	}
	if req.WebSocket != IsWebSocketRule(r) {
		return false
	}
	base := r.Base()
	if len(base.Matchers) == 0 {
		return false
	}
	for _, m := range base.Matchers {
		if m == nil || !m.Matches(req) {
			return false
		}
	}
	return true
}

// IsDefaultRule reports whether r only applies when no other rule does.
func IsDefaultRule(r Rule) bool {
	if isNil(r) {
		return false
	}
	for _, m := range r.Base().Matchers {
		if m == nil {
			continue
		}
		switch m.Type() {
		case httpdef.MatcherDefaultWildcard, wsdef.MatcherDefaultWildcard:
			return true
		}
	}
	return false
}

// FirstMatch returns the rule that handles req: the activated, matching
// rule with the highest priority, earliest first on ties. Default rules
// are only considered when no other rule matches. Returns nil when no
// rule matches.
func FirstMatch(rs []Rule, req *traffic.Request) Rule {
	var best, fallback Rule
	for _, r := range rs {
		if isNil(r) || !r.Base().Activated || !Matches(r, req) {
			continue
		}
		if IsDefaultRule(r) {
			if fallback == nil || r.Base().Priority > fallback.Base().Priority {
				fallback = r
			}
			continue
		}
		if best == nil || r.Base().Priority > best.Base().Priority {
			best = r
		}
	}
	if best != nil {
		return best
	}
	return fallback
}
