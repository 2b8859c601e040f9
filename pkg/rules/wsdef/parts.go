package wsdef

import (
	"fmt"

	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/traffic"
)

// WebSocket matcher keys. They are namespaced so they never collide with
// HTTP keys in the merged registries.
const (
	MatcherWildcard        part.Key = "ws-wildcard"
	MatcherDefaultWildcard part.Key = "default-ws-wildcard"
	MatcherHost            part.Key = "ws-host"
	MatcherHostname        part.Key = "ws-hostname"
	MatcherPort            part.Key = "ws-port"
	MatcherSimplePath      part.Key = "ws-simple-path"
	MatcherRegexPath       part.Key = "ws-regex-path"
	MatcherRegexURL        part.Key = "ws-regex-url"
	MatcherHeader          part.Key = "ws-header"
	MatcherQuery           part.Key = "ws-query"
	MatcherExactQuery      part.Key = "ws-exact-query-string"
	MatcherCookie          part.Key = "ws-cookie"
	MatcherCallback        part.Key = "ws-callback"
)

// WebSocket handler keys.
const (
	HandlerPassthrough     part.Key = "ws-passthrough"
	HandlerForwardToHost   part.Key = "ws-forward-to-host"
	HandlerReject          part.Key = "ws-reject"
	HandlerListen          part.Key = "ws-listen"
	HandlerEcho            part.Key = "ws-echo"
	HandlerCloseConnection part.Key = "ws-close-connection"
	HandlerResetConnection part.Key = "ws-reset-connection"
	HandlerTimeout         part.Key = "ws-timeout"
)

// WildcardMatcher matches every WebSocket.
type WildcardMatcher struct{}

func (*WildcardMatcher) Type() part.Key                  { return MatcherWildcard }
func (*WildcardMatcher) Explain() string                 { return "for any WebSocket" }
func (*WildcardMatcher) Matches(_ *traffic.Request) bool { return true }

// DefaultWildcardMatcher matches every WebSocket not handled by another
// rule.
type DefaultWildcardMatcher struct{}

func (*DefaultWildcardMatcher) Type() part.Key { return MatcherDefaultWildcard }
func (*DefaultWildcardMatcher) Explain() string {
	return "for any WebSocket that isn't handled by other rules"
}
func (*DefaultWildcardMatcher) Matches(_ *traffic.Request) bool { return true }

// HostMatcher matches WebSockets by host.
type HostMatcher struct{ httpdef.HostMatcher }

// Type returns MatcherHost in place of the embedded HTTP key.
func (*HostMatcher) Type() part.Key { return MatcherHost }

// HostnameMatcher matches WebSockets by hostname.
type HostnameMatcher struct{ httpdef.HostnameMatcher }

// Type returns MatcherHostname in place of the embedded HTTP key.
func (*HostnameMatcher) Type() part.Key { return MatcherHostname }

// PortMatcher matches WebSockets by port.
type PortMatcher struct{ httpdef.PortMatcher }

// Type returns MatcherPort in place of the embedded HTTP key.
func (*PortMatcher) Type() part.Key { return MatcherPort }

// SimplePathMatcher matches WebSockets by path or URL.
type SimplePathMatcher struct{ httpdef.SimplePathMatcher }

// Type returns MatcherSimplePath in place of the embedded HTTP key.
func (*SimplePathMatcher) Type() part.Key { return MatcherSimplePath }

// RegexPathMatcher matches WebSocket paths against a regular expression.
type RegexPathMatcher struct{ httpdef.RegexPathMatcher }

// Type returns MatcherRegexPath in place of the embedded HTTP key.
func (*RegexPathMatcher) Type() part.Key { return MatcherRegexPath }

// RegexURLMatcher matches WebSocket URLs against a regular expression.
type RegexURLMatcher struct{ httpdef.RegexURLMatcher }

// Type returns MatcherRegexURL in place of the embedded HTTP key.
func (*RegexURLMatcher) Type() part.Key { return MatcherRegexURL }

// HeaderMatcher matches WebSocket upgrade requests by header.
type HeaderMatcher struct{ httpdef.HeaderMatcher }

// Type returns MatcherHeader in place of the embedded HTTP key.
func (*HeaderMatcher) Type() part.Key { return MatcherHeader }

// QueryMatcher matches WebSockets by query parameters.
type QueryMatcher struct{ httpdef.QueryMatcher }

// Type returns MatcherQuery in place of the embedded HTTP key.
func (*QueryMatcher) Type() part.Key { return MatcherQuery }

// ExactQueryMatcher matches WebSockets by exact query string.
type ExactQueryMatcher struct{ httpdef.ExactQueryMatcher }

// Type returns MatcherExactQuery in place of the embedded HTTP key.
func (*ExactQueryMatcher) Type() part.Key { return MatcherExactQuery }

// CookieMatcher matches WebSockets by cookie.
type CookieMatcher struct{ httpdef.CookieMatcher }

// Type returns MatcherCookie in place of the embedded HTTP key.
func (*CookieMatcher) Type() part.Key { return MatcherCookie }

// CallbackMatcher matches WebSockets for which a condition holds.
type CallbackMatcher struct{ httpdef.CallbackMatcher }

// Type returns MatcherCallback in place of the embedded HTTP key.
func (*CallbackMatcher) Type() part.Key { return MatcherCallback }

// PassThroughHandler proxies the WebSocket to its original destination.
type PassThroughHandler struct{ httpdef.PassThroughHandler }

// Type returns HandlerPassthrough in place of the embedded HTTP key.
func (*PassThroughHandler) Type() part.Key { return HandlerPassthrough }
func (*PassThroughHandler) Explain() string {
	return "pass the WebSocket on to the target host"
}

// ForwardToHostHandler proxies the WebSocket to a different host.
type ForwardToHostHandler struct{ httpdef.ForwardToHostHandler }

// Type returns HandlerForwardToHost in place of the embedded HTTP key.
func (*ForwardToHostHandler) Type() part.Key { return HandlerForwardToHost }
func (h *ForwardToHostHandler) Explain() string {
	return fmt.Sprintf("forward the WebSocket to %s", h.TargetHost)
}

// RejectHandler refuses the upgrade with an HTTP response.
type RejectHandler struct {
	Status        int               `json:"statusCode"`
	StatusMessage string            `json:"statusMessage,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Body          string            `json:"body,omitempty"`
}

func (*RejectHandler) Type() part.Key      { return HandlerReject }
func (*RejectHandler) Action() part.Action { return part.ActionReject }
func (h *RejectHandler) Explain() string {
	return fmt.Sprintf("reject the WebSocket with status %d", h.Status)
}

// Validate requires a status between 100 and 599.
func (h *RejectHandler) Validate() error {
	if h.Status < 100 || h.Status > 599 {
		return &part.ConfigError{Field: "statusCode", Message: fmt.Sprintf("status %d is outside 100-599", h.Status)}
	}
	return nil
}

// ListenHandler accepts the WebSocket and silently receives messages.
type ListenHandler struct{}

func (*ListenHandler) Type() part.Key      { return HandlerListen }
func (*ListenHandler) Action() part.Action { return part.ActionListen }
func (*ListenHandler) Explain() string     { return "accept the WebSocket and ignore all messages" }

// EchoHandler accepts the WebSocket and echoes every message back.
type EchoHandler struct{}

func (*EchoHandler) Type() part.Key      { return HandlerEcho }
func (*EchoHandler) Action() part.Action { return part.ActionEcho }
func (*EchoHandler) Explain() string     { return "accept the WebSocket and echo all messages back" }

// CloseConnectionHandler closes the connection before the upgrade.
type CloseConnectionHandler struct{}

func (*CloseConnectionHandler) Type() part.Key      { return HandlerCloseConnection }
func (*CloseConnectionHandler) Action() part.Action { return part.ActionClose }
func (*CloseConnectionHandler) Explain() string     { return "close the connection" }

// ResetConnectionHandler kills the connection with a TCP reset.
type ResetConnectionHandler struct{}

func (*ResetConnectionHandler) Type() part.Key      { return HandlerResetConnection }
func (*ResetConnectionHandler) Action() part.Action { return part.ActionReset }
func (*ResetConnectionHandler) Explain() string     { return "reset the connection" }

// TimeoutHandler accepts the connection and never responds.
type TimeoutHandler struct{}

func (*TimeoutHandler) Type() part.Key      { return HandlerTimeout }
func (*TimeoutHandler) Action() part.Action { return part.ActionTimeout }
func (*TimeoutHandler) Explain() string     { return "time out with no response" }
