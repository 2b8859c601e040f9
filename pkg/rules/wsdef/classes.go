package wsdef

import (
	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/getmockd/mockrules/pkg/rules/part"
)

func matcher(key part.Key, label string, newFn func() part.Part) *part.Class {
	return &part.Class{Key: key, Protocol: part.ProtocolWebSocket, Role: part.RoleMatcher, Label: label, New: newFn}
}

func handler(key part.Key, label string, newFn func() part.Part) *part.Class {
	return &part.Class{Key: key, Protocol: part.ProtocolWebSocket, Role: part.RoleHandler, Label: label, New: newFn}
}

// WebSocket matcher classes.
var (
	Wildcard = matcher(MatcherWildcard, "Any WebSocket",
		func() part.Part { return &WildcardMatcher{} })
	DefaultWildcard = matcher(MatcherDefaultWildcard, "Any unmatched WebSocket",
		func() part.Part { return &DefaultWildcardMatcher{} })
	Host = matcher(MatcherHost, "For a host",
		func() part.Part { return &HostMatcher{} })
	Hostname = matcher(MatcherHostname, "For a hostname",
		func() part.Part { return &HostnameMatcher{} })
	Port = matcher(MatcherPort, "For a port",
		func() part.Part { return &PortMatcher{PortMatcher: httpdef.PortMatcher{Port: 443}} })
	SimplePath = matcher(MatcherSimplePath, "For a URL",
		func() part.Part { return &SimplePathMatcher{} })
	RegexPath = matcher(MatcherRegexPath, "For URLs matching",
		func() part.Part { return &RegexPathMatcher{} })
	RegexURL = matcher(MatcherRegexURL, "For full URLs matching",
		func() part.Part { return &RegexURLMatcher{} })
	Header = matcher(MatcherHeader, "With headers including",
		func() part.Part { return &HeaderMatcher{} })
	Query = matcher(MatcherQuery, "With query parameters including",
		func() part.Part { return &QueryMatcher{} })
	ExactQuery = matcher(MatcherExactQuery, "With exact query string",
		func() part.Part { return &ExactQueryMatcher{} })
	Cookie = matcher(MatcherCookie, "With cookie",
		func() part.Part { return &CookieMatcher{} })
	Callback = matcher(MatcherCallback, "Matching a condition",
		func() part.Part { return &CallbackMatcher{CallbackMatcher: httpdef.CallbackMatcher{Condition: "true"}} })
)

// WebSocket handler classes.
var (
	PassThrough = handler(HandlerPassthrough, "Pass through to the target host",
		func() part.Part { return &PassThroughHandler{} })
	ForwardToHost = handler(HandlerForwardToHost, "Forward to a different host",
		func() part.Part { return &ForwardToHostHandler{} })
	Reject = handler(HandlerReject, "Reject the WebSocket",
		func() part.Part { return &RejectHandler{Status: 400} })
	Listen = handler(HandlerListen, "Accept and ignore messages",
		func() part.Part { return &ListenHandler{} })
	Echo = handler(HandlerEcho, "Accept and echo messages",
		func() part.Part { return &EchoHandler{} })
	CloseConnection = handler(HandlerCloseConnection, "Close the connection immediately",
		func() part.Part { return &CloseConnectionHandler{} })
	ResetConnection = handler(HandlerResetConnection, "Forcibly reset the connection",
		func() part.Part { return &ResetConnectionHandler{} })
	Timeout = handler(HandlerTimeout, "Time out with no response",
		func() part.Part { return &TimeoutHandler{} })
)

// Matchers returns every WebSocket matcher class in display order.
func Matchers() []*part.Class {
	return []*part.Class{
		Wildcard,
		DefaultWildcard,
		Host,
		Hostname,
		Port,
		SimplePath,
		RegexPath,
		RegexURL,
		Header,
		Query,
		ExactQuery,
		Cookie,
		Callback,
	}
}

// Handlers returns every WebSocket handler class in display order.
func Handlers() []*part.Class {
	return []*part.Class{
		PassThrough,
		ForwardToHost,
		Reject,
		Listen,
		Echo,
		CloseConnection,
		ResetConnection,
		Timeout,
	}
}
