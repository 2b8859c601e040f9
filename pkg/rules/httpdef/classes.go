package httpdef

import "github.com/getmockd/mockrules/pkg/rules/part"

func matcher(key part.Key, label string, newFn func() part.Part) *part.Class {
	return &part.Class{Key: key, Protocol: part.ProtocolHTTP, Role: part.RoleMatcher, Label: label, New: newFn}
}

func handler(key part.Key, label string, newFn func() part.Part) *part.Class {
	return &part.Class{Key: key, Protocol: part.ProtocolHTTP, Role: part.RoleHandler, Label: label, New: newFn}
}

func methodShortcut(method string) *part.Class {
	return matcher(part.Key(method), method+" requests", func() part.Part { return NewMethodShortcut(method) })
}

// HTTP matcher classes.
var (
	Wildcard = matcher(MatcherWildcard, "Any requests",
		func() part.Part { return &WildcardMatcher{} })
	DefaultWildcard = matcher(MatcherDefaultWildcard, "Any unmatched requests",
		func() part.Part { return &DefaultWildcardMatcher{} })
	AmIUsing = matcher(MatcherAmIUsing, "Interception self-checks",
		func() part.Part { return &AmIUsingMatcher{} })
	Method = matcher(MatcherMethod, "Requests with a method",
		func() part.Part { return &MethodMatcher{Method: "GET"} })

	Get     = methodShortcut("GET")
	Post    = methodShortcut("POST")
	Put     = methodShortcut("PUT")
	Patch   = methodShortcut("PATCH")
	Delete  = methodShortcut("DELETE")
	Head    = methodShortcut("HEAD")
	Options = methodShortcut("OPTIONS")

	Protocol = matcher(MatcherProtocol, "With protocol",
		func() part.Part { return &ProtocolMatcher{Protocol: "https"} })
	Host = matcher(MatcherHost, "For a host",
		func() part.Part { return &HostMatcher{} })
	Hostname = matcher(MatcherHostname, "For a hostname",
		func() part.Part { return &HostnameMatcher{} })
	Port = matcher(MatcherPort, "For a port",
		func() part.Part { return &PortMatcher{Port: 443} })
	SimplePath = matcher(MatcherSimplePath, "For a URL",
		func() part.Part { return &SimplePathMatcher{} })
	RegexPath = matcher(MatcherRegexPath, "For URLs matching",
		func() part.Part { return &RegexPathMatcher{} })
	RegexURL = matcher(MatcherRegexURL, "For full URLs matching",
		func() part.Part { return &RegexURLMatcher{} })
	Header = matcher(MatcherHeader, "With headers including",
		func() part.Part { return &HeaderMatcher{Headers: map[string]string{}} })
	Query = matcher(MatcherQuery, "With query parameters including",
		func() part.Part { return &QueryMatcher{Query: map[string]string{}} })
	ExactQuery = matcher(MatcherExactQuery, "With exact query string",
		func() part.Part { return &ExactQueryMatcher{} })
	FormData = matcher(MatcherFormData, "With form data",
		func() part.Part { return &FormDataMatcher{Form: map[string]string{}} })
	MultipartFormData = matcher(MatcherMultipartFormData, "With multipart form data",
		func() part.Part { return &MultipartFormDataMatcher{} })
	RawBody = matcher(MatcherRawBody, "With exact body",
		func() part.Part { return &RawBodyMatcher{} })
	RawBodyRegexp = matcher(MatcherRawBodyRegexp, "With body matching",
		func() part.Part { return &RawBodyRegexMatcher{} })
	RawBodyIncludes = matcher(MatcherRawBodyIncludes, "With body including",
		func() part.Part { return &RawBodyIncludesMatcher{} })
	JSONBody = matcher(MatcherJSONBody, "With JSON body",
		func() part.Part { return &JSONBodyMatcher{Body: map[string]any{}} })
	JSONBodyMatching = matcher(MatcherJSONBodyMatching, "With JSON body including",
		func() part.Part { return &JSONBodyFlexibleMatcher{Body: map[string]any{}} })
	Cookie = matcher(MatcherCookie, "With cookie",
		func() part.Part { return &CookieMatcher{Cookie: map[string]string{}} })
	Callback = matcher(MatcherCallback, "Matching a condition",
		func() part.Part { return &CallbackMatcher{Condition: "true"} })
)

// HTTP handler classes.
var (
	StaticResponse = handler(HandlerSimple, "Return a fixed response",
		func() part.Part { return &StaticResponseHandler{Status: 200} })
	FromFileResponse = handler(HandlerFile, "Return a response from a file",
		func() part.Part { return &FromFileResponseHandler{Status: 200} })
	PassThrough = handler(HandlerPassthrough, "Pass through to the target host",
		func() part.Part { return &PassThroughHandler{} })
	ForwardToHost = handler(HandlerForwardToHost, "Forward to a different host",
		func() part.Part { return &ForwardToHostHandler{} })
	Transforming = handler(HandlerTransformer, "Transform the request or response",
		func() part.Part { return &TransformingHandler{} })
	RequestBreakpoint = handler(HandlerRequestBreakpoint, "Pause the request to manually edit it",
		func() part.Part { return &RequestBreakpointHandler{} })
	ResponseBreakpoint = handler(HandlerResponseBreakpoint, "Pause the response to manually edit it",
		func() part.Part { return &ResponseBreakpointHandler{} })
	RequestAndResponseBreakpoint = handler(HandlerRequestAndResponseBreakpoint, "Pause the request and response to manually edit them",
		func() part.Part { return &RequestAndResponseBreakpointHandler{} })
	Timeout = handler(HandlerTimeout, "Time out with no response",
		func() part.Part { return &TimeoutHandler{} })
	CloseConnection = handler(HandlerCloseConnection, "Close the connection immediately",
		func() part.Part { return &CloseConnectionHandler{} })
	ResetConnection = handler(HandlerResetConnection, "Forcibly reset the connection",
		func() part.Part { return &ResetConnectionHandler{} })
	CallbackResponse = handler(HandlerCallback, "Respond using a callback",
		func() part.Part { return &CallbackHandler{} })
	Stream = handler(HandlerStream, "Stream a response",
		func() part.Part { return &StreamHandler{Status: 200} })
)

// MethodMatchers returns the method shortcut classes in Methods order.
func MethodMatchers() []*part.Class {
	return []*part.Class{Get, Post, Put, Patch, Delete, Head, Options}
}

// Matchers returns every HTTP matcher class in display order.
func Matchers() []*part.Class {
	out := []*part.Class{Wildcard, DefaultWildcard, AmIUsing, Method}
	out = append(out, MethodMatchers()...)
	return append(out,
		Protocol,
		Host,
		Hostname,
		Port,
		SimplePath,
		RegexPath,
		RegexURL,
		Header,
		Query,
		ExactQuery,
		FormData,
		MultipartFormData,
		RawBody,
		RawBodyRegexp,
		RawBodyIncludes,
		JSONBody,
		JSONBodyMatching,
		Cookie,
		Callback,
	)
}

// Handlers returns every HTTP handler class in display order.
func Handlers() []*part.Class {
	return []*part.Class{
		StaticResponse,
		FromFileResponse,
		PassThrough,
		ForwardToHost,
		Transforming,
		RequestBreakpoint,
		ResponseBreakpoint,
		RequestAndResponseBreakpoint,
		Timeout,
		CloseConnection,
		ResetConnection,
		CallbackResponse,
		Stream,
	}
}
