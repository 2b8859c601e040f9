package httpdef

import "github.com/getmockd/mockrules/pkg/rules/part"

// HTTP matcher keys.
const (
	MatcherWildcard          part.Key = "wildcard"
	MatcherDefaultWildcard   part.Key = "default-wildcard"
	MatcherAmIUsing          part.Key = "am-i-using"
	MatcherMethod            part.Key = "method"
	MatcherGet               part.Key = "GET"
	MatcherPost              part.Key = "POST"
	MatcherPut               part.Key = "PUT"
	MatcherPatch             part.Key = "PATCH"
	MatcherDelete            part.Key = "DELETE"
	MatcherHead              part.Key = "HEAD"
	MatcherOptions           part.Key = "OPTIONS"
	MatcherProtocol          part.Key = "protocol"
	MatcherHost              part.Key = "host"
	MatcherHostname          part.Key = "hostname"
	MatcherPort              part.Key = "port"
	MatcherSimplePath        part.Key = "simple-path"
	MatcherRegexPath         part.Key = "regex-path"
	MatcherRegexURL          part.Key = "regex-url"
	MatcherHeader            part.Key = "header"
	MatcherQuery             part.Key = "query"
	MatcherExactQuery        part.Key = "exact-query-string"
	MatcherFormData          part.Key = "form-data"
	MatcherMultipartFormData part.Key = "multipart-form-data"
	MatcherRawBody           part.Key = "raw-body"
	MatcherRawBodyRegexp     part.Key = "raw-body-regexp"
	MatcherRawBodyIncludes   part.Key = "raw-body-includes"
	MatcherJSONBody          part.Key = "json-body"
	MatcherJSONBodyMatching  part.Key = "json-body-matching"
	MatcherCookie            part.Key = "cookie"
	MatcherCallback          part.Key = "callback"
)

// HTTP handler keys.
const (
	HandlerSimple                       part.Key = "simple"
	HandlerFile                         part.Key = "file"
	HandlerPassthrough                  part.Key = "passthrough"
	HandlerForwardToHost                part.Key = "forward-to-host"
	HandlerTransformer                  part.Key = "req-res-transformer"
	HandlerRequestBreakpoint            part.Key = "request-breakpoint"
	HandlerResponseBreakpoint           part.Key = "response-breakpoint"
	HandlerRequestAndResponseBreakpoint part.Key = "request-and-response-breakpoint"
	HandlerTimeout                      part.Key = "timeout"
	HandlerCloseConnection              part.Key = "close-connection"
	HandlerResetConnection              part.Key = "reset-connection"
	HandlerCallback                     part.Key = "callback"
	HandlerStream                       part.Key = "stream"
)

// AmIUsingHostname is the hostname clients request to check whether their
// traffic is being intercepted.
const AmIUsingHostname = "amiusing.mockrules.dev"
