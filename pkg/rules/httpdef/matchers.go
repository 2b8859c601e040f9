package httpdef

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getmockd/mockrules/internal/matching"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/traffic"
)

// Methods are the HTTP methods that have a shortcut matcher.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// headerNameRegex validates HTTP header names (RFC 7230).
var headerNameRegex = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+\-.^_\x60|~]+$`)

// WildcardMatcher matches every request.
type WildcardMatcher struct{}

func (*WildcardMatcher) Type() part.Key                  { return MatcherWildcard }
func (*WildcardMatcher) Explain() string                 { return "for any requests" }
func (*WildcardMatcher) Matches(_ *traffic.Request) bool { return true }

// DefaultWildcardMatcher matches every request, but only applies when no
// other rule does.
type DefaultWildcardMatcher struct{}

func (*DefaultWildcardMatcher) Type() part.Key { return MatcherDefaultWildcard }
func (*DefaultWildcardMatcher) Explain() string {
	return "for any requests that aren't handled by other rules"
}
func (*DefaultWildcardMatcher) Matches(_ *traffic.Request) bool { return true }

// AmIUsingMatcher matches interception self-check requests.
type AmIUsingMatcher struct{}

func (*AmIUsingMatcher) Type() part.Key { return MatcherAmIUsing }
func (*AmIUsingMatcher) Explain() string {
	return "for requests checking whether they are being intercepted"
}
func (*AmIUsingMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchHostname(AmIUsingHostname, req.Hostname())
}

// MethodMatcher matches requests by HTTP method. Shortcut instances, one
// per entry in Methods, report the method name itself as their key.
type MethodMatcher struct {
	Method string `json:"method"`

	shortcut bool
}

// NewMethodShortcut returns the shortcut matcher for method.
func NewMethodShortcut(method string) *MethodMatcher {
	return &MethodMatcher{Method: strings.ToUpper(method), shortcut: true}
}

// Type returns the method name for shortcut instances and MatcherMethod
// otherwise.
func (m *MethodMatcher) Type() part.Key {
	if m.shortcut {
		return part.Key(m.Method)
	}
	return MatcherMethod
}

func (m *MethodMatcher) Explain() string { return fmt.Sprintf("for %s requests", m.Method) }

// Matches compares methods case-insensitively.
func (m *MethodMatcher) Matches(req *traffic.Request) bool {
	return strings.EqualFold(m.Method, req.Method)
}

// Validate requires a method made of HTTP token characters.
func (m *MethodMatcher) Validate() error {
	if m.Method == "" {
		return &part.ConfigError{Field: "method", Message: "method is required"}
	}
	if !headerNameRegex.MatchString(m.Method) {
		return &part.ConfigError{Field: "method", Message: fmt.Sprintf("invalid HTTP method: %s", m.Method)}
	}
	return nil
}

// ProtocolMatcher matches requests by scheme.
type ProtocolMatcher struct {
	Protocol string `json:"protocol"`
}

func (*ProtocolMatcher) Type() part.Key { return MatcherProtocol }
func (m *ProtocolMatcher) Explain() string {
	return fmt.Sprintf("for %s requests", strings.ToUpper(strings.TrimSuffix(m.Protocol, ":")))
}

// Matches compares the protocol with the request scheme, ignoring case and
// a trailing colon.
func (m *ProtocolMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchProtocol(m.Protocol, req.Protocol())
}

// Validate accepts the HTTP and WebSocket schemes.
func (m *ProtocolMatcher) Validate() error {
	switch strings.TrimSuffix(strings.ToLower(m.Protocol), ":") {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return &part.ConfigError{Field: "protocol", Message: fmt.Sprintf("unsupported protocol %q", m.Protocol)}
	}
}

// HostMatcher matches requests by host, including a non-default port.
type HostMatcher struct {
	Host string `json:"host"`
}

func (*HostMatcher) Type() part.Key { return MatcherHost }
func (m *HostMatcher) Explain() string {
	return fmt.Sprintf("for %s", m.Host)
}

// Matches compares hostname and port. A host without a port only matches
// the default port of the request scheme.
func (m *HostMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchHost(m.Host, req.Hostname(), req.Port(), traffic.DefaultPort(req.Protocol()))
}

// Validate rejects an empty host or one carrying a path or query.
func (m *HostMatcher) Validate() error {
	if m.Host == "" {
		return &part.ConfigError{Field: "host", Message: "host is required"}
	}
	if strings.ContainsAny(m.Host, "/?# ") {
		return &part.ConfigError{Field: "host", Message: "host must not contain a path or query"}
	}
	return nil
}

// HostnameMatcher matches requests by hostname, on any port.
type HostnameMatcher struct {
	Hostname string `json:"hostname"`
}

func (*HostnameMatcher) Type() part.Key { return MatcherHostname }
func (m *HostnameMatcher) Explain() string {
	return fmt.Sprintf("for host %s", m.Hostname)
}

// Matches compares hostnames case-insensitively, on any port.
func (m *HostnameMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchHostname(m.Hostname, req.Hostname())
}

func (m *HostnameMatcher) Validate() error {
	if m.Hostname == "" {
		return &part.ConfigError{Field: "hostname", Message: "hostname is required"}
	}
	if strings.ContainsAny(m.Hostname, ":/?# ") {
		return &part.ConfigError{Field: "hostname", Message: "hostname must not contain a port or path"}
	}
	return nil
}

// PortMatcher matches requests by port.
type PortMatcher struct {
	Port int `json:"port"`
}

func (*PortMatcher) Type() part.Key { return MatcherPort }
func (m *PortMatcher) Explain() string {
	return fmt.Sprintf("for port %d", m.Port)
}
func (m *PortMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchPort(strconv.Itoa(m.Port), req.Port())
}

// Validate requires a port between 1 and 65535.
func (m *PortMatcher) Validate() error {
	if m.Port < 1 || m.Port > 65535 {
		return &part.ConfigError{Field: "port", Message: "port must be between 1 and 65535"}
	}
	return nil
}

// SimplePathMatcher matches a path, or an absolute URL without its query.
type SimplePathMatcher struct {
	Path string `json:"path"`
}

func (*SimplePathMatcher) Type() part.Key { return MatcherSimplePath }
func (m *SimplePathMatcher) Explain() string {
	return fmt.Sprintf("for %s", m.Path)
}

// Matches compares absolute URLs without their query, and anything else
// against the path alone.
func (m *SimplePathMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchSimplePath(m.Path, req.Path(), req.URLWithoutQuery())
}

// Validate requires a path starting with / or an absolute URL, without a
// query.
func (m *SimplePathMatcher) Validate() error {
	if m.Path == "" {
		return &part.ConfigError{Field: "path", Message: "path is required"}
	}
	if strings.Contains(m.Path, "?") {
		return &part.ConfigError{Field: "path", Message: "path must not contain a query; use a query matcher"}
	}
	if !strings.HasPrefix(m.Path, "/") && !strings.Contains(m.Path, "://") {
		return &part.ConfigError{Field: "path", Message: "path must start with / or be an absolute URL"}
	}
	return nil
}

// RegexPathMatcher matches the path against a regular expression.
type RegexPathMatcher struct {
	Regex string `json:"regexSource"`
	Flags string `json:"regexFlags,omitempty"`
}

func (*RegexPathMatcher) Type() part.Key { return MatcherRegexPath }
func (m *RegexPathMatcher) Explain() string {
	return fmt.Sprintf("for paths matching /%s/%s", m.Regex, m.Flags)
}

// Matches tests the regular expression against the path only.
func (m *RegexPathMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchRegex(m.Regex, m.Flags, req.Path())
}

func (m *RegexPathMatcher) Validate() error { return validateRegex("regexSource", m.Regex, m.Flags) }

// Captures returns the named groups captured from the request path.
func (m *RegexPathMatcher) Captures(req *traffic.Request) map[string]string {
	return matching.RegexCaptures(m.Regex, m.Flags, req.Path())
}

// RegexURLMatcher matches the full URL against a regular expression.
type RegexURLMatcher struct {
	Regex string `json:"regexSource"`
	Flags string `json:"regexFlags,omitempty"`
}

func (*RegexURLMatcher) Type() part.Key { return MatcherRegexURL }
func (m *RegexURLMatcher) Explain() string {
	return fmt.Sprintf("for URLs matching /%s/%s", m.Regex, m.Flags)
}

// Matches tests the regular expression against the full URL, query
// included.
func (m *RegexURLMatcher) Matches(req *traffic.Request) bool {
	if req.URL == nil {
		return false
	}
	return matching.MatchRegex(m.Regex, m.Flags, req.URL.String())
}

func (m *RegexURLMatcher) Validate() error { return validateRegex("regexSource", m.Regex, m.Flags) }

func validateRegex(field, pattern, flags string) error {
	if pattern == "" {
		return &part.ConfigError{Field: field, Message: "regular expression is required"}
	}
	if err := matching.ValidateRegex(pattern, flags); err != nil {
		return &part.ConfigError{Field: field, Message: err.Error()}
	}
	return nil
}

// HeaderMatcher matches requests carrying all the given headers.
type HeaderMatcher struct {
	Headers map[string]string `json:"headers"`
}

func (*HeaderMatcher) Type() part.Key { return MatcherHeader }
func (m *HeaderMatcher) Explain() string {
	return "with headers including " + describeMap(m.Headers)
}

// Matches requires every header. Any value of a repeated header may match.
func (m *HeaderMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchHeaders(m.Headers, req.Header)
}

// Validate requires at least one header with a valid name.
func (m *HeaderMatcher) Validate() error {
	if len(m.Headers) == 0 {
		return &part.ConfigError{Field: "headers", Message: "at least one header is required"}
	}
	for name := range m.Headers {
		if !headerNameRegex.MatchString(name) {
			return &part.ConfigError{Field: "headers", Message: fmt.Sprintf("invalid header name: %s", name)}
		}
	}
	return nil
}

// QueryMatcher matches requests whose query includes the given parameters.
type QueryMatcher struct {
	Query map[string]string `json:"queryObject"`
}

func (*QueryMatcher) Type() part.Key { return MatcherQuery }
func (m *QueryMatcher) Explain() string {
	return "with a query including " + describeMap(m.Query)
}

// Matches requires every parameter. Extra parameters are allowed.
func (m *QueryMatcher) Matches(req *traffic.Request) bool {
	expected := make(map[string][]string, len(m.Query))
	for k, v := range m.Query {
		expected[k] = []string{v}
	}
	return matching.MatchQueryParams(expected, req.Query())
}

func (m *QueryMatcher) Validate() error {
	if len(m.Query) == 0 {
		return &part.ConfigError{Field: "queryObject", Message: "at least one parameter is required"}
	}
	return nil
}

// ExactQueryMatcher matches the raw query string exactly.
type ExactQueryMatcher struct {
	Query string `json:"query"`
}

func (*ExactQueryMatcher) Type() part.Key { return MatcherExactQuery }
func (m *ExactQueryMatcher) Explain() string {
	if m.Query == "" {
		return "with no query string"
	}
	return fmt.Sprintf("with a query exactly matching `%s`", m.Query)
}
func (m *ExactQueryMatcher) Matches(req *traffic.Request) bool {
	raw := ""
	if req.URL != nil {
		raw = req.URL.RawQuery
	}
	return matching.MatchExactQuery(m.Query, raw)
}

// Validate requires an empty query or one starting with "?".
func (m *ExactQueryMatcher) Validate() error {
	if m.Query != "" && !strings.HasPrefix(m.Query, "?") {
		return &part.ConfigError{Field: "query", Message: "query must be empty or start with ?"}
	}
	return nil
}

// FormDataMatcher matches urlencoded form bodies containing the given
// fields.
type FormDataMatcher struct {
	Form map[string]string `json:"formData"`
}

func (*FormDataMatcher) Type() part.Key { return MatcherFormData }
func (m *FormDataMatcher) Explain() string {
	return "with form data including " + describeMap(m.Form)
}

// Matches only considers application/x-www-form-urlencoded bodies.
func (m *FormDataMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchFormData(m.Form, req.ContentType(), req.Body)
}

// MultipartFormDataMatcher matches multipart bodies containing the given
// parts.
type MultipartFormDataMatcher struct {
	Fields []matching.MultipartField `json:"matchConditions"`
}

func (*MultipartFormDataMatcher) Type() part.Key { return MatcherMultipartFormData }
func (m *MultipartFormDataMatcher) Explain() string {
	names := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return fmt.Sprintf("with multipart form data including %s", strings.Join(names, ", "))
}

// Matches requires each condition to be met by some part of the body.
func (m *MultipartFormDataMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchMultipart(m.Fields, req.Header.Get("Content-Type"), req.Body)
}

func (m *MultipartFormDataMatcher) Validate() error {
	if len(m.Fields) == 0 {
		return &part.ConfigError{Field: "matchConditions", Message: "at least one condition is required"}
	}
	return nil
}

// RawBodyMatcher matches the body exactly.
type RawBodyMatcher struct {
	Content string `json:"content"`
}

func (*RawBodyMatcher) Type() part.Key { return MatcherRawBody }
func (m *RawBodyMatcher) Explain() string {
	return fmt.Sprintf("with a decoded body exactly matching `%s`", m.Content)
}

// Matches compares the body byte for byte. An empty Content only matches
// an empty body.
func (m *RawBodyMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchBodyEquals(req.Body, m.Content)
}

// RawBodyRegexMatcher matches the body against a regular expression.
type RawBodyRegexMatcher struct {
	Regex string `json:"regexString"`
}

func (*RawBodyRegexMatcher) Type() part.Key { return MatcherRawBodyRegexp }
func (m *RawBodyRegexMatcher) Explain() string {
	return fmt.Sprintf("with a decoded body matching /%s/", m.Regex)
}
func (m *RawBodyRegexMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchBodyPattern(m.Regex, req.Body)
}

func (m *RawBodyRegexMatcher) Validate() error { return validateRegex("regexString", m.Regex, "") }

// RawBodyIncludesMatcher matches bodies containing a substring.
type RawBodyIncludesMatcher struct {
	Content string `json:"content"`
}

func (*RawBodyIncludesMatcher) Type() part.Key { return MatcherRawBodyIncludes }
func (m *RawBodyIncludesMatcher) Explain() string {
	return fmt.Sprintf("with a decoded body including `%s`", m.Content)
}
func (m *RawBodyIncludesMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchBodyContains(req.Body, m.Content)
}

func (m *RawBodyIncludesMatcher) Validate() error {
	if m.Content == "" {
		return &part.ConfigError{Field: "content", Message: "content is required"}
	}
	return nil
}

// JSONBodyMatcher matches JSON bodies deeply equal to Body.
type JSONBodyMatcher struct {
	Body any `json:"body"`
}

func (*JSONBodyMatcher) Type() part.Key { return MatcherJSONBody }
func (m *JSONBodyMatcher) Explain() string {
	return "with a JSON body equivalent to " + describeJSON(m.Body)
}
func (m *JSONBodyMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchJSONEqual(m.Body, req.Body)
}

// JSONBodyFlexibleMatcher matches JSON bodies that include Body.
type JSONBodyFlexibleMatcher struct {
	Body any `json:"body"`
}

func (*JSONBodyFlexibleMatcher) Type() part.Key { return MatcherJSONBodyMatching }
func (m *JSONBodyFlexibleMatcher) Explain() string {
	return "with a JSON body including " + describeJSON(m.Body)
}

// Matches requires every key of Body with a matching value, and every
// array element of Body somewhere in the matching array.
func (m *JSONBodyFlexibleMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchJSONSubset(m.Body, req.Body)
}

// CookieMatcher matches requests sending all the given cookies.
type CookieMatcher struct {
	Cookie map[string]string `json:"cookie"`
}

func (*CookieMatcher) Type() part.Key { return MatcherCookie }
func (m *CookieMatcher) Explain() string {
	return "with cookies including " + describeMap(m.Cookie)
}
func (m *CookieMatcher) Matches(req *traffic.Request) bool {
	return matching.MatchCookies(m.Cookie, req.Cookies())
}

func (m *CookieMatcher) Validate() error {
	if len(m.Cookie) == 0 {
		return &part.ConfigError{Field: "cookie", Message: "at least one cookie is required"}
	}
	return nil
}

// CallbackMatcher matches requests for which Condition evaluates to true.
// See matching.CompileCondition for the available variables.
type CallbackMatcher struct {
	Condition string `json:"condition"`
}

func (*CallbackMatcher) Type() part.Key { return MatcherCallback }
func (m *CallbackMatcher) Explain() string {
	return fmt.Sprintf("matching the condition `%s`", m.Condition)
}

// Matches reports false when the condition fails to compile or run.
func (m *CallbackMatcher) Matches(req *traffic.Request) bool {
	return matching.EvalCondition(m.Condition, req)
}

// Validate compiles the condition.
func (m *CallbackMatcher) Validate() error {
	if _, err := matching.CompileCondition(m.Condition); err != nil {
		return &part.ConfigError{Field: "condition", Message: err.Error()}
	}
	return nil
}

func describeMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", k, m[k])
	}
	return strings.Join(pairs, ", ")
}

func describeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
