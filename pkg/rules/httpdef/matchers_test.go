package httpdef

import (
	"net/http"
	"testing"

	"github.com/getmockd/mockrules/internal/matching"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, method, rawURL string) *traffic.Request {
	t.Helper()
	req, err := traffic.NewRequest(method, rawURL)
	require.NoError(t, err)
	return req
}

func TestMatchers_Matches(t *testing.T) {
	get := func(t *testing.T, rawURL string) *traffic.Request { return newRequest(t, "GET", rawURL) }

	withHeader := func(t *testing.T, key, value string) *traffic.Request {
		req := get(t, "https://example.com/")
		req.Header.Set(key, value)
		return req
	}
	withBody := func(t *testing.T, contentType, body string) *traffic.Request {
		req := newRequest(t, "POST", "https://example.com/submit")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Body = []byte(body)
		return req
	}

	tests := []struct {
		name    string
		matcher part.Matcher
		req     func(t *testing.T) *traffic.Request
		want    bool
	}{
		{"wildcard", &WildcardMatcher{}, func(t *testing.T) *traffic.Request { return get(t, "http://a.test/") }, true},
		{"default wildcard", &DefaultWildcardMatcher{}, func(t *testing.T) *traffic.Request { return get(t, "http://a.test/") }, true},
		{"am i using", &AmIUsingMatcher{}, func(t *testing.T) *traffic.Request {
			return get(t, "https://"+AmIUsingHostname+"/")
		}, true},
		{"am i using other host", &AmIUsingMatcher{}, func(t *testing.T) *traffic.Request { return get(t, "https://example.com/") }, false},

		{"method", &MethodMatcher{Method: "PUT"}, func(t *testing.T) *traffic.Request { return newRequest(t, "put", "http://a.test/") }, true},
		{"method shortcut mismatch", NewMethodShortcut("POST"), func(t *testing.T) *traffic.Request { return get(t, "http://a.test/") }, false},

		{"protocol", &ProtocolMatcher{Protocol: "https:"}, func(t *testing.T) *traffic.Request { return get(t, "https://a.test/") }, true},
		{"protocol mismatch", &ProtocolMatcher{Protocol: "https"}, func(t *testing.T) *traffic.Request { return get(t, "http://a.test/") }, false},

		{"host default port", &HostMatcher{Host: "example.com"}, func(t *testing.T) *traffic.Request { return get(t, "https://example.com/x") }, true},
		{"host explicit port", &HostMatcher{Host: "example.com:8443"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com:8443/x")
		}, true},
		{"host needs default port", &HostMatcher{Host: "example.com"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com:8443/x")
		}, false},
		{"hostname any port", &HostnameMatcher{Hostname: "Example.com"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com:8443/x")
		}, true},
		{"port", &PortMatcher{Port: 443}, func(t *testing.T) *traffic.Request { return get(t, "https://example.com/") }, true},
		{"port mismatch", &PortMatcher{Port: 8080}, func(t *testing.T) *traffic.Request { return get(t, "http://example.com/") }, false},

		{"simple path", &SimplePathMatcher{Path: "/api/users"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/api/users?page=2")
		}, true},
		{"simple path absolute url", &SimplePathMatcher{Path: "https://example.com/api"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/api")
		}, true},
		{"simple path other host", &SimplePathMatcher{Path: "https://example.com/api"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://other.com/api")
		}, false},
		{"regex path", &RegexPathMatcher{Regex: `^/users/\d+$`}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/users/42")
		}, true},
		{"regex path case insensitive", &RegexPathMatcher{Regex: `^/USERS`, Flags: "i"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/users/42")
		}, true},
		{"regex url", &RegexURLMatcher{Regex: `^https://[^/]+\.example\.com/`}, func(t *testing.T) *traffic.Request {
			return get(t, "https://api.example.com/v1")
		}, true},

		{"header", &HeaderMatcher{Headers: map[string]string{"x-api-key": "secret"}}, func(t *testing.T) *traffic.Request {
			return withHeader(t, "X-Api-Key", "secret")
		}, true},
		{"header value mismatch", &HeaderMatcher{Headers: map[string]string{"X-Api-Key": "secret"}}, func(t *testing.T) *traffic.Request {
			return withHeader(t, "X-Api-Key", "other")
		}, false},
		{"query", &QueryMatcher{Query: map[string]string{"page": "2"}}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/?page=2&sort=asc")
		}, true},
		{"query missing", &QueryMatcher{Query: map[string]string{"page": "2"}}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/?sort=asc")
		}, false},
		{"exact query", &ExactQueryMatcher{Query: "?a=1&b=2"}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/?a=1&b=2")
		}, true},
		{"exact query empty", &ExactQueryMatcher{}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/?a=1")
		}, false},

		{"form data", &FormDataMatcher{Form: map[string]string{"name": "ada"}}, func(t *testing.T) *traffic.Request {
			return withBody(t, "application/x-www-form-urlencoded", "name=ada&lang=go")
		}, true},
		{"form data wrong content type", &FormDataMatcher{Form: map[string]string{"name": "ada"}}, func(t *testing.T) *traffic.Request {
			return withBody(t, "text/plain", "name=ada")
		}, false},
		{"multipart", &MultipartFormDataMatcher{Fields: []matching.MultipartField{{Name: "file", Content: "hello"}}},
			func(t *testing.T) *traffic.Request {
				body := "--xyz\r\n" +
					"Content-Disposition: form-data; name=\"file\"; filename=\"a.txt\"\r\n\r\n" +
					"hello\r\n--xyz--\r\n"
				return withBody(t, "multipart/form-data; boundary=xyz", body)
			}, true},
		{"raw body", &RawBodyMatcher{Content: "ping"}, func(t *testing.T) *traffic.Request {
			return withBody(t, "", "ping")
		}, true},
		{"raw body partial", &RawBodyMatcher{Content: "ping"}, func(t *testing.T) *traffic.Request {
			return withBody(t, "", "ping pong")
		}, false},
		{"raw body regexp", &RawBodyRegexMatcher{Regex: `^ping \w+$`}, func(t *testing.T) *traffic.Request {
			return withBody(t, "", "ping pong")
		}, true},
		{"raw body includes", &RawBodyIncludesMatcher{Content: "pong"}, func(t *testing.T) *traffic.Request {
			return withBody(t, "", "ping pong")
		}, true},
		{"json body", &JSONBodyMatcher{Body: map[string]any{"a": 1.0, "b": []any{"x"}}}, func(t *testing.T) *traffic.Request {
			return withBody(t, "application/json", `{"b":["x"],"a":1}`)
		}, true},
		{"json body extra field", &JSONBodyMatcher{Body: map[string]any{"a": 1.0}}, func(t *testing.T) *traffic.Request {
			return withBody(t, "application/json", `{"a":1,"b":2}`)
		}, false},
		{"json body matching subset", &JSONBodyFlexibleMatcher{Body: map[string]any{"user": map[string]any{"role": "admin"}}},
			func(t *testing.T) *traffic.Request {
				return withBody(t, "application/json", `{"user":{"name":"ada","role":"admin"},"id":7}`)
			}, true},
		{"json body invalid", &JSONBodyFlexibleMatcher{Body: map[string]any{}}, func(t *testing.T) *traffic.Request {
			return withBody(t, "application/json", `{not json`)
		}, false},
		{"cookie", &CookieMatcher{Cookie: map[string]string{"session": "abc"}}, func(t *testing.T) *traffic.Request {
			return withHeader(t, "Cookie", "theme=dark; session=abc")
		}, true},
		{"callback", &CallbackMatcher{Condition: `method == "GET" && hostname == "example.com"`}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/")
		}, true},
		{"callback false", &CallbackMatcher{Condition: `path startsWith "/admin"`}, func(t *testing.T) *traffic.Request {
			return get(t, "https://example.com/")
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.Matches(tt.req(t)))
		})
	}
}

func TestMethodMatcher_ShortcutKey(t *testing.T) {
	assert.Equal(t, MatcherMethod, (&MethodMatcher{Method: "GET"}).Type())
	assert.Equal(t, MatcherGet, NewMethodShortcut("get").Type())
	assert.Equal(t, MatcherOptions, Options.New().Type())

	for i, cls := range MethodMatchers() {
		assert.Equal(t, part.Key(Methods[i]), cls.Key)
	}
}

func TestRegexPathMatcher_Captures(t *testing.T) {
	m := &RegexPathMatcher{Regex: `^/users/(?P<id>\d+)$`}
	got := m.Captures(newRequest(t, "GET", "https://example.com/users/42"))
	assert.Equal(t, "42", got["id"])
}

func TestMatchers_Validate(t *testing.T) {
	tests := []struct {
		name      string
		matcher   part.Validator
		wantField string
	}{
		{"method ok", &MethodMatcher{Method: "PATCH"}, ""},
		{"method empty", &MethodMatcher{}, "method"},
		{"method with space", &MethodMatcher{Method: "GET X"}, "method"},
		{"protocol ok", &ProtocolMatcher{Protocol: "wss:"}, ""},
		{"protocol unsupported", &ProtocolMatcher{Protocol: "ftp"}, "protocol"},
		{"host ok", &HostMatcher{Host: "example.com:8080"}, ""},
		{"host empty", &HostMatcher{}, "host"},
		{"host with path", &HostMatcher{Host: "example.com/api"}, "host"},
		{"hostname with port", &HostnameMatcher{Hostname: "example.com:80"}, "hostname"},
		{"port out of range", &PortMatcher{Port: 70000}, "port"},
		{"path ok", &SimplePathMatcher{Path: "/api"}, ""},
		{"path absolute url ok", &SimplePathMatcher{Path: "https://example.com/api"}, ""},
		{"path with query", &SimplePathMatcher{Path: "/api?x=1"}, "path"},
		{"path relative", &SimplePathMatcher{Path: "api"}, "path"},
		{"regex path broken", &RegexPathMatcher{Regex: "("}, "regexSource"},
		{"regex path bad flag", &RegexPathMatcher{Regex: "a", Flags: "g"}, "regexSource"},
		{"regex url empty", &RegexURLMatcher{}, "regexSource"},
		{"raw body regexp broken", &RawBodyRegexMatcher{Regex: "[a-"}, "regexString"},
		{"headers empty", &HeaderMatcher{}, "headers"},
		{"header name invalid", &HeaderMatcher{Headers: map[string]string{"bad name": "x"}}, "headers"},
		{"query empty", &QueryMatcher{}, "queryObject"},
		{"exact query no prefix", &ExactQueryMatcher{Query: "a=1"}, "query"},
		{"exact query empty ok", &ExactQueryMatcher{}, ""},
		{"multipart empty", &MultipartFormDataMatcher{}, "matchConditions"},
		{"raw body includes empty", &RawBodyIncludesMatcher{}, "content"},
		{"cookie empty", &CookieMatcher{}, "cookie"},
		{"callback ok", &CallbackMatcher{Condition: `websocket == false`}, ""},
		{"callback does not compile", &CallbackMatcher{Condition: `method ==`}, "condition"},
		{"callback not boolean", &CallbackMatcher{Condition: `method`}, "condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.matcher.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *part.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestMatchers_Explain(t *testing.T) {
	assert.Equal(t, "for any requests", (&WildcardMatcher{}).Explain())
	assert.Equal(t, "for POST requests", NewMethodShortcut("POST").Explain())
	assert.Equal(t, "for HTTPS requests", (&ProtocolMatcher{Protocol: "https:"}).Explain())
	assert.Equal(t, "with headers including a=1, b=2",
		(&HeaderMatcher{Headers: map[string]string{"b": "2", "a": "1"}}).Explain())
	assert.Equal(t, "with no query string", (&ExactQueryMatcher{}).Explain())
	assert.Equal(t, `with a JSON body equivalent to {"a":1}`,
		(&JSONBodyMatcher{Body: map[string]any{"a": 1}}).Explain())
}

func TestClasses_ProduceFreshInstances(t *testing.T) {
	for _, cls := range append(Matchers(), Handlers()...) {
		a, b := cls.New(), cls.New()
		assert.Equal(t, cls.Key, a.Type())
		assert.Equal(t, part.ProtocolHTTP, cls.Protocol)
		assert.NotEmpty(t, cls.Label, cls.Key)
		assert.Equal(t, a, b)
	}

	h := Header.New().(*HeaderMatcher)
	h.Headers["x"] = "1"
	assert.Empty(t, Header.New().(*HeaderMatcher).Headers)
}

func TestMatchers_HeaderValuesAreExact(t *testing.T) {
	req := newRequest(t, "GET", "https://example.com/")
	req.Header = http.Header{"Accept": {"text/html", "application/json"}}
	m := &HeaderMatcher{Headers: map[string]string{"Accept": "application/json"}}
	assert.True(t, m.Matches(req))
}
