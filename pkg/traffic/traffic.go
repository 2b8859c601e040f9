package traffic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// MaxBodySize is the largest request body FromHTTP will buffer.
const MaxBodySize = 10 << 20

// ErrBodyTooLarge is returned by FromHTTP when the body exceeds MaxBodySize.
var ErrBodyTooLarge = errors.New("request body too large")

// Request is the protocol-neutral view of an intercepted request that rule
// matchers are evaluated against.
type Request struct {
	Method     string
	URL        *url.URL
	Header     http.Header
	Body       []byte
	RemoteAddr string

	// WebSocket is set when the request is a WebSocket upgrade.
	WebSocket bool
}

// Response is the protocol-neutral view of the response to a Request.
type Response struct {
	StatusCode    int
	StatusMessage string
	Header        http.Header
	Body          []byte
}

// NewRequest builds a Request for the given method and absolute URL.
func NewRequest(method, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q must be absolute", rawURL)
	}
	if method == "" {
		method = http.MethodGet
	}
	scheme := strings.ToLower(u.Scheme)
	return &Request{
		Method:    strings.ToUpper(method),
		URL:       u,
		Header:    make(http.Header),
		WebSocket: scheme == "ws" || scheme == "wss",
	}, nil
}

// FromHTTP converts an inbound server request into a Request. The body is
// read and restored so the caller can still consume it.
func FromHTTP(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(b) > MaxBodySize {
			return nil, ErrBodyTooLarge
		}
		r.Body = io.NopCloser(bytes.NewReader(b))
		body = b
	}

	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	isWS := websocket.IsWebSocketUpgrade(r)
	if u.Scheme == "" {
		switch {
		case isWS && r.TLS != nil:
			u.Scheme = "wss"
		case isWS:
			u.Scheme = "ws"
		case r.TLS != nil:
			u.Scheme = "https"
		default:
			u.Scheme = "http"
		}
	}

	return &Request{
		Method:     r.Method,
		URL:        &u,
		Header:     r.Header.Clone(),
		Body:       body,
		RemoteAddr: r.RemoteAddr,
		WebSocket:  isWS,
	}, nil
}

// Protocol returns the URL scheme in lower case ("http", "https", "ws", "wss").
func (r *Request) Protocol() string {
	if r.URL == nil {
		return ""
	}
	return strings.ToLower(r.URL.Scheme)
}

// Host returns the request host including any explicit port.
func (r *Request) Host() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Host
}

// Hostname returns the host without its port.
func (r *Request) Hostname() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Hostname()
}

// Port returns the explicit port, or the default port for the scheme.
func (r *Request) Port() string {
	if r.URL == nil {
		return ""
	}
	if p := r.URL.Port(); p != "" {
		return p
	}
	return DefaultPort(r.URL.Scheme)
}

// HostWithPort returns hostname:port with the default port filled in.
func (r *Request) HostWithPort() string {
	return net.JoinHostPort(r.Hostname(), r.Port())
}

// Path returns the URL path, "/" when empty.
func (r *Request) Path() string {
	if r.URL == nil || r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// URLWithoutQuery returns scheme://host/path.
func (r *Request) URLWithoutQuery() string {
	if r.URL == nil {
		return ""
	}
	u := *r.URL
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// Query returns the parsed query parameters.
func (r *Request) Query() url.Values {
	if r.URL == nil {
		return url.Values{}
	}
	return r.URL.Query()
}

// Cookies parses the Cookie headers.
func (r *Request) Cookies() []*http.Cookie {
	return (&http.Request{Header: r.Header}).Cookies()
}

// ContentType returns the media type of the body, lower-cased and
// without parameters.
func (r *Request) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// DefaultPort returns the well-known port for a scheme.
func DefaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "https", "wss":
		return "443"
	default:
		return "80"
	}
}
