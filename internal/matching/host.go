package matching

import (
	"net"
	"strings"
)

// MatchHost compares an expected host against the request host. An
// expected host without a port only matches requests on the scheme's
// default port; with a port, the ports must be equal.
func MatchHost(expected, hostname, port, defaultPort string) bool {
	if expected == "" {
		return false
	}
	h, p, err := net.SplitHostPort(expected)
	if err != nil {
		h, p = expected, defaultPort
	}
	return strings.EqualFold(h, hostname) && p == port
}

// MatchHostname compares hostnames case-insensitively, ignoring any port
// and a trailing dot.
func MatchHostname(expected, hostname string) bool {
	if expected == "" {
		return false
	}
	norm := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(s), ".")
	}
	return norm(expected) == norm(hostname)
}

// MatchPort compares an expected port number against the request port.
func MatchPort(expected, port string) bool {
	return expected != "" && expected == port
}

// MatchProtocol compares an expected protocol ("http", "https", "ws",
// "wss") against the request scheme, accepting a trailing colon.
func MatchProtocol(expected, scheme string) bool {
	expected = strings.TrimSuffix(strings.ToLower(expected), ":")
	return expected != "" && expected == strings.ToLower(scheme)
}
