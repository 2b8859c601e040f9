// Package rules classifies and filters the parts of interception rules.
//
// A Catalog is built once from static Definitions and answers the
// questions a rule editor asks:
//
//   - which key a part class is registered under, and the reverse
//   - which matchers may start a rule (the initial matchers)
//   - which additional matchers and handlers to offer for a protocol, given
//     the proxy server's version
//   - whether a handler needs a paid account
//
// Default is the catalog of built-in HTTP and WebSocket parts, and the
// package-level functions delegate to it.
//
// Rules themselves are HTTPRule or WebSocketRule values. IsHTTPRule and
// IsWebSocketRule discriminate them; Matches, FirstMatch and Validate
// evaluate them; DecodeRule, EncodeRule, DecodeRuleSet and EncodeRuleSet
// move them to and from JSON and YAML documents.
package rules
