// Package matching provides the request matching primitives behind rule
// matchers.
//
// Each function answers one question about a request:
//
//   - Path matching: exact paths, wildcard patterns, named parameters, and regexes
//   - Host matching: host with port, hostname, port, and protocol
//   - Header, cookie and query parameter matching
//   - Body matching: exact, contains, regex, urlencoded and multipart forms
//   - JSON body matching: deep equality and subset matching
//   - Conditions: boolean expressions evaluated over the whole request
//
// Compiled regular expressions and condition programs are cached, so the
// functions are cheap to call repeatedly and safe for concurrent use.
package matching
