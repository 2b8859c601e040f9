// Package wsdef declares the WebSocket rule parts. Most matchers and the
// forwarding handlers reuse the HTTP implementations from httpdef under
// ws- prefixed keys.
package wsdef
