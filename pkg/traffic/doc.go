// Package traffic defines the protocol-neutral request and response models
// that interception rules are evaluated against.
//
// A Request can be built directly with NewRequest, or from an inbound
// *http.Request with FromHTTP, which also detects WebSocket upgrades.
package traffic
