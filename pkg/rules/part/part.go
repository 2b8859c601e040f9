package part

import (
	"fmt"
	"reflect"

	"github.com/getmockd/mockrules/pkg/traffic"
)

// Protocol identifies the traffic a rule part applies to.
type Protocol string

// Supported protocols.
const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
)

// Protocols lists every supported protocol in declaration order.
var Protocols = []Protocol{ProtocolHTTP, ProtocolWebSocket}

// Valid reports whether p is a supported protocol.
func (p Protocol) Valid() bool {
	return p == ProtocolHTTP || p == ProtocolWebSocket
}

// Role distinguishes request matchers from response handlers.
type Role string

// Part roles.
const (
	RoleMatcher Role = "matcher"
	RoleHandler Role = "handler"
)

// Key is the stable string identifier of a part class, used for
// serialization and lookups.
type Key string

// Part is an instance of a rule part. Every instance reports the key of
// the class that produced it.
type Part interface {
	Type() Key
	Explain() string
}

// Matcher decides whether a request is selected by a rule.
type Matcher interface {
	Part
	Matches(req *traffic.Request) bool
}

// Action describes what a handler does with a matched request.
type Action string

// Handler actions.
const (
	ActionRespond    Action = "respond"
	ActionForward    Action = "forward"
	ActionTransform  Action = "transform"
	ActionBreakpoint Action = "breakpoint"
	ActionClose      Action = "close"
	ActionReset      Action = "reset"
	ActionTimeout    Action = "timeout"
	ActionReject     Action = "reject"
	ActionEcho       Action = "echo"
	ActionListen     Action = "listen"
	ActionStream     Action = "stream"
	ActionCallback   Action = "callback"
)

// Handler decides what happens to a matched request.
type Handler interface {
	Part
	Action() Action
}

// Validator is implemented by parts whose configuration can be invalid.
type Validator interface {
	Validate() error
}

// Class is a constructible kind of rule part. The class pointer is its
// identity; Key is its discriminant.
type Class struct {
	Key      Key
	Protocol Protocol
	Role     Role
	Label    string

	// New returns a fresh, default-configured instance.
	New func() Part
}

// GoType returns the dynamic type of the instances the class produces.
func (c *Class) GoType() reflect.Type {
	return reflect.TypeOf(c.New())
}

// String returns the class key.
func (c *Class) String() string {
	return string(c.Key)
}

// ConfigError reports an invalid field in a part's configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
