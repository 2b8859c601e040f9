package rules

import (
	"fmt"
	"reflect"

	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/serverversion"
)

// Catalog holds the immutable registries and tables describing every rule
// part, and answers the lookup, filtering and classification questions a
// rule editor asks. A Catalog is safe for concurrent use.
type Catalog struct {
	matchersByProtocol map[part.Protocol]*part.Registry
	handlersByProtocol map[part.Protocol]*part.Registry

	matchers *part.Registry
	handlers *part.Registry

	matcherLookup part.ReverseLookup
	handlerLookup part.ReverseLookup

	initial     []*part.Class
	initialSet  map[*part.Class]bool
	starting    map[part.Protocol]map[*part.Class]bool
	hiddenMatch map[part.Key]bool
	hiddenHand  map[part.Key]bool
	versions    map[part.Key]string

	paid      []*part.Class
	paidSet   map[*part.Class]bool
	paidTypes map[reflect.Type]bool
}

// Default is the catalog of built-in HTTP and WebSocket parts.
var Default = NewCatalog(DefaultDefinitions())

// NewCatalog builds a catalog from defs. Inconsistent definitions are
// programming errors and panic: a key registered twice, a class whose
// instances report a different key, a class listed under the wrong
// protocol or role, two handler classes sharing a Go type, a table entry
// for an unregistered part, or a version range that does not parse.
func NewCatalog(defs Definitions) *Catalog {
	httpMatchers := buildRegistry(defs.HTTPMatchers, part.ProtocolHTTP, part.RoleMatcher)
	wsMatchers := buildRegistry(defs.WebSocketMatchers, part.ProtocolWebSocket, part.RoleMatcher)
	httpHandlers := buildRegistry(defs.HTTPHandlers, part.ProtocolHTTP, part.RoleHandler)
	wsHandlers := buildRegistry(defs.WebSocketHandlers, part.ProtocolWebSocket, part.RoleHandler)

	c := &Catalog{
		matchersByProtocol: map[part.Protocol]*part.Registry{
			part.ProtocolHTTP:      httpMatchers,
			part.ProtocolWebSocket: wsMatchers,
		},
		handlersByProtocol: map[part.Protocol]*part.Registry{
			part.ProtocolHTTP:      httpHandlers,
			part.ProtocolWebSocket: wsHandlers,
		},
		matchers:      part.Merge(httpMatchers, wsMatchers),
		handlers:      part.Merge(httpHandlers, wsHandlers),
		matcherLookup: part.NewReverseLookup(httpMatchers, wsMatchers),
		handlerLookup: part.NewReverseLookup(httpHandlers, wsHandlers),
		initialSet:    make(map[*part.Class]bool),
		starting:      make(map[part.Protocol]map[*part.Class]bool),
		hiddenMatch:   make(map[part.Key]bool),
		hiddenHand:    make(map[part.Key]bool),
		versions:      make(map[part.Key]string),
		paidSet:       make(map[*part.Class]bool),
		paidTypes:     make(map[reflect.Type]bool),
	}

	handlerTypes := make(map[reflect.Type]part.Key)
	for _, cls := range c.handlers.Classes() {
		t := cls.GoType()
		if other, dup := handlerTypes[t]; dup {
			panic(fmt.Sprintf("rules: handler classes %q and %q share type %v", other, cls.Key, t))
		}
		handlerTypes[t] = cls.Key
	}

	for _, cls := range defs.InitialMatchers {
		if _, ok := httpMatchers.Get(cls.Key); !ok {
			panic(fmt.Sprintf("rules: initial matcher %q is not an HTTP matcher", cls.Key))
		}
		c.initial = append(c.initial, cls)
		c.initialSet[cls] = true
	}

	for p, classes := range defs.StartingMatchers {
		set := make(map[*part.Class]bool, len(classes))
		for _, cls := range classes {
			if _, ok := c.matcherLookup.Key(cls); cls.Protocol != p || !ok {
				panic(fmt.Sprintf("rules: starting matcher %q is not a registered %s matcher", cls.Key, p))
			}
			set[cls] = true
		}
		c.starting[p] = set
	}

	for _, key := range defs.HiddenMatchers {
		if !c.matchers.Has(key) {
			panic(fmt.Sprintf("rules: hidden matcher %q is not registered", key))
		}
		c.hiddenMatch[key] = true
	}
	for _, key := range defs.HiddenHandlers {
		if !c.handlers.Has(key) {
			panic(fmt.Sprintf("rules: hidden handler %q is not registered", key))
		}
		c.hiddenHand[key] = true
	}

	for key, rng := range defs.VersionRequirements {
		if !c.matchers.Has(key) && !c.handlers.Has(key) {
			panic(fmt.Sprintf("rules: version requirement for unregistered part %q", key))
		}
		if !serverversion.ValidConstraint(rng) {
			panic(fmt.Sprintf("rules: invalid version range %q for %q", rng, key))
		}
		c.versions[key] = rng
	}

	for _, cls := range defs.PaidHandlers {
		if _, ok := c.handlerLookup.Key(cls); !ok {
			panic(fmt.Sprintf("rules: paid handler %q is not registered", cls.Key))
		}
		c.paid = append(c.paid, cls)
		c.paidSet[cls] = true
		c.paidTypes[cls.GoType()] = true
	}

	return c
}

func buildRegistry(classes []*part.Class, p part.Protocol, role part.Role) *part.Registry {
	for _, cls := range classes {
		if cls.Protocol != p || cls.Role != role {
			panic(fmt.Sprintf("rules: class %q is a %s %s, listed as a %s %s",
				cls.Key, cls.Protocol, cls.Role, p, role))
		}
		inst := cls.New()
		if inst.Type() != cls.Key {
			panic(fmt.Sprintf("rules: class %q produces parts of type %q", cls.Key, inst.Type()))
		}
		switch role {
		case part.RoleMatcher:
			if _, ok := inst.(part.Matcher); !ok {
				panic(fmt.Sprintf("rules: class %q does not produce a matcher", cls.Key))
			}
		case part.RoleHandler:
			if _, ok := inst.(part.Handler); !ok {
				panic(fmt.Sprintf("rules: class %q does not produce a handler", cls.Key))
			}
		}
	}
	return part.NewRegistry(part.EntriesOf(classes...)...)
}

// MatcherRegistry returns the matcher registry for p, or nil for an
// unknown protocol.
func (c *Catalog) MatcherRegistry(p part.Protocol) *part.Registry {
	return c.matchersByProtocol[p]
}

// HandlerRegistry returns the handler registry for p, or nil for an
// unknown protocol.
func (c *Catalog) HandlerRegistry(p part.Protocol) *part.Registry {
	return c.handlersByProtocol[p]
}

// Matchers returns the merged matcher registry of every protocol.
func (c *Catalog) Matchers() *part.Registry { return c.matchers }

// Handlers returns the merged handler registry of every protocol.
func (c *Catalog) Handlers() *part.Registry { return c.handlers }

// MatcherLookup returns the reverse lookup over every matcher class.
func (c *Catalog) MatcherLookup() part.ReverseLookup { return c.matcherLookup }

// HandlerLookup returns the reverse lookup over every handler class.
func (c *Catalog) HandlerLookup() part.ReverseLookup { return c.handlerLookup }

// MatcherKey returns the key of a matcher class. It panics when the class
// is not registered.
func (c *Catalog) MatcherKey(cls *part.Class) part.Key { return c.matcherLookup.MustKey(cls) }

// HandlerKey returns the key of a handler class. It panics when the class
// is not registered.
func (c *Catalog) HandlerKey(cls *part.Class) part.Key { return c.handlerLookup.MustKey(cls) }

// MatcherClass returns the matcher class registered under key.
func (c *Catalog) MatcherClass(key part.Key) (*part.Class, bool) { return c.matchers.Get(key) }

// HandlerClass returns the handler class registered under key.
func (c *Catalog) HandlerClass(key part.Key) (*part.Class, bool) { return c.handlers.Get(key) }

// InitialMatchers returns the matchers offered when a rule is created.
func (c *Catalog) InitialMatchers() []*part.Class {
	out := make([]*part.Class, len(c.initial))
	copy(out, c.initial)
	return out
}

// IsInitialMatcher reports whether cls is one of the initial matchers.
func (c *Catalog) IsInitialMatcher(cls *part.Class) bool { return c.initialSet[cls] }

// IsStartingMatcher reports whether cls may be the first matcher of a rule
// of protocol p.
func (c *Catalog) IsStartingMatcher(p part.Protocol, cls *part.Class) bool {
	return c.starting[p][cls]
}

// IsHiddenMatcher reports whether the matcher key is hidden from selection.
func (c *Catalog) IsHiddenMatcher(key part.Key) bool { return c.hiddenMatch[key] }

// IsHiddenHandler reports whether the handler key is hidden from selection.
func (c *Catalog) IsHiddenHandler(key part.Key) bool { return c.hiddenHand[key] }

// VersionRequirement returns the server version range key needs, if any.
func (c *Catalog) VersionRequirement(key part.Key) (string, bool) {
	rng, ok := c.versions[key]
	return rng, ok
}

// Supports reports whether a server at serverVersion supports key. An
// empty serverVersion supports everything.
func (c *Catalog) Supports(key part.Key, serverVersion string) bool {
	rng, ok := c.versions[key]
	if !ok {
		return true
	}
	return serverversion.Satisfies(serverVersion, rng)
}
