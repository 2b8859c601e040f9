package rules

import (
	"testing"

	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/rules/wsdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MergedRegistriesAreDisjointUnions(t *testing.T) {
	c := Default

	httpM := c.MatcherRegistry(part.ProtocolHTTP)
	wsM := c.MatcherRegistry(part.ProtocolWebSocket)
	assert.Equal(t, httpM.Len()+wsM.Len(), c.Matchers().Len())

	httpH := c.HandlerRegistry(part.ProtocolHTTP)
	wsH := c.HandlerRegistry(part.ProtocolWebSocket)
	assert.Equal(t, httpH.Len()+wsH.Len(), c.Handlers().Len())

	for _, key := range wsM.Keys() {
		assert.False(t, httpM.Has(key), "matcher key %q registered for both protocols", key)
	}
	for _, key := range wsH.Keys() {
		assert.False(t, httpH.Has(key), "handler key %q registered for both protocols", key)
	}
}

func TestDefault_ReverseLookupRoundTrips(t *testing.T) {
	for _, reg := range []*part.Registry{Default.Matchers(), Default.Handlers()} {
		for _, e := range reg.Entries() {
			var got part.Key
			if e.Class.Role == part.RoleMatcher {
				got = MatcherKey(e.Class)
			} else {
				got = HandlerKey(e.Class)
			}
			assert.Equal(t, e.Key, got)

			cls, ok := reg.Get(got)
			require.True(t, ok)
			assert.Same(t, e.Class, cls)
		}
	}
}

func TestCatalog_LookupsAreReadOnlyViews(t *testing.T) {
	lookup := Default.MatcherLookup()
	assert.Positive(t, lookup.Len())

	key, ok := lookup.Key(httpdef.Host)
	require.True(t, ok)
	assert.Equal(t, httpdef.MatcherHost, key)

	// Replacing the caller's copy leaves the catalog untouched.
	lookup = part.NewReverseLookup()
	assert.Zero(t, lookup.Len())
	assert.Equal(t, httpdef.MatcherHost, MatcherKey(httpdef.Host))
	assert.Equal(t, httpdef.MatcherSimplePath, Default.MatcherLookup().MustKey(httpdef.SimplePath))
	assert.NotPanics(t, func() { AvailableAdditionalMatchers(part.ProtocolHTTP, "") })

	handlers := Default.HandlerLookup()
	assert.Equal(t, httpdef.HandlerSimple, handlers.MustKey(httpdef.StaticResponse))
	_, ok = handlers.Key(httpdef.Host)
	assert.False(t, ok)
}

func TestDefault_InstancesReportTheirKey(t *testing.T) {
	for _, reg := range []*part.Registry{Default.Matchers(), Default.Handlers()} {
		for _, e := range reg.Entries() {
			assert.Equal(t, e.Key, e.Class.New().Type())
		}
	}
}

func TestMatcherKey(t *testing.T) {
	assert.Equal(t, httpdef.MatcherGet, MatcherKey(httpdef.Get))
	assert.Equal(t, httpdef.MatcherSimplePath, MatcherKey(httpdef.SimplePath))
	assert.Equal(t, wsdef.MatcherHost, MatcherKey(wsdef.Host))
	assert.Equal(t, httpdef.HandlerSimple, HandlerKey(httpdef.StaticResponse))
	assert.Equal(t, wsdef.HandlerEcho, HandlerKey(wsdef.Echo))
}

func TestMatcherKey_UnknownClassPanics(t *testing.T) {
	stray := &part.Class{Key: "stray", Protocol: part.ProtocolHTTP, Role: part.RoleMatcher}
	assert.Panics(t, func() { MatcherKey(stray) })

	// A handler class is not in the matcher lookup.
	assert.Panics(t, func() { MatcherKey(httpdef.StaticResponse) })
}

func TestInitialMatchers(t *testing.T) {
	initial := InitialMatchers()
	require.Len(t, initial, 8)
	assert.Same(t, httpdef.Wildcard, initial[0])

	for _, cls := range httpdef.MethodMatchers() {
		assert.True(t, IsInitialMatcher(cls), cls.Key)
	}
	assert.True(t, IsInitialMatcher(httpdef.Wildcard))

	assert.False(t, IsInitialMatcher(httpdef.Method))
	assert.False(t, IsInitialMatcher(httpdef.DefaultWildcard))
	assert.False(t, IsInitialMatcher(httpdef.SimplePath))
	assert.False(t, IsInitialMatcher(wsdef.Wildcard))
}

func TestInitialMatchers_ReturnsCopy(t *testing.T) {
	initial := InitialMatchers()
	initial[0] = httpdef.SimplePath
	assert.Same(t, httpdef.Wildcard, InitialMatchers()[0])
}

func TestIsStartingMatcher(t *testing.T) {
	c := Default
	assert.True(t, c.IsStartingMatcher(part.ProtocolHTTP, httpdef.Wildcard))
	assert.True(t, c.IsStartingMatcher(part.ProtocolHTTP, httpdef.Post))
	assert.True(t, c.IsStartingMatcher(part.ProtocolHTTP, httpdef.DefaultWildcard))
	assert.True(t, c.IsStartingMatcher(part.ProtocolHTTP, httpdef.AmIUsing))
	assert.False(t, c.IsStartingMatcher(part.ProtocolHTTP, httpdef.Host))
	assert.False(t, c.IsStartingMatcher(part.ProtocolHTTP, wsdef.Wildcard))

	assert.True(t, c.IsStartingMatcher(part.ProtocolWebSocket, wsdef.Wildcard))
	assert.True(t, c.IsStartingMatcher(part.ProtocolWebSocket, wsdef.DefaultWildcard))
	assert.False(t, c.IsStartingMatcher(part.ProtocolWebSocket, httpdef.Wildcard))
}

func TestVersionRequirement(t *testing.T) {
	rng, ok := Default.VersionRequirement(httpdef.MatcherHost)
	require.True(t, ok)
	assert.Equal(t, ">=1.5.0", rng)

	_, ok = Default.VersionRequirement(httpdef.MatcherSimplePath)
	assert.False(t, ok)

	assert.True(t, Default.Supports(httpdef.MatcherSimplePath, "0.1.0"))
	assert.True(t, Default.Supports(httpdef.MatcherHost, ""))
	assert.False(t, Default.Supports(httpdef.MatcherHost, "1.4.9"))
	assert.True(t, Default.Supports(httpdef.MatcherHost, "1.5.0"))
	assert.False(t, Default.Supports(httpdef.MatcherHost, "garbage"))
}

func TestNewCatalog_Panics(t *testing.T) {
	base := func() Definitions {
		return Definitions{
			HTTPMatchers:      []*part.Class{httpdef.Wildcard, httpdef.Host},
			HTTPHandlers:      []*part.Class{httpdef.PassThrough, httpdef.StaticResponse},
			WebSocketMatchers: []*part.Class{wsdef.Wildcard},
			WebSocketHandlers: []*part.Class{wsdef.Echo},
			InitialMatchers:   []*part.Class{httpdef.Wildcard},
		}
	}

	assert.NotPanics(t, func() { NewCatalog(base()) })

	tests := []struct {
		name   string
		mutate func(d *Definitions)
	}{
		{"duplicate key", func(d *Definitions) {
			d.HTTPMatchers = append(d.HTTPMatchers, httpdef.Wildcard)
		}},
		{"wrong protocol", func(d *Definitions) {
			d.HTTPMatchers = append(d.HTTPMatchers, wsdef.Host)
		}},
		{"wrong role", func(d *Definitions) {
			d.HTTPMatchers = append(d.HTTPMatchers, httpdef.Timeout)
		}},
		{"cross-protocol collision", func(d *Definitions) {
			d.WebSocketMatchers = append(d.WebSocketMatchers, &part.Class{
				Key: httpdef.MatcherWildcard, Protocol: part.ProtocolWebSocket, Role: part.RoleMatcher,
				New: func() part.Part { return &httpdef.WildcardMatcher{} },
			})
		}},
		{"instance reports another key", func(d *Definitions) {
			d.HTTPMatchers = append(d.HTTPMatchers, &part.Class{
				Key: "liar", Protocol: part.ProtocolHTTP, Role: part.RoleMatcher,
				New: func() part.Part { return &httpdef.WildcardMatcher{} },
			})
		}},
		{"handlers sharing a type", func(d *Definitions) {
			d.HTTPHandlers = append(d.HTTPHandlers, &part.Class{
				Key: httpdef.HandlerSimple + "-copy", Protocol: part.ProtocolHTTP, Role: part.RoleHandler,
				New: func() part.Part { return &copiedHandler{} },
			}, &part.Class{
				Key: httpdef.HandlerSimple + "-copy2", Protocol: part.ProtocolHTTP, Role: part.RoleHandler,
				New: func() part.Part { return &copiedHandler{key: httpdef.HandlerSimple + "-copy2"} },
			})
		}},
		{"unregistered initial matcher", func(d *Definitions) {
			d.InitialMatchers = append(d.InitialMatchers, httpdef.Get)
		}},
		{"unregistered starting matcher", func(d *Definitions) {
			d.StartingMatchers = map[part.Protocol][]*part.Class{part.ProtocolWebSocket: {httpdef.Wildcard}}
		}},
		{"unregistered hidden matcher", func(d *Definitions) {
			d.HiddenMatchers = []part.Key{"nope"}
		}},
		{"unregistered hidden handler", func(d *Definitions) {
			d.HiddenHandlers = []part.Key{"nope"}
		}},
		{"unregistered version requirement", func(d *Definitions) {
			d.VersionRequirements = map[part.Key]string{"nope": ">=1.0.0"}
		}},
		{"invalid version range", func(d *Definitions) {
			d.VersionRequirements = map[part.Key]string{httpdef.MatcherHost: "not a range"}
		}},
		{"unregistered paid handler", func(d *Definitions) {
			d.PaidHandlers = []*part.Class{httpdef.Timeout}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := base()
			tt.mutate(&defs)
			assert.Panics(t, func() { NewCatalog(defs) })
		})
	}
}

type copiedHandler struct{ key part.Key }

func (h *copiedHandler) Type() part.Key {
	if h.key == "" {
		return httpdef.HandlerSimple + "-copy"
	}
	return h.key
}
func (*copiedHandler) Explain() string     { return "copy" }
func (*copiedHandler) Action() part.Action { return part.ActionRespond }
