package rules

import (
	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/getmockd/mockrules/pkg/rules/part"
	"github.com/getmockd/mockrules/pkg/rules/wsdef"
	"github.com/getmockd/mockrules/pkg/serverversion"
)

// Definitions are the inputs a Catalog is built from.
type Definitions struct {
	HTTPMatchers      []*part.Class
	HTTPHandlers      []*part.Class
	WebSocketMatchers []*part.Class
	WebSocketHandlers []*part.Class

	// InitialMatchers are offered when a rule is created and are never
	// listed as additional matchers.
	InitialMatchers []*part.Class

	// StartingMatchers may appear first in a rule of the given protocol.
	StartingMatchers map[part.Protocol][]*part.Class

	// HiddenMatchers and HiddenHandlers are never offered for selection.
	HiddenMatchers []part.Key
	HiddenHandlers []part.Key

	// VersionRequirements maps part keys to the server version range that
	// supports them.
	VersionRequirements map[part.Key]string

	// PaidHandlers are the handler classes that need a paid account.
	PaidHandlers []*part.Class
}

// DefaultDefinitions returns the built-in HTTP and WebSocket definitions.
func DefaultDefinitions() Definitions {
	initial := append([]*part.Class{httpdef.Wildcard}, httpdef.MethodMatchers()...)

	httpStarting := append([]*part.Class{}, initial...)
	httpStarting = append(httpStarting, httpdef.DefaultWildcard, httpdef.AmIUsing)

	return Definitions{
		HTTPMatchers:      httpdef.Matchers(),
		HTTPHandlers:      httpdef.Handlers(),
		WebSocketMatchers: wsdef.Matchers(),
		WebSocketHandlers: wsdef.Handlers(),

		InitialMatchers: initial,
		StartingMatchers: map[part.Protocol][]*part.Class{
			part.ProtocolHTTP:      httpStarting,
			part.ProtocolWebSocket: {wsdef.Wildcard, wsdef.DefaultWildcard},
		},

		HiddenMatchers: []part.Key{
			httpdef.MatcherCallback,
			httpdef.MatcherAmIUsing,
			httpdef.MatcherDefaultWildcard,
			httpdef.MatcherMethod,
			httpdef.MatcherMultipartFormData,
			httpdef.MatcherRawBodyRegexp,
			httpdef.MatcherHostname,
			httpdef.MatcherPort,
			httpdef.MatcherProtocol,
			httpdef.MatcherFormData,
			httpdef.MatcherCookie,
			wsdef.MatcherDefaultWildcard,
			wsdef.MatcherCallback,
			wsdef.MatcherHostname,
			wsdef.MatcherPort,
			wsdef.MatcherCookie,
		},
		HiddenHandlers: []part.Key{
			wsdef.HandlerReject,
			wsdef.HandlerListen,
			wsdef.HandlerEcho,
			httpdef.HandlerCallback,
			httpdef.HandlerStream,
		},

		VersionRequirements: map[part.Key]string{
			httpdef.MatcherHost:             serverversion.HostMatcherServerRange,
			wsdef.MatcherHost:               serverversion.HostMatcherServerRange,
			httpdef.MatcherRawBody:          serverversion.BodyMatchingRange,
			httpdef.MatcherRawBodyRegexp:    serverversion.BodyMatchingRange,
			httpdef.MatcherRawBodyIncludes:  serverversion.BodyMatchingRange,
			httpdef.MatcherJSONBody:         serverversion.BodyMatchingRange,
			httpdef.MatcherJSONBodyMatching: serverversion.BodyMatchingRange,
			httpdef.HandlerFile:             serverversion.FromFileHandlerServerRange,
			httpdef.HandlerTransformer:      serverversion.PassthroughTransformsRange,
		},

		PaidHandlers: []*part.Class{
			httpdef.StaticResponse,
			httpdef.FromFileResponse,
			httpdef.ForwardToHost,
			httpdef.Transforming,
			httpdef.Timeout,
			httpdef.CloseConnection,
			wsdef.Timeout,
			wsdef.CloseConnection,
		},
	}
}
