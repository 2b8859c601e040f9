package rules

import (
	"github.com/getmockd/mockrules/pkg/rules/part"
)

// AvailableAdditionalMatchers returns the matcher classes a user can add
// to a rule of protocol p, in declaration order. Initial matchers, hidden
// matchers, and matchers the server at serverVersion does not support are
// left out. An empty serverVersion means the version is unknown, which
// supports everything. An unknown protocol yields an empty list.
func (c *Catalog) AvailableAdditionalMatchers(p part.Protocol, serverVersion string) []*part.Class {
	reg := c.MatcherRegistry(p)
	if reg == nil {
		return []*part.Class{}
	}

	out := make([]*part.Class, 0, reg.Len())
	for _, cls := range reg.Classes() {
		key := c.MatcherKey(cls)
		if c.IsInitialMatcher(cls) {
			continue
		}
		if c.IsHiddenMatcher(key) {
			continue
		}
		if !c.Supports(key, serverVersion) {
			continue
		}
		out = append(out, cls)
	}
	return out
}

// AvailableHandlers returns the handler classes a user can choose for a
// rule of protocol p, in declaration order, leaving out hidden handlers and
// handlers the server at serverVersion does not support.
func (c *Catalog) AvailableHandlers(p part.Protocol, serverVersion string) []*part.Class {
	reg := c.HandlerRegistry(p)
	if reg == nil {
		return []*part.Class{}
	}

	out := make([]*part.Class, 0, reg.Len())
	for _, cls := range reg.Classes() {
		key := c.HandlerKey(cls)
		if c.IsHiddenHandler(key) {
			continue
		}
		if !c.Supports(key, serverVersion) {
			continue
		}
		out = append(out, cls)
	}
	return out
}

// ClassInfo summarizes how the catalog classifies a part class.
type ClassInfo struct {
	Key       part.Key      `json:"key"`
	Protocol  part.Protocol `json:"protocol"`
	Role      part.Role     `json:"role"`
	Label     string        `json:"label"`
	Initial   bool          `json:"initial,omitempty"`
	Hidden    bool          `json:"hidden,omitempty"`
	Paid      bool          `json:"paid,omitempty"`
	Requires  string        `json:"requires,omitempty"`
	Supported bool          `json:"supported"`
	Available bool          `json:"available"`
}

// Describe returns a ClassInfo for every class of role and protocol p, in
// declaration order, evaluated against serverVersion.
func (c *Catalog) Describe(role part.Role, p part.Protocol, serverVersion string) []ClassInfo {
	var (
		reg       *part.Registry
		available []*part.Class
	)
	switch role {
	case part.RoleMatcher:
		reg = c.MatcherRegistry(p)
		available = c.AvailableAdditionalMatchers(p, serverVersion)
	case part.RoleHandler:
		reg = c.HandlerRegistry(p)
		available = c.AvailableHandlers(p, serverVersion)
	}
	if reg == nil {
		return nil
	}

	availableSet := make(map[*part.Class]bool, len(available))
	for _, cls := range available {
		availableSet[cls] = true
	}

	infos := make([]ClassInfo, 0, reg.Len())
	for _, e := range reg.Entries() {
		info := ClassInfo{
			Key:       e.Key,
			Protocol:  e.Class.Protocol,
			Role:      e.Class.Role,
			Label:     e.Class.Label,
			Supported: c.Supports(e.Key, serverVersion),
			Available: availableSet[e.Class],
		}
		info.Requires, _ = c.VersionRequirement(e.Key)
		if role == part.RoleMatcher {
			info.Initial = c.IsInitialMatcher(e.Class)
			info.Hidden = c.IsHiddenMatcher(e.Key)
		} else {
			info.Hidden = c.IsHiddenHandler(e.Key)
			info.Paid = c.IsPaidHandlerClass(e.Class)
		}
		infos = append(infos, info)
	}
	return infos
}
