package rules

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getmockd/mockrules/pkg/rules/part"
)

// Validate checks r against the catalog and returns every problem found
// as ValidationErrors, or nil when the rule is valid. The rule needs an ID,
// at least one matcher, a first matcher that can start a rule of its
// protocol, and a handler. Every part must be registered for the rule's
// protocol, pass its own Validate, and be supported by the server at
// serverVersion. An empty serverVersion supports every part.
func (c *Catalog) Validate(r Rule, serverVersion string) error {
	if isNil(r) {
		return ValidationErrors{{Field: "type", Message: "rule is nil", Err: ErrUnsupportedRuleType}}
	}
	p := r.Type().Protocol()
	if !p.Valid() {
		return ValidationErrors{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported rule type %q", r.Type()),
			Err:     ErrUnsupportedRuleType,
		}}
	}

	var errs ValidationErrors
	add := func(field string, err error, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Err: err})
	}

	base := r.Base()
	if strings.TrimSpace(base.ID) == "" {
		add("id", ErrMissingID, "rule ID is required")
	}

	if len(base.Matchers) == 0 {
		add("matchers", ErrNoMatchers, "at least one matcher is required")
	}
	for i, m := range base.Matchers {
		field := fmt.Sprintf("matchers[%d]", i)
		if m == nil {
			add(field, ErrUnknownPart, "matcher is nil")
			continue
		}
		cls, ok := c.checkPart(m, c.matchers, p, serverVersion, field, add)
		if !ok {
			continue
		}
		if i == 0 && !c.IsStartingMatcher(p, cls) {
			add(field, ErrInvalidStartingMatcher, "%q cannot be the first matcher of a %s rule", cls.Key, r.Type())
		}
	}

	if base.Handler == nil {
		add("handler", ErrMissingHandler, "a handler is required")
	} else {
		c.checkPart(base.Handler, c.handlers, p, serverVersion, "handler", add)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Catalog) checkPart(
	pt part.Part,
	reg *part.Registry,
	p part.Protocol,
	serverVersion, field string,
	add func(field string, err error, format string, args ...any),
) (*part.Class, bool) {
	key := pt.Type()
	cls, ok := reg.Get(key)
	if !ok {
		add(field, ErrUnknownPart, "unknown part %q", key)
		return nil, false
	}
	if cls.Protocol != p {
		add(field, ErrProtocolMismatch, "%q is for %s rules", key, cls.Protocol)
		return cls, false
	}
	if reflect.TypeOf(pt) != cls.GoType() {
		add(field, ErrPartTypeMismatch, "%q has type %T", key, pt)
		return cls, false
	}
	if !c.Supports(key, serverVersion) {
		rng, _ := c.VersionRequirement(key)
		add(field, ErrServerTooOld, "%q requires server %s, server is %s", key, rng, serverVersion)
	}
	if v, ok := pt.(part.Validator); ok {
		if err := v.Validate(); err != nil {
			var cfgErr *part.ConfigError
			if errors.As(err, &cfgErr) {
				add(field+"."+cfgErr.Field, err, "%s", cfgErr.Message)
			} else {
				add(field, err, "%s", err.Error())
			}
		}
	}
	return cls, true
}
