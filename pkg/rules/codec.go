package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockrules/pkg/rules/part"
	"gopkg.in/yaml.v3"
)

// Format is the serialization format of a rule set document.
type Format string

// Supported rule set formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath detects the format of a rule set file from its extension.
// Anything other than .yaml, .yml and .json is unsupported.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// RuleSetVersion is the document version written by EncodeRuleSet.
const RuleSetVersion = "1"

// RuleSet is an ordered collection of rules, as stored in a rule file.
type RuleSet struct {
	Version string
	Rules   []Rule
}

// ruleDoc is the serialized form of a rule.
type ruleDoc struct {
	ID        string            `json:"id"`
	Type      RuleType          `json:"type"`
	Title     string            `json:"title,omitempty"`
	Activated *bool             `json:"activated,omitempty"`
	Priority  int               `json:"priority,omitempty"`
	Matchers  []json.RawMessage `json:"matchers"`
	Handler   json.RawMessage   `json:"handler,omitempty"`
}

type ruleSetDoc struct {
	Version string            `json:"version"`
	Rules   []json.RawMessage `json:"rules"`
}

// MarshalJSON encodes the rule with a "type" discriminant on the rule and
// on each of its parts.
func (r *HTTPRule) MarshalJSON() ([]byte, error) { return EncodeRule(r) }

// MarshalJSON encodes the rule with a "type" discriminant on the rule and
// on each of its parts.
func (r *WebSocketRule) MarshalJSON() ([]byte, error) { return EncodeRule(r) }

// EncodeRule encodes r as JSON.
func EncodeRule(r Rule) ([]byte, error) {
	if isNil(r) {
		return nil, fmt.Errorf("%w: nil rule", ErrUnsupportedRuleType)
	}
	base := r.Base()
	activated := base.Activated
	doc := ruleDoc{
		ID:        base.ID,
		Type:      r.Type(),
		Title:     base.Title,
		Activated: &activated,
		Priority:  base.Priority,
		Matchers:  make([]json.RawMessage, 0, len(base.Matchers)),
	}
	for i, m := range base.Matchers {
		raw, err := EncodePart(m)
		if err != nil {
			return nil, fmt.Errorf("matchers[%d]: %w", i, err)
		}
		doc.Matchers = append(doc.Matchers, raw)
	}
	if base.Handler != nil {
		raw, err := EncodePart(base.Handler)
		if err != nil {
			return nil, fmt.Errorf("handler: %w", err)
		}
		doc.Handler = raw
	}
	return json.Marshal(doc)
}

// EncodePart encodes a part's configuration as a JSON object whose first
// member is "type", holding the part's key.
func EncodePart(p part.Part) (json.RawMessage, error) {
	if p == nil {
		return nil, ErrMissingPartType
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", p.Type(), err)
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encoding %s: configuration is not an object", p.Type())
	}
	typ, err := json.Marshal(p.Type())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(typ)+10)
	out = append(out, `{"type":`...)
	out = append(out, typ...)
	if rest := bytes.TrimSpace(body[1:]); len(rest) > 1 {
		out = append(out, ',')
		out = append(out, rest...)
	} else {
		out = append(out, '}')
	}
	return out, nil
}

// DecodeRule decodes a JSON rule. A missing "type" means an HTTP rule and
// a missing "activated" means true. Parts are resolved through the
// catalog's registries; a part of the wrong role or protocol is an error.
// Decoding does not validate the rule; see Validate.
func (c *Catalog) DecodeRule(data []byte) (Rule, error) {
	var doc ruleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding rule: %w", err)
	}
	if doc.Type == "" {
		doc.Type = RuleTypeHTTP
	}
	p := doc.Type.Protocol()
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRuleType, doc.Type)
	}

	base := RuleBase{
		ID:        doc.ID,
		Title:     doc.Title,
		Activated: doc.Activated == nil || *doc.Activated,
		Priority:  doc.Priority,
		Matchers:  make([]part.Matcher, 0, len(doc.Matchers)),
	}
	for i, raw := range doc.Matchers {
		decoded, err := c.decodePart(raw, part.RoleMatcher, p)
		if err != nil {
			return nil, fmt.Errorf("matchers[%d]: %w", i, err)
		}
		base.Matchers = append(base.Matchers, decoded.(part.Matcher))
	}
	if len(doc.Handler) > 0 && !bytes.Equal(bytes.TrimSpace(doc.Handler), []byte("null")) {
		decoded, err := c.decodePart(doc.Handler, part.RoleHandler, p)
		if err != nil {
			return nil, fmt.Errorf("handler: %w", err)
		}
		base.Handler = decoded.(part.Handler)
	}

	if doc.Type == RuleTypeWebSocket {
		return &WebSocketRule{base}, nil
	}
	return &HTTPRule{base}, nil
}

// DecodePart decodes a single serialized part of the given role and
// protocol.
func (c *Catalog) DecodePart(data []byte, role part.Role, p part.Protocol) (part.Part, error) {
	return c.decodePart(data, role, p)
}

func (c *Catalog) decodePart(raw json.RawMessage, role part.Role, p part.Protocol) (part.Part, error) {
	var head struct {
		Type part.Key `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", role, err)
	}
	if head.Type == "" {
		return nil, ErrMissingPartType
	}

	var reg *part.Registry
	switch role {
	case part.RoleMatcher:
		reg = c.matchers
	case part.RoleHandler:
		reg = c.handlers
	default:
		return nil, fmt.Errorf("%w: role %q", ErrUnknownPart, role)
	}
	cls, ok := reg.Get(head.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownPart, role, head.Type)
	}
	if cls.Protocol != p {
		return nil, fmt.Errorf("%w: %s %q is for %s rules", ErrProtocolMismatch, role, head.Type, cls.Protocol)
	}

	inst := cls.New()
	if err := json.Unmarshal(raw, inst); err != nil {
		return nil, fmt.Errorf("decoding %s %q: %w", role, head.Type, err)
	}
	if inst.Type() != head.Type {
		return nil, fmt.Errorf("%w: %q decoded as %q", ErrPartTypeMismatch, head.Type, inst.Type())
	}
	return inst, nil
}

// DecodeRuleSet decodes a rule set document of the given format. A
// missing version is read as RuleSetVersion.
func (c *Catalog) DecodeRuleSet(data []byte, format Format) (*RuleSet, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		converted, err := YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var doc ruleSetDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding rule set: %w", err)
	}
	if doc.Version == "" {
		doc.Version = RuleSetVersion
	}

	rs := &RuleSet{Version: doc.Version, Rules: make([]Rule, 0, len(doc.Rules))}
	for i, raw := range doc.Rules {
		r, err := c.DecodeRule(raw)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rs.Rules = append(rs.Rules, r)
	}
	return rs, nil
}

// EncodeRuleSet encodes rs in the given format. JSON output is indented;
// YAML output keeps the JSON member order.
func EncodeRuleSet(rs *RuleSet, format Format) ([]byte, error) {
	if rs == nil {
		rs = &RuleSet{}
	}
	doc := ruleSetDoc{Version: rs.Version, Rules: make([]json.RawMessage, 0, len(rs.Rules))}
	if doc.Version == "" {
		doc.Version = RuleSetVersion
	}
	for i, r := range rs.Rules {
		raw, err := EncodeRule(r)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		doc.Rules = append(doc.Rules, raw)
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding rule set: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding rule set: %w", err)
		}
		return JSONToYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// YAMLToJSON converts a YAML document to JSON. Mapping keys that are not
// strings are formatted with fmt.
func YAMLToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	out, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("converting YAML: %w", err)
	}
	return out, nil
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}

// JSONToYAML converts a JSON document to block-style YAML, keeping member
// order.
func JSONToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
