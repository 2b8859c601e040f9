package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/getmockd/mockrules/pkg/rules/httpdef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `version: "1"
rules:
  - id: block-tracking
    type: http
    title: Block the tracker
    matchers:
      - type: wildcard
      - type: host
        host: tracker.example.com
    handler:
      type: close-connection
  - id: mock-users
    priority: 2
    matchers:
      - type: GET
      - type: simple-path
        path: /users
    handler:
      type: simple
      status: 200
      data: '[]'
`

const validJSON = `{
  "version": "1",
  "rules": [
    {
      "id": "socket-echo",
      "type": "websocket",
      "activated": false,
      "matchers": [{"type": "ws-wildcard"}],
      "handler": {"type": "ws-echo"}
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", validYAML)

	f, err := NewLoader().LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, f.Path)
	assert.Equal(t, rules.FormatYAML, f.Format)
	require.Len(t, f.RuleSet.Rules, 2)

	first, ok := rules.AsHTTPRule(f.RuleSet.Rules[0])
	require.True(t, ok)
	assert.Equal(t, "block-tracking", first.ID)
	assert.Equal(t, "Block the tracker", first.Title)
	assert.True(t, first.Activated)
	assert.Equal(t, &httpdef.WildcardMatcher{}, first.Matchers[0])
	assert.Equal(t, &httpdef.HostMatcher{Host: "tracker.example.com"}, first.Matchers[1])
	assert.Equal(t, httpdef.HandlerCloseConnection, first.Handler.Type())

	second := f.RuleSet.Rules[1].Base()
	assert.Equal(t, 2, second.Priority)
	assert.Equal(t, httpdef.MatcherGet, second.Matchers[0].Type())
	assert.Equal(t, &httpdef.StaticResponseHandler{Status: 200, Body: "[]"}, second.Handler)
}

func TestLoader_LoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.json", validJSON)

	f, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rules.FormatJSON, f.Format)
	require.Len(t, f.RuleSet.Rules, 1)

	r := f.RuleSet.Rules[0]
	assert.True(t, rules.IsWebSocketRule(r))
	assert.False(t, r.Base().Activated)
}

func TestLoader_LoadFile_RelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nested/rules.json", validJSON)

	f, err := NewLoader(WithBaseDir(dir)).LoadFile("nested/rules.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "rules.json"), f.Path)
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"missing", "missing.json", "", ErrFileNotFound},
		{"empty", "empty.yaml", "  \n", ErrEmptyFile},
		{"schema: unknown rule field", "extra.json", `{"rules":[{"matchers":[],"colour":"red"}]}`, ErrSchema},
		{"schema: part without type", "notype.yaml", "rules:\n  - matchers:\n      - host: example.com\n", ErrSchema},
		{"schema: bad rule type", "badtype.json", `{"rules":[{"type":"grpc","matchers":[]}]}`, ErrSchema},
		{"schema: missing rules", "norules.json", `{"version":"1"}`, ErrSchema},
		{"unknown part", "unknown.json", `{"rules":[{"matchers":[{"type":"teleport"}]}]}`, rules.ErrUnknownPart},
		{"protocol mismatch", "mismatch.json", `{"rules":[{"type":"websocket","matchers":[{"type":"host","host":"a"}]}]}`, rules.ErrProtocolMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				writeFile(t, dir, tt.file, tt.content)
			}

			_, err := NewLoader().LoadFile(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var fileErr *FileError
			require.ErrorAs(t, err, &fileErr)
			assert.Equal(t, path, fileErr.Path)
		})
	}

	t.Run("directory", func(t *testing.T) {
		_, err := NewLoader().LoadFile(dir)
		assert.ErrorIs(t, err, ErrIsDirectory)
	})
}

func TestLoader_SchemaErrorListsViolations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"rules":[{"matchers":[{}],"priority":"high"}]}`)

	_, err := NewLoader().LoadFile(path)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)

	locations := make([]string, 0, len(schemaErr.Violations))
	for _, v := range schemaErr.Violations {
		locations = append(locations, v.Location)
	}
	assert.Contains(t, locations, "/rules/0/priority")
	assert.Contains(t, locations, "/rules/0/matchers/0")
}

func TestLoader_ExpandsEnvVars(t *testing.T) {
	t.Setenv("MOCKRULES_TEST_HOST", "api.internal")
	dir := t.TempDir()
	path := writeFile(t, dir, "env.yaml", `rules:
  - id: env
    matchers:
      - type: host
        host: ${MOCKRULES_TEST_HOST}
    handler:
      type: forward-to-host
      targetHost: ${MOCKRULES_TEST_TARGET:-localhost:9000}
`)

	f, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	r := f.RuleSet.Rules[0].Base()
	assert.Equal(t, &httpdef.HostMatcher{Host: "api.internal"}, r.Matchers[0])
	assert.Equal(t, &httpdef.ForwardToHostHandler{TargetHost: "localhost:9000"}, r.Handler)

	f, err = NewLoader(WithEnvExpansion(false)).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, &httpdef.HostMatcher{Host: "${MOCKRULES_TEST_HOST}"}, f.RuleSet.Rules[0].Base().Matchers[0])
}

func TestLoader_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/rules.yaml", validYAML)
	writeFile(t, dir, "a/deep/socket.json", validJSON)
	writeFile(t, dir, "a/notes.txt", "not a rule file")

	loader := NewLoader(WithBaseDir(dir))

	res, err := loader.LoadFiles("**/*.yaml", "**/*.json", "b/rules.yaml")
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(dir, "b", "rules.yaml"), res.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "a", "deep", "socket.json"), res.Files[1].Path)

	ids := make([]string, 0, len(res.Rules))
	for _, r := range res.Rules {
		ids = append(ids, r.Base().ID)
	}
	assert.Equal(t, []string{"block-tracking", "mock-users", "socket-echo"}, ids)
	assert.Equal(t, filepath.Join(dir, "a", "deep", "socket.json"), res.Sources["socket-echo"])
}

func TestLoader_LoadFiles_SortedWithinPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.json", `{"rules":[{"id":"z","matchers":[{"type":"wildcard"}]}]}`)
	writeFile(t, dir, "a.json", `{"rules":[{"id":"a","matchers":[{"type":"wildcard"}]}]}`)
	writeFile(t, dir, "m.json", `{"rules":[{"id":"m","matchers":[{"type":"wildcard"}]}]}`)

	res, err := NewLoader(WithBaseDir(dir)).LoadFiles("*.json")
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Rules))
	for _, r := range res.Rules {
		ids = append(ids, r.Base().ID)
	}
	assert.Equal(t, []string{"a", "m", "z"}, ids)
}

func TestLoader_LoadFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"rules":[{"id":"dup","matchers":[{"type":"wildcard"}]}]}`)
	writeFile(t, dir, "two.json", `{"rules":[{"id":"dup","matchers":[{"type":"wildcard"}]}]}`)

	loader := NewLoader(WithBaseDir(dir))

	t.Run("duplicate rule id", func(t *testing.T) {
		_, err := loader.LoadFiles("*.json")
		require.ErrorIs(t, err, ErrDuplicateRuleID)

		var fileErr *FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, filepath.Join(dir, "two.json"), fileErr.Path)
		assert.Contains(t, fileErr.Message, filepath.Join(dir, "one.json"))
	})

	t.Run("nothing matched", func(t *testing.T) {
		_, err := loader.LoadFiles("*.yaml")
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("missing plain path", func(t *testing.T) {
		_, err := loader.LoadFiles("one.json", "missing.json")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestLoader_Validate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rules.yaml", validYAML)
	writeFile(t, dir, "broken.json", `{"rules":[{"matchers":[{"type":"header","headers":{}}]}]}`)

	loader := NewLoader(WithBaseDir(dir))
	res, err := loader.LoadFiles("rules.yaml", "broken.json")
	require.NoError(t, err)

	assert.Empty(t, loader.Validate(&Result{Files: res.Files[:1]}, ""))

	errs := loader.Validate(res, "")
	require.Len(t, errs, 1)
	assert.Equal(t, filepath.Join(dir, "broken.json"), errs[0].Path)
	assert.Equal(t, 0, errs[0].Index)
	assert.Contains(t, errs[0].Error(), "rules[0]")
	assert.ErrorIs(t, errs[0], rules.ErrMissingID)
	assert.ErrorIs(t, errs[0], rules.ErrInvalidStartingMatcher)
	assert.ErrorIs(t, errs[0], rules.ErrMissingHandler)

	t.Run("server version", func(t *testing.T) {
		errs := loader.Validate(&Result{Files: res.Files[:1]}, "1.4.0")
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], rules.ErrServerTooOld)
		assert.Equal(t, "block-tracking", errs[0].RuleID)
		assert.Contains(t, errs[0].Error(), "rule block-tracking")
	})
}

func TestSaveFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, err := NewLoader().LoadFile(writeFile(t, dir, "in.yaml", validYAML))
	require.NoError(t, err)

	for _, name := range []string{"out/rules.json", "out/rules.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveFile(path, f.RuleSet))

			_, err := os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))

			reloaded, err := NewLoader().LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, f.RuleSet, reloaded.RuleSet)
		})
	}

	assert.Error(t, SaveFile(filepath.Join(dir, "nil.json"), nil))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MOCKRULES_SET", "value")

	tests := []struct {
		input string
		want  string
	}{
		{"${MOCKRULES_SET}", "value"},
		{"${MOCKRULES_UNSET}", ""},
		{"${MOCKRULES_UNSET:-fallback}", "fallback"},
		{"${MOCKRULES_SET:-fallback}", "value"},
		{"prefix-${MOCKRULES_SET}-suffix", "prefix-value-suffix"},
		{"$MOCKRULES_SET", "$MOCKRULES_SET"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandEnvVars(tt.input), tt.input)
	}
}

func TestRuleSetSchema_IsCopy(t *testing.T) {
	s := RuleSetSchema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.Equal(t, byte('{'), RuleSetSchema()[0])
}
