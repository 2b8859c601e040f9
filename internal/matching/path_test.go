package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"exact", "/api/users", "/api/users", true},
		{"exact mismatch", "/api/users", "/api/user", false},
		{"trailing wildcard", "/api/users/*", "/api/users/123", true},
		{"trailing wildcard prefix only", "/api/users/*", "/api/users", true},
		{"trailing wildcard other prefix", "/api/users/*", "/api/usersX", false},
		{"named param", "/api/users/{id}", "/api/users/42", true},
		{"named param segment count", "/api/users/{id}", "/api/users/42/posts", false},
		{"middle wildcard", "/api/*/items", "/api/x/items", true},
		{"middle wildcard extra suffix", "/api/*/items", "/api/x/items/more", false},
		{"no wildcard", "/a", "/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPath(tt.pattern, tt.path))
		})
	}
}

func TestMatchSimplePath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		url     string
		want    bool
	}{
		{"path", "/api", "/api", "https://example.com/api", true},
		{"trailing slash ignored", "/api/", "/api", "https://example.com/api", true},
		{"root", "/", "/", "https://example.com/", true},
		{"full url", "https://example.com/api", "/api", "https://example.com/api", true},
		{"full url host case", "https://EXAMPLE.com/api", "/api", "https://example.com/api", true},
		{"full url bare host", "https://example.com", "/", "https://example.com/", true},
		{"full url other host", "https://other.com/api", "/api", "https://example.com/api", false},
		{"empty pattern", "", "/", "https://example.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchSimplePath(tt.pattern, tt.path, tt.url))
		})
	}
}

func TestRegex(t *testing.T) {
	assert.True(t, MatchRegex(`^/api/users/\d+$`, "", "/api/users/123"))
	assert.False(t, MatchRegex(`^/api/users/\d+$`, "", "/api/users/abc"))
	assert.True(t, MatchRegex(`^/API`, "i", "/api"))
	assert.False(t, MatchRegex(`[invalid`, "", "anything"))
	assert.False(t, MatchRegex("", "", "anything"))

	captures := RegexCaptures(`^/api/(?P<resource>\w+)/(?P<id>\d+)$`, "", "/api/users/789")
	require.NotNil(t, captures)
	assert.Equal(t, "users", captures["resource"])
	assert.Equal(t, "789", captures["id"])
	assert.Nil(t, RegexCaptures(`^/x$`, "", "/y"))

	require.NoError(t, ValidateRegex(`\d+`, "im"))
	require.Error(t, ValidateRegex(`[`, ""))
	require.Error(t, ValidateRegex(`a`, "g"))
}

func TestCompileRegex_Cached(t *testing.T) {
	a, err := CompileRegex(`cached\d`, "i")
	require.NoError(t, err)
	b, err := CompileRegex(`cached\d`, "i")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
