package traffic

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("absolute url", func(t *testing.T) {
		req, err := NewRequest("post", "https://example.com/api/users?id=1")
		require.NoError(t, err)

		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "https", req.Protocol())
		assert.Equal(t, "example.com", req.Host())
		assert.Equal(t, "443", req.Port())
		assert.Equal(t, "/api/users", req.Path())
		assert.Equal(t, "1", req.Query().Get("id"))
		assert.False(t, req.WebSocket)
	})

	t.Run("defaults to GET", func(t *testing.T) {
		req, err := NewRequest("", "http://example.com")
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/", req.Path())
		assert.Equal(t, "80", req.Port())
	})

	t.Run("websocket scheme", func(t *testing.T) {
		req, err := NewRequest("GET", "wss://example.com:8443/socket")
		require.NoError(t, err)
		assert.True(t, req.WebSocket)
		assert.Equal(t, "8443", req.Port())
		assert.Equal(t, "example.com:8443", req.HostWithPort())
	})

	t.Run("relative url rejected", func(t *testing.T) {
		_, err := NewRequest("GET", "/relative")
		require.Error(t, err)
	})
}

func TestFromHTTP(t *testing.T) {
	t.Run("plain request keeps body readable", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "http://example.com/items?x=1", strings.NewReader(`{"a":1}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		req, err := FromHTTP(r)
		require.NoError(t, err)

		assert.Equal(t, []byte(`{"a":1}`), req.Body)
		assert.Equal(t, "application/json", req.ContentType())
		assert.False(t, req.WebSocket)

		rest, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(rest))
	})

	t.Run("websocket upgrade", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/socket", nil)
		r.Host = "example.com"
		r.Header.Set("Connection", "Upgrade")
		r.Header.Set("Upgrade", "websocket")

		req, err := FromHTTP(r)
		require.NoError(t, err)

		assert.True(t, req.WebSocket)
		assert.Equal(t, "ws", req.Protocol())
		assert.Equal(t, "example.com", req.Hostname())
	})
}

func TestRequest_URLWithoutQuery(t *testing.T) {
	req, err := NewRequest("GET", "http://example.com/a/b?q=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a/b", req.URLWithoutQuery())
}

func TestRequest_Cookies(t *testing.T) {
	req, err := NewRequest("GET", "http://example.com/")
	require.NoError(t, err)
	req.Header.Add("Cookie", "session=abc; theme=dark")

	cookies := req.Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "dark", cookies[1].Value)
}
