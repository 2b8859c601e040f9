package parse

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	k, v, ok := KeyValue("Accept: text/html")
	assert.True(t, ok)
	assert.Equal(t, "Accept", k)
	assert.Equal(t, " text/html", v)

	k, v, ok = KeyValue("a=b:c", '=', ':')
	assert.True(t, ok)
	assert.Equal(t, "a", k)
	assert.Equal(t, "b:c", v)

	_, _, ok = KeyValue("novalue")
	assert.False(t, ok)
}

func TestHeader(t *testing.T) {
	h, err := Header([]string{"Accept: text/html", "x-tag:one", "X-Tag: two", "Empty:"})
	require.NoError(t, err)
	assert.Equal(t, http.Header{
		"Accept": {"text/html"},
		"X-Tag":  {"one", "two"},
		"Empty":  {""},
	}, h)

	_, err = Header([]string{"no-colon"})
	assert.Error(t, err)
	_, err = Header([]string{": value"})
	assert.Error(t, err)
}

func TestSplitTrim(t *testing.T) {
	assert.Nil(t, SplitTrim("", ","))
	assert.Equal(t, []string{"a", "b"}, SplitTrim(" a, ,b ,", ","))
}
