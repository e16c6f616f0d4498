package nightscout

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_KnownDigest(t *testing.T) {
	got, ok := Credential("abc")
	require.True(t, ok)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", got)
}

func TestCredential_ShapeAndStability(t *testing.T) {
	hex40 := regexp.MustCompile(`^[0-9a-f]{40}$`)
	for _, s := range []string{"x", "a long shared secret", " padded ", "ünïcode"} {
		first, ok := Credential(s)
		require.True(t, ok, s)
		second, _ := Credential(s)
		assert.Regexp(t, hex40, first)
		assert.Equal(t, first, second)
	}
}

func TestCredential_BlankSecret(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n "} {
		got, ok := Credential(s)
		assert.False(t, ok)
		assert.Empty(t, got)
	}
}

func TestEndpoint_AuthorizeHeader(t *testing.T) {
	withSecret, err := NewEndpoint("https://example.com", "abc")
	require.NoError(t, err)
	h := http.Header{}
	withSecret.authorize(h)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", h.Get(SecretHeader))

	blank, err := NewEndpoint("https://example.com", "   ")
	require.NoError(t, err)
	assert.False(t, blank.Authenticated())
	h = http.Header{}
	blank.authorize(h)
	assert.Empty(t, h.Values(SecretHeader))
}

func TestNewEndpoint_Validation(t *testing.T) {
	for _, raw := range []string{"", "   ", "example.com", "/api/v1", "://bad"} {
		_, err := NewEndpoint(raw, "")
		assert.ErrorIs(t, err, ErrMissingEndpoint, raw)
	}

	e, err := NewEndpoint("https://example.com:1337/some/path?x=1", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:1337", e.String())
}
