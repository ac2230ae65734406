package core

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned compact JWT with the given claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestValidateTokenFormat(t *testing.T) {
	assert.NoError(t, ValidateTokenFormat("a.b.c"))

	err := ValidateTokenFormat("")
	assert.True(t, IsKind(err, KindJWTFormat))

	err = ValidateTokenFormat("a.b")
	assert.True(t, IsKind(err, KindJWTFormat))

	err = ValidateTokenFormat("a.b.c.d")
	assert.True(t, IsKind(err, KindJWTFormat))
}

func TestParseIDTokenClaims(t *testing.T) {
	token := makeToken(t, map[string]any{
		"iss":   "https://accounts.google.com",
		"sub":   "110248495921238986420",
		"aud":   "demo-client-id",
		"nonce": "bQZv9pV_gQ3P8mXgKJ2mFqNqkXg",
	})

	claims, err := ParseIDToken(token)
	require.NoError(t, err)

	assert.Equal(t, "https://accounts.google.com", claims.Issuer)
	assert.Equal(t, "110248495921238986420", claims.Subject)
	assert.Equal(t, "demo-client-id", claims.FirstAudience())
	assert.Equal(t, "bQZv9pV_gQ3P8mXgKJ2mFqNqkXg", claims.Nonce)
}

func TestParseIDTokenRejectsGarbage(t *testing.T) {
	_, err := ParseIDToken("not-a-token")
	assert.True(t, IsKind(err, KindJWTFormat))

	_, err = ParseIDToken("!!.!!.!!")
	assert.True(t, IsKind(err, KindJWTFormat))
}

func TestFirstAudienceEmpty(t *testing.T) {
	claims := &IDTokenClaims{}
	assert.Equal(t, "", claims.FirstAudience())
}
