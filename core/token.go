package core

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IDTokenClaims are the public claims of the identity token the SDK needs:
// issuer, subject, audience and the nonce binding the token to a session.
type IDTokenClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// FirstAudience returns the first audience claim, or an empty string.
func (c *IDTokenClaims) FirstAudience() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}

// ValidateTokenFormat checks the compact three-segment JWT structure without
// verifying the signature.
func ValidateTokenFormat(token string) error {
	if token == "" {
		return NewError(KindJWTFormat, "empty identity token")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		return NewError(KindJWTFormat, "identity token does not have three segments, got %d", len(parts))
	}
	return nil
}

// ParseIDToken extracts the claims of an identity token. The signature is not
// verified here: the token's authenticity is established by the proving
// service and ultimately by the network verifier.
func ParseIDToken(token string) (*IDTokenClaims, error) {
	if err := ValidateTokenFormat(token); err != nil {
		return nil, err
	}

	claims := &IDTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, WrapError(KindJWTFormat, err, "failed to parse identity token")
	}

	return claims, nil
}
