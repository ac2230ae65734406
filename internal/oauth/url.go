package oauth

import (
	"encoding/json"
	"net/url"

	"github.com/squadlabs/zkconnect/core"
)

// authorizeEndpoint is the Google OAuth authorization endpoint used for the
// implicit id_token flow.
const authorizeEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

// BuildAuthURL constructs the identity-provider authorization URL embedding
// the proof-binding nonce. The optional state value is JSON-encoded and
// round-tripped opaquely; it is never interpreted. A nil state adds no state
// parameter. The nonce must already be bound: generating a login URL before
// the zkp payload exists is an ordering bug, not something to tolerate.
func BuildAuthURL(clientID, redirectURL, nonce string, state any) (string, error) {
	if nonce == "" {
		return "", core.NewError(core.KindService, "no nonce bound: create the zkp payload before building the OAuth URL")
	}

	u, err := url.Parse(authorizeEndpoint)
	if err != nil {
		return "", core.WrapError(core.KindService, err, "failed to parse authorization endpoint")
	}

	q := u.Query()
	q.Set("client_id", clientID)
	q.Set("response_type", "id_token")
	q.Set("redirect_uri", redirectURL)
	q.Set("scope", "openid")
	q.Set("nonce", nonce)

	if state != nil {
		encoded, err := json.Marshal(state)
		if err != nil {
			return "", core.WrapError(core.KindService, err, "failed to serialize state")
		}
		q.Set("state", string(encoded))
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
