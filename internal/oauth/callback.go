package oauth

import (
	"encoding/json"
	"net/url"

	"github.com/squadlabs/zkconnect/core"
)

// parseFragment splits the callback URL fragment into key/value pairs. The
// provider returns the token in the fragment (after `#`), not in the query
// string, per the implicit flow convention.
func parseFragment(callbackURL string) (url.Values, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, core.WrapError(core.KindJWTExtraction, err, "failed to parse callback URL")
	}
	if u.Fragment == "" {
		return nil, core.NewError(core.KindJWTExtraction, "callback URL has no fragment")
	}

	// ParseQuery must see the raw fragment: u.Fragment is already
	// percent-decoded, and decoding twice corrupts values containing
	// reserved characters.
	values, err := url.ParseQuery(u.EscapedFragment())
	if err != nil {
		return nil, core.WrapError(core.KindJWTExtraction, err, "failed to parse callback fragment")
	}
	return values, nil
}

// ExtractJWT extracts the id_token from a callback URL fragment and checks
// its compact structure. The token is returned exactly as received.
func ExtractJWT(callbackURL string) (string, error) {
	values, err := parseFragment(callbackURL)
	if err != nil {
		return "", err
	}

	token := values.Get("id_token")
	if token == "" {
		return "", core.NewError(core.KindJWTExtraction, "no id_token in callback URL fragment")
	}

	if err := core.ValidateTokenFormat(token); err != nil {
		return "", err
	}
	return token, nil
}

// ExtractState decodes the opaque state value from a callback URL fragment
// into the caller's expected shape. Returns nil when no state key is
// present; the value must round-trip values passed to BuildAuthURL.
func ExtractState[T any](callbackURL string) (*T, error) {
	values, err := parseFragment(callbackURL)
	if err != nil {
		return nil, err
	}

	if !values.Has("state") {
		return nil, nil
	}

	var state T
	if err := json.Unmarshal([]byte(values.Get("state")), &state); err != nil {
		return nil, core.WrapError(core.KindJWTFormat, err, "failed to deserialize state")
	}
	return &state, nil
}
