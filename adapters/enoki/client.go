package enoki

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

// DefaultBaseURL is the production zkLogin service endpoint.
const DefaultBaseURL = "https://api.enoki.mystenlabs.com/v1"

const jwtHeader = "zklogin-jwt"

// Config configures a Client. Zero values fall back to the production
// endpoint and http.DefaultClient; callers impose timeouts through the
// injected HTTP client.
type Config struct {
	BaseURL    string
	APIKey     string
	Network    core.Network
	HTTPClient *http.Client
}

// Client talks to the zkLogin proving and sponsoring service. It implements
// ports.Prover and ports.Sponsor.
type Client struct {
	baseURL string
	apiKey  string
	network core.Network
	http    *http.Client
}

var (
	_ ports.Prover  = (*Client)(nil)
	_ ports.Sponsor = (*Client)(nil)
)

// New creates a service client for the configured network.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		network: cfg.Network,
		http:    cfg.HTTPClient,
	}
}

// RequestProof exchanges the identity token and the ephemeral public data
// for a proof bundle. The returned bundle records the exact public inputs it
// was requested with, so a later binding check can reject a stale bundle.
func (c *Client) RequestProof(ctx context.Context, jwt string, key *core.EphemeralKeyData) (*core.ZkProofBundle, error) {
	payload := zkpPayload{
		Network:            c.network.String(),
		EphemeralPublicKey: key.PublicKeyBase64(),
		MaxEpoch:           key.MaxEpoch,
		Randomness:         key.Randomness,
	}

	var out responseData[zkpResponse]
	headers := map[string]string{jwtHeader: jwt}
	if err := c.do(ctx, http.MethodPost, "/zklogin/zkp", headers, payload, &out); err != nil {
		return nil, err
	}

	if len(out.Data.ProofPoints) == 0 {
		return nil, core.NewError(core.KindInvalidResponse, "proof response is missing proofPoints")
	}
	if out.Data.AddressSeed == "" {
		return nil, core.NewError(core.KindInvalidResponse, "proof response is missing addressSeed")
	}

	return &core.ZkProofBundle{
		Proof:              out.Data.ProofPoints,
		AddressSeed:        out.Data.AddressSeed,
		Salt:               out.Data.Salt,
		Issuer:             out.Data.Issuer,
		Audience:           out.Data.Audience,
		EphemeralPublicKey: payload.EphemeralPublicKey,
		MaxEpoch:           payload.MaxEpoch,
	}, nil
}

// Salt returns the per-user salt the service derived for the token subject.
func (c *Client) Salt(ctx context.Context, jwt string) (string, error) {
	var out responseData[accountResponse]
	headers := map[string]string{jwtHeader: jwt}
	if err := c.do(ctx, http.MethodGet, "/zklogin", headers, nil, &out); err != nil {
		return "", err
	}

	if out.Data.Salt == "" {
		return "", core.NewError(core.KindInvalidResponse, "account response is missing salt")
	}
	return out.Data.Salt, nil
}

// SponsorTransaction asks the sponsor service to cover gas for a transaction
// under the request's allow-lists. The lists are forwarded unmodified.
func (c *Client) SponsorTransaction(ctx context.Context, req *ports.SponsorRequest) (*ports.SponsoredTransaction, error) {
	payload := sponsorPayload{
		Network:                   c.network.String(),
		TransactionBlockKindBytes: req.TxKindBytes,
		Sender:                    req.Sender,
		AllowedAddresses:          req.AllowedAddresses,
		AllowedMoveCallTargets:    req.AllowedMoveCallTargets,
	}

	var out responseData[sponsorResponse]
	if err := c.do(ctx, http.MethodPost, "/transaction-blocks/sponsor", nil, payload, &out); err != nil {
		return nil, err
	}

	if out.Data.Digest == "" || out.Data.Bytes == "" {
		return nil, core.NewError(core.KindInvalidResponse, "sponsor response is missing digest or bytes")
	}

	return &ports.SponsoredTransaction{
		Digest: out.Data.Digest,
		Bytes:  out.Data.Bytes,
	}, nil
}

// SubmitSponsored submits the sender's signature for a sponsored transaction.
func (c *Client) SubmitSponsored(ctx context.Context, digest, signature string) (string, error) {
	var out responseData[submitSponsorResponse]
	payload := submitSponsorPayload{Signature: signature}
	if err := c.do(ctx, http.MethodPost, "/transaction-blocks/sponsor/"+digest, nil, payload, &out); err != nil {
		return "", err
	}

	if out.Data.Digest == "" {
		return "", core.NewError(core.KindInvalidResponse, "submit response is missing digest")
	}
	return out.Data.Digest, nil
}

// do performs one HTTP exchange. Transport failures map to Network errors,
// HTTP-level rejections to Service errors and undecodable bodies to
// InvalidResponse.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return core.WrapError(core.KindService, err, "failed to encode request for %s", path)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return core.WrapError(core.KindService, err, "failed to build request for %s", path)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.WrapError(core.KindNetwork, err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.WrapError(core.KindNetwork, err, "failed to read response from %s", path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return core.NewError(core.KindService, "%s rejected with status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return core.WrapError(core.KindInvalidResponse, err, "malformed response from %s", path)
	}
	return nil
}
