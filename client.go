// Package zkconnect is a client SDK for zkLogin authentication: it binds an
// OAuth identity token to a blockchain account through a zero-knowledge
// proof, signs transactions with a session-scoped ephemeral key, and
// supports gas-sponsored submission.
package zkconnect

import (
	"context"
	"net/http"

	"github.com/squadlabs/zkconnect/adapters/enoki"
	"github.com/squadlabs/zkconnect/adapters/keystore"
	"github.com/squadlabs/zkconnect/adapters/sui"
	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/internal/oauth"
	"github.com/squadlabs/zkconnect/ports"
	"github.com/squadlabs/zkconnect/service"
)

// Re-exported domain types, so most callers only import this package.
type (
	Error         = core.Error
	ErrorKind     = core.ErrorKind
	Network       = core.Network
	Account       = core.Account
	ProofParams   = core.ProofParams
	ZkProofBundle = core.ZkProofBundle
)

const (
	Devnet  = core.Devnet
	Testnet = core.Testnet
	Mainnet = core.Mainnet
)

const (
	KindService         = core.KindService
	KindNetwork         = core.KindNetwork
	KindInvalidResponse = core.KindInvalidResponse
	KindInvalidProof    = core.KindInvalidProof
	KindJWTFormat       = core.KindJWTFormat
	KindJWTExtraction   = core.KindJWTExtraction
)

// IsKind reports whether err carries the given error kind.
func IsKind(err error, kind ErrorKind) bool {
	return core.IsKind(err, kind)
}

// Config configures a Client. Network, ClientID and APIKey are required;
// everything else has working defaults.
type Config struct {
	Network  core.Network
	ClientID string
	APIKey   string

	// ProverURL and RPCURL override the network's default endpoints.
	ProverURL string
	RPCURL    string

	// HTTPClient carries caller-imposed timeouts for all outbound calls.
	HTTPClient *http.Client

	// ParamStore and EventPublisher are optional collaborators.
	ParamStore     ports.ParamStore
	EventPublisher ports.EventPublisher
}

// Client is the public zkLogin client. It owns one login session at a time
// and is not safe for concurrent mutation; see service.ZkLoginService.
type Client struct {
	service *service.ZkLoginService
}

// New creates a client wired to the network's proving, sponsoring and
// fullnode endpoints and a file-based keystore.
func New(cfg Config) *Client {
	prover := enoki.New(enoki.Config{
		BaseURL:    cfg.ProverURL,
		APIKey:     cfg.APIKey,
		Network:    cfg.Network,
		HTTPClient: cfg.HTTPClient,
	})

	var node ports.Node
	if cfg.RPCURL != "" {
		node = sui.NewWithEndpoint(cfg.RPCURL, cfg.HTTPClient)
	} else {
		node = sui.New(cfg.Network, cfg.HTTPClient)
	}

	opts := []service.Option{}
	if cfg.ParamStore != nil {
		opts = append(opts, service.WithParamStore(cfg.ParamStore))
	}
	if cfg.EventPublisher != nil {
		opts = append(opts, service.WithEventPublisher(cfg.EventPublisher))
	}

	return &Client{
		service: service.NewZkLoginService(cfg.Network, cfg.ClientID, node, prover, prover, keystore.Opener{}, opts...),
	}
}

// NewFromService wraps an already-wired service, for callers substituting
// their own port implementations.
func NewFromService(svc *service.ZkLoginService) *Client {
	return &Client{service: svc}
}

// Node returns the blockchain client for direct network operations.
func (c *Client) Node() ports.Node {
	return c.service.Node()
}

// CreateZkpPayload starts a new login session, storing the fresh ephemeral
// key in the keystore at path.
func (c *Client) CreateZkpPayload(ctx context.Context, path string) error {
	return c.service.CreateZkpPayload(ctx, path)
}

// GetURL builds the OAuth authorization URL for the current session. Pass a
// nil state for none; any serializable value is round-tripped opaquely.
func (c *Client) GetURL(redirectURL string, state any) (string, error) {
	return c.service.GetURL(redirectURL, state)
}

// SetJWT replaces the session's identity token.
func (c *Client) SetJWT(token string) error {
	return c.service.SetJWT(token)
}

// SetZkLogin extracts the identity token from the provider callback URL and
// exchanges it for a zero-knowledge proof.
func (c *Client) SetZkLogin(ctx context.Context, callbackURL string) (*ZkProofBundle, error) {
	return c.service.SetZkLogin(ctx, callbackURL)
}

// RecoverSeedAddress re-requests the proof for the stored identity token.
func (c *Client) RecoverSeedAddress(ctx context.Context) (*ZkProofBundle, error) {
	return c.service.RecoverSeedAddress(ctx)
}

// GetAddress resolves the on-chain account for the session's identity token.
func (c *Client) GetAddress(ctx context.Context) (*Account, error) {
	return c.service.GetAddress(ctx)
}

// SignTransaction signs transaction bytes with the session's ephemeral key
// from the keystore at path, returning the composite signature and the
// transaction digest.
func (c *Client) SignTransaction(ctx context.Context, txBytes []byte, path string) (signature, digest string, err error) {
	return c.service.SignTransaction(ctx, txBytes, path)
}

// SubmitTransaction submits signed transaction bytes to the network.
func (c *Client) SubmitTransaction(ctx context.Context, txBytesBase64 string, signatures []string) (string, error) {
	return c.service.SubmitTransaction(ctx, txBytesBase64, signatures)
}

// SponsorTransaction runs the gasless flow under the given allow-lists and
// returns the submission digest.
func (c *Client) SponsorTransaction(ctx context.Context, txKindBytesBase64, sender string, allowedAddresses, allowedMoveCallTargets []string) (string, error) {
	return c.service.SponsorTransaction(ctx, txKindBytesBase64, sender, allowedAddresses, allowedMoveCallTargets)
}

// GetZkProofParams returns the session's proof parameter triple.
func (c *Client) GetZkProofParams() ProofParams {
	return c.service.GetZkProofParams()
}

// SetZkProofParams restores a previous session's proof parameter triple.
func (c *Client) SetZkProofParams(params ProofParams) error {
	return c.service.SetZkProofParams(params)
}

// SaveSession persists the session's proof params in the configured store.
func (c *Client) SaveSession(ctx context.Context, id string) error {
	return c.service.SaveSession(ctx, id)
}

// RestoreSession rebinds the session to proof params from the store.
func (c *Client) RestoreSession(ctx context.Context, id string) error {
	return c.service.RestoreSession(ctx, id)
}

// Logout zeroizes the ephemeral key and drops all session state.
func (c *Client) Logout(ctx context.Context) {
	c.service.Logout(ctx)
}

// ExtractJWTFromCallback extracts the identity token from a callback URL
// fragment without touching session state.
func ExtractJWTFromCallback(callbackURL string) (string, error) {
	return oauth.ExtractJWT(callbackURL)
}

// ExtractStateFromCallback decodes the opaque state value from a callback
// URL fragment into the caller's expected shape. Returns nil when the
// fragment carries no state.
func ExtractStateFromCallback[T any](callbackURL string) (*T, error) {
	return oauth.ExtractState[T](callbackURL)
}
