package service

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/internal/oauth"
	"github.com/squadlabs/zkconnect/internal/zklogin"
	"github.com/squadlabs/zkconnect/ports"
)

// defaultAdditionalEpochs is how many epochs past the current one a fresh
// ephemeral key stays valid.
const defaultAdditionalEpochs = 2

// ZkLoginService orchestrates the zkLogin flow: ephemeral key lifecycle,
// nonce binding, OAuth URL construction, proof requests, address resolution,
// transaction signing and sponsorship.
//
// A service owns one login session at a time; setting a new key, token or
// proof replaces prior state wholesale. It holds no internal locks: callers
// running concurrent logins use one service per in-flight login.
type ZkLoginService struct {
	network  core.Network
	clientID string

	node      ports.Node
	prover    ports.Prover
	sponsor   ports.Sponsor
	keystores ports.KeystoreOpener
	params    ports.ParamStore
	events    ports.EventPublisher

	additionalEpochs uint64

	session    *core.Session
	keystoreID string
}

// Option configures optional collaborators of a ZkLoginService.
type Option func(*ZkLoginService)

// WithParamStore wires external persistence for zk proof params. The caller
// is responsible for securing the store.
func WithParamStore(store ports.ParamStore) Option {
	return func(s *ZkLoginService) { s.params = store }
}

// WithEventPublisher wires session lifecycle event publishing.
func WithEventPublisher(pub ports.EventPublisher) Option {
	return func(s *ZkLoginService) { s.events = pub }
}

// WithAdditionalEpochs overrides the validity window of fresh ephemeral keys.
func WithAdditionalEpochs(n uint64) Option {
	return func(s *ZkLoginService) { s.additionalEpochs = n }
}

// NewZkLoginService creates a new zkLogin orchestration service.
func NewZkLoginService(
	network core.Network,
	clientID string,
	node ports.Node,
	prover ports.Prover,
	sponsor ports.Sponsor,
	keystores ports.KeystoreOpener,
	opts ...Option,
) *ZkLoginService {
	s := &ZkLoginService{
		network:          network,
		clientID:         clientID,
		node:             node,
		prover:           prover,
		sponsor:          sponsor,
		keystores:        keystores,
		additionalEpochs: defaultAdditionalEpochs,
		session:          &core.Session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Node returns the blockchain client for direct network operations.
func (s *ZkLoginService) Node() ports.Node {
	return s.node
}

// Nonce returns the currently bound proof nonce, empty if none.
func (s *ZkLoginService) Nonce() string {
	return s.session.Nonce
}

// CreateZkpPayload starts a new login session: it generates a fresh
// ephemeral keypair and randomness, persists the key through a scoped
// keystore handle at path, and binds the proof nonce. Any previous session
// is zeroized and replaced.
func (s *ZkLoginService) CreateZkpPayload(ctx context.Context, path string) error {
	epoch, err := s.node.CurrentEpoch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current epoch: %w", err)
	}

	key, err := zklogin.GenerateEphemeralKey(epoch + s.additionalEpochs)
	if err != nil {
		return core.WrapError(core.KindService, err, "failed to generate ephemeral key")
	}

	ks, err := s.keystores.Open(path)
	if err != nil {
		return err
	}
	defer ks.Close()

	id, err := ks.StoreEphemeralKey(key)
	if err != nil {
		return err
	}

	s.session.Reset()
	s.session = &core.Session{
		Key:   key,
		Nonce: zklogin.Nonce(key),
	}
	s.keystoreID = id

	return nil
}

// GetURL builds the identity-provider authorization URL for the bound
// nonce. The optional state is round-tripped opaquely; pass nil for none.
// Fails with a Service error if CreateZkpPayload has not run yet.
func (s *ZkLoginService) GetURL(redirectURL string, state any) (string, error) {
	return oauth.BuildAuthURL(s.clientID, redirectURL, s.session.Nonce, state)
}

// SetJWT replaces the session's identity token. Any previously requested
// proof is dropped, since it was bound to the old token.
func (s *ZkLoginService) SetJWT(token string) error {
	if err := core.ValidateTokenFormat(token); err != nil {
		return err
	}
	s.session.JWT = token
	s.session.Proof = nil
	return nil
}

// SetZkLogin completes a login from the provider callback: it extracts the
// identity token from the callback URL fragment and exchanges it for a proof.
func (s *ZkLoginService) SetZkLogin(ctx context.Context, callbackURL string) (*core.ZkProofBundle, error) {
	token, err := oauth.ExtractJWT(callbackURL)
	if err != nil {
		return nil, err
	}
	s.session.JWT = token
	s.session.Proof = nil

	proof, err := s.RequestProof(ctx)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if claims, cerr := core.ParseIDToken(token); cerr == nil {
			// Best effort: the session is established regardless
			if perr := s.events.PublishLogin(ctx, claims.Subject); perr != nil {
				fmt.Printf("Warning: failed to publish login event: %v\n", perr)
			}
		}
	}

	return proof, nil
}

// RequestProof exchanges the session's identity token and ephemeral public
// data for a zero-knowledge proof bundle. The token's nonce claim must equal
// the bound session nonce; a mismatch fails fast with InvalidProof before
// any network call. Retries reuse identical inputs: the service never
// regenerates randomness for an already-issued token, because that would
// silently change the nonce/account binding.
func (s *ZkLoginService) RequestProof(ctx context.Context) (*core.ZkProofBundle, error) {
	if s.session.JWT == "" {
		return nil, core.NewError(core.KindService, "no identity token set")
	}
	if s.session.Key == nil {
		return nil, core.NewError(core.KindService, "no ephemeral key bound: create the zkp payload first")
	}

	claims, err := core.ParseIDToken(s.session.JWT)
	if err != nil {
		return nil, err
	}
	if claims.Nonce != s.session.Nonce {
		return nil, core.NewError(core.KindInvalidProof, "identity token nonce %q does not match session nonce %q", claims.Nonce, s.session.Nonce)
	}

	proof, err := s.prover.RequestProof(ctx, s.session.JWT, s.session.Key)
	if err != nil {
		return nil, err
	}

	if proof.EphemeralPublicKey != s.session.Key.PublicKeyBase64() || proof.MaxEpoch != s.session.Key.MaxEpoch {
		return nil, core.NewError(core.KindInvalidProof, "proof bundle public inputs do not match the session's ephemeral key")
	}

	s.session.Proof = proof
	return proof, nil
}

// RecoverSeedAddress re-requests the proof for the stored identity token,
// reusing the exact session inputs.
func (s *ZkLoginService) RecoverSeedAddress(ctx context.Context) (*core.ZkProofBundle, error) {
	return s.RequestProof(ctx)
}

// GetAddress resolves the on-chain account for the session's identity token.
// The per-user salt comes from the proving service; the address itself is
// derived locally and deterministically from (issuer, subject, audience,
// salt), which keeps the account stable across login sessions.
func (s *ZkLoginService) GetAddress(ctx context.Context) (*core.Account, error) {
	if s.session.JWT == "" {
		return nil, core.NewError(core.KindService, "no identity token set")
	}

	claims, err := core.ParseIDToken(s.session.JWT)
	if err != nil {
		return nil, err
	}

	salt, err := s.prover.Salt(ctx, s.session.JWT)
	if err != nil {
		return nil, err
	}

	account := &core.Account{
		Address: zklogin.DeriveAddress(claims.Issuer, claims.Subject, claims.FirstAudience(), salt),
	}
	if s.session.Key != nil {
		account.PublicKey = s.session.Key.PublicKeyBase64()
	}
	return account, nil
}

// SignTransaction signs raw transaction bytes with the session's ephemeral
// key, read back through a scoped keystore handle at path, and composes the
// final signature from the ephemeral signature and the proof bundle. The
// epoch is pre-checked locally so an expired session fails fast instead of
// being rejected by the network. Returns the composite signature and the
// base58 transaction digest.
func (s *ZkLoginService) SignTransaction(ctx context.Context, txBytes []byte, path string) (signature, digest string, err error) {
	if s.session.Proof == nil {
		return "", "", core.NewError(core.KindInvalidProof, "no proof bundle bound to the session")
	}

	epoch, err := s.node.CurrentEpoch(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch current epoch: %w", err)
	}

	ks, err := s.keystores.Open(path)
	if err != nil {
		return "", "", err
	}
	defer ks.Close()

	key, err := ks.LoadEphemeralKey(s.keystoreID)
	if err != nil {
		return "", "", err
	}

	if epoch > key.MaxEpoch {
		return "", "", core.NewError(core.KindService, "ephemeral key expired at epoch %d, current epoch is %d", key.MaxEpoch, epoch)
	}

	signature, err = zklogin.ComposeSignature(zklogin.TransactionDigestBytes(txBytes), key, s.session.Proof)
	if err != nil {
		return "", "", err
	}

	return signature, zklogin.TransactionDigest(txBytes), nil
}

// SubmitTransaction submits signed transaction bytes to the network.
func (s *ZkLoginService) SubmitTransaction(ctx context.Context, txBytesBase64 string, signatures []string) (string, error) {
	return s.node.ExecuteTransaction(ctx, txBytesBase64, signatures)
}

// SponsorTransaction runs the gasless flow: it sends the sponsor-constrained
// envelope (allow-lists pass through unmodified), signs the sponsored bytes
// the sponsor returns with the session's composite signature, and submits
// the co-signed transaction. Returns the submission digest.
func (s *ZkLoginService) SponsorTransaction(ctx context.Context, txKindBytesBase64, sender string, allowedAddresses, allowedMoveCallTargets []string) (string, error) {
	if s.session.Key == nil || len(s.session.Key.PrivateKey) == 0 {
		return "", core.NewError(core.KindService, "session has no signing key: create the zkp payload first")
	}
	if s.session.Proof == nil {
		return "", core.NewError(core.KindInvalidProof, "no proof bundle bound to the session")
	}

	sponsored, err := s.sponsor.SponsorTransaction(ctx, &ports.SponsorRequest{
		TxKindBytes:            txKindBytesBase64,
		Sender:                 sender,
		AllowedAddresses:       allowedAddresses,
		AllowedMoveCallTargets: allowedMoveCallTargets,
	})
	if err != nil {
		return "", err
	}

	txBytes, err := base64.StdEncoding.DecodeString(sponsored.Bytes)
	if err != nil {
		return "", core.WrapError(core.KindInvalidResponse, err, "sponsored transaction bytes are not valid base64")
	}

	signature, err := zklogin.ComposeSignature(zklogin.TransactionDigestBytes(txBytes), s.session.Key, s.session.Proof)
	if err != nil {
		return "", err
	}

	return s.sponsor.SubmitSponsored(ctx, sponsored.Digest, signature)
}

// GetZkProofParams returns the session's proof parameter triple for
// externalized persistence.
func (s *ZkLoginService) GetZkProofParams() core.ProofParams {
	return s.session.Params()
}

// SetZkProofParams restores the proof parameter triple of a previous
// session, rebinding the nonce deterministically from the restored inputs.
// The private key is not restored; signing requires the original keystore.
func (s *ZkLoginService) SetZkProofParams(params core.ProofParams) error {
	pub, err := base64.StdEncoding.DecodeString(params.PublicKey)
	if err != nil {
		return core.WrapError(core.KindService, err, "proof params public key is not valid base64")
	}
	if len(pub) != ed25519.PublicKeySize {
		return core.NewError(core.KindService, "proof params public key has length %d, want %d", len(pub), ed25519.PublicKeySize)
	}

	key := &core.EphemeralKeyData{
		PublicKey:  ed25519.PublicKey(pub),
		MaxEpoch:   params.MaxEpoch,
		Randomness: params.Randomness,
	}
	s.session.Key = key
	s.session.Nonce = zklogin.Nonce(key)
	s.session.Proof = nil
	return nil
}

// SaveSession persists the proof params under id in the configured store.
func (s *ZkLoginService) SaveSession(ctx context.Context, id string) error {
	if s.params == nil {
		return core.NewError(core.KindService, "no param store configured")
	}
	return s.params.SaveParams(ctx, id, s.session.Params())
}

// RestoreSession loads proof params from the configured store and rebinds
// the session to them.
func (s *ZkLoginService) RestoreSession(ctx context.Context, id string) error {
	if s.params == nil {
		return core.NewError(core.KindService, "no param store configured")
	}
	params, err := s.params.LoadParams(ctx, id)
	if err != nil {
		return err
	}
	return s.SetZkProofParams(params)
}

// Logout ends the session: the ephemeral private key is zeroized and all
// session state is dropped.
func (s *ZkLoginService) Logout(ctx context.Context) {
	var subject string
	if claims, err := core.ParseIDToken(s.session.JWT); err == nil {
		subject = claims.Subject
	}

	s.session.Reset()
	s.session = &core.Session{}
	s.keystoreID = ""

	if s.events != nil && subject != "" {
		if err := s.events.PublishLogout(ctx, subject); err != nil {
			fmt.Printf("Warning: failed to publish logout event: %v\n", err)
		}
	}
}
