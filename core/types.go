package core

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
)

// EphemeralKeyData is the per-login-session key material. The private key is
// exclusively owned by the session and zeroized when the session ends. The
// pair is only usable while the current network epoch is at most MaxEpoch.
type EphemeralKeyData struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey

	// MaxEpoch is the last epoch the key (and any proof bound to it) is
	// valid for. There is no revocation beyond this expiry.
	MaxEpoch uint64

	// Randomness is a decimal-encoded random integer of at least 128 bits,
	// generated fresh per session and never reused.
	Randomness string
}

// PublicKeyBase64 returns the standard base64 encoding of the public key.
func (k *EphemeralKeyData) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(k.PublicKey)
}

// Zeroize overwrites the private key bytes. The key is unusable afterwards.
func (k *EphemeralKeyData) Zeroize() {
	for i := range k.PrivateKey {
		k.PrivateKey[i] = 0
	}
}

// ZkProofBundle is the opaque proof returned by the proving service together
// with the public inputs it was generated against. It is a capability bound
// to the exact ephemeral key that produced its nonce, valid until MaxEpoch.
type ZkProofBundle struct {
	// Proof is the opaque zero-knowledge proof artifact, verified by the
	// network, not by this SDK.
	Proof json.RawMessage `json:"proofPoints"`

	// AddressSeed binds the proof to the derived account address.
	AddressSeed string `json:"addressSeed"`

	// Public inputs.
	Salt               string `json:"salt"`
	Issuer             string `json:"issuer"`
	Audience           string `json:"audience"`
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	MaxEpoch           uint64 `json:"maxEpoch"`
}

// Account is the resolved on-chain account. It is always a pure function of
// the identity token claims and the per-user salt, never stored.
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// ProofParams is the (randomness, ephemeral public key, max epoch) triple a
// caller may persist externally to survive process restarts. Secure storage
// is the caller's responsibility.
type ProofParams struct {
	Randomness string `json:"randomness"`
	PublicKey  string `json:"publicKey"`
	MaxEpoch   uint64 `json:"maxEpoch"`
}
