package zklogin

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/squadlabs/zkconnect/core"
)

// ed25519Flag is the signature scheme byte prefixed to the serialized
// ephemeral signature.
const ed25519Flag = 0x00

// compositeSignature is the wire form of the two-layer signature: the
// ephemeral signature over the transaction digest plus the zero-knowledge
// proof binding the ephemeral key to the identity claim. MaxEpoch is encoded
// so the verifier can reject the signature once the epoch has passed; that
// is the scheme's only expiry mechanism.
type compositeSignature struct {
	Proof         json.RawMessage `json:"proofPoints"`
	AddressSeed   string          `json:"addressSeed"`
	MaxEpoch      uint64          `json:"maxEpoch"`
	UserSignature string          `json:"userSignature"`
}

// TransactionDigestBytes returns the blake2b-256 digest of raw transaction
// bytes, the value the ephemeral key signs.
func TransactionDigestBytes(txBytes []byte) []byte {
	sum := blake2b.Sum256(txBytes)
	return sum[:]
}

// TransactionDigest returns the base58 encoding of the transaction digest.
func TransactionDigest(txBytes []byte) string {
	return base58.Encode(TransactionDigestBytes(txBytes))
}

// ComposeSignature signs the transaction digest with the ephemeral private
// key and combines it with the proof bundle into the composite signature the
// network verifier accepts. The bundle's public inputs must reference the
// exact key used at sign time.
func ComposeSignature(digest []byte, key *core.EphemeralKeyData, proof *core.ZkProofBundle) (string, error) {
	if proof == nil {
		return "", core.NewError(core.KindInvalidProof, "no proof bundle bound to the session")
	}
	if proof.EphemeralPublicKey != key.PublicKeyBase64() {
		return "", core.NewError(core.KindInvalidProof, "proof bundle is bound to a different ephemeral public key")
	}
	if proof.MaxEpoch != key.MaxEpoch {
		return "", core.NewError(core.KindInvalidProof, "proof bundle max epoch %d does not match key max epoch %d", proof.MaxEpoch, key.MaxEpoch)
	}

	sig := ed25519.Sign(key.PrivateKey, digest)

	userSig := make([]byte, 0, 1+len(sig)+len(key.PublicKey))
	userSig = append(userSig, ed25519Flag)
	userSig = append(userSig, sig...)
	userSig = append(userSig, key.PublicKey...)

	payload, err := json.Marshal(compositeSignature{
		Proof:         proof.Proof,
		AddressSeed:   proof.AddressSeed,
		MaxEpoch:      proof.MaxEpoch,
		UserSignature: base64.StdEncoding.EncodeToString(userSig),
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize composite signature: %w", err)
	}

	return base64.StdEncoding.EncodeToString(payload), nil
}
