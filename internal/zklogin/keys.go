package zklogin

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/squadlabs/zkconnect/core"
)

// GenerateEphemeralKey creates a fresh ed25519 keypair with new randomness,
// valid until maxEpoch. Randomness is generated per call and never reused:
// reuse across sessions would make the derived nonce replayable.
func GenerateEphemeralKey(maxEpoch uint64) (*core.EphemeralKeyData, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral keypair: %w", err)
	}

	randomness, err := GenerateRandomness()
	if err != nil {
		return nil, err
	}

	return &core.EphemeralKeyData{
		PublicKey:  pub,
		PrivateKey: priv,
		MaxEpoch:   maxEpoch,
		Randomness: randomness,
	}, nil
}

// GenerateRandomness returns a fresh 128-bit random integer as a decimal
// string, from a cryptographically secure source.
func GenerateRandomness() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate randomness: %w", err)
	}
	return new(big.Int).SetBytes(buf).String(), nil
}
