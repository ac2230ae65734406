package ports

import (
	"context"

	"github.com/squadlabs/zkconnect/core"
)

// Prover requests zero-knowledge proofs and per-user salts from an external
// proving service. Calls are idempotent per (token, ephemeral key) pair and
// must never be retried with different randomness for an issued token.
type Prover interface {
	// RequestProof exchanges the identity token plus the ephemeral public
	// data for a verifiable proof bundle.
	RequestProof(ctx context.Context, jwt string, key *core.EphemeralKeyData) (*core.ZkProofBundle, error)

	// Salt returns the per-user salt for the identity token's subject.
	Salt(ctx context.Context, jwt string) (string, error)
}
