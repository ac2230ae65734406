package ports

import (
	"context"

	"github.com/squadlabs/zkconnect/core"
)

// ParamStore persists zk proof parameters across process restarts. The SDK
// itself adds no persistence; wiring a store is the caller's choice and the
// caller is responsible for securing it.
type ParamStore interface {
	SaveParams(ctx context.Context, id string, params core.ProofParams) error
	LoadParams(ctx context.Context, id string) (core.ProofParams, error)
}
