package ports

import "context"

// Node is the blockchain network client boundary. Transaction construction
// and execution live behind it; the SDK only needs the current epoch and a
// way to submit signed bytes.
type Node interface {
	CurrentEpoch(ctx context.Context) (uint64, error)
	ExecuteTransaction(ctx context.Context, txBytesBase64 string, signatures []string) (digest string, err error)
}
