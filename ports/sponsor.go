package ports

import (
	"context"
)

// SponsorRequest is the sponsor-constrained transaction envelope. The
// allow-lists are passed through to the sponsor service unmodified; anything
// not listed is rejected by the sponsor, not by this SDK.
type SponsorRequest struct {
	TxKindBytes            string
	Sender                 string
	AllowedAddresses       []string
	AllowedMoveCallTargets []string
}

// SponsoredTransaction is the sponsor's acceptance: the full transaction
// bytes including the gas payment, and the digest to submit against.
type SponsoredTransaction struct {
	Digest string
	Bytes  string
}

// Sponsor obtains third-party gas sponsorship for transactions.
type Sponsor interface {
	SponsorTransaction(ctx context.Context, req *SponsorRequest) (*SponsoredTransaction, error)

	// SubmitSponsored sends the sender's signature for a previously
	// sponsored transaction and returns the submission digest.
	SubmitSponsored(ctx context.Context, digest, signature string) (string, error)
}
