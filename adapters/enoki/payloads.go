package enoki

import "encoding/json"

// responseData is the envelope every service response arrives in.
type responseData[T any] struct {
	Data T `json:"data"`
}

type zkpPayload struct {
	Network            string `json:"network"`
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	MaxEpoch           uint64 `json:"maxEpoch"`
	Randomness         string `json:"randomness"`
}

type zkpResponse struct {
	ProofPoints json.RawMessage `json:"proofPoints"`
	AddressSeed string          `json:"addressSeed"`
	Salt        string          `json:"salt"`
	Issuer      string          `json:"issuer"`
	Audience    string          `json:"audience"`
}

type accountResponse struct {
	Salt      string `json:"salt"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

type sponsorPayload struct {
	Network                   string   `json:"network"`
	TransactionBlockKindBytes string   `json:"transactionBlockKindBytes"`
	Sender                    string   `json:"sender"`
	AllowedAddresses          []string `json:"allowedAddresses"`
	AllowedMoveCallTargets    []string `json:"allowedMoveCallTargets"`
}

type sponsorResponse struct {
	Digest string `json:"digest"`
	Bytes  string `json:"bytes"`
}

type submitSponsorPayload struct {
	Signature string `json:"signature"`
}

type submitSponsorResponse struct {
	Digest string `json:"digest"`
}
