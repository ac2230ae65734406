package zklogin

import (
	"encoding/base64"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/squadlabs/zkconnect/core"
)

// nonceLen is the number of digest bytes kept for the nonce, matching the
// length budget of an OpenID nonce claim.
const nonceLen = 20

// Nonce derives the proof-binding nonce from the ephemeral public key, the
// session randomness and the max epoch. Deterministic: identical inputs
// always yield an identical nonce. The same value must appear in the OAuth
// request and in the identity token's nonce claim.
func Nonce(key *core.EphemeralKeyData) string {
	h, _ := blake2b.New256(nil)
	h.Write(key.PublicKey)
	h.Write([]byte(key.Randomness))

	var epoch [8]byte
	binary.BigEndian.PutUint64(epoch[:], key.MaxEpoch)
	h.Write(epoch[:])

	sum := h.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(sum[:nonceLen])
}
