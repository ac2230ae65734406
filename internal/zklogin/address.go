package zklogin

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"
)

// addressFlag is the scheme byte prepended to the address seed before
// hashing, separating zklogin addresses from plain keypair addresses.
const addressFlag = 0x05

// DeriveAddress computes the on-chain account address from the identity
// token claims and the per-user salt. Pure and deterministic: the same
// (issuer, subject, audience, salt) always yields the same address, which is
// what keeps an account stable across login sessions.
func DeriveAddress(issuer, subject, audience, salt string) string {
	seed := hashFields(salt, issuer, subject, audience)

	h, _ := blake2b.New256(nil)
	h.Write([]byte{addressFlag})
	h.Write(seed)
	return hexutil.Encode(h.Sum(nil))
}

// hashFields hashes length-prefixed fields so that no two distinct field
// tuples can collide by concatenation.
func hashFields(fields ...string) []byte {
	h, _ := blake2b.New256(nil)
	for _, f := range fields {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(f)))
		h.Write(l[:])
		h.Write([]byte(f))
	}
	return h.Sum(nil)
}
