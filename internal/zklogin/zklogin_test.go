package zklogin

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadlabs/zkconnect/core"
)

func newTestKey(t *testing.T, maxEpoch uint64) *core.EphemeralKeyData {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return &core.EphemeralKeyData{
		PublicKey:  pub,
		PrivateKey: priv,
		MaxEpoch:   maxEpoch,
		Randomness: "170141183460469231731687303715884105727",
	}
}

func boundProof(key *core.EphemeralKeyData) *core.ZkProofBundle {
	return &core.ZkProofBundle{
		Proof:              json.RawMessage(`{"a":["1","2"],"b":[["3","4"]],"c":["5","6"]}`),
		AddressSeed:        "1234567890",
		Salt:               "99",
		EphemeralPublicKey: key.PublicKeyBase64(),
		MaxEpoch:           key.MaxEpoch,
	}
}

func TestGenerateRandomnessFreshAndBounded(t *testing.T) {
	r1, err := GenerateRandomness()
	require.NoError(t, err)
	r2, err := GenerateRandomness()
	require.NoError(t, err)

	assert.NotEqual(t, r1, r2)

	n, ok := new(big.Int).SetString(r1, 10)
	require.True(t, ok)
	assert.LessOrEqual(t, n.BitLen(), 128)
}

func TestGenerateEphemeralKeyFreshRandomness(t *testing.T) {
	k1, err := GenerateEphemeralKey(100)
	require.NoError(t, err)
	k2, err := GenerateEphemeralKey(100)
	require.NoError(t, err)

	assert.NotEqual(t, k1.Randomness, k2.Randomness)
	assert.NotEqual(t, k1.PublicKeyBase64(), k2.PublicKeyBase64())
	assert.Equal(t, uint64(100), k1.MaxEpoch)
}

func TestNonceDeterministic(t *testing.T) {
	key := newTestKey(t, 100)

	assert.Equal(t, Nonce(key), Nonce(key))
}

func TestNonceChangesWithInputs(t *testing.T) {
	key := newTestKey(t, 100)
	base := Nonce(key)

	other := *key
	other.Randomness = "42"
	assert.NotEqual(t, base, Nonce(&other))

	other = *key
	other.MaxEpoch = 101
	assert.NotEqual(t, base, Nonce(&other))

	assert.NotEqual(t, base, Nonce(newTestKey(t, 100)))
}

func TestDeriveAddressDeterministic(t *testing.T) {
	a1 := DeriveAddress("https://accounts.google.com", "sub-1", "client-1", "salt-1")
	a2 := DeriveAddress("https://accounts.google.com", "sub-1", "client-1", "salt-1")

	assert.Equal(t, a1, a2)
	assert.Len(t, a1, 66)
	assert.Equal(t, "0x", a1[:2])
}

func TestDeriveAddressSeparatesFields(t *testing.T) {
	base := DeriveAddress("iss", "sub", "aud", "salt")

	assert.NotEqual(t, base, DeriveAddress("iss", "sub", "aud", "other-salt"))
	assert.NotEqual(t, base, DeriveAddress("iss", "other-sub", "aud", "salt"))

	// Length prefixing keeps shifted field boundaries apart.
	assert.NotEqual(t, DeriveAddress("ab", "c", "aud", "salt"), DeriveAddress("a", "bc", "aud", "salt"))

	// The prefix width covers fields past 64KiB too.
	big := strings.Repeat("a", 1<<16)
	assert.NotEqual(t, DeriveAddress("iss", big+"b", "c", "salt"), DeriveAddress("iss", big, "bc", "salt"))
}

func TestTransactionDigest(t *testing.T) {
	digest := TransactionDigest([]byte("tx bytes"))

	decoded, err := base58.Decode(digest)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	assert.Equal(t, digest, TransactionDigest([]byte("tx bytes")))
	assert.NotEqual(t, digest, TransactionDigest([]byte("other tx")))
}

func TestComposeSignatureCarriesBothLayers(t *testing.T) {
	key := newTestKey(t, 100)
	proof := boundProof(key)
	digest := TransactionDigestBytes([]byte("tx bytes"))

	sig, err := ComposeSignature(digest, key, proof)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)

	var decoded struct {
		Proof         json.RawMessage `json:"proofPoints"`
		AddressSeed   string          `json:"addressSeed"`
		MaxEpoch      uint64          `json:"maxEpoch"`
		UserSignature string          `json:"userSignature"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.JSONEq(t, string(proof.Proof), string(decoded.Proof))
	assert.Equal(t, proof.AddressSeed, decoded.AddressSeed)
	assert.Equal(t, uint64(100), decoded.MaxEpoch)

	userSig, err := base64.StdEncoding.DecodeString(decoded.UserSignature)
	require.NoError(t, err)
	require.Len(t, userSig, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	assert.Equal(t, byte(0x00), userSig[0])

	sigBytes := userSig[1 : 1+ed25519.SignatureSize]
	pubBytes := userSig[1+ed25519.SignatureSize:]
	assert.Equal(t, []byte(key.PublicKey), pubBytes)
	assert.True(t, ed25519.Verify(key.PublicKey, digest, sigBytes))
}

func TestComposeSignatureRejectsForeignKey(t *testing.T) {
	key := newTestKey(t, 100)
	foreign := newTestKey(t, 100)

	proof := boundProof(foreign)
	_, err := ComposeSignature(TransactionDigestBytes([]byte("tx")), key, proof)

	assert.True(t, core.IsKind(err, core.KindInvalidProof))
}

func TestComposeSignatureRejectsEpochMismatch(t *testing.T) {
	key := newTestKey(t, 100)
	proof := boundProof(key)
	proof.MaxEpoch = 99

	_, err := ComposeSignature(TransactionDigestBytes([]byte("tx")), key, proof)
	assert.True(t, core.IsKind(err, core.KindInvalidProof))
}

func TestComposeSignatureRequiresProof(t *testing.T) {
	key := newTestKey(t, 100)

	_, err := ComposeSignature(TransactionDigestBytes([]byte("tx")), key, nil)
	assert.True(t, core.IsKind(err, core.KindInvalidProof))
}
