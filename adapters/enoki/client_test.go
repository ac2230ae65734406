package enoki

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

func testKey(t *testing.T) *core.EphemeralKeyData {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return &core.EphemeralKeyData{
		PublicKey:  pub,
		PrivateKey: priv,
		MaxEpoch:   100,
		Randomness: "123456789",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL: srv.URL,
		APIKey:  "test-api-key",
		Network: core.Testnet,
	})
}

func TestRequestProof(t *testing.T) {
	key := testKey(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/zklogin/zkp", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "a.b.c", r.Header.Get(jwtHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload zkpPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "testnet", payload.Network)
		assert.Equal(t, key.PublicKeyBase64(), payload.EphemeralPublicKey)
		assert.Equal(t, uint64(100), payload.MaxEpoch)
		assert.Equal(t, "123456789", payload.Randomness)

		w.Write([]byte(`{"data":{
			"proofPoints":{"a":["1"],"b":[["2"]],"c":["3"]},
			"addressSeed":"987654321",
			"salt":"42",
			"issuer":"https://accounts.google.com",
			"audience":"client-id"
		}}`))
	})

	bundle, err := client.RequestProof(context.Background(), "a.b.c", key)
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":["1"],"b":[["2"]],"c":["3"]}`, string(bundle.Proof))
	assert.Equal(t, "987654321", bundle.AddressSeed)
	assert.Equal(t, "42", bundle.Salt)
	assert.Equal(t, "https://accounts.google.com", bundle.Issuer)
	assert.Equal(t, "client-id", bundle.Audience)
	assert.Equal(t, key.PublicKeyBase64(), bundle.EphemeralPublicKey)
	assert.Equal(t, uint64(100), bundle.MaxEpoch)
}

func TestRequestProofMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"addressSeed":"1"}}`))
	})

	_, err := client.RequestProof(context.Background(), "a.b.c", testKey(t))
	assert.True(t, core.IsKind(err, core.KindInvalidResponse))
}

func TestRequestProofServiceRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid jwt", http.StatusBadRequest)
	})

	_, err := client.RequestProof(context.Background(), "a.b.c", testKey(t))
	assert.True(t, core.IsKind(err, core.KindService))
	assert.Contains(t, err.Error(), "invalid jwt")
}

func TestRequestProofMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := client.RequestProof(context.Background(), "a.b.c", testKey(t))
	assert.True(t, core.IsKind(err, core.KindInvalidResponse))
}

func TestRequestProofTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := New(Config{BaseURL: srv.URL, Network: core.Testnet})

	_, err := client.RequestProof(context.Background(), "a.b.c", testKey(t))
	assert.True(t, core.IsKind(err, core.KindNetwork))
}

func TestSalt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/zklogin", r.URL.Path)
		assert.Equal(t, "a.b.c", r.Header.Get(jwtHeader))

		w.Write([]byte(`{"data":{"address":"0xabc","salt":"4242"}}`))
	})

	salt, err := client.Salt(context.Background(), "a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "4242", salt)
}

func TestSaltMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"address":"0xabc"}}`))
	})

	_, err := client.Salt(context.Background(), "a.b.c")
	assert.True(t, core.IsKind(err, core.KindInvalidResponse))
}

func TestSponsorTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction-blocks/sponsor", r.URL.Path)

		var payload sponsorPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "testnet", payload.Network)
		assert.Equal(t, "dHgga2luZA==", payload.TransactionBlockKindBytes)
		assert.Equal(t, "0xsender", payload.Sender)
		assert.Equal(t, []string{"0xrecipient"}, payload.AllowedAddresses)
		assert.Equal(t, []string{"0x2::coin::transfer"}, payload.AllowedMoveCallTargets)

		w.Write([]byte(`{"data":{"digest":"Dg3st","bytes":"c3BvbnNvcmVk"}}`))
	})

	sponsored, err := client.SponsorTransaction(context.Background(), &ports.SponsorRequest{
		TxKindBytes:            "dHgga2luZA==",
		Sender:                 "0xsender",
		AllowedAddresses:       []string{"0xrecipient"},
		AllowedMoveCallTargets: []string{"0x2::coin::transfer"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Dg3st", sponsored.Digest)
	assert.Equal(t, "c3BvbnNvcmVk", sponsored.Bytes)
}

func TestSponsorTransactionRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "address not in allow list", http.StatusForbidden)
	})

	_, err := client.SponsorTransaction(context.Background(), &ports.SponsorRequest{
		TxKindBytes: "dHg=",
		Sender:      "0xsender",
	})
	assert.True(t, core.IsKind(err, core.KindService))
}

func TestSubmitSponsored(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction-blocks/sponsor/Dg3st", r.URL.Path)

		var payload submitSponsorPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sig-base64", payload.Signature)

		w.Write([]byte(`{"data":{"digest":"F1nal"}}`))
	})

	digest, err := client.SubmitSponsored(context.Background(), "Dg3st", "sig-base64")
	require.NoError(t, err)
	assert.Equal(t, "F1nal", digest)
}
