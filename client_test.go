package zkconnect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadlabs/zkconnect/core"
)

func TestNewWiresDefaults(t *testing.T) {
	client := New(Config{
		Network:  Testnet,
		ClientID: "demo-client-id",
		APIKey:   "api-key",
	})

	require.NotNil(t, client.Node())
	assert.Empty(t, client.GetZkProofParams().Randomness)
}

func TestIsKindReexport(t *testing.T) {
	err := core.NewError(core.KindInvalidProof, "nonce mismatch")

	assert.True(t, IsKind(err, KindInvalidProof))
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", err), KindInvalidProof))
	assert.False(t, IsKind(err, KindNetwork))
}

func TestExtractHelpers(t *testing.T) {
	callback := "http://localhost:3000/callback#id_token=a.b.c&state=%22custom_state%22"

	token, err := ExtractJWTFromCallback(callback)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	state, err := ExtractStateFromCallback[string](callback)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "custom_state", *state)
}
