package sui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadlabs/zkconnect/core"
)

func newTestNode(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWithEndpoint(srv.URL, nil)
}

func TestCurrentEpoch(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "suix_getLatestSuiSystemState", req.Method)

		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"epoch":"412","epochDurationMs":"86400000"}}`))
	})

	epoch, err := node.CurrentEpoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(412), epoch)
}

func TestCurrentEpochNonNumeric(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"epoch":"soon"}}`))
	})

	_, err := node.CurrentEpoch(context.Background())
	assert.True(t, core.IsKind(err, core.KindInvalidResponse))
}

func TestExecuteTransaction(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sui_executeTransactionBlock", req.Method)
		require.Len(t, req.Params, 2)
		assert.Equal(t, "dHggYnl0ZXM=", req.Params[0])
		assert.Equal(t, []any{"sig1"}, req.Params[1])

		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"digest":"9WzFl"}}`))
	})

	digest, err := node.ExecuteTransaction(context.Background(), "dHggYnl0ZXM=", []string{"sig1"})
	require.NoError(t, err)
	assert.Equal(t, "9WzFl", digest)
}

func TestExecuteTransactionRPCError(t *testing.T) {
	node := newTestNode(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":"transaction validator signing failed"}}`))
	})

	_, err := node.ExecuteTransaction(context.Background(), "dHg=", []string{"sig1"})
	assert.True(t, core.IsKind(err, core.KindService))
	assert.Contains(t, err.Error(), "validator signing failed")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	node := NewWithEndpoint(srv.URL, nil)

	_, err := node.CurrentEpoch(context.Background())
	assert.True(t, core.IsKind(err, core.KindNetwork))
}
