package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

// Client is a thin JSON-RPC client for the network fullnode. It covers only
// what the login flow needs: the current epoch and transaction execution.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ ports.Node = (*Client)(nil)

// New creates a node client for the network's default fullnode.
func New(network core.Network, httpClient *http.Client) *Client {
	return NewWithEndpoint(network.FullnodeURL(), httpClient)
}

// NewWithEndpoint creates a node client against an explicit RPC endpoint.
func NewWithEndpoint(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

// CurrentEpoch returns the network's current epoch.
func (c *Client) CurrentEpoch(ctx context.Context) (uint64, error) {
	var state struct {
		Epoch string `json:"epoch"`
	}
	if err := c.call(ctx, "suix_getLatestSuiSystemState", nil, &state); err != nil {
		return 0, err
	}

	epoch, err := strconv.ParseUint(state.Epoch, 10, 64)
	if err != nil {
		return 0, core.WrapError(core.KindInvalidResponse, err, "fullnode returned a non-numeric epoch %q", state.Epoch)
	}
	return epoch, nil
}

// ExecuteTransaction submits signed transaction bytes and returns the digest.
func (c *Client) ExecuteTransaction(ctx context.Context, txBytesBase64 string, signatures []string) (string, error) {
	var result struct {
		Digest string `json:"digest"`
	}
	params := []any{txBytesBase64, signatures}
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &result); err != nil {
		return "", err
	}

	if result.Digest == "" {
		return "", core.NewError(core.KindInvalidResponse, "execution response is missing digest")
	}
	return result.Digest, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	raw, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return core.WrapError(core.KindService, err, "failed to encode %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return core.WrapError(core.KindService, err, "failed to build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.WrapError(core.KindNetwork, err, "%s request failed", method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.WrapError(core.KindNetwork, err, "failed to read %s response", method)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(body, &rpc); err != nil {
		return core.WrapError(core.KindInvalidResponse, err, "malformed %s response", method)
	}
	if rpc.Error != nil {
		return core.NewError(core.KindService, "%s failed with code %d: %s", method, rpc.Error.Code, rpc.Error.Message)
	}

	if err := json.Unmarshal(rpc.Result, out); err != nil {
		return core.WrapError(core.KindInvalidResponse, err, "malformed %s result", method)
	}
	return nil
}
