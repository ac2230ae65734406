package core

// Network selects the prover/sponsor endpoints and the fullnode a client
// instance talks to. Immutable for the lifetime of a client.
type Network string

const (
	Devnet  Network = "devnet"
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)

// ParseNetwork maps a string to a Network, defaulting to Testnet for
// unknown values.
func ParseNetwork(s string) Network {
	switch s {
	case string(Devnet):
		return Devnet
	case string(Mainnet):
		return Mainnet
	default:
		return Testnet
	}
}

// FullnodeURL returns the JSON-RPC endpoint for the network.
func (n Network) FullnodeURL() string {
	switch n {
	case Devnet:
		return "https://fullnode.devnet.sui.io:443"
	case Mainnet:
		return "https://fullnode.mainnet.sui.io:443"
	default:
		return "https://fullnode.testnet.sui.io:443"
	}
}

func (n Network) String() string {
	return string(n)
}
