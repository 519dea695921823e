package chains

import (
	"context"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func testConfig() *AllChainsConfig {
	cfg := &AllChainsConfig{
		ActiveNetwork: "Sepolia",
		Networks: map[string]NetworkConfig{
			"Sepolia": {
				ChainIDHex: "0xaa36a7",
				Explorer:   " https://sepolia.etherscan.io ",
				RPCs: []RPC{
					{Name: "primary", URL: "http://127.0.0.1:8545"},
					{Name: "backup", URL: "http://127.0.0.1:8546"},
				},
			},
			"mainnet": {
				ChainID: 1,
				RPCs:    []RPC{{Name: "primary", URL: "http://127.0.0.1:8547"}, {Name: "empty", URL: "  "}},
			},
		},
	}
	return cfg
}

// HTTP clients dial lazily, so no node is needed for these tests.
func newTestService(t *testing.T, preferred string) *Service {
	t.Helper()
	cfg := testConfig()
	require.NoError(t, cfg.Normalize())

	s, err := NewService(context.Background(), ChainConfig{
		Chains:               cfg,
		DefaultActiveNetwork: cfg.ActiveNetwork,
		PreferredRPCName:     preferred,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNormalize(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Normalize())

	require.Equal(t, "sepolia", cfg.ActiveNetwork)
	sepolia, ok := cfg.Networks["sepolia"]
	require.True(t, ok)
	require.Equal(t, uint64(11155111), sepolia.ChainID)
	require.Equal(t, "https://sepolia.etherscan.io", sepolia.Explorer)

	mainnet := cfg.Networks["mainnet"]
	require.Equal(t, "0x1", mainnet.ChainIDHex)
	require.Len(t, mainnet.RPCs, 1)
}

func TestServiceActive(t *testing.T) {
	s := newTestService(t, "")

	resolved, clients, err := s.Active()
	require.NoError(t, err)
	require.Equal(t, "sepolia", resolved.NetworkName)
	require.Equal(t, "primary", resolved.RPCName)
	require.NotNil(t, clients.HTTP)

	id, err := s.ActiveChainID()
	require.NoError(t, err)
	require.Equal(t, int64(11155111), id.Int64())

	// the returned id is a copy
	id.SetInt64(1)
	again, _ := s.ActiveChainID()
	require.Equal(t, int64(11155111), again.Int64())
}

func TestServicePreferredRPC(t *testing.T) {
	s := newTestService(t, "BACKUP")

	resolved, _, err := s.Active()
	require.NoError(t, err)
	require.Equal(t, "backup", resolved.RPCName)
	require.Equal(t, "http://127.0.0.1:8546", resolved.URL)
}

func TestServiceSwitchByID(t *testing.T) {
	s := newTestService(t, "")

	resolved, err := s.SwitchChainByID(context.Background(), big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, "mainnet", resolved.NetworkName)

	name, err := s.ActiveNetwork()
	require.NoError(t, err)
	require.Equal(t, "mainnet", name)

	_, err = s.SwitchChainByID(context.Background(), big.NewInt(137))
	require.True(t, errors.Is(err, ErrUnknownChain))

	// failed switch keeps the previous network
	name, _ = s.ActiveNetwork()
	require.Equal(t, "mainnet", name)
}

func TestServiceCachesClients(t *testing.T) {
	s := newTestService(t, "")

	a, err := s.ClientsForNetwork(context.Background(), "sepolia")
	require.NoError(t, err)
	b, err := s.ClientsForNetwork(context.Background(), " SEPOLIA ")
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestServiceNetworks(t *testing.T) {
	s := newTestService(t, "")

	nets := s.Networks()
	require.Len(t, nets, 2)
	require.Equal(t, "mainnet", nets[0].NetworkName)
	require.Equal(t, "sepolia", nets[1].NetworkName)
}
