package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heronft/heronft-client/internal/heronft/heronfttest"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(body), 0o600))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(InfuraKeyEnv, "")

	cfg, err := LoadFrom(nil)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.ClientSettings.LocalHost)
	require.Equal(t, "6138", cfg.ClientSettings.Port)
	require.Contains(t, cfg.ClientSettings.AllowedOrigins, "http://localhost:3000")

	require.Equal(t, heronfttest.Address, cfg.ContractAddress())
	require.Equal(t, "sepolia", cfg.Marketplace.RequiredNetwork)
	require.Equal(t, "Sepolia", cfg.Marketplace.NetworkLabel)

	dc := cfg.DiscoveryConfig()
	require.Equal(t, 50, dc.Width)
	require.True(t, dc.StopEarly)

	sepolia, err := cfg.RequiredNetwork()
	require.NoError(t, err)
	require.Equal(t, uint64(11155111), sepolia.ChainID)
	require.Equal(t, "0xaa36a7", sepolia.ChainIDHex)
	require.NotEmpty(t, sepolia.RPCs)
	require.Equal(t, "sepolia", cfg.EthNetworks.ActiveNetwork)

	require.NotNil(t, cfg.Wallet)
	require.Empty(t, cfg.Wallet.KeyringPath)
}

func TestLoadMergesFirstFile(t *testing.T) {
	t.Setenv(InfuraKeyEnv, "")
	first := writeConfig(t, `
ClientSettings:
  Port: "7000"
Marketplace:
  ScanWidth: 20
  StopEarly: false
`)
	second := writeConfig(t, `
ClientSettings:
  Port: "9000"
`)

	cfg, err := LoadFrom([]string{t.TempDir(), first, second})
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.ClientSettings.Port)
	require.Equal(t, 20, cfg.Marketplace.ScanWidth)
	require.False(t, cfg.Marketplace.StopEarly)
	require.Equal(t, heronfttest.Address, cfg.ContractAddress(), "untouched keys keep their defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(InfuraKeyEnv, "")
	t.Setenv("HERONFT_CLIENTSETTINGS_PORT", "7100")
	t.Setenv("HERONFT_MARKETPLACE_SCANWIDTH", "75")

	cfg, err := LoadFrom(nil)
	require.NoError(t, err)
	require.Equal(t, "7100", cfg.ClientSettings.Port)
	require.Equal(t, 75, cfg.Marketplace.ScanWidth)
}

func TestInjectInfuraKey(t *testing.T) {
	t.Setenv(InfuraKeyEnv, "abc123")

	cfg, err := LoadFrom(nil)
	require.NoError(t, err)

	require.Equal(t, "Infura", cfg.EthNetworks.ActiveRPC)
	for name, n := range cfg.EthNetworks.Networks {
		require.Equal(t, "Infura", n.RPCs[0].Name, name)
		require.Equal(t, "https://"+name+".infura.io/v3/abc123", n.RPCs[0].URL, name)
	}

	require.Error(t, (&Config{}).InjectInfuraKey("  "))
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(InfuraKeyEnv, "")

	dir := writeConfig(t, `
Marketplace:
  RequiredNetwork: "polygon"
`)
	_, err := LoadFrom([]string{dir})
	require.ErrorContains(t, err, `"polygon"`)

	dir = writeConfig(t, `
Marketplace:
  ContractAddress: "0x1234"
`)
	_, err = LoadFrom([]string{dir})
	require.ErrorContains(t, err, "ContractAddress")

	dir = writeConfig(t, `
ClientSettings:
  Port: ""
`)
	_, err = LoadFrom([]string{dir})
	require.Error(t, err)
}
