package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/discovery"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var EmbeddedConfigYAML []byte

const (
	EnvPrefix    = "HERONFT"
	InfuraKeyEnv = "HERONFT_INFURA_KEY"
	configFile   = "config.yaml"
)

type ClientSettings struct {
	LocalHost      string
	Port           string
	AllowedOrigins []string
}

type MarketplaceSettings struct {
	ContractAddress string
	RequiredNetwork string
	NetworkLabel    string
	ScanWidth       int
	StopEarly       bool
}

type WalletSettings struct {
	// KeyringPath empty means the user config dir.
	KeyringPath string
}

type Config struct {
	ClientSettings *ClientSettings
	Marketplace    *MarketplaceSettings
	Wallet         *WalletSettings
	EthNetworks    *chains.AllChainsConfig `mapstructure:"Ethereum"`
}

func infuraRPC(chain string, key string) string {
	return fmt.Sprintf("https://%s.infura.io/v3/%s", chain, key)
}

func Load() (*Config, error) {
	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", "heronft"),
		"config",
		".",
	}

	return LoadFrom(paths)
}

// LoadFrom reads the embedded defaults, merges the first config.yaml found in
// paths and applies HERONFT_* environment overrides.
func LoadFrom(paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(EmbeddedConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	for _, dir := range paths {
		p := filepath.Join(dir, configFile)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "merge config %s", p)
		}
		log.Info("config file loaded", "path", p)
		break
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if key := strings.TrimSpace(os.Getenv(InfuraKeyEnv)); key != "" {
		if err := cfg.InjectInfuraKey(key); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) InjectInfuraKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("infura api key is empty")
	}
	if c.EthNetworks == nil {
		return errors.New("no networks configured")
	}

	for netName, net := range c.EthNetworks.Networks {
		rpcURL := infuraRPC(chains.NormalizeNetworkKey(netName), key)

		// Ensure at least one RPC entry exists
		if len(net.RPCs) == 0 {
			net.RPCs = []chains.RPC{{Name: "Infura", URL: rpcURL}}
		} else {
			// Fill or overwrite the first RPC slot
			net.RPCs[0].Name = "Infura"
			net.RPCs[0].URL = rpcURL
		}

		// IMPORTANT: write back (map value copy)
		c.EthNetworks.Networks[netName] = net
	}
	c.EthNetworks.ActiveRPC = "Infura"

	return nil
}

// Validate normalizes the networks and checks the sections the client needs.
func (c *Config) Validate() error {
	if c.ClientSettings == nil || strings.TrimSpace(c.ClientSettings.Port) == "" {
		return errors.New("ClientSettings.Port is required")
	}
	if strings.TrimSpace(c.ClientSettings.LocalHost) == "" {
		c.ClientSettings.LocalHost = "127.0.0.1"
	}

	if c.Marketplace == nil {
		return errors.New("Marketplace section is required")
	}
	if !common.IsHexAddress(c.Marketplace.ContractAddress) {
		return errors.Newf("Marketplace.ContractAddress %q is not an address", c.Marketplace.ContractAddress)
	}
	if c.Marketplace.ScanWidth <= 0 {
		c.Marketplace.ScanWidth = discovery.DefaultWidth
	}

	if c.EthNetworks == nil || len(c.EthNetworks.Networks) == 0 {
		return errors.New("Ethereum.networks is required")
	}
	if err := c.EthNetworks.Normalize(); err != nil {
		return errors.Wrap(err, "Ethereum.networks")
	}

	c.Marketplace.RequiredNetwork = chains.NormalizeNetworkKey(c.Marketplace.RequiredNetwork)
	if _, err := c.RequiredNetwork(); err != nil {
		return err
	}
	if c.Marketplace.NetworkLabel == "" {
		c.Marketplace.NetworkLabel = c.Marketplace.RequiredNetwork
	}
	if c.Wallet == nil {
		c.Wallet = &WalletSettings{}
	}
	return nil
}

// RequiredNetwork returns the network the marketplace contract lives on.
func (c *Config) RequiredNetwork() (chains.NetworkConfig, error) {
	n, ok := c.EthNetworks.Networks[c.Marketplace.RequiredNetwork]
	if !ok {
		return chains.NetworkConfig{}, errors.Newf("required network %q is not configured", c.Marketplace.RequiredNetwork)
	}
	return n, nil
}

func (c *Config) ContractAddress() common.Address {
	return common.HexToAddress(c.Marketplace.ContractAddress)
}

func (c *Config) DiscoveryConfig() discovery.Config {
	return discovery.Config{Width: c.Marketplace.ScanWidth, StopEarly: c.Marketplace.StopEarly}
}
