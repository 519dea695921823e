package chains

import "strings"

type AllChainsConfig struct {
	Networks      map[string]NetworkConfig `json:"networks" yaml:"networks" mapstructure:"networks"`
	ActiveNetwork string                   `json:"activeNetwork" yaml:"activeNetwork" mapstructure:"activeNetwork"`
	ActiveRPC     string                   `json:"activeRPC" yaml:"activeRPC" mapstructure:"activeRPC"`
}

// NetworkConfig describes a network and its RPC endpoints.
type NetworkConfig struct {
	Name       string `json:"name" yaml:"name" mapstructure:"name"`
	ChainID    uint64 `json:"chainId" yaml:"chainId" mapstructure:"chainId"`
	ChainIDHex string `json:"chainIdHex" yaml:"chainIdHex" mapstructure:"chainIdHex"`
	RPCs       []RPC  `json:"rpcs" yaml:"rpcs" mapstructure:"rpcs"`
	Explorer   string `json:"explorer" yaml:"explorer" mapstructure:"explorer"`
}

type RPC struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	URL  string `json:"url" yaml:"url" mapstructure:"url"`
}

// Normalize lower-cases network keys, copies them into Name and fills
// whichever of ChainID / ChainIDHex is missing from the other.
func (mc *AllChainsConfig) Normalize() error {
	if mc == nil {
		return nil
	}

	out := make(map[string]NetworkConfig, len(mc.Networks))
	for name, n := range mc.Networks {
		key := NormalizeNetworkKey(name)
		if key == "" {
			continue
		}
		n.Name = key
		n.Explorer = strings.TrimSpace(n.Explorer)

		id, err := n.CanonicalChainID()
		if err != nil {
			return err
		}
		n.ChainID = id.Uint64()
		n.ChainIDHex = ChainIDHex(id)

		rpcs := make([]RPC, 0, len(n.RPCs))
		for _, r := range n.RPCs {
			r.Name = strings.TrimSpace(r.Name)
			r.URL = strings.TrimSpace(r.URL)
			if r.URL == "" {
				continue
			}
			rpcs = append(rpcs, r)
		}
		n.RPCs = rpcs

		out[key] = n
	}
	mc.Networks = out
	mc.ActiveNetwork = NormalizeNetworkKey(mc.ActiveNetwork)
	return nil
}

func NormalizeNetworkKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
