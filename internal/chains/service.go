package chains

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
)

var ErrUnknownChain = errors.New("unknown chain")

type ChainConfig struct {
	Chains               *AllChainsConfig
	DefaultActiveNetwork string
	PreferredRPCName     string
}

type ChainClients struct {
	HTTP *ethclient.Client
}

type ResolvedChain struct {
	NetworkName string
	ChainID     *big.Int
	ChainIDHex  string
	Explorer    string

	RPCName string
	URL     string
}

type activeChain struct {
	resolved ResolvedChain
	clients  *ChainClients
}

// Service keeps one RPC client per configured network and tracks which
// network is active.
type Service struct {
	cfg              ChainConfig
	active           atomic.Pointer[activeChain]
	mu               sync.Mutex
	clientsByNetwork map[string]*ChainClients
}

func NewService(ctx context.Context, cfg ChainConfig) (*Service, error) {
	if cfg.Chains == nil {
		return nil, errors.New("chains config is nil")
	}
	if strings.TrimSpace(cfg.DefaultActiveNetwork) == "" {
		return nil, errors.New("active network is empty")
	}

	service := &Service{
		cfg:              cfg,
		clientsByNetwork: make(map[string]*ChainClients),
	}

	if err := service.SwitchChain(ctx, cfg.DefaultActiveNetwork); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *Service) Active() (ResolvedChain, *ChainClients, error) {
	current := s.active.Load()
	if current == nil {
		return ResolvedChain{}, nil, errors.New("no active chain")
	}
	return current.resolved, current.clients, nil
}

func (s *Service) ActiveHTTP() (*ethclient.Client, error) {
	current := s.active.Load()
	if current == nil || current.clients == nil || current.clients.HTTP == nil {
		return nil, errors.New("no active http client")
	}
	return current.clients.HTTP, nil
}

// ActiveChainID returns the configured chain id of the active network.
func (s *Service) ActiveChainID() (*big.Int, error) {
	current := s.active.Load()
	if current == nil {
		return nil, errors.New("no active chain")
	}
	return new(big.Int).Set(current.resolved.ChainID), nil
}

func (s *Service) ActiveNetwork() (string, error) {
	current := s.active.Load()
	if current == nil {
		return "", errors.New("no active chain")
	}
	return current.resolved.NetworkName, nil
}

func (s *Service) SwitchChain(ctx context.Context, networkName string) error {
	networkName = NormalizeNetworkKey(networkName)
	if networkName == "" {
		return errors.New("network name is empty")
	}

	if current := s.active.Load(); current != nil && current.resolved.NetworkName == networkName {
		return nil
	}

	resolved, err := s.ResolveNetworkByName(networkName)
	if err != nil {
		return err
	}

	clients, err := s.ClientsForNetwork(ctx, networkName)
	if err != nil {
		return err
	}

	s.active.Store(&activeChain{
		resolved: resolved,
		clients:  clients,
	})
	return nil
}

// SwitchChainByID activates the configured network with the given chain id.
// Unconfigured ids fail with ErrUnknownChain.
func (s *Service) SwitchChainByID(ctx context.Context, chainID *big.Int) (ResolvedChain, error) {
	resolved, err := s.ResolveNetworkByChainID(chainID)
	if err != nil {
		return ResolvedChain{}, err
	}
	if err := s.SwitchChain(ctx, resolved.NetworkName); err != nil {
		return ResolvedChain{}, err
	}
	return resolved, nil
}

// ClientsForNetwork returns (and caches) clients for a network without
// changing the active chain.
func (s *Service) ClientsForNetwork(ctx context.Context, networkName string) (*ChainClients, error) {
	cacheKey := NormalizeNetworkKey(networkName)
	if cacheKey == "" {
		return nil, errors.New("network name is empty")
	}

	s.mu.Lock()
	if existing := s.clientsByNetwork[cacheKey]; existing != nil {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	resolved, err := s.ResolveNetworkByName(cacheKey)
	if err != nil {
		return nil, err
	}

	// dial outside the lock
	dialed, err := dialChainClients(ctx, resolved)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.clientsByNetwork[cacheKey]; existing != nil {
		safeCloseClients(dialed)
		return existing, nil
	}
	s.clientsByNetwork[cacheKey] = dialed
	return dialed, nil
}

// Networks lists the configured networks sorted by name.
func (s *Service) Networks() []ResolvedChain {
	out := make([]ResolvedChain, 0, len(s.cfg.Chains.Networks))
	for name := range s.cfg.Chains.Networks {
		resolved, err := s.ResolveNetworkByName(name)
		if err != nil {
			continue
		}
		out = append(out, resolved)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NetworkName < out[j].NetworkName })
	return out
}

// Close closes all cached clients.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, clients := range s.clientsByNetwork {
		safeCloseClients(clients)
		delete(s.clientsByNetwork, key)
	}
	s.active.Store(nil)
}

func dialChainClients(ctx context.Context, chain ResolvedChain) (*ChainClients, error) {
	if strings.TrimSpace(chain.URL) == "" {
		return nil, errors.Newf("invalid chain rpc config for %q (missing url)", chain.NetworkName)
	}

	httpClient, err := ethclient.DialContext(ctx, chain.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial http %q", chain.NetworkName)
	}

	return &ChainClients{HTTP: httpClient}, nil
}

func safeCloseClients(c *ChainClients) {
	if c == nil || c.HTTP == nil {
		return
	}
	c.HTTP.Close()
}

func (s *Service) ResolveNetworkByChainID(chainID *big.Int) (ResolvedChain, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return ResolvedChain{}, errors.Wrap(ErrInvalidChainID, "chain id must be positive")
	}

	for networkName, network := range s.cfg.Chains.Networks {
		id, err := network.CanonicalChainID()
		if err != nil || id.Cmp(chainID) != 0 {
			continue
		}
		return s.resolveFromNetworkConfig(networkName, network)
	}

	return ResolvedChain{}, errors.Wrapf(ErrUnknownChain, "chain %s", ChainIDHex(chainID))
}

func (s *Service) ResolveNetworkByName(networkName string) (ResolvedChain, error) {
	key := NormalizeNetworkKey(networkName)
	if key == "" {
		return ResolvedChain{}, errors.New("network name is empty")
	}

	network, ok := s.cfg.Chains.Networks[key]
	if !ok {
		return ResolvedChain{}, errors.Wrapf(ErrUnknownChain, "network %q", networkName)
	}
	return s.resolveFromNetworkConfig(key, network)
}

func (s *Service) resolveFromNetworkConfig(networkName string, network NetworkConfig) (ResolvedChain, error) {
	chainID, err := network.CanonicalChainID()
	if err != nil {
		return ResolvedChain{}, err
	}

	// pick RPC by preferred name; otherwise first
	var selectedRPC *RPC
	if preferred := strings.TrimSpace(s.cfg.PreferredRPCName); preferred != "" {
		for i := range network.RPCs {
			if strings.EqualFold(strings.TrimSpace(network.RPCs[i].Name), preferred) {
				selectedRPC = &network.RPCs[i]
				break
			}
		}
	}
	if selectedRPC == nil {
		if len(network.RPCs) == 0 {
			return ResolvedChain{}, errors.Newf("network %q has no RPCs configured", networkName)
		}
		selectedRPC = &network.RPCs[0]
	}

	if strings.TrimSpace(selectedRPC.URL) == "" {
		return ResolvedChain{}, errors.Newf("network %q rpc %q url is empty", networkName, selectedRPC.Name)
	}

	return ResolvedChain{
		NetworkName: networkName,
		ChainID:     chainID,
		ChainIDHex:  ChainIDHex(chainID),
		Explorer:    network.Explorer,
		RPCName:     selectedRPC.Name,
		URL:         selectedRPC.URL,
	}, nil
}
