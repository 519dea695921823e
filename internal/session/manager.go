// Package session owns the wallet connection: finding an authorized account,
// enforcing the required network, binding the contract and reacting to
// wallet events.
package session

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/metrics"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/heronft/heronft-client/internal/units"
	"github.com/heronft/heronft-client/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// Binder creates the contract handle for a session.
type Binder func(addr common.Address, backend heronft.Backend, auth *bind.TransactOpts) (heronft.Contract, error)

func DefaultBinder(addr common.Address, backend heronft.Backend, auth *bind.TransactOpts) (heronft.Contract, error) {
	return heronft.Bind(addr, backend, auth)
}

type Config struct {
	RequiredChainID *big.Int
	// NetworkLabel is used in status messages, e.g. "Sepolia".
	NetworkLabel    string
	ContractAddress common.Address
}

type Option func(*Manager)

func WithBinder(b Binder) Option {
	return func(m *Manager) { m.bind = b }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

type walletEvent struct {
	accounts []common.Address
	chainID  *big.Int
	isChain  bool
}

type Manager struct {
	cfg     Config
	gw      wallet.Gateway
	store   *state.Store
	token   *Token
	bind    Binder
	metrics *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	subOnce sync.Once
	subs    []event.Subscription
	queue   *eventQueue

	mu        sync.Mutex
	listening bool
}

// NewManager creates a manager. gw may be nil when no wallet provider is
// present; every connection attempt then fails with ErrNoWallet.
func NewManager(ctx context.Context, cfg Config, gw wallet.Gateway, store *state.Store, opts ...Option) (*Manager, error) {
	if cfg.RequiredChainID == nil || cfg.RequiredChainID.Sign() <= 0 {
		return nil, errors.New("session: required chain id is not set")
	}
	if cfg.NetworkLabel == "" {
		cfg.NetworkLabel = chains.ChainIDHex(cfg.RequiredChainID)
	}
	if store == nil {
		return nil, errors.New("session: store is nil")
	}

	m := &Manager{
		cfg:   cfg,
		gw:    gw,
		store: store,
		token: NewToken(),
		bind:  DefaultBinder,
		queue: newEventQueue(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	return m, nil
}

func (m *Manager) Store() *state.Store { return m.store }

func (m *Manager) Token() *Token { return m.token }

func (m *Manager) Config() Config { return m.cfg }

// Exclusive runs fn as the single in-flight action. It fails with ErrBusy
// when another action holds the token.
func (m *Manager) Exclusive(action string, fn func() error) error {
	if !m.token.TryAcquire() {
		return ErrBusy
	}
	defer m.token.Release()

	m.store.Update(state.Begin(action))
	defer m.store.Update(state.End())

	return fn()
}

// Session returns the active session or ErrNotConnected.
func (m *Manager) Session() (state.Session, error) {
	s := m.store.Snapshot().Session
	if !s.Active() {
		return state.Session{}, ErrNotConnected
	}
	return s, nil
}

// Probe restores a session from an already authorized account without
// prompting. No authorized account leaves the session inactive.
func (m *Manager) Probe(ctx context.Context) error {
	return m.Exclusive("probe", func() error {
		return m.probeLocked(ctx)
	})
}

// Connect asks the wallet for authorization and establishes a session for
// the first account. Wallet events are followed from the first successful
// connect until Close.
func (m *Manager) Connect(ctx context.Context) error {
	actionID := uuid.NewString()
	return m.Exclusive("connect", func() error {
		log.Info("connect requested", "action", actionID)

		if m.gw == nil {
			m.status(state.StatusError, "Please install a wallet provider!")
			return errors.Mark(ErrNoWallet, ErrConnection)
		}

		accounts, err := m.gw.RequestAccounts(ctx)
		if err != nil {
			m.status(state.StatusError, fmt.Sprintf("Connection failed: %v", err))
			m.metrics.SessionEvent("connect_failed")
			return errors.Mark(errors.Wrap(err, "request accounts"), ErrConnection)
		}
		if len(accounts) == 0 {
			m.status(state.StatusError, "No accounts found. Please unlock your wallet.")
			m.metrics.SessionEvent("connect_failed")
			return errors.Mark(ErrNoAccounts, ErrConnection)
		}

		if err := m.establishLocked(ctx, accounts[0]); err != nil {
			m.metrics.SessionEvent("connect_failed")
			return err
		}

		m.setListening(true)
		m.subscribe()
		log.Info("connected", "action", actionID, "account", accounts[0].Hex())
		return nil
	})
}

// Disconnect clears the session and both result sets. It waits for an
// in-flight action and always succeeds once it holds the token.
func (m *Manager) Disconnect(ctx context.Context) error {
	if err := m.token.Acquire(ctx); err != nil {
		return err
	}
	defer m.token.Release()

	// handlers stay live: a later account change reconnects
	m.disconnectLocked()
	return nil
}

// Close stops event handling and ends the subscriptions.
func (m *Manager) Close() {
	m.cancel()
	for _, sub := range m.subs {
		sub.Unsubscribe()
	}
	m.wg.Wait()
}

func (m *Manager) probeLocked(ctx context.Context) error {
	if m.gw == nil {
		m.status(state.StatusError, "Please install a wallet provider!")
		return errors.Mark(ErrNoWallet, ErrConnection)
	}

	accounts, err := m.gw.Accounts(ctx)
	if err != nil {
		m.status(state.StatusError, fmt.Sprintf("Error checking wallet: %v", err))
		return errors.Mark(errors.Wrap(err, "list accounts"), ErrConnection)
	}
	if len(accounts) == 0 {
		return nil
	}
	return m.establishLocked(ctx, accounts[0])
}

// establishLocked moves the wallet to the required network if needed, binds
// the contract for account and reads the mint price. Any failure leaves the
// session inactive.
func (m *Manager) establishLocked(ctx context.Context, account common.Address) error {
	chainID, err := m.gw.ChainID(ctx)
	if err != nil {
		m.store.Update(state.Disconnected(), state.WithStatus(state.StatusError, fmt.Sprintf("Connection failed: %v", err)))
		return errors.Mark(errors.Wrap(err, "read chain id"), ErrConnection)
	}

	if !chains.SameChain(chainID, m.cfg.RequiredChainID) {
		log.Info("requesting network switch", "from", chains.ChainIDHex(chainID), "to", chains.ChainIDHex(m.cfg.RequiredChainID))
		if err := m.gw.SwitchChain(ctx, m.cfg.RequiredChainID); err != nil {
			m.store.Update(
				state.Disconnected(),
				state.WithStatus(state.StatusError, fmt.Sprintf("Failed to switch to %s: %v", m.cfg.NetworkLabel, err)),
			)
			m.metrics.SessionEvent("wrong_network")
			m.metrics.SetConnected(false)
			err = errors.Wrapf(err, "switch to %s", chains.ChainIDHex(m.cfg.RequiredChainID))
			return errors.Mark(errors.Mark(err, ErrWrongNetwork), ErrNetworkMismatch)
		}
	}

	contract, err := m.bindContract(ctx, account)
	if err != nil {
		m.store.Update(state.Disconnected(), state.WithStatus(state.StatusError, fmt.Sprintf("Connection failed: %v", err)))
		m.metrics.SetConnected(false)
		return errors.Mark(err, ErrConnection)
	}

	ts := []state.Transition{}
	if prev := m.store.Snapshot().Session; prev.Account != account {
		ts = append(ts, state.AccountChanged())
	}
	ts = append(ts,
		state.Established(account, m.cfg.RequiredChainID, contract),
		state.WithStatus(state.StatusSuccess, "Connected: "+ShortAddress(account)),
	)
	m.store.Update(ts...)
	m.metrics.SessionEvent("established")
	m.metrics.SetConnected(true)

	price, err := contract.MintPrice(ctx)
	if err != nil {
		log.Warn("mint price unavailable", "error", err)
		m.status(state.StatusWarning, fmt.Sprintf("Failed to fetch mint price: %v", err))
		return nil
	}
	m.store.Update(state.WithMintPrice(price))
	log.Info("session established", "account", account.Hex(), "mintPrice", units.FormatEther(price))
	return nil
}

func (m *Manager) bindContract(ctx context.Context, account common.Address) (heronft.Contract, error) {
	backend, err := m.gw.Backend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "wallet backend")
	}
	auth, err := m.gw.Transactor(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "wallet signer")
	}
	contract, err := m.bind(m.cfg.ContractAddress, backend, auth)
	if err != nil {
		return nil, errors.Wrap(err, "bind contract")
	}
	return contract, nil
}

func (m *Manager) disconnectLocked() {
	m.store.Update(state.Disconnected(), state.WithStatus(state.StatusInfo, "Disconnected"))
	m.metrics.SessionEvent("disconnected")
	m.metrics.SetConnected(false)
}

func (m *Manager) status(kind state.StatusKind, text string) {
	m.store.Update(state.WithStatus(kind, text))
}

func (m *Manager) setListening(v bool) {
	m.mu.Lock()
	m.listening = v
	m.mu.Unlock()
}

func (m *Manager) isListening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening
}

// ShortAddress renders 0x1234...abcd.
func ShortAddress(addr common.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}
