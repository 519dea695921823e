// Package local is a wallet provider backed by an encrypted keyring on disk.
// It behaves like an injected browser wallet: nothing is authorized until the
// user unlocks it, and account or network changes are announced as events.
package local

import (
	"context"
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// PasswordFunc is asked for the keyring password on unlock. Returning an
// error counts as the user rejecting the request.
type PasswordFunc func(ctx context.Context) ([]byte, error)

type Gateway struct {
	store  *Store
	chains *chains.Service
	prompt PasswordFunc

	mu       sync.Mutex
	keyring  *Keyring // nil while locked
	password []byte

	accountsFeed event.Feed
	chainFeed    event.Feed
	scope        event.SubscriptionScope
}

var _ wallet.Gateway = (*Gateway)(nil)

func New(store *Store, chainSvc *chains.Service, prompt PasswordFunc) *Gateway {
	return &Gateway{
		store:  store,
		chains: chainSvc,
		prompt: prompt,
	}
}

func (g *Gateway) Accounts(_ context.Context) ([]common.Address, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.keyring == nil {
		return nil, nil
	}
	return g.keyring.Ordered(), nil
}

func (g *Gateway) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	g.mu.Lock()
	if g.keyring != nil {
		defer g.mu.Unlock()
		return g.keyring.Ordered(), nil
	}
	g.mu.Unlock()

	if g.prompt == nil {
		return nil, wallet.ErrUnavailable
	}
	// prompt without holding the lock
	password, err := g.prompt(ctx)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unlock keyring"), wallet.ErrUserRejected)
	}

	k, err := g.store.Ensure(password)
	if err != nil {
		return nil, errors.Mark(err, wallet.ErrUserRejected)
	}

	g.mu.Lock()
	g.keyring = k
	g.password = password
	accounts := k.Ordered()
	g.mu.Unlock()

	log.Info("keyring unlocked", "path", g.store.Path, "accounts", len(accounts))
	g.accountsFeed.Send(accounts)
	return accounts, nil
}

func (g *Gateway) ChainID(_ context.Context) (*big.Int, error) {
	return g.chains.ActiveChainID()
}

// SwitchChain activates the configured network with chainID and announces it.
func (g *Gateway) SwitchChain(ctx context.Context, chainID *big.Int) error {
	current, err := g.chains.ActiveChainID()
	if err == nil && chains.SameChain(current, chainID) {
		return nil
	}

	resolved, err := g.chains.SwitchChainByID(ctx, chainID)
	if err != nil {
		if errors.Is(err, chains.ErrUnknownChain) {
			return errors.Mark(err, wallet.ErrUnknownChain)
		}
		return err
	}

	log.Info("wallet switched chain", "network", resolved.NetworkName, "chainId", resolved.ChainIDHex)
	g.chainFeed.Send(new(big.Int).Set(resolved.ChainID))
	return nil
}

func (g *Gateway) SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription {
	return g.scope.Track(g.accountsFeed.Subscribe(ch))
}

func (g *Gateway) SubscribeChainChanged(ch chan<- *big.Int) event.Subscription {
	return g.scope.Track(g.chainFeed.Subscribe(ch))
}

func (g *Gateway) Backend(_ context.Context) (heronft.Backend, error) {
	client, err := g.chains.ActiveHTTP()
	if err != nil {
		return nil, errors.Mark(err, wallet.ErrUnavailable)
	}
	return client, nil
}

// Transactor returns options that sign with account's key for the chain that
// is active when the transaction is signed.
func (g *Gateway) Transactor(_ context.Context, account common.Address) (*bind.TransactOpts, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.keyring == nil {
		return nil, wallet.ErrLocked
	}
	i := g.keyring.index(account)
	if i < 0 {
		return nil, errors.Newf("account %s is not in the keyring", account.Hex())
	}
	key, err := g.keyring.Accounts[i].privateKey()
	if err != nil {
		return nil, err
	}

	return &bind.TransactOpts{
		From: account,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != account {
				return nil, errors.New("signer address mismatch")
			}
			chainID, err := g.chains.ActiveChainID()
			if err != nil {
				return nil, err
			}
			signer := types.LatestSignerForChainID(chainID)
			return types.SignTx(tx, signer, key)
		},
	}, nil
}

// SelectAccount makes addr the first reported account.
func (g *Gateway) SelectAccount(addr common.Address) error {
	g.mu.Lock()
	if g.keyring == nil {
		g.mu.Unlock()
		return wallet.ErrLocked
	}
	if g.keyring.index(addr) < 0 {
		g.mu.Unlock()
		return errors.Newf("account %s is not in the keyring", addr.Hex())
	}
	g.keyring.Selected = addr.Hex()
	accounts, err := g.persistLocked()
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.accountsFeed.Send(accounts)
	return nil
}

// NewAccount generates a key, stores it and selects it.
func (g *Gateway) NewAccount(label string) (common.Address, error) {
	acc, err := NewRandomAccount(label)
	if err != nil {
		return common.Address{}, err
	}
	return g.addAccount(acc)
}

// ImportAccount adds an existing private key and selects it.
func (g *Gateway) ImportAccount(privHex, label string) (common.Address, error) {
	acc, err := ImportedAccount(privHex, label)
	if err != nil {
		return common.Address{}, err
	}
	return g.addAccount(acc)
}

// Lock forgets the decrypted keyring. Listeners see an empty account list.
func (g *Gateway) Lock() {
	g.mu.Lock()
	wasUnlocked := g.keyring != nil
	g.keyring = nil
	g.password = nil
	g.mu.Unlock()

	if wasUnlocked {
		log.Info("keyring locked")
		g.accountsFeed.Send([]common.Address{})
	}
}

func (g *Gateway) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keyring != nil
}

// Close ends all subscriptions.
func (g *Gateway) Close() {
	g.scope.Close()
}

func (g *Gateway) addAccount(acc Account) (common.Address, error) {
	g.mu.Lock()
	if g.keyring == nil {
		g.mu.Unlock()
		return common.Address{}, wallet.ErrLocked
	}
	addr, err := g.keyring.add(acc)
	if err != nil {
		g.mu.Unlock()
		return common.Address{}, err
	}
	accounts, err := g.persistLocked()
	g.mu.Unlock()
	if err != nil {
		return common.Address{}, err
	}

	log.Info("keyring account added", "address", addr.Hex())
	g.accountsFeed.Send(accounts)
	return addr, nil
}

func (g *Gateway) persistLocked() ([]common.Address, error) {
	if err := g.store.Save(g.keyring, g.password); err != nil {
		return nil, errors.Wrap(err, "save keyring")
	}
	return g.keyring.Ordered(), nil
}
