// Package wallettest provides a scriptable wallet.Gateway for tests.
package wallettest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/wallet"
)

type Gateway struct {
	mu sync.Mutex

	Authorized []common.Address // reported by Accounts
	Available  []common.Address // granted by RequestAccounts
	Chain      *big.Int

	RequestErr error
	AccountErr error
	SwitchErr  error

	RequestCalls int
	SwitchCalls  int

	accountsFeed event.Feed
	chainFeed    event.Feed
}

var _ wallet.Gateway = (*Gateway)(nil)

func New(chainID int64, available ...common.Address) *Gateway {
	return &Gateway{Available: available, Chain: big.NewInt(chainID)}
}

func (g *Gateway) Accounts(context.Context) ([]common.Address, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.AccountErr != nil {
		return nil, g.AccountErr
	}
	return append([]common.Address(nil), g.Authorized...), nil
}

func (g *Gateway) RequestAccounts(context.Context) ([]common.Address, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RequestCalls++
	if g.RequestErr != nil {
		return nil, g.RequestErr
	}
	g.Authorized = append([]common.Address(nil), g.Available...)
	return append([]common.Address(nil), g.Authorized...), nil
}

func (g *Gateway) ChainID(context.Context) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.Chain), nil
}

func (g *Gateway) SwitchChain(_ context.Context, id *big.Int) error {
	g.mu.Lock()
	g.SwitchCalls++
	if g.SwitchErr != nil {
		err := g.SwitchErr
		g.mu.Unlock()
		return err
	}
	g.Chain = new(big.Int).Set(id)
	g.mu.Unlock()

	g.chainFeed.Send(new(big.Int).Set(id))
	return nil
}

func (g *Gateway) SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription {
	return g.accountsFeed.Subscribe(ch)
}

func (g *Gateway) SubscribeChainChanged(ch chan<- *big.Int) event.Subscription {
	return g.chainFeed.Subscribe(ch)
}

// Backend is never used: tests bind contracts through a custom binder.
func (g *Gateway) Backend(context.Context) (heronft.Backend, error) {
	return nil, nil
}

func (g *Gateway) Transactor(_ context.Context, account common.Address) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: account}, nil
}

// EmitAccounts simulates the user switching or removing accounts.
func (g *Gateway) EmitAccounts(accounts ...common.Address) {
	g.mu.Lock()
	g.Authorized = append([]common.Address(nil), accounts...)
	g.mu.Unlock()
	g.accountsFeed.Send(accounts)
}

// EmitChain simulates the user changing networks in the wallet.
func (g *Gateway) EmitChain(id int64) {
	g.mu.Lock()
	g.Chain = big.NewInt(id)
	g.mu.Unlock()
	g.chainFeed.Send(big.NewInt(id))
}
