// Package wallet defines what the client needs from a wallet provider.
package wallet

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/heronft/heronft-client/internal/heronft"
)

var (
	ErrUnavailable  = errors.New("wallet provider unavailable")
	ErrUserRejected = errors.New("user rejected the request")
	ErrLocked       = errors.New("wallet is locked")
	ErrUnknownChain = errors.New("wallet does not know the requested chain")
)

// Gateway is a wallet provider: authorized accounts, the active chain,
// change notifications and signing.
type Gateway interface {
	// Accounts lists already authorized accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the user to authorize and may prompt.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error

	SubscribeAccountsChanged(ch chan<- []common.Address) event.Subscription
	SubscribeChainChanged(ch chan<- *big.Int) event.Subscription

	// Backend is the node connection of the active chain.
	Backend(ctx context.Context) (heronft.Backend, error)
	// Transactor signs for account on the active chain.
	Transactor(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
}
