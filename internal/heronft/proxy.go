package heronft

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	heronftbind "github.com/heronft/heronft-client/internal/contracts/bindings/go/heronft"
)

var ErrReadOnly = errors.New("heronft: contract bound without a signer")

// Backend is what a bound contract needs from the node: calls, transactions
// and receipts. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Contract is the typed surface of the deployed HeroNFT contract.
type Contract interface {
	Address() common.Address

	MintPrice(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	Hero(ctx context.Context, tokenID uint64) (Hero, error)
	ListingPrice(ctx context.Context, tokenID uint64) (*big.Int, error)

	MintHero(ctx context.Context, value *big.Int) (*types.Transaction, error)
	ListNFT(ctx context.Context, tokenID uint64, price *big.Int) (*types.Transaction, error)
	DelistNFT(ctx context.Context, tokenID uint64) (*types.Transaction, error)
	OfferNFT(ctx context.Context, tokenID uint64, value *big.Int) (*types.Transaction, error)
	AcceptOffer(ctx context.Context, tokenID uint64, buyer common.Address) (*types.Transaction, error)

	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Proxy struct {
	address common.Address
	binding *heronftbind.HeroNFT
	backend Backend
	auth    *bind.TransactOpts
}

var _ Contract = (*Proxy)(nil)

// Bind returns a proxy for the contract at addr. auth may be nil for a
// read-only handle; state-changing calls then fail with ErrReadOnly.
func Bind(addr common.Address, backend Backend, auth *bind.TransactOpts) (*Proxy, error) {
	if backend == nil {
		return nil, errors.New("heronft: backend is nil")
	}
	if addr == (common.Address{}) {
		return nil, errors.New("heronft: contract address is zero")
	}

	binding, err := heronftbind.NewHeroNFT(addr, backend)
	if err != nil {
		return nil, errors.Wrap(err, "heronft: bind contract")
	}

	return &Proxy{
		address: addr,
		binding: binding,
		backend: backend,
		auth:    auth,
	}, nil
}

func (p *Proxy) Address() common.Address { return p.address }

func (p *Proxy) MintPrice(ctx context.Context) (*big.Int, error) {
	price, err := p.binding.MINTPRICE(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, errors.Wrap(err, "heronft: MINT_PRICE")
	}
	return price, nil
}

func (p *Proxy) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	bal, err := p.binding.BalanceOf(&bind.CallOpts{Context: ctx}, owner)
	if err != nil {
		return nil, errors.Wrapf(err, "heronft: balanceOf(%s)", owner.Hex())
	}
	return bal, nil
}

func (p *Proxy) OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error) {
	owner, err := p.binding.OwnerOf(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "heronft: ownerOf(%d)", tokenID)
	}
	return owner, nil
}

func (p *Proxy) Hero(ctx context.Context, tokenID uint64) (Hero, error) {
	raw, err := p.binding.Heroes(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return Hero{}, errors.Wrapf(err, "heronft: heroes(%d)", tokenID)
	}

	var h Hero
	h.Rarity = Rarity(raw.Rarity)
	for _, f := range []struct {
		name string
		in   *big.Int
		out  *uint64
	}{
		{"strength", raw.Strength, &h.Strength},
		{"agility", raw.Agility, &h.Agility},
		{"intelligence", raw.Intelligence, &h.Intelligence},
	} {
		if f.in == nil || !f.in.IsUint64() {
			return Hero{}, errors.Newf("heronft: heroes(%d): %s out of range", tokenID, f.name)
		}
		*f.out = f.in.Uint64()
	}
	return h, nil
}

func (p *Proxy) ListingPrice(ctx context.Context, tokenID uint64) (*big.Int, error) {
	price, err := p.binding.ListedNFTs(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, errors.Wrapf(err, "heronft: listedNFTs(%d)", tokenID)
	}
	return price, nil
}

func (p *Proxy) MintHero(ctx context.Context, value *big.Int) (*types.Transaction, error) {
	opts, err := p.transactOpts(ctx, value)
	if err != nil {
		return nil, err
	}
	return p.binding.MintHero(opts)
}

func (p *Proxy) ListNFT(ctx context.Context, tokenID uint64, price *big.Int) (*types.Transaction, error) {
	opts, err := p.transactOpts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return p.binding.ListNFT(opts, new(big.Int).SetUint64(tokenID), price)
}

func (p *Proxy) DelistNFT(ctx context.Context, tokenID uint64) (*types.Transaction, error) {
	opts, err := p.transactOpts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return p.binding.DelistNFT(opts, new(big.Int).SetUint64(tokenID))
}

func (p *Proxy) OfferNFT(ctx context.Context, tokenID uint64, value *big.Int) (*types.Transaction, error) {
	opts, err := p.transactOpts(ctx, value)
	if err != nil {
		return nil, err
	}
	return p.binding.OfferNFT(opts, new(big.Int).SetUint64(tokenID))
}

func (p *Proxy) AcceptOffer(ctx context.Context, tokenID uint64, buyer common.Address) (*types.Transaction, error) {
	opts, err := p.transactOpts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return p.binding.AcceptOffer(opts, new(big.Int).SetUint64(tokenID), buyer)
}

// WaitMined blocks until tx is included and returns its receipt.
func (p *Proxy) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, p.backend, tx)
}

func (p *Proxy) transactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	if p.auth == nil {
		return nil, ErrReadOnly
	}
	opts := *p.auth
	opts.Context = ctx
	opts.Value = value
	return &opts, nil
}
