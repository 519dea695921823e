// Package heronfttest provides an in-memory HeroNFT market for tests.
package heronfttest

import (
	"context"
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/heronft/heronft-client/internal/heronft"
)

var ErrReverted = errors.New("execution reverted")

var Address = common.HexToAddress("0x2B6fF46A23AE69F42ea738AE80101874996DF487")

type token struct {
	owner common.Address
	price *big.Int
	hero  heronft.Hero
}

// Market mimics the deployed contract closely enough for client tests:
// ownerOf reverts for unminted ids, listedNFTs reads 0 for them, and every
// state change is visible once its transaction is mined.
type Market struct {
	mu sync.Mutex

	MintPriceWei *big.Int

	tokens map[uint64]*token
	offers map[uint64]map[common.Address]*big.Int
	nextID uint64
	nonce  uint64

	receipts map[common.Hash]*types.Receipt
	pending  map[common.Hash]func()

	submitErr  map[string]error
	readErr    map[string]error
	revertNext map[string]bool

	calls []string
}

func NewMarket() *Market {
	return &Market{
		MintPriceWei: big.NewInt(1e16),
		tokens:       map[uint64]*token{},
		offers:       map[uint64]map[common.Address]*big.Int{},
		receipts:     map[common.Hash]*types.Receipt{},
		pending:      map[common.Hash]func(){},
		submitErr:    map[string]error{},
		readErr:      map[string]error{},
		revertNext:   map[string]bool{},
	}
}

// As returns a contract handle whose transactions are sent from caller.
func (m *Market) As(caller common.Address) heronft.Contract {
	return &handle{m: m, from: caller}
}

// Seed places a token directly, bypassing mint.
func (m *Market) Seed(id uint64, owner common.Address, priceWei *big.Int, hero heronft.Hero) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if priceWei == nil {
		priceWei = new(big.Int)
	}
	m.tokens[id] = &token{owner: owner, price: new(big.Int).Set(priceWei), hero: hero}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

// FailSubmit makes the next submissions of method fail with err.
func (m *Market) FailSubmit(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitErr[method] = err
}

// FailRead makes reads of method fail with err.
func (m *Market) FailRead(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr[method] = err
}

// RevertOnChain makes the next transaction of method mine with status 0.
func (m *Market) RevertOnChain(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revertNext[method] = true
}

func (m *Market) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Market) Owner(id uint64) (common.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[id]
	if !ok {
		return common.Address{}, false
	}
	return t.owner, true
}

func (m *Market) Offer(id uint64, buyer common.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v := m.offers[id][buyer]; v != nil {
		return new(big.Int).Set(v)
	}
	return nil
}

type handle struct {
	m    *Market
	from common.Address
}

func (h *handle) Address() common.Address { return Address }

func (h *handle) read(method string) error {
	h.m.calls = append(h.m.calls, method)
	return h.m.readErr[method]
}

func (h *handle) MintPrice(context.Context) (*big.Int, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if err := h.read("MINT_PRICE"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(h.m.MintPriceWei), nil
}

func (h *handle) BalanceOf(_ context.Context, owner common.Address) (*big.Int, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if err := h.read("balanceOf"); err != nil {
		return nil, err
	}
	n := int64(0)
	for _, t := range h.m.tokens {
		if t.owner == owner {
			n++
		}
	}
	return big.NewInt(n), nil
}

func (h *handle) OwnerOf(_ context.Context, id uint64) (common.Address, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if err := h.read("ownerOf"); err != nil {
		return common.Address{}, err
	}
	t, ok := h.m.tokens[id]
	if !ok {
		return common.Address{}, errors.Wrap(ErrReverted, "nonexistent token")
	}
	return t.owner, nil
}

func (h *handle) Hero(_ context.Context, id uint64) (heronft.Hero, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if err := h.read("heroes"); err != nil {
		return heronft.Hero{}, err
	}
	if t, ok := h.m.tokens[id]; ok {
		return t.hero, nil
	}
	return heronft.Hero{}, nil
}

func (h *handle) ListingPrice(_ context.Context, id uint64) (*big.Int, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if err := h.read("listedNFTs"); err != nil {
		return nil, err
	}
	if t, ok := h.m.tokens[id]; ok {
		return new(big.Int).Set(t.price), nil
	}
	return new(big.Int), nil
}

func (h *handle) MintHero(_ context.Context, value *big.Int) (*types.Transaction, error) {
	return h.submit("mintHero", value, func() error {
		if value == nil || value.Cmp(h.m.MintPriceWei) < 0 {
			return errors.Wrap(ErrReverted, "insufficient payment")
		}
		return nil
	}, func() {
		id := h.m.nextID
		h.m.nextID++
		h.m.tokens[id] = &token{
			owner: h.from,
			price: new(big.Int),
			hero:  heronft.Hero{Rarity: heronft.Rarity(id % 4), Strength: 10 + id, Agility: 20 + id, Intelligence: 30 + id},
		}
	})
}

func (h *handle) ListNFT(_ context.Context, id uint64, price *big.Int) (*types.Transaction, error) {
	return h.submit("listNFT", nil, func() error {
		if err := h.requireOwner(id); err != nil {
			return err
		}
		if price == nil || price.Sign() <= 0 {
			return errors.Wrap(ErrReverted, "price must be positive")
		}
		return nil
	}, func() {
		h.m.tokens[id].price = new(big.Int).Set(price)
	})
}

func (h *handle) DelistNFT(_ context.Context, id uint64) (*types.Transaction, error) {
	return h.submit("delistNFT", nil, func() error {
		return h.requireOwner(id)
	}, func() {
		h.m.tokens[id].price = new(big.Int)
	})
}

func (h *handle) OfferNFT(_ context.Context, id uint64, value *big.Int) (*types.Transaction, error) {
	return h.submit("offerNFT", value, func() error {
		if _, ok := h.m.tokens[id]; !ok {
			return errors.Wrap(ErrReverted, "nonexistent token")
		}
		if value == nil || value.Sign() <= 0 {
			return errors.Wrap(ErrReverted, "offer must be positive")
		}
		return nil
	}, func() {
		if h.m.offers[id] == nil {
			h.m.offers[id] = map[common.Address]*big.Int{}
		}
		h.m.offers[id][h.from] = new(big.Int).Set(value)
	})
}

func (h *handle) AcceptOffer(_ context.Context, id uint64, buyer common.Address) (*types.Transaction, error) {
	return h.submit("acceptOffer", nil, func() error {
		if err := h.requireOwner(id); err != nil {
			return err
		}
		if h.m.offers[id][buyer] == nil {
			return errors.Wrap(ErrReverted, "no offer from buyer")
		}
		return nil
	}, func() {
		t := h.m.tokens[id]
		t.owner = buyer
		t.price = new(big.Int)
		delete(h.m.offers[id], buyer)
	})
}

// WaitMined applies the transaction's effect and returns its receipt.
func (h *handle) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	r, ok := h.m.receipts[tx.Hash()]
	if !ok {
		return nil, errors.Newf("unknown transaction %s", tx.Hash().Hex())
	}
	if apply := h.m.pending[tx.Hash()]; apply != nil {
		apply()
		delete(h.m.pending, tx.Hash())
	}
	return r, nil
}

func (h *handle) requireOwner(id uint64) error {
	t, ok := h.m.tokens[id]
	if !ok {
		return errors.Wrap(ErrReverted, "nonexistent token")
	}
	if t.owner != h.from {
		return errors.Wrap(ErrReverted, "caller is not the owner")
	}
	return nil
}

func (h *handle) submit(method string, value *big.Int, check func() error, apply func()) (*types.Transaction, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	h.m.calls = append(h.m.calls, method)
	if err := h.m.submitErr[method]; err != nil {
		return nil, err
	}

	reverted := h.m.revertNext[method]
	delete(h.m.revertNext, method)
	if !reverted {
		// gas estimation surfaces reverts before sending
		if err := check(); err != nil {
			return nil, err
		}
	}

	if value == nil {
		value = new(big.Int)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    h.m.nonce,
		To:       &Address,
		Value:    new(big.Int).Set(value),
		Gas:      100_000,
		GasPrice: big.NewInt(1),
		Data:     []byte(method),
	})
	h.m.nonce++

	status := types.ReceiptStatusSuccessful
	if reverted {
		status = types.ReceiptStatusFailed
	} else {
		h.m.pending[tx.Hash()] = apply
	}
	h.m.receipts[tx.Hash()] = &types.Receipt{Status: status, TxHash: tx.Hash()}
	return tx, nil
}
