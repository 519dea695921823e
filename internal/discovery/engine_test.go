package discovery

import (
	"context"
	"math/big"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type minted struct {
	owner common.Address
	price *big.Int
	hero  heronft.Hero
}

// fakeChain answers like the contract: ownerOf reverts for unminted ids and
// listedNFTs returns 0 for them.
type fakeChain struct {
	tokens     map[uint64]minted
	balanceErr error
	ownerCalls []uint64
	priceCalls []uint64
}

func newFakeChain() *fakeChain {
	return &fakeChain{tokens: map[uint64]minted{}}
}

func (f *fakeChain) mint(id uint64, owner common.Address, priceWei int64) {
	f.tokens[id] = minted{
		owner: owner,
		price: big.NewInt(priceWei),
		hero:  heronft.Hero{Rarity: heronft.Rarity(id % 4), Strength: id, Agility: id + 1, Intelligence: id + 2},
	}
}

func (f *fakeChain) BalanceOf(_ context.Context, owner common.Address) (*big.Int, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	n := int64(0)
	for _, t := range f.tokens {
		if t.owner == owner {
			n++
		}
	}
	return big.NewInt(n), nil
}

func (f *fakeChain) OwnerOf(_ context.Context, id uint64) (common.Address, error) {
	f.ownerCalls = append(f.ownerCalls, id)
	t, ok := f.tokens[id]
	if !ok {
		return common.Address{}, errors.New("execution reverted: ERC721NonexistentToken")
	}
	return t.owner, nil
}

func (f *fakeChain) Hero(_ context.Context, id uint64) (heronft.Hero, error) {
	t, ok := f.tokens[id]
	if !ok {
		return heronft.Hero{}, errors.New("execution reverted")
	}
	return t.hero, nil
}

func (f *fakeChain) ListingPrice(_ context.Context, id uint64) (*big.Int, error) {
	f.priceCalls = append(f.priceCalls, id)
	t, ok := f.tokens[id]
	if !ok {
		return big.NewInt(0), nil
	}
	return t.price, nil
}

func ids(tokens []heronft.Token) []uint64 {
	out := make([]uint64, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.TokenID)
	}
	return out
}

func TestMineSingleOwnedToken(t *testing.T) {
	chain := newFakeChain()
	chain.mint(1, bob, 0)
	chain.mint(5, alice, 0)
	chain.mint(9, bob, 0)

	res, err := New(DefaultConfig(), nil).Mine(context.Background(), chain, alice, nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, ids(res.Tokens))
	require.Equal(t, alice, res.Tokens[0].Owner)
	require.Equal(t, heronft.Rare, res.Tokens[0].Rarity)
	require.False(t, res.Exhausted)
	require.Equal(t, int64(1), res.Balance.Int64())
}

func TestMineStopsAtBalance(t *testing.T) {
	chain := newFakeChain()
	chain.mint(3, alice, 0)
	chain.mint(7, alice, 0)
	chain.mint(20, bob, 0)

	res, err := New(Config{Width: 50, StopEarly: true}, nil).Mine(context.Background(), chain, alice, nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 7}, ids(res.Tokens))
	require.Equal(t, 8, res.Probed)
	require.Equal(t, uint64(7), chain.ownerCalls[len(chain.ownerCalls)-1])
	require.False(t, res.Exhausted)
}

func TestMineWithoutStopEarlyScansEverything(t *testing.T) {
	chain := newFakeChain()
	chain.mint(3, alice, 0)

	res, err := New(Config{Width: 10}, nil).Mine(context.Background(), chain, alice, nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{3}, ids(res.Tokens))
	require.Equal(t, 10, res.Probed)
	require.True(t, res.Exhausted)
}

func TestMineIgnoresIdsBeyondWidth(t *testing.T) {
	chain := newFakeChain()
	chain.mint(2, alice, 0)
	chain.mint(60, alice, 0)

	res, err := New(DefaultConfig(), nil).Mine(context.Background(), chain, alice, nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, ids(res.Tokens))
	require.Equal(t, 50, res.Probed)
	require.True(t, res.Exhausted)
	for _, id := range chain.ownerCalls {
		require.Less(t, id, uint64(50))
	}
}

func TestMineZeroBalanceProbesNothing(t *testing.T) {
	chain := newFakeChain()
	chain.mint(0, bob, 0)

	res, err := New(DefaultConfig(), nil).Mine(context.Background(), chain, alice, nil)
	require.NoError(t, err)
	require.Empty(t, res.Tokens)
	require.NotNil(t, res.Tokens)
	require.Zero(t, res.Probed)
	require.False(t, res.Exhausted)
}

func TestMineBalanceErrorAborts(t *testing.T) {
	chain := newFakeChain()
	chain.balanceErr = errors.New("rpc down")

	_, err := New(DefaultConfig(), nil).Mine(context.Background(), chain, alice, nil)
	require.True(t, errors.Is(err, ErrDiscovery))
	require.Empty(t, chain.ownerCalls)
}

func TestMineProgress(t *testing.T) {
	chain := newFakeChain()
	chain.mint(4, alice, 0)
	chain.mint(6, alice, 0)

	var calls [][2]int64
	_, err := New(DefaultConfig(), nil).Mine(context.Background(), chain, alice, func(found int, total int64) {
		calls = append(calls, [2]int64{int64(found), total})
	})
	require.NoError(t, err)
	require.Equal(t, [][2]int64{{1, 2}, {2, 2}}, calls)
}

func TestMineCancelled(t *testing.T) {
	chain := newFakeChain()
	chain.mint(40, alice, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig(), nil).Mine(ctx, chain, alice, nil)
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, errors.Is(err, ErrDiscovery))
}

func TestAllScansFullRange(t *testing.T) {
	chain := newFakeChain()
	chain.mint(0, alice, 1) // one wei still counts as listed
	chain.mint(3, bob, 5e17)
	chain.mint(4, bob, 0)

	var found []int
	res, err := New(DefaultConfig(), nil).All(context.Background(), chain, func(n int, total int64) {
		require.Equal(t, int64(-1), total)
		found = append(found, n)
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3}, ids(res.Tokens))
	require.Equal(t, int64(5e17), res.Tokens[1].ListingPrice.Int64())
	require.Equal(t, bob, res.Tokens[1].Owner)
	require.Equal(t, 50, res.Probed)
	require.Len(t, chain.priceCalls, 50)
	require.True(t, res.Exhausted)
	require.Equal(t, []int{1, 2}, found)
}

func TestAllNothingListed(t *testing.T) {
	res, err := New(DefaultConfig(), nil).All(context.Background(), newFakeChain(), nil)
	require.NoError(t, err)
	require.Empty(t, res.Tokens)
	require.Equal(t, 50, res.Probed)
}

func TestMineMatchesOwnedSubset(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 25; round++ {
		width := 1 + rng.Intn(60)
		n := rng.Intn(80)

		chain := newFakeChain()
		var want []uint64
		for id := 0; id < n; id++ {
			if rng.Intn(3) == 0 {
				continue // gap: never minted
			}
			owner := bob
			if rng.Intn(2) == 0 {
				owner = alice
				if id < width {
					want = append(want, uint64(id))
				}
			}
			chain.mint(uint64(id), owner, 0)
		}

		res, err := New(Config{Width: width, StopEarly: true}, nil).Mine(context.Background(), chain, alice, nil)
		require.NoError(t, err)
		if want == nil {
			want = []uint64{}
		}
		require.Equal(t, want, ids(res.Tokens), "round %d width %d", round, width)
	}
}

func TestDefaultWidth(t *testing.T) {
	require.Equal(t, DefaultWidth, New(Config{}, nil).Config().Width)
}
