package marketplace

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/discovery"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/heronft/heronfttest"
	"github.com/heronft/heronft-client/internal/session"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/heronft/heronft-client/internal/wallet/wallettest"
	"github.com/stretchr/testify/require"
)

const sepolia = 11155111

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fixture struct {
	market   *heronfttest.Market
	store    *state.Store
	sessions *session.Manager
	svc      *Service
}

func newFixture(t *testing.T, connect bool) *fixture {
	t.Helper()
	f := &fixture{market: heronfttest.NewMarket(), store: state.NewStore()}

	binder := func(_ common.Address, _ heronft.Backend, auth *bind.TransactOpts) (heronft.Contract, error) {
		return f.market.As(auth.From), nil
	}
	sessions, err := session.NewManager(context.Background(), session.Config{
		RequiredChainID: big.NewInt(sepolia),
		NetworkLabel:    "Sepolia",
		ContractAddress: heronfttest.Address,
	}, wallettest.New(sepolia, alice), f.store, session.WithBinder(binder))
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	f.sessions = sessions
	f.svc = New(sessions, discovery.New(discovery.DefaultConfig(), nil), nil)

	if connect {
		require.NoError(t, sessions.Connect(context.Background()))
	}
	return f
}

func (f *fixture) status() state.Status { return f.store.Snapshot().Status }

func tokenIDs(tokens []heronft.Token) []uint64 {
	out := []uint64{}
	for _, t := range tokens {
		out = append(out, t.TokenID)
	}
	return out
}

func countCalls(calls []string, method string) int {
	n := 0
	for _, c := range calls {
		if c == method {
			n++
		}
	}
	return n
}

func TestPriceValidation(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(3, alice, nil, heronft.Hero{})
	before := len(f.market.Calls())

	for _, price := range []string{"", "  ", "abc", "0", "0.0", "-1", "1e18", "0.0000000000000000001"} {
		_, err := f.svc.List(context.Background(), 3, price)
		require.True(t, errors.Is(err, ErrValidation), "price %q", price)

		_, err = f.svc.Offer(context.Background(), 3, price)
		require.True(t, errors.Is(err, ErrValidation), "price %q", price)
	}
	require.Len(t, f.market.Calls(), before)
	require.Equal(t, state.StatusError, f.status().Kind)
	require.True(t, strings.HasPrefix(f.status().Text, "Offer failed: "))
}

func TestAcceptValidation(t *testing.T) {
	f := newFixture(t, true)
	for _, buyer := range []string{"", "nope", "0x123"} {
		_, err := f.svc.AcceptOffer(context.Background(), 1, buyer)
		require.True(t, errors.Is(err, ErrValidation), "buyer %q", buyer)
	}
	require.Zero(t, countCalls(f.market.Calls(), "acceptOffer"))
}

func TestActionsRequireSession(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Mint(context.Background())
	require.True(t, errors.Is(err, ErrValidation))
	require.True(t, errors.Is(err, session.ErrNotConnected))

	_, err = f.svc.FetchMine(context.Background())
	require.True(t, errors.Is(err, session.ErrNotConnected))
	require.Empty(t, f.market.Calls())
}

func TestActionRejectedWhileBusy(t *testing.T) {
	f := newFixture(t, true)
	require.True(t, f.sessions.Token().TryAcquire())
	defer f.sessions.Token().Release()

	_, err := f.svc.Delist(context.Background(), 1)
	require.True(t, errors.Is(err, session.ErrBusy))
}

func TestMintRefreshesOwnedSetOnly(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.FetchMine(context.Background())
	require.NoError(t, err)
	require.Equal(t, "No NFTs found for this account.", f.status().Text)

	_, err = f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	listedProbes := countCalls(f.market.Calls(), "listedNFTs")

	rcpt, err := f.svc.Mint(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rcpt.ActionID)
	require.Equal(t, ActionMint, rcpt.Action)

	s := f.store.Snapshot()
	require.Equal(t, state.Status{Kind: state.StatusSuccess, Text: "NFT minted! Tx: " + rcpt.TxHash.Hex()}, s.Status)
	require.Equal(t, []uint64{0}, tokenIDs(s.MyTokens.Tokens))
	require.False(t, s.Busy)

	// the listed set was not re-scanned: mine-mode reads listedNFTs once per owned token
	require.Equal(t, listedProbes+1, countCalls(f.market.Calls(), "listedNFTs"))

	owner, ok := f.market.Owner(0)
	require.True(t, ok)
	require.Equal(t, alice, owner)
}

func TestMintWithoutFetchedSetsDoesNotScan(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.Mint(context.Background())
	require.NoError(t, err)
	require.Zero(t, countCalls(f.market.Calls(), "balanceOf"))
	require.False(t, f.store.Snapshot().MyTokens.Fetched)
}

func TestListThenListedSetShowsPrice(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(3, alice, nil, heronft.Hero{Rarity: heronft.Mythical})

	_, err := f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, "No listed NFTs found.", f.status().Text)

	_, err = f.svc.List(context.Background(), 3, "0.5")
	require.NoError(t, err)
	require.Equal(t, "NFT #3 listed", f.status().Text)

	listed := f.store.Snapshot().AllListed
	require.Equal(t, []uint64{3}, tokenIDs(listed.Tokens))
	require.Equal(t, "500000000000000000", listed.Tokens[0].ListingPrice.String())
	require.Equal(t, heronft.Mythical, listed.Tokens[0].Rarity)
}

func TestDelistRefreshesBothSets(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(2, alice, big.NewInt(1e17), heronft.Hero{})

	_, err := f.svc.FetchMine(context.Background())
	require.NoError(t, err)
	_, err = f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, f.store.Snapshot().AllListed.Tokens, 1)

	_, err = f.svc.Delist(context.Background(), 2)
	require.NoError(t, err)

	s := f.store.Snapshot()
	require.Equal(t, "NFT #2 delisted", s.Status.Text)
	require.Empty(t, s.AllListed.Tokens)
	require.True(t, s.AllListed.Fetched)
	require.Equal(t, int64(0), s.MyTokens.Tokens[0].ListingPrice.Int64())
}

func TestOfferDoesNotRefresh(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(4, bob, big.NewInt(1e18), heronft.Hero{})

	_, err := f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	before := len(f.market.Calls())

	_, err = f.svc.Offer(context.Background(), 4, " 0.25 ")
	require.NoError(t, err)
	require.Equal(t, "Offered 0.25 ETH for NFT #4", f.status().Text)
	require.Equal(t, []string{"offerNFT"}, f.market.Calls()[before:])
	require.Equal(t, "250000000000000000", f.market.Offer(4, alice).String())
}

func TestAcceptOfferTransfersToken(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(6, alice, big.NewInt(1e18), heronft.Hero{})
	_, err := f.market.As(bob).OfferNFT(context.Background(), 6, big.NewInt(2e18))
	require.NoError(t, err)

	_, err = f.svc.FetchMine(context.Background())
	require.NoError(t, err)
	require.Len(t, f.store.Snapshot().MyTokens.Tokens, 1)

	// the offer transaction has not been mined yet
	_, err = f.svc.AcceptOffer(context.Background(), 6, bob.Hex())
	require.True(t, errors.Is(err, ErrSubmission))

	offer, err := f.market.As(bob).OfferNFT(context.Background(), 6, big.NewInt(2e18))
	require.NoError(t, err)
	_, err = f.market.As(bob).WaitMined(context.Background(), offer)
	require.NoError(t, err)

	_, err = f.svc.AcceptOffer(context.Background(), 6, strings.ToLower(bob.Hex()))
	require.NoError(t, err)
	require.Equal(t, "Offer accepted for NFT #6", f.status().Text)

	owner, _ := f.market.Owner(6)
	require.Equal(t, bob, owner)
	require.Empty(t, f.store.Snapshot().MyTokens.Tokens)
}

func TestSubmissionFailureKeepsResultSets(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(1, alice, nil, heronft.Hero{})
	_, err := f.svc.FetchMine(context.Background())
	require.NoError(t, err)
	before := f.store.Snapshot().MyTokens

	f.market.FailSubmit("listNFT", errors.New("insufficient funds for gas"))
	_, err = f.svc.List(context.Background(), 1, "1")
	require.True(t, errors.Is(err, ErrSubmission))

	s := f.store.Snapshot()
	require.Equal(t, state.Status{Kind: state.StatusError, Text: "List failed: insufficient funds for gas"}, s.Status)
	require.Equal(t, before, s.MyTokens)
	require.False(t, s.Busy)
}

func TestRevertedReceiptIsFailure(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(1, alice, nil, heronft.Hero{})
	f.market.RevertOnChain("delistNFT")

	_, err := f.svc.Delist(context.Background(), 1)
	require.True(t, errors.Is(err, ErrSubmission))
	require.True(t, strings.HasPrefix(f.status().Text, "Delist failed: transaction "))
}

func TestFetchMineReportsCount(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(5, alice, nil, heronft.Hero{})
	f.market.Seed(7, bob, nil, heronft.Hero{})

	rs, err := f.svc.FetchMine(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, tokenIDs(rs.Tokens))
	require.False(t, rs.Exhausted)
	require.Equal(t, 50, rs.Width)

	s := f.store.Snapshot()
	require.Equal(t, "Found 1 NFTs (checked 50 tokens).", s.Status.Text)
	require.Empty(t, s.Progress)
}

func TestFetchMineDiscoveryFailure(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(5, alice, nil, heronft.Hero{})
	_, err := f.svc.FetchMine(context.Background())
	require.NoError(t, err)

	f.market.FailRead("balanceOf", errors.New("rpc timeout"))
	_, err = f.svc.FetchMine(context.Background())
	require.True(t, errors.Is(err, discovery.ErrDiscovery))

	s := f.store.Snapshot()
	require.Equal(t, []uint64{5}, tokenIDs(s.MyTokens.Tokens))
	require.True(t, strings.HasPrefix(s.Status.Text, "Failed to fetch your NFTs: "))
}

func TestFetchAllReportsCount(t *testing.T) {
	f := newFixture(t, true)
	f.market.Seed(1, bob, big.NewInt(1), heronft.Hero{})
	f.market.Seed(49, bob, big.NewInt(2), heronft.Hero{})
	f.market.Seed(50, bob, big.NewInt(3), heronft.Hero{})

	rs, err := f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 49}, tokenIDs(rs.Tokens))
	require.True(t, rs.Exhausted)
	require.Equal(t, "Found 2 listed NFTs (checked 50 tokens).", f.status().Text)
}

func TestRefreshPolicy(t *testing.T) {
	require.Equal(t, RefreshMine, RefreshFor(ActionMint))
	require.Equal(t, RefreshMine|RefreshAll, RefreshFor(ActionList))
	require.Equal(t, RefreshMine|RefreshAll, RefreshFor(ActionDelist))
	require.Equal(t, RefreshNone, RefreshFor(ActionOffer))
	require.Equal(t, RefreshMine|RefreshAll, RefreshFor(ActionAccept))
}
