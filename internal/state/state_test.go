package state

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/stretchr/testify/require"
)

// stubContract only needs to be non-nil for session tests.
type stubContract struct{ heronft.Contract }

func populated() State {
	s := State{}
	s = Established(common.Address{1}, big.NewInt(11155111), stubContract{})(s)
	s = WithMintPrice(big.NewInt(1e16))(s)
	s = MyTokensFetched(ResultSet{Tokens: []heronft.Token{{TokenID: 5, ListingPrice: big.NewInt(0)}}, Width: 50})(s)
	s = AllListedFetched(ResultSet{Tokens: []heronft.Token{{TokenID: 3, ListingPrice: big.NewInt(5e17)}}, Exhausted: true})(s)
	return s
}

func TestDisconnectedClearsEverything(t *testing.T) {
	for _, s := range []State{{}, populated()} {
		out := Disconnected()(s)
		require.False(t, out.Session.Active())
		require.Equal(t, common.Address{}, out.Session.Account)
		require.Nil(t, out.Session.ChainID)
		require.Nil(t, out.MintPrice)
		require.Empty(t, out.MyTokens.Tokens)
		require.Empty(t, out.AllListed.Tokens)
		require.False(t, out.MyTokens.Fetched)
		require.False(t, out.AllListed.Fetched)
	}
}

func TestEstablishedSetsSessionTogether(t *testing.T) {
	s := populated()
	require.True(t, s.Session.Active())
	require.Equal(t, common.Address{1}, s.Session.Account)
	require.Equal(t, int64(11155111), s.Session.ChainID.Int64())
}

func TestFetchedFlagDistinctFromEmpty(t *testing.T) {
	s := MyTokensFetched(ResultSet{})(State{})
	require.True(t, s.MyTokens.Fetched)
	require.Empty(t, s.MyTokens.Tokens)
	require.False(t, s.AllListed.Fetched)
}

func TestAccountChangedDropsOwnedSet(t *testing.T) {
	s := AccountChanged()(populated())
	require.False(t, s.MyTokens.Fetched)
	require.True(t, s.AllListed.Fetched)
}

func TestBeginEnd(t *testing.T) {
	s := Begin("mint")(WithProgress("old")(State{}))
	require.True(t, s.Busy)
	require.Equal(t, "mint", s.Action)
	require.Empty(t, s.Progress)

	s = End()(WithProgress("Found 1/2 NFTs...")(s))
	require.False(t, s.Busy)
	require.Empty(t, s.Action)
	require.Empty(t, s.Progress)
}

func TestCloneIsDeep(t *testing.T) {
	s := populated()
	c := s.Clone()
	c.MyTokens.Tokens[0].TokenID = 99
	c.AllListed.Tokens[0].ListingPrice.SetInt64(1)
	c.Session.ChainID.SetInt64(1)

	require.Equal(t, uint64(5), s.MyTokens.Tokens[0].TokenID)
	require.Equal(t, int64(5e17), s.AllListed.Tokens[0].ListingPrice.Int64())
	require.Equal(t, int64(11155111), s.Session.ChainID.Int64())
}

func TestStoreUpdateAndSubscribe(t *testing.T) {
	store := NewStore()
	defer store.Close()

	ch := make(chan State, 4)
	sub := store.Subscribe(ch)
	defer sub.Unsubscribe()

	out := store.Update(WithStatus(StatusSuccess, "Connected: 0x0100...0000"), Begin("connect"))
	require.Equal(t, uint64(1), out.Version)
	require.True(t, out.Busy)

	select {
	case got := <-ch:
		require.Equal(t, out.Version, got.Version)
		require.Equal(t, Status{Text: "Connected: 0x0100...0000", Kind: StatusSuccess}, got.Status)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	snap := store.Snapshot()
	require.Equal(t, uint64(1), snap.Version)

	store.Update(End())
	require.Equal(t, uint64(2), store.Snapshot().Version)
	require.False(t, store.Snapshot().Busy)
}
