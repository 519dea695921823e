package http

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/session"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/heronft/heronft-client/internal/units"
)

type tokenView struct {
	TokenID      uint64         `json:"tokenId"`
	Owner        string         `json:"owner"`
	OwnerShort   string         `json:"ownerShort"`
	Rarity       heronft.Rarity `json:"rarity"`
	Strength     uint64         `json:"strength"`
	Agility      uint64         `json:"agility"`
	Intelligence uint64         `json:"intelligence"`

	Listed            bool   `json:"listed"`
	ListingPriceEth   string `json:"listingPriceEth"`
	ListingPriceWei   string `json:"listingPriceWei"`
	ListingPriceShort string `json:"listingPriceShort"`

	Mine     bool     `json:"mine"`
	Controls []string `json:"controls"`
}

type resultView struct {
	Tokens    []tokenView `json:"tokens"`
	Fetched   bool        `json:"fetched"`
	Exhausted bool        `json:"exhausted"`
	Probed    int         `json:"probed"`
	Width     int         `json:"width"`
	FetchedAt *time.Time  `json:"fetchedAt,omitempty"`
	Empty     string      `json:"empty,omitempty"`
}

type sessionView struct {
	Connected    bool   `json:"connected"`
	Account      string `json:"account,omitempty"`
	AccountShort string `json:"accountShort,omitempty"`
	ChainID      string `json:"chainId,omitempty"`
	ChainIDHex   string `json:"chainIdHex,omitempty"`
	Contract     string `json:"contract,omitempty"`

	Network            string `json:"network"`
	RequiredChainIDHex string `json:"requiredChainIdHex"`
}

type stateView struct {
	Version      uint64       `json:"version"`
	Session      sessionView  `json:"session"`
	MintPriceEth string       `json:"mintPriceEth,omitempty"`
	MyTokens     resultView   `json:"myTokens"`
	AllListed    resultView   `json:"allListed"`
	Status       state.Status `json:"status"`
	Progress     string       `json:"progress,omitempty"`
	Busy         bool         `json:"busy"`
	Action       string       `json:"action,omitempty"`
}

// pageView is what one page of the client shows. Sections a page does not
// render stay empty.
type pageView struct {
	Page    string       `json:"page"`
	Title   string       `json:"title"`
	Session sessionView  `json:"session"`
	Status  state.Status `json:"status"`
	Busy    bool         `json:"busy"`
	Notice  string       `json:"notice,omitempty"`

	Progress     string      `json:"progress,omitempty"`
	CanFetch     bool        `json:"canFetch,omitempty"`
	Tokens       *resultView `json:"tokens,omitempty"`
	MintPriceEth string      `json:"mintPriceEth,omitempty"`
	Forms        []string    `json:"forms,omitempty"`
}

func (s *Server) sessionView(sess state.Session) sessionView {
	cfg := s.sessions.Config()
	v := sessionView{
		Network:            cfg.NetworkLabel,
		RequiredChainIDHex: chains.ChainIDHex(cfg.RequiredChainID),
	}
	if !sess.Active() {
		return v
	}

	v.Connected = true
	v.Account = sess.Account.Hex()
	v.AccountShort = session.ShortAddress(sess.Account)
	if sess.ChainID != nil {
		v.ChainID = sess.ChainID.String()
		v.ChainIDHex = chains.ChainIDHex(sess.ChainID)
	}
	v.Contract = sess.Contract.Address().Hex()
	return v
}

func (s *Server) stateView(st state.State) stateView {
	v := stateView{
		Version:   st.Version,
		Session:   s.sessionView(st.Session),
		MyTokens:  newResultView(st.MyTokens, st.Session.Account, ""),
		AllListed: newResultView(st.AllListed, st.Session.Account, ""),
		Status:    st.Status,
		Progress:  st.Progress,
		Busy:      st.Busy,
		Action:    st.Action,
	}
	if st.MintPrice != nil {
		v.MintPriceEth = units.FormatEther(st.MintPrice)
	}
	return v
}

func (s *Server) pageView(page string, st state.State) (pageView, bool) {
	sess := s.sessionView(st.Session)
	v := pageView{
		Page:    page,
		Session: sess,
		Status:  st.Status,
		Busy:    st.Busy,
	}

	switch page {
	case PageHome:
		v.Title = "All Listed NFTs"
		v.CanFetch = sess.Connected && !st.Busy
		v.Progress = st.Progress
		rv := newResultView(st.AllListed, st.Session.Account, ViewNoListedText)
		v.Tokens = &rv
	case PageMint:
		v.Title = "Mint NFT"
		if st.MintPrice != nil {
			v.MintPriceEth = units.FormatEther(st.MintPrice)
		}
	case PageMarketplace:
		v.Title = "Marketplace Actions"
		v.Forms = []string{TokenControlList, TokenControlDelist, TokenControlOffer, TokenControlAccept}
	case PageMyNFTs:
		v.Title = "My NFTs"
		v.CanFetch = sess.Connected && !st.Busy
		v.Progress = st.Progress
		rv := newResultView(st.MyTokens, st.Session.Account, ViewNoOwnedText)
		v.Tokens = &rv
	default:
		return pageView{}, false
	}

	if !sess.Connected {
		v.Notice = ViewConnectWalletText
		if page != PageHome {
			v.Forms = nil
			v.MintPriceEth = ""
			v.Tokens = nil
		}
	}
	return v, true
}

func newResultView(rs state.ResultSet, account common.Address, empty string) resultView {
	v := resultView{
		Tokens:    make([]tokenView, 0, len(rs.Tokens)),
		Fetched:   rs.Fetched,
		Exhausted: rs.Exhausted,
		Probed:    rs.Probed,
		Width:     rs.Width,
	}
	if !rs.FetchedAt.IsZero() {
		at := rs.FetchedAt
		v.FetchedAt = &at
	}
	for _, t := range rs.Tokens {
		v.Tokens = append(v.Tokens, newTokenView(t, account))
	}
	if rs.Fetched && len(rs.Tokens) == 0 {
		v.Empty = empty
	}
	return v
}

func newTokenView(t heronft.Token, account common.Address) tokenView {
	v := tokenView{
		TokenID:           t.TokenID,
		Owner:             t.Owner.Hex(),
		OwnerShort:        session.ShortAddress(t.Owner),
		Rarity:            t.Rarity,
		Strength:          t.Strength,
		Agility:           t.Agility,
		Intelligence:      t.Intelligence,
		Listed:            t.Listed(),
		ListingPriceEth:   "0",
		ListingPriceWei:   "0",
		ListingPriceShort: "0",
	}
	if t.ListingPrice != nil {
		v.ListingPriceEth = units.FormatEther(t.ListingPrice)
		v.ListingPriceWei = t.ListingPrice.String()
		v.ListingPriceShort = units.FormatUnitsTrim(t.ListingPrice, units.EtherDecimals, shortPriceDecimals)
	}

	v.Mine = account != (common.Address{}) && heronft.SameAddress(t.Owner, account)
	switch {
	case v.Mine && v.Listed:
		v.Controls = []string{TokenControlDelist, TokenControlAccept}
	case v.Mine:
		v.Controls = []string{TokenControlList}
	default:
		v.Controls = []string{TokenControlOffer}
	}
	return v
}
