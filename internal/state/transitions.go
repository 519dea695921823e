package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/heronft"
)

// Transition maps one state to the next. Transitions must not retain or
// mutate their input beyond the returned value.
type Transition func(State) State

// Established binds a session.
func Established(account common.Address, chainID *big.Int, contract heronft.Contract) Transition {
	return func(s State) State {
		s.Session = Session{
			Account:  account,
			ChainID:  new(big.Int).Set(chainID),
			Contract: contract,
		}
		return s
	}
}

// Disconnected clears the session, the mint price and both result sets.
func Disconnected() Transition {
	return func(s State) State {
		s.Session = Session{}
		s.MintPrice = nil
		s.MyTokens = ResultSet{}
		s.AllListed = ResultSet{}
		s.Progress = ""
		return s
	}
}

// AccountChanged drops results that belonged to the previous account.
func AccountChanged() Transition {
	return func(s State) State {
		s.MyTokens = ResultSet{}
		return s
	}
}

func WithStatus(kind StatusKind, text string) Transition {
	return func(s State) State {
		s.Status = Status{Text: text, Kind: kind}
		return s
	}
}

func WithMintPrice(wei *big.Int) Transition {
	return func(s State) State {
		if wei == nil {
			s.MintPrice = nil
		} else {
			s.MintPrice = new(big.Int).Set(wei)
		}
		return s
	}
}

func WithProgress(text string) Transition {
	return func(s State) State {
		s.Progress = text
		return s
	}
}

// Begin marks an action in flight.
func Begin(action string) Transition {
	return func(s State) State {
		s.Busy = true
		s.Action = action
		s.Progress = ""
		return s
	}
}

func End() Transition {
	return func(s State) State {
		s.Busy = false
		s.Action = ""
		s.Progress = ""
		return s
	}
}

// MyTokensFetched replaces the owned set wholesale.
func MyTokensFetched(rs ResultSet) Transition {
	return func(s State) State {
		rs.Fetched = true
		rs.Tokens = cloneTokens(rs.Tokens)
		s.MyTokens = rs
		return s
	}
}

// AllListedFetched replaces the listed set wholesale.
func AllListedFetched(rs ResultSet) Transition {
	return func(s State) State {
		rs.Fetched = true
		rs.Tokens = cloneTokens(rs.Tokens)
		s.AllListed = rs
		return s
	}
}
