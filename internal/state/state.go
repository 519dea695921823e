// Package state holds the client's application state as one value. Every
// change is a Transition applied through the Store, which publishes the
// resulting snapshot.
package state

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/heronft"
)

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusWarning StatusKind = "warning"
	StatusError   StatusKind = "error"
)

// Status is the single user-visible message. Only the latest is kept.
type Status struct {
	Text string     `json:"text"`
	Kind StatusKind `json:"kind"`
}

// Session is the wallet connection. Account, ChainID and Contract are set
// and cleared together.
type Session struct {
	Account  common.Address
	ChainID  *big.Int
	Contract heronft.Contract
}

func (s Session) Active() bool {
	return s.Contract != nil
}

// ResultSet is one discovery result. Fetched distinguishes "never scanned"
// from "scanned, nothing found".
type ResultSet struct {
	Tokens    []heronft.Token
	Fetched   bool
	Exhausted bool
	Probed    int
	Width     int
	FetchedAt time.Time
}

type State struct {
	// Version increases with every applied update.
	Version uint64

	Session   Session
	MintPrice *big.Int // wei, nil until read

	MyTokens  ResultSet
	AllListed ResultSet

	Status   Status
	Progress string
	Busy     bool
	Action   string
}

// Clone copies the parts of s that transitions replace in place.
func (s State) Clone() State {
	out := s
	out.MyTokens.Tokens = cloneTokens(s.MyTokens.Tokens)
	out.AllListed.Tokens = cloneTokens(s.AllListed.Tokens)
	if s.Session.ChainID != nil {
		out.Session.ChainID = new(big.Int).Set(s.Session.ChainID)
	}
	if s.MintPrice != nil {
		out.MintPrice = new(big.Int).Set(s.MintPrice)
	}
	return out
}

func cloneTokens(in []heronft.Token) []heronft.Token {
	if in == nil {
		return nil
	}
	out := make([]heronft.Token, len(in))
	for i, t := range in {
		if t.ListingPrice != nil {
			t.ListingPrice = new(big.Int).Set(t.ListingPrice)
		}
		out[i] = t
	}
	return out
}
