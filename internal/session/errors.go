package session

import "github.com/cockroachdb/errors"

var (
	// ErrConnection covers a missing provider, a rejected authorization and
	// an empty account list. ErrNoWallet and ErrNoAccounts are marked with it
	// where they are returned.
	ErrConnection = errors.New("wallet connection failed")
	ErrNoWallet   = errors.New("no wallet provider")
	ErrNoAccounts = errors.New("no accounts authorized")

	// ErrNetworkMismatch is returned when the wallet is not on the required
	// network and could not be switched to it.
	ErrNetworkMismatch = errors.New("network mismatch")
	ErrWrongNetwork    = errors.New("wrong network")

	ErrBusy         = errors.New("another action is in progress")
	ErrNotConnected = errors.New("no active session")
)
