package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/heronft/heronft-client/internal/discovery"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// FetchMine scans for the session account's tokens and replaces the owned
// set. A failed scan leaves the previous set in place.
func (s *Service) FetchMine(ctx context.Context) (state.ResultSet, error) {
	var out state.ResultSet
	err := s.sessions.Exclusive(string(ActionFetchMine), func() error {
		sess, err := s.sessions.Session()
		if err != nil {
			return s.invalid("Failed to fetch your NFTs", errors.Mark(err, ErrValidation))
		}

		width := s.engine.Config().Width
		s.store.Update(state.WithProgress(fmt.Sprintf("Fetching your NFTs... (Checking up to %d tokens)", width)))

		rs, err := s.scanMine(ctx, sess)
		if err != nil {
			s.store.Update(state.WithStatus(state.StatusError, fmt.Sprintf("Failed to fetch your NFTs: %v", err)))
			return err
		}

		msg := state.WithStatus(state.StatusSuccess, fmt.Sprintf("Found %d NFTs (checked %d tokens).", len(rs.Tokens), width))
		if len(rs.Tokens) == 0 {
			msg = state.WithStatus(state.StatusInfo, "No NFTs found for this account.")
		}
		s.store.Update(state.MyTokensFetched(rs), msg)
		out = rs
		return nil
	})
	return out, err
}

// FetchAll scans for listed tokens and replaces the listed set.
func (s *Service) FetchAll(ctx context.Context) (state.ResultSet, error) {
	var out state.ResultSet
	err := s.sessions.Exclusive(string(ActionFetchAll), func() error {
		sess, err := s.sessions.Session()
		if err != nil {
			return s.invalid("Failed to fetch all NFTs", errors.Mark(err, ErrValidation))
		}

		width := s.engine.Config().Width
		s.store.Update(state.WithProgress(fmt.Sprintf("Fetching all listed NFTs... (Checking up to %d tokens)", width)))

		rs, err := s.scanAll(ctx, sess)
		if err != nil {
			s.store.Update(state.WithStatus(state.StatusError, fmt.Sprintf("Failed to fetch all NFTs: %v", err)))
			return err
		}

		msg := state.WithStatus(state.StatusSuccess, fmt.Sprintf("Found %d listed NFTs (checked %d tokens).", len(rs.Tokens), width))
		if len(rs.Tokens) == 0 {
			msg = state.WithStatus(state.StatusInfo, "No listed NFTs found.")
		}
		s.store.Update(state.AllListedFetched(rs), msg)
		out = rs
		return nil
	})
	return out, err
}

func (s *Service) scanMine(ctx context.Context, sess state.Session) (state.ResultSet, error) {
	res, err := s.engine.Mine(ctx, sess.Contract, sess.Account, func(found int, total int64) {
		s.store.Update(state.WithProgress(fmt.Sprintf("Found %d/%d NFTs...", found, total)))
	})
	if err != nil {
		return state.ResultSet{}, err
	}
	return toResultSet(res), nil
}

func (s *Service) scanAll(ctx context.Context, sess state.Session) (state.ResultSet, error) {
	res, err := s.engine.All(ctx, sess.Contract, func(found int, _ int64) {
		s.store.Update(state.WithProgress(fmt.Sprintf("Found %d listed NFTs...", found)))
	})
	if err != nil {
		return state.ResultSet{}, err
	}
	return toResultSet(res), nil
}

func toResultSet(res discovery.Result) state.ResultSet {
	return state.ResultSet{
		Tokens:    res.Tokens,
		Fetched:   true,
		Exhausted: res.Exhausted,
		Probed:    res.Probed,
		Width:     res.Width,
		FetchedAt: time.Now().UTC(),
	}
}

// refreshLocked re-scans the sets selected by r that were fetched before.
// The action's status message stays unless a refresh fails.
func (s *Service) refreshLocked(ctx context.Context, sess state.Session, r Refresh) {
	snap := s.store.Snapshot()

	if r&RefreshMine != 0 && snap.MyTokens.Fetched {
		rs, err := s.scanMine(ctx, sess)
		if err != nil {
			log.Warn("refresh of owned tokens failed", "error", err)
			s.store.Update(state.WithStatus(state.StatusWarning, fmt.Sprintf("Failed to refresh your NFTs: %v", err)))
		} else {
			s.store.Update(state.MyTokensFetched(rs))
		}
	}

	if r&RefreshAll != 0 && snap.AllListed.Fetched {
		rs, err := s.scanAll(ctx, sess)
		if err != nil {
			log.Warn("refresh of listed tokens failed", "error", err)
			s.store.Update(state.WithStatus(state.StatusWarning, fmt.Sprintf("Failed to refresh listed NFTs: %v", err)))
		} else {
			s.store.Update(state.AllListedFetched(rs))
		}
	}
}
