package state

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

// Store owns the current State. Readers get copies; writers go through
// Update.
type Store struct {
	mu    sync.RWMutex
	state State

	feed  event.Feed
	scope event.SubscriptionScope
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies ts in order as one step and publishes the result.
func (s *Store) Update(ts ...Transition) State {
	s.mu.Lock()
	next := s.state
	for _, t := range ts {
		next = t(next)
	}
	next.Version = s.state.Version + 1
	s.state = next
	out := next.Clone()
	s.mu.Unlock()

	// subscribers may call Snapshot, so publish unlocked
	s.feed.Send(out)
	return out
}

// Subscribe delivers every published snapshot to ch. Snapshots can arrive
// out of order under concurrent updates; compare Version.
func (s *Store) Subscribe(ch chan<- State) event.Subscription {
	return s.scope.Track(s.feed.Subscribe(ch))
}

func (s *Store) Close() {
	s.scope.Close()
}
