package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// handleEvents streams state snapshots over a websocket. The current
// snapshot is sent first. A slow reader only ever gets the latest snapshot
// so the store never waits on it.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		log.Warn("events upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := make(chan state.State, 16)
	sub := s.store.Subscribe(updates)
	defer sub.Unsubscribe()

	done := make(chan struct{})
	defer close(done)

	latest := make(chan state.State, 1)
	go func() {
		for {
			select {
			case st := <-updates:
				select {
				case <-latest:
				default:
				}
				latest <- st
			case <-sub.Err():
				return
			case <-done:
				return
			}
		}
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(EventsPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(EventsPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(EventsPingInterval)
	defer ping.Stop()

	var sent uint64
	write := func(st state.State) bool {
		if st.Version != 0 && st.Version <= sent {
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(EventsWriteTimeout))
		if err := conn.WriteJSON(s.stateView(st)); err != nil {
			log.Warn("events write failed", "error", err)
			return false
		}
		sent = st.Version
		return true
	}

	if !write(s.store.Snapshot()) {
		return
	}

	for {
		select {
		case st := <-latest:
			if !write(st) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(EventsWriteTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		case <-s.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(EventsWriteTimeout))
			return
		}
	}
}
