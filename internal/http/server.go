// Package http serves the client's view layer on a loopback port: page view
// models, marketplace and session actions, wallet controls, a websocket
// stream of state snapshots and Prometheus metrics.
package http

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/heronft/heronft-client/internal/marketplace"
	"github.com/heronft/heronft-client/internal/metrics"
	"github.com/heronft/heronft-client/internal/session"
	"github.com/heronft/heronft-client/internal/state"
)

// WalletControl is the part of a local wallet the page may drive directly.
type WalletControl interface {
	SelectAccount(addr common.Address) error
	NewAccount(label string) (common.Address, error)
	ImportAccount(privHex, label string) (common.Address, error)
	Lock()
	SwitchChain(ctx context.Context, chainID *big.Int) error
}

type Options struct {
	AllowedOrigins []string
	Wallet         WalletControl
	Metrics        *metrics.Metrics
}

type Server struct {
	// actions run on ctx so a dropped request does not abandon a pending
	// transaction
	ctx context.Context

	mux      *http.ServeMux
	sessions *session.Manager
	store    *state.Store
	market   *marketplace.Service
	wallet   WalletControl
	metrics  *metrics.Metrics

	allowedOrigins map[string]struct{}
	readCORS       corsPolicy
	actionCORS     corsPolicy
	upgrader       websocket.Upgrader
}

func NewServer(ctx context.Context, sessions *session.Manager, market *marketplace.Service, opts Options) (*Server, error) {
	s := &Server{
		ctx:      ctx,
		mux:      http.NewServeMux(),
		sessions: sessions,
		store:    sessions.Store(),
		market:   market,
		wallet:   opts.Wallet,
		metrics:  opts.Metrics,
	}

	s.allowedOrigins = make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		s.allowedOrigins[o] = struct{}{}
	}

	s.readCORS = corsPolicy{
		allowedOrigins: s.allowedOrigins,
		allowMethods:   "GET,OPTIONS",
		maxAge:         corsMaxAge,
	}
	s.actionCORS = corsPolicy{
		allowedOrigins: s.allowedOrigins,
		allowMethods:   "POST,OPTIONS",
		maxAge:         corsMaxAge,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.mux.HandleFunc("/healthz", s.withRead(s.handleHealth))
	s.mux.HandleFunc("/api/state", s.withRead(s.handleState))
	s.mux.HandleFunc("/api/pages/", s.withRead(s.handlePage))
	s.mux.HandleFunc("/api/events", s.withLoopbackOnly(requireMethod(http.MethodGet, s.handleEvents)))

	// session
	s.mux.HandleFunc("/api/session/connect", s.withAction(s.handleConnect))
	s.mux.HandleFunc("/api/session/disconnect", s.withAction(s.handleDisconnect))

	// discovery
	s.mux.HandleFunc("/api/nfts/mine", s.withAction(s.handleFetchMine))
	s.mux.HandleFunc("/api/nfts/listed", s.withAction(s.handleFetchListed))

	// marketplace
	s.mux.HandleFunc("/api/market/mint", s.withAction(s.handleMint))
	s.mux.HandleFunc("/api/market/list", s.withAction(s.handleList))
	s.mux.HandleFunc("/api/market/delist", s.withAction(s.handleDelist))
	s.mux.HandleFunc("/api/market/offer", s.withAction(s.handleOffer))
	s.mux.HandleFunc("/api/market/accept", s.withAction(s.handleAccept))

	// local wallet
	s.mux.HandleFunc("/api/wallet/select", s.withAction(s.withWallet(s.handleWalletSelect)))
	s.mux.HandleFunc("/api/wallet/lock", s.withAction(s.withWallet(s.handleWalletLock)))
	s.mux.HandleFunc("/api/wallet/switch-chain", s.withAction(s.withWallet(s.handleWalletSwitchChain)))
	s.mux.HandleFunc("/api/wallet/accounts/new", s.withAction(s.withWallet(s.handleWalletNewAccount)))
	s.mux.HandleFunc("/api/wallet/accounts/import", s.withAction(s.withWallet(s.handleWalletImportAccount)))

	s.mux.HandleFunc("/metrics", s.withLoopbackOnly(s.metrics.Handler().ServeHTTP))

	// attach UI LAST
	if err := s.AttachUI(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) withWallet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.wallet == nil {
			writeJSON(w, http.StatusNotImplemented, apiResponse{OK: false, Error: HTTPErrorNoWalletControlText})
			return
		}
		next(w, r)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	raw := r.Header.Get("Origin")
	if raw == "" {
		return true
	}
	origin := normalizeOrigin(raw)
	if origin == "" {
		return false
	}
	if _, ok := s.allowedOrigins[origin]; ok {
		return true
	}
	return sameOrigin(r, origin)
}
