package http

import (
	"net/http"
	"strings"

	"github.com/heronft/heronft-client/internal/chains"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type apiResponse struct {
	OK     bool          `json:"ok"`
	Data   any           `json:"data,omitempty"`
	Error  string        `json:"error,omitempty"`
	Status *state.Status `json:"status,omitempty"`
}

type tokenReq struct {
	TokenID *uint64 `json:"tokenId"`
}

type priceReq struct {
	TokenID *uint64 `json:"tokenId"`
	Price   string  `json:"price"`
}

type acceptReq struct {
	TokenID *uint64 `json:"tokenId"`
	Buyer   string  `json:"buyer"`
}

type walletSelectReq struct {
	Address string `json:"address"`
}

type walletSwitchChainReq struct {
	ChainID string `json:"chainId"`
}

type walletNewAccountReq struct {
	Label string `json:"label"`
}

type walletImportAccountReq struct {
	PrivateKey string `json:"privateKey"`
	Label      string `json:"label"`
}

// respond writes data or err together with the latest status message.
func (s *Server) respond(w http.ResponseWriter, data any, err error) {
	st := s.store.Snapshot().Status
	if err != nil {
		writeJSON(w, statusCode(err), apiResponse{OK: false, Error: err.Error(), Status: &st})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{OK: true, Data: data, Status: &st})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{OK: false, Error: msg})
}

// decodeBody reports false after writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readJSONBody(r, out); err != nil {
		badRequest(w, HTTPErrorInvalidJSONText)
		return false
	}
	return true
}

func missingTokenID(w http.ResponseWriter, id *uint64) bool {
	if id == nil {
		badRequest(w, "missing tokenId")
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateView(s.store.Snapshot()))
}

// GET /api/pages/{home,mint,marketplace,my-nfts}
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/pages/"), "/")
	v, ok := s.pageView(page, s.store.Snapshot())
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Connect(s.ctx)
	if err != nil {
		log.Warn("connect failed", "error", err)
	}
	s.respond(w, s.sessionView(s.store.Snapshot().Session), err)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Disconnect(r.Context())
	s.respond(w, s.sessionView(s.store.Snapshot().Session), err)
}

func (s *Server) handleFetchMine(w http.ResponseWriter, r *http.Request) {
	rs, err := s.market.FetchMine(s.ctx)
	if err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, newResultView(rs, s.store.Snapshot().Session.Account, ViewNoOwnedText), nil)
}

func (s *Server) handleFetchListed(w http.ResponseWriter, r *http.Request) {
	rs, err := s.market.FetchAll(s.ctx)
	if err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, newResultView(rs, s.store.Snapshot().Session.Account, ViewNoListedText), nil)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	rc, err := s.market.Mint(s.ctx)
	s.respond(w, rc, err)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var req priceReq
	if !decodeBody(w, r, &req) || missingTokenID(w, req.TokenID) {
		return
	}
	rc, err := s.market.List(s.ctx, *req.TokenID, req.Price)
	s.respond(w, rc, err)
}

func (s *Server) handleDelist(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if !decodeBody(w, r, &req) || missingTokenID(w, req.TokenID) {
		return
	}
	rc, err := s.market.Delist(s.ctx, *req.TokenID)
	s.respond(w, rc, err)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	var req priceReq
	if !decodeBody(w, r, &req) || missingTokenID(w, req.TokenID) {
		return
	}
	rc, err := s.market.Offer(s.ctx, *req.TokenID, req.Price)
	s.respond(w, rc, err)
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptReq
	if !decodeBody(w, r, &req) || missingTokenID(w, req.TokenID) {
		return
	}
	rc, err := s.market.AcceptOffer(s.ctx, *req.TokenID, req.Buyer)
	s.respond(w, rc, err)
}

// POST /api/wallet/select  { address: "0x..." }
func (s *Server) handleWalletSelect(w http.ResponseWriter, r *http.Request) {
	var req walletSelectReq
	if !decodeBody(w, r, &req) {
		return
	}
	addr, err := parseAddr(req.Address)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.wallet.SelectAccount(addr); err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, map[string]string{"account": addr.Hex()}, nil)
}

func (s *Server) handleWalletLock(w http.ResponseWriter, r *http.Request) {
	s.wallet.Lock()
	s.respond(w, map[string]bool{"locked": true}, nil)
}

// POST /api/wallet/switch-chain  { chainId: "0xaa36a7" | "11155111" }
func (s *Server) handleWalletSwitchChain(w http.ResponseWriter, r *http.Request) {
	var req walletSwitchChainReq
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := chains.ParseChainID(req.ChainID)
	if err != nil {
		s.respond(w, nil, err)
		return
	}

	log.Info("switching chain", "chain", chains.ChainIDHex(id))
	if err := s.wallet.SwitchChain(s.ctx, id); err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, map[string]string{"chainIdHex": chains.ChainIDHex(id)}, nil)
}

func (s *Server) handleWalletNewAccount(w http.ResponseWriter, r *http.Request) {
	var req walletNewAccountReq
	if !decodeBody(w, r, &req) {
		return
	}
	addr, err := s.wallet.NewAccount(strings.TrimSpace(req.Label))
	if err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, map[string]string{"account": addr.Hex()}, nil)
}

func (s *Server) handleWalletImportAccount(w http.ResponseWriter, r *http.Request) {
	var req walletImportAccountReq
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PrivateKey) == "" {
		badRequest(w, "missing privateKey")
		return
	}
	addr, err := s.wallet.ImportAccount(req.PrivateKey, strings.TrimSpace(req.Label))
	if err != nil {
		s.respond(w, nil, err)
		return
	}
	s.respond(w, map[string]string{"account": addr.Hex()}, nil)
}
