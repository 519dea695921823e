// Package marketplace submits HeroNFT marketplace transactions, waits for
// them to be mined and refreshes the token sets they affect.
package marketplace

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/heronft/heronft-client/internal/discovery"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/metrics"
	"github.com/heronft/heronft-client/internal/session"
	"github.com/heronft/heronft-client/internal/state"
	"github.com/heronft/heronft-client/internal/units"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type Action string

const (
	ActionMint      Action = "mint"
	ActionList      Action = "list"
	ActionDelist    Action = "delist"
	ActionOffer     Action = "offer"
	ActionAccept    Action = "accept"
	ActionFetchMine Action = "fetch_mine"
	ActionFetchAll  Action = "fetch_all"
)

// Refresh selects the result sets re-scanned after an action confirms.
type Refresh uint8

const (
	RefreshMine Refresh = 1 << iota
	RefreshAll

	RefreshNone Refresh = 0
)

var refreshPolicy = map[Action]Refresh{
	ActionMint:   RefreshMine,
	ActionList:   RefreshMine | RefreshAll,
	ActionDelist: RefreshMine | RefreshAll,
	ActionOffer:  RefreshNone,
	ActionAccept: RefreshMine | RefreshAll,
}

func RefreshFor(a Action) Refresh {
	return refreshPolicy[a]
}

// Receipt identifies a confirmed action.
type Receipt struct {
	ActionID    string      `json:"actionId"`
	Action      Action      `json:"action"`
	TxHash      common.Hash `json:"txHash"`
	BlockNumber *big.Int    `json:"blockNumber,omitempty"`
}

type Service struct {
	sessions *session.Manager
	store    *state.Store
	engine   *discovery.Engine
	metrics  *metrics.Metrics
}

func New(sessions *session.Manager, engine *discovery.Engine, m *metrics.Metrics) *Service {
	return &Service{
		sessions: sessions,
		store:    sessions.Store(),
		engine:   engine,
		metrics:  m,
	}
}

// Mint pays the current mint price, read from the contract just before
// submitting.
func (s *Service) Mint(ctx context.Context) (Receipt, error) {
	return s.transact(ctx, ActionMint, "Mint failed", func(ctx context.Context, c heronft.Contract) (*types.Transaction, error) {
		price, err := c.MintPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "read mint price")
		}
		s.store.Update(state.WithMintPrice(price))
		return c.MintHero(ctx, price)
	}, "Minting NFT...", func(r *types.Receipt) string {
		return "NFT minted! Tx: " + r.TxHash.Hex()
	})
}

func (s *Service) List(ctx context.Context, tokenID uint64, price string) (Receipt, error) {
	wei, err := parsePrice(price)
	if err != nil {
		return Receipt{}, s.invalid("List failed", err)
	}
	return s.transact(ctx, ActionList, "List failed", func(ctx context.Context, c heronft.Contract) (*types.Transaction, error) {
		return c.ListNFT(ctx, tokenID, wei)
	}, "", func(*types.Receipt) string {
		return fmt.Sprintf("NFT #%d listed", tokenID)
	})
}

func (s *Service) Delist(ctx context.Context, tokenID uint64) (Receipt, error) {
	return s.transact(ctx, ActionDelist, "Delist failed", func(ctx context.Context, c heronft.Contract) (*types.Transaction, error) {
		return c.DelistNFT(ctx, tokenID)
	}, "", func(*types.Receipt) string {
		return fmt.Sprintf("NFT #%d delisted", tokenID)
	})
}

// Offer escrows price with the contract as an offer for tokenID.
func (s *Service) Offer(ctx context.Context, tokenID uint64, price string) (Receipt, error) {
	wei, err := parsePrice(price)
	if err != nil {
		return Receipt{}, s.invalid("Offer failed", err)
	}
	shown := strings.TrimSpace(price)
	return s.transact(ctx, ActionOffer, "Offer failed", func(ctx context.Context, c heronft.Contract) (*types.Transaction, error) {
		return c.OfferNFT(ctx, tokenID, wei)
	}, "", func(*types.Receipt) string {
		return fmt.Sprintf("Offered %s ETH for NFT #%d", shown, tokenID)
	})
}

func (s *Service) AcceptOffer(ctx context.Context, tokenID uint64, buyer string) (Receipt, error) {
	buyerAddr, err := parseBuyer(buyer)
	if err != nil {
		return Receipt{}, s.invalid("Accept failed", err)
	}
	return s.transact(ctx, ActionAccept, "Accept failed", func(ctx context.Context, c heronft.Contract) (*types.Transaction, error) {
		return c.AcceptOffer(ctx, tokenID, buyerAddr)
	}, "", func(*types.Receipt) string {
		return fmt.Sprintf("Offer accepted for NFT #%d", tokenID)
	})
}

func parsePrice(price string) (*big.Int, error) {
	if strings.TrimSpace(price) == "" {
		return nil, errors.Mark(errors.New("price is required"), ErrValidation)
	}
	wei, err := units.ParseEther(price)
	if err != nil {
		return nil, errors.Mark(err, ErrValidation)
	}
	if wei.Sign() <= 0 {
		return nil, errors.Mark(errors.Newf("price must be positive, got %q", price), ErrValidation)
	}
	return wei, nil
}

func parseBuyer(buyer string) (common.Address, error) {
	raw := strings.TrimSpace(buyer)
	if raw == "" {
		return common.Address{}, errors.Mark(errors.New("buyer address is required"), ErrValidation)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, errors.Mark(errors.Newf("invalid buyer address %q", buyer), ErrValidation)
	}
	return common.HexToAddress(raw), nil
}

func (s *Service) invalid(prefix string, err error) error {
	s.store.Update(state.WithStatus(state.StatusError, fmt.Sprintf("%s: %v", prefix, err)))
	return err
}

type submitFunc func(ctx context.Context, c heronft.Contract) (*types.Transaction, error)

// transact runs one action under the session token: submit, wait for the
// receipt, report, then refresh whichever fetched sets the action touches.
func (s *Service) transact(ctx context.Context, action Action, failPrefix string, submit submitFunc, pending string, success func(*types.Receipt) string) (Receipt, error) {
	out := Receipt{ActionID: uuid.NewString(), Action: action}

	err := s.sessions.Exclusive(string(action), func() error {
		sess, err := s.sessions.Session()
		if err != nil {
			return s.invalid(failPrefix, errors.Mark(err, ErrValidation))
		}

		start := time.Now()
		fail := func(err error) error {
			log.Error("marketplace action failed", "action", action, "id", out.ActionID, "error", err)
			s.metrics.ObserveAction(string(action), "failure", time.Since(start))
			s.store.Update(state.WithStatus(state.StatusError, fmt.Sprintf("%s: %v", failPrefix, err)))
			return errors.Mark(err, ErrSubmission)
		}

		tx, err := submit(ctx, sess.Contract)
		if err != nil {
			return fail(err)
		}
		out.TxHash = tx.Hash()
		log.Info("transaction submitted", "action", action, "id", out.ActionID, "tx", tx.Hash().Hex())
		if pending != "" {
			s.store.Update(state.WithStatus(state.StatusInfo, pending))
		}

		receipt, err := sess.Contract.WaitMined(ctx, tx)
		if err != nil {
			return fail(errors.Wrap(err, "wait for confirmation"))
		}
		if receipt.Status != types.ReceiptStatusSuccessful {
			return fail(errors.Newf("transaction %s reverted", tx.Hash().Hex()))
		}
		out.BlockNumber = receipt.BlockNumber

		s.metrics.ObserveAction(string(action), "success", time.Since(start))
		s.store.Update(state.WithStatus(state.StatusSuccess, success(receipt)))
		log.Info("transaction confirmed", "action", action, "id", out.ActionID, "tx", tx.Hash().Hex())

		s.refreshLocked(ctx, sess, RefreshFor(action))
		return nil
	})
	return out, err
}
