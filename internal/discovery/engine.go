// Package discovery rebuilds token sets by probing a bounded range of ids.
// There is no index to ask, so tokens with id >= Width are invisible; every
// Result says whether the bound was reached.
package discovery

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/heronft/heronft-client/internal/heronft"
	"github.com/heronft/heronft-client/internal/metrics"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// ErrDiscovery marks a scan that could not run at all.
var ErrDiscovery = errors.New("discovery failed")

const DefaultWidth = 50

type Mode string

const (
	ModeMine Mode = "mine"
	ModeAll  Mode = "all"
)

type Config struct {
	// Width is the number of ids probed, starting at 0.
	Width int
	// StopEarly ends a mine scan once the owner's balance is accounted for.
	StopEarly bool
}

func DefaultConfig() Config {
	return Config{Width: DefaultWidth, StopEarly: true}
}

// Reader is the read side of the contract a scan needs.
type Reader interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	Hero(ctx context.Context, tokenID uint64) (heronft.Hero, error)
	ListingPrice(ctx context.Context, tokenID uint64) (*big.Int, error)
}

// Progress is called after each match with the running count. Total is the
// owner's balance in mine mode and -1 in all mode.
type Progress func(found int, total int64)

type Result struct {
	Mode   Mode
	Tokens []heronft.Token
	// Exhausted is set when the scan stopped at Width rather than because
	// every expected token was found.
	Exhausted bool
	Probed    int
	Width     int
	// Balance is the owner's token count (mine mode only).
	Balance *big.Int
}

type Engine struct {
	cfg     Config
	metrics *metrics.Metrics
}

func New(cfg Config, m *metrics.Metrics) *Engine {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	return &Engine{cfg: cfg, metrics: m}
}

func (e *Engine) Config() Config { return e.cfg }

// Mine returns the tokens owned by owner among ids [0, Width) in increasing
// id order. A failed balance read aborts with ErrDiscovery; a failed lookup
// of a single id skips that id.
func (e *Engine) Mine(ctx context.Context, c Reader, owner common.Address, progress Progress) (res Result, err error) {
	start := time.Now()
	res = Result{Mode: ModeMine, Width: e.cfg.Width, Tokens: []heronft.Token{}}
	defer func() {
		e.metrics.ObserveScan(string(ModeMine), res.Probed, len(res.Tokens), time.Since(start), err)
	}()

	balance, err := c.BalanceOf(ctx, owner)
	if err != nil {
		return res, errors.Mark(errors.Wrap(err, "read balance"), ErrDiscovery)
	}
	res.Balance = balance

	for id := uint64(0); id < uint64(e.cfg.Width); id++ {
		if e.cfg.StopEarly && balance.Cmp(big.NewInt(int64(len(res.Tokens)))) <= 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(err, "mine scan cancelled")
		}

		res.Probed++
		tokenOwner, err := c.OwnerOf(ctx, id)
		if err != nil || !heronft.SameAddress(tokenOwner, owner) {
			continue
		}

		token, err := e.assemble(ctx, c, id, tokenOwner, nil)
		if err != nil {
			log.Warn("skipping owned token", "tokenId", id, "error", err)
			continue
		}

		res.Tokens = append(res.Tokens, token)
		if progress != nil {
			progress(len(res.Tokens), balance.Int64())
		}
	}

	res.Exhausted = res.Probed == e.cfg.Width && balance.Cmp(big.NewInt(int64(len(res.Tokens)))) > 0
	if !e.cfg.StopEarly {
		res.Exhausted = true
	}
	return res, nil
}

// All returns every token with a positive listing price among ids
// [0, Width). The full range is always probed.
func (e *Engine) All(ctx context.Context, c Reader, progress Progress) (res Result, err error) {
	start := time.Now()
	res = Result{Mode: ModeAll, Width: e.cfg.Width, Tokens: []heronft.Token{}, Exhausted: true}
	defer func() {
		e.metrics.ObserveScan(string(ModeAll), res.Probed, len(res.Tokens), time.Since(start), err)
	}()

	for id := uint64(0); id < uint64(e.cfg.Width); id++ {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(err, "listing scan cancelled")
		}

		res.Probed++
		price, err := c.ListingPrice(ctx, id)
		if err != nil || !heronft.IsListed(price) {
			continue
		}

		owner, err := c.OwnerOf(ctx, id)
		if err != nil {
			continue
		}

		token, err := e.assemble(ctx, c, id, owner, price)
		if err != nil {
			log.Warn("skipping listed token", "tokenId", id, "error", err)
			continue
		}

		res.Tokens = append(res.Tokens, token)
		if progress != nil {
			progress(len(res.Tokens), -1)
		}
	}
	return res, nil
}

// assemble reads the attribute record and, unless already known, the
// listing price.
func (e *Engine) assemble(ctx context.Context, c Reader, id uint64, owner common.Address, price *big.Int) (heronft.Token, error) {
	hero, err := c.Hero(ctx, id)
	if err != nil {
		return heronft.Token{}, err
	}
	if price == nil {
		price, err = c.ListingPrice(ctx, id)
		if err != nil {
			return heronft.Token{}, err
		}
	}
	return heronft.Token{
		TokenID:      id,
		Owner:        owner,
		ListingPrice: price,
		Hero:         hero,
	}, nil
}
