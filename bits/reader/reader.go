package reader

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	bmath "github.com/krazyTry/mellow-bits/bits/math"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

// Source exposes the committed state a preview is computed from.
type Source interface {
	SupplyOf(creator common.Address) *uint256.Int
	Params() shared.CurveParams
}

// Reader previews trades without touching state. It prices with the same
// functions the engine executes with, so a preview equals the executed quote
// as long as supply and params do not change in between.
type Reader struct {
	source Source
	logger *zap.Logger
}

func New(source Source, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{source: source, logger: logger}
}

// PreviewBuy returns raw cost, fees and total cost of buying amount bits of creator.
//
// Example:
//
// quote, _ := r.PreviewBuy(creator, uint256.NewInt(3))
//
// quote.Total // value to send with BuyBits
func (r *Reader) PreviewBuy(creator common.Address, amount *uint256.Int) (*shared.Quote, error) {
	quote, err := bmath.QuoteBuy(r.source.Params(), r.source.SupplyOf(creator), amount)
	if err != nil {
		return nil, fmt.Errorf("preview buy %s: %w", creator.Hex(), err)
	}
	r.logQuote(creator, quote)
	return quote, nil
}

// PreviewSell returns raw proceeds, fees and net proceeds of selling amount bits of creator.
func (r *Reader) PreviewSell(creator common.Address, amount *uint256.Int) (*shared.Quote, error) {
	quote, err := bmath.QuoteSell(r.source.Params(), r.source.SupplyOf(creator), amount)
	if err != nil {
		return nil, fmt.Errorf("preview sell %s: %w", creator.Hex(), err)
	}
	r.logQuote(creator, quote)
	return quote, nil
}

func (r *Reader) logQuote(creator common.Address, q *shared.Quote) {
	r.logger.Debug("quote",
		zap.Stringer("side", q.Side),
		zap.String("creator", creator.Hex()),
		zap.String("supply", q.Supply.Dec()),
		zap.String("amount", q.Amount.Dec()),
		zap.String("raw", q.Raw.Dec()),
		zap.String("creator_fee", q.CreatorFee.Dec()),
		zap.String("mellow_fee", q.MellowFee.Dec()),
		zap.String("reflection_fee", q.ReflectionFee.Dec()),
		zap.String("total", q.Total.Dec()))
}

type Request struct {
	Side    shared.Side
	Creator common.Address
	Amount  *uint256.Int
}

// Result carries the quote or the pricing error of one Request.
type Result struct {
	Request
	Quote *shared.Quote
	Err   error
}

// PreviewMany prices independent requests in parallel. Pricing errors are
// reported per result; only ctx cancellation fails the whole call.
func (r *Reader) PreviewMany(ctx context.Context, requests []Request) ([]Result, error) {
	results := make([]Result, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Request = req
			switch req.Side {
			case shared.SideBuy:
				results[i].Quote, results[i].Err = r.PreviewBuy(req.Creator, req.Amount)
			case shared.SideSell:
				results[i].Quote, results[i].Err = r.PreviewSell(req.Creator, req.Amount)
			default:
				results[i].Err = fmt.Errorf("unknown side %d", req.Side)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
