package bits

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/krazyTry/mellow-bits/bits/ledger"
	bmath "github.com/krazyTry/mellow-bits/bits/math"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

// ErrInsufficientReserve is returned when the market does not hold enough
// value for a payout, which can happen after delta was raised.
var ErrInsufficientReserve = errors.New("insufficient reserve")

// Receipt describes a committed trade.
type Receipt struct {
	Trader        common.Address
	Creator       common.Address
	Side          shared.Side
	Amount        *uint256.Int
	Raw           *uint256.Int
	CreatorFee    *uint256.Int
	MellowFee     *uint256.Int
	ReflectionFee *uint256.Int
	// Total is the cost paid on a buy and the net proceeds on a sell.
	Total       *uint256.Int
	Refund      *uint256.Int
	SupplyAfter *uint256.Int
	Sequence    uint64
}

// BuyBits mints amount bits of creator to buyer against payment.
//
// payment must cover raw cost plus fees; the excess is refunded to buyer in
// the same payout batch as the protocol fee.
//
// Example:
//
// quote, _ := market.PreviewBuy(creator, uint256.NewInt(3))
//
// receipt, _ := market.BuyBits(ctx, buyer, creator, uint256.NewInt(3), quote.Total)
func (b *Bits) BuyBits(
	ctx context.Context,
	buyer common.Address,
	creator common.Address,
	amount *uint256.Int,
	payment *uint256.Int,
) (*Receipt, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	payment = valueOr(payment)

	b.mu.Lock()
	defer b.mu.Unlock()

	params := b.Params()
	quote, err := bmath.QuoteBuy(params, b.ledger.SupplyOf(creator), amount)
	if err != nil {
		return nil, fmt.Errorf("buy %s bits of %s: %w", amount.Dec(), creator.Hex(), err)
	}
	if payment.Lt(quote.Total) {
		return nil, fmt.Errorf("%w: cost %s, paid %s", ErrInsufficientPayment, quote.Total.Dec(), payment.Dec())
	}
	refund := new(uint256.Int).Sub(payment, quote.Total)

	// the market keeps everything but the protocol fee
	reserve, err := bmath.Add(b.reserve, new(uint256.Int).Sub(quote.Total, quote.MellowFee))
	if err != nil {
		return nil, err
	}

	err = b.apply(ctx, func() ([]Payment, *uint256.Int, error) {
		if err := b.ledger.Credit(buyer, creator, amount); err != nil {
			return nil, nil, err
		}
		if err := b.routeFees(creator, quote); err != nil {
			return nil, nil, err
		}
		return compact(
			Payment{To: params.MellowFeeAddress, Amount: quote.MellowFee, Kind: PaymentMellowFee},
			Payment{To: buyer, Amount: refund, Kind: PaymentRefund},
		), reserve, nil
	})
	if err != nil {
		return nil, fmt.Errorf("buy %s bits of %s: %w", amount.Dec(), creator.Hex(), err)
	}
	return b.receipt(buyer, creator, quote, refund), nil
}

// SellBits burns amount bits of creator from seller and pays the proceeds net of fees.
func (b *Bits) SellBits(
	ctx context.Context,
	seller common.Address,
	creator common.Address,
	amount *uint256.Int,
) (*Receipt, error) {
	if amount == nil || amount.IsZero() {
		return nil, ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if balance := b.ledger.BalanceOf(seller, creator); amount.Gt(balance) {
		return nil, fmt.Errorf("%w: %s holds %s bits of %s, selling %s",
			ledger.ErrInsufficientBalance, seller.Hex(), balance.Dec(), creator.Hex(), amount.Dec())
	}

	params := b.Params()
	quote, err := bmath.QuoteSell(params, b.ledger.SupplyOf(creator), amount)
	if err != nil {
		return nil, fmt.Errorf("sell %s bits of %s: %w", amount.Dec(), creator.Hex(), err)
	}

	// creator and reflection fees stay in the market as claimable balances
	outflow, err := bmath.Add(quote.Total, quote.MellowFee)
	if err != nil {
		return nil, err
	}
	if outflow.Gt(b.reserve) {
		return nil, fmt.Errorf("%w: paying %s from %s", ErrInsufficientReserve, outflow.Dec(), b.reserve.Dec())
	}
	reserve := new(uint256.Int).Sub(b.reserve, outflow)

	err = b.apply(ctx, func() ([]Payment, *uint256.Int, error) {
		if err := b.ledger.Debit(seller, creator, amount); err != nil {
			return nil, nil, err
		}
		if err := b.routeFees(creator, quote); err != nil {
			return nil, nil, err
		}
		return compact(
			Payment{To: seller, Amount: quote.Total, Kind: PaymentProceeds},
			Payment{To: params.MellowFeeAddress, Amount: quote.MellowFee, Kind: PaymentMellowFee},
		), reserve, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sell %s bits of %s: %w", amount.Dec(), creator.Hex(), err)
	}
	return b.receipt(seller, creator, quote, new(uint256.Int)), nil
}

// routeFees credits the creator fee and accrues reflection. It runs after the
// ledger mutation, so reflection is shared by the post trade supply.
func (b *Bits) routeFees(creator common.Address, quote *shared.Quote) error {
	if err := b.distributor.CreditCreatorFee(creator, quote.CreatorFee); err != nil {
		return fmt.Errorf("credit creator fee: %w", err)
	}
	if err := b.distributor.Accrue(creator, quote.ReflectionFee); err != nil {
		return fmt.Errorf("accrue reflection: %w", err)
	}
	return nil
}

// apply runs mutate against staged ledger and distributor state and sends the
// payments it returns. Readers keep seeing the previous state until the
// payout succeeds; then the staged writes and the reserve mutate returned are
// published together. Any failure discards the staged writes.
func (b *Bits) apply(ctx context.Context, mutate func() ([]Payment, *uint256.Int, error)) error {
	ledgerID := b.ledger.Snapshot()
	distID := b.distributor.Snapshot()

	payments, reserve, err := mutate()
	if err == nil && len(payments) > 0 {
		if err = b.sink.Transfer(ctx, payments); err != nil {
			err = fmt.Errorf("transfer: %w", err)
		}
	}
	if err != nil {
		b.distributor.RevertToSnapshot(distID)
		b.ledger.RevertToSnapshot(ledgerID)
		return err
	}

	b.commitMu.Lock()
	defer b.commitMu.Unlock()
	b.distributor.Commit()
	b.ledger.Commit()
	b.reserve = reserve
	return nil
}

func (b *Bits) receipt(trader, creator common.Address, quote *shared.Quote, refund *uint256.Int) *Receipt {
	b.sequence++
	r := &Receipt{
		Trader:        trader,
		Creator:       creator,
		Side:          quote.Side,
		Amount:        quote.Amount,
		Raw:           quote.Raw,
		CreatorFee:    quote.CreatorFee,
		MellowFee:     quote.MellowFee,
		ReflectionFee: quote.ReflectionFee,
		Total:         quote.Total,
		Refund:        refund,
		SupplyAfter:   b.ledger.SupplyOf(creator),
		Sequence:      b.sequence,
	}

	b.logger.Info("trade",
		zap.Uint64("sequence", r.Sequence),
		zap.Stringer("side", r.Side),
		zap.String("trader", trader.Hex()),
		zap.String("creator", creator.Hex()),
		zap.String("amount", r.Amount.Dec()),
		zap.String("raw", r.Raw.Dec()),
		zap.String("total", r.Total.Dec()),
		zap.String("supply_after", r.SupplyAfter.Dec()))
	return r
}

// compact drops zero value payments.
func compact(payments ...Payment) []Payment {
	out := payments[:0]
	for _, p := range payments {
		if p.Amount != nil && !p.Amount.IsZero() {
			out = append(out, p)
		}
	}
	return out
}
