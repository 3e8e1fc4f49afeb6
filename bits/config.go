package bits

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/krazyTry/mellow-bits/bits/ledger"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

// SetDeltaAmount sets the curve steepness used by every following trade.
func (b *Bits) SetDeltaAmount(ctx context.Context, caller common.Address, delta *uint256.Int) error {
	return b.setParam(ctx, caller, shared.ActionSetDeltaAmount, delta, func(p *shared.CurveParams, v *uint256.Int) {
		p.Delta = v
	})
}

// SetCreatorFeePercent sets the creator fee rate, 0.04e18 == 4%.
func (b *Bits) SetCreatorFeePercent(ctx context.Context, caller common.Address, rate *uint256.Int) error {
	return b.setParam(ctx, caller, shared.ActionSetCreatorFeePercent, rate, func(p *shared.CurveParams, v *uint256.Int) {
		p.CreatorFeePercent = v
	})
}

func (b *Bits) SetMellowFeePercent(ctx context.Context, caller common.Address, rate *uint256.Int) error {
	return b.setParam(ctx, caller, shared.ActionSetMellowFeePercent, rate, func(p *shared.CurveParams, v *uint256.Int) {
		p.MellowFeePercent = v
	})
}

func (b *Bits) SetReflectionFeePercent(ctx context.Context, caller common.Address, rate *uint256.Int) error {
	return b.setParam(ctx, caller, shared.ActionSetReflectionFeePercent, rate, func(p *shared.CurveParams, v *uint256.Int) {
		p.ReflectionFeePercent = v
	})
}

// SetMellowFeeAddress sets the treasury the protocol fee is paid to.
func (b *Bits) SetMellowFeeAddress(ctx context.Context, caller common.Address, treasury common.Address) error {
	if err := b.auth.Authorize(ctx, caller, shared.ActionSetMellowFeeAddress); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.paramsMu.Lock()
	b.params.MellowFeeAddress = treasury
	b.paramsMu.Unlock()

	b.logger.Info("param set",
		zap.String("action", string(shared.ActionSetMellowFeeAddress)),
		zap.String("value", treasury.Hex()))
	return nil
}

// SetFeeDistributor routes creator and reflection fees to dist and installs it
// as the ledger hook. Balances owed by the previous distributor stay with it.
func (b *Bits) SetFeeDistributor(ctx context.Context, caller common.Address, dist FeeDistributor) error {
	if err := b.auth.Authorize(ctx, caller, shared.ActionSetFeeDistributor); err != nil {
		return err
	}
	if dist == nil {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.paramsMu.Lock()
	b.distributor = dist
	b.paramsMu.Unlock()
	b.ledger.SetHook(dist)

	b.logger.Info("fee distributor set")
	return nil
}

// SetFeeReader replaces the reader answering price queries.
func (b *Bits) SetFeeReader(ctx context.Context, caller common.Address, reader FeeReader) error {
	if err := b.auth.Authorize(ctx, caller, shared.ActionSetFeeReader); err != nil {
		return err
	}
	if reader == nil {
		return ErrZeroAddress
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.paramsMu.Lock()
	b.reader = reader
	b.paramsMu.Unlock()

	b.logger.Info("fee reader set")
	return nil
}

// Ledger exposes the bits ledger, for wiring a replacement distributor.
func (b *Bits) Ledger() *ledger.Ledger {
	return b.ledger
}

func (b *Bits) setParam(
	ctx context.Context,
	caller common.Address,
	action shared.Action,
	value *uint256.Int,
	set func(*shared.CurveParams, *uint256.Int),
) error {
	if err := b.auth.Authorize(ctx, caller, action); err != nil {
		return err
	}
	v := new(uint256.Int).Set(valueOr(value))

	b.mu.Lock()
	defer b.mu.Unlock()

	b.paramsMu.Lock()
	set(&b.params, v)
	b.paramsMu.Unlock()

	b.logger.Info("param set",
		zap.String("action", string(action)),
		zap.String("value", v.Dec()))
	return nil
}
