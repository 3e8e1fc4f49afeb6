// Package distributor accrues reflection fees with a cumulative fee per share
// accumulator. Accrual and checkpoint are O(1) regardless of holder count.
//
// Claimable balances are kept scaled by shared.Precision and only truncated to
// whole units when paid, so checkpoints never drop a fractional share.
// Like the ledger, writes are staged until Commit and the read accessors see
// the committed state.
package distributor

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	bmath "github.com/krazyTry/mellow-bits/bits/math"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

var ErrNothingToClaim = errors.New("nothing to claim")

// Ledger is the read side of the bits ledger. Balance changes in progress are
// read through the Pending methods, Claimable reads BalanceOf.
type Ledger interface {
	BalanceOf(holder, creator common.Address) *uint256.Int
	PendingSupplyOf(creator common.Address) *uint256.Int
	PendingBalanceOf(holder, creator common.Address) *uint256.Int
}

type positionKey struct {
	holder  common.Address
	creator common.Address
}

type total uint8

const (
	totalCollected total = iota
	totalClaimed
)

type Distributor struct {
	mu     sync.RWMutex
	ledger Ledger
	logger *zap.Logger

	// cumulative reflection per bit, scaled by shared.Precision
	cumulative  *shared.Overlay[common.Address, *uint256.Int]
	checkpoints *shared.Overlay[positionKey, *uint256.Int]
	// reflection received while the creator had no supply
	unaccrued *shared.Overlay[common.Address, *uint256.Int]
	// owed per holder, scaled by shared.Precision
	claimable *shared.Overlay[common.Address, *uint256.Int]
	// creators each holder has a checkpoint on
	positions *shared.Overlay[common.Address, []common.Address]
	totals    *shared.Overlay[total, *uint256.Int]

	undo []func()
}

func New(ledger Ledger, logger *zap.Logger) *Distributor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Distributor{
		ledger:      ledger,
		logger:      logger,
		cumulative:  shared.NewOverlay[common.Address, *uint256.Int](),
		checkpoints: shared.NewOverlay[positionKey, *uint256.Int](),
		unaccrued:   shared.NewOverlay[common.Address, *uint256.Int](),
		claimable:   shared.NewOverlay[common.Address, *uint256.Int](),
		positions:   shared.NewOverlay[common.Address, []common.Address](),
		totals:      shared.NewOverlay[total, *uint256.Int](),
	}
}

// Accrue distributes amount over the current supply of creator.
//
// With zero supply the amount is parked in the unaccrued bucket of creator and
// released together with the next accrual that finds holders.
func (d *Distributor) Accrue(creator common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	supply := d.ledger.PendingSupplyOf(creator)

	d.mu.Lock()
	defer d.mu.Unlock()

	collected, err := bmath.Add(pending(d.totals, totalCollected), amount)
	if err != nil {
		return err
	}
	parked, err := bmath.Add(pending(d.unaccrued, creator), amount)
	if err != nil {
		return err
	}

	if supply.IsZero() {
		d.journal(d.totals.Set(totalCollected, collected))
		d.journal(d.unaccrued.Set(creator, parked))
		d.logger.Debug("reflection parked, creator has no supply",
			zap.String("creator", creator.Hex()),
			zap.String("amount", amount.Dec()),
			zap.String("unaccrued", parked.Dec()))
		return nil
	}

	inc, err := bmath.MulDiv(parked, shared.Precision, supply)
	if err != nil {
		return err
	}
	cumulative, err := bmath.Add(pending(d.cumulative, creator), inc)
	if err != nil {
		return err
	}

	d.journal(d.totals.Set(totalCollected, collected))
	d.journal(d.unaccrued.Set(creator, new(uint256.Int)))
	d.journal(d.cumulative.Set(creator, cumulative))

	d.logger.Debug("reflection accrued",
		zap.String("creator", creator.Hex()),
		zap.String("amount", parked.Dec()),
		zap.String("supply", supply.Dec()),
		zap.String("cumulative_fee_per_share", cumulative.Dec()))
	return nil
}

// BeforeBalanceChange checkpoints the position with its balance prior to the change.
func (d *Distributor) BeforeBalanceChange(holder, creator common.Address, balance *uint256.Int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.checkpoint(holder, creator, balance)
	return err
}

// Checkpoint moves the reflection a position earned since its last checkpoint
// into the holder's claimable balance. It returns the whole units earned; the
// fraction stays in the claimable balance.
func (d *Distributor) Checkpoint(holder, creator common.Address) (*uint256.Int, error) {
	balance := d.ledger.PendingBalanceOf(holder, creator)

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checkpoint(holder, creator, balance)
}

func (d *Distributor) checkpoint(holder, creator common.Address, balance *uint256.Int) (*uint256.Int, error) {
	key := positionKey{holder, creator}
	cumulative := pending(d.cumulative, creator)
	last, seen := d.checkpoints.Pending(key)

	diff, err := bmath.Sub(cumulative, valueOr(last))
	if err != nil {
		return nil, err
	}
	earned, err := bmath.Mul(balance, diff)
	if err != nil {
		return nil, err
	}
	claimable, err := bmath.Add(pending(d.claimable, holder), earned)
	if err != nil {
		return nil, err
	}

	if !seen {
		positions, _ := d.positions.Pending(holder)
		d.journal(d.positions.Set(holder, append(slices.Clone(positions), creator)))
	}
	d.journal(d.checkpoints.Set(key, cumulative))
	if !earned.IsZero() {
		d.journal(d.claimable.Set(holder, claimable))
	}
	return new(uint256.Int).Div(earned, shared.Precision), nil
}

// CreditCreatorFee adds a creator fee to the creator's claimable balance.
func (d *Distributor) CreditCreatorFee(creator common.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	scaled, err := bmath.Mul(amount, shared.Precision)
	if err != nil {
		return err
	}
	claimable, err := bmath.Add(pending(d.claimable, creator), scaled)
	if err != nil {
		return err
	}
	d.journal(d.claimable.Set(creator, claimable))
	return nil
}

// Claim checkpoints every position of holder and pays out the whole units of
// its claimable balance. The fraction below one unit stays claimable.
func (d *Distributor) Claim(holder common.Address) (*uint256.Int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	positions, _ := d.positions.Pending(holder)
	for _, creator := range positions {
		if _, err := d.checkpoint(holder, creator, d.ledger.PendingBalanceOf(holder, creator)); err != nil {
			return nil, fmt.Errorf("checkpoint %s: %w", creator.Hex(), err)
		}
	}

	owed := pending(d.claimable, holder)
	amount, remainder := new(uint256.Int).DivMod(owed, shared.Precision, new(uint256.Int))
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClaim, holder.Hex())
	}
	claimed, err := bmath.Add(pending(d.totals, totalClaimed), amount)
	if err != nil {
		return nil, err
	}
	d.journal(d.claimable.Set(holder, remainder))
	d.journal(d.totals.Set(totalClaimed, claimed))
	return amount, nil
}

// Claimable returns what Claim would pay holder against the committed state.
func (d *Distributor) Claimable(holder common.Address) (*uint256.Int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	owed := committed(d.claimable, holder)
	positions, _ := d.positions.Get(holder)
	for _, creator := range positions {
		diff, err := bmath.Sub(committed(d.cumulative, creator), committed(d.checkpoints, positionKey{holder, creator}))
		if err != nil {
			return nil, err
		}
		earned, err := bmath.Mul(d.ledger.BalanceOf(holder, creator), diff)
		if err != nil {
			return nil, err
		}
		if owed, err = bmath.Add(owed, earned); err != nil {
			return nil, err
		}
	}
	return new(uint256.Int).Div(owed, shared.Precision), nil
}

// CumulativeFeePerShare returns the accumulator of creator, scaled by 1e18.
func (d *Distributor) CumulativeFeePerShare(creator common.Address) *uint256.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return new(uint256.Int).Set(committed(d.cumulative, creator))
}

// LastCheckpoint returns the accumulator value recorded for the position.
func (d *Distributor) LastCheckpoint(holder, creator common.Address) *uint256.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return new(uint256.Int).Set(committed(d.checkpoints, positionKey{holder, creator}))
}

func (d *Distributor) Unaccrued(creator common.Address) *uint256.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return new(uint256.Int).Set(committed(d.unaccrued, creator))
}

// TotalCollected is every reflection amount ever passed to Accrue.
func (d *Distributor) TotalCollected() *uint256.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return new(uint256.Int).Set(committed(d.totals, totalCollected))
}

func (d *Distributor) TotalClaimed() *uint256.Int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return new(uint256.Int).Set(committed(d.totals, totalClaimed))
}

var zero = new(uint256.Int)

func valueOr(x *uint256.Int) *uint256.Int {
	if x == nil {
		return zero
	}
	return x
}

func pending[K comparable](o *shared.Overlay[K, *uint256.Int], key K) *uint256.Int {
	v, _ := o.Pending(key)
	return valueOr(v)
}

func committed[K comparable](o *shared.Overlay[K, *uint256.Int], key K) *uint256.Int {
	v, _ := o.Get(key)
	return valueOr(v)
}
