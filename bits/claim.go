package bits

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// Claim pays holder every creator fee and reflection share owed across all
// creators and zeroes the claimable balance.
//
// Example:
//
// owed, _ := market.Claimable(holder)
//
// paid, _ := market.Claim(ctx, holder) // paid == owed
func (b *Bits) Claim(ctx context.Context, holder common.Address) (*uint256.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var amount *uint256.Int
	err := b.apply(ctx, func() ([]Payment, *uint256.Int, error) {
		var err error
		if amount, err = b.distributor.Claim(holder); err != nil {
			return nil, nil, err
		}
		if amount.Gt(b.reserve) {
			return nil, nil, fmt.Errorf("%w: paying %s from %s", ErrInsufficientReserve, amount.Dec(), b.reserve.Dec())
		}
		reserve := new(uint256.Int).Sub(b.reserve, amount)
		return []Payment{{To: holder, Amount: amount, Kind: PaymentClaim}}, reserve, nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", holder.Hex(), err)
	}

	b.logger.Info("claim",
		zap.String("holder", holder.Hex()),
		zap.String("amount", amount.Dec()))
	return amount, nil
}

// Claimable returns what Claim would pay holder against the committed state.
func (b *Bits) Claimable(holder common.Address) (*uint256.Int, error) {
	dist := b.Distributor()
	b.commitMu.RLock()
	defer b.commitMu.RUnlock()
	return dist.Claimable(holder)
}
