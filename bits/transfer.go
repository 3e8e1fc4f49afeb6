package bits

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	bmath "github.com/krazyTry/mellow-bits/bits/math"
)

type PaymentKind uint8

const (
	PaymentProceeds PaymentKind = iota // sell proceeds to the seller
	PaymentRefund                      // buy overpayment back to the buyer
	PaymentMellowFee
	PaymentClaim
)

func (k PaymentKind) String() string {
	switch k {
	case PaymentProceeds:
		return "proceeds"
	case PaymentRefund:
		return "refund"
	case PaymentMellowFee:
		return "mellow_fee"
	case PaymentClaim:
		return "claim"
	default:
		return "unknown"
	}
}

type Payment struct {
	To     common.Address
	Amount *uint256.Int
	Kind   PaymentKind
}

// PaymentSink moves value out of the market. Transfer must apply all payments
// or none of them.
type PaymentSink interface {
	Transfer(ctx context.Context, payments []Payment) error
}

// Vault is an in memory PaymentSink that credits address balances.
type Vault struct {
	mu       sync.RWMutex
	balances map[common.Address]*uint256.Int
	fail     error
	batches  int
}

func NewVault() *Vault {
	return &Vault{balances: make(map[common.Address]*uint256.Int)}
}

// Transfer credits every payment or, on error, none.
func (v *Vault) Transfer(ctx context.Context, payments []Payment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fail != nil {
		return v.fail
	}

	next := make(map[common.Address]*uint256.Int, len(payments))
	for _, p := range payments {
		cur, ok := next[p.To]
		if !ok {
			cur = valueOr(v.balances[p.To])
		}
		sum, err := bmath.Add(cur, p.Amount)
		if err != nil {
			return fmt.Errorf("vault credit %s: %w", p.To.Hex(), err)
		}
		next[p.To] = sum
	}
	for addr, balance := range next {
		v.balances[addr] = balance
	}
	v.batches++
	return nil
}

// BalanceOf returns everything paid to addr so far.
func (v *Vault) BalanceOf(addr common.Address) *uint256.Int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return new(uint256.Int).Set(valueOr(v.balances[addr]))
}

// Batches returns the number of successful Transfer calls.
func (v *Vault) Batches() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.batches
}

// FailWith makes every following Transfer return err. A nil err clears it.
func (v *Vault) FailWith(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fail = err
}

var zero = new(uint256.Int)

func valueOr(x *uint256.Int) *uint256.Int {
	if x == nil {
		return zero
	}
	return x
}
