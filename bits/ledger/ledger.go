// Package ledger keeps per creator supply and per (holder, creator) balances.
//
// Writes are staged until Commit. SupplyOf, BalanceOf and Holders read the
// committed state; the Pending variants include staged writes and serve the
// trade in progress.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"

	bmath "github.com/krazyTry/mellow-bits/bits/math"
	"github.com/krazyTry/mellow-bits/bits/shared"
	"github.com/krazyTry/mellow-bits/u128"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// BalanceHook is called before a position balance changes, with the balance
// the position holds at that moment.
type BalanceHook interface {
	BeforeBalanceChange(holder, creator common.Address, balance *uint256.Int) error
}

type positionKey struct {
	holder  common.Address
	creator common.Address
}

type Ledger struct {
	mu       sync.RWMutex
	supply   *shared.Overlay[common.Address, binary.Uint128]
	balances *shared.Overlay[positionKey, binary.Uint128]
	// holders per creator in first purchase order; zeroed positions stay listed
	holders map[common.Address][]common.Address
	// positions opened since the last Commit
	opened []positionKey

	hook    BalanceHook
	journal []func()
}

func New() *Ledger {
	return &Ledger{
		supply:   shared.NewOverlay[common.Address, binary.Uint128](),
		balances: shared.NewOverlay[positionKey, binary.Uint128](),
		holders:  make(map[common.Address][]common.Address),
	}
}

// SetHook installs the hook run by Credit and Debit. A nil hook disables it.
func (l *Ledger) SetHook(hook BalanceHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hook = hook
}

// SupplyOf returns the number of bits issued against creator.
func (l *Ledger) SupplyOf(creator common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, _ := l.supply.Get(creator)
	return u128.ToUint256(v)
}

// BalanceOf returns the bits holder owns on creator's curve.
func (l *Ledger) BalanceOf(holder, creator common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, _ := l.balances.Get(positionKey{holder, creator})
	return u128.ToUint256(v)
}

func (l *Ledger) PendingSupplyOf(creator common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, _ := l.supply.Pending(creator)
	return u128.ToUint256(v)
}

func (l *Ledger) PendingBalanceOf(holder, creator common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, _ := l.balances.Pending(positionKey{holder, creator})
	return u128.ToUint256(v)
}

// Holders returns every holder that ever bought creator's bits.
func (l *Ledger) Holders(creator common.Address) []common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]common.Address, len(l.holders[creator]))
	copy(out, l.holders[creator])
	return out
}

// Credit mints amount bits of creator to holder.
func (l *Ledger) Credit(holder, creator common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	key := positionKey{holder, creator}
	balance, supply, hook := l.pending(key)

	newBalance, err := add128(balance, amount)
	if err != nil {
		return fmt.Errorf("credit %s/%s: %w", holder.Hex(), creator.Hex(), err)
	}
	newSupply, err := add128(supply, amount)
	if err != nil {
		return fmt.Errorf("credit supply of %s: %w", creator.Hex(), err)
	}

	if hook != nil {
		if err := hook.BeforeBalanceChange(holder, creator, balance); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.setBalance(key, newBalance)
	l.setSupply(creator, newSupply)
	return nil
}

// Debit burns amount bits of creator from holder.
func (l *Ledger) Debit(holder, creator common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	key := positionKey{holder, creator}
	balance, supply, hook := l.pending(key)

	if amount.Gt(balance) {
		return fmt.Errorf("%w: %s holds %s of %s, debit %s",
			ErrInsufficientBalance, holder.Hex(), balance.Dec(), creator.Hex(), amount.Dec())
	}
	newBalance := new(uint256.Int).Sub(balance, amount)
	newSupply, err := bmath.Sub(supply, amount)
	if err != nil {
		return fmt.Errorf("debit supply of %s: %w", creator.Hex(), err)
	}

	if hook != nil {
		if err := hook.BeforeBalanceChange(holder, creator, balance); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.setBalance(key, mustU128(newBalance))
	l.setSupply(creator, mustU128(newSupply))
	return nil
}

func (l *Ledger) pending(key positionKey) (balance, supply *uint256.Int, hook BalanceHook) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, _ := l.balances.Pending(key)
	s, _ := l.supply.Pending(key.creator)
	return u128.ToUint256(b), u128.ToUint256(s), l.hook
}

func (l *Ledger) setBalance(key positionKey, v binary.Uint128) {
	if _, ok := l.balances.Pending(key); !ok {
		n := len(l.opened)
		l.opened = append(l.opened, key)
		l.journal = append(l.journal, func() { l.opened = l.opened[:n] })
	}
	l.journal = append(l.journal, l.balances.Set(key, v))
}

func (l *Ledger) setSupply(creator common.Address, v binary.Uint128) {
	l.journal = append(l.journal, l.supply.Set(creator, v))
}

func add128(a, b *uint256.Int) (binary.Uint128, error) {
	sum, err := bmath.Add(a, b)
	if err != nil {
		return binary.Uint128{}, err
	}
	v, err := u128.FromUint256(sum)
	if err != nil {
		return binary.Uint128{}, fmt.Errorf("%w: %v", bmath.ErrArithmetic, err)
	}
	return v, nil
}

// mustU128 narrows values already bounded by an existing u128.
func mustU128(x *uint256.Int) binary.Uint128 {
	v, err := u128.FromUint256(x)
	if err != nil {
		panic(err)
	}
	return v
}
