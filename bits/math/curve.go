package math

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var ErrInsufficientSupply = errors.New("insufficient supply")

var (
	one   = uint256.NewInt(1)
	two   = uint256.NewInt(2)
	three = uint256.NewInt(3)
)

// SumOfSquares returns S(k) = 0² + 1² + ... + (k-1)² = k(k-1)(2k-1)/6.
//
// The factors 2 and 3 are divided out of the terms before multiplying, so the
// result is exact and only overflows when S(k) itself does not fit in 256 bits.
func SumOfSquares(k *uint256.Int) (*uint256.Int, error) {
	if k.IsZero() {
		return new(uint256.Int), nil
	}

	a := new(uint256.Int).Set(k)
	b := new(uint256.Int).Sub(k, one)
	c, err := Mul(k, two)
	if err != nil {
		return nil, err
	}
	c.Sub(c, one)

	// one of k, k-1 is even
	if a[0]&1 == 0 {
		a.Rsh(a, 1)
	} else {
		b.Rsh(b, 1)
	}

	// one of k, k-1, 2k-1 is a multiple of 3
	switch {
	case new(uint256.Int).Mod(a, three).IsZero():
		a.Div(a, three)
	case new(uint256.Int).Mod(b, three).IsZero():
		b.Div(b, three)
	default:
		c.Div(c, three)
	}

	ab, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Mul(ab, c)
}

// GetBuyPrice is the raw cost of units supply..supply+amount-1:
// delta * (S(supply+amount) - S(supply)).
func GetBuyPrice(delta, supply, amount *uint256.Int) (*uint256.Int, error) {
	end, err := Add(supply, amount)
	if err != nil {
		return nil, err
	}
	return rangeCost(delta, supply, end)
}

// GetSellPrice is the raw proceeds of burning the top amount units:
// delta * (S(supply) - S(supply-amount)).
func GetSellPrice(delta, supply, amount *uint256.Int) (*uint256.Int, error) {
	if amount.Gt(supply) {
		return nil, fmt.Errorf("%w: selling %s of %s", ErrInsufficientSupply, amount.Dec(), supply.Dec())
	}
	start := new(uint256.Int).Sub(supply, amount)
	return rangeCost(delta, start, supply)
}

func rangeCost(delta, from, to *uint256.Int) (*uint256.Int, error) {
	if from.Eq(to) || delta.IsZero() {
		return new(uint256.Int), nil
	}
	upper, err := SumOfSquares(to)
	if err != nil {
		return nil, err
	}
	lower, err := SumOfSquares(from)
	if err != nil {
		return nil, err
	}
	diff, err := Sub(upper, lower)
	if err != nil {
		return nil, err
	}
	return Mul(delta, diff)
}
