package math

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ErrArithmetic is returned for any overflow, underflow or division by zero.
// Results never wrap silently.
var ErrArithmetic = errors.New("arithmetic error")

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("%w: %s + %s", ErrArithmetic, a.Dec(), b.Dec())
	}
	return z, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, fmt.Errorf("%w: %s - %s", ErrArithmetic, a.Dec(), b.Dec())
	}
	return z, nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, fmt.Errorf("%w: %s * %s", ErrArithmetic, a.Dec(), b.Dec())
	}
	return z, nil
}

func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, fmt.Errorf("%w: division by zero", ErrArithmetic)
	}
	return new(uint256.Int).Div(a, b), nil
}
