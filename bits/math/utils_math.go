package math

import (
	"fmt"

	"github.com/holiman/uint256"
)

// MulDiv computes x*y/denominator with a 512 bit intermediate product,
// truncating toward zero. Only a quotient wider than 256 bits overflows.
func MulDiv(x, y, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, fmt.Errorf("%w: MulDiv division by zero", ErrArithmetic)
	}
	if x.IsZero() || y.IsZero() {
		return new(uint256.Int), nil
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, denominator)
	if overflow {
		return nil, fmt.Errorf("%w: MulDiv(%s, %s, %s)", ErrArithmetic, x.Dec(), y.Dec(), denominator.Dec())
	}
	return z, nil
}
