package decimal_math

import (
	"errors"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of the native currency and of every
// fixed point rate (delta, fee percents).
const EtherDecimals = 18

var (
	ErrNegative  = errors.New("value cannot be negative")
	ErrPrecision = errors.New("value has more decimals than supported")
	ErrOverflow  = errors.New("value overflows uint256")
)

func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}
