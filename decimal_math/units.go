package decimal_math

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ParseUnits converts a human readable amount into base units.
//
// Example:
//
// ParseUnits("0.001", 18) // 1000000000000000
func ParseUnits(s string, decimals int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("parse %q: %w", s, ErrNegative)
	}

	scaled := d.Mul(Pow10(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("parse %q: %w", s, ErrPrecision)
	}

	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow {
		return nil, fmt.Errorf("parse %q: %w", s, ErrOverflow)
	}
	return v, nil
}

// ParseEther is ParseUnits with 18 decimals.
func ParseEther(s string) (*uint256.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(x *uint256.Int, decimals int32) string {
	if x == nil {
		return "0"
	}
	return decimal.NewFromBigInt(x.ToBig(), -decimals).String()
}

// FormatEther is FormatUnits with 18 decimals.
func FormatEther(x *uint256.Int) string {
	return FormatUnits(x, EtherDecimals)
}

// Percent renders an 18 decimal rate as a percentage, 0.04e18 -> "4%".
func Percent(rate *uint256.Int) string {
	return FormatUnits(rate, EtherDecimals-2) + "%"
}
