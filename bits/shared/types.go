package shared

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	// PrecisionDecimals is the scale of every fixed point value: rates, delta, accumulators.
	PrecisionDecimals = 18
)

// Precision is 1e18, the fixed point unit.
var Precision = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(PrecisionDecimals))

type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Action identifies an administrative call for the authorization gate.
type Action string

const (
	ActionSetDeltaAmount          Action = "setDeltaAmount"
	ActionSetCreatorFeePercent    Action = "setCreatorFeePercent"
	ActionSetMellowFeePercent     Action = "setMellowFeePercent"
	ActionSetReflectionFeePercent Action = "setReflectionFeePercent"
	ActionSetMellowFeeAddress     Action = "setMellowFeeAddress"
	ActionSetFeeDistributor       Action = "setFeeDistributor"
	ActionSetFeeReader            Action = "setFeeReader"
)

// CurveParams is the process wide pricing configuration. The zero value prices
// everything at zero with no fees.
type CurveParams struct {
	// Delta is the curve steepness in wei per unit squared.
	Delta *uint256.Int
	// Fee rates are fractions of Precision, 0.04e18 == 4%.
	CreatorFeePercent    *uint256.Int
	MellowFeePercent     *uint256.Int
	ReflectionFeePercent *uint256.Int
	// MellowFeeAddress is the protocol treasury.
	MellowFeeAddress common.Address
}

// Clone returns a deep copy with nil fields replaced by zero.
func (p CurveParams) Clone() CurveParams {
	return CurveParams{
		Delta:                cloneOrZero(p.Delta),
		CreatorFeePercent:    cloneOrZero(p.CreatorFeePercent),
		MellowFeePercent:     cloneOrZero(p.MellowFeePercent),
		ReflectionFeePercent: cloneOrZero(p.ReflectionFeePercent),
		MellowFeeAddress:     p.MellowFeeAddress,
	}
}

func cloneOrZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}

// Quote is the price breakdown of a batched buy or sell.
//
// For a buy Total = Raw + TotalFee, for a sell Total = Raw - TotalFee.
type Quote struct {
	Side          Side
	Supply        *uint256.Int // supply before the trade
	Amount        *uint256.Int
	Raw           *uint256.Int
	CreatorFee    *uint256.Int
	MellowFee     *uint256.Int
	ReflectionFee *uint256.Int
	TotalFee      *uint256.Int
	Total         *uint256.Int
}
