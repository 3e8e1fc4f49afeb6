package math

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/krazyTry/mellow-bits/bits/shared"
)

var ErrNegativeProceeds = errors.New("fees exceed sell proceeds")

// ApplyRate returns amount * rate / 1e18.
func ApplyRate(amount, rate *uint256.Int) (*uint256.Int, error) {
	if rate == nil {
		return new(uint256.Int), nil
	}
	return MulDiv(amount, rate, shared.Precision)
}

// SplitFees applies the three fee rates independently to raw (no compounding)
// and returns creator, mellow, reflection and their sum.
func SplitFees(raw *uint256.Int, params shared.CurveParams) (*uint256.Int, *uint256.Int, *uint256.Int, *uint256.Int, error) {
	creatorFee, err := ApplyRate(raw, params.CreatorFeePercent)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	mellowFee, err := ApplyRate(raw, params.MellowFeePercent)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	reflectionFee, err := ApplyRate(raw, params.ReflectionFeePercent)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	total, err := Add(creatorFee, mellowFee)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	total, err = Add(total, reflectionFee)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return creatorFee, mellowFee, reflectionFee, total, nil
}

// QuoteBuy prices buying amount units at the given supply, fees on top.
func QuoteBuy(params shared.CurveParams, supply, amount *uint256.Int) (*shared.Quote, error) {
	raw, err := GetBuyPrice(deltaOf(params), supply, amount)
	if err != nil {
		return nil, err
	}
	quote, err := newQuote(shared.SideBuy, params, supply, amount, raw)
	if err != nil {
		return nil, err
	}
	if quote.Total, err = Add(raw, quote.TotalFee); err != nil {
		return nil, err
	}
	return quote, nil
}

// QuoteSell prices selling amount units at the given supply, fees deducted.
func QuoteSell(params shared.CurveParams, supply, amount *uint256.Int) (*shared.Quote, error) {
	raw, err := GetSellPrice(deltaOf(params), supply, amount)
	if err != nil {
		return nil, err
	}
	quote, err := newQuote(shared.SideSell, params, supply, amount, raw)
	if err != nil {
		return nil, err
	}
	if quote.TotalFee.Gt(raw) {
		return nil, fmt.Errorf("%w: raw %s, fees %s", ErrNegativeProceeds, raw.Dec(), quote.TotalFee.Dec())
	}
	quote.Total = new(uint256.Int).Sub(raw, quote.TotalFee)
	return quote, nil
}

func newQuote(side shared.Side, params shared.CurveParams, supply, amount, raw *uint256.Int) (*shared.Quote, error) {
	creatorFee, mellowFee, reflectionFee, total, err := SplitFees(raw, params)
	if err != nil {
		return nil, err
	}
	return &shared.Quote{
		Side:          side,
		Supply:        new(uint256.Int).Set(supply),
		Amount:        new(uint256.Int).Set(amount),
		Raw:           raw,
		CreatorFee:    creatorFee,
		MellowFee:     mellowFee,
		ReflectionFee: reflectionFee,
		TotalFee:      total,
	}, nil
}

func deltaOf(params shared.CurveParams) *uint256.Int {
	if params.Delta == nil {
		return new(uint256.Int)
	}
	return params.Delta
}
