package mellow

import (
	"github.com/krazyTry/mellow-bits/bits"
	"github.com/krazyTry/mellow-bits/bits/distributor"
	"github.com/krazyTry/mellow-bits/bits/ledger"
	bmath "github.com/krazyTry/mellow-bits/bits/math"
	"github.com/krazyTry/mellow-bits/bits/reader"
	"github.com/krazyTry/mellow-bits/config"
)

// NewMarket creates a new bits market.
//
// Example:
//
// market := NewMarket(owner, bits.WithParams(params))
//
// cost, _ := market.GetBuyPriceAfterFee(creator, uint256.NewInt(1))
//
// market.BuyBits(ctx, buyer, creator, uint256.NewInt(1), cost)
var NewMarket = bits.New

// NewVault creates an in memory payment sink.
var NewVault = bits.NewVault

// NewDistributor creates a fee distributor over a market ledger.
//
// Example:
//
// market.SetFeeDistributor(ctx, owner, NewDistributor(market.Ledger(), logger))
var NewDistributor = distributor.New

// NewReader creates a fee reader over a market.
//
// Example:
//
// market.SetFeeReader(ctx, owner, NewReader(market, logger))
var NewReader = reader.New

// LoadConfig reads deployment parameters.
var LoadConfig = config.LoadConfig

var (
	ErrArithmetic          = bmath.ErrArithmetic
	ErrInsufficientSupply  = bmath.ErrInsufficientSupply
	ErrNegativeProceeds    = bmath.ErrNegativeProceeds
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	ErrNothingToClaim      = distributor.ErrNothingToClaim
	ErrInsufficientPayment = bits.ErrInsufficientPayment
	ErrInsufficientReserve = bits.ErrInsufficientReserve
	ErrUnauthorized        = bits.ErrUnauthorized
	ErrInvalidAmount       = bits.ErrInvalidAmount
)
