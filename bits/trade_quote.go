package bits

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/krazyTry/mellow-bits/bits/shared"
)

// PreviewBuy returns the full price breakdown of buying amount bits of creator.
func (b *Bits) PreviewBuy(creator common.Address, amount *uint256.Int) (*shared.Quote, error) {
	return b.feeReader().PreviewBuy(creator, valueOr(amount))
}

// PreviewSell returns the full price breakdown of selling amount bits of creator.
func (b *Bits) PreviewSell(creator common.Address, amount *uint256.Int) (*shared.Quote, error) {
	return b.feeReader().PreviewSell(creator, valueOr(amount))
}

// GetBuyPrice is the raw curve cost of buying amount bits, before fees.
func (b *Bits) GetBuyPrice(creator common.Address, amount *uint256.Int) (*uint256.Int, error) {
	quote, err := b.PreviewBuy(creator, amount)
	if err != nil {
		return nil, err
	}
	return quote.Raw, nil
}

// GetSellPrice is the raw curve proceeds of selling amount bits, before fees.
func (b *Bits) GetSellPrice(creator common.Address, amount *uint256.Int) (*uint256.Int, error) {
	quote, err := b.PreviewSell(creator, amount)
	if err != nil {
		return nil, err
	}
	return quote.Raw, nil
}

// GetBuyPriceAfterFee is the payment BuyBits needs for amount bits.
//
// Example:
//
// cost, _ := market.GetBuyPriceAfterFee(creator, uint256.NewInt(1))
//
// market.BuyBits(ctx, buyer, creator, uint256.NewInt(1), cost)
func (b *Bits) GetBuyPriceAfterFee(creator common.Address, amount *uint256.Int) (*uint256.Int, error) {
	quote, err := b.PreviewBuy(creator, amount)
	if err != nil {
		return nil, err
	}
	return quote.Total, nil
}

// GetSellPriceAfterFee is what SellBits pays out for amount bits.
func (b *Bits) GetSellPriceAfterFee(creator common.Address, amount *uint256.Int) (*uint256.Int, error) {
	quote, err := b.PreviewSell(creator, amount)
	if err != nil {
		return nil, err
	}
	return quote.Total, nil
}
