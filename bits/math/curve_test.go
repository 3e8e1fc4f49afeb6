package math

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestSumOfSquares(t *testing.T) {
	want := []uint64{0, 0, 1, 5, 14, 30, 55, 91}
	for k, w := range want {
		got, err := SumOfSquares(u(uint64(k)))
		require.NoError(t, err)
		assert.Equal(t, u(w), got, "S(%d)", k)
	}
}

func TestSumOfSquaresOverflow(t *testing.T) {
	k := new(uint256.Int).Lsh(u(1), 200)
	_, err := SumOfSquares(k)
	assert.True(t, errors.Is(err, ErrArithmetic))

	// 2^80 still fits: S(k) < 2^240
	k = new(uint256.Int).Lsh(u(1), 80)
	_, err = SumOfSquares(k)
	assert.NoError(t, err)
}

func TestGetBuyPriceMatchesPerUnitSum(t *testing.T) {
	const delta = 600_000_000
	supplies := []uint64{0, 1, 2, 3, 64, 4096, 9999, 10000}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 16; i++ {
		supplies = append(supplies, uint64(rng.Intn(10001)))
	}

	for _, s0 := range supplies {
		// per unit cost summed one bit at a time
		want := new(uint256.Int)
		for n := uint64(1); n <= 500; n++ {
			i := s0 + n - 1
			want.Add(want, new(uint256.Int).Mul(u(delta), u(i*i)))

			got, err := GetBuyPrice(u(delta), u(s0), u(n))
			require.NoError(t, err)
			require.Equal(t, want, got, "s0=%d n=%d", s0, n)
		}
	}
}

func TestGetSellPriceMirrorsBuy(t *testing.T) {
	const delta = 1_000_000_000_000_000
	for _, s0 := range []uint64{1, 2, 10, 500, 10000} {
		for _, n := range []uint64{1, 2, 5} {
			if n > s0 {
				continue
			}
			sell, err := GetSellPrice(u(delta), u(s0), u(n))
			require.NoError(t, err)
			buy, err := GetBuyPrice(u(delta), u(s0-n), u(n))
			require.NoError(t, err)
			assert.Equal(t, buy, sell, "s0=%d n=%d", s0, n)
		}
	}
}

func TestGetSellPriceInsufficientSupply(t *testing.T) {
	_, err := GetSellPrice(u(1), u(2), u(3))
	assert.True(t, errors.Is(err, ErrInsufficientSupply))
}

func TestDeltaScenario(t *testing.T) {
	delta := u(600_000_000)

	raw, err := GetBuyPrice(delta, u(0), u(1))
	require.NoError(t, err)
	assert.True(t, raw.IsZero())

	raw, err = GetBuyPrice(delta, u(1), u(1))
	require.NoError(t, err)
	assert.Equal(t, delta, raw)

	raw, err = GetSellPrice(delta, u(2), u(1))
	require.NoError(t, err)
	assert.Equal(t, delta, raw)
}
