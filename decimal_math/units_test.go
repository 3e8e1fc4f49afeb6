package decimal_math

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	v, err := ParseEther("0.001")
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1_000_000_000_000_000), v)

	v, err = ParseEther(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", v.Dec())

	_, err = ParseEther("-1")
	assert.True(t, errors.Is(err, ErrNegative))

	_, err = ParseEther("0.0000000000000000001")
	assert.True(t, errors.Is(err, ErrPrecision))

	_, err = ParseEther("abc")
	assert.Error(t, err)
}

func TestParseUnitsOverflow(t *testing.T) {
	_, err := ParseUnits("115792089237316195423570985008687907853269984665640564039457584007913129639936", 0)
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.001", FormatEther(uint256.NewInt(1_000_000_000_000_000)))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "4%", Percent(uint256.NewInt(40_000_000_000_000_000)))
	assert.Equal(t, "12.5", FormatUnits(uint256.NewInt(125), 1))
	assert.True(t, Pow10(3).Equal(Pow10(1).Mul(Pow10(2))))
}
