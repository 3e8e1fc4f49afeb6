package u128

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	v, err := FromString("18446744073709551617") // 2^64 + 1
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Lo)
	assert.Equal(t, uint64(1), v.Hi)

	_, err = FromString("340282366920938463463374607431768211456") // 2^128
	require.Error(t, err)

	_, err = FromString("-1")
	require.Error(t, err)
}

func TestUint256RoundTrip(t *testing.T) {
	x := uint256.MustFromDecimal("340282366920938463463374607431768211455")
	v, err := FromUint256(x)
	require.NoError(t, err)
	assert.Equal(t, x, ToUint256(v))

	_, err = FromUint256(new(uint256.Int).AddUint64(x, 1))
	assert.True(t, errors.Is(err, ErrOverflow))
}
