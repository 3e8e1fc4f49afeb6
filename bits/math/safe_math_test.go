package math

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeMathFailures(t *testing.T) {
	maxWord := new(uint256.Int).SetAllOne()

	_, err := Add(maxWord, u(1))
	assert.True(t, errors.Is(err, ErrArithmetic))

	_, err = Sub(u(1), u(2))
	assert.True(t, errors.Is(err, ErrArithmetic))

	_, err = Mul(maxWord, u(2))
	assert.True(t, errors.Is(err, ErrArithmetic))

	_, err = Div(u(1), u(0))
	assert.True(t, errors.Is(err, ErrArithmetic))

	_, err = MulDiv(u(1), u(1), u(0))
	assert.True(t, errors.Is(err, ErrArithmetic))

	_, err = MulDiv(maxWord, maxWord, u(1))
	assert.True(t, errors.Is(err, ErrArithmetic))
}

func TestArithmeticErrorText(t *testing.T) {
	_, err := Sub(u(1), u(2))
	require.Error(t, err)
	assert.Equal(t, "arithmetic error: 1 - 2", err.Error())

	_, err = Div(u(1), u(0))
	require.Error(t, err)
	assert.Equal(t, "arithmetic error: division by zero", err.Error())
}

func TestMulDivWideIntermediate(t *testing.T) {
	maxWord := new(uint256.Int).SetAllOne()
	got, err := MulDiv(maxWord, u(2), u(4))
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Rsh(maxWord, 1), got)

	got, err = MulDiv(u(7), u(3), u(2))
	require.NoError(t, err)
	assert.Equal(t, u(10), got)
}
