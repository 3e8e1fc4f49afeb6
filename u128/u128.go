package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/holiman/uint256"
)

// ErrOverflow is returned when a value does not fit in 128 bits.
var ErrOverflow = errors.New("value overflows Uint128")

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return ErrOverflow
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

// FromString parses a base 10 string into a Uint128.
func FromString(num string) (binary.Uint128, error) {
	v := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(v)); err != nil {
		return binary.Uint128{}, err
	}
	return *v, nil
}

// FromUint256 narrows x to 128 bits, failing with ErrOverflow when the upper words are set.
func FromUint256(x *uint256.Int) (binary.Uint128, error) {
	if x[2] != 0 || x[3] != 0 {
		return binary.Uint128{}, fmt.Errorf("%w: %s", ErrOverflow, x.Dec())
	}
	v := binary.NewUint128LittleEndian()
	v.Lo = x[0]
	v.Hi = x[1]
	return *v, nil
}

// ToUint256 widens u to a 256 bit word.
func ToUint256(u binary.Uint128) *uint256.Int {
	return &uint256.Int{u.Lo, u.Hi, 0, 0}
}
