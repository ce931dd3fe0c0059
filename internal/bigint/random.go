package bigint

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

const maxRandomBits = 8192

// MustGetRandomInt returns a uniform random integer in [0, 2^bits) read from r,
// panicking only on an exhausted entropy source.
func MustGetRandomInt(r io.Reader, bits int) *big.Int {
	if bits <= 0 || maxRandomBits < bits {
		panic(fmt.Errorf("bigint: bits must be in (0, %d], got %d", maxRandomBits, bits))
	}
	max := new(big.Int).Lsh(One, uint(bits))
	n, err := rand.Int(r, max)
	if err != nil {
		panic(errors.Wrap(err, "bigint: rand.Int failed"))
	}
	return n
}

// GetRandomPositiveInt returns a uniform random integer in [0, lessThan).
func GetRandomPositiveInt(r io.Reader, lessThan *big.Int) *big.Int {
	if lessThan == nil || lessThan.Cmp(Zero) <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(r, lessThan.BitLen())
		if try.Cmp(lessThan) < 0 {
			return try
		}
	}
}

// GetRandomPositiveRelativelyPrimeInt returns a uniform random unit of Z/nZ.
func GetRandomPositiveRelativelyPrimeInt(r io.Reader, n *big.Int) *big.Int {
	if n == nil || n.Cmp(Zero) <= 0 {
		return nil
	}
	for {
		try := MustGetRandomInt(r, n.BitLen())
		if IsInMultiplicativeGroup(n, try) {
			return try
		}
	}
}

// GetRandomPrimeInt returns a uniform random prime of the given bit length.
func GetRandomPrimeInt(r io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, errors.New("bigint: bits must be positive")
	}
	return rand.Prime(r, bits)
}
