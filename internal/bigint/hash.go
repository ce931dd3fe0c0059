package bigint

import (
	"crypto"
	_ "crypto/sha512"
	"encoding/binary"
	"math/big"
)

const hashDelimiter = byte('$')

// SHA512_256 hashes the concatenation of in, prefixed and delimited so that
// distinct argument splits can never collide. SHA-512/256 resists
// length-extension and beats SHA-256 on 64-bit hardware.
func SHA512_256(in ...[]byte) []byte {
	if len(in) == 0 {
		return nil
	}
	state := crypto.SHA512_256.New()
	prefix := make([]byte, 8)
	binary.LittleEndian.PutUint64(prefix, uint64(len(in)))
	state.Write(prefix)
	for _, bz := range in {
		state.Write(bz)
		state.Write([]byte{hashDelimiter})
		length := make([]byte, 8)
		binary.LittleEndian.PutUint64(length, uint64(len(bz)))
		state.Write(length)
	}
	return state.Sum(nil)
}

// SHA512_256i is the big.Int-oriented form used by every sigma-protocol
// challenge derivation in this module.
func SHA512_256i(in ...*big.Int) *big.Int {
	bzs := make([][]byte, len(in))
	for i, n := range in {
		bzs[i] = n.Bytes()
	}
	return new(big.Int).SetBytes(SHA512_256(bzs...))
}

// RejectionSample implements the rejection sampling logic from GG18 Fig. 12:
// derive e, the first |q| bits of eHash, re-hashing until 0 <= e < q.
func RejectionSample(q, eHash *big.Int) *big.Int {
	qBits := q.BitLen()
	e := firstBitsOf(qBits, eHash)
	for e.Cmp(q) >= 0 {
		eHash = SHA512_256i(eHash)
		e = firstBitsOf(qBits, eHash)
	}
	return e
}

func firstBitsOf(bits int, v *big.Int) *big.Int {
	e := new(big.Int)
	for i := 0; i < bits; i++ {
		e.SetBit(e, i, v.Bit(i))
	}
	return e
}
