//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package bitvec implements fixed-length bin indicator vectors and
// the codec mapping item sets to them.
package bitvec

import (
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
)

var (
	bo = binary.BigEndian

	// ErrLength is returned when vector lengths do not match or a
	// vector length is invalid.
	ErrLength = errors.New("bitvec: invalid length")

	// ErrEncoding is returned when a textual or binary vector
	// encoding is invalid.
	ErrEncoding = errors.New("bitvec: invalid encoding")

	// ErrParams is returned for invalid encoder parameters.
	ErrParams = errors.New("bitvec: invalid parameters")
)

// MaxLen is the maximum vector length. It fits both int on all
// platforms and the uint32 length fields of the wire encodings.
const MaxLen = math.MaxInt32

// BitVector is an ordered fixed-length sequence of bits, one per
// bin. Bit i set means that the owner holds an item hashing to bin
// i. The length is fixed at creation.
type BitVector struct {
	n    int
	bits *bitset.BitSet
}

// New creates an all-zero vector of n bits.
func New(n int) (*BitVector, error) {
	if n <= 0 || n > MaxLen {
		return nil, errors.Wrapf(ErrLength, "length %d", n)
	}
	return &BitVector{
		n:    n,
		bits: bitset.New(uint(n)),
	}, nil
}

// Parse parses a vector from a string of '0' and '1' characters. The
// first character is bin 0.
func Parse(s string) (*BitVector, error) {
	v, err := New(len(s))
	if err != nil {
		return nil, err
	}
	for i, r := range s {
		switch r {
		case '0':
		case '1':
			v.bits.Set(uint(i))
		default:
			return nil, errors.Wrapf(ErrEncoding,
				"invalid character %q at %d", r, i)
		}
	}
	return v, nil
}

// FromBits creates a vector from the bit values.
func FromBits(bits []bool) (*BitVector, error) {
	v, err := New(len(bits))
	if err != nil {
		return nil, err
	}
	for i, bit := range bits {
		if bit {
			v.bits.Set(uint(i))
		}
	}
	return v, nil
}

// Random creates a vector of n bits by setting weight randomly chosen
// bins. Bins may be chosen more than once so the result has at most
// weight bits set.
func Random(rand io.Reader, weight, n int) (*BitVector, error) {
	v, err := New(n)
	if err != nil {
		return nil, err
	}
	var buf [8]byte
	for i := 0; i < weight; i++ {
		idx, err := uniform(rand, buf[:], uint64(n))
		if err != nil {
			return nil, err
		}
		v.bits.Set(uint(idx))
	}
	return v, nil
}

// Len returns the vector length.
func (v *BitVector) Len() int {
	return v.n
}

// Test tests if bit i is set.
func (v *BitVector) Test(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.bits.Test(uint(i))
}

// Set sets bit i.
func (v *BitVector) Set(i int) error {
	if i < 0 || i >= v.n {
		return errors.Wrapf(ErrLength, "index %d out of range [0,%d)", i, v.n)
	}
	v.bits.Set(uint(i))
	return nil
}

// Clear clears bit i.
func (v *BitVector) Clear(i int) error {
	if i < 0 || i >= v.n {
		return errors.Wrapf(ErrLength, "index %d out of range [0,%d)", i, v.n)
	}
	v.bits.Clear(uint(i))
	return nil
}

// Count returns the number of set bits.
func (v *BitVector) Count() int {
	return int(v.bits.Count())
}

// Bits returns the vector as a bool array.
func (v *BitVector) Bits() []bool {
	result := make([]bool, v.n)
	for i, ok := v.bits.NextSet(0); ok && int(i) < v.n; i, ok = v.bits.NextSet(i + 1) {
		result[i] = true
	}
	return result
}

// And returns the bitwise AND of the vectors. This is the plaintext
// reference for the private intersection.
func (v *BitVector) And(o *BitVector) (*BitVector, error) {
	if v == nil || o == nil {
		return nil, errors.Wrap(ErrLength, "AND of nil vector")
	}
	if v.n != o.n {
		return nil, errors.Wrapf(ErrLength, "AND of %d and %d bits", v.n, o.n)
	}
	return &BitVector{
		n:    v.n,
		bits: v.bits.Intersection(o.bits),
	}, nil
}

// Equal tests if the vectors have the same length and bits.
func (v *BitVector) Equal(o *BitVector) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.n != o.n {
		return false
	}
	for i := 0; i < v.n; i++ {
		if v.bits.Test(uint(i)) != o.bits.Test(uint(i)) {
			return false
		}
	}
	return true
}

func (v *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// MarshalBinary encodes the vector as uint32 length followed by the
// bits packed MSB first.
func (v *BitVector) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4+(v.n+7)/8)
	bo.PutUint32(data, uint32(v.n))
	packed := data[4:]
	for i := 0; i < v.n; i++ {
		if v.bits.Test(uint(i)) {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}
	return data, nil
}

// UnmarshalBinary decodes the vector from its binary encoding.
func (v *BitVector) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errors.Wrap(ErrEncoding, "truncated length")
	}
	n := int(bo.Uint32(data))
	if n <= 0 || n > MaxLen {
		return errors.Wrapf(ErrLength, "length %d", n)
	}
	packed := data[4:]
	if len(packed) != (n+7)/8 {
		return errors.Wrapf(ErrEncoding, "got %d bytes for %d bits",
			len(packed), n)
	}
	if n%8 != 0 && packed[len(packed)-1]&(0xff>>(n%8)) != 0 {
		return errors.Wrap(ErrEncoding, "non-zero padding bits")
	}
	bits := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if packed[i/8]&(0x80>>(i%8)) != 0 {
			bits.Set(uint(i))
		}
	}
	v.n = n
	v.bits = bits
	return nil
}

// uniform returns a uniformly random value in [0,n) using rejection
// sampling over 64-bit words read from rand.
func uniform(rand io.Reader, buf []byte, n uint64) (uint64, error) {
	threshold := -n % n
	for {
		if _, err := io.ReadFull(rand, buf[:8]); err != nil {
			return 0, errors.Wrap(err, "bitvec: read random")
		}
		val := bo.Uint64(buf)
		if val >= threshold {
			return val % n, nil
		}
	}
}
