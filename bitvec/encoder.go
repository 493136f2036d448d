//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package bitvec

import (
	"github.com/cockroachdb/errors"
	"github.com/zeebo/blake3"
)

// KeySize defines the encoder hash key size in bytes.
const KeySize = 32

// Encoder maps items to bin indices with a keyed hash and encodes item
// sets as bin vectors. Both parties must use the same Bins, Hashes,
// and Key; the values are agreed out of band.
//
// Two items hashing to the same bin are indistinguishable in the
// encoded vector. This false-positive trade-off is inherent to the
// encoding and not an error.
type Encoder struct {
	Bins   int
	Hashes int
	Key    []byte
}

// NewEncoder creates a new encoder. The key must be KeySize bytes.
func NewEncoder(bins, hashes int, key []byte) (*Encoder, error) {
	enc := &Encoder{
		Bins:   bins,
		Hashes: hashes,
		Key:    append([]byte(nil), key...),
	}
	if err := enc.validate(); err != nil {
		return nil, err
	}
	return enc, nil
}

func (enc *Encoder) validate() error {
	if enc.Bins <= 0 || enc.Bins > MaxLen {
		return errors.Wrapf(ErrParams, "bins %d", enc.Bins)
	}
	if enc.Hashes <= 0 {
		return errors.Wrapf(ErrParams, "hashes %d", enc.Hashes)
	}
	if len(enc.Key) != KeySize {
		return errors.Wrapf(ErrParams, "key length %d, expected %d",
			len(enc.Key), KeySize)
	}
	return nil
}

// Indices returns the bin indices of the item. The same item always
// maps to the same indices; indices may repeat.
func (enc *Encoder) Indices(item []byte) ([]int, error) {
	if err := enc.validate(); err != nil {
		return nil, err
	}
	h, err := blake3.NewKeyed(enc.Key)
	if err != nil {
		return nil, errors.Wrap(err, "bitvec: keyed hash")
	}
	h.Write(item)
	xof := h.Digest()

	var buf [8]byte
	result := make([]int, enc.Hashes)
	for i := range result {
		idx, err := uniform(xof, buf[:], uint64(enc.Bins))
		if err != nil {
			return nil, err
		}
		result[i] = int(idx)
	}
	return result, nil
}

// Encode encodes the item set as a bin vector of Bins bits.
func (enc *Encoder) Encode(items [][]byte) (*BitVector, error) {
	if err := enc.validate(); err != nil {
		return nil, err
	}
	v, err := New(enc.Bins)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		indices, err := enc.Indices(item)
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			v.bits.Set(uint(idx))
		}
	}
	return v, nil
}

// EncodeStrings encodes string items.
func (enc *Encoder) EncodeStrings(items []string) (*BitVector, error) {
	data := make([][]byte, len(items))
	for i, item := range items {
		data[i] = []byte(item)
	}
	return enc.Encode(data)
}
