//
// co.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//
// Chou Orlandi OT - The Simplest Protocol for Oblivious Transfer.
//  - https://eprint.iacr.org/2015/267.pdf
//
// The transfer is split into pure step functions so that each
// party can keep its round state between messages:
//
//	sender:   GenerateSenderSetup            -> A
//	receiver: BuildChoices(A, bits)          -> B[i]
//	sender:   EncryptLabels(setup, B, wires) -> E[i]
//	receiver: DecryptLabels(bundle, E)       -> labels

package ot

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
)

var (
	bo = binary.BigEndian

	// ErrInvalidPoint signals that an input point is not a canonical
	// encoding of a non-identity element of the prime-order subgroup.
	ErrInvalidPoint = errors.New("ot: invalid point")

	// ErrCount signals mismatching point, wire, or ciphertext counts.
	ErrCount = errors.New("ot: count mismatch")

	// ErrRandom signals that the entropy source failed.
	ErrRandom = errors.New("ot: random source failed")
)

// LabelCiphertext stores both encrypted labels for a single wire.
type LabelCiphertext struct {
	// Zero holds the ciphertext for the zero label.
	Zero LabelData

	// One holds the ciphertext for the one label.
	One LabelData
}

// SenderSetup contains the sender's secret scalar a and its public
// value A = aG.
type SenderSetup struct {
	Scalar *edwards25519.Scalar
	A      *Point

	// aA = a*A, used to derive the mask of the one label.
	aA *edwards25519.Point
}

// Zeroize clears the secret scalar.
func (s *SenderSetup) Zeroize() {
	if s.Scalar != nil {
		s.Scalar.Set(edwards25519.NewScalar())
	}
	if s.aA != nil {
		s.aA.Set(edwards25519.NewIdentityPoint())
	}
}

// ChoiceBundle preserves the receiver-side secrets for later
// decryption.
type ChoiceBundle struct {
	// A is the sender's public value.
	A *Point

	// Scalars contains the receiver's random scalars.
	Scalars []*edwards25519.Scalar

	// Bits mirrors the receiver's choice bits.
	Bits []bool
}

// Zeroize clears the receiver's scalars and choice bits.
func (b *ChoiceBundle) Zeroize() {
	zero := edwards25519.NewScalar()
	for _, s := range b.Scalars {
		s.Set(zero)
	}
	for i := range b.Bits {
		b.Bits[i] = false
	}
}

// GenerateSenderSetup samples the sender randomness.
func GenerateSenderSetup(rand io.Reader) (*SenderSetup, error) {
	a, err := randomScalar(rand)
	if err != nil {
		return nil, err
	}
	A := new(edwards25519.Point).ScalarBaseMult(a)

	return &SenderSetup{
		Scalar: a,
		A:      newPoint(A),
		aA:     new(edwards25519.Point).ScalarMult(a, A),
	}, nil
}

// BuildChoices constructs the receiver points for each choice bit:
// B = bG for bit 0 and B = bG + A for bit 1.
func BuildChoices(rand io.Reader, A *Point, bits []bool) (
	*ChoiceBundle, []*Point, error) {

	if err := A.validate(); err != nil {
		return nil, nil, err
	}
	points := make([]*Point, len(bits))
	scalars := make([]*edwards25519.Scalar, len(bits))

	for idx, bit := range bits {
		b, err := randomScalar(rand)
		if err != nil {
			return nil, nil, err
		}
		scalars[idx] = b

		B := new(edwards25519.Point).ScalarBaseMult(b)
		if bit {
			B.Add(B, &A.p)
		}
		points[idx] = newPoint(B)
	}

	bundle := &ChoiceBundle{
		A:       A.Clone(),
		Scalars: scalars,
		Bits:    append([]bool(nil), bits...),
	}
	return bundle, points, nil
}

// EncryptLabels encrypts wire labels for every receiver point. The
// tweak binds the masks to a protocol run.
func EncryptLabels(setup *SenderSetup, tweak []byte, points []*Point,
	wires []Wire) ([]LabelCiphertext, error) {

	if len(points) != len(wires) {
		return nil, errors.Wrapf(ErrCount, "got %d points for %d wires",
			len(points), len(wires))
	}

	var Ba, Baa edwards25519.Point
	var tmp LabelData

	result := make([]LabelCiphertext, len(points))
	for idx, point := range points {
		if err := point.validate(); err != nil {
			return nil, errors.Wrapf(err, "point %d", idx)
		}
		// B^a and (B/A)^a = B^a / A^a
		Ba.ScalarMult(setup.Scalar, &point.p)
		Baa.Subtract(&Ba, setup.aA)

		mask0 := deriveMask(tweak, &Ba, uint64(idx))
		mask1 := deriveMask(tweak, &Baa, uint64(idx))

		wires[idx].L0.GetData(&tmp)
		xor(result[idx].Zero[:], mask0[:], tmp[:])

		wires[idx].L1.GetData(&tmp)
		xor(result[idx].One[:], mask1[:], tmp[:])
	}

	return result, nil
}

// DecryptLabels decodes the chosen labels from ciphertexts.
func DecryptLabels(bundle *ChoiceBundle, tweak []byte,
	data []LabelCiphertext) ([]Label, error) {

	count := len(bundle.Bits)
	if len(bundle.Scalars) != count || len(data) != count {
		return nil, errors.Wrapf(ErrCount,
			"got %d ciphertexts for %d choices", len(data), count)
	}

	var As edwards25519.Point
	var tmp LabelData

	result := make([]Label, count)
	for idx := 0; idx < count; idx++ {
		As.ScalarMult(bundle.Scalars[idx], &bundle.A.p)
		mask := deriveMask(tweak, &As, uint64(idx))

		cipher := data[idx].Zero[:]
		if bundle.Bits[idx] {
			cipher = data[idx].One[:]
		}
		xor(tmp[:], mask[:], cipher)
		result[idx].SetData(&tmp)
	}

	return result, nil
}

// deriveMask derives the label pad for a Diffie-Hellman output.
func deriveMask(tweak []byte, point *edwards25519.Point, id uint64) LabelData {
	hash := sha256.New()
	hash.Write(tweak)

	var idBuf [8]byte
	bo.PutUint64(idBuf[:], id)
	hash.Write(idBuf[:])
	hash.Write(point.Bytes())

	var sum [sha256.Size]byte
	hash.Sum(sum[:0])

	var mask LabelData
	copy(mask[:], sum[:])
	return mask
}

func randomScalar(rand io.Reader) (*edwards25519.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "ot: read scalar"),
			ErrRandom)
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		return nil, errors.Wrap(err, "ot: scalar")
	}
	for i := range buf {
		buf[i] = 0
	}
	return s, nil
}

// xor sets dst = a XOR b.
func xor(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
