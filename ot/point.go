//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"bytes"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
)

// PointSize defines the encoded point size in bytes.
const PointSize = 32

// invEight is 8^-1 mod l in little-endian encoding.
const invEightHex = "792fdce229e50661d0da1c7db39dd307" +
	"00000000000000000000000000000006"

var invEight *edwards25519.Scalar

func init() {
	data, err := hex.DecodeString(invEightHex)
	if err != nil {
		panic(err)
	}
	invEight, err = edwards25519.NewScalar().SetCanonicalBytes(data)
	if err != nil {
		panic(err)
	}
}

// Point is an element of the Edwards25519 prime-order subgroup.
type Point struct {
	p edwards25519.Point
}

func newPoint(p *edwards25519.Point) *Point {
	result := new(Point)
	result.p.Set(p)
	return result
}

// DecodePoint decodes a point from its canonical encoding. The
// function rejects non-canonical encodings, the identity element, and
// points with a small-order component.
func DecodePoint(data []byte) (*Point, error) {
	if len(data) != PointSize {
		return nil, errors.Wrapf(ErrInvalidPoint, "length %d", len(data))
	}
	result := new(Point)
	if _, err := result.p.SetBytes(data); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "ot: decode point"),
			ErrInvalidPoint)
	}
	if !bytes.Equal(result.p.Bytes(), data) {
		return nil, errors.Wrap(ErrInvalidPoint, "non-canonical encoding")
	}
	if err := result.validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// validate checks that p is not the identity and lies in the
// prime-order subgroup: (8p)/8 = p holds only without a torsion
// component.
func (p *Point) validate() error {
	if p == nil {
		return errors.Wrap(ErrInvalidPoint, "nil point")
	}
	if p.p.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return errors.Wrap(ErrInvalidPoint, "identity")
	}
	var q edwards25519.Point
	q.MultByCofactor(&p.p)
	q.ScalarMult(invEight, &q)
	if q.Equal(&p.p) != 1 {
		return errors.Wrap(ErrInvalidPoint, "not in prime-order subgroup")
	}
	return nil
}

// Bytes returns the canonical encoding of the point.
func (p *Point) Bytes() []byte {
	return p.p.Bytes()
}

// Equal tests if the points are equal.
func (p *Point) Equal(o *Point) bool {
	return p.p.Equal(&o.p) == 1
}

// Clone returns a copy of the point.
func (p *Point) Clone() *Point {
	return newPoint(&p.p)
}
