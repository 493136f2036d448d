//
// co_test.go
//
// Copyright (c) 2023-2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"io"
	"testing"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/psi/env"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func makeWires(t *testing.T, rand io.Reader, count int) []Wire {
	wires := make([]Wire, count)
	for i := range wires {
		var err error
		wires[i].L0, err = NewLabel(rand)
		if err != nil {
			t.Fatal(err)
		}
		wires[i].L1, err = NewLabel(rand)
		if err != nil {
			t.Fatal(err)
		}
	}
	return wires
}

func TestCO(t *testing.T) {
	const size int = 64

	rand := env.NewSeededRandom([]byte("co"))
	tweak := []byte("session")

	wires := makeWires(t, rand, size)
	choices := make([]bool, size)
	for i := range choices {
		choices[i] = i%3 == 0
	}

	setup, err := GenerateSenderSetup(rand)
	if err != nil {
		t.Fatalf("GenerateSenderSetup: %v", err)
	}
	A, err := DecodePoint(setup.A.Bytes())
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	bundle, points, err := BuildChoices(rand, A, choices)
	if err != nil {
		t.Fatalf("BuildChoices: %v", err)
	}
	ciphertexts, err := EncryptLabels(setup, tweak, points, wires)
	if err != nil {
		t.Fatalf("EncryptLabels: %v", err)
	}
	labels, err := DecryptLabels(bundle, tweak, ciphertexts)
	if err != nil {
		t.Fatalf("DecryptLabels: %v", err)
	}
	for i, bit := range choices {
		expected := wires[i].L0
		other := wires[i].L1
		if bit {
			expected, other = other, expected
		}
		if !labels[i].Equal(expected) {
			t.Fatalf("label %d mismatch %v %v", i, labels[i], wires[i])
		}
		if labels[i].Equal(other) {
			t.Fatalf("label %d decrypts both labels", i)
		}
	}

	// Masks are bound to the tweak.
	labels, err = DecryptLabels(bundle, []byte("other"), ciphertexts)
	if err != nil {
		t.Fatalf("DecryptLabels: %v", err)
	}
	if labels[0].Equal(wires[0].L1) {
		t.Fatalf("label decrypted with wrong tweak")
	}
}

func TestCOCountMismatch(t *testing.T) {
	rand := env.NewSeededRandom([]byte("count"))

	setup, err := GenerateSenderSetup(rand)
	if err != nil {
		t.Fatal(err)
	}
	bundle, points, err := BuildChoices(rand, setup.A, []bool{true, false})
	if err != nil {
		t.Fatal(err)
	}
	_, err = EncryptLabels(setup, nil, points, makeWires(t, rand, 3))
	if !errors.Is(err, ErrCount) {
		t.Errorf("EncryptLabels: expected ErrCount, got %v", err)
	}
	_, err = DecryptLabels(bundle, nil, make([]LabelCiphertext, 1))
	if !errors.Is(err, ErrCount) {
		t.Errorf("DecryptLabels: expected ErrCount, got %v", err)
	}
}

func TestCORandomFailure(t *testing.T) {
	_, err := GenerateSenderSetup(failingReader{})
	if !errors.Is(err, ErrRandom) {
		t.Errorf("GenerateSenderSetup: expected ErrRandom, got %v", err)
	}
	setup, err := GenerateSenderSetup(env.NewSeededRandom(nil))
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = BuildChoices(failingReader{}, setup.A, []bool{true})
	if !errors.Is(err, ErrRandom) {
		t.Errorf("BuildChoices: expected ErrRandom, got %v", err)
	}
}

func TestDecodePoint(t *testing.T) {
	setup, err := GenerateSenderSetup(env.NewSeededRandom([]byte("pt")))
	if err != nil {
		t.Fatal(err)
	}
	p, err := DecodePoint(setup.A.Bytes())
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if !p.Equal(setup.A) {
		t.Fatalf("decoded point mismatch")
	}

	identity := edwards25519.NewIdentityPoint().Bytes()

	// A point of order 8 added to a valid point.
	var torsion [32]byte
	torsion[31] = 0x80
	small, err := new(edwards25519.Point).SetBytes(torsion[:])
	if err != nil {
		t.Fatalf("torsion point: %v", err)
	}
	mixed := new(edwards25519.Point).Add(&setup.A.p, small).Bytes()

	nonCanonical := make([]byte, PointSize)
	nonCanonical[0] = 0xed
	for i := 1; i < 31; i++ {
		nonCanonical[i] = 0xff
	}
	nonCanonical[31] = 0x7f

	tests := []struct {
		name string
		data []byte
	}{
		{"short", setup.A.Bytes()[:31]},
		{"identity", identity},
		{"torsion", torsion[:]},
		{"mixed", mixed},
		{"noncanonical", nonCanonical},
	}
	for _, test := range tests {
		if _, err := DecodePoint(test.data); !errors.Is(err, ErrInvalidPoint) {
			t.Errorf("%s: expected ErrInvalidPoint, got %v", test.name, err)
		}
	}
}

func TestZeroize(t *testing.T) {
	rand := env.NewSeededRandom([]byte("zeroize"))
	setup, err := GenerateSenderSetup(rand)
	if err != nil {
		t.Fatal(err)
	}
	bundle, _, err := BuildChoices(rand, setup.A, []bool{true, true})
	if err != nil {
		t.Fatal(err)
	}
	setup.Zeroize()
	bundle.Zeroize()

	zero := edwards25519.NewScalar()
	if setup.Scalar.Equal(zero) != 1 {
		t.Errorf("sender scalar not cleared")
	}
	for i, s := range bundle.Scalars {
		if s.Equal(zero) != 1 || bundle.Bits[i] {
			t.Errorf("choice %d not cleared", i)
		}
	}
}
