//
// label_test.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"fmt"
	"testing"

	"github.com/markkurossi/psi/env"
)

func TestLabel(t *testing.T) {
	rand := env.NewSeededRandom([]byte("label"))

	l0, err := NewLabel(rand)
	if err != nil {
		t.Fatal(err)
	}
	l1, err := NewLabel(rand)
	if err != nil {
		t.Fatal(err)
	}
	if l0.Equal(l1) {
		t.Fatalf("random labels are equal")
	}

	var data LabelData
	var l2 Label
	l2.SetBytes(l0.Bytes(&data))
	if !l2.Equal(l0) {
		t.Fatalf("SetBytes failed: %v != %v", l2, l0)
	}

	var l3 Label
	l3.SetData(&data)
	if !l3.Equal(l0) {
		t.Fatalf("SetData failed: %v != %v", l3, l0)
	}
	if l3.String() != fmt.Sprintf("%016x%016x", l0.D0, l0.D1) {
		t.Errorf("String: got %s", l3)
	}
}

func TestLabelRandomFailure(t *testing.T) {
	_, err := NewLabel(failingReader{})
	if err == nil {
		t.Fatalf("NewLabel succeeded with a failing reader")
	}
}
