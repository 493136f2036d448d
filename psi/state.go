//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"crypto/subtle"
	"encoding/binary"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/psi/ot"
	"github.com/zeebo/blake3"
)

// once is a single-use marker. The first consume succeeds, all later
// ones fail.
type once struct {
	consumed atomic.Bool
}

func (o *once) consume(what string) error {
	if !o.consumed.CompareAndSwap(false, true) {
		return errors.Wrapf(ErrStateConsumed, "%s", what)
	}
	return nil
}

// Consumed tests if the state has been consumed or destroyed.
func (o *once) Consumed() bool {
	return o.consumed.Load()
}

// PrivateA0 is A's private state after Init: the OT sender secret.
type PrivateA0 struct {
	once
	session SessionID
	setup   *ot.SenderSetup
}

// Destroy zeroizes the state and marks it consumed.
func (s *PrivateA0) Destroy() {
	s.consumed.Store(true)
	s.zeroize()
}

func (s *PrivateA0) zeroize() {
	if s.setup != nil {
		s.setup.Zeroize()
	}
}

// PublicA0 is A's public state after Init.
type PublicA0 struct {
	once
	Session SessionID
	Bins    int
	S       *ot.Point
}

// Destroy marks the state consumed.
func (s *PublicA0) Destroy() {
	s.consumed.Store(true)
}

// PrivateB1 is B's private state after RespondRound1: the OT choice
// scalars and B's bits.
type PrivateB1 struct {
	once
	session SessionID
	bundle  *ot.ChoiceBundle
}

// Destroy zeroizes the state and marks it consumed.
func (s *PrivateB1) Destroy() {
	s.consumed.Store(true)
	s.zeroize()
}

func (s *PrivateB1) zeroize() {
	if s.bundle != nil {
		s.bundle.Zeroize()
	}
}

// PublicB1 is B's public state after RespondRound1.
type PublicB1 struct {
	once
	Session SessionID
	Bins    int
	S       *ot.Point
}

// Destroy marks the state consumed.
func (s *PublicB1) Destroy() {
	s.consumed.Store(true)
}

// PrivateA2 is A's private state after FinalizeRound1. The label
// pairs are erased inside FinalizeRound1 once their fingerprints are
// computed, so the state only identifies the run.
type PrivateA2 struct {
	once
	session SessionID
}

// Destroy marks the state consumed.
func (s *PrivateA2) Destroy() {
	s.consumed.Store(true)
}

// Fingerprint is a one-way commitment to a label.
type Fingerprint [32]byte

// PublicA2 is A's public state after FinalizeRound1: fingerprints of
// both labels of each bin.
type PublicA2 struct {
	once
	Session SessionID
	Bins    int
	Zero    []Fingerprint
	One     []Fingerprint
}

// Destroy marks the state consumed.
func (s *PublicA2) Destroy() {
	s.consumed.Store(true)
}

// RoundA2 bundles the outputs of FinalizeRound1.
type RoundA2 struct {
	Private *PrivateA2
	Public  *PublicA2
	Message *MessageA2
}

// fingerprint computes the fingerprint of the label of bin idx.
func fingerprint(session SessionID, idx int, label ot.Label) Fingerprint {
	h := blake3.New()
	h.Write([]byte("psi/label/v1:"))
	h.Write(session[:])

	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(idx))
	h.Write(tmp[:])

	var data ot.LabelData
	h.Write(label.Bytes(&data))

	var result Fingerprint
	h.Sum(result[:0])
	return result
}

func (f Fingerprint) equal(o Fingerprint) bool {
	return subtle.ConstantTimeCompare(f[:], o[:]) == 1
}
