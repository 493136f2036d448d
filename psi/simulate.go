//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"github.com/markkurossi/psi/bitvec"
	"github.com/markkurossi/psi/env"
)

// Simulate runs both parties of one protocol run in the calling
// goroutine and returns A's result together with the stage timing and
// bandwidth profile. Messages are passed as values; no transport is
// involved.
func Simulate(params Params, config *env.Config, vA, vB *bitvec.BitVector) (
	*bitvec.BitVector, *Timing, error) {

	a, err := NewPartyA(params, config)
	if err != nil {
		return nil, nil, err
	}
	b, err := NewPartyB(params, config)
	if err != nil {
		return nil, nil, err
	}
	timing := NewTiming()

	privA0, pubA0, msgA1, err := a.Init()
	if err != nil {
		return nil, nil, err
	}
	timing.Sample("A: init", msgA1)

	privB1, pubB1, msgB1, err := b.RespondRound1(msgA1, vB)
	if err != nil {
		privA0.Destroy()
		return nil, nil, err
	}
	timing.Sample("B: respond 1", msgB1)

	round2, err := a.FinalizeRound1(privA0, pubA0, msgB1, vA)
	if err != nil {
		privB1.Destroy()
		return nil, nil, err
	}
	defer round2.Private.Destroy()
	timing.Sample("A: finalize 1", round2.Message)

	msgB2, err := b.RespondRound2(privB1, pubB1, round2.Message)
	if err != nil {
		return nil, nil, err
	}
	timing.Sample("B: respond 2", msgB2)

	result, err := a.Finalize(round2.Public, msgB2)
	if err != nil {
		return nil, nil, err
	}
	timing.Sample("A: finalize", nil)

	return result, timing, nil
}
