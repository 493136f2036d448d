//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

/*
Package psi implements a two-party private set intersection over bin
indicator vectors. Party A and party B each hold a BitVector of the
same length; A learns the bitwise AND of the vectors and B learns
nothing.

The protocol runs in five stages and exchanges four messages:

	A: Init            -> MessageA1 ->
	B: RespondRound1   <- MessageB1 <-
	A: FinalizeRound1  -> MessageA2 ->
	B: RespondRound2   <- MessageB2 <-
	A: Finalize        -> result

Each bin is one Chou-Orlandi oblivious transfer where A is the sender
and B the receiver. A offers two random labels (R0, R1) as the pair
(R0, R0) when its bit is 0 and (R0, R1) when its bit is 1. B selects
with its own bit and returns the label it received. The returned
label is R1 exactly when both bits are set.

Every state object returned by a stage is single-use: passing it to a
second stage fails with ErrStateConsumed. Any error aborts the run;
callers restart from Init and RespondRound1 with fresh state.
*/
package psi
