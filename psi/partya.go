//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"github.com/markkurossi/psi/bitvec"
	"github.com/markkurossi/psi/env"
	"github.com/markkurossi/psi/ot"
)

// PartyA implements the party that learns the intersection. Its run
// advances through Init, FinalizeRound1, and Finalize.
type PartyA struct {
	party
}

// NewPartyA creates party A. This is the explicit initialization step:
// it validates the parameters and binds the configuration. A PartyA
// can run any number of independent protocol runs.
func NewPartyA(params Params, config *env.Config) (*PartyA, error) {
	p, err := newParty("A", params, config)
	if err != nil {
		return nil, err
	}
	return &PartyA{
		party: p,
	}, nil
}

// Init starts a new protocol run. It samples the session identifier
// and the OT sender setup; A's bit vector is not needed yet.
func (a *PartyA) Init() (*PrivateA0, *PublicA0, *MessageA1, error) {
	session, err := newSessionID(a.rand)
	if err != nil {
		return nil, nil, nil, err
	}
	setup, err := ot.GenerateSenderSetup(a.rand)
	if err != nil {
		return nil, nil, nil, cryptoError(err, "init")
	}

	priv := &PrivateA0{
		session: session,
		setup:   setup,
	}
	pub := &PublicA0{
		Session: session,
		Bins:    a.params.Bins,
		S:       setup.A.Clone(),
	}
	msg := &MessageA1{
		Session: session,
		Bins:    a.params.Bins,
		S:       setup.A.Clone(),
	}
	a.logStage("init", session, msg)

	return priv, pub, msg, nil
}

// FinalizeRound1 consumes A's round 1 state, B's round 1 message, and
// A's bit vector. It returns A's round 2 state and message.
func (a *PartyA) FinalizeRound1(priv *PrivateA0, pub *PublicA0,
	msg *MessageB1, v *bitvec.BitVector) (*RoundA2, error) {

	if priv == nil || pub == nil {
		return nil, usageErrorf("finalize round 1: nil state")
	}
	if err := priv.consume("finalize round 1: private state"); err != nil {
		return nil, err
	}
	defer priv.zeroize()
	if err := pub.consume("finalize round 1: public state"); err != nil {
		return nil, err
	}
	if priv.session != pub.Session {
		return nil, usageErrorf("finalize round 1: states of different runs")
	}
	if err := a.params.checkVector(v); err != nil {
		return nil, err
	}
	if pub.Bins != a.params.Bins {
		return nil, configErrorf("state bin count %d, party bin count %d",
			pub.Bins, a.params.Bins)
	}
	if err := msg.check(); err != nil {
		return nil, err
	}
	if err := checkSession(msg, pub.Session, pub.Bins); err != nil {
		return nil, err
	}

	bins := pub.Bins
	wires := make([]ot.Wire, bins)
	zero := make([]Fingerprint, bins)
	one := make([]Fingerprint, bins)
	defer erase(wires)

	for i := 0; i < bins; i++ {
		r0, err := ot.NewLabel(a.rand)
		if err != nil {
			return nil, cryptoError(err, "finalize round 1")
		}
		r1, err := ot.NewLabel(a.rand)
		if err != nil {
			return nil, cryptoError(err, "finalize round 1")
		}
		// The one label is offered only when A holds the bin.
		wires[i].L0 = r0
		if v.Test(i) {
			wires[i].L1 = r1
		} else {
			wires[i].L1 = r0
		}
		zero[i] = fingerprint(pub.Session, i, r0)
		one[i] = fingerprint(pub.Session, i, r1)
	}

	ciphertexts, err := ot.EncryptLabels(priv.setup, pub.Session.tweak(),
		msg.Points, wires)
	if err != nil {
		return nil, cryptoError(err, "%s", TypeB1)
	}

	result := &RoundA2{
		Private: &PrivateA2{
			session: pub.Session,
		},
		Public: &PublicA2{
			Session: pub.Session,
			Bins:    bins,
			Zero:    zero,
			One:     one,
		},
		Message: &MessageA2{
			Session:     pub.Session,
			Bins:        bins,
			Ciphertexts: ciphertexts,
		},
	}
	a.logStage("finalize-round-1", pub.Session, result.Message)

	return result, nil
}

// Finalize consumes A's round 2 public state and B's round 2 message
// and returns the intersection: bit i is set iff both parties' vectors
// have bit i set.
func (a *PartyA) Finalize(pub *PublicA2, msg *MessageB2) (
	*bitvec.BitVector, error) {

	if pub == nil {
		return nil, usageErrorf("finalize: nil state")
	}
	if err := pub.consume("finalize: public state"); err != nil {
		return nil, err
	}
	if err := msg.check(); err != nil {
		return nil, err
	}
	if err := checkSession(msg, pub.Session, pub.Bins); err != nil {
		return nil, err
	}
	if len(pub.Zero) != pub.Bins || len(pub.One) != pub.Bins {
		return nil, usageErrorf("finalize: corrupted state")
	}

	result, err := bitvec.New(pub.Bins)
	if err != nil {
		return nil, configErrorf("finalize: %v", err)
	}
	for i, label := range msg.Labels {
		fp := fingerprint(pub.Session, i, label)
		isOne := fp.equal(pub.One[i])
		isZero := fp.equal(pub.Zero[i])
		if isOne == isZero {
			return nil, malformedf("%s: unknown label for bin %d",
				TypeB2, i)
		}
		if isOne {
			result.Set(i)
		}
	}
	a.logStage("finalize", pub.Session, nil)

	return result, nil
}

// erase clears the raw labels.
func erase(wires []ot.Wire) {
	for i := range wires {
		wires[i] = ot.Wire{}
	}
}
