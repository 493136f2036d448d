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

// PartyB implements the responding party. Its run advances through
// RespondRound1 and RespondRound2. Party B never receives the
// intersection.
type PartyB struct {
	party
}

// NewPartyB creates party B. This is the explicit initialization step:
// it validates the parameters and binds the configuration. A PartyB
// can run any number of independent protocol runs.
func NewPartyB(params Params, config *env.Config) (*PartyB, error) {
	p, err := newParty("B", params, config)
	if err != nil {
		return nil, err
	}
	return &PartyB{
		party: p,
	}, nil
}

// RespondRound1 consumes A's round 1 message and B's bit vector. It
// returns B's round 1 state and message. The message contains one OT
// choice point per bin; the points are uniformly distributed
// regardless of B's bits.
func (b *PartyB) RespondRound1(msg *MessageA1, v *bitvec.BitVector) (
	*PrivateB1, *PublicB1, *MessageB1, error) {

	if err := msg.check(); err != nil {
		return nil, nil, nil, err
	}
	if msg.Bins != b.params.Bins {
		return nil, nil, nil, configErrorf(
			"%s: bin count %d, party bin count %d",
			TypeA1, msg.Bins, b.params.Bins)
	}
	if err := b.params.checkVector(v); err != nil {
		return nil, nil, nil, err
	}

	bundle, points, err := ot.BuildChoices(b.rand, msg.S, v.Bits())
	if err != nil {
		return nil, nil, nil, cryptoError(err, "respond round 1")
	}

	priv := &PrivateB1{
		session: msg.Session,
		bundle:  bundle,
	}
	pub := &PublicB1{
		Session: msg.Session,
		Bins:    msg.Bins,
		S:       msg.S.Clone(),
	}
	out := &MessageB1{
		Session: msg.Session,
		Bins:    msg.Bins,
		Points:  points,
	}
	b.logStage("respond-round-1", msg.Session, out)

	return priv, pub, out, nil
}

// RespondRound2 consumes B's round 1 state and A's round 2 message
// and returns B's final message. B's part of the run ends here.
func (b *PartyB) RespondRound2(priv *PrivateB1, pub *PublicB1,
	msg *MessageA2) (*MessageB2, error) {

	if priv == nil || pub == nil {
		return nil, usageErrorf("respond round 2: nil state")
	}
	if err := priv.consume("respond round 2: private state"); err != nil {
		return nil, err
	}
	defer priv.zeroize()
	if err := pub.consume("respond round 2: public state"); err != nil {
		return nil, err
	}
	if priv.session != pub.Session {
		return nil, usageErrorf("respond round 2: states of different runs")
	}
	if err := msg.check(); err != nil {
		return nil, err
	}
	if err := checkSession(msg, pub.Session, pub.Bins); err != nil {
		return nil, err
	}
	if !priv.bundle.A.Equal(pub.S) {
		return nil, usageErrorf("respond round 2: inconsistent states")
	}

	labels, err := ot.DecryptLabels(priv.bundle, pub.Session.tweak(),
		msg.Ciphertexts)
	if err != nil {
		return nil, cryptoError(err, "%s", TypeA2)
	}

	out := &MessageB2{
		Session: pub.Session,
		Bins:    pub.Bins,
		Labels:  labels,
	}
	b.logStage("respond-round-2", pub.Session, out)

	return out, nil
}
