//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/psi/bitvec"
)

// SessionIDSize defines the session identifier size in bytes.
const SessionIDSize = 16

// SessionID identifies one protocol run. Party A samples it in Init
// and every message and state object of the run carries it.
type SessionID [SessionIDSize]byte

func (id SessionID) String() string {
	return fmt.Sprintf("%x", id[:])
}

// Short returns an abbreviated session identifier for logging.
func (id SessionID) Short() string {
	return fmt.Sprintf("%x", id[:4])
}

func newSessionID(rand io.Reader) (SessionID, error) {
	var id SessionID
	if _, err := io.ReadFull(rand, id[:]); err != nil {
		return id, errors.Mark(errors.Wrap(err, "psi: read session id"),
			ErrRandomness)
	}
	return id, nil
}

// tweak returns the OT mask tweak for the session.
func (id SessionID) tweak() []byte {
	return append([]byte("psi/ot/v1:"), id[:]...)
}

// Params define the protocol parameters both parties agree on before
// the protocol starts.
type Params struct {
	// Bins is the bin count, that is, the length of both parties'
	// bit vectors.
	Bins int
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.Bins <= 0 || p.Bins > bitvec.MaxLen {
		return configErrorf("invalid bin count %d", p.Bins)
	}
	return nil
}

// checkVector checks that the vector matches the bin count.
func (p Params) checkVector(v *bitvec.BitVector) error {
	if v == nil {
		return usageErrorf("nil bit vector")
	}
	if v.Len() != p.Bins {
		return configErrorf("bit vector length %d, bin count %d",
			v.Len(), p.Bins)
	}
	return nil
}
