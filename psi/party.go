//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"io"

	"github.com/markkurossi/psi/env"
	"github.com/rs/zerolog"
)

// party holds the configuration common to both roles. It is immutable
// after creation and safe for concurrent use; all per-run state lives
// in the state objects.
type party struct {
	params Params
	rand   io.Reader
	log    *zerolog.Logger
}

func newParty(role string, params Params, config *env.Config) (party, error) {
	if err := params.Validate(); err != nil {
		return party{}, err
	}
	log := config.GetLogger().With().Str("role", role).Logger()
	return party{
		params: params,
		rand:   config.GetRandom(),
		log:    &log,
	}, nil
}

// Params returns the party's protocol parameters.
func (p *party) Params() Params {
	return p.params
}

func (p *party) logStage(stage string, session SessionID, msg Message) {
	ev := p.log.Debug().
		Str("stage", stage).
		Str("session", session.Short()).
		Int("bins", p.params.Bins)
	if msg != nil {
		ev = ev.Stringer("message", msg.Type()).Int("size", msg.Size())
	}
	ev.Msg("psi: stage complete")
}
