//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"github.com/cockroachdb/errors"
	"github.com/markkurossi/psi/ot"
)

// Error kinds. Every error returned by a protocol stage matches
// exactly one of these with errors.Is.
var (
	// ErrConfiguration signals mismatching bin counts or vector
	// lengths between the parties, or invalid parameters.
	ErrConfiguration = errors.New("psi: configuration error")

	// ErrMalformedMessage signals a message that failed structural,
	// decoding, or cryptographic validation.
	ErrMalformedMessage = errors.New("psi: malformed message")

	// ErrRandomness signals that the secure random source failed.
	ErrRandomness = errors.New("psi: secure randomness unavailable")

	// ErrStateConsumed signals reuse of a single-use state object.
	ErrStateConsumed = errors.New("psi: state already consumed")

	// ErrUsage signals invalid API usage such as nil arguments or
	// mixing state objects of different runs.
	ErrUsage = errors.New("psi: invalid usage")
)

// ErrorKind classifies protocol errors.
type ErrorKind int

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindMalformedMessage
	KindRandomness
	KindStateConsumed
	KindUsage
)

var kindNames = map[ErrorKind]string{
	KindUnknown:          "unknown",
	KindConfiguration:    "configuration",
	KindMalformedMessage: "malformed-message",
	KindRandomness:       "randomness",
	KindStateConsumed:    "state-consumed",
	KindUsage:            "usage",
}

func (k ErrorKind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return "unknown"
}

// Kind returns the kind of the error.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrMalformedMessage):
		return KindMalformedMessage
	case errors.Is(err, ErrRandomness):
		return KindRandomness
	case errors.Is(err, ErrStateConsumed):
		return KindStateConsumed
	case errors.Is(err, ErrUsage):
		return KindUsage
	default:
		return KindUnknown
	}
}

func configErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedMessage, format, args...)
}

func usageErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUsage, format, args...)
}

// cryptoError maps errors of the OT layer to protocol error kinds.
func cryptoError(err error, format string, args ...interface{}) error {
	wrapped := errors.Wrapf(err, format, args...)
	switch {
	case errors.Is(err, ot.ErrRandom):
		return errors.Mark(wrapped, ErrRandomness)
	case errors.Is(err, ot.ErrInvalidPoint), errors.Is(err, ot.ErrCount):
		return errors.Mark(wrapped, ErrMalformedMessage)
	default:
		return wrapped
	}
}
