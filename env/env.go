//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the PSI protocol.
package env

import (
	"crypto/rand"
	"io"

	"github.com/rs/zerolog"
)

var nopLogger = zerolog.Nop()

// Config defines the global system configuration for the PSI
// parties. Config must not be modified after being passed to a
// party. It is safe for concurrent use by multiple parties as they do
// not modify it.
type Config struct {
	// Rand is the source of entropy. If unset, crypto/rand is used.
	Rand io.Reader

	// Logger receives debug traces of protocol stages. Secret
	// material is never logged.
	Logger *zerolog.Logger
}

// GetRandom returns the source of entropy for OT, label, and session
// identifier generation.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLogger returns the configured logger or a no-op logger.
func (config *Config) GetLogger() *zerolog.Logger {
	if config != nil && config.Logger != nil {
		return config.Logger
	}
	return &nopLogger
}
