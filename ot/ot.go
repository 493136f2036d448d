//
// ot.go
//
// Copyright (c) 2023-2025 Markku Rossi
//
// All rights reserved.

// Package ot implements the Chou-Orlandi 1-out-of-2 oblivious
// transfer over the Edwards25519 prime-order group. The sender offers
// a Wire with zero and one Label; the receiver learns exactly one of
// them according to its choice bit and the sender learns nothing
// about the choice.
package ot
