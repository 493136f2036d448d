//
// label.go
//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// LabelSize defines the label size in bytes.
const LabelSize = 16

// Wire implements a wire with 0 and 1 labels.
type Wire struct {
	L0 Label
	L1 Label
}

// Label implements a 128 bit label.
type Label struct {
	D0 uint64
	D1 uint64
}

// LabelData contains label data as byte array.
type LabelData [LabelSize]byte

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D0, l.D1)
}

// Equal tests if the labels are equal. The comparison runs in
// constant time.
func (l Label) Equal(o Label) bool {
	var a, b LabelData
	l.GetData(&a)
	o.GetData(&b)
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// NewLabel creates a new random label.
func NewLabel(rand io.Reader) (Label, error) {
	var buf LabelData
	var label Label

	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return label, errors.Mark(errors.Wrap(err, "ot: read label"),
			ErrRandom)
	}
	label.SetData(&buf)
	return label, nil
}

// GetData gets the labels as label data.
func (l Label) GetData(buf *LabelData) {
	bo.PutUint64(buf[0:8], l.D0)
	bo.PutUint64(buf[8:16], l.D1)
}

// SetData sets the labels from label data.
func (l *Label) SetData(data *LabelData) {
	l.D0 = bo.Uint64((*data)[0:8])
	l.D1 = bo.Uint64((*data)[8:16])
}

// Bytes returns the label data as bytes.
func (l Label) Bytes(buf *LabelData) []byte {
	l.GetData(buf)
	return buf[:]
}

// SetBytes sets the label data from bytes.
func (l *Label) SetBytes(data []byte) {
	l.D0 = bo.Uint64(data[0:8])
	l.D1 = bo.Uint64(data[8:16])
}
