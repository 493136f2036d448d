//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"encoding"
	"fmt"

	"github.com/markkurossi/psi/ot"
)

// MessageType identifies the message by round and direction.
type MessageType byte

// Message types.
const (
	TypeA1 MessageType = iota + 1
	TypeB1
	TypeA2
	TypeB2
)

var messageTypeNames = map[MessageType]string{
	TypeA1: "A->B/1",
	TypeB1: "B->A/1",
	TypeA2: "A->B/2",
	TypeB2: "B->A/2",
}

func (t MessageType) String() string {
	name, ok := messageTypeNames[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{MessageType %d}", t)
}

// Message is an immutable protocol message. A message carries only
// public values and is consumed by exactly one stage of the peer.
type Message interface {
	encoding.BinaryMarshaler

	// Type returns the message type.
	Type() MessageType

	// SessionID returns the session identifier of the run.
	SessionID() SessionID

	// BinCount returns the bin count of the run.
	BinCount() int

	// Size returns the encoded message size in bytes.
	Size() int
}

var (
	_ Message = &MessageA1{}
	_ Message = &MessageB1{}
	_ Message = &MessageA2{}
	_ Message = &MessageB2{}
)

// ParseMessage decodes a message of any type.
func ParseMessage(data []byte) (Message, error) {
	if len(data) < 3 {
		return nil, malformedf("truncated message: %d bytes", len(data))
	}
	var msg interface {
		Message
		encoding.BinaryUnmarshaler
	}
	switch MessageType(data[2]) {
	case TypeA1:
		msg = new(MessageA1)
	case TypeB1:
		msg = new(MessageB1)
	case TypeA2:
		msg = new(MessageA2)
	case TypeB2:
		msg = new(MessageB2)
	default:
		return nil, malformedf("unknown message type %d", data[2])
	}
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// MessageA1 is A's round 1 message: the OT sender setup.
type MessageA1 struct {
	Session SessionID
	Bins    int
	S       *ot.Point
}

// Type implements Message.Type.
func (m *MessageA1) Type() MessageType {
	return TypeA1
}

// SessionID implements Message.SessionID.
func (m *MessageA1) SessionID() SessionID {
	return m.Session
}

// BinCount implements Message.BinCount.
func (m *MessageA1) BinCount() int {
	return m.Bins
}

// Size implements Message.Size.
func (m *MessageA1) Size() int {
	return headerSize + ot.PointSize
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageA1) MarshalBinary() ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	e := newEncoder(m.Size())
	e.header(TypeA1, m.Session, m.Bins)
	e.data(m.S.Bytes())
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MessageA1) UnmarshalBinary(data []byte) error {
	d := newDecoder(data)
	session, bins, err := d.header(TypeA1, 0, ot.PointSize)
	if err != nil {
		return err
	}
	S, err := ot.DecodePoint(d.data(ot.PointSize))
	if err != nil {
		return cryptoError(err, "%s: sender point", TypeA1)
	}
	m.Session = session
	m.Bins = bins
	m.S = S
	return nil
}

func (m *MessageA1) check() error {
	if m == nil {
		return usageErrorf("nil %s message", TypeA1)
	}
	if m.S == nil {
		return malformedf("%s: missing sender point", TypeA1)
	}
	return nil
}

// MessageB1 is B's round 1 message: one OT choice point per bin.
type MessageB1 struct {
	Session SessionID
	Bins    int
	Points  []*ot.Point
}

// Type implements Message.Type.
func (m *MessageB1) Type() MessageType {
	return TypeB1
}

// SessionID implements Message.SessionID.
func (m *MessageB1) SessionID() SessionID {
	return m.Session
}

// BinCount implements Message.BinCount.
func (m *MessageB1) BinCount() int {
	return m.Bins
}

// Size implements Message.Size.
func (m *MessageB1) Size() int {
	return headerSize + m.Bins*ot.PointSize
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageB1) MarshalBinary() ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	e := newEncoder(m.Size())
	e.header(TypeB1, m.Session, m.Bins)
	for _, p := range m.Points {
		e.data(p.Bytes())
	}
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MessageB1) UnmarshalBinary(data []byte) error {
	d := newDecoder(data)
	session, bins, err := d.header(TypeB1, ot.PointSize, 0)
	if err != nil {
		return err
	}
	points := make([]*ot.Point, bins)
	for i := range points {
		points[i], err = ot.DecodePoint(d.data(ot.PointSize))
		if err != nil {
			return cryptoError(err, "%s: choice point %d", TypeB1, i)
		}
	}
	m.Session = session
	m.Bins = bins
	m.Points = points
	return nil
}

func (m *MessageB1) check() error {
	if m == nil {
		return usageErrorf("nil %s message", TypeB1)
	}
	if len(m.Points) != m.Bins {
		return malformedf("%s: %d points for %d bins", TypeB1,
			len(m.Points), m.Bins)
	}
	for i, p := range m.Points {
		if p == nil {
			return malformedf("%s: missing choice point %d", TypeB1, i)
		}
	}
	return nil
}

// MessageA2 is A's round 2 message: the encrypted label pair of each
// bin.
type MessageA2 struct {
	Session     SessionID
	Bins        int
	Ciphertexts []ot.LabelCiphertext
}

// Type implements Message.Type.
func (m *MessageA2) Type() MessageType {
	return TypeA2
}

// SessionID implements Message.SessionID.
func (m *MessageA2) SessionID() SessionID {
	return m.Session
}

// BinCount implements Message.BinCount.
func (m *MessageA2) BinCount() int {
	return m.Bins
}

// Size implements Message.Size.
func (m *MessageA2) Size() int {
	return headerSize + m.Bins*2*ot.LabelSize
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageA2) MarshalBinary() ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	e := newEncoder(m.Size())
	e.header(TypeA2, m.Session, m.Bins)
	for _, c := range m.Ciphertexts {
		e.data(c.Zero[:])
		e.data(c.One[:])
	}
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MessageA2) UnmarshalBinary(data []byte) error {
	d := newDecoder(data)
	session, bins, err := d.header(TypeA2, 2*ot.LabelSize, 0)
	if err != nil {
		return err
	}
	ciphertexts := make([]ot.LabelCiphertext, bins)
	for i := range ciphertexts {
		copy(ciphertexts[i].Zero[:], d.data(ot.LabelSize))
		copy(ciphertexts[i].One[:], d.data(ot.LabelSize))
	}
	m.Session = session
	m.Bins = bins
	m.Ciphertexts = ciphertexts
	return nil
}

func (m *MessageA2) check() error {
	if m == nil {
		return usageErrorf("nil %s message", TypeA2)
	}
	if len(m.Ciphertexts) != m.Bins {
		return malformedf("%s: %d ciphertexts for %d bins", TypeA2,
			len(m.Ciphertexts), m.Bins)
	}
	return nil
}

// MessageB2 is B's round 2 message: the label B received for each
// bin.
type MessageB2 struct {
	Session SessionID
	Bins    int
	Labels  []ot.Label
}

// Type implements Message.Type.
func (m *MessageB2) Type() MessageType {
	return TypeB2
}

// SessionID implements Message.SessionID.
func (m *MessageB2) SessionID() SessionID {
	return m.Session
}

// BinCount implements Message.BinCount.
func (m *MessageB2) BinCount() int {
	return m.Bins
}

// Size implements Message.Size.
func (m *MessageB2) Size() int {
	return headerSize + m.Bins*ot.LabelSize
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *MessageB2) MarshalBinary() ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	e := newEncoder(m.Size())
	e.header(TypeB2, m.Session, m.Bins)

	var data ot.LabelData
	for _, l := range m.Labels {
		e.data(l.Bytes(&data))
	}
	return e.buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MessageB2) UnmarshalBinary(data []byte) error {
	d := newDecoder(data)
	session, bins, err := d.header(TypeB2, ot.LabelSize, 0)
	if err != nil {
		return err
	}
	labels := make([]ot.Label, bins)
	for i := range labels {
		labels[i].SetBytes(d.data(ot.LabelSize))
	}
	m.Session = session
	m.Bins = bins
	m.Labels = labels
	return nil
}

func (m *MessageB2) check() error {
	if m == nil {
		return usageErrorf("nil %s message", TypeB2)
	}
	if len(m.Labels) != m.Bins {
		return malformedf("%s: %d labels for %d bins", TypeB2,
			len(m.Labels), m.Bins)
	}
	return nil
}

// checkSession verifies that the message belongs to the run of the
// state.
func checkSession(msg Message, session SessionID, bins int) error {
	if msg.SessionID() != session {
		return malformedf("%s: session %s, expected %s", msg.Type(),
			msg.SessionID().Short(), session.Short())
	}
	if msg.BinCount() != bins {
		return malformedf("%s: bin count %d, expected %d", msg.Type(),
			msg.BinCount(), bins)
	}
	return nil
}
