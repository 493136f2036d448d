//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"bytes"
	"testing"
)

// messages returns the messages of one protocol run in order.
func messages(t *testing.T) []Message {
	t.Helper()

	a, b := parties(t, 8, "messages")
	privA0, pubA0, msgA1, err := a.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	privB1, pubB1, msgB1, err := b.RespondRound1(msgA1,
		parse(t, "11100011"))
	if err != nil {
		t.Fatalf("RespondRound1: %v", err)
	}
	round2, err := a.FinalizeRound1(privA0, pubA0, msgB1,
		parse(t, "10110010"))
	if err != nil {
		t.Fatalf("FinalizeRound1: %v", err)
	}
	msgB2, err := b.RespondRound2(privB1, pubB1, round2.Message)
	if err != nil {
		t.Fatalf("RespondRound2: %v", err)
	}
	return []Message{msgA1, msgB1, round2.Message, msgB2}
}

func marshal(t *testing.T, msg Message) []byte {
	t.Helper()
	data, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("%s: MarshalBinary: %v", msg.Type(), err)
	}
	return data
}

func TestMessageCodec(t *testing.T) {
	types := []MessageType{TypeA1, TypeB1, TypeA2, TypeB2}

	for idx, msg := range messages(t) {
		if msg.Type() != types[idx] {
			t.Errorf("message %d: type %s, expected %s",
				idx, msg.Type(), types[idx])
		}
		data := marshal(t, msg)
		if len(data) != msg.Size() {
			t.Errorf("%s: encoded %d bytes, Size %d",
				msg.Type(), len(data), msg.Size())
		}
		if !bytes.Equal(data, marshal(t, msg)) {
			t.Errorf("%s: encoding is not deterministic", msg.Type())
		}
		parsed, err := ParseMessage(data)
		if err != nil {
			t.Fatalf("%s: ParseMessage: %v", msg.Type(), err)
		}
		if parsed.Type() != msg.Type() ||
			parsed.SessionID() != msg.SessionID() ||
			parsed.BinCount() != msg.BinCount() {
			t.Errorf("%s: header mismatch after decoding", msg.Type())
		}
		if !bytes.Equal(data, marshal(t, parsed)) {
			t.Errorf("%s: re-encoding differs", msg.Type())
		}
	}
}

func TestMessageMalformed(t *testing.T) {
	tamper := []struct {
		name string
		f    func(data []byte) []byte
	}{
		{"truncated", func(data []byte) []byte {
			return data[:len(data)-1]
		}},
		{"trailing", func(data []byte) []byte {
			return append(data, 0)
		}},
		{"header", func(data []byte) []byte {
			return data[:headerSize-1]
		}},
		{"magic", func(data []byte) []byte {
			data[0] ^= 0xff
			return data
		}},
		{"version", func(data []byte) []byte {
			data[1] = version + 1
			return data
		}},
		{"type", func(data []byte) []byte {
			data[2] = 42
			return data
		}},
		{"bins", func(data []byte) []byte {
			copy(data[3+SessionIDSize:], []byte{0, 0, 0, 0})
			return data
		}},
		{"bins-overflow", func(data []byte) []byte {
			copy(data[3+SessionIDSize:], []byte{0x80, 0, 0, 0})
			return data
		}},
		{"bins-max", func(data []byte) []byte {
			copy(data[3+SessionIDSize:], []byte{0xff, 0xff, 0xff, 0xff})
			return data
		}},
		{"short", func(data []byte) []byte {
			return data[:2]
		}},
	}
	for _, msg := range messages(t) {
		for _, test := range tamper {
			data := test.f(marshal(t, msg))
			_, err := ParseMessage(data)
			if Kind(err) != KindMalformedMessage {
				t.Errorf("%s/%s: got %v, expected %v",
					msg.Type(), test.name, err, KindMalformedMessage)
			}
		}
	}
}

func TestMessageWrongType(t *testing.T) {
	msgs := messages(t)
	data := marshal(t, msgs[0])

	var m MessageB1
	if err := m.UnmarshalBinary(data); Kind(err) != KindMalformedMessage {
		t.Errorf("UnmarshalBinary: got %v, expected %v",
			err, KindMalformedMessage)
	}
}

func TestMessageInvalidPoint(t *testing.T) {
	identity := make([]byte, 32)
	identity[0] = 1

	msgs := messages(t)

	data := marshal(t, msgs[0])
	copy(data[headerSize:], identity)
	if _, err := ParseMessage(data); Kind(err) != KindMalformedMessage {
		t.Errorf("%s: got %v, expected %v", TypeA1, err, KindMalformedMessage)
	}

	data = marshal(t, msgs[1])
	copy(data[headerSize+3*32:], identity)
	if _, err := ParseMessage(data); Kind(err) != KindMalformedMessage {
		t.Errorf("%s: got %v, expected %v", TypeB1, err, KindMalformedMessage)
	}
}

func TestMessageIncomplete(t *testing.T) {
	msgs := messages(t)

	tests := []Message{
		&MessageA1{
			Session: msgs[0].SessionID(),
			Bins:    8,
		},
		&MessageB1{
			Session: msgs[1].SessionID(),
			Bins:    8,
			Points:  msgs[1].(*MessageB1).Points[:7],
		},
		&MessageA2{
			Session:     msgs[2].SessionID(),
			Bins:        9,
			Ciphertexts: msgs[2].(*MessageA2).Ciphertexts,
		},
		&MessageB2{
			Session: msgs[3].SessionID(),
			Bins:    8,
		},
	}
	for _, msg := range tests {
		_, err := msg.MarshalBinary()
		if Kind(err) != KindMalformedMessage {
			t.Errorf("%s: got %v, expected %v",
				msg.Type(), err, KindMalformedMessage)
		}
	}

	var nilMsg *MessageA1
	if _, err := nilMsg.MarshalBinary(); Kind(err) != KindUsage {
		t.Errorf("nil message: got %v, expected %v", err, KindUsage)
	}
}

func TestMessageTypeString(t *testing.T) {
	if TypeA2.String() != "A->B/2" {
		t.Errorf("TypeA2: got %s", TypeA2)
	}
	if MessageType(9).String() != "{MessageType 9}" {
		t.Errorf("MessageType(9): got %s", MessageType(9))
	}
}
