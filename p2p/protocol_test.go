//
// protocol_test.go
//
// Copyright (c) 2023-2025 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

var tests = [][]byte{
	[]byte("Hello, world!"),
	make([]byte, 1024),
	{},
	make([]byte, writeBufSize-4),
	make([]byte, 2*1024*1024),
	{42},
}

func writer(c *Conn) {
	for _, test := range tests {
		if err := c.SendData(test); err != nil {
			fmt.Printf("SendData [%v]byte: %v\n", len(test), err)
		}
	}
	if err := c.Flush(); err != nil {
		fmt.Printf("Flush: %v\n", err)
	}
}

func TestProtocol(t *testing.T) {
	for _, test := range tests {
		for i := range test {
			test[i] = byte(i * 7)
		}
	}
	cw, c := Pipe()

	go writer(cw)

	for idx, test := range tests {
		v, err := c.ReceiveData()
		if err != nil {
			t.Fatalf("ReceiveData: %v", err)
		}
		if !bytes.Equal(v, test) {
			t.Errorf("ReceiveData %d: got [%v]byte, expected [%v]byte",
				idx, len(v), len(test))
		}
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type blob []byte

func (b blob) MarshalBinary() ([]byte, error) {
	return b, nil
}

type failing struct{}

var errMarshal = errors.New("marshal failed")

func (f failing) MarshalBinary() ([]byte, error) {
	return nil, errMarshal
}

func TestSendMessage(t *testing.T) {
	ca, cb := Pipe()

	msg := make(blob, 3*writeBufSize+17)
	for i := range msg {
		msg[i] = byte(i)
	}

	done := make(chan error, 1)
	go func() {
		done <- ca.SendMessage(msg)
	}()

	data, err := cb.ReceiveData()
	if err != nil {
		t.Fatalf("ReceiveData: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("message mismatch")
	}
	if got, want := ca.Stats.Sent.Load(), uint64(len(msg)+4); got != want {
		t.Errorf("sent %v bytes, expected %v", got, want)
	}
	if got, want := cb.Stats.Recvd.Load(), uint64(len(msg)+4); got != want {
		t.Errorf("received %v bytes, expected %v", got, want)
	}
	if ca.Stats.Flushed.Load() == 0 {
		t.Errorf("no flushes recorded")
	}

	if err := ca.SendMessage(failing{}); !errors.Is(err, errMarshal) {
		t.Errorf("SendMessage: got %v, expected %v", err, errMarshal)
	}
}

func TestReceiveInvalid(t *testing.T) {
	tests := [][]byte{
		{0xff, 0xff, 0xff, 0xff},
		{0x40, 0x00, 0x00, 0x01},
		{0x00, 0x00},
		{0x00, 0x00, 0x00, 0x08, 1, 2, 3},
	}
	for _, test := range tests {
		c := NewConn(bytes.NewBuffer(append([]byte(nil), test...)))
		if _, err := c.ReceiveData(); err == nil {
			t.Errorf("ReceiveData(%x) succeeded", test)
		}
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
}
