//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"encoding/binary"

	"github.com/markkurossi/psi/bitvec"
)

var bo = binary.BigEndian

const (
	magic   byte = 'P'
	version byte = 1

	// headerSize is magic, version, type, session, and bin count.
	headerSize = 3 + SessionIDSize + 4
)

// encoder appends fixed-size fields to a byte buffer.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{
		buf: make([]byte, 0, size),
	}
}

func (e *encoder) header(t MessageType, session SessionID, bins int) {
	e.buf = append(e.buf, magic, version, byte(t))
	e.buf = append(e.buf, session[:]...)
	e.uint32(bins)
}

func (e *encoder) uint32(val int) {
	var tmp [4]byte
	bo.PutUint32(tmp[:], uint32(val))
	e.buf = append(e.buf, tmp[:]...)
}

func (e *encoder) data(val []byte) {
	e.buf = append(e.buf, val...)
}

// decoder consumes fixed-size fields from a byte buffer.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(data []byte) *decoder {
	return &decoder{
		buf: data,
	}
}

// header decodes and validates the message header. It checks that
// the remaining payload is exactly bins*itemSize+extra bytes.
func (d *decoder) header(t MessageType, itemSize, extra int) (
	SessionID, int, error) {

	var session SessionID

	if len(d.buf) < headerSize {
		return session, 0, malformedf("%s: truncated header: %d bytes",
			t, len(d.buf))
	}
	if d.buf[0] != magic {
		return session, 0, malformedf("%s: invalid magic 0x%02x", t, d.buf[0])
	}
	if d.buf[1] != version {
		return session, 0, malformedf("%s: unsupported version %d",
			t, d.buf[1])
	}
	if MessageType(d.buf[2]) != t {
		return session, 0, malformedf("%s: unexpected message type %s",
			t, MessageType(d.buf[2]))
	}
	copy(session[:], d.buf[3:3+SessionIDSize])
	d.pos = 3 + SessionIDSize

	bins := int(bo.Uint32(d.buf[d.pos:]))
	d.pos += 4
	if bins <= 0 || bins > bitvec.MaxLen {
		return session, 0, malformedf("%s: invalid bin count %d", t, bins)
	}
	expected := int64(bins)*int64(itemSize) + int64(extra)
	if int64(len(d.buf)-d.pos) != expected {
		return session, 0, malformedf("%s: payload is %d bytes, expected %d",
			t, len(d.buf)-d.pos, expected)
	}
	return session, bins, nil
}

func (d *decoder) data(n int) []byte {
	result := d.buf[d.pos : d.pos+n]
	d.pos += n
	return result
}
