//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements length-prefixed message framing over a
// byte stream. It carries the protocol messages between the parties
// in tests and examples; the PSI core does not depend on it.
package p2p

import (
	"encoding"
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

var bo = binary.BigEndian

const (
	numBuffers   = 3
	writeBufSize = 64 * 1024
	readBufSize  = 1024 * 1024

	// MaxDataSize limits the size of a single data item.
	MaxDataSize = 1 << 30
)

// Conn frames data items over a byte stream. Writes are buffered and
// handed to a writer goroutine on Flush.
type Conn struct {
	conn  io.ReadWriter
	Stats IOStats

	wbuf  []byte
	wpos  int
	rbuf  []byte
	start int
	end   int

	fromWriter chan []byte
	toWriter   chan []byte
	writerErr  atomic.Value
}

// IOStats counts the bytes and flushes of a connection.
type IOStats struct {
	Sent    *atomic.Uint64
	Recvd   *atomic.Uint64
	Flushed *atomic.Uint64
}

// NewIOStats creates a new I/O statistics object.
func NewIOStats() IOStats {
	return IOStats{
		Sent:    new(atomic.Uint64),
		Recvd:   new(atomic.Uint64),
		Flushed: new(atomic.Uint64),
	}
}

// NewConn creates a new connection around the byte stream.
func NewConn(conn io.ReadWriter) *Conn {
	c := &Conn{
		conn:       conn,
		Stats:      NewIOStats(),
		rbuf:       make([]byte, readBufSize),
		fromWriter: make(chan []byte, numBuffers),
		toWriter:   make(chan []byte, numBuffers),
	}
	go c.writer()
	c.wbuf = <-c.fromWriter

	return c
}

func (c *Conn) writer() {
	for i := 0; i < numBuffers; i++ {
		c.fromWriter <- make([]byte, writeBufSize)
	}
	for buf := range c.toWriter {
		if _, err := c.conn.Write(buf); err != nil {
			c.writerErr.CompareAndSwap(nil, err)
		}
		c.fromWriter <- buf[:cap(buf)]
	}
	close(c.fromWriter)
}

func (c *Conn) err() error {
	err, _ := c.writerErr.Load().(error)
	return err
}

// Flush hands any buffered data to the writer.
func (c *Conn) Flush() error {
	if c.wpos == 0 {
		return nil
	}
	c.Stats.Sent.Add(uint64(c.wpos))
	c.toWriter <- c.wbuf[:c.wpos]

	next := <-c.fromWriter
	if err := c.err(); err != nil {
		return err
	}
	c.wbuf = next
	c.wpos = 0
	c.Stats.Flushed.Add(1)

	return nil
}

// Close flushes pending data, waits for the writer, and closes the
// underlying stream if it is an io.Closer.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	close(c.toWriter)
	for range c.fromWriter {
	}
	if err := c.err(); err != nil {
		return err
	}
	if closer, ok := c.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SendData sends a length-prefixed data item. Items larger than the
// write buffer are sent in buffer-sized chunks.
func (c *Conn) SendData(val []byte) error {
	if len(val) > MaxDataSize {
		return errors.Newf("p2p: data too large: %d > %d",
			len(val), MaxDataSize)
	}
	if c.wpos+4 > len(c.wbuf) {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	bo.PutUint32(c.wbuf[c.wpos:], uint32(len(val)))
	c.wpos += 4

	for len(val) > 0 {
		if c.wpos == len(c.wbuf) {
			if err := c.Flush(); err != nil {
				return err
			}
		}
		n := copy(c.wbuf[c.wpos:], val)
		c.wpos += n
		val = val[n:]
	}
	return nil
}

// SendMessage marshals the message, sends it as a data item, and
// flushes the connection.
func (c *Conn) SendMessage(msg encoding.BinaryMarshaler) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	if err := c.SendData(data); err != nil {
		return err
	}
	return c.Flush()
}

// fill reads from the stream until at least n unread bytes are
// buffered. Unread data is moved to the beginning of the buffer.
func (c *Conn) fill(n int) error {
	if n > len(c.rbuf) {
		return errors.Newf("p2p: fill %d exceeds buffer size %d",
			n, len(c.rbuf))
	}
	copy(c.rbuf, c.rbuf[c.start:c.end])
	c.end -= c.start
	c.start = 0

	for c.end < n {
		got, err := c.conn.Read(c.rbuf[c.end:])
		c.Stats.Recvd.Add(uint64(got))
		c.end += got
		if err != nil && c.end < n {
			return err
		}
	}
	return nil
}

// ReceiveData receives a length-prefixed data item.
func (c *Conn) ReceiveData() ([]byte, error) {
	if c.end-c.start < 4 {
		if err := c.fill(4); err != nil {
			return nil, err
		}
	}
	length := bo.Uint32(c.rbuf[c.start:])
	c.start += 4
	if length > MaxDataSize {
		return nil, errors.Newf("p2p: data too large: %d > %d",
			length, MaxDataSize)
	}
	l := int(length)
	result := make([]byte, l)

	if l <= len(c.rbuf) {
		if c.end-c.start < l {
			if err := c.fill(l); err != nil {
				return nil, err
			}
		}
		copy(result, c.rbuf[c.start:c.start+l])
		c.start += l
		return result, nil
	}

	// Drain the buffer and read the rest directly.
	n := copy(result, c.rbuf[c.start:c.end])
	c.start += n
	got, err := io.ReadFull(c.conn, result[n:])
	c.Stats.Recvd.Add(uint64(got))
	if err != nil {
		return nil, err
	}
	return result, nil
}
