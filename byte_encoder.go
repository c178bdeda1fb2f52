package rans

import (
	"encoding/binary"
)

// ByteEncoderMulti interleaves n independent byte-aligned rANS states over a
// single output buffer. The states share nothing but the buffer and the
// interleave order, which removes the data dependency between consecutive
// symbols of a single state and is the whole point of the multi-stream
// variant.
//
// Bytes are written backward from the end of the buffer, so Data returns a
// stream the decoder consumes front to back: last-flushed state snapshot
// first, then renormalization bytes in reverse order of production. FlushAll
// flushes streams 0..n-1 with each flush prepending its snapshot, which
// means decoder stream k picks up encoder stream n-1-k. That mapping is part
// of the wire contract.
type ByteEncoderMulti struct {
	states []uint32
	dst    []byte
	pos    int // dst[pos:] is the encoded stream
	next   int // round-robin cursor for Put
}

// NewByteEncoderMulti creates an encoder with n interleaved streams and an
// initial buffer capacity in bytes. The buffer grows as needed; capacity is
// only a hint.
func NewByteEncoderMulti(n, capacity int) *ByteEncoderMulti {
	if n < 1 {
		panic("rans: encoder needs at least one stream")
	}
	if capacity < n*byteStateBytes {
		capacity = n * byteStateBytes
	}
	e := &ByteEncoderMulti{
		states: make([]uint32, n),
		dst:    make([]byte, capacity),
	}
	e.Reset()
	return e
}

// Reset rearms the encoder for a fresh stream, discarding buffered output.
func (e *ByteEncoderMulti) Reset() {
	for i := range e.states {
		e.states[i] = byteLowBound
	}
	e.pos = len(e.dst)
	e.next = 0
}

// Streams returns the number of interleaved streams.
func (e *ByteEncoderMulti) Streams() int { return len(e.states) }

// PutAt encodes one symbol into stream ch. The matching decode must read
// symbols back in reverse order of the Put calls, across all streams.
func (e *ByteEncoderMulti) PutAt(ch int, sym ByteEncSymbol) {
	x := e.states[ch]
	for x >= sym.xMax {
		e.prepend(byte(x))
		x >>= 8
	}
	// x = (x/freq)<<scaleBits + x%freq + start, via the exact reciprocal.
	q := uint32((uint64(x)*uint64(sym.rcpFreq))>>32) >> sym.rcpShift
	e.states[ch] = x + sym.bias + q*sym.cmplFreq
}

// Put encodes one symbol into the next stream in round-robin order, cycling
// through streams 0..n-1. With a single stream it is the plain encode call.
func (e *ByteEncoderMulti) Put(sym ByteEncSymbol) {
	e.PutAt(e.next, sym)
	e.next++
	if e.next == len(e.states) {
		e.next = 0
	}
}

// FlushAt prepends stream ch's final state as a 4-byte little-endian
// snapshot. Once a stream is flushed, no more symbols may be put into it
// until Reset.
func (e *ByteEncoderMulti) FlushAt(ch int) {
	if e.pos < byteStateBytes {
		e.grow(byteStateBytes)
	}
	e.pos -= byteStateBytes
	binary.LittleEndian.PutUint32(e.dst[e.pos:], e.states[ch])
}

// FlushAll flushes every stream, in order 0..n-1.
func (e *ByteEncoderMulti) FlushAll() {
	for ch := range e.states {
		e.FlushAt(ch)
	}
}

// Data returns the encoded stream. The slice aliases the internal buffer and
// is invalidated by further Put, Flush or Reset calls.
func (e *ByteEncoderMulti) Data() []byte { return e.dst[e.pos:] }

// Len returns the number of encoded bytes buffered so far.
func (e *ByteEncoderMulti) Len() int { return len(e.dst) - e.pos }

func (e *ByteEncoderMulti) prepend(b byte) {
	if e.pos == 0 {
		e.grow(1)
	}
	e.pos--
	e.dst[e.pos] = b
}

// grow reallocates dst so that at least need bytes fit in front of the
// already-encoded tail. The tail keeps its contents; only pos moves.
func (e *ByteEncoderMulti) grow(need int) {
	n := 2 * len(e.dst)
	if n < len(e.dst)+need {
		n = len(e.dst) + need
	}
	if n < 64 {
		n = 64
	}
	tail := len(e.dst) - e.pos
	dst := make([]byte, n)
	copy(dst[n-tail:], e.dst[e.pos:])
	e.dst = dst
	e.pos = n - tail
}

// ByteEncoder is the single-stream byte-aligned rANS encoder.
type ByteEncoder struct {
	ByteEncoderMulti
}

// NewByteEncoder creates a single-stream encoder with an initial buffer
// capacity in bytes.
func NewByteEncoder(capacity int) *ByteEncoder {
	return &ByteEncoder{*NewByteEncoderMulti(1, capacity)}
}

// Flush terminates the stream by prepending the final state snapshot. Put
// must not be called again until Reset.
func (e *ByteEncoder) Flush() {
	e.FlushAt(0)
}
