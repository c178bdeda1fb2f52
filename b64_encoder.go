package rans

import (
	"encoding/binary"
	"math/bits"
)

// B64EncoderMulti is the 64-bit counterpart of ByteEncoderMulti: 64-bit
// states renormalized a whole little-endian 32-bit word at a time. It gets
// closer to the entropy bound than the byte-aligned variant (the state
// carries more precision) and is usually faster on 64-bit machines, at the
// cost of a bitstream that is not endian-neutral.
//
// The buffer discipline and stream mapping are the same as the byte-aligned
// variant: output is written backward, FlushAll runs streams 0..n-1, and
// decoder stream k picks up encoder stream n-1-k.
type B64EncoderMulti struct {
	states []uint64
	dst    []byte
	pos    int
	next   int
}

// NewB64EncoderMulti creates an encoder with n interleaved streams and an
// initial buffer capacity in bytes. The buffer grows as needed.
func NewB64EncoderMulti(n, capacity int) *B64EncoderMulti {
	if n < 1 {
		panic("rans: encoder needs at least one stream")
	}
	if capacity < n*b64StateBytes {
		capacity = n * b64StateBytes
	}
	e := &B64EncoderMulti{
		states: make([]uint64, n),
		dst:    make([]byte, capacity),
	}
	e.Reset()
	return e
}

// Reset rearms the encoder for a fresh stream, discarding buffered output.
func (e *B64EncoderMulti) Reset() {
	for i := range e.states {
		e.states[i] = b64LowBound
	}
	e.pos = len(e.dst)
	e.next = 0
}

// Streams returns the number of interleaved streams.
func (e *B64EncoderMulti) Streams() int { return len(e.states) }

// PutAt encodes one symbol into stream ch.
func (e *B64EncoderMulti) PutAt(ch int, sym B64EncSymbol) {
	x := e.states[ch]
	for x >= sym.xMax {
		e.prependWord(uint32(x))
		x >>= 32
	}
	// x = (x/freq)<<scaleBits + x%freq + start, via the exact reciprocal.
	hi, _ := bits.Mul64(x, sym.rcpFreq)
	q := hi >> sym.rcpShift
	e.states[ch] = x + sym.bias + q*sym.cmplFreq
}

// Put encodes one symbol into the next stream in round-robin order.
func (e *B64EncoderMulti) Put(sym B64EncSymbol) {
	e.PutAt(e.next, sym)
	e.next++
	if e.next == len(e.states) {
		e.next = 0
	}
}

// FlushAt prepends stream ch's final state as an 8-byte little-endian
// snapshot. Once a stream is flushed, no more symbols may be put into it
// until Reset.
func (e *B64EncoderMulti) FlushAt(ch int) {
	if e.pos < b64StateBytes {
		e.grow(b64StateBytes)
	}
	e.pos -= b64StateBytes
	binary.LittleEndian.PutUint64(e.dst[e.pos:], e.states[ch])
}

// FlushAll flushes every stream, in order 0..n-1.
func (e *B64EncoderMulti) FlushAll() {
	for ch := range e.states {
		e.FlushAt(ch)
	}
}

// Data returns the encoded stream. The slice aliases the internal buffer and
// is invalidated by further Put, Flush or Reset calls.
func (e *B64EncoderMulti) Data() []byte { return e.dst[e.pos:] }

// Len returns the number of encoded bytes buffered so far.
func (e *B64EncoderMulti) Len() int { return len(e.dst) - e.pos }

func (e *B64EncoderMulti) prependWord(w uint32) {
	if e.pos < b64WordBytes {
		e.grow(b64WordBytes)
	}
	e.pos -= b64WordBytes
	binary.LittleEndian.PutUint32(e.dst[e.pos:], w)
}

func (e *B64EncoderMulti) grow(need int) {
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

// B64Encoder is the single-stream 64-bit rANS encoder.
type B64Encoder struct {
	B64EncoderMulti
}

// NewB64Encoder creates a single-stream encoder with an initial buffer
// capacity in bytes.
func NewB64Encoder(capacity int) *B64Encoder {
	return &B64Encoder{*NewB64EncoderMulti(1, capacity)}
}

// Flush terminates the stream by prepending the final state snapshot. Put
// must not be called again until Reset.
func (e *B64Encoder) Flush() {
	e.FlushAt(0)
}
