package rans

import (
	"github.com/pkg/errors"
)

// Core constants for the rANS state machines.
//
// A state is valid when it lies in the renormalization interval
// [lowBound, radix*lowBound). The encoder renormalizes *before* applying the
// symbol transform so the state cannot overflow its register; the decoder
// renormalizes *after* removing a symbol so the state never starves. Keeping
// the interval boundaries at powers of two is what makes renormalization a
// plain shift-and-emit loop.
const (
	// Byte-aligned variant: 32-bit state, radix 256.
	byteLowBits      = 23
	byteLowBound     = uint32(1) << byteLowBits // renorm interval [1<<23, 1<<31)
	byteStateBytes   = 4
	byteMaxScaleBits = 16

	// 64-bit variant: 64-bit state, radix 1<<32 (whole little-endian words).
	b64LowBits      = 31
	b64LowBound     = uint64(1) << b64LowBits // renorm interval [1<<31, 1<<63)
	b64StateBytes   = 8
	b64WordBytes    = 4
	b64MaxScaleBits = 31
)

// ErrSourceExhausted is returned when decoding needs renormalization input
// past the end of the buffer. It means the stream is truncated or the caller
// is decoding more symbols than were encoded; symbol counts are tracked
// outside the coder, so this is the only end-of-input signal there is.
var ErrSourceExhausted = errors.New("rans: encoded input exhausted")

// ErrShortInput is returned when a decoder's input cannot hold the initial
// state snapshots written by the encoder's flush.
var ErrShortInput = errors.New("rans: input shorter than initial state snapshot")
