package rans

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// B64DecoderMulti mirrors B64EncoderMulti: n independent 64-bit rANS states
// advancing over one shared input buffer, refilled a little-endian 32-bit
// word at a time. Decode order and stream mapping follow the same contract
// as the byte-aligned decoder.
type B64DecoderMulti struct {
	states []uint64
	src    []byte
	pos    int
}

// NewB64DecoderMulti creates a decoder with n interleaved streams, reading
// one 8-byte little-endian state snapshot per stream from the front of src.
func NewB64DecoderMulti(n int, src []byte) (*B64DecoderMulti, error) {
	if n < 1 {
		panic("rans: decoder needs at least one stream")
	}
	if len(src) < n*b64StateBytes {
		return nil, errors.Wrapf(ErrShortInput, "%d bytes for %d 64-bit streams", len(src), n)
	}
	d := &B64DecoderMulti{
		states: make([]uint64, n),
		src:    src,
	}
	for i := range d.states {
		d.states[i] = binary.LittleEndian.Uint64(src[d.pos:])
		d.pos += b64StateBytes
	}
	return d, nil
}

// Streams returns the number of interleaved streams.
func (d *B64DecoderMulti) Streams() int { return len(d.states) }

// GetAt returns the cumulative-frequency slot of stream ch's current symbol,
// state mod 1<<scaleBits, without mutating the decoder.
func (d *B64DecoderMulti) GetAt(ch int, scaleBits uint) uint32 {
	return uint32(d.states[ch] & ((uint64(1) << scaleBits) - 1))
}

// AdvanceStepAt removes the current symbol from stream ch's state without
// consuming input.
func (d *B64DecoderMulti) AdvanceStepAt(ch int, sym B64DecSymbol, scaleBits uint) {
	x := d.states[ch]
	slot := x & ((uint64(1) << scaleBits) - 1)
	d.states[ch] = uint64(sym.freq)*(x>>scaleBits) + slot - uint64(sym.start)
}

// RenormAt refills stream ch's state from the input one 32-bit word at a
// time until it is back above the lower bound. With the word radix at twice
// the lower bound a single refill always suffices, but the loop shape keeps
// the invariant explicit.
func (d *B64DecoderMulti) RenormAt(ch int) error {
	x := d.states[ch]
	for x < b64LowBound {
		if len(d.src)-d.pos < b64WordBytes {
			d.states[ch] = x
			return errors.Wrapf(ErrSourceExhausted, "stream %d", ch)
		}
		x = x<<32 | uint64(binary.LittleEndian.Uint32(d.src[d.pos:]))
		d.pos += b64WordBytes
	}
	d.states[ch] = x
	return nil
}

// RenormAll renormalizes every stream, in order 0..n-1.
func (d *B64DecoderMulti) RenormAll() error {
	for ch := range d.states {
		if err := d.RenormAt(ch); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceAt consumes the current symbol of stream ch and renormalizes. The
// symbol must be the one whose range contains the preceding GetAt slot.
func (d *B64DecoderMulti) AdvanceAt(ch int, sym B64DecSymbol, scaleBits uint) error {
	d.AdvanceStepAt(ch, sym, scaleBits)
	return d.RenormAt(ch)
}

// B64Decoder is the single-stream 64-bit rANS decoder.
type B64Decoder struct {
	B64DecoderMulti
}

// NewB64Decoder creates a single-stream decoder over src, which must start
// with the encoder's 8-byte state snapshot.
func NewB64Decoder(src []byte) (*B64Decoder, error) {
	m, err := NewB64DecoderMulti(1, src)
	if err != nil {
		return nil, err
	}
	return &B64Decoder{*m}, nil
}

// Get returns the cumulative-frequency slot of the current symbol without
// mutating the decoder.
func (d *B64Decoder) Get(scaleBits uint) uint32 {
	return d.GetAt(0, scaleBits)
}

// Advance consumes the current symbol and renormalizes.
func (d *B64Decoder) Advance(sym B64DecSymbol, scaleBits uint) error {
	return d.AdvanceAt(0, sym, scaleBits)
}
