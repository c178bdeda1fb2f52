package rans

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ByteDecoderMulti mirrors ByteEncoderMulti: n independent byte-aligned rANS
// states advancing over one shared input buffer. The caller must issue
// GetAt/AdvanceAt calls in the exact reverse of the encoder's PutAt order,
// remembering that decoder stream k corresponds to encoder stream n-1-k.
//
// The decoder has no end-of-stream signal of its own; the caller tracks the
// symbol count externally. Reading past the encoded input surfaces
// ErrSourceExhausted.
type ByteDecoderMulti struct {
	states []uint32
	src    []byte
	pos    int
}

// NewByteDecoderMulti creates a decoder with n interleaved streams, reading
// one 4-byte little-endian state snapshot per stream from the front of src.
func NewByteDecoderMulti(n int, src []byte) (*ByteDecoderMulti, error) {
	if n < 1 {
		panic("rans: decoder needs at least one stream")
	}
	if len(src) < n*byteStateBytes {
		return nil, errors.Wrapf(ErrShortInput, "%d bytes for %d byte-aligned streams", len(src), n)
	}
	d := &ByteDecoderMulti{
		states: make([]uint32, n),
		src:    src,
	}
	for i := range d.states {
		d.states[i] = binary.LittleEndian.Uint32(src[d.pos:])
		d.pos += byteStateBytes
	}
	return d, nil
}

// Streams returns the number of interleaved streams.
func (d *ByteDecoderMulti) Streams() int { return len(d.states) }

// GetAt returns the cumulative-frequency slot of stream ch's current symbol,
// state mod 1<<scaleBits. It does not mutate the decoder; the caller resolves
// the slot to a symbol with its own table and then calls AdvanceAt.
func (d *ByteDecoderMulti) GetAt(ch int, scaleBits uint) uint32 {
	return d.states[ch] & ((uint32(1) << scaleBits) - 1)
}

// AdvanceStepAt removes the current symbol from stream ch's state without
// consuming input. Interleaved decoders use it to batch the state updates of
// all streams before a RenormAll; everyone else wants AdvanceAt.
func (d *ByteDecoderMulti) AdvanceStepAt(ch int, sym ByteDecSymbol, scaleBits uint) {
	x := d.states[ch]
	slot := x & ((uint32(1) << scaleBits) - 1)
	d.states[ch] = sym.freq*(x>>scaleBits) + slot - sym.start
}

// RenormAt refills stream ch's state from the input one byte at a time until
// it is back above the lower bound.
func (d *ByteDecoderMulti) RenormAt(ch int) error {
	x := d.states[ch]
	for x < byteLowBound {
		if d.pos == len(d.src) {
			d.states[ch] = x
			return errors.Wrapf(ErrSourceExhausted, "stream %d", ch)
		}
		x = x<<8 | uint32(d.src[d.pos])
		d.pos++
	}
	d.states[ch] = x
	return nil
}

// RenormAll renormalizes every stream, in order 0..n-1.
func (d *ByteDecoderMulti) RenormAll() error {
	for ch := range d.states {
		if err := d.RenormAt(ch); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceAt consumes the current symbol of stream ch: the state update for
// the symbol resolved from the preceding GetAt, followed by renormalization.
// Passing a symbol whose range does not contain the GetAt slot silently
// corrupts the decode; the format carries no redundancy to detect it.
func (d *ByteDecoderMulti) AdvanceAt(ch int, sym ByteDecSymbol, scaleBits uint) error {
	d.AdvanceStepAt(ch, sym, scaleBits)
	return d.RenormAt(ch)
}

// ByteDecoder is the single-stream byte-aligned rANS decoder.
type ByteDecoder struct {
	ByteDecoderMulti
}

// NewByteDecoder creates a single-stream decoder over src, which must start
// with the encoder's 4-byte state snapshot.
func NewByteDecoder(src []byte) (*ByteDecoder, error) {
	m, err := NewByteDecoderMulti(1, src)
	if err != nil {
		return nil, err
	}
	return &ByteDecoder{*m}, nil
}

// Get returns the cumulative-frequency slot of the current symbol without
// mutating the decoder.
func (d *ByteDecoder) Get(scaleBits uint) uint32 {
	return d.GetAt(0, scaleBits)
}

// Advance consumes the current symbol and renormalizes.
func (d *ByteDecoder) Advance(sym ByteDecSymbol, scaleBits uint) error {
	return d.AdvanceAt(0, sym, scaleBits)
}
