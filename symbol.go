package rans

import (
	"math/bits"

	"github.com/pkg/errors"
)

// checkEncSymbol validates the caller-supplied symbol triple against the
// variant's scale-bits ceiling. Frequency tables are an external invariant
// the coder otherwise trusts, so this is the one place descriptors fail fast.
func checkEncSymbol(start, freq uint32, scaleBits, maxScaleBits uint) error {
	if scaleBits == 0 || scaleBits > maxScaleBits {
		return errors.Errorf("rans: scale bits %d out of range [1, %d]", scaleBits, maxScaleBits)
	}
	if freq == 0 {
		return errors.New("rans: symbol frequency must be nonzero")
	}
	if uint64(start)+uint64(freq) > uint64(1)<<scaleBits {
		return errors.Errorf("rans: symbol range [%d, %d) exceeds total %d", start, uint64(start)+uint64(freq), uint64(1)<<scaleBits)
	}
	return nil
}

// ByteEncSymbol is an immutable encoder-side symbol descriptor for the
// byte-aligned variant. It is built once per distinct symbol and reused
// across Put calls.
//
// Division by the frequency is replaced by a precomputed fixed-point
// reciprocal: for freq >= 2, rcpFreq = ceil(2^(shift+31)/freq) with the
// smallest shift such that freq <= 1<<shift, and
//
//	q = ((x * rcpFreq) >> 32) >> (shift - 1)
//
// equals x/freq exactly for all 32-bit x. freq == 1 has no usable
// reciprocal, so the multiply is folded into the bias instead.
type ByteEncSymbol struct {
	xMax     uint32 // renormalize while state >= xMax
	rcpFreq  uint32
	bias     uint32
	cmplFreq uint32 // (1 << scaleBits) - freq
	rcpShift uint32
}

// NewByteEncSymbol builds the descriptor for a symbol occupying the slot
// range [start, start+freq) out of 1<<scaleBits. scaleBits must be at
// most 16 for the byte-aligned variant.
func NewByteEncSymbol(start, freq uint32, scaleBits uint) (ByteEncSymbol, error) {
	if err := checkEncSymbol(start, freq, scaleBits, byteMaxScaleBits); err != nil {
		return ByteEncSymbol{}, err
	}

	s := ByteEncSymbol{
		xMax:     ((byteLowBound >> scaleBits) << 8) * freq,
		cmplFreq: (uint32(1) << scaleBits) - freq,
	}
	if freq < 2 {
		s.rcpFreq = ^uint32(0)
		s.rcpShift = 0
		s.bias = start + (uint32(1) << scaleBits) - 1
	} else {
		shift := uint(bits.Len32(freq - 1))
		s.rcpFreq = uint32(((uint64(1) << (shift + 31)) + uint64(freq) - 1) / uint64(freq))
		s.rcpShift = uint32(shift - 1)
		s.bias = start
	}
	return s, nil
}

// B64EncSymbol is the encoder-side symbol descriptor for the 64-bit variant.
// Same reciprocal scheme as ByteEncSymbol, widened to a 64-bit fixed-point
// reciprocal computed with a 128/64-bit division.
type B64EncSymbol struct {
	rcpFreq  uint64
	xMax     uint64
	bias     uint64
	cmplFreq uint64
	rcpShift uint32
}

// NewB64EncSymbol builds the descriptor for a symbol occupying the slot
// range [start, start+freq) out of 1<<scaleBits. scaleBits must be at
// most 31 for the 64-bit variant.
func NewB64EncSymbol(start, freq uint32, scaleBits uint) (B64EncSymbol, error) {
	if err := checkEncSymbol(start, freq, scaleBits, b64MaxScaleBits); err != nil {
		return B64EncSymbol{}, err
	}

	s := B64EncSymbol{
		xMax:     ((b64LowBound >> scaleBits) << 32) * uint64(freq),
		cmplFreq: (uint64(1) << scaleBits) - uint64(freq),
	}
	if freq < 2 {
		s.rcpFreq = ^uint64(0)
		s.rcpShift = 0
		s.bias = uint64(start) + (uint64(1) << scaleBits) - 1
	} else {
		shift := uint(bits.Len32(freq - 1))
		// rcpFreq = ceil(2^(shift+63) / freq). The numerator is the 128-bit
		// value 2^(shift-1)*2^64 + (freq-1); bits.Div64 cannot overflow here
		// because 2^(shift-1) < freq by minimality of shift.
		q, _ := bits.Div64(uint64(1)<<(shift-1), uint64(freq-1), uint64(freq))
		s.rcpFreq = q
		s.rcpShift = uint32(shift - 1)
		s.bias = uint64(start)
	}
	return s, nil
}

// ByteDecSymbol is the decoder-side symbol descriptor for the byte-aligned
// variant: the same (start, freq) pair the encoder saw, resolved by the
// caller from the slot returned by Get.
type ByteDecSymbol struct {
	start uint32
	freq  uint32
}

// NewByteDecSymbol builds a decoder descriptor for the slot range
// [start, start+freq).
func NewByteDecSymbol(start, freq uint32) (ByteDecSymbol, error) {
	if freq == 0 {
		return ByteDecSymbol{}, errors.New("rans: symbol frequency must be nonzero")
	}
	return ByteDecSymbol{start: start, freq: freq}, nil
}

// CumFreq returns the symbol's cumulative start.
func (s ByteDecSymbol) CumFreq() uint32 { return s.start }

// Freq returns the symbol's frequency.
func (s ByteDecSymbol) Freq() uint32 { return s.freq }

// B64DecSymbol is the decoder-side symbol descriptor for the 64-bit variant.
type B64DecSymbol struct {
	start uint32
	freq  uint32
}

// NewB64DecSymbol builds a decoder descriptor for the slot range
// [start, start+freq).
func NewB64DecSymbol(start, freq uint32) (B64DecSymbol, error) {
	if freq == 0 {
		return B64DecSymbol{}, errors.New("rans: symbol frequency must be nonzero")
	}
	return B64DecSymbol{start: start, freq: freq}, nil
}

// CumFreq returns the symbol's cumulative start.
func (s B64DecSymbol) CumFreq() uint32 { return s.start }

// Freq returns the symbol's frequency.
func (s B64DecSymbol) Freq() uint32 { return s.freq }
