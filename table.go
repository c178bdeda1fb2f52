package rans

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// tableDirectBits caps the scale at which Table keeps a direct slot->symbol
// array (1<<16 entries at most). Larger totals fall back to binary search.
const tableDirectBits = 16

// NormalizeFreqs scales an observed histogram to frequencies summing to
// exactly 1<<scaleBits. Symbols with a zero count keep a zero frequency and
// must never be encoded; every symbol that was observed keeps a frequency of
// at least 1 so it stays encodable, however rare. The result is
// deterministic for a given input.
func NormalizeFreqs(hist []uint32, scaleBits uint) ([]uint32, error) {
	if scaleBits == 0 || scaleBits > b64MaxScaleBits {
		return nil, errors.Errorf("rans: scale bits %d out of range [1, %d]", scaleBits, b64MaxScaleBits)
	}
	var total uint64
	nonzero := 0
	for _, h := range hist {
		if h > 0 {
			total += uint64(h)
			nonzero++
		}
	}
	if total == 0 {
		return nil, errors.New("rans: cannot normalize an empty histogram")
	}
	target := uint64(1) << scaleBits
	if uint64(nonzero) > target {
		return nil, errors.Errorf("rans: %d distinct symbols cannot share %d slots", nonzero, target)
	}

	freqs := make([]uint32, len(hist))
	var sum uint64
	for i, h := range hist {
		if h == 0 {
			continue
		}
		f := uint64(h) * target / total
		if f == 0 {
			f = 1
		}
		freqs[i] = uint32(f)
		sum += f
	}
	fitTotal(freqs, sum, target)
	return freqs, nil
}

// NormalizeProbs converts a probability vector to frequencies summing to
// exactly 1<<scaleBits. Every symbol ends up with a frequency of at least 1,
// zero-probability entries included, so any symbol index remains encodable.
func NormalizeProbs(probs []float64, scaleBits uint) ([]uint32, error) {
	if scaleBits == 0 || scaleBits > b64MaxScaleBits {
		return nil, errors.Errorf("rans: scale bits %d out of range [1, %d]", scaleBits, b64MaxScaleBits)
	}
	target := uint64(1) << scaleBits
	if uint64(len(probs)) > target {
		return nil, errors.Errorf("rans: %d symbols cannot share %d slots", len(probs), target)
	}
	var total float64
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 {
			return nil, errors.Errorf("rans: invalid probability %v at index %d", p, i)
		}
		total += p
	}
	if total == 0 {
		return nil, errors.New("rans: probabilities sum to zero")
	}

	freqs := make([]uint32, len(probs))
	var sum uint64
	for i, p := range probs {
		f := uint64(math.Round(p / total * float64(target)))
		if f == 0 {
			f = 1
		}
		freqs[i] = uint32(f)
		sum += f
	}
	fitTotal(freqs, sum, target)
	return freqs, nil
}

// fitTotal repairs rounding drift so the frequencies sum to target, shaving
// from symbols that can spare a slot and topping up round-robin. Callers
// guarantee the nonzero symbol count does not exceed target, which makes
// both loops terminate.
func fitTotal(freqs []uint32, sum, target uint64) {
	for sum > target {
		for i := range freqs {
			if sum == target {
				break
			}
			if freqs[i] > 1 {
				freqs[i]--
				sum--
			}
		}
	}
	for i := 0; sum < target; i = (i + 1) % len(freqs) {
		if freqs[i] > 0 {
			freqs[i]++
			sum++
		}
	}
}

// Table is an immutable normalized frequency table: per-symbol frequencies
// and cumulative starts, plus slot->symbol resolution for the decode side.
// Encoder and decoder must be built from identical tables; the coder itself
// never verifies this.
//
// Table lives at the application boundary. The encoders and decoders only
// ever see the symbol descriptors built from it.
type Table struct {
	freqs     []uint32
	starts    []uint32
	slots     []uint32 // slot -> symbol index, nil when scaleBits > tableDirectBits
	scaleBits uint
}

// NewTable builds a table from frequencies that must sum to exactly
// 1<<scaleBits. Zero frequencies are allowed and mark symbols that never
// occur.
func NewTable(freqs []uint32, scaleBits uint) (*Table, error) {
	if scaleBits == 0 || scaleBits > b64MaxScaleBits {
		return nil, errors.Errorf("rans: scale bits %d out of range [1, %d]", scaleBits, b64MaxScaleBits)
	}
	if len(freqs) == 0 {
		return nil, errors.New("rans: empty frequency table")
	}
	var sum uint64
	for _, f := range freqs {
		sum += uint64(f)
	}
	if sum != uint64(1)<<scaleBits {
		return nil, errors.Errorf("rans: frequencies sum to %d, want %d", sum, uint64(1)<<scaleBits)
	}

	t := &Table{
		freqs:     append([]uint32(nil), freqs...),
		starts:    make([]uint32, len(freqs)),
		scaleBits: scaleBits,
	}
	var acc uint32
	for i, f := range t.freqs {
		t.starts[i] = acc
		acc += f
	}
	if scaleBits <= tableDirectBits {
		t.slots = make([]uint32, uint32(1)<<scaleBits)
		for i, f := range t.freqs {
			for j := t.starts[i]; j < t.starts[i]+f; j++ {
				t.slots[j] = uint32(i)
			}
		}
	}
	return t, nil
}

// ScaleBits returns log2 of the frequency total.
func (t *Table) ScaleBits() uint { return t.scaleBits }

// Len returns the number of symbols in the table.
func (t *Table) Len() int { return len(t.freqs) }

// Freq returns symbol i's frequency.
func (t *Table) Freq(i int) uint32 { return t.freqs[i] }

// Start returns symbol i's cumulative start.
func (t *Table) Start(i int) uint32 { return t.starts[i] }

// Lookup resolves a slot returned by a decoder's Get to the index of the
// symbol whose [start, start+freq) range contains it.
func (t *Table) Lookup(slot uint32) int {
	if t.slots != nil {
		return int(t.slots[slot])
	}
	// Last start <= slot. Zero-frequency symbols share their start with the
	// following symbol and sort before it, so the search cannot land on one.
	return sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > slot }) - 1
}

// ByteEncSymbols builds the encoder descriptors for every symbol in the
// table. Entries with zero frequency are left as zero values and must not be
// encoded.
func (t *Table) ByteEncSymbols() ([]ByteEncSymbol, error) {
	syms := make([]ByteEncSymbol, len(t.freqs))
	for i, f := range t.freqs {
		if f == 0 {
			continue
		}
		s, err := NewByteEncSymbol(t.starts[i], f, t.scaleBits)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		syms[i] = s
	}
	return syms, nil
}

// ByteDecSymbols builds the decoder descriptors for every symbol in the
// table. Entries with zero frequency are left as zero values.
func (t *Table) ByteDecSymbols() ([]ByteDecSymbol, error) {
	syms := make([]ByteDecSymbol, len(t.freqs))
	for i, f := range t.freqs {
		if f == 0 {
			continue
		}
		s, err := NewByteDecSymbol(t.starts[i], f)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		syms[i] = s
	}
	return syms, nil
}

// B64EncSymbols builds the 64-bit encoder descriptors for every symbol in
// the table.
func (t *Table) B64EncSymbols() ([]B64EncSymbol, error) {
	syms := make([]B64EncSymbol, len(t.freqs))
	for i, f := range t.freqs {
		if f == 0 {
			continue
		}
		s, err := NewB64EncSymbol(t.starts[i], f, t.scaleBits)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		syms[i] = s
	}
	return syms, nil
}

// B64DecSymbols builds the 64-bit decoder descriptors for every symbol in
// the table.
func (t *Table) B64DecSymbols() ([]B64DecSymbol, error) {
	syms := make([]B64DecSymbol, len(t.freqs))
	for i, f := range t.freqs {
		if f == 0 {
			continue
		}
		s, err := NewB64DecSymbol(t.starts[i], f)
		if err != nil {
			return nil, errors.Wrapf(err, "symbol %d", i)
		}
		syms[i] = s
	}
	return syms, nil
}
