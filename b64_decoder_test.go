package rans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustB64DecSymbol(t *testing.T, start, freq uint32) B64DecSymbol {
	t.Helper()
	s, err := NewB64DecSymbol(start, freq)
	require.NoError(t, err)
	return s
}

func TestB64DecodeEmpty(t *testing.T) {
	dec, err := NewB64Decoder([]byte{0, 0, 0, 128, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), dec.Get(2))
}

func TestB64DecodeTwoSymbols(t *testing.T) {
	const scaleBits = 2
	symA := mustB64DecSymbol(t, 0, 2)
	symB := mustB64DecSymbol(t, 2, 2)

	dec, err := NewB64Decoder([]byte{2, 0, 0, 0, 2, 0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, uint32(2), dec.Get(scaleBits))
	require.NoError(t, dec.Advance(symB, scaleBits))
	assert.Equal(t, uint32(0), dec.Get(scaleBits))
	require.NoError(t, dec.Advance(symA, scaleBits))
}

func TestB64DecodeStream(t *testing.T) {
	tbl := mustTable(t, streamFreqs, 8)
	decSyms, err := tbl.B64DecSymbols()
	require.NoError(t, err)

	dec, err := NewB64Decoder(streamDataB64)
	require.NoError(t, err)

	for i := len(streamOrder) - 1; i >= 0; i-- {
		slot := dec.Get(8)
		got := tbl.Lookup(slot)
		require.Equal(t, streamOrder[i], got, "position %d (slot %d)", i, slot)
		require.NoError(t, dec.Advance(decSyms[got], 8))
	}
}

// Interleaved decode with the split advance-step/renorm API, against the
// fixed two-stream vector from TestB64EncodeInterleaved. As with the
// byte-aligned variant, decoder stream 0 carries what encoder stream 1 put.
func TestB64DecodeInterleaved(t *testing.T) {
	const scaleBits = 4
	syms := []B64DecSymbol{
		mustB64DecSymbol(t, 0, 4),
		mustB64DecSymbol(t, 4, 4),
		mustB64DecSymbol(t, 8, 4),
		mustB64DecSymbol(t, 12, 4),
	}

	dec, err := NewB64DecoderMulti(2, []byte{108, 0, 0, 0, 128, 0, 0, 0, 0, 0, 0, 0, 128, 0, 0, 0})
	require.NoError(t, err)

	expect := [][2]uint32{{12, 0}, {8, 0}, {4, 0}, {0, 0}}
	for round, want := range expect {
		s0 := dec.GetAt(0, scaleBits)
		s1 := dec.GetAt(1, scaleBits)
		assert.Equal(t, want[0], s0, "round %d stream 0", round)
		assert.Equal(t, want[1], s1, "round %d stream 1", round)
		dec.AdvanceStepAt(0, syms[s0/4], scaleBits)
		dec.AdvanceStepAt(1, syms[s1/4], scaleBits)
		require.NoError(t, dec.RenormAll())
	}
}

func TestB64DecodeShortInput(t *testing.T) {
	_, err := NewB64Decoder([]byte{1, 2, 3, 4, 5, 6, 7})
	require.ErrorIs(t, err, ErrShortInput)

	_, err = NewB64DecoderMulti(2, make([]byte, 15))
	require.ErrorIs(t, err, ErrShortInput)
}

// Decoding more symbols than were encoded must fail cleanly instead of
// reading out of bounds.
func TestB64DecodeUnderrun(t *testing.T) {
	const scaleBits = 2
	symA := mustB64DecSymbol(t, 0, 2)
	symB := mustB64DecSymbol(t, 2, 2)

	dec, err := NewB64Decoder([]byte{2, 0, 0, 0, 2, 0, 0, 0})
	require.NoError(t, err)
	require.NoError(t, dec.Advance(symB, scaleBits))
	require.NoError(t, dec.Advance(symA, scaleBits))

	err = dec.Advance(symA, scaleBits)
	require.ErrorIs(t, err, ErrSourceExhausted)
}
