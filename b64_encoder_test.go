package rans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustB64EncSymbol(t *testing.T, start, freq uint32, scaleBits uint) B64EncSymbol {
	t.Helper()
	s, err := NewB64EncSymbol(start, freq, scaleBits)
	require.NoError(t, err)
	return s
}

func TestB64EncodeNothing(t *testing.T) {
	enc := NewB64Encoder(1024)
	assert.Empty(t, enc.Data())
	assert.Equal(t, 0, enc.Len())
}

func TestB64EncodeEmptyFlush(t *testing.T) {
	enc := NewB64Encoder(1024)
	enc.Flush()
	// Little-endian snapshot of the initial state 1<<31.
	assert.Equal(t, []byte{0, 0, 0, 128, 0, 0, 0, 0}, enc.Data())
	assert.Equal(t, 8, enc.Len())
}

func TestB64EncodeTwoSymbols(t *testing.T) {
	const scaleBits = 2
	symA := mustB64EncSymbol(t, 0, 2, scaleBits)
	symB := mustB64EncSymbol(t, 2, 2, scaleBits)

	enc := NewB64Encoder(1024)
	enc.Put(symA)
	enc.Put(symB)
	enc.Flush()

	assert.Equal(t, []byte{2, 0, 0, 0, 2, 0, 0, 0}, enc.Data())
}

func TestB64EncodeReset(t *testing.T) {
	const scaleBits = 2
	symA := mustB64EncSymbol(t, 0, 2, scaleBits)
	symB := mustB64EncSymbol(t, 2, 2, scaleBits)

	enc := NewB64Encoder(1024)
	enc.Put(symA)
	enc.Flush()
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0}, enc.Data())

	enc.Reset()
	assert.Empty(t, enc.Data())

	enc.Put(symB)
	enc.Flush()
	assert.Equal(t, []byte{2, 0, 0, 0, 1, 0, 0, 0}, enc.Data())
}

func TestB64EncodeStream(t *testing.T) {
	tbl := mustTable(t, streamFreqs, 8)
	syms, err := tbl.B64EncSymbols()
	require.NoError(t, err)

	enc := NewB64Encoder(1024)
	for _, s := range streamOrder {
		enc.Put(syms[s])
	}
	enc.Flush()

	assert.Equal(t, streamDataB64, enc.Data())
}

func TestB64EncodeInterleaved(t *testing.T) {
	const scaleBits = 4
	syms := []B64EncSymbol{
		mustB64EncSymbol(t, 0, 4, scaleBits),
		mustB64EncSymbol(t, 4, 4, scaleBits),
		mustB64EncSymbol(t, 8, 4, scaleBits),
		mustB64EncSymbol(t, 12, 4, scaleBits),
	}

	enc := NewB64EncoderMulti(2, 1024)
	enc.PutAt(0, syms[0])
	enc.PutAt(1, syms[0])
	enc.PutAt(0, syms[0])
	enc.PutAt(1, syms[1])
	enc.PutAt(0, syms[0])
	enc.PutAt(1, syms[2])
	enc.PutAt(0, syms[0])
	enc.PutAt(1, syms[3])
	enc.FlushAll()

	assert.Equal(t, []byte{108, 0, 0, 0, 128, 0, 0, 0, 0, 0, 0, 0, 128, 0, 0, 0}, enc.Data())
}

func TestB64EncoderGrows(t *testing.T) {
	tbl := mustTable(t, streamFreqs, 8)
	syms, err := tbl.B64EncSymbols()
	require.NoError(t, err)
	msg := randomMessage(tbl, 4000, 8)

	small := NewB64Encoder(1)
	large := NewB64Encoder(1 << 16)
	for _, s := range msg {
		small.Put(syms[s])
		large.Put(syms[s])
	}
	small.Flush()
	large.Flush()

	require.Equal(t, large.Data(), small.Data())
}
