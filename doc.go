// Package rans implements a ranged Asymmetric Numeral Systems (rANS)
// entropy coder: an encoder/decoder pair that packs a sequence of symbols
// with known frequencies to near the Shannon bound and unpacks it
// losslessly.
//
// # Overview
//
// ANS is a family of entropy coders introduced by Jarek Duda, combining the
// compression ratio of arithmetic coding with speed close to Huffman coding.
// Modern compressors such as Zstandard, LZFSE and JPEG XL carry an ANS stage
// at the bottom of their pipelines, and this package is that kind of stage:
// an upstream model supplies normalized symbol frequencies (summing to
// 1<<scaleBits) and this package turns (start, freq) symbol descriptors
// into a compact byte buffer and back.
//
// Two wire-incompatible variants are provided:
//   - ByteEncoder/ByteDecoder: 32-bit state renormalized one byte at a time.
//   - B64Encoder/B64Decoder: 64-bit state renormalized one little-endian
//     32-bit word at a time. Closer to the entropy bound and usually faster
//     on 64-bit machines; the output is not endian-neutral.
//
// Producer and consumer must agree on the variant; there is no
// self-describing header.
//
// # What this package does not do
//
// No statistical modeling, no adaptive frequency estimation, no container
// format. Frequency tables are built and normalized by the caller
// (NormalizeFreqs and Table cover the common cases), symbol lookup during
// decoding is the caller's table lookup, and any header or serialized table
// is an application concern.
//
// # Decode order
//
// rANS is a stack: the encoder pushes symbols, the decoder pops them.
// Symbols come back in the reverse of the order they were put, and the
// decoder has no end-of-stream marker, so the caller tracks the symbol count
// itself. Getting either wrong produces garbage, not an error; the format
// carries no redundancy to detect it.
//
// # Basic usage
//
//	const scaleBits = 4
//	symA, _ := rans.NewByteEncSymbol(0, 12, scaleBits)  // p = 12/16
//	symB, _ := rans.NewByteEncSymbol(12, 4, scaleBits)  // p = 4/16
//
//	enc := rans.NewByteEncoder(1024)
//	enc.Put(symA)
//	enc.Put(symB)
//	enc.Flush()
//
//	dec, _ := rans.NewByteDecoder(enc.Data())
//	slot := dec.Get(scaleBits) // 12..15: symB's range; decode runs in reverse
//
// # Multi-stream interleaving
//
// ByteEncoderMulti/B64EncoderMulti run n independent states over one output
// buffer. A single rANS state has a true data dependency between consecutive
// symbols; n states remove it, letting the hot loop pipeline or vectorize.
// The states share nothing but the buffer: FlushAll writes the snapshots in
// stream order 0..n-1 and, because the buffer is built back to front,
// decoder stream k consumes encoder stream n-1-k. Keep the put/get
// interleave patterns exact mirrors of each other; the mapping is part of
// the wire format.
package rans
