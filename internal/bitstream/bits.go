// SPDX-License-Identifier: EPL-2.0

package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// zeros is an endless source of zero bytes appended after a packet, so a
// bit reader running past the end sees silence instead of an error.
type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// BitReader reads MSB-first bit fields.
type BitReader struct {
	br   *bitio.Reader
	read int
	size int
}

func NewBitReader(buf []byte) *BitReader {
	return &BitReader{
		br:   bitio.NewReader(io.MultiReader(bytes.NewReader(buf), zeros{})),
		size: len(buf) * 8,
	}
}

// Bits returns the next n bits (n <= 32) as an unsigned value.
func (b *BitReader) Bits(n int) int {
	if n == 0 {
		return 0
	}
	v, err := b.br.ReadBits(uint8(n))
	if err != nil {
		// zeros never fails, so this is unreachable in practice.
		v = 0
	}
	b.read += n
	return int(v)
}

// SBits returns the next n bits sign extended.
func (b *BitReader) SBits(n int) int {
	v := b.Bits(n)
	shift := 32 - n
	return int(int32(uint32(v)<<shift) >> shift)
}

// BitsRead reports how many bits were consumed.
func (b *BitReader) BitsRead() int { return b.read }

// BitsLeft reports how many bits of the packet remain, possibly negative.
func (b *BitReader) BitsLeft() int { return b.size - b.read }

// BitWriter packs MSB-first bit fields into a byte slice.
type BitWriter struct {
	buf *bytes.Buffer
	bw  *bitio.Writer
	n   int
}

func NewBitWriter(capacity int) *BitWriter {
	buf := bytes.NewBuffer(make([]byte, 0, capacity))
	return &BitWriter{buf: buf, bw: bitio.NewWriter(buf)}
}

// Put writes the low n bits of v.
func (w *BitWriter) Put(n int, v int) {
	w.bw.TryWriteBits(uint64(v)&(1<<uint(n)-1), uint8(n))
	w.n += n
}

// PutSigned writes v as an n-bit two's complement field.
func (w *BitWriter) PutSigned(n int, v int) { w.Put(n, v) }

// BitsWritten reports how many bits were written.
func (w *BitWriter) BitsWritten() int { return w.n }

// Flush pads to a byte boundary and returns the packed bytes.
func (w *BitWriter) Flush() ([]byte, error) {
	if w.bw.TryError != nil {
		return nil, w.bw.TryError
	}
	if err := w.bw.Close(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// LSBReader reads bit fields least significant bit first, the packing used
// by IMA WAV at 2, 3 and 5 bits per sample.
type LSBReader struct {
	buf []byte
	pos int
}

func NewLSBReader(buf []byte) *LSBReader {
	return &LSBReader{buf: buf}
}

func (l *LSBReader) Bits(n int) int {
	v := 0
	for i := range n {
		idx := l.pos >> 3
		if idx < len(l.buf) && l.buf[idx]>>(uint(l.pos)&7)&1 != 0 {
			v |= 1 << uint(i)
		}
		l.pos++
	}
	return v
}
