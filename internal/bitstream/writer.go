// SPDX-License-Identifier: EPL-2.0

package bitstream

// Writer fills a caller-sized packet byte by byte.
type Writer struct {
	buf []byte
	pos int
}

func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) Tell() int { return w.pos }

// Bytes returns the written prefix of the packet.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

func (w *Writer) U8(v int) {
	w.buf[w.pos] = byte(v)
	w.pos++
}

func (w *Writer) LE16(v int) {
	w.buf[w.pos] = byte(v)
	w.buf[w.pos+1] = byte(v >> 8)
	w.pos += 2
}

func (w *Writer) LE32(v uint32) {
	w.buf[w.pos] = byte(v)
	w.buf[w.pos+1] = byte(v >> 8)
	w.buf[w.pos+2] = byte(v >> 16)
	w.buf[w.pos+3] = byte(v >> 24)
	w.pos += 4
}

// Skip advances over n bytes, leaving their contents unchanged.
func (w *Writer) Skip(n int) { w.pos += n }
