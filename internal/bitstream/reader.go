// SPDX-License-Identifier: EPL-2.0

package bitstream

// Reader is a byte cursor over a packet.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset points the reader at buf and rewinds it.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// Tell returns the number of bytes consumed so far. It may exceed Size.
func (r *Reader) Tell() int { return r.pos }

// Size is the length of the underlying packet.
func (r *Reader) Size() int { return len(r.buf) }

// Left returns how many bytes remain, never negative.
func (r *Reader) Left() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// Skip advances over n bytes, stopping at the end of the packet.
func (r *Reader) Skip(n int) { r.Seek(r.pos + n) }

// Advance moves the cursor n bytes without bounds checks, so a later Tell
// can report an overread.
func (r *Reader) Advance(n int) { r.pos += n }

// Seek moves the cursor to an absolute offset, clamped to the packet.
func (r *Reader) Seek(off int) {
	r.pos = min(max(off, 0), len(r.buf))
}

// SeekEnd moves the cursor to the end of the packet.
func (r *Reader) SeekEnd() { r.pos = len(r.buf) }

func (r *Reader) at(i int) byte {
	if i < 0 || i >= len(r.buf) {
		return 0
	}
	return r.buf[i]
}

// Peek returns the byte at offset from the cursor without consuming it.
func (r *Reader) Peek(offset int) byte { return r.at(r.pos + offset) }

func (r *Reader) U8() int {
	v := r.at(r.pos)
	r.pos++
	return int(v)
}

func (r *Reader) S8() int { return int(int8(r.U8())) }

func (r *Reader) LE16() int {
	v := int(r.at(r.pos)) | int(r.at(r.pos+1))<<8
	r.pos += 2
	return v
}

func (r *Reader) SLE16() int { return int(int16(r.LE16())) }

func (r *Reader) BE16() int {
	v := int(r.at(r.pos))<<8 | int(r.at(r.pos+1))
	r.pos += 2
	return v
}

func (r *Reader) SBE16() int { return int(int16(r.BE16())) }

func (r *Reader) LE32() uint32 {
	v := uint32(r.at(r.pos)) | uint32(r.at(r.pos+1))<<8 |
		uint32(r.at(r.pos+2))<<16 | uint32(r.at(r.pos+3))<<24
	r.pos += 4
	return v
}

func (r *Reader) BE32() uint32 {
	v := uint32(r.at(r.pos))<<24 | uint32(r.at(r.pos+1))<<16 |
		uint32(r.at(r.pos+2))<<8 | uint32(r.at(r.pos+3))
	r.pos += 4
	return v
}

// Bytes copies n bytes into dst (zero padded) and advances.
func (r *Reader) Bytes(dst []byte) {
	for i := range dst {
		dst[i] = r.at(r.pos + i)
	}
	r.pos += len(dst)
}

// Slice returns up to n unread bytes starting at the cursor without
// advancing. The result is shorter than n near the end of the packet.
func (r *Reader) Slice(n int) []byte {
	if r.pos >= len(r.buf) {
		return nil
	}
	end := min(r.pos+n, len(r.buf))
	return r.buf[r.pos:end]
}

// The Safe readers return 0 and park the cursor at the end when fewer bytes
// than requested remain.

func (r *Reader) need(n int) bool {
	if r.Left() < n {
		r.pos = max(r.pos, len(r.buf))
		return false
	}
	return true
}

func (r *Reader) SafeU8() int {
	if !r.need(1) {
		return 0
	}
	return r.U8()
}

func (r *Reader) SafeLE16() int {
	if !r.need(2) {
		return 0
	}
	return r.LE16()
}

func (r *Reader) SafeBE16() int {
	if !r.need(2) {
		return 0
	}
	return r.BE16()
}

func (r *Reader) SafeLE32() uint32 {
	if !r.need(4) {
		return 0
	}
	return r.LE32()
}

func (r *Reader) SafeBE32() uint32 {
	if !r.need(4) {
		return 0
	}
	return r.BE32()
}
