// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/adpcm/internal/bitstream"

func (e *Encoder) setupMS() error {
	ch, bs := e.cfg.Channels, e.cfg.BlockSize
	e.cfg.FrameSize = (bs-7*ch)*2/ch + 2
	e.cfg.BlockAlign = bs

	// Frame size, coefficient count, then the seven coefficient pairs.
	ex := make([]byte, 32)
	w := bitstream.NewWriter(ex)
	w.LE16(e.cfg.FrameSize)
	w.LE16(7)
	for i := range msAdaptCoeff1 {
		w.LE16(msAdaptCoeff1[i] * 4)
		w.LE16(msAdaptCoeff2[i] * 4)
	}
	e.cfg.Extradata = ex

	return nil
}

// writeMS always selects predictor 0. The header is split by field: block
// predictors, ideltas, second samples, first samples.
func (e *Encoder) writeMS(pkt []byte) error {
	ch := e.cfg.Channels
	ba := e.cfg.BlockAlign
	s := e.samples
	w := bitstream.NewWriter(pkt)

	for c := range ch {
		w.U8(0)
		e.status[c].Coeff1 = msAdaptCoeff1[0]
		e.status[c].Coeff2 = msAdaptCoeff2[0]
	}
	for c := range ch {
		cs := &e.status[c]
		cs.IDelta = max(cs.IDelta, 16)
		w.LE16(cs.IDelta)
	}
	for c := range ch {
		e.status[c].Sample2 = int(s[c])
	}
	for c := range ch {
		e.status[c].Sample1 = int(s[ch+c])
		w.LE16(e.status[c].Sample1)
	}
	for c := range ch {
		w.LE16(e.status[c].Sample2)
	}

	body := s[2*ch:]

	if e.tr != nil {
		if ch == 1 {
			n := 2 * (ba - 7)
			buf := e.scratch(n)
			e.tr.compress(body, 1, buf, &e.status[0], n)
			for i := 0; i < n; i += 2 {
				w.U8(int(buf[i])<<4 | int(buf[i+1]))
			}
			return nil
		}

		n := ba - 14
		buf := e.scratch(2 * n)
		e.tr.compress(body, 2, buf[:n], &e.status[0], n)
		e.tr.compress(body[1:], 2, buf[n:], &e.status[1], n)
		for i := range n {
			w.U8(int(buf[i])<<4 | int(buf[n+i]))
		}
		return nil
	}

	pos := 0
	for i := 7 * ch; i < ba; i++ {
		v := e.status[0].compressMS(int(body[pos])) << 4
		v |= e.status[e.st].compressMS(int(body[pos+1]))
		w.U8(v)
		pos += 2
	}
	return nil
}

// writeYamaha codes channel 0 in the low nibble and the other channel,
// or the next mono sample, in the high nibble.
func (e *Encoder) writeYamaha(pkt []byte) error {
	ch := e.cfg.Channels
	s := e.samples
	w := bitstream.NewWriter(pkt)

	if e.tr != nil {
		n := e.nb
		if ch == 1 {
			buf := e.scratch(n)
			e.tr.compress(s, 1, buf, &e.status[0], n)
			for i := 0; i+1 < n; i += 2 {
				w.U8(int(buf[i]) | int(buf[i+1])<<4)
			}
			return nil
		}

		buf := e.scratch(2 * n)
		e.tr.compress(s, 2, buf[:n], &e.status[0], n)
		e.tr.compress(s[1:], 2, buf[n:], &e.status[1], n)
		for i := range n {
			w.U8(int(buf[i]) | int(buf[n+i])<<4)
		}
		return nil
	}

	for i := 0; i+1 < len(s); i += 2 {
		v := e.status[0].compressYamaha(int(s[i]))
		v |= e.status[e.st].compressYamaha(int(s[i+1])) << 4
		w.U8(v)
	}
	return nil
}

func (e *Encoder) setupArgo() error {
	e.cfg.FrameSize = 32
	e.cfg.BlockAlign = 17 * e.cfg.Channels
	return nil
}

// writeArgo tries every shift and filter pair on each channel and keeps
// the one with the lowest absolute error, stopping early on an exact fit.
func (e *Encoder) writeArgo(pkt []byte) error {
	bw := bitstream.NewBitWriter(len(pkt))

	for c := range e.cfg.Channels {
		cs := &e.status[c]
		s := e.planes[c][:e.nb]
		saved1, saved2 := cs.Sample1, cs.Sample2

		best, tmp := int64(-1), int64(-1)
		shift, flag := 2, false
		for sh := 2; sh < 18 && tmp != 0; sh++ {
			for f := 0; f < 2 && tmp != 0; f++ {
				cs.Sample1, cs.Sample2 = saved1, saved2
				tmp = argoBlock(cs, nil, s, sh, f == 1)
				if best < 0 || tmp < best {
					best, shift, flag = tmp, sh, f == 1
				}
			}
		}

		cs.Sample1, cs.Sample2 = saved1, saved2
		argoBlock(cs, bw, s, shift, flag)
	}

	return e.flushBits(bw, pkt)
}

// argoBlock codes one block and returns its total absolute error. With a
// nil writer it only measures.
func argoBlock(cs *ChannelStatus, bw *bitstream.BitWriter, s []int16, shift int, flag bool) int64 {
	if bw != nil {
		f := 0
		if flag {
			f = 1
		}
		bw.Put(4, shift-2)
		bw.Put(1, 0)
		bw.Put(1, f)
		bw.Put(2, 0)
	}

	var total int64
	for _, v := range s {
		nibble := cs.compressArgo(int(v), shift, flag)
		got := cs.expandArgo(nibble, shift, flag)
		total += int64(abs(int(v) - got))
		if bw != nil {
			bw.Put(4, nibble)
		}
	}
	return total
}
