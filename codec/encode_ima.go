// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/adpcm/internal/bitstream"

func (e *Encoder) setupIMAWAV() error {
	ch, bs := e.cfg.Channels, e.cfg.BlockSize
	e.cfg.FrameSize = (bs-4*ch)*8/(4*ch) + 1
	e.cfg.BlockAlign = bs
	return nil
}

// writeIMAWAV emits a 4-byte header per channel carrying the first sample
// verbatim, then 4-byte groups of eight codes per channel, low nibble
// first.
func (e *Encoder) writeIMAWAV(pkt []byte) error {
	ch := e.cfg.Channels
	w := bitstream.NewWriter(pkt)

	for c := range ch {
		cs := &e.status[c]
		cs.PrevSample = int(e.planes[c][0])
		w.LE16(cs.PrevSample)
		w.U8(cs.StepIndex)
		w.U8(0)
	}

	blocks := (e.nb - 1) / 8

	if e.tr != nil {
		n := blocks * 8
		buf := e.scratch(ch * n)
		for c := range ch {
			e.tr.compress(e.planes[c][1:], 1, buf[c*n:(c+1)*n], &e.status[c], n)
		}
		for i := range blocks {
			for c := range ch {
				b := buf[c*n+8*i:]
				for j := 0; j < 8; j += 2 {
					w.U8(int(b[j]) | int(b[j+1])<<4)
				}
			}
		}
		return nil
	}

	for i := range blocks {
		for c := range ch {
			cs := &e.status[c]
			s := e.planes[c][1+8*i:]
			for j := 0; j < 8; j += 2 {
				v := cs.compressIMA(int(s[j]))
				v |= cs.compressIMA(int(s[j+1])) << 4
				w.U8(v)
			}
		}
	}
	return nil
}

func (e *Encoder) setupIMAQT() error {
	e.cfg.FrameSize = 64
	e.cfg.BlockAlign = 34 * e.cfg.Channels
	return nil
}

// writeIMAQT emits one 34-byte chunk per channel: the top 9 bits of the
// predictor, a 7-bit step index and 64 codes, low nibble first.
func (e *Encoder) writeIMAQT(pkt []byte) error {
	bw := bitstream.NewBitWriter(len(pkt))

	for c := range e.cfg.Channels {
		cs := &e.status[c]
		s := e.planes[c]

		bw.Put(9, (cs.PrevSample&0xFFFF)>>7)
		bw.Put(7, cs.StepIndex)

		if e.tr != nil {
			buf := e.scratch(64)
			e.tr.compress(s, 1, buf, cs, 64)
			for i := range 64 {
				bw.Put(4, int(buf[i^1]))
			}
			continue
		}

		for i := 0; i < 64; i += 2 {
			t1 := cs.compressQT(int(s[i]))
			t2 := cs.compressQT(int(s[i+1]))
			bw.Put(4, t2)
			bw.Put(4, t1)
		}
	}

	return e.flushBits(bw, pkt)
}

// setupNibbles covers the variants packing two codes per byte with no
// header: each byte of the block carries two samples.
func (e *Encoder) setupNibbles() error {
	e.cfg.FrameSize = e.cfg.BlockSize * 2 / e.cfg.Channels
	e.cfg.BlockAlign = e.cfg.BlockSize
	return nil
}

func (e *Encoder) writeIMASSI(pkt []byte) error {
	ch := e.cfg.Channels
	bw := bitstream.NewBitWriter(len(pkt))

	for i := range e.nb {
		for c := range ch {
			bw.Put(4, e.status[c].compressQT(int(e.samples[i*ch+c])))
		}
	}

	return e.flushBits(bw, pkt)
}

// writePairs codes two consecutive samples of each channel into one byte,
// channels taking turns. The first sample goes in the high nibble unless
// lowFirst is set.
func (e *Encoder) writePairs(pkt []byte, lowFirst bool, compress func(*ChannelStatus, int) int) error {
	ch := e.cfg.Channels
	s := e.samples
	bw := bitstream.NewBitWriter(len(pkt))

	for i := 0; i+1 < e.nb; i += 2 {
		for c := range ch {
			cs := &e.status[c]
			t1 := compress(cs, int(s[i*ch+c]))
			t2 := compress(cs, int(s[(i+1)*ch+c]))
			if lowFirst {
				t1, t2 = t2, t1
			}
			bw.Put(4, t1)
			bw.Put(4, t2)
		}
	}

	return e.flushBits(bw, pkt)
}

func (e *Encoder) writeIMAALP(pkt []byte) error {
	return e.writePairs(pkt, false, (*ChannelStatus).compressALP)
}

func (e *Encoder) setupIMAAPM() error {
	// The decoder seeds from this blob; all zero means a cold start.
	e.cfg.Extradata = make([]byte, 28)
	return e.setupNibbles()
}

func (e *Encoder) writeIMAAPM(pkt []byte) error {
	return e.writePairs(pkt, false, (*ChannelStatus).compressQT)
}

func (e *Encoder) writeIMAWS(pkt []byte) error {
	return e.writePairs(pkt, true, (*ChannelStatus).compressIMA)
}

func (e *Encoder) setupIMAAMV() error {
	if e.cfg.SampleRate != 22050 {
		e.log.Printf("sample rate must be 22050")
		return errRate(e.cfg, "22050")
	}
	if e.cfg.Channels != 1 {
		e.log.Printf("only mono is supported")
		return errChannels(e.cfg, 1)
	}

	e.cfg.FrameSize = e.cfg.BlockSize
	e.cfg.BlockAlign = 8 + (e.cfg.FrameSize+1)/2
	return nil
}

// writeIMAAMV emits the 8-byte header (first sample, step index, a zero
// byte, frame size) and codes high nibble first. An odd frame ends with
// a code in the high half of the last byte.
func (e *Encoder) writeIMAAMV(pkt []byte) error {
	cs := &e.status[0]
	s := e.samples
	w := bitstream.NewWriter(pkt)

	cs.PrevSample = int(s[0])
	w.LE16(cs.PrevSample)
	w.U8(cs.StepIndex)
	w.U8(0)
	w.LE32(uint32(e.cfg.FrameSize))

	n := e.nb >> 1
	if e.tr != nil {
		buf := e.scratch(2 * n)
		e.tr.compress(s, 1, buf, cs, 2*n)
		for i := range n {
			w.U8(int(buf[2*i])<<4 | int(buf[2*i+1]))
		}
	} else {
		for i := range n {
			v := cs.compressIMA(int(s[2*i])) << 4
			v |= cs.compressIMA(int(s[2*i+1]))
			w.U8(v)
		}
	}

	if e.cfg.FrameSize&1 != 0 {
		w.U8(cs.compressIMA(int(s[2*n])) << 4)
	}
	return nil
}

func (e *Encoder) setupSWF() error {
	switch e.cfg.SampleRate {
	case 11025, 22050, 44100:
	default:
		e.log.Printf("sample rate must be 11025, 22050 or 44100")
		return errRate(e.cfg, "11025, 22050 or 44100")
	}

	e.cfg.FrameSize = 4096
	e.cfg.BlockAlign = (2 + e.cfg.Channels*(22+4*(e.cfg.FrameSize-1)) + 7) / 8
	return nil
}

// writeSWF emits the 2-bit code width, a 22-bit header per channel with
// the first sample verbatim, then 4095 codes per channel interleaved.
func (e *Encoder) writeSWF(pkt []byte) error {
	ch := e.cfg.Channels
	s := e.samples
	bw := bitstream.NewBitWriter(len(pkt))

	// 4-bit codes.
	bw.Put(2, 2)

	for c := range ch {
		cs := &e.status[c]
		cs.StepIndex = clipUintP2(cs.StepIndex, 6)
		bw.PutSigned(16, int(s[c]))
		bw.Put(6, cs.StepIndex)
		cs.PrevSample = int(s[c])
	}

	n := e.nb - 1
	if e.tr != nil {
		buf := e.scratch(ch * n)
		for c := range ch {
			e.tr.compress(s[ch+c:], ch, buf[c*n:(c+1)*n], &e.status[c], n)
		}
		for i := range n {
			for c := range ch {
				bw.Put(4, int(buf[c*n+i]))
			}
		}
	} else {
		for i := 1; i < e.nb; i++ {
			for c := range ch {
				bw.Put(4, e.status[c].compressIMA(int(s[i*ch+c])))
			}
		}
	}

	return e.flushBits(bw, pkt)
}
