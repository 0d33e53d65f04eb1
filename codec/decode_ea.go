// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

// Electronic Arts: a 12-byte header (sample count, current and previous
// sample per channel), then 30-byte pieces of 28 stereo samples each.
func (d *Decoder) decodeEA() error {
	if d.cfg.Channels != 2 {
		return fmt.Errorf("%w: ea needs stereo", ErrInvalidData)
	}

	curL := d.r.SLE16()
	prevL := d.r.SLE16()
	curR := d.r.SLE16()
	prevR := d.r.SLE16()

	out, pos := d.out, 0
	for range d.nb / 28 {
		v := d.r.U8()
		c1l, c2l := eaTable[v>>4], eaTable[(v>>4)+4]
		c1r, c2r := eaTable[v&0x0F], eaTable[(v&0x0F)+4]

		v = d.r.U8()
		shiftL := 20 - v>>4
		shiftR := 20 - v&0x0F

		for range 28 {
			v = d.r.U8()
			nextL := signExtend(v>>4, 4) * (1 << shiftL)
			nextR := signExtend(v, 4) * (1 << shiftR)

			nextL = (nextL + curL*c1l + prevL*c2l + 0x80) >> 8
			nextR = (nextR + curR*c1r + prevR*c2r + 0x80) >> 8

			prevL, curL = curL, clip16(nextL)
			prevR, curR = curR, clip16(nextR)

			out[pos] = int16(curL)
			out[pos+1] = int16(curR)
			pos += 2
		}
	}

	// Terminating 0x0000.
	d.r.Skip(2)
	return nil
}

func (d *Decoder) decodeEAMaxisXA() error {
	ch := d.cfg.Channels

	var coeff [2][2]int
	var shift [2]int
	for c := range ch {
		v := d.r.U8()
		for i := range 2 {
			coeff[c][i] = eaTable[(v>>4)+4*i]
		}
		shift[c] = 20 - v&0x0F
	}

	out, pos := d.out, 0
	var b [2]int
	for range d.nb / 2 {
		b[0] = d.r.U8()
		if d.st == 1 {
			b[1] = d.r.U8()
		}

		// LL RR for stereo, LL LL for mono.
		for i := 4; i >= 0; i -= 4 {
			for c := range ch {
				cs := &d.status[c]
				s := signExtend(b[c]>>i, 4) * (1 << shift[c])
				s = (s + cs.Sample1*coeff[c][0] + cs.Sample2*coeff[c][1] + 0x80) >> 8
				cs.Sample2 = cs.Sample1
				cs.Sample1 = clip16(s)
				out[pos] = int16(cs.Sample1)
				pos++
			}
		}
	}

	d.r.SeekEnd()
	return nil
}

// EA XAS: per channel four interleaved subblocks of 32 samples, each with
// two header words carrying the first samples and the filter.
func (d *Decoder) decodeEAXAS() error {
	for c := range d.cfg.Channels {
		var coeff [2][4]int
		var shift [4]int
		out := d.planes[c]

		for n := range 4 {
			s := out[n*32:]

			val := d.r.SLE16()
			for i := range 2 {
				coeff[i][n] = eaTable[(val&0x0F)+4*i]
			}
			s[0] = int16(val &^ 0x0F)

			val = d.r.SLE16()
			shift[n] = 20 - val&0x0F
			s[1] = int16(val &^ 0x0F)
		}

		for m := 2; m < 32; m += 2 {
			for n := range 4 {
				i := n*32 + m
				v := d.r.U8()

				level := signExtend(v>>4, 4) * (1 << shift[n])
				pred := int(out[i-1])*coeff[0][n] + int(out[i-2])*coeff[1][n]
				out[i] = int16(clip16((level + pred + 0x80) >> 8))

				level = signExtend(v, 4) * (1 << shift[n])
				pred = int(out[i])*coeff[0][n] + int(out[i-1])*coeff[1][n]
				out[i+1] = int16(clip16((level + pred + 0x80) >> 8))
			}
		}
	}
	return nil
}

// EA R1, R2 and R3 start with one payload offset per channel. A 0xEE
// filter byte (R2, R3) marks 28 raw big-endian samples. R2 and R3 carry
// the filter history across packets; R1 restates it per packet.
func (d *Decoder) decodeEARx() error {
	ch := d.cfg.Channels
	be := d.cfg.ID == EAR3

	var offsets [6]int
	for c := range ch {
		var off uint32
		if be {
			off = d.r.SafeBE32()
		} else {
			off = d.r.SafeLE32()
		}
		offsets[c] = int(int32(off)) + (ch+1)*4
	}

	count := 0
	for c := range ch {
		d.r.Seek(offsets[c])
		cs, out := &d.status[c], d.planes[c]
		pos := 0

		var cur, prev int
		if d.cfg.ID == EAR1 {
			cur = int(int16(d.r.SafeLE16()))
			prev = int(int16(d.r.SafeLE16()))
		} else {
			cur, prev = cs.Predictor, cs.PrevSample
		}

		blocks := 0
		for ; blocks < d.nb/28; blocks++ {
			v := d.r.SafeU8()
			if v == 0xEE {
				cur = int(int16(d.r.SafeBE16()))
				prev = int(int16(d.r.SafeBE16()))
				for range 28 {
					out[pos] = int16(d.r.SafeBE16())
					pos++
				}
				continue
			}

			c1, c2 := eaTable[v>>4], eaTable[(v>>4)+4]
			shift := 20 - v&0x0F

			for k := range 28 {
				var next int
				if k&1 != 0 {
					next = signExtend(v, 4) << shift
				} else {
					v = d.r.SafeU8()
					next = signExtend(v>>4, 4) << shift
				}

				next += cur*c1 + prev*c2
				next = clip16(next >> 8)

				prev, cur = cur, next
				out[pos] = int16(cur)
				pos++
			}
		}

		if count == 0 {
			count = blocks
		} else if count != blocks {
			d.log.Printf("per-channel sample count mismatch")
			count = max(count, blocks)
		}

		if d.cfg.ID != EAR1 {
			cs.Predictor, cs.PrevSample = cur, prev
		}
	}

	d.nb = count * 28
	d.r.SeekEnd()
	return nil
}
