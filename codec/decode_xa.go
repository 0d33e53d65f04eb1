// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/adpcm/internal/bitstream"
)

// The variants in this file use a two-tap filter over the previous two
// samples in Sample1/Sample2 rather than an adaptive step.

// xaFilter returns the coefficient pair and shift of an XA sound unit
// header byte, falling back to filter 0 and shift 0 on values no known
// encoder produces.
func (d *Decoder) xaFilter(hdr byte) (f0, f1, shift int) {
	shift = 12 - int(hdr&15)
	filter := int(hdr >> 4)
	if filter >= len(xaFilterTable) {
		d.log.Printf("unknown XA-ADPCM filter %d", filter)
		filter = 0
	}
	if shift < 0 {
		d.log.Printf("unknown XA-ADPCM shift %d", shift)
		shift = 0
	}
	return xaFilterTable[filter][0], xaFilterTable[filter][1], shift
}

// xaSoundGroup decodes one 128-byte CD-XA sound group. Mono groups hold
// eight units of 28 samples, stereo groups four per channel.
func (d *Decoder) xaSoundGroup(in []byte, offset int) {
	ch := d.cfg.Channels
	left, right := &d.status[0], &d.status[1]

	out0 := d.planes[0][offset:]
	var out1 []int16
	if ch == 1 {
		out1 = out0[28:]
	} else {
		out1 = d.planes[1][offset:]
	}

	for i := range 4 {
		f0, f1, shift := d.xaFilter(in[4+i*2])
		s1, s2 := left.Sample1, left.Sample2
		for j := range 28 {
			t := signExtend(int(in[16+i+j*4]), 4)
			s := t*(1<<shift) + ((s1*f0 + s2*f1 + 32) >> 6)
			s2 = s1
			s1 = clip16(s)
			out0[j] = int16(s1)
		}

		if ch == 2 {
			left.Sample1, left.Sample2 = s1, s2
			s1, s2 = right.Sample1, right.Sample2
		}

		f0, f1, shift = d.xaFilter(in[5+i*2])
		for j := range 28 {
			t := signExtend(int(in[16+i+j*4]>>4), 4)
			s := t*(1<<shift) + ((s1*f0 + s2*f1 + 32) >> 6)
			s2 = s1
			s1 = clip16(s)
			out1[j] = int16(s1)
		}

		if ch == 2 {
			right.Sample1, right.Sample2 = s1, s2
		} else {
			left.Sample1, left.Sample2 = s1, s2
		}

		step := 28 * (3 - ch)
		out0 = out0[step:]
		out1 = out1[step:]
	}
}

func (d *Decoder) decodeXA() error {
	perGroup := 28 * (3 - d.cfg.Channels) * 4
	offset := 0

	for d.r.Left() >= 128 {
		d.xaSoundGroup(d.r.Slice(128), offset)
		d.r.Advance(128)
		offset += perGroup
	}

	// Sectors of 2324 bytes end in padding shorter than a group.
	d.r.Skip(d.r.Left())
	return nil
}

// Xbox XMD: 21-byte blocks per channel holding two history samples, a
// scale, and 30 nibbles. Results wrap to 16 bits without clipping.
func (d *Decoder) decodeXMD() error {
	ch := d.cfg.Channels

	for block := 0; d.r.Left() >= 21*ch; block++ {
		for c := range ch {
			out := d.planes[c][block*32:]

			h1 := int16(d.r.SafeLE16())
			h0 := int16(d.r.SafeLE16())
			scale := d.r.SafeLE16()

			out[0] = h1
			out[1] = h0

			for n := range 15 {
				v := d.r.SafeU8()
				for k, nib := range [2]int{signExtend(v&15, 4), signExtend(v>>4, 4)} {
					s := int16(nib*scale + ((int(h0)*3667 - int(h1)*1642) >> 11))
					out[2+n*2+k] = s
					h1, h0 = h0, s
				}
			}
		}
	}

	d.r.Skip(d.r.Left())
	return nil
}

// Nintendo AFC: one header byte (scale exponent, coefficient index) per 16
// samples. A one-byte extradata gives the stream block length.
func (d *Decoder) decodeAFC() error {
	spb, blocks := d.nb/16, 1
	if ex := d.cfg.Extradata; len(ex) == 1 && ex[0] != 0 {
		spb = int(ex[0]) / 16
		blocks = d.nb / int(ex[0])
	}

	for m := range blocks {
		for c := range d.cfg.Channels {
			cs := &d.status[c]
			prev1, prev2 := cs.Sample1, cs.Sample2
			out := d.planes[c][m*16:]
			pos := 0

			for range spb {
				v := d.r.U8()
				scale := 1 << (v >> 4)
				f1 := afcCoeffs[0][v&0xF]
				f2 := afcCoeffs[1][v&0xF]

				for n := range 16 {
					var s int
					if n&1 != 0 {
						s = signExtend(v, 4)
					} else {
						v = d.r.U8()
						s = signExtend(v>>4, 4)
					}

					s = ((prev1*f1 + prev2*f2) >> 11) + s*scale
					out[pos] = int16(clip16(s))
					prev2 = prev1
					prev1 = int(out[pos])
					pos++
				}
			}

			cs.Sample1, cs.Sample2 = prev1, prev2
		}
	}

	d.r.SeekEnd()
	return nil
}

// Nintendo DTK (GameCube disc streams): 32-byte frames with one header
// byte per channel, low nibbles for the left channel and high nibbles for
// the right.
func (d *Decoder) decodeDTK() error {
	for c := range d.cfg.Channels {
		cs, out := &d.status[c], d.planes[c]
		pos := 0

		for range d.nb / 28 {
			if c != 0 {
				d.r.Advance(1)
			}
			hdr := d.r.U8()
			d.r.Advance(3 - c)

			for range 28 {
				var prev int
				switch hdr >> 4 {
				case 1:
					prev = cs.Sample1 * 0x3c
				case 2:
					prev = cs.Sample1*0x73 - cs.Sample2*0x34
				case 3:
					prev = cs.Sample1*0x62 - cs.Sample2*0x37
				}
				prev = clipIntP2((prev+0x20)>>6, 21)

				v := d.r.U8()
				var s int
				if c == 0 {
					s = signExtend(v, 4)
				} else {
					s = signExtend(v>>4, 4)
				}

				s = ((s*(1<<12))>>(hdr&0xf))*(1<<6) + prev
				out[pos] = int16(clip16(s >> 6))
				pos++
				cs.Sample2 = cs.Sample1
				cs.Sample1 = s
			}
		}

		if c == 0 {
			d.r.Seek(0)
		}
	}
	return nil
}

// Sony PSX: 16-byte units per channel, a filter/shift byte and a flag byte
// followed by 28 nibbles, low half first.
func (d *Decoder) decodePSX() error {
	ch := d.cfg.Channels
	unit := max(d.cfg.BlockAlign, 16*ch)
	spb := 28 * unit / (16 * ch)

	for block := range len(d.pkt) / unit {
		for c := range ch {
			cs := &d.status[c]
			out := d.planes[c][block*spb:]
			pos := 0

			for range spb / 28 {
				hdr := d.r.U8()
				shift, filter := hdr&0xf, hdr>>4
				if filter >= len(xaFilterTable) {
					return fmt.Errorf("%w: psx filter %d", ErrInvalidData, filter)
				}
				flag := d.r.U8() & 0x7

				var v int
				for n := range 28 {
					var scale int
					if n&1 != 0 {
						scale = signExtend(v>>4, 4)
					} else {
						v = d.r.U8()
						scale = signExtend(v, 4)
					}

					s := 0
					if flag < 0x07 {
						scale *= 1 << 12
						s = (scale >> shift) +
							(cs.Sample1*xaFilterTable[filter][0]+cs.Sample2*xaFilterTable[filter][1])/64
					}
					out[pos] = int16(clip16(s))
					pos++
					cs.Sample2 = cs.Sample1
					cs.Sample1 = s
				}
			}
		}
	}
	return nil
}

// Nintendo THP: eight coefficient pairs per channel, from extradata or
// from the packet header, then 8-byte frames of 14 samples.
func (d *Decoder) decodeTHP() error {
	ch := d.cfg.Channels
	le := d.cfg.ID == THPLE

	read := func(r *bitstream.Reader) int {
		if le {
			return r.SLE16()
		}
		return r.SBE16()
	}

	var table [14][16]int
	if ex := d.cfg.Extradata; len(ex) > 0 {
		if len(ex) < 32*ch {
			d.log.Printf("missing coeff table")
			return fmt.Errorf("%w: coefficient table needs %d bytes, got %d", ErrInvalidData, 32*ch, len(ex))
		}
		tb := bitstream.NewReader(ex)
		for i := range ch {
			for n := range 16 {
				table[i][n] = read(tb)
			}
		}
	} else {
		for i := range ch {
			for n := range 16 {
				table[i][n] = read(&d.r)
			}
		}

		if !d.hasStatus {
			for i := range ch {
				d.status[i].Sample1 = read(&d.r)
				d.status[i].Sample2 = read(&d.r)
			}
			d.hasStatus = true
		} else {
			d.r.Skip(ch * 4)
		}
	}

	for c := range ch {
		cs, out := &d.status[c], d.planes[c]

		for i := range (d.nb + 13) / 14 {
			v := d.r.U8()
			index := (v >> 4) & 7
			exp := v & 0x0F
			f1 := table[c][index*2]
			f2 := table[c][index*2+1]

			for n := 0; n < 14 && i*14+n < d.nb; n++ {
				var s int
				if n&1 != 0 {
					s = signExtend(v, 4)
				} else {
					v = d.r.U8()
					s = signExtend(v>>4, 4)
				}

				s = ((cs.Sample1*f1 + cs.Sample2*f2) >> 11) + s*(1<<exp)
				out[i*14+n] = int16(clip16(s))
				cs.Sample2 = cs.Sample1
				cs.Sample1 = int(out[i*14+n])
			}
		}
	}
	return nil
}

// Argonaut ASF: per channel a control byte (shift, filter flag) and 16
// bytes of high-nibble-first codes.
func (d *Decoder) decodeArgo() error {
	for block := range len(d.pkt) / d.cfg.BlockAlign {
		for c := range d.cfg.Channels {
			cs := &d.status[c]
			out := d.planes[c][block*32:]

			control := d.r.U8()
			shift := control>>4 + 2
			flag := control&0x04 != 0

			for n := range 16 {
				v := d.r.U8()
				out[2*n] = int16(cs.expandArgo(v>>4, shift, flag))
				out[2*n+1] = int16(cs.expandArgo(v, shift, flag))
			}
		}
	}
	return nil
}
