// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/adpcm/internal/bitstream"

// Variants in this file adapt a raw step size rather than indexing the
// IMA step table.

func (d *Decoder) decodeAGM() error {
	ch := d.cfg.Channels
	for c := range ch {
		d.status[c].Predictor = d.r.SLE16()
	}
	for c := range ch {
		d.status[c].Step = d.r.SLE16()
	}

	out, pos := d.out, 0
	for n := 0; n < d.nb>>(1-d.st); n++ {
		v := d.r.U8()
		out[pos] = int16(d.status[0].expandAGM(v & 0x0F))
		out[pos+1] = int16(d.status[d.st].expandAGM(v >> 4))
		pos += 2
	}
	return nil
}

func (d *Decoder) decodeCT() error {
	d.decodeHighFirst((*ChannelStatus).expandCT)
	return nil
}

func (d *Decoder) decodeYamaha() error {
	out, pos := d.out, 0
	for n := d.nb >> (1 - d.st); n > 0; n-- {
		v := d.r.U8()
		out[pos] = int16(d.status[0].expandYamaha(v & 0x0F))
		out[pos+1] = int16(d.status[d.st].expandYamaha(v >> 4))
		pos += 2
	}
	return nil
}

func (d *Decoder) decodeAICA() error {
	for c := range d.cfg.Channels {
		cs, out := &d.status[c], d.planes[c]
		for i := 0; i < d.nb>>1; i++ {
			v := d.r.U8()
			out[2*i] = int16(cs.expandYamaha(v & 0x0F))
			out[2*i+1] = int16(cs.expandYamaha(v >> 4))
		}
	}
	return nil
}

// Creative Sound Blaster Pro. The first packet of a stream opens with one
// raw 8-bit sample per channel; StepIndex of channel 0 records that it was
// seen.
func (d *Decoder) decodeSBPro() error {
	out, pos := d.out, 0
	nb := d.nb
	st := d.st

	if d.status[0].StepIndex == 0 {
		out[pos] = int16(128 * (d.r.U8() - 0x80))
		pos++
		if st == 1 {
			out[pos] = int16(128 * (d.r.U8() - 0x80))
			pos++
		}
		d.status[0].StepIndex = 1
		nb--
	}

	s0, s1 := &d.status[0], &d.status[st]

	switch d.cfg.ID {
	case SBPro4:
		for n := nb >> (1 - st); n > 0; n-- {
			v := d.r.U8()
			out[pos] = int16(s0.expandSBPro(v>>4, 4, 0))
			out[pos+1] = int16(s1.expandSBPro(v&0x0F, 4, 0))
			pos += 2
		}
	case SBPro3:
		// Three codes per byte, all on channel 0.
		for n := (nb << st) / 3; n > 0; n-- {
			v := d.r.U8()
			out[pos] = int16(s0.expandSBPro(v>>5, 3, 0))
			out[pos+1] = int16(s0.expandSBPro((v>>2)&0x07, 3, 0))
			out[pos+2] = int16(s0.expandSBPro(v&0x03, 2, 0))
			pos += 3
		}
	default:
		for n := nb >> (2 - st); n > 0; n-- {
			v := d.r.U8()
			out[pos] = int16(s0.expandSBPro(v>>6, 2, 2))
			out[pos+1] = int16(s1.expandSBPro((v>>4)&0x03, 2, 2))
			out[pos+2] = int16(s0.expandSBPro((v>>2)&0x03, 2, 2))
			out[pos+3] = int16(s1.expandSBPro(v&0x03, 2, 2))
			pos += 4
		}
	}
	return nil
}

// Flash SWF ADPCM is bit packed: a 2-bit code width, then blocks of a
// 22-bit per channel header followed by up to 4095 codes per channel.
func (d *Decoder) decodeSWF() error {
	ch := d.cfg.Channels
	size := len(d.pkt) * 8
	br := bitstream.NewBitReader(d.pkt)

	nbits := br.Bits(2) + 2
	table := swfIndexTables[nbits-2]
	k0 := 1 << (nbits - 2)
	signmask := 1 << (nbits - 1)

	out, pos := d.out, 0
	put := func(v int) {
		if pos < len(out) {
			out[pos] = int16(v)
			pos++
		}
	}

	for br.BitsRead() <= size-22*ch {
		for c := range ch {
			d.status[c].Predictor = br.SBits(16)
			d.status[c].StepIndex = br.Bits(6)
			put(d.status[c].Predictor)
		}

		for count := 0; br.BitsRead() <= size-nbits*ch && count < 4095; count++ {
			for c := range ch {
				cs := &d.status[c]
				delta := br.Bits(nbits)
				step := imaStepTable[cs.StepIndex]

				vpdiff := 0
				for k := k0; k > 0; k >>= 1 {
					if delta&k != 0 {
						vpdiff += step
					}
					step >>= 1
				}
				vpdiff += step

				if delta&signmask != 0 {
					cs.Predictor -= vpdiff
				} else {
					cs.Predictor += vpdiff
				}

				cs.StepIndex = clip(cs.StepIndex+table[delta&^signmask], 0, 88)
				cs.Predictor = clip16(cs.Predictor)
				put(cs.Predictor)
			}
		}
	}

	d.r.SeekEnd()
	return nil
}
