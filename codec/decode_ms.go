// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

func (d *Decoder) msPredictor(c int) error {
	bp := d.r.U8()
	if bp > 6 {
		d.log.Printf("block_predictor[%d] = %d", c, bp)
		return fmt.Errorf("%w: block predictor %d on channel %d", ErrInvalidData, bp, c)
	}
	d.status[c].Coeff1 = msAdaptCoeff1[bp]
	d.status[c].Coeff2 = msAdaptCoeff2[bp]
	return nil
}

func (d *Decoder) expandMS(c, nibble int) int16 {
	s, capped := d.status[c].expandMS(nibble)
	if capped {
		d.log.Printf("idelta overflow")
	}
	return int16(s)
}

// Microsoft ADPCM. Up to two channels share one interleaved block with a
// split header; more channels get one planar block each.
func (d *Decoder) decodeMS() error {
	ch := d.cfg.Channels

	if ch > 2 {
		for c := range ch {
			out := d.planes[c]
			if err := d.msPredictor(c); err != nil {
				return err
			}
			cs := &d.status[c]
			cs.IDelta = d.r.SLE16()
			cs.Sample1 = d.r.SLE16()
			cs.Sample2 = d.r.SLE16()
			out[0] = int16(cs.Sample2)
			out[1] = int16(cs.Sample1)

			pos := 2
			for n := (d.nb - 2) >> 1; n > 0; n-- {
				v := d.r.U8()
				out[pos] = d.expandMS(c, v>>4)
				out[pos+1] = d.expandMS(c, v&0x0F)
				pos += 2
			}
		}
		return nil
	}

	st := d.st
	for c := 0; c <= st; c++ {
		if err := d.msPredictor(c); err != nil {
			return err
		}
	}
	for c := 0; c <= st; c++ {
		d.status[c].IDelta = d.r.SLE16()
	}
	for c := 0; c <= st; c++ {
		d.status[c].Sample1 = d.r.SLE16()
	}
	for c := 0; c <= st; c++ {
		d.status[c].Sample2 = d.r.SLE16()
	}

	out, pos := d.out, 0
	for c := 0; c <= st; c++ {
		out[pos] = int16(d.status[c].Sample2)
		pos++
	}
	for c := 0; c <= st; c++ {
		out[pos] = int16(d.status[c].Sample1)
		pos++
	}

	for n := (d.nb - 2) >> (1 - st); n > 0; n-- {
		v := d.r.U8()
		out[pos] = d.expandMS(0, v>>4)
		out[pos+1] = d.expandMS(st, v&0x0F)
		pos += 2
	}
	return nil
}

// MTAF codes channels in pairs: a 16-byte header for the pair, then the
// whole left payload followed by the whole right payload.
func (d *Decoder) decodeMTAF() error {
	for c := 0; c < d.cfg.Channels; c += 2 {
		l, r := &d.status[c], &d.status[c+1]

		d.r.Advance(4)
		l.Step = d.r.LE16() & 0x1F
		r.Step = d.r.LE16() & 0x1F
		l.Predictor = d.r.SLE16()
		d.r.Advance(2)
		r.Predictor = d.r.SLE16()
		d.r.Advance(2)

		for _, p := range []int{c, c + 1} {
			cs, out := &d.status[p], d.planes[p]
			for n := 0; n < d.nb; n += 2 {
				v := d.r.U8()
				out[n] = int16(cs.expandMTAF(v & 0x0F))
				out[n+1] = int16(cs.expandMTAF(v >> 4))
			}
		}
	}
	return nil
}
