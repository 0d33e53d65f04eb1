// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/adpcm/internal/bitstream"
)

// QuickTime IMA: per channel a 34-byte chunk of 64 samples. The chunk
// header carries the top 9 bits of the predictor and the step index.
func (d *Decoder) decodeIMAQT() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]

		predictor := d.r.SBE16()
		stepIndex := predictor & 0x7F
		predictor &^= 0x7F

		// Keep the running predictor when the header only rounds it.
		if cs.StepIndex != stepIndex || abs(predictor-cs.Predictor) > 0x7F {
			cs.StepIndex = stepIndex
			cs.Predictor = predictor
		}
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}

		out := d.planes[c]
		for m := 0; m < 64; m += 2 {
			v := d.r.U8()
			out[m] = int16(cs.expandQT(v & 0x0F))
			out[m+1] = int16(cs.expandQT(v >> 4))
		}
	}
	return nil
}

func (d *Decoder) decodeIMAWAV() error {
	ch := d.cfg.Channels

	for c := range ch {
		cs := &d.status[c]
		cs.Predictor = d.r.SLE16()
		d.planes[c][0] = int16(cs.Predictor)
		cs.StepIndex = d.r.SLE16()
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	bps := d.cfg.BitsPerCodedSample
	if bps != 4 {
		return d.decodeIMAWAVPacked(bps)
	}

	for n := 0; n < (d.nb-1)/8; n++ {
		for c := range ch {
			cs := &d.status[c]
			out := d.planes[c][1+n*8:]
			for m := 0; m < 8; m += 2 {
				v := d.r.U8()
				out[m] = int16(cs.expandIMA(v&0x0F, 3))
				out[m+1] = int16(cs.expandIMA(v>>4, 3))
			}
		}
	}
	return nil
}

// decodeIMAWAVPacked handles the 2, 3 and 5 bit layouts, where each
// channel's block is spread over 4-byte words interleaved across
// channels and read LSB first.
func (d *Decoder) decodeIMAWAVPacked(bps int) error {
	ch := d.cfg.Channels
	spb := imaBlockSamples[bps-2]
	bsize := imaBlockSizes[bps-2]

	var tmp [20]byte
	for n := 0; n < (d.nb-1)/spb; n++ {
		for c := range ch {
			cs := &d.status[c]
			out := d.planes[c][1+n*spb:]

			for j := range bsize {
				tmp[j] = d.byteAt(4*ch + bsize*n*ch + j%4 + (j/4)*(ch*4) + c*4)
			}

			br := bitstream.NewLSBReader(tmp[:bsize])
			for m := range spb {
				out[m] = int16(cs.expandIMAWAV(br.Bits(bps), bps))
			}
		}
	}

	if d.cfg.BlockAlign > 0 {
		d.r.Skip(d.cfg.BlockAlign - 4*ch)
	} else {
		d.r.SeekEnd()
	}
	return nil
}

func (d *Decoder) decode4XM() error {
	ch := d.cfg.Channels

	for c := range ch {
		d.status[c].Predictor = d.r.SLE16()
	}
	for c := range ch {
		d.status[c].StepIndex = d.r.SLE16()
		if err := d.checkStepIndex(c, d.status[c].StepIndex); err != nil {
			return err
		}
	}

	for c := range ch {
		cs := &d.status[c]
		out := d.planes[c]
		for i := 0; i < d.nb>>1; i++ {
			v := d.r.U8()
			out[2*i] = int16(cs.expandIMA(v&0x0F, 4))
			out[2*i+1] = int16(cs.expandIMA(v>>4, 4))
		}
	}
	return nil
}

func (d *Decoder) decodeIMADK4() error {
	out, pos := d.out, 0

	for c := range d.cfg.Channels {
		cs := &d.status[c]
		cs.Predictor = d.r.SLE16()
		out[pos] = int16(cs.Predictor)
		pos++
		cs.StepIndex = d.r.SLE16()
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	for n := (d.nb - 1) >> (1 - d.st); n > 0; n-- {
		v := d.r.U8()
		out[pos] = int16(d.status[0].expandIMA(v>>4, 3))
		out[pos+1] = int16(d.status[d.st].expandIMA(v&0x0F, 3))
		pos += 2
	}
	return nil
}

// Duck DK3 codes a sum and a difference channel. Nibbles are consumed low
// half first and the sum channel advances twice per difference nibble.
func (d *Decoder) decodeIMADK3() error {
	d.r.Advance(10)
	sum, diff := &d.status[0], &d.status[1]

	sum.Predictor = d.r.SLE16()
	diff.Predictor = d.r.SLE16()
	sum.StepIndex = d.r.U8()
	diff.StepIndex = d.r.U8()
	if sum.StepIndex > 88 || diff.StepIndex > 88 {
		d.log.Printf("step_index = %d/%d", sum.StepIndex, diff.StepIndex)
		return fmt.Errorf("%w: step index %d/%d", ErrInvalidData, sum.StepIndex, diff.StepIndex)
	}

	var last int
	top := false
	next := func() int {
		if top {
			top = false
			return last >> 4
		}
		last = d.r.U8()
		top = true
		return last & 0x0F
	}

	out := d.out
	end := d.cfg.Channels * d.nb
	for pos := 0; pos < end; {
		sum.expandIMA(next(), 3)
		diff.expandIMA(next(), 3)
		out[pos] = int16(sum.Predictor + diff.Predictor)
		out[pos+1] = int16(sum.Predictor - diff.Predictor)

		sum.expandIMA(next(), 3)
		out[pos+2] = int16(sum.Predictor + diff.Predictor)
		out[pos+3] = int16(sum.Predictor - diff.Predictor)
		pos += 4
	}

	if d.r.Tell()&1 != 0 {
		d.r.Skip(1)
	}
	return nil
}

func (d *Decoder) decodeIMAISS() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		cs.Predictor = d.r.SLE16()
		cs.StepIndex = d.r.SLE16()
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	out, pos := d.out, 0
	for n := d.nb >> (1 - d.st); n > 0; n-- {
		v := d.r.U8()
		// Mono packs the first sample in the low nibble.
		v1, v2 := v&0x0F, v>>4
		if d.st == 1 {
			v1, v2 = v>>4, v&0x0F
		}
		out[pos] = int16(d.status[0].expandIMA(v1, 3))
		out[pos+1] = int16(d.status[d.st].expandIMA(v2, 3))
		pos += 2
	}
	return nil
}

func (d *Decoder) decodeIMAMoflex() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		cs.StepIndex = d.r.SLE16()
		cs.Predictor = d.r.SLE16()
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	for sub := 0; sub < d.nb/256; sub++ {
		for c := range d.cfg.Channels {
			cs := &d.status[c]
			out := d.planes[c][256*sub:]
			for n := 0; n < 256; n += 2 {
				v := d.r.U8()
				out[n] = int16(cs.expandIMA(v&0x0F, 3))
				out[n+1] = int16(cs.expandIMA(v>>4, 3))
			}
		}
	}
	return nil
}

func (d *Decoder) decodeIMADAT4() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		out := d.planes[c]
		d.r.Skip(4)
		for n := 0; n < d.nb; n += 2 {
			v := d.r.U8()
			out[n] = int16(cs.expandIMA(v>>4, 3))
			out[n+1] = int16(cs.expandIMA(v&0x0F, 3))
		}
	}
	return nil
}

// decodeHighFirst covers the headerless variants that pack channel 0 in
// the high nibble and the other channel, or the next mono sample, in the
// low nibble.
func (d *Decoder) decodeHighFirst(expand func(cs *ChannelStatus, nibble int) int) {
	out, pos := d.out, 0
	for n := d.nb >> (1 - d.st); n > 0; n-- {
		v := d.r.U8()
		out[pos] = int16(expand(&d.status[0], v>>4))
		out[pos+1] = int16(expand(&d.status[d.st], v&0x0F))
		pos += 2
	}
}

func (d *Decoder) decodeIMAAPC() error {
	d.decodeHighFirst(func(cs *ChannelStatus, n int) int { return cs.expandIMA(n, 3) })
	return nil
}

func (d *Decoder) decodeIMASSI() error {
	d.decodeHighFirst((*ChannelStatus).expandQT)
	return nil
}

func (d *Decoder) decodeIMAOKI() error {
	d.decodeHighFirst((*ChannelStatus).expandOKI)
	return nil
}

func (d *Decoder) decodeIMAEASEAD() error {
	d.decodeHighFirst(func(cs *ChannelStatus, n int) int { return cs.expandIMA(n, 6) })
	return nil
}

// decodePairs covers the variants that read one byte per channel and put
// its two samples at consecutive time positions of that channel.
func (d *Decoder) decodePairs(lowFirst bool, expand func(cs *ChannelStatus, nibble int) int) {
	ch := d.cfg.Channels
	out, pos := d.out, 0
	for n := d.nb / 2; n > 0; n-- {
		for c := range ch {
			v := d.r.U8()
			first, second := v>>4, v&0x0F
			if lowFirst {
				first, second = second, first
			}
			out[pos] = int16(expand(&d.status[c], first))
			pos++
			out[pos+d.st] = int16(expand(&d.status[c], second))
		}
		pos += ch
	}
}

func (d *Decoder) decodeIMAAPM() error {
	d.decodePairs(false, (*ChannelStatus).expandQT)
	return nil
}

func (d *Decoder) decodeIMAALP() error {
	d.decodePairs(false, func(cs *ChannelStatus, n int) int { return cs.expandALP(n, 2) })
	return nil
}

func (d *Decoder) decodeIMAMTF() error {
	d.decodePairs(false, (*ChannelStatus).expandMTF)
	return nil
}

// Westwood IMA: version 3 streams are planar, older ones interleave
// channels per byte.
func (d *Decoder) decodeIMAWS() error {
	if d.vqaVersion == 3 {
		for c := range d.cfg.Channels {
			cs := &d.status[c]
			out := d.planes[c]
			for i := 0; i < d.nb/2; i++ {
				v := d.r.U8()
				out[2*i] = int16(cs.expandIMA(v&0x0F, 3))
				out[2*i+1] = int16(cs.expandIMA(v>>4, 3))
			}
		}
	} else {
		d.decodePairs(true, func(cs *ChannelStatus, n int) int { return cs.expandIMA(n, 3) })
	}

	d.r.SeekEnd()
	return nil
}

func (d *Decoder) decodeIMACunning() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		out := d.planes[c]
		for i := 0; i < d.nb/2; i++ {
			v := d.r.U8()
			out[2*i] = int16(cs.expandCunning(v & 0x0F))
			out[2*i+1] = int16(cs.expandCunning(v >> 4))
		}
	}
	return nil
}

func (d *Decoder) decodeIMARAD() error {
	ch := d.cfg.Channels

	for c := range ch {
		cs := &d.status[c]
		cs.StepIndex = d.r.SLE16()
		cs.Predictor = d.r.SLE16()
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	out, pos := d.out, 0
	var b [2]int
	for n := 0; n < d.nb/2; n++ {
		b[0] = d.r.U8()
		if d.st == 1 {
			b[1] = d.r.U8()
		}
		for c := range ch {
			out[pos] = int16(d.status[c].expandIMA(b[c]&0x0F, 3))
			pos++
		}
		for c := range ch {
			out[pos] = int16(d.status[c].expandIMA(b[c]>>4, 3))
			pos++
		}
	}
	return nil
}

func (d *Decoder) decodeIMAEAEACS() error {
	for i := 0; i <= d.st; i++ {
		d.status[i].StepIndex = int(int32(d.r.LE32()))
		if err := d.checkStepIndex(i, d.status[i].StepIndex); err != nil {
			return err
		}
	}
	for i := 0; i <= d.st; i++ {
		d.status[i].Predictor = int(int32(d.r.LE32()))
		if abs(d.status[i].Predictor) > 1<<16 {
			return fmt.Errorf("%w: predictor %d on channel %d", ErrInvalidData, d.status[i].Predictor, i)
		}
	}

	d.decodeHighFirst(func(cs *ChannelStatus, n int) int { return cs.expandIMA(n, 3) })
	return nil
}

func (d *Decoder) decodeIMAAcorn() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		cs.Predictor = d.r.SLE16()
		cs.StepIndex = d.r.LE16() & 0xFF
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	out, pos := d.out, 0
	for n := d.nb >> (1 - d.st); n > 0; n-- {
		v := d.r.U8()
		out[pos] = int16(d.status[0].expandIMA(v&0x0F, 3))
		out[pos+1] = int16(d.status[d.st].expandIMA(v>>4, 3))
		pos += 2
	}
	return nil
}

// AMV: 8-byte header (predictor, step index, reserved byte, frame size),
// then high nibble first. An odd count leaves the final low nibble unused.
func (d *Decoder) decodeIMAAMV() error {
	cs := &d.status[0]
	cs.Predictor = d.r.SLE16()
	cs.StepIndex = d.r.U8()
	d.r.Advance(5)
	if err := d.checkStepIndex(0, cs.StepIndex); err != nil {
		return err
	}

	out, pos := d.out, 0
	for n := d.nb >> 1; n > 0; n-- {
		v := d.r.U8()
		out[pos] = int16(cs.expandIMA(v>>4, 3))
		out[pos+1] = int16(cs.expandIMA(v&0x0F, 3))
		pos += 2
	}

	if d.nb&1 != 0 {
		v := d.r.U8()
		out[pos] = int16(cs.expandIMA(v>>4, 3))
		if v&0x0F != 0 {
			d.log.Printf("last nibble set on packet with odd sample count, sample skipped")
		}
	}
	return nil
}

func (d *Decoder) decodeIMASMJPEG() error {
	for c := range d.cfg.Channels {
		cs := &d.status[c]
		cs.Predictor = d.r.SBE16()
		cs.StepIndex = d.r.U8()
		d.r.Advance(1)
		if err := d.checkStepIndex(c, cs.StepIndex); err != nil {
			return err
		}
	}

	d.decodeHighFirst((*ChannelStatus).expandQT)
	return nil
}

// Zork stores one full byte per sample, channels interleaved.
func (d *Decoder) decodeZork() error {
	ch := d.cfg.Channels
	for n := range d.nb * ch {
		d.out[n] = int16(d.status[n%ch].expandZork(d.r.U8()))
	}
	return nil
}
