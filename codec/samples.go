// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

// sampleCount returns how many samples per channel a packet of size bytes
// decodes to. Variants with a header-coded count also return it, and
// approx is set when nb is only an upper bound. Some variants read their
// count from the packet, leaving d.r past it.
func (d *Decoder) sampleCount(size int) (nb, coded int, approx bool, err error) {
	ch := d.cfg.Channels
	if ch <= 0 {
		return 0, 0, false, nil
	}

	hasCoded := false

	switch d.cfg.ID {
	case EAXAS:
		if size < 76*ch {
			return 0, 0, false, nil
		}
		nb = 128

	case IMAQT:
		if size < 34*ch {
			return 0, 0, false, nil
		}
		nb = 64

	case CT, IMAAPC, IMACunning, IMAEASEAD, IMAOKI, IMAWS, Yamaha, AICA,
		IMASSI, IMAAPM, IMAALP, IMAMTF:
		nb = size * 2 / ch

	case FourXM, AGM, IMAAcorn, IMADAT4, IMAMoflex, IMAISS, IMASMJPEG:
		nb = (size - 4*ch) * 2 / ch

	case IMAAMV:
		hasCoded = true
		d.r.Skip(4)
		coded = int(int32(d.r.LE32()))
		nb = min((size-8)*2, coded)
		d.r.Seek(0)

	case EA:
		hasCoded = true
		coded = int(int32(d.r.SafeLE32()))
		coded -= coded % 28
		nb = (size - 12) / 30 * 28

	case IMAEAEACS:
		hasCoded = true
		coded = int(int32(d.r.SafeLE32()))
		nb = (size - (4 + 8*ch)) * 2 / ch

	case EAMaxisXA:
		nb = (size - ch) / ch * 2

	case EAR1, EAR2, EAR3:
		hasCoded = true
		header := 4 + 5*ch
		switch d.cfg.ID {
		case EAR1:
			header = 4 + 9*ch
			coded = int(int32(d.r.SafeLE32()))
		case EAR2:
			coded = int(int32(d.r.SafeLE32()))
		default:
			coded = int(int32(d.r.SafeBE32()))
		}
		coded -= coded % 28
		nb = (size - header) * 2 / ch
		nb -= nb % 28
		approx = true

	case IMADK3:
		size = d.alignedSize(size)
		nb = ((size - 16) * 2 / 3 * 4) / ch

	case IMADK4:
		size = d.alignedSize(size)
		if size < 4*ch {
			return 0, 0, false, fmt.Errorf("%w: packet shorter than header", ErrInvalidData)
		}
		nb = 1 + (size-4*ch)*2/ch

	case IMARAD:
		size = d.alignedSize(size)
		nb = (size - 4*ch) * 2 / ch

	case IMAWAV:
		bsize := imaBlockSizes[d.cfg.BitsPerCodedSample-2]
		bsamples := imaBlockSamples[d.cfg.BitsPerCodedSample-2]
		size = d.alignedSize(size)
		if size < 4*ch {
			return 0, 0, false, fmt.Errorf("%w: packet shorter than header", ErrInvalidData)
		}
		nb = 1 + (size-4*ch)/(bsize*ch)*bsamples

	case MS:
		size = d.alignedSize(size)
		nb = (size - 6*ch) * 2 / ch

	case MTAF:
		size = d.alignedSize(size)
		nb = (size - 16*(ch/2)) * 2 / ch

	case SBPro2, SBPro3, SBPro4:
		perByte := sbproSamplesPerByte(d.cfg.ID)
		if d.status[0].StepIndex == 0 {
			if size < ch {
				return 0, 0, false, fmt.Errorf("%w: packet shorter than header", ErrInvalidData)
			}
			nb++
			size -= ch
		}
		nb += size * perByte / ch

	case SWF:
		bufBits := size*8 - 2
		nbits := d.r.SafeU8()>>6 + 2
		hdr := 22 * ch
		block := hdr + nbits*ch*4095
		blocks := bufBits / block
		left := bufBits - blocks*block
		nb = blocks * 4096
		if left >= hdr {
			nb += 1 + (left-hdr)/(nbits*ch)
		}

	case THP, THPLE:
		if len(d.cfg.Extradata) > 0 {
			nb = size * 14 / (8 * ch)
			break
		}
		hasCoded = true
		d.r.Skip(4)
		if d.cfg.ID == THPLE {
			coded = int(int32(d.r.SafeLE32()))
		} else {
			coded = int(int32(d.r.SafeBE32()))
		}
		per := (size - (8 + 36*ch)) / ch
		nb = per / 8 * 14
		if per%8 > 1 {
			nb += (per%8 - 1) * 2
		}
		approx = true

	case AFC:
		nb = size / (9 * ch) * 16

	case XA:
		nb = size / 128 * 224 / ch

	case XMD:
		nb = size / (21 * ch) * 32

	case DTK, PSX:
		nb = size / (16 * ch) * 28

	case Argo:
		nb = size / d.cfg.BlockAlign * 32

	case Zork:
		nb = size / ch
	}

	if hasCoded && (coded <= 0 || coded > nb) {
		return 0, 0, false, fmt.Errorf("%w: coded sample count %d outside 1..%d", ErrInvalidData, coded, nb)
	}

	return nb, coded, approx, nil
}

// alignedSize clamps a packet size to the block alignment when one is set.
func (d *Decoder) alignedSize(size int) int {
	if d.cfg.BlockAlign > 0 {
		return min(size, d.cfg.BlockAlign)
	}
	return size
}

func sbproSamplesPerByte(id ID) int {
	switch id {
	case SBPro2:
		return 4
	case SBPro3:
		return 3
	}
	return 2
}
