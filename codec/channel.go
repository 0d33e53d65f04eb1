// SPDX-License-Identifier: EPL-2.0

package codec

// ChannelStatus is the mutable predictor state of one audio channel.
//
// Which fields are live depends on the dialect: IMA variants integrate into
// Predictor and index the step table with StepIndex, Yamaha, AGM and CT
// adapt Step directly, MS and the XA family keep a two-tap history in
// Sample1/Sample2 with Coeff1/Coeff2/IDelta. PrevSample is the encoder's
// reconstruction of the last coded sample.
type ChannelStatus struct {
	Predictor  int
	StepIndex  int
	Step       int
	PrevSample int
	Sample1    int
	Sample2    int
	Coeff1     int
	Coeff2     int
	IDelta     int
}

func (c *ChannelStatus) expandIMA(nibble, shift int) int {
	step := imaStepTable[c.StepIndex]
	index := clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	diff := ((2*(nibble&7) + 1) * step) >> shift
	if nibble&8 != 0 {
		c.Predictor = clip16(c.Predictor - diff)
	} else {
		c.Predictor = clip16(c.Predictor + diff)
	}
	c.StepIndex = index

	return c.Predictor
}

// expandIMAWAV expands a bps-wide code as packed by IMA WAV at 2, 3 and 5
// bits per sample.
func (c *ChannelStatus) expandIMAWAV(nibble, bps int) int {
	shift := bps - 1
	step := imaStepTable[c.StepIndex]
	index := clip(c.StepIndex+imaIndexTables[bps-2][nibble], 0, 88)

	delta := nibble & (1<<shift - 1)
	diff := ((2*delta + 1) * step) >> shift
	if nibble&(1<<shift) != 0 {
		c.Predictor = clip16(c.Predictor - diff)
	} else {
		c.Predictor = clip16(c.Predictor + diff)
	}
	c.StepIndex = index

	return c.Predictor
}

func (c *ChannelStatus) expandMTF(nibble int) int {
	step := imaStepTable[c.StepIndex]
	predictor := c.Predictor + step*(2*nibble-15)

	c.Predictor = clip16(predictor >> 4)
	c.StepIndex = clip(c.StepIndex+mtfIndexTable[nibble], 0, 88)

	return c.Predictor
}

func (c *ChannelStatus) expandCunning(nibble int) int {
	n := signExtend(nibble&0xF, 4)

	step := cunningStepTable[c.StepIndex]
	c.StepIndex = clip(c.StepIndex+cunningIndexTable[abs(n)], 0, 60)
	c.Predictor = clip16(c.Predictor + step*n)

	return c.Predictor
}

func (c *ChannelStatus) expandQT(nibble int) int {
	step := imaStepTable[c.StepIndex]
	index := clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	diff := step >> 3
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&1 != 0 {
		diff += step >> 2
	}

	if nibble&8 != 0 {
		c.Predictor = clip16(c.Predictor - diff)
	} else {
		c.Predictor = clip16(c.Predictor + diff)
	}
	c.StepIndex = index

	return c.Predictor
}

func (c *ChannelStatus) expandYamaha(nibble int) int {
	if c.Step == 0 {
		c.Predictor = 0
		c.Step = 127
	}

	c.Predictor = clip16(c.Predictor + (c.Step*yamahaDiffLookup[nibble])/8)
	c.Step = clip((c.Step*yamahaIndexScale[nibble])>>8, 127, 24576)

	return c.Predictor
}

func (c *ChannelStatus) expandAGM(nibble int) int {
	delta := nibble & 7
	step := c.Step

	add := (delta*2 + 1) * step
	if add < 0 {
		add += 7
	}

	pred := c.Predictor
	if nibble&8 == 0 {
		pred = clip(pred+(add>>3), -32767, 32767)
	} else {
		pred = clip(pred-(add>>3), -32767, 32767)
	}

	switch delta {
	case 7:
		step *= 0x99
	case 6:
		c.Step = clip(c.Step*2, 127, 24576)
		c.Predictor = pred
		return pred
	case 5:
		step *= 0x66
	case 4:
		step *= 0x4d
	default:
		step *= 0x39
	}

	if step < 0 {
		step += 0x3f
	}

	c.Step = clip(step>>6, 127, 24576)
	c.Predictor = pred

	return pred
}

// msIDeltaMax bounds IDelta so the next multiply by the adaptation table
// cannot overflow 32 bits.
const msIDeltaMax = (1<<31 - 1) / 768

// expandMS reports whether IDelta had to be capped.
func (c *ChannelStatus) expandMS(nibble int) (int, bool) {
	predictor := (c.Sample1*c.Coeff1 + c.Sample2*c.Coeff2) / 64
	predictor += signExtend(nibble, 4) * c.IDelta

	c.Sample2 = c.Sample1
	c.Sample1 = clip16(predictor)

	capped := false
	c.IDelta = (msAdaptationTable[nibble] * c.IDelta) >> 8
	if c.IDelta < 16 {
		c.IDelta = 16
	}
	if c.IDelta > msIDeltaMax {
		c.IDelta = msIDeltaMax
		capped = true
	}

	return c.Sample1, capped
}

func (c *ChannelStatus) expandMTAF(nibble int) int {
	d := mtafSteps[c.Step][nibble&7]
	if nibble&8 != 0 {
		d = -d
	}

	c.Predictor = clip16(c.Predictor + d)
	c.Step = clipUintP2(c.Step+imaIndexTable[nibble], 5)

	return c.Predictor
}

func (c *ChannelStatus) expandALP(nibble, shift int) int {
	step := imaStepTable[c.StepIndex]
	index := clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	diff := ((nibble & 7) * step) >> shift
	if nibble&8 != 0 {
		c.Predictor = clip16(c.Predictor - diff)
	} else {
		c.Predictor = clip16(c.Predictor + diff)
	}
	c.StepIndex = index

	return c.Predictor
}

// expandOKI returns the 12-bit OKI sample scaled to 16 bits.
func (c *ChannelStatus) expandOKI(nibble int) int {
	step := okiStepTable[c.StepIndex]
	index := clip(c.StepIndex+imaIndexTable[nibble], 0, 48)

	diff := ((2*(nibble&7) + 1) * step) >> 3
	if nibble&8 != 0 {
		c.Predictor = clipIntP2(c.Predictor-diff, 11)
	} else {
		c.Predictor = clipIntP2(c.Predictor+diff, 11)
	}
	c.StepIndex = index

	return c.Predictor * 16
}

func (c *ChannelStatus) expandCT(nibble int) int {
	diff := ((2*(nibble&7) + 1) * c.Step) >> 3
	if nibble&8 != 0 {
		diff = -diff
	}

	// The predictor decays by 254/256 before the update.
	c.Predictor = clip16(((c.Predictor * 254) >> 8) + diff)
	c.Step = clip((msAdaptationTable[nibble&7]*c.Step)>>8, 511, 32767)

	return c.Predictor
}

func (c *ChannelStatus) expandSBPro(nibble, size, shift int) int {
	sign := nibble & (1 << (size - 1))
	delta := nibble & (1<<(size-1) - 1)
	diff := delta << (7 + c.Step + shift)

	if sign != 0 {
		diff = -diff
	}
	c.Predictor = clip(c.Predictor+diff, -16384, 16256)

	if delta >= 2*size-3 && c.Step < 3 {
		c.Step++
	} else if delta == 0 && c.Step > 0 {
		c.Step--
	}

	return c.Predictor
}

func (c *ChannelStatus) expandZork(code int) int {
	lookup := imaStepTable[c.StepIndex]

	sample := 0
	for bit, shift := 0x40, 0; bit > 0; bit, shift = bit>>1, shift+1 {
		if code&bit != 0 {
			sample += lookup >> shift
		}
	}
	if code&0x80 != 0 {
		sample = -sample
	}

	c.Predictor = clip16(sample + c.Predictor)
	c.StepIndex = clip(c.StepIndex+zorkIndexTable[(code>>4)&7], 0, 88)

	return c.Predictor
}

func (c *ChannelStatus) expandArgo(nibble, shift int, flag bool) int {
	sample := signExtend(nibble, 4) * (1 << shift)
	if flag {
		sample += 8*c.Sample1 - 4*c.Sample2
	} else {
		sample += 4 * c.Sample1
	}

	sample = clip16(sample >> 2)
	c.Sample2 = c.Sample1
	c.Sample1 = sample

	return sample
}

func (c *ChannelStatus) compressIMA(sample int) int {
	step := imaStepTable[c.StepIndex]
	delta := sample - c.PrevSample

	nibble := min(7, abs(delta)*4/step)
	if delta < 0 {
		nibble += 8
	}

	c.PrevSample = clip16(c.PrevSample + step*yamahaDiffLookup[nibble]/8)
	c.StepIndex = clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	return nibble
}

// compressQT picks the code by successive approximation, mirroring the
// threshold tree expandQT walks.
func (c *ChannelStatus) compressQT(sample int) int {
	delta := sample - c.PrevSample
	step := imaStepTable[c.StepIndex]

	nibble := 0
	if delta < 0 {
		nibble = 8
	}

	delta = abs(delta)
	diff := delta + step>>3

	for bit := 4; bit > 0; bit >>= 1 {
		if delta >= step {
			nibble |= bit
			delta -= step
		}
		step >>= 1
	}
	diff -= delta

	if nibble&8 != 0 {
		c.PrevSample = clip16(c.PrevSample - diff)
	} else {
		c.PrevSample = clip16(c.PrevSample + diff)
	}
	c.StepIndex = clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	return nibble
}

func (c *ChannelStatus) compressALP(sample int) int {
	delta := sample - c.PrevSample
	step := imaStepTable[c.StepIndex]

	nibble := min(abs(delta)*4/step, 7)
	diff := (step * nibble) >> 2
	if delta < 0 {
		diff = -diff
		nibble |= 8
	}

	c.PrevSample = clip16(c.PrevSample + diff)
	c.StepIndex = clip(c.StepIndex+imaIndexTable[nibble], 0, 88)

	return nibble
}

func (c *ChannelStatus) compressYamaha(sample int) int {
	if c.Step == 0 {
		c.Predictor = 0
		c.Step = 127
	}

	delta := sample - c.Predictor
	nibble := min(7, abs(delta)*4/c.Step)
	if delta < 0 {
		nibble += 8
	}

	c.Predictor = clip16(c.Predictor + c.Step*yamahaDiffLookup[nibble]/8)
	c.Step = clip((c.Step*yamahaIndexScale[nibble])>>8, 127, 24576)

	return nibble
}

func (c *ChannelStatus) compressMS(sample int) int {
	predictor := (c.Sample1*c.Coeff1 + c.Sample2*c.Coeff2) / 64

	delta := sample - predictor
	bias := c.IDelta / 2
	if delta < 0 {
		bias = -bias
	}

	nibble := clipIntP2((delta+bias)/c.IDelta, 3) & 0x0F
	predictor += signExtend(nibble, 4) * c.IDelta

	c.Sample2 = c.Sample1
	c.Sample1 = clip16(predictor)
	c.IDelta = max((msAdaptationTable[nibble]*c.IDelta)>>8, 16)

	return nibble
}

func (c *ChannelStatus) compressArgo(sample, shift int, flag bool) int {
	var nibble int
	if flag {
		nibble = 4*sample - 8*c.Sample1 + 4*c.Sample2
	} else {
		nibble = 4*sample - 4*c.Sample1
	}
	return (nibble >> shift) & 0x0F
}
