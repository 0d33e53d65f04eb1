// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/ik5/adpcm/internal/bitstream"
)

// framePad is the slack kept after each channel buffer. A few variants
// write whole groups of samples and may run a little past the count.
const framePad = 32

// Decoder turns packets of one ADPCM variant into 16-bit PCM.
//
// A Decoder is not safe for concurrent use. Construct it with NewDecoder,
// call Begin once the stream parameters are known, then Decode packets in
// stream order. End resets the predictor state.
type Decoder struct {
	base Config
	cfg  Config
	v    *variant
	log  *log.Logger

	ready      bool
	status     []ChannelStatus
	vqaVersion int
	hasStatus  bool

	// Per packet.
	r      bitstream.Reader
	pkt    []byte
	nb     int
	st     int
	out    []int16
	planes [][]int16
	frame  Frame
}

// NewDecoder returns a decoder for id. Identifiers without a decoder fail
// with an error wrapping ErrUnsupportedConfiguration.
func NewDecoder(id ID, opts ...Option) (*Decoder, error) {
	v, err := lookup(id)
	if err != nil {
		return nil, err
	}

	o := newOptions(id, opts)

	return &Decoder{
		base: o.cfg,
		cfg:  o.cfg,
		v:    v,
		log:  prefixed(o.logger, id),
	}, nil
}

// Begin binds the stream parameters and resets the channel state.
func (d *Decoder) Begin(sampleRate, channels int) error {
	d.ready = false

	cfg := d.base
	cfg.SampleRate = sampleRate
	cfg.Channels = channels

	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfiguration, sampleRate)
	}
	// Decoders ignore trellis, but an out-of-range depth is rejected by
	// every Begin so options shared with an encoder fail the same way.
	if cfg.Trellis < 0 || cfg.Trellis > MaxTrellis {
		return fmt.Errorf("%w: trellis %d outside 0..%d",
			ErrUnsupportedConfiguration, cfg.Trellis, MaxTrellis)
	}
	if err := checkDecoderChannels(&cfg); err != nil {
		return err
	}
	if err := checkCodedBits(&cfg); err != nil {
		return err
	}

	d.cfg = cfg
	d.status = make([]ChannelStatus, max(channels, 2))
	d.flush()
	d.cfg.Layout = d.layout()
	d.cfg.FrameSize = d.nativeFrameSize()
	d.frame.Planes = make([][]int16, channels)
	d.planes = make([][]int16, channels)
	d.ready = true

	return nil
}

func checkDecoderChannels(cfg *Config) error {
	ch := cfg.Channels
	lo, hi := 1, 2

	switch cfg.ID {
	case IMAAMV:
		hi = 1
	case DTK, EA:
		lo = 2
	case AFC, EAR1, EAR2, EAR3, EAXAS, MS:
		hi = 6
	case MTAF:
		lo, hi = 2, 8
		if ch&1 != 0 {
			return fmt.Errorf("%w: %s needs an even channel count, got %d",
				ErrInvalidConfiguration, cfg.ID, ch)
		}
	case PSX:
		hi = 8
		if ch <= 0 || cfg.BlockAlign%(16*ch) != 0 {
			return fmt.Errorf("%w: block align %d is not a multiple of %d",
				ErrInvalidConfiguration, cfg.BlockAlign, 16*max(ch, 1))
		}
	case IMADAT4, THP, THPLE:
		hi = 14
	}

	if ch < lo || ch > hi {
		return fmt.Errorf("%w: %s supports %d to %d channels, got %d",
			ErrInvalidConfiguration, cfg.ID, lo, hi, ch)
	}
	return nil
}

func checkCodedBits(cfg *Config) error {
	switch cfg.ID {
	case IMAWAV:
		if cfg.BitsPerCodedSample == 0 {
			cfg.BitsPerCodedSample = 4
		}
		if cfg.BitsPerCodedSample < 2 || cfg.BitsPerCodedSample > 5 {
			return fmt.Errorf("%w: %d bits per coded sample", ErrInvalidConfiguration, cfg.BitsPerCodedSample)
		}
	case Argo:
		if cfg.BitsPerCodedSample == 0 {
			cfg.BitsPerCodedSample = 4
		}
		if cfg.BlockAlign == 0 {
			cfg.BlockAlign = 17 * cfg.Channels
		}
		if cfg.BitsPerCodedSample != 4 || cfg.BlockAlign != 17*cfg.Channels {
			return fmt.Errorf("%w: argo needs 4 bits and block align %d",
				ErrInvalidConfiguration, 17*cfg.Channels)
		}
	case Zork:
		if cfg.BitsPerCodedSample == 0 {
			cfg.BitsPerCodedSample = 8
		}
		if cfg.BitsPerCodedSample != 8 {
			return fmt.Errorf("%w: zork needs 8 bits per coded sample", ErrInvalidConfiguration)
		}
	case IMAQT, IMASSI, IMAAPM, IMAALP, Yamaha, MS, SWF, IMAAMV, IMAWS:
		if cfg.BitsPerCodedSample == 0 {
			cfg.BitsPerCodedSample = 4
		}
	}
	return nil
}

func (d *Decoder) layout() Layout {
	switch d.cfg.ID {
	case IMAWS:
		if d.vqaVersion == 3 {
			return Planar
		}
		return Interleaved
	case MS:
		if d.cfg.Channels > 2 {
			return Planar
		}
		return Interleaved
	}
	if d.v.planar {
		return Planar
	}
	return Interleaved
}

// nativeFrameSize derives the samples per packet. A configured block
// align is measured directly; otherwise a matching encoder, if the
// variant has one, reports the frame it would produce.
func (d *Decoder) nativeFrameSize() int {
	if d.cfg.BlockAlign > 0 {
		return d.measure(d.cfg.BlockAlign)
	}

	if d.cfg.ID == IMAWAV && d.cfg.BitsPerCodedSample != 4 {
		return 0
	}

	enc, err := NewEncoder(d.cfg.ID, WithBlockSize(d.cfg.BlockSize))
	if err != nil {
		return 0
	}
	if err := enc.Begin(d.cfg.SampleRate, d.cfg.Channels); err != nil {
		return 0
	}
	defer enc.End()

	return enc.FrameSize()
}

// measure runs the sample count on a silent packet of n bytes.
func (d *Decoder) measure(n int) int {
	d.r.Reset(make([]byte, n))
	nb, _, _, err := d.sampleCount(n)
	d.r.Reset(nil)
	if err != nil || nb < 0 {
		return 0
	}
	return nb
}

// flush zeroes the channel state and re-seeds the variants that take
// their initial state from extradata.
func (d *Decoder) flush() {
	clear(d.status)
	d.vqaVersion = 0
	d.hasStatus = false

	ex := d.cfg.Extradata

	switch d.cfg.ID {
	case CT:
		d.status[0].Step = 511
		d.status[1].Step = 511
	case IMAAPC:
		if len(ex) >= 8 {
			d.status[0].Predictor = clipIntP2(le32(ex[0:]), 18)
			d.status[1].Predictor = clipIntP2(le32(ex[4:]), 18)
		}
	case IMAAPM:
		if len(ex) >= 28 {
			d.status[0].Predictor = clipIntP2(le32(ex[16:]), 18)
			d.status[0].StepIndex = clip(le32(ex[20:]), 0, 88)
			d.status[1].Predictor = clipIntP2(le32(ex[4:]), 18)
			d.status[1].StepIndex = clip(le32(ex[8:]), 0, 88)
		}
	case IMAWS:
		if len(ex) >= 2 {
			d.vqaVersion = int(binary.LittleEndian.Uint16(ex))
		}
	default:
		return
	}

	d.hasStatus = true
}

func le32(b []byte) int { return int(int32(binary.LittleEndian.Uint32(b))) }

// Decode decodes one packet. It returns the frame and the number of bytes
// consumed. A packet the variant reads past is not an error: the frame is
// marked Overread and the full packet length is reported as consumed.
func (d *Decoder) Decode(pkt []byte) (*Frame, int, error) {
	if !d.ready {
		return nil, 0, ErrNotInitialized
	}

	d.pkt = pkt
	d.r.Reset(pkt)

	nb, coded, approx, err := d.sampleCount(len(pkt))
	if err != nil {
		return nil, 0, err
	}
	if nb <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid number of samples in packet", ErrInvalidData)
	}

	d.alloc(nb)

	if coded > 0 {
		if !approx && coded != nb {
			d.log.Printf("mismatch in coded sample count: %d != %d", coded, nb)
		}
		nb = coded
	}

	d.nb = nb
	d.st = 0
	if d.cfg.Channels == 2 {
		d.st = 1
	}

	if err := d.v.decode(d); err != nil {
		return nil, 0, err
	}

	used := d.r.Tell()
	if len(pkt) > 0 && used == 0 {
		return nil, 0, fmt.Errorf("%w: nothing consumed", ErrInvalidData)
	}

	overread := used > len(pkt)
	if overread {
		d.log.Printf("overread of %d < %d", len(pkt), used)
		used = len(pkt)
	}

	return d.finish(overread), used, nil
}

func (d *Decoder) alloc(nb int) {
	ch := d.cfg.Channels
	n := nb + framePad

	if cap(d.out) < 2*n*ch {
		d.out = make([]int16, 2*n*ch)
	}
	buf := d.out[:2*n*ch]
	clear(buf)

	d.out = buf[:n*ch]
	for c := range ch {
		d.planes[c] = buf[n*ch+c*n : n*ch+(c+1)*n]
	}
}

// finish fills whichever view the variant did not write.
func (d *Decoder) finish(overread bool) *Frame {
	ch := d.cfg.Channels
	nb := min(d.nb, len(d.planes[0]))

	if d.cfg.Layout == Planar {
		for i := range nb {
			for c := range ch {
				d.out[i*ch+c] = d.planes[c][i]
			}
		}
	} else {
		for i := range nb {
			for c := range ch {
				d.planes[c][i] = d.out[i*ch+c]
			}
		}
	}

	f := &d.frame
	f.NumSamples = nb
	f.Channels = ch
	f.SampleRate = d.cfg.SampleRate
	f.Layout = d.cfg.Layout
	f.Samples = d.out[:nb*ch]
	for c := range ch {
		f.Planes[c] = d.planes[c][:nb]
	}
	f.Overread = overread

	return f
}

// End resets the channel state to its initial values. Begin must be called
// again before the next Decode.
func (d *Decoder) End() {
	if d.status != nil {
		d.flush()
	}
	d.ready = false
	d.pkt = nil
}

// Reset returns the channel state to its initial values without ending
// the stream, as needed after a seek.
func (d *Decoder) Reset() {
	if d.ready {
		d.flush()
	}
}

func (d *Decoder) ID() ID             { return d.cfg.ID }
func (d *Decoder) Config() Config     { return d.cfg }
func (d *Decoder) FrameSize() int     { return d.cfg.FrameSize }
func (d *Decoder) BlockAlign() int    { return d.cfg.BlockAlign }
func (d *Decoder) Channels() int      { return d.cfg.Channels }
func (d *Decoder) SampleRate() int    { return d.cfg.SampleRate }
func (d *Decoder) Layout() Layout     { return d.cfg.Layout }
func (d *Decoder) BitsPerSample() int { return d.cfg.BitsPerCodedSample }

// Status returns a copy of the predictor state of channel ch.
func (d *Decoder) Status(ch int) ChannelStatus {
	if ch < 0 || ch >= len(d.status) {
		return ChannelStatus{}
	}
	return d.status[ch]
}

// checkStepIndex rejects a header step index outside the IMA table.
func (d *Decoder) checkStepIndex(ch, idx int) error {
	if idx < 0 || idx > 88 {
		d.log.Printf("step_index[%d] = %d", ch, idx)
		return fmt.Errorf("%w: step index %d on channel %d", ErrInvalidData, idx, ch)
	}
	return nil
}

// byteAt reads the packet at an absolute offset without moving the cursor.
func (d *Decoder) byteAt(i int) byte {
	if i < 0 || i >= len(d.pkt) {
		return 0
	}
	return d.pkt[i]
}
