// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"log"

	"github.com/ik5/adpcm/internal/bitstream"
)

// encoderVariant is the encoder side of one codec identifier.
type encoderVariant struct {
	setup func(*Encoder) error
	write func(*Encoder, []byte) error
	// trellis marks variants whose writer can use the trellis search.
	trellis bool
	planar  bool
	// free variants size the packet from the sample count instead of the
	// block align and accept frames of any length.
	free bool
}

var encoders = map[ID]encoderVariant{
	IMAWAV: {setup: (*Encoder).setupIMAWAV, write: (*Encoder).writeIMAWAV, trellis: true, planar: true},
	IMAQT:  {setup: (*Encoder).setupIMAQT, write: (*Encoder).writeIMAQT, trellis: true, planar: true},
	IMASSI: {setup: (*Encoder).setupNibbles, write: (*Encoder).writeIMASSI, free: true},
	IMAALP: {setup: (*Encoder).setupNibbles, write: (*Encoder).writeIMAALP, free: true},
	MS:     {setup: (*Encoder).setupMS, write: (*Encoder).writeMS, trellis: true},
	SWF:    {setup: (*Encoder).setupSWF, write: (*Encoder).writeSWF, trellis: true},
	Yamaha: {setup: (*Encoder).setupNibbles, write: (*Encoder).writeYamaha, trellis: true},
	IMAAPM: {setup: (*Encoder).setupIMAAPM, write: (*Encoder).writeIMAAPM, free: true},
	IMAAMV: {setup: (*Encoder).setupIMAAMV, write: (*Encoder).writeIMAAMV, trellis: true},
	Argo:   {setup: (*Encoder).setupArgo, write: (*Encoder).writeArgo, planar: true},
	IMAWS:  {setup: (*Encoder).setupNibbles, write: (*Encoder).writeIMAWS, free: true},
}

// Encoder turns 16-bit PCM into packets of one ADPCM variant.
//
// An Encoder is not safe for concurrent use. Begin allocates the trellis
// arena when one is requested and End releases it.
type Encoder struct {
	base Config
	cfg  Config
	v    *encoderVariant
	log  *log.Logger

	ready  bool
	status []ChannelStatus
	tr     *trellis
	st     int

	// Per frame.
	samples []int16
	planes  [][]int16
	nb      int
	buf     []byte
}

// NewEncoder returns an encoder for id. Only a subset of the identifiers
// has an encoder; the others fail with an error wrapping
// ErrUnsupportedConfiguration.
func NewEncoder(id ID, opts ...Option) (*Encoder, error) {
	v, ok := encoders[id]
	if !ok {
		return nil, reject(id, "encoder")
	}

	o := newOptions(id, opts)

	return &Encoder{
		base: o.cfg,
		cfg:  o.cfg,
		v:    &v,
		log:  prefixed(o.logger, id),
	}, nil
}

// Begin validates the configuration against the variant, computes the
// frame geometry and allocates the trellis arena. On error the encoder
// stays uninitialized and Begin may be retried.
func (e *Encoder) Begin(sampleRate, channels int) error {
	e.End()

	cfg := e.base
	cfg.SampleRate = sampleRate
	cfg.Channels = channels
	cfg.BitsPerCodedSample = 4
	cfg.Layout = Interleaved
	if e.v.planar {
		cfg.Layout = Planar
	}

	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfiguration, sampleRate)
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%w: %s encodes 1 or 2 channels, got %d",
			ErrInvalidConfiguration, cfg.ID, channels)
	}
	if cfg.BlockSize <= 0 || (cfg.ID != IMAAMV && !isPowerOfTwo(cfg.BlockSize)) {
		return fmt.Errorf("%w: block size %d is not a power of 2",
			ErrInvalidConfiguration, cfg.BlockSize)
	}
	if cfg.Trellis < 0 || cfg.Trellis > MaxTrellis {
		return fmt.Errorf("%w: trellis %d outside 0..%d",
			ErrUnsupportedConfiguration, cfg.Trellis, MaxTrellis)
	}
	if cfg.Trellis > 0 && !e.v.trellis {
		if cfg.ID != IMAALP {
			e.log.Printf("trellis not supported")
			return fmt.Errorf("%w: trellis on %s", ErrUnsupportedConfiguration, cfg.ID)
		}
		e.log.Printf("trellis not supported, ignored")
		cfg.Trellis = 0
	}

	var tr *trellis
	if cfg.Trellis > 0 {
		var err error
		if tr, err = newTrellis(cfg.ID, cfg.Trellis); err != nil {
			return err
		}
	}

	e.cfg = cfg
	e.status = make([]ChannelStatus, max(channels, 2))
	if err := e.v.setup(e); err != nil {
		e.cfg, e.status = e.base, nil
		return err
	}
	if e.cfg.FrameSize <= 0 {
		e.cfg, e.status = e.base, nil
		return fmt.Errorf("%w: block size %d too small for %d channels",
			ErrInvalidConfiguration, cfg.BlockSize, channels)
	}

	e.st = 0
	if channels == 2 {
		e.st = 1
	}
	e.planes = make([][]int16, channels)
	if e.v.planar {
		for c := range e.planes {
			e.planes[c] = make([]int16, e.cfg.FrameSize)
		}
	}
	e.tr = tr
	e.ready = true

	return nil
}

// Encode codes one frame of interleaved samples and returns a new packet.
//
// Block variants take at most FrameSize samples per channel and pad a
// shorter final frame with silence. Free-running variants (IMA SSI, ALP,
// APM and WS) take any count.
func (e *Encoder) Encode(samples []int16) ([]byte, error) {
	if !e.ready {
		return nil, ErrNotInitialized
	}

	ch := e.cfg.Channels
	if len(samples) == 0 || len(samples)%ch != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidData, len(samples), ch)
	}

	nb := len(samples) / ch
	size := e.cfg.BlockAlign
	if e.v.free {
		size = (nb*ch + 1) / 2
	} else {
		if nb > e.cfg.FrameSize {
			return nil, fmt.Errorf("%w: %d samples per channel, frame holds %d",
				ErrInvalidData, nb, e.cfg.FrameSize)
		}
		nb = e.cfg.FrameSize
	}

	e.load(samples, nb)

	pkt := make([]byte, size)
	if err := e.v.write(e, pkt); err != nil {
		return nil, err
	}
	return pkt, nil
}

// load copies the caller's samples, pads them to nb per channel and
// splits them into planes for the planar writers.
func (e *Encoder) load(samples []int16, nb int) {
	ch := e.cfg.Channels
	n := nb * ch

	if cap(e.samples) < n {
		e.samples = make([]int16, n)
	}
	e.samples = e.samples[:n]
	clear(e.samples[copy(e.samples, samples):])
	e.nb = nb

	if !e.v.planar {
		return
	}
	for c := range ch {
		p := e.planes[c][:nb]
		for i := range p {
			p[i] = e.samples[i*ch+c]
		}
	}
}

// scratch returns n bytes of reusable trellis output.
func (e *Encoder) scratch(n int) []byte {
	if cap(e.buf) < n {
		e.buf = make([]byte, n)
	}
	return e.buf[:n]
}

// flushBits copies a finished bit writer into the packet.
func (e *Encoder) flushBits(bw *bitstream.BitWriter, pkt []byte) error {
	b, err := bw.Flush()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	copy(pkt, b)
	return nil
}

// End releases the trellis arena. Begin must be called again before the
// next Encode.
func (e *Encoder) End() {
	e.ready = false
	e.tr = nil
	e.status = nil
}

func (e *Encoder) ID() ID             { return e.cfg.ID }
func (e *Encoder) Config() Config     { return e.cfg }
func (e *Encoder) FrameSize() int     { return e.cfg.FrameSize }
func (e *Encoder) BlockAlign() int    { return e.cfg.BlockAlign }
func (e *Encoder) Channels() int      { return e.cfg.Channels }
func (e *Encoder) SampleRate() int    { return e.cfg.SampleRate }
func (e *Encoder) Layout() Layout     { return e.cfg.Layout }
func (e *Encoder) Trellis() int       { return e.cfg.Trellis }
func (e *Encoder) BitsPerSample() int { return e.cfg.BitsPerCodedSample }

// Extradata returns the setup blob a matching decoder needs, or nil.
func (e *Encoder) Extradata() []byte { return e.cfg.Extradata }

// Status returns a copy of the predictor state of channel ch.
func (e *Encoder) Status(ch int) ChannelStatus {
	if ch < 0 || ch >= len(e.status) {
		return ChannelStatus{}
	}
	return e.status[ch]
}

func errRate(cfg Config, want string) error {
	return fmt.Errorf("%w: %s needs a sample rate of %s, got %d",
		ErrInvalidConfiguration, cfg.ID, want, cfg.SampleRate)
}

func errChannels(cfg Config, want int) error {
	return fmt.Errorf("%w: %s needs %d channel(s), got %d",
		ErrInvalidConfiguration, cfg.ID, want, cfg.Channels)
}
