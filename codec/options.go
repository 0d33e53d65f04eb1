// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"io"
	"log"
)

// DefaultBlockSize is the encoder block size used when none is given.
const DefaultBlockSize = 128

// MaxTrellis is the largest accepted trellis width in bits.
const MaxTrellis = 16

// Config is the static configuration of a decoder or encoder. It is
// completed by Begin and read-only afterwards.
type Config struct {
	ID                 ID
	SampleRate         int
	Channels           int
	FrameSize          int
	BlockSize          int
	BlockAlign         int
	BitsPerCodedSample int
	Trellis            int
	Extradata          []byte
	Layout             Layout
}

type options struct {
	cfg    Config
	logger *log.Logger
}

// Option configures a Decoder or Encoder at construction.
type Option func(*options)

// WithBlockSize sets the encoder block size in bytes.
func WithBlockSize(n int) Option {
	return func(o *options) { o.cfg.BlockSize = n }
}

// WithBlockAlign sets the container block alignment. Block structured
// decoders never read past it within a packet.
func WithBlockAlign(n int) Option {
	return func(o *options) { o.cfg.BlockAlign = n }
}

// WithTrellis enables trellis quantization with a frontier of 1<<bits
// candidates. Zero disables it.
func WithTrellis(bits int) Option {
	return func(o *options) { o.cfg.Trellis = bits }
}

// WithExtradata supplies the out-of-band setup blob of the stream. The
// slice is copied.
func WithExtradata(b []byte) Option {
	return func(o *options) { o.cfg.Extradata = append([]byte(nil), b...) }
}

// WithBitsPerCodedSample sets the code width of the stream, as stored in
// a WAV fmt chunk.
func WithBitsPerCodedSample(n int) Option {
	return func(o *options) { o.cfg.BitsPerCodedSample = n }
}

// WithLogger routes warnings to l. A nil logger discards them.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(id ID, opts []Option) options {
	o := options{cfg: Config{ID: id, BlockSize: DefaultBlockSize}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = discard
	}
	return o
}

var discard = log.New(io.Discard, "", 0)

// prefixed returns a logger writing to the same sink as l with the
// variant name in front of every line.
func prefixed(l *log.Logger, id ID) *log.Logger {
	return log.New(l.Writer(), l.Prefix()+"adpcm: "+id.String()+": ", l.Flags())
}
