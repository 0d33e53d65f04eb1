// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Conform adapts src to the given rate and channel count, chaining a
// Resampler and a MonoMixer as needed. Only downmixing to mono is
// supported; any other channel change fails with ErrUnsupportedChannels.
func Conform(src Source, rate, channels int) (Source, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, rate)
	}

	switch {
	case channels == src.Channels():
	case channels == 1:
	default:
		return nil, fmt.Errorf("%w: %d to %d channels", ErrUnsupportedChannels, src.Channels(), channels)
	}

	out := src
	if src.SampleRate() != rate {
		out = NewResampler(out, rate)
	}
	if out.Channels() != channels {
		out = NewMonoMixer(out)
	}
	return out, nil
}

// ReadAll drains src and returns every sample read.
func ReadAll(src Source) ([]int16, error) {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	buf := make([]int16, size)
	var pcm []int16

	for {
		n, err := src.ReadSamples(buf)
		pcm = append(pcm, buf[:n]...)

		if err == io.EOF {
			return pcm, nil
		}
		if err != nil {
			return pcm, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// A source that returns nothing without EOF is treated as done.
			return pcm, nil
		}
	}
}

// PCMSource serves samples held in memory.
type PCMSource struct {
	sampleRate int
	channels   int
	samples    []int16
	pos        int
}

// NewPCMSource wraps interleaved samples as a Source.
func NewPCMSource(sampleRate, channels int, samples []int16) *PCMSource {
	return &PCMSource{sampleRate: sampleRate, channels: channels, samples: samples}
}

func (p *PCMSource) SampleRate() int { return p.sampleRate }
func (p *PCMSource) Channels() int   { return p.channels }
func (p *PCMSource) BufSize() int    { return 4096 }
func (p *PCMSource) Close() error    { return nil }

func (p *PCMSource) ReadSamples(dst []int16) (int, error) {
	if p.pos >= len(p.samples) {
		return 0, io.EOF
	}

	n := copy(dst[:len(dst)-len(dst)%p.channels], p.samples[p.pos:])
	p.pos += n
	if p.pos >= len(p.samples) {
		return n, io.EOF
	}
	return n, nil
}
