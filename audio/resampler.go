// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/adpcm/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. It works on interleaved samples and keeps the channel
// count. Downsampling runs a one-pole low-pass ahead of the interpolator.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// Four frames around the read position:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]int16
	hasFrame [4]bool
	primed   bool

	// Position between frames[1] and frames[2].
	pos float64

	srcBuf []int16
	eof    bool

	useFilter   bool
	filterState []int
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]int16, channels),
		useFilter:   ratio > 1.0,
		filterState: make([]int, channels),
	}
	for i := range r.frames {
		r.frames[i] = make([]int16, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// readFrame reads one source frame into dst, filtered when downsampling.
func (r *Resampler) readFrame(dst []int16) (bool, error) {
	n, err := r.src.ReadSamples(r.srcBuf)
	if n < r.channels {
		if err == nil {
			err = io.EOF
		}
		return false, err
	}

	copy(dst, r.srcBuf)
	if r.useFilter {
		// y[n] = (x[n] + y[n-1]) / 2
		for c := range r.channels {
			r.filterState[c] = (int(dst[c]) + r.filterState[c]) / 2
			dst[c] = int16(r.filterState[c])
		}
	}

	if err == io.EOF {
		r.eof = true
		err = nil
	}
	return true, err
}

// shift drops frames[0] and reads a new frames[3].
func (r *Resampler) shift() error {
	last := r.frames[0]
	copy(r.frames[:3], r.frames[1:])
	copy(r.hasFrame[:3], r.hasFrame[1:])
	r.frames[3] = last
	r.hasFrame[3] = false

	if r.eof {
		return nil
	}

	ok, err := r.readFrame(r.frames[3])
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading resampler source: %w", err)
	}
	r.hasFrame[3] = ok
	if err == io.EOF {
		r.eof = true
	}
	return nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame(r.frames[1])
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading resampler source: %w", err)
	}
	if !ok {
		r.eof = true
		return io.EOF
	}
	if r.useFilter {
		// Start the filter on the first frame instead of on silence.
		for c := range r.channels {
			r.filterState[c] = int(r.srcBuf[c])
			r.frames[1][c] = r.srcBuf[c]
		}
	}
	r.hasFrame[1] = true

	for i := 2; i < 4; i++ {
		if r.eof {
			break
		}
		ok, err := r.readFrame(r.frames[i])
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading resampler source: %w", err)
		}
		if !ok {
			r.eof = true
			break
		}
		r.hasFrame[i] = true
	}
	return nil
}

// ReadSamples produces samples at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []int16) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.hasFrame[1] {
			return written * r.channels, io.EOF
		}

		// The last source frame is emitted once, uninterpolated.
		if !r.hasFrame[2] {
			if r.pos > 0 {
				return written * r.channels, io.EOF
			}
			copy(dst[written*r.channels:], r.frames[1])
			written++
			r.pos += r.ratio
			continue
		}

		y0, y3 := r.frames[0], r.frames[3]
		if !r.hasFrame[0] {
			y0 = r.frames[1]
		}
		if !r.hasFrame[3] {
			y3 = r.frames[2]
		}

		for c := range r.channels {
			dst[written*r.channels+c] = utils.CubicInterpolate(
				y0[c], r.frames[1][c], r.frames[2][c], y3[c], r.pos)
		}
		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
