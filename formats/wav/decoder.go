// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/adpcm/audio"
	"github.com/ik5/adpcm/utils"
)

// pcmReader is the part of wav.Decoder the source needs, to allow testing.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps a go-audio wav.Decoder to implement audio.Source.
type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []int16) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil {
		return 0, fmt.Errorf("reading wav samples: %w", err)
	}
	// Drop a trailing partial frame.
	n -= n % s.channels

	for i, v := range s.intBuf.Data[:n] {
		if s.bitDepth == 8 {
			v -= 128
		}
		dst[i] = utils.ScaleToInt16(v, s.bitDepth)
	}

	if n == 0 {
		s.eof = true
		return 0, io.EOF
	}
	return n, nil
}

// Decoder opens linear PCM WAV files.
type Decoder struct{}

// Decode parses the WAV headers from r and returns a Source positioned at
// the first sample. r is read into memory when it cannot seek.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil || dec.NumChans == 0 {
		return nil, ErrNotWavFile
	}

	// Checked ahead of IsValidFile, which rejects 4-bit ADPCM headers.
	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		if _, ok := tagCodecs[dec.WavAudioFormat]; ok {
			return nil, fmt.Errorf("%w: format tag %#04x is ADPCM", ErrCompressed, dec.WavAudioFormat)
		}
		return nil, fmt.Errorf("%w: format tag %#04x", ErrCompressed, dec.WavAudioFormat)
	}

	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}
