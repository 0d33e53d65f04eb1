// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// chunkSize is the number of samples converted per write.
const chunkSize = 8192

// PCMWriter streams 16-bit PCM into a WAV file. The header sizes are
// patched on Close, so w must seek.
type PCMWriter struct {
	enc    *wav.Encoder
	format *goaudio.Format
	buf    *goaudio.IntBuffer
}

// NewPCMWriter starts a 16-bit PCM WAV file on w.
func NewPCMWriter(w io.WriteSeeker, sampleRate, channels int) *PCMWriter {
	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}

	return &PCMWriter{
		enc:    wav.NewEncoder(w, sampleRate, 16, channels, formatPCM),
		format: format,
		buf:    &goaudio.IntBuffer{Format: format, SourceBitDepth: 16},
	}
}

// Write appends interleaved samples. len(samples) must be a multiple of
// the channel count.
func (p *PCMWriter) Write(samples []int16) error {
	if len(samples)%p.format.NumChannels != 0 {
		return fmt.Errorf("%d samples for %d channels: %w",
			len(samples), p.format.NumChannels, ErrUnsupportedWavLayout)
	}

	// Empty input still passes once so the headers get written.
	for i := 0; i < len(samples) || i == 0; i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]

		if cap(p.buf.Data) < len(chunk) {
			p.buf.Data = make([]int, len(chunk))
		}
		p.buf.Data = p.buf.Data[:len(chunk)]
		for j, s := range chunk {
			p.buf.Data[j] = int(s)
		}

		if err := p.WriteBuffer(p.buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteBuffer appends a go-audio buffer, such as the one returned by
// codec.Frame.IntBuffer.
func (p *PCMWriter) WriteBuffer(buf *goaudio.IntBuffer) error {
	if err := p.enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close finalizes the headers. The underlying writer is not closed.
func (p *PCMWriter) Close() error {
	if err := p.enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	return nil
}

// WritePCM writes interleaved 16-bit samples as a complete WAV file.
func WritePCM(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	pw := NewPCMWriter(w, sampleRate, channels)
	if err := pw.Write(samples); err != nil {
		return err
	}
	return pw.Close()
}
