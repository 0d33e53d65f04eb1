// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates deterministic 16-bit test signals.
package audiotest

import (
	"io"
	"math"
)

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) int16
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) int16) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) int16 {
		return 0
	})
}

// NewSineSource creates a mock source that generates a sine wave of the
// given peak amplitude.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64, amplitude int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) int16 {
		return sineAt(sampleRate, sample, channel, frequency, amplitude)
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value int16) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) int16 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalSamples-m.generated)

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// Sine returns frames of an interleaved sine wave. Each channel after the
// first is shifted by a quarter period so stereo coders see two distinct
// signals.
func Sine(sampleRate, channels, frames int, frequency float64, amplitude int) []int16 {
	out := make([]int16, frames*channels)
	for i := range frames {
		for ch := range channels {
			out[i*channels+ch] = sineAt(sampleRate, i, ch, frequency, amplitude)
		}
	}
	return out
}

func sineAt(sampleRate, sample, channel int, frequency float64, amplitude int) int16 {
	t := float64(sample) / float64(sampleRate)
	phase := float64(channel) * math.Pi / 2
	return int16(float64(amplitude) * math.Sin(2*math.Pi*frequency*t+phase))
}
