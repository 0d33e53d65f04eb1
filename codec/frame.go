// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/go-audio/audio"

// Layout tells how a variant arranges channels in its native buffers.
type Layout int

const (
	// Interleaved stores sample i of channel c at i*channels+c.
	Interleaved Layout = iota
	// Planar stores each channel in its own contiguous slice.
	Planar
)

func (l Layout) String() string {
	if l == Planar {
		return "planar"
	}
	return "interleaved"
}

// Frame is one decoded packet. Samples and Planes always hold the same
// data; Layout records which of the two the variant produced natively.
//
// A Frame and its slices are reused by the next call to Decode.
type Frame struct {
	NumSamples int
	Channels   int
	SampleRate int
	Layout     Layout
	Samples    []int16
	Planes     [][]int16
	// Overread is set when the variant read past the end of the packet.
	// The samples are still returned.
	Overread bool
}

// IntBuffer copies the frame into a go-audio buffer for PCM writers.
func (f *Frame) IntBuffer() *audio.IntBuffer {
	data := make([]int, len(f.Samples))
	for i, s := range f.Samples {
		data[i] = int(s)
	}

	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: f.Channels,
			SampleRate:  f.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
}
