// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"fmt"
	"io"

	"github.com/ik5/adpcm/audio"
	"github.com/ik5/adpcm/codec"
)

// EncodeSource reads src to the end and encodes it with enc, which must
// already be begun. The source is resampled and downmixed to the
// encoder's rate and channel count first.
//
// It returns the packets and the number of samples per channel they
// carry. The last block of a block variant is padded with silence.
func EncodeSource(src audio.Source, enc *codec.Encoder) ([][]byte, int, error) {
	if enc.FrameSize() == 0 {
		return nil, 0, codec.ErrNotInitialized
	}

	conformed, err := audio.Conform(src, enc.SampleRate(), enc.Channels())
	if err != nil {
		return nil, 0, fmt.Errorf("conforming source: %w", err)
	}

	ch := enc.Channels()
	frame := make([]int16, enc.FrameSize()*ch)

	var (
		packets [][]byte
		total   int
	)
	for {
		n, err := readFrame(conformed, frame)
		if n > 0 {
			pkt, encErr := enc.Encode(frame[:n])
			if encErr != nil {
				return packets, total, fmt.Errorf("encoding frame %d: %w", len(packets), encErr)
			}
			packets = append(packets, pkt)
			total += n / ch
		}

		if err == io.EOF {
			return packets, total, nil
		}
		if err != nil {
			return packets, total, err
		}
	}
}

// readFrame fills buf from src. It returns io.EOF once src is drained,
// possibly together with a partial frame.
func readFrame(src audio.Source, buf []int16) (int, error) {
	filled := 0
	for filled < len(buf) {
		n, err := src.ReadSamples(buf[filled:])
		filled += n

		if err == io.EOF {
			return filled, io.EOF
		}
		if err != nil {
			return filled, fmt.Errorf("reading source: %w", err)
		}
		if n == 0 {
			// A source that returns nothing without EOF is treated as done.
			return filled, io.EOF
		}
	}
	return filled, nil
}

// DecodePackets decodes packets in order with dec, which must already be
// begun, and returns the interleaved samples. A packet the variant does
// not consume in one call is fed again from where it stopped.
func DecodePackets(dec *codec.Decoder, packets [][]byte) ([]int16, error) {
	var pcm []int16

	for i, pkt := range packets {
		for len(pkt) > 0 {
			frame, used, err := dec.Decode(pkt)
			if err != nil {
				return pcm, fmt.Errorf("decoding packet %d: %w", i, err)
			}
			pcm = append(pcm, frame.Samples...)

			if used <= 0 || used >= len(pkt) {
				break
			}
			pkt = pkt[used:]
		}
	}

	return pcm, nil
}
