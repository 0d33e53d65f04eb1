// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"

	"github.com/ik5/adpcm/codec"
	"github.com/ik5/adpcm/internal/bitstream"
)

// WAVE format tags.
const (
	formatPCM        = 0x0001
	formatMS         = 0x0002
	formatIMA        = 0x0011
	formatYamaha     = 0x0020
	formatDK4        = 0x0061
	formatDK3        = 0x0062
	formatIMADVI     = 0x0069
	formatCT         = 0x0200
	formatSWF        = 0x5346
	formatExtensible = 0xFFFE
)

var tagCodecs = map[uint16]codec.ID{
	formatMS:     codec.MS,
	formatIMA:    codec.IMAWAV,
	formatYamaha: codec.Yamaha,
	formatDK4:    codec.IMADK4,
	formatDK3:    codec.IMADK3,
	formatIMADVI: codec.IMAWAV,
	formatCT:     codec.CT,
	formatSWF:    codec.SWF,
}

// Tags written for encoded streams.
var codecTags = map[codec.ID]uint16{
	codec.MS:     formatMS,
	codec.IMAWAV: formatIMA,
	codec.Yamaha: formatYamaha,
}

var factID = [4]byte{'f', 'a', 'c', 't'}

// ADPCMFormat describes the ADPCM payload of a WAV file.
type ADPCMFormat struct {
	Codec              codec.ID
	Tag                uint16
	SampleRate         int
	Channels           int
	BlockAlign         int
	BitsPerCodedSample int
	Extradata          []byte
	// Samples per channel from the fact chunk, 0 when absent.
	Samples int
}

// Options returns the decoder options matching the stream.
func (f ADPCMFormat) Options() []codec.Option {
	return []codec.Option{
		codec.WithBlockAlign(f.BlockAlign),
		codec.WithBitsPerCodedSample(f.BitsPerCodedSample),
		codec.WithExtradata(f.Extradata),
	}
}

// ADPCMReader yields the packets of an ADPCM WAV file.
type ADPCMReader struct {
	Format ADPCMFormat
	data   io.Reader
	done   bool
}

// ReadADPCM parses the RIFF headers of r up to the data chunk.
func ReadADPCM(r io.Reader) (*ADPCMReader, error) {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if p.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: form type %q", ErrNotWavFile, p.Format[:])
	}

	var (
		f      ADPCMFormat
		gotFmt bool
	)
	for {
		ch, err := p.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: no data chunk", ErrUnsupportedWavLayout)
			}
			return nil, fmt.Errorf("reading wav chunk: %w", err)
		}

		switch ch.ID {
		case riff.FmtID:
			if err := readADPCMFormat(ch, &f); err != nil {
				return nil, err
			}
			gotFmt = true
		case factID:
			var n uint32
			if err := ch.ReadLE(&n); err != nil {
				return nil, fmt.Errorf("%w: fact chunk: %w", ErrUnsupportedWavLayout, err)
			}
			f.Samples = int(n)
		case riff.DataFormatID:
			if !gotFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrUnsupportedWavLayout)
			}
			return &ADPCMReader{Format: f, data: io.LimitReader(r, int64(ch.Size))}, nil
		}
		ch.Drain()
	}
}

func readADPCMFormat(ch *riff.Chunk, f *ADPCMFormat) error {
	var hdr struct {
		Tag        uint16
		Channels   uint16
		SampleRate uint32
		ByteRate   uint32
		BlockAlign uint16
		Bits       uint16
	}
	if err := ch.ReadLE(&hdr); err != nil {
		return fmt.Errorf("%w: fmt chunk: %w", ErrUnsupportedWavLayout, err)
	}

	id, ok := tagCodecs[hdr.Tag]
	if !ok {
		return fmt.Errorf("%w: format tag %#04x", ErrNotADPCM, hdr.Tag)
	}
	if hdr.BlockAlign == 0 || hdr.Channels == 0 {
		return fmt.Errorf("%w: block align %d, %d channels",
			ErrUnsupportedWavLayout, hdr.BlockAlign, hdr.Channels)
	}

	*f = ADPCMFormat{
		Codec:              id,
		Tag:                hdr.Tag,
		SampleRate:         int(hdr.SampleRate),
		Channels:           int(hdr.Channels),
		BlockAlign:         int(hdr.BlockAlign),
		BitsPerCodedSample: int(hdr.Bits),
		Samples:            f.Samples,
	}

	if ch.Size >= 18 {
		var size uint16
		if err := ch.ReadLE(&size); err != nil {
			return fmt.Errorf("%w: fmt chunk: %w", ErrUnsupportedWavLayout, err)
		}
		size = min(size, uint16(ch.Size-18))
		if size > 0 {
			f.Extradata = make([]byte, size)
			if _, err := io.ReadFull(ch, f.Extradata); err != nil {
				return fmt.Errorf("%w: fmt extradata: %w", ErrUnsupportedWavLayout, err)
			}
		}
	}
	return nil
}

// NewDecoder returns a codec decoder configured for the stream and
// already begun.
func (r *ADPCMReader) NewDecoder(opts ...codec.Option) (*codec.Decoder, error) {
	dec, err := codec.NewDecoder(r.Format.Codec, append(r.Format.Options(), opts...)...)
	if err != nil {
		return nil, err
	}
	if err := dec.Begin(r.Format.SampleRate, r.Format.Channels); err != nil {
		return nil, err
	}
	return dec, nil
}

// ReadPacket returns the next block of the data chunk. The last block may
// be short. It returns io.EOF after the last block.
func (r *ADPCMReader) ReadPacket() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	pkt := make([]byte, r.Format.BlockAlign)
	n, err := io.ReadFull(r.data, pkt)
	switch {
	case err == nil:
		return pkt, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.done = true
		return pkt[:n], nil
	case errors.Is(err, io.EOF):
		r.done = true
		return nil, io.EOF
	}
	return nil, fmt.Errorf("reading wav data: %w", err)
}

// WriteADPCM writes packets produced by enc as a WAV file. samples is the
// number of samples per channel that went into the packets.
func WriteADPCM(w io.Writer, enc *codec.Encoder, samples int, packets [][]byte) error {
	tag, ok := codecTags[enc.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedCodec, enc.ID())
	}

	extra := enc.Extradata()
	if enc.ID() == codec.IMAWAV {
		// Samples per block.
		extra = []byte{byte(enc.FrameSize()), byte(enc.FrameSize() >> 8)}
	}

	dataSize := 0
	for _, p := range packets {
		dataSize += len(p)
	}

	fmtSize := 18 + len(extra)
	riffSize := 4 + 8 + fmtSize + fmtSize%2 + 8 + 4 + 8 + dataSize + dataSize%2

	hdr := bitstream.NewWriter(make([]byte, 12+8+fmtSize+fmtSize%2+12+8))
	putID(hdr, riff.RiffID)
	hdr.LE32(uint32(riffSize))
	putID(hdr, riff.WavFormatID)

	putID(hdr, riff.FmtID)
	hdr.LE32(uint32(fmtSize))
	hdr.LE16(int(tag))
	hdr.LE16(enc.Channels())
	hdr.LE32(uint32(enc.SampleRate()))
	hdr.LE32(uint32(enc.SampleRate() * enc.BlockAlign() / enc.FrameSize()))
	hdr.LE16(enc.BlockAlign())
	hdr.LE16(enc.BitsPerSample())
	hdr.LE16(len(extra))
	for _, b := range extra {
		hdr.U8(int(b))
	}
	hdr.Skip(fmtSize % 2)

	putID(hdr, factID)
	hdr.LE32(4)
	hdr.LE32(uint32(samples))

	putID(hdr, riff.DataFormatID)
	hdr.LE32(uint32(dataSize))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	for _, p := range packets {
		if _, err := w.Write(p); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}
	if dataSize%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}
	return nil
}

func putID(w *bitstream.Writer, id [4]byte) {
	for _, b := range id {
		w.U8(int(b))
	}
}
