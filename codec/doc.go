// SPDX-License-Identifier: EPL-2.0

// Package codec implements the ADPCM dialects found in games, consoles
// and container formats: IMA (WAV, QuickTime, DK3/DK4, Westwood and a
// dozen more), Microsoft, Yamaha, EA, XA, PSX, THP, SWF and others.
//
// Every dialect keeps per-channel predictor state and expands or
// compresses one code at a time, clipping to 16 bits after each step.
// They differ in header layout, nibble order and the adaptation rule.
//
// # Decoding
//
//	dec, err := codec.NewDecoder(codec.MS, codec.WithBlockAlign(1024))
//	if err != nil {
//		return err
//	}
//	if err := dec.Begin(44100, 2); err != nil {
//		return err
//	}
//	frame, used, err := dec.Decode(packet)
//
// A Frame exposes both an interleaved and a planar view of the samples
// and is reused by the next Decode. Errors wrapping ErrInvalidData concern
// one packet only; the caller may skip it and continue.
//
// # Encoding
//
// Encoders exist for IMA WAV, IMA QT, IMA SSI, IMA ALP, IMA APM, IMA AMV,
// IMA WS, MS, SWF, Yamaha and Argo:
//
//	enc, _ := codec.NewEncoder(codec.IMAWAV, codec.WithTrellis(4))
//	if err := enc.Begin(44100, 1); err != nil {
//		return err
//	}
//	pkt, err := enc.Encode(samples[:enc.FrameSize()])
//
// With a trellis width set, IMA WAV, QT, AMV, SWF, MS and Yamaha search
// up to 1<<width candidate paths per sample for the one with the lowest
// squared error instead of picking each code greedily.
//
// The package never resamples or parses containers. See the audio and
// formats packages of this module for that.
package codec
