// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with
// github.com/jfreymuth/oggvorbis.
//
// The Vorbis decoder works in float32; samples are rounded to 16 bits
// and saturated on the way out. Channel count and sample rate come from
// the identification header:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if errors.Is(err, vorbis.ErrNotVorbisFile) {
//	    // not an Ogg Vorbis stream
//	}
//
// The whole file does not need to be in memory; packets are decoded as
// ReadSamples asks for them.
package vorbis
