// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo 16-bit samples at the
// stream's sample rate; mono streams are duplicated into both channels
// by go-mp3. Use audio.Conform to reach the rate and channel count of an
// ADPCM variant:
//
//	src, err := mp3.Decoder{}.Decode(file)
//	mono, err := audio.Conform(src, 22050, 1)
//
// Inputs with no decodable frame fail with ErrNotMP3File.
package mp3
