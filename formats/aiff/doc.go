// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files into
// 16-bit samples ready for an ADPCM encoder.
//
// # Supported Formats
//
//   - Uncompressed AIFF
//   - 8, 16, 24 and 32-bit samples, scaled to 16 bits
//   - Any channel count and sample rate
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("audio.aif")
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, aiff.ErrNotAiffFile)
//	}
//
//	buf := make([]int16, 4096)
//	n, err := src.ReadSamples(buf)
//
// Inputs that cannot seek are read into memory first, since go-audio
// needs an io.ReadSeeker.
//
// # Error Handling
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: samples are not 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: the COMM chunk is missing or empty
//
// AIFF-C compressed files are not supported.
package aiff
