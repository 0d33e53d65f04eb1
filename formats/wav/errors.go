// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input is not a RIFF/WAVE file.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedWavLayout indicates a WAV file whose chunks are out of
	// order or truncated.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")

	// ErrUnsupportedBitDepth indicates a PCM bit depth other than 8, 16,
	// 24 or 32.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	// ErrCompressed indicates a WAV file holding compressed audio. ADPCM
	// payloads are read with ReadADPCM instead.
	ErrCompressed = errors.New("WAV file is not linear PCM")

	// ErrNotADPCM indicates a WAV file whose format tag is not a known
	// ADPCM variant.
	ErrNotADPCM = errors.New("WAV file is not ADPCM")

	// ErrUnsupportedCodec indicates an ADPCM variant with no WAV format tag.
	ErrUnsupportedCodec = errors.New("codec has no WAV format tag")
)
