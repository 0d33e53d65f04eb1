// SPDX-License-Identifier: EPL-2.0

package adpcm

import (
	"github.com/ik5/adpcm/audio"
	"github.com/ik5/adpcm/formats/aiff"
	"github.com/ik5/adpcm/formats/mp3"
	"github.com/ik5/adpcm/formats/vorbis"
	"github.com/ik5/adpcm/formats/wav"
)

// NewFormatRegistry returns a registry holding every container decoder of
// this module, keyed by file extension without the dot.
func NewFormatRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})

	return reg
}
