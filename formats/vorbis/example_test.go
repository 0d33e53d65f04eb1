// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ik5/adpcm/audio"
	"github.com/ik5/adpcm/formats/vorbis"
)

// ExampleDecoder_Decode reads an Ogg Vorbis file conformed to 22050 Hz
// mono.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := vorbis.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	mono, err := audio.Conform(src, 22050, 1)
	if err != nil {
		log.Fatal(err)
	}

	pcm, err := audio.ReadAll(mono)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(pcm))
}

// ExampleDecoder_Decode_errorHandling shows the sentinel for bad input.
func ExampleDecoder_Decode_errorHandling() {
	_, err := vorbis.Decoder{}.Decode(bytes.NewReader([]byte("plain text")))
	fmt.Println(errors.Is(err, vorbis.ErrNotVorbisFile))
	// Output:
	// true
}
