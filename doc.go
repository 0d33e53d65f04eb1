// SPDX-License-Identifier: EPL-2.0

// Package adpcm ties the ADPCM codec to the container readers of this
// module.
//
// The codec itself lives in the codec package: one Decoder and one
// Encoder type cover every supported dialect, picked by codec.ID. This
// package adds the glue most programs need around it.
//
// # Encoding
//
// EncodeSource drains any audio.Source into packets. The source is first
// resampled and downmixed to the encoder's configuration:
//
//	f, _ := os.Open("voice.mp3")
//	src, _ := adpcm.NewFormatRegistry().Open("mp3", f)
//
//	enc, _ := codec.NewEncoder(codec.IMAWAV, codec.WithBlockSize(512))
//	_ = enc.Begin(22050, 1)
//
//	packets, samples, _ := adpcm.EncodeSource(src, enc)
//	_ = wav.WriteADPCM(out, enc, samples, packets)
//
// # Decoding
//
// DecodePackets runs a begun codec.Decoder over a list of packets and
// returns interleaved 16-bit samples. Packets holding several blocks are
// fed to the decoder until they are consumed:
//
//	r, _ := wav.ReadADPCM(f)
//	dec, _ := r.NewDecoder()
//	pcm, _ := adpcm.DecodePackets(dec, packets)
//
// # Containers
//
// NewFormatRegistry returns a registry with the WAV, AIFF, MP3 and Ogg
// Vorbis readers from the formats subpackages. formats/wav also reads and
// writes ADPCM payloads for the dialects that have a WAVE format tag.
package adpcm
