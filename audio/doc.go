// SPDX-License-Identifier: EPL-2.0

// Package audio carries 16-bit PCM between container decoders and the
// ADPCM codecs.
//
// # Source Interface
//
// Every container adapter and processing stage implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []int16) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved signed 16-bit PCM, the format the codecs
// consume and produce.
//
// # Conforming
//
// Several ADPCM dialects only accept certain rates or channel counts (AMV
// is mono at 22050 Hz, SWF runs at 11025, 22050 or 44100 Hz). Conform
// chains a Resampler and a MonoMixer to meet them:
//
//	src, err := audio.Conform(src, 22050, 1)
//	pcm, err := audio.ReadAll(src)
//
// The Resampler uses cubic interpolation and a one-pole low-pass when
// downsampling. The MonoMixer averages the channels of each frame.
//
// # Format Registry
//
// The registry maps file extensions to container decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Open("wav", file)
//
// # Error Handling
//
// ReadSamples returns io.EOF once the stream is exhausted, possibly
// together with the last samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
