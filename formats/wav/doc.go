// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files holding either linear PCM or
// ADPCM blocks.
//
// # Linear PCM
//
// Decoder opens 8, 16, 24 and 32-bit PCM files through go-audio/wav and
// yields 16-bit samples:
//
//	file, _ := os.Open("speech.wav")
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, wav.ErrCompressed) for ADPCM files
//	}
//
// WritePCM and PCMWriter produce 16-bit PCM files. Both need an
// io.WriteSeeker because the header sizes are patched on Close.
//
// # ADPCM
//
// ReadADPCM parses the fmt, fact and data chunks of an ADPCM file and
// hands out one block per ReadPacket call. NewDecoder returns a codec
// decoder already configured with the block align, bits per sample and
// extradata from the fmt chunk:
//
//	r, err := wav.ReadADPCM(file)
//	dec, err := r.NewDecoder()
//	for {
//	    pkt, err := r.ReadPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    frame, _, err := dec.Decode(pkt)
//	    ...
//	}
//
// Recognized format tags are MS (0x0002), IMA (0x0011, 0x0069), Yamaha
// (0x0020), DK4 (0x0061), DK3 (0x0062), Creative (0x0200) and SWF
// (0x5346). WriteADPCM writes MS, IMA and Yamaha streams.
package wav
