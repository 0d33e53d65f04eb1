// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"strings"
	"testing"
)

func newDecoder(t *testing.T, id ID, rate, channels int, opts ...Option) *Decoder {
	t.Helper()

	dec, err := NewDecoder(id, opts...)
	if err != nil {
		t.Fatalf("NewDecoder(%s) error = %v", id, err)
	}
	if err := dec.Begin(rate, channels); err != nil {
		t.Fatalf("Decoder.Begin(%d, %d) error = %v", rate, channels, err)
	}
	return dec
}

// packet returns n zero bytes with fn applied.
func packet(n int, fn func(b []byte)) []byte {
	b := make([]byte, n)
	if fn != nil {
		fn(b)
	}
	return b
}

// ramp fills b with start, start+step, start+2*step and so on, modulo 256.
func ramp(b []byte, start, step int) {
	for i := range b {
		b[i] = byte(start + i*step)
	}
}

func putLE16(b []byte, v int) { binary.LittleEndian.PutUint16(b, uint16(v)) }
func putBE16(b []byte, v int) { binary.BigEndian.PutUint16(b, uint16(v)) }
func putLE32(b []byte, v int) { binary.LittleEndian.PutUint32(b, uint32(v)) }
func putBE32(b []byte, v int) { binary.BigEndian.PutUint32(b, uint32(v)) }

func TestDecoder_SampleCount(t *testing.T) {
	t.Parallel()

	thpExtradata := WithExtradata(make([]byte, 32))

	tests := []struct {
		name     string
		id       ID
		channels int
		opts     []Option
		pkt      []byte
		want     int
	}{
		{name: "ima_qt", id: IMAQT, pkt: packet(34, nil), want: 64},
		{name: "ima_wav", id: IMAWAV, pkt: packet(128, nil), want: 249},
		{name: "ima_dk3", id: IMADK3, channels: 2, pkt: packet(64, nil), want: 64},
		{name: "ima_dk4", id: IMADK4, pkt: packet(36, nil), want: 65},
		{name: "ima_ws", id: IMAWS, pkt: packet(32, nil), want: 64},
		{name: "ima_smjpeg", id: IMASMJPEG, pkt: packet(36, nil), want: 64},
		{name: "ms", id: MS, pkt: packet(128, nil), want: 244},
		{name: "4xm", id: FourXM, pkt: packet(36, nil), want: 64},
		{name: "xa", id: XA, pkt: packet(128, nil), want: 224},
		{name: "ct", id: CT, pkt: packet(32, nil), want: 64},
		{name: "swf", id: SWF, pkt: packet(32, nil), want: 117},
		{name: "yamaha", id: Yamaha, pkt: packet(32, nil), want: 64},
		{name: "sbpro_4", id: SBPro4, pkt: packet(33, nil), want: 65},
		{name: "sbpro_3", id: SBPro3, pkt: packet(33, nil), want: 97},
		{name: "sbpro_2", id: SBPro2, pkt: packet(33, nil), want: 129},
		{name: "thp with extradata", id: THP, opts: []Option{thpExtradata}, pkt: packet(16, nil), want: 28},
		{name: "thp_le with extradata", id: THPLE, opts: []Option{thpExtradata}, pkt: packet(16, nil), want: 28},
		{name: "thp coded", id: THP, pkt: packet(52, func(b []byte) {
			binary.BigEndian.PutUint32(b[4:], 14)
		}), want: 14},
		{name: "ima_amv", id: IMAAMV, pkt: packet(40, func(b []byte) {
			binary.LittleEndian.PutUint32(b[4:], 64)
		}), want: 64},
		{name: "ea", id: EA, channels: 2, pkt: packet(42, func(b []byte) {
			binary.LittleEndian.PutUint32(b, 28)
		}), want: 28},
		{name: "ea_r1", id: EAR1, pkt: packet(27, func(b []byte) {
			binary.LittleEndian.PutUint32(b, 28)
		}), want: 28},
		{name: "ea_r2", id: EAR2, pkt: packet(23, func(b []byte) {
			binary.LittleEndian.PutUint32(b, 28)
		}), want: 28},
		{name: "ea_r3", id: EAR3, pkt: packet(23, func(b []byte) {
			binary.BigEndian.PutUint32(b, 28)
		}), want: 28},
		{name: "ima_ea_eacs", id: IMAEAEACS, pkt: packet(44, func(b []byte) {
			binary.LittleEndian.PutUint32(b, 64)
		}), want: 64},
		{name: "ima_ea_sead", id: IMAEASEAD, pkt: packet(32, nil), want: 64},
		{name: "ea_xas", id: EAXAS, pkt: packet(76, nil), want: 128},
		{name: "ea_maxis_xa", id: EAMaxisXA, pkt: packet(33, nil), want: 64},
		{name: "ima_iss", id: IMAISS, pkt: packet(36, nil), want: 64},
		{name: "ima_apc", id: IMAAPC, pkt: packet(32, nil), want: 64},
		{name: "afc", id: AFC, pkt: packet(36, nil), want: 64},
		{name: "ima_oki", id: IMAOKI, pkt: packet(32, nil), want: 64},
		{name: "dtk", id: DTK, channels: 2, pkt: packet(32, nil), want: 28},
		{name: "ima_rad", id: IMARAD, pkt: packet(36, nil), want: 64},
		{name: "psx", id: PSX, opts: []Option{WithBlockAlign(16)}, pkt: packet(32, nil), want: 56},
		{name: "aica", id: AICA, pkt: packet(32, nil), want: 64},
		{name: "ima_dat4", id: IMADAT4, pkt: packet(36, nil), want: 64},
		{name: "mtaf", id: MTAF, channels: 2, pkt: packet(48, nil), want: 32},
		{name: "agm", id: AGM, pkt: packet(36, nil), want: 64},
		{name: "argo", id: Argo, pkt: packet(17, nil), want: 32},
		{name: "ima_ssi", id: IMASSI, pkt: packet(32, nil), want: 64},
		{name: "ima_apm", id: IMAAPM, pkt: packet(32, nil), want: 64},
		{name: "ima_alp", id: IMAALP, pkt: packet(32, nil), want: 64},
		{name: "ima_mtf", id: IMAMTF, pkt: packet(32, nil), want: 64},
		{name: "zork", id: Zork, pkt: packet(32, nil), want: 32},
		{name: "ima_cunning", id: IMACunning, pkt: packet(32, nil), want: 64},
		{name: "ima_moflex", id: IMAMoflex, pkt: packet(132, nil), want: 256},
		{name: "ima_acorn", id: IMAAcorn, pkt: packet(36, nil), want: 64},
		{name: "xmd", id: XMD, pkt: packet(21, nil), want: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ch := max(tt.channels, 1)
			dec := newDecoder(t, tt.id, 22050, ch, tt.opts...)

			frame, used, err := dec.Decode(tt.pkt)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if frame.NumSamples != tt.want {
				t.Errorf("Frame.NumSamples = %d, want %d", frame.NumSamples, tt.want)
			}
			if used <= 0 || used > len(tt.pkt) {
				t.Errorf("Decode() used = %d, want 1..%d", used, len(tt.pkt))
			}
			if len(frame.Samples) != tt.want*ch {
				t.Errorf("len(Frame.Samples) = %d, want %d", len(frame.Samples), tt.want*ch)
			}
			for c, p := range frame.Planes {
				if len(p) != tt.want {
					t.Errorf("len(Frame.Planes[%d]) = %d, want %d", c, len(p), tt.want)
				}
			}
		})
	}
}

func TestDecoder_Values(t *testing.T) {
	t.Parallel()

	repeat := func(v int16, n int) []int16 {
		out := make([]int16, n)
		for i := range out {
			out[i] = v
		}
		return out
	}

	eaRaw := packet(69, func(b []byte) {
		binary.LittleEndian.PutUint32(b, 28)
		b[8] = 0xEE
		for i := range 28 {
			binary.BigEndian.PutUint16(b[13+2*i:], uint16(int16(i*100-1000)))
		}
	})
	eaWant := make([]int16, 28)
	for i := range eaWant {
		eaWant[i] = int16(i*100 - 1000)
	}

	tests := []struct {
		name string
		id   ID
		opts []Option
		pkt  []byte
		want []int16
	}{
		{
			name: "ima_wav holds the header predictor",
			id:   IMAWAV,
			pkt:  []byte{0xE8, 0x03, 0, 0, 0, 0, 0, 0},
			want: repeat(1000, 9),
		},
		{
			name: "ms starts from the header samples",
			id:   MS,
			opts: []Option{WithBlockAlign(8)},
			pkt:  []byte{0, 16, 0, 200, 0, 100, 0, 0x00},
			want: []int16{100, 200, 200, 200},
		},
		{
			name: "yamaha from cold start",
			id:   Yamaha,
			pkt:  []byte{0x00},
			want: []int16{15, 30},
		},
		{
			name: "psx filter 0",
			id:   PSX,
			opts: []Option{WithBlockAlign(16)},
			pkt: packet(16, func(b []byte) {
				b[0] = 0x0C
				for i := 2; i < 16; i++ {
					b[i] = 0x11
				}
			}),
			want: repeat(1, 28),
		},
		{
			name: "ima_qt header predictor",
			id:   IMAQT,
			pkt:  packet(34, func(b []byte) { b[0] = 0x10 }),
			want: repeat(4096, 64),
		},
		{
			name: "zork",
			id:   Zork,
			pkt:  []byte{0x40},
			want: []int16{7},
		},
		{
			name: "sbpro_4 raw first sample",
			id:   SBPro4,
			pkt:  []byte{0x90},
			want: []int16{2048},
		},
		{
			name: "ea_r2 raw block",
			id:   EAR2,
			pkt:  eaRaw,
			want: eaWant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := newDecoder(t, tt.id, 22050, 1, tt.opts...)

			frame, _, err := dec.Decode(tt.pkt)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !slicesEqual(frame.Samples, tt.want) {
				t.Errorf("Decode() samples = %v, want %v", frame.Samples, tt.want)
			}
		})
	}
}

// Coded payloads: every nibble position carries data, so the expected
// samples pin each variant's expansion, header layout and nibble order.
func TestDecoder_CodedPayloads(t *testing.T) {
	t.Parallel()

	xaGroup := packet(128, func(b []byte) {
		copy(b[4:], []byte{0x08, 0x19, 0x2A, 0x3B, 0x46, 0x17, 0x24, 0x39})
		ramp(b[16:], 0x21, 0x47)
	})
	thpCoeffs := []int{0, 0, 2048, 0, 0, 2048, 1024, 1024, 3584, -1536, 4096, -2048, 2560, -1024, 1536, 512}
	apcExtradata := packet(8, func(b []byte) {
		putLE32(b[0:], 1000)
		putLE32(b[4:], -1000)
	})

	// want holds the leading interleaved samples; samples is the full
	// count per channel.
	tests := []struct {
		name     string
		id       ID
		channels int
		opts     []Option
		pkt      []byte
		samples  int
		want     []int16
	}{
		{
			name:     "ima_wav 2 bit",
			id:       IMAWAV,
			channels: 1,
			opts:     []Option{WithBitsPerCodedSample(2), WithBlockAlign(8)},
			pkt:      packet(8, func(b []byte) {
				putLE16(b[0:], -1200)
				putLE16(b[2:], 30)
				ramp(b[4:], 0x1B, 0x35)
			}),
			samples: 17,
			want:    []int16{
				-1200, -1395, -1473, -1259, -1173, -1095, -1024, -829, -594, -309,
				36, 175, 49, -66, -170, -455, -570,
			},
		},
		{
			name:     "ima_wav 3 bit stereo",
			id:       IMAWAV,
			channels: 2,
			opts:     []Option{WithBitsPerCodedSample(3), WithBlockAlign(32)},
			pkt:      packet(32, func(b []byte) {
				putLE16(b[0:], 500)
				putLE16(b[2:], 20)
				putLE16(b[4:], -700)
				putLE16(b[6:], 35)
				ramp(b[8:], 0x5A, 0x3D)
			}),
			samples: 33,
			want:    []int16{
				500, -700, 562, -961, 658, -789, 609, -945, 714, -1087,
				768, -1044, 817, -927, 772, -749, 704, -945, 749, -1074,
				817, -1035, 832, -1000, 873, -773, 861, -499, 805, -736,
				718, -788, 823, -456, 805, -399, 690, -660, 590, -947,
				568, -1263, 428, -1611, 356, -1841, 466, -2329, 538, -2245,
				384, -1708, 358, -1059, 430, -723, 540, -825, 661, -547,
				848, 42, 880, -264, 674, -727,
			},
		},
		{
			name:     "ima_wav 4 bit stereo",
			id:       IMAWAV,
			channels: 2,
			pkt:      packet(24, func(b []byte) {
				putLE16(b[0:], -100)
				putLE16(b[2:], 5)
				putLE16(b[4:], 3000)
				putLE16(b[6:], 60)
				ramp(b[8:], 0x87, 0x3B)
			}),
			samples: 17,
			want:    []int16{
				-100, 3000, -78, 4988, -81, 8861, -67, 1666, -90, -3237,
				-124, -5911, -193, -16447, -203, -3525, -140, 5161, -263, -5894,
				-67, 7028, -197, 29613, -268, 26536, -31, 32767, -378, 9874,
				-332, -17826, -206, -32768,
			},
		},
		{
			name:     "ima_wav 5 bit",
			id:       IMAWAV,
			channels: 1,
			opts:     []Option{WithBitsPerCodedSample(5), WithBlockAlign(24)},
			pkt:      packet(24, func(b []byte) {
				putLE16(b[0:], 2000)
				putLE16(b[2:], 15)
				ramp(b[4:], 0x11, 0x4F)
			}),
			samples: 33,
			want:    []int16{
				2000, 1995, 1996, 1970, 1920, 2047, 1770, 1154, 1864, 733,
				-1692, -6058, -9406, -11343, -9079, -7936, -12718, -7193, -8197, -16416,
				167, 29073, 32767, 32767, 32767, 22528, 32767, 32767, 32767, 14146,
				32767, -10239, -32768,
			},
		},
		{
			name:     "xa",
			id:       XA,
			channels: 1,
			pkt:      xaGroup,
			samples:  224,
			want:     []int16{
				16, -48, -112, 80, 16, -48, -112, 80, 16, -48,
				-112, 80, 16, -48, -112, 80, 16, -48, -112, 80,
				16, -48, -112, 80, 16, -48, -112, 80, 91, 109,
				142, 189, 121, 65, 29, 11, 10, 17, 40, 78,
				129, 57, 5, -27, -41, -46, -35, -9, 32, 78,
				9, -40, -69, -89, -91, -77, -96, -94, -91, -103,
				-143, -157, -166, -187,
			},
		},
		{
			name:     "xa stereo",
			id:       XA,
			channels: 2,
			pkt:      xaGroup,
			samples:  112,
			want:     []int16{
				16, 16, -48, 39, -112, 77, 80, 128, 16, 64,
				-48, 12, -112, -21, 80, -36, 16, -34, -48, -24,
				-112, 2, 80, 42, 16, 95, -48, 25, -112, -25,
				80, -55, 16, -68, -48, -72, -112, -59, 80, -31,
				16, 11, -48, 58, -112, -10, 80, -57, 16, -85,
				-48, -104, -112, -105, 80, -90, 203, -36, 316, 6,
				403, 28, 451, 28,
			},
		},
		{
			name:     "ea",
			id:       EA,
			channels: 2,
			pkt:      packet(42, func(b []byte) {
				putLE32(b[0:], 28)
				putLE16(b[4:], 1000)
				putLE16(b[6:], 900)
				putLE16(b[8:], -500)
				putLE16(b[10:], -450)
				b[12], b[13] = 0x21, 0x9A
				ramp(b[14:], 0x13, 0x29)
			}),
			samples: 28,
			want:    []int16{
				1074, -457, 1141, -444, 1226, -396, 1212, -379, 1142, -327,
				1051, -307, 961, -316, 897, -288, 871, -290, 772, -256,
				632, -252, 484, -212, 348, -203, 248, -222, 203, -204,
				219, -215, 181, -190, 115, -194, 52, -162, 8, -160,
				4, -122, 57, -114, 43, -135, -1, -119, -53, -132,
				-86, -108, -87, -113, -38, -82,
			},
		},
		{
			name:     "ea_xas",
			id:       EAXAS,
			channels: 1,
			pkt:      packet(76, func(b []byte) {
				for i, v := range []int{0x03E1, 0x0348, 0xF832, 0xF419, 0x0123, 0x00AA, 0xFE01, 0xFFCB} {
					putLE16(b[2*i:], v)
				}
				ramp(b[16:], 0x37, 0x1D)
			}),
			samples: 128,
			want:    []int16{
				992, 832, 828, 888, 737, 611, 589, 536, 391, 415,
				389, 477, 559, 444, 384, 344, 419, 441, 365, 454,
				490, 379, 275, 242, 275, 306, 191, 291, 289, 191,
				51, 32, -2000, -3056, -3826, -4360, -4758, -5071, -5222, -5295,
				-5312, -5243, -5089, -4852, -4640, -4459, -4242, -4031, -3861, -3663,
				-3453, -3196, -2889, -2658, -2453, -2280, -2064, -1856, -1690, -1497,
				-1293, -1171, -1102, -1061,
			},
		},
		{
			name:     "ea_maxis_xa stereo",
			id:       EAMaxisXA,
			channels: 2,
			pkt:      packet(18, func(b []byte) {
				b[0], b[1] = 0x2A, 0x19
				ramp(b[2:], 0x44, 0x3B)
			}),
			samples: 16,
			want:    []int16{
				16, 56, 45, 45, 48, 34, 26, 72, 20, 116,
				15, 69, -13, 49, -12, 54, -7, 91, -19, 141,
				-56, 100, -77, 70, -93, 98, -137, 116, -143, 69,
				-154, 9,
			},
		},
		{
			name:     "ea_r1 stereo",
			id:       EAR1,
			channels: 2,
			pkt:      packet(50, func(b []byte) {
				putLE32(b[0:], 28)
				putLE32(b[8:], 19)
				putLE16(b[12:], 300)
				putLE16(b[14:], 250)
				b[16] = 0x1A
				ramp(b[17:31], 0x5D, 0x27)
				putLE16(b[31:], -200)
				putLE16(b[33:], -180)
				b[35] = 0x3C
				ramp(b[36:], 0x92, 0x33)
			}),
			samples: 28,
			want:    []int16{
				301, -159, 270, -70, 221, 25, 223, 103, 185, 135,
				153, 110, 131, 54, 130, -17, 117, -68, 81, -92,
				83, -90, 77, -58, 88, -16, 110, 29, 127, 57,
				111, 69, 76, 58, 91, 23, 65, -10, 44, -39,
				33, -59, 42, -57, 39, -41, 12, -11, 23, 17,
				25, 41, 43, 50, 8, 34,
			},
		},
		{
			name:     "ea_r3",
			id:       EAR3,
			channels: 1,
			pkt:      packet(23, func(b []byte) {
				putBE32(b[0:], 28)
				b[8] = 0x2B
				ramp(b[9:], 0x71, 0x2F)
			}),
			samples: 28,
			want:    []int16{
				14, 27, 25, 22, 11, -1, -13, -27, -34, -46,
				-46, -54, -76, -103, -134, -170, -201, -238, -263, -296,
				-311, -305, -282, -247, -227, -198, -178, -151,
			},
		},
		{
			name:     "thp stereo",
			id:       THP,
			channels: 2,
			pkt:      packet(96, func(b []byte) {
				putBE32(b[4:], 14)
				for i, v := range thpCoeffs {
					putBE16(b[8+2*i:], v)
					putBE16(b[40+2*i:], thpCoeffs[len(thpCoeffs)-1-i])
				}
				putBE16(b[72:], 120)
				putBE16(b[74:], -80)
				putBE16(b[76:], -300)
				putBE16(b[78:], 260)
				b[80] = 0x36
				ramp(b[81:88], 0x3E, 0x25)
				b[88] = 0x49
				ramp(b[89:], 0xC1, 0x19)
			}),
			samples: 14,
			want:    []int16{
				212, -2068, 38, -672, 509, -2906, 465, -4861, -25, -4396,
				-292, -3093, -543, -3745, -610, -5467, -769, -3582, -562, -1965,
				-730, -1238, -198, -2626, -400, 628, -555, 2585,
			},
		},
		{
			name:     "thp_le",
			id:       THPLE,
			channels: 1,
			pkt:      packet(52, func(b []byte) {
				putLE32(b[4:], 14)
				for i, v := range thpCoeffs {
					putLE16(b[8+2*i:], v)
				}
				putLE16(b[40:], -600)
				putLE16(b[42:], -550)
				b[44] = 0x57
				ramp(b[45:], 0x29, 0x3B)
			}),
			samples: 14,
			want:    []int16{
				-394, -1084, -1006, -416, -722, -1156, -1974, -3560, -5018, -5836,
				-6014, -6192, -7394, -9236,
			},
		},
		{
			name:     "ima_dk3",
			id:       IMADK3,
			channels: 2,
			pkt:      packet(28, func(b []byte) {
				putLE16(b[10:], 1500)
				putLE16(b[12:], -400)
				b[14], b[15] = 25, 40
				ramp(b[16:], 0x4C, 0x37)
			}),
			samples: 16,
			want:    []int16{
				1389, 1431, 1473, 1515, 1207, 1759, 1137, 1689, 469, 2411,
				461, 2403, -994, 3932, -919, 4007, -1429, 4777, -1625, 4581,
				-114, 2600, -83, 2631, 1359, 787, 1489, 917, 1205, 1913,
				950, 1658,
			},
		},
		{
			name:     "ima_dk4 stereo",
			id:       IMADK4,
			channels: 2,
			pkt:      packet(20, func(b []byte) {
				putLE16(b[0:], -1000)
				putLE16(b[2:], 12)
				putLE16(b[4:], 800)
				putLE16(b[6:], 44)
				ramp(b[8:], 0x6B, 0x2D)
			}),
			samples: 13,
			want:    []int16{
				-1000, 800, -963, 368, -978, 312, -1019, 873, -1103, 1246,
				-1067, 226, -968, -1085, -768, -1614, -911, 469, -1198, 2457,
				-1160, 2715, -986, 133, -639, -1585,
			},
		},
		{
			name:     "afc",
			id:       AFC,
			channels: 1,
			pkt:      packet(18, func(b []byte) {
				ramp(b, 0x1F, 0x33)
				b[0], b[9] = 0x43, 0x25
			}),
			samples: 32,
			want:    []int16{
				80, 72, -52, 90, -61, -114, -120, -197, -143, -202,
				-93, -132, -241, -123, -262, -81, 58, 150, 239, 305,
				322, 346, 344, 366, 374, 352, 339, 313, 309, 302,
				264, 243,
			},
		},
		{
			name:     "dtk",
			id:       DTK,
			channels: 2,
			pkt:      packet(32, func(b []byte) {
				b[0], b[1] = 0x27, 0x18
				ramp(b[4:], 0x3C, 0x2B)
			}),
			samples: 28,
			want:    []int16{
				-128, 48, -6, 141, 157, 20, 191, -62, -40, -90,
				-132, -68, -268, -16, -598, 81, -729, -36, -856, -114,
				-1138, -139, -1190, -114, -1213, -43, -1373, 56, -1289, -60,
				-1169, -120, -1181, -145, -949, -120, -681, -48, -549, 51,
				-689, -64, -696, -124, -755, -149, -1015, -123, -1082, -52,
				-1152, 47, -1383, -68, -1389, -127,
			},
		},
		{
			name:     "xmd",
			id:       XMD,
			channels: 1,
			pkt:      packet(21, func(b []byte) {
				putLE16(b[0:], 1200)
				putLE16(b[2:], 1300)
				putLE16(b[4:], 384)
				ramp(b[6:], 0x5F, 0x3B)
			}),
			samples: 32,
			want:    []int16{
				1200, 1300, 981, 2634, 1625, -1891, -2769, -4594, -6006, -6687,
				-9078, -9358, -7174, -8415, -8932, -10783, -13682, -16237, -15416, -13433,
				-10925, -6104, -3323, -3360, -6424, -9577, -10846, -10974, -11722, -10271,
				-11681, -15369,
			},
		},
		{
			name:     "mtaf",
			id:       MTAF,
			channels: 2,
			pkt:      packet(32, func(b []byte) {
				putLE16(b[4:], 10)
				putLE16(b[6:], 3)
				putLE16(b[8:], 500)
				putLE16(b[12:], -250)
				ramp(b[16:], 0x7A, 0x35)
			}),
			samples: 16,
			want:    []int16{
				447, -235, 582, -222, 33, -189, -710, -90, 412, -254,
				-1889, -279, -3162, -214, -2094, -378, -5982, -42, -2163, -1148,
				807, -3241, 451, -1986, 152, -1776, -1605, 525, -3923, 5193,
				-9439, 3920,
			},
		},
		{
			name:     "agm stereo",
			id:       AGM,
			channels: 2,
			pkt:      packet(16, func(b []byte) {
				putLE16(b[0:], 100)
				putLE16(b[2:], -100)
				putLE16(b[4:], 300)
				putLE16(b[6:], 1000)
				ramp(b[8:], 0x96, 0x2F)
			}),
			samples: 8,
			want:    []int16{
				587, -475, 1412, -1476, 2487, -3482, 3493, -1884, 4133, 1246,
				4475, 793, 4576, -2034, 3221, -5989,
			},
		},
		{
			name:     "ct",
			id:       CT,
			channels: 1,
			pkt:      packet(8, func(b []byte) { ramp(b, 0x4E, 0x2B) }),
			samples:  16,
			want:     []int16{
				574, -425, 1873, 758, -895, 1775, -1432, -7803, -23050, -32768,
				-21518, 380, 32767, 32767, 32767, 3840,
			},
		},
		{
			name:     "ima_oki stereo",
			id:       IMAOKI,
			channels: 2,
			pkt:      packet(8, func(b []byte) { ramp(b, 0x3D, 0x1F) }),
			samples:  8,
			want:     []int16{
				224, -352, 576, -752, 1264, -1136, 976, -1376, 352, -1504,
				-544, -1536, -2336, -976, -1568, 80,
			},
		},
		{
			name:     "ima_cunning",
			id:       IMACunning,
			channels: 1,
			pkt:      packet(8, func(b []byte) { ramp(b, 0x49, 0x27) }),
			samples:  16,
			want:     []int16{
				-7, 1, 1, 15, 43, -13, -45, -115, -15, -71,
				-167, -167, -95, -35, -131, 9,
			},
		},
		{
			name:     "ima_mtf stereo",
			id:       IMAMTF,
			channels: 2,
			pkt:      packet(8, func(b []byte) { ramp(b, 0xE3, 0x15) }),
			samples:  8,
			want:     []int16{
				5, 6, -7, 1, -16, -10, 22, -16, -27, -15,
				-6, 14, -11, -2, -42, -6,
			},
		},
		{
			name:     "ima_rad stereo",
			id:       IMARAD,
			channels: 2,
			pkt:      packet(16, func(b []byte) {
				putLE16(b[0:], 30)
				putLE16(b[2:], 1000)
				putLE16(b[4:], 50)
				putLE16(b[6:], -2000)
				ramp(b[8:], 0x58, 0x3D)
			}),
			samples: 8,
			want:    []int16{
				984, -796, 1146, -1276, 1254, -3462, 1039, -3150, 781, -4002,
				1094, -4260, 1641, -2617, 969, -2404,
			},
		},
		{
			name:     "ima_iss",
			id:       IMAISS,
			channels: 1,
			pkt:      packet(12, func(b []byte) {
				putLE16(b[0:], -3000)
				putLE16(b[2:], 40)
				ramp(b[4:], 0x1C, 0x45)
			}),
			samples: 16,
			want:    []int16{
				-3379, -3226, -3087, -2540, -1569, -2231, -3073, -4496, -4302, -3068,
				-1306, 2215, -301, -3503, -9741, -23113,
			},
		},
		{
			name:     "ima_moflex",
			id:       IMAMoflex,
			channels: 1,
			pkt:      packet(132, func(b []byte) {
				putLE16(b[0:], 20)
				putLE16(b[2:], 100)
				ramp(b[4:], 0x2D, 0x3B)
			}),
			samples: 256,
			want:    []int16{
				32, 77, 69, 166, 259, 199, 56, -159, -245, -167,
				46, 362, -269, -359, -770, -1442, -447, -315, -195, 790,
				-137, 1668, 5025, 1823, 3070, -2600, -9894, -4991, 8381, 32767,
				32767, 17378, -13401, -32768, -32768, -21596, 2104, 32767, -20479, -24574,
				-32768, -32768, 4094, 8189, -32768, -4097, -22718, 28068, 32767, 4096,
				7820, -32768, -32768, -14147, 29867, 32767, 32767, 14146, -16325, -32768,
				28670, 32767, 32767, 32767,
			},
		},
		{
			name:     "ima_acorn stereo",
			id:       IMAAcorn,
			channels: 2,
			pkt:      packet(16, func(b []byte) {
				putLE16(b[0:], 4000)
				putLE16(b[2:], 0x7F1E)
				putLE16(b[4:], -4000)
				putLE16(b[6:], 10)
				ramp(b[8:], 0x83, 0x29)
			}),
			samples: 8,
			want:    []int16{
				4113, -4002, 3981, -4012, 4177, -4034, 3838, -4077, 4533, -4046,
				4632, -3985, 4361, -3862, 4772, -3951,
			},
		},
		{
			name:     "ima_dat4 stereo",
			id:       IMADAT4,
			channels: 2,
			pkt:      packet(24, func(b []byte) { ramp(b, 0x35, 0x2F) }),
			samples:  16,
			want:     []int16{
				-13, 4, -7, 13, 1, 28, 2, 46, 15, 44,
				-11, 58, 47, 44, -60, 52, -133, 31, -280, 39,
				-495, 46, -753, 48, -719, 62, -940, 32, -739, 87,
				-869, -10,
			},
		},
		{
			name:     "ima_smjpeg stereo",
			id:       IMASMJPEG,
			channels: 2,
			pkt:      packet(16, func(b []byte) {
				putBE16(b[0:], 1024)
				b[2] = 15
				putBE16(b[4:], -1024)
				b[6] = 60
				ramp(b[8:], 0x6E, 0x1B)
			}),
			samples: 8,
			want:    []int16{
				1073, -4716, 1067, -6225, 1036, -2108, 998, -10410, 942, -16342,
				830, -4477, 878, -2898, 951, -12947,
			},
		},
		{
			name:     "4xm stereo",
			id:       FourXM,
			channels: 2,
			pkt:      packet(16, func(b []byte) {
				putLE16(b[0:], 600)
				putLE16(b[2:], -600)
				putLE16(b[4:], 25)
				putLE16(b[6:], 45)
				ramp(b[8:], 0x9C, 0x23)
			}),
			samples: 8,
			want:    []int16{
				555, -634, 537, -480, 455, -676, 372, -447, 426, -848,
				299, -137, 490, 154, 515, -110,
			},
		},
		{
			name:     "ima_ea_eacs stereo",
			id:       IMAEAEACS,
			channels: 2,
			pkt:      packet(28, func(b []byte) {
				putLE32(b[0:], 8)
				putLE32(b[4:], 33)
				putLE32(b[8:], 12)
				putLE32(b[12:], 2500)
				putLE32(b[16:], -1500)
				ramp(b[20:], 0xB7, 0x31)
			}),
			samples: 8,
			want:    []int16{
				2349, -1457, 2094, -1463, 2198, -1479, 2482, -1504, 3057, -1536,
				2646, -1574, 1824, -1630, 1933, -1727,
			},
		},
		{
			name:     "ima_ea_sead",
			id:       IMAEASEAD,
			channels: 1,
			pkt:      packet(16, func(b []byte) { ramp(b, 0x75, 0x3F) }),
			samples:  32,
			want:     []int16{
				1, 3, 1, 3, -2, 4, 9, 12, 21, 25,
				17, 18, 5, -22, -3, -49, 33, -91, -173, -308,
				-544, -769, -623, -756, -441, -569, -764, -799, -1218, -361,
				251, 1699,
			},
		},
		{
			name:     "ima_apc stereo with extradata",
			id:       IMAAPC,
			channels: 2,
			opts:     []Option{WithExtradata(apcExtradata)},
			pkt:      packet(8, func(b []byte) { ramp(b, 0x5B, 0x2D) }),
			samples:  8,
			want:     []int16{
				1009, -1006, 1008, -1006, 1000, -997, 986, -991, 988, -1009,
				1000, -1032, 1021, -1041, 1013, -1004,
			},
		},
		{
			name:     "sbpro_2",
			id:       SBPro2,
			channels: 1,
			pkt:      packet(5, func(b []byte) {
				b[0] = 0xA0
				ramp(b[1:], 0x6C, 0x35)
			}),
			samples: 17,
			want:    []int16{
				4096, 512, 512, 0, 0, 0, 0, 0, 512, -512,
				1536, 5632, 5632, 5632, 5632, 5632, 5120,
			},
		},
		{
			name:     "sbpro_3",
			id:       SBPro3,
			channels: 1,
			pkt:      packet(5, func(b []byte) {
				b[0] = 0x70
				ramp(b[1:], 0xD2, 0x47)
			}),
			samples: 13,
			want:    []int16{
				-2048, -256, -256, -256, -256, -512, -384, 384, 384, 384,
				256, 384, 256,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := newDecoder(t, tt.id, 22050, tt.channels, tt.opts...)

			frame, _, err := dec.Decode(tt.pkt)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if frame.NumSamples != tt.samples {
				t.Fatalf("Frame.NumSamples = %d, want %d", frame.NumSamples, tt.samples)
			}
			if len(frame.Samples) < len(tt.want) {
				t.Fatalf("len(Frame.Samples) = %d, want at least %d", len(frame.Samples), len(tt.want))
			}
			if got := frame.Samples[:len(tt.want)]; !slicesEqual(got, tt.want) {
				t.Errorf("Decode() samples = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecoder_InvalidPackets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       ID
		channels int
		pkt      []byte
	}{
		{name: "amv coded count zero", id: IMAAMV, channels: 1, pkt: packet(40, nil)},
		{name: "ea coded count too large", id: EA, channels: 2, pkt: packet(42, func(b []byte) {
			binary.LittleEndian.PutUint32(b, 56)
		})},
		{name: "ima_qt short packet", id: IMAQT, channels: 1, pkt: packet(20, nil)},
		{name: "ima_qt stereo half packet", id: IMAQT, channels: 2, pkt: packet(34, nil)},
		{name: "ima_wav step index", id: IMAWAV, channels: 1, pkt: []byte{0, 0, 89, 0, 0, 0, 0, 0}},
		{name: "ima_qt step index", id: IMAQT, channels: 1, pkt: packet(34, func(b []byte) { b[1] = 0x7F })},
		{name: "ms block predictor", id: MS, channels: 1, pkt: packet(32, func(b []byte) { b[0] = 7 })},
		{name: "ima_dk4 short packet", id: IMADK4, channels: 2, pkt: packet(4, nil)},
		{name: "empty packet", id: IMAWS, channels: 1, pkt: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := newDecoder(t, tt.id, 22050, tt.channels)

			_, used, err := dec.Decode(tt.pkt)
			if !errors.Is(err, ErrInvalidData) {
				t.Fatalf("Decode() error = %v, want %v", err, ErrInvalidData)
			}
			if used != 0 {
				t.Errorf("Decode() used = %d, want 0", used)
			}
		})
	}
}

func TestDecoder_Begin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       ID
		rate     int
		channels int
		opts     []Option
		want     error
	}{
		{name: "psx stereo", id: PSX, rate: 44100, channels: 2, opts: []Option{WithBlockAlign(32)}},
		{name: "psx misaligned", id: PSX, rate: 44100, channels: 1,
			opts: []Option{WithBlockAlign(24)}, want: ErrInvalidConfiguration},
		{name: "trellis 16", id: MS, rate: 44100, channels: 1, opts: []Option{WithTrellis(16)}},
		{name: "trellis 17", id: MS, rate: 44100, channels: 1,
			opts: []Option{WithTrellis(17)}, want: ErrUnsupportedConfiguration},
		{name: "zero rate", id: IMAWAV, rate: 0, channels: 1, want: ErrInvalidConfiguration},
		{name: "amv stereo", id: IMAAMV, rate: 22050, channels: 2, want: ErrInvalidConfiguration},
		{name: "mtaf odd channels", id: MTAF, rate: 48000, channels: 3, want: ErrInvalidConfiguration},
		{name: "ea mono", id: EA, rate: 22050, channels: 1, want: ErrInvalidConfiguration},
		{name: "ms six channels", id: MS, rate: 48000, channels: 6},
		{name: "ms seven channels", id: MS, rate: 48000, channels: 7, want: ErrInvalidConfiguration},
		{name: "thp fourteen channels", id: THP, rate: 48000, channels: 14},
		{name: "ima_wav 3 bits", id: IMAWAV, rate: 22050, channels: 1, opts: []Option{WithBitsPerCodedSample(3)}},
		{name: "ima_wav 6 bits", id: IMAWAV, rate: 22050, channels: 1,
			opts: []Option{WithBitsPerCodedSample(6)}, want: ErrInvalidConfiguration},
		{name: "argo block align", id: Argo, rate: 22050, channels: 1,
			opts: []Option{WithBlockAlign(20)}, want: ErrInvalidConfiguration},
		{name: "zork bits", id: Zork, rate: 22050, channels: 1,
			opts: []Option{WithBitsPerCodedSample(4)}, want: ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec, err := NewDecoder(tt.id, tt.opts...)
			if err != nil {
				t.Fatalf("NewDecoder() error = %v", err)
			}

			err = dec.Begin(tt.rate, tt.channels)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Begin() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Begin() error = %v, want %v", err, tt.want)
			}
			if _, _, err := dec.Decode(make([]byte, 64)); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("Decode() after failed Begin error = %v, want %v", err, ErrNotInitialized)
			}
		})
	}
}

func TestDecoder_NotInitialized(t *testing.T) {
	t.Parallel()

	dec, err := NewDecoder(IMAWAV)
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	if _, _, err := dec.Decode(make([]byte, 16)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Decode() before Begin error = %v, want %v", err, ErrNotInitialized)
	}

	if err := dec.Begin(8000, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	dec.End()
	if _, _, err := dec.Decode(make([]byte, 16)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Decode() after End error = %v, want %v", err, ErrNotInitialized)
	}
}

func TestDecoder_Reset(t *testing.T) {
	t.Parallel()

	dec := newDecoder(t, Yamaha, 8000, 1)

	first, _, err := dec.Decode([]byte{0x00})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := append([]int16(nil), first.Samples...)

	if _, _, err := dec.Decode([]byte{0x00}); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dec.Reset()

	got, _, err := dec.Decode([]byte{0x00})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !slicesEqual(got.Samples, want) {
		t.Errorf("Decode() after Reset = %v, want %v", got.Samples, want)
	}
}

func TestDecoder_CodedCountMismatch(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	dec := newDecoder(t, IMAEAEACS, 22050, 1, WithLogger(log.New(&logs, "", 0)))

	// 32 payload bytes hold 64 samples; the header claims 60.
	pkt := packet(44, func(b []byte) {
		binary.LittleEndian.PutUint32(b, 60)
	})

	frame, _, err := dec.Decode(pkt)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if frame.NumSamples != 60 {
		t.Errorf("Frame.NumSamples = %d, want 60", frame.NumSamples)
	}
	if !strings.Contains(logs.String(), "mismatch in coded sample count") {
		t.Errorf("log = %q, want a coded sample count warning", logs.String())
	}
}

func TestDecoder_Layout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       ID
		channels int
		opts     []Option
		want     Layout
	}{
		{name: "ima_wav", id: IMAWAV, channels: 2, want: Planar},
		{name: "ms stereo", id: MS, channels: 2, want: Interleaved},
		{name: "ms surround", id: MS, channels: 6, want: Planar},
		{name: "ima_ws", id: IMAWS, channels: 2, want: Interleaved},
		{name: "ima_ws version 3", id: IMAWS, channels: 2,
			opts: []Option{WithExtradata([]byte{3, 0})}, want: Planar},
		{name: "yamaha", id: Yamaha, channels: 2, want: Interleaved},
		{name: "xa", id: XA, channels: 2, want: Planar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := newDecoder(t, tt.id, 44100, tt.channels, tt.opts...)
			if got := dec.Layout(); got != tt.want {
				t.Errorf("Layout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecoder_PlanarAndInterleavedAgree(t *testing.T) {
	t.Parallel()

	dec := newDecoder(t, IMAWAV, 22050, 2)

	pkt := packet(24, func(b []byte) {
		binary.LittleEndian.PutUint16(b[0:], uint16(500))
		binary.LittleEndian.PutUint16(b[4:], uint16(0xFF38)) // -200
		for i := 8; i < len(b); i++ {
			b[i] = byte(i * 37)
		}
	})

	frame, _, err := dec.Decode(pkt)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if frame.Planes[0][0] != 500 || frame.Planes[1][0] != -200 {
		t.Errorf("first samples = %d, %d, want 500, -200", frame.Planes[0][0], frame.Planes[1][0])
	}
	for i := range frame.NumSamples {
		for c := range 2 {
			if frame.Samples[i*2+c] != frame.Planes[c][i] {
				t.Fatalf("Samples[%d] = %d, Planes[%d][%d] = %d", i*2+c, frame.Samples[i*2+c], c, i, frame.Planes[c][i])
			}
		}
	}
}

func TestFrame_IntBuffer(t *testing.T) {
	t.Parallel()

	dec := newDecoder(t, Yamaha, 8000, 1)
	frame, _, err := dec.Decode([]byte{0x00, 0x00})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf := frame.IntBuffer()
	if buf.Format.NumChannels != 1 || buf.Format.SampleRate != 8000 {
		t.Errorf("IntBuffer() format = %+v, want 1 channel at 8000 Hz", buf.Format)
	}
	if buf.SourceBitDepth != 16 {
		t.Errorf("IntBuffer() SourceBitDepth = %d, want 16", buf.SourceBitDepth)
	}
	if len(buf.Data) != 4 || buf.Data[0] != 15 {
		t.Errorf("IntBuffer() Data = %v, want 4 samples starting at 15", buf.Data)
	}
}
