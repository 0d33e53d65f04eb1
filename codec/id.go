// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"strings"
)

// ID names one ADPCM dialect.
type ID int

// Identifiers follow the numbering used by libavcodec, so values read from
// foreign metadata can be converted directly.
const (
	IMAQT ID = 0x11000 + iota
	IMAWAV
	IMADK3
	IMADK4
	IMAWS
	IMASMJPEG
	MS
	FourXM
	XA
	ADX
	EA
	G726
	CT
	SWF
	Yamaha
	SBPro4
	SBPro3
	SBPro2
	THP
	IMAAMV
	EAR1
	EAR3
	EAR2
	IMAEASEAD
	IMAEAEACS
	EAXAS
	EAMaxisXA
	IMAISS
	G722
	IMAAPC
	VIMA
	AFC
	IMAOKI
	DTK
	IMARAD
	G726LE
	THPLE
	PSX
	AICA
	IMADAT4
	MTAF
	AGM
	Argo
	IMASSI
	Zork
	IMAAPM
	IMAALP
	IMAMTF
	IMACunning
	IMAMoflex
	IMAAcorn
	XMD
)

var idNames = map[ID]string{
	IMAQT:      "ima_qt",
	IMAWAV:     "ima_wav",
	IMADK3:     "ima_dk3",
	IMADK4:     "ima_dk4",
	IMAWS:      "ima_ws",
	IMASMJPEG:  "ima_smjpeg",
	MS:         "ms",
	FourXM:     "4xm",
	XA:         "xa",
	ADX:        "adx",
	EA:         "ea",
	G726:       "g726",
	CT:         "ct",
	SWF:        "swf",
	Yamaha:     "yamaha",
	SBPro4:     "sbpro_4",
	SBPro3:     "sbpro_3",
	SBPro2:     "sbpro_2",
	THP:        "thp",
	IMAAMV:     "ima_amv",
	EAR1:       "ea_r1",
	EAR3:       "ea_r3",
	EAR2:       "ea_r2",
	IMAEASEAD:  "ima_ea_sead",
	IMAEAEACS:  "ima_ea_eacs",
	EAXAS:      "ea_xas",
	EAMaxisXA:  "ea_maxis_xa",
	IMAISS:     "ima_iss",
	G722:       "g722",
	IMAAPC:     "ima_apc",
	VIMA:       "vima",
	AFC:        "afc",
	IMAOKI:     "ima_oki",
	DTK:        "dtk",
	IMARAD:     "ima_rad",
	G726LE:     "g726le",
	THPLE:      "thp_le",
	PSX:        "psx",
	AICA:       "aica",
	IMADAT4:    "ima_dat4",
	MTAF:       "mtaf",
	AGM:        "agm",
	Argo:       "argo",
	IMASSI:     "ima_ssi",
	Zork:       "zork",
	IMAAPM:     "ima_apm",
	IMAALP:     "ima_alp",
	IMAMTF:     "ima_mtf",
	IMACunning: "ima_cunning",
	IMAMoflex:  "ima_moflex",
	IMAAcorn:   "ima_acorn",
	XMD:        "xmd",
}

func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("ID(%#x)", int(id))
}

// ParseID maps a dialect name such as "ima_wav" or "IMA-WAV" back to its ID.
func ParseID(name string) (ID, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	key = strings.TrimPrefix(key, "adpcm_")
	for id, n := range idNames {
		if n == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
