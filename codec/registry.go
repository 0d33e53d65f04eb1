// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"log"
	"slices"
	"sync/atomic"
)

// variant is the decoder side of one codec identifier.
type variant struct {
	decode func(*Decoder) error
	// planar is the native layout; IMAWS and MS decide at Begin.
	planar bool
}

var variants = map[ID]variant{
	IMAQT:      {(*Decoder).decodeIMAQT, true},
	IMAWAV:     {(*Decoder).decodeIMAWAV, true},
	IMADK3:     {(*Decoder).decodeIMADK3, false},
	IMADK4:     {(*Decoder).decodeIMADK4, false},
	IMAWS:      {(*Decoder).decodeIMAWS, false},
	IMASMJPEG:  {(*Decoder).decodeIMASMJPEG, false},
	MS:         {(*Decoder).decodeMS, false},
	FourXM:     {(*Decoder).decode4XM, true},
	XA:         {(*Decoder).decodeXA, true},
	EA:         {(*Decoder).decodeEA, false},
	CT:         {(*Decoder).decodeCT, false},
	SWF:        {(*Decoder).decodeSWF, false},
	Yamaha:     {(*Decoder).decodeYamaha, false},
	SBPro4:     {(*Decoder).decodeSBPro, false},
	SBPro3:     {(*Decoder).decodeSBPro, false},
	SBPro2:     {(*Decoder).decodeSBPro, false},
	THP:        {(*Decoder).decodeTHP, true},
	IMAAMV:     {(*Decoder).decodeIMAAMV, false},
	EAR1:       {(*Decoder).decodeEARx, true},
	EAR3:       {(*Decoder).decodeEARx, true},
	EAR2:       {(*Decoder).decodeEARx, true},
	IMAEASEAD:  {(*Decoder).decodeIMAEASEAD, false},
	IMAEAEACS:  {(*Decoder).decodeIMAEAEACS, false},
	EAXAS:      {(*Decoder).decodeEAXAS, true},
	EAMaxisXA:  {(*Decoder).decodeEAMaxisXA, false},
	IMAISS:     {(*Decoder).decodeIMAISS, false},
	IMAAPC:     {(*Decoder).decodeIMAAPC, false},
	AFC:        {(*Decoder).decodeAFC, true},
	IMAOKI:     {(*Decoder).decodeIMAOKI, false},
	DTK:        {(*Decoder).decodeDTK, true},
	IMARAD:     {(*Decoder).decodeIMARAD, false},
	THPLE:      {(*Decoder).decodeTHP, true},
	PSX:        {(*Decoder).decodePSX, true},
	AICA:       {(*Decoder).decodeAICA, true},
	IMADAT4:    {(*Decoder).decodeIMADAT4, true},
	MTAF:       {(*Decoder).decodeMTAF, true},
	AGM:        {(*Decoder).decodeAGM, false},
	Argo:       {(*Decoder).decodeArgo, true},
	IMASSI:     {(*Decoder).decodeIMASSI, false},
	Zork:       {(*Decoder).decodeZork, false},
	IMAAPM:     {(*Decoder).decodeIMAAPM, false},
	IMAALP:     {(*Decoder).decodeIMAALP, false},
	IMAMTF:     {(*Decoder).decodeIMAMTF, false},
	IMACunning: {(*Decoder).decodeIMACunning, true},
	IMAMoflex:  {(*Decoder).decodeIMAMoflex, true},
	IMAAcorn:   {(*Decoder).decodeIMAAcorn, false},
	XMD:        {(*Decoder).decodeXMD, true},
}

var registryLog atomic.Pointer[log.Logger]

// SetLogger sets where the registry reports rejected identifiers. A nil
// logger discards the reports.
func SetLogger(l *log.Logger) {
	registryLog.Store(l)
}

func reject(id ID, what string) error {
	if l := registryLog.Load(); l != nil {
		l.Printf("adpcm: no %s for codec %s", what, id)
	}
	return fmt.Errorf("%w: %s %s", ErrUnknownCodec, what, id)
}

func lookup(id ID) (*variant, error) {
	v, ok := variants[id]
	if !ok {
		return nil, reject(id, "decoder")
	}
	return &v, nil
}

// Decoders lists the identifiers NewDecoder accepts, in identifier order.
func Decoders() []ID {
	ids := make([]ID, 0, len(variants))
	for id := range variants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Encoders lists the identifiers NewEncoder accepts, in identifier order.
func Encoders() []ID {
	ids := make([]ID, 0, len(encoders))
	for id := range encoders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
