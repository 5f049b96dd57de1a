package soc

import (
	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// RHDRPayload is this implementation's concrete content for the RHDR
// chunk: §3 requires the chunk (second in every container) but leaves
// its payload undefined beyond that constraint. This implementation
// stores exactly what a container needs to be self-describing without
// the original RINEX file: the format version, the per-system
// observation-code tables (§3's "per-system observation table"), and
// optionally the verbatim source header text.
type RHDRPayload struct {
	RinexMajor, RinexMinor int
	// Systems lists the systems in a stable order; ObsTypes is indexed
	// the same way so SATE/SOCD offset tables have a well-defined slot
	// order per system.
	Systems  []epoch.System
	ObsTypes map[epoch.System][]epoch.ObsCode

	// RawHeader carries the source RINEX header text verbatim, nil if
	// the writer chose not to embed it. RawHeaderCodec names how it was
	// compressed on the wire (compress.KindNone if RawHeader is stored
	// literally).
	RawHeader      []byte
	RawHeaderCodec compress.Kind
}

// EncodeRHDR serializes p as the RHDR chunk payload, compressing
// RawHeader with codec if RawHeader is non-empty.
func EncodeRHDR(p RHDRPayload, codec compress.Kind) ([]byte, error) {
	dst := varint.PutUint(nil, uint64(p.RinexMajor))
	dst = varint.PutUint(dst, uint64(p.RinexMinor))
	dst = varint.PutUint(dst, uint64(len(p.Systems)))
	for _, sys := range p.Systems {
		codes := p.ObsTypes[sys]
		dst = append(dst, byte(sys))
		dst = varint.PutUint(dst, uint64(len(codes)))
		for _, c := range codes {
			dst = append(dst, c[:]...)
		}
	}

	if len(p.RawHeader) == 0 {
		dst = append(dst, byte(compress.KindNone))
		dst = varint.PutUint(dst, 0)
		return dst, nil
	}

	cdc, err := compress.Get(codec)
	if err != nil {
		return nil, err
	}
	body, err := cdc.Compress(p.RawHeader)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(codec))
	dst = varint.PutUint(dst, uint64(len(body)))
	dst = append(dst, body...)
	return dst, nil
}

// DecodeRHDR parses an RHDR chunk payload.
func DecodeRHDR(payload []byte) (RHDRPayload, error) {
	major, n := varint.Uint(payload)
	if n <= 0 {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	pos := n

	minor, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	pos += n

	nSys, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	pos += n

	p := RHDRPayload{
		RinexMajor: int(major),
		RinexMinor: int(minor),
		ObsTypes:   make(map[epoch.System][]epoch.ObsCode, nSys),
	}
	for i := uint64(0); i < nSys; i++ {
		if pos >= len(payload) {
			return RHDRPayload{}, errs.New(errs.Corrupt)
		}
		sys := epoch.System(payload[pos])
		pos++
		nObs, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return RHDRPayload{}, errs.New(errs.Corrupt)
		}
		pos += n
		codes := make([]epoch.ObsCode, nObs)
		for j := uint64(0); j < nObs; j++ {
			if pos+3 > len(payload) {
				return RHDRPayload{}, errs.New(errs.Corrupt)
			}
			copy(codes[j][:], payload[pos:pos+3])
			pos += 3
		}
		p.Systems = append(p.Systems, sys)
		p.ObsTypes[sys] = codes
	}

	if pos >= len(payload) {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	codec := compress.Kind(payload[pos])
	pos++
	rawLen, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	pos += n
	if pos+int(rawLen) > len(payload) {
		return RHDRPayload{}, errs.New(errs.Corrupt)
	}
	body := payload[pos : pos+int(rawLen)]
	if rawLen > 0 {
		cdc, err := compress.Get(codec)
		if err != nil {
			return RHDRPayload{}, errs.New(errs.Corrupt)
		}
		raw, err := cdc.Decompress(body)
		if err != nil {
			return RHDRPayload{}, errs.New(errs.Corrupt)
		}
		p.RawHeader = raw
		p.RawHeaderCodec = codec
	}
	return p, nil
}

// CodeIndex returns the slot index of code within sys's observation
// table, or -1 if not declared.
func (p RHDRPayload) CodeIndex(sys epoch.System, code epoch.ObsCode) int {
	for i, c := range p.ObsTypes[sys] {
		if c == code {
			return i
		}
	}
	return -1
}
