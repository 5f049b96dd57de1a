package soc

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/pool"
	"github.com/entrope/srnx/varint"
)

// SignalName is the 8-byte on-disk identifier of a SOCD chunk: a
// satellite name followed by an observation code, NUL-padded to a fixed
// width so SOCD payloads can be scanned without decoding a variable
// length field first.
type SignalName [8]byte

// NewSignalName packs a satellite name and observation code into their
// fixed 8-byte on-disk form.
func NewSignalName(sat epoch.SatelliteName, code epoch.ObsCode) SignalName {
	var n SignalName
	copy(n[0:3], sat[:])
	copy(n[3:6], code[:])
	return n
}

// Satellite and Code unpack a SignalName.
func (n SignalName) Satellite() epoch.SatelliteName {
	var sat epoch.SatelliteName
	copy(sat[:], n[0:3])
	return sat
}

func (n SignalName) Code() epoch.ObsCode {
	var c epoch.ObsCode
	copy(c[:], n[3:6])
	return c
}

// encodeIndicatorBlock RLE-encodes chars as {len, (char, count-1)*}
// (§4.F). Consecutive equal bytes collapse into one run.
func encodeIndicatorBlock(chars []byte) []byte {
	var body []byte
	i := 0
	for i < len(chars) {
		j := i
		for j < len(chars) && chars[j] == chars[i] {
			j++
		}
		body = append(body, chars[i])
		body = varint.PutUint(body, uint64(j-i-1))
		i = j
	}
	dst := varint.PutUint(nil, uint64(len(body)))
	return append(dst, body...)
}

// decodeIndicatorBlock inverts encodeIndicatorBlock, padding with spaces
// if the RLE yields fewer than nValues indicators, and returns the
// number of bytes consumed from src.
func decodeIndicatorBlock(src []byte, nValues int) ([]byte, int, error) {
	length, n := varint.Uint(src)
	if n <= 0 || n+int(length) > len(src) {
		return nil, 0, errs.New(errs.Corrupt)
	}
	body := src[n : n+int(length)]
	consumed := n + int(length)

	out := make([]byte, 0, nValues)
	pos := 0
	for pos < len(body) && len(out) < nValues {
		c := body[pos]
		pos++
		cnt, adv := varint.Uint(body[pos:])
		if adv <= 0 {
			return nil, 0, errs.New(errs.Corrupt)
		}
		pos += adv
		for i := uint64(0); i <= cnt && len(out) < nValues; i++ {
			out = append(out, c)
		}
	}
	for len(out) < nValues {
		out = append(out, ' ')
	}
	return out, consumed, nil
}

// encodeDataBlock implements the value half of §4.G: scale selection,
// order selection and residual block packing.
func encodeDataBlock(values []int64) []byte {
	scale := chooseScale(values)
	scaled := make([]int64, len(values))
	for i, v := range values {
		scaled[i] = v / scale
	}

	order, seeds, residual := chooseOrder(scaled)

	schema := uint64(order)
	hasScale := scale != 1
	if hasScale {
		schema += 8
	}

	dst := varint.PutUint(nil, schema)
	if hasScale {
		dst = varint.PutUint(dst, uint64(scale)*1000)
	}
	for _, s := range seeds {
		dst = varint.PutInt(dst, s)
	}
	return packResidualBlocks(dst, residual)
}

// decodeDataBlock inverts encodeDataBlock, reconstructing nValues
// observation values and returning the number of bytes consumed.
func decodeDataBlock(src []byte, nValues int) ([]int64, int, error) {
	schema, n := varint.Uint(src)
	if n <= 0 {
		return nil, 0, errs.New(errs.Corrupt)
	}
	pos := n

	order := int(schema % 8)
	scaleX1000 := int64(1000)
	if schema >= 8 {
		sx1000, n := varint.Uint(src[pos:])
		if n <= 0 {
			return nil, 0, errs.New(errs.Corrupt)
		}
		pos += n
		scaleX1000 = int64(sx1000)
	}

	seeds := make([]int64, order)
	for i := 0; i < order; i++ {
		v, n := varint.Int(src[pos:])
		if n <= 0 {
			return nil, 0, errs.New(errs.Corrupt)
		}
		pos += n
		seeds[i] = v
	}

	want := nValues - order
	if want < 0 {
		want = 0
	}
	residual, adv, err := unpackResidualBlocks(src[pos:], want)
	if err != nil {
		return nil, 0, err
	}
	pos += adv

	// §4.G's decode formula divides by 1000 after multiplying by the
	// stored scale_x1000 field rather than pre-dividing it into an
	// integer scale, so a foreign container's non-multiple-of-1000
	// scale_x1000 (rational scale < 1) still decodes correctly instead
	// of truncating to zero.
	scaledSeq := integrate(seeds, residual, nValues)
	values := make([]int64, nValues)
	for i, v := range scaledSeq {
		values[i] = v * scaleX1000 / 1000
	}
	return values, pos, nil
}

// SOCDPayload is the decoded content of one SOCD chunk.
type SOCDPayload struct {
	Name   SignalName
	Values []int64
	LLI    []byte
	SSI    []byte
}

// EncodeSOCD serializes p as a SOCD chunk payload (§4.F). It assembles
// the payload in a pooled buffer sized for a full column's residual
// stream (internal/pool's SignalBuffer class) rather than growing a
// fresh slice by repeated append, since a SOCD payload is exactly the
// "per-signal accumulator buffer" that pool exists for.
func EncodeSOCD(p SOCDPayload) []byte {
	bb := pool.GetSignalBuffer()
	defer pool.PutSignalBuffer(bb)

	bb.Write(p.Name[:])
	bb.Write(varint.PutUint(nil, uint64(len(p.Values)-1)))
	bb.Write(encodeIndicatorBlock(p.LLI))
	bb.Write(encodeIndicatorBlock(p.SSI))
	bb.Write(encodeDataBlock(p.Values))

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out
}

// DecodeSOCD parses a SOCD chunk payload.
func DecodeSOCD(payload []byte) (SOCDPayload, error) {
	if len(payload) < 8 {
		return SOCDPayload{}, errs.New(errs.Corrupt)
	}
	var p SOCDPayload
	copy(p.Name[:], payload[0:8])
	pos := 8

	nMinus1, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return SOCDPayload{}, errs.New(errs.Corrupt)
	}
	pos += n
	nValues := int(nMinus1) + 1

	lli, adv, err := decodeIndicatorBlock(payload[pos:], nValues)
	if err != nil {
		return SOCDPayload{}, err
	}
	pos += adv
	p.LLI = lli

	ssi, adv, err := decodeIndicatorBlock(payload[pos:], nValues)
	if err != nil {
		return SOCDPayload{}, err
	}
	pos += adv
	p.SSI = ssi

	values, _, err := decodeDataBlock(payload[pos:], nValues)
	if err != nil {
		return SOCDPayload{}, err
	}
	p.Values = values

	return p, nil
}
