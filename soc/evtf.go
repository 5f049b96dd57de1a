package soc

import (
	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// EVTFPayload is this implementation's concrete content for the EVTF
// chunk: §3 leaves the payload format undefined, only that it holds
// "any" number of special-event records (RINEX flags '2'..'5'). This
// implementation stores the event's epoch index (so a reader can place
// it on the container's timeline without also decoding EPOC), the
// event flag, and the verbatim body lines the RINEX reader captured
// for the record (§4.E's "Event records").
type EVTFPayload struct {
	EpochIndex int
	Flag       epoch.Flag
	Lines      [][]byte
}

// EncodeEVTF serializes p as the EVTF chunk payload, compressing the
// concatenated event-line text with codec (compress.KindNone stores it
// literally).
func EncodeEVTF(p EVTFPayload, codec compress.Kind) ([]byte, error) {
	dst := varint.PutUint(nil, uint64(p.EpochIndex))
	dst = append(dst, byte(p.Flag))
	dst = varint.PutUint(dst, uint64(len(p.Lines)))

	var body []byte
	for _, line := range p.Lines {
		body = varint.PutUint(body, uint64(len(line)))
		body = append(body, line...)
	}

	cdc, err := compress.Get(codec)
	if err != nil {
		return nil, err
	}
	compressed, err := cdc.Compress(body)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(codec))
	dst = varint.PutUint(dst, uint64(len(compressed)))
	dst = append(dst, compressed...)
	return dst, nil
}

// DecodeEVTF parses an EVTF chunk payload.
func DecodeEVTF(payload []byte) (EVTFPayload, error) {
	epochIdx, n := varint.Uint(payload)
	if n <= 0 {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	pos := n

	if pos >= len(payload) {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	flag := epoch.Flag(payload[pos])
	pos++

	nLines, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	pos += n

	if pos >= len(payload) {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	codec := compress.Kind(payload[pos])
	pos++

	bodyLen, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	pos += n
	if pos+int(bodyLen) > len(payload) {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	compressed := payload[pos : pos+int(bodyLen)]

	cdc, err := compress.Get(codec)
	if err != nil {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	body, err := cdc.Decompress(compressed)
	if err != nil {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}

	p := EVTFPayload{EpochIndex: int(epochIdx), Flag: flag}
	bpos := 0
	for i := uint64(0); i < nLines; i++ {
		lineLen, n := varint.Uint(body[bpos:])
		if n <= 0 {
			return EVTFPayload{}, errs.New(errs.Corrupt)
		}
		bpos += n
		if bpos+int(lineLen) > len(body) {
			return EVTFPayload{}, errs.New(errs.Corrupt)
		}
		p.Lines = append(p.Lines, body[bpos:bpos+int(lineLen)])
		bpos += int(lineLen)
	}
	return p, nil
}
