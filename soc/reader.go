package soc

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
	"github.com/entrope/srnx/soc/section"
)

// Reader is the chunk walker described in §4.F. It validates the
// SRNX->RHDR prefix eagerly, then locates SATE/SOCD chunks by forward
// scan without a cached SDIR index (this implementation's writer never
// emits SDIR, per the note in DESIGN.md).
type Reader struct {
	data     []byte
	preamble section.Preamble
	rhdr     RHDRPayload

	epochChunk EpochChunk
	epochs     []epoch.Epoch

	sateOffset  map[epoch.SatelliteName]int64
	evtfOffsets []int64
	evtfCursor  int
}

// NewReader validates data as an SOC container and parses its RHDR and
// EPOC chunks eagerly.
func NewReader(data []byte) (*Reader, error) {
	c, err := section.ReadChunk(data, digest.None)
	if err != nil || c.Tag != section.TagSRNX {
		return nil, errs.New(errs.Corrupt)
	}
	r := &Reader{data: data, sateOffset: make(map[epoch.SatelliteName]int64)}
	if err := r.preamble.Decode(c.Payload); err != nil {
		return nil, err
	}
	if r.preamble.Major != 1 {
		return nil, errs.New(errs.BadMajor)
	}
	pos := c.Consumed

	rhdrChunk, err := section.ReadChunk(data[pos:], r.preamble.ChunkDigestID)
	if err != nil || rhdrChunk.Tag != section.TagRHDR {
		return nil, errs.New(errs.Corrupt)
	}
	r.rhdr, err = DecodeRHDR(rhdrChunk.Payload)
	if err != nil {
		return nil, err
	}
	pos += rhdrChunk.Consumed

	for pos < len(data) {
		ch, err := section.ReadChunk(data[pos:], r.preamble.ChunkDigestID)
		if err != nil {
			break
		}
		switch ch.Tag {
		case section.TagEPOC:
			r.epochChunk, err = DecodeEPOC(ch.Payload)
			if err != nil {
				return nil, err
			}
			r.epochs = r.epochChunk.ExpandEpochs()
		case section.TagSATE:
			if len(ch.Payload) >= 3 {
				var name epoch.SatelliteName
				copy(name[:], ch.Payload[0:3])
				r.sateOffset[name] = int64(pos)
			}
		case section.TagEVTF:
			r.evtfOffsets = append(r.evtfOffsets, int64(pos))
		case section.TagSDIR, section.TagSOCD:
			// SOCD chunks are located on demand; SDIR is not emitted
			// by this implementation's writer and is skipped if
			// present in a foreign container.
		}
		pos += ch.Consumed
	}

	return r, nil
}

// RHDR returns the decoded RINEX-header chunk.
func (r *Reader) RHDR() RHDRPayload { return r.rhdr }

// Epochs returns the container's expanded epoch timeline.
func (r *Reader) Epochs() []epoch.Epoch { return r.epochs }

// Satellites returns the satellites with a SATE chunk in the container.
func (r *Reader) Satellites() []epoch.SatelliteName {
	out := make([]epoch.SatelliteName, 0, len(r.sateOffset))
	for name := range r.sateOffset {
		out = append(out, name)
	}
	return out
}

// NextEvent decodes and returns the container's next EVTF chunk in file
// order, along with the epoch index it occurred at (the "epoch_index"
// output of the original reader's next_special_event operation). It
// returns errs.ErrEndOfData once every EVTF chunk has been consumed.
func (r *Reader) NextEvent() (EVTFPayload, error) {
	if r.evtfCursor >= len(r.evtfOffsets) {
		return EVTFPayload{}, errs.ErrEndOfData
	}
	offset := r.evtfOffsets[r.evtfCursor]
	r.evtfCursor++

	ch, err := section.ReadChunk(r.data[offset:], r.preamble.ChunkDigestID)
	if err != nil || ch.Tag != section.TagEVTF {
		return EVTFPayload{}, errs.New(errs.Corrupt)
	}
	return DecodeEVTF(ch.Payload)
}

// readSATE decodes the SATE chunk for sat, if present.
func (r *Reader) readSATE(sat epoch.SatelliteName) (SATEPayload, int64, error) {
	offset, ok := r.sateOffset[sat]
	if !ok {
		return SATEPayload{}, 0, errs.New(errs.UnknownSatellite)
	}
	ch, err := section.ReadChunk(r.data[offset:], r.preamble.ChunkDigestID)
	if err != nil {
		return SATEPayload{}, 0, err
	}
	nObs := len(r.rhdr.ObsTypes[sat.System()])
	p, err := DecodeSATE(ch.Payload, nObs, offset)
	return p, offset, err
}

// OpenObs opens a per-signal iterator for satellite sat's observation
// code (§4.F's open_obs).
func (r *Reader) OpenObs(sat epoch.SatelliteName, code epoch.ObsCode) (*ObsReader, error) {
	sys := sat.System()
	idx := r.rhdr.CodeIndex(sys, code)
	if idx < 0 {
		return nil, errs.New(errs.UnknownCode)
	}

	sate, _, err := r.readSATE(sat)
	if err != nil {
		return nil, err
	}
	if idx >= len(sate.Offsets) || sate.Offsets[idx] == 0 {
		return nil, errs.New(errs.NoChunk)
	}

	ch, err := section.ReadChunk(r.data[sate.Offsets[idx]:], r.preamble.ChunkDigestID)
	if err != nil || ch.Tag != section.TagSOCD {
		return nil, errs.New(errs.Corrupt)
	}
	payload, err := DecodeSOCD(ch.Payload)
	if err != nil {
		return nil, err
	}
	wantName := NewSignalName(sat, code)
	if payload.Name != wantName {
		return nil, errs.New(errs.Corrupt)
	}

	presence := sate.ExpandPresence(len(r.epochs))
	return newObsReader(payload, presence), nil
}
