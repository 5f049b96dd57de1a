package soc

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// PresenceRun is one run of the interleaved absent/present epoch-count
// sequence a SATE chunk's presence field carries (§4.F).
//
// Both counts are encoded as plain (non-biased) ULEB128 values, so a
// leading Absent run of zero epochs is representable directly — this
// implementation's resolution of the §4.F note that the leading gap
// "possibly" has length 1 meaning gap=0: rather than overload a
// "_minus_1" field to also mean "no bias for the first entry only",
// every gap/run count here is the literal epoch count.
type PresenceRun struct {
	Absent  int
	Present int
}

// SATEPayload is the decoded content of one SATE chunk.
type SATEPayload struct {
	Name epoch.SatelliteName
	// Offsets holds, after DecodeSATE, one absolute file offset per
	// observation code declared for this satellite's system; on the wire
	// each is stored relative to the SATE chunk's own file offset. 0
	// means the code is never observed for this satellite. EncodeSATE
	// takes its offsets from its socdOffsets argument instead.
	Offsets  []int64
	Presence []PresenceRun
}

// EncodeSATE serializes p as a SATE chunk payload. chunkOffset is the
// file offset the SATE chunk itself will occupy, needed because the
// stored SOCD offsets are relative to it.
func EncodeSATE(p SATEPayload, chunkOffset int64, socdOffsets []int64) []byte {
	dst := append([]byte(nil), p.Name[:]...)
	dst = append(dst, 0x00)
	for _, off := range socdOffsets {
		rel := int64(0)
		if off != 0 {
			rel = off - chunkOffset
		}
		dst = varint.PutInt(dst, rel)
	}

	dst = varint.PutUint(dst, uint64(len(p.Presence)-1))
	for _, run := range p.Presence {
		dst = varint.PutUint(dst, uint64(run.Absent))
		dst = varint.PutUint(dst, uint64(run.Present))
	}
	return dst
}

// DecodeSATE parses a SATE chunk payload. nObs is the observation-code
// count for this satellite's system (from the RINEX header, or the
// container's cached copy of it).
func DecodeSATE(payload []byte, nObs int, chunkOffset int64) (SATEPayload, error) {
	if len(payload) < 4 {
		return SATEPayload{}, errs.New(errs.Corrupt)
	}
	var p SATEPayload
	copy(p.Name[:], payload[0:3])
	pos := 4 // 3-byte name + 1 NUL pad

	p.Offsets = make([]int64, nObs)
	for i := 0; i < nObs; i++ {
		rel, n := varint.Int(payload[pos:])
		if n <= 0 {
			return SATEPayload{}, errs.New(errs.Corrupt)
		}
		pos += n
		if rel != 0 {
			p.Offsets[i] = rel + chunkOffset
		}
	}

	runsMinus1, n := varint.Uint(payload[pos:])
	if n <= 0 {
		return SATEPayload{}, errs.New(errs.Corrupt)
	}
	pos += n
	runs := int(runsMinus1) + 1

	p.Presence = make([]PresenceRun, 0, runs)
	for i := 0; i < runs; i++ {
		gap, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return SATEPayload{}, errs.New(errs.Corrupt)
		}
		pos += n
		run, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return SATEPayload{}, errs.New(errs.Corrupt)
		}
		pos += n
		p.Presence = append(p.Presence, PresenceRun{
			Absent:  int(gap),
			Present: int(run),
		})
	}
	return p, nil
}

// ExpandPresence turns the run-length presence encoding into a flat
// per-epoch boolean slice of the given total length.
func (p SATEPayload) ExpandPresence(totalEpochs int) []bool {
	out := make([]bool, 0, totalEpochs)
	for _, run := range p.Presence {
		for i := 0; i < run.Absent && len(out) < totalEpochs; i++ {
			out = append(out, false)
		}
		for i := 0; i < run.Present && len(out) < totalEpochs; i++ {
			out = append(out, true)
		}
	}
	for len(out) < totalEpochs {
		out = append(out, false)
	}
	return out
}
