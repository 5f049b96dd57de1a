package rinex

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/stream"
	"github.com/entrope/srnx/varint"
)

type state int

const (
	stateIdle state = iota
	stateDone
)

// Record is the reused, borrowed output of Reader.Read. Its slices are
// only valid until the next call to Read, mirroring the original
// reader's per-record buffer reuse (§9's "per-record buffer reuse"
// design note): callers that need a value past the next Read must copy
// it out themselves.
type Record struct {
	Epoch      epoch.Epoch
	Satellites []epoch.SatelliteName

	// Presence holds, for each satellite in Satellites (same order): one
	// system-letter byte, one binary PRN byte, then ceil(n_obs/8)
	// presence bits, per §4.E.
	Presence []byte

	Values []int64
	LLI    []byte
	SSI    []byte

	// EventLines holds the body lines of a non-observation record (flag
	// '2'..'5'), without line terminators and with trailing spaces
	// trimmed, as every line is read; empty for observation records.
	EventLines [][]byte
}

func (r *Record) reset() {
	r.Satellites = r.Satellites[:0]
	r.Presence = r.Presence[:0]
	r.Values = r.Values[:0]
	r.LLI = r.LLI[:0]
	r.SSI = r.SSI[:0]
	r.EventLines = r.EventLines[:0]
}

// Reader is the RINEX record-reader state machine of §4.E: Idle ->
// ReadEpochHeader -> (ReadObservations | ReadEvent) -> Idle, one
// transition per Read call.
type Reader struct {
	header *Header
	lr     *lineReader
	state  state
	rec    Record
	errLn  int
}

// NewReader constructs a Reader positioned just after the header block
// h was parsed from, reading the remaining record body from s.
func NewReader(s stream.Stream, h *Header) *Reader {
	return &Reader{header: h, lr: newLineReader(s), state: stateIdle}
}

// ErrLine returns the source line of the last failure, for diagnostics
// only (§4.E, §7): not part of the observable contract.
func (rd *Reader) ErrLine() int { return rd.errLn }

func (rd *Reader) fail(kind errs.Kind) error {
	rd.state = stateDone
	rd.errLn = rd.lr.LineNo()
	return errs.At(kind, rd.errLn)
}

// Read advances one record and returns it. The returned *Record is
// borrowed and invalidated by the next call to Read.
func (rd *Reader) Read() (*Record, error) {
	if rd.state == stateDone {
		return nil, errs.ErrBadState
	}

	line, err := rd.lr.next()
	if err != nil {
		if e, ok := err.(*errs.Error); ok && e.Kind == errs.EndOfData {
			rd.state = stateDone
			return nil, errs.ErrEof
		}
		rd.state = stateDone
		return nil, err
	}

	rd.rec.reset()

	if rd.header.Major == 3 {
		return rd.readV3Record(line)
	}
	return rd.readV2Record(line)
}

func parseYear(raw int64) int {
	y := int(raw)
	if y < 80 {
		return y + 2000
	}
	return y + 1900
}

func fixedOrBlank(f []byte, width, frac int) (int64, bool) {
	if isBlank(f) {
		return 0, false
	}
	v, err := varint.ParseFixed(string(f), width, frac)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}

// appendPresenceHeader appends a satellite's system/PRN header bytes and
// zeroed presence bits for nObs codes, returning the presence-bit slice
// so the caller can set bits as it walks that satellite's fields.
func (rd *Reader) appendPresenceHeader(sat epoch.SatelliteName, nObs int) []byte {
	prn, _ := varint.ParseUint(string(sat[1:3]), 2)
	rd.rec.Presence = append(rd.rec.Presence, byte(sat.System()), byte(prn))
	bits := epoch.PresenceBits(nObs)
	start := len(rd.rec.Presence)
	for i := 0; i < bits; i++ {
		rd.rec.Presence = append(rd.rec.Presence, 0)
	}
	return rd.rec.Presence[start : start+bits]
}
