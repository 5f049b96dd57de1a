// Package rinex implements the RINEX 2.x/3.x observation text format:
// header parsing (this file) and the epoch/observation record reader
// (reader.go).
package rinex

import (
	"bytes"

	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/stream"
	"github.com/entrope/srnx/varint"
)

const (
	labelStart = 60
	labelEnd   = 80

	labelVersionType   = "RINEX VERSION / TYPE"
	labelEndOfHeader   = "END OF HEADER"
	labelV2ObsTypes    = "# / TYPES OF OBSERV"
	labelV3ObsTypes    = "SYS / # / OBS TYPES"
	labelSystemsMarker = "M (MIXED)"
)

// Header holds everything the record reader needs from a RINEX
// observation file's header block, plus the raw label/value lines for
// FindLabel lookups the header model itself doesn't interpret.
type Header struct {
	Major int // 2 or 3
	Minor int

	// ObsTypes maps each declared system to its ordered observation-code
	// table. For RINEX 2.x, the same slice is shared by every system the
	// "# / TYPES OF OBSERV" declaration covers (§4.D's 'M' convention).
	ObsTypes map[epoch.System][]epoch.ObsCode

	lines  [][]byte // raw header lines, label-then-value order preserved
	labels []string // labels[i] is the trimmed label of lines[i]
}

// NObs returns the number of declared observation codes for sys, or 0
// if sys has no declaration.
func (h *Header) NObs(sys epoch.System) int {
	return len(h.ObsTypes[sys])
}

// RawText renders the header block verbatim (as trimmed, LF-terminated
// lines) for callers that want to carry the original RINEX header text
// alongside the parsed model, e.g. the SOC container's RHDR chunk.
func (h *Header) RawText() []byte {
	var buf []byte
	for _, l := range h.lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	return buf
}

// FindLabel returns the value field (columns [0,60)) of the first header
// line whose label matches, mirroring the original reader's
// rinex_find_header lookup for header fields this model doesn't parse
// itself (e.g. "TIME OF FIRST OBS", "MARKER NAME").
func (h *Header) FindLabel(label string) ([]byte, bool) {
	for i, l := range h.labels {
		if l == label {
			return h.lines[i][:labelStart], true
		}
	}
	return nil, false
}

// ReadHeader reads and parses the header block from s, leaving the
// stream positioned at the first byte after "END OF HEADER".
func ReadHeader(s stream.Stream) (*Header, error) {
	lr := newLineReader(s)

	first, err := lr.next()
	if err != nil {
		return nil, err
	}

	versionBytes := field(first, 0, 7)
	var major int
	switch {
	case bytes.Equal(versionBytes, []byte("     2.")):
		major = 2
	case bytes.Equal(versionBytes, []byte("     3.")):
		major = 3
	default:
		return nil, errs.At(errs.UnknownVersion, lr.LineNo())
	}

	fileType := field(first, 20, 21)[0]
	if fileType != 'O' {
		return nil, errs.At(errs.NotObservation, lr.LineNo())
	}

	minorDigits := trimmed(field(first, 7, 9))
	minor, minorErr := varint.ParseUint(minorDigits, len(minorDigits))
	if minorErr != nil {
		minor = 0
	}

	h := &Header{
		Major:    major,
		Minor:    int(minor),
		ObsTypes: make(map[epoch.System][]epoch.ObsCode),
	}
	h.appendLine(first)
	v2systems := v2Systems(first)
	var lastV3Sys epoch.System

	for {
		line, err := lr.next()
		if err != nil {
			return nil, err
		}
		h.appendLine(line)

		label := trimmed(field(line, labelStart, labelEnd))
		switch label {
		case labelEndOfHeader:
			// Discard the END OF HEADER line itself so a Reader built on
			// s starts at the first record.
			if err := s.Advance(0, lr.pending); err != nil {
				return nil, errs.Wrap(lr.LineNo(), err)
			}
			return h, nil
		case labelV2ObsTypes:
			if err := h.readV2ObsTypes(lr, line, v2systems); err != nil {
				return nil, err
			}
		case labelV3ObsTypes:
			sys, err := h.readV3ObsTypes(line, lastV3Sys)
			if err != nil {
				return nil, err
			}
			lastV3Sys = sys
		}
	}
}

func (h *Header) appendLine(line []byte) {
	cp := make([]byte, len(line))
	copy(cp, line)
	h.lines = append(h.lines, cp)
	h.labels = append(h.labels, trimmed(field(line, labelStart, labelEnd)))
}

// readV2ObsTypes parses the "# / TYPES OF OBSERV" declaration, following
// continuation lines (same label, blank n_obs field) until n_obs codes
// have been collected. The code text for slot i sits at columns
// [10+6*i, 12+6*i): a 6-character Fortran group (4X,A2) per slot, with
// the two-character code right-justified in the low 2 columns, per
// §4.D.
func (h *Header) readV2ObsTypes(lr *lineReader, first []byte, systems []epoch.System) error {
	nObs, err := varint.ParseUint(string(field(first, 0, 6)), 6)
	if err != nil {
		return errs.At(errs.BadFormat, lr.LineNo())
	}

	var codes []epoch.ObsCode
	line := first
	for len(codes) < int(nObs) {
		for i := 0; i < 9 && len(codes) < int(nObs); i++ {
			start := 10 + 6*i
			codes = append(codes, epoch.NewObsCode(trimmed(field(line, start, start+2))))
		}
		if len(codes) >= int(nObs) {
			break
		}
		next, err := lr.next()
		if err != nil {
			return err
		}
		h.appendLine(next)
		line = next
	}

	for _, sys := range systems {
		h.ObsTypes[sys] = codes
	}
	return nil
}

// v2Systems reports which systems a RINEX 2.x "# / TYPES OF OBSERV"
// declaration applies to. A RINEX 2.x file declares exactly one
// observation-code table; column 40 of the RINEX VERSION/TYPE line
// carries 'M' for an all-systems mixed file (§4.D), in which case the
// same table applies to G, R, S and E. Anything else, including a blank,
// applies only to GPS.
func v2Systems(versionLine []byte) []epoch.System {
	if field(versionLine, 40, 41)[0] == 'M' {
		return []epoch.System{epoch.SystemGPS, epoch.SystemGLONASS, epoch.SystemSBAS, epoch.SystemGalileo}
	}
	return []epoch.System{epoch.SystemGPS}
}

// readV3ObsTypes parses one "SYS / # / OBS TYPES" declaration line for a
// single system, or a continuation of the previous one (column 0
// blank). Code text for slot i sits at columns [7+4*i, 10+4*i): a
// 4-character group (1X,A3) with the three-character code right-
// justified, per §4.D. The observation count is read as the 3-column
// field [3,6), where RINEX 3 headers right-justify it; reading only
// [3,5) would drop its last column. A continuation line leaves the
// count blank, and its non-blank code slots extend the previous line's
// table. Returns the system the codes were attributed to, so the
// caller can pass it back in for a following continuation line.
func (h *Header) readV3ObsTypes(line []byte, prevSys epoch.System) (epoch.System, error) {
	sysByte := field(line, 0, 1)[0]
	sys := prevSys
	slots := 13
	if sysByte != ' ' {
		sys = epoch.Normalize(sysByte)
		nObs, err := varint.ParseUint(string(field(line, 3, 6)), 3)
		if err != nil {
			return sys, errs.New(errs.BadFormat)
		}
		slots = int(nObs) - len(h.ObsTypes[sys])
	}

	var codes []epoch.ObsCode
	for i := 0; i < 13 && i < slots; i++ {
		start := 7 + 4*i
		code := trimmed(field(line, start, start+3))
		if sysByte == ' ' && code == "" {
			break
		}
		codes = append(codes, epoch.NewObsCode(code))
	}
	h.ObsTypes[sys] = append(h.ObsTypes[sys], codes...)
	return sys, nil
}
