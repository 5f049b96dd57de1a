package rinex

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// readV2Record implements the RINEX 2.x branch of §4.E's epoch header
// and record-body parsing.
func (rd *Reader) readV2Record(line []byte) (*Record, error) {
	yearRaw, err := varint.ParseUint(string(field(line, 1, 3)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	month, err := varint.ParseUint(string(field(line, 4, 6)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	day, err := varint.ParseUint(string(field(line, 7, 9)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	hour, err := varint.ParseUint(string(field(line, 10, 12)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	minute, err := varint.ParseUint(string(field(line, 13, 15)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	secE7, err := varint.ParseFixed(string(field(line, 15, 26)), 11, 7)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}

	flag := field(line, 28, 29)[0]
	nSats, err := varint.ParseUint(string(field(line, 29, 32)), 3)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}

	offsetField := field(line, 68, 80)
	var clockE12 int64
	if !isBlank(offsetField) {
		v, err := varint.ParseFixed(string(offsetField), 12, 9)
		if err != nil {
			return nil, rd.fail(errs.BadFormat)
		}
		clockE12 = v * 1000
	}

	rd.rec.Epoch = epoch.Epoch{
		YMD:            int32(parseYear(int64(yearRaw)))*10000 + int32(month)*100 + int32(day),
		HM:             int16(hour)*100 + int16(minute),
		Flag:           epoch.Flag(flag),
		SecE7:          int32(secE7),
		NSats:          int32(nSats),
		ClockOffsetE12: clockE12,
	}

	if !epoch.Flag(flag).IsObservation() {
		return rd.readV2Event(int(nSats))
	}
	return rd.readV2Observations(line, int(nSats))
}

func (rd *Reader) readV2Event(nSats int) (*Record, error) {
	for i := 0; i < nSats; i++ {
		l, err := rd.lr.next()
		if err != nil {
			return nil, rd.fail(errs.BadFormat)
		}
		cp := make([]byte, len(l))
		copy(cp, l)
		rd.rec.EventLines = append(rd.rec.EventLines, cp)
	}
	return &rd.rec, nil
}

// v2SatListStart and v2SatListEnd bound the 12-satellite-per-line list
// carried on the epoch header line and its continuations, per §4.E.
const (
	v2SatListStart = 32
	v2SatListEnd   = 68
	v2SatsPerLine  = 12
)

func (rd *Reader) readV2Satellites(headerLine []byte, nSats int) ([]epoch.SatelliteName, error) {
	sats := make([]epoch.SatelliteName, 0, nSats)
	line := headerLine
	for len(sats) < nSats {
		for i := 0; i < v2SatsPerLine && len(sats) < nSats; i++ {
			start := v2SatListStart + 3*i
			var name epoch.SatelliteName
			copy(name[:], field(line, start, start+3))
			sats = append(sats, name)
		}
		if len(sats) >= nSats {
			break
		}
		next, err := rd.lr.next()
		if err != nil {
			return nil, rd.fail(errs.BadFormat)
		}
		line = next
	}
	return sats, nil
}

func (rd *Reader) readV2Observations(headerLine []byte, nSats int) (*Record, error) {
	sats, err := rd.readV2Satellites(headerLine, nSats)
	if err != nil {
		return nil, err
	}
	rd.rec.Satellites = append(rd.rec.Satellites, sats...)

	for _, sat := range sats {
		sys := sat.System()
		nObs := rd.header.NObs(sys)
		if nObs == 0 {
			return nil, rd.fail(errs.UnknownSystem)
		}
		presence := rd.appendPresenceHeader(sat, nObs)

		linesNeeded := (nObs + 4) / 5
		obsIdx := 0
		for l := 0; l < linesNeeded; l++ {
			dataLine, err := rd.lr.next()
			if err != nil {
				return nil, rd.fail(errs.BadFormat)
			}
			for f := 0; f < 5 && obsIdx < nObs; f, obsIdx = f+1, obsIdx+1 {
				start := f * 16
				fld := field(dataLine, start, start+16)
				if v, ok := fixedOrBlank(fld[:14], 14, 3); ok {
					epoch.PresenceSet(presence, obsIdx)
					rd.rec.Values = append(rd.rec.Values, v)
					rd.rec.LLI = append(rd.rec.LLI, orSpace(fld, 14))
					rd.rec.SSI = append(rd.rec.SSI, orSpace(fld, 15))
				}
			}
		}
	}
	return &rd.rec, nil
}

func orSpace(b []byte, i int) byte {
	if i < len(b) {
		return b[i]
	}
	return ' '
}
