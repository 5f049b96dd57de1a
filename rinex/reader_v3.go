package rinex

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// readV3Record implements the RINEX 3.x branch of §4.E.
func (rd *Reader) readV3Record(line []byte) (*Record, error) {
	if len(line) == 0 || line[0] != '>' {
		return nil, rd.fail(errs.BadFormat)
	}

	yearRaw, err := varint.ParseUint(string(field(line, 2, 6)), 4)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	month, err := varint.ParseUint(string(field(line, 7, 9)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	day, err := varint.ParseUint(string(field(line, 10, 12)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	hour, err := varint.ParseUint(string(field(line, 13, 15)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	minute, err := varint.ParseUint(string(field(line, 16, 18)), 2)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}
	secE7, err := varint.ParseFixed(string(field(line, 18, 29)), 11, 7)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}

	// §9's documented source discrepancy: the flag lives at column 31,
	// not 28. This implementation reads the correct column.
	flag := field(line, 31, 32)[0]
	nSats, err := varint.ParseUint(string(field(line, 32, 35)), 3)
	if err != nil {
		return nil, rd.fail(errs.BadFormat)
	}

	offsetField := field(line, 41, 56)
	var clockE12 int64
	if !isBlank(offsetField) {
		v, err := varint.ParseFixed(string(offsetField), 15, 12)
		if err != nil {
			return nil, rd.fail(errs.BadFormat)
		}
		clockE12 = v
	}

	rd.rec.Epoch = epoch.Epoch{
		YMD:            int32(yearRaw)*10000 + int32(month)*100 + int32(day),
		HM:             int16(hour)*100 + int16(minute),
		Flag:           epoch.Flag(flag),
		SecE7:          int32(secE7),
		NSats:          int32(nSats),
		ClockOffsetE12: clockE12,
	}

	if !epoch.Flag(flag).IsObservation() {
		return rd.readV2Event(int(nSats))
	}
	return rd.readV3Observations(int(nSats))
}

func (rd *Reader) readV3Observations(nSats int) (*Record, error) {
	for i := 0; i < nSats; i++ {
		l, err := rd.lr.next()
		if err != nil {
			return nil, rd.fail(errs.BadFormat)
		}

		var sat epoch.SatelliteName
		copy(sat[:], field(l, 0, 3))
		rd.rec.Satellites = append(rd.rec.Satellites, sat)

		sys := sat.System()
		nObs := rd.header.NObs(sys)
		if nObs == 0 {
			return nil, rd.fail(errs.UnknownSystem)
		}
		presence := rd.appendPresenceHeader(sat, nObs)

		for obsIdx := 0; obsIdx < nObs; obsIdx++ {
			start := 3 + obsIdx*16
			fld := field(l, start, start+16)
			if v, ok := fixedOrBlank(fld[:14], 14, 3); ok {
				epoch.PresenceSet(presence, obsIdx)
				rd.rec.Values = append(rd.rec.Values, v)
				rd.rec.LLI = append(rd.rec.LLI, orSpace(fld, 14))
				rd.rec.SSI = append(rd.rec.SSI, orSpace(fld, 15))
			}
		}
	}
	return &rd.rec, nil
}
