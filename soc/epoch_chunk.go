package soc

import (
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/varint"
)

// EpochSpan is one run of epochs advancing at a constant interval, the
// unit the EPOC chunk's decoder (§4.F) works in.
type EpochSpan struct {
	// IntervalE7 is seconds x 1e7 between consecutive epochs within the
	// span when positive, or a whole-second interval when negative (the
	// sign carries the unit, per §4.F).
	IntervalE7 int64
	Count      int
	// StartYMD/StartHM/StartSecE7 are the first epoch's timestamp.
	StartYMD    int32
	StartHM     int16
	StartSecE7  int32
}

// ClockRun is one run of a constant receiver clock offset.
type ClockRun struct {
	ValueE12 int64
	Count    int
}

// EpochChunk is the decoded content of the EPOC chunk.
type EpochChunk struct {
	Spans      []EpochSpan
	ClockRuns  []ClockRun
	NEpoch     int
}

// stepEpoch advances a decimal-coded (ymd, hm, secE7) timestamp by
// intervalE7 (seconds x 1e7, or a negative whole-second step), per
// §4.F: mm and sec_e7 reset to 0 exactly when the new whole-second
// value equals 60 (a leap second must begin a new span rather than
// reset); hours and days never roll over here.
func stepEpoch(ymd int32, hm int16, secE7 int32, intervalE7 int64) (int32, int16, int32) {
	var deltaE7 int64
	if intervalE7 < 0 {
		deltaE7 = -intervalE7 * 1e7
	} else {
		deltaE7 = intervalE7
	}
	newSecE7 := int64(secE7) + deltaE7
	wholeSec := newSecE7 / 1e7
	if wholeSec == 60 {
		mm := hm%100 + 1
		hh := hm / 100
		if mm == 60 {
			mm = 0
			hh++
		}
		return ymd, hh*100 + mm, int32(newSecE7 - 60*1e7)
	}
	return ymd, hm, int32(newSecE7)
}

// ExpandEpochs materializes the epoch timestamps a span sequence
// represents, in file order.
func (c EpochChunk) ExpandEpochs() []epoch.Epoch {
	out := make([]epoch.Epoch, 0, c.NEpoch)
	for _, span := range c.Spans {
		ymd, hm, secE7 := span.StartYMD, span.StartHM, span.StartSecE7
		for i := 0; i < span.Count; i++ {
			if i > 0 {
				ymd, hm, secE7 = stepEpoch(ymd, hm, secE7, span.IntervalE7)
			}
			out = append(out, epoch.Epoch{YMD: ymd, HM: hm, SecE7: secE7})
		}
	}
	clocks := make([]int64, 0, c.NEpoch)
	for _, run := range c.ClockRuns {
		for i := 0; i < run.Count; i++ {
			clocks = append(clocks, run.ValueE12)
		}
	}
	for i := range out {
		if i < len(clocks) {
			out[i].ClockOffsetE12 = clocks[i]
		}
	}
	return out
}

// EncodeEPOC serializes an EPOC chunk payload from expanded epochs
// (§4.F): it groups the input into constant-interval spans and
// constant-clock-offset runs.
func EncodeEPOC(epochs []epoch.Epoch) []byte {
	dst := varint.PutUint(nil, uint64(len(epochs)))

	i := 0
	for i < len(epochs) {
		j := i + 1
		var interval int64
		haveInterval := false
		for j < len(epochs) {
			a, b := epochs[j-1], epochs[j]
			if a.YMD != b.YMD || a.HM/100 != b.HM/100 {
				// Day and hour rollovers close the span, even as its
				// first step.
				break
			}
			iv := intervalBetween(a, b)
			if !haveInterval {
				interval = iv
				haveInterval = true
			} else if iv != interval {
				break
			}
			j++
		}
		count := j - i
		dst = varint.PutInt(dst, interval)
		dst = varint.PutUint(dst, uint64(count-1))
		dst = varint.PutUint(dst, uint64(epochs[i].YMD))
		dst = varint.PutUint(dst, encodeTimeOfDay(epochs[i]))
		i = j
	}

	clockVals := make([]int64, len(epochs))
	for i, e := range epochs {
		clockVals[i] = e.ClockOffsetE12
	}
	i = 0
	for i < len(clockVals) {
		j := i
		for j < len(clockVals) && clockVals[j] == clockVals[i] {
			j++
		}
		dst = varint.PutInt(dst, clockVals[i])
		dst = varint.PutUint(dst, uint64(j-i-1))
		i = j
	}
	return dst
}

func encodeTimeOfDay(e epoch.Epoch) uint64 {
	return uint64(e.Hour())*1e11 + uint64(e.Minute())*1e9 + uint64(e.SecE7)
}

// intervalBetween computes the SLEB128 interval field between two
// consecutive epochs: a negative whole-second value when the gap is an
// exact multiple of one second, otherwise a positive seconds-x-1e7
// value.
func intervalBetween(a, b epoch.Epoch) int64 {
	deltaE7 := int64(b.SecE7) - int64(a.SecE7)
	deltaE7 += (int64(b.HM/100) - int64(a.HM/100)) * 3600 * 1e7
	deltaE7 += (int64(b.HM%100) - int64(a.HM%100)) * 60 * 1e7
	if a.YMD != b.YMD || a.HM/100 != b.HM/100 {
		// Day and hour rollovers both require a new span (§4.F): hours
		// never wrap within a span, just like days. EncodeEPOC closes
		// the span before any such pair, so the raw delta returned here
		// is never stored as a span interval.
		return deltaE7
	}
	if deltaE7%1e7 == 0 {
		return -(deltaE7 / 1e7)
	}
	return deltaE7
}

// DecodeEPOC parses an EPOC chunk payload.
func DecodeEPOC(payload []byte) (EpochChunk, error) {
	nEpoch, n := varint.Uint(payload)
	if n <= 0 {
		return EpochChunk{}, errs.New(errs.Corrupt)
	}
	pos := n

	var c EpochChunk
	c.NEpoch = int(nEpoch)

	total := 0
	for total < c.NEpoch {
		interval, n := varint.Int(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n
		countMinus1, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n
		date, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n
		timeField, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n

		y := date / 10000
		if y < 100 {
			if y < 80 {
				y += 2000
			} else {
				y += 1900
			}
		}
		ymd := int32(y*10000 + (date/100%100)*100 + date%100)

		hh := timeField / 1e11
		mm := (timeField / 1e9) % 100
		secE7 := timeField % 1e9

		c.Spans = append(c.Spans, EpochSpan{
			IntervalE7: interval,
			Count:      int(countMinus1) + 1,
			StartYMD:   ymd,
			StartHM:    int16(hh*100 + mm),
			StartSecE7: int32(secE7),
		})
		total += int(countMinus1) + 1
	}

	for total := 0; total < c.NEpoch && pos < len(payload); {
		v, n := varint.Int(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n
		countMinus1, n := varint.Uint(payload[pos:])
		if n <= 0 {
			return EpochChunk{}, errs.New(errs.Corrupt)
		}
		pos += n
		c.ClockRuns = append(c.ClockRuns, ClockRun{ValueE12: v, Count: int(countMinus1) + 1})
		total += int(countMinus1) + 1
	}

	return c, nil
}
