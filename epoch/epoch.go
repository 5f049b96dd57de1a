// Package epoch holds the data model shared by the RINEX text reader and
// the SOC container: the timestamped record header, satellite naming,
// and observation-code tables.
package epoch

// Flag identifies the kind of record an Epoch introduces.
type Flag byte

const (
	// FlagOK is a normal observation epoch.
	FlagOK Flag = '0'
	// FlagPowerFailure is an observation epoch following a power failure.
	FlagPowerFailure Flag = '1'
	// FlagCycleSlip is an observation epoch carrying cycle-slip records.
	FlagCycleSlip Flag = '6'
	// FlagNewSiteOccupation through FlagExternalEvent are special events;
	// see RINEX §5.2. Only the numeric range matters to this reader.
	FlagNewSiteOccupation Flag = '2'
	FlagHeaderInfo        Flag = '4'
	FlagExternalEvent     Flag = '5'
)

// IsObservation reports whether f introduces an observation record
// (values follow) as opposed to a special-event record (verbatim text
// follows).
func (f Flag) IsObservation() bool {
	return f == FlagOK || f == FlagPowerFailure || f == FlagCycleSlip
}

// Epoch is the timestamp and record-kind header shared by every RINEX
// record and by the SOC EPOC chunk's decoded output.
//
// YMD packs year*10000+month*100+day and HM packs hour*100+minute, the
// same decimal-coded layout as the original rinex_epoch struct, chosen so
// the fields print legibly under %d without a decoding step.
type Epoch struct {
	YMD             int32
	HM              int16
	Flag            Flag
	SecE7           int32 // seconds-of-minute times 1e7
	NSats           int32 // satellite count, or count of special-event lines
	ClockOffsetE12  int64 // receiver clock offset, seconds times 1e12
}

// Year, Month and Day unpack YMD.
func (e Epoch) Year() int  { return int(e.YMD / 10000) }
func (e Epoch) Month() int { return int(e.YMD / 100 % 100) }
func (e Epoch) Day() int   { return int(e.YMD % 100) }

// Hour and Minute unpack HM.
func (e Epoch) Hour() int   { return int(e.HM / 100) }
func (e Epoch) Minute() int { return int(e.HM % 100) }

// Before reports whether e sorts strictly before other by (date, time),
// the monotonicity invariant of §3.
func (e Epoch) Before(other Epoch) bool {
	if e.YMD != other.YMD {
		return e.YMD < other.YMD
	}
	if e.HM != other.HM {
		return e.HM < other.HM
	}
	return e.SecE7 < other.SecE7
}
