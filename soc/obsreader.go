package soc

import "github.com/entrope/srnx/errs"

// ringSize is the fixed capacity of the per-signal decoded-value ring,
// per the §4.F iterator contract.
const ringSize = 256

// ObsReader iterates the decoded observation values of one (satellite,
// observation code) signal (§4.F: open_obs / next_value /
// read_indicators). It refills a 256-element ring from the signal's
// already-decoded value slice; DESIGN.md documents why this
// implementation decodes a SOCD chunk's data block eagerly rather than
// block-at-a-time, while preserving the same ring-buffer-shaped
// iterator surface.
type ObsReader struct {
	values   []int64
	lli, ssi []byte
	presence []bool

	ring     [ringSize]int64
	ringBase int
	ringLen  int
	pos      int
}

func newObsReader(payload SOCDPayload, presence []bool) *ObsReader {
	return &ObsReader{values: payload.Values, lli: payload.LLI, ssi: payload.SSI, presence: presence}
}

func (o *ObsReader) ensureRing() bool {
	if o.pos < o.ringBase+o.ringLen {
		return true
	}
	if o.pos >= len(o.values) {
		return false
	}
	o.ringBase = o.pos
	n := len(o.values) - o.pos
	if n > ringSize {
		n = ringSize
	}
	copy(o.ring[:n], o.values[o.pos:o.pos+n])
	o.ringLen = n
	return true
}

// NextValue returns the next observation value in file order, or
// errs.ErrEndOfData once the signal is exhausted.
func (o *ObsReader) NextValue() (int64, error) {
	if !o.ensureRing() {
		return 0, errs.ErrEndOfData
	}
	v := o.ring[o.pos-o.ringBase]
	o.pos++
	return v, nil
}

// ReadIndicators returns the LLI/SSI bytes for the value most recently
// returned by NextValue.
func (o *ObsReader) ReadIndicators() (lli, ssi byte, err error) {
	if o.pos == 0 || o.pos-1 >= len(o.lli) {
		return 0, 0, errs.New(errs.BadState)
	}
	i := o.pos - 1
	return o.lli[i], o.ssi[i], nil
}

// Presence reports, for every epoch in the container, whether this
// signal's satellite was observed there, from the satellite's SATE
// chunk; every code of the satellite shares it. It is not recorded per
// code, so it lines up with NextValue's output only for a code that was
// observed at every epoch its satellite was.
func (o *ObsReader) Presence() []bool { return o.presence }
