package soc

import (
	"github.com/entrope/srnx/compress"
	"github.com/entrope/srnx/epoch"
	"github.com/entrope/srnx/errs"
	"github.com/entrope/srnx/internal/digest"
	"github.com/entrope/srnx/soc/section"
)

// preallocEpochs is the writer's initial per-signal reservation: one
// day's worth of 30-second epochs, per the §5 growth discipline.
const preallocEpochs = 2880

type signalKey struct {
	sat  epoch.SatelliteName
	code epoch.ObsCode
}

type signalAccum struct {
	present []bool
	values  []int64
	lli     []byte
	ssi     []byte
}

// Writer accumulates decoded RINEX epochs and per-signal observations
// and serializes them as an SOC container on Finish, implementing the
// §4.G encoder that inverts the §4.F chunk layout.
type Writer struct {
	major, minor  uint64
	chunkDigestID digest.ID
	fileDigestID  digest.ID

	epochs []epoch.Epoch

	satOrder   []epoch.SatelliteName
	satSeen    map[epoch.SatelliteName]bool
	satPresent map[epoch.SatelliteName][]bool

	sigOrder []signalKey
	signals  map[signalKey]*signalAccum

	events []EVTFPayload

	rhdr         RHDRPayload
	compressKind compress.Kind
}

// NewWriter creates a Writer for a container with the given format
// version and digest algorithms (digest.None disables a digest). RHDR
// and EVTF chunk text payloads are stored uncompressed by default; use
// SetCompression to opt into zstd or lz4.
func NewWriter(major, minor uint64, chunkDigestID, fileDigestID digest.ID, rhdr RHDRPayload) *Writer {
	return &Writer{
		major:         major,
		minor:         minor,
		chunkDigestID: chunkDigestID,
		fileDigestID:  fileDigestID,
		satSeen:       make(map[epoch.SatelliteName]bool),
		satPresent:    make(map[epoch.SatelliteName][]bool),
		signals:       make(map[signalKey]*signalAccum),
		rhdr:          rhdr,
		compressKind:  compress.KindNone,
	}
}

// SetCompression selects the codec used for the RHDR chunk's embedded
// raw header text and for EVTF chunk bodies.
func (w *Writer) SetCompression(kind compress.Kind) { w.compressKind = kind }

// AddEvent records a special-event record (RINEX flag '2'..'5') at
// epochIndex (as returned by AddEpoch), to be emitted as an EVTF chunk
// on Finish.
func (w *Writer) AddEvent(epochIndex int, flag epoch.Flag, lines [][]byte) {
	cp := make([][]byte, len(lines))
	for i, l := range lines {
		b := make([]byte, len(l))
		copy(b, l)
		cp[i] = b
	}
	w.events = append(w.events, EVTFPayload{EpochIndex: epochIndex, Flag: flag, Lines: cp})
}

// AddEpoch appends one epoch to the container's timeline and returns
// its index, to be passed to AddObservation.
func (w *Writer) AddEpoch(e epoch.Epoch) int {
	w.epochs = append(w.epochs, e)
	return len(w.epochs) - 1
}

// AddObservation records that satellite sat's observation code carried
// value/lli/ssi at epochIndex (as returned by AddEpoch).
func (w *Writer) AddObservation(sat epoch.SatelliteName, code epoch.ObsCode, epochIndex int, value int64, lli, ssi byte) {
	if !w.satSeen[sat] {
		w.satSeen[sat] = true
		w.satOrder = append(w.satOrder, sat)
	}

	key := signalKey{sat: sat, code: code}
	acc, ok := w.signals[key]
	if !ok {
		acc = &signalAccum{
			present: make([]bool, 0, preallocEpochs),
			values:  make([]int64, 0, preallocEpochs),
			lli:     make([]byte, 0, preallocEpochs),
			ssi:     make([]byte, 0, preallocEpochs),
		}
		w.signals[key] = acc
		w.sigOrder = append(w.sigOrder, key)
	}

	for len(acc.present) <= epochIndex {
		acc.present = append(acc.present, false)
	}
	acc.present[epochIndex] = true
	acc.values = append(acc.values, value)
	acc.lli = append(acc.lli, lli)
	acc.ssi = append(acc.ssi, ssi)

	satPresent := w.satPresent[sat]
	for len(satPresent) <= epochIndex {
		satPresent = append(satPresent, false)
	}
	satPresent[epochIndex] = true
	w.satPresent[sat] = satPresent
}

func runLengthEncode(present []bool) []PresenceRun {
	var runs []PresenceRun
	i := 0
	for i < len(present) {
		j := i
		for j < len(present) && present[j] == present[i] {
			j++
		}
		if i == 0 && present[0] {
			// The run sequence always starts with an absent run
			// (possibly length 0) per §4.F.
			runs = append(runs, PresenceRun{Absent: 0, Present: j - i})
		} else if present[i] {
			runs[len(runs)-1].Present = j - i
		} else {
			runs = append(runs, PresenceRun{Absent: j - i})
		}
		i = j
	}
	if len(runs) == 0 {
		runs = append(runs, PresenceRun{Absent: len(present)})
	}
	return runs
}

// Finish serializes the accumulated epochs and signals as a complete
// SOC container.
func (w *Writer) Finish() ([]byte, error) {
	var buf []byte

	preamble := section.Preamble{
		Major:         w.major,
		Minor:         w.minor,
		ChunkDigestID: w.chunkDigestID,
		FileDigestID:  w.fileDigestID,
	}
	// The SRNX chunk carries no digest of its own: its payload is what
	// declares which digest algorithm every later chunk uses, so it
	// cannot self-validate.
	buf = section.AppendChunk(buf, section.TagSRNX, preamble.Encode(), digest.None)

	rhdrPayload, err := EncodeRHDR(w.rhdr, w.compressKind)
	if err != nil {
		return nil, err
	}
	buf = section.AppendChunk(buf, section.TagRHDR, rhdrPayload, w.chunkDigestID)

	if len(w.epochs) > 0 {
		buf = section.AppendChunk(buf, section.TagEPOC, EncodeEPOC(w.epochs), w.chunkDigestID)
	} else if len(w.sigOrder) > 0 {
		return nil, errs.New(errs.BadFormat)
	}

	for _, ev := range w.events {
		payload, err := EncodeEVTF(ev, w.compressKind)
		if err != nil {
			return nil, err
		}
		buf = section.AppendChunk(buf, section.TagEVTF, payload, w.chunkDigestID)
	}

	socdOffsets := make(map[signalKey]int64, len(w.sigOrder))
	for _, key := range w.sigOrder {
		acc := w.signals[key]
		if len(acc.values) == 0 {
			continue
		}
		offset := int64(len(buf))
		payload := EncodeSOCD(SOCDPayload{
			Name:   NewSignalName(key.sat, key.code),
			Values: acc.values,
			LLI:    acc.lli,
			SSI:    acc.ssi,
		})
		buf = section.AppendChunk(buf, section.TagSOCD, payload, w.chunkDigestID)
		socdOffsets[key] = offset
	}

	for _, sat := range w.satOrder {
		sys := sat.System()
		codes := w.rhdr.ObsTypes[sys]
		offsets := make([]int64, len(codes))
		for i, code := range codes {
			if off, ok := socdOffsets[signalKey{sat: sat, code: code}]; ok {
				offsets[i] = off
			}
		}
		present := w.satPresent[sat]
		for len(present) < len(w.epochs) {
			present = append(present, false)
		}

		chunkOffset := int64(len(buf))
		payload := EncodeSATE(SATEPayload{
			Name:     sat,
			Presence: runLengthEncode(present),
		}, chunkOffset, offsets)
		buf = section.AppendChunk(buf, section.TagSATE, payload, w.chunkDigestID)
	}

	if w.fileDigestID != digest.None {
		sum := digest.Sum(w.fileDigestID, buf)
		buf = append(buf, sum...)
	}

	return buf, nil
}
