// Package errs defines the error taxonomy shared by the rinex and soc
// packages.
//
// Every failure surfaced by this module carries a Kind so callers can
// branch on the failure category without parsing message text, mirroring
// the rinex_error/srnx_errno enumerations of the original C reader.
package errs

import "fmt"

// Kind identifies the category of a failure.
type Kind int

const (
	// NotObservation indicates a RINEX header that is not an observation file.
	NotObservation Kind = iota + 1
	// UnknownVersion indicates a RINEX header version that is not 2.x or 3.x.
	UnknownVersion
	// BadFormat indicates a structural violation in RINEX text or an SOC container.
	BadFormat
	// System indicates an underlying transport failure; Err holds the cause.
	System
	// Eof indicates a clean end of input.
	Eof
	// Corrupt indicates an SOC container validation failure.
	Corrupt
	// BadMajor indicates an SOC container major version that is not understood.
	BadMajor
	// BadState indicates an operation invalid in the reader/writer's current state.
	BadState
	// NoChunk indicates a requested chunk is absent from the container.
	NoChunk
	// UnknownSystem indicates a satellite system letter with no header entry.
	UnknownSystem
	// UnknownCode indicates an observation code not declared for a system.
	UnknownCode
	// UnknownSatellite indicates a satellite name absent from the container.
	UnknownSatellite
	// EndOfData indicates a per-signal iterator has been exhausted.
	EndOfData
)

// String renders the Kind the way callers would want it in a log line.
func (k Kind) String() string {
	switch k {
	case NotObservation:
		return "NotObservation"
	case UnknownVersion:
		return "UnknownVersion"
	case BadFormat:
		return "BadFormat"
	case System:
		return "System"
	case Eof:
		return "Eof"
	case Corrupt:
		return "Corrupt"
	case BadMajor:
		return "BadMajor"
	case BadState:
		return "BadState"
	case NoChunk:
		return "NoChunk"
	case UnknownSystem:
		return "UnknownSystem"
	case UnknownCode:
		return "UnknownCode"
	case UnknownSatellite:
		return "UnknownSatellite"
	case EndOfData:
		return "EndOfData"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by this module's readers and
// writers. It never wraps a partially-populated result: an operation
// either fully succeeds or returns an Error and leaves no partial state
// visible to the caller.
type Error struct {
	Kind Kind

	// Line is the source location of the failure, following the
	// error_line convention of the original rinex_parser/srnx_reader:
	// useful for diagnostics, not part of the stable contract.
	Line int

	// Err is the underlying cause for Kind == System; nil otherwise.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target names the same Kind, so callers can write
// errors.Is(err, errs.New(errs.Eof)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error with no source line or wrapped cause.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// At creates an Error carrying a source location, for use as
// `return errs.At(errs.BadFormat, line)`.
func At(kind Kind, line int) *Error { return &Error{Kind: kind, Line: line} }

// Wrap creates a System error wrapping the underlying transport failure.
func Wrap(line int, err error) *Error { return &Error{Kind: System, Line: line, Err: err} }

// Sentinel values for errors.Is comparisons against a fixed Kind.
var (
	ErrEof              = New(Eof)
	ErrEndOfData        = New(EndOfData)
	ErrBadState         = New(BadState)
	ErrNoChunk          = New(NoChunk)
	ErrCorrupt          = New(Corrupt)
	ErrNotObservation   = New(NotObservation)
	ErrUnknownVersion   = New(UnknownVersion)
	ErrUnknownSystem    = New(UnknownSystem)
	ErrUnknownCode      = New(UnknownCode)
	ErrUnknownSatellite = New(UnknownSatellite)
)
