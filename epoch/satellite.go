package epoch

// System is a RINEX satellite-system letter. A space in the input is
// normalized to 'G' (GPS), matching the "all systems" convention of a
// mixed RINEX 2.x file.
type System byte

// Defined systems, per RINEX 3.x Table A2.
const (
	SystemGPS     System = 'G'
	SystemGLONASS System = 'R'
	SystemSBAS    System = 'S'
	SystemGalileo System = 'E'
	SystemBeiDou  System = 'C'
	SystemQZSS    System = 'J'
	SystemIRNSS   System = 'I'
)

// Normalize maps a raw header/record byte to its canonical System,
// treating a blank column as GPS.
func Normalize(b byte) System {
	if b == ' ' {
		return SystemGPS
	}
	return System(b)
}

// Index returns the 32-entry radix index for the system, per §9's
// preference for `sys & 31` over a general hash map: the low 5 bits of
// every defined system letter are distinct.
func (s System) Index() int { return int(s) & 31 }

// SatelliteName is a three-byte RINEX satellite identifier: a system
// letter followed by a two-digit, zero-padded PRN.
type SatelliteName [3]byte

// System returns the satellite's system letter, normalizing a blank to GPS.
func (n SatelliteName) System() System { return Normalize(n[0]) }

// String renders the name verbatim (blank system byte included).
func (n SatelliteName) String() string { return string(n[:]) }

// ObsCode is a RINEX observation-code identifier: two bytes for RINEX
// 2.x, three for RINEX 3.x, NUL-padded to the fixed three-byte width.
type ObsCode [3]byte

// String renders the code, trimming trailing NUL padding.
func (c ObsCode) String() string {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}
	return string(c[:n])
}

// NewObsCode builds an ObsCode from a 2- or 3-character string,
// NUL-padding the remainder.
func NewObsCode(s string) ObsCode {
	var c ObsCode
	copy(c[:], s)
	return c
}
