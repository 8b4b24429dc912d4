package record

import (
	"strconv"

	"github.com/veduco/EFTSuite-Public/format"
)

// Default Type-1 header values for ATF transmissions.
const (
	DefaultVersion    = "0200"      // 1.002 VER
	DefaultTOT        = "FAUF"      // 1.004 TOT
	DefaultPriority   = 5           // 1.006 PRY, response within 2 hours
	DefaultDAI        = "WVIAFIS0Z" // 1.007 destination, FBI/CJIS
	DefaultORI        = "WVATF0800" // 1.008 originator, ATF
	DefaultResolution = "00.00"     // 1.011/1.012 when no Type-4 is present
)

// Record is the uniform serialization contract every record type satisfies.
type Record interface {
	// Type returns the record type (1, 2, 4, 14).
	Type() format.RecordType

	// IDC returns the record's Information Designator Code. The Type-1
	// header itself carries no IDC and returns 0.
	IDC() int

	// Serialize produces the exact bytes of the record as they appear in
	// the file, including the terminating FS (tagged records) or the full
	// declared length (binary records).
	Serialize() ([]byte, error)

	// DeclaredLength returns the value the record's length field will carry
	// after serialization.
	DeclaredLength() (int, error)
}

// pad2 zero-pads an IDC to the two-digit serialized form.
func pad2(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}

	return strconv.Itoa(n)
}
