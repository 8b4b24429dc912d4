package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veduco/EFTSuite-Public/errs"
)

// nameLimit is the transmission ceiling on 2.018.
const nameLimit = 30

// CanonicalName normalizes a raw name into "Surname, First Middle" form.
// A missing middle name becomes "NMN". Names over 30 characters reduce the
// middle name to its initial; if still too long the result is truncated.
func CanonicalName(raw string) string {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return truncate(parts[0], nameLimit)
	}

	surname := parts[0]
	first := parts[1]
	middle := "NMN"
	if len(parts) > 2 {
		middle = strings.Join(parts[2:], " ")
	}

	full := fmt.Sprintf("%s, %s %s", surname, first, middle)
	if len(full) <= nameLimit {
		return full
	}

	if middle != "NMN" && middle != "" {
		short := fmt.Sprintf("%s, %s %s", surname, first, middle[:1])
		if len(short) <= nameLimit {
			return short
		}
	}

	return truncate(full, nameLimit)
}

// Initials derives the TCN initials from a canonical name: surname initial,
// first initial, and the middle initial when the middle name is present and
// not "NMN". The result is two or three characters; a name without a middle
// initial yields two and is not padded. Unparseable names yield "XXX".
func Initials(canonical string) string {
	comma := strings.IndexByte(canonical, ',')
	if comma < 0 {
		return "XXX"
	}

	surname := strings.TrimSpace(canonical[:comma])
	given := strings.Fields(strings.TrimSpace(canonical[comma+1:]))

	var b strings.Builder
	if surname != "" {
		b.WriteByte(surname[0])
	}
	if len(given) > 0 {
		b.WriteByte(given[0][0])
		if len(given) > 1 && given[1] != "NMN" {
			b.WriteByte(given[1][0])
		}
	}

	initials := ""
	for _, r := range strings.ToUpper(b.String()) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			initials += string(r)
		}
	}
	if initials == "" {
		return "XXX"
	}
	if len(initials) > 5 {
		initials = initials[:5]
	}

	return initials
}

// NormalizeDOB strips dashes and requires YYYYMMDD or empty.
func NormalizeDOB(raw string) (string, error) {
	dob := strings.ReplaceAll(raw, "-", "")
	if dob == "" {
		return "", nil
	}
	if len(dob) != 8 || !allDigits(dob) {
		return "", fmt.Errorf("%w: date of birth %q is not YYYYMMDD", errs.ErrInvalidInput, raw)
	}

	return dob, nil
}

// NormalizeSSN keeps only digits and requires exactly nine of them. Anything
// else yields empty, which is only permitted under the bypass flag; the
// encoder enforces that.
func NormalizeSSN(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 9 {
		return ""
	}

	return digits.String()
}

// HeightField validates the 3-digit feet/inches encoding (400-711);
// out-of-range or unparseable values collapse to "000".
func HeightField(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 400 || n > 711 {
		return "000"
	}

	return strconv.Itoa(n)
}

// WeightField validates the pounds value (0-499); out-of-range or
// unparseable values collapse to "000".
func WeightField(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n > 499 {
		return "000"
	}

	return fmt.Sprintf("%03d", n)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
