package validation

import (
	"regexp"
	"strings"
	"time"
)

// Indian KYC/KYB document formats.
var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarPattern = regexp.MustCompile(`^[2-9][0-9]{11}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	cinPattern     = regexp.MustCompile(`^[LU][0-9]{5}[A-Z]{2}[0-9]{4}[A-Z]{3}[0-9]{6}$`)
	pinPattern     = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	accountPattern = regexp.MustCompile(`^[0-9]{9,18}$`)
	upiPattern     = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,256}@[a-zA-Z]{2,64}$`)
)

// NormalizeDocument upper-cases and strips spaces and dashes, the way the
// numbers are usually typed.
func NormalizeDocument(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

func ValidatePAN(pan string) bool {
	return panPattern.MatchString(NormalizeDocument(pan))
}

func ValidateAadhaar(number string) bool {
	return aadhaarPattern.MatchString(NormalizeDocument(number))
}

func ValidateIFSC(code string) bool {
	return ifscPattern.MatchString(NormalizeDocument(code))
}

func ValidateGSTIN(gstin string) bool {
	return gstinPattern.MatchString(NormalizeDocument(gstin))
}

func ValidateCIN(cin string) bool {
	return cinPattern.MatchString(NormalizeDocument(cin))
}

func ValidatePINCode(pin string) bool {
	return pinPattern.MatchString(strings.TrimSpace(pin))
}

func ValidateAccountNumber(number string) bool {
	return accountPattern.MatchString(NormalizeDocument(number))
}

// ValidateUPIID validates a virtual payment address such as name@bank.
func ValidateUPIID(id string) bool {
	return upiPattern.MatchString(strings.TrimSpace(id))
}

// ValidateDate validates a YYYY-MM-DD date as produced by a date input.
func ValidateDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
