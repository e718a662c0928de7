package cardgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PANLength is the length of every PAN issued by CardEx.
const PANLength = 16

const digits = "0123456789"

// luhnDoubled maps a digit to its doubled Luhn value.
var luhnDoubled = [10]int{0, 2, 4, 6, 8, 1, 3, 5, 7, 9}

var panSeparators = strings.NewReplacer(" ", "", "-", "", "\t", "")

// GeneratePAN returns a random PAN under bin, closed by its Luhn check digit.
func GeneratePAN(bin string) (string, error) {
	if err := ValidateBIN(bin); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(PANLength)
	b.WriteString(bin)
	ten := big.NewInt(10)
	for b.Len() < PANLength-1 {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("reading random digit: %w", err)
		}
		b.WriteByte(digits[n.Int64()])
	}
	body := b.String()
	return body + string(checkDigit(body)), nil
}

// GenerateUniquePAN draws PANs until taken reports one as free, giving up
// after attempts draws.
func GenerateUniquePAN(bin string, attempts int, taken func(string) bool) (string, error) {
	if attempts <= 0 {
		attempts = 5
	}
	for i := 0; i < attempts; i++ {
		pan, err := GeneratePAN(bin)
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(pan) {
			return pan, nil
		}
	}
	return "", fmt.Errorf("no free PAN under bin %s after %d attempts", bin, attempts)
}

// ValidatePAN checks a normalized CardEx PAN: PANLength digits passing the
// Luhn check. Every failure wraps ErrInvalidPAN.
func ValidatePAN(pan string) error {
	switch {
	case !IsDigits(pan):
		return fmt.Errorf("%w: digits only", ErrInvalidPAN)
	case len(pan) != PANLength:
		return fmt.Errorf("%w: must be %d digits", ErrInvalidPAN, PANLength)
	case luhnSum(pan, false)%10 != 0:
		return fmt.Errorf("%w: check digit", ErrInvalidPAN)
	}
	return nil
}

func ValidateBIN(bin string) error {
	if !IsDigits(bin) {
		return fmt.Errorf("bin %q must contain digits only", bin)
	}
	if len(bin) != 6 && len(bin) != 8 {
		return fmt.Errorf("bin must be 6 or 8 digits, got %d", len(bin))
	}
	return nil
}

// checkDigit returns the digit that makes body plus that digit Luhn-valid.
func checkDigit(body string) byte {
	return digits[(10-luhnSum(body, true)%10)%10]
}

// luhnSum weights digits right to left. When the check digit is still missing
// the rightmost digit of s is the first one doubled.
func luhnSum(s string, missingCheck bool) int {
	sum := 0
	double := missingCheck
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d = luhnDoubled[d]
		}
		sum += d
		double = !double
	}
	return sum
}

// IsDigits reports whether s is non-empty and ASCII digits only.
func IsDigits(s string) bool {
	return s != "" && strings.Trim(s, digits) == ""
}

// MaskPAN keeps the last four digits, e.g. "**** **** **** 4242".
func MaskPAN(pan string) string {
	p := NormalizePAN(pan)
	if len(p) <= 4 {
		return strings.Repeat("*", len(p))
	}
	return "**** **** **** " + tail(p, 4)
}

// NormalizePAN strips spaces, tabs and dashes.
func NormalizePAN(s string) string {
	return panSeparators.Replace(strings.TrimSpace(s))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
