package cardgen

import (
	"errors"
	"fmt"
)

const PINLength = 4

var (
	ErrInvalidPAN   = errors.New("invalid card number")
	ErrPANMismatch  = errors.New("card number does not match the card")
	ErrPINMismatch  = errors.New("PIN codes do not match")
	ErrPINLength    = fmt.Errorf("PIN must be %d digits", PINLength)
	ErrPINNotDigits = errors.New("PIN must contain digits only")
)

// ValidateActivationPAN normalizes a PAN typed by the cardholder when
// activating a physical card and validates it.
func ValidateActivationPAN(pan string) (string, error) {
	p := NormalizePAN(pan)
	if err := ValidatePAN(p); err != nil {
		return "", err
	}
	return p, nil
}

// MatchesMasked reports whether pan ends in the last four digits shown in
// masked.
func MatchesMasked(pan, masked string) bool {
	last := tail(NormalizePAN(masked), 4)
	return len(last) == 4 && IsDigits(last) && tail(NormalizePAN(pan), 4) == last
}

// ValidatePIN checks a new PIN and its confirmation. Mismatch is reported
// before the format of the PIN itself.
func ValidatePIN(pin, confirm string) error {
	if pin != confirm {
		return ErrPINMismatch
	}
	if len(pin) != PINLength {
		return ErrPINLength
	}
	if !IsDigits(pin) {
		return ErrPINNotDigits
	}
	return nil
}
