package service

import (
	"regexp"
	"strings"
)

var (
	expiryPattern = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvcPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// NormalizeCardNumber strips spaces and dashes.
func NormalizeCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// Luhn reports whether digits passes the mod-10 checksum. Non-digit
// input is never valid.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateCard checks the shape of card details. Nothing is charged.
func ValidateCard(number, expiry, cvc string) error {
	n := NormalizeCardNumber(number)
	if len(n) < 12 || len(n) > 19 || !Luhn(n) {
		return paymentf("invalid card number")
	}
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil || m[1] < "01" || m[1] > "12" {
		return paymentf("invalid expiry, expected MM/YY")
	}
	if !cvcPattern.MatchString(strings.TrimSpace(cvc)) {
		return paymentf("invalid CVC")
	}
	return nil
}
