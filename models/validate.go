package models

import "unicode"

// NormalizePhone reduces raw user input to the canonical +7XXXXXXXXXX form.
// Accepted shapes: 11 digits starting with 7 or 8, or a bare 10-digit
// mobile number starting with 9. Everything else is rejected.
func NormalizePhone(raw string) (string, bool) {
	var digits []rune
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	switch {
	case len(digits) == 11 && (digits[0] == '7' || digits[0] == '8'):
		return "+7" + string(digits[1:]), true
	case len(digits) == 10 && digits[0] == '9':
		return "+7" + string(digits), true
	}
	return "", false
}

// ValidTaxID reports whether s is a well-formed tax number:
// exactly 10 or 12 digits.
func ValidTaxID(s string) bool {
	if len(s) != 10 && len(s) != 12 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidRating reports whether r is a legal review rating.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
