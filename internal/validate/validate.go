// Package validate holds the field predicates applied to registration
// and lookup input. All functions are pure and side-effect free.
package validate

import (
	"regexp"
	"strings"
)

const (
	minNameLength     = 3
	minAddressLength  = 10
	minPasswordLength = 7
	passwordSymbols   = `!@#$%^&*(),.?":{}|<>`
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^9\d{9}$`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// MobileNumber reports whether s is a ten-digit mobile number with a
// leading 9.
func MobileNumber(s string) bool {
	return mobilePattern.MatchString(s)
}

// Password reports whether s is at least seven characters long and
// contains at least one special character.
func Password(s string) bool {
	return len(s) >= minPasswordLength && strings.ContainsAny(s, passwordSymbols)
}

// Name reports whether s is an acceptable display name.
func Name(s string) bool {
	return len(s) >= minNameLength
}

// Address reports whether s is an acceptable postal address.
func Address(s string) bool {
	return len(s) >= minAddressLength
}
