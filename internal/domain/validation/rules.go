// Package validation holds the pure field rules applied before any state is mutated.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"greenhood/internal/domain/entity"
)

// Field limits.
const (
	MinNameLength     = 2
	MaxNameLength     = 30
	MinAge            = 8
	MaxAge            = 100
	NationalIDLength  = 11
	MaxEmailLength    = 100
	MinPhoneDigits    = 8
	MaxPhoneDigits    = 15
	MaxOrgNameLength  = 100
	MinTaxIDLength    = 10
	MaxTaxIDLength    = 11
	MinPasswordLength = 8
	MaxPasswordLength = 50

	// DateLayout is the only accepted birth date format.
	DateLayout = "2006-01-02"
)

var (
	namePattern   = regexp.MustCompile(`^[a-zA-ZçÇğĞıİöÖşŞüÜ]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	phonePattern  = regexp.MustCompile(`^\+[0-9]+$`)
	faxPattern    = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	phoneStrip    = regexp.MustCompile(`[^0-9+]`)
)

// IsValidName accepts 2 to 30 Latin or Turkish letters.
func IsValidName(name string) bool {
	if !namePattern.MatchString(name) {
		return false
	}
	n := utf8.RuneCountInString(name)

	return n >= MinNameLength && n <= MaxNameLength
}

// ParseBirthDate parses a YYYY-MM-DD date.
func ParseBirthDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// IsValidBirthDate accepts a parseable date that is not after now and gives an age within [8,100].
func IsValidBirthDate(s string, now time.Time) bool {
	birth, ok := ParseBirthDate(s)
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(today) {
		return false
	}
	age := entity.AgeOn(birth, today)

	return age >= MinAge && age <= MaxAge
}

// IsValidNationalID accepts exactly eleven digits.
func IsValidNationalID(id string) bool {
	return len(id) == NationalIDLength && digitsPattern.MatchString(id)
}

// IsValidEmail accepts an empty value or one containing "@" within the length limit.
func IsValidEmail(email string) bool {
	if email == "" {
		return true
	}

	return strings.Contains(email, "@") && utf8.RuneCountInString(email) <= MaxEmailLength
}

// NormalizePhone keeps only digits and plus signs.
func NormalizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(phone, "")
}

// IsValidPhone accepts an empty value or a number with a leading country code and 8 to 15 digits.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	clean := NormalizePhone(phone)
	if !phonePattern.MatchString(clean) {
		return false
	}
	digits := len(clean) - 1

	return digits >= MinPhoneDigits && digits <= MaxPhoneDigits
}

// IsValidOrgName accepts a non-blank name of at most 100 characters.
func IsValidOrgName(name string) bool {
	return strings.TrimSpace(name) != "" && utf8.RuneCountInString(name) <= MaxOrgNameLength
}

// IsValidFax accepts an empty value or ddd-ddd-dddd.
func IsValidFax(fax string) bool {
	return fax == "" || faxPattern.MatchString(fax)
}

// IsValidTaxID accepts 10 or 11 digits.
func IsValidTaxID(id string) bool {
	return len(id) >= MinTaxIDLength && len(id) <= MaxTaxIDLength && digitsPattern.MatchString(id)
}

// IsStrongPassword requires 8 to 50 characters with an upper case letter, a lower case letter and a digit.
func IsStrongPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return false
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return upper && lower && digit
}
