package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// NormalizePhone strips the separators people type into phone numbers.
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

// ValidatePhone accepts international numbers of 7 to 15 digits with an
// optional leading +.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}
