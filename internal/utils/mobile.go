package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizeMobile trims surrounding whitespace. The number is otherwise kept
// in the format the client sent it, so "+1 555" and "1555" are distinct keys.
func NormalizeMobile(mobile string) string {
	return strings.TrimSpace(mobile)
}

// MaskPhoneNumber masks a phone number, keeping only the last 4 digits visible
func MaskPhoneNumber(phone string) string {
	cleanPhone := nonDigits.ReplaceAllString(phone, "")
	if len(cleanPhone) <= 4 {
		return cleanPhone
	}

	return strings.Repeat("*", len(cleanPhone)-4) + cleanPhone[len(cleanPhone)-4:]
}
