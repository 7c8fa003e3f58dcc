package utils

import (
	"strings"
	"unicode"
)

// ExtractFirstName extracts the first name from a full name
func ExtractFirstName(fullName string) string {
	parts := strings.FieldsFunc(fullName, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// MaskName keeps the first name and reduces every other part to its
// initial, e.g. "Maria da Silva" -> "Maria d* S****"
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}

	for i := 1; i < len(parts); i++ {
		runes := []rune(parts[i])
		parts[i] = string(runes[:1]) + strings.Repeat("*", len(runes)-1)
	}
	return strings.Join(parts, " ")
}
