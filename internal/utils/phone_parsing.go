package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneComponents represents the parsed components of a phone number
type PhoneComponents struct {
	DDI   string `json:"ddi"`
	DDD   string `json:"ddd"`
	Valor string `json:"valor"`
	Full  string `json:"full"`
}

// ParsePhoneNumber parses a phone number string and returns its components.
// Masked national input such as "(11) 98765-4321" is read as Brazilian.
func ParsePhoneNumber(phoneString string) (*PhoneComponents, error) {
	clean := strings.TrimSpace(phoneString)
	digits := OnlyDigits(clean)

	var num *phonenumbers.PhoneNumber
	var err error
	switch {
	case strings.HasPrefix(clean, "+"):
		num, err = phonenumbers.Parse("+"+digits, "")
	case len(digits) == 10 || len(digits) == 11:
		// DDD + subscriber number, no country code
		num, err = phonenumbers.Parse(digits, "BR")
	default:
		num, err = phonenumbers.Parse("+"+digits, "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	countryCode := num.GetCountryCode()
	nationalNumber := phonenumbers.GetNationalSignificantNumber(num)

	components := &PhoneComponents{
		DDI:  fmt.Sprintf("%d", countryCode),
		Full: phonenumbers.Format(num, phonenumbers.E164),
	}

	if countryCode == 55 && len(nationalNumber) >= 2 {
		components.DDD = nationalNumber[:2]
		components.Valor = nationalNumber[2:]
	} else {
		components.Valor = nationalNumber
	}

	return components, nil
}

// WhatsAppNumber returns the international digits (no "+") expected by
// click-to-chat links
func WhatsAppNumber(phoneString string) (string, error) {
	components, err := ParsePhoneNumber(phoneString)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(components.Full, "+"), nil
}
