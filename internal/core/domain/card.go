package domain

import (
	"regexp"
	"strconv"
	"strings"
)

type CardType string

const (
	Visa       CardType = "VISA"
	Mastercard CardType = "MASTERCARD"
	Unknown    CardType = "UNKNOWN"
)

// Visa: starts with 4, length 13 or 16.
// Mastercard: starts with 51-55, length 16.
var (
	visaRegex   = regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)
	masterRegex = regexp.MustCompile(`^5[1-5][0-9]{14}$`)
)

// ValidateCard checks that a card number is well-formed (Luhn) and one of
// the brands we accept. Amex, Discover etc. are rejected.
func ValidateCard(number string) (CardType, bool) {
	// Card numbers arrive with spaces or dashes, strip them first.
	clean := strings.ReplaceAll(number, " ", "")
	clean = strings.ReplaceAll(clean, "-", "")

	if clean == "" || !passesLuhn(clean) {
		return Unknown, false
	}

	switch {
	case visaRegex.MatchString(clean):
		return Visa, true
	case masterRegex.MatchString(clean):
		return Mastercard, true
	}
	return Unknown, false
}

// passesLuhn implements the standard Mod 10 check used by all banks.
func passesLuhn(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(string(number[i]))
		if err != nil {
			return false
		}
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}
