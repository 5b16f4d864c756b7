package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParsePriceToCents converts a decimal price string with at most two
// fractional digits into integer cents. A comma decimal separator is
// accepted ("10,50" == "10.50"). Anything else is a validation error.
func ParsePriceToCents(raw string) (int64, error) {
	normalized := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if normalized == "" || !priceRe.MatchString(normalized) {
		return 0, fmt.Errorf("%w: invalid price %q", ErrValidation, raw)
	}

	intPart, decPart, _ := strings.Cut(normalized, ".")

	cents, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid price %q", ErrValidation, raw)
	}
	cents *= 100

	if decPart != "" {
		for len(decPart) < 2 {
			decPart += "0"
		}
		dec, err := strconv.ParseInt(decPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid price %q", ErrValidation, raw)
		}
		cents += dec
	}

	return cents, nil
}
