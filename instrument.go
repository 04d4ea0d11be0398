package heatmap

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Instrument is the static reference data of an index constituent.
type Instrument struct {
	Ticker   string
	Company  string
	ISIN     string
	Sector   string
	Industry string
	Shares   float64 // shares outstanding, NaN when unknown
}

// HasShares reports whether the number of shares is known.
func (i Instrument) HasShares() bool {
	return !math.IsNaN(i.Shares) && !math.IsInf(i.Shares, 0) && i.Shares >= 0
}

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateISIN checks if a string is a validly formatted ISIN.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}

	// Letters are converted to numbers (A=10 ... Z=35) before the Luhn algorithm.
	var digits strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			digits.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			digits.WriteRune(char)
		}
	}

	sum := 0
	isSecond := true
	s := digits.String()
	for i := len(s) - 1; i >= 0; i-- {
		digit := int(s[i] - '0')
		if isSecond {
			digit *= 2
		}
		sum += digit/10 + digit%10
		isSecond = !isSecond
	}

	expected := (10 - sum%10) % 10
	if actual := int(isin[11] - '0'); expected != actual {
		return fmt.Errorf("invalid check digit: expected %d, got %d", expected, actual)
	}
	return nil
}
