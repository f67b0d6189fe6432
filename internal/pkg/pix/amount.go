package pix

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoAmountField = errors.New("payload has no amount field")
)

// The amount field always follows the BRL currency field, so anchoring on it
// keeps a "54" inside the merchant key or name from matching.
var amountField = regexp.MustCompile(`530398654(\d{2})`)

// ParseAmount converts a display amount ("45,00" or "45.00") to a float.
func ParseAmount(display string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(display), ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || value <= 0 {
		return 0, ErrInvalidAmount
	}
	return value, nil
}

// ExtractAmount pulls the transaction amount out of a BR Code payload. The
// field is length-prefixed, so exactly that many characters are read.
func ExtractAmount(payload string) (float64, error) {
	m := amountField.FindStringSubmatchIndex(payload)
	if m == nil {
		return 0, ErrNoAmountField
	}
	n, err := strconv.Atoi(payload[m[2]:m[3]])
	if err != nil || n <= 0 || m[3]+n > len(payload) {
		return 0, ErrNoAmountField
	}
	return ParseAmount(payload[m[3] : m[3]+n])
}
