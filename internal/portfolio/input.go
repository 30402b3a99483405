package portfolio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeSymbol trims and uppercases a ticker symbol.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrInvalidSymbol)
	}
	if strings.ContainsAny(s, " \t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return s, nil
}

// ParseNumber parses a user supplied non-negative number.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, s)
	}
	if err := checkAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ParseOptionalNumber is ParseNumber where blank input means "not given".
func ParseOptionalNumber(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ParseNumber(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func checkAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidNumericInput, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: negative value %v", ErrInvalidNumericInput, v)
	}
	return nil
}
