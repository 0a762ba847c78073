package carbon

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses a decimal, non-negative amount in parts per million.
// Anything else, including signs, fractions and values beyond int64, fails
// with ErrInvalidAmount.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

func validateAmount(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidAmount, amount)
	}
	return nil
}
