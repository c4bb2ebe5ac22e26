package numtheory

import (
	"errors"
	"math"
)

var (
	// ErrSyntax is returned by ParseInt when the input is not a decimal integer.
	ErrSyntax = errors.New("numtheory: invalid decimal syntax")
	// ErrRange is returned by ParseInt when the value does not fit in an int64.
	ErrRange = errors.New("numtheory: value out of int64 range")
)

// DigitCount returns the number of decimal digits of |v|. Zero has one digit.
func DigitCount(v int64) int {
	if v == 0 {
		return 1
	}
	count := 0
	for v != 0 {
		count++
		v /= 10
	}
	return count
}

// FormatInt renders v in decimal with a leading '-' when negative.
func FormatInt(v int64) string {
	length := DigitCount(v)
	negative := v < 0
	if negative {
		length++
	}

	buf := make([]byte, length)
	if v == 0 {
		buf[0] = '0'
		return string(buf)
	}

	// Work on the negative side so math.MinInt64 does not overflow.
	if !negative {
		v = -v
	}
	for i := length - 1; v != 0; i-- {
		buf[i] = byte('0' - v%10)
		v /= 10
	}
	if negative {
		buf[0] = '-'
	}
	return string(buf)
}

// ParseInt reads an optionally negative decimal integer. The whole string
// must be digits after the sign.
func ParseInt(s string) (int64, error) {
	if s == "" {
		return 0, ErrSyntax
	}

	negative := false
	i := 0
	if s[0] == '-' {
		negative = true
		i = 1
	}
	if i == len(s) {
		return 0, ErrSyntax
	}

	// Accumulate negatively for the same reason as FormatInt.
	var result int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, ErrSyntax
		}
		digit := int64(c - '0')
		if result < (math.MinInt64+digit)/10 {
			return 0, ErrRange
		}
		result = result*10 - digit
	}

	if !negative {
		if result == math.MinInt64 {
			return 0, ErrRange
		}
		return -result, nil
	}
	return result, nil
}
