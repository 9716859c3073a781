// Package decimal converts between ints and the decimal ASCII text carried by
// kernel attribute files.
//
// Parsing is strict: the whole string must be a base-10 integer. Callers are
// expected to strip a single trailing newline before calling Parse.
package decimal

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// MaxDigitsPerInt fits a 32-bit int with sign.
	MaxDigitsPerInt = 11
	// MaxDigitsPerLong fits a 64-bit int with sign.
	MaxDigitsPerLong = 21
)

var (
	ErrInvalidFormat  = errors.New("invalid decimal format")
	ErrOutOfRange     = errors.New("value out of range")
	ErrBufferTooSmall = errors.New("buffer too small")
)

// Parse converts s into an int. Empty input and trailing garbage fail with
// ErrInvalidFormat; magnitudes beyond the native int fail with ErrOutOfRange.
func Parse(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidFormat)
	}
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("parse %q: %w", s, ErrOutOfRange)
		}
		return 0, fmt.Errorf("parse %q: %w", s, ErrInvalidFormat)
	}
	return int(n), nil
}

// Format renders v into buf followed by a NUL terminator and returns the
// number of text bytes written (terminator excluded).
func Format(v int, buf []byte) (int, error) {
	var tmp [MaxDigitsPerLong]byte
	text := strconv.AppendInt(tmp[:0], int64(v), 10)
	if len(text)+1 > len(buf) {
		return 0, fmt.Errorf("format %d into %d bytes: %w", v, len(buf), ErrBufferTooSmall)
	}
	n := copy(buf, text)
	buf[n] = 0
	return n, nil
}
