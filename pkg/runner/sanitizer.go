package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is the largest accepted user message, in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "QUOTEAGENT_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func SanitizeInput(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated so replays stay deterministic.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
