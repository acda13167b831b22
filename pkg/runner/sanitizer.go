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

// DefaultMaxInputSize is the line size limit when EnvMaxInputSize is unset (4KB).
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "ARBOR_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans one captured line using the size limit from the environment.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, MaxInputSize())
}

// SanitizeInputLimit rejects lines longer than limit bytes or not valid UTF-8,
// and strips control characters other than tab, newline and carriage return.
// Stripping escape sequences keeps captured input from corrupting the
// terminal or the logs it is echoed to.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit > 0 && len(input) > limit {
		// Reject rather than truncate so the recorded value is never a partial answer.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// MaxInputSize returns the configured line size limit.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
