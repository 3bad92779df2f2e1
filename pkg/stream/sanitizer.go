package stream

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/aura/pkg/domain"
)

var (
	// DefaultMaxInputSize bounds a request in bytes.
	DefaultMaxInputSize = 16 * 1024
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "AURA_MAX_INPUT_SIZE"
)

// Validate normalizes the request text into the query a run starts with.
// The query is checked in order: size, UTF-8, control characters, emptiness.
// It runs before any completion call is made.
func Validate(req domain.AgentRequest) (string, error) {
	raw := req.Request
	if limit := inputLimit(); len(raw) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(raw), limit)
	}
	if !utf8.ValidString(raw) {
		return "", domain.ErrInvalidUTF8
	}

	query := strings.TrimSpace(strings.Map(dropControl, raw))
	if query == "" {
		return "", domain.ErrEmptyRequest
	}
	return query, nil
}

// dropControl keeps printable text and layout whitespace; strings.Map drops runes mapped to -1.
func dropControl(r rune) rune {
	switch {
	case r == '\n', r == '\t', r == '\r':
		return r
	case unicode.IsControl(r):
		return -1
	default:
		return r
	}
}

func inputLimit() int {
	n, err := strconv.Atoi(os.Getenv(EnvMaxInputSize))
	if err != nil || n <= 0 {
		return DefaultMaxInputSize
	}
	return n
}
