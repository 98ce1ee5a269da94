// Package security provides validation, sanitization, and limits for the jobs package.
package security

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
)

// Security limits and configuration
const (
	// MaxQueueIDLength is the maximum length for queue identifiers
	MaxQueueIDLength = 255

	// MaxJobNameLength is the maximum length for job display names
	MaxJobNameLength = 255

	// MaxRetries is the hard limit for retry attempts
	MaxRetries = 100

	// MaxErrorMessageLength is the maximum length for stored error messages
	MaxErrorMessageLength = 4096

	// MaxDelay is the longest spacing a queue accepts between jobs
	MaxDelay = 24 * time.Hour
)

// validQueueID matches alphanumeric, hyphens, underscores, and dots
var validQueueID = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-\.]*$`)

// ValidateQueueID validates a queue identifier
func ValidateQueueID(id string) error {
	if id == "" {
		return core.ErrInvalidQueueID
	}
	if len(id) > MaxQueueIDLength {
		return core.ErrQueueIDTooLong
	}
	if !validQueueID.MatchString(id) {
		return core.ErrInvalidQueueID
	}
	return nil
}

// ValidateJobName validates a job display name. Empty names are allowed
// and are reported as core.UnnamedJob.
func ValidateJobName(name string) error {
	if utf8.RuneCountInString(name) > MaxJobNameLength {
		return core.ErrJobNameTooLong
	}
	return nil
}

// SanitizeJobName strips control characters from a job name.
func SanitizeJobName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	// Remove any null bytes or control characters (except newlines)
	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}

// ClampRetries ensures retry count is within limits
func ClampRetries(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRetries {
		return MaxRetries
	}
	return n
}

// ClampDelay ensures a spacing delay is within [0, MaxDelay]
func ClampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}
