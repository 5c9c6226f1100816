package errors

import (
	"strings"
	"unicode"
)

// MaxLabels bounds the number of labels in a single job.
const MaxLabels = 100_000

const maxPrefixLen = 64

// ValidatePrefix checks a sequence prefix. Prefixes end up in file names
// and on labels, so control characters and path separators are rejected.
func ValidatePrefix(prefix string) error {
	if len(prefix) > maxPrefixLen {
		return New(ErrCodeInvalidInput, "prefix too long (max %d characters)", maxPrefixLen)
	}
	for _, r := range prefix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "prefix contains invalid control characters")
		}
	}
	if strings.ContainsAny(prefix, `/\`) {
		return New(ErrCodeInvalidInput, "prefix cannot contain path separators")
	}
	return nil
}

// ValidateRange checks a sequence range. An inverted range is valid and
// yields no labels; a range longer than MaxLabels is rejected.
func ValidateRange(start, end int) error {
	if end < start {
		return nil
	}
	if span := uint64(end) - uint64(start); span >= MaxLabels {
		return New(ErrCodeInvalidInput, "range %d..%d exceeds the limit of %d labels", start, end, MaxLabels)
	}
	return nil
}

// ValidateCount checks the number of generated values.
func ValidateCount(n int) error {
	if n > MaxLabels {
		return New(ErrCodeInvalidInput, "%d labels exceed the limit of %d", n, MaxLabels)
	}
	return nil
}

// SafeFilename replaces characters that are unsafe in a file name with
// underscores. An empty result becomes "labels".
func SafeFilename(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, ".")
	if s == "" {
		return "labels"
	}
	return s
}
