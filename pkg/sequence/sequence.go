// Package sequence expands batch settings into the ordered list of data
// values, one per label.
package sequence

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/labelsheet/pkg/label"
)

// Generate returns the data values described by s.
//
// In sequence mode it yields prefix+i for every integer i in [Start, End];
// when End < Start the result is empty. In custom mode the list is split on
// line breaks, each line is trimmed and NFC-normalized, and blank lines are
// dropped. An empty mode is treated as sequence mode.
func Generate(s label.BatchSettings) []string {
	if s.Mode == label.ModeCustom {
		return Lines(s.CustomList)
	}
	return Range(s.Prefix, s.Start, s.End)
}

// Range yields prefix+i for i in [start, end].
func Range(prefix string, start, end int) []string {
	if end < start {
		return []string{}
	}
	// Unsigned difference stays exact across the whole int range.
	span := uint(end) - uint(start)
	out := make([]string, 0, min(span, maxPrealloc)+1)
	for k := uint(0); ; k++ {
		out = append(out, prefix+strconv.Itoa(start+int(k)))
		if k == span {
			return out
		}
	}
}

const maxPrealloc = 1 << 16

// Lines splits a newline-separated list into trimmed, non-empty values.
// Both \n and \r\n line endings are accepted.
func Lines(list string) []string {
	out := []string{}
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, norm.NFC.String(line))
	}
	return out
}

// Join is the inverse of [Lines] for already-clean values.
func Join(values []string) string {
	return strings.Join(values, "\n")
}
