package providers

import (
	"regexp"
	"strings"
)

var (
	rxNumbered      = regexp.MustCompile(`^\d+\.`)
	rxNumberedStrip = regexp.MustCompile(`^\d+\.\s*`)
)

// ParseNumberedList extracts the items of a numbered list ("1. text") from raw
// completion text, in order. Lines without a leading "<digits>." marker are
// dropped, so prose around the list is ignored. An item whose text is empty
// after the marker is kept as "".
func ParseNumberedList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if !rxNumbered.MatchString(line) {
			continue
		}
		out = append(out, strings.TrimSpace(rxNumberedStrip.ReplaceAllString(line, "")))
	}
	return out
}
