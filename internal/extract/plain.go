package extract

import (
	"regexp"
	"strings"
)

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// plainSegments splits text into paragraphs on blank lines.
func plainSegments(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var segments []string
	for _, part := range blankLine.Split(s, -1) {
		if t := collapseSpace(part); t != "" {
			segments = append(segments, t)
		}
	}
	return segments
}
