package extract

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// selectChunks keeps segments of at least minRunes, drops duplicates, and
// returns the maxChunks longest, each truncated to maxRunes. Equal lengths
// keep document order.
func selectChunks(segments []string, minRunes, maxChunks, maxRunes int) []string {
	seen := make(map[string]struct{}, len(segments))
	var kept []string
	for _, s := range segments {
		if utf8.RuneCountInString(s) < minRunes {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		kept = append(kept, s)
	}

	slices.SortStableFunc(kept, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})

	if len(kept) > maxChunks {
		kept = kept[:maxChunks]
	}
	for i, s := range kept {
		kept[i] = truncateRunes(s, maxRunes)
	}
	return kept
}

// truncateRunes shortens s to at most limit runes, backing up to the last
// space when one falls in the second half.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	cut := string([]rune(s)[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
