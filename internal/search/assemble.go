// Package search answers queries against the index and turns raw hits into
// bookmark-aware results.
package search

import (
	"regexp"
	"slices"
	"strings"

	"librarian/internal/bookmarks"
	"librarian/internal/index"
)

// Document is one result as shown to the user.
type Document struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	FlavorHTML string `json:"flavor_html"`
}

// Result wraps a Document.
type Result struct {
	Document Document `json:"document"`
}

// AssembleResults orders hits by descending score, drops those below
// threshold, and expands every chunk of every hit into a Result. Titles come
// from entries, falling back to the link.
func AssembleResults(hits []index.Hit, entries []bookmarks.Entry, threshold float64) []Result {
	sorted := slices.Clone(hits)
	slices.SortStableFunc(sorted, func(a, b index.Hit) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	titles := bookmarks.TitlesByURL(entries)

	results := []Result{}
	for _, hit := range sorted {
		if hit.Score < threshold {
			continue
		}
		for _, meta := range hit.Metadata {
			title, ok := titles[meta.Link]
			if !ok {
				title = meta.Link
			}
			results = append(results, Result{Document: Document{
				URL:        meta.Link,
				Title:      title,
				FlavorHTML: FlavorText(meta.ChunkHTML),
			}})
		}
	}
	return results
}

var boldTag = regexp.MustCompile(`(?i)</?b>`)

// FlavorText joins the bold passages of chunkHTML with "; ". Text with no
// bold markup yields "".
func FlavorText(chunkHTML string) string {
	parts := boldTag.Split(chunkHTML, -1)

	var bold []string
	for i := 1; i < len(parts); i += 2 {
		if s := strings.TrimSpace(parts[i]); s != "" {
			bold = append(bold, s)
		}
	}
	return strings.Join(bold, "; ")
}
