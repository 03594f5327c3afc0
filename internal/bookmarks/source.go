package bookmarks

import (
	"path/filepath"
	"strings"
)

// OpenSource picks a Source for path by its extension: .html and .htm are
// treated as Netscape exports, anything else as a Chromium Bookmarks file.
func OpenSource(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewNetscapeSource(path)
	default:
		return NewChromiumSource(path)
	}
}
