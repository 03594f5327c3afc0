// Package bookmarks reads a browser bookmark tree and flattens it into the
// (url, title) entries the indexer and searcher work on.
package bookmarks

import "context"

// Node is one node of a bookmark tree: a folder with children, a leaf with a
// URL, or (rarely) both.
type Node struct {
	Title    string
	URL      string
	Children []Node
}

// Entry is a flattened bookmark.
type Entry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Source returns the current bookmark forest.
// Implementations re-read their backing store on every call.
type Source interface {
	Tree(ctx context.Context) ([]Node, error)
}
