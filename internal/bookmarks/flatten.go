package bookmarks

// Flatten walks nodes depth-first and returns one Entry per node with a URL.
// Sibling order is preserved and a node's children are emitted before the
// node itself. Nodes with neither children nor a URL contribute nothing.
// Duplicate URLs are kept.
func Flatten(nodes []Node) []Entry {
	var entries []Entry
	for _, node := range nodes {
		if len(node.Children) > 0 {
			entries = append(entries, Flatten(node.Children)...)
		}
		if node.URL != "" {
			entries = append(entries, Entry{URL: node.URL, Title: node.Title})
		}
	}
	return entries
}

// TitlesByURL builds a lookup from URL to title. When a URL appears more than
// once, the last entry wins.
func TitlesByURL(entries []Entry) map[string]string {
	titles := make(map[string]string, len(entries))
	for _, e := range entries {
		titles[e.URL] = e.Title
	}
	return titles
}
