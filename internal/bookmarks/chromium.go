package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ChromiumSource reads the "Bookmarks" JSON file of a Chromium-family browser
// profile (Chrome, Chromium, Edge, Brave).
type ChromiumSource struct {
	path string
}

// NewChromiumSource creates a source backed by the Bookmarks file at path.
func NewChromiumSource(path string) *ChromiumSource {
	return &ChromiumSource{path: path}
}

type chromiumFile struct {
	Roots map[string]json.RawMessage `json:"roots"`
}

type chromiumNode struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	URL      string         `json:"url"`
	Children []chromiumNode `json:"children"`
}

// Roots in the order the browser shows them.
var chromiumRootOrder = []string{"bookmark_bar", "other", "synced"}

// Tree parses the Bookmarks file and returns its root folders.
func (s *ChromiumSource) Tree(_ context.Context) ([]Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file %s: %w", s.path, err)
	}

	var file chromiumFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks file %s: %w", s.path, err)
	}

	nodes := make([]Node, 0, len(chromiumRootOrder))
	for _, name := range chromiumRootOrder {
		raw, ok := file.Roots[name]
		if !ok {
			continue
		}
		var root chromiumNode
		if err := json.Unmarshal(raw, &root); err != nil {
			return nil, fmt.Errorf("failed to decode bookmarks root %q: %w", name, err)
		}
		nodes = append(nodes, root.toNode())
	}
	return nodes, nil
}

func (n chromiumNode) toNode() Node {
	node := Node{Title: n.Name}
	if n.Type == "url" {
		node.URL = n.URL
	}
	if len(n.Children) > 0 {
		node.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			node.Children[i] = child.toNode()
		}
	}
	return node
}
