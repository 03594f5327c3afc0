package bookmarks

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NetscapeSource reads a Netscape bookmark file, the HTML format every major
// browser uses for bookmark export.
type NetscapeSource struct {
	path string
}

// NewNetscapeSource creates a source backed by the export file at path.
func NewNetscapeSource(path string) *NetscapeSource {
	return &NetscapeSource{path: path}
}

// Tree parses the export file. Each <DL> opens a folder named by the <H3>
// preceding it; each <A HREF> is a leaf of the innermost open folder.
func (s *NetscapeSource) Tree(_ context.Context) ([]Node, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmarks export %s: %w", s.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	root, err := parseNetscape(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks export %s: %w", s.path, err)
	}
	return root.Children, nil
}

func parseNetscape(r io.Reader) (*Node, error) {
	root := &Node{}
	stack := []*Node{root}
	var pendingFolder *Node
	var text strings.Builder
	var inAnchor, inHeading bool
	var href string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return root, nil

		case html.TextToken:
			if inAnchor || inHeading {
				text.Write(z.Text())
			}

		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Dl:
				parent := stack[len(stack)-1]
				folder := Node{}
				if pendingFolder != nil {
					folder = *pendingFolder
					pendingFolder = nil
				}
				parent.Children = append(parent.Children, folder)
				stack = append(stack, &parent.Children[len(parent.Children)-1])
			case atom.H3:
				inHeading = true
				text.Reset()
			case atom.A:
				inAnchor = true
				text.Reset()
				href = attr(tok, "href")
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Dl:
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			case atom.H3:
				inHeading = false
				pendingFolder = &Node{Title: strings.TrimSpace(text.String())}
			case atom.A:
				inAnchor = false
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, Node{
					Title: strings.TrimSpace(text.String()),
					URL:   href,
				})
			}
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}
