package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose text is never page content.
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Head:     true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Template: true,
	atom.Iframe:   true,
}

// Elements that start and end a text segment.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Article:    true,
	atom.Section:    true,
	atom.Main:       true,
	atom.Dd:         true,
	atom.Dt:         true,
	atom.Figcaption: true,
}

// htmlSegments parses a document and returns the whitespace-collapsed text
// of each block, in document order.
func htmlSegments(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var segments []string
	var current strings.Builder
	flush := func() {
		if text := collapseSpace(current.String()); text != "" {
			segments = append(segments, text)
		}
		current.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipElements[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br {
				current.WriteByte(' ')
				return
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.DataAtom]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(doc)
	flush()

	return segments, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
