package bookmarks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromiumFixture = `{
  "checksum": "abc",
  "roots": {
    "bookmark_bar": {
      "type": "folder",
      "name": "Bookmarks bar",
      "children": [
        {"type": "url", "name": "Go", "url": "https://go.dev/"},
        {"type": "folder", "name": "Reading", "children": [
          {"type": "url", "name": "Effective Go", "url": "https://go.dev/doc/effective_go"}
        ]}
      ]
    },
    "other": {
      "type": "folder",
      "name": "Other bookmarks",
      "children": [
        {"type": "url", "name": "Qdrant", "url": "https://qdrant.tech/"}
      ]
    },
    "synced": {"type": "folder", "name": "Mobile bookmarks", "children": []}
  },
  "version": 1
}`

const netscapeFixture = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ADD_DATE="1700000001">Go</A>
        <DT><H3>Reading</H3>
        <DL><p>
            <DT><A HREF="https://go.dev/doc/effective_go">Effective Go</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://qdrant.tech/">Qdrant &amp; friends</A>
</DL><p>
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestChromiumSource_Tree(t *testing.T) {
	path := writeFixture(t, "Bookmarks", chromiumFixture)

	tree, err := NewChromiumSource(path).Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 3)
	assert.Equal(t, "Bookmarks bar", tree[0].Title)
	assert.Equal(t, "Other bookmarks", tree[1].Title)

	entries := Flatten(tree)
	assert.Equal(t, []Entry{
		{URL: "https://go.dev/", Title: "Go"},
		{URL: "https://go.dev/doc/effective_go", Title: "Effective Go"},
		{URL: "https://qdrant.tech/", Title: "Qdrant"},
	}, entries)
}

func TestChromiumSource_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewChromiumSource(filepath.Join(t.TempDir(), "nope")).Tree(context.Background())
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFixture(t, "Bookmarks", "{not json")
		_, err := NewChromiumSource(path).Tree(context.Background())
		assert.Error(t, err)
	})
}

func TestNetscapeSource_Tree(t *testing.T) {
	path := writeFixture(t, "bookmarks.html", netscapeFixture)

	tree, err := NewNetscapeSource(path).Tree(context.Background())
	require.NoError(t, err)

	entries := Flatten(tree)
	assert.Equal(t, []Entry{
		{URL: "https://go.dev/", Title: "Go"},
		{URL: "https://go.dev/doc/effective_go", Title: "Effective Go"},
		{URL: "https://qdrant.tech/", Title: "Qdrant & friends"},
	}, entries)
}

func TestNetscapeSource_FolderNames(t *testing.T) {
	path := writeFixture(t, "bookmarks.html", netscapeFixture)

	tree, err := NewNetscapeSource(path).Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)

	top := tree[0]
	require.NotEmpty(t, top.Children)
	assert.Equal(t, "Bookmarks bar", top.Children[0].Title)
	require.Len(t, top.Children[0].Children, 2)
	assert.Equal(t, "Reading", top.Children[0].Children[1].Title)
}

func TestOpenSource(t *testing.T) {
	assert.IsType(t, &NetscapeSource{}, OpenSource("/tmp/export.HTML"))
	assert.IsType(t, &NetscapeSource{}, OpenSource("/tmp/export.htm"))
	assert.IsType(t, &ChromiumSource{}, OpenSource("/home/me/.config/google-chrome/Default/Bookmarks"))
}
