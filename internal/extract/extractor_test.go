package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!doctype html>
<html>
<head><title>Ignored</title><style>p { color: red }</style></head>
<body>
  <nav><p>Home About Contact Blog Archive Subscribe Search Login Register Help</p></nav>
  <div class="content">
    <h1>Short</h1>
    <p>The first paragraph is long enough to be considered a useful chunk of text.</p>
    <p>A second paragraph, which is even longer than the first one, and therefore should sort ahead of it.</p>
    <p>The first paragraph is long enough to be considered a useful chunk of text.</p>
    <p>tiny</p>
    <script>var s = "a script body that is definitely longer than fifty characters long";</script>
    <p>Third paragraph with <a href="/x">a link</a> and <em>emphasis</em> that is also long enough.</p>
    <p>Fourth paragraph exists but is shorter than the others yet still fifty.</p>
  </div>
  <footer><p>Copyright notice that is long enough to pass the filter but is boilerplate.</p></footer>
</body>
</html>`

func newServer(t *testing.T, contentType, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtract_HTML(t *testing.T) {
	server := newServer(t, "text/html; charset=utf-8", articlePage, http.StatusOK)

	chunks := New().Extract(context.Background(), server.URL, "Article")

	require.Len(t, chunks, 3)
	assert.Equal(t, "A second paragraph, which is even longer than the first one, and therefore should sort ahead of it.", chunks[0])
	assert.Equal(t, "The first paragraph is long enough to be considered a useful chunk of text.", chunks[1])
	assert.Equal(t, "Fourth paragraph exists but is shorter than the others yet still fifty.", chunks[2])
	for _, c := range chunks {
		assert.NotContains(t, c, "Third paragraph")
		assert.NotContains(t, c, "script body")
		assert.NotContains(t, c, "Copyright")
		assert.NotContains(t, c, "Home About")
	}
}

func TestExtract_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	New(WithUserAgent("test-agent/2")).Extract(context.Background(), server.URL, "t")
	assert.Equal(t, "test-agent/2", gotUA)
}

func TestExtract_FallsBackToTitle(t *testing.T) {
	tests := []struct {
		name   string
		server func(t *testing.T) string
	}{
		{
			name: "not found",
			server: func(t *testing.T) string {
				return newServer(t, "text/html", articlePage, http.StatusNotFound).URL
			},
		},
		{
			name: "no long paragraphs",
			server: func(t *testing.T) string {
				return newServer(t, "text/html", "<p>short</p><div>also short</div>", http.StatusOK).URL
			},
		},
		{
			name: "binary content",
			server: func(t *testing.T) string {
				return newServer(t, "image/png", strings.Repeat("x", 200), http.StatusOK).URL
			},
		},
		{
			name: "unreachable host",
			server: func(t *testing.T) string {
				s := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
				s.Close()
				return s.URL
			},
		},
		{
			name: "invalid url",
			server: func(t *testing.T) string {
				return "://bad"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := New().Extract(context.Background(), tt.server(t), "My Bookmark")
			assert.Equal(t, []string{"My Bookmark"}, chunks)
		})
	}
}

func TestExtract_EmptyTitleFallsBackToURL(t *testing.T) {
	server := newServer(t, "text/html", "", http.StatusInternalServerError)

	chunks := New().Extract(context.Background(), server.URL, "  ")
	assert.Equal(t, []string{server.URL}, chunks)
}

func TestExtract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	e := New(WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	assert.Equal(t, []string{"slow"}, e.Extract(context.Background(), server.URL, "slow"))
}

func TestExtract_Markdown(t *testing.T) {
	md := "# A heading that is not long enough\n\n" +
		"This paragraph of markdown is long enough to be kept as a chunk,\nand it wraps lines.\n\n" +
		"- a list item that is also long enough to be considered a chunk of text\n" +
		"- short\n"
	server := newServer(t, "text/markdown", md, http.StatusOK)

	chunks := New().Extract(context.Background(), server.URL, "Notes")

	require.Len(t, chunks, 2)
	assert.Equal(t, "This paragraph of markdown is long enough to be kept as a chunk, and it wraps lines.", chunks[0])
	assert.Equal(t, "a list item that is also long enough to be considered a chunk of text", chunks[1])
}

func TestExtract_PlainText(t *testing.T) {
	txt := "First block of plain text that is comfortably over fifty characters.\n\n" +
		"short\n\r\n" +
		"Second block of plain text\nspanning two lines and also over fifty characters long."
	server := newServer(t, "text/plain; charset=utf-8", txt, http.StatusOK)

	chunks := New().Extract(context.Background(), server.URL, "README")

	require.Len(t, chunks, 2)
	assert.Equal(t, "Second block of plain text spanning two lines and also over fifty characters long.", chunks[0])
	assert.Equal(t, "First block of plain text that is comfortably over fifty characters.", chunks[1])
}

func TestExtract_DecodesCharset(t *testing.T) {
	const want = "caf\u00e9 cr\u00e8me br\u00fbl\u00e9e, a dessert served in every caf\u00e9 in Paris."

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{
			name:        "html with charset header",
			contentType: "text/html; charset=iso-8859-1",
			body:        "<html><body><p>caf\xe9 cr\xe8me br\xfbl\xe9e, a dessert served in every caf\xe9 in Paris.</p></body></html>",
		},
		{
			name:        "html with meta charset",
			contentType: "text/html",
			body:        "<html><head><meta charset=\"windows-1252\"></head><body><p>caf\xe9 cr\xe8me br\xfbl\xe9e, a dessert served in every caf\xe9 in Paris.</p></body></html>",
		},
		{
			name:        "plain text with charset header",
			contentType: "text/plain; charset=latin1",
			body:        "caf\xe9 cr\xe8me br\xfbl\xe9e, a dessert served in every caf\xe9 in Paris.",
		},
		{
			name:        "markdown with charset header",
			contentType: "text/markdown; charset=iso-8859-1",
			body:        "caf\xe9 cr\xe8me br\xfbl\xe9e, a dessert served in every caf\xe9 in Paris.\n",
		},
		{
			name:        "utf-8 without declared charset",
			contentType: "text/html",
			body:        "<p>" + want + "</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.contentType, tt.body, http.StatusOK)

			chunks := New().Extract(context.Background(), server.URL, "Dessert")

			require.Len(t, chunks, 1)
			assert.True(t, utf8.ValidString(chunks[0]), "chunk %q is not valid UTF-8", chunks[0])
			assert.Equal(t, want, chunks[0])
		})
	}
}

func TestExtract_Options(t *testing.T) {
	server := newServer(t, "text/html", articlePage, http.StatusOK)

	e := New(WithMaxChunks(1), WithMaxChunkRunes(20), WithMinSegmentRunes(10))
	chunks := e.Extract(context.Background(), server.URL, "Article")

	require.Len(t, chunks, 1)
	assert.LessOrEqual(t, len([]rune(chunks[0])), 20)
	assert.True(t, strings.HasPrefix(chunks[0], "A second"))
}

func TestContentKind(t *testing.T) {
	html := []byte("<!doctype html><html><body>x</body></html>")

	assert.Equal(t, kindHTML, contentKind("text/html", nil, nil))
	assert.Equal(t, kindHTML, contentKind("application/xhtml+xml", nil, nil))
	assert.Equal(t, kindHTML, contentKind("", nil, html))
	assert.Equal(t, kindMarkdown, contentKind("text/x-markdown", nil, nil))
	assert.Equal(t, kindPlain, contentKind("text/plain", nil, nil))
	assert.Equal(t, kindUnsupported, contentKind("application/pdf", nil, nil))
	assert.Equal(t, kindUnsupported, contentKind("image/jpeg", nil, nil))
}
