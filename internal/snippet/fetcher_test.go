package snippet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title> Sozhaa Tech — Services </title>
  <style>body { color: red; }</style>
  <script>console.log("hi");</script>
</head>
<body>
  <nav><a href="/">Home</a><a href="/about">About</a></nav>
  <header><h1>Banner</h1></header>
  <main>
    <p>We build web &amp; mobile products.</p>
    <p>Pricing starts at &#39;low&#39;.</p>
  </main>
  <footer>© Sozhaa Tech</footer>
</body>
</html>`

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SozhaaBot/1.0 (+https://sozhaa.tech)", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher(Options{RatePerSec: 100})
	set := f.FetchAll(context.Background(), []string{srv.URL})

	require.Len(t, set.Snippets, 1)
	s := set.Snippets[0]
	assert.Equal(t, srv.URL, s.URL)
	assert.Equal(t, "Sozhaa Tech — Services", s.Title)
	assert.Contains(t, s.Text, "We build web & mobile products.")
	assert.Contains(t, s.Text, "'low'")
	assert.NotContains(t, s.Text, "console.log")
	assert.NotContains(t, s.Text, "Banner")
	assert.NotContains(t, s.Text, "Home")
	assert.NotContains(t, s.Text, "©")
}

func TestFetchAllTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("word ", 1000) + "</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(Options{SnippetChars: 50, RatePerSec: 100})
	set := f.FetchAll(context.Background(), []string{srv.URL})

	require.Len(t, set.Snippets, 1)
	assert.Len(t, set.Snippets[0].Text, 50)
}

func TestFetchAllPlaceholderOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(Options{RatePerSec: 100})
	set := f.FetchAll(context.Background(), []string{srv.URL, "http://127.0.0.1:1/unreachable"})

	require.Len(t, set.Snippets, 2)
	for i, s := range set.Snippets {
		assert.True(t, strings.HasPrefix(s.Text, "(failed:"), "snippet %d: %q", i, s.Text)
		assert.Equal(t, s.URL, s.Title)
	}
}

func TestFetchAllPreservesOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<title>A</title>page a"))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<title>B</title>page b"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(Options{RatePerSec: 100})
	set := f.FetchAll(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})

	require.Len(t, set.Snippets, 2)
	assert.Equal(t, "A", set.Snippets[0].Title)
	assert.Equal(t, "B", set.Snippets[1].Title)
}

func TestExtractTitleMissing(t *testing.T) {
	assert.Equal(t, "", extractTitle([]byte("<html><body>no title</body></html>")))
}
