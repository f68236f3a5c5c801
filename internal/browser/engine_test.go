package browser

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssinliner/internal/css"
	htmldoc "cssinliner/internal/html"
	"cssinliner/internal/resolver"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
	e, err := New(WithNoSandbox())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSessionProperties(t *testing.T) {
	props := sessionProperties()

	seen := make(map[string]bool)
	for _, p := range props {
		assert.False(t, seen[p], "duplicate property %s", p)
		seen[p] = true
	}
	for _, p := range css.InlineProperties {
		assert.True(t, seen[p], "missing %s", p)
	}
	assert.Equal(t, css.InlineProperties[0], props[0])
}

func TestEngineResolve(t *testing.T) {
	e := newTestEngine(t)

	doc, err := htmldoc.NewParser().Parse(`<!DOCTYPE html><html><head><style>.a { color: red; display: none }</style></head><body><div class="a" id="a">hi</div></body></html>`)
	require.NoError(t, err)

	s, err := e.Open(context.Background(), doc)
	require.NoError(t, err)
	defer s.Close()

	els, err := doc.QuerySelectorAll("#a")
	require.NoError(t, err)
	require.Len(t, els, 1)
	el := els[0]

	color, err := s.Resolve(el, "color")
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 0, 0)", color)

	display, err := s.Resolve(el, "display")
	require.NoError(t, err)
	assert.Equal(t, "none", display)

	// markers never leak into the document
	var keys []string
	for _, a := range el.HTMLNode().Attr {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"class", "id"}, keys)

	require.NoError(t, s.Close())
	_, err = s.Resolve(el, "color")
	assert.ErrorIs(t, err, resolver.ErrSessionClosed)
}

func TestEngineDetached(t *testing.T) {
	e := newTestEngine(t)

	doc, err := htmldoc.NewParser().Parse(`<p>x</p>`)
	require.NoError(t, err)
	other, err := htmldoc.NewParser().Parse(`<p>y</p>`)
	require.NoError(t, err)

	s, err := e.Open(context.Background(), doc)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Resolve(other.Body(), "color")
	assert.ErrorIs(t, err, resolver.ErrDetached)
}

func TestEngineClosed(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	doc, err := htmldoc.NewParser().Parse(`<p>x</p>`)
	require.NoError(t, err)
	_, err = e.Open(context.Background(), doc)
	assert.ErrorIs(t, err, ErrClosed)
}
