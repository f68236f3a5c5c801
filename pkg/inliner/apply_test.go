package inliner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cssinliner/internal/css"
	htmldoc "cssinliner/internal/html"
	"cssinliner/internal/resolver"
)

var errUnresolvable = errors.New("unresolvable")

// stubSession resolves values from a table keyed by tag name.
type stubSession struct {
	values   map[string]map[string]string
	failing  string
	visited  []string
	closeErr error
	closed   bool
}

func (s *stubSession) Resolve(el htmldoc.Node, property string) (string, error) {
	if property == css.InlineProperties[0] {
		s.visited = append(s.visited, attr(el, "id"))
	}
	if property == s.failing {
		return "", errUnresolvable
	}
	return s.values[el.TagName()][property], nil
}

func (s *stubSession) Close() error {
	s.closed = true
	return s.closeErr
}

type stubEngine struct {
	session *stubSession
	openErr error
}

func (e *stubEngine) Open(context.Context, htmldoc.Document) (resolver.Session, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.session, nil
}

func parse(t *testing.T, body string) htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.NewParser().Parse("<html><body>" + body + "</body></html>")
	require.NoError(t, err)
	return doc
}

func element(t *testing.T, doc htmldoc.Document, selector string) htmldoc.Node {
	t.Helper()
	els, err := doc.QuerySelectorAll(selector)
	require.NoError(t, err)
	require.NotEmpty(t, els, selector)
	return els[0]
}

func attr(el htmldoc.Node, key string) string {
	for _, a := range el.HTMLNode().Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestApplyInlineStyles(t *testing.T) {
	doc := parse(t, `<div id="d"><span id="s1">a</span><em id="e" style="keep: me">b</em><p id="p"><span id="s2">c</span></p></div>`)
	sess := &stubSession{
		values: map[string]map[string]string{
			"div":  {"display": "none", "color": "red", "width": "auto"},
			"span": {"color": "blue", "margin": "0px"},
		},
		failing: "font-size",
	}

	stats := ApplyInlineStyles(element(t, doc, "#d"), sess, nil)

	assert.Equal(t, []string{"d", "s1", "e", "p", "s2"}, sess.visited, "pre-order")
	assert.Equal(t, ApplyStats{Elements: 3, Declarations: 6}, stats)

	get := func(id string) string {
		return attr(element(t, doc, "#"+id), "style")
	}
	assert.Equal(t, "display: none; color: red; ", get("d"))
	assert.Equal(t, "margin: 0px; color: blue; ", get("s1"))
	assert.Equal(t, "margin: 0px; color: blue; ", get("s2"))
	assert.Equal(t, "keep: me", get("e"), "element without declarations keeps its attribute")
	assert.Equal(t, "", get("p"))
}

func TestApplyInlineStylesReplaces(t *testing.T) {
	doc := parse(t, `<span id="s" style="color: green; font-weight: bold">x</span>`)
	sess := &stubSession{values: map[string]map[string]string{"span": {"color": "blue"}}}

	root := element(t, doc, "#s")
	ApplyInlineStyles(root, sess, nil)
	assert.Equal(t, "color: blue; ", attr(root, "style"))
}

func TestApplyInlineStylesDeep(t *testing.T) {
	const depth = 2000
	markup := strings.Repeat("<div>", depth) + strings.Repeat("</div>", depth)
	doc := parse(t, markup)
	sess := &stubSession{values: map[string]map[string]string{"div": {"display": "block"}}}

	stats := ApplyInlineStyles(doc.Body(), sess, nil)
	assert.Equal(t, depth, stats.Elements)
}

func TestApplyInlineStylesNilRoot(t *testing.T) {
	assert.Equal(t, ApplyStats{}, ApplyInlineStyles(nil, &stubSession{}, nil))
}
