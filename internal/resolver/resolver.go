package resolver

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"cssinliner/internal/css"
	htmldoc "cssinliner/internal/html"
)

// ErrDetached is returned when an element does not belong to the document
// the session was opened over.
var ErrDetached = errors.New("element is not part of the session document")

// ErrSessionClosed is returned by Resolve after Close.
var ErrSessionClosed = errors.New("resolver session closed")

// Engine opens style resolution sessions over documents.
type Engine interface {
	Open(ctx context.Context, doc htmldoc.Document) (Session, error)
}

// Session resolves computed property values for the elements of one
// document. A session is used by a single conversion and must be closed.
type Session interface {
	// Resolve returns the computed value of property for el. An empty
	// string means the property has no value the engine can report.
	Resolve(el htmldoc.Node, property string) (string, error)
	Close() error
}

//go:embed ua.css
var userAgentCSS string

const (
	DefaultFontFamily = "serif"
	DefaultFontSize   = 16.0
)

// Native computes styles without a browser: it runs the cascade over a
// built-in user agent stylesheet and the document's <style> elements and
// derives computed values from the winning declarations.
type Native struct {
	log        *zap.Logger
	parser     *css.Parser
	userAgent  *css.Stylesheet
	fontFamily string
	fontSize   float64
}

// Option configures a Native engine.
type Option func(*nativeConfig)

type nativeConfig struct {
	log           *zap.Logger
	viewportWidth int
	fontFamily    string
	fontSize      float64
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *nativeConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithViewportWidth sets the width @media queries are evaluated against.
func WithViewportWidth(px int) Option {
	return func(c *nativeConfig) {
		c.viewportWidth = px
	}
}

// WithDefaultFont sets the font of the root element. Empty or non-positive
// values keep the defaults.
func WithDefaultFont(family string, sizePx float64) Option {
	return func(c *nativeConfig) {
		if family != "" {
			c.fontFamily = family
		}
		if sizePx > 0 {
			c.fontSize = sizePx
		}
	}
}

// NewNative creates the native engine. The user agent stylesheet is parsed
// once and shared by all sessions.
func NewNative(opts ...Option) *Native {
	cfg := nativeConfig{
		log:           zap.NewNop(),
		viewportWidth: css.DefaultViewportWidth,
		fontFamily:    DefaultFontFamily,
		fontSize:      DefaultFontSize,
	}
	for _, o := range opts {
		o(&cfg)
	}

	log := cfg.log.Named("resolver")
	parser := css.NewParser(css.WithLogger(log), css.WithViewportWidth(cfg.viewportWidth))
	return &Native{
		log:        log,
		parser:     parser,
		userAgent:  parser.Parse(userAgentCSS, css.OriginUserAgent),
		fontFamily: cfg.fontFamily,
		fontSize:   cfg.fontSize,
	}
}

// Open compiles the document's stylesheets and returns a session over it.
func (e *Native) Open(ctx context.Context, doc htmldoc.Document) (Session, error) {
	if doc == nil {
		return nil, fmt.Errorf("open session: nil document")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	sheet := &css.Stylesheet{}
	sheet.Append(e.userAgent)
	for _, text := range doc.StyleSheets() {
		sheet.Append(e.parser.Parse(text, css.OriginAuthor))
	}

	e.log.Debug("Session opened", zap.Int("rules", len(sheet.Rules)))
	return &nativeSession{
		engine: e,
		doc:    doc,
		sheet:  sheet,
		styles: make(map[*html.Node]*computedStyle),
	}, nil
}

type nativeSession struct {
	engine   *Native
	doc      htmldoc.Document
	sheet    *css.Stylesheet
	styles   map[*html.Node]*computedStyle
	rootSize float64
	closed   bool
}

func (s *nativeSession) Resolve(el htmldoc.Node, property string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if el == nil {
		return "", ErrDetached
	}
	n := el.HTMLNode()
	if !s.doc.Contains(n) {
		return "", ErrDetached
	}

	cs := s.computed(n)
	name := css.Canonical(css.NormalizePropertyName(property))
	if _, ok := css.LookupLonghand(name); ok {
		return cs.values[name], nil
	}
	return cs.shorthand(name), nil
}

func (s *nativeSession) Close() error {
	s.closed = true
	s.styles = nil
	return nil
}

// computed returns the computed style of n. Ancestors are computed first,
// top down, without recursion.
func (s *nativeSession) computed(n *html.Node) *computedStyle {
	if cs, ok := s.styles[n]; ok {
		return cs
	}

	var chain []*html.Node
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if _, ok := s.styles[p]; ok {
			break
		}
		chain = append(chain, p)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		var parent *computedStyle
		if p := node.Parent; p != nil && p.Type == html.ElementNode {
			parent = s.styles[p]
		}
		cs := s.compute(node, parent)
		if parent == nil {
			s.rootSize = cs.fontSize
		}
		s.styles[node] = cs
	}
	return s.styles[n]
}

// inlineDeclarations parses the style attribute of n.
func (s *nativeSession) inlineDeclarations(n *html.Node) []css.Declaration {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "style") {
			return s.engine.parser.ParseInlineStyle(a.Val)
		}
	}
	return nil
}
