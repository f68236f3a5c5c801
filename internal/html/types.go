package html

import "golang.org/x/net/html"

// Node is an element of a parsed document.
type Node interface {
	TagName() string

	// Children returns child elements in document order.
	Children() []Node

	// SetInlineStyle replaces the complete style attribute.
	SetInlineStyle(style string) error
	SetAttribute(name, value string) error
	RemoveAttribute(name string) error

	// HTMLNode exposes the underlying element for engines that work on the
	// x/net/html tree directly.
	HTMLNode() *html.Node
}

// Document is a parsed HTML document.
type Document interface {
	Body() Node
	QuerySelectorAll(selector string) ([]Node, error)

	// StyleSheets returns the text of every <style> element in document order.
	StyleSheets() []string

	// Contains reports whether n is an element of this document.
	Contains(n *html.Node) bool

	DocumentHTML() (string, error)
	BodyHTML() (string, error)
}

// Parser handles parsing HTML documents
type Parser interface {
	Parse(html string) (Document, error)
}
