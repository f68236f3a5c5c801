package html

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Doctype is written in front of every serialized full document.
const Doctype = "<!DOCTYPE html>"

var errEmptySelection = errors.New("no element selected")

// GoQueryDocument is a Document backed by goquery.
type GoQueryDocument struct {
	doc *goquery.Document
}

// GoQueryNode is a Node over a single element selection.
type GoQueryNode struct {
	selection *goquery.Selection
}

// GoQueryParser implements Parser using goquery
type GoQueryParser struct{}

// NewParser creates a new GoQuery-based HTML parser
func NewParser() *GoQueryParser {
	return &GoQueryParser{}
}

// Parse parses HTML string into a Document. The parser follows the HTML5
// recovery rules, so malformed markup is accepted.
func (p *GoQueryParser) Parse(htmlStr string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &GoQueryDocument{doc: doc}, nil
}

func wrap(s *goquery.Selection) []Node {
	nodes := make([]Node, s.Length())
	s.Each(func(i int, el *goquery.Selection) {
		nodes[i] = &GoQueryNode{selection: el}
	})
	return nodes
}

// Body returns the body element. The selection is empty when the document
// has no body.
func (d *GoQueryDocument) Body() Node {
	return &GoQueryNode{selection: d.doc.Find("body").First()}
}

// QuerySelectorAll returns all elements matching the selector in document order.
func (d *GoQueryDocument) QuerySelectorAll(selector string) ([]Node, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return wrap(d.doc.FindMatcher(m)), nil
}

func (d *GoQueryDocument) StyleSheets() []string {
	var sheets []string
	d.doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		sheets = append(sheets, s.Text())
	})
	return sheets
}

func (d *GoQueryDocument) Contains(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || len(d.doc.Nodes) == 0 {
		return false
	}
	root := d.doc.Nodes[0]
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// DocumentHTML serializes the <html> element preceded by a doctype line.
func (d *GoQueryDocument) DocumentHTML() (string, error) {
	root := d.doc.Find("html").First()
	if root.Length() == 0 {
		return "", fmt.Errorf("document has no html element")
	}

	var buf strings.Builder
	buf.WriteString(Doctype)
	buf.WriteByte('\n')
	if err := html.Render(&buf, root.Get(0)); err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return buf.String(), nil
}

// BodyHTML returns the inner markup of <body>.
func (d *GoQueryDocument) BodyHTML() (string, error) {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		return "", nil
	}
	inner, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize body: %w", err)
	}
	return inner, nil
}

func (n *GoQueryNode) TagName() string {
	if n.selection.Length() == 0 {
		return ""
	}
	return goquery.NodeName(n.selection)
}

// Children skips text and comment nodes.
func (n *GoQueryNode) Children() []Node {
	return wrap(n.selection.Children())
}

func (n *GoQueryNode) SetInlineStyle(style string) error {
	return n.SetAttribute("style", style)
}

func (n *GoQueryNode) SetAttribute(name, value string) error {
	if n.selection.Length() == 0 {
		return errEmptySelection
	}
	n.selection.SetAttr(name, value)
	return nil
}

func (n *GoQueryNode) RemoveAttribute(name string) error {
	if n.selection.Length() == 0 {
		return errEmptySelection
	}
	n.selection.RemoveAttr(name)
	return nil
}

// HTMLNode returns the wrapped element or nil for an empty selection.
func (n *GoQueryNode) HTMLNode() *html.Node {
	if n.selection.Length() == 0 {
		return nil
	}
	return n.selection.Get(0)
}
