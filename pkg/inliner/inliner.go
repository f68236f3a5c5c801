// Package inliner converts an HTML document and a stylesheet into markup
// where every element carries its resolved styling in a style attribute.
package inliner

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	htmldoc "cssinliner/internal/html"
	"cssinliner/internal/resolver"
)

// TemplateCSS is the built-in stylesheet optionally placed in front of
// user CSS.
//
//go:embed template.css
var TemplateCSS string

// Inliner is the HTML to inline-style converter. It keeps no state
// between conversions and is safe for concurrent use as long as its
// engine is.
type Inliner struct {
	engine     resolver.Engine
	htmlParser htmldoc.Parser
	log        *zap.Logger
}

// Option configures an Inliner.
type Option func(*Inliner)

// WithEngine sets the engine used to resolve computed styles. The
// default is a native engine with default settings.
func WithEngine(engine resolver.Engine) Option {
	return func(i *Inliner) {
		i.engine = engine
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(i *Inliner) {
		if log != nil {
			i.log = log
		}
	}
}

// New creates an Inliner.
func New(opts ...Option) *Inliner {
	i := &Inliner{
		htmlParser: htmldoc.NewParser(),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(i)
	}
	if i.engine == nil {
		i.engine = resolver.NewNative(resolver.WithLogger(i.log))
	}
	i.log = i.log.Named("inliner")
	return i
}

// Options control a single conversion.
type Options struct {
	// BodyOnly returns the inner markup of the body even when the input
	// is a complete document.
	BodyOnly bool
	// RemoveWhitespace compacts whitespace between tags in the result.
	RemoveWhitespace bool
	// UseTemplateCSS places TemplateCSS in front of the user stylesheet.
	UseTemplateCSS bool
}

// Result is the outcome of a conversion.
type Result struct {
	HTML         string        // converted markup
	Elements     int           // elements that received a style attribute
	Declarations int           // declarations written
	Duration     time.Duration // wall time of the conversion
}

// Convert inlines the computed styles of cssText into htmlText.
//
// The result is the inner markup of the body when opts.BodyOnly is set or
// htmlText has no <html element; otherwise it is a complete document
// starting with a doctype.
func (i *Inliner) Convert(ctx context.Context, htmlText, cssText string, opts Options) (result *Result, err error) {
	start := time.Now()
	if opts.UseTemplateCSS {
		cssText = TemplateCSS + "\n" + cssText
	}

	doc, err := i.htmlParser.Parse(shell(htmlText, cssText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	session, err := i.engine.Open(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to open resolver session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close resolver session: %w", cerr))
			result = nil
		}
	}()

	stats := ApplyInlineStyles(doc.Body(), session, i.log)

	var out string
	if opts.BodyOnly || !IsFullDocument(htmlText) {
		out, err = doc.BodyHTML()
	} else {
		out, err = doc.DocumentHTML()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result: %w", err)
	}
	if opts.RemoveWhitespace {
		out = RemoveWhitespace(out)
	}

	result = &Result{
		HTML:         out,
		Elements:     stats.Elements,
		Declarations: stats.Declarations,
		Duration:     time.Since(start),
	}
	i.log.Debug("Conversion done",
		zap.Int("html", len(htmlText)),
		zap.Int("css", len(cssText)),
		zap.Int("elements", result.Elements),
		zap.Int("declarations", result.Declarations),
		zap.Duration("elapsed", result.Duration))
	return result, nil
}

// IsFullDocument reports whether htmlText carries its own <html element.
// The check is textual and case sensitive.
func IsFullDocument(htmlText string) bool {
	return strings.Contains(htmlText, "<html")
}

// Preview returns a document rendering htmlText under cssText as a live
// stylesheet. Nothing is inlined. A complete document contributes only the
// markup of its body.
func Preview(htmlText, cssText string) string {
	return shell(ExtractBody(htmlText), cssText)
}

// InlinePreview wraps a converted fragment in a minimal document so it can
// be displayed on its own. Complete documents are returned unchanged.
func InlinePreview(converted string, fragment bool) string {
	if !fragment {
		return converted
	}
	return `<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body>` + converted + `</body></html>`
}

func shell(htmlText, cssText string) string {
	var b strings.Builder
	b.Grow(len(htmlText) + len(cssText) + 128)
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"><style>`)
	b.WriteString(cssText)
	b.WriteString(`</style></head><body>`)
	b.WriteString(htmlText)
	b.WriteString(`</body></html>`)
	return b.String()
}

// ConvertToInline converts with a native engine and default settings.
func ConvertToInline(htmlText, cssText string, opts Options) (string, error) {
	result, err := New().Convert(context.Background(), htmlText, cssText, opts)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// CreatePreview is Preview under the name used by ConvertToInline callers.
func CreatePreview(htmlText, cssText string) string {
	return Preview(htmlText, cssText)
}
