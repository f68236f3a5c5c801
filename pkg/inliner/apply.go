package inliner

import (
	"strings"

	"go.uber.org/zap"

	"cssinliner/internal/css"
	htmldoc "cssinliner/internal/html"
	"cssinliner/internal/resolver"
)

// ApplyStats counts what ApplyInlineStyles wrote.
type ApplyStats struct {
	Elements     int // elements whose style attribute was set
	Declarations int // declarations written across all elements
}

// ApplyInlineStyles walks root and its element descendants in pre-order
// and replaces the style attribute of each with the filtered resolved
// values of css.InlineProperties. Elements without a single included
// declaration keep whatever style attribute they had.
//
// A property the session fails to resolve is skipped; the walk always
// finishes.
func ApplyInlineStyles(root htmldoc.Node, session resolver.Session, log *zap.Logger) ApplyStats {
	var stats ApplyStats
	if root == nil {
		return stats
	}
	if log == nil {
		log = zap.NewNop()
	}

	stack := []htmldoc.Node{root}
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n := applyElement(el, session, log); n > 0 {
			stats.Elements++
			stats.Declarations += n
		}

		children := el.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return stats
}

// applyElement writes the inline style of a single element and returns
// the number of declarations written.
func applyElement(el htmldoc.Node, session resolver.Session, log *zap.Logger) int {
	var (
		b     strings.Builder
		count int
	)
	for _, property := range css.InlineProperties {
		value, err := session.Resolve(el, property)
		if err != nil {
			log.Debug("Skipping property",
				zap.String("element", el.TagName()),
				zap.String("property", property),
				zap.Error(err))
			continue
		}
		if !ShouldIncludeProperty(property, value) {
			continue
		}
		b.WriteString(property)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
		count++
	}
	if count == 0 {
		return 0
	}
	if err := el.SetInlineStyle(b.String()); err != nil {
		log.Debug("Unable to set style attribute", zap.String("element", el.TagName()), zap.Error(err))
		return 0
	}
	return count
}
