package resolver

import (
	"strings"

	"golang.org/x/net/html"

	"cssinliner/internal/css"
)

// computedStyle holds the computed longhands of one element.
type computedStyle struct {
	values   map[string]string
	winners  map[string]winner
	fontSize float64
	rootSize float64
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32, "xxx-large": 48,
}

var systemColors = map[string]string{
	"canvastext": "rgb(0, 0, 0)",
	"canvas":     "rgb(255, 255, 255)",
	"linktext":   "rgb(0, 0, 238)",
	"graytext":   "rgb(109, 109, 109)",
	"buttontext": "rgb(0, 0, 0)",
}

// valueComputer turns the cascaded value of each longhand into a computed
// value. Values are computed on demand so that dependencies such as
// currentcolor or a border style are available in any order.
type valueComputer struct {
	engine *Native
	cs     *computedStyle
	parent *computedStyle
}

func (s *nativeSession) compute(n *html.Node, parent *computedStyle) *computedStyle {
	cs := &computedStyle{
		values:   make(map[string]string, len(css.Longhands())),
		winners:  s.cascade(n),
		rootSize: s.rootSize,
	}
	if parent == nil {
		cs.rootSize = s.engine.fontSize
	}

	c := &valueComputer{engine: s.engine, cs: cs, parent: parent}
	cs.fontSize = c.parentFontSize()
	if px, ok := css.LengthToPx(c.value("font-size"), 0, 0); ok {
		cs.fontSize = px
	}
	if parent == nil {
		cs.rootSize = cs.fontSize
	}
	for _, l := range css.Longhands() {
		c.value(l.Name)
	}
	blockify(cs.values, parent == nil)
	return cs
}

func (c *valueComputer) value(name string) string {
	if v, ok := c.cs.values[name]; ok {
		return v
	}
	v := c.computeLonghand(name)
	c.cs.values[name] = v
	return v
}

func (c *valueComputer) parentFontSize() float64 {
	if c.parent == nil {
		return c.engine.fontSize
	}
	return c.parent.fontSize
}

func (c *valueComputer) computeLonghand(name string) string {
	l, ok := css.LookupLonghand(name)
	if !ok {
		return ""
	}

	specified, explicit := "", false
	if w, ok := c.cs.winners[name]; ok {
		specified, explicit = strings.TrimSpace(w.decl.Value), true
	}

	inherit := l.Inherited
	if explicit {
		switch kw := strings.ToLower(specified); {
		case kw == "inherit":
			inherit = true
		case kw == "initial":
			inherit, specified = false, l.Initial
		case kw == "unset" || kw == "revert":
			specified = l.Initial
		case name == "color" && kw == "currentcolor":
			inherit = true
		default:
			inherit = false
		}
	}

	if inherit && c.parent != nil {
		return c.parent.values[name]
	}
	if !explicit || inherit {
		specified = c.initial(l)
	}

	switch l.Kind {
	case css.KindLength:
		return c.length(name, specified)
	case css.KindColor:
		return c.color(specified)
	case css.KindBorderWidth:
		return c.borderWidth(name, specified)
	case css.KindFontSize:
		return c.fontSize(specified)
	case css.KindFontWeight:
		return c.fontWeight(specified)
	case css.KindLineHeight:
		return c.lineHeight(specified)
	case css.KindMixed:
		return c.mixed(specified)
	}
	return keyword(name, specified)
}

// initial returns the initial value, taking the configured font for the
// root element.
func (c *valueComputer) initial(l css.Longhand) string {
	switch l.Name {
	case "font-family":
		return c.engine.fontFamily
	case "font-size":
		return css.FormatPx(c.engine.fontSize)
	}
	return l.Initial
}

// keyword lowercases plain identifiers. Author names such as grid lines,
// font families and strings keep their case.
func keyword(name, v string) string {
	if name == "font-family" || strings.HasPrefix(name, "grid-") || strings.ContainsAny(v, "\"'(") {
		return v
	}
	return strings.ToLower(v)
}

func (c *valueComputer) length(name, v string) string {
	v = css.ComputeLengths(v, c.cs.fontSize, c.cs.rootSize)
	switch name {
	case "border-spacing":
		if parts := css.Components(v); len(parts) == 1 {
			return v + " " + v
		}
	case "background-position", "object-position":
		return position(v)
	}
	return keyword(name, v)
}

var positionOffsets = map[string]string{
	"left": "0%", "top": "0%", "center": "50%", "right": "100%", "bottom": "100%",
}

// position normalizes a one or two keyword position to "x y".
func position(v string) string {
	parts := css.Components(strings.ToLower(v))
	switch len(parts) {
	case 1:
		p := parts[0]
		switch p {
		case "top", "bottom":
			return "50% " + positionOffsets[p]
		}
		if off, ok := positionOffsets[p]; ok {
			return off + " 50%"
		}
		return p + " 50%"
	case 2:
		x, y := parts[0], parts[1]
		if x == "top" || x == "bottom" || y == "left" || y == "right" {
			x, y = y, x
		}
		if off, ok := positionOffsets[x]; ok {
			x = off
		}
		if off, ok := positionOffsets[y]; ok {
			y = off
		}
		return x + " " + y
	}
	return v
}

func (c *valueComputer) color(v string) string {
	lower := strings.ToLower(v)
	if lower == "currentcolor" {
		return c.value("color")
	}
	if sys, ok := systemColors[lower]; ok {
		return sys
	}
	if col, ok := css.ParseColor(v); ok {
		return col.String()
	}
	return v
}

func (c *valueComputer) borderWidth(name, v string) string {
	style := c.value(strings.TrimSuffix(name, "width") + "style")
	if style == "none" || style == "hidden" {
		return "0px"
	}
	switch strings.ToLower(v) {
	case "thin":
		return "1px"
	case "medium":
		return "3px"
	case "thick":
		return "5px"
	}
	if px, ok := css.LengthToPx(v, c.cs.fontSize, c.cs.rootSize); ok {
		return css.FormatPx(px)
	}
	return v
}

func (c *valueComputer) fontSize(v string) string {
	parent := c.parentFontSize()
	lower := strings.ToLower(v)
	if size, ok := fontSizeKeywords[lower]; ok {
		return css.FormatPx(size * c.engine.fontSize / DefaultFontSize)
	}
	switch lower {
	case "smaller":
		return css.FormatPx(parent / 1.2)
	case "larger":
		return css.FormatPx(parent * 1.2)
	}
	if n, unit, ok := css.SplitDimension(v); ok && unit == "%" {
		return css.FormatPx(parent * n / 100)
	}
	if px, ok := css.LengthToPx(v, parent, c.cs.rootSize); ok {
		return css.FormatPx(px)
	}
	return v
}

func (c *valueComputer) fontWeight(v string) string {
	parent := 400.0
	if c.parent != nil {
		if n, _, ok := css.SplitDimension(c.parent.values["font-weight"]); ok {
			parent = n
		}
	}
	switch strings.ToLower(v) {
	case "normal":
		return "400"
	case "bold":
		return "700"
	case "bolder":
		switch {
		case parent < 350:
			return "400"
		case parent < 550:
			return "700"
		}
		return "900"
	case "lighter":
		switch {
		case parent < 550:
			return "100"
		case parent < 750:
			return "400"
		}
		return "700"
	}
	if n, unit, ok := css.SplitDimension(v); ok && unit == "" {
		return css.FormatNumber(n)
	}
	return v
}

func (c *valueComputer) lineHeight(v string) string {
	n, unit, ok := css.SplitDimension(v)
	switch {
	case !ok:
		return strings.ToLower(v)
	case unit == "":
		return css.FormatNumber(n)
	case unit == "%":
		return css.FormatPx(c.cs.fontSize * n / 100)
	}
	if px, ok := css.LengthToPx(v, c.cs.fontSize, c.cs.rootSize); ok {
		return css.FormatPx(px)
	}
	return v
}

// mixed computes lengths and colours inside values such as box-shadow.
func (c *valueComputer) mixed(v string) string {
	parts := css.Components(v)
	for i, p := range parts {
		if strings.EqualFold(p, "currentcolor") {
			parts[i] = c.value("color")
			continue
		}
		parts[i] = css.ComputeLengths(p, c.cs.fontSize, c.cs.rootSize)
	}
	if len(parts) == 0 {
		return v
	}
	return keyword("", css.Join(parts))
}

var blockified = map[string]string{
	"inline":             "block",
	"inline-block":       "block",
	"inline-flex":        "flex",
	"inline-grid":        "grid",
	"inline-table":       "table",
	"table-row-group":    "block",
	"table-header-group": "block",
	"table-footer-group": "block",
	"table-row":          "block",
	"table-cell":         "block",
	"table-column-group": "block",
	"table-column":       "block",
	"table-caption":      "block",
}

// blockify applies the display adjustments for floated, absolutely
// positioned and root elements.
func blockify(values map[string]string, root bool) {
	pos := values["position"]
	if pos == "absolute" || pos == "fixed" {
		values["float"] = "none"
	}
	if !root && values["float"] == "none" && pos != "absolute" && pos != "fixed" {
		return
	}
	if d, ok := blockified[values["display"]]; ok {
		values["display"] = d
	}
}
