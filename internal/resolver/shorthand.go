package resolver

import (
	"strings"

	"cssinliner/internal/css"
)

var sides = [4]string{"top", "right", "bottom", "left"}

var corners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

// shorthand reads a shorthand back from the computed longhands. Shorthands
// that cannot be composed report their declared text, "" when the
// longhands no longer agree with it.
func (cs *computedStyle) shorthand(name string) string {
	v := cs.values
	switch name {
	case "margin", "padding":
		return cs.box(name+"-", sides, "")
	case "border-width", "border-style", "border-color":
		return cs.box("border-", sides, strings.TrimPrefix(name, "border"))
	case "border-radius":
		return cs.box("border-", corners, "-radius")
	case "border":
		first := cs.borderSide("top")
		for _, side := range sides[1:] {
			if cs.borderSide(side) != first {
				return ""
			}
		}
		return first
	case "border-top", "border-right", "border-bottom", "border-left":
		return cs.borderSide(strings.TrimPrefix(name, "border-"))
	case "outline":
		return line(v["outline-width"], v["outline-style"], v["outline-color"])
	case "gap":
		return pair(v["row-gap"], v["column-gap"])
	case "overflow":
		return pair(v["overflow-x"], v["overflow-y"])
	case "list-style":
		return cs.listStyle()
	case "text-decoration":
		return cs.textDecoration()
	}
	if css.Verbatim[name] {
		return cs.verbatim(name)
	}
	return ""
}

// box composes four longhands into the shortest 1-4 value form.
func (cs *computedStyle) box(prefix string, parts [4]string, suffix string) string {
	var vals [4]string
	for i, p := range parts {
		vals[i] = cs.values[prefix+p+suffix]
	}
	top, right, bottom, left := vals[0], vals[1], vals[2], vals[3]
	switch {
	case top == right && right == bottom && bottom == left:
		return top
	case top == bottom && right == left:
		return top + " " + right
	case right == left:
		return top + " " + right + " " + bottom
	}
	return top + " " + right + " " + bottom + " " + left
}

func (cs *computedStyle) borderSide(side string) string {
	p := "border-" + side + "-"
	return line(cs.values[p+"width"], cs.values[p+"style"], cs.values[p+"color"])
}

// line serializes a width/style/color triple. A line without a style is
// reported as none.
func line(width, style, color string) string {
	if style == "none" || style == "" {
		return "none"
	}
	return width + " " + style + " " + color
}

func pair(a, b string) string {
	if a == b {
		return a
	}
	return a + " " + b
}

func (cs *computedStyle) listStyle() string {
	typ := cs.values["list-style-type"]
	pos := cs.values["list-style-position"]
	img := cs.values["list-style-image"]

	var parts []string
	if pos != "outside" {
		parts = append(parts, pos)
	}
	if img != "none" {
		parts = append(parts, img)
	}
	if typ != "disc" || len(parts) == 0 {
		parts = append(parts, typ)
	}
	return strings.Join(parts, " ")
}

func (cs *computedStyle) textDecoration() string {
	lineValue := cs.values["text-decoration-line"]
	style := cs.values["text-decoration-style"]
	color := cs.values["text-decoration-color"]
	thickness := cs.values["text-decoration-thickness"]

	if style == "solid" && color == cs.values["color"] && thickness == "auto" {
		return lineValue
	}
	parts := []string{lineValue}
	if thickness != "auto" {
		parts = append(parts, thickness)
	}
	parts = append(parts, style, color)
	return strings.Join(parts, " ")
}

// verbatim returns the declared text of a shorthand if every longhand still
// comes from that declaration.
func (cs *computedStyle) verbatim(name string) string {
	w, ok := cs.winners[name]
	if !ok || css.GlobalKeywords[strings.ToLower(w.decl.Value)] {
		return ""
	}
	for _, l := range css.LonghandsOf(name) {
		if lw, ok := cs.winners[l]; !ok || lw.entry.sourceOrder != w.entry.sourceOrder {
			return ""
		}
	}
	return css.ComputeLengths(w.decl.Value, cs.fontSize, cs.rootSize)
}
