package css

import (
	"strings"
)

// GlobalKeywords are valid for every property.
var GlobalKeywords = map[string]bool{"inherit": true, "initial": true, "unset": true, "revert": true}

var boxSides = [4]string{"top", "right", "bottom", "left"}

var radiusCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

var decorationLines = map[string]bool{"none": true, "underline": true, "overline": true, "line-through": true, "blink": true}

var decorationStyles = map[string]bool{"solid": true, "double": true, "dotted": true, "dashed": true, "wavy": true}

var repeatKeywords = map[string]bool{"repeat": true, "repeat-x": true, "repeat-y": true, "no-repeat": true, "space": true, "round": true}

var fontSizeKeywords = map[string]bool{
	"xx-small": true, "x-small": true, "small": true, "medium": true, "large": true,
	"x-large": true, "xx-large": true, "xxx-large": true, "smaller": true, "larger": true,
}

type expander func(value string) []Declaration

// expanders hold every shorthand split into longhands at cascade time.
var expanders map[string]expander

func init() {
	expanders = map[string]expander{
		"margin":          boxExpander("margin-%s"),
		"padding":         boxExpander("padding-%s"),
		"border-width":    boxExpander("border-%s-width"),
		"border-style":    boxExpander("border-%s-style"),
		"border-color":    boxExpander("border-%s-color"),
		"border-radius":   expandRadius,
		"border":          expandBorder,
		"border-top":      borderSideExpander("top"),
		"border-right":    borderSideExpander("right"),
		"border-bottom":   borderSideExpander("bottom"),
		"border-left":     borderSideExpander("left"),
		"outline":         expandOutline,
		"gap":             pairExpander("row-gap", "column-gap"),
		"overflow":        pairExpander("overflow-x", "overflow-y"),
		"list-style":      expandListStyle,
		"text-decoration": expandTextDecoration,
		"flex":            expandFlex,
		"flex-flow":       expandFlexFlow,
		"background":      expandBackground,
		"font":            expandFont,
		"grid-column":     gridLineExpander("grid-column-start", "grid-column-end"),
		"grid-row":        gridLineExpander("grid-row-start", "grid-row-end"),
		"grid-area":       expandGridArea,
	}
}

// Verbatim lists shorthands whose computed value is read back as the
// declared text instead of being composed from longhands.
var Verbatim = map[string]bool{
	"background": true, "flex": true, "flex-flow": true, "font": true,
	"grid": true, "grid-template": true, "grid-column": true, "grid-row": true,
	"grid-area": true, "transition": true,
}

// IsShorthand reports whether the property is expanded into longhands.
func IsShorthand(name string) bool {
	_, ok := expanders[name]
	return ok
}

// Expand returns the declarations d sets. A longhand returns itself. A
// shorthand returns its longhands, plus itself when it is read back
// verbatim. Unknown properties are returned unchanged so that they can be
// reported as declared.
func Expand(d Declaration) []Declaration {
	d.Property = Canonical(NormalizePropertyName(d.Property))
	exp, ok := expanders[d.Property]
	if !ok {
		return []Declaration{d}
	}

	var out []Declaration
	if kw := strings.ToLower(d.Value); GlobalKeywords[kw] {
		for _, name := range LonghandsOf(d.Property) {
			out = append(out, decl(name, kw))
		}
	} else {
		out = exp(d.Value)
	}
	if Verbatim[d.Property] {
		out = append(out, Declaration{Property: d.Property, Value: d.Value})
	}
	for i := range out {
		out[i].Important = d.Important
	}
	return out
}

// LonghandsOf lists the longhands a shorthand sets, nil for a longhand.
func LonghandsOf(name string) []string {
	exp, ok := expanders[name]
	if !ok {
		return nil
	}
	sample := "initial"
	if name == "font" {
		sample = "medium serif"
	}
	var names []string
	for _, d := range exp(sample) {
		names = append(names, d.Property)
	}
	return names
}

func decl(prop, value string) Declaration {
	return Declaration{Property: prop, Value: value}
}

// boxValues spreads 1-4 components over top, right, bottom, left.
func boxValues(parts []string) ([4]string, bool) {
	switch len(parts) {
	case 1:
		return [4]string{parts[0], parts[0], parts[0], parts[0]}, true
	case 2:
		return [4]string{parts[0], parts[1], parts[0], parts[1]}, true
	case 3:
		return [4]string{parts[0], parts[1], parts[2], parts[1]}, true
	case 4:
		return [4]string{parts[0], parts[1], parts[2], parts[3]}, true
	}
	return [4]string{}, false
}

func boxExpander(pattern string) expander {
	return func(value string) []Declaration {
		vals, ok := boxValues(Components(value))
		if !ok {
			return nil
		}
		out := make([]Declaration, 0, 4)
		for i, side := range boxSides {
			out = append(out, decl(strings.Replace(pattern, "%s", side, 1), vals[i]))
		}
		return out
	}
}

func expandRadius(value string) []Declaration {
	// elliptical radii: only the horizontal part is kept
	if before, _, found := strings.Cut(value, "/"); found {
		value = before
	}
	vals, ok := boxValues(Components(value))
	if !ok {
		return nil
	}
	out := make([]Declaration, 0, 4)
	for i, corner := range radiusCorners {
		out = append(out, decl("border-"+corner+"-radius", vals[i]))
	}
	return out
}

// splitBorder classifies the components of a border-like shorthand.
func splitBorder(value string) (width, style, color string) {
	width, style, color = "medium", "none", "currentcolor"
	for _, part := range Components(value) {
		lower := strings.ToLower(part)
		switch {
		case borderStyles[lower]:
			style = lower
		case lower == "thin" || lower == "medium" || lower == "thick" || IsLengthLike(part) || lower == "0":
			width = part
		default:
			color = part
		}
	}
	return width, style, color
}

func borderSideExpander(side string) expander {
	return func(value string) []Declaration {
		w, s, c := splitBorder(value)
		return []Declaration{
			decl("border-"+side+"-width", w),
			decl("border-"+side+"-style", s),
			decl("border-"+side+"-color", c),
		}
	}
}

func expandBorder(value string) []Declaration {
	var out []Declaration
	for _, side := range boxSides {
		out = append(out, borderSideExpander(side)(value)...)
	}
	return out
}

func expandOutline(value string) []Declaration {
	w, s, c := splitBorder(value)
	if strings.EqualFold(c, "auto") {
		c = "currentcolor"
	}
	return []Declaration{decl("outline-width", w), decl("outline-style", s), decl("outline-color", c)}
}

func pairExpander(first, second string) expander {
	return func(value string) []Declaration {
		parts := Components(value)
		switch len(parts) {
		case 1:
			return []Declaration{decl(first, parts[0]), decl(second, parts[0])}
		case 2:
			return []Declaration{decl(first, parts[0]), decl(second, parts[1])}
		}
		return nil
	}
}

func expandListStyle(value string) []Declaration {
	typ, pos, img := "", "outside", ""
	nones := 0
	for _, part := range Components(value) {
		lower := strings.ToLower(part)
		switch {
		case lower == "none":
			nones++
		case lower == "inside" || lower == "outside":
			pos = lower
		case strings.HasPrefix(lower, "url(") || strings.Contains(lower, "gradient("):
			img = part
		default:
			typ = part
		}
	}
	// "none" belongs to whichever of type and image is still unset
	switch {
	case typ == "" && img == "" && nones > 0:
		typ, img = "none", "none"
	case typ == "" && nones > 0:
		typ = "none"
	}
	if typ == "" {
		typ = "disc"
	}
	if img == "" {
		img = "none"
	}
	return []Declaration{decl("list-style-type", typ), decl("list-style-position", pos), decl("list-style-image", img)}
}

func expandTextDecoration(value string) []Declaration {
	var lines []string
	style, color, thickness := "solid", "currentcolor", "auto"
	for _, part := range Components(value) {
		lower := strings.ToLower(part)
		switch {
		case decorationLines[lower]:
			if lower != "none" {
				lines = append(lines, lower)
			}
		case decorationStyles[lower]:
			style = lower
		case lower == "auto" || lower == "from-font" || IsLengthLike(part) || strings.HasSuffix(lower, "%"):
			thickness = part
		default:
			color = part
		}
	}
	line := "none"
	if len(lines) > 0 {
		line = strings.Join(lines, " ")
	}
	return []Declaration{
		decl("text-decoration-line", line),
		decl("text-decoration-style", style),
		decl("text-decoration-color", color),
		decl("text-decoration-thickness", thickness),
	}
}

func isNumber(v string) bool {
	_, unit, ok := SplitDimension(v)
	return ok && unit == ""
}

func expandFlex(value string) []Declaration {
	grow, shrink, basis := "0", "1", "auto"
	parts := Components(value)
	switch {
	case len(parts) == 1 && strings.EqualFold(parts[0], "none"):
		grow, shrink, basis = "0", "0", "auto"
	case len(parts) == 1 && strings.EqualFold(parts[0], "auto"):
		grow, shrink, basis = "1", "1", "auto"
	default:
		var nums []string
		basis = ""
		for _, p := range parts {
			if isNumber(p) && len(nums) < 2 {
				nums = append(nums, p)
			} else {
				basis = p
			}
		}
		if len(nums) > 0 {
			grow = nums[0]
		}
		if len(nums) > 1 {
			shrink = nums[1]
		}
		if basis == "" {
			if len(nums) > 0 {
				basis = "0%"
			} else {
				basis = "auto"
			}
		}
	}
	return []Declaration{decl("flex-grow", grow), decl("flex-shrink", shrink), decl("flex-basis", basis)}
}

func expandFlexFlow(value string) []Declaration {
	dir, wrap := "row", "nowrap"
	for _, part := range Components(value) {
		lower := strings.ToLower(part)
		if strings.Contains(lower, "wrap") {
			wrap = lower
		} else {
			dir = lower
		}
	}
	return []Declaration{decl("flex-direction", dir), decl("flex-wrap", wrap)}
}

var positionKeywords = map[string]bool{"left": true, "right": true, "top": true, "bottom": true, "center": true}

func expandBackground(value string) []Declaration {
	parts := Components(value)
	// only the final layer carries a colour
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "," {
			parts = parts[i+1:]
			break
		}
	}

	var split []string
	for _, p := range parts {
		if strings.Contains(p, "/") && !strings.Contains(p, "(") {
			a, b, _ := strings.Cut(p, "/")
			for _, s := range []string{a, "/", b} {
				if s != "" {
					split = append(split, s)
				}
			}
			continue
		}
		split = append(split, p)
	}

	color, image, repeat := "transparent", "none", "repeat"
	var position, size []string
	afterSlash := false
	for _, p := range split {
		lower := strings.ToLower(p)
		switch {
		case p == "/":
			afterSlash = true
		case afterSlash && (IsLengthLike(p) || strings.HasSuffix(p, "%") || lower == "auto" || lower == "cover" || lower == "contain"):
			size = append(size, p)
		case strings.HasPrefix(lower, "url(") || strings.Contains(lower, "gradient(") || lower == "none":
			image = p
		case repeatKeywords[lower]:
			repeat = lower
		case positionKeywords[lower] || IsLengthLike(p) || strings.HasSuffix(p, "%") || p == "0":
			position = append(position, p)
		case IsColor(p):
			color = p
		}
	}
	out := []Declaration{
		decl("background-color", color),
		decl("background-image", image),
		decl("background-repeat", repeat),
		decl("background-position", "0% 0%"),
		decl("background-size", "auto"),
	}
	if len(position) > 0 {
		out[3].Value = strings.Join(position, " ")
	}
	if len(size) > 0 {
		out[4].Value = strings.Join(size, " ")
	}
	return out
}

func expandFont(value string) []Declaration {
	parts := Components(value)
	style, weight, lineHeight := "normal", "normal", "normal"
	for i, p := range parts {
		lower := strings.ToLower(p)
		sizePart, lh, hasLH := strings.Cut(p, "/")
		switch {
		case lower == "italic" || lower == "oblique":
			style = lower
		case lower == "bold" || lower == "bolder" || lower == "lighter" || (isNumber(p) && !hasLH):
			weight = lower
		case lower == "normal" || lower == "small-caps" || strings.HasSuffix(lower, "condensed") || strings.HasSuffix(lower, "expanded"):
		case fontSizeKeywords[strings.ToLower(sizePart)] || IsLengthLike(sizePart) || strings.HasSuffix(sizePart, "%"):
			if hasLH {
				lineHeight = lh
			}
			rest := parts[i+1:]
			if len(rest) > 1 && rest[0] == "/" {
				lineHeight, rest = rest[1], rest[2:]
			} else if len(rest) > 0 && strings.HasPrefix(rest[0], "/") && len(rest[0]) > 1 {
				lineHeight, rest = rest[0][1:], rest[1:]
			}
			if len(rest) == 0 {
				return nil
			}
			return []Declaration{
				decl("font-style", style),
				decl("font-weight", weight),
				decl("font-size", sizePart),
				decl("line-height", lineHeight),
				decl("font-family", Join(rest)),
			}
		default:
			// system font keywords such as caption: nothing to expand
			return nil
		}
	}
	return nil
}

func gridLineExpander(start, end string) expander {
	return func(value string) []Declaration {
		a, b, found := strings.Cut(value, "/")
		a = strings.TrimSpace(a)
		b = strings.TrimSpace(b)
		if !found {
			b = "auto"
		}
		return []Declaration{decl(start, a), decl(end, b)}
	}
}

func expandGridArea(value string) []Declaration {
	names := []string{"grid-row-start", "grid-column-start", "grid-row-end", "grid-column-end"}
	parts := strings.Split(value, "/")
	out := make([]Declaration, 0, 4)
	for i, name := range names {
		v := "auto"
		if i < len(parts) {
			v = strings.TrimSpace(parts[i])
		}
		out = append(out, decl(name, v))
	}
	return out
}
