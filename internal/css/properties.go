package css

// InlineProperties is the closed, ordered set of properties considered for
// inlining. The order only makes output reproducible.
var InlineProperties = []string{
	// Layout & Sizing
	"display", "width", "height", "max-width", "max-height", "min-width", "min-height",

	// Box Model
	"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
	"border", "border-top", "border-right", "border-bottom", "border-left",
	"border-width", "border-style", "border-color", "border-radius",
	"border-collapse", "border-spacing",
	"box-sizing", "box-shadow",

	// Flexbox Container
	"flex-direction", "flex-wrap", "flex-flow",
	"justify-content", "align-items", "align-content",

	// Flexbox Item
	"flex", "flex-grow", "flex-shrink", "flex-basis",
	"align-self", "order",

	// Grid Container
	"grid", "grid-template", "grid-template-columns", "grid-template-rows",
	"grid-template-areas", "grid-auto-columns", "grid-auto-rows", "grid-auto-flow",

	// Grid Item
	"grid-column", "grid-row", "grid-area",
	"grid-column-start", "grid-column-end", "grid-row-start", "grid-row-end",

	// Gap (Flexbox & Grid)
	"gap", "row-gap", "column-gap",

	// Background
	"background", "background-color", "background-image", "background-position", "background-size", "background-repeat",

	// Typography
	"color", "font-family", "font-size", "font-weight", "font-style", "line-height",
	"text-align", "text-decoration", "text-transform", "text-decoration-thickness", "text-underline-offset",
	"letter-spacing", "word-spacing", "text-indent", "text-overflow",
	"vertical-align", "white-space", "word-wrap", "word-break",

	// List
	"list-style", "list-style-type", "list-style-position", "list-style-image",

	// Positioning
	"position", "top", "right", "bottom", "left", "z-index",
	"float", "clear",

	// Overflow
	"overflow", "overflow-x", "overflow-y",

	// Image & Media
	"object-fit", "object-position", "aspect-ratio",

	// Visual Effects
	"cursor", "opacity", "visibility",
	"transition", "transform",
}

// ValueKind tells the resolver how to compute a specified value.
type ValueKind int

const (
	KindKeyword     ValueKind = iota // taken as specified
	KindLength                       // lengths become px, percentages stay
	KindColor                        // colours become rgb()/rgba()
	KindBorderWidth                  // like KindLength plus thin/medium/thick, 0px when style is none
	KindFontSize                     // relative to the parent font size
	KindFontWeight                   // keywords become numbers
	KindLineHeight                   // numbers stay, lengths become px
	KindMixed                        // lengths and colours inside a larger value
)

// Longhand describes a property the resolver computes directly.
type Longhand struct {
	Name      string
	Inherited bool
	Initial   string
	Kind      ValueKind
}

var longhands = []Longhand{
	{"display", false, "inline", KindKeyword},
	{"width", false, "auto", KindLength},
	{"height", false, "auto", KindLength},
	{"max-width", false, "none", KindLength},
	{"max-height", false, "none", KindLength},
	{"min-width", false, "auto", KindLength},
	{"min-height", false, "auto", KindLength},

	{"margin-top", false, "0px", KindLength},
	{"margin-right", false, "0px", KindLength},
	{"margin-bottom", false, "0px", KindLength},
	{"margin-left", false, "0px", KindLength},
	{"padding-top", false, "0px", KindLength},
	{"padding-right", false, "0px", KindLength},
	{"padding-bottom", false, "0px", KindLength},
	{"padding-left", false, "0px", KindLength},

	{"border-top-width", false, "medium", KindBorderWidth},
	{"border-right-width", false, "medium", KindBorderWidth},
	{"border-bottom-width", false, "medium", KindBorderWidth},
	{"border-left-width", false, "medium", KindBorderWidth},
	{"border-top-style", false, "none", KindKeyword},
	{"border-right-style", false, "none", KindKeyword},
	{"border-bottom-style", false, "none", KindKeyword},
	{"border-left-style", false, "none", KindKeyword},
	{"border-top-color", false, "currentcolor", KindColor},
	{"border-right-color", false, "currentcolor", KindColor},
	{"border-bottom-color", false, "currentcolor", KindColor},
	{"border-left-color", false, "currentcolor", KindColor},
	{"border-top-left-radius", false, "0px", KindLength},
	{"border-top-right-radius", false, "0px", KindLength},
	{"border-bottom-right-radius", false, "0px", KindLength},
	{"border-bottom-left-radius", false, "0px", KindLength},
	{"border-collapse", true, "separate", KindKeyword},
	{"border-spacing", true, "0px 0px", KindLength},
	{"box-sizing", false, "content-box", KindKeyword},
	{"box-shadow", false, "none", KindMixed},

	{"outline-width", false, "medium", KindBorderWidth},
	{"outline-style", false, "none", KindKeyword},
	{"outline-color", false, "currentcolor", KindColor},

	{"flex-direction", false, "row", KindKeyword},
	{"flex-wrap", false, "nowrap", KindKeyword},
	{"justify-content", false, "normal", KindKeyword},
	{"align-items", false, "normal", KindKeyword},
	{"align-content", false, "normal", KindKeyword},
	{"flex-grow", false, "0", KindKeyword},
	{"flex-shrink", false, "1", KindKeyword},
	{"flex-basis", false, "auto", KindLength},
	{"align-self", false, "auto", KindKeyword},
	{"order", false, "0", KindKeyword},

	{"grid-template-columns", false, "none", KindLength},
	{"grid-template-rows", false, "none", KindLength},
	{"grid-template-areas", false, "none", KindKeyword},
	{"grid-auto-columns", false, "auto", KindLength},
	{"grid-auto-rows", false, "auto", KindLength},
	{"grid-auto-flow", false, "row", KindKeyword},
	{"grid-column-start", false, "auto", KindKeyword},
	{"grid-column-end", false, "auto", KindKeyword},
	{"grid-row-start", false, "auto", KindKeyword},
	{"grid-row-end", false, "auto", KindKeyword},
	{"row-gap", false, "normal", KindLength},
	{"column-gap", false, "normal", KindLength},

	{"background-color", false, "transparent", KindColor},
	{"background-image", false, "none", KindKeyword},
	{"background-position", false, "0% 0%", KindLength},
	{"background-size", false, "auto", KindLength},
	{"background-repeat", false, "repeat", KindKeyword},

	{"color", true, "canvastext", KindColor},
	{"font-family", true, "serif", KindKeyword},
	{"font-size", true, "medium", KindFontSize},
	{"font-weight", true, "normal", KindFontWeight},
	{"font-style", true, "normal", KindKeyword},
	{"line-height", true, "normal", KindLineHeight},
	{"text-align", true, "start", KindKeyword},
	{"text-decoration-line", false, "none", KindKeyword},
	{"text-decoration-style", false, "solid", KindKeyword},
	{"text-decoration-color", false, "currentcolor", KindColor},
	{"text-decoration-thickness", false, "auto", KindLength},
	{"text-underline-offset", true, "auto", KindLength},
	{"text-transform", true, "none", KindKeyword},
	{"letter-spacing", true, "normal", KindLength},
	{"word-spacing", true, "0px", KindLength},
	{"text-indent", true, "0px", KindLength},
	{"text-overflow", false, "clip", KindKeyword},
	{"vertical-align", false, "baseline", KindLength},
	{"white-space", true, "normal", KindKeyword},
	{"word-wrap", true, "normal", KindKeyword},
	{"word-break", true, "normal", KindKeyword},

	{"list-style-type", true, "disc", KindKeyword},
	{"list-style-position", true, "outside", KindKeyword},
	{"list-style-image", true, "none", KindKeyword},

	{"position", false, "static", KindKeyword},
	{"top", false, "auto", KindLength},
	{"right", false, "auto", KindLength},
	{"bottom", false, "auto", KindLength},
	{"left", false, "auto", KindLength},
	{"z-index", false, "auto", KindKeyword},
	{"float", false, "none", KindKeyword},
	{"clear", false, "none", KindKeyword},

	{"overflow-x", false, "visible", KindKeyword},
	{"overflow-y", false, "visible", KindKeyword},

	{"object-fit", false, "fill", KindKeyword},
	{"object-position", false, "50% 50%", KindLength},
	{"aspect-ratio", false, "auto", KindKeyword},

	{"cursor", true, "auto", KindKeyword},
	{"opacity", false, "1", KindKeyword},
	{"visibility", true, "visible", KindKeyword},
	{"transform", false, "none", KindMixed},
}

var longhandIndex = func() map[string]Longhand {
	m := make(map[string]Longhand, len(longhands))
	for _, l := range longhands {
		m[l.Name] = l
	}
	return m
}()

// Longhands returns every property the resolver computes directly.
func Longhands() []Longhand {
	return longhands
}

// LookupLonghand returns the metadata of a computed longhand.
func LookupLonghand(name string) (Longhand, bool) {
	l, ok := longhandIndex[name]
	return l, ok
}

// Aliases map legacy names onto the longhand they set.
var aliases = map[string]string{
	"overflow-wrap":   "word-wrap",
	"grid-gap":        "gap",
	"grid-row-gap":    "row-gap",
	"grid-column-gap": "column-gap",
}

// Canonical maps an alias onto its canonical property name.
func Canonical(name string) string {
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}
