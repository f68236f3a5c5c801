package css

import (
	"math"
	"strconv"
	"strings"
)

// Color is an sRGB colour with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// String serializes the colour the way computed styles report it.
func (c Color) String() string {
	rgb := strconv.Itoa(int(c.R)) + ", " + strconv.Itoa(int(c.G)) + ", " + strconv.Itoa(int(c.B))
	if c.A >= 1 {
		return "rgb(" + rgb + ")"
	}
	return "rgba(" + rgb + ", " + strconv.FormatFloat(math.Round(c.A*1000)/1000, 'f', -1, 64) + ")"
}

// Transparent is the computed value of the transparent keyword.
var Transparent = Color{A: 0}

var namedColors = map[string]uint32{
	"black": 0x000000, "silver": 0xc0c0c0, "gray": 0x808080, "grey": 0x808080,
	"white": 0xffffff, "maroon": 0x800000, "red": 0xff0000, "purple": 0x800080,
	"fuchsia": 0xff00ff, "magenta": 0xff00ff, "green": 0x008000, "lime": 0x00ff00,
	"olive": 0x808000, "yellow": 0xffff00, "navy": 0x000080, "blue": 0x0000ff,
	"teal": 0x008080, "aqua": 0x00ffff, "cyan": 0x00ffff, "orange": 0xffa500,
	"aliceblue": 0xf0f8ff, "antiquewhite": 0xfaebd7, "aquamarine": 0x7fffd4,
	"azure": 0xf0ffff, "beige": 0xf5f5dc, "bisque": 0xffe4c4, "blanchedalmond": 0xffebcd,
	"blueviolet": 0x8a2be2, "brown": 0xa52a2a, "burlywood": 0xdeb887, "cadetblue": 0x5f9ea0,
	"chartreuse": 0x7fff00, "chocolate": 0xd2691e, "coral": 0xff7f50,
	"cornflowerblue": 0x6495ed, "cornsilk": 0xfff8dc, "crimson": 0xdc143c,
	"darkblue": 0x00008b, "darkcyan": 0x008b8b, "darkgoldenrod": 0xb8860b,
	"darkgray": 0xa9a9a9, "darkgrey": 0xa9a9a9, "darkgreen": 0x006400, "darkkhaki": 0xbdb76b,
	"darkmagenta": 0x8b008b, "darkolivegreen": 0x556b2f, "darkorange": 0xff8c00,
	"darkorchid": 0x9932cc, "darkred": 0x8b0000, "darksalmon": 0xe9967a,
	"darkseagreen": 0x8fbc8f, "darkslateblue": 0x483d8b, "darkslategray": 0x2f4f4f,
	"darkslategrey": 0x2f4f4f, "darkturquoise": 0x00ced1, "darkviolet": 0x9400d3,
	"deeppink": 0xff1493, "deepskyblue": 0x00bfff, "dimgray": 0x696969, "dimgrey": 0x696969,
	"dodgerblue": 0x1e90ff, "firebrick": 0xb22222, "floralwhite": 0xfffaf0,
	"forestgreen": 0x228b22, "gainsboro": 0xdcdcdc, "ghostwhite": 0xf8f8ff, "gold": 0xffd700,
	"goldenrod": 0xdaa520, "greenyellow": 0xadff2f, "honeydew": 0xf0fff0, "hotpink": 0xff69b4,
	"indianred": 0xcd5c5c, "indigo": 0x4b0082, "ivory": 0xfffff0, "khaki": 0xf0e68c,
	"lavender": 0xe6e6fa, "lavenderblush": 0xfff0f5, "lawngreen": 0x7cfc00,
	"lemonchiffon": 0xfffacd, "lightblue": 0xadd8e6, "lightcoral": 0xf08080,
	"lightcyan": 0xe0ffff, "lightgoldenrodyellow": 0xfafad2, "lightgray": 0xd3d3d3,
	"lightgrey": 0xd3d3d3, "lightgreen": 0x90ee90, "lightpink": 0xffb6c1,
	"lightsalmon": 0xffa07a, "lightseagreen": 0x20b2aa, "lightskyblue": 0x87cefa,
	"lightslategray": 0x778899, "lightslategrey": 0x778899, "lightsteelblue": 0xb0c4de,
	"lightyellow": 0xffffe0, "limegreen": 0x32cd32, "linen": 0xfaf0e6,
	"mediumaquamarine": 0x66cdaa, "mediumblue": 0x0000cd, "mediumorchid": 0xba55d3,
	"mediumpurple": 0x9370db, "mediumseagreen": 0x3cb371, "mediumslateblue": 0x7b68ee,
	"mediumspringgreen": 0x00fa9a, "mediumturquoise": 0x48d1cc, "mediumvioletred": 0xc71585,
	"midnightblue": 0x191970, "mintcream": 0xf5fffa, "mistyrose": 0xffe4e1,
	"moccasin": 0xffe4b5, "navajowhite": 0xffdead, "oldlace": 0xfdf5e6, "olivedrab": 0x6b8e23,
	"orangered": 0xff4500, "orchid": 0xda70d6, "palegoldenrod": 0xeee8aa,
	"palegreen": 0x98fb98, "paleturquoise": 0xafeeee, "palevioletred": 0xdb7093,
	"papayawhip": 0xffefd5, "peachpuff": 0xffdab9, "peru": 0xcd853f, "pink": 0xffc0cb,
	"plum": 0xdda0dd, "powderblue": 0xb0e0e6, "rebeccapurple": 0x663399,
	"rosybrown": 0xbc8f8f, "royalblue": 0x4169e1, "saddlebrown": 0x8b4513, "salmon": 0xfa8072,
	"sandybrown": 0xf4a460, "seagreen": 0x2e8b57, "seashell": 0xfff5ee, "sienna": 0xa0522d,
	"skyblue": 0x87ceeb, "slateblue": 0x6a5acd, "slategray": 0x708090, "slategrey": 0x708090,
	"snow": 0xfffafa, "springgreen": 0x00ff7f, "steelblue": 0x4682b4, "tan": 0xd2b48c,
	"thistle": 0xd8bfd8, "tomato": 0xff6347, "turquoise": 0x40e0d0, "violet": 0xee82ee,
	"wheat": 0xf5deb3, "whitesmoke": 0xf5f5f5, "yellowgreen": 0x9acd32,
}

// ParseColor parses a single colour component: a named colour, a hex
// colour, rgb()/rgba() or hsl()/hsla(). currentcolor is not a colour
// here, callers substitute it.
func ParseColor(v string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return Color{}, false
	}
	if s == "transparent" {
		return Transparent, true
	}
	if rgb, ok := namedColors[s]; ok {
		return Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 1}, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	name, args, ok := splitFunction(s)
	if !ok {
		return Color{}, false
	}
	switch name {
	case "rgb", "rgba":
		return parseRGB(args)
	case "hsl", "hsla":
		return parseHSL(args)
	}
	return Color{}, false
}

// IsColor reports whether v parses as a colour or is currentcolor.
func IsColor(v string) bool {
	if strings.EqualFold(v, "currentcolor") {
		return true
	}
	_, ok := ParseColor(v)
	return ok
}

func parseHex(h string) (Color, bool) {
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Color{}, false
		}
	}
	nib := func(i int) uint8 {
		n, _ := strconv.ParseUint(h[i:i+1], 16, 8)
		return uint8(n * 17)
	}
	byt := func(i int) uint8 {
		n, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint8(n)
	}
	switch len(h) {
	case 3:
		return Color{R: nib(0), G: nib(1), B: nib(2), A: 1}, true
	case 4:
		return Color{R: nib(0), G: nib(1), B: nib(2), A: float64(nib(3)) / 255}, true
	case 6:
		return Color{R: byt(0), G: byt(2), B: byt(4), A: 1}, true
	case 8:
		return Color{R: byt(0), G: byt(2), B: byt(4), A: float64(byt(6)) / 255}, true
	}
	return Color{}, false
}

// splitFunction splits "rgb(1, 2, 3)" into "rgb" and the argument list.
// Both the legacy comma syntax and the space syntax with a slash before
// alpha are accepted.
func splitFunction(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	inner := s[open+1 : len(s)-1]
	inner = strings.NewReplacer(",", " ", "/", " ").Replace(inner)
	return s[:open], strings.Fields(inner), true
}

func parseRGB(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var c Color
	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		n, unit, ok := SplitDimension(args[i])
		if !ok {
			return Color{}, false
		}
		switch unit {
		case "":
		case "%":
			n = n * 255 / 100
		default:
			return Color{}, false
		}
		*dst = clampByte(n)
	}
	c.A = 1
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

func parseHSL(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	h, unit, ok := SplitDimension(args[0])
	if !ok || (unit != "" && unit != "deg") {
		return Color{}, false
	}
	s, su, ok1 := SplitDimension(args[1])
	l, lu, ok2 := SplitDimension(args[2])
	if !ok1 || !ok2 || (su != "%" && su != "") || (lu != "%" && lu != "") {
		return Color{}, false
	}
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s, l = clamp01(s/100), clamp01(l/100)

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hue := func(t float64) float64 {
		switch {
		case t < 0:
			t++
		case t > 1:
			t--
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 0.5:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		}
		return p
	}
	c := Color{
		R: clampByte(hue(h+1.0/3) * 255),
		G: clampByte(hue(h) * 255),
		B: clampByte(hue(h-1.0/3) * 255),
		A: 1,
	}
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

func parseAlpha(v string) (float64, bool) {
	n, unit, ok := SplitDimension(v)
	if !ok {
		return 0, false
	}
	switch unit {
	case "":
		return clamp01(n), true
	case "%":
		return clamp01(n / 100), true
	}
	return 0, false
}

func clampByte(n float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, n))))
}

func clamp01(n float64) float64 {
	return math.Max(0, math.Min(1, n))
}
