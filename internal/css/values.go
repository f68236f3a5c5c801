package css

import (
	"math"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Components splits a property value into its top level components.
// Whitespace separates components, function calls stay whole and a
// top level comma becomes a component of its own.
//
//	"1px solid rgb(0, 0, 0)" -> ["1px", "solid", "rgb(0, 0, 0)"]
func Components(value string) []string {
	lexer := css.NewLexer(parse.NewInputString(value))

	var (
		parts []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			flush()
			return parts
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if depth > 0 {
				cur.WriteByte(' ')
				continue
			}
			flush()
		case css.CommaToken:
			if depth > 0 {
				cur.WriteByte(',')
				continue
			}
			flush()
			parts = append(parts, ",")
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
			cur.Write(data)
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
			cur.Write(data)
		default:
			cur.Write(data)
		}
	}
}

// SplitDimension separates "12.5px" into 12.5 and "px". A bare number
// returns an empty unit, a percentage returns "%".
func SplitDimension(v string) (float64, string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, "", false
	}
	i := 0
	if v[0] == '+' || v[0] == '-' {
		i++
	}
	start := i
	for i < len(v) && (v[i] >= '0' && v[i] <= '9' || v[i] == '.') {
		i++
	}
	if i == start {
		return 0, "", false
	}
	// exponent notation, e.g. 1e3px
	if i+1 < len(v) && (v[i] == 'e' || v[i] == 'E') && (v[i+1] >= '0' && v[i+1] <= '9' || v[i+1] == '-' || v[i+1] == '+') {
		j := i + 2
		for j < len(v) && v[j] >= '0' && v[j] <= '9' {
			j++
		}
		i = j
	}
	n, err := strconv.ParseFloat(v[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(v[i:]), true
}

var absoluteUnits = map[string]float64{
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"q":  96 / 101.6,
}

// LengthToPx converts a length to pixels. fontSize resolves em, rootFontSize
// resolves rem. Percentages, keywords and viewport units are not lengths
// in this sense and report false. A unitless zero is 0px.
func LengthToPx(v string, fontSize, rootFontSize float64) (float64, bool) {
	n, unit, ok := SplitDimension(v)
	if !ok {
		return 0, false
	}
	switch unit {
	case "":
		return 0, n == 0
	case "em":
		return n * fontSize, true
	case "rem":
		return n * rootFontSize, true
	case "ex", "ch":
		return n * fontSize / 2, true
	}
	if f, ok := absoluteUnits[unit]; ok {
		return n * f, true
	}
	return 0, false
}

// FormatPx renders a pixel value the way computed styles report them.
func FormatPx(px float64) string {
	return FormatNumber(px) + "px"
}

// FormatNumber renders a number with at most three decimals.
func FormatNumber(n float64) string {
	n = math.Round(n*1000) / 1000
	if n == 0 {
		n = 0 // drop negative zero
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ComputeLengths rewrites every absolute or font relative length component
// of value to px and leaves everything else untouched.
//
//	"1em 2pt" with fontSize 16 -> "16px 2.667px"
func ComputeLengths(value string, fontSize, rootFontSize float64) string {
	parts := Components(value)
	if len(parts) == 0 {
		return value
	}
	changed := false
	for i, part := range parts {
		if px, ok := LengthToPx(part, fontSize, rootFontSize); ok {
			parts[i] = FormatPx(px)
			changed = true
		} else if c, ok := ParseColor(part); ok {
			parts[i] = c.String()
			changed = true
		}
	}
	if !changed {
		return value
	}
	return Join(parts)
}

// Join reassembles components produced by Components.
func Join(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if p == "," {
			b.WriteString(",")
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

// IsLengthLike reports whether v can appear where a length is expected.
func IsLengthLike(v string) bool {
	if _, unit, ok := SplitDimension(v); ok {
		return unit != ""
	}
	return strings.HasPrefix(v, "calc(") || strings.HasPrefix(v, "var(")
}
