package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// expanded flattens Expand output into a property -> value map.
func expanded(prop, value string) map[string]string {
	out := make(map[string]string)
	for _, d := range Expand(Declaration{Property: prop, Value: value}) {
		out[d.Property] = d.Value
	}
	return out
}

func TestExpandBox(t *testing.T) {
	tests := []struct {
		value    string
		expected [4]string
	}{
		{"1px", [4]string{"1px", "1px", "1px", "1px"}},
		{"1px 2px", [4]string{"1px", "2px", "1px", "2px"}},
		{"1px 2px 3px", [4]string{"1px", "2px", "3px", "2px"}},
		{"1px 2px 3px 4px", [4]string{"1px", "2px", "3px", "4px"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := expanded("margin", tt.value)
			assert.Equal(t, map[string]string{
				"margin-top":    tt.expected[0],
				"margin-right":  tt.expected[1],
				"margin-bottom": tt.expected[2],
				"margin-left":   tt.expected[3],
			}, got)
		})
	}

	assert.Empty(t, expanded("padding", "1px 2px 3px 4px 5px"))
}

func TestExpandBorder(t *testing.T) {
	got := expanded("border", "2px dashed #f00")
	assert.Len(t, got, 12)
	assert.Equal(t, "2px", got["border-left-width"])
	assert.Equal(t, "dashed", got["border-top-style"])
	assert.Equal(t, "#f00", got["border-bottom-color"])

	got = expanded("border-top", "none")
	assert.Equal(t, map[string]string{
		"border-top-width": "medium",
		"border-top-style": "none",
		"border-top-color": "currentcolor",
	}, got)

	got = expanded("border-color", "red blue")
	assert.Equal(t, "blue", got["border-right-color"])
	assert.Equal(t, "red", got["border-bottom-color"])
}

func TestExpandRadius(t *testing.T) {
	got := expanded("border-radius", "4px 8px / 2px")
	assert.Equal(t, "4px", got["border-top-left-radius"])
	assert.Equal(t, "8px", got["border-top-right-radius"])
	assert.Equal(t, "4px", got["border-bottom-right-radius"])
	assert.Equal(t, "8px", got["border-bottom-left-radius"])
}

func TestExpandListStyle(t *testing.T) {
	assert.Equal(t, map[string]string{
		"list-style-type":     "none",
		"list-style-position": "outside",
		"list-style-image":    "none",
	}, expanded("list-style", "none"))

	got := expanded("list-style", "square inside")
	assert.Equal(t, "square", got["list-style-type"])
	assert.Equal(t, "inside", got["list-style-position"])

	got = expanded("list-style", "none url(dot.png)")
	assert.Equal(t, "none", got["list-style-type"])
	assert.Equal(t, "url(dot.png)", got["list-style-image"])
}

func TestExpandTextDecoration(t *testing.T) {
	got := expanded("text-decoration", "underline dotted red")
	assert.Equal(t, "underline", got["text-decoration-line"])
	assert.Equal(t, "dotted", got["text-decoration-style"])
	assert.Equal(t, "red", got["text-decoration-color"])
	assert.Equal(t, "auto", got["text-decoration-thickness"])

	got = expanded("text-decoration", "underline overline")
	assert.Equal(t, "underline overline", got["text-decoration-line"])

	assert.Equal(t, "none", expanded("text-decoration", "none")["text-decoration-line"])
}

func TestExpandFlex(t *testing.T) {
	tests := []struct {
		value               string
		grow, shrink, basis string
	}{
		{"1", "1", "1", "0%"},
		{"2 3", "2", "3", "0%"},
		{"1 1 200px", "1", "1", "200px"},
		{"100px", "0", "1", "100px"},
		{"none", "0", "0", "auto"},
		{"auto", "1", "1", "auto"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := expanded("flex", tt.value)
			assert.Equal(t, tt.grow, got["flex-grow"])
			assert.Equal(t, tt.shrink, got["flex-shrink"])
			assert.Equal(t, tt.basis, got["flex-basis"])
			// flex is read back verbatim
			assert.Equal(t, tt.value, got["flex"])
		})
	}
}

func TestExpandFont(t *testing.T) {
	got := expanded("font", "italic bold 12px/1.5 \"Helvetica Neue\", Arial, sans-serif")
	assert.Equal(t, "italic", got["font-style"])
	assert.Equal(t, "bold", got["font-weight"])
	assert.Equal(t, "12px", got["font-size"])
	assert.Equal(t, "1.5", got["line-height"])
	assert.Equal(t, "\"Helvetica Neue\", Arial, sans-serif", got["font-family"])

	got = expanded("font", "16px serif")
	assert.Equal(t, "normal", got["font-weight"])
	assert.Equal(t, "normal", got["line-height"])

	// system fonts only keep the shorthand
	assert.Equal(t, map[string]string{"font": "caption"}, expanded("font", "caption"))
}

func TestExpandBackground(t *testing.T) {
	got := expanded("background", "#fff url(bg.png) no-repeat center / cover")
	assert.Equal(t, "#fff", got["background-color"])
	assert.Equal(t, "url(bg.png)", got["background-image"])
	assert.Equal(t, "no-repeat", got["background-repeat"])
	assert.Equal(t, "center", got["background-position"])
	assert.Equal(t, "cover", got["background-size"])

	got = expanded("background", "red")
	assert.Equal(t, "red", got["background-color"])
	assert.Equal(t, "none", got["background-image"])
	assert.Equal(t, "0% 0%", got["background-position"])
}

func TestExpandGrid(t *testing.T) {
	got := expanded("grid-column", "1 / span 2")
	assert.Equal(t, "1", got["grid-column-start"])
	assert.Equal(t, "span 2", got["grid-column-end"])

	got = expanded("grid-area", "a")
	assert.Equal(t, "a", got["grid-row-start"])
	assert.Equal(t, "auto", got["grid-column-end"])
}

func TestExpandPairs(t *testing.T) {
	assert.Equal(t, map[string]string{"overflow-x": "hidden", "overflow-y": "hidden"}, expanded("overflow", "hidden"))
	assert.Equal(t, map[string]string{"row-gap": "1px", "column-gap": "2px"}, expanded("gap", "1px 2px"))
	assert.Equal(t, map[string]string{"row-gap": "4px", "column-gap": "4px"}, expanded("grid-gap", "4px"))
	assert.Equal(t, map[string]string{"flex-direction": "column", "flex-wrap": "wrap", "flex-flow": "column wrap"}, expanded("flex-flow", "column wrap"))
}

func TestExpandGlobalKeyword(t *testing.T) {
	got := expanded("margin", "inherit")
	assert.Len(t, got, 4)
	for _, v := range got {
		assert.Equal(t, "inherit", v)
	}

	got = expanded("font", "inherit")
	assert.Equal(t, "inherit", got["font-family"])
	assert.Equal(t, "inherit", got["font"])
}

func TestExpandLonghandAndAlias(t *testing.T) {
	decls := Expand(Declaration{Property: "Color", Value: "red", Important: true})
	assert.Equal(t, []Declaration{{Property: "color", Value: "red", Important: true}}, decls)

	decls = Expand(Declaration{Property: "overflow-wrap", Value: "break-word"})
	assert.Equal(t, "word-wrap", decls[0].Property)

	for _, d := range Expand(Declaration{Property: "padding", Value: "0", Important: true}) {
		assert.True(t, d.Important)
	}
}

func TestLonghandsOf(t *testing.T) {
	assert.Equal(t, []string{"outline-width", "outline-style", "outline-color"}, LonghandsOf("outline"))
	assert.Len(t, LonghandsOf("font"), 5)
	assert.Nil(t, LonghandsOf("color"))
	assert.True(t, IsShorthand("border-left"))
	assert.False(t, IsShorthand("grid"))
}
