package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectorTexts(sheet *Stylesheet) []string {
	var out []string
	for _, r := range sheet.Rules {
		out = append(out, r.Text)
	}
	return out
}

func TestParseRules(t *testing.T) {
	p := NewParser()
	sheet := p.Parse(`
		p { color: red; margin: 0 auto !important }
		.a, #b > span { padding: 1px; --custom: 3px }
		span::before { content: "x" }
		.empty { }
	`, OriginAuthor)

	require.Len(t, sheet.Rules, 3)
	assert.Equal(t, []string{"p", ".a", "#b > span"}, selectorTexts(sheet))

	p0 := sheet.Rules[0]
	assert.Equal(t, OriginAuthor, p0.Origin)
	assert.Equal(t, Specificity{Elements: 1}, p0.Specificity)
	require.Len(t, p0.Declarations, 2)
	assert.Equal(t, Declaration{Property: "color", Value: "red"}, p0.Declarations[0])
	assert.Equal(t, Declaration{Property: "margin", Value: "0 auto", Important: true}, p0.Declarations[1])

	assert.Equal(t, Specificity{Classes: 1}, sheet.Rules[1].Specificity)
	assert.Equal(t, Specificity{IDs: 1, Elements: 1}, sheet.Rules[2].Specificity)
	// custom properties are dropped
	assert.Len(t, sheet.Rules[1].Declarations, 1)

	for i, r := range sheet.Rules {
		assert.Equal(t, i, r.SourceOrder)
	}
}

func TestParseMedia(t *testing.T) {
	p := NewParser(WithViewportWidth(800))
	sheet := p.Parse(`
		@media print { .print { color: red } }
		@media screen and (min-width: 600px) { .wide { color: red } }
		@media (max-width: 480px) { .narrow { color: red } }
		@media not print { .notprint { color: red } }
		@media all and (orientation: landscape) { .landscape { color: red } }
		@supports (display: grid) { .grid { display: grid } }
		@font-face { font-family: x; src: url(x.woff) }
	`, OriginAuthor)

	assert.Equal(t, []string{".wide", ".notprint", ".landscape", ".grid"}, selectorTexts(sheet))
}

func TestParseInvalidSelectorSkipped(t *testing.T) {
	p := NewParser()
	sheet := p.Parse(`a:hover:unknown-thing(( { color: red } b { color: blue }`, OriginAuthor)
	for _, r := range sheet.Rules {
		assert.NotContains(t, r.Text, "unknown")
	}
}

func TestParseEmpty(t *testing.T) {
	p := NewParser()
	assert.True(t, p.Parse("", OriginAuthor).Empty())
	assert.True(t, p.Parse("   \n ", OriginAuthor).Empty())
}

func TestParseInlineStyle(t *testing.T) {
	p := NewParser()
	decls := p.ParseInlineStyle("COLOR: red; font-weight: bold !important")
	assert.Equal(t, []Declaration{
		{Property: "color", Value: "red"},
		{Property: "font-weight", Value: "bold", Important: true},
	}, decls)
	assert.Nil(t, p.ParseInlineStyle("  "))

	tests := []struct {
		style string
		want  []Declaration
	}{
		{"color: blue", []Declaration{{Property: "color", Value: "blue"}}},
		{"  color: blue  ", []Declaration{{Property: "color", Value: "blue"}}},
		{"color: blue;", []Declaration{{Property: "color", Value: "blue"}}},
		{"border:1px solid red", []Declaration{{Property: "border", Value: "1px solid red"}}},
		{"margin-top: 5px; color: red", []Declaration{
			{Property: "margin-top", Value: "5px"},
			{Property: "color", Value: "red"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ParseInlineStyle(tt.style))
		})
	}
}

func TestStylesheetAppend(t *testing.T) {
	p := NewParser()
	ua := p.Parse("p { margin: 0 } div { margin: 0 }", OriginUserAgent)
	author := p.Parse(".x { color: red }", OriginAuthor)

	merged := &Stylesheet{}
	merged.Append(ua)
	merged.Append(author)
	merged.Append(nil)

	require.Len(t, merged.Rules, 3)
	assert.Equal(t, 2, merged.Rules[2].SourceOrder)
	assert.Equal(t, OriginUserAgent, merged.Rules[0].Origin)
	assert.Equal(t, OriginAuthor, merged.Rules[2].Origin)
}

func TestSpecificityCompare(t *testing.T) {
	id := Specificity{IDs: 1}
	classes := Specificity{Classes: 5}
	inline := SpecificityFromInline(false)

	assert.Equal(t, 1, id.Compare(classes))
	assert.Equal(t, -1, classes.Compare(id))
	assert.Equal(t, 1, inline.Compare(id))
	assert.Equal(t, 0, id.Compare(Specificity{IDs: 1}))
	assert.Equal(t, 1, Specificity{Important: true}.Compare(inline))
	assert.Equal(t, "(0,1,0,0)", id.String())
}
