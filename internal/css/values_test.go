package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"border", "1px solid rgb(0, 0, 0)", []string{"1px", "solid", "rgb(0, 0, 0)"}},
		{"extra whitespace", "  0   auto ", []string{"0", "auto"}},
		{"font list", "Arial, sans-serif", []string{"Arial", ",", "sans-serif"}},
		{"url", "url(a.png) no-repeat", []string{"url(a.png)", "no-repeat"}},
		{"nested functions", "calc(100% - (2 * 8px)) 1em", []string{"calc(100% - (2 * 8px))", "1em"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Components(tt.input))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "Arial, sans-serif", Join([]string{"Arial", ",", "sans-serif"}))
	assert.Equal(t, "1px solid", Join([]string{"1px", "solid"}))
}

func TestSplitDimension(t *testing.T) {
	tests := []struct {
		input string
		n     float64
		unit  string
		ok    bool
	}{
		{"12.5px", 12.5, "px", true},
		{"-2EM", -2, "em", true},
		{".5", 0.5, "", true},
		{"50%", 50, "%", true},
		{"1e2px", 100, "px", true},
		{"auto", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, unit, ok := SplitDimension(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.n, n, 1e-9)
				assert.Equal(t, tt.unit, unit)
			}
		})
	}
}

func TestLengthToPx(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"10px", 10, true},
		{"2em", 32, true},
		{"1rem", 20, true},
		{"12pt", 16, true},
		{"1in", 96, true},
		{"2.54cm", 96, true},
		{"0", 0, true},
		{"5", 0, false},
		{"50%", 0, false},
		{"10vw", 0, false},
		{"auto", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			px, ok := LengthToPx(tt.input, 16, 20)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.expected, px, 1e-9)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "2.667", FormatNumber(8.0/3))
	assert.Equal(t, "0", FormatNumber(-0.0001))
	assert.Equal(t, "16px", FormatPx(16))
}

func TestComputeLengths(t *testing.T) {
	assert.Equal(t, "16px 2.667px", ComputeLengths("1em 2pt", 16, 16))
	assert.Equal(t, "0px auto", ComputeLengths("0 auto", 16, 16))
	assert.Equal(t, "50% 10px", ComputeLengths("50% 10px", 16, 16))
	assert.Equal(t, "2px 2px 4px rgb(255, 0, 0)", ComputeLengths("2px 2px 4px red", 16, 16))
	assert.Equal(t, "auto", ComputeLengths("auto", 16, 16))
}

func TestIsLengthLike(t *testing.T) {
	assert.True(t, IsLengthLike("1px"))
	assert.True(t, IsLengthLike("calc(1px + 2em)"))
	assert.False(t, IsLengthLike("0"))
	assert.False(t, IsLengthLike("solid"))
}
