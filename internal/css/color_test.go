package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"named", "red", "rgb(255, 0, 0)", true},
		{"named mixed case", "RebeccaPurple", "rgb(102, 51, 153)", true},
		{"hex short", "#0f0", "rgb(0, 255, 0)", true},
		{"hex long", "#336699", "rgb(51, 102, 153)", true},
		{"hex with alpha", "#00000080", "rgba(0, 0, 0, 0.502)", true},
		{"rgb commas", "rgb(1, 2, 3)", "rgb(1, 2, 3)", true},
		{"rgba fraction", "rgba(0,0,255,.5)", "rgba(0, 0, 255, 0.5)", true},
		{"rgb space syntax", "rgb(10 20 30 / 50%)", "rgba(10, 20, 30, 0.5)", true},
		{"rgb percentages", "rgb(100%, 0%, 0%)", "rgb(255, 0, 0)", true},
		{"hsl", "hsl(120, 100%, 50%)", "rgb(0, 255, 0)", true},
		{"transparent", "transparent", "rgba(0, 0, 0, 0)", true},
		{"opaque alpha", "rgba(1, 2, 3, 1)", "rgb(1, 2, 3)", true},
		{"unknown name", "nope", "", false},
		{"bad hex", "#12345", "", false},
		{"currentcolor is not a colour", "currentcolor", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, c.String())
			}
		})
	}
}

func TestIsColor(t *testing.T) {
	assert.True(t, IsColor("currentColor"))
	assert.True(t, IsColor("#fff"))
	assert.False(t, IsColor("solid"))
	assert.False(t, IsColor("1px"))
}
