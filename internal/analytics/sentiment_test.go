package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolarity(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"the package arrived", 0},
		{"good", 0.7},
		{"Very good", 0.91},
		{"super", 0.33},
		{"super good", 0.91},
		{"not good", -0.35},
		{"it isn't bad", 0.35},
		{"good bad", 0},
		{"extremely excellent", 1},
		{"not good, great", 0.225},
		{"TERRIBLE", -1},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.InDelta(t, tc.want, Polarity(tc.text), 1e-9)
		})
	}
}

func TestPolarity_Bounded(t *testing.T) {
	for _, text := range []string{
		"absolutely extremely incredibly perfect",
		"never never never awful",
		"really really really really terrible",
	} {
		p := Polarity(text)
		assert.GreaterOrEqual(t, p, -1.0, text)
		assert.LessOrEqual(t, p, 1.0, text)
	}
}
