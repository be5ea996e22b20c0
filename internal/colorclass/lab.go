package colorclass

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LabOf converts an sRGB colour to LAB in table units (L 0..100, A/B
// roughly -128..127). Fully transparent colours convert as black.
func LabOf(c color.Color) (l, a, b float64) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0, 0, 0
	}
	l, a, b = cf.Lab()
	return l * 100, a * 100, b * 100
}

// Matching returns, in registry order, every class whose signature
// contains the colour. Overlapping tables routinely return several.
func (s *Set) Matching(c color.Color) []Class {
	l, a, b := LabOf(c)
	li, ai, bi := int(math.Round(l)), int(math.Round(a)), int(math.Round(b))

	var out []Class
	for _, cl := range s.classes {
		if cl.Signature.Contains(li, ai, bi) {
			out = append(out, cl)
		}
	}
	return out
}
