// Package colorclass defines the fixed, ordered registry of colour classes
// that a test strip can be sorted into.
package colorclass

import (
	"fmt"
	"image/color"
	"math"
)

// RGB is a display colour used for overlays and reports.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// RGBA returns the colour as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the colour as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Signature is an inclusive box in LAB space. L runs 0..100 and A/B run
// -128..127, the same units the thresholds were tuned in.
type Signature struct {
	LMin int `json:"l_min" yaml:"l_min"`
	LMax int `json:"l_max" yaml:"l_max"`
	AMin int `json:"a_min" yaml:"a_min"`
	AMax int `json:"a_max" yaml:"a_max"`
	BMin int `json:"b_min" yaml:"b_min"`
	BMax int `json:"b_max" yaml:"b_max"`
}

// Sig builds a Signature from the six bounds in table order.
func Sig(lMin, lMax, aMin, aMax, bMin, bMax int) Signature {
	return Signature{LMin: lMin, LMax: lMax, AMin: aMin, AMax: aMax, BMin: bMin, BMax: bMax}
}

// Contains reports whether the LAB triple lies inside the signature.
func (s Signature) Contains(l, a, b int) bool {
	return l >= s.LMin && l <= s.LMax &&
		a >= s.AMin && a <= s.AMax &&
		b >= s.BMin && b <= s.BMax
}

// Valid reports whether every range is ordered. Bounds outside the LAB
// gamut are allowed and simply clamp.
func (s Signature) Valid() bool {
	return s.LMin <= s.LMax && s.AMin <= s.AMax && s.BMin <= s.BMax
}

// CVRange is a Signature expressed in OpenCV 8-bit Lab encoding, where
// L is scaled to 0..255 and A/B are offset by 128.
type CVRange struct {
	Lo [3]uint8
	Hi [3]uint8
}

// CVRange converts the signature to OpenCV 8-bit Lab bounds.
func (s Signature) CVRange() CVRange {
	return CVRange{
		Lo: [3]uint8{scaleL(s.LMin), offsetAB(s.AMin), offsetAB(s.BMin)},
		Hi: [3]uint8{scaleL(s.LMax), offsetAB(s.AMax), offsetAB(s.BMax)},
	}
}

// Contains reports whether an 8-bit Lab pixel lies inside the range.
func (r CVRange) Contains(l, a, b uint8) bool {
	return l >= r.Lo[0] && l <= r.Hi[0] &&
		a >= r.Lo[1] && a <= r.Hi[1] &&
		b >= r.Lo[2] && b <= r.Hi[2]
}

func scaleL(l int) uint8 {
	return clamp8(int(math.Round(float64(l) * 255.0 / 100.0)))
}

func offsetAB(v int) uint8 {
	return clamp8(v + 128)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Class is one labelled colour category. Classes are values and are never
// mutated after the registry is built.
type Class struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Signature Signature `json:"signature" yaml:"signature"`
	Display   RGB       `json:"display" yaml:"display"`
}

// Label returns the "pH7 (green)" form used on overlays and in logs.
func (c Class) Label() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Name)
}
