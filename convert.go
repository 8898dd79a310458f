// OKLCH to Display P3 conversion.
//
// The chain is OKLCH -> OKLab -> LMS -> linear sRGB -> XYZ (D65) -> linear
// Display P3. Every stage is a fixed polynomial or 3x3 transform, so each one
// is a plain function over three float64 values. Out-of-gamut results are
// clamped per channel; no hue-preserving gamut mapping is attempted.

package main

import (
	"fmt"
	"math"
)

// clipTolerance is how far outside [0,1] a linear channel may land before the
// result is reported as clipped. The sRGB->XYZ matrix has 7 significant
// digits, which leaves reference white at R=1.000127 in linear P3.
const clipTolerance = 2e-4

// OKLCH is a color in the cylindrical form of OKLab.
// L is in [0,1], C is >= 0, H is in degrees and may be any finite value.
// A is only meaningful when HasAlpha is set.
type OKLCH struct {
	L, C, H  float64
	A        float64
	HasAlpha bool
}

// Sample is a gamma-encoded Display P3 color with linear alpha, every
// channel in [0,1]. Clipped reports that at least one channel was outside
// the P3 gamut before clamping.
type Sample struct {
	R, G, B, A float64
	Clipped    bool
}

// ConversionError is returned when the conversion chain produces a
// non-finite linear component.
type ConversionError struct {
	R, G, B float64
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("color conversion produced a non-finite value (r=%v g=%v b=%v)", e.R, e.G, e.B)
}

// Convert turns c into a gamma-encoded Display P3 sample. Alpha passes
// through untouched and defaults to 1 when c carries none.
func Convert(c OKLCH) (Sample, error) {
	r, g, b, clipped, err := ConvertLinear(c.L, c.C, c.H)
	if err != nil {
		return Sample{}, err
	}
	if clipped {
		Logger().Warn("color out of Display P3 gamut; clipped",
			"l", c.L, "c", c.C, "h", c.H)
	}

	alpha := 1.0
	if c.HasAlpha {
		alpha = c.A
	}
	return Sample{
		R:       srgbEncode(r),
		G:       srgbEncode(g),
		B:       srgbEncode(b),
		A:       alpha,
		Clipped: clipped,
	}, nil
}

// ConvertLinear converts OKLCH coordinates to linear Display P3, clamped to
// [0,1]. The hue is reduced modulo 360 first.
func ConvertLinear(l, c, hDeg float64) (r, g, b float64, clipped bool, err error) {
	h := math.Mod(hDeg, 360)
	if h < 0 {
		h += 360
	}
	h *= math.Pi / 180

	x, y, z := oklabToXYZ(l, c*math.Cos(h), c*math.Sin(h))
	r, g, b = xyzToLinearP3(x, y, z)
	Logger().Debug("linear display p3", "r", r, "g", g, "b", b)

	if !isFinite(r) || !isFinite(g) || !isFinite(b) {
		return 0, 0, 0, false, &ConversionError{R: r, G: g, B: b}
	}

	clipped = outOfGamut(r) || outOfGamut(g) || outOfGamut(b)
	return clamp01(r), clamp01(g), clamp01(b), clipped, nil
}

func oklabToXYZ(l, a, b float64) (x, y, z float64) {
	return linearSRGBToXYZ(lmsToLinearSRGB(oklabToLMS(l, a, b)))
}

// oklabToLMS undoes the cube-root compression of OKLab.
func oklabToLMS(l, a, b float64) (float64, float64, float64) {
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	return lp * lp * lp, mp * mp * mp, sp * sp * sp
}

func lmsToLinearSRGB(l, m, s float64) (r, g, b float64) {
	r = 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

// linearSRGBToXYZ uses the D65 sRGB primaries.
func linearSRGBToXYZ(r, g, b float64) (x, y, z float64) {
	x = 0.4124564*r + 0.3575761*g + 0.1804375*b
	y = 0.2126729*r + 0.7151522*g + 0.0721750*b
	z = 0.0193339*r + 0.1191920*g + 0.9503041*b
	return x, y, z
}

func xyzToLinearP3(x, y, z float64) (r, g, b float64) {
	r = 2.493496911941425*x - 0.9313836179191239*y - 0.40271078445071684*z
	g = -0.8294889695615747*x + 1.7626640603183463*y + 0.023624685841943577*z
	b = 0.03584583024378447*x - 0.07617238926804182*y + 0.9568845240076872*z
	return r, g, b
}

func outOfGamut(v float64) bool {
	return v < -clipTolerance || v > 1+clipTolerance
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
