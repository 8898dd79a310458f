package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"fortio.org/safecast"
)

// clamp01 clamps v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// srgbEncode applies the sRGB transfer function to a linear value in [0,1].
// Display P3 shares this curve.
func srgbEncode(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// maxSample returns the largest sample value for a PNG bit depth.
func maxSample(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8:
		return math.MaxUint8, nil
	case 16:
		return math.MaxUint16, nil
	}
	return 0, fmt.Errorf("bit depth must be 8 or 16, got %d", bitDepth)
}

// quantize maps v in [0,1] to the nearest integer sample of the given depth,
// rounding halves away from zero.
func quantize(v float64, bitDepth int) (uint16, error) {
	m, err := maxSample(bitDepth)
	if err != nil {
		return 0, err
	}
	return safecast.Round[uint16](clamp01(v) * m)
}

// appendSample appends one quantized sample, big-endian for 16-bit depth.
func appendSample(buf []byte, v float64, bitDepth int) ([]byte, error) {
	q, err := quantize(v, bitDepth)
	if err != nil {
		return buf, err
	}
	if bitDepth == 16 {
		return binary.BigEndian.AppendUint16(buf, q), nil
	}
	b, err := safecast.Conv[uint8](q)
	if err != nil {
		return buf, err
	}
	return append(buf, b), nil
}
