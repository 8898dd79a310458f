package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseLightness accepts either 0..1 or a percentage such as "62.5%".
func parseLightness(s string) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := parseFloat(pct, "L%")
		if err != nil {
			return 0, err
		}
		if v < 0 || v > 100 {
			return 0, errors.New("L% must be between 0 and 100")
		}
		return v / 100, nil
	}

	v, err := parseFloat(s, "L")
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, errors.New("L must be between 0 and 1 (or use %)")
	}
	return v, nil
}

func parseNonNegative(s, name string) (float64, error) {
	v, err := parseFloat(s, name)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return v, nil
}

func parseUnitRange(s, name string) (float64, error) {
	v, err := parseFloat(s, name)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1", name)
	}
	return v, nil
}

func parseFloat(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite", name)
	}
	return v, nil
}

func parseBitDepth(n int) (int, error) {
	if n != 8 && n != 16 {
		return 0, errors.New("bit depth must be 8 or 16")
	}
	return n, nil
}

// parseColor turns the positional arguments L C H [A] into an OKLCH value.
func parseColor(args []string) (OKLCH, error) {
	var c OKLCH
	var err error
	if c.L, err = parseLightness(args[0]); err != nil {
		return OKLCH{}, err
	}
	if c.C, err = parseNonNegative(args[1], "C"); err != nil {
		return OKLCH{}, err
	}
	if c.H, err = parseFloat(args[2], "H"); err != nil {
		return OKLCH{}, err
	}
	c.A = 1
	if len(args) > 3 {
		if c.A, err = parseUnitRange(args[3], "A"); err != nil {
			return OKLCH{}, err
		}
		c.HasAlpha = true
	}
	return c, nil
}

// defaultOutputName formats "oklch(L C H).png", or "oklch(L C H ∕ A).png"
// when alpha is present. The separator is U+2215 since '/' cannot appear in
// a file name.
func defaultOutputName(c OKLCH) string {
	if c.HasAlpha {
		return fmt.Sprintf("oklch(%s %s %s ∕ %s).png",
			formatComponent(c.L), formatComponent(c.C), formatComponent(c.H), formatComponent(c.A))
	}
	return fmt.Sprintf("oklch(%s %s %s).png",
		formatComponent(c.L), formatComponent(c.C), formatComponent(c.H))
}

// formatComponent prints the shortest decimal that round-trips, never in
// exponent form. Negative zero prints as "0".
func formatComponent(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
