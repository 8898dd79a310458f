package main

import (
	"io"
	"testing"
)

func BenchmarkConvert(b *testing.B) {
	c := OKLCH{L: 0.7, C: 0.15, H: 145}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Convert(c); err != nil {
			b.Fatalf("convert failed: %v", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	s := Sample{R: 0.25, G: 0.5, B: 0.75, A: 0.5}

	for _, bc := range []struct {
		name string
		opts Options
	}{
		{"rgb8", Options{BitDepth: 8}},
		{"rgba16", Options{BitDepth: 16, IncludeAlpha: true}},
	} {
		b.Run(bc.name+"/pooled", func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := Encode(io.Discard, s, bc.opts); err != nil {
					b.Fatalf("encode failed: %v", err)
				}
			}
		})
		b.Run(bc.name+"/reused", func(b *testing.B) {
			e := NewEncoder()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := e.EncodeTo(io.Discard, s, bc.opts); err != nil {
					b.Fatalf("encode failed: %v", err)
				}
			}
		})
	}
}
