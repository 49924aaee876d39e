package manip

import (
	"bytes"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/sail/sailimage"
)

func gradientRGB(t *testing.T) *sailimage.Image {
	t.Helper()
	img := sailimage.NewSkeleton(64, 64, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	for y := uint32(0); y < 64; y++ {
		row := img.ScanLine(y)
		for x := uint32(0); x < 64; x++ {
			o := int(x) * 3
			row[o], row[o+1], row[o+2] = byte(x*4), byte(y*4), 128
		}
	}
	return img
}

// TestQuantizeDitherVsNoDither is spec §8.2 E4: quantizing a gradient with
// dither=true and dither=false yields palettes of the same size but
// different pixel buffers.
func TestQuantizeDitherVsNoDither(t *testing.T) {
	src := gradientRGB(t)

	plain, err := Quantize(src, 16, false)
	if err != nil {
		t.Fatal(err)
	}
	dithered, err := Quantize(src, 16, true)
	if err != nil {
		t.Fatal(err)
	}

	if plain.Palette.ColorCount != dithered.Palette.ColorCount {
		t.Fatalf("palette sizes differ: %d vs %d", plain.Palette.ColorCount, dithered.Palette.ColorCount)
	}
	if plain.Palette.ColorCount > 16 {
		t.Fatalf("palette size %d exceeds maxColors 16", plain.Palette.ColorCount)
	}
	if bytes.Equal(plain.Pixels, dithered.Pixels) {
		t.Fatal("dithered and non-dithered quantization should produce different pixel buffers")
	}
}

// TestIndexedRoundTrip is P8: RGB -> indexed(256) -> RGB preserves
// dimensions, with low mean color error given a gradient source.
func TestIndexedRoundTrip(t *testing.T) {
	src := gradientRGB(t)
	indexed, err := Quantize(src, 256, false)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Convert(indexed, sailimage.BPP24RGB)
	if err != nil {
		t.Fatal(err)
	}
	if back.Width != src.Width || back.Height != src.Height {
		t.Fatalf("dims = %dx%d, want %dx%d", back.Width, back.Height, src.Width, src.Height)
	}

	var squaredDiffs []float64
	for y := uint32(0); y < src.Height; y++ {
		srow := src.ScanLine(y)
		drow := back.ScanLine(y)
		for x := uint32(0); x < src.Width*3; x++ {
			diff := float64(srow[x]) - float64(drow[x])
			squaredDiffs = append(squaredDiffs, diff*diff)
		}
	}
	mse := stat.Mean(squaredDiffs, nil)
	const threshold = 400.0 // generous bound for a 256-entry median-cut palette
	if mse > threshold {
		t.Fatalf("round-trip MSE = %.2f, want <= %.2f", mse, threshold)
	}
}

func TestQuantizeRejectsZeroMaxColors(t *testing.T) {
	src := gradientRGB(t)
	if _, err := Quantize(src, 0, false); err == nil {
		t.Fatal("Quantize with maxColors=0 should fail")
	}
}
