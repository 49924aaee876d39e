package manip

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/sailimage"
)

func rgbImage(t *testing.T, pixels [][3]byte, w, h uint32) *sailimage.Image {
	t.Helper()
	img := sailimage.NewSkeleton(w, h, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	for i, p := range pixels {
		y := uint32(i) / w
		x := uint32(i) % w
		row := img.ScanLine(y)
		o := int(x) * 3
		row[o], row[o+1], row[o+2] = p[0], p[1], p[2]
	}
	return img
}

// TestConvertIdentityIsPixelIdentical is P5: converting to the same format
// yields a pixel-identical image.
func TestConvertIdentityIsPixelIdentical(t *testing.T) {
	src := rgbImage(t, [][3]byte{{1, 2, 3}, {4, 5, 6}}, 2, 1)
	out, err := Convert(src, sailimage.BPP24RGB)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Pixels, src.Pixels) {
		t.Fatal("Convert to the same format should be pixel-identical")
	}
}

// TestConvertPreservesDimensions is P6.
func TestConvertPreservesDimensions(t *testing.T) {
	src := rgbImage(t, [][3]byte{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}}, 2, 2)
	src.Resolution = &sailimage.Resolution{X: 72, Y: 72, Unit: sailimage.ResolutionUnitInch}
	out, err := Convert(src, sailimage.BPP32RGBA)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != src.Width || out.Height != src.Height {
		t.Fatalf("dims = %dx%d, want %dx%d", out.Width, out.Height, src.Width, src.Height)
	}
	if out.Resolution == nil || *out.Resolution != *src.Resolution {
		t.Fatal("Convert should preserve Resolution")
	}
}

// TestRGBGrayRoundTrip is P7: convert(convert(rgb, gray8), rgb24) preserves
// dimensions and channel values for a pixel already on the gray diagonal
// (where the round trip is lossless).
func TestRGBGrayRoundTrip(t *testing.T) {
	src := rgbImage(t, [][3]byte{{128, 128, 128}, {0, 0, 0}, {255, 255, 255}}, 3, 1)
	gray, err := Convert(src, sailimage.BPP8Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Convert(gray, sailimage.BPP24RGB)
	if err != nil {
		t.Fatal(err)
	}
	if back.Width != src.Width || back.Height != src.Height {
		t.Fatalf("dims = %dx%d, want %dx%d", back.Width, back.Height, src.Width, src.Height)
	}
	if !bytes.Equal(back.Pixels, src.Pixels) {
		t.Fatalf("round trip through gray8 of a gray-diagonal image should be lossless: got %v, want %v", back.Pixels, src.Pixels)
	}
}

// TestCMYKFromRed is spec §8.2 E3.
func TestCMYKFromRed(t *testing.T) {
	src := rgbImage(t, [][3]byte{{255, 0, 0}, {0, 0, 0}}, 2, 1)
	out, err := Convert(src, sailimage.BPP32CMYK)
	if err != nil {
		t.Fatal(err)
	}
	p0 := out.ScanLine(0)[0:4]
	if p0[0] != 0 || p0[1] < 250 || p0[2] < 250 || p0[3] != 0 {
		t.Errorf("pixel 0 CMYK = %v, want C=0, M>=250, Y>=250, K=0", p0)
	}
	p1 := out.ScanLine(0)[4:8]
	if p1[0] != 0 || p1[1] != 0 || p1[2] != 0 || p1[3] != 255 {
		t.Errorf("pixel 1 CMYK = %v, want (0,0,0,255)", p1)
	}
}

// TestConvertRGBAlphaAddIsOpaque: RGB -> RGBA sets alpha to opaque.
func TestConvertRGBAlphaAddIsOpaque(t *testing.T) {
	src := rgbImage(t, [][3]byte{{10, 20, 30}}, 1, 1)
	out, err := Convert(src, sailimage.BPP32RGBA)
	if err != nil {
		t.Fatal(err)
	}
	p := out.ScanLine(0)
	if p[0] != 10 || p[1] != 20 || p[2] != 30 || p[3] != 255 {
		t.Fatalf("RGBA pixel = %v, want (10,20,30,255)", p)
	}
}

// TestConvertRGBADropsAlphaStraight: RGBA -> RGB drops alpha without
// un-premultiplying (spec §4.7.1).
func TestConvertRGBADropsAlphaStraight(t *testing.T) {
	img := sailimage.NewSkeleton(1, 1, sailimage.BPP32RGBA)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	copy(img.Pixels, []byte{200, 100, 50, 10})

	out, err := Convert(img, sailimage.BPP24RGB)
	if err != nil {
		t.Fatal(err)
	}
	p := out.ScanLine(0)
	if p[0] != 200 || p[1] != 100 || p[2] != 50 {
		t.Fatalf("RGB pixel = %v, want (200,100,50) (straight alpha drop, no un-premultiply)", p)
	}
}

// TestConvertIndexedToRGBClampsOutOfRangeIndex: invalid indices clamp to
// the last palette entry (spec §4.7.1).
func TestConvertIndexedToRGBClampsOutOfRangeIndex(t *testing.T) {
	img := sailimage.NewSkeleton(1, 1, sailimage.BPP8Indexed)
	pal, err := sailimage.NewPalette(sailimage.BPP24RGB, 2)
	if err != nil {
		t.Fatal(err)
	}
	pal.Data[0], pal.Data[1], pal.Data[2] = 1, 2, 3
	pal.Data[3], pal.Data[4], pal.Data[5] = 4, 5, 6
	img.Palette = pal
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	img.Pixels[0] = 200 // out of range; should clamp to palette[1]

	out, err := Convert(img, sailimage.BPP24RGB)
	if err != nil {
		t.Fatal(err)
	}
	p := out.ScanLine(0)
	if p[0] != 4 || p[1] != 5 || p[2] != 6 {
		t.Fatalf("clamped pixel = %v, want (4,5,6)", p)
	}
}
