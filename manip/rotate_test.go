package manip

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/sailimage"
)

// make4x3 builds the 4x3 BPP24_RGB pattern from spec §8.2 E6: pixel
// (row, col) = ((row*4+col) % 256) triplicated across R, G, B.
func make4x3(t *testing.T) *sailimage.Image {
	t.Helper()
	img := sailimage.NewSkeleton(4, 3, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	for row := 0; row < 3; row++ {
		r := img.ScanLine(uint32(row))
		for col := 0; col < 4; col++ {
			v := byte((row*4 + col) % 256)
			o := col * 3
			r[o], r[o+1], r[o+2] = v, v, v
		}
	}
	return img
}

func pixelAt(img *sailimage.Image, row, col int) []byte {
	r := img.ScanLine(uint32(row))
	return r[col*3 : col*3+3]
}

// TestRotate270 is spec §8.2 E6.
func TestRotate270(t *testing.T) {
	src := make4x3(t)
	out, err := Rotate(src, Angle270)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 3 || out.Height != 4 {
		t.Fatalf("rotated dims = %dx%d, want 3x4", out.Width, out.Height)
	}
	if !bytes.Equal(pixelAt(out, 0, 0), pixelAt(src, 0, 3)) {
		t.Error("output (row=0,col=0) should equal input (row=0,col=3)")
	}
	if !bytes.Equal(pixelAt(out, 3, 0), pixelAt(src, 0, 0)) {
		t.Error("output (row=3,col=0) should equal input (row=0,col=0)")
	}
}

// TestRotationClosure is P9: four successive 90-degree rotations restore
// the original pixel bytes exactly.
func TestRotationClosure(t *testing.T) {
	src := make4x3(t)
	img := src
	var err error
	for i := 0; i < 4; i++ {
		img, err = Rotate(img, Angle90)
		if err != nil {
			t.Fatalf("rotation %d: %v", i, err)
		}
	}
	if img.Width != src.Width || img.Height != src.Height {
		t.Fatalf("dims after 4x90deg = %dx%d, want %dx%d", img.Width, img.Height, src.Width, src.Height)
	}
	if !bytes.Equal(img.Pixels, src.Pixels) {
		t.Fatal("four successive 90-degree rotations should restore the original pixels")
	}
}

func TestRotate180MatchesInPlace(t *testing.T) {
	src := make4x3(t)
	viaRotate, err := Rotate(src, Angle180)
	if err != nil {
		t.Fatal(err)
	}

	inPlace := src.Copy()
	if err := RotateInPlace180(inPlace); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(viaRotate.Pixels, inPlace.Pixels) {
		t.Fatal("Rotate(180) and RotateInPlace180 should produce identical pixels")
	}
}

func TestRotateRejectsSubBytePixelFormat(t *testing.T) {
	img := sailimage.NewSkeleton(8, 8, sailimage.BPP1Grayscale)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if _, err := Rotate(img, Angle90); err == nil {
		t.Fatal("Rotate on a sub-byte pixel format should fail")
	}
}
