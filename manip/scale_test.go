package manip

import (
	"testing"

	"github.com/ausocean/sail/sailimage"
)

func TestScaleRejectsZeroDimensions(t *testing.T) {
	img := sailimage.NewSkeleton(4, 4, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if _, err := Scale(img, 0, 4, NearestNeighbor); err == nil {
		t.Fatal("Scale with w=0 should fail")
	}
	if _, err := Scale(img, 4, 0, NearestNeighbor); err == nil {
		t.Fatal("Scale with h=0 should fail")
	}
}

func TestScaleNearestNeighborPreservesDimensionsAndMetadata(t *testing.T) {
	img := sailimage.NewSkeleton(4, 4, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	img.Gamma = 2.2
	img.Delay = 40

	out, err := Scale(img, 8, 2, NearestNeighbor)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 8 || out.Height != 2 {
		t.Fatalf("dims = %dx%d, want 8x2", out.Width, out.Height)
	}
	if out.Gamma != img.Gamma {
		t.Fatalf("Gamma = %v, want %v", out.Gamma, img.Gamma)
	}
	if out.Delay != img.Delay {
		t.Fatalf("Delay = %v, want %v", out.Delay, img.Delay)
	}
}

func TestScaleIndexedSourceReturnsIndexed(t *testing.T) {
	img := sailimage.NewSkeleton(4, 4, sailimage.BPP8Indexed)
	pal, err := sailimage.NewPalette(sailimage.BPP24RGB, 4)
	if err != nil {
		t.Fatal(err)
	}
	img.Palette = pal
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}

	out, err := Scale(img, 2, 2, NearestNeighbor)
	if err != nil {
		t.Fatal(err)
	}
	if !sailimage.IsIndexed(out.PixelFormat) {
		t.Fatalf("scaling an indexed source should return an indexed image, got %s", out.PixelFormat)
	}
}
