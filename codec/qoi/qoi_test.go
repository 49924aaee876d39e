package qoi

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// makeRGBA builds a small, deliberately varied image exercising most QOI
// opcodes: runs (repeated pixels), a diff (small step), a luma jump, index
// hits, and a couple of RGBA pixels with varying alpha. No pixel needs
// QOI_OP_RGB.
func makeRGBA() *sailimage.Image {
	img := sailimage.NewSkeleton(4, 2, sailimage.BPP32RGBA)
	if err := img.AllocPixels(); err != nil {
		panic(err)
	}
	set := func(x, y int, r, g, b, a byte) {
		row := img.ScanLine(uint32(y))
		o := x * 4
		row[o], row[o+1], row[o+2], row[o+3] = r, g, b, a
	}
	set(0, 0, 10, 10, 10, 255)
	set(1, 0, 10, 10, 10, 255)
	set(2, 0, 11, 11, 11, 255)
	set(3, 0, 11, 11, 11, 128)
	set(0, 1, 200, 50, 60, 255)
	set(1, 1, 200, 50, 60, 255)
	set(2, 1, 0, 0, 0, 0)
	set(3, 1, 10, 10, 10, 255)
	return img
}

func TestQOIEncodeDecodeRoundTrip(t *testing.T) {
	src := makeRGBA()

	s := iostream.NewExpandingBuffer()
	sv := &saver{}
	if err := sv.Init(s, codec.SaveOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := sv.SeekNextFrame(src); err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if err := sv.Frame(src); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if err := sv.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	encoded := iostream.ExpandingBufferBytes(s)
	if !bytes.HasPrefix(encoded, []byte(magic)) {
		t.Fatalf("encoded stream missing %q magic", magic)
	}

	ld := &loader{}
	in := iostream.NewFixedMemory(encoded)
	if err := ld.Init(in, codec.LoadOptions{}); err != nil {
		t.Fatalf("loader Init: %v", err)
	}
	skel, err := ld.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if skel.Width != src.Width || skel.Height != src.Height || skel.PixelFormat != src.PixelFormat {
		t.Fatalf("skeleton mismatch: got %dx%d %v, want %dx%d %v",
			skel.Width, skel.Height, skel.PixelFormat, src.Width, src.Height, src.PixelFormat)
	}
	if err := skel.AllocPixels(); err != nil {
		t.Fatalf("AllocPixels: %v", err)
	}
	if err := ld.Frame(skel); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(skel.Pixels, src.Pixels) {
		t.Fatalf("pixel roundtrip mismatch:\ngot  %v\nwant %v", skel.Pixels, src.Pixels)
	}
	if _, err := ld.SeekNextFrame(); err == nil {
		t.Fatal("expected NoMoreFrames on second SeekNextFrame")
	}
}

func TestQOIHash(t *testing.T) {
	p := qoiPixel{r: 10, g: 20, b: 30, a: 255}
	got := hash(p)
	want := (p.r*3 + p.g*5 + p.b*7 + p.a*11) % 64
	if got != want {
		t.Errorf("hash(%v) = %d, want %d", p, got, want)
	}
}
