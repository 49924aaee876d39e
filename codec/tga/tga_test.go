package tga

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// tgaHeader builds an 18-byte TGA header with the given fields; width,
// height and descriptor are the ones these tests vary.
func tgaHeader(idLen, colorMapType, imageType byte, firstEntry, elements uint16, entrySize byte, width, height uint16, bpp, descriptor byte) []byte {
	h := make([]byte, 18)
	h[0] = idLen
	h[1] = colorMapType
	h[2] = imageType
	h[3] = byte(firstEntry)
	h[4] = byte(firstEntry >> 8)
	h[5] = byte(elements)
	h[6] = byte(elements >> 8)
	h[7] = entrySize
	h[12] = byte(width)
	h[13] = byte(width >> 8)
	h[14] = byte(height)
	h[15] = byte(height >> 8)
	h[16] = bpp
	h[17] = descriptor
	return h
}

func TestTGAUncompressedTrueColor(t *testing.T) {
	hdr := tgaHeader(0, colorMapAbsent, imageTypeTrueColor, 0, 0, 0, 2, 2, 24, 0)
	// Four BGR pixels, bottom-left origin (descriptor bit 5 unset -> flipped
	// vertically per our corrected semantics).
	pixels := []byte{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	buf := append(append([]byte{}, hdr...), pixels...)

	l := &loader{}
	s := iostream.NewFixedMemory(buf)
	if err := l.Init(s, codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img, err := l.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if img.Width != 2 || img.Height != 2 || img.PixelFormat != sailimage.BPP24BGR {
		t.Fatalf("got %dx%d %v", img.Width, img.Height, img.PixelFormat)
	}
	flipped, ok := img.SourceImage.SpecialProperties.Get("tga-flipped-vertically")
	if !ok || !flipped.Bool() {
		t.Fatalf("expected flipped-vertically to be recorded true")
	}
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := l.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(img.Pixels, pixels) {
		t.Fatalf("pixels = %v, want %v", img.Pixels, pixels)
	}
}

func TestTGAIndexedWithPalette(t *testing.T) {
	hdr := tgaHeader(0, colorMapPresent, imageTypeIndexed, 0, 2, 24, 1, 1, 8, 0)
	// Two 24-bit BGR palette entries, then one index byte.
	palette := []byte{0, 0, 255, 255, 0, 0} // entry0 = red in BGR order, entry1 = blue
	pixels := []byte{1}
	buf := append(append(append([]byte{}, hdr...), palette...), pixels...)

	l := &loader{}
	s := iostream.NewFixedMemory(buf)
	if err := l.Init(s, codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img, err := l.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if img.Palette == nil || img.Palette.ColorCount != 2 {
		t.Fatalf("palette = %+v", img.Palette)
	}
	if got := img.Palette.Color(0); !bytes.Equal(got, []byte{255, 0, 0}) {
		t.Errorf("palette[0] = %v, want RGB {255,0,0}", got)
	}
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := l.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(img.Pixels, pixels) {
		t.Fatalf("pixels = %v, want %v", img.Pixels, pixels)
	}
}

func TestTGARLEDecode(t *testing.T) {
	// One run packet (3 repeats of a single gray byte) + one raw packet of
	// two literal bytes, for an 8bpp grayscale 5x1 image.
	hdr := tgaHeader(0, colorMapAbsent, imageTypeGrayRLE, 0, 0, 0, 5, 1, 8, 0)
	rle := []byte{
		0x80 | 2, 42, // run: count=3, value 42
		0x01, 9, 10, // raw: count=2, literal bytes 9, 10
	}
	buf := append(append([]byte{}, hdr...), rle...)

	l := &loader{}
	s := iostream.NewFixedMemory(buf)
	if err := l.Init(s, codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img, err := l.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := l.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	want := []byte{42, 42, 42, 9, 10}
	if !bytes.Equal(img.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", img.Pixels, want)
	}
}
