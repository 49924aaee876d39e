package wal

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// buildWAL assembles a minimal, valid WAL file: header with 4 mip offsets
// followed by the 4 mip images' raw index bytes (2x2, 1x1, ...actually WAL
// mips halve down from the base, so we use an 8x8 base for clean halving).
func buildWAL(name string) []byte {
	const headerSize = 32 + 8 + 16 + 32 + 12
	width, height := uint32(8), uint32(8)

	var mips [][]byte
	w, h := width, height
	for i := 0; i < mipLevels; i++ {
		mips = append(mips, bytes.Repeat([]byte{byte(i + 1)}, int(w*h)))
		w /= 2
		h /= 2
	}

	buf := make([]byte, headerSize)
	copy(buf[:32], name)
	le := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	le(32, width)
	le(36, height)

	offsets := make([]uint32, mipLevels)
	cur := uint32(headerSize)
	for i, m := range mips {
		offsets[i] = cur
		cur += uint32(len(m))
	}
	for i, o := range offsets {
		le(40+i*4, o)
	}

	full := append([]byte{}, buf...)
	for _, m := range mips {
		full = append(full, m...)
	}
	return full
}

func TestWALFourMipLevels(t *testing.T) {
	data := buildWAL("test_texture")

	l := &loader{}
	s := iostream.NewFixedMemory(data)
	if err := l.Init(s, codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	wantDims := [][2]uint32{{8, 8}, {4, 4}, {2, 2}, {1, 1}}
	for i, dims := range wantDims {
		img, err := l.SeekNextFrame()
		if err != nil {
			t.Fatalf("frame %d SeekNextFrame: %v", i, err)
		}
		if img.Width != dims[0] || img.Height != dims[1] {
			t.Fatalf("frame %d dims = %dx%d, want %dx%d", i, img.Width, img.Height, dims[0], dims[1])
		}
		if img.PixelFormat != sailimage.BPP8Indexed || img.Palette == nil || img.Palette.ColorCount != 256 {
			t.Fatalf("frame %d: unexpected pixel format/palette", i)
		}
		if err := img.AllocPixels(); err != nil {
			t.Fatal(err)
		}
		if err := l.Frame(img); err != nil {
			t.Fatalf("frame %d Frame: %v", i, err)
		}
		want := bytes.Repeat([]byte{byte(i + 1)}, int(dims[0]*dims[1]))
		if !bytes.Equal(img.Pixels, want) {
			t.Fatalf("frame %d pixels = %v, want %v", i, img.Pixels, want)
		}
	}

	if _, err := l.SeekNextFrame(); err == nil {
		t.Fatal("expected NoMoreFrames after 4 mip levels")
	}
}

func TestQuake2PaletteSharedButIndependent(t *testing.T) {
	p1 := quake2Palette()
	p2 := quake2Palette()
	p1.Data[0] = 0xFF
	if p2.Data[0] == 0xFF {
		t.Fatal("quake2Palette() should return independently owned copies")
	}
}
