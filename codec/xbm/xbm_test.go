package xbm

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/iostream"
)

func TestXBMVersion11(t *testing.T) {
	src := "#define test_width 16\n" +
		"#define test_height 1\n" +
		"static char test_bits[] = {\n" +
		"0x1c, 0xff\n" +
		"};\n"

	l := &loader{}
	if err := l.Init(iostream.NewFixedMemory([]byte(src)), codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img, err := l.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if img.Width != 16 || img.Height != 1 {
		t.Fatalf("got %dx%d", img.Width, img.Height)
	}
	if l.ver != version11 {
		t.Fatalf("detected version %d, want v1.1", l.ver)
	}
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := l.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	want := []byte{reverseByte(0x1c), reverseByte(0xff)}
	if !bytes.Equal(img.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", img.Pixels, want)
	}
}

func TestXBMVersion10EmitsBothBytes(t *testing.T) {
	src := "#define icon_width 16\n" +
		"#define icon_height 1\n" +
		"static short icon_bits[] = {\n" +
		"0x1234\n" +
		"};\n"

	l := &loader{}
	if err := l.Init(iostream.NewFixedMemory([]byte(src)), codec.LoadOptions{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	img, err := l.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if l.ver != version10 {
		t.Fatalf("detected version %d, want v1.0", l.ver)
	}
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := l.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	// 0x1234 -> low byte 0x34, high byte 0x12, each bit-reversed.
	want := []byte{reverseByte(0x34), reverseByte(0x12)}
	if !bytes.Equal(img.Pixels, want) {
		t.Fatalf("pixels = %v, want %v", img.Pixels, want)
	}
}

func TestReverseByte(t *testing.T) {
	cases := map[byte]byte{
		0x00: 0x00,
		0xFF: 0xFF,
		0x01: 0x80,
		0x80: 0x01,
		0x0F: 0xF0,
	}
	for in, want := range cases {
		if got := reverseByte(in); got != want {
			t.Errorf("reverseByte(%#02x) = %#02x, want %#02x", in, got, want)
		}
	}
}
