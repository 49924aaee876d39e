package sailimage

import "testing"

func TestBitsPerPixelIsTotalAndFrozen(t *testing.T) {
	// A handful of frozen values (spec: "binary values of existing variants
	// are frozen, tested for backward compatibility").
	cases := map[PixelFormat]int{
		BPP1:          1,
		BPP8Indexed:   8,
		BPP24RGB:      24,
		BPP32RGBA:     32,
		PixelFormat(99999): 0, // out-of-range formats are total: they return 0, not panic.
	}
	for pf, want := range cases {
		if got := BitsPerPixel(pf); got != want {
			t.Errorf("BitsPerPixel(%v) = %d, want %d", pf, got, want)
		}
	}
}

func TestBytesPerLineRoundsUp(t *testing.T) {
	cases := []struct {
		width uint32
		pf    PixelFormat
		want  uint32
	}{
		{8, BPP1, 1},
		{9, BPP1, 2},   // 9 bits -> 2 bytes, no padding beyond ceil
		{4, BPP24RGB, 12},
		{1, BPP32RGBA, 4},
	}
	for _, c := range cases {
		if got := BytesPerLine(c.width, c.pf); got != c.want {
			t.Errorf("BytesPerLine(%d, %v) = %d, want %d", c.width, c.pf, got, c.want)
		}
	}
}

func TestIsIndexed(t *testing.T) {
	if !IsIndexed(BPP8Indexed) {
		t.Error("BPP8Indexed should be indexed")
	}
	if IsIndexed(BPP24RGB) {
		t.Error("BPP24RGB should not be indexed")
	}
}

func TestPixelFormatStringNeverEmpty(t *testing.T) {
	for _, pf := range []PixelFormat{Unknown, BPP1, BPP24RGB, BPP32RGBA, BPP8Indexed} {
		if s := pf.String(); s == "" {
			t.Errorf("PixelFormat(%d).String() is empty", pf)
		}
	}
}

func TestOrientationAndCompressionStrings(t *testing.T) {
	if OrientationNormal.String() == "" {
		t.Error("OrientationNormal.String() is empty")
	}
	if CompressionNone.String() == "" {
		t.Error("CompressionNone.String() is empty")
	}
}
