package jbig

import (
	"bytes"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

func makeBilevel(t *testing.T, width, height uint32) *sailimage.Image {
	t.Helper()
	img := sailimage.NewSkeleton(width, height, sailimage.BPP1)
	if err := img.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	for y := uint32(0); y < height; y++ {
		row := img.ScanLine(y)
		for i := range row {
			row[i] = byte((i + int(y)) % 7 * 37)
		}
	}
	return img
}

func roundTrip(t *testing.T, img *sailimage.Image, tuning *sailimage.HashMap) *sailimage.Image {
	t.Helper()
	s := iostream.NewExpandingBuffer()
	sv := &saver{}
	if err := sv.Init(s, codec.SaveOptions{Tuning: tuning}); err != nil {
		t.Fatalf("saver Init: %v", err)
	}
	if err := sv.SeekNextFrame(img); err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if err := sv.Frame(img); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if err := sv.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	encoded := iostream.ExpandingBufferBytes(s)
	if !bytes.HasPrefix(encoded, []byte(magic)) {
		t.Fatalf("missing %q magic", magic)
	}

	ld := &loader{}
	if err := ld.Init(iostream.NewFixedMemory(encoded), codec.LoadOptions{}); err != nil {
		t.Fatalf("loader Init: %v", err)
	}
	skel, err := ld.SeekNextFrame()
	if err != nil {
		t.Fatalf("SeekNextFrame: %v", err)
	}
	if err := skel.AllocPixels(); err != nil {
		t.Fatal(err)
	}
	if err := ld.Frame(skel); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return skel
}

func TestJBIGRoundTripNoTypicalPrediction(t *testing.T) {
	img := makeBilevel(t, 32, 17)
	got := roundTrip(t, img, nil)
	if !bytes.Equal(got.Pixels, img.Pixels) {
		t.Fatal("pixel roundtrip mismatch")
	}
}

func TestJBIGRoundTripWithStripingAndTypicalPrediction(t *testing.T) {
	img := makeBilevel(t, 32, 17)
	tuning := sailimage.NewHashMap()
	tuning.Set("jbig-stripe-height", sailimage.NewInt64(4))
	tuning.Set("jbig-typical-prediction", sailimage.NewBool(true))
	got := roundTrip(t, img, tuning)
	if !bytes.Equal(got.Pixels, img.Pixels) {
		t.Fatal("pixel roundtrip mismatch with striping + typical prediction")
	}
}

func TestJBIGRejectsWrongPixelFormat(t *testing.T) {
	img := sailimage.NewSkeleton(4, 4, sailimage.BPP8Indexed)
	sv := &saver{}
	s := iostream.NewExpandingBuffer()
	if err := sv.Init(s, codec.SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := sv.SeekNextFrame(img); err == nil {
		t.Fatal("expected UnsupportedPixelFormat error for non-BPP1 image")
	}
}
