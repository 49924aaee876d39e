package sail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/sailimage"
)

func solidGray(w, h uint32, v byte) *sailimage.Image {
	img := sailimage.NewSkeleton(w, h, sailimage.BPP24RGB)
	if err := img.AllocPixels(); err != nil {
		panic(err)
	}
	for y := uint32(0); y < h; y++ {
		row := img.ScanLine(y)
		for i := range row {
			row[i] = v
		}
	}
	return img
}

// TestPNGJuniorRoundTrip is spec §8.2 E2.
func TestPNGJuniorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmp.png")

	src := solidGray(10, 10, 128)
	if err := SaveToFile(path, src); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	out, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if out.Width != 10 || out.Height != 10 {
		t.Fatalf("dims = %dx%d, want 10x10", out.Width, out.Height)
	}
	if out.PixelFormat != sailimage.BPP24RGB {
		t.Fatalf("pixel format = %s, want BPP24_RGB", out.PixelFormat)
	}
	for y := uint32(0); y < out.Height; y++ {
		row := out.ScanLine(y)
		for _, b := range row {
			if b != 128 {
				t.Fatalf("pixel byte = %d, want 128", b)
			}
		}
	}
}

// TestProbeJPEGMagicNumber is spec §8.2 E1.
func TestProbeJPEGMagicNumber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.bin")
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := DefaultRegistry.FromMagicNumberPath(path)
	if err != nil {
		t.Fatalf("FromMagicNumberPath: %v", err)
	}
	if info == nil {
		t.Fatal("expected a codec match for the JPEG SOI marker")
	}
	if info.Name != "JPEG" {
		t.Fatalf("Name = %q, want JPEG", info.Name)
	}
	if !containsString(info.Extensions, "jpg") || !containsString(info.Extensions, "jpeg") {
		t.Fatalf("Extensions = %v, want to contain jpg and jpeg", info.Extensions)
	}
	if !containsString(info.MIMETypes, "image/jpeg") {
		t.Fatalf("MIMETypes = %v, want to contain image/jpeg", info.MIMETypes)
	}
}

func containsString(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

// TestLoadFromFileRejectsUnknownCodec exercises the CodecNotFound path when
// neither a hint nor a magic-number match resolves a codec.
func TestLoadFromFileRejectsUnknownCodec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.bin")
	if err := os.WriteFile(path, []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected an error loading a file with no recognizable codec")
	}
}

// TestSaveToMemoryDeepRoundTrip exercises the Deep façade's
// save-to-memory path end to end.
func TestSaveToMemoryDeepRoundTrip(t *testing.T) {
	src := solidGray(4, 4, 7)
	data, err := SaveToMemoryDeep("png", []*sailimage.Image{src}, codec.SaveOptions{})
	if err != nil {
		t.Fatalf("SaveToMemoryDeep: %v", err)
	}
	imgs, err := LoadFromMemoryDeep(data, "png", codec.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadFromMemoryDeep: %v", err)
	}
	if len(imgs) != 1 || imgs[0].Width != 4 || imgs[0].Height != 4 {
		t.Fatalf("round-tripped image = %+v", imgs)
	}
}
