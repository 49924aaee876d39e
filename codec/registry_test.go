package codec

import (
	"sync"
	"testing"

	"github.com/ausocean/sail/sailimage"
)

func testInfo(name string, magic []string, exts []string, mimes []string) *Info {
	return &Info{
		Name:         name,
		MagicNumbers: magic,
		Extensions:   exts,
		MIMETypes:    mimes,
		NewLoader:    func() Loader { return nil },
	}
}

func newTestRegistry() *Registry {
	a := testInfo("AAA", []string{"AA BB CC"}, []string{"aaa"}, []string{"image/aaa"})
	b := testInfo("BBB", []string{"4 @ 44 44"}, []string{"bbb"}, []string{"image/bbb"})
	return NewRegistry(func() []*Info { return []*Info{a, b} })
}

func TestRegistryFromExtensionIsCaseInsensitive(t *testing.T) {
	r := newTestRegistry()
	if r.FromExtension("AAA") == nil || r.FromExtension(".aaa") == nil {
		t.Fatal("expected case/dot-insensitive extension match")
	}
	if r.FromExtension("zzz") != nil {
		t.Fatal("expected no match for unregistered extension")
	}
}

func TestRegistryFromPath(t *testing.T) {
	r := newTestRegistry()
	if info := r.FromPath("/tmp/picture.BBB"); info == nil || info.Name != "BBB" {
		t.Fatalf("FromPath = %v, want BBB", info)
	}
}

func TestRegistryFromMIMEType(t *testing.T) {
	r := newTestRegistry()
	if info := r.FromMIMEType("IMAGE/AAA"); info == nil || info.Name != "AAA" {
		t.Fatalf("FromMIMEType = %v, want AAA", info)
	}
}

func TestRegistryFromMagicNumberMemory(t *testing.T) {
	r := newTestRegistry()
	if info := r.FromMagicNumberMemory([]byte{0xAA, 0xBB, 0xCC}); info == nil || info.Name != "AAA" {
		t.Fatalf("plain pattern: got %v", info)
	}
	if info := r.FromMagicNumberMemory([]byte{0, 0, 0, 0, 0x44, 0x44}); info == nil || info.Name != "BBB" {
		t.Fatalf("offset pattern: got %v", info)
	}
	if info := r.FromMagicNumberMemory([]byte{1, 2, 3}); info != nil {
		t.Fatalf("expected no match, got %v", info)
	}
}

func TestRegistryConcurrentFirstCallersSeeFullInit(t *testing.T) {
	r := NewRegistry(func() []*Info {
		return []*Info{testInfo("X", nil, []string{"x"}, nil)}
	})

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.FromExtension("x") != nil
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Fatalf("caller %d did not observe a fully initialized registry", i)
		}
	}
}

func TestMatchMagicWildcard(t *testing.T) {
	if !matchMagic("FF ?? FF", []byte{0xFF, 0x00, 0xFF}) {
		t.Fatal("wildcard byte should match anything")
	}
	if matchMagic("FF FF", []byte{0xFF}) {
		t.Fatal("pattern longer than buffer should not match")
	}
}

func TestInfoCapabilityHelpers(t *testing.T) {
	info := &Info{
		SaveFeatures: SaveFeatures{
			PixelFormats: []sailimage.PixelFormat{sailimage.BPP24RGB},
			Compressions: []sailimage.Compression{sailimage.CompressionNone},
		},
	}
	if info.CanLoad() || info.CanSave() {
		t.Fatal("Info with nil NewLoader/NewSaver should report false")
	}
	if !info.AcceptsSavePixelFormat(sailimage.BPP24RGB) || info.AcceptsSavePixelFormat(sailimage.BPP32RGBA) {
		t.Fatal("AcceptsSavePixelFormat mismatch")
	}
	if !info.AcceptsCompression(sailimage.CompressionNone) || info.AcceptsCompression(sailimage.CompressionJPEG) {
		t.Fatal("AcceptsCompression mismatch")
	}
}
