// Package stub registers Info-only entries for formats the adapter
// contract scopes out (spec §1 OUT OF SCOPE): their magic numbers,
// extensions and MIME types are real and fully discoverable through a
// codec.Registry, their feature bitsets are left empty, and every
// Loader/Saver Init, SeekNextFrame and Frame call returns
// errs.NotImplemented (Finish succeeds). This keeps "is this file an ICO?" and
// similar discovery queries honest without claiming a pixel-level
// implementation for formats this repository does not decode.
package stub

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// notImplementedLoader and notImplementedSaver back every stub Info: they
// satisfy the adapter interfaces but refuse to do any actual work.
type notImplementedLoader struct{ op string }

func (l *notImplementedLoader) Init(iostream.Stream, codec.LoadOptions) error {
	return errs.New(errs.NotImplemented, l.op+".Loader.Init", nil)
}
func (l *notImplementedLoader) SeekNextFrame() (*sailimage.Image, error) {
	return nil, errs.New(errs.NotImplemented, l.op+".Loader.SeekNextFrame", nil)
}
func (l *notImplementedLoader) Frame(*sailimage.Image) error {
	return errs.New(errs.NotImplemented, l.op+".Loader.Frame", nil)
}
func (l *notImplementedLoader) Finish() error { return nil }

type notImplementedSaver struct{ op string }

func (s *notImplementedSaver) Init(iostream.Stream, codec.SaveOptions) error {
	return errs.New(errs.NotImplemented, s.op+".Saver.Init", nil)
}
func (s *notImplementedSaver) SeekNextFrame(*sailimage.Image) error {
	return errs.New(errs.NotImplemented, s.op+".Saver.SeekNextFrame", nil)
}
func (s *notImplementedSaver) Frame(*sailimage.Image) error {
	return errs.New(errs.NotImplemented, s.op+".Saver.Frame", nil)
}
func (s *notImplementedSaver) Finish() error { return nil }

func newLoader(name string) func() codec.Loader {
	return func() codec.Loader { return &notImplementedLoader{op: name} }
}

func newSaver(name string) func() codec.Saver {
	return func() codec.Saver { return &notImplementedSaver{op: name} }
}

// ICO is the Windows icon/cursor container (.ico, .cur share one format).
var ICO = &codec.Info{
	Name:         "ICO",
	Version:      "1",
	Description:  "Windows icon/cursor",
	MagicNumbers: []string{"00 00 01 00", "00 00 02 00"}, // ICO, CUR
	Extensions:   []string{"ico", "cur"},
	MIMETypes:    []string{"image/x-icon", "image/vnd.microsoft.icon"},
	NewLoader:    newLoader("stub.ICO"),
	NewSaver:     newSaver("stub.ICO"),
}

// PSD is the Adobe Photoshop document format.
var PSD = &codec.Info{
	Name:         "PSD",
	Version:      "1",
	Description:  "Adobe Photoshop document",
	MagicNumbers: []string{"38 42 50 53"}, // "8BPS"
	Extensions:   []string{"psd", "psb"},
	MIMETypes:    []string{"image/vnd.adobe.photoshop"},
	NewLoader:    newLoader("stub.PSD"),
	NewSaver:     newSaver("stub.PSD"),
}

// SVG is the XML-based scalable vector graphics format; unlike every other
// entry in this registry it is not a raster format at all, so Info exists
// purely so codec discovery can report "recognized, not rasterizable"
// rather than "unknown format".
var SVG = &codec.Info{
	Name:         "SVG",
	Version:      "1.1",
	Description:  "Scalable Vector Graphics",
	MagicNumbers: []string{}, // textual XML, no binary magic
	Extensions:   []string{"svg"},
	MIMETypes:    []string{"image/svg+xml"},
	NewLoader:    newLoader("stub.SVG"),
}

// AVIF is the AV1 Image File Format, an HEIF/ISOBMFF brand.
var AVIF = &codec.Info{
	Name:         "AVIF",
	Version:      "1",
	Description:  "AV1 Image File Format",
	MagicNumbers: []string{"4 @ 66 74 79 70 61 76 69 66"}, // ftyp avif at offset 4
	Extensions:   []string{"avif"},
	MIMETypes:    []string{"image/avif"},
	NewLoader:    newLoader("stub.AVIF"),
	NewSaver:     newSaver("stub.AVIF"),
}

// HEIC is the High Efficiency Image Container, another HEIF brand.
var HEIC = &codec.Info{
	Name:         "HEIC",
	Version:      "1",
	Description:  "High Efficiency Image Container",
	MagicNumbers: []string{"4 @ 66 74 79 70 68 65 69 63"}, // ftyp heic at offset 4
	Extensions:   []string{"heic", "heif"},
	MIMETypes:    []string{"image/heic", "image/heif"},
	NewLoader:    newLoader("stub.HEIC"),
	NewSaver:     newSaver("stub.HEIC"),
}

// JPEGXL is JPEG XL (ISO/IEC 18181), in both its boxed and bare-codestream
// forms.
var JPEGXL = &codec.Info{
	Name:         "JPEG-XL",
	Version:      "1",
	Description:  "JPEG XL",
	MagicNumbers: []string{"FF 0A", "00 00 00 0C 4A 58 4C 20"},
	Extensions:   []string{"jxl"},
	MIMETypes:    []string{"image/jxl"},
	NewLoader:    newLoader("stub.JPEGXL"),
	NewSaver:     newSaver("stub.JPEGXL"),
}

// JPEGXR is JPEG XR / HD Photo / Windows Media Photo.
var JPEGXR = &codec.Info{
	Name:         "JPEG-XR",
	Version:      "1",
	Description:  "JPEG XR",
	MagicNumbers: []string{"49 49 BC 01", "49 49 BC 00"},
	Extensions:   []string{"jxr", "wdp", "hdp"},
	MIMETypes:    []string{"image/vnd.ms-photo", "image/jxr"},
	NewLoader:    newLoader("stub.JPEGXR"),
	NewSaver:     newSaver("stub.JPEGXR"),
}

// All lists every stub Info, for convenient bulk registration.
var All = []*codec.Info{ICO, PSD, SVG, AVIF, HEIC, JPEGXL, JPEGXR}
