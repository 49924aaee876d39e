// Package sailimage defines the codec runtime's data model: the typed,
// single-owner containers described by the runtime's image data model —
// Image, Palette, ICCProfile, Resolution, MetaDataNode, SourceImage,
// Variant and HashMap — along with the frozen PixelFormat/Compression/
// Orientation/ChromaSubsampling/ResolutionUnit/MetaDataKey enumerations.
//
// Every exported type here is exclusively owned by its holder; there is no
// reference counting. Destroying an Image (letting it become unreachable)
// recursively frees
// its palette, ICC profile, resolution, metadata and pixel buffer along
// with it, which in Go simply falls out of normal garbage collection —
// Close/Destroy methods exist only where a resource needs explicit
// teardown (see iostream.Stream).
package sailimage

import (
	"fmt"
	"math"
)

// Image is the central record produced by loading and consumed by saving.
type Image struct {
	Width, Height uint32
	PixelFormat   PixelFormat

	// BytesPerLine is the stride in bytes of one row of Pixels. Built-in
	// codecs always set this to the canonical BytesPerLine(Width,
	// PixelFormat); the Technical API may accept a larger stride from a
	// caller-supplied image.
	BytesPerLine uint32

	// Pixels holds exactly Height*BytesPerLine bytes (INV-2), or is nil for
	// a "skeleton" image returned while probing (header read, pixel data
	// not yet decoded).
	Pixels []byte

	// Palette is required iff PixelFormat is one of the indexed formats
	// (INV-1).
	Palette *Palette

	Resolution  *Resolution
	ICCP        *ICCProfile
	MetaData    []MetaDataNode
	SourceImage *SourceImage

	// Delay is milliseconds until the next frame in an animation, or -1 for
	// a still image.
	Delay int32

	// Gamma is the image gamma; 0 means unknown.
	Gamma float32

	Interlaced bool
}

// NewSkeleton returns an Image with header metadata populated but Pixels
// nil, as returned by a codec's SeekNextFrame before Frame fills the pixel
// buffer.
func NewSkeleton(width, height uint32, pf PixelFormat) *Image {
	return &Image{
		Width:        width,
		Height:       height,
		PixelFormat:  pf,
		BytesPerLine: BytesPerLine(width, pf),
		Delay:        -1,
	}
}

// AllocPixels allocates (or reallocates) Pixels to the canonical size for
// Width/Height/PixelFormat, detecting the u32 multiplication overflow codecs
// are required to reject (spec §5 resource model).
func (img *Image) AllocPixels() error {
	bpl := uint64(BytesPerLine(img.Width, img.PixelFormat))
	size := bpl * uint64(img.Height)
	if size > math.MaxInt32 {
		return fmt.Errorf("sailimage: image dimensions %dx%d (%s) overflow a single allocation", img.Width, img.Height, img.PixelFormat)
	}
	img.BytesPerLine = uint32(bpl)
	img.Pixels = make([]byte, size)
	return nil
}

// Valid performs the checks a codec or the engine runs before trusting an
// Image: positive dimensions, a recognized pixel format, canonical stride,
// exact pixel buffer size, and palette presence for indexed formats.
func (img *Image) Valid() error {
	if img == nil {
		return fmt.Errorf("sailimage: nil image")
	}
	if img.Width == 0 || img.Height == 0 {
		return fmt.Errorf("sailimage: non-positive dimensions %dx%d", img.Width, img.Height)
	}
	if img.PixelFormat == Unknown {
		return fmt.Errorf("sailimage: unknown pixel format")
	}
	if IsIndexed(img.PixelFormat) && !img.Palette.Valid() {
		return fmt.Errorf("sailimage: indexed image %s missing a valid palette", img.PixelFormat)
	}
	if img.Pixels != nil {
		want := uint64(img.BytesPerLine) * uint64(img.Height)
		if uint64(len(img.Pixels)) != want {
			return fmt.Errorf("sailimage: pixel buffer is %d bytes, want %d (height*bytes_per_line)", len(img.Pixels), want)
		}
	}
	return nil
}

// ScanLine returns the row'th row of Pixels as a sub-slice, or nil if
// Pixels is nil or row is out of range.
func (img *Image) ScanLine(row uint32) []byte {
	if img.Pixels == nil || row >= img.Height {
		return nil
	}
	start := uint64(row) * uint64(img.BytesPerLine)
	return img.Pixels[start : start+uint64(img.BytesPerLine)]
}

// Copy returns a deep copy of img: a new pixel buffer, palette, ICC
// profile, resolution, metadata slice and source image, all independently
// owned.
func (img *Image) Copy() *Image {
	if img == nil {
		return nil
	}
	cp := &Image{
		Width:        img.Width,
		Height:       img.Height,
		PixelFormat:  img.PixelFormat,
		BytesPerLine: img.BytesPerLine,
		Delay:        img.Delay,
		Gamma:        img.Gamma,
		Interlaced:   img.Interlaced,
	}
	if img.Pixels != nil {
		cp.Pixels = append([]byte(nil), img.Pixels...)
	}
	cp.Palette = img.Palette.Copy()
	cp.ICCP = img.ICCP.Copy()
	if img.Resolution != nil {
		r := *img.Resolution
		cp.Resolution = &r
	}
	if img.MetaData != nil {
		cp.MetaData = make([]MetaDataNode, len(img.MetaData))
		for i, n := range img.MetaData {
			cp.MetaData[i] = n.Copy()
		}
	}
	cp.SourceImage = img.SourceImage.Copy()
	return cp
}

// AppendMetaData appends a node to the tail of the metadata list, matching
// the original API's "append at tail" contract.
func (img *Image) AppendMetaData(n MetaDataNode) {
	img.MetaData = append(img.MetaData, n)
}

// TraverseMetaData calls fn once per node in insertion order. If fn returns
// false, traversal stops early.
func (img *Image) TraverseMetaData(fn func(MetaDataNode) bool) {
	for _, n := range img.MetaData {
		if !fn(n) {
			return
		}
	}
}
