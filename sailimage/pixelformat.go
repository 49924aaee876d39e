package sailimage

import "fmt"

// PixelFormat is a closed enumeration of pixel storage formats. Each
// variant encodes bits-per-pixel, channel layout and color model. The
// integer values are frozen: once released a constant keeps its value
// forever (spec invariant INV-5), so new formats are always appended.
type PixelFormat int

// Pixel format constants, grouped by family. Names follow BPPn_FAMILY,
// matching the convention of the system this runtime's data model was
// modeled on.
const (
	Unknown PixelFormat = iota

	// Raw bits-per-pixel placeholders with no known channel model. Used
	// for skeleton/probe images and codecs that can report only a size.
	BPP1
	BPP2
	BPP4
	BPP8
	BPP16
	BPP24
	BPP32
	BPP48
	BPP64
	BPP72
	BPP96
	BPP128

	// Indexed (palette) formats.
	BPP1Indexed
	BPP2Indexed
	BPP4Indexed
	BPP8Indexed
	BPP16Indexed

	// Grayscale, with and without alpha.
	BPP1Grayscale
	BPP2Grayscale
	BPP4Grayscale
	BPP8Grayscale
	BPP16Grayscale
	BPP4GrayscaleAlpha
	BPP8GrayscaleAlpha
	BPP16GrayscaleAlpha
	BPP32GrayscaleAlpha

	// Packed 16-bit RGB.
	BPP16RGB555
	BPP16BGR555
	BPP16RGB565
	BPP16BGR565

	// Channel-separated RGB, no alpha.
	BPP24RGB
	BPP24BGR
	BPP48RGB
	BPP48BGR

	// RGBA and permutations, 16/32/64 bpp.
	BPP16RGBA
	BPP16BGRA
	BPP16ARGB
	BPP16ABGR
	BPP16RGBX
	BPP16BGRX
	BPP16XRGB
	BPP16XBGR
	BPP32RGBA
	BPP32BGRA
	BPP32ARGB
	BPP32ABGR
	BPP32RGBX
	BPP32BGRX
	BPP32XRGB
	BPP32XBGR
	BPP64RGBA
	BPP64BGRA
	BPP64ARGB
	BPP64ABGR
	BPP64RGBX
	BPP64BGRX
	BPP64XRGB
	BPP64XBGR

	// Packed 10-bit-per-channel with 2-bit alpha.
	BPP32BGRA1010102

	// CMYK, with and without alpha.
	BPP32CMYK
	BPP64CMYK
	BPP40CMYKA
	BPP80CMYKA

	// YCbCr / YCCK.
	BPP24YCbCr
	BPP32YCCK

	// CIE-LAB / CIE-LUV.
	BPP24CIELAB
	BPP40CIELAB
	BPP24CIELUV
	BPP40CIELUV

	// Packed YUV (4:4:4) and YUVA, at increasing bit depth.
	BPP24YUV
	BPP30YUV
	BPP36YUV
	BPP48YUV
	BPP32YUVA
	BPP40YUVA
	BPP48YUVA
	BPP64YUVA

	// Floating-point formats.
	BPP32GrayscaleFloat
	BPP96RGBFloat
	BPP128RGBAFloat
)

var bppTable = map[PixelFormat]int{
	Unknown: 0,

	BPP1: 1, BPP2: 2, BPP4: 4, BPP8: 8, BPP16: 16, BPP24: 24, BPP32: 32,
	BPP48: 48, BPP64: 64, BPP72: 72, BPP96: 96, BPP128: 128,

	BPP1Indexed: 1, BPP2Indexed: 2, BPP4Indexed: 4, BPP8Indexed: 8, BPP16Indexed: 16,

	BPP1Grayscale: 1, BPP2Grayscale: 2, BPP4Grayscale: 4, BPP8Grayscale: 8, BPP16Grayscale: 16,
	BPP4GrayscaleAlpha: 4, BPP8GrayscaleAlpha: 8, BPP16GrayscaleAlpha: 16, BPP32GrayscaleAlpha: 32,

	BPP16RGB555: 16, BPP16BGR555: 16, BPP16RGB565: 16, BPP16BGR565: 16,

	BPP24RGB: 24, BPP24BGR: 24, BPP48RGB: 48, BPP48BGR: 48,

	BPP16RGBA: 16, BPP16BGRA: 16, BPP16ARGB: 16, BPP16ABGR: 16,
	BPP16RGBX: 16, BPP16BGRX: 16, BPP16XRGB: 16, BPP16XBGR: 16,
	BPP32RGBA: 32, BPP32BGRA: 32, BPP32ARGB: 32, BPP32ABGR: 32,
	BPP32RGBX: 32, BPP32BGRX: 32, BPP32XRGB: 32, BPP32XBGR: 32,
	BPP64RGBA: 64, BPP64BGRA: 64, BPP64ARGB: 64, BPP64ABGR: 64,
	BPP64RGBX: 64, BPP64BGRX: 64, BPP64XRGB: 64, BPP64XBGR: 64,

	BPP32BGRA1010102: 32,

	BPP32CMYK: 32, BPP64CMYK: 64, BPP40CMYKA: 40, BPP80CMYKA: 80,

	BPP24YCbCr: 24, BPP32YCCK: 32,

	BPP24CIELAB: 24, BPP40CIELAB: 40, BPP24CIELUV: 24, BPP40CIELUV: 40,

	BPP24YUV: 24, BPP30YUV: 30, BPP36YUV: 36, BPP48YUV: 48,
	BPP32YUVA: 32, BPP40YUVA: 40, BPP48YUVA: 48, BPP64YUVA: 64,

	BPP32GrayscaleFloat: 32, BPP96RGBFloat: 96, BPP128RGBAFloat: 128,
}

var pixelFormatNames = map[PixelFormat]string{
	Unknown: "UNKNOWN",
	BPP1: "BPP1", BPP2: "BPP2", BPP4: "BPP4", BPP8: "BPP8", BPP16: "BPP16",
	BPP24: "BPP24", BPP32: "BPP32", BPP48: "BPP48", BPP64: "BPP64",
	BPP72: "BPP72", BPP96: "BPP96", BPP128: "BPP128",
	BPP1Indexed: "BPP1_INDEXED", BPP2Indexed: "BPP2_INDEXED", BPP4Indexed: "BPP4_INDEXED",
	BPP8Indexed: "BPP8_INDEXED", BPP16Indexed: "BPP16_INDEXED",
	BPP1Grayscale: "BPP1_GRAYSCALE", BPP2Grayscale: "BPP2_GRAYSCALE",
	BPP4Grayscale: "BPP4_GRAYSCALE", BPP8Grayscale: "BPP8_GRAYSCALE", BPP16Grayscale: "BPP16_GRAYSCALE",
	BPP4GrayscaleAlpha: "BPP4_GRAYSCALE_ALPHA", BPP8GrayscaleAlpha: "BPP8_GRAYSCALE_ALPHA",
	BPP16GrayscaleAlpha: "BPP16_GRAYSCALE_ALPHA", BPP32GrayscaleAlpha: "BPP32_GRAYSCALE_ALPHA",
	BPP16RGB555: "BPP16_RGB555", BPP16BGR555: "BPP16_BGR555",
	BPP16RGB565: "BPP16_RGB565", BPP16BGR565: "BPP16_BGR565",
	BPP24RGB: "BPP24_RGB", BPP24BGR: "BPP24_BGR", BPP48RGB: "BPP48_RGB", BPP48BGR: "BPP48_BGR",
	BPP16RGBA: "BPP16_RGBA", BPP16BGRA: "BPP16_BGRA", BPP16ARGB: "BPP16_ARGB", BPP16ABGR: "BPP16_ABGR",
	BPP16RGBX: "BPP16_RGBX", BPP16BGRX: "BPP16_BGRX", BPP16XRGB: "BPP16_XRGB", BPP16XBGR: "BPP16_XBGR",
	BPP32RGBA: "BPP32_RGBA", BPP32BGRA: "BPP32_BGRA", BPP32ARGB: "BPP32_ARGB", BPP32ABGR: "BPP32_ABGR",
	BPP32RGBX: "BPP32_RGBX", BPP32BGRX: "BPP32_BGRX", BPP32XRGB: "BPP32_XRGB", BPP32XBGR: "BPP32_XBGR",
	BPP64RGBA: "BPP64_RGBA", BPP64BGRA: "BPP64_BGRA", BPP64ARGB: "BPP64_ARGB", BPP64ABGR: "BPP64_ABGR",
	BPP64RGBX: "BPP64_RGBX", BPP64BGRX: "BPP64_BGRX", BPP64XRGB: "BPP64_XRGB", BPP64XBGR: "BPP64_XBGR",
	BPP32BGRA1010102: "BPP32_BGRA_1010102",
	BPP32CMYK:        "BPP32_CMYK", BPP64CMYK: "BPP64_CMYK", BPP40CMYKA: "BPP40_CMYKA", BPP80CMYKA: "BPP80_CMYKA",
	BPP24YCbCr: "BPP24_YCBCR", BPP32YCCK: "BPP32_YCCK",
	BPP24CIELAB: "BPP24_CIE_LAB", BPP40CIELAB: "BPP40_CIE_LAB",
	BPP24CIELUV: "BPP24_CIE_LUV", BPP40CIELUV: "BPP40_CIE_LUV",
	BPP24YUV: "BPP24_YUV", BPP30YUV: "BPP30_YUV", BPP36YUV: "BPP36_YUV", BPP48YUV: "BPP48_YUV",
	BPP32YUVA: "BPP32_YUVA", BPP40YUVA: "BPP40_YUVA", BPP48YUVA: "BPP48_YUVA", BPP64YUVA: "BPP64_YUVA",
	BPP32GrayscaleFloat: "BPP32_GRAYSCALE_FLOAT", BPP96RGBFloat: "BPP96_RGB_FLOAT", BPP128RGBAFloat: "BPP128_RGBA_FLOAT",
}

// String implements fmt.Stringer.
func (pf PixelFormat) String() string {
	if n, ok := pixelFormatNames[pf]; ok {
		return n
	}
	return fmt.Sprintf("PIXEL_FORMAT(%d)", int(pf))
}

// BitsPerPixel returns the total number of bits one pixel of pf occupies.
// It is total (every known PixelFormat has an entry) and deterministic.
// Unknown formats not in the table return 0.
func BitsPerPixel(pf PixelFormat) int {
	return bppTable[pf]
}

// BytesPerLine returns the canonical stride for an image of the given
// width and pixel format: ceil(width * bits_per_pixel / 8), with no row
// padding. This is the stride every built-in codec in this module
// produces; callers of the Technical API may supply a larger stride.
func BytesPerLine(width uint32, pf PixelFormat) uint32 {
	bits := uint64(width) * uint64(BitsPerPixel(pf))
	return uint32((bits + 7) / 8)
}

// IsIndexed reports whether pf is one of the palette-backed formats.
func IsIndexed(pf PixelFormat) bool {
	switch pf {
	case BPP1Indexed, BPP2Indexed, BPP4Indexed, BPP8Indexed, BPP16Indexed:
		return true
	default:
		return false
	}
}

// IsStorageFormat reports whether pf is suitable as a Palette's storage
// format (spec: "typically 24-bit RGB or 32-bit RGBA", generalized here to
// any byte-aligned RGB/RGBA/BGR/BGRA format).
func IsStorageFormat(pf PixelFormat) bool {
	switch pf {
	case BPP24RGB, BPP24BGR, BPP32RGBA, BPP32BGRA, BPP32ARGB, BPP32ABGR:
		return true
	default:
		return false
	}
}

// ErrUnknownPixelFormat is returned by the comparator functions when either
// operand is Unknown.
var ErrUnknownPixelFormat = fmt.Errorf("sailimage: unknown pixel format is not comparable")

// Less reports whether a has strictly fewer bits per pixel than b.
func Less(a, b PixelFormat) (bool, error) {
	if a == Unknown || b == Unknown {
		return false, ErrUnknownPixelFormat
	}
	return BitsPerPixel(a) < BitsPerPixel(b), nil
}

// LessEqual reports whether a has no more bits per pixel than b.
func LessEqual(a, b PixelFormat) (bool, error) {
	if a == Unknown || b == Unknown {
		return false, ErrUnknownPixelFormat
	}
	return BitsPerPixel(a) <= BitsPerPixel(b), nil
}

// Equal reports whether a and b have the same bits per pixel.
func Equal(a, b PixelFormat) (bool, error) {
	if a == Unknown || b == Unknown {
		return false, ErrUnknownPixelFormat
	}
	return BitsPerPixel(a) == BitsPerPixel(b), nil
}

// GreaterEqual reports whether a has no fewer bits per pixel than b.
func GreaterEqual(a, b PixelFormat) (bool, error) {
	if a == Unknown || b == Unknown {
		return false, ErrUnknownPixelFormat
	}
	return BitsPerPixel(a) >= BitsPerPixel(b), nil
}

// Greater reports whether a has strictly more bits per pixel than b.
func Greater(a, b PixelFormat) (bool, error) {
	if a == Unknown || b == Unknown {
		return false, ErrUnknownPixelFormat
	}
	return BitsPerPixel(a) > BitsPerPixel(b), nil
}

// ChannelFamily is used by the implicit-format-adjustment heuristic (engine
// package) to find a save format with a matching channel layout.
type ChannelFamily int

const (
	FamilyUnknown ChannelFamily = iota
	FamilyGrayscale
	FamilyRGB
	FamilyRGBA
	FamilyCMYK
	FamilyYUV
	FamilyIndexed
)

// Family classifies pf into a coarse channel family.
func Family(pf PixelFormat) ChannelFamily {
	switch pf {
	case BPP1Grayscale, BPP2Grayscale, BPP4Grayscale, BPP8Grayscale, BPP16Grayscale,
		BPP4GrayscaleAlpha, BPP8GrayscaleAlpha, BPP16GrayscaleAlpha, BPP32GrayscaleAlpha,
		BPP32GrayscaleFloat:
		return FamilyGrayscale
	case BPP24RGB, BPP24BGR, BPP48RGB, BPP48BGR,
		BPP16RGB555, BPP16BGR555, BPP16RGB565, BPP16BGR565,
		BPP16RGBX, BPP16BGRX, BPP16XRGB, BPP16XBGR,
		BPP32RGBX, BPP32BGRX, BPP32XRGB, BPP32XBGR,
		BPP64RGBX, BPP64BGRX, BPP64XRGB, BPP64XBGR,
		BPP96RGBFloat:
		return FamilyRGB
	case BPP16RGBA, BPP16BGRA, BPP16ARGB, BPP16ABGR,
		BPP32RGBA, BPP32BGRA, BPP32ARGB, BPP32ABGR,
		BPP64RGBA, BPP64BGRA, BPP64ARGB, BPP64ABGR,
		BPP32BGRA1010102, BPP128RGBAFloat:
		return FamilyRGBA
	case BPP32CMYK, BPP64CMYK, BPP40CMYKA, BPP80CMYKA, BPP32YCCK:
		return FamilyCMYK
	case BPP24YCbCr, BPP24CIELAB, BPP40CIELAB, BPP24CIELUV, BPP40CIELUV,
		BPP24YUV, BPP30YUV, BPP36YUV, BPP48YUV,
		BPP32YUVA, BPP40YUVA, BPP48YUVA, BPP64YUVA:
		return FamilyYUV
	case BPP1Indexed, BPP2Indexed, BPP4Indexed, BPP8Indexed, BPP16Indexed:
		return FamilyIndexed
	default:
		return FamilyUnknown
	}
}

// ChannelCount returns the number of channels in pf's family, used by the
// "most channels in common" save-format fallback rule.
func ChannelCount(pf PixelFormat) int {
	switch Family(pf) {
	case FamilyGrayscale:
		return 1
	case FamilyRGB:
		return 3
	case FamilyRGBA:
		return 4
	case FamilyCMYK:
		return 4
	case FamilyYUV:
		return 3
	case FamilyIndexed:
		return 1
	default:
		return 0
	}
}
