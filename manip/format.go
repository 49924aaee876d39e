// Package manip implements the pixel manipulation core (spec §4.7): the
// format conversion matrix, rotation, scaling and quantization. Grounded on
// the reference SAIL C sources' sail-manip module (rotate.c,
// swscale_conversions.c) and, for the color-space matrices, on
// mrjoshuak/go-jpeg2000's colorspace.go.
package manip

import (
	"github.com/ausocean/sail/sailimage"
)

// rgba64 is an intermediate, full-precision pixel used to bridge between
// unrelated format families: every decode function below produces one,
// every encode function below consumes one. Components are 16-bit-range
// (0..65535) regardless of the source/destination's native depth, which
// keeps the bit-depth-scale rule (8<->16 via v16 = v8<<8|v8) exact for the
// formats that round-trip through it.
type rgba64 struct {
	R, G, B, A uint32
}

// expand8 widens an 8-bit sample to 16-bit range per spec §4.7.1's
// bit-depth-scale rule: v16 = (v8<<8)|v8, which preserves 0 and max.
func expand8(v uint8) uint32 { return uint32(v)<<8 | uint32(v) }

// narrow16 narrows a 16-bit-range sample back to 8 bits: v8 = v16>>8.
func narrow16(v uint32) uint8 { return uint8(v >> 8) }

// expand5/expand6 bit-exact scale a 5-bit or 6-bit packed channel to 8
// bits, per spec §4.7.1's packed-555/565 rule: (v<<3)|(v>>2) for 5-bit,
// (v<<2)|(v>>4) for 6-bit.
func expand5(v uint8) uint8 { return v<<3 | v>>2 }
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// narrow5/narrow6 truncate an 8-bit channel down to 5 or 6 bits for packing
// into a 555/565 pixel.
func narrow5(v uint8) uint8 { return v >> 3 }
func narrow6(v uint8) uint8 { return v >> 2 }

// luma computes gray from RGB using the spec's fixed Rec.601-ish weights:
// 0.299R + 0.587G + 0.114B.
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
}

// decodePixel reads one pixel at byte offset off of buf in format pf into
// an rgba64, given the pre-resolved bytesPerPixel for pf (pf must be
// byte-aligned; sub-byte formats are handled by their own callers, and the
// packed 555/565 formats go through decodePacked16 instead).
func decodePixel(pf sailimage.PixelFormat, buf []byte, off int) rgba64 {
	switch pf {
	case sailimage.BPP24RGB:
		return rgba64{expand8(buf[off]), expand8(buf[off+1]), expand8(buf[off+2]), 0xFFFF}
	case sailimage.BPP24BGR:
		return rgba64{expand8(buf[off+2]), expand8(buf[off+1]), expand8(buf[off]), 0xFFFF}
	case sailimage.BPP32RGBA:
		return rgba64{expand8(buf[off]), expand8(buf[off+1]), expand8(buf[off+2]), expand8(buf[off+3])}
	case sailimage.BPP32BGRA:
		return rgba64{expand8(buf[off+2]), expand8(buf[off+1]), expand8(buf[off]), expand8(buf[off+3])}
	case sailimage.BPP32ARGB:
		return rgba64{expand8(buf[off+1]), expand8(buf[off+2]), expand8(buf[off+3]), expand8(buf[off])}
	case sailimage.BPP32ABGR:
		return rgba64{expand8(buf[off+3]), expand8(buf[off+2]), expand8(buf[off+1]), expand8(buf[off])}
	case sailimage.BPP32RGBX:
		return rgba64{expand8(buf[off]), expand8(buf[off+1]), expand8(buf[off+2]), 0xFFFF}
	case sailimage.BPP32BGRX:
		return rgba64{expand8(buf[off+2]), expand8(buf[off+1]), expand8(buf[off]), 0xFFFF}
	case sailimage.BPP32XRGB:
		return rgba64{expand8(buf[off+1]), expand8(buf[off+2]), expand8(buf[off+3]), 0xFFFF}
	case sailimage.BPP32XBGR:
		return rgba64{expand8(buf[off+3]), expand8(buf[off+2]), expand8(buf[off+1]), 0xFFFF}
	case sailimage.BPP48RGB:
		return rgba64{u16be(buf, off), u16be(buf, off+2), u16be(buf, off+4), 0xFFFF}
	case sailimage.BPP48BGR:
		return rgba64{u16be(buf, off+4), u16be(buf, off+2), u16be(buf, off), 0xFFFF}
	case sailimage.BPP64RGBA:
		return rgba64{u16be(buf, off), u16be(buf, off+2), u16be(buf, off+4), u16be(buf, off+6)}
	case sailimage.BPP64BGRA:
		return rgba64{u16be(buf, off+4), u16be(buf, off+2), u16be(buf, off), u16be(buf, off+6)}
	case sailimage.BPP8Grayscale:
		g := expand8(buf[off])
		return rgba64{g, g, g, 0xFFFF}
	case sailimage.BPP16Grayscale:
		g := u16be(buf, off)
		return rgba64{g, g, g, 0xFFFF}
	case sailimage.BPP8GrayscaleAlpha:
		g := expand8(buf[off])
		return rgba64{g, g, g, expand8(buf[off+1])}
	case sailimage.BPP16GrayscaleAlpha:
		g := expand8(buf[off])
		return rgba64{g, g, g, expand8(buf[off+1])}
	case sailimage.BPP32GrayscaleAlpha:
		g := u16be(buf, off)
		return rgba64{g, g, g, u16be(buf, off+2)}
	case sailimage.BPP32CMYK:
		return cmykToRGBA64(buf[off], buf[off+1], buf[off+2], buf[off+3])
	case sailimage.BPP24YCbCr:
		return ycbcrToRGBA64(buf[off], buf[off+1], buf[off+2])
	default:
		return rgba64{}
	}
}

func u16be(buf []byte, off int) uint32 {
	return uint32(buf[off])<<8 | uint32(buf[off+1])
}

func putU16be(buf []byte, off int, v uint32) {
	buf[off] = byte(v >> 8)
	buf[off+1] = byte(v)
}

// encodePixel writes px into buf at byte offset off in format pf, the
// inverse of decodePixel.
func encodePixel(pf sailimage.PixelFormat, buf []byte, off int, px rgba64) {
	r, g, b, a := narrow16(px.R), narrow16(px.G), narrow16(px.B), narrow16(px.A)
	switch pf {
	case sailimage.BPP24RGB:
		buf[off], buf[off+1], buf[off+2] = r, g, b
	case sailimage.BPP24BGR:
		buf[off], buf[off+1], buf[off+2] = b, g, r
	case sailimage.BPP32RGBA:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = r, g, b, a
	case sailimage.BPP32BGRA:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = b, g, r, a
	case sailimage.BPP32ARGB:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = a, r, g, b
	case sailimage.BPP32ABGR:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = a, b, g, r
	case sailimage.BPP32RGBX:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = r, g, b, 0
	case sailimage.BPP32BGRX:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = b, g, r, 0
	case sailimage.BPP32XRGB:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = 0, r, g, b
	case sailimage.BPP32XBGR:
		buf[off], buf[off+1], buf[off+2], buf[off+3] = 0, b, g, r
	case sailimage.BPP48RGB:
		putU16be(buf, off, px.R)
		putU16be(buf, off+2, px.G)
		putU16be(buf, off+4, px.B)
	case sailimage.BPP48BGR:
		putU16be(buf, off, px.B)
		putU16be(buf, off+2, px.G)
		putU16be(buf, off+4, px.R)
	case sailimage.BPP64RGBA:
		putU16be(buf, off, px.R)
		putU16be(buf, off+2, px.G)
		putU16be(buf, off+4, px.B)
		putU16be(buf, off+6, px.A)
	case sailimage.BPP64BGRA:
		putU16be(buf, off, px.B)
		putU16be(buf, off+2, px.G)
		putU16be(buf, off+4, px.R)
		putU16be(buf, off+6, px.A)
	case sailimage.BPP8Grayscale:
		buf[off] = luma(r, g, b)
	case sailimage.BPP16Grayscale:
		putU16be(buf, off, expand8(luma(r, g, b)))
	case sailimage.BPP8GrayscaleAlpha:
		buf[off], buf[off+1] = luma(r, g, b), a
	case sailimage.BPP16GrayscaleAlpha:
		buf[off], buf[off+1] = luma(r, g, b), a
	case sailimage.BPP32GrayscaleAlpha:
		putU16be(buf, off, expand8(luma(r, g, b)))
		putU16be(buf, off+2, px.A)
	case sailimage.BPP32CMYK:
		c, m, y, k := rgbToCMYK(r, g, b)
		buf[off], buf[off+1], buf[off+2], buf[off+3] = c, m, y, k
	case sailimage.BPP24YCbCr:
		y, cb, cr := rgbToYCbCr(r, g, b)
		buf[off], buf[off+1], buf[off+2] = y, cb, cr
	}
}

// bytesPerPixelAligned returns BitsPerPixel(pf)/8 for byte-aligned formats,
// or 0 if pf is not byte-aligned (sub-byte indexed/grayscale, or one of the
// packed 16-bit formats handled by their own conversion paths).
func bytesPerPixelAligned(pf sailimage.PixelFormat) int {
	bits := sailimage.BitsPerPixel(pf)
	if bits == 0 || bits%8 != 0 {
		return 0
	}
	switch pf {
	case sailimage.BPP16RGB555, sailimage.BPP16BGR555, sailimage.BPP16RGB565, sailimage.BPP16BGR565:
		return 0 // handled by decodePacked16/encodePacked16
	}
	return bits / 8
}

func isPacked16(pf sailimage.PixelFormat) bool {
	switch pf {
	case sailimage.BPP16RGB555, sailimage.BPP16BGR555, sailimage.BPP16RGB565, sailimage.BPP16BGR565:
		return true
	default:
		return false
	}
}

func decodePacked16(pf sailimage.PixelFormat, buf []byte, off int) rgba64 {
	v := uint16(buf[off]) | uint16(buf[off+1])<<8
	switch pf {
	case sailimage.BPP16RGB555:
		r, g, b := uint8(v>>10)&0x1F, uint8(v>>5)&0x1F, uint8(v)&0x1F
		return rgba64{expand8(expand5(r)), expand8(expand5(g)), expand8(expand5(b)), 0xFFFF}
	case sailimage.BPP16BGR555:
		b, g, r := uint8(v>>10)&0x1F, uint8(v>>5)&0x1F, uint8(v)&0x1F
		return rgba64{expand8(expand5(r)), expand8(expand5(g)), expand8(expand5(b)), 0xFFFF}
	case sailimage.BPP16RGB565:
		r, g, b := uint8(v>>11)&0x1F, uint8(v>>5)&0x3F, uint8(v)&0x1F
		return rgba64{expand8(expand5(r)), expand8(expand6(g)), expand8(expand5(b)), 0xFFFF}
	case sailimage.BPP16BGR565:
		b, g, r := uint8(v>>11)&0x1F, uint8(v>>5)&0x3F, uint8(v)&0x1F
		return rgba64{expand8(expand5(r)), expand8(expand6(g)), expand8(expand5(b)), 0xFFFF}
	}
	return rgba64{}
}

func encodePacked16(pf sailimage.PixelFormat, buf []byte, off int, px rgba64) {
	r, g, b := narrow16(px.R), narrow16(px.G), narrow16(px.B)
	var v uint16
	switch pf {
	case sailimage.BPP16RGB555:
		v = uint16(narrow5(r))<<10 | uint16(narrow5(g))<<5 | uint16(narrow5(b))
	case sailimage.BPP16BGR555:
		v = uint16(narrow5(b))<<10 | uint16(narrow5(g))<<5 | uint16(narrow5(r))
	case sailimage.BPP16RGB565:
		v = uint16(narrow5(r))<<11 | uint16(narrow6(g))<<5 | uint16(narrow5(b))
	case sailimage.BPP16BGR565:
		v = uint16(narrow5(b))<<11 | uint16(narrow6(g))<<5 | uint16(narrow5(r))
	}
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

// cmykToRGBA64 implements spec §4.7.1's CMYK->RGB formula in [0,1] float
// intermediate: RGB = (1-C)(1-K), (1-M)(1-K), (1-Y)(1-K).
func cmykToRGBA64(c, m, y, k byte) rgba64 {
	cf, mf, yf, kf := float64(c)/255, float64(m)/255, float64(y)/255, float64(k)/255
	r := (1 - cf) * (1 - kf)
	g := (1 - mf) * (1 - kf)
	b := (1 - yf) * (1 - kf)
	return rgba64{
		R: uint32(r*65535 + 0.5),
		G: uint32(g*65535 + 0.5),
		B: uint32(b*65535 + 0.5),
		A: 0xFFFF,
	}
}

// rgbToCMYK implements spec §4.7.1's reverse: K = min(1-R,1-G,1-B).
func rgbToCMYK(r, g, b byte) (c, m, y, k byte) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	kf := 1 - maxFloat(rf, gf, bf)
	if kf >= 1 {
		return 0, 0, 0, 255
	}
	cf := (1 - rf - kf) / (1 - kf)
	mf := (1 - gf - kf) / (1 - kf)
	yf := (1 - bf - kf) / (1 - kf)
	return clampByte(cf * 255), clampByte(mf * 255), clampByte(yf * 255), clampByte(kf * 255)
}

func maxFloat(vs ...float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func clampByte(f float64) byte {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return byte(f + 0.5)
}

// rgbToYCbCr and ycbcrToRGBA64 implement the Rec.601 matrix (spec
// §4.7.1's "YCbCr/YUV<->RGB: Rec.601 matrix for YCbCr") via
// applyMatrix3/rgbToYCbCrMatrix in colormatrix.go.
func rgbToYCbCr(r, g, b byte) (y, cb, cr byte) {
	yy, cbv, crv := applyMatrix3(rgbToYCbCrMatrix, float64(r), float64(g), float64(b))
	return clampByte(yy), clampByte(cbv + 128), clampByte(crv + 128)
}

func ycbcrToRGBA64(y, cb, cr byte) rgba64 {
	rf, gf, bf := applyMatrix3(ycbcrToRGBMatrix, float64(y), float64(cb)-128, float64(cr)-128)
	return rgba64{
		R: expand8(clampByte(rf)),
		G: expand8(clampByte(gf)),
		B: expand8(clampByte(bf)),
		A: 0xFFFF,
	}
}
