package manip

import (
	"encoding/binary"
	"math"

	"github.com/ausocean/sail/sailimage"
)

// Floating-point formats store one float32 per channel, big-endian,
// scaled to [0,1] (spec §4.7.1: "Floating-point formats <-> integer
// formats: scale by 2^N-1").

func isFloatFormat(pf sailimage.PixelFormat) bool {
	switch pf {
	case sailimage.BPP32GrayscaleFloat, sailimage.BPP96RGBFloat, sailimage.BPP128RGBAFloat:
		return true
	default:
		return false
	}
}

func getFloat32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(buf[off:]))
}

func putFloat32(buf []byte, off int, v float32) {
	binary.BigEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func decodeFloatPixel(pf sailimage.PixelFormat, buf []byte, off int) rgba64 {
	toU16 := func(f float32) uint32 {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		return uint32(f*65535 + 0.5)
	}
	switch pf {
	case sailimage.BPP32GrayscaleFloat:
		g := toU16(getFloat32(buf, off))
		return rgba64{g, g, g, 0xFFFF}
	case sailimage.BPP96RGBFloat:
		return rgba64{toU16(getFloat32(buf, off)), toU16(getFloat32(buf, off+4)), toU16(getFloat32(buf, off+8)), 0xFFFF}
	case sailimage.BPP128RGBAFloat:
		return rgba64{toU16(getFloat32(buf, off)), toU16(getFloat32(buf, off+4)), toU16(getFloat32(buf, off+8)), toU16(getFloat32(buf, off+12))}
	}
	return rgba64{}
}

func encodeFloatPixel(pf sailimage.PixelFormat, buf []byte, off int, px rgba64) {
	from := func(v uint32) float32 { return float32(v) / 65535 }
	switch pf {
	case sailimage.BPP32GrayscaleFloat:
		putFloat32(buf, off, from(expand8(luma(narrow16(px.R), narrow16(px.G), narrow16(px.B)))))
	case sailimage.BPP96RGBFloat:
		putFloat32(buf, off, from(px.R))
		putFloat32(buf, off+4, from(px.G))
		putFloat32(buf, off+8, from(px.B))
	case sailimage.BPP128RGBAFloat:
		putFloat32(buf, off, from(px.R))
		putFloat32(buf, off+4, from(px.G))
		putFloat32(buf, off+8, from(px.B))
		putFloat32(buf, off+12, from(px.A))
	}
}
