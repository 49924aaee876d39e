package manip

import (
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/sailimage"
)

// Convert implements the single pure conversion function of spec §4.7:
// convert(image_in, target_pf) -> image_out. Dimensions, resolution, ICC
// profile and metadata are preserved (P6); converting to the same format
// yields a pixel-identical copy (P5).
func Convert(img *sailimage.Image, dst sailimage.PixelFormat) (*sailimage.Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errs.New(errs.InvalidArgument, "manip.Convert", nil)
	}
	if img.PixelFormat == dst {
		return img.Copy(), nil
	}

	out := sailimage.NewSkeleton(img.Width, img.Height, dst)
	if sailimage.IsIndexed(dst) {
		maxColors := 1 << uint(sailimage.BitsPerPixel(dst))
		rgba, err := toRGBA(img)
		if err != nil {
			return nil, err
		}
		quantized, err := Quantize(rgba, maxColors, false)
		if err != nil {
			return nil, err
		}
		quantized.Resolution = copyResolution(img.Resolution)
		quantized.ICCP = img.ICCP.Copy()
		quantized.MetaData = copyMetaData(img.MetaData)
		quantized.Delay = img.Delay
		quantized.Gamma = img.Gamma
		return quantized, nil
	}

	if IsIndexedFmt(img.PixelFormat) {
		rgba, err := indexedToRGBA(img)
		if err != nil {
			return nil, err
		}
		return Convert(rgba, dst)
	}

	if err := out.AllocPixels(); err != nil {
		return nil, err
	}
	if err := convertPlain(img, out); err != nil {
		return nil, err
	}

	out.Resolution = copyResolution(img.Resolution)
	out.ICCP = img.ICCP.Copy()
	out.MetaData = copyMetaData(img.MetaData)
	out.Delay = img.Delay
	out.Gamma = img.Gamma
	return out, nil
}

// IsIndexedFmt is exported so callers outside this package can branch on
// indexed-ness without importing sailimage directly for that one
// predicate; it simply forwards to sailimage.IsIndexed.
func IsIndexedFmt(pf sailimage.PixelFormat) bool { return sailimage.IsIndexed(pf) }

// convertPlain converts every pixel of a non-indexed src into dst, which
// must already be allocated to the canonical size for its format.
func convertPlain(src, dst *sailimage.Image) error {
	srcPacked := isPacked16(src.PixelFormat)
	dstPacked := isPacked16(dst.PixelFormat)
	srcFloat := isFloatFormat(src.PixelFormat)
	dstFloat := isFloatFormat(dst.PixelFormat)
	srcBPP := bytesPerPixelAligned(src.PixelFormat)
	dstBPP := bytesPerPixelAligned(dst.PixelFormat)

	if !srcPacked && !srcFloat && srcBPP == 0 {
		return errs.New(errs.UnsupportedPixelFormat, "manip.Convert", nil)
	}
	if !dstPacked && !dstFloat && dstBPP == 0 {
		return errs.New(errs.UnsupportedPixelFormat, "manip.Convert", nil)
	}

	for y := uint32(0); y < src.Height; y++ {
		srow := src.ScanLine(y)
		drow := dst.ScanLine(y)
		for x := uint32(0); x < src.Width; x++ {
			var px rgba64
			switch {
			case srcPacked:
				px = decodePacked16(src.PixelFormat, srow, int(x)*2)
			case srcFloat:
				px = decodeFloatPixel(src.PixelFormat, srow, int(x)*srcBPPFloat(src.PixelFormat))
			default:
				px = decodePixel(src.PixelFormat, srow, int(x)*srcBPP)
			}
			switch {
			case dstPacked:
				encodePacked16(dst.PixelFormat, drow, int(x)*2, px)
			case dstFloat:
				encodeFloatPixel(dst.PixelFormat, drow, int(x)*srcBPPFloat(dst.PixelFormat), px)
			default:
				encodePixel(dst.PixelFormat, drow, int(x)*dstBPP, px)
			}
		}
	}
	return nil
}

func srcBPPFloat(pf sailimage.PixelFormat) int {
	return sailimage.BitsPerPixel(pf) / 8
}

// toRGBA converts any non-indexed or indexed image to BPP32RGBA, the
// standard intermediate for quantization.
func toRGBA(img *sailimage.Image) (*sailimage.Image, error) {
	if sailimage.IsIndexed(img.PixelFormat) {
		return indexedToRGBA(img)
	}
	if img.PixelFormat == sailimage.BPP32RGBA {
		return img.Copy(), nil
	}
	out := sailimage.NewSkeleton(img.Width, img.Height, sailimage.BPP32RGBA)
	if err := out.AllocPixels(); err != nil {
		return nil, err
	}
	if err := convertPlain(img, out); err != nil {
		return nil, err
	}
	return out, nil
}

// indexedToRGBA expands a palette-backed image to BPP32RGBA via palette
// lookup, clamping out-of-range indices to the last palette entry (spec
// §4.7.1).
func indexedToRGBA(img *sailimage.Image) (*sailimage.Image, error) {
	if !img.Palette.Valid() {
		return nil, errs.New(errs.MissingPalette, "manip.Convert", nil)
	}
	out := sailimage.NewSkeleton(img.Width, img.Height, sailimage.BPP32RGBA)
	if err := out.AllocPixels(); err != nil {
		return nil, err
	}
	bpc := sailimage.BitsPerPixel(img.PixelFormat)
	for y := uint32(0); y < img.Height; y++ {
		srow := img.ScanLine(y)
		drow := out.ScanLine(y)
		for x := uint32(0); x < img.Width; x++ {
			idx := readIndex(srow, int(x), bpc)
			c := img.Palette.Color(idx)
			o := int(x) * 4
			switch img.Palette.PixelFormat {
			case sailimage.BPP24RGB:
				drow[o], drow[o+1], drow[o+2], drow[o+3] = c[0], c[1], c[2], 255
			case sailimage.BPP24BGR:
				drow[o], drow[o+1], drow[o+2], drow[o+3] = c[2], c[1], c[0], 255
			case sailimage.BPP32RGBA:
				copy(drow[o:o+4], c)
			case sailimage.BPP32BGRA:
				drow[o], drow[o+1], drow[o+2], drow[o+3] = c[2], c[1], c[0], c[3]
			default:
				drow[o], drow[o+1], drow[o+2], drow[o+3] = c[0], c[0], c[0], 255
			}
		}
	}
	out.Resolution = copyResolution(img.Resolution)
	out.ICCP = img.ICCP.Copy()
	out.MetaData = copyMetaData(img.MetaData)
	out.Delay = img.Delay
	return out, nil
}

// readIndex reads the bpc-bit palette index for pixel x out of a packed
// row (1/2/4/8/16 bits per index).
func readIndex(row []byte, x int, bpc int) int {
	switch bpc {
	case 8:
		return int(row[x])
	case 16:
		return int(row[x*2])<<8 | int(row[x*2+1])
	case 1, 2, 4:
		perByte := 8 / bpc
		b := row[x/perByte]
		shift := uint(8 - bpc - (x%perByte)*bpc)
		mask := byte(1<<uint(bpc) - 1)
		return int(b >> shift & mask)
	default:
		return 0
	}
}

func copyResolution(r *sailimage.Resolution) *sailimage.Resolution {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func copyMetaData(nodes []sailimage.MetaDataNode) []sailimage.MetaDataNode {
	if nodes == nil {
		return nil
	}
	out := make([]sailimage.MetaDataNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.Copy()
	}
	return out
}
