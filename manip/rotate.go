package manip

import (
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/sailimage"
)

// Angle is one of the three supported rotation angles (spec §4.7.2).
type Angle int

const (
	Angle90 Angle = 90
	Angle180 Angle = 180
	Angle270 Angle = 270
)

// Rotate implements spec §4.7.2: 90/270 swap dimensions; 180 does not.
// Only byte-aligned pixel formats are supported (matching convertPlain's
// restriction), else UnsupportedPixelFormat. The output owns new copies of
// the palette, resolution, ICC profile and metadata.
func Rotate(img *sailimage.Image, angle Angle) (*sailimage.Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errs.New(errs.InvalidArgument, "manip.Rotate", nil)
	}
	bpp := bytesPerPixelAligned(img.PixelFormat)
	packed := isPacked16(img.PixelFormat)
	if bpp == 0 && !packed {
		// Sub-byte indexed/grayscale formats aren't byte-aligned; rotation
		// is unsupported for them, per spec §4.7.2.
		return nil, errs.New(errs.UnsupportedPixelFormat, "manip.Rotate", nil)
	}
	if packed {
		bpp = 2
	}

	w, h := int(img.Width), int(img.Height)
	var outW, outH uint32
	switch angle {
	case Angle90, Angle270:
		outW, outH = img.Height, img.Width
	case Angle180:
		outW, outH = img.Width, img.Height
	default:
		return nil, errs.New(errs.InvalidArgument, "manip.Rotate", nil)
	}

	out := sailimage.NewSkeleton(outW, outH, img.PixelFormat)
	out.Palette = img.Palette.Copy()
	out.Resolution = copyResolution(img.Resolution)
	out.ICCP = img.ICCP.Copy()
	out.MetaData = copyMetaData(img.MetaData)
	out.Delay = img.Delay
	out.Gamma = img.Gamma
	if err := out.AllocPixels(); err != nil {
		return nil, err
	}

	for r := 0; r < h; r++ {
		srow := img.ScanLine(uint32(r))
		for c := 0; c < w; c++ {
			px := srow[c*bpp : c*bpp+bpp]
			var dr, dc int
			switch angle {
			case Angle90:
				// dst[row=c][col=H-1-r] = src[r][c]
				dr, dc = c, h-1-r
			case Angle180:
				dr, dc = h-1-r, w-1-c
			case Angle270:
				// dst[W-1-c][r] = src[r][c]
				dr, dc = w-1-c, r
			}
			drow := out.ScanLine(uint32(dr))
			copy(drow[dc*bpp:dc*bpp+bpp], px)
		}
	}
	return out, nil
}

// RotateInPlace180 performs the single-pass swap pixel[i] <-> pixel[N-1-i]
// described by spec §4.7.2 for the common 180-degree case, mutating img's
// pixel buffer directly instead of allocating a new image.
func RotateInPlace180(img *sailimage.Image) error {
	if img == nil || img.Pixels == nil {
		return errs.New(errs.InvalidArgument, "manip.RotateInPlace180", nil)
	}
	bpp := bytesPerPixelAligned(img.PixelFormat)
	if isPacked16(img.PixelFormat) {
		bpp = 2
	}
	if bpp == 0 {
		return errs.New(errs.UnsupportedPixelFormat, "manip.RotateInPlace180", nil)
	}
	n := len(img.Pixels) / bpp
	buf := make([]byte, bpp)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		copy(buf, img.Pixels[i*bpp:i*bpp+bpp])
		copy(img.Pixels[i*bpp:i*bpp+bpp], img.Pixels[j*bpp:j*bpp+bpp])
		copy(img.Pixels[j*bpp:j*bpp+bpp], buf)
	}
	return nil
}
