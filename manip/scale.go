package manip

import (
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/sailimage"
)

// Algorithm is one of the four resampling algorithms spec §4.7.3 names.
type Algorithm int

const (
	NearestNeighbor Algorithm = iota
	Bilinear
	Bicubic
	Lanczos
)

// Scale implements spec §4.7.3: resizes img to w x h using algorithm.
// Indexed sources are materialized to RGB first; if the original format
// was indexed, the result is re-quantized back to an indexed format of the
// same size. Metadata (delay, gamma, palette already handled, ICC) is
// preserved. w and h must be positive.
func Scale(img *sailimage.Image, w, h uint32, algorithm Algorithm) (*sailimage.Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errs.New(errs.InvalidArgument, "manip.Scale", nil)
	}
	if w == 0 || h == 0 {
		return nil, errs.New(errs.InvalidArgument, "manip.Scale", nil)
	}

	origFmt := img.PixelFormat
	wasIndexed := sailimage.IsIndexed(origFmt)
	var colorCount int
	if wasIndexed && img.Palette != nil {
		colorCount = img.Palette.ColorCount
	}

	work := img
	if wasIndexed {
		rgba, err := indexedToRGBA(img)
		if err != nil {
			return nil, err
		}
		work = rgba
	}

	var resized *sailimage.Image
	var err error
	if algorithm == NearestNeighbor {
		resized, err = scaleNearestNeighbor(work, w, h)
	} else {
		resized, err = scaleBackend(work, w, h, algorithm)
	}
	if err != nil {
		return nil, err
	}

	resized.Resolution = copyResolution(img.Resolution)
	resized.ICCP = img.ICCP.Copy()
	resized.MetaData = copyMetaData(img.MetaData)
	resized.Delay = img.Delay
	resized.Gamma = img.Gamma

	if wasIndexed {
		if colorCount <= 0 {
			colorCount = 256
		}
		return Quantize(resized, colorCount, false)
	}
	return resized, nil
}

// scaleNearestNeighbor is always the pure-Go path regardless of build
// tags (spec §4.7.3 design note: cheap, no reason to cross the cgo
// boundary for it).
func scaleNearestNeighbor(img *sailimage.Image, w, h uint32) (*sailimage.Image, error) {
	out := sailimage.NewSkeleton(w, h, img.PixelFormat)
	if err := out.AllocPixels(); err != nil {
		return nil, err
	}
	bpp := bytesPerPixelAligned(img.PixelFormat)
	if isPacked16(img.PixelFormat) {
		bpp = 2
	}
	if bpp == 0 {
		return nil, errs.New(errs.UnsupportedPixelFormat, "manip.Scale", nil)
	}
	for dy := uint32(0); dy < h; dy++ {
		sy := dy * img.Height / h
		srow := img.ScanLine(sy)
		drow := out.ScanLine(dy)
		for dx := uint32(0); dx < w; dx++ {
			sx := dx * img.Width / w
			copy(drow[int(dx)*bpp:int(dx)*bpp+bpp], srow[int(sx)*bpp:int(sx)*bpp+bpp])
		}
	}
	return out, nil
}
