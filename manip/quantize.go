package manip

import (
	"sort"

	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/sailimage"
)

// Quantize implements spec §4.7.1's RGB/RGBA -> Indexed path: a median-cut
// color reduction to at most maxColors entries (grounded on the same
// "split the largest-range box" idea as Wu quantization, simplified to a
// single dominant-channel split per box, which is sufficient for the
// runtime's bit depths of 1/4/8 bpp), with optional Floyd-Steinberg error
// diffusion.
//
// img must be BPP32RGBA or BPP24RGB. The returned image's PixelFormat is
// whichever indexed format has enough entries for maxColors (BPP1Indexed
// for <=2, BPP4Indexed for <=16, else BPP8Indexed).
func Quantize(img *sailimage.Image, maxColors int, dither bool) (*sailimage.Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errs.New(errs.InvalidArgument, "manip.Quantize", nil)
	}
	if maxColors <= 0 {
		return nil, errs.New(errs.InvalidArgument, "manip.Quantize", nil)
	}
	if maxColors > 256 {
		maxColors = 256
	}

	px := extractRGB(img)
	palette := medianCutPalette(px, maxColors)

	dstFmt := sailimage.BPP8Indexed
	switch {
	case maxColors <= 2:
		dstFmt = sailimage.BPP1Indexed
	case maxColors <= 16:
		dstFmt = sailimage.BPP4Indexed
	}
	bpc := sailimage.BitsPerPixel(dstFmt)

	pal, err := sailimage.NewPalette(sailimage.BPP24RGB, len(palette))
	if err != nil {
		return nil, err
	}
	for i, c := range palette {
		pal.Data[i*3], pal.Data[i*3+1], pal.Data[i*3+2] = c[0], c[1], c[2]
	}

	out := sailimage.NewSkeleton(img.Width, img.Height, dstFmt)
	out.Palette = pal
	if err := out.AllocPixels(); err != nil {
		return nil, err
	}

	if dither {
		ditherFloydSteinberg(px, img.Width, img.Height, palette, out, bpc)
	} else {
		for i, c := range px {
			idx := nearestColor(palette, c)
			writeIndex(out.ScanLine(uint32(i/int(img.Width))), i%int(img.Width), bpc, idx)
		}
	}
	return out, nil
}

type rgb8 [3]byte

func extractRGB(img *sailimage.Image) []rgb8 {
	out := make([]rgb8, 0, int(img.Width)*int(img.Height))
	bpp := bytesPerPixelAligned(img.PixelFormat)
	for y := uint32(0); y < img.Height; y++ {
		row := img.ScanLine(y)
		for x := uint32(0); x < img.Width; x++ {
			px := decodePixel(img.PixelFormat, row, int(x)*bpp)
			out = append(out, rgb8{narrow16(px.R), narrow16(px.G), narrow16(px.B)})
		}
	}
	return out
}

// medianCutPalette splits the color set into at most maxColors boxes,
// repeatedly dividing the box with the largest channel range on its
// dominant channel, then averages each final box to one palette entry.
func medianCutPalette(px []rgb8, maxColors int) []rgb8 {
	if len(px) == 0 {
		return []rgb8{{0, 0, 0}}
	}
	type box struct{ pixels []rgb8 }
	boxes := []box{{pixels: px}}

	for len(boxes) < maxColors {
		// find the box with the largest range on any channel.
		bestIdx, bestRange, bestCh := -1, -1, 0
		for i, b := range boxes {
			if len(b.pixels) < 2 {
				continue
			}
			for ch := 0; ch < 3; ch++ {
				lo, hi := byte(255), byte(0)
				for _, c := range b.pixels {
					if c[ch] < lo {
						lo = c[ch]
					}
					if c[ch] > hi {
						hi = c[ch]
					}
				}
				if int(hi-lo) > bestRange {
					bestRange = int(hi - lo)
					bestIdx = i
					bestCh = ch
				}
			}
		}
		if bestIdx < 0 {
			break
		}
		b := boxes[bestIdx]
		sorted := append([]rgb8(nil), b.pixels...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i][bestCh] < sorted[j][bestCh] })
		mid := len(sorted) / 2
		boxes[bestIdx] = box{pixels: sorted[:mid]}
		boxes = append(boxes, box{pixels: sorted[mid:]})
	}

	palette := make([]rgb8, 0, len(boxes))
	for _, b := range boxes {
		if len(b.pixels) == 0 {
			continue
		}
		var r, g, bl int
		for _, c := range b.pixels {
			r += int(c[0])
			g += int(c[1])
			bl += int(c[2])
		}
		n := len(b.pixels)
		palette = append(palette, rgb8{byte(r / n), byte(g / n), byte(bl / n)})
	}
	if len(palette) == 0 {
		palette = append(palette, rgb8{0, 0, 0})
	}
	return palette
}

func nearestColor(palette []rgb8, c rgb8) int {
	best, bestDist := 0, -1
	for i, p := range palette {
		dr := int(p[0]) - int(c[0])
		dg := int(p[1]) - int(c[1])
		db := int(p[2]) - int(c[2])
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func writeIndex(row []byte, x int, bpc int, idx int) {
	switch bpc {
	case 8:
		row[x] = byte(idx)
	case 1, 2, 4:
		perByte := 8 / bpc
		shift := uint(8 - bpc - (x%perByte)*bpc)
		mask := byte(1<<uint(bpc) - 1)
		row[x/perByte] = row[x/perByte]&^(mask<<shift) | byte(idx)&mask<<shift
	}
}

// ditherFloydSteinberg implements spec §4.7.1's Floyd-Steinberg error
// diffusion exactly: for each pixel, find the nearest palette entry,
// compute the quantization error, and distribute 7/16 right, 3/16
// below-left, 5/16 below, 1/16 below-right, clamped to [0,255].
// Left-to-right, top-to-bottom scan order (no serpentine), per spec.
func ditherFloydSteinberg(px []rgb8, width, height uint32, palette []rgb8, out *sailimage.Image, bpc int) {
	w, h := int(width), int(height)
	errs := make([][3]float64, len(px))

	at := func(x, y int) int { return y*w + x }
	clamp := func(v float64) byte {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return byte(v + 0.5)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := at(x, y)
			c := px[i]
			var adj [3]float64
			for ch := 0; ch < 3; ch++ {
				adj[ch] = float64(c[ch]) + errs[i][ch]
			}
			adjC := rgb8{clamp(adj[0]), clamp(adj[1]), clamp(adj[2])}
			idx := nearestColor(palette, adjC)
			writeIndex(out.ScanLine(uint32(y)), x, bpc, idx)

			var e [3]float64
			for ch := 0; ch < 3; ch++ {
				e[ch] = adj[ch] - float64(palette[idx][ch])
			}
			if x+1 < w {
				j := at(x+1, y)
				for ch := 0; ch < 3; ch++ {
					errs[j][ch] += e[ch] * 7 / 16
				}
			}
			if y+1 < h {
				if x-1 >= 0 {
					j := at(x-1, y+1)
					for ch := 0; ch < 3; ch++ {
						errs[j][ch] += e[ch] * 3 / 16
					}
				}
				j := at(x, y+1)
				for ch := 0; ch < 3; ch++ {
					errs[j][ch] += e[ch] * 5 / 16
				}
				if x+1 < w {
					j := at(x+1, y+1)
					for ch := 0; ch < 3; ch++ {
						errs[j][ch] += e[ch] * 1 / 16
					}
				}
			}
		}
	}
}
