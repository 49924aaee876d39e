package codec

import (
	"image"
	"image/color"

	"github.com/ausocean/sail/sailimage"
)

// opaquer matches image/png's own interface assertion (see
// image/png's opaque() in writer.go): any concrete image.Image that knows
// whether it carries alpha reports it directly instead of being scanned
// pixel by pixel.
type opaquer interface {
	Opaque() bool
}

// opaque reports whether src has no meaningful alpha channel, using the
// same interface-assertion-then-scan fallback as image/png's opaque().
func opaque(src image.Image) bool {
	if o, ok := src.(opaquer); ok {
		return o.Opaque()
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := src.At(x, y).RGBA()
			if a != 0xffff {
				return false
			}
		}
	}
	return true
}

// FromGoImage converts a decoded stdlib/x-image image.Image into a fully
// populated sailimage.Image. Paletted images are preserved as BPP8Indexed
// with a copied Palette; *image.Gray and *image.Gray16 become
// BPP8Grayscale; everything else is reported as BPP24RGB or BPP32RGBA
// depending on whether the source actually carries alpha, mirroring the
// opaque() check image/png's own encoder uses to choose between cbTC8 and
// an alpha-bearing color type.
func FromGoImage(src image.Image) *sailimage.Image {
	b := src.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy())

	if p, ok := src.(*image.Paletted); ok {
		img := sailimage.NewSkeleton(w, h, sailimage.BPP8Indexed)
		img.Palette = goPaletteToSail(p.Palette)
		_ = img.AllocPixels()
		for y := 0; y < b.Dy(); y++ {
			row := img.ScanLine(uint32(y))
			copy(row, p.Pix[y*p.Stride:y*p.Stride+b.Dx()])
		}
		return img
	}

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		img := sailimage.NewSkeleton(w, h, sailimage.BPP8Grayscale)
		_ = img.AllocPixels()
		for y := 0; y < b.Dy(); y++ {
			row := img.ScanLine(uint32(y))
			for x := 0; x < b.Dx(); x++ {
				g, _, _, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				row[x] = byte(g >> 8)
			}
		}
		return img
	}

	if opaque(src) {
		img := sailimage.NewSkeleton(w, h, sailimage.BPP24RGB)
		_ = img.AllocPixels()
		for y := 0; y < b.Dy(); y++ {
			row := img.ScanLine(uint32(y))
			for x := 0; x < b.Dx(); x++ {
				r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				o := x * 3
				row[o] = byte(r >> 8)
				row[o+1] = byte(g >> 8)
				row[o+2] = byte(bl >> 8)
			}
		}
		return img
	}

	img := sailimage.NewSkeleton(w, h, sailimage.BPP32RGBA)
	_ = img.AllocPixels()
	for y := 0; y < b.Dy(); y++ {
		row := img.ScanLine(uint32(y))
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := x * 4
			row[o] = byte(r >> 8)
			row[o+1] = byte(g >> 8)
			row[o+2] = byte(bl >> 8)
			row[o+3] = byte(a >> 8)
		}
	}
	return img
}

func goPaletteToSail(p color.Palette) *sailimage.Palette {
	pal, err := sailimage.NewPalette(sailimage.BPP24RGB, len(p))
	if err != nil {
		return nil
	}
	for i, c := range p {
		r, g, b, _ := c.RGBA()
		copy(pal.Data[i*3:], []byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)})
	}
	return pal
}

// ToGoImage converts a fully decoded (non-skeleton) sailimage.Image that is
// BPP24RGB, BPP32RGBA, BPP8Indexed or BPP8Grayscale into a stdlib
// image.Image suitable for handing to an encoder such as image/png or
// image/jpeg. Callers are expected to run the image through manip.Convert
// first if it is in another pixel format.
func ToGoImage(img *sailimage.Image) image.Image {
	w, h := int(img.Width), int(img.Height)
	switch img.PixelFormat {
	case sailimage.BPP32RGBA:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], img.ScanLine(uint32(y)))
		}
		return dst
	case sailimage.BPP24RGB:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			src := img.ScanLine(uint32(y))
			for x := 0; x < w; x++ {
				o := x * 3
				dst.Set(x, y, color.RGBA{src[o], src[o+1], src[o+2], 255})
			}
		}
		return dst
	case sailimage.BPP8Indexed:
		pal := make(color.Palette, img.Palette.ColorCount)
		for i := 0; i < img.Palette.ColorCount; i++ {
			c := img.Palette.Color(i)
			pal[i] = color.RGBA{c[0], c[1], c[2], 255}
		}
		dst := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		for y := 0; y < h; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], img.ScanLine(uint32(y)))
		}
		return dst
	case sailimage.BPP8Grayscale:
		dst := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], img.ScanLine(uint32(y)))
		}
		return dst
	default:
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		return dst
	}
}
