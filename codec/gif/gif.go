// Package gif implements the animated GIF codec (global/local palettes,
// per-frame delay) via the standard library's image/gif.
package gif

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "GIF",
	Version:      "89a",
	Description:  "Graphics Interchange Format, animated",
	MagicNumbers: []string{"47 49 46 38 37 61", "47 49 46 38 39 61"},
	Extensions:   []string{"gif"},
	MIMETypes:    []string{"image/gif"},
	LoadFeatures: codec.LoadStatic | codec.LoadAnimated,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic | codec.SaveAnimated,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP8Indexed},
		Compressions:       []sailimage.Compression{sailimage.CompressionLZW},
		DefaultCompression: sailimage.CompressionLZW,
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

type loader struct {
	frames []*sailimage.Image
	pos    int
	pend   *sailimage.Image
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	g, err := gif.DecodeAll(codec.Reader(s))
	if err != nil {
		return errs.New(errs.BrokenImage, "gif.Loader.Init", err)
	}
	for i, frame := range g.Image {
		img := codec.FromGoImage(frame)
		img.Delay = int32(g.Delay[i] * 10)
		l.frames = append(l.frames, img)
	}
	return nil
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.pos >= len(l.frames) {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	f := l.frames[l.pos]
	skel := sailimage.NewSkeleton(f.Width, f.Height, f.PixelFormat)
	skel.Delay = f.Delay
	skel.Palette = f.Palette
	l.pend = f
	return skel, nil
}

func (l *loader) Frame(img *sailimage.Image) error {
	img.Pixels = l.pend.Pixels
	img.BytesPerLine = l.pend.BytesPerLine
	l.pos++
	return nil
}

func (l *loader) Finish() error { l.frames = nil; return nil }

type saver struct {
	w      io.Writer
	frames []*sailimage.Image
}

func (s *saver) Init(stream iostream.Stream, opts codec.SaveOptions) error {
	s.w = codec.Writer(stream)
	return nil
}

func (s *saver) SeekNextFrame(img *sailimage.Image) error {
	s.frames = append(s.frames, img)
	return nil
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }

func (s *saver) Finish() error {
	if len(s.frames) == 0 {
		return nil
	}
	anim := &gif.GIF{}
	for _, f := range s.frames {
		goImg := codec.ToGoImage(f)
		pal, ok := goImg.(*image.Paletted)
		if !ok {
			pal = toPaletted(goImg)
		}
		anim.Image = append(anim.Image, pal)
		delay := f.Delay / 10
		if delay <= 0 {
			delay = 10
		}
		anim.Delay = append(anim.Delay, int(delay))
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return errs.New(errs.UnderlyingCodec, "gif.Saver.Finish", err)
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

// toPaletted quantizes a non-paletted frame (e.g. ToGoImage's RGBA path)
// down to GIF's required 8-bit paletted form using a locally built
// 216-color web-safe palette.
func toPaletted(src image.Image) *image.Paletted {
	b := src.Bounds()
	dst := image.NewPaletted(b, palette256)
	draw.FloydSteinberg.Draw(dst, b, src, image.Point{})
	return dst
}

var palette256 = buildWebSafePalette()

func buildWebSafePalette() color.Palette {
	var p color.Palette
	levels := []uint8{0, 51, 102, 153, 204, 255}
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p = append(p, color.RGBA{r, g, b, 255})
			}
		}
	}
	return p
}
