// Package jpeg2000 implements the JPEG 2000 codec via
// github.com/mrjoshuak/go-jpeg2000, a pure-Go JP2/J2K implementation.
package jpeg2000

import (
	"bytes"
	"io"

	"github.com/mrjoshuak/go-jpeg2000"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "JPEG2000",
	Version:      "1.0",
	Description:  "JPEG 2000 (JP2/J2K)",
	MagicNumbers: []string{"00 00 00 0C 6A 50 20 20", "FF 4F FF 51"},
	Extensions:   []string{"jp2", "j2k", "jpx", "jpf"},
	MIMETypes:    []string{"image/jp2", "image/jpx"},
	LoadFeatures: codec.LoadStatic,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP8Grayscale},
		Compressions:       []sailimage.Compression{sailimage.CompressionJPEG2000},
		DefaultCompression: sailimage.CompressionJPEG2000,
		CompressionLevel:   &codec.CompressionLevelRange{Min: 0, Max: 100, Default: 80, Step: 1},
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	goImg, err := jpeg2000.Decode(codec.Reader(s))
	if err != nil {
		return errs.New(errs.BrokenImage, "jpeg2000.Loader.Init", err)
	}
	l.img = codec.FromGoImage(goImg)
	l.img.Delay = -1
	return nil
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.done {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	l.done = true
	return sailimage.NewSkeleton(l.img.Width, l.img.Height, l.img.PixelFormat), nil
}

func (l *loader) Frame(img *sailimage.Image) error {
	img.Pixels = l.img.Pixels
	img.BytesPerLine = l.img.BytesPerLine
	return nil
}

func (l *loader) Finish() error { l.img = nil; return nil }

type saver struct {
	w    io.Writer
	opts codec.SaveOptions
}

func (s *saver) Init(stream iostream.Stream, opts codec.SaveOptions) error {
	s.w = codec.Writer(stream)
	s.opts = opts
	return nil
}

func (s *saver) SeekNextFrame(img *sailimage.Image) error {
	quality := int(s.opts.CompressionLevel)
	if quality == 0 {
		quality = 80
	}
	var buf bytes.Buffer
	if err := jpeg2000.Encode(&buf, codec.ToGoImage(img), &jpeg2000.Options{Quality: quality}); err != nil {
		return errs.New(errs.UnderlyingCodec, "jpeg2000.Saver.SeekNextFrame", err)
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }
func (s *saver) Finish() error                    { return nil }
