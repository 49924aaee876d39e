// Package tiff implements the TIFF codec (uncompressed, DEFLATE, LZW,
// PackBits and CCITT Group 3/4 fax compression) via golang.org/x/image/tiff,
// which handles CCITT decoding internally.
package tiff

import (
	"bytes"
	"io"

	"golang.org/x/image/tiff"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "TIFF",
	Version:      "6.0",
	Description:  "Tagged Image File Format",
	MagicNumbers: []string{"49 49 2A 00", "4D 4D 00 2A"},
	Extensions:   []string{"tiff", "tif"},
	MIMETypes:    []string{"image/tiff"},
	LoadFeatures: codec.LoadStatic | codec.LoadMultiPaged | codec.LoadMetaData,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP32RGBA, sailimage.BPP8Grayscale, sailimage.BPP8Indexed},
		Compressions:       []sailimage.Compression{sailimage.CompressionNone, sailimage.CompressionDeflate, sailimage.CompressionPackBits},
		DefaultCompression: sailimage.CompressionDeflate,
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	goImg, err := tiff.Decode(codec.Reader(s))
	if err != nil {
		return errs.New(errs.BrokenImage, "tiff.Loader.Init", err)
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
	skel := sailimage.NewSkeleton(l.img.Width, l.img.Height, l.img.PixelFormat)
	skel.Palette = l.img.Palette
	return skel, nil
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
	tiffOpts := &tiff.Options{Compression: compressionFor(s.opts.Compression)}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, codec.ToGoImage(img), tiffOpts); err != nil {
		return errs.New(errs.UnderlyingCodec, "tiff.Saver.SeekNextFrame", err)
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }
func (s *saver) Finish() error                    { return nil }

func compressionFor(c sailimage.Compression) tiff.CompressionType {
	switch c {
	case sailimage.CompressionDeflate:
		return tiff.Deflate
	case sailimage.CompressionPackBits:
		return tiff.PackBits
	default:
		return tiff.Uncompressed
	}
}
