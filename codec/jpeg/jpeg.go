// Package jpeg implements the JPEG codec: baseline/progressive decode and
// encode via the standard library's image/jpeg, with EXIF metadata read
// through github.com/rwcarlsen/goexif and mapped onto MetaDataNode.
package jpeg

import (
	"bytes"
	"image/jpeg"
	"io"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "JPEG",
	Version:      "1.0",
	Description:  "JPEG File Interchange Format (baseline/progressive)",
	MagicNumbers: []string{"FF D8 FF"},
	Extensions:   []string{"jpg", "jpeg", "jpe", "jfif"},
	MIMETypes:    []string{"image/jpeg"},
	LoadFeatures: codec.LoadStatic | codec.LoadMetaData,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP8Grayscale},
		Compressions:       []sailimage.Compression{sailimage.CompressionJPEG},
		DefaultCompression: sailimage.CompressionJPEG,
		CompressionLevel:   &codec.CompressionLevelRange{Min: 1, Max: 100, Default: 85, Step: 1},
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	data, err := io.ReadAll(codec.Reader(s))
	if err != nil {
		return errs.New(errs.ReadIO, "jpeg.Loader.Init", err)
	}
	goImg, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BrokenImage, "jpeg.Loader.Init", err)
	}
	l.img = codec.FromGoImage(goImg)
	l.img.Delay = -1

	if opts.Options&codec.OptionMetaData != 0 {
		if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
			attachExif(l.img, x)
		}
	}
	return nil
}

// attachExif maps the handful of EXIF fields the metadata model has a
// well-known key for; everything else is dropped, matching the scope of
// spec's EXIF support ("a representative subset, not the full tag table").
func attachExif(img *sailimage.Image, x *exif.Exif) {
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			img.AppendMetaData(sailimage.NewMetaDataFromKnownString(sailimage.MetaDataMake, s))
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			img.AppendMetaData(sailimage.NewMetaDataFromKnownString(sailimage.MetaDataModel, s))
		}
	}
	if tag, err := x.Get(exif.Software); err == nil {
		if s, err := tag.StringVal(); err == nil {
			img.AppendMetaData(sailimage.NewMetaDataFromKnownString(sailimage.MetaDataSoftware, s))
		}
	}
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			img.AppendMetaData(sailimage.NewMetaDataFromKnownString(sailimage.MetaDataCreationTime, s))
		}
	}
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.done {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	l.done = true
	skel := sailimage.NewSkeleton(l.img.Width, l.img.Height, l.img.PixelFormat)
	skel.MetaData = l.img.MetaData
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
	q := int(s.opts.CompressionLevel)
	if q == 0 {
		q = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, codec.ToGoImage(img), &jpeg.Options{Quality: q}); err != nil {
		return errs.New(errs.UnderlyingCodec, "jpeg.Saver.SeekNextFrame", err)
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }
func (s *saver) Finish() error                    { return nil }
