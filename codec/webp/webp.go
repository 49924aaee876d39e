// Package webp implements WebP decoding via golang.org/x/image/webp (which
// itself is backed by golang.org/x/image/vp8 and vp8l for the lossy/lossless
// bitstreams). x/image/webp has no encoder, so this codec is load-only;
// Info.NewSaver is nil (spec §4.4: "Any codec may implement only load or
// only save").
package webp

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"

	"golang.org/x/image/webp"
)

var Info = &codec.Info{
	Name:         "WEBP",
	Version:      "1.0",
	Description:  "Google WebP (lossy VP8 and lossless VP8L)",
	MagicNumbers: []string{"0 @ 52 49 46 46", "8 @ 57 45 42 50"},
	Extensions:   []string{"webp"},
	MIMETypes:    []string{"image/webp"},
	LoadFeatures: codec.LoadStatic,
	NewLoader:    func() codec.Loader { return &loader{} },
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	goImg, err := webp.Decode(codec.Reader(s))
	if err != nil {
		return errs.New(errs.BrokenImage, "webp.Loader.Init", err)
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
