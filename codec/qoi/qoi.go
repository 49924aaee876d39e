// Package qoi implements the "Quite OK Image" format from scratch
// (grounded on original_source/src/sail-codecs/qoi/qoi.c, itself a thin
// sail wrapper around the reference qoi.h single-header implementation).
// Per spec §4.6, the whole file is read/written in one shot; only
// RGB/RGBA pixel data is supported.
package qoi

import (
	"encoding/binary"
	"io"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "QOI",
	Version:      "1.0",
	Description:  "Quite OK Image Format",
	MagicNumbers: []string{"71 6F 69 66"}, // "qoif"
	Extensions:   []string{"qoi"},
	MIMETypes:    []string{"image/qoi", "image/x-qoi"},
	LoadFeatures: codec.LoadStatic,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP32RGBA},
		Compressions:       []sailimage.Compression{sailimage.CompressionQOI},
		DefaultCompression: sailimage.CompressionQOI,
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

const (
	magic       = "qoif"
	headerSize  = 14
	opIndex     = 0x00
	opDiff      = 0x40
	opLuma      = 0x80
	opRun       = 0xC0
	opRGB       = 0xFE
	opRGBA      = 0xFF
	tagMask     = 0xC0
	endMarkerSz = 8
)

type qoiPixel struct{ r, g, b, a byte }

func hash(p qoiPixel) byte {
	return (p.r*3 + p.g*5 + p.b*7 + p.a*11) % 64
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	data, err := io.ReadAll(codec.Reader(s))
	if err != nil {
		return errs.New(errs.ReadIO, "qoi.Loader.Init", err)
	}
	img, err := decode(data)
	if err != nil {
		return errs.New(errs.BrokenImage, "qoi.Loader.Init", err)
	}
	l.img = img
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

func decode(data []byte) (*sailimage.Image, error) {
	if len(data) < headerSize || string(data[:4]) != magic {
		return nil, errs.Sentinel(errs.BrokenImage)
	}
	width := binary.BigEndian.Uint32(data[4:8])
	height := binary.BigEndian.Uint32(data[8:12])
	channels := data[12]

	pf := sailimage.BPP24RGB
	if channels == 4 {
		pf = sailimage.BPP32RGBA
	}
	img := sailimage.NewSkeleton(width, height, pf)
	if err := img.AllocPixels(); err != nil {
		return nil, err
	}

	var seen [64]qoiPixel
	px := qoiPixel{a: 255}
	pos := headerSize
	n := int(width) * int(height)
	bpp := int(channels)

	for i := 0; i < n && pos < len(data)-endMarkerSz; i++ {
		tag := data[pos]
		switch {
		case tag == opRGB:
			px.r, px.g, px.b = data[pos+1], data[pos+2], data[pos+3]
			pos += 4
		case tag == opRGBA:
			px.r, px.g, px.b, px.a = data[pos+1], data[pos+2], data[pos+3], data[pos+4]
			pos += 5
		case tag&tagMask == opIndex:
			px = seen[tag&0x3F]
			pos++
		case tag&tagMask == opDiff:
			dr := int(tag>>4&0x03) - 2
			dg := int(tag>>2&0x03) - 2
			db := int(tag&0x03) - 2
			px.r = byte(int(px.r) + dr)
			px.g = byte(int(px.g) + dg)
			px.b = byte(int(px.b) + db)
			pos++
		case tag&tagMask == opLuma:
			dg := int(tag&0x3F) - 32
			second := data[pos+1]
			drdg := int(second>>4&0x0F) - 8
			dbdg := int(second&0x0F) - 8
			px.r = byte(int(px.r) + dg + drdg)
			px.g = byte(int(px.g) + dg)
			px.b = byte(int(px.b) + dg + dbdg)
			pos += 2
		case tag&tagMask == opRun:
			run := int(tag&0x3F) + 1
			for r := 0; r < run && i < n; r++ {
				writePixel(img, i, px, bpp)
				i++
			}
			i--
			seen[hash(px)] = px
			pos++
			continue
		}
		writePixel(img, i, px, bpp)
		seen[hash(px)] = px
	}
	return img, nil
}

func writePixel(img *sailimage.Image, i int, px qoiPixel, bpp int) {
	w := int(img.Width)
	y, x := i/w, i%w
	row := img.ScanLine(uint32(y))
	o := x * bpp
	row[o], row[o+1], row[o+2] = px.r, px.g, px.b
	if bpp == 4 {
		row[o+3] = px.a
	}
}

type saver struct{ w io.Writer }

func (s *saver) Init(stream iostream.Stream, opts codec.SaveOptions) error {
	s.w = codec.Writer(stream)
	return nil
}

func (s *saver) SeekNextFrame(img *sailimage.Image) error {
	_, err := s.w.Write(encode(img))
	return err
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }
func (s *saver) Finish() error                    { return nil }

func encode(img *sailimage.Image) []byte {
	bpp := 3
	channels := byte(3)
	if img.PixelFormat == sailimage.BPP32RGBA {
		bpp = 4
		channels = 4
	}

	out := make([]byte, headerSize, headerSize+len(img.Pixels)+endMarkerSz)
	copy(out[:4], magic)
	binary.BigEndian.PutUint32(out[4:8], img.Width)
	binary.BigEndian.PutUint32(out[8:12], img.Height)
	out[12] = channels
	out[13] = 0 // colorspace: sRGB with linear alpha

	var seen [64]qoiPixel
	prev := qoiPixel{a: 255}
	run := 0
	n := int(img.Width) * int(img.Height)

	flushRun := func() {
		for run > 0 {
			chunk := run
			if chunk > 62 {
				chunk = 62
			}
			out = append(out, byte(opRun|(chunk-1)))
			run -= chunk
		}
	}

	for i := 0; i < n; i++ {
		w := int(img.Width)
		y, x := i/w, i%w
		row := img.ScanLine(uint32(y))
		o := x * bpp
		cur := qoiPixel{r: row[o], g: row[o+1], b: row[o+2], a: 255}
		if bpp == 4 {
			cur.a = row[o+3]
		}

		if cur == prev {
			run++
			if run == 62 {
				flushRun()
			}
			continue
		}
		flushRun()

		idx := hash(cur)
		if seen[idx] == cur {
			out = append(out, byte(opIndex|idx))
		} else {
			seen[idx] = cur
			dr := int(cur.r) - int(prev.r)
			dg := int(cur.g) - int(prev.g)
			db := int(cur.b) - int(prev.b)
			switch {
			case cur.a != prev.a:
				out = append(out, opRGBA, cur.r, cur.g, cur.b, cur.a)
			case inRange2(dr) && inRange2(dg) && inRange2(db):
				out = append(out, byte(opDiff|((dr+2)<<4)|((dg+2)<<2)|(db+2)))
			case inRange32(dg) && inRange8(dr-dg) && inRange8(db-dg):
				out = append(out, byte(opLuma|(dg+32)), byte(((dr-dg+8)<<4)|(db-dg+8)))
			default:
				out = append(out, opRGB, cur.r, cur.g, cur.b)
			}
		}
		prev = cur
	}
	flushRun()
	out = append(out, 0, 0, 0, 0, 0, 0, 0, 1)
	return out
}

func inRange2(v int) bool  { return v >= -2 && v <= 1 }
func inRange8(v int) bool  { return v >= -8 && v <= 7 }
func inRange32(v int) bool { return v >= -32 && v <= 31 }
