// Package tga implements the Truevision TGA codec from scratch, grounded
// on original_source/src/sail-codecs/tga/{tga.c,helpers.c,helpers.h}.
// Only loading is supported: the reference codec's write path returns
// "not implemented" for every entry point, so this port does the same
// (Info.NewSaver is nil).
package tga

import (
	"encoding/binary"
	"io"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "TGA",
	Version:      "2.0",
	Description:  "Truevision TGA",
	MagicNumbers: []string{}, // TGA has no reliable magic number; identified by the v2 footer or extension.
	Extensions:   []string{"tga"},
	MIMETypes:    []string{"image/x-tga", "image/x-targa"},
	LoadFeatures: codec.LoadStatic | codec.LoadMetaData,
	NewLoader:    func() codec.Loader { return &loader{} },
}

const tgaSignature = "TRUEVISION-XFILE.\x00"

const (
	colorMapAbsent = 0
	colorMapPresent = 1
)

const (
	imageTypeNone           = 0
	imageTypeIndexed        = 1
	imageTypeTrueColor      = 2
	imageTypeGray           = 3
	imageTypeIndexedRLE     = 9
	imageTypeTrueColorRLE   = 10
	imageTypeGrayRLE        = 11
)

type fileHeader struct {
	idLength            uint8
	colorMapType        uint8
	imageType           uint8
	firstColorMapEntry  uint16
	colorMapElements    uint16
	colorMapEntrySize   uint8
	x, y                uint16
	width, height       uint16
	bpp                 uint8
	descriptor          uint8
}

func readFileHeader(r io.Reader) (*fileHeader, error) {
	buf := make([]byte, 18)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return &fileHeader{
		idLength:           buf[0],
		colorMapType:       buf[1],
		imageType:          buf[2],
		firstColorMapEntry: binary.LittleEndian.Uint16(buf[3:5]),
		colorMapElements:   binary.LittleEndian.Uint16(buf[5:7]),
		colorMapEntrySize:  buf[7],
		x:                  binary.LittleEndian.Uint16(buf[8:10]),
		y:                  binary.LittleEndian.Uint16(buf[10:12]),
		width:              binary.LittleEndian.Uint16(buf[12:14]),
		height:             binary.LittleEndian.Uint16(buf[14:16]),
		bpp:                buf[16],
		descriptor:         buf[17],
	}, nil
}

func pixelFormatFor(imageType uint8, bpp uint8) sailimage.PixelFormat {
	switch imageType {
	case imageTypeIndexed, imageTypeIndexedRLE:
		return sailimage.BPP8Indexed
	case imageTypeTrueColor, imageTypeTrueColorRLE:
		switch bpp {
		case 16:
			return sailimage.BPP16BGR555
		case 24:
			return sailimage.BPP24BGR
		case 32:
			return sailimage.BPP32BGRA
		}
	case imageTypeGray, imageTypeGrayRLE:
		if bpp == 8 {
			return sailimage.BPP8Grayscale
		}
	}
	return sailimage.Unknown
}

func palettePixelFormatFor(bpp uint8) sailimage.PixelFormat {
	switch bpp {
	case 15, 16, 24:
		return sailimage.BPP24RGB
	case 32:
		return sailimage.BPP32RGBA
	default:
		return sailimage.Unknown
	}
}

type loader struct {
	r      io.Reader
	hdr    *fileHeader
	tga2   bool
	done   bool
	pixels []byte
	img    *sailimage.Image
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	// Peek the v2 footer to decide tga2, then rewind, matching the reference
	// codec's seek-to-footer / seek-back-to-start dance.
	if s.Features().Has(iostream.Seekable) {
		if size, err := s.Size(); err == nil && size >= 18 {
			if err := s.Seek(-18, iostream.SeekEnd); err == nil {
				sig := make([]byte, 18)
				if err := s.StrictRead(sig); err == nil {
					l.tga2 = string(sig) == tgaSignature
				}
			}
			if err := s.Seek(0, iostream.SeekSet); err != nil {
				return errs.New(errs.SeekIO, "tga.Loader.Init", err)
			}
		}
	}
	l.r = codec.Reader(s)
	return nil
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.done {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	l.done = true

	hdr, err := readFileHeader(l.r)
	if err != nil {
		return nil, errs.New(errs.ReadIO, "tga.Loader.SeekNextFrame", err)
	}
	l.hdr = hdr

	pf := pixelFormatFor(hdr.imageType, hdr.bpp)
	if pf == sailimage.Unknown {
		return nil, errs.Sentinel(errs.UnsupportedPixelFormat)
	}

	img := sailimage.NewSkeleton(uint32(hdr.width), uint32(hdr.height), pf)
	flippedH := hdr.descriptor&0x10 != 0 // 4th bit set = flipped horizontally.
	flippedV := hdr.descriptor&0x20 == 0 // 5th bit unset = flipped vertically.
	img.SourceImage = &sailimage.SourceImage{PixelFormat: pf}
	switch {
	case flippedH && flippedV:
		img.SourceImage.Orientation = sailimage.OrientationRotated180
	case flippedH:
		img.SourceImage.Orientation = sailimage.OrientationMirroredHorizontally
	case flippedV:
		img.SourceImage.Orientation = sailimage.OrientationMirroredVertically
	}
	img.SourceImage.SpecialProperties = sailimage.NewHashMap()
	img.SourceImage.SpecialProperties.Set("tga-flipped-horizontally", sailimage.NewBool(flippedH))
	img.SourceImage.SpecialProperties.Set("tga-flipped-vertically", sailimage.NewBool(flippedV))
	switch hdr.imageType {
	case imageTypeIndexedRLE, imageTypeTrueColorRLE, imageTypeGrayRLE:
		img.SourceImage.Compression = sailimage.CompressionRLE
	default:
		img.SourceImage.Compression = sailimage.CompressionNone
	}

	if hdr.idLength > 0 {
		id := make([]byte, hdr.idLength)
		if _, err := io.ReadFull(l.r, id); err != nil {
			return nil, errs.New(errs.ReadIO, "tga.Loader.SeekNextFrame", err)
		}
		img.AppendMetaData(sailimage.NewMetaDataFromUnknownString("tga-id", string(id)))
	}

	if hdr.colorMapType == colorMapPresent {
		pal, err := fetchPalette(l.r, hdr)
		if err != nil {
			return nil, err
		}
		img.Palette = pal
	}

	l.img = img
	return img, nil
}

func fetchPalette(r io.Reader, hdr *fileHeader) (*sailimage.Palette, error) {
	elemBytes := (int(hdr.colorMapEntrySize) + 7) / 8
	skip := int(hdr.firstColorMapEntry) * elemBytes
	if skip > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(skip)); err != nil {
			return nil, errs.New(errs.ReadIO, "tga.fetchPalette", err)
		}
	}

	palPF := palettePixelFormatFor(hdr.colorMapEntrySize)
	if palPF == sailimage.Unknown {
		return nil, errs.Sentinel(errs.UnsupportedPixelFormat)
	}

	elements := int(hdr.colorMapElements) - int(hdr.firstColorMapEntry)
	bpp := sailimage.BitsPerPixel(palPF) / 8
	data := make([]byte, elements*bpp)

	entry := make([]byte, 4)
	for i := 0; i < elements; i++ {
		if _, err := io.ReadFull(r, entry[:elemBytes]); err != nil {
			return nil, errs.New(errs.ReadIO, "tga.fetchPalette", err)
		}
		o := i * bpp
		switch hdr.colorMapEntrySize {
		case 15, 16:
			word := uint16(entry[0]) | uint16(entry[1])<<8
			data[o+0] = byte((word & 0x7C00) >> 10 << 3)
			data[o+1] = byte((word & 0x3E0) >> 5 << 3)
			data[o+2] = byte((word & 0x1F) << 3)
		case 24:
			data[o+0] = entry[2]
			data[o+1] = entry[1]
			data[o+2] = entry[0]
		case 32:
			data[o+0] = entry[2]
			data[o+1] = entry[1]
			data[o+2] = entry[0]
			data[o+3] = entry[3]
		}
	}

	return &sailimage.Palette{PixelFormat: palPF, ColorCount: elements, Data: data}, nil
}

func (l *loader) Frame(img *sailimage.Image) error {
	bytesPerLine := img.BytesPerLine
	total := int(bytesPerLine) * int(img.Height)
	pixelBytes := sailimage.BitsPerPixel(l.img.SourceImage.PixelFormat) / 8

	switch l.hdr.imageType {
	case imageTypeIndexed, imageTypeTrueColor, imageTypeGray:
		if _, err := io.ReadFull(l.r, img.Pixels[:total]); err != nil {
			return errs.New(errs.ReadIO, "tga.Loader.Frame", err)
		}
	case imageTypeIndexedRLE, imageTypeTrueColorRLE, imageTypeGrayRLE:
		if err := decodeRLE(l.r, img.Pixels[:total], pixelBytes); err != nil {
			return err
		}
	}
	return nil
}

// decodeRLE decodes TGA's packet-based run-length encoding: each packet's
// leading byte's top bit selects raw (0) or run-length (1) mode, and the
// low 7 bits hold count-1 pixels.
func decodeRLE(r io.Reader, out []byte, pixelBytes int) error {
	pos := 0
	px := make([]byte, pixelBytes)
	var hdr [1]byte
	for pos < len(out) {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return errs.New(errs.ReadIO, "tga.decodeRLE", err)
		}
		count := int(hdr[0]&0x7F) + 1
		if hdr[0]&0x80 != 0 {
			if _, err := io.ReadFull(r, px); err != nil {
				return errs.New(errs.ReadIO, "tga.decodeRLE", err)
			}
			for i := 0; i < count && pos < len(out); i++ {
				copy(out[pos:pos+pixelBytes], px)
				pos += pixelBytes
			}
		} else {
			n := count * pixelBytes
			if pos+n > len(out) {
				n = len(out) - pos
			}
			if _, err := io.ReadFull(r, out[pos:pos+n]); err != nil {
				return errs.New(errs.ReadIO, "tga.decodeRLE", err)
			}
			pos += n
		}
	}
	return nil
}

func (l *loader) Finish() error { l.img = nil; l.hdr = nil; return nil }
