// Package bmp implements the Windows Bitmap codec. The decoder accepts a
// BITMAPFILEHEADER followed by any of the BITMAPCOREHEADER (v2, 12 bytes),
// BITMAPINFOHEADER (v3, 40 bytes), BITMAPV4HEADER (108 bytes) or
// BITMAPV5HEADER (124 bytes) DIB headers, plus headerless DDB/packed-DIB
// streams (no "BM" file header, as produced by CF_DIB clipboard transfers)
// at 1/2/4/8/16/24/32 bpp, with RLE4/RLE8. BI_BITFIELDS headers are accepted
// and their masks read, but the masks are not applied: 16 bpp pixels are
// always decoded as 5-5-5 and 32 bpp pixels as B,G,R,A bytes. When a
// paletted DIB declares zero colors and the pixel data starts immediately
// after the header (no color table present), a default system palette is
// synthesized rather than reading one from the stream. Adapted from
// sergeymakinen/go-bmp's reader, which is itself a derivative of
// golang.org/x/image/bmp with RLE and bitfields support added.
package bmp

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "BMP",
	Version:      "5.0",
	Description:  "Windows Bitmap (DDB/DIB v2-v5)",
	MagicNumbers: []string{"42 4D"},
	Extensions:   []string{"bmp", "dib"},
	MIMETypes:    []string{"image/bmp", "image/x-ms-bmp"},
	LoadFeatures: codec.LoadStatic,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP32RGBA, sailimage.BPP8Indexed},
		Compressions:       []sailimage.Compression{sailimage.CompressionNone},
		DefaultCompression: sailimage.CompressionNone,
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

type loader struct {
	img  *sailimage.Image
	done bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	goImg, err := decode(codec.Reader(s))
	if err != nil {
		return errs.New(errs.BrokenImage, "bmp.Loader.Init", err)
	}
	l.img = codec.FromGoImage(goImg)
	l.img.Orientation = sailimage.OrientationNormal
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

type saver struct{ w io.Writer }

func (s *saver) Init(stream iostream.Stream, opts codec.SaveOptions) error {
	s.w = codec.Writer(stream)
	return nil
}

func (s *saver) SeekNextFrame(img *sailimage.Image) error {
	var buf bytes.Buffer
	if err := encode(&buf, codec.ToGoImage(img)); err != nil {
		return errs.New(errs.UnderlyingCodec, "bmp.Saver.SeekNextFrame", err)
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }
func (s *saver) Finish() error                    { return nil }

// FormatError reports that the input is not a valid BMP.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// UnsupportedError reports that the input uses a valid but unimplemented BMP feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "bmp: unsupported feature: " + string(e) }

const (
	fileHeaderLen    = 14
	coreHeaderLen    = 12
	infoHeaderLen    = 40
	v4InfoHeaderLen  = 108
	v5InfoHeaderLen  = 124
	biRGB            = 0
	biRLE8           = 1
	biRLE4           = 2
	biBitFields      = 3
)

func readUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

type decoder struct {
	r               *bufio.Reader
	hasFileHeader   bool
	offset          uint32
	headerLen       uint32
	width, height   int
	topDown         bool
	bpp             uint16
	compression     uint32
	colorsUsed      uint32
	rle             bool
	bitfields       [3]uint32
	noAlpha         bool
	pal             color.Palette
}

// decode reads a BMP/DIB/DDB image from r.
func decode(r io.Reader) (image.Image, error) {
	d := &decoder{r: bufio.NewReader(r)}
	if err := d.readHeaders(); err != nil {
		return nil, err
	}
	return d.readPixels()
}

func (d *decoder) readHeaders() error {
	magic, err := d.r.Peek(2)
	if err != nil {
		return err
	}
	var headerOffsetField uint32
	if string(magic) == "BM" {
		d.hasFileHeader = true
		var fh [fileHeaderLen]byte
		if _, err := io.ReadFull(d.r, fh[:]); err != nil {
			return err
		}
		headerOffsetField = readUint32(fh[10:])
	}

	var sizeBuf [4]byte
	if _, err := io.ReadFull(d.r, sizeBuf[:]); err != nil {
		return err
	}
	d.headerLen = readUint32(sizeBuf[:])

	rest := make([]byte, d.headerLen-4)
	if _, err := io.ReadFull(d.r, rest); err != nil {
		return err
	}
	hdr := append(sizeBuf[:], rest...)

	switch d.headerLen {
	case coreHeaderLen:
		d.width = int(int16(readUint16(hdr[4:])))
		d.height = int(int16(readUint16(hdr[6:])))
		d.bpp = readUint16(hdr[10:])
		d.compression = biRGB
	case infoHeaderLen, v4InfoHeaderLen, v5InfoHeaderLen:
		d.width = int(int32(readUint32(hdr[4:])))
		d.height = int(int32(readUint32(hdr[8:])))
		d.bpp = readUint16(hdr[14:])
		d.compression = readUint32(hdr[16:])
		d.colorsUsed = readUint32(hdr[32:])
		if d.compression == biBitFields && len(hdr) >= 52+4 {
			// BITMAPV4HEADER/V5HEADER embed the masks right after the core
			// fields; BITMAPINFOHEADER needs them read separately below.
			d.bitfields[0] = readUint32(hdr[40:])
			d.bitfields[1] = readUint32(hdr[44:])
			d.bitfields[2] = readUint32(hdr[48:])
		}
	default:
		return UnsupportedError("DIB header version")
	}
	if d.height < 0 {
		d.height, d.topDown = -d.height, true
	}
	if d.width < 0 || d.height < 0 {
		return UnsupportedError("non-positive dimension")
	}

	if d.compression == biBitFields && d.headerLen == infoHeaderLen {
		var mask [12]byte
		if _, err := io.ReadFull(d.r, mask[:]); err != nil {
			return err
		}
		d.bitfields[0] = readUint32(mask[0:])
		d.bitfields[1] = readUint32(mask[4:])
		d.bitfields[2] = readUint32(mask[8:])
	}
	if d.bpp == 32 && d.compression == biBitFields &&
		d.bitfields[0] == 0xFF0000 && d.bitfields[1] == 0xFF00 && d.bitfields[2] == 0xFF {
		d.compression = biRGB
		d.noAlpha = true
	}
	if (d.bpp == 4 && d.compression == biRLE4) || (d.bpp == 8 && d.compression == biRLE8) {
		d.rle = true
		d.compression = biRGB
	}
	if d.compression != biRGB {
		return UnsupportedError("compression method")
	}

	switch d.bpp {
	case 1, 2, 4, 8:
		colors := d.colorsUsed
		if colors == 0 {
			colors = 1 << d.bpp
		}
		headerEnd := uint32(0)
		if d.hasFileHeader {
			headerEnd = fileHeaderLen + d.headerLen
		} else {
			headerEnd = d.headerLen
		}
		// System-palette fallback: a declared offset that lands pixel data
		// right after the header (file-headered DIBs), or a DDB/packed-DIB
		// stream whose header said zero colors at all (no offset field to
		// check), means no color table was written; synthesize one instead
		// of reading past the header.
		wantOffset := headerEnd + colors*4
		switch {
		case d.hasFileHeader && headerOffsetField != 0 && headerOffsetField < wantOffset:
			d.pal = systemPalette(int(colors))
			d.offset = headerOffsetField
			return nil
		case !d.hasFileHeader && d.colorsUsed == 0:
			d.pal = systemPalette(int(colors))
			d.offset = headerEnd
			return nil
		}
		raw := make([]byte, colors*4)
		if _, err := io.ReadFull(d.r, raw); err != nil {
			return err
		}
		pal := make(color.Palette, colors)
		for i := range pal {
			pal[i] = color.RGBA{raw[4*i+2], raw[4*i+1], raw[4*i+0], 0xFF}
		}
		d.pal = pal
		d.offset = wantOffset
	case 16, 24, 32:
		// Nothing further to read; pixel data follows immediately.
	default:
		return UnsupportedError("bit depth")
	}
	return nil
}

// systemPalette synthesizes a grayscale fallback palette for a paletted DIB
// that omits its own color table: up to 16 entries cycle through black,
// mid-gray and white; larger palettes are an even gray ramp.
func systemPalette(n int) color.Palette {
	pal := make(color.Palette, n)
	if n <= 16 {
		levels := []uint8{0x00, 0x80, 0xFF}
		for i := range pal {
			v := levels[i%len(levels)]
			pal[i] = color.RGBA{v, v, v, 0xFF}
		}
		return pal
	}
	for i := range pal {
		v := uint8(i * 255 / (n - 1))
		pal[i] = color.RGBA{v, v, v, 0xFF}
	}
	return pal
}

func (d *decoder) readPixels() (image.Image, error) {
	if d.rle {
		return d.decodeRLE()
	}
	switch d.bpp {
	case 1, 2, 4:
		return d.decodeSmallPaletted()
	case 8:
		return d.decodePaletted()
	case 16:
		return d.decodeRGB16()
	case 24:
		return d.decodeRGB24()
	case 32:
		return d.decodeRGBA32()
	}
	panic("unreachable")
}

func (d *decoder) rowOrder() (y0, y1, yDelta int) {
	if d.topDown {
		return 0, d.height, +1
	}
	return d.height - 1, -1, -1
}

func (d *decoder) decodeSmallPaletted() (image.Image, error) {
	img := image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.pal)
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	pixelsPerByte := 8 / int(d.bpp)
	row := make([]byte, ((d.width+pixelsPerByte-1)/pixelsPerByte+3)&^3)
	y0, y1, yDelta := d.rowOrder()
	for y := y0; y != y1; y += yDelta {
		if _, err := io.ReadFull(d.r, row); err != nil {
			return nil, err
		}
		p := img.Pix[y*img.Stride : y*img.Stride+d.width]
		bytePos, bit := 0, 8-int(d.bpp)
		for x := 0; x < d.width; x++ {
			p[x] = (row[bytePos] >> bit) & (1<<d.bpp - 1)
			if bit == 0 {
				bit = 8 - int(d.bpp)
				bytePos++
			} else {
				bit -= int(d.bpp)
			}
		}
	}
	return img, nil
}

func (d *decoder) decodePaletted() (image.Image, error) {
	img := image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.pal)
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	pad := (4 - d.width%4) % 4
	var tmp [4]byte
	y0, y1, yDelta := d.rowOrder()
	for y := y0; y != y1; y += yDelta {
		p := img.Pix[y*img.Stride : y*img.Stride+d.width]
		if _, err := io.ReadFull(d.r, p); err != nil {
			return nil, err
		}
		if pad > 0 {
			if _, err := io.ReadFull(d.r, tmp[:pad]); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

func (d *decoder) decodeRLE() (image.Image, error) {
	img := image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.pal)
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	var b [256]byte
	read := func() (byte, byte, error) {
		if _, err := io.ReadFull(d.r, b[:2]); err != nil {
			return 0, 0, err
		}
		return b[0], b[1], nil
	}
	x, y := 0, d.height-1
	valid := func() bool { return x >= 0 && x < img.Stride && y >= 0 && y < d.height }
Loop:
	for {
		b1, b2, err := read()
		if err != nil {
			return nil, err
		}
		switch b1 {
		case 0:
			switch b2 {
			case 0:
				x, y = 0, y-1
				if !valid() {
					return nil, FormatError("invalid RLE data")
				}
			case 1:
				break Loop
			case 2:
				db1, db2, err := read()
				if err != nil {
					return nil, err
				}
				x, y = x+int(db1), y-int(db2)
				if !valid() {
					return nil, FormatError("invalid RLE data")
				}
			default:
				n := (uint16(b2)*d.bpp + 7) / 8
				if (d.bpp == 8 && b2&1 != 0) || (d.bpp == 4 && (b2&3 == 1 || b2&3 == 2)) {
					n++
				}
				if _, err := io.ReadFull(d.r, b[:n]); err != nil {
					return nil, err
				}
				for i, j := uint8(0), 0; i < b2; i++ {
					var c byte
					if d.bpp == 8 {
						c = b[i]
					} else {
						c = (b[j] >> 4) & 0xF
					}
					if !valid() {
						return nil, FormatError("invalid RLE data")
					}
					img.Pix[y*img.Stride+x] = c
					x++
					if d.bpp == 4 {
						if i++; i < b2 {
							if !valid() {
								return nil, FormatError("invalid RLE data")
							}
							img.Pix[y*img.Stride+x] = b[j] & 0xF
							x++
						}
						if i%2 != 0 {
							j++
						}
					}
				}
			}
		default:
			for i := uint8(0); i < b1; i++ {
				if !valid() {
					return nil, FormatError("invalid RLE data")
				}
				var c byte
				if d.bpp == 8 {
					c = b2
				} else if i%2 == 0 {
					c = (b2 >> 4) & 0xF
				} else {
					c = b2 & 0xF
				}
				img.Pix[y*img.Stride+x] = c
				x++
			}
		}
	}
	return img, nil
}

func (d *decoder) decodeRGB16() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	row := make([]byte, (2*d.width+3)&^3)
	y0, y1, yDelta := d.rowOrder()
	for y := y0; y != y1; y += yDelta {
		if _, err := io.ReadFull(d.r, row); err != nil {
			return nil, err
		}
		p := img.Pix[y*img.Stride : y*img.Stride+d.width*4]
		for i, j := 0, 0; i < len(p); i, j = i+4, j+2 {
			px := readUint16(row[j:])
			p[i+0] = uint8((px&0x7C00)>>10) << 3
			p[i+1] = uint8((px&0x3E0)>>5) << 3
			p[i+2] = uint8(px&0x1F) << 3
			p[i+3] = 0xFF
		}
	}
	return img, nil
}

func (d *decoder) decodeRGB24() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	row := make([]byte, (3*d.width+3)&^3)
	y0, y1, yDelta := d.rowOrder()
	for y := y0; y != y1; y += yDelta {
		if _, err := io.ReadFull(d.r, row); err != nil {
			return nil, err
		}
		p := img.Pix[y*img.Stride : y*img.Stride+d.width*4]
		for i, j := 0, 0; i < len(p); i, j = i+4, j+3 {
			p[i+0] = row[j+2]
			p[i+1] = row[j+1]
			p[i+2] = row[j+0]
			p[i+3] = 0xFF
		}
	}
	return img, nil
}

func (d *decoder) decodeRGBA32() (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	if d.width == 0 || d.height == 0 {
		return img, nil
	}
	y0, y1, yDelta := d.rowOrder()
	for y := y0; y != y1; y += yDelta {
		p := img.Pix[y*img.Stride : y*img.Stride+d.width*4]
		if _, err := io.ReadFull(d.r, p); err != nil {
			return nil, err
		}
		for i := 0; i < len(p); i += 4 {
			p[i+0], p[i+2] = p[i+2], p[i+0]
			if d.noAlpha {
				p[i+3] = 0xFF
			}
		}
	}
	return img, nil
}

// opaquer mirrors image/png's interface assertion; *image.RGBA implements
// it natively, letting the encoder tell a genuinely opaque BPP24RGB source
// apart from an alpha-bearing BPP32RGBA one without a separate pixel scan.
type opaquer interface {
	Opaque() bool
}

// encode writes src as an uncompressed BITMAPFILEHEADER + BITMAPINFOHEADER
// (v3) bottom-up BMP.
func encode(w io.Writer, src image.Image) error {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()

	if p, ok := src.(*image.Paletted); ok {
		return encodePaletted(w, p)
	}
	if o, ok := src.(opaquer); ok && !o.Opaque() {
		return encodeRGBA(w, src, width, height)
	}
	return encodeRGB(w, src, width, height)
}

func writeFileHeader(w io.Writer, fileSize, offset uint32) error {
	var h [fileHeaderLen]byte
	h[0], h[1] = 'B', 'M'
	putUint32(h[2:], fileSize)
	putUint32(h[10:], offset)
	_, err := w.Write(h[:])
	return err
}

func writeInfoHeader(w io.Writer, width, height int, bpp uint16, colors uint32) error {
	var h [infoHeaderLen]byte
	putUint32(h[0:], infoHeaderLen)
	putUint32(h[4:], uint32(width))
	putUint32(h[8:], uint32(height)) // positive: bottom-up
	putUint16(h[12:], 1)             // planes
	putUint16(h[14:], bpp)
	putUint32(h[32:], colors)
	_, err := w.Write(h[:])
	return err
}

func putUint16(b []byte, v uint16) { b[0], b[1] = byte(v), byte(v>>8) }
func putUint32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func encodePaletted(w io.Writer, p *image.Paletted) error {
	width, height := p.Bounds().Dx(), p.Bounds().Dy()
	colors := len(p.Palette)
	rowSize := (width + 3) &^ 3
	pixelData := rowSize * height
	offset := uint32(fileHeaderLen + infoHeaderLen + colors*4)
	if err := writeFileHeader(w, offset+uint32(pixelData), offset); err != nil {
		return err
	}
	if err := writeInfoHeader(w, width, height, 8, uint32(colors)); err != nil {
		return err
	}
	for _, c := range p.Palette {
		r, g, b, _ := c.RGBA()
		if _, err := w.Write([]byte{byte(b >> 8), byte(g >> 8), byte(r >> 8), 0}); err != nil {
			return err
		}
	}
	pad := make([]byte, rowSize-width)
	for y := height - 1; y >= 0; y-- {
		row := p.Pix[y*p.Stride : y*p.Stride+width]
		if _, err := w.Write(row); err != nil {
			return err
		}
		if len(pad) > 0 {
			if _, err := w.Write(pad); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeRGBA(w io.Writer, src image.Image, width, height int) error {
	b := src.Bounds()
	rowSize := 4 * width
	pixelData := rowSize * height
	offset := uint32(fileHeaderLen + infoHeaderLen)
	if err := writeFileHeader(w, offset+uint32(pixelData), offset); err != nil {
		return err
	}
	if err := writeInfoHeader(w, width, height, 32, 0); err != nil {
		return err
	}
	row := make([]byte, rowSize)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := x * 4
			row[o+0] = byte(bl >> 8)
			row[o+1] = byte(g >> 8)
			row[o+2] = byte(r >> 8)
			row[o+3] = byte(a >> 8)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func encodeRGB(w io.Writer, src image.Image, width, height int) error {
	b := src.Bounds()
	rowSize := (3*width + 3) &^ 3
	pixelData := rowSize * height
	offset := uint32(fileHeaderLen + infoHeaderLen)
	if err := writeFileHeader(w, offset+uint32(pixelData), offset); err != nil {
		return err
	}
	if err := writeInfoHeader(w, width, height, 24, 0); err != nil {
		return err
	}
	row := make([]byte, rowSize)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := x * 3
			row[o+0] = byte(bl >> 8)
			row[o+1] = byte(g >> 8)
			row[o+2] = byte(r >> 8)
		}
		for i := 3 * width; i < len(row); i++ {
			row[i] = 0
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
