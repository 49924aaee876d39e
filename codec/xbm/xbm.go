// Package xbm implements the X Bitmap (XBm) codec from scratch, grounded
// on original_source/src/sail-codecs/xbm/{xbm.c,helpers.c,helpers.h}. An
// XBM file is a C source fragment declaring #define WIDTH/HEIGHT macros
// followed by a byte (v1.1, "char") or word (v1.0, "short") array of bits,
// one bit per pixel, LSB first within each stored unit.
//
// The reference codec's comment-skipping helper is present but its body is
// entirely commented out (a no-op returning success), so a leading C
// comment before the #define lines is never actually skipped; this port
// preserves that behavior rather than inventing comment support the
// original never shipped. Likewise the reference write path always
// returns "not implemented", so this codec is load-only.
package xbm

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

var Info = &codec.Info{
	Name:         "XBM",
	Version:      "1.1",
	Description:  "X Bitmap",
	MagicNumbers: []string{},
	Extensions:   []string{"xbm"},
	MIMETypes:    []string{"image/x-xbitmap"},
	LoadFeatures: codec.LoadStatic,
	NewLoader:    func() codec.Loader { return &loader{} },
}

type version int

const (
	version10 version = 10 // array of short: 2 bytes per stored unit.
	version11 version = 11 // array of char: 1 byte per stored unit.
)

var reverseLookup4Bits = [16]byte{
	0x0, 0x8, 0x4, 0xc, 0x2, 0xa, 0x6, 0xe,
	0x1, 0x9, 0x5, 0xd, 0x3, 0xb, 0x7, 0xf,
}

func reverseByte(b byte) byte {
	return reverseLookup4Bits[b&0xF]<<4 | reverseLookup4Bits[b>>4]
}

type loader struct {
	r      *bufio.Reader
	ver    version
	width  uint32
	height uint32
	done   bool
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	l.r = bufio.NewReader(codec.Reader(s))
	return nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", err
	}
	return line, nil
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.done {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	l.done = true

	widthLine, err := readLine(l.r)
	if err != nil {
		return nil, errs.New(errs.ReadIO, "xbm.Loader.SeekNextFrame", err)
	}
	width, err := parseDefine(widthLine, "_width")
	if err != nil {
		return nil, err
	}

	heightLine, err := readLine(l.r)
	if err != nil {
		return nil, errs.New(errs.ReadIO, "xbm.Loader.SeekNextFrame", err)
	}
	height, err := parseDefine(heightLine, "_height")
	if err != nil {
		return nil, err
	}

	// Skip any further #define lines (hotspot x/y in XBM cursor files) until
	// the array declaration.
	var declLine string
	for {
		declLine, err = readLine(l.r)
		if err != nil {
			return nil, errs.New(errs.ReadIO, "xbm.Loader.SeekNextFrame", err)
		}
		if !strings.Contains(declLine, "#define ") {
			break
		}
	}

	if !strings.Contains(declLine, "[") || !strings.Contains(declLine, "{") {
		return nil, errs.Sentinel(errs.BrokenImage)
	}
	switch {
	case strings.Contains(declLine, "short"):
		l.ver = version10
	case strings.Contains(declLine, "char"):
		l.ver = version11
	default:
		return nil, errs.Sentinel(errs.BrokenImage)
	}

	l.width, l.height = width, height

	img := sailimage.NewSkeleton(width, height, sailimage.BPP1Indexed)
	img.SourceImage = &sailimage.SourceImage{
		PixelFormat: sailimage.BPP1Indexed,
		Compression: sailimage.CompressionNone,
	}
	img.Palette = &sailimage.Palette{
		PixelFormat: sailimage.BPP24RGB,
		ColorCount:  2,
		Data:        []byte{255, 255, 255, 0, 0, 0},
	}
	return img, nil
}

func parseDefine(line, suffix string) (uint32, error) {
	if !strings.HasPrefix(line, "#define ") {
		return 0, errs.Sentinel(errs.BrokenImage)
	}
	idx := strings.Index(line, suffix+" ")
	if idx < 0 {
		return 0, errs.Sentinel(errs.BrokenImage)
	}
	rest := strings.TrimSpace(line[idx+len(suffix)+1:])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, errs.Sentinel(errs.BrokenImage)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, errs.Sentinel(errs.BrokenImage)
	}
	return uint32(n), nil
}

func (l *loader) Frame(img *sailimage.Image) error {
	total := int(img.BytesPerLine) * int(img.Height)
	out := img.Pixels[:total]
	pos := 0

	for pos < total {
		line, err := readLine(l.r)
		if err != nil {
			return errs.New(errs.ReadIO, "xbm.Loader.Frame", err)
		}
		tokens := hexTokens(line)
		for _, tok := range tokens {
			if pos >= total {
				break
			}
			value, err := strconv.ParseUint(tok, 16, 32)
			if err != nil {
				continue
			}
			if l.ver == version11 {
				out[pos] = reverseByte(byte(value))
				pos++
			} else {
				out[pos] = reverseByte(byte(value))
				pos++
				if pos < total {
					out[pos] = reverseByte(byte(value >> 8))
					pos++
				}
			}
		}
	}
	return nil
}

// hexTokens extracts "0x.." literals from a line of C array initializer
// source, e.g. "0x1c, 0x3e, 0x7f,".
func hexTokens(line string) []string {
	var tokens []string
	i := 0
	for i < len(line) {
		if line[i] == '0' && i+1 < len(line) && (line[i+1] == 'x' || line[i+1] == 'X') {
			j := i + 2
			for j < len(line) && isHexDigit(line[j]) {
				j++
			}
			tokens = append(tokens, line[i+2:j])
			i = j
			continue
		}
		i++
	}
	return tokens
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *loader) Finish() error { l.r = nil; return nil }
