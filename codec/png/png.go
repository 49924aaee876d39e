// Package png implements the PNG codec: static images via the standard
// library's image/png, animated APNG frame sequencing via a minimal
// chunk-framing layer grounded on the example repo's hand-rolled PNG writer,
// and legacy tEXt/zTXt/iTXt metadata mapped onto sailimage.MetaDataNode.
package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image/png"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// Info is the registry descriptor for PNG.
var Info = &codec.Info{
	Name:         "PNG",
	Version:      "1.0",
	Description:  "Portable Network Graphics, including APNG animation",
	MagicNumbers: []string{"89 50 4E 47 0D 0A 1A 0A"},
	Extensions:   []string{"png", "apng"},
	MIMETypes:    []string{"image/png", "image/apng"},
	LoadFeatures: codec.LoadStatic | codec.LoadAnimated | codec.LoadMetaData,
	SaveFeatures: codec.SaveFeatures{
		Features:           codec.SaveStatic | codec.SaveAnimated | codec.SaveMetaData,
		PixelFormats:       []sailimage.PixelFormat{sailimage.BPP24RGB, sailimage.BPP32RGBA, sailimage.BPP8Indexed, sailimage.BPP8Grayscale},
		Compressions:       []sailimage.Compression{sailimage.CompressionDeflate},
		DefaultCompression: sailimage.CompressionDeflate,
		CompressionLevel:   &codec.CompressionLevelRange{Min: 0, Max: 9, Default: 6, Step: 1},
	},
	NewLoader: func() codec.Loader { return &loader{} },
	NewSaver:  func() codec.Saver { return &saver{} },
}

// acTLChunk mirrors the APNG animation control chunk layout.
type acTLChunk struct {
	NumFrames, NumPlays uint32
}

type loader struct {
	opts    codec.LoadOptions
	frames  []*sailimage.Image
	pos     int
	pending *sailimage.Image
}

func (l *loader) Init(s iostream.Stream, opts codec.LoadOptions) error {
	l.opts = opts
	data, err := io.ReadAll(codec.Reader(s))
	if err != nil {
		return errs.New(errs.ReadIO, "png.Loader.Init", err)
	}

	frames, err := decodeFrames(data)
	if err != nil {
		return errs.New(errs.BrokenImage, "png.Loader.Init", err)
	}
	l.frames = frames
	if opts.Options&codec.OptionMetaData != 0 {
		attachTextChunks(data, frames)
	}
	return nil
}

func (l *loader) SeekNextFrame() (*sailimage.Image, error) {
	if l.pos >= len(l.frames) {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	img := l.frames[l.pos]
	skel := sailimage.NewSkeleton(img.Width, img.Height, img.PixelFormat)
	skel.Delay = img.Delay
	skel.Palette = img.Palette
	skel.MetaData = img.MetaData
	l.pending = img
	return skel, nil
}

func (l *loader) Frame(img *sailimage.Image) error {
	if l.pending == nil {
		return errs.New(errs.ConflictingOperation, "png.Loader.Frame", nil)
	}
	img.Pixels = l.pending.Pixels
	img.BytesPerLine = l.pending.BytesPerLine
	l.pending = nil
	l.pos++
	return nil
}

func (l *loader) Finish() error { l.frames = nil; return nil }

// decodeFrames decodes a (possibly APNG) PNG into one sailimage.Image per
// frame. A plain PNG decodes to exactly one frame with Delay -1.
func decodeFrames(data []byte) ([]*sailimage.Image, error) {
	acTL, frameChunks, ihdr, err := scanAPNGChunks(data)
	if err != nil {
		return nil, err
	}
	if acTL == nil {
		goImg, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		img := codec.FromGoImage(goImg)
		img.Delay = -1
		return []*sailimage.Image{img}, nil
	}

	frames := make([]*sailimage.Image, 0, acTL.NumFrames)
	for _, fc := range frameChunks {
		reassembled := reassembleIDAT(ihdr, fc.idat)
		goImg, err := png.Decode(bytes.NewReader(reassembled))
		if err != nil {
			return nil, err
		}
		img := codec.FromGoImage(goImg)
		img.Delay = fc.delayMS
		frames = append(frames, img)
	}
	return frames, nil
}

type apngFrame struct {
	delayMS int32
	idat    [][]byte
}

// scanAPNGChunks walks the top-level chunk list once, collecting the
// animation control chunk (acTL) and each frame's fcTL/fdAT (or IDAT, for
// the default frame) payloads. Grounded on the from-scratch PNG writer's
// chunk-framing approach (length|type|data|crc, big-endian length).
func scanAPNGChunks(data []byte) (*acTLChunk, []apngFrame, []byte, error) {
	if len(data) < 8 {
		return nil, nil, nil, errs.Sentinel(errs.BrokenImage)
	}
	pos := 8
	var acTL *acTLChunk
	var ihdr []byte
	var frames []apngFrame
	var cur *apngFrame

	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos:])
		typ := string(data[pos+4 : pos+8])
		body := data[pos+8 : pos+8+int(length)]
		switch typ {
		case "IHDR":
			ihdr = append([]byte(nil), body...)
		case "acTL":
			acTL = &acTLChunk{
				NumFrames: binary.BigEndian.Uint32(body[0:4]),
				NumPlays:  binary.BigEndian.Uint32(body[4:8]),
			}
		case "fcTL":
			if cur != nil {
				frames = append(frames, *cur)
			}
			delayNum := binary.BigEndian.Uint16(body[20:22])
			delayDen := binary.BigEndian.Uint16(body[22:24])
			ms := int32(1000)
			if delayDen != 0 {
				ms = int32(uint32(delayNum) * 1000 / uint32(delayDen))
			}
			cur = &apngFrame{delayMS: ms}
		case "IDAT":
			if cur == nil {
				cur = &apngFrame{delayMS: -1}
			}
			cur.idat = append(cur.idat, body)
		case "fdAT":
			if cur != nil && len(body) >= 4 {
				cur.idat = append(cur.idat, body[4:]) // drop sequence number
			}
		case "IEND":
			if cur != nil {
				frames = append(frames, *cur)
				cur = nil
			}
		}
		pos += 8 + int(length) + 4 // skip CRC
	}
	if acTL == nil {
		return nil, nil, ihdr, nil
	}
	return acTL, frames, ihdr, nil
}

// reassembleIDAT builds a standalone single-frame PNG from a frame's IDAT
// payloads and the original IHDR, so it can be handed to image/png.Decode.
func reassembleIDAT(ihdr []byte, idatParts [][]byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", ihdr)
	var all []byte
	for _, p := range idatParts {
		all = append(all, p...)
	}
	writeChunk(&buf, "IDAT", all)
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func writeChunk(w *bytes.Buffer, typ string, body []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	w.Write(lenBuf[:])
	start := w.Len()
	w.WriteString(typ)
	w.Write(body)
	crc := crc32.ChecksumIEEE(w.Bytes()[start:])
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	w.Write(crcBuf[:])
}

// attachTextChunks scans for legacy tEXt/zTXt/iTXt chunks and appends them
// as MetaDataNodes (unknown keyword -> MetaDataKeyUnknown) to every frame,
// matching "metadata applies image-wide" semantics.
func attachTextChunks(data []byte, frames []*sailimage.Image) {
	pos := 8
	var nodes []sailimage.MetaDataNode
	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos:])
		typ := string(data[pos+4 : pos+8])
		body := data[pos+8 : pos+8+int(length)]
		switch typ {
		case "tEXt":
			if i := bytes.IndexByte(body, 0); i >= 0 {
				nodes = append(nodes, textNode(string(body[:i]), string(body[i+1:])))
			}
		case "zTXt":
			if i := bytes.IndexByte(body, 0); i >= 0 && i+1 < len(body) {
				zr, err := zlib.NewReader(bytes.NewReader(body[i+2:]))
				if err == nil {
					val, _ := io.ReadAll(zr)
					nodes = append(nodes, textNode(string(body[:i]), string(val)))
				}
			}
		case "iTXt":
			// keyword NUL, compression flag, method, language NUL, translated keyword NUL, text
			if i := bytes.IndexByte(body, 0); i >= 0 && i+3 <= len(body) {
				if parts := bytes.SplitN(body[i+3:], []byte{0}, 3); len(parts) == 3 {
					text := parts[2]
					if body[i+1] != 0 {
						zr, err := zlib.NewReader(bytes.NewReader(text))
						if err != nil {
							break
						}
						text, _ = io.ReadAll(zr)
					}
					nodes = append(nodes, textNode(string(body[:i]), string(text)))
				}
			}
		}
		pos += 8 + int(length) + 4
	}
	for _, f := range frames {
		for _, n := range nodes {
			f.AppendMetaData(n)
		}
	}
}

// textNode maps a tEXt/zTXt keyword to a well-known MetaDataKey where the
// PNG spec's registered keyword matches one, else files it as an unknown
// key carrying the original keyword string (INV-3).
func textNode(keyword, value string) sailimage.MetaDataNode {
	switch keyword {
	case "Author":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataAuthor, value)
	case "Description":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataDescription, value)
	case "Copyright":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataCopyright, value)
	case "Software":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataSoftware, value)
	case "Title":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataTitle, value)
	case "Comment":
		return sailimage.NewMetaDataFromKnownString(sailimage.MetaDataComment, value)
	default:
		return sailimage.NewMetaDataFromUnknownString(keyword, value)
	}
}

type saver struct {
	w      io.Writer
	opts   codec.SaveOptions
	frames []*sailimage.Image
}

func (s *saver) Init(stream iostream.Stream, opts codec.SaveOptions) error {
	s.w = codec.Writer(stream)
	s.opts = opts
	return nil
}

func (s *saver) SeekNextFrame(img *sailimage.Image) error {
	s.frames = append(s.frames, img)
	return nil
}

func (s *saver) Frame(img *sailimage.Image) error { return nil }

// Finish encodes every buffered frame. A single frame is written as a plain
// PNG; more than one is written as an APNG (acTL + fcTL/fdAT per extra
// frame), matching the loader's framing.
func (s *saver) Finish() error {
	if len(s.frames) == 0 {
		return nil
	}
	if len(s.frames) == 1 {
		return png.Encode(s.w, codec.ToGoImage(s.frames[0]))
	}
	return s.encodeAPNG()
}

func (s *saver) encodeAPNG() error {
	var first bytes.Buffer
	if err := png.Encode(&first, codec.ToGoImage(s.frames[0])); err != nil {
		return err
	}
	buf := first.Bytes()
	_, idat, ihdr, trailer := splitPNG(buf)

	out := bytes.NewBuffer(nil)
	out.Write(buf[:8])
	writeChunk(out, "IHDR", ihdr)

	var acTL [8]byte
	binary.BigEndian.PutUint32(acTL[0:4], uint32(len(s.frames)))
	binary.BigEndian.PutUint32(acTL[4:8], 0)
	writeChunk(out, "acTL", acTL[:])

	seq := uint32(0)
	writeFCTL(out, &seq, s.frames[0])
	writeChunk(out, "IDAT", idat)

	for _, f := range s.frames[1:] {
		writeFCTL(out, &seq, f)
		var fb bytes.Buffer
		if err := png.Encode(&fb, codec.ToGoImage(f)); err != nil {
			return err
		}
		_, fidat, _, _ := splitPNG(fb.Bytes())
		body := make([]byte, 4+len(fidat))
		binary.BigEndian.PutUint32(body, seq)
		copy(body[4:], fidat)
		seq++
		writeChunk(out, "fdAT", body)
	}
	out.Write(trailer)
	_, err := s.w.Write(out.Bytes())
	return err
}

func writeFCTL(out *bytes.Buffer, seq *uint32, img *sailimage.Image) {
	body := make([]byte, 26)
	binary.BigEndian.PutUint32(body[0:4], *seq)
	binary.BigEndian.PutUint32(body[4:8], img.Width)
	binary.BigEndian.PutUint32(body[8:12], img.Height)
	binary.BigEndian.PutUint16(body[20:22], uint16(img.Delay))
	binary.BigEndian.PutUint16(body[22:24], 1000)
	body[24] = 1 // blend op: over
	*seq++
	out.Write(fctlHeader(body))
}

func fctlHeader(body []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	full := append(append([]byte{}, lenBuf[:]...), append([]byte("fcTL"), body...)...)
	crc := crc32.ChecksumIEEE(full[4:])
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	return append(full, crcBuf[:]...)
}

// splitPNG extracts the IHDR body, concatenated IDAT payload, and the
// trailing IEND chunk (and anything after IDAT) from a plain PNG buffer.
func splitPNG(data []byte) (signature []byte, idat []byte, ihdr []byte, trailer []byte) {
	pos := 8
	for pos+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[pos:])
		typ := string(data[pos+4 : pos+8])
		body := data[pos+8 : pos+8+int(length)]
		switch typ {
		case "IHDR":
			ihdr = append([]byte(nil), body...)
		case "IDAT":
			idat = append(idat, body...)
		case "IEND":
			trailer = data[pos:]
		}
		pos += 8 + int(length) + 4
	}
	return data[:8], idat, ihdr, trailer
}
