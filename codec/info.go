// Package codec implements the codec registry and the adapter contract
// every built-in (and third-party) format implementation plugs into:
// discovery by extension/MIME/magic/name, capability negotiation, and the
// Loader/Saver interfaces codecs implement.
package codec

import (
	"strings"

	"github.com/ausocean/sail/sailimage"
)

// LoadFeature is a bitset of capabilities a codec's Loader may offer.
type LoadFeature int

const (
	LoadStatic LoadFeature = 1 << iota
	LoadAnimated
	LoadMultiPaged
	LoadMetaData
	LoadInterlaced
	LoadICCP
	LoadSourceImage
)

// SaveFeature is a bitset of capabilities a codec's Saver may offer.
type SaveFeature int

const (
	SaveStatic SaveFeature = 1 << iota
	SaveAnimated
	SaveMultiPaged
	SaveMetaData
	SaveInterlaced
	SaveICCP
	SaveSourceImage
)

// CompressionLevelRange describes the valid, default and quantization step
// for a codec's tunable compression level.
type CompressionLevelRange struct {
	Min, Max, Default, Step float64
}

// SaveFeatures describes everything a codec's Saver supports.
type SaveFeatures struct {
	Features          SaveFeature
	PixelFormats      []sailimage.PixelFormat
	Compressions      []sailimage.Compression
	DefaultCompression sailimage.Compression
	CompressionLevel  *CompressionLevelRange // nil if not tunable
}

// Info is the immutable descriptor the registry returns for a codec: a
// weak reference, valid for the life of the registry, never freed by
// callers (spec §3.2).
type Info struct {
	Name        string // short upper-case, e.g. "JPEG"
	Version     string // semver
	Description string

	MagicNumbers []string // e.g. "FF D8", "4 @ 66 74 79 70"
	Extensions   []string // lowercase, no dot
	MIMETypes    []string

	LoadFeatures LoadFeature
	SaveFeatures SaveFeatures

	// NewLoader/NewSaver construct an adapter bound to an opened stream.
	// Either may be nil if the codec only supports the other direction.
	NewLoader func() Loader
	NewSaver  func() Saver
}

// HasExtension reports whether ext (without a leading dot) is one of the
// codec's registered extensions, case-insensitively.
func (info *Info) HasExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range info.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// CanLoad reports whether the codec implements Loader.
func (info *Info) CanLoad() bool { return info != nil && info.NewLoader != nil }

// CanSave reports whether the codec implements Saver.
func (info *Info) CanSave() bool { return info != nil && info.NewSaver != nil }

// AcceptsSavePixelFormat reports whether pf is one of the codec's
// accepted save pixel formats.
func (info *Info) AcceptsSavePixelFormat(pf sailimage.PixelFormat) bool {
	for _, p := range info.SaveFeatures.PixelFormats {
		if p == pf {
			return true
		}
	}
	return false
}

// AcceptsCompression reports whether c is one of the codec's supported
// compressions.
func (info *Info) AcceptsCompression(c sailimage.Compression) bool {
	for _, sc := range info.SaveFeatures.Compressions {
		if sc == c {
			return true
		}
	}
	return false
}
