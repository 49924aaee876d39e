package codec

import (
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// LoadOption is a bitset of the subset of behavior a caller wants from a
// load (INTERLACED is meaningful only for save, per spec §4.4).
type LoadOption int

const (
	OptionMetaData LoadOption = 1 << iota
	OptionICCP
	OptionSourceImage
)

// LoadOptions is the shared, codec-agnostic load configuration passed to
// Loader.Init.
type LoadOptions struct {
	Options LoadOption
	Tuning  *sailimage.HashMap
	Logger  interface {
		Log(level int8, msg string, params ...interface{})
	}
}

// SaveOption is a bitset mirroring LoadOption for the save direction.
type SaveOption int

const (
	SaveOptionMetaData SaveOption = 1 << iota
	SaveOptionICCP
	SaveOptionSourceImage
	SaveOptionInterlaced
)

// SaveOptions is the shared, codec-agnostic save configuration passed to
// Saver.Init.
type SaveOptions struct {
	Options          SaveOption
	Compression      sailimage.Compression
	CompressionLevel float64
	Tuning           *sailimage.HashMap
	Logger           interface {
		Log(level int8, msg string, params ...interface{})
	}
}

// Loader is the four-method load side of the codec adapter contract
// (spec §4.4). A codec implements Loader iff Info.NewLoader is non-nil.
//
// Calling convention: Init once, then SeekNextFrame/Frame alternately
// until SeekNextFrame returns errs.NoMoreFrames, then Finish exactly once.
// Finish must be tolerant of a nil or partially-initialized receiver
// (idempotent double-Finish is OK, matching "double stop is OK" in spec
// §7).
type Loader interface {
	// Init allocates codec state bound to io, honoring opts.
	Init(io iostream.Stream, opts LoadOptions) error

	// SeekNextFrame reads the next frame's header and returns a skeleton
	// image (Pixels == nil). It returns an error wrapping
	// errs.NoMoreFrames once the container is exhausted.
	SeekNextFrame() (*sailimage.Image, error)

	// Frame fills img.Pixels (and Palette/MetaData/ICCP as requested) for
	// the skeleton most recently returned by SeekNextFrame.
	Frame(img *sailimage.Image) error

	// Finish releases codec state. It must tolerate being called on an
	// already-finished or never-initialized Loader.
	Finish() error
}

// Saver is the four-method save side of the codec adapter contract.
type Saver interface {
	// Init allocates codec state bound to io, honoring opts.
	Init(io iostream.Stream, opts SaveOptions) error

	// SeekNextFrame writes the container/frame header for img. A codec
	// that cannot accept img.PixelFormat returns
	// errs.UnsupportedPixelFormat (the engine's implicit-format-adjustment
	// step runs before this is called, so this should be rare in
	// practice).
	SeekNextFrame(img *sailimage.Image) error

	// Frame writes img's pixel data.
	Frame(img *sailimage.Image) error

	// Finish flushes and releases codec state. Idempotent.
	Finish() error
}
