// Package sail is the root of the four API façades (spec §4.8): Junior,
// Advanced, Deep and Technical. All four are thin, progressively-less-
// defaulted wrappers over package engine; none of them duplicate engine's
// state machine or the codec adapter contract, they only resolve a codec
// hint (name, extension or magic-number sniff), open an iostream.Stream
// over a path/byte slice, and fill in default LoadOptions/SaveOptions.
package sail

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/engine"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// LoadSession and SaveSession are engine's session handles, re-exported so
// callers of this package never need to import package engine directly.
type LoadSession = engine.LoadSession
type SaveSession = engine.SaveSession

// resolveLoadCodec picks the Info to load with: an explicit hint (codec
// name or file extension) wins; otherwise the registry sniffs s's leading
// bytes.
func resolveLoadCodec(hint string, s iostream.Stream) (*codec.Info, error) {
	if hint != "" {
		if info := DefaultRegistry.FromName(hint); info != nil {
			return info, nil
		}
		if info := DefaultRegistry.FromExtension(hint); info != nil {
			return info, nil
		}
		return nil, errs.New(errs.CodecNotFound, "sail.resolveLoadCodec", nil)
	}
	info, err := DefaultRegistry.FromMagicNumberIO(s)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errs.New(errs.CodecNotFound, "sail.resolveLoadCodec", nil)
	}
	return info, nil
}

// resolveSaveCodec picks the Info to save with: an explicit hint (codec
// name or extension) wins; otherwise path's extension is used.
func resolveSaveCodec(hint, path string) (*codec.Info, error) {
	if hint != "" {
		if info := DefaultRegistry.FromName(hint); info != nil {
			return info, nil
		}
		if info := DefaultRegistry.FromExtension(hint); info != nil {
			return info, nil
		}
		return nil, errs.New(errs.CodecNotFound, "sail.resolveSaveCodec", nil)
	}
	if info := DefaultRegistry.FromPath(path); info != nil {
		return info, nil
	}
	return nil, errs.New(errs.CodecNotFound, "sail.resolveSaveCodec", nil)
}

// keepBuffer hands an expanding buffer to the engine without letting the
// engine's Stop close it, so its bytes can still be read back afterwards.
type keepBuffer struct{ iostream.Stream }

func (keepBuffer) Close() error { return nil }

// ---- Technical façade: full control, operates directly on a caller-built
// iostream.Stream and an explicitly resolved codec.Info. This is exactly
// package engine's surface, re-exported here so Technical-API callers need
// only import package sail.

// StartLoading opens s through info's Loader. See engine.StartLoading.
func StartLoading(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) (*LoadSession, error) {
	return engine.StartLoading(info, s, opts)
}

// StartSaving opens s through info's Saver. See engine.StartSaving.
func StartSaving(info *codec.Info, s iostream.Stream, opts codec.SaveOptions) (*SaveSession, error) {
	return engine.StartSaving(info, s, opts)
}

// LoadAllFromIO drives start -> next-frame -> stop to completion over a
// caller-supplied stream and explicit codec.
func LoadAllFromIO(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) ([]*sailimage.Image, error) {
	return engine.LoadAll(info, s, opts)
}

// SaveAllToIO drives start -> next-frame -> frame -> stop over a
// caller-supplied stream and explicit codec.
func SaveAllToIO(info *codec.Info, s iostream.Stream, opts codec.SaveOptions, imgs []*sailimage.Image) error {
	return engine.SaveAll(info, s, opts, imgs)
}

// ProbeIO reads just the first frame's skeleton from s without decoding
// pixel data.
func ProbeIO(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) (*sailimage.Image, error) {
	return engine.Probe(info, s, opts)
}

// ---- Deep façade: adds LoadOptions/SaveOptions plus an explicit (but
// string-named, so still registry-mediated) codec hint, over path and
// in-memory sources the façade opens on the caller's behalf.

// LoadFromFileDeep loads every frame of path using codecHint (a codec name
// or extension; empty sniffs the file's magic number) and opts.
func LoadFromFileDeep(path, codecHint string, opts codec.LoadOptions) ([]*sailimage.Image, error) {
	s, err := iostream.NewFile(path, false)
	if err != nil {
		return nil, err
	}
	info, err := resolveLoadCodec(codecHint, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return engine.LoadAll(info, s, opts)
}

// LoadFromMemoryDeep loads every frame out of data using codecHint (empty
// sniffs data's magic number) and opts.
func LoadFromMemoryDeep(data []byte, codecHint string, opts codec.LoadOptions) ([]*sailimage.Image, error) {
	s := iostream.NewFixedMemory(data)
	info, err := resolveLoadCodec(codecHint, s)
	if err != nil {
		return nil, err
	}
	return engine.LoadAll(info, s, opts)
}

// SaveToFileDeep saves imgs to path using codecHint (empty infers the
// codec from path's extension) and opts.
func SaveToFileDeep(path, codecHint string, imgs []*sailimage.Image, opts codec.SaveOptions) error {
	info, err := resolveSaveCodec(codecHint, path)
	if err != nil {
		return err
	}
	s, err := iostream.NewFile(path, true)
	if err != nil {
		return err
	}
	return engine.SaveAll(info, s, opts, imgs)
}

// SaveToMemoryDeep saves imgs into a new expanding buffer and returns its
// bytes. codecHint is required since there is no path extension to infer
// from.
func SaveToMemoryDeep(codecHint string, imgs []*sailimage.Image, opts codec.SaveOptions) ([]byte, error) {
	info, err := resolveSaveCodec(codecHint, "")
	if err != nil {
		return nil, err
	}
	s := iostream.NewExpandingBuffer()
	if err := engine.SaveAll(info, keepBuffer{s}, opts, imgs); err != nil {
		return nil, err
	}
	return iostream.ExpandingBufferBytes(s), nil
}

// ---- Advanced façade: start/next/stop plus memory sources, default
// options, optional codec hint.

// StartLoadingFromFile opens path for streaming frame-by-frame load.
// codecHint may be "" to sniff the codec from path's magic number.
func StartLoadingFromFile(path, codecHint string) (*LoadSession, error) {
	s, err := iostream.NewFile(path, false)
	if err != nil {
		return nil, err
	}
	info, err := resolveLoadCodec(codecHint, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return engine.StartLoading(info, s, codec.LoadOptions{})
}

// StartLoadingFromMemory opens data for streaming frame-by-frame load.
// codecHint may be "" to sniff the codec from data's magic number.
func StartLoadingFromMemory(data []byte, codecHint string) (*LoadSession, error) {
	s := iostream.NewFixedMemory(data)
	info, err := resolveLoadCodec(codecHint, s)
	if err != nil {
		return nil, err
	}
	return engine.StartLoading(info, s, codec.LoadOptions{})
}

// StartSavingToFile opens path for streaming frame-by-frame save.
// codecHint may be "" to infer the codec from path's extension.
func StartSavingToFile(path, codecHint string) (*SaveSession, error) {
	info, err := resolveSaveCodec(codecHint, path)
	if err != nil {
		return nil, err
	}
	s, err := iostream.NewFile(path, true)
	if err != nil {
		return nil, err
	}
	return engine.StartSaving(info, s, codec.SaveOptions{})
}

// StartSavingToMemory opens a new expanding buffer for streaming
// frame-by-frame save. codecHint is required (there is no path to infer
// from). The returned func retrieves the bytes written so far; call it
// after Stop/StopWithWritten.
func StartSavingToMemory(codecHint string) (*SaveSession, func() []byte, error) {
	info, err := resolveSaveCodec(codecHint, "")
	if err != nil {
		return nil, nil, err
	}
	s := iostream.NewExpandingBuffer()
	ss, err := engine.StartSaving(info, keepBuffer{s}, codec.SaveOptions{})
	if err != nil {
		return nil, nil, err
	}
	return ss, func() []byte { return iostream.ExpandingBufferBytes(s) }, nil
}

// ---- Junior façade: path-only, single frame, default options; the codec
// is sniffed from the file's magic number on load and inferred from the
// path's extension on save.

// LoadFromFile loads the first frame of path.
func LoadFromFile(path string) (*sailimage.Image, error) {
	imgs, err := LoadFromFileDeep(path, "", codec.LoadOptions{})
	if err != nil {
		return nil, err
	}
	if len(imgs) == 0 {
		return nil, errs.Sentinel(errs.NoMoreFrames)
	}
	return imgs[0], nil
}

// SaveToFile saves img as a single frame to path, inferring the codec from
// path's extension.
func SaveToFile(path string, img *sailimage.Image) error {
	return SaveToFileDeep(path, "", []*sailimage.Image{img}, codec.SaveOptions{})
}
