// Package engine implements the streaming load/save state machine (spec
// §4.5) that every API façade is a thin wrapper over: it resolves a codec
// through a codec.Registry, opens an iostream.Stream, drives a codec's
// Loader/Saver through the four-phase start -> next-frame [* ->
// next-frame] -> stop protocol, and performs implicit pixel-format
// adjustment on save.
//
// Mirrors the Start/Stop state-machine shape of revid.Revid in the
// originating codebase, generalized from "one running pipeline" to "one
// load or save session per call", since this runtime has no long-running
// background goroutine: everything here is synchronous and blocking (spec
// §5).
package engine

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/internal/logutil"
	"github.com/ausocean/sail/iostream"
	"github.com/ausocean/sail/sailimage"
)

// state mirrors the protocol diagram in spec §4.5.
type state int

const (
	stateInitial state = iota
	stateReady
	stateFrameOpen
	stateDrained
	stateClosed
)

// LoadSession is the handle returned by StartLoading*; it owns the
// iostream.Stream and the codec Loader until Stop is called.
type LoadSession struct {
	info   *codec.Info
	loader codec.Loader
	stream iostream.Stream
	st     state
	log    interface{ Log(level int8, msg string, params ...interface{}) }
}

// StartLoading opens s through info's Loader, honoring opts. info must be
// non-nil and support loading (info.CanLoad()).
func StartLoading(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) (*LoadSession, error) {
	if info == nil || !info.CanLoad() {
		return nil, errs.New(errs.CodecNotFound, "engine.StartLoading", nil)
	}
	if opts.Options&^(codec.OptionMetaData|codec.OptionICCP|codec.OptionSourceImage) != 0 {
		return nil, errs.New(errs.InvalidArgument, "engine.StartLoading", nil)
	}
	log := opts.Logger
	if log == nil {
		log = logutil.Noop()
	}
	l := info.NewLoader()
	if err := l.Init(s, opts); err != nil {
		return nil, err
	}
	return &LoadSession{info: info, loader: l, stream: s, st: stateReady, log: log}, nil
}

// Info returns the codec this session was opened with.
func (ls *LoadSession) Info() *codec.Info { return ls.info }

// NextFrame advances to the next frame's skeleton image. It returns an
// error wrapping errs.NoMoreFrames once the container is exhausted, at
// which point the session transitions to "drained" but remains open for
// Stop.
func (ls *LoadSession) NextFrame() (*sailimage.Image, error) {
	if ls.st != stateReady && ls.st != stateFrameOpen {
		return nil, errs.New(errs.ConflictingOperation, "engine.LoadSession.NextFrame", nil)
	}
	img, err := ls.loader.SeekNextFrame()
	if err != nil {
		if e, ok := err.(*errs.Error); ok && e.Status == errs.NoMoreFrames {
			ls.st = stateDrained
		}
		return nil, err
	}
	ls.st = stateFrameOpen
	return img, nil
}

// Frame fills the pixel data (and palette/metadata/ICC as requested) for
// the skeleton most recently returned by NextFrame.
func (ls *LoadSession) Frame(img *sailimage.Image) error {
	if ls.st != stateFrameOpen {
		return errs.New(errs.ConflictingOperation, "engine.LoadSession.Frame", nil)
	}
	return ls.loader.Frame(img)
}

// Stop releases the codec state and closes the underlying stream. It is
// idempotent.
func (ls *LoadSession) Stop() error {
	if ls.st == stateClosed {
		return nil
	}
	ls.st = stateClosed
	err := ls.loader.Finish()
	if cerr := ls.stream.Close(); err == nil {
		err = cerr
	}
	return err
}

// LoadAll drives start -> next-frame -> stop to completion and returns
// every decoded frame; used by the one-shot façades.
func LoadAll(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) ([]*sailimage.Image, error) {
	ls, err := StartLoading(info, s, opts)
	if err != nil {
		return nil, err
	}
	var out []*sailimage.Image
	for {
		skel, err := ls.NextFrame()
		if err != nil {
			if e, ok := err.(*errs.Error); ok && e.Status == errs.NoMoreFrames {
				break
			}
			ls.Stop()
			return nil, err
		}
		if err := skel.AllocPixels(); err != nil {
			ls.Stop()
			return nil, err
		}
		if err := ls.Frame(skel); err != nil {
			ls.Stop()
			return nil, err
		}
		out = append(out, skel)
	}
	return out, ls.Stop()
}

// Probe opens info's Loader just far enough to read the first frame's
// header (skeleton image), then stops the session. Used for "what is this
// file?" queries without decoding pixel data.
func Probe(info *codec.Info, s iostream.Stream, opts codec.LoadOptions) (*sailimage.Image, error) {
	ls, err := StartLoading(info, s, opts)
	if err != nil {
		return nil, err
	}
	skel, err := ls.NextFrame()
	if err != nil {
		ls.Stop()
		return nil, err
	}
	return skel, ls.Stop()
}

// SaveSession is the handle returned by StartSaving*.
type SaveSession struct {
	info   *codec.Info
	saver  codec.Saver
	stream iostream.Stream
	st     state
	log    interface{ Log(level int8, msg string, params ...interface{}) }
}

// StartSaving validates opts against info's SaveFeatures (construct-time
// validation per spec §9 "Options records") and opens s through info's
// Saver.
func StartSaving(info *codec.Info, s iostream.Stream, opts codec.SaveOptions) (*SaveSession, error) {
	if info == nil || !info.CanSave() {
		return nil, errs.New(errs.CodecNotFound, "engine.StartSaving", nil)
	}
	if err := validateSaveOptions(info, opts); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logutil.Noop()
	}
	sv := info.NewSaver()
	if err := sv.Init(s, opts); err != nil {
		return nil, err
	}
	return &SaveSession{info: info, saver: sv, stream: s, st: stateReady, log: log}, nil
}

func validateSaveOptions(info *codec.Info, opts codec.SaveOptions) error {
	if opts.Options&^(codec.SaveOptionMetaData|codec.SaveOptionICCP|codec.SaveOptionSourceImage|codec.SaveOptionInterlaced) != 0 {
		return errs.New(errs.InvalidArgument, "engine.StartSaving", nil)
	}
	if opts.Compression != sailimage.CompressionUnknown && !info.AcceptsCompression(opts.Compression) {
		return errs.New(errs.UnsupportedCompression, "engine.StartSaving", nil)
	}
	if r := info.SaveFeatures.CompressionLevel; r != nil && opts.CompressionLevel != 0 {
		if opts.CompressionLevel < r.Min || opts.CompressionLevel > r.Max {
			return errs.New(errs.InvalidArgument, "engine.StartSaving", nil)
		}
	}
	return nil
}

// NextFrame writes the container/frame header for img, first performing
// implicit pixel-format adjustment (spec §4.5) if img's format is not one
// the codec accepts.
func (ss *SaveSession) NextFrame(img *sailimage.Image) (*sailimage.Image, error) {
	if ss.st != stateReady && ss.st != stateFrameOpen {
		return nil, errs.New(errs.ConflictingOperation, "engine.SaveSession.NextFrame", nil)
	}
	adjusted, err := AdjustForSave(ss.info, img)
	if err != nil {
		return nil, err
	}
	if err := ss.saver.SeekNextFrame(adjusted); err != nil {
		return nil, err
	}
	ss.st = stateFrameOpen
	return adjusted, nil
}

// Frame writes img's pixel data (img should be the value returned by
// NextFrame, already in an accepted pixel format).
func (ss *SaveSession) Frame(img *sailimage.Image) error {
	if ss.st != stateFrameOpen {
		return errs.New(errs.ConflictingOperation, "engine.SaveSession.Frame", nil)
	}
	return ss.saver.Frame(img)
}

// Stop flushes and releases the codec state and closes the underlying
// stream. It is idempotent.
func (ss *SaveSession) Stop() error {
	if ss.st == stateClosed {
		return nil
	}
	ss.st = stateClosed
	err := ss.saver.Finish()
	if ferr := ss.stream.Flush(); err == nil {
		err = ferr
	}
	if cerr := ss.stream.Close(); err == nil {
		err = cerr
	}
	return err
}

// StopWithWritten is Stop plus the byte count written, for
// expanding-buffer destinations (spec §4.5 "stop_saving_with_written").
// The count is taken after the codec's Finish and before the stream is
// closed.
func (ss *SaveSession) StopWithWritten() (int64, error) {
	if ss.st == stateClosed {
		return 0, nil
	}
	ss.st = stateClosed
	err := ss.saver.Finish()
	n, sizeErr := ss.stream.Size()
	if ferr := ss.stream.Flush(); err == nil {
		err = ferr
	}
	if cerr := ss.stream.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = sizeErr
	}
	return n, err
}

// SaveAll drives start -> next-frame -> frame -> stop for every image in
// imgs; used by the one-shot façades.
func SaveAll(info *codec.Info, s iostream.Stream, opts codec.SaveOptions, imgs []*sailimage.Image) error {
	ss, err := StartSaving(info, s, opts)
	if err != nil {
		return err
	}
	for _, img := range imgs {
		adjusted, err := ss.NextFrame(img)
		if err != nil {
			ss.Stop()
			return err
		}
		if err := ss.Frame(adjusted); err != nil {
			ss.Stop()
			return err
		}
	}
	return ss.Stop()
}
