package iostream

import "github.com/ausocean/sail/internal/errs"

// Callbacks is the function-pointer table a caller fills in to plug a
// custom transport (gzip wrapper, encrypted stream, network stream,
// memory view, ...) into the Technical façade. The core never introspects
// anything about the caller's implementation beyond this table.
type Callbacks struct {
	TolerantRead  func(buf []byte) (n int, err error)
	StrictRead    func(buf []byte) error
	TolerantWrite func(buf []byte) (n int, err error)
	StrictWrite   func(buf []byte) error
	Seek          func(offset int64, whence Whence) error
	Tell          func() (int64, error)
	Flush         func() error
	Close         func() error
	EOF           func() (bool, error)
	Size          func() (int64, error)
	Feat          Features
}

type callbackStream struct {
	cb Callbacks
}

// NewCallback adapts a caller-supplied Callbacks table to Stream. A nil
// Flush or Close is a no-op; a nil StrictRead/StrictWrite falls back to the
// tolerant call plus a length check; a nil Seek returns
// UnsupportedSeekWhence, a nil Tell returns TellIO, and the other nil
// functions return NotImplemented.
func NewCallback(cb Callbacks) Stream {
	if cb.Flush == nil {
		cb.Flush = NoopFlush
	}
	if cb.Close == nil {
		cb.Close = func() error { return nil }
	}
	return &callbackStream{cb: cb}
}

func (s *callbackStream) TolerantRead(buf []byte) (int, error) {
	if s.cb.TolerantRead == nil {
		return 0, errs.New(errs.NotImplemented, "callbackStream.TolerantRead", nil)
	}
	return s.cb.TolerantRead(buf)
}

func (s *callbackStream) StrictRead(buf []byte) error {
	if s.cb.StrictRead == nil {
		n, err := s.TolerantRead(buf)
		if err != nil {
			return err
		}
		if n != len(buf) {
			return errs.New(errs.ReadIO, "callbackStream.StrictRead", nil)
		}
		return nil
	}
	return s.cb.StrictRead(buf)
}

func (s *callbackStream) TolerantWrite(buf []byte) (int, error) {
	if s.cb.TolerantWrite == nil {
		return 0, errs.New(errs.NotImplemented, "callbackStream.TolerantWrite", nil)
	}
	return s.cb.TolerantWrite(buf)
}

func (s *callbackStream) StrictWrite(buf []byte) error {
	if s.cb.StrictWrite == nil {
		n, err := s.TolerantWrite(buf)
		if err != nil {
			return err
		}
		if n != len(buf) {
			return errs.New(errs.WriteIO, "callbackStream.StrictWrite", nil)
		}
		return nil
	}
	return s.cb.StrictWrite(buf)
}

func (s *callbackStream) Seek(offset int64, whence Whence) error {
	if s.cb.Seek == nil {
		return errs.New(errs.UnsupportedSeekWhence, "callbackStream.Seek", nil)
	}
	return s.cb.Seek(offset, whence)
}

func (s *callbackStream) Tell() (int64, error) {
	if s.cb.Tell == nil {
		return 0, errs.New(errs.TellIO, "callbackStream.Tell", nil)
	}
	return s.cb.Tell()
}

func (s *callbackStream) Flush() error { return s.cb.Flush() }
func (s *callbackStream) Close() error { return s.cb.Close() }

func (s *callbackStream) EOF() (bool, error) {
	if s.cb.EOF == nil {
		return false, errs.New(errs.NotImplemented, "callbackStream.EOF", nil)
	}
	return s.cb.EOF()
}

func (s *callbackStream) Size() (int64, error) {
	if s.cb.Size == nil {
		if s.cb.Feat.Has(Seekable) {
			return 0, errs.New(errs.NotImplemented, "callbackStream.Size", nil)
		}
		// Size is allowed to be unimplemented on a non-seekable stream
		// (DESIGN.md Open Question #3); callers must check Features first.
		return 0, errs.New(errs.NotImplemented, "callbackStream.Size", nil)
	}
	return s.cb.Size()
}

func (s *callbackStream) Features() Features { return s.cb.Feat }

// NotImplementedTolerantRead, NotImplementedStrictRead and friends are
// ready-made callback values for codecs/streams that cannot support an
// operation (spec §4.1 "not_implemented_* callbacks return NOT_IMPLEMENTED").
func NotImplementedTolerantRead(buf []byte) (int, error) {
	return 0, errs.New(errs.NotImplemented, "NotImplementedTolerantRead", nil)
}

func NotImplementedStrictRead(buf []byte) error {
	return errs.New(errs.NotImplemented, "NotImplementedStrictRead", nil)
}

func NotImplementedTolerantWrite(buf []byte) (int, error) {
	return 0, errs.New(errs.NotImplemented, "NotImplementedTolerantWrite", nil)
}

func NotImplementedStrictWrite(buf []byte) error {
	return errs.New(errs.NotImplemented, "NotImplementedStrictWrite", nil)
}

// NoopFlush is a no-op Flush suitable for read-only streams.
func NoopFlush() error { return nil }
