package iostream

import (
	"sync"

	"github.com/ausocean/sail/internal/errs"
)

// fixedMemoryStream is a bounded in-memory buffer. Reads past the end
// return EOF; writes past capacity fail (strict) or are truncated to fit
// (tolerant), matching spec §4.1's "Fixed-memory read / read-write".
type fixedMemoryStream struct {
	mu        sync.Mutex
	buf       []byte
	pos       int
	writeable bool
}

// NewFixedMemory wraps buf for reading. The returned Stream does not take
// ownership beyond the lifetime of this call's caller-visible slice; it
// reads directly from buf.
func NewFixedMemory(buf []byte) Stream {
	return &fixedMemoryStream{buf: buf}
}

// NewFixedMemoryReadWrite wraps buf for reading and in-place writing. Writes
// past len(buf) fail with errs.WriteIO; the buffer never grows (use
// NewExpandingBuffer for that).
func NewFixedMemoryReadWrite(buf []byte) Stream {
	return &fixedMemoryStream{buf: buf, writeable: true}
}

func (s *fixedMemoryStream) TolerantRead(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.buf) {
		return 0, nil
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *fixedMemoryStream) StrictRead(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos+len(p) > len(s.buf) {
		return errs.New(errs.ReadIO, "fixedMemoryStream.StrictRead", nil)
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return nil
}

func (s *fixedMemoryStream) TolerantWrite(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.writeable {
		return 0, errs.New(errs.WriteIO, "fixedMemoryStream.TolerantWrite", nil)
	}
	if s.pos >= len(s.buf) {
		return 0, errs.New(errs.WriteIO, "fixedMemoryStream.TolerantWrite", nil)
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *fixedMemoryStream) StrictWrite(p []byte) error {
	if !s.writeable || s.pos+len(p) > len(s.buf) {
		return errs.New(errs.WriteIO, "fixedMemoryStream.StrictWrite", nil)
	}
	n, err := s.TolerantWrite(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errs.New(errs.WriteIO, "fixedMemoryStream.StrictWrite", nil)
	}
	return nil
}

func (s *fixedMemoryStream) Seek(offset int64, whence Whence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newPos int64
	switch whence {
	case SeekSet:
		newPos = offset
	case SeekCur:
		newPos = int64(s.pos) + offset
	case SeekEnd:
		newPos = int64(len(s.buf)) + offset
	default:
		return errs.New(errs.UnsupportedSeekWhence, "fixedMemoryStream.Seek", nil)
	}
	if newPos < 0 {
		return errs.New(errs.SeekIO, "fixedMemoryStream.Seek", nil)
	}
	s.pos = int(newPos)
	return nil
}

func (s *fixedMemoryStream) Tell() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.pos), nil
}

func (s *fixedMemoryStream) Flush() error { return nil }
func (s *fixedMemoryStream) Close() error { return nil }

func (s *fixedMemoryStream) EOF() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos >= len(s.buf), nil
}

func (s *fixedMemoryStream) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.buf)), nil
}

func (s *fixedMemoryStream) Features() Features { return Seekable }
