package iostream

import (
	"sync"

	"github.com/ausocean/sail/internal/errs"
)

const defaultGrowthFactor = 1.5

// expandingBufferStream is a write-oriented buffer that grows by
// growthFactor whenever a write would overflow its capacity. size tracks
// the count of valid (written) bytes, which may be less than cap(buf);
// Size() reports size, not capacity (spec §4.1). The buffer is owned by
// the stream and freed (dropped, in Go) on Close.
type expandingBufferStream struct {
	mu            sync.Mutex
	buf           []byte
	size          int
	pos           int
	growthFactor  float64
}

// NewExpandingBuffer returns a Stream backed by an internally managed,
// growable byte buffer. Reads are satisfied from the bytes written so far;
// seeking past the current size is allowed (valid for subsequent writes);
// reads past the current size return EOF (0 bytes, nil error).
func NewExpandingBuffer() Stream {
	return &expandingBufferStream{growthFactor: defaultGrowthFactor}
}

func (s *expandingBufferStream) grow(requiredCapacity int) {
	newCap := len(s.buf)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < requiredCapacity {
		grown := int(float64(newCap) * s.growthFactor)
		if grown <= newCap {
			grown = newCap + (requiredCapacity - newCap)
		}
		newCap = grown
	}
	grown := make([]byte, newCap)
	copy(grown, s.buf[:s.size])
	s.buf = grown
}

func (s *expandingBufferStream) TolerantRead(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= s.size {
		return 0, nil
	}
	n := copy(p, s.buf[s.pos:s.size])
	s.pos += n
	return n, nil
}

func (s *expandingBufferStream) StrictRead(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos+len(p) > s.size {
		return errs.New(errs.ReadIO, "expandingBufferStream.StrictRead", nil)
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return nil
}

func (s *expandingBufferStream) TolerantWrite(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	required := s.pos + len(p)
	if required > len(s.buf) {
		s.grow(required)
	}
	n := copy(s.buf[s.pos:required], p)
	s.pos += n
	if s.pos > s.size {
		s.size = s.pos
	}
	return n, nil
}

func (s *expandingBufferStream) StrictWrite(p []byte) error {
	n, err := s.TolerantWrite(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errs.New(errs.WriteIO, "expandingBufferStream.StrictWrite", nil)
	}
	return nil
}

func (s *expandingBufferStream) Seek(offset int64, whence Whence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newPos int64
	switch whence {
	case SeekSet:
		newPos = offset
	case SeekCur:
		newPos = int64(s.pos) + offset
	case SeekEnd:
		newPos = int64(s.size) + offset
	default:
		return errs.New(errs.UnsupportedSeekWhence, "expandingBufferStream.Seek", nil)
	}
	if newPos < 0 {
		return errs.New(errs.SeekIO, "expandingBufferStream.Seek", nil)
	}
	// Seeking beyond the current size is allowed; it's valid for writing.
	s.pos = int(newPos)
	return nil
}

func (s *expandingBufferStream) Tell() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.pos), nil
}

func (s *expandingBufferStream) Flush() error { return nil }
func (s *expandingBufferStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
	s.size, s.pos = 0, 0
	return nil
}

func (s *expandingBufferStream) EOF() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos >= s.size, nil
}

// Size returns the count of valid bytes written so far, not the
// underlying capacity (spec §4.1).
func (s *expandingBufferStream) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.size), nil
}

func (s *expandingBufferStream) Features() Features { return Seekable }

// Bytes returns a copy of the valid bytes written so far. It is a
// convenience for callers that saved into an expanding buffer and now want
// the result (the Advanced/Deep façades use this for SaveToMemory).
func (s *expandingBufferStream) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf[:s.size]...)
}

// ExpandingBufferBytes extracts the written bytes from a Stream created by
// NewExpandingBuffer. It panics if s was not created by that constructor,
// which would be a programmer error at the call site.
func ExpandingBufferBytes(s Stream) []byte {
	eb, ok := s.(*expandingBufferStream)
	if !ok {
		panic("iostream: ExpandingBufferBytes called on a non-expanding-buffer stream")
	}
	return eb.Bytes()
}
