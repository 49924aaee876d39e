package iostream

import (
	"io"
	"os"
	"sync"

	"github.com/ausocean/sail/internal/errs"
)

// fileStream wraps an *os.File behind the Stream interface. It honors
// normal OS path semantics; Windows UTF-8 path conversion is handled by
// os.Open/os.Create themselves on that platform.
type fileStream struct {
	mu     sync.Mutex
	f      *os.File
	closed bool
}

// NewFile opens path for reading (readWrite=false) or reading and writing,
// creating/truncating it if necessary (readWrite=true).
func NewFile(path string, readWrite bool) (Stream, error) {
	var (
		f   *os.File
		err error
	)
	if readWrite {
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, errs.New(errs.ReadIO, "iostream.NewFile", err)
	}
	return &fileStream{f: f}, nil
}

func (s *fileStream) TolerantRead(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.f.Read(buf)
	if err == io.EOF {
		err = nil
	} else if err != nil {
		return n, errs.New(errs.ReadIO, "fileStream.TolerantRead", err)
	}
	return n, nil
}

func (s *fileStream) StrictRead(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.ReadFull(s.f, buf)
	if err != nil {
		return errs.New(errs.ReadIO, "fileStream.StrictRead", err)
	}
	return nil
}

func (s *fileStream) TolerantWrite(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.f.Write(buf)
	if err != nil {
		return n, errs.New(errs.WriteIO, "fileStream.TolerantWrite", err)
	}
	return n, nil
}

func (s *fileStream) StrictWrite(buf []byte) error {
	n, err := s.TolerantWrite(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errs.New(errs.WriteIO, "fileStream.StrictWrite", io.ErrShortWrite)
	}
	return nil
}

func (s *fileStream) Seek(offset int64, whence Whence) error {
	var w int
	switch whence {
	case SeekSet:
		w = io.SeekStart
	case SeekCur:
		w = io.SeekCurrent
	case SeekEnd:
		w = io.SeekEnd
	default:
		return errs.New(errs.UnsupportedSeekWhence, "fileStream.Seek", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Seek(offset, w); err != nil {
		return errs.New(errs.SeekIO, "fileStream.Seek", err)
	}
	return nil
}

func (s *fileStream) Tell() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errs.New(errs.TellIO, "fileStream.Tell", err)
	}
	return off, nil
}

func (s *fileStream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Sync()
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

func (s *fileStream) EOF() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, errs.New(errs.TellIO, "fileStream.EOF", err)
	}
	end, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		return false, errs.New(errs.SeekIO, "fileStream.EOF", err)
	}
	if _, err := s.f.Seek(cur, io.SeekStart); err != nil {
		return false, errs.New(errs.SeekIO, "fileStream.EOF", err)
	}
	return cur >= end, nil
}

func (s *fileStream) Size() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fi, err := s.f.Stat()
	if err != nil {
		return 0, errs.New(errs.ReadIO, "fileStream.Size", err)
	}
	return fi.Size(), nil
}

func (s *fileStream) Features() Features { return Seekable }
