// Package iostream implements the uniform I/O stream abstraction every
// codec reads and writes through: read/write/seek/tell/eof/size over
// files, fixed memory, expanding memory buffers, or caller-supplied
// callbacks. It is the principal extension point for the Technical façade.
package iostream


// Whence selects the reference point for Seek, mirroring io.Seeker's
// values so callers can pass os.SEEK_SET/CUR/END-equivalent constants.
type Whence int

const (
	SeekSet Whence = iota
	SeekCur
	SeekEnd
)

// Features is a bitset of stream capabilities.
type Features int

const (
	// Seekable indicates Seek/Tell/Size are meaningful. A stream lacking
	// this bit may still support sequential writes (e.g. into an
	// expanding buffer that is only ever appended to by a custom
	// transport), but Size is then only "possibly approximate" per the
	// design note this resolves (see DESIGN.md Open Question #3): callers
	// must check Features().Seekable before trusting Size.
	Seekable Features = 1 << iota
)

// Has reports whether f contains all of want's bits.
func (f Features) Has(want Features) bool { return f&want == want }

// Stream is the uniform I/O abstraction. All built-in codecs and the
// engine operate exclusively through this interface; nothing introspects a
// concrete Stream's internals.
type Stream interface {
	// TolerantRead reads up to len(buf) bytes, returning the number
	// actually read. It may return 0 bytes and a nil error at EOF.
	TolerantRead(buf []byte) (n int, err error)

	// StrictRead reads exactly len(buf) bytes or returns
	// errs.ReadIO.
	StrictRead(buf []byte) error

	// TolerantWrite writes up to len(buf) bytes, returning the number
	// actually written.
	TolerantWrite(buf []byte) (n int, err error)

	// StrictWrite writes exactly len(buf) bytes or returns
	// errs.WriteIO.
	StrictWrite(buf []byte) error

	// Seek repositions the stream. Returns errs.UnsupportedSeekWhence for
	// an unrecognized whence, errs.SeekIO on any other failure.
	Seek(offset int64, whence Whence) error

	// Tell returns the current offset.
	Tell() (int64, error)

	// Flush is a no-op for read-only streams; it must be idempotent.
	Flush() error

	// Close releases the stream's resources. It is idempotent: closing an
	// already-closed stream returns nil.
	Close() error

	// EOF reports whether the stream is at end-of-input without
	// consuming any bytes.
	EOF() (bool, error)

	// Size returns the stream's current size. It may be approximate for a
	// non-seekable streaming source (see DESIGN.md Open Question #3).
	Size() (int64, error)

	// Features reports the stream's capability bitset.
	Features() Features
}
