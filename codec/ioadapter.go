package codec

import (
	"io"

	"github.com/ausocean/sail/iostream"
)

// streamReader adapts a Stream to io.Reader for codecs built on stdlib or
// x/image decoders, which all want an io.Reader/io.Writer rather than the
// tolerant/strict split iostream.Stream exposes.
type streamReader struct{ s iostream.Stream }

func (r streamReader) Read(p []byte) (int, error) {
	n, err := r.s.TolerantRead(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		if eof, eerr := r.s.EOF(); eerr == nil && eof {
			return 0, io.EOF
		}
	}
	return n, nil
}

type streamWriter struct{ s iostream.Stream }

func (w streamWriter) Write(p []byte) (int, error) {
	return w.s.TolerantWrite(p)
}

// Reader wraps s as an io.Reader, for use by codecs built on stdlib/x-image
// decoders.
func Reader(s iostream.Stream) io.Reader { return streamReader{s} }

// Writer wraps s as an io.Writer.
func Writer(s iostream.Stream) io.Writer { return streamWriter{s} }
