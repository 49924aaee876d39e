package codec

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/iostream"
)

// Registry is a process-wide, lazily-initialized, read-only-after-init
// table of codec Info entries (spec §4.3, §5 thread-safety requirement).
// The zero value is not usable directly; construct one with NewRegistry
// (package sail's DefaultRegistry is the shared instance; tests build
// isolated ones).
type Registry struct {
	once    sync.Once
	initFn  func() []*Info
	mu      sync.RWMutex
	codecs  []*Info
}

// NewRegistry returns a Registry that populates itself from build on first
// use via the sync.Once-guarded ensure call. Concurrent first-callers all
// observe a fully initialized registry before any lookup returns (P14).
func NewRegistry(build func() []*Info) *Registry {
	return &Registry{initFn: build}
}

func (r *Registry) ensure() {
	r.once.Do(func() {
		built := r.initFn()
		r.mu.Lock()
		r.codecs = built
		r.mu.Unlock()
	})
}

// List returns a stable-order snapshot of every registered codec.
func (r *Registry) List() []*Info {
	r.ensure()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Info, len(r.codecs))
	copy(out, r.codecs)
	return out
}

// FromExtension returns the first codec whose extension list contains ext
// (case-insensitive), or nil if none matches.
func (r *Registry) FromExtension(ext string) *Info {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, c := range r.List() {
		if c.HasExtension(ext) {
			return c
		}
	}
	return nil
}

// FromPath splits the extension from p and dispatches to FromExtension.
func (r *Registry) FromPath(p string) *Info {
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	return r.FromExtension(ext)
}

// FromMIMEType returns the first codec whose MIME list contains mime
// (case-insensitive).
func (r *Registry) FromMIMEType(mime string) *Info {
	mime = strings.ToLower(mime)
	for _, c := range r.List() {
		for _, m := range c.MIMETypes {
			if strings.ToLower(m) == mime {
				return c
			}
		}
	}
	return nil
}

// FromName returns the first codec whose name equals name
// (case-insensitive).
func (r *Registry) FromName(name string) *Info {
	name = strings.ToLower(name)
	for _, c := range r.List() {
		if strings.ToLower(c.Name) == name {
			return c
		}
	}
	return nil
}

// maxMagicBytes is the number of leading bytes read to match against
// codec magic patterns (spec §6: "up to 16 bytes from offset 0").
const maxMagicBytes = 16

// FromMagicNumberMemory matches buf's leading bytes against every codec's
// magic patterns.
func (r *Registry) FromMagicNumberMemory(buf []byte) *Info {
	if len(buf) > maxMagicBytes {
		buf = buf[:maxMagicBytes]
	}
	for _, c := range r.List() {
		for _, pat := range c.MagicNumbers {
			if matchMagic(pat, buf) {
				return c
			}
		}
	}
	return nil
}

// FromMagicNumberPath opens path, reads its leading bytes and matches them.
func (r *Registry) FromMagicNumberPath(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.ReadIO, "Registry.FromMagicNumberPath", err)
	}
	defer f.Close()
	buf := make([]byte, maxMagicBytes)
	n, _ := io.ReadFull(f, buf)
	return r.FromMagicNumberMemory(buf[:n]), nil
}

// FromMagicNumberIO reads the stream's leading bytes (restoring its
// position afterwards if it is seekable) and matches them.
func (r *Registry) FromMagicNumberIO(s iostream.Stream) (*Info, error) {
	var start int64
	seekable := s.Features().Has(iostream.Seekable)
	if seekable {
		var err error
		start, err = s.Tell()
		if err != nil {
			return nil, err
		}
	}
	buf := make([]byte, maxMagicBytes)
	n, err := s.TolerantRead(buf)
	if err != nil {
		return nil, err
	}
	if seekable {
		if err := s.Seek(start, iostream.SeekSet); err != nil {
			return nil, err
		}
	}
	return r.FromMagicNumberMemory(buf[:n]), nil
}

// matchMagic parses a pattern like "FF D8" or "4 @ 66 74 79 70" (an
// optional "<offset> @ " prefix, then space-separated hex byte pairs or
// "??" wildcards) and matches it against buf.
func matchMagic(pattern string, buf []byte) bool {
	offset := 0
	rest := pattern
	if idx := strings.Index(pattern, "@"); idx >= 0 {
		offStr := strings.TrimSpace(pattern[:idx])
		if offStr != "" {
			n := 0
			for _, ch := range offStr {
				if ch < '0' || ch > '9' {
					return false
				}
				n = n*10 + int(ch-'0')
			}
			offset = n
		}
		rest = pattern[idx+1:]
	}
	tokens := strings.Fields(rest)
	if offset+len(tokens) > len(buf) {
		return false
	}
	for i, tok := range tokens {
		if tok == "??" {
			continue
		}
		b, ok := hexByte(tok)
		if !ok {
			return false
		}
		if buf[offset+i] != b {
			return false
		}
	}
	return true
}

func hexByte(tok string) (byte, bool) {
	if len(tok) != 2 {
		return 0, false
	}
	var v byte
	for _, ch := range tok {
		v <<= 4
		switch {
		case ch >= '0' && ch <= '9':
			v |= byte(ch - '0')
		case ch >= 'A' && ch <= 'F':
			v |= byte(ch-'A') + 10
		case ch >= 'a' && ch <= 'f':
			v |= byte(ch-'a') + 10
		default:
			return 0, false
		}
	}
	return v, true
}
