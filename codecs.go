package sail

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/codec/bmp"
	"github.com/ausocean/sail/codec/gif"
	"github.com/ausocean/sail/codec/jbig"
	"github.com/ausocean/sail/codec/jpeg"
	"github.com/ausocean/sail/codec/jpeg2000"
	"github.com/ausocean/sail/codec/png"
	"github.com/ausocean/sail/codec/qoi"
	"github.com/ausocean/sail/codec/stub"
	"github.com/ausocean/sail/codec/tga"
	"github.com/ausocean/sail/codec/tiff"
	"github.com/ausocean/sail/codec/wal"
	"github.com/ausocean/sail/codec/webp"
	"github.com/ausocean/sail/codec/xbm"
)

// buildCodecs is the codec.Registry initFn for DefaultRegistry: the full
// list of formats this repository ships, fully implemented codecs first,
// registered-but-unimplemented stubs last. List order only matters as a
// tiebreaker when two codecs claim the same extension or magic number,
// which does not happen here.
func buildCodecs() []*codec.Info {
	infos := []*codec.Info{
		png.Info,
		bmp.Info,
		gif.Info,
		jpeg.Info,
		tiff.Info,
		webp.Info,
		jpeg2000.Info,
		qoi.Info,
		tga.Info,
		wal.Info,
		xbm.Info,
		jbig.Info,
	}
	return append(infos, stub.All...)
}

// DefaultRegistry is the process-wide codec table every façade function in
// this package resolves codecs through.
var DefaultRegistry = codec.NewRegistry(buildCodecs)
