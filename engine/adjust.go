package engine

import (
	"github.com/ausocean/sail/codec"
	"github.com/ausocean/sail/internal/errs"
	"github.com/ausocean/sail/manip"
	"github.com/ausocean/sail/sailimage"
)

// AdjustForSave implements the "best acceptable format" heuristic fixed by
// spec §4.5, resolving Open Question #4 (the heuristic is undocumented in
// the originating source; this specification pins the rule below):
//
//  1. If img's format is already accepted by info, no conversion.
//  2. Else, among info's accepted formats with equal-or-greater
//     bits-per-pixel and a matching channel family, pick the one with the
//     smallest bits-per-pixel (tightest fit that still fits).
//  3. Else, fall back to the accepted format sharing the most channels
//     with img's family.
//
// Failure (no candidate at all) returns errs.UnsupportedPixelFormat.
func AdjustForSave(info *codec.Info, img *sailimage.Image) (*sailimage.Image, error) {
	if info.AcceptsSavePixelFormat(img.PixelFormat) {
		return img, nil
	}
	accepted := info.SaveFeatures.PixelFormats
	if len(accepted) == 0 {
		return nil, errs.New(errs.UnsupportedPixelFormat, "engine.AdjustForSave", nil)
	}

	family := sailimage.Family(img.PixelFormat)
	srcBPP := sailimage.BitsPerPixel(img.PixelFormat)

	best := sailimage.Unknown
	bestBPP := -1
	for _, pf := range accepted {
		if sailimage.Family(pf) != family {
			continue
		}
		bpp := sailimage.BitsPerPixel(pf)
		if bpp < srcBPP {
			continue
		}
		if best == sailimage.Unknown || bpp < bestBPP {
			best = pf
			bestBPP = bpp
		}
	}

	if best == sailimage.Unknown {
		srcChannels := sailimage.ChannelCount(img.PixelFormat)
		bestCommon := -1
		for _, pf := range accepted {
			common := minInt(srcChannels, sailimage.ChannelCount(pf))
			if common > bestCommon {
				bestCommon = common
				best = pf
			}
		}
	}

	if best == sailimage.Unknown {
		return nil, errs.New(errs.UnsupportedPixelFormat, "engine.AdjustForSave", nil)
	}
	return manip.Convert(img, best)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
