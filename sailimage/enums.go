package sailimage

import "fmt"

// Compression is a closed enumeration of compression schemes. UNKNOWN is a
// valid value for input (a codec may not know/report it); the rest are
// frozen the same way PixelFormat is (INV-5).
type Compression int

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionJPEG
	CompressionDeflate
	CompressionLZW
	CompressionRLE
	CompressionJBIG
	CompressionZSTD
	CompressionWebP
	CompressionJPEGXL
	CompressionJPEGXR
	CompressionJPEG2000
	CompressionPackBits
	CompressionCCITTFax3
	CompressionCCITTFax4
	CompressionCCITTT4
	CompressionCCITTT6
	CompressionCCITTRLE
	CompressionCCITTRLEW
	CompressionSGILog
	CompressionLERC
	CompressionQOI
)

var compressionNames = [...]string{
	"UNKNOWN", "NONE", "JPEG", "DEFLATE", "LZW", "RLE", "JBIG", "ZSTD",
	"WEBP", "JPEG_XL", "JPEG_XR", "JPEG_2000", "PACKBITS",
	"CCITT_FAX3", "CCITT_FAX4", "CCITT_T4", "CCITT_T6", "CCITT_RLE",
	"CCITT_RLEW", "SGI_LOG", "LERC", "QOI",
}

func (c Compression) String() string {
	if int(c) >= 0 && int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return fmt.Sprintf("COMPRESSION(%d)", int(c))
}

// Orientation describes a geometric transform applied (or to be applied) to
// an image relative to its natural reading orientation.
type Orientation int

const (
	OrientationNormal Orientation = iota
	OrientationRotated90
	OrientationRotated180
	OrientationRotated270
	OrientationMirroredHorizontally
	OrientationMirroredVertically
	OrientationMirroredHorizontallyRotated90
	OrientationMirroredHorizontallyRotated270
)

var orientationNames = [...]string{
	"NORMAL", "ROTATED_90", "ROTATED_180", "ROTATED_270",
	"MIRRORED_HORIZONTALLY", "MIRRORED_VERTICALLY",
	"MIRRORED_HORIZONTALLY_ROTATED_90", "MIRRORED_HORIZONTALLY_ROTATED_270",
}

func (o Orientation) String() string {
	if int(o) >= 0 && int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("ORIENTATION(%d)", int(o))
}

// ChromaSubsampling describes the chroma subsampling scheme of a YUV/YCbCr
// source image, independent of the PixelFormat used to deliver it.
type ChromaSubsampling int

const (
	ChromaUnknown ChromaSubsampling = iota
	Chroma400
	Chroma411
	Chroma410
	Chroma420
	Chroma421
	Chroma422
	Chroma444
	Chroma311
)

var chromaNames = map[ChromaSubsampling]string{
	ChromaUnknown: "UNKNOWN", Chroma400: "400", Chroma411: "411",
	Chroma410: "410", Chroma420: "420", Chroma421: "421",
	Chroma422: "422", Chroma444: "444", Chroma311: "311",
}

func (c ChromaSubsampling) String() string {
	if n, ok := chromaNames[c]; ok {
		return n
	}
	return fmt.Sprintf("CHROMA(%d)", int(c))
}

// ResolutionUnit describes the unit of a Resolution record.
type ResolutionUnit int

const (
	ResolutionUnitUnknown ResolutionUnit = iota
	ResolutionUnitMicrometer
	ResolutionUnitCentimeter
	ResolutionUnitMeter
	ResolutionUnitInch
)

var resolutionUnitNames = [...]string{
	"UNKNOWN", "MICROMETER", "CENTIMETER", "METER", "INCH",
}

func (r ResolutionUnit) String() string {
	if int(r) >= 0 && int(r) < len(resolutionUnitNames) {
		return resolutionUnitNames[r]
	}
	return fmt.Sprintf("RESOLUTION_UNIT(%d)", int(r))
}

// MetaDataKey enumerates well-known metadata keys. UNKNOWN is used for
// codec-defined string keys not in this list; the companion key string is
// carried on MetaDataNode.KeyUnknown.
type MetaDataKey int

const (
	MetaDataUnknown MetaDataKey = iota
	MetaDataArtist
	MetaDataAuthor
	MetaDataComment
	MetaDataCopyright
	MetaDataCreationTime
	MetaDataDescription
	MetaDataDocument
	MetaDataExif
	MetaDataIPTC
	MetaDataXMP
	MetaDataJUMBF
	MetaDataMake
	MetaDataModel
	MetaDataSoftware
	MetaDataSoftwareVersion
	MetaDataTitle
	MetaDataURL
	MetaDataWarning
)

var metaDataKeyNames = [...]string{
	"UNKNOWN", "ARTIST", "AUTHOR", "COMMENT", "COPYRIGHT", "CREATION_TIME",
	"DESCRIPTION", "DOCUMENT", "EXIF", "IPTC", "XMP", "JUMBF", "MAKE",
	"MODEL", "SOFTWARE", "SOFTWARE_VERSION", "TITLE", "URL", "WARNING",
}

func (k MetaDataKey) String() string {
	if int(k) >= 0 && int(k) < len(metaDataKeyNames) {
		return metaDataKeyNames[k]
	}
	return fmt.Sprintf("META_DATA_KEY(%d)", int(k))
}
