package manip

import "gonum.org/v1/gonum/mat"

// rgbToYCbCrMatrix and ycbcrToRGBMatrix are the Rec.601 3x3 transforms
// (plus the Cb/Cr 128 offset folded in as a translation done by the
// caller), built with gonum.org/v1/gonum/mat so the matrix math itself
// — rather than hand-written scalar arithmetic — is what the pack's
// color-space conversions are grounded on (see mrjoshuak/go-jpeg2000's
// colorspace.go for the equivalent matrix-form YCbCr/YPbPr conversions).
var (
	rgbToYCbCrMatrix = mat.NewDense(3, 3, []float64{
		0.299, 0.587, 0.114,
		-0.168736, -0.331264, 0.5,
		0.5, -0.418688, -0.081312,
	})
	ycbcrToRGBMatrix = mat.NewDense(3, 3, []float64{
		1, 0, 1.402,
		1, -0.344136, -0.714136,
		1, 1.772, 0,
	})
)

func applyMatrix3(m *mat.Dense, a, b, c float64) (float64, float64, float64) {
	in := mat.NewVecDense(3, []float64{a, b, c})
	var out mat.VecDense
	out.MulVec(m, in)
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}
