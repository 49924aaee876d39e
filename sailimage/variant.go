package sailimage

import (
	"math"
	"strconv"
)

// VariantType tags the arm of a Variant that is currently populated.
type VariantType int

const (
	VariantInvalid VariantType = iota
	VariantBool
	VariantInt8
	VariantUint8
	VariantInt16
	VariantUint16
	VariantInt32
	VariantUint32
	VariantInt64
	VariantUint64
	VariantFloat32
	VariantFloat64
	VariantString
	VariantData
)

// Variant is a tagged sum over the documented arms (spec §3.1). Only one of
// the fields is meaningful, selected by Type. Variant values are plain Go
// structs: copying one by value already satisfies the "must round-trip
// unchanged through copy" requirement (P12), except for the Data arm, whose
// backing array must be cloned explicitly via Copy to get independent
// ownership of the byte slice.
type Variant struct {
	Type VariantType

	boolVal   bool
	intVal    int64
	uintVal   uint64
	floatVal  float64
	stringVal string
	dataVal   []byte
}

// NewBool, NewInt..., NewString and NewData construct a populated Variant.

func NewBool(v bool) Variant      { return Variant{Type: VariantBool, boolVal: v} }
func NewInt8(v int8) Variant      { return Variant{Type: VariantInt8, intVal: int64(v)} }
func NewUint8(v uint8) Variant    { return Variant{Type: VariantUint8, uintVal: uint64(v)} }
func NewInt16(v int16) Variant    { return Variant{Type: VariantInt16, intVal: int64(v)} }
func NewUint16(v uint16) Variant  { return Variant{Type: VariantUint16, uintVal: uint64(v)} }
func NewInt32(v int32) Variant    { return Variant{Type: VariantInt32, intVal: int64(v)} }
func NewUint32(v uint32) Variant  { return Variant{Type: VariantUint32, uintVal: uint64(v)} }
func NewInt64(v int64) Variant    { return Variant{Type: VariantInt64, intVal: v} }
func NewUint64(v uint64) Variant  { return Variant{Type: VariantUint64, uintVal: v} }
func NewFloat32(v float32) Variant { return Variant{Type: VariantFloat32, floatVal: float64(v)} }
func NewFloat64(v float64) Variant { return Variant{Type: VariantFloat64, floatVal: v} }
func NewString(v string) Variant   { return Variant{Type: VariantString, stringVal: v} }

// NewData takes ownership of b (analogous to alloc_iccp_move_data in the
// data-model constructors note); callers that want the Variant to hold an
// independent copy should pass a freshly allocated slice.
func NewData(b []byte) Variant { return Variant{Type: VariantData, dataVal: b} }

// Copy performs a deep copy, cloning the Data arm's backing array so the
// two Variants own independent memory (P12).
func (v Variant) Copy() Variant {
	cp := v
	if v.Type == VariantData && v.dataVal != nil {
		cp.dataVal = append([]byte(nil), v.dataVal...)
	}
	return cp
}

// EqualVariants reports whether a and b have the same type and value.
func EqualVariants(a, b Variant) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case VariantBool:
		return a.boolVal == b.boolVal
	case VariantInt8, VariantInt16, VariantInt32, VariantInt64:
		return a.intVal == b.intVal
	case VariantUint8, VariantUint16, VariantUint32, VariantUint64:
		return a.uintVal == b.uintVal
	case VariantFloat32, VariantFloat64:
		return a.floatVal == b.floatVal
	case VariantString:
		return a.stringVal == b.stringVal
	case VariantData:
		if len(a.dataVal) != len(b.dataVal) {
			return false
		}
		for i := range a.dataVal {
			if a.dataVal[i] != b.dataVal[i] {
				return false
			}
		}
		return true
	default:
		return true // both INVALID
	}
}

// Equal reports whether v and other carry the same type and value. It
// exists so github.com/google/go-cmp can compare Variants (and structures
// that embed them, such as HashMap snapshots) without reaching into the
// unexported arms.
func (v Variant) Equal(other Variant) bool { return EqualVariants(v, other) }

// Bool coerces the Variant to bool: numeric types are truthy iff non-zero,
// a string is truthy iff it parses as "true" (case-insensitive) or a
// non-zero number; anything else yields false (documented lossy semantics).
func (v Variant) Bool() bool {
	switch v.Type {
	case VariantBool:
		return v.boolVal
	case VariantInt8, VariantInt16, VariantInt32, VariantInt64:
		return v.intVal != 0
	case VariantUint8, VariantUint16, VariantUint32, VariantUint64:
		return v.uintVal != 0
	case VariantFloat32, VariantFloat64:
		return v.floatVal != 0
	case VariantString:
		if b, err := strconv.ParseBool(v.stringVal); err == nil {
			return b
		}
		if f, err := strconv.ParseFloat(v.stringVal, 64); err == nil {
			return f != 0
		}
		return false
	default:
		return false
	}
}

// Int64 coerces the Variant to int64, clamping float values and parsing
// strings with decimal rules. Invalid coercions return 0.
func (v Variant) Int64() int64 {
	switch v.Type {
	case VariantBool:
		if v.boolVal {
			return 1
		}
		return 0
	case VariantInt8, VariantInt16, VariantInt32, VariantInt64:
		return v.intVal
	case VariantUint8, VariantUint16, VariantUint32, VariantUint64:
		if v.uintVal > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(v.uintVal)
	case VariantFloat32, VariantFloat64:
		return clampFloatToInt64(v.floatVal)
	case VariantString:
		if n, err := strconv.ParseInt(v.stringVal, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(v.stringVal, 64); err == nil {
			return clampFloatToInt64(f)
		}
		return 0
	default:
		return 0
	}
}

// Uint64 coerces the Variant to uint64; negative values clamp to 0.
func (v Variant) Uint64() uint64 {
	n := v.Int64()
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// Float64 coerces the Variant to float64.
func (v Variant) Float64() float64 {
	switch v.Type {
	case VariantBool:
		if v.boolVal {
			return 1
		}
		return 0
	case VariantInt8, VariantInt16, VariantInt32, VariantInt64:
		return float64(v.intVal)
	case VariantUint8, VariantUint16, VariantUint32, VariantUint64:
		return float64(v.uintVal)
	case VariantFloat32, VariantFloat64:
		return v.floatVal
	case VariantString:
		if f, err := strconv.ParseFloat(v.stringVal, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// String returns the Variant's string value, or its value formatted to a
// string for numeric/bool arms. A Data or Invalid arm yields "".
func (v Variant) String() string {
	switch v.Type {
	case VariantString:
		return v.stringVal
	case VariantBool:
		return strconv.FormatBool(v.boolVal)
	case VariantInt8, VariantInt16, VariantInt32, VariantInt64:
		return strconv.FormatInt(v.intVal, 10)
	case VariantUint8, VariantUint16, VariantUint32, VariantUint64:
		return strconv.FormatUint(v.uintVal, 10)
	case VariantFloat32, VariantFloat64:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	default:
		return ""
	}
}

// Data returns the Variant's byte slice, or nil for non-Data arms.
func (v Variant) Data() []byte {
	if v.Type != VariantData {
		return nil
	}
	return v.dataVal
}

func clampFloatToInt64(f float64) int64 {
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}
