package sailimage

import "testing"

func TestVariantCoercions(t *testing.T) {
	cases := []struct {
		name string
		v    Variant
		b    bool
		i    int64
		s    string
	}{
		{"bool-true", NewBool(true), true, 1, "true"},
		{"int64-neg", NewInt64(-7), true, -7, "-7"},
		{"uint64", NewUint64(42), true, 42, "42"},
		{"float64", NewFloat64(2.5), true, 2, "2.5"},
		{"string-number", NewString("19"), true, 19, "19"},
		{"string-false", NewString("false"), false, 0, "false"},
		{"zero-int", NewInt32(0), false, 0, "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Bool(); got != c.b {
				t.Errorf("Bool() = %v, want %v", got, c.b)
			}
			if got := c.v.Int64(); got != c.i {
				t.Errorf("Int64() = %v, want %v", got, c.i)
			}
			if got := c.v.String(); got != c.s {
				t.Errorf("String() = %q, want %q", got, c.s)
			}
		})
	}
}

func TestVariantDataCopyIsIndependent(t *testing.T) {
	orig := NewData([]byte{1, 2, 3})
	cp := orig.Copy()
	cp.Data()[0] = 99
	if orig.Data()[0] == 99 {
		t.Fatal("Copy() should clone the backing array for the Data arm")
	}
}

func TestEqualVariants(t *testing.T) {
	if !EqualVariants(NewInt64(5), NewInt64(5)) {
		t.Fatal("identical int64 variants should be equal")
	}
	if EqualVariants(NewInt64(5), NewUint64(5)) {
		t.Fatal("variants of different types should not be equal even with the same numeric value")
	}
	if !EqualVariants(NewData([]byte{1, 2}), NewData([]byte{1, 2})) {
		t.Fatal("equal Data variants should compare equal")
	}
}

func TestUint64ClampsNegative(t *testing.T) {
	if got := NewInt64(-1).Uint64(); got != 0 {
		t.Fatalf("Uint64() of a negative variant = %d, want 0", got)
	}
}
