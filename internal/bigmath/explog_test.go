package bigmath

import (
	"math"
	"math/big"
	"testing"
)

func TestExpLog_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := NewContext(60)

	for _, x := range []float64{0.1, 1, 2.5, 100, 12345.678} {
		got, _ := Exp(ctx, Log(ctx, ctx.FromFloat64(x))).Float64()
		if math.Abs(got-x) > 1e-9*x {
			t.Errorf("exp(log(%v)) = %v", x, got)
		}
	}
}

func TestLogInt(t *testing.T) {
	t.Parallel()
	ctx := NewContext(60)

	got, _ := LogInt(ctx, big.NewInt(1073217479)).Float64()
	want := math.Log(1073217479)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("LogInt(1073217479) = %v, want %v", got, want)
	}
}

func TestPow(t *testing.T) {
	t.Parallel()
	ctx := NewContext(60)

	got, _ := Pow(ctx, ctx.FromFloat64(2), ctx.FromFloat64(10)).Float64()
	if got != 1024 {
		t.Errorf("Pow(2, 10) = %v, want 1024", got)
	}
}

func TestSqrt(t *testing.T) {
	t.Parallel()
	ctx := NewContext(60)

	testCases := []struct {
		in   float64
		want float64
	}{
		{4, 2},
		{2, math.Sqrt2},
		{1e10, 1e5},
		{0, 0},
	}

	for _, tc := range testCases {
		got, _ := Sqrt(ctx, ctx.FromFloat64(tc.in)).Float64()
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("Sqrt(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	// The result carries the context precision, not the argument's.
	if got := Sqrt(ctx, big.NewFloat(2)); got.Prec() != ctx.Bits() {
		t.Errorf("Sqrt precision = %d, want %d", got.Prec(), ctx.Bits())
	}
}
