package half

import "testing"

func TestRoundTripExactValues(t *testing.T) {
	vals := []float32{0, 1, -1, 2, 0.5, -0.5, 65504, -65504}
	for _, v := range vals {
		got := ToFloat32(FromFloat32(v))
		if got != v {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}

func TestZeroBitsAreZero(t *testing.T) {
	if ToFloat32(0) != 0 {
		t.Error("bits 0x0000 should decode to 0.0")
	}
	if FromFloat32(0) != 0 {
		t.Error("0.0 should encode to bits 0x0000")
	}
}

func TestOverflowSaturatesToInf(t *testing.T) {
	bits := FromFloat32(1e10)
	if bits&0x7c00 != 0x7c00 {
		t.Errorf("bits = %#04x, want Inf exponent", bits)
	}
}

func TestSubnormalRoundTrip(t *testing.T) {
	// smallest positive half subnormal, 2^-24
	const smallest = float32(1.0) / float32(1<<24)
	bits := FromFloat32(smallest)
	if bits == 0 {
		t.Fatal("smallest half subnormal should not flush to zero")
	}
	got := ToFloat32(bits)
	if got != smallest {
		t.Errorf("subnormal round trip = %v, want %v", got, smallest)
	}
}
