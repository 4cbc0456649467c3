package gba

import "testing"

func TestSignExtend28(t *testing.T) {
	cases := []struct {
		in, want int32
	}{
		{0x0000000, 0},
		{0x0000001, 1},
		{0xFFFFFFF, -1},          // all 28 bits set -> -1
		{0x8000000, -0x8000000}, // sign bit of the 28-bit field set
		{0x7FFFFFF, 0x7FFFFFF},  // largest positive 28-bit value
	}
	for _, c := range cases {
		if got := signExtend28(c.in); got != c.want {
			t.Errorf("signExtend28(%#x) = %#x, want %#x", c.in, got, c.want)
		}
	}
}

func TestAffineRef_WriteLoHi(t *testing.T) {
	var r affineRef
	r.writeLo(0x1234)
	if r.raw != 0x1234 {
		t.Fatalf("after writeLo, raw = %#x, want 0x1234", r.raw)
	}
	r.writeHi(0x0001)
	want := signExtend28(int32(0x00011234))
	if r.raw != want {
		t.Fatalf("after writeHi, raw = %#x, want %#x", r.raw, want)
	}
}

func TestAffineRef_WriteHi_SignExtends(t *testing.T) {
	var r affineRef
	r.writeLo(0x0000)
	r.writeHi(0x0FFF) // top nibble of the 28-bit field set -> negative
	if r.raw >= 0 {
		t.Fatalf("expected negative raw after setting the 28-bit sign bit, got %#x", r.raw)
	}
}

func TestAffineRef_Advance(t *testing.T) {
	var r affineRef
	r.raw = 100
	r.advance(50)
	if r.raw != 150 {
		t.Fatalf("advance(50): raw = %d, want 150", r.raw)
	}
	r.advance(-200)
	if r.raw != -50 {
		t.Fatalf("advance(-200): raw = %d, want -50", r.raw)
	}
}

func TestAffineMatrix_ToFloat(t *testing.T) {
	m := affineMatrix{dx: 256, dmx: -256, dy: 128, dmy: 0}
	dx, dmx, dy, dmy := m.toFloat()
	if dx != 1.0 || dmx != -1.0 || dy != 0.5 || dmy != 0.0 {
		t.Fatalf("toFloat() = (%v,%v,%v,%v), want (1,-1,0.5,0)", dx, dmx, dy, dmy)
	}
}

func TestObjAffineMatrix_Float2x2(t *testing.T) {
	m := objAffineMatrix{pa: 256, pb: 0, pc: 0, pd: 256}
	a, b, c, d := m.float2x2()
	if a != 1.0 || b != 0.0 || c != 0.0 || d != 1.0 {
		t.Fatalf("float2x2() = (%v,%v,%v,%v), want identity", a, b, c, d)
	}
}
