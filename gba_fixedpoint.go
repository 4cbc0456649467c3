// gba_fixedpoint.go - Fixed-point helpers for affine reference points and matrices

package gba

// signExtend28 implements the "shift left 4, arithmetic shift right 4"
// sign extension from a 28-bit two's-complement field to a full 32-bit
// int32, per spec.md §9. Go's >> on a signed integer is already an
// arithmetic shift, so no platform fallback is needed.
func signExtend28(v int32) int32 {
	return (v << 4) >> 4
}

// affineRef is a 28.8 fixed-point accumulator (refx/refy) assembled
// from two 16-bit register halves.
type affineRef struct {
	raw int32 // 28.8 fixed, sign-extended from 28 bits
}

// writeLo assembles the low 16 bits of the reference point. The low
// write alone never needs sign extension - only the high half can
// push the value outside the 28-bit field.
func (r *affineRef) writeLo(value uint16) {
	r.raw = (r.raw & ^int32(0xFFFF)) | int32(uint32(value))
}

// writeHi assembles the high 16 bits and re-derives the signed value.
func (r *affineRef) writeHi(value uint16) {
	r.raw = (r.raw & 0x0000FFFF) | (int32(uint32(value)) << 16)
	r.raw = signExtend28(r.raw)
}

// advance applies one scanline's worth of affine delta (dmx or dmy).
func (r *affineRef) advance(delta int16) {
	r.raw += int32(delta)
}

// affineMatrix holds the four 8.8 signed fixed-point coefficients of
// a background affine transform (PA/PB/PC/PD in hardware terms).
type affineMatrix struct {
	dx  int16 // PA
	dmx int16 // PB
	dy  int16 // PC
	dmy int16 // PD
}

// toFloat divides each 8.8 fixed coefficient down to a float32 for
// shader uniform upload.
func (m affineMatrix) toFloat() (dx, dmx, dy, dmy float32) {
	const scale = 1.0 / 256.0
	return float32(m.dx) * scale, float32(m.dmx) * scale, float32(m.dy) * scale, float32(m.dmy) * scale
}

// objAffineMatrix is one of the 32 OAM-resident 2x2 transform
// matrices used by affine sprites, reassembled from four signed 8.8
// fixed 16-bit halves into a plain float 2x2.
type objAffineMatrix struct {
	pa, pb, pc, pd int16
}

func (m objAffineMatrix) float2x2() (a, b, c, d float32) {
	const scale = 1.0 / 256.0
	return float32(m.pa) * scale, float32(m.pb) * scale, float32(m.pc) * scale, float32(m.pd) * scale
}
