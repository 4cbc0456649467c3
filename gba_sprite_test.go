package gba

import "testing"

func TestDecodeSprite_BasicFields(t *testing.T) {
	// y=50, not affine, not disabled, mode normal, not mosaic, 4bpp,
	// shape=0 (square), x=100, hFlip, size=1 (16x16), tile=5, priority=1, palette=2.
	attr0 := uint16(50)
	attr1 := uint16(100) | (1 << 12) | (1 << 14)
	attr2 := uint16(5) | (1 << 10) | (2 << 12)

	s := decodeSprite(attr0, attr1, attr2)
	if s.y != 50 || s.x != 100 {
		t.Fatalf("position = (%d,%d), want (100,50)", s.x, s.y)
	}
	if s.affine || s.disabled {
		t.Fatal("sprite should be neither affine nor disabled")
	}
	if !s.hFlip || s.vFlip {
		t.Fatalf("flip = (%v,%v), want (true,false)", s.hFlip, s.vFlip)
	}
	if s.w != 16 || s.h != 16 {
		t.Fatalf("dims = (%d,%d), want (16,16)", s.w, s.h)
	}
	if s.tileNumber != 5 || s.priority != 1 || s.paletteBank != 2 {
		t.Fatalf("tile/priority/palette = (%d,%d,%d), want (5,1,2)", s.tileNumber, s.priority, s.paletteBank)
	}
	if s.endY != 66 {
		t.Fatalf("endY = %d, want 66", s.endY)
	}
}

func TestDecodeSprite_XWraparound(t *testing.T) {
	s := decodeSprite(0, 300, 0) // x=300 >= 240 -> wraps to 300-512
	if s.x != 300-512 {
		t.Fatalf("x = %d, want %d", s.x, 300-512)
	}
}

func TestDecodeSprite_AffineDoubleSize(t *testing.T) {
	attr0 := uint16(10) | (1 << 8) | (1 << 9) // affine, doubleSize
	s := decodeSprite(attr0, 0, 0)
	if !s.affine || !s.doubleSize {
		t.Fatal("expected affine + doubleSize")
	}
	if s.endY != 10+2*8 { // shape 0 size 0 -> 8x8, doubled
		t.Fatalf("endY = %d, want %d", s.endY, 10+16)
	}
}

func TestDecodeSprite_DisabledNonAffine(t *testing.T) {
	attr0 := uint16(1 << 9) // disable bit, not affine
	s := decodeSprite(attr0, 0, 0)
	if !s.disabled {
		t.Fatal("bit 9 without affine should mean disabled")
	}
}

func TestCleanOAM_FiltersDisabledAndProhibited(t *testing.T) {
	var attr0, attr1, attr2 [numOBJ]uint16
	attr0[0] = 1 << 9 // disabled
	attr0[1] = uint16(objModeProhibited) << 10
	attr0[2] = 0 // normal, visible

	out := make([]sprite, numOBJ)
	n := cleanOAM(attr0, attr1, attr2, out)
	if n != numOBJ-2 {
		t.Fatalf("cleanOAM count = %d, want %d", n, numOBJ-2)
	}
}

func TestSprite_IntersectsBatch(t *testing.T) {
	s := sprite{y: 10, endY: 20}
	if !s.intersectsBatch(5, 15) {
		t.Fatal("expected overlap")
	}
	if s.intersectsBatch(21, 30) {
		t.Fatal("expected no overlap below the sprite")
	}
}

func TestSprite_IntersectsBatch_Wraparound(t *testing.T) {
	s := sprite{y: 250, endY: 270} // wraps past row 256
	if !s.intersectsBatch(0, 5) {
		t.Fatal("expected wraparound overlap at top of screen")
	}
	if !s.intersectsBatch(252, 255) {
		t.Fatal("expected overlap near the bottom of screen")
	}
	if s.intersectsBatch(20, 30) {
		t.Fatal("expected no overlap in the middle of the screen")
	}
}
