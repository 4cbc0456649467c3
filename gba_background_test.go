package gba

import "testing"

func TestBackground_WriteBGCNT_Decode(t *testing.T) {
	var b background
	// priority=2, charBase block 1, mosaic, 8bpp, screenBase block 3, wrap, size 2
	value := uint16(2) | (1 << 2) | (1 << 6) | (1 << 7) | (3 << 8) | (1 << 13) | (2 << 14)
	b.writeBGCNT(value)

	if b.priority != 2 {
		t.Errorf("priority = %d, want 2", b.priority)
	}
	if b.charBase != 1<<14 {
		t.Errorf("charBase = %#x, want %#x", b.charBase, 1<<14)
	}
	if !b.mosaic {
		t.Error("mosaic should be set")
	}
	if !b.depth8bpp {
		t.Error("depth8bpp should be set")
	}
	if b.screenBase != 3<<11 {
		t.Errorf("screenBase = %#x, want %#x", b.screenBase, 3<<11)
	}
	if b.overflow != overflowWrap {
		t.Error("overflow should be wrap")
	}
	if b.sizeCode != 2 {
		t.Errorf("sizeCode = %d, want 2", b.sizeCode)
	}
}

func TestBackground_TileMapDims(t *testing.T) {
	cases := []struct {
		size    int
		w, h    int
	}{
		{0, 256, 256},
		{1, 512, 256},
		{2, 256, 512},
		{3, 512, 512},
	}
	for _, c := range cases {
		b := background{sizeCode: c.size}
		w, h := b.tileMapDims()
		if w != c.w || h != c.h {
			t.Errorf("size %d: dims = (%d,%d), want (%d,%d)", c.size, w, h, c.w, c.h)
		}
	}
}

func TestBackground_EnableLatch(t *testing.T) {
	var b background
	if b.layerEnabled(false) {
		t.Fatal("a freshly zeroed background should not be enabled")
	}
	b.setEnableBit(true)
	if !b.layerEnabled(false) {
		t.Fatal("setEnableBit(true) should latch fully enabled immediately")
	}
	if b.layerEnabled(true) {
		t.Fatal("a host disable override should suppress layerEnabled")
	}
	b.setEnableBit(false)
	if b.layerEnabled(false) {
		t.Fatal("setEnableBit(false) should drop the latch immediately")
	}
}

func TestBackground_Reset(t *testing.T) {
	b := background{priority: 3, x: 10, enableLatch: enableLatchFull}
	b.reset()
	if b.priority != 0 || b.x != 0 || b.enableLatch != 0 {
		t.Fatal("reset should restore the zero value")
	}
}
