// gba_background.go - Background (BG0..BG3) state and per-scanline history
//
// Grounded on video_antic.go's per-register decoded state (dmactl,
// chactl, hscrol/vscrol, pmbase/chbase) generalised to BGxCNT's wider
// field set, and on gl.c's GBAVideoGLBackground layout.

package gba

// overflow policy for affine backgrounds (BGxCNT bit 13).
type bgOverflow int

const (
	overflowTransparent bgOverflow = iota
	overflowWrap
)

// background holds one of the four BG layers' derived attributes plus
// its per-scanline captured history (spec.md §3). Backgrounds hold no
// pointer back to the Renderer (spec.md §9 "no cyclic ownership") -
// the Renderer indexes bg[0..3] itself.
type background struct {
	// Derived from BGxCNT
	priority   int
	charBase   int // byte offset into VRAM
	screenBase int // byte offset into VRAM
	mosaic     bool
	depth8bpp  bool
	sizeCode   int // 2 bits, meaning is mode-dependent
	overflow   bgOverflow

	// Derived from BLDCNT
	target1 bool
	target2 bool

	// Scroll (BGnHOFS/BGnVOFS), bypasses the dirty bitmap (spec.md §4.1)
	x, y uint16

	// Affine reference point and matrix (BG2/BG3 only)
	refx, refy affineRef
	affine     affineMatrix

	// Layer-enable latch (spec.md §4.2): 0 disabled, transient
	// intermediate values while ramping, enableLatchFull once settled.
	enableLatch int

	// Per-scanline captured history, sized to screen height.
	scanlineOffset [ScreenHeight]uint32   // x | (y << 12)
	scanlineAffine [ScreenHeight][4]int32 // dx, dy, sx, sy
}

const enableLatchFull = 4

// layerEnabled implements spec.md §4.2's test: the latch must be fully
// settled and the per-frontend disable override must be false.
func (b *background) layerEnabled(disabledByHost bool) bool {
	return b.enableLatch == enableLatchFull && !disabledByHost
}

// setEnableBit models the hardware's multi-scanline enable delay as a
// small latch. The Open Questions note (spec.md §16(i)) records that
// the real PPU ramps this over several scanlines; the shipped
// behaviour - and the one implemented here - latches immediately to
// "enabled" and drops immediately to "disabled".
//
//	// delayed-latch alternative (not used): each DrawScanline call
//	// would increment the latch by one towards enableLatchFull instead
//	// of jumping straight there, gated on DISPCNT mode > 2.
func (b *background) setEnableBit(enabled bool) {
	if enabled {
		b.enableLatch = enableLatchFull
	} else {
		b.enableLatch = 0
	}
}

// writeBGCNT decodes a masked BGxCNT value into derived attributes
// (spec.md §4.1).
func (b *background) writeBGCNT(value uint16) {
	b.priority = int(value & 0x3)
	b.charBase = int((value>>2)&0x3) << 14
	b.mosaic = value&(1<<6) != 0
	b.depth8bpp = value&(1<<7) != 0
	b.screenBase = int((value>>8)&0x1F) << 11
	if value&(1<<13) != 0 {
		b.overflow = overflowWrap
	} else {
		b.overflow = overflowTransparent
	}
	b.sizeCode = int((value >> 14) & 0x3)
}

// tileMapDims returns the background's size in pixels for tiled modes
// (0/1/2), per the size-code table in spec.md §4.5.
func (b *background) tileMapDims() (w, h int) {
	switch b.sizeCode {
	case 0:
		return 256, 256
	case 1:
		return 512, 256
	case 2:
		return 256, 512
	case 3:
		return 512, 512
	}
	return 256, 256
}

// reset restores display-blank defaults.
func (b *background) reset() {
	*b = background{}
}
