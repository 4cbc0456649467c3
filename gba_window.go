// gba_window.go - Window bounds, enable masks, and per-scanline history (spec.md §3, §4.7)
//
// Grounded on video_compositor.go's layered-source-with-enable-flags
// idiom, applied to win0 > win1 > obj-window > outside instead of
// chip > chip z-ordering.

package gba

// winRange is one axis (H or V) of a positional window, clamped to
// [0, screen bound] per spec.md §4.1's ingress rule.
type winRange struct {
	start, end uint8
}

// windowN is one of the two positional windows (WIN0/WIN1).
type windowN struct {
	h, v winRange

	// WININ/WINOUT-derived enable mask: bit0..3 BG0..3, bit4 OBJ, bit5 blend.
	enableMask uint8

	// Per-scanline captured bounds history, sized to screen height.
	history [ScreenHeight][4]uint8 // h.start, h.end, v.start, v.end
}

// windowState owns both positional windows plus the WINOUT-derived
// outside/obj-window enable masks (spec.md §3).
type windowState struct {
	win       [2]windowN
	outside   uint8 // WINOUT low byte: outside-window per-layer enables
	objWindow uint8 // WINOUT high byte: obj-window per-layer enables
	mosaic    uint16
}

// clampAxis reproduces the PPU's "if start > end and start >
// screen, start = 0; end clamped to screen" ingress rule (spec.md
// §4.1), applied identically to both axes with the relevant bound.
func clampAxis(w *winRange, bound uint8) {
	if w.start > bound && w.start > w.end {
		w.start = 0
	}
	if w.end > bound {
		w.end = bound
		if w.start > bound {
			w.start = bound
		}
	}
}

// writeWinH ingests WIN0H/WIN1H: low byte is end, high byte is start.
func (w *windowN) writeWinH(value uint16) {
	w.h.end = uint8(value)
	w.h.start = uint8(value >> 8)
	clampAxis(&w.h, ScreenWidth)
}

// writeWinV ingests WIN0V/WIN1V: low byte is end, high byte is start.
func (w *windowN) writeWinV(value uint16) {
	w.v.end = uint8(value)
	w.v.start = uint8(value >> 8)
	clampAxis(&w.v, ScreenHeight)
}

// writeWININ splits the packed WININ register into per-window enable masks.
func (ws *windowState) writeWININ(value uint16) {
	ws.win[0].enableMask = uint8(value) & 0x3F
	ws.win[1].enableMask = uint8(value>>8) & 0x3F
}

// writeWINOUT splits the packed WINOUT register into outside/obj-window masks.
func (ws *windowState) writeWINOUT(value uint16) {
	ws.outside = uint8(value) & 0x3F
	ws.objWindow = uint8(value>>8) & 0x3F
}

func (ws *windowState) reset() {
	*ws = windowState{}
}
