// gba_renderer.go - Renderer: the process-wide PPU engine instance (spec.md §3)
//
// Lifecycle grounded on video_chip.go's NewVideoChip/Start/Stop
// constructor idiom and component_reset.go's per-component Reset()
// convention.

package gba

import (
	"fmt"
	"log"
	"sync"
)

// blendEffect is the two-bit BLDCNT effect selector.
type blendEffect int

const (
	blendNone blendEffect = iota
	blendAlpha
	blendBrighten
	blendDarken
)

// Renderer is the process-wide PPU engine instance (spec.md §3). It
// owns the shadow register table, palette/VRAM/OAM mirrors, the four
// backgrounds, the sprite list, window state, and every GPU resource.
// No two Renderer methods may execute concurrently on the same
// instance (spec.md §5) - the only lock the renderer takes is mu,
// held by GetPixels around its readback; the host is responsible for
// single-threaded use from the emulator thread.
type Renderer struct {
	cfg RendererConfig

	shadowRegs [numRegSlots]uint16
	dirty      dirtyTracker

	dispcnt uint16

	bg         [numBG]background
	forcedBlank bool
	objEnabled  bool
	win0Enabled bool
	win1Enabled bool
	objWinEnabled bool

	bldcnt     uint16
	blendEffect blendEffect
	blendTarget1 [numBG + 1]bool // BG0..3, OBJ
	blendTarget2 [numBG + 1]bool
	target1Bd, target2Bd bool // backdrop participates in target1/target2
	blda, bldb uint8           // BLDALPHA coefficients, saturated at 0x10
	bldy       uint8           // BLDY brighten/darken coefficient, saturated at 0x10

	window windowState

	palette        [paletteSize]uint16 // shadow, updated on every WritePalette
	shadowPalette  [paletteSize]uint16 // CPU mirror snapshot, updated from palette when paletteDirty flushes
	vram           [vramSize]byte
	oamAttr0       [numOBJ]uint16
	oamAttr1       [numOBJ]uint16
	oamAttr2       [numOBJ]uint16
	oamMatrices    [numMatrix]objAffineMatrix
	sprites        [numOBJ]sprite
	oamMax         int

	firstY       int // -1 when idle
	firstAffine  int // -1 when no affine scanline captured this frame

	curFold int // which half of gpu's double-buffered fold accumulators finalize last wrote

	gpu *gpuResources

	lastLoggedFrame uint64
	frameIndex      uint64

	mu sync.Mutex // held by GetPixels around readback; Init and Deinit do not take it
}

var _ PPUCore = (*Renderer)(nil)

// Init compiles shaders, allocates GPU resources at cfg.Scale, and
// resets to display-blank defaults. Shader compile or resource
// allocation failure is fatal (spec.md §7) - logged and returned so
// the host can discard the instance.
func (r *Renderer) Init(cfg RendererConfig) error {
	cfg.Scale = ClampScale(cfg.Scale)
	r.cfg = cfg

	gpu, err := newGPUResources(cfg.Scale)
	if err != nil {
		log.Printf("ppu: fatal: %v", err)
		return &RendererError{Operation: "init", Details: "GPU resource allocation", Err: err}
	}
	r.gpu = gpu

	r.Reset()
	return nil
}

// Reset restores display-blank defaults (spec.md §3 lifetime):
// DISPCNT resets to 0x0080 - forced blank on - matching gl.c's
// GBAVideoGLRendererReset and spec.md's "reset restores display-blank
// defaults", not an all-zero register.
func (r *Renderer) Reset() {
	r.shadowRegs = [numRegSlots]uint16{}
	r.dirty.reset()
	r.dispcnt = 0x0080
	r.forcedBlank = true
	for i := range r.bg {
		r.bg[i].reset()
	}
	r.objEnabled = false
	r.win0Enabled = false
	r.win1Enabled = false
	r.objWinEnabled = false
	r.bldcnt = 0
	r.blendEffect = blendNone
	r.blendTarget1 = [numBG + 1]bool{}
	r.blendTarget2 = [numBG + 1]bool{}
	r.target1Bd, r.target2Bd = false, false
	r.blda, r.bldb, r.bldy = 0, 0, 0
	r.window.reset()
	r.palette = [paletteSize]uint16{}
	r.shadowPalette = [paletteSize]uint16{}
	r.vram = [vramSize]byte{}
	r.oamAttr0 = [numOBJ]uint16{}
	r.oamAttr1 = [numOBJ]uint16{}
	r.oamAttr2 = [numOBJ]uint16{}
	r.oamMatrices = [numMatrix]objAffineMatrix{}
	r.oamMax = 0
	r.firstY = -1
	r.firstAffine = -1
	if r.gpu != nil {
		r.gpu.reset()
	}
}

// Deinit releases every GPU resource. The renderer instance must be
// discarded afterwards - Init may be called again on a zero Renderer
// but never on one that has been Deinit'd.
func (r *Renderer) Deinit() {
	if r.gpu != nil {
		r.gpu.destroy()
		r.gpu = nil
	}
}

// GetPixels forces GPU completion (the explicit fence named in spec.md
// §5) and returns the finalized framebuffer as RGBA8 rows.
func (r *Renderer) GetPixels() (stride int, pixels []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpu.readOutput()
}

// PutPixels is a no-op in this core (spec.md §6): nothing consumes an
// externally supplied framebuffer in the GBA PPU's data flow.
func (r *Renderer) PutPixels(stride int, pixels []byte) {}

func (r *Renderer) SetBGDisabled(bg int, disabled bool) {
	if bg < 0 || bg >= numBG {
		return
	}
	r.cfg.DisableBG[bg] = disabled
}

func (r *Renderer) SetOBJDisabled(disabled bool) { r.cfg.DisableOBJ = disabled }

func (r *Renderer) SetBGHighlighted(bg int, highlighted bool) {
	if bg < 0 || bg >= numBG {
		return
	}
	r.cfg.HighlightBG[bg] = highlighted
}

func (r *Renderer) SetOBJHighlighted(obj int, highlighted bool) {
	if obj < 0 || obj >= numOBJ {
		return
	}
	r.cfg.HighlightOBJ[obj] = highlighted
}

func (r *Renderer) SetHighlightColor(rgb24 uint32, amount uint8) {
	r.cfg.HighlightColor = rgb24
	r.cfg.HighlightAmount = amount
}

// formatPPUState renders a short snapshot of renderer state, used as
// the stack-trace debugger's register-formatting callback (spec.md
// §4.9: "register formatting is delegated to a polymorphic callback
// installed at construction") since this core has no CPU registers
// of its own.
func formatPPUState(r *Renderer) string {
	return fmt.Sprintf("mode=%d dispcnt=%04X frame=%d", r.currentMode(), r.dispcnt, r.frameIndex)
}
