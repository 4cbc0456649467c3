// gba_dirty.go - Dirty-state tracker (spec.md §3, §4.1)
//
// Grounded on video_chip.go's DirtyRegion/markRegionDirty/
// initialiseDirtyGrid triage: the host video chip tracks modified
// 32x32 pixel regions in a map because its resolution is arbitrary;
// the GBA's register and VRAM space is fixed-size, so the same idea
// is expressed here as fixed-width bitmaps instead, the same way
// voodoo_vulkan.go's PipelineKey is a small fixed-shape comparison
// struct rather than a map.

package gba

const numRegSlots = 0x30 // 48 x 16-bit MMIO words tracked (spec.md §3)

// dirtyTracker owns every "has this changed since last upload" bit
// the renderer needs. A bit is set if and only if the shadow value
// differs from the value last uploaded/flushed to the GPU (spec.md §3
// invariant).
type dirtyTracker struct {
	regs    uint64 // bit i set => shadowRegs[i] not yet applied
	vram    uint32 // bit i set => 4 KiB VRAM page i not yet uploaded
	palette bool
	oam     bool
}

func (d *dirtyTracker) markReg(slot int) {
	d.regs |= 1 << uint(slot)
}

func (d *dirtyTracker) regDirty(slot int) bool {
	return d.regs&(1<<uint(slot)) != 0
}

func (d *dirtyTracker) clearRegs() {
	d.regs = 0
}

func (d *dirtyTracker) markVRAMPage(page int) {
	if page < 0 || page >= vramPages {
		return
	}
	d.vram |= 1 << uint(page)
}

func (d *dirtyTracker) vramPageDirty(page int) bool {
	return d.vram&(1<<uint(page)) != 0
}

func (d *dirtyTracker) clearVRAM() {
	d.vram = 0
}

func (d *dirtyTracker) markAllVRAM() {
	d.vram = (1 << uint(vramPages)) - 1
}

// anyDirty reports whether a deferred batch must be flushed before
// this scanline's state can be applied (spec.md §4.3 step 1).
func (d *dirtyTracker) anyDirty(vramNeeded bool) bool {
	return d.palette || (vramNeeded && d.vram != 0) || d.oam || d.regs != 0
}

// reset restores display-blank defaults: everything considered dirty
// so the first frame always uploads fresh state.
func (d *dirtyTracker) reset() {
	d.regs = (1 << uint(numRegSlots)) - 2 // bit 0 (DISPCNT) excluded, matching the shipped renderer's initial mask
	d.markAllVRAM()
	d.palette = true
	d.oam = true
}
