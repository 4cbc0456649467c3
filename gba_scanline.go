// gba_scanline.go - Per-scanline capture, batching, and the memory ingress
// entry points that only set dirty bits (spec.md §4.1, §4.3)
//
// The three-method shape (start batch / advance one row / flush at
// end) is grounded on video_interface.go's ScanlineAware interface
// (StartFrame/ProcessScanline/FinishFrame), generalised from "run the
// copper program counter" to "accumulate a dirty batch, flush on
// divergence".

package gba

// VRAM accessor methods. The renderer's VRAM mirror is written
// directly by the host (the real hardware backing store is shared,
// not copied - gl.c's GBAVideoGLRendererWriteVRAM only flags dirty,
// it never moves bytes); WriteVRAM is the dirty-bit notification that
// follows a direct mutation through VRAM().
func (r *Renderer) VRAM() []byte { return r.vram[:] }

func (r *Renderer) WriteVRAM(addr uint32) {
	if addr >= vramSize {
		return
	}
	r.dirty.markVRAMPage(int(addr / 4096))
}

// OAM accessors, same shared-backing-store model as VRAM.
func (r *Renderer) OAMAttr0() []uint16 { return r.oamAttr0[:] }
func (r *Renderer) OAMAttr1() []uint16 { return r.oamAttr1[:] }
func (r *Renderer) OAMAttr2() []uint16 { return r.oamAttr2[:] }
func (r *Renderer) OAMMatrices() []objAffineMatrix { return r.oamMatrices[:] }

func (r *Renderer) WriteOAM(addr uint32) {
	r.dirty.oam = true
}

// WritePalette writes straight through to the shadow palette (the
// palette is small enough that the renderer owns the mutation itself,
// unlike VRAM/OAM) and marks paletteDirty.
func (r *Renderer) WritePalette(addr uint32, value uint16) {
	idx := addr >> 1
	if idx >= paletteSize {
		return
	}
	if r.palette[idx] == value {
		return
	}
	r.palette[idx] = value
	r.dirty.palette = true
}

// objTileRegion returns the page range of VRAM holding OBJ tile data,
// which differs between tile modes (0-2) and bitmap modes (3-5).
func objTileRegion(mode int) (first, count int) {
	if mode >= 3 {
		return 0x14000 / 4096, (0x18000 - 0x14000) / 4096
	}
	return 0x10000 / 4096, (0x18000 - 0x10000) / 4096
}

func pageRange(base, size int) (first, count int) {
	first = base / 4096
	count = (size + 4095) / 4096
	if count < 1 {
		count = 1
	}
	return
}

func (r *Renderer) pagesDirty(first, count int) bool {
	for i := first; i < first+count && i < vramPages; i++ {
		if r.dirty.vramPageDirty(i) {
			return true
		}
	}
	return false
}

// needsVRAMUpload implements spec.md §4.3 step 5's mode-dependent
// predicate: whether this scanline's draw depends on any VRAM page
// currently marked dirty.
func (r *Renderer) needsVRAMUpload(mode int) bool {
	if r.dirty.vram == 0 {
		return false
	}
	switch mode {
	case 0:
		for i := 0; i < numBG; i++ {
			bg := &r.bg[i]
			if !bg.layerEnabled(r.cfg.DisableBG[i]) {
				continue
			}
			sf, sc := pageRange(bg.screenBase, 0x2000)
			cf, cc := pageRange(bg.charBase, 0x4000)
			if r.pagesDirty(sf, sc) || r.pagesDirty(cf, cc) {
				return true
			}
		}
	case 1, 2:
		for i := 0; i < 2 && mode == 1; i++ {
			bg := &r.bg[i]
			if !bg.layerEnabled(r.cfg.DisableBG[i]) {
				continue
			}
			sf, sc := pageRange(bg.screenBase, 0x2000)
			cf, cc := pageRange(bg.charBase, 0x4000)
			if r.pagesDirty(sf, sc) || r.pagesDirty(cf, cc) {
				return true
			}
		}
		for i := 2; i < numBG; i++ {
			if mode == 1 && i == 3 {
				continue // mode 1 has only one affine layer, BG2
			}
			bg := &r.bg[i]
			if !bg.layerEnabled(r.cfg.DisableBG[i]) {
				continue
			}
			// affine character mask is wider: 8-bit tile index over 8bpp tiles
			sf, sc := pageRange(bg.screenBase, 0x4000)
			cf, cc := pageRange(bg.charBase, 0x8000)
			if r.pagesDirty(sf, sc) || r.pagesDirty(cf, cc) {
				return true
			}
		}
	case 3:
		f, c := pageRange(0, 240*160*2)
		if r.pagesDirty(f, c) {
			return true
		}
	case 4:
		f, c := pageRange(0, 240*160)
		if r.pagesDirty(f, c) {
			return true
		}
	case 5:
		f, c := pageRange(0, 160*128*2)
		if r.pagesDirty(f, c) {
			return true
		}
	}
	if r.objEnabled && !r.cfg.DisableOBJ {
		f, c := objTileRegion(mode)
		if r.pagesDirty(f, c) {
			return true
		}
	}
	return false
}

// DrawScanline captures one scanline's state and, if necessary,
// flushes the pending batch first (spec.md §4.3).
func (r *Renderer) DrawScanline(y int) {
	if y < 0 || y >= ScreenHeight {
		return
	}

	mode := r.currentMode()
	if mode != 0 {
		if r.firstAffine < 0 {
			r.firstAffine = y
		}
	} else {
		r.firstAffine = -1
	}

	if r.dirty.anyDirty(r.needsVRAMUpload(mode)) {
		if r.firstY >= 0 {
			r.flushBatch(y - 1)
		}
	}
	if r.firstY < 0 {
		r.firstY = y
	}

	r.flushDirtyRegisters()

	for w := 0; w < 2; w++ {
		win := &r.window.win[w]
		win.history[y] = [4]uint8{win.h.start, win.h.end, win.v.start, win.v.end}
	}

	for i := 0; i < numBG; i++ {
		bg := &r.bg[i]
		bg.scanlineOffset[y] = uint32(bg.x) | (uint32(bg.y) << 12)
	}
	for _, i := range [2]int{2, 3} {
		bg := &r.bg[i]
		dx, dy := bg.affine.dx, bg.affine.dy
		bg.scanlineAffine[y] = [4]int32{int32(dx), int32(dy), bg.refx.raw, bg.refy.raw}
	}

	if r.dirty.palette {
		r.shadowPalette = r.palette
		r.dirty.palette = false
	}

	if r.needsVRAMUpload(mode) {
		r.gpu.uploadVRAMDirty(r.vram[:], &r.dirty)
		r.dirty.clearVRAM()
	}

	if r.dirty.oam {
		r.oamMax = cleanOAM(r.oamAttr0, r.oamAttr1, r.oamAttr2, r.sprites[:])
		r.dirty.oam = false
	}

	if y == 0 {
		r.gpu.clearFrame()
	}

	if mode != 0 {
		r.bg[2].refx.advance(r.bg[2].affine.dmx)
		r.bg[2].refy.advance(r.bg[2].affine.dmy)
		r.bg[3].refx.advance(r.bg[3].affine.dmx)
		r.bg[3].refy.advance(r.bg[3].affine.dmy)
	}
}

// flushBatch issues the draw calls for the deferred batch [firstY,
// lastY] and clears firstY (spec.md §4.4).
func (r *Renderer) flushBatch(lastY int) {
	if r.firstY < 0 {
		return
	}
	r.drawBatch(r.firstY, lastY)
	r.firstY = -1
}

// FinishFrame flushes whatever remains and runs the finalize pass.
func (r *Renderer) FinishFrame() {
	if r.firstY >= 0 {
		r.flushBatch(ScreenHeight - 1)
	}
	r.finalize()
	r.firstAffine = -1
	r.firstY = -1
	r.frameIndex++
}
