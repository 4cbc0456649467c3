// gba_draw_obj.go - Object/sprite draw for one deferred batch (spec.md §4.4, §4.6)
//
// Grounded on gl.c's object draw loop: one draw call per visible
// sprite, back-to-front by OAM index (highest index first) so the
// lowest index is drawn last and wins where sprites overlap, the
// hardware's "lowest OAM index wins on a priority tie" tie-break
// (spec.md §4.6 edge case); sprite priorities are not compared here.
// mode==objModeWindow sprites are drawn into objWindow instead of
// objColor and contribute only there.
package gba

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// drawOBJ draws every live sprite intersecting [firstY, lastY] into
// objColor/objFlags, and every OBJ-window sprite into objWindow
// (spec.md §4.6). Sprites are walked from the highest OAM index down,
// so later draws (lower index) land on top, mirroring hardware's
// resolution for same-priority sprites.
func (r *Renderer) drawOBJ(firstY, lastY int) {
	if !r.objEnabled || r.cfg.DisableOBJ {
		return
	}
	mode := r.currentMode()

	for i := r.oamMax - 1; i >= 0; i-- {
		s := &r.sprites[i]
		if !s.intersectsBatch(firstY, lastY) {
			continue
		}
		if s.mode == objModeWindow {
			r.drawOneSprite(s, i, firstY, lastY, mode, true)
			continue
		}
		r.drawOneSprite(s, i, firstY, lastY, mode, false)
	}
}

func (r *Renderer) drawOneSprite(s *sprite, index, firstY, lastY, mode int, windowPass bool) {
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = r.gpu.vramStaging

	loc := batchLocUniforms(firstY, lastY)
	loc["CharBase"] = objTileBase(mode)
	loc["Stride1D"] = boolToInt(objMapping1D(r.dispcnt))
	loc["Depth8bpp"] = boolToInt(s.depth8bpp)
	loc["LocalPalette"] = s.paletteBank
	loc["Mosaic"] = mosaicUniform(r.window.mosaic, true)
	loc["IsObjWindow"] = boolToInt(windowPass)

	pa, pb, pc, pd := float32(1), float32(0), float32(0), float32(1)
	if s.affine && s.matrixIndex < numMatrix {
		pa, pb, pc, pd = r.oamMatrices[s.matrixIndex].float2x2()
	} else {
		if s.hFlip {
			pa = -1
		}
		if s.vFlip {
			pd = -1
		}
	}
	loc["Transform"] = []float32{pa, pb, pc, pd}

	bw, bh := float32(s.w), float32(s.h)
	boxW, boxH := bw, bh
	if s.affine && s.doubleSize {
		boxW, boxH = bw*2, bh*2
	}
	loc["Dims"] = []float32{bw, bh, boxW, boxH}

	// A sprite box overlapping row 256+ wraps to the top of the screen
	// (spec.md §4.6); within this batch it is drawn at its wrapped
	// origin whenever that is what intersectsBatch actually matched.
	originY := s.y
	if s.endY > 256 && lastY < s.y {
		originY = s.y - 256
	}
	loc["Origin"] = []float32{float32(s.x), float32(originY)}

	var palette []uint16
	if s.paletteBank < 16 && !s.depth8bpp {
		base := 256 + s.paletteBank*16
		palette = r.shadowPalette[base : base+16]
	} else {
		palette = r.shadowPalette[256:512]
	}
	loc["Palette"] = paletteUniform(palette)

	target := r.gpu.objColor
	if windowPass {
		target = r.gpu.objWindow
	}
	w, h := float32(r.gpu.w), float32(r.gpu.h)
	target.DrawRectShader(int(w), int(h), r.gpu.shaderObj, toDrawRectShaderOptions(op, loc))

	if !windowPass {
		scale := r.cfg.Scale
		x0 := clampInt(s.x, 0, ScreenWidth) * scale
		y0 := clampInt(originY, 0, ScreenHeight) * scale
		x1 := clampInt(s.x+int(boxW), 0, ScreenWidth) * scale
		y1 := clampInt(originY+int(boxH), 0, ScreenHeight) * scale
		if x1 > x0 && y1 > y0 {
			rect := image.Rect(x0, y0, x1, y1)
			semiTransparent := s.mode == objModeSemiTransparent
			flags := packFlagsColor(r.blendTarget1[numBG], r.blendTarget2[numBG], semiTransparent)
			r.gpu.objFlags.SubImage(rect).(*ebiten.Image).Fill(flags)
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// objTileBase returns the VRAM byte offset where OBJ tile data
// begins: 0x10000 in tile modes (0-2), 0x14000 in bitmap modes (3-5),
// since the bitmap framebuffer itself occupies the first part of
// that range (spec.md §4.6).
func objTileBase(mode int) int {
	if mode >= 3 {
		return 0x14000
	}
	return 0x10000
}

// objMapping1D decodes DISPCNT bit 6 (OBJ character VRAM mapping mode).
func objMapping1D(dispcnt uint16) bool {
	return dispcnt&(1<<6) != 0
}
