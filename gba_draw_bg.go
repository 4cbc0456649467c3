// gba_draw_bg.go - Background draw dispatch for one deferred batch (spec.md §4.4, §4.5)
//
// Grounded on gl.c's _drawScanlines background loop: one full-target
// draw call per background, restricted to the batch's scanline range
// via the shared vertex shader's Loc/MaxPos uniforms (spec.md §4.4),
// selecting the mode0/affine/bitmap program per background per the
// current DISPCNT mode.

package gba

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// packFlagsColor encodes one layer's per-pixel blend-participation
// flags into a colour so a Fill call can populate an entire flags
// target in one draw: R marks BLDCNT target1 membership (or an OBJ
// semi-transparent override forcing it), G marks target2 membership,
// B marks an OBJ semi-transparent sprite specifically (the bit
// kageFinalizeFragment uses to force alpha-blend even when the
// sprite itself isn't a nominal BLDCNT target1 member), A is left at 0
// here and stamped with the per-pixel window colour-effect-enable bit
// later, once folding finishes, by kageStampEffectFragment - only the
// folded top-layer accumulator ever carries a meaningful A. Dedicating
// one full channel per flag
// avoids the bit-packed-then-renormalised float arithmetic a shared
// integer channel would need (Kage samples texels back as 0..1
// floats, not raw bytes).
func packFlagsColor(target1, target2, semiTransparent bool) color.RGBA {
	c := color.RGBA{A: 0}
	if target1 || semiTransparent {
		c.R = 255
	}
	if target2 {
		c.G = 255
	}
	if semiTransparent {
		c.B = 255
	}
	return c
}

// channel5to8 expands a 5-bit GBA colour channel to 8 bits as c<<3,
// so 0x1F (max) maps to 0xF8 (248) and 0x00 maps to 0x00: palette
// 0x7FFF expands to (248,248,248,255).
func channel5to8(c uint16) uint8 {
	c5 := uint8(c & 0x1F)
	return c5 << 3
}

// bgr555ToRGBA expands one GBA15 BGR555 palette entry to an opaque
// RGBA8 colour (spec.md §8 Scenario A).
func bgr555ToRGBA(entry uint16) color.RGBA {
	return color.RGBA{
		R: channel5to8(entry),
		G: channel5to8(entry >> 5),
		B: channel5to8(entry >> 10),
		A: 255,
	}
}

// paletteUniform flattens the 256-entry BG or OBJ palette half into a
// flat float32 RGBA slice for shader upload, decoding each GBA15
// BGR555 entry via the same c<<3 channel expansion as
// bgr555ToRGBA so every fragment shader can index Palette directly by
// 8-bit index, matching gl.c's paletteRamp texture.
func paletteUniform(bank []uint16) []float32 {
	out := make([]float32, len(bank)*4)
	for i, entry := range bank {
		c := bgr555ToRGBA(entry)
		out[i*4] = float32(c.R) / 255
		out[i*4+1] = float32(c.G) / 255
		out[i*4+2] = float32(c.B) / 255
		out[i*4+3] = 1
	}
	return out
}

// batchLocUniforms returns the Loc/MaxPos uniform pair shared by every
// program's vertex stage, restricting the draw to [firstY, lastY].
func batchLocUniforms(firstY, lastY int) map[string]any {
	return map[string]any{
		"Loc":   []float32{float32(lastY - firstY + 1), float32(firstY)},
		"MaxPos": []float32{float32(ScreenWidth), float32(ScreenHeight)},
	}
}

// drawBG0123 draws every enabled background for the batch [firstY,
// lastY] at the current DISPCNT mode into its own colour/flags
// target pair (spec.md §4.5). Disabled or host-hidden layers are
// skipped entirely - their target keeps whatever the last frame left
// there, which finalize ignores because the layer is absent from its
// priority scan.
func (r *Renderer) drawBG0123(firstY, lastY int) {
	mode := r.currentMode()
	w, h := float32(r.gpu.w), float32(r.gpu.h)

	for i := 0; i < numBG; i++ {
		bg := &r.bg[i]
		if !bg.layerEnabled(r.cfg.DisableBG[i]) {
			continue
		}
		if !backgroundActiveInMode(mode, i) {
			continue
		}

		op := &ebiten.DrawRectShaderOptions{}
		op.Images[0] = r.gpu.vramStaging
		loc := batchLocUniforms(firstY, lastY)

		var shader *ebiten.Shader
		switch {
		case mode == 0, mode == 1 && i < 2:
			shader = r.gpu.shaderMode0
			loc["ScreenBase"] = bg.screenBase
			loc["CharBase"] = bg.charBase
			loc["Size"] = bg.sizeCode
			loc["Depth8bpp"] = boolToInt(bg.depth8bpp)
			loc["Offset"] = bgOffsetUniform(bg, firstY, lastY)
			loc["Mosaic"] = mosaicUniform(r.window.mosaic, false)
			loc["Palette"] = paletteUniform(r.shadowPalette[:256])
		case mode <= 2:
			shader = r.gpu.shaderAffine
			loc["ScreenBase"] = bg.screenBase
			loc["CharBase"] = bg.charBase
			loc["Size"] = bg.sizeCode
			loc["Range"] = []float32{float32(r.firstAffine), float32(firstY)}
			loc["Transform"] = bgAffineUniform(bg)
			loc["Mosaic"] = mosaicUniform(r.window.mosaic, false)
			loc["Palette"] = paletteUniform(r.shadowPalette[:256])
			loc["Overflow"] = int(bg.overflow)
		default: // 3, 4, 5 - bitmap modes, BG2 only
			shader = r.gpu.shaderBitmap
			bw, bh := bitmapDims(mode)
			loc["CharBase"] = bg.charBase
			loc["BitmapSize"] = []float32{bw, bh}
			loc["Indexed"] = boolToInt(mode == 4)
			loc["Range"] = []float32{float32(r.firstAffine), float32(firstY)}
			loc["Transform"] = bgAffineUniform(bg)
			loc["Palette"] = paletteUniform(r.shadowPalette[:256])
		}

		r.gpu.bgColor[i].DrawRectShader(int(w), int(h), shader, toDrawRectShaderOptions(op, loc))

		// The flags target only needs to carry this layer's constant
		// blend-target bits; it is a solid fill over just this
		// batch's row band rather than a second shader pass, since those
		// values do not vary per pixel within one background. finalize
		// reads it only where the colour target's alpha says this layer
		// actually drew a pixel.
		fillRowBand(r.gpu.bgFlags[i], r.gpu.w, firstY, lastY, r.cfg.Scale, packFlagsColor(bg.target1, bg.target2, false))
	}
}

// fillRowBand fills the scaled [firstY, lastY] scanline band of a
// full-screen target with a solid colour, leaving every other row of
// the target untouched - used for flags targets whose value only
// needs to be current for the batch that just drew into the matching
// colour target.
func fillRowBand(img *ebiten.Image, width, firstY, lastY, scale int, c color.RGBA) {
	rect := image.Rect(0, firstY*scale, width, (lastY+1)*scale)
	img.SubImage(rect).(*ebiten.Image).Fill(c)
}

// backgroundActiveInMode reports whether background i is part of the
// current DISPCNT mode's layer set, independent of its own enable bit
// (spec.md §4.5): mode 0 uses all four, mode 1 uses BG0/BG1 tiled and
// BG2 affine, mode 2 uses BG2/BG3 affine, modes 3-5 use BG2 only.
func backgroundActiveInMode(mode, i int) bool {
	switch mode {
	case 0:
		return true
	case 1:
		return i < 3
	case 2:
		return i >= 2
	default:
		return i == 2
	}
}

func bitmapDims(mode int) (w, h float32) {
	if mode == 5 {
		return 160, 128
	}
	return 240, 160
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func mosaicUniform(mosaicReg uint16, obj bool) []float32 {
	var hSize, vSize int
	if obj {
		hSize = int((mosaicReg >> 8) & 0xF)
		vSize = int((mosaicReg >> 12) & 0xF)
	} else {
		hSize = int(mosaicReg & 0xF)
		vSize = int((mosaicReg >> 4) & 0xF)
	}
	return []float32{float32(hSize + 1), float32(vSize + 1)}
}

// bgOffsetUniform captures the per-row scroll history for a tiled
// background over the full screen height (the shader indexes by
// absolute row, spec.md §4.5).
func bgOffsetUniform(bg *background, firstY, lastY int) []float32 {
	out := make([]float32, ScreenHeight*2)
	for y := 0; y < ScreenHeight; y++ {
		packed := bg.scanlineOffset[y]
		out[y*2] = float32(packed & 0x1FF)
		out[y*2+1] = float32((packed >> 12) & 0x1FF)
	}
	return out
}

// bgAffineUniform captures the per-row affine matrix/reference
// history for BG2/BG3 (dx, dy packed xy; sx, sy packed zw per row),
// consumed by the shader's Bézier interpolation (spec.md §4.5).
func bgAffineUniform(bg *background) []float32 {
	out := make([]float32, ScreenHeight*4)
	for y := 0; y < ScreenHeight; y++ {
		row := bg.scanlineAffine[y]
		dx := float32(int16(row[0])) / 256
		dy := float32(int16(row[1])) / 256
		sx := float32(row[2]) / 256
		sy := float32(row[3]) / 256
		out[y*4] = dx
		out[y*4+1] = dy
		out[y*4+2] = sx
		out[y*4+3] = sy
	}
	return out
}

// toDrawRectShaderOptions attaches a uniform map to a
// DrawRectShaderOptions value. Kept as a small named step (rather than
// setting op.Uniforms directly at each call site) so every draw call
// goes through one place that could later merge in common uniforms
// (GeoM, blend mode) without touching every caller.
func toDrawRectShaderOptions(op *ebiten.DrawRectShaderOptions, uniforms map[string]any) *ebiten.DrawRectShaderOptions {
	op.Uniforms = uniforms
	return op
}
