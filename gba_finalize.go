// gba_finalize.go - Finalize/blend: the once-per-frame composition pass (spec.md §4.8)
//
// Grounded on gl.c's _finalize: one full-screen shader invocation
// that picks the two topmost layers by priority at each pixel and
// applies the active blend effect between them. gl.c does this with a
// single GLSL pass that samples all five layer attachments at once;
// Kage/ebiten caps a single DrawRectShader call at four image inputs
// and one output, so the equivalent here is an incremental fold:
// kageSelectFragment is invoked once per candidate layer (back to
// front, per sortedLayers' priority order) to build up the true
// top-most and second-from-top visible colour+flags at every pixel,
// each double-buffered since a draw call cannot read and write the
// same image. kageStampEffectFragment then stamps the window's
// colour-effect-enable bit into the folded top flags, and
// kageFinalizeFragment runs the real blend math against genuine
// per-pixel top/second state instead of a CPU pre-flatten.

package gba

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// layerRef names one of the five compositable sources for folding, in
// the priority order kageSelectFragment consumes them (spec.md §4.8):
// backdrop is seeded directly, outside this list, since it has no
// WININ/WINOUT bit and can never be window-masked.
type layerRef struct {
	color    *ebiten.Image
	flags    *ebiten.Image
	priority int
	isBG     bool
	index    int // BG index, meaningful only when isBG
}

// layerBit returns the WININ/WINOUT enable bit that gates this layer
// (spec.md §4.7): bit0..3 for BG0..3, bit4 for OBJ.
func (l layerRef) layerBit() int {
	if l.isBG {
		return 1 << uint(l.index)
	}
	return 1 << 4
}

// finalize composes every layer target into the output framebuffer
// once per frame (spec.md §4.8). Forced blank shortcuts straight to a
// solid white frame, matching gl.c's "blank screen" fast path.
func (r *Renderer) finalize() {
	if r.forcedBlank {
		r.gpu.output.Fill(color.White)
		return
	}

	layers := r.sortedLayers()
	r.foldLayers(layers)
	r.composite()
}

// foldLayers seeds the top/second accumulators from the backdrop (the
// one compositable source with no window gate) and then runs
// kageSelectFragment once per layer, back to front, swapping which
// half of each double-buffered accumulator is "current" after every
// layer (spec.md §4.8, §4.7).
func (r *Renderer) foldLayers(layers []layerRef) {
	r.gpu.topColor[0].Clear()
	r.gpu.topColor[0].DrawImage(r.gpu.backdropColor, &ebiten.DrawImageOptions{})
	r.gpu.topFlags[0].Clear()
	r.gpu.topFlags[0].DrawImage(r.gpu.backdropFlags, &ebiten.DrawImageOptions{})
	r.gpu.secondColor[0].Clear()
	r.gpu.secondColor[0].DrawImage(r.gpu.backdropColor, &ebiten.DrawImageOptions{})
	r.gpu.secondFlags[0].Clear()
	r.gpu.secondFlags[0].DrawImage(r.gpu.backdropFlags, &ebiten.DrawImageOptions{})

	cur := 0
	w, h := float32(r.gpu.w), float32(r.gpu.h)
	full := batchLocUniforms(0, ScreenHeight-1)

	for _, l := range layers {
		other := 1 - cur
		bit := l.layerBit()

		// A layer demotes the old top into second exactly where it
		// wins the top slot, and leaves second alone everywhere else -
		// both reads are against the pre-update "cur" buffers, so
		// order versus the top update below does not matter.
		r.selectInto(r.gpu.secondColor[other], l.color, r.gpu.topColor[cur], r.gpu.secondColor[cur], bit, w, h, full)
		r.selectInto(r.gpu.secondFlags[other], l.color, r.gpu.topFlags[cur], r.gpu.secondFlags[cur], bit, w, h, full)

		r.selectInto(r.gpu.topColor[other], l.color, l.color, r.gpu.topColor[cur], bit, w, h, full)
		r.selectInto(r.gpu.topFlags[other], l.color, l.flags, r.gpu.topFlags[cur], bit, w, h, full)

		cur = other
	}

	r.curFold = cur
}

// selectInto runs one kageSelectFragment pass into dst: replacement
// wherever layer is opaque (alpha>0.5) and visible under this layer's
// WININ/WINOUT bit, keep everywhere else.
func (r *Renderer) selectInto(dst, layer, replacement, keep *ebiten.Image, bit int, w, h float32, loc map[string]any) {
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = layer
	op.Images[1] = r.gpu.windowMask
	op.Images[2] = replacement
	op.Images[3] = keep
	u := cloneUniforms(loc)
	u["LayerBit"] = bit
	dst.DrawRectShader(int(w), int(h), r.gpu.shaderSelect, toDrawRectShaderOptions(op, u))
}

// sortedLayers returns every enabled BG and the OBJ layer in
// back-to-front priority order (highest numeric priority first, so it
// is drawn first and overdrawn by lower-priority-number layers),
// mirroring spec.md §4.8's "a lower priority value wins; ties go to
// BG over OBJ, then lowest index/lowest OAM slot".
func (r *Renderer) sortedLayers() []layerRef {
	mode := r.currentMode()
	out := make([]layerRef, 0, numBG+1)

	for i := 0; i < numBG; i++ {
		bg := &r.bg[i]
		if !bg.layerEnabled(r.cfg.DisableBG[i]) || !backgroundActiveInMode(mode, i) {
			continue
		}
		out = append(out, layerRef{color: r.gpu.bgColor[i], flags: r.gpu.bgFlags[i], priority: bg.priority, isBG: true, index: i})
	}
	if r.objEnabled && !r.cfg.DisableOBJ {
		out = append(out, layerRef{color: r.gpu.objColor, flags: r.gpu.objFlags, priority: 4, isBG: false})
	}

	// insertion sort: back-to-front means highest priority number
	// first; equal priorities are moved ahead of each other, which
	// reverses the ascending index order they were appended in, so the
	// lowest index among them is folded in last and ends up on top.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].priority >= out[j-1].priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// composite stamps the window's colour-effect-enable bit into the
// folded top flags and runs the real blend math (spec.md §4.8's
// brighten/darken/alpha-blend) against the genuine per-pixel top and
// second-from-top colour+flags foldLayers built, writing the result
// into output.
func (r *Renderer) composite() {
	w, h := float32(r.gpu.w), float32(r.gpu.h)
	cur, other := r.curFold, 1-r.curFold

	stampOp := &ebiten.DrawRectShaderOptions{}
	stampOp.Images[0] = r.gpu.windowMask
	stampOp.Images[1] = r.gpu.topFlags[cur]
	full := batchLocUniforms(0, ScreenHeight-1)
	r.gpu.topFlags[other].DrawRectShader(int(w), int(h), r.gpu.shaderStampEffect, toDrawRectShaderOptions(stampOp, cloneUniforms(full)))

	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = r.gpu.topColor[cur]
	op.Images[1] = r.gpu.secondColor[cur]
	op.Images[2] = r.gpu.topFlags[other]
	op.Images[3] = r.gpu.secondFlags[cur]
	loc := cloneUniforms(full)
	loc["ForcedBlank"] = 0
	loc["Effect"] = int(r.blendEffect)
	loc["BldA"] = float32(r.blda) / 16
	loc["BldB"] = float32(r.bldb) / 16
	loc["BldY"] = float32(r.bldy) / 16

	r.gpu.output.Clear()
	r.gpu.output.DrawRectShader(int(w), int(h), r.gpu.shaderFinalize, toDrawRectShaderOptions(op, loc))
}

// cloneUniforms copies a uniform map so a shared base (e.g. the
// full-frame Loc/MaxPos pair) can be reused across several draw calls
// without one call's additions leaking into another's.
func cloneUniforms(src map[string]any) map[string]any {
	out := make(map[string]any, len(src)+4)
	for k, v := range src {
		out[k] = v
	}
	return out
}
