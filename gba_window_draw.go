// gba_window_draw.go - Window mask render for one deferred batch (spec.md §4.4, §4.7)
//
// Grounded on video_compositor.go's layered-enable-mask composition,
// applied to win0 > win1 > obj-window > outside instead of chip
// z-order; gl.c folds all three window sources into one greyscale
// mask texture that finalize samples per layer, which is the shape
// kept here.

package gba

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// windowHistoryUniform flattens one window's per-row bounds history
// into the vec4-per-row layout the shader expects.
func windowHistoryUniform(win *windowN) []float32 {
	out := make([]float32, ScreenHeight*4)
	for y := 0; y < ScreenHeight; y++ {
		h := win.history[y]
		out[y*4] = float32(h[0])
		out[y*4+1] = float32(h[1])
		out[y*4+2] = float32(h[2])
		out[y*4+3] = float32(h[3])
	}
	return out
}

// drawWindowMask renders the composited window region mask for
// [firstY, lastY] (spec.md §4.7): every pixel gets the raw 6-bit
// WININ/WINOUT enable mask of whichever window region it falls in,
// consumed per-layer by kageSelectFragment and, for the colour-effect
// bit, by kageStampEffectFragment. When WIN0, WIN1 and the OBJ window
// are all disabled, the window function is bypassed entirely on real
// hardware, so every pixel gets the all-bits-enabled mask (0x3F)
// instead of running the classification shader at all.
func (r *Renderer) drawWindowMask(firstY, lastY int) {
	scale := r.cfg.Scale
	rect := image.Rect(0, firstY*scale, r.gpu.w, (lastY+1)*scale)

	if !r.win0Enabled && !r.win1Enabled && !r.objWinEnabled {
		r.gpu.windowMask.SubImage(rect).(*ebiten.Image).Fill(color.RGBA{R: 0x3F, A: 255})
		return
	}

	flags := 0
	if r.win0Enabled {
		flags |= 1
	}
	if r.win1Enabled {
		flags |= 2
	}
	if r.objWinEnabled {
		flags |= 4
	}

	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = r.gpu.objWindow
	loc := batchLocUniforms(firstY, lastY)
	loc["DispcntWindows"] = flags
	loc["Win0Mask"] = float32(r.window.win[0].enableMask)
	loc["Win1Mask"] = float32(r.window.win[1].enableMask)
	loc["OutsideMask"] = float32(r.window.outside)
	loc["ObjWinMask"] = float32(r.window.objWindow)
	loc["Win0History"] = windowHistoryUniform(&r.window.win[0])
	loc["Win1History"] = windowHistoryUniform(&r.window.win[1])

	w, h := float32(r.gpu.w), float32(r.gpu.h)
	r.gpu.windowMask.DrawRectShader(int(w), int(h), r.gpu.shaderWindow, toDrawRectShaderOptions(op, loc))
}
