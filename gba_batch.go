// gba_batch.go - drawBatch: one deferred batch's full draw sequence (spec.md §4.4)
//
// Grounded on gl.c's _drawScanlines: backdrop clear, window mask,
// object pass, background pass, in that fixed order so later passes
// can rely on earlier targets already holding this batch's data.

package gba

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// drawBatch issues every draw call needed to populate the per-layer
// targets for rows [firstY, lastY] (spec.md §4.4). finalize later
// reads these same targets once per frame, not once per batch.
func (r *Renderer) drawBatch(firstY, lastY int) {
	if r.forcedBlank {
		return
	}
	r.drawBackdrop(firstY, lastY)
	r.drawWindowMask(firstY, lastY)
	r.drawOBJ(firstY, lastY)
	r.drawBG0123(firstY, lastY)
}

// drawBackdrop fills the backdrop colour/flags targets for this
// batch's row range with palette index 0 (spec.md §4.8: "the backdrop
// sits at a fixed priority below every other layer"). Restricting the
// fill to the batch's rows, rather than the whole target, is what
// lets the backdrop colour change mid-frame alongside a palette write
// that triggered this very batch flush.
func (r *Renderer) drawBackdrop(firstY, lastY int) {
	c := bgr555ToRGBA(r.shadowPalette[0])

	scale := r.cfg.Scale
	rect := image.Rect(0, firstY*scale, r.gpu.w, (lastY+1)*scale)
	r.gpu.backdropColor.SubImage(rect).(*ebiten.Image).Fill(c)
	r.gpu.backdropFlags.SubImage(rect).(*ebiten.Image).Fill(packFlagsColor(r.target1Bd, r.target2Bd, false))
}
