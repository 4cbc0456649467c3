// gba_resources.go - The GPU resource manager (spec.md §3 "GPU resources", §6)
//
// Grounded on video_backend_ebiten.go's EbitenOutput: an ebiten.Image
// doubles as both texture and render target there (NewEbitenOutput
// allocates one *ebiten.Image per display layer and clears them in
// Start); the same allocate-once-reuse-every-frame idiom is applied
// here to one image per background, the OBJ pass, the window mask,
// the backdrop, and the composited output, plus a staging texture
// that mirrors VRAM so shaders can sample it directly instead of the
// host re-uploading per draw call.

package gba

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// vramStagingWidth/Height describe the staging texture's layout: VRAM
// is 96 KiB, stored as one byte per texel in a 512x192 R8 image
// (512*192 = 98304 = 96*1024), wide enough to hold the largest bitmap
// mode frame (240x160x16bpp = 0x12C00 bytes) without wrapping.
const (
	vramStagingWidth  = 512
	vramStagingHeight = 192
)

// gpuResources owns every GPU-side allocation the renderer touches:
// per-background framebuffers plus their integer-flag companions, the
// object and window-mask framebuffers, the backdrop, the composited
// output, the VRAM staging texture, and the compiled shader set
// (spec.md §3, §9). None of this is safe for concurrent use; the
// Renderer serialises access via its own mutex around GetPixels only,
// matching spec.md §5's "no two Renderer methods run concurrently"
// rule for everything else.
type gpuResources struct {
	scale  int
	w, h   int // ScreenWidth*scale, ScreenHeight*scale

	bgColor [numBG]*ebiten.Image
	bgFlags [numBG]*ebiten.Image

	objColor  *ebiten.Image
	objFlags  *ebiten.Image
	objWindow *ebiten.Image

	windowMask *ebiten.Image

	backdropColor *ebiten.Image
	backdropFlags *ebiten.Image

	// topColor/topFlags and secondColor/secondFlags are the running
	// fold accumulators gba_finalize.go builds up one layer at a time via
	// kageSelectFragment: at any point they hold the true top-most and
	// second-from-top visible layer at every pixel seen so far. Each
	// is double-buffered (A/B) since a Kage draw call cannot read and
	// write the same image - gba_finalize.go swaps which element of the
	// pair is "current" after every layer instead of copying.
	topColor      [2]*ebiten.Image
	topFlags      [2]*ebiten.Image
	secondColor   [2]*ebiten.Image
	secondFlags   [2]*ebiten.Image

	output *ebiten.Image

	vramStaging *ebiten.Image

	shaderMode0       *ebiten.Shader
	shaderAffine      *ebiten.Shader
	shaderBitmap      *ebiten.Shader
	shaderObj         *ebiten.Shader
	shaderWindow      *ebiten.Shader
	shaderSelect      *ebiten.Shader
	shaderStampEffect *ebiten.Shader
	shaderFinalize    *ebiten.Shader

	readback []byte // reused across GetPixels calls to avoid reallocating every frame
}

// newGPUResources allocates every render target at cfg.Scale and
// compiles the shader set (spec.md §6 "Resource Manager": "allocate
// once at Init, reused for the renderer's lifetime"). Any shader
// compile failure aborts the whole allocation - a partially-working
// renderer is worse than a failed Init (spec.md §7).
func newGPUResources(scale int) (*gpuResources, error) {
	g := &gpuResources{
		scale: scale,
		w:     ScreenWidth * scale,
		h:     ScreenHeight * scale,
	}

	for i := 0; i < numBG; i++ {
		g.bgColor[i] = ebiten.NewImage(g.w, g.h)
		g.bgFlags[i] = ebiten.NewImage(g.w, g.h)
	}
	g.objColor = ebiten.NewImage(g.w, g.h)
	g.objFlags = ebiten.NewImage(g.w, g.h)
	g.objWindow = ebiten.NewImage(g.w, g.h)
	g.windowMask = ebiten.NewImage(g.w, g.h)
	g.backdropColor = ebiten.NewImage(g.w, g.h)
	g.backdropFlags = ebiten.NewImage(g.w, g.h)
	for i := 0; i < 2; i++ {
		g.topColor[i] = ebiten.NewImage(g.w, g.h)
		g.topFlags[i] = ebiten.NewImage(g.w, g.h)
		g.secondColor[i] = ebiten.NewImage(g.w, g.h)
		g.secondFlags[i] = ebiten.NewImage(g.w, g.h)
	}
	g.output = ebiten.NewImage(g.w, g.h)
	g.vramStaging = ebiten.NewImage(vramStagingWidth, vramStagingHeight)

	var err error
	if g.shaderMode0, err = ebiten.NewShader([]byte(programSource(kageMode0Fragment))); err != nil {
		return nil, fmt.Errorf("compile mode0 shader: %w", err)
	}
	if g.shaderAffine, err = ebiten.NewShader([]byte(programSource(kageAffineFragment))); err != nil {
		return nil, fmt.Errorf("compile affine shader: %w", err)
	}
	if g.shaderBitmap, err = ebiten.NewShader([]byte(programSource(kageBitmapFragment))); err != nil {
		return nil, fmt.Errorf("compile bitmap shader: %w", err)
	}
	if g.shaderObj, err = ebiten.NewShader([]byte(programSource(kageObjFragment))); err != nil {
		return nil, fmt.Errorf("compile object shader: %w", err)
	}
	if g.shaderWindow, err = ebiten.NewShader([]byte(programSource(kageWindowFragment))); err != nil {
		return nil, fmt.Errorf("compile window shader: %w", err)
	}
	if g.shaderSelect, err = ebiten.NewShader([]byte(programSource(kageSelectFragment))); err != nil {
		return nil, fmt.Errorf("compile select shader: %w", err)
	}
	if g.shaderStampEffect, err = ebiten.NewShader([]byte(programSource(kageStampEffectFragment))); err != nil {
		return nil, fmt.Errorf("compile stamp-effect shader: %w", err)
	}
	if g.shaderFinalize, err = ebiten.NewShader([]byte(programSource(kageFinalizeFragment))); err != nil {
		return nil, fmt.Errorf("compile finalize shader: %w", err)
	}

	g.readback = make([]byte, g.w*g.h*4)
	return g, nil
}

// reset clears every framebuffer to transparent black, matching
// gl.c's Reset, which clears every FBO attachment to zero (spec.md
// §3 lifetime).
func (g *gpuResources) reset() {
	for i := 0; i < numBG; i++ {
		g.bgColor[i].Clear()
		g.bgFlags[i].Clear()
	}
	g.objColor.Clear()
	g.objFlags.Clear()
	g.objWindow.Clear()
	g.windowMask.Clear()
	g.backdropColor.Clear()
	g.backdropFlags.Clear()
	for i := 0; i < 2; i++ {
		g.topColor[i].Clear()
		g.topFlags[i].Clear()
		g.secondColor[i].Clear()
		g.secondFlags[i].Clear()
	}
	g.output.Clear()
	g.vramStaging.Clear()
}

// clearFrame clears the per-frame accumulation targets at the start
// of scanline 0 (spec.md §4.3 step 7): the persistent VRAM staging
// texture is deliberately left untouched.
func (g *gpuResources) clearFrame() {
	for i := 0; i < numBG; i++ {
		g.bgColor[i].Clear()
		g.bgFlags[i].Clear()
	}
	g.objColor.Clear()
	g.objFlags.Clear()
	g.objWindow.Clear()
	g.windowMask.Clear()
	g.backdropColor.Clear()
	g.backdropFlags.Clear()
	g.output.Clear()
}

// destroy releases every GPU allocation (spec.md §3 lifetime: "Deinit
// releases every GPU resource"). Ebiten images have no explicit free;
// dropping the last reference is sufficient, so destroy's job is
// simply to let the garbage collector reclaim them.
func (g *gpuResources) destroy() {
	*g = gpuResources{}
}

// uploadVRAMDirty re-uploads only the dirty 4 KiB pages of the VRAM
// mirror into the staging texture (spec.md §4.3 step 5, §9's "partial
// texture upload" contract). Each page is one vramStagingWidth-wide
// strip; WritePixels on a sub-rectangle is the ebiten equivalent of
// glTexSubImage2D.
func (g *gpuResources) uploadVRAMDirty(vram []byte, dirty *dirtyTracker) {
	const pageBytes = 4096
	const pageRows = pageBytes / vramStagingWidth // 8 rows per page

	for page := 0; page < vramPages; page++ {
		if !dirty.vramPageDirty(page) {
			continue
		}
		start := page * pageBytes
		end := start + pageBytes
		if end > len(vram) {
			end = len(vram)
		}
		if start >= end {
			continue
		}

		rgba := make([]byte, (end-start)*4)
		for i, b := range vram[start:end] {
			rgba[i*4] = b
			rgba[i*4+1] = b
			rgba[i*4+2] = b
			rgba[i*4+3] = 0xFF
		}
		y0 := page * pageRows
		rect := image.Rect(0, y0, vramStagingWidth, y0+pageRows)
		g.vramStaging.SubImage(rect).(*ebiten.Image).WritePixels(rgba)
	}
}

// readOutput forces completion of every pending GPU draw (ReadPixels
// is a synchronous readback, the explicit fence spec.md §5 requires
// before a host may inspect the framebuffer) and returns the result
// as tightly packed RGBA8 rows.
func (g *gpuResources) readOutput() (stride int, pixels []byte) {
	g.output.ReadPixels(g.readback)
	return g.w * 4, g.readback
}
