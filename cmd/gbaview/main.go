// Command gbaview is the renderer's runnable exerciser (SPEC_FULL.md
// §14): it feeds a canned register/VRAM/OAM script into a Renderer and
// displays GetPixels() output in an ebiten.Game window, generalising
// the teacher's EbitenOutput (Start/UpdateFrame/SetDisplayConfig) to a
// read-only display of the renderer's output texture.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	gba "github.com/intuitionamiga/gba-ppu"
)

const (
	regDISPCNT = 0x00
	regBG0CNT  = 0x08
)

// loadScene writes one canned frame into the renderer's VRAM/OAM/
// palette mirrors: a single 4bpp tile of solid colour, tiled across
// BG0's whole 256x256 map, enabled in tile mode 0.
func loadScene(r *gba.Renderer) {
	vram := r.VRAM()

	// Tile 0 at char base 0: 8x8 pixels, 4bpp, every texel = palette index 1.
	for i := 0; i < 32; i++ {
		vram[i] = 0x11
	}
	r.WriteVRAM(0)

	// Screen block 2 (byte offset 0x1000): 32x32 map entries, all tile 0.
	const screenBase = 0x1000
	for i := 0; i < 32*32; i++ {
		off := screenBase + i*2
		vram[off] = 0
		vram[off+1] = 0
	}
	r.WriteVRAM(screenBase)

	r.WritePalette(2, 0x7FFF) // BG palette 0, index 1 -> white

	r.WriteVideoRegister(regBG0CNT, 0x0200)  // screen base block 2, 4bpp, priority 0
	r.WriteVideoRegister(regDISPCNT, 0x0100) // mode 0, BG0 enabled
}

type game struct {
	r      *gba.Renderer
	out    *ebiten.Image
	seeded bool
	scale  int
}

func (g *game) Update() error {
	if !g.seeded {
		loadScene(g.r)
		g.seeded = true
	}
	for y := 0; y < gba.ScreenHeight; y++ {
		g.r.DrawScanline(y)
	}
	g.r.FinishFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	stride, pixels := g.r.GetPixels()
	if g.out == nil {
		g.out = ebiten.NewImage(stride/4, len(pixels)/stride)
	}
	g.out.WritePixels(pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.out, op)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("gbaview - frame %dx%d", gba.ScreenWidth, gba.ScreenHeight))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return gba.ScreenWidth * g.scale, gba.ScreenHeight * g.scale
}

func main() {
	scale := 3
	r := &gba.Renderer{}
	if err := r.Init(gba.RendererConfig{Scale: scale}); err != nil {
		fmt.Fprintf(os.Stderr, "gbaview: %v\n", err)
		os.Exit(1)
	}
	defer r.Deinit()

	g := &game{r: r, scale: scale}

	ebiten.SetWindowSize(gba.ScreenWidth*scale, gba.ScreenHeight*scale)
	ebiten.SetWindowTitle("gbaview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
