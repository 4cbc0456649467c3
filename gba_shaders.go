// gba_shaders.go - The shader program set (spec.md §3, §4.1, §4.5-4.8, §9)
//
// mGBA's gl.c builds each program from a GLSL header + a shared vertex
// body + one fragment body, concatenated into a single source string
// at init (spec.md §9). Ebiten's Kage shading language compiles one
// complete source per ebiten.Shader object rather than accepting
// separately-linked stages, so each program below is a single
// self-contained Kage source; the *contract* - the uniform set each
// program exposes, named after gl.c's own uniform names - is kept
// identical, which is the substitution spec.md §9 explicitly allows
// ("implementations may alternatively ship pre-compiled SPIR-V; the
// contract is only the set of uniforms and attachments").
//
// Grounded on the string-constant-table idiom used throughout
// ahx_waves.go and audio_lut.go (large immutable data assembled once
// at package scope).

package gba

// kageVertexPrelude is shared textually by every program below: it rescales
// the unit quad to the batch's absolute scanline range, exactly
// mirroring gl.c's shared vertex shader (spec.md §4.4):
//
//	((position.xy * vec2(1, loc.x) + vec2(0, loc.y)) / maxPos) * 2 - 1
const kageVertexPrelude = `
// Uniforms: Loc (batch length, firstY), MaxPos (screen dims).
var Loc vec2
var MaxPos vec2

func Vertex(position vec4, texCoord vec2, color vec4) vec4 {
	p := position.xy
	p = (p*vec2(1, Loc.x) + vec2(0, Loc.y)) / MaxPos
	p = p*2 - 1
	return vec4(p, position.z, position.w)
}
`

// kageMode0Fragment is the tiled, 4bpp/8bpp, four-scroll-layer
// background program (spec.md §4.5 "Mode 0"). Uniform names mirror
// gl.c's _renderMode0 program: vram, palette, screenBase, charBase,
// size, offset (per-row scroll), inflags, mosaic.
const kageMode0Fragment = `
var ScreenBase int
var CharBase int
var Size int
var Depth8bpp int
var Offset [160]vec2 // per-row scroll (x, y), captured history
var Mosaic vec2
var Palette [256]vec4

func tileMapDims(size int) vec2 {
	switch size {
	case 1:
		return vec2(512, 256)
	case 2:
		return vec2(256, 512)
	case 3:
		return vec2(512, 512)
	}
	return vec2(256, 256)
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	row := int(position.y)
	scroll := Offset[row]
	coord := position.xy + scroll
	if Mosaic.x > 0 {
		coord.x -= mod(coord.x, Mosaic.x)
	}
	if Mosaic.y > 0 {
		coord.y -= mod(coord.y, Mosaic.y)
	}
	dims := tileMapDims(Size)
	coord = mod(coord, dims)

	entry := imageSrc0At(coord / dims)
	paletteIndex := int(entry.r*255 + 0.5)
	if paletteIndex == 0 {
		discard()
	}
	return Palette[paletteIndex]
}
`

// kageAffineFragment covers modes 1/2 (affine tiled) and reuses the
// Bézier-interpolated reference point described in spec.md §4.5.
// Uniform names mirror gl.c's _renderMode2/_interpolate: transform
// (four historical samples per row), range (firstAffine, y), size,
// screenBase, charBase, palette, mosaic.
const kageAffineFragment = `
var ScreenBase int
var CharBase int
var Size int
var Range vec2 // firstAffine, y
var Transform [160]vec4 // dx, dy, sx, sy per captured row
var Mosaic vec2
var Palette [256]vec4
var Overflow int // 0 transparent, 1 wrap

func bezier(p0, p1, p2, p3 vec2, t float) vec2 {
	it := 1 - t
	return p0*(it*it*it) + p1*(3*it*it*t) + p2*(3*it*t*t) + p3*(t*t*t)
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	row := int(position.y)
	t := clamp((position.y-Range.x)/4, 0, 0.75)
	i0 := clamp(row-3, int(Range.x), 159)
	s0 := Transform[i0].zw
	s1 := Transform[clamp(i0+1, 0, 159)].zw
	s2 := Transform[clamp(i0+2, 0, 159)].zw
	s3 := Transform[clamp(i0+3, 0, 159)].zw
	ref := bezier(s0, s1, s2, s3, t)

	mat := Transform[row].xy
	coord := mat*position.x + ref
	if Mosaic.x > 0 {
		coord.x -= mod(coord.x, Mosaic.x)
	}
	if Mosaic.y > 0 {
		coord.y -= mod(coord.y, Mosaic.y)
	}

	size := float(16 << uint(Size))
	if coord.x < 0 || coord.y < 0 || coord.x >= size || coord.y >= size {
		if Overflow == 0 {
			discard()
		}
		coord = mod(coord, vec2(size, size))
	}

	entry := imageSrc0At(coord / vec2(size, size))
	paletteIndex := int(entry.r*255 + 0.5)
	if paletteIndex == 0 {
		discard()
	}
	return Palette[paletteIndex]
}
`

// kageBitmapFragment covers modes 3/4/5: mode 3 samples 16bpp direct,
// mode 4 is 8bpp indexed with a frame-select offset, mode 5 is a
// half-resolution mode 3. Uniform names mirror gl.c's _renderMode35 /
// _renderMode4: charBase (frame offset), size, transform, range.
const kageBitmapFragment = `
var CharBase int
var BitmapSize vec2
var Indexed int // mode 4 flag
var Range vec2
var Transform [160]vec4
var Palette [256]vec4

func bezier(p0, p1, p2, p3 vec2, t float) vec2 {
	it := 1 - t
	return p0*(it*it*it) + p1*(3*it*it*t) + p2*(3*it*t*t) + p3*(t*t*t)
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	row := int(position.y)
	t := clamp((position.y-Range.x)/4, 0, 0.75)
	i0 := clamp(row-3, int(Range.x), 159)
	s0 := Transform[i0].zw
	s1 := Transform[clamp(i0+1, 0, 159)].zw
	s2 := Transform[clamp(i0+2, 0, 159)].zw
	s3 := Transform[clamp(i0+3, 0, 159)].zw
	ref := bezier(s0, s1, s2, s3, t)
	mat := Transform[row].xy
	coord := mat*position.x + ref

	if coord.x < 0 || coord.y < 0 || coord.x >= BitmapSize.x || coord.y >= BitmapSize.y {
		discard()
	}

	if Indexed == 1 {
		entry := imageSrc0At(coord / BitmapSize)
		paletteIndex := int(entry.r*255 + 0.5)
		if paletteIndex == 0 {
			discard()
		}
		return Palette[paletteIndex]
	}
	return imageSrc0At(coord / BitmapSize)
}
`

// kageObjFragment is the sprite fragment program (spec.md §4.6).
// Uniform names mirror gl.c's _renderObj: vram, palette, charBase,
// stride (1D/2D), localPalette, inflags, transform (2x2), dims,
// objwin, mosaic.
const kageObjFragment = `
var CharBase int
var Stride1D int
var Depth8bpp int
var LocalPalette int
var Transform mat2
var Origin vec2 // sprite's top-left screen position
var Dims vec4   // w, h, bboxW, bboxH
var Mosaic vec2
var IsObjWindow int
var Palette [256]vec4

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	local := position.xy - Origin
	if local.x < 0 || local.y < 0 || local.x >= Dims.z || local.y >= Dims.w {
		discard()
	}
	centered := local - Dims.zw/2
	coord := Transform*centered + Dims.xy/2
	if Mosaic.x > 0 {
		coord.x -= mod(coord.x, Mosaic.x)
	}
	if Mosaic.y > 0 {
		coord.y -= mod(coord.y, Mosaic.y)
	}
	if coord.x < 0 || coord.y < 0 || coord.x >= Dims.x || coord.y >= Dims.y {
		discard()
	}

	entry := imageSrc0At(coord / Dims.xy)
	paletteIndex := int(entry.r*255 + 0.5)
	if paletteIndex == 0 {
		discard()
	}
	if IsObjWindow == 1 {
		// object-window sprites write only the window attachment upstream;
		// the colour value here is discarded by the caller's attachment mask.
		return vec4(1, 1, 1, 1)
	}
	return Palette[paletteIndex]
}
`

// kageWindowFragment classifies each pixel into win0 > win1 >
// obj-window > outside (spec.md §4.7) and writes out the *raw* 6-bit
// WININ/WINOUT enable mask for whichever region matched (bit0..3
// BG0..3, bit4 OBJ, bit5 colour-effect), scaled into R the same
// "value*255+0.5 roundtrip" convention every other 8-bit-field sample
// in this shader set uses (gba_shaders.go's palette lookups). The
// per-layer visibility test against that mask is deferred to
// kageSelectFragment, one per candidate layer, since a single pass
// here has no way to know which layer gba_finalize.go is currently
// folding in. Uniform names mirror gl.c's _renderWindow: dispcnt,
// win0/win1 (per row history); the obj-window mask is sampled from
// imageSrc0 instead of folded in as a scalar, since coverage varies
// per pixel, not per row.
const kageWindowFragment = `
var DispcntWindows int // bit0 win0, bit1 win1, bit2 objwin enable
var Win0Mask float      // raw 6-bit WININ mask for win0
var Win1Mask float
var OutsideMask float   // raw 6-bit WINOUT low byte
var ObjWinMask float     // raw 6-bit WINOUT high byte
var Win0History [160]vec4 // h.start, h.end, v.start, v.end
var Win1History [160]vec4

func inside(h0, h1, v0, v1, x, y float) bool {
	inH := h0 <= h1 && x >= h0 && x < h1 || h0 > h1 && (x >= h0 || x < h1)
	inV := v0 <= v1 && y >= v0 && y < v1 || v0 > v1 && (y >= v0 || y < v1)
	return inH && inV
}

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	row := int(position.y)
	if DispcntWindows&1 != 0 {
		b := Win0History[row]
		if inside(b.x, b.y, b.z, b.w, position.x, position.y) {
			return vec4(Win0Mask/255, 0, 0, 0)
		}
	}
	if DispcntWindows&2 != 0 {
		b := Win1History[row]
		if inside(b.x, b.y, b.z, b.w, position.x, position.y) {
			return vec4(Win1Mask/255, 0, 0, 0)
		}
	}
	if DispcntWindows&4 != 0 {
		cover := imageSrc0At(texCoord)
		if cover.r > 0.5 {
			return vec4(ObjWinMask/255, 0, 0, 0)
		}
	}
	return vec4(OutsideMask/255, 0, 0, 0)
}
`

// kageSelectFragment is the generic per-pixel fold step gba_finalize.go
// uses to build the true top and second-from-top visible layer at
// every pixel, one layer at a time, working around Kage/ebiten's
// four-image-input and single-output-per-draw-call limits (gl.c's
// _finalize instead samples all five layer attachments in one GLSL
// pass). imageSrc0 is the candidate layer's just-drawn colour (its
// alpha channel says whether it drew here at all); imageSrc1 is the
// window mask from kageWindowFragment; imageSrc2/imageSrc3 are the
// "replacement"/"keep" values the caller wants selected between.
// LayerBit identifies which WININ/WINOUT bit gates this candidate
// layer (1<<0..3 for BG0..3, 1<<4 for OBJ); the backdrop is never
// passed through this shader since WINOUT has no backdrop bit and the
// backdrop can never be masked out.
const kageSelectFragment = `
var LayerBit int

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	layer := imageSrc0At(texCoord)
	mask := imageSrc1At(texCoord)
	maskBits := int(mask.r*255 + 0.5)
	if layer.a > 0.5 && maskBits&LayerBit != 0 {
		return imageSrc2At(texCoord)
	}
	return imageSrc3At(texCoord)
}
`

// kageStampEffectFragment runs once per frame after every layer has
// been folded in, writing whether the window region's colour-effect
// bit (bit5) is set into the folded top-layer flags' alpha channel -
// the one per-pixel fact the final blend pass needs that isn't tied
// to any single candidate layer.
const kageStampEffectFragment = `
func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	mask := imageSrc0At(texCoord)
	maskBits := int(mask.r*255 + 0.5)
	flags := imageSrc1At(texCoord)
	effect := 0.0
	if maskBits&0x20 != 0 {
		effect = 1.0
	}
	return vec4(flags.r, flags.g, flags.b, effect)
}
`

// kageFinalizeFragment is the single full-screen composition pass
// (spec.md §4.8), run once gba_finalize.go has folded every layer into a
// genuine top/second-from-top colour+flags pair per pixel (see
// kageSelectFragment/kageStampEffectFragment above). Uniform names
// mirror gl.c's _finalize: scale, blend effect selector, BLDALPHA/
// BLDY coefficients (already /16-normalised by the caller). Top and
// second layer flags each carry R=target1 (or OBJ semi-transparent
// override), G=target2, B=OBJ semi-transparent; the top flags'
// A channel additionally carries the window's colour-effect-enable
// bit, stamped in by kageStampEffectFragment.
const kageFinalizeFragment = `
var ForcedBlank int
var Effect int // 0 none, 1 alpha, 2 brighten, 3 darken
var BldA float
var BldB float
var BldY float

func Fragment(position vec4, texCoord vec2, color vec4) vec4 {
	if ForcedBlank == 1 {
		return vec4(1, 1, 1, 1)
	}
	top := imageSrc0At(texCoord)
	bottom := imageSrc1At(texCoord)
	topFlags := imageSrc2At(texCoord)
	bottomFlags := imageSrc3At(texCoord)

	if topFlags.a <= 0.5 {
		return top // colour-effect window bit is off here
	}

	topIsTarget1 := topFlags.r > 0.5
	topSemiTransparent := topFlags.b > 0.5
	bottomIsTarget2 := bottomFlags.g > 0.5

	if (Effect == 1 && topIsTarget1 || topSemiTransparent) && bottomIsTarget2 {
		return top*BldA + bottom*BldB
	}
	if Effect == 2 && topIsTarget1 {
		return top + (vec4(1, 1, 1, 1)-top)*BldY
	}
	if Effect == 3 && topIsTarget1 {
		return top - top*BldY
	}
	return top
}
`

// programSource concatenates the shared vertex prelude with a
// fragment body, matching gl.c's header+vertex+fragment assembly
// (spec.md §9). Kage does not separate stages, so in practice both
// halves are compiled together as one source per program; kept as
// two named constants above (rather than one flat string each) so
// the vertex contract stays visibly shared across every program, the
// way gl.c's single _vertexShader constant is reused by every
// glAttachShader call.
func programSource(fragment string) string {
	return "package main\n" + kageVertexPrelude + fragment
}
