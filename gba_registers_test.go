package gba

import "testing"

func TestWriteVideoRegister_MasksAndMarksDirtyOnChange(t *testing.T) {
	var r Renderer
	r.dirty.reset()

	got := r.WriteVideoRegister(regDISPCNT, 0xFFFF)
	if got != 0xFFF7 {
		t.Fatalf("DISPCNT write masked = %#x, want %#x (bit 3 forced low)", got, 0xFFF7)
	}
	slot := regDISPCNT >> 1
	if !r.dirty.regDirty(slot) {
		t.Fatal("DISPCNT should be marked dirty on first differing write")
	}

	r.dirty.clearRegs()
	r.WriteVideoRegister(regDISPCNT, 0xFFFF) // same masked value as before
	if r.dirty.regDirty(slot) {
		t.Fatal("writing the same value again should not re-mark dirty")
	}
}

func TestWriteVideoRegister_OutOfRange(t *testing.T) {
	var r Renderer
	got := r.WriteVideoRegister(0xFFFF, 0x1234)
	if got != 0x1234 {
		t.Fatalf("out-of-range register write should pass the value through unchanged, got %#x", got)
	}
}

func TestWriteVideoRegister_ScrollBypassesDirtyBitmap(t *testing.T) {
	var r Renderer
	r.dirty.reset()
	r.dirty.clearRegs()

	r.WriteVideoRegister(regBG0HOFS, 0x1FF)
	if r.bg[0].x != 0x1FF {
		t.Fatalf("BG0HOFS should write straight through to bg[0].x, got %#x", r.bg[0].x)
	}
	if r.dirty.regDirty(regBG0HOFS >> 1) {
		t.Fatal("scroll registers bypass the dirty bitmap (spec.md §4.1)")
	}
}

func TestApplyDISPCNT_Mode0_EnablesPerBitBackgrounds(t *testing.T) {
	var r Renderer
	r.applyDISPCNT(0x1F00) // BG0..3 + OBJ enable bits, mode 0
	for i := 0; i < numBG; i++ {
		if r.bg[i].enableLatch != enableLatchFull {
			t.Errorf("bg[%d] should be latched enabled in mode 0", i)
		}
	}
	if !r.objEnabled {
		t.Error("OBJ should be enabled")
	}
}

func TestApplyDISPCNT_Mode3_OnlyBG2Eligible(t *testing.T) {
	var r Renderer
	r.applyDISPCNT(0x0F03) // mode 3, all enable bits set
	for i := 0; i < numBG; i++ {
		want := i == 2
		if got := r.bg[i].enableLatch == enableLatchFull; got != want {
			t.Errorf("bg[%d] enabled = %v, want %v in bitmap mode 3", i, got, want)
		}
	}
}

func TestApplyDISPCNT_ForcedBlank(t *testing.T) {
	var r Renderer
	r.applyDISPCNT(1 << 7)
	if !r.forcedBlank {
		t.Fatal("bit 7 should set forcedBlank")
	}
}

func TestApplyBLDCNT_TargetsAndEffect(t *testing.T) {
	var r Renderer
	// BG0 + BG1 as target1, OBJ + backdrop as target2, effect = alpha (01).
	r.applyBLDCNT(0x0001 | 0x0002 | 0x1000 | 0x2000 | (1 << 6))
	if !r.blendTarget1[0] || !r.blendTarget1[1] {
		t.Fatal("BG0/BG1 should be target1")
	}
	if !r.blendTarget2[numBG] {
		t.Fatal("OBJ should be target2")
	}
	if !r.target2Bd {
		t.Fatal("backdrop should be target2")
	}
	if r.blendEffect != blendAlpha {
		t.Fatalf("blendEffect = %v, want blendAlpha", r.blendEffect)
	}
}

func TestCurrentMode(t *testing.T) {
	var r Renderer
	r.dispcnt = 5
	if r.currentMode() != 5 {
		t.Fatalf("currentMode() = %d, want 5", r.currentMode())
	}
}
