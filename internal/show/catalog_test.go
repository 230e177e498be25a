package show

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBandPlace(t *testing.T) {
	b := Band{Name: BandDynamic, Lo: 128, Hi: 255}

	tests := []struct {
		t    float64
		want int
	}{
		{0, 128},
		{1, 255},
		{0.5, 192},
		{-3, 128}, // clamped
		{7, 255},  // clamped
	}
	for _, tc := range tests {
		if got := b.Place(tc.t); got != tc.want {
			t.Errorf("Place(%v) = %d, want %d", tc.t, got, tc.want)
		}
	}
}

func TestCatalogBandLookup(t *testing.T) {
	cat := DefaultCatalog()

	cw, ok := cat.Band(ChRotation, BandCW)
	if !ok {
		t.Fatal("rotation cw band missing")
	}
	if cw.Lo != 192 || cw.Hi != 223 {
		t.Errorf("cw band = [%d,%d], want [192,223]", cw.Lo, cw.Hi)
	}
	ccw, _ := cat.Band(ChRotation, BandCCW)
	if ccw.Lo != 224 || ccw.Hi != 255 {
		t.Errorf("ccw band = [%d,%d], want [224,255]", ccw.Lo, ccw.Hi)
	}

	if _, ok := cat.Band(ChRotation, "nonsense"); ok {
		t.Error("unknown band name resolved")
	}
	if _, ok := cat.Band("nonsense", BandCW); ok {
		t.Error("unknown channel resolved")
	}

	dyn, _ := cat.Band(ChXMove, BandDynamic)
	if dyn.Lo != 128 || dyn.Hi != 255 {
		t.Errorf("movement dynamic band = [%d,%d], want [128,255]", dyn.Lo, dyn.Hi)
	}
}

func TestCatalogClamp(t *testing.T) {
	cat := DefaultCatalog()
	if got := cat.Clamp(ChZoom, 900); got != 255 {
		t.Errorf("Clamp high = %d, want 255", got)
	}
	if got := cat.Clamp(ChZoom, -4); got != 0 {
		t.Errorf("Clamp low = %d, want 0", got)
	}
	if got := cat.Clamp("unknown", 300); got != 255 {
		t.Errorf("Clamp unknown channel = %d, want 255", got)
	}
}

func TestLoadCatalogMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	src := `
rotation:
  lo: 0
  hi: 255
  bands:
    - name: cw
      lo: 200
      hi: 231
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	cw, ok := cat.Band(ChRotation, BandCW)
	if !ok || cw.Lo != 200 || cw.Hi != 231 {
		t.Errorf("override not applied: %+v ok=%v", cw, ok)
	}
	// Untouched channels keep the defaults.
	if _, ok := cat.Band(ChXMove, BandDynamic); !ok {
		t.Error("default movement bands lost on load")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog("/does/not/exist.yaml"); err == nil {
		t.Error("expected an error for a missing catalog")
	}
}
