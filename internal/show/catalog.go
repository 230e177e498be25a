package show

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is a named contiguous sub-range of a channel. Fixtures partition
// 0-255 into mode bands (e.g. rotation clockwise vs counter-clockwise);
// a value that crosses a band boundary changes meaning entirely, so the
// composer always places values through a Band rather than arithmetic on
// raw channel values.
type Band struct {
	Name string `yaml:"name"`
	Lo   int    `yaml:"lo"`
	Hi   int    `yaml:"hi"`
}

// Place maps t in [0,1] onto the band, rounded and clamped inside it.
func (b Band) Place(t float64) int {
	v := float64(b.Lo) + clampF(t, 0, 1)*float64(b.Hi-b.Lo)
	return clamp(int(v+0.5), b.Lo, b.Hi)
}

// Clamp forces v inside the band.
func (b Band) Clamp(v int) int { return clamp(v, b.Lo, b.Hi) }

// Width returns the number of values the band spans.
func (b Band) Width() int { return b.Hi - b.Lo + 1 }

// Channel is one control channel's legal range and its mode bands.
type Channel struct {
	Lo    int    `yaml:"lo"`
	Hi    int    `yaml:"hi"`
	Bands []Band `yaml:"bands"`
}

// Catalog maps channel keys to their semantics. It is opaque data as far
// as the composer is concerned: band boundaries live here, not in code.
type Catalog map[string]Channel

// Band looks up a named mode band on a channel. The second return is
// false if either the channel or the band is unknown.
func (c Catalog) Band(key, name string) (Band, bool) {
	ch, ok := c[key]
	if !ok {
		return Band{}, false
	}
	for _, b := range ch.Bands {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}

// Clamp forces v into the channel's legal range (0-255 for unknown keys).
func (c Catalog) Clamp(key string, v int) int {
	if ch, ok := c[key]; ok {
		return clamp(v, ch.Lo, ch.Hi)
	}
	return clamp(v, 0, 255)
}

// Channel keys for the built-in laser fixture profile.
const (
	ChXMove      = "xMove"
	ChYMove      = "yMove"
	ChRotation   = "rotation"
	ChZoom       = "zoom"
	ChBoundary   = "boundary" // pattern size
	ChColor      = "color"
	ChDistortion = "distortion"
	ChDots       = "dots"
	ChDrawing    = "drawing"
	ChTwist      = "twist"
	ChGrating    = "grating"
)

// Mode band names used by the composer.
const (
	BandStatic  = "static"
	BandDynamic = "dynamic"
	BandCW      = "cw"
	BandCCW     = "ccw"
	BandFull    = "full"
)

// DefaultCatalog is the built-in profile for a 12-channel club laser.
// Movement channels split at 128: below is a static position, above a
// dynamic sweep speed. Rotation packs static angle, then auto modes,
// then the two 32-value spin direction bands.
func DefaultCatalog() Catalog {
	full := func() []Band { return []Band{{Name: BandFull, Lo: 0, Hi: 255}} }
	movement := []Band{
		{Name: BandStatic, Lo: 0, Hi: 127},
		{Name: BandDynamic, Lo: 128, Hi: 255},
	}
	return Catalog{
		ChXMove: {Lo: 0, Hi: 255, Bands: movement},
		ChYMove: {Lo: 0, Hi: 255, Bands: movement},
		ChRotation: {Lo: 0, Hi: 255, Bands: []Band{
			{Name: BandStatic, Lo: 0, Hi: 127},
			{Name: "auto", Lo: 128, Hi: 159},
			{Name: BandCW, Lo: 192, Hi: 223},
			{Name: BandCCW, Lo: 224, Hi: 255},
		}},
		ChZoom: {Lo: 0, Hi: 255, Bands: []Band{
			{Name: BandStatic, Lo: 0, Hi: 127},
			{Name: "cycle", Lo: 128, Hi: 255},
		}},
		ChBoundary:   {Lo: 0, Hi: 255, Bands: full()},
		ChColor:      {Lo: 0, Hi: 255, Bands: full()},
		ChDistortion: {Lo: 0, Hi: 255, Bands: full()},
		ChDots:       {Lo: 0, Hi: 255, Bands: full()},
		ChDrawing:    {Lo: 0, Hi: 255, Bands: full()},
		ChTwist:      {Lo: 0, Hi: 255, Bands: full()},
		ChGrating:    {Lo: 0, Hi: 255, Bands: full()},
	}
}

// LoadCatalog reads a YAML catalog file. Channels present in the file
// replace the built-in defaults; everything else keeps them.
func LoadCatalog(path string) (Catalog, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	loaded := Catalog{}
	if err := yaml.Unmarshal(buf, &loaded); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	cat := DefaultCatalog()
	for key, ch := range loaded {
		cat[key] = ch
	}
	return cat, nil
}
