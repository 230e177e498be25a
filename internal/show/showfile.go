package show

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ShowFile is the YAML show setup: where frames go, how fixtures are
// patched, and the scene rotation. Everything is optional; missing
// sections fall back to built-ins.
type ShowFile struct {
	// Art-Net unicast targets, e.g. "192.168.1.50". Empty means the
	// show runs against the logging transport.
	Targets []string `yaml:"targets"`

	// Universe carried in every ArtDmx packet.
	Universe int `yaml:"universe"`

	// Profiles map human-readable channel keys to 1-based DMX channel
	// numbers within a fixture.
	Profiles map[string]Profile `yaml:"profiles"`

	// Patch binds fixtures to a profile and base address.
	Patch []PatchedFixture `yaml:"patch"`

	Scenes []Scene `yaml:"scenes"`
}

// Profile maps channel keys to 1-based channel offsets.
type Profile struct {
	Channels map[string]int `yaml:"channels"`
}

// PatchedFixture is one fixture's address assignment.
type PatchedFixture struct {
	ID      string `yaml:"id"`
	Profile string `yaml:"profile"`
	Base    int    `yaml:"base"` // 1-based DMX start address
}

// LoadShowFile reads and validates a YAML show file.
func LoadShowFile(path string) (*ShowFile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read show file: %w", err)
	}
	var sf ShowFile
	if err := yaml.Unmarshal(buf, &sf); err != nil {
		return nil, fmt.Errorf("parse show file %s: %w", path, err)
	}
	for _, pf := range sf.Patch {
		if _, ok := sf.Profiles[pf.Profile]; !ok {
			return nil, fmt.Errorf("show file %s: fixture %q uses unknown profile %q", path, pf.ID, pf.Profile)
		}
		if pf.Base < 1 || pf.Base > 512 {
			return nil, fmt.Errorf("show file %s: fixture %q base %d outside 1-512", path, pf.ID, pf.Base)
		}
	}
	return &sf, nil
}

// DefaultShowFile patches a single laser at address 1 with the built-in
// profile and scene rotation.
func DefaultShowFile() *ShowFile {
	return &ShowFile{
		Profiles: map[string]Profile{
			"laser12": {Channels: map[string]int{
				ChXMove: 1, ChYMove: 2, ChRotation: 3, ChZoom: 4,
				ChBoundary: 5, ChColor: 6, ChDistortion: 7, ChDots: 8,
				ChDrawing: 9, ChTwist: 10, ChGrating: 11,
			}},
		},
		Patch:  []PatchedFixture{{ID: "laser1", Profile: "laser12", Base: 1}},
		Scenes: DefaultScenes(),
	}
}

// Resolve flattens a per-key channel frame into absolute DMX slots for
// every patched fixture. Keys a fixture's profile does not know are
// skipped for that fixture.
func (sf *ShowFile) Resolve(values ChannelOverrides, dmx *[512]byte) {
	for _, pf := range sf.Patch {
		prof := sf.Profiles[pf.Profile]
		for key, v := range values {
			offset, ok := prof.Channels[key]
			if !ok {
				continue
			}
			slot := pf.Base + offset - 2 // both 1-based
			if slot < 0 || slot >= 512 {
				continue
			}
			dmx[slot] = byte(clamp(v, 0, 255))
		}
	}
}
