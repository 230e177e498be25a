package show

import (
	"bytes"
	"testing"
)

func TestBuildArtDmxHeader(t *testing.T) {
	var payload [512]byte
	payload[0] = 200
	payload[511] = 7

	pkt := buildArtDmx(3, 0x0102, payload[:])

	if len(pkt) != 18+512 {
		t.Fatalf("packet length = %d, want 530", len(pkt))
	}
	if !bytes.Equal(pkt[0:8], []byte("Art-Net\x00")) {
		t.Errorf("bad ID block %q", pkt[0:8])
	}
	if pkt[8] != 0x00 || pkt[9] != 0x50 {
		t.Errorf("opcode = %02x%02x, want 0050 (ArtDmx)", pkt[8], pkt[9])
	}
	if pkt[10] != 0x00 || pkt[11] != 14 {
		t.Errorf("protocol version = %d.%d, want 0.14", pkt[10], pkt[11])
	}
	if pkt[12] != 3 {
		t.Errorf("sequence = %d, want 3", pkt[12])
	}
	if pkt[14] != 0x02 || pkt[15] != 0x01 {
		t.Errorf("universe bytes = %02x %02x, want 02 01", pkt[14], pkt[15])
	}
	if pkt[16] != 0x02 || pkt[17] != 0x00 {
		t.Errorf("length bytes = %02x %02x, want 0200", pkt[16], pkt[17])
	}
	if pkt[18] != 200 || pkt[18+511] != 7 {
		t.Error("payload not copied through")
	}
}

func TestShowFileResolve(t *testing.T) {
	sf := DefaultShowFile()
	var dmx [512]byte

	sf.Resolve(ChannelOverrides{ChXMove: 200, ChColor: 96, "unknown": 50}, &dmx)

	if dmx[0] != 200 { // xMove is channel 1 on a base-1 fixture
		t.Errorf("slot 0 = %d, want 200", dmx[0])
	}
	if dmx[5] != 96 { // color is channel 6
		t.Errorf("slot 5 = %d, want 96", dmx[5])
	}
	for i, v := range dmx {
		if i != 0 && i != 5 && v != 0 {
			t.Errorf("slot %d = %d, want untouched 0", i, v)
		}
	}
}

func TestShowFileResolveRespectsBase(t *testing.T) {
	sf := DefaultShowFile()
	sf.Patch = append(sf.Patch, PatchedFixture{ID: "laser2", Profile: "laser12", Base: 101})
	var dmx [512]byte

	sf.Resolve(ChannelOverrides{ChZoom: 80}, &dmx)

	if dmx[3] != 80 { // fixture 1: base 1, zoom channel 4
		t.Errorf("fixture1 zoom slot = %d, want 80", dmx[3])
	}
	if dmx[103] != 80 { // fixture 2: base 101, zoom channel 4
		t.Errorf("fixture2 zoom slot = %d, want 80", dmx[103])
	}
}

func TestShowFileResolveClampsValues(t *testing.T) {
	sf := DefaultShowFile()
	var dmx [512]byte
	sf.Resolve(ChannelOverrides{ChZoom: 999}, &dmx)
	if dmx[3] != 255 {
		t.Errorf("out-of-range value resolved to %d, want clamp 255", dmx[3])
	}
}
