package show

import (
	"fmt"
	"log/slog"
	"net"
)

// Transport receives the final resolved per-channel frame once per
// render tick.
type Transport interface {
	SendFrame(dmx *[512]byte) error
	Close() error
}

// ArtNetTransport sends 512-slot ArtDmx packets over UDP unicast to one
// or more nodes.
type ArtNetTransport struct {
	conn     *net.UDPConn
	targets  []*net.UDPAddr
	universe uint16
	seq      uint8
}

const artNetPort = 6454

// NewArtNetTransport resolves the target node addresses and opens the
// sending socket.
func NewArtNetTransport(targets []string, universe int) (*ArtNetTransport, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("artnet: no targets")
	}
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, fmt.Errorf("artnet: open socket: %w", err)
	}
	t := &ArtNetTransport{conn: conn, universe: uint16(universe), seq: 1}
	for _, host := range targets {
		addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, artNetPort))
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("artnet: resolve %s: %w", host, err)
		}
		t.targets = append(t.targets, addr)
	}
	return t, nil
}

// SendFrame sends one ArtDmx packet per target. The sequence byte wraps
// naturally; zero is skipped because nodes treat it as "no sequencing".
func (t *ArtNetTransport) SendFrame(dmx *[512]byte) error {
	pkt := buildArtDmx(t.seq, t.universe, dmx[:])
	t.seq++
	if t.seq == 0 {
		t.seq = 1
	}
	for _, addr := range t.targets {
		if _, err := t.conn.WriteToUDP(pkt, addr); err != nil {
			return fmt.Errorf("artnet: send to %s: %w", addr, err)
		}
	}
	return nil
}

func (t *ArtNetTransport) Close() error { return t.conn.Close() }

func buildArtDmx(seq uint8, universe uint16, payload []byte) []byte {
	pkt := make([]byte, 18+len(payload))
	copy(pkt[0:], []byte("Art-Net\x00"))
	pkt[8], pkt[9] = 0x00, 0x50 // OpCode ArtDmx
	pkt[10], pkt[11] = 0x00, 14 // protocol version
	pkt[12], pkt[13] = seq, 0x00
	pkt[14] = byte(universe & 0xFF)        // SubUni
	pkt[15] = byte((universe >> 8) & 0x7F) // Net
	pkt[16] = byte((len(payload) >> 8) & 0xFF)
	pkt[17] = byte(len(payload) & 0xFF)
	copy(pkt[18:], payload)
	return pkt
}

// LogTransport is the headless fallback: it logs a compact summary of
// each frame instead of sending it anywhere.
type LogTransport struct {
	Logger *slog.Logger
	every  int
	count  int
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	// Once a second at the nominal tick rate keeps the log readable.
	return &LogTransport{Logger: logger, every: int(RenderTickRate)}
}

func (t *LogTransport) SendFrame(dmx *[512]byte) error {
	t.count++
	if t.count%t.every != 0 {
		return nil
	}
	active := 0
	for _, v := range dmx {
		if v != 0 {
			active++
		}
	}
	t.Logger.Debug("frame", slog.Int("active_slots", active))
	return nil
}

func (t *LogTransport) Close() error { return nil }
