package show

import (
	"sync"
	"testing"
)

// stubPlayer satisfies oto.Player without touching an audio device.
type stubPlayer struct {
	mu     sync.Mutex
	closed bool
}

func (p *stubPlayer) Pause()                  {}
func (p *stubPlayer) Play()                   {}
func (p *stubPlayer) IsPlaying() bool         { return false }
func (p *stubPlayer) Reset()                  {}
func (p *stubPlayer) Volume() float64         { return 1 }
func (p *stubPlayer) SetVolume(float64)       {}
func (p *stubPlayer) UnplayedBufferSize() int { return 0 }
func (p *stubPlayer) Err() error              { return nil }

func (p *stubPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *stubPlayer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// The player is created on the device-ready goroutine while Close can
// run first; whichever side loses must still release the player.
func TestWavSourceCloseReleasesPlayer(t *testing.T) {
	for i := 0; i < 200; i++ {
		w := &WavSource{done: make(chan struct{})}
		p := &stubPlayer{}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if !w.attachPlayer(p) {
				p.Close()
			}
		}()
		go func() {
			defer wg.Done()
			w.Close()
		}()
		wg.Wait()

		// Either Close saw the attached player or the attach lost and
		// released it itself.
		if !p.isClosed() {
			t.Fatalf("iteration %d: player leaked open", i)
		}
	}
}

func TestWavSourceAttachAfterClose(t *testing.T) {
	w := &WavSource{done: make(chan struct{})}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.attachPlayer(&stubPlayer{}) {
		t.Error("attachPlayer accepted a player after Close")
	}
}

func TestSampleReaderFramesStereo(t *testing.T) {
	r := &sampleReader{samples: []float64{0.5, -0.25}}
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	// Two mono samples, each duplicated into an 8-byte stereo pair.
	if n != 16 {
		t.Fatalf("read %d bytes, want 16", n)
	}
	for i := 0; i < n; i += 8 {
		for b := 0; b < 4; b++ {
			if buf[i+b] != buf[i+4+b] {
				t.Fatalf("sample at %d not duplicated across channels", i)
			}
		}
	}
}
