package show

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/oto/v2"
)

// WavSource drives a show from a WAV file instead of live capture: the
// file plays through the speakers via oto while the same samples run
// through the analyzer, paced to stay in step with playback.
type WavSource struct {
	path    string
	samples []float64 // mono, [-1,1], resampled view at file rate
	rate    int

	an     *analyzer
	frames chan SpectrumFrame
	done   chan struct{}
	once   sync.Once

	ctx *oto.Context

	// The player is created on the oto-ready goroutine while Close can
	// run from the session goroutine, so publication is guarded.
	mu     sync.Mutex
	player oto.Player
	closed bool
}

// NewWavSource decodes the whole file up front. Decode errors are
// returned here so a bad path fails before the show starts.
func NewWavSource(path string) (*WavSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels == 0 {
		return nil, fmt.Errorf("decode wav %s: empty stream", path)
	}

	return &WavSource{
		path:    path,
		samples: monoFloats(buf, int(dec.BitDepth)),
		rate:    buf.Format.SampleRate,
		an:      newAnalyzer(),
		frames:  make(chan SpectrumFrame, 4),
		done:    make(chan struct{}),
	}, nil
}

func (w *WavSource) Frames() <-chan SpectrumFrame { return w.frames }

// Start begins playback and the paced analysis walk over the samples.
func (w *WavSource) Start() error {
	ctx, ready, err := oto.NewContext(w.rate, ChannelCount, BitDepth)
	if err != nil {
		// No output device is not fatal: the show can still analyze
		// the file silently.
		go w.analyzeLoop()
		return nil
	}
	w.ctx = ctx
	go func() {
		<-ready
		p := ctx.NewPlayer(&sampleReader{samples: w.samples})
		if !w.attachPlayer(p) {
			p.Close()
			return
		}
		p.Play()
	}()
	go w.analyzeLoop()
	return nil
}

// attachPlayer publishes the player unless the source was closed while
// waiting for the device; a late player is released by the caller.
func (w *WavSource) attachPlayer(p oto.Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.player = p
	return true
}

func (w *WavSource) analyzeLoop() {
	defer close(w.frames)

	frameDur := time.Duration(float64(FrameSize) / float64(w.rate) * float64(time.Second))
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()

	frame := make([]float64, FrameSize)
	pos := 0
	elapsed := 0.0
	for range ticker.C {
		select {
		case <-w.done:
			return
		default:
		}
		if pos >= len(w.samples) {
			return
		}
		n := copy(frame, w.samples[pos:])
		for i := n; i < FrameSize; i++ {
			frame[i] = 0
		}
		pos += FrameSize
		elapsed += float64(frameDur) / float64(time.Millisecond)

		select {
		case w.frames <- w.an.analyze(frame, elapsed):
		case <-w.done:
			return
		}
	}
}

// Close stops playback and analysis.
func (w *WavSource) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		w.closed = true
		p := w.player
		w.mu.Unlock()
		if p != nil {
			p.Close()
		}
	})
	return nil
}

// monoFloats averages the interleaved PCM channels into one [-1,1]
// stream.
func monoFloats(buf *audio.IntBuffer, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))
	ch := buf.Format.NumChannels
	mono := make([]float64, len(buf.Data)/ch)
	for i := range mono {
		sum := 0.0
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c]) / scale
		}
		mono[i] = sum / float64(ch)
	}
	return mono
}

// sampleReader streams mono float64 samples as stereo float32 LE bytes
// for oto.
type sampleReader struct {
	samples []float64
	pos     int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	n := 0
	for n+8 <= len(p) && r.pos < len(r.samples) {
		v := math.Float32bits(float32(clampF(r.samples[r.pos], -1, 1)))
		p[n] = byte(v)
		p[n+1] = byte(v >> 8)
		p[n+2] = byte(v >> 16)
		p[n+3] = byte(v >> 24)
		p[n+4] = byte(v)
		p[n+5] = byte(v >> 8)
		p[n+6] = byte(v >> 16)
		p[n+7] = byte(v >> 24)
		r.pos++
		n += 8
	}
	return n, nil
}
