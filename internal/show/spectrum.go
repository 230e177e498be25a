package show

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// ErrCaptureDenied reports that the audio capture device could not be
// opened (permission refused or no device). It is fatal to detector
// startup; no show state exists when it is returned.
var ErrCaptureDenied = errors.New("audio capture denied")

// SpectrumFrame is one smoothed magnitude snapshot, SpectrumBins bins
// normalized to [0,1], stamped with milliseconds since source start.
type SpectrumFrame struct {
	Spectrum []float64
	TimeMs   float64
}

// SpectrumSource is a live stream of spectrum frames. Start launches
// capture (or playback); Frames is closed when the source ends; Close
// releases the device.
type SpectrumSource interface {
	Start() error
	Frames() <-chan SpectrumFrame
	Close() error
}

// analyzer turns raw sample frames into smoothed magnitude snapshots:
// Hann window, 2048-point real FFT, then a low temporal smoothing so
// percussive transients survive (raising SpectrumSmoothing blurs them).
type analyzer struct {
	window   []float64
	scratch  []float64
	smoothed []float64
}

func newAnalyzer() *analyzer {
	window := make([]float64, FrameSize)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(FrameSize-1))
	}
	return &analyzer{
		window:   window,
		scratch:  make([]float64, FrameSize),
		smoothed: make([]float64, SpectrumBins),
	}
}

// analyze consumes exactly FrameSize mono samples in [-1,1] and returns
// the snapshot for this frame. The returned slice is a copy; the
// smoothing state stays internal.
func (a *analyzer) analyze(samples []float64, nowMs float64) SpectrumFrame {
	for i := range a.scratch {
		if i < len(samples) {
			a.scratch[i] = samples[i] * a.window[i]
		} else {
			a.scratch[i] = 0
		}
	}
	spectrum := fft.FFTReal(a.scratch)

	// A full-scale sine under a Hann window peaks near FrameSize/4.
	norm := 4.0 / float64(FrameSize)
	out := make([]float64, SpectrumBins)
	for i := 0; i < SpectrumBins && i < len(spectrum); i++ {
		mag := clampF(cmplx.Abs(spectrum[i])*norm, 0, 1)
		a.smoothed[i] = SpectrumSmoothing*a.smoothed[i] + (1-SpectrumSmoothing)*mag
		out[i] = a.smoothed[i]
	}
	return SpectrumFrame{Spectrum: out, TimeMs: nowMs}
}
