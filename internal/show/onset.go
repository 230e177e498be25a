package show

import "math"

// BeatEvent describes one detected onset. Energy is the bass energy at
// the moment of the hit, BPM the current tempo estimate (0 until enough
// beats have landed), and RelativeStrength the hit's flux against the
// recent beat average (>1 strong, <1 ghost note).
type BeatEvent struct {
	Energy           float64
	BPM              int
	RelativeStrength float64
}

// BeatListener receives beat events synchronously on the audio tick.
type BeatListener func(BeatEvent)

// OnsetDetector turns a stream of band-energy frames into classified
// beat events using half-wave rectified spectral flux over the bass band
// with an adaptive threshold and a tempo-scaled cooldown.
//
// The listener list is owned by the detector and dies with it; listeners
// are invoked in registration order before Process returns.
type OnsetDetector struct {
	sensitivity float64

	prevBass   float64
	fluxWindow []float64 // rolling, capped at FluxWindowSize
	beatFlux   []float64 // rolling, capped at BeatFluxWindowSize
	beatTimes  []float64 // ms timestamps, capped at BeatTimeWindowSize

	lastBeatMs float64
	bpm        int

	listeners []BeatListener
}

// NewOnsetDetector creates a detector with the given threshold gain.
// Pass DefaultSensitivity unless the room is unusually hot or quiet.
func NewOnsetDetector(sensitivity float64) *OnsetDetector {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	return &OnsetDetector{
		sensitivity: sensitivity,
		fluxWindow:  make([]float64, 0, FluxWindowSize),
		beatFlux:    make([]float64, 0, BeatFluxWindowSize),
		beatTimes:   make([]float64, 0, BeatTimeWindowSize),
		lastBeatMs:  math.Inf(-1),
	}
}

// Subscribe registers a listener for future beats.
func (d *OnsetDetector) Subscribe(fn BeatListener) {
	d.listeners = append(d.listeners, fn)
}

// BPM returns the current tempo estimate, 0 if none yet.
func (d *OnsetDetector) BPM() int { return d.bpm }

// SeedBPM primes the tempo estimate (e.g. from an offline track scan)
// so the cooldown is right from the first beat. Live beats overwrite it
// as soon as enough timestamps accumulate.
func (d *OnsetDetector) SeedBPM(bpm int) {
	if bpm > 0 {
		d.bpm = bpm
	}
}

// Process consumes one band-energy frame stamped at nowMs and fires at
// most one beat. Only rising bass energy counts as an onset candidate.
func (d *OnsetDetector) Process(bands BandEnergies, nowMs float64) {
	flux := bands.Bass - d.prevBass
	d.prevBass = bands.Bass
	if flux < 0 {
		flux = 0
	}

	d.fluxWindow = pushCapped(d.fluxWindow, flux, FluxWindowSize)
	if len(d.fluxWindow) < 10 {
		return
	}

	threshold := mean(d.fluxWindow) * (1 + d.sensitivity)

	cooldown := BaseCooldownMs
	if d.bpm > 0 {
		cooldown = math.Max(MinCooldownMs, 60000.0/float64(d.bpm)*CooldownBeatFrac)
	}

	if flux <= threshold || flux <= FluxFloor || nowMs-d.lastBeatMs <= cooldown {
		return
	}
	d.fire(bands.Bass, flux, nowMs)
}

func (d *OnsetDetector) fire(energy, flux, nowMs float64) {
	d.lastBeatMs = nowMs
	d.beatTimes = pushCapped(d.beatTimes, nowMs, BeatTimeWindowSize)

	if len(d.beatTimes) >= MinBPMSamples {
		sum := 0.0
		for i := 1; i < len(d.beatTimes); i++ {
			sum += d.beatTimes[i] - d.beatTimes[i-1]
		}
		avgInterval := sum / float64(len(d.beatTimes)-1)
		if avgInterval > 0 {
			d.bpm = int(math.Round(60000.0 / avgInterval))
		}
	}

	d.beatFlux = pushCapped(d.beatFlux, flux, BeatFluxWindowSize)
	strength := 1.0
	if avg := mean(d.beatFlux); avg > 0.001 {
		strength = flux / avg
	}

	ev := BeatEvent{Energy: energy, BPM: d.bpm, RelativeStrength: strength}
	for _, fn := range d.listeners {
		fn(ev)
	}
}

func pushCapped(w []float64, v float64, limit int) []float64 {
	w = append(w, v)
	if len(w) > limit {
		w = w[1:]
	}
	return w
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
