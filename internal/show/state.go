package show

import "sync"

// ShowState is the single mutable record a running show accumulates:
// momentum, punch, beat phase, colour drift and streak counters. One
// instance lives for the duration of a show session and is discarded on
// stop; it is never persisted.
//
// The audio tick (beat callbacks) and the render tick (ComputeEffects)
// run on different goroutines, so every exported operation locks mu.
type ShowState struct {
	mu  sync.Mutex
	rng *Rand

	// Spring-damper pair tracking sustained loudness. Momentum stays in
	// [0,1]; the velocity is unbounded but small in practice.
	Momentum    float64
	MomentumVel float64

	// Instantaneous beat impact in [0,1] and its per-frame decay factor
	// in [PunchDecayMin, PunchDecayMax].
	PunchLevel float64
	PunchDecay float64

	// Index into the five colour families, [0,4].
	ColorTemp int

	// Scene-advance timing. PhraseJitter is redrawn into
	// [PhraseJitterLo, PhraseJitterHi) on every scene change.
	BeatsSinceScene int
	PhraseJitter    float64

	// Loudness history for breakdown detection. HighEnergyStreak is
	// capped at HighStreakCap; LowEnergyFrames counts consecutive
	// near-silent render frames.
	HighEnergyStreak int
	LowEnergyFrames  int

	// Beat-synchronised oscillator phase.
	BeatPhase    float64
	LastBeatMs   float64
	GratingBeats int
}

// NewShowState creates the state for a fresh show session. All
// probabilistic behaviour (colour drift, phase jitter, scene advance)
// draws from the seeded RNG so a session can be replayed exactly.
func NewShowState(seed uint64) *ShowState {
	s := &ShowState{
		rng:        NewRand(seed),
		PunchDecay: 0.85,
	}
	s.PhraseJitter = s.rng.RangeF(PhraseJitterLo, PhraseJitterHi)
	return s
}
