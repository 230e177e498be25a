package show

import "math"

// OnShowBeat folds one detected beat into the show state: snaps punch up,
// retunes its decay from the beat's relative strength, and advances the
// golden-ratio beat phase.
//
// attack and release come from the caller's effects config, both in [0,1].
// A higher attack softens the punch snap; a higher release slows decay.
func (s *ShowState) OnShowBeat(energy, relStrength, attack, release, nowMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapScale := 1 - attack*0.7
	s.PunchLevel = math.Min(1, energy*PunchSnapGain*snapScale)

	baseDecay := 0.75 + release*0.22
	switch {
	case relStrength > StrongBeat:
		s.PunchDecay = math.Min(PunchDecayMax, baseDecay+0.05)
	case relStrength < WeakBeat:
		s.PunchDecay = math.Max(PunchDecayMin, baseDecay-0.08)
	default:
		s.PunchDecay = baseDecay
	}

	// The irrational step keeps phase-derived waveforms from settling
	// into a visible repeat; the jitter breaks up any residual locking.
	jitter := s.rng.RangeF(-PhaseJitterSpan, PhaseJitterSpan)
	s.BeatPhase += GoldenRatio*(0.7+energy*0.6) + jitter
	s.BeatPhase = wrapPhase(s.BeatPhase, PhaseWrapPeriod)

	s.LastBeatMs = nowMs
	s.BeatsSinceScene++
	s.GratingBeats++
}

// OnSceneAdvanced resets the scene-advance clock and redraws the phrase
// length so scene changes never fall into a fixed bar count.
func (s *ShowState) OnSceneAdvanced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BeatsSinceScene = 0
	s.PhraseJitter = s.rng.RangeF(PhraseJitterLo, PhraseJitterHi)
}

// ShouldAdvanceScene is the probabilistic scene-change gate. Ghost-note
// beats (relative strength below 1) never advance; otherwise the odds
// grow with beats elapsed past the phrase length and with how hard the
// room is going.
func (s *ShowState) ShouldAdvanceScene(energy, relStrength float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if relStrength < 1.0 {
		return false
	}
	timePressure := sigmoid(0.5 * (float64(s.BeatsSinceScene) - s.PhraseJitter))
	energyBonus := energy * s.Momentum * relStrength * 0.2
	p := math.Min(MaxAdvanceP, timePressure+energyBonus)
	return s.rng.Chance(p)
}
