package show

import "math"

// EffectsStyle selects which waveform family drives the movement channels.
type EffectsStyle int

const (
	StylePulse EffectsStyle = iota // snap on punch
	StyleSweep                     // smooth sinusoid
	StyleChaos                     // multi-frequency sum
)

// EffectsConfig is the caller-supplied tuning for one tick. It is
// immutable within the tick.
type EffectsConfig struct {
	Intensity      float64 // 0 disables the composer entirely
	Style          EffectsStyle
	ColorLock      bool // freeze the colour channel
	GratingEnabled bool
	Attack         float64 // softens the punch snap
	Release        float64 // stretches the punch decay
}

// ChannelOverrides is the sparse per-tick output: a key is present only
// when that channel is actively driven this tick.
type ChannelOverrides map[string]int

// Composer turns band energies plus accumulated show state into channel
// overrides. Band boundaries come from the catalog; the composer never
// hard-codes a mode split.
type Composer struct {
	cat Catalog
}

func NewComposer(cat Catalog) *Composer {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Composer{cat: cat}
}

// Gating thresholds for the optional channels.
const (
	distortionGate    = 0.5  // punch
	dotsGate          = 0.3  // treble
	drawingGate       = 0.35 // punch
	twistGate         = 0.4  // mid
	gratingGate       = 0.5  // momentum
	colorGate         = 0.15 // momentum (or any punch)
	breakdownMomentum = 0.2
)

// ComputeEffects runs one render tick. sceneBase is the active scene's
// base values; current logic composes independently of it but the
// parameter stays in the signature so a future composer revision can
// modulate relative to the scene. The state is mutated in place under
// its lock.
func (c *Composer) ComputeEffects(audio BandEnergies, bpm int, cfg EffectsConfig, sceneBase ChannelOverrides, timeMs float64, st *ShowState) ChannelOverrides {
	_ = sceneBase // reserved

	out := ChannelOverrides{}
	if cfg.Intensity == 0 {
		return out
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Momentum follows sustained bass through a spring-damper so it
	// swells and sags instead of flickering with the envelope.
	target := MomentumFallTarget
	if audio.Bass > MomentumBassFloor {
		target = audio.Bass
	}
	spring := (target - st.Momentum) * MomentumSpringK
	damping := -st.MomentumVel * MomentumDamping
	st.MomentumVel += spring + damping
	st.Momentum = clampF(st.Momentum+st.MomentumVel, 0, 1)

	// Punch decays faster at higher tempo so hits stay distinct.
	st.PunchLevel *= math.Pow(st.PunchDecay, math.Max(1, float64(bpm)/120.0))
	if st.PunchLevel < 0.01 {
		st.PunchLevel = 0
	}

	if audio.Bass > 0.35 {
		st.HighEnergyStreak = clamp(st.HighEnergyStreak+1, 0, HighStreakCap)
	} else {
		st.HighEnergyStreak = clamp(st.HighEnergyStreak-2, 0, HighStreakCap)
	}
	if audio.Bass < 0.1 {
		st.LowEnergyFrames++
	} else {
		st.LowEnergyFrames = 0
	}

	if st.LowEnergyFrames > BreakdownQuietFrames && st.Momentum > breakdownMomentum {
		c.composeBreakdown(out, timeMs)
		return out
	}

	c.composeActive(out, audio, bpm, cfg, timeMs, st)
	return out
}

// composeBreakdown emits the fixed gentle ambient set for a sustained
// quiet passage: static mid zoom, a guaranteed-visible pattern size,
// slow spin inside one direction band, and slow positional drift kept
// strictly in the static movement range.
func (c *Composer) composeBreakdown(out ChannelOverrides, timeMs float64) {
	if b, ok := c.cat.Band(ChZoom, BandStatic); ok {
		out[ChZoom] = b.Clamp(80)
	}
	out[ChBoundary] = c.cat.Clamp(ChBoundary, 30)

	if b, ok := c.cat.Band(ChRotation, BandCW); ok {
		drift := int(timeMs/400.0) % b.Width()
		out[ChRotation] = b.Clamp(b.Lo + drift)
	}

	xBand, xOK := c.cat.Band(ChXMove, BandStatic)
	yBand, yOK := c.cat.Band(ChYMove, BandStatic)
	if xOK {
		out[ChXMove] = xBand.Place(0.5 + 0.3*math.Sin(timeMs*0.0003))
	}
	if yOK {
		out[ChYMove] = yBand.Place(0.5 + 0.3*math.Sin(timeMs*0.00021+1.3))
	}
}

func (c *Composer) composeActive(out ChannelOverrides, audio BandEnergies, bpm int, cfg EffectsConfig, timeMs float64, st *ShowState) {
	// Keep phase moving through sustained silence that has not yet
	// tripped breakdown, so the visuals never freeze mid-track.
	if bpm > 0 && st.LastBeatMs > 0 && timeMs-st.LastBeatMs > PhaseCoastSecs*1000 {
		st.BeatPhase += GoldenRatio * float64(bpm) / 60.0 / RenderTickRate
		st.BeatPhase = wrapPhase(st.BeatPhase, PhaseWrapPeriod)
	}

	phase1 := st.BeatPhase
	phase2 := st.BeatPhase * GoldenRatio
	phase3 := st.BeatPhase * 0.7

	punch := st.PunchLevel * cfg.Intensity
	mom := st.Momentum * cfg.Intensity

	if b, ok := c.cat.Band(ChZoom, BandStatic); ok {
		out[ChZoom] = b.Place(0.2 + punch*0.55 + audio.Bass*0.25*cfg.Intensity)
	}
	out[ChBoundary] = c.cat.Clamp(ChBoundary, c.bandPlace(ChBoundary, BandFull, 0.1+mom*0.5+punch*0.3))

	c.composeMovement(out, cfg, punch, phase1, phase2, phase3, timeMs)

	// Rotation direction flips with the slow phase; speed rides momentum.
	dirBand := BandCW
	if math.Sin(phase3) < 0 {
		dirBand = BandCCW
	}
	if b, ok := c.cat.Band(ChRotation, dirBand); ok {
		out[ChRotation] = b.Place(mom*0.8 + punch*0.2)
	}

	if !cfg.ColorLock && (mom > colorGate || punch > colorGate) {
		family := colorFamilies[clamp(st.ColorTemp, 0, len(colorFamilies)-1)]
		out[ChColor] = c.cat.Clamp(ChColor, family[st.GratingBeats%len(family)])
	}

	// Distortion reads as "off" only at zero, so it is written either way.
	if punch > distortionGate {
		out[ChDistortion] = c.bandPlace(ChDistortion, BandFull, punch)
	} else {
		out[ChDistortion] = 0
	}

	if audio.Treble > dotsGate {
		out[ChDots] = c.bandPlace(ChDots, BandFull, audio.Treble*cfg.Intensity)
	}
	if punch > drawingGate {
		out[ChDrawing] = c.bandPlace(ChDrawing, BandFull, 1-punch*0.6)
	}
	if audio.Mid > twistGate {
		out[ChTwist] = c.bandPlace(ChTwist, BandFull, audio.Mid*0.7+0.15*math.Sin(phase2))
	}
	if cfg.GratingEnabled && st.Momentum > gratingGate && st.GratingBeats%8 >= 4 {
		out[ChGrating] = c.bandPlace(ChGrating, BandFull, 0.25+0.5*mom)
	}
}

// composeMovement drives xMove/yMove inside the dynamic band; the style
// only changes the waveform, never the band, so "moving" semantics are
// guaranteed whenever the keys are present.
func (c *Composer) composeMovement(out ChannelOverrides, cfg EffectsConfig, punch, phase1, phase2, phase3, timeMs float64) {
	xBand, xOK := c.cat.Band(ChXMove, BandDynamic)
	yBand, yOK := c.cat.Band(ChYMove, BandDynamic)
	if !xOK || !yOK {
		return
	}

	var tx, ty float64
	switch cfg.Style {
	case StyleSweep:
		tx = 0.45 + 0.35*math.Sin(phase1*0.5+timeMs*0.0004)
		ty = 0.45 + 0.35*math.Sin(phase2*0.5+timeMs*0.00031+0.9)
	case StyleChaos:
		tx = 0.5 + 0.2*math.Sin(phase1) + 0.15*math.Sin(phase2*1.3+1.7) + 0.1*math.Sin(phase3*2.9)
		ty = 0.5 + 0.2*math.Sin(phase2) + 0.15*math.Sin(phase3*1.7+0.4) + 0.1*math.Sin(phase1*3.1)
	default: // StylePulse
		tx = 0.15 + punch*0.6 + 0.1*math.Sin(phase1)
		ty = 0.15 + punch*0.6 + 0.1*math.Sin(phase2)
	}
	out[ChXMove] = xBand.Place(tx)
	out[ChYMove] = yBand.Place(ty)
}

func (c *Composer) bandPlace(key, band string, t float64) int {
	if b, ok := c.cat.Band(key, band); ok {
		return b.Place(t)
	}
	return c.cat.Clamp(key, int(clampF(t, 0, 1)*255+0.5))
}
