package show

// Audio analysis format.
const (
	SampleRate   = 44100
	FrameSize    = 2048 // samples per analysis frame
	SpectrumBins = 1024 // magnitude bins exposed per snapshot
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// Spectral smoothing. Kept low so percussive transients survive;
// higher values blur onsets into the noise floor.
const SpectrumSmoothing = 0.1

// Band bin ranges over the 1024-bin snapshot (~21.5 Hz/bin at 44.1 kHz).
const (
	BassBinLo   = 0
	BassBinHi   = 10 // < ~215 Hz
	MidBinLo    = 10
	MidBinHi    = 80 // ~215 Hz - 1.7 kHz
	TrebleBinLo = 80
	TrebleBinHi = 200 // ~1.7 kHz - 4.3 kHz
)

// Onset detector tuning.
const (
	FluxWindowSize     = 40    // ~0.67 s of flux history at 60 frames/s
	BeatFluxWindowSize = 16    // recent beat magnitudes for relative strength
	BeatTimeWindowSize = 9     // timestamps kept for the BPM estimate
	MinBPMSamples      = 3     // timestamps needed before estimating BPM
	FluxFloor          = 0.015 // absolute floor; rejects noise in near-silence
	DefaultSensitivity = 1.0   // threshold gain over the rolling flux average
	BaseCooldownMs     = 150.0 // cooldown before any BPM estimate exists
	MinCooldownMs      = 100.0
	CooldownBeatFrac   = 0.4 // fraction of a beat period once BPM is known
)

// Render loop.
const (
	RenderTickRate = 60.0 // composer invocations per second
	// Sustained quiet this long (plus retained momentum) drops the show
	// into breakdown mode. Expressed in wall-clock terms so the frame
	// threshold tracks the tick rate.
	BreakdownQuietSecs = 1.5
	// No beat for this long (with a BPM estimate) free-runs the beat
	// phase at the last tempo so visuals keep moving through silence.
	PhaseCoastSecs = 2.0
)

// BreakdownQuietFrames is the low-energy frame count that arms breakdown.
const BreakdownQuietFrames = int(BreakdownQuietSecs * RenderTickRate)

// Spring-damper momentum model.
const (
	MomentumSpringK    = 0.08
	MomentumDamping    = 0.15
	MomentumBassFloor  = 0.15  // bass above this pulls momentum up
	MomentumFallTarget = -0.15 // pull-down target during quiet stretches
)

// Beat reaction tuning.
const (
	PunchSnapGain   = 2.5
	StrongBeat      = 1.3 // relative strength above: decays slower
	WeakBeat        = 0.7 // relative strength below: decays faster
	PunchDecayMin   = 0.70
	PunchDecayMax   = 0.97
	PhraseJitterLo  = 4.0
	PhraseJitterHi  = 8.0
	MaxAdvanceP     = 0.95
	HighStreakCap   = 120
	GoldenRatio     = 1.618033988749895
	PhaseJitterSpan = 0.05
	// beatPhase is wrapped once it exceeds this period. The period is an
	// irrational multiple of the phase step so the wrap never lands on a
	// visible repeat of the phase-derived waveforms.
	PhaseWrapPeriod = 4096 * GoldenRatio
)

// Defaults for the preview window.
const (
	PreviewWidth  = 800
	PreviewHeight = 300
	PreviewTitle  = "lumen preview"
)
