package show

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// renderInterval is the render tick period.
const renderInterval = time.Second / time.Duration(RenderTickRate)

// Options configures a show run. Zero values fall back to built-ins.
type Options struct {
	Seed        uint64
	Sensitivity float64
	Effects     EffectsConfig
	Catalog     Catalog
	File        *ShowFile
	Transport   Transport
	Logger      *slog.Logger

	// SeedBPM primes the detector's tempo estimate, typically from an
	// offline AnalyzeTrack pass over the same file.
	SeedBPM int
}

// FrameSink receives each resolved frame in addition to the transport;
// the preview window implements it.
type FrameSink interface {
	Frame(values ChannelOverrides, state *ShowState)
}

// Runner owns one show session: the audio analysis tick feeding the
// onset detector, and the render tick composing and shipping frames.
// Both ticks share the ShowState; its internal lock serializes them.
type Runner struct {
	src       SpectrumSource
	det       *OnsetDetector
	st        *ShowState
	comp      *Composer
	scenes    *SceneList
	file      *ShowFile
	transport Transport
	logger    *slog.Logger
	effects   EffectsConfig
	sink      FrameSink

	mu        sync.Mutex
	bands     BandEnergies
	bpm       int
	beatColor int
	start     time.Time
}

// NewRunner wires a session together. Nothing touches the audio device
// until Run.
func NewRunner(src SpectrumSource, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.File == nil {
		opts.File = DefaultShowFile()
	}
	if opts.Transport == nil {
		opts.Transport = NewLogTransport(opts.Logger)
	}
	det := NewOnsetDetector(opts.Sensitivity)
	det.SeedBPM(opts.SeedBPM)
	return &Runner{
		src:       src,
		det:       det,
		comp:      NewComposer(opts.Catalog),
		scenes:    NewSceneList(opts.File.Scenes),
		file:      opts.File,
		transport: opts.Transport,
		logger:    opts.Logger,
		effects:   opts.Effects,
		st:        NewShowState(opts.Seed),
	}
}

// SetSink attaches an optional frame sink (the preview window).
func (r *Runner) SetSink(s FrameSink) { r.sink = s }

// State exposes the session state, mainly for the preview.
func (r *Runner) State() *ShowState { return r.st }

// Run starts capture and drives both ticks until the context is
// cancelled or the source ends. A capture failure is returned before
// any tick runs and leaves no frame sent.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.src.Start(); err != nil {
		return err
	}
	defer r.src.Close()

	r.start = time.Now()
	r.det.Subscribe(r.onBeat)

	audioDone := make(chan struct{})
	go func() {
		defer close(audioDone)
		for frame := range r.src.Frames() {
			bands := ExtractBands(frame.Spectrum)
			r.det.Process(bands, frame.TimeMs)
			r.mu.Lock()
			r.bands = bands
			r.bpm = r.det.BPM()
			r.mu.Unlock()
		}
	}()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-audioDone:
			r.logger.Info("audio source ended")
			return nil
		case <-ticker.C:
			if err := r.renderTick(); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) renderTick() error {
	r.mu.Lock()
	bands := r.bands
	bpm := r.bpm
	beatColor := r.beatColor
	r.mu.Unlock()

	nowMs := float64(time.Since(r.start)) / float64(time.Millisecond)
	scene := r.scenes.Current()
	overrides := r.comp.ComputeEffects(bands, bpm, r.effects, scene.Values, nowMs, r.st)
	merged := scene.Merged(overrides)
	if _, ok := overrides[ChColor]; !ok && !r.effects.ColorLock && beatColor != 0 {
		merged[ChColor] = beatColor
	}

	var dmx [512]byte
	r.file.Resolve(merged, &dmx)
	if err := r.transport.SendFrame(&dmx); err != nil {
		return err
	}
	if r.sink != nil {
		r.sink.Frame(merged, r.st)
	}
	return nil
}

// onBeat runs synchronously on the audio tick for every detected onset.
func (r *Runner) onBeat(ev BeatEvent) {
	nowMs := float64(time.Since(r.start)) / float64(time.Millisecond)
	r.st.OnShowBeat(ev.Energy, ev.RelativeStrength, r.effects.Attack, r.effects.Release, nowMs)

	color := r.st.PickBeatColor(ev.Energy)
	r.mu.Lock()
	r.beatColor = color
	r.mu.Unlock()

	if r.st.ShouldAdvanceScene(ev.Energy, ev.RelativeStrength) {
		scene := r.scenes.Advance()
		r.st.OnSceneAdvanced()
		r.logger.Info("scene advance",
			slog.String("scene", scene.Name),
			slog.Int("bpm", ev.BPM),
			slog.Float64("strength", ev.RelativeStrength))
	}
}
