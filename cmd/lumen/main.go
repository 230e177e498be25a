package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lumen/internal/show"
)

func main() {
	var (
		wavPath   = flag.String("wav", "", "drive the show from a WAV file instead of the microphone")
		showPath  = flag.String("show", "", "YAML show file (targets, patch, scenes)")
		catPath   = flag.String("catalog", "", "YAML channel catalog override")
		styleName = flag.String("style", "pulse", "movement style: pulse, sweep or chaos")
		intensity = flag.Float64("intensity", 0.8, "effect intensity 0-1")
		attack    = flag.Float64("attack", 0.0, "punch attack softening 0-1")
		release   = flag.Float64("release", 0.5, "punch release stretch 0-1")
		sens      = flag.Float64("sensitivity", show.DefaultSensitivity, "onset threshold gain")
		grating   = flag.Bool("grating", false, "enable the grating channel")
		colorLock = flag.Bool("colorlock", false, "freeze the colour channel")
		preview   = flag.Bool("preview", false, "open the preview window")
		prepOut   = flag.String("prep", "", "analyze -wav offline, write the beat record JSON here, and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *prepOut != "" {
		if *wavPath == "" {
			fail(logger, "prep", errors.New("-prep requires -wav"))
		}
		rec, err := show.AnalyzeTrack(*wavPath)
		if err != nil {
			fail(logger, "prep", err)
		}
		if err := rec.WriteJSON(*prepOut); err != nil {
			fail(logger, "prep", err)
		}
		logger.Info("track analyzed",
			slog.Int("beats", len(rec.PeakMs)),
			slog.Float64("bpm", rec.AverageBPM))
		return
	}

	style, err := parseStyle(*styleName)
	if err != nil {
		fail(logger, "flags", err)
	}

	opts := show.Options{
		Seed:        seedFromEnv(),
		Sensitivity: *sens,
		Logger:      logger,
		Effects: show.EffectsConfig{
			Intensity:      clamp01(*intensity),
			Style:          style,
			ColorLock:      *colorLock,
			GratingEnabled: *grating,
			Attack:         clamp01(*attack),
			Release:        clamp01(*release),
		},
	}

	if *showPath != "" {
		sf, err := show.LoadShowFile(*showPath)
		if err != nil {
			fail(logger, "show file", err)
		}
		opts.File = sf
		if len(sf.Targets) > 0 {
			tr, err := show.NewArtNetTransport(sf.Targets, sf.Universe)
			if err != nil {
				fail(logger, "artnet", err)
			}
			opts.Transport = tr
			defer tr.Close()
		}
	}
	if *catPath != "" {
		cat, err := show.LoadCatalog(*catPath)
		if err != nil {
			fail(logger, "catalog", err)
		}
		opts.Catalog = cat
	}

	var src show.SpectrumSource
	if *wavPath != "" {
		ws, err := show.NewWavSource(*wavPath)
		if err != nil {
			fail(logger, "wav", err)
		}
		src = ws
		// Seed the detector with the offline tempo so the cooldown is
		// sensible from the first hit.
		if rec, err := show.AnalyzeTrack(*wavPath); err == nil && rec.AverageBPM > 0 {
			opts.SeedBPM = int(rec.AverageBPM + 0.5)
			logger.Info("tempo seeded", slog.Int("bpm", opts.SeedBPM))
		}
	} else {
		src = show.NewMicSource()
	}

	runner := show.NewRunner(src, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *preview {
		pv := show.NewPreview()
		runner.SetSink(pv)
		go func() {
			if err := run(ctx, runner, logger); err != nil {
				stop()
			}
		}()
		// The GL loop owns the main thread.
		if err := pv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fail(logger, "preview", err)
		}
		return
	}

	if err := run(ctx, runner, logger); err != nil {
		fail(logger, "show", err)
	}
}

func run(ctx context.Context, runner *show.Runner, logger *slog.Logger) error {
	logger.Info("show starting")
	err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("show stopped")
		return nil
	}
	if errors.Is(err, show.ErrCaptureDenied) {
		logger.Error("audio capture unavailable; check input device permissions")
	}
	return err
}

func parseStyle(name string) (show.EffectsStyle, error) {
	switch name {
	case "pulse":
		return show.StylePulse, nil
	case "sweep":
		return show.StyleSweep, nil
	case "chaos":
		return show.StyleChaos, nil
	}
	return 0, fmt.Errorf("unknown style %q", name)
}

// seedFromEnv mirrors the usual debugging flow: set LUMEN_SEED to replay
// a session's probabilistic decisions exactly.
func seedFromEnv() uint64 {
	if s := os.Getenv("LUMEN_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return v
		}
	}
	return uint64(time.Now().UnixNano())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func fail(logger *slog.Logger, what string, err error) {
	logger.Error(what, slog.String("error", err.Error()))
	os.Exit(1)
}
