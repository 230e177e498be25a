package show

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccmack/godsp"
	"github.com/goccmack/godsp/dwt"
	"github.com/goccmack/godsp/peaks"
)

const (
	// DWT depth for the offline energy envelope; the envelope runs at
	// the sample rate divided by 1<<trackDWTLevel.
	trackDWTLevel = 4
	trackScale    = 1 << trackDWTLevel

	// Minimum spacing between detected peaks, i.e. no tempo above
	// 240 BPM survives the offline scan.
	trackPeakSepMs = 250
)

// TrackRecord is the offline pre-analysis of a WAV file: beat peak
// positions and an average tempo the live detector can be seeded with
// so file-driven shows have a cooldown estimate from the first beat.
type TrackRecord struct {
	FileName   string
	SampleRate int
	PeakSepMs  int
	PeakMs     []int   // beat positions in milliseconds
	AverageBPM float64 // 0 if fewer than two peaks
}

// AnalyzeTrack runs the wavelet beat scan over a WAV file: Daubechies4
// decomposition, per-scale rectified envelopes downsampled to a common
// rate, summed and normalized, then peak-picked with a hard minimum
// separation.
func AnalyzeTrack(path string) (*TrackRecord, error) {
	channels, fs, _ := godsp.ReadWavFile(path)
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil, fmt.Errorf("analyze track %s: no samples", path)
	}

	fss := fs / trackScale
	sepFss := trackPeakSepMs * fs / (trackScale * 1000)
	if sepFss <= 0 {
		return nil, fmt.Errorf("analyze track %s: sample rate %d too low", path, fs)
	}

	db4 := dwt.Daubechies4(channels[0], trackDWTLevel)
	absX := godsp.AbsAll(db4.GetCoefficients())
	dsX := godsp.DownSampleAll(absX)
	sumX := godsp.SumVectors(dsX)
	sumX = godsp.DivS(sumX, godsp.Average(sumX))
	pks := peaks.Get(sumX, sepFss)

	rec := &TrackRecord{
		FileName:   path,
		SampleRate: fs,
		PeakSepMs:  sepFss * 1000 / fss,
		PeakMs:     make([]int, len(pks)),
	}
	for i, pk := range pks {
		rec.PeakMs[i] = pk * 1000 / fss
	}
	if len(pks) >= 2 {
		spanMs := rec.PeakMs[len(rec.PeakMs)-1] - rec.PeakMs[0]
		if spanMs > 0 {
			rec.AverageBPM = float64(len(pks)-1) * 60000.0 / float64(spanMs)
		}
	}
	return rec, nil
}

// WriteJSON stores the record next to whatever pipeline wants it.
func (r *TrackRecord) WriteJSON(path string) error {
	buf, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write track record: %w", err)
	}
	return nil
}
