package show

// BandEnergies is one frame's worth of normalized band energy, each value
// in [0,1]. Produced and consumed within a single tick.
type BandEnergies struct {
	Bass   float64
	Mid    float64
	Treble float64
}

// ExtractBands reduces a 1024-bin magnitude snapshot (each bin already
// normalized to [0,1]) to the three band energies the detector and
// composer run on. Bins outside the treble range carry little musical
// information for a lighting rig and are ignored.
func ExtractBands(spectrum []float64) BandEnergies {
	return BandEnergies{
		Bass:   meanRange(spectrum, BassBinLo, BassBinHi),
		Mid:    meanRange(spectrum, MidBinLo, MidBinHi),
		Treble: meanRange(spectrum, TrebleBinLo, TrebleBinHi),
	}
}

func meanRange(v []float64, lo, hi int) float64 {
	if hi > len(v) {
		hi = len(v)
	}
	if lo >= hi {
		return 0
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += v[i]
	}
	return clampF(sum/float64(hi-lo), 0, 1)
}
