package show

// The colour channel exposes thirteen legal values grouped into five
// families, ordered from warm statics up to the cycling/chasing program
// values. Family selection drifts over time; high energy biases the walk
// toward the moving programs (index 3+).
var colorFamilies = [5][]int{
	{8, 16, 24},    // warm statics
	{32, 40, 48},   // cool statics
	{56, 64},       // mixed statics
	{96, 128, 160}, // colour cycles
	{192, 224},     // colour chases
}

// Family drift odds per beat.
const (
	colorJumpP  = 0.08 // teleport to any family
	colorDriftP = 0.22 // step one family up or down
	hotEnergy   = 0.6  // above this, energy biases toward moving programs
)

// PickBeatColor picks the colour-channel value for a beat. The family
// index random-walks (rare jump, occasional ±1 drift) and is pushed into
// the cycling families when the energy is high; the returned value is a
// uniformly chosen member of the final family.
func (s *ShowState) PickBeatColor(energy float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.rng.Chance(colorJumpP):
		s.ColorTemp = s.rng.Intn(len(colorFamilies))
	case s.rng.Chance(colorDriftP):
		if s.rng.Chance(0.5) {
			s.ColorTemp++
		} else {
			s.ColorTemp--
		}
		s.ColorTemp = clamp(s.ColorTemp, 0, len(colorFamilies)-1)
	}

	if energy > hotEnergy && s.rng.Chance(energy) && s.ColorTemp < 3 {
		s.ColorTemp = 3 + s.rng.Intn(2)
	}

	family := colorFamilies[s.ColorTemp]
	return family[s.rng.Intn(len(family))]
}
