package show

import "testing"

// The full legal value set for the colour channel.
var legalColors = map[int]bool{
	8: true, 16: true, 24: true, 32: true, 40: true, 48: true, 56: true,
	64: true, 96: true, 128: true, 160: true, 192: true, 224: true,
}

func TestFamiliesCoverLegalSet(t *testing.T) {
	seen := map[int]bool{}
	for fi, family := range colorFamilies {
		if len(family) == 0 {
			t.Fatalf("family %d is empty", fi)
		}
		for _, v := range family {
			if !legalColors[v] {
				t.Errorf("family %d holds illegal value %d", fi, v)
			}
			seen[v] = true
		}
	}
	if len(seen) != len(legalColors) {
		t.Errorf("families cover %d values, want all %d", len(seen), len(legalColors))
	}
}

func TestPickBeatColorAlwaysLegal(t *testing.T) {
	st := NewShowState(21)
	r := NewRand(22)
	for i := 0; i < 5000; i++ {
		v := st.PickBeatColor(r.Float64())
		if !legalColors[v] {
			t.Fatalf("pick %d returned illegal colour %d", i, v)
		}
		if st.ColorTemp < 0 || st.ColorTemp > 4 {
			t.Fatalf("ColorTemp = %d escaped [0,4]", st.ColorTemp)
		}
	}
}

func TestHighEnergyBiasesToMovingFamilies(t *testing.T) {
	hot := 0
	const trials = 3000
	st := NewShowState(33)
	for i := 0; i < trials; i++ {
		st.ColorTemp = 0 // reset the walk each trial
		st.PickBeatColor(0.95)
		if st.ColorTemp >= 3 {
			hot++
		}
	}
	// With energy 0.95 the force-up path alone fires ~95% of the time.
	if hot < trials*3/4 {
		t.Errorf("moving families picked %d/%d times at high energy, want a strong bias", hot, trials)
	}

	cold := 0
	st2 := NewShowState(34)
	for i := 0; i < trials; i++ {
		st2.ColorTemp = 0
		st2.PickBeatColor(0.1)
		if st2.ColorTemp >= 3 {
			cold++
		}
	}
	if cold >= hot {
		t.Errorf("low energy picked moving families as often as high (%d vs %d)", cold, hot)
	}
}

func TestColorWalkMostlyAdjacent(t *testing.T) {
	st := NewShowState(55)
	farMoves := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		before := st.ColorTemp
		st.PickBeatColor(0.2) // below the energy bias threshold
		delta := st.ColorTemp - before
		if delta < 0 {
			delta = -delta
		}
		if delta > 1 {
			farMoves++
		}
	}
	// Only the 8% teleport can move further than one family at low
	// energy, and only when it lands two or more away.
	if farMoves > trials/5 {
		t.Errorf("far moves %d/%d: the walk should be mostly adjacent", farMoves, trials)
	}
	if farMoves == 0 {
		t.Error("teleport path never fired in 5000 picks")
	}
}
