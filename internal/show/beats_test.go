package show

import (
	"math"
	"testing"
)

func TestOnShowBeatPunchSnap(t *testing.T) {
	st := NewShowState(1)
	st.OnShowBeat(0.8, 1.5, 0, 0.5, 1000)

	if st.PunchLevel != 1.0 {
		t.Errorf("PunchLevel = %v, want 1.0 (0.8*2.5 capped)", st.PunchLevel)
	}
	// Strong beat: baseDecay 0.75+0.5*0.22 = 0.86, +0.05, capped at 0.97.
	want := math.Min(PunchDecayMax, 0.86+0.05)
	if math.Abs(st.PunchDecay-want) > 1e-9 {
		t.Errorf("PunchDecay = %v, want %v", st.PunchDecay, want)
	}
	if st.LastBeatMs != 1000 {
		t.Errorf("LastBeatMs = %v, want 1000", st.LastBeatMs)
	}
	if st.BeatsSinceScene != 1 || st.GratingBeats != 1 {
		t.Errorf("counters = (%d,%d), want (1,1)", st.BeatsSinceScene, st.GratingBeats)
	}
}

func TestOnShowBeatAttackSoftens(t *testing.T) {
	st := NewShowState(1)
	st.OnShowBeat(0.3, 1.0, 1.0, 0, 0)

	// snapScale = 1 - 0.7 = 0.3, punch = 0.3*2.5*0.3 = 0.225.
	if math.Abs(st.PunchLevel-0.225) > 1e-9 {
		t.Errorf("PunchLevel = %v, want 0.225", st.PunchLevel)
	}
}

func TestOnShowBeatDecayBounds(t *testing.T) {
	st := NewShowState(1)

	// Weak beat at zero release pushes toward the floor.
	st.OnShowBeat(0.5, 0.1, 0, 0, 0)
	if st.PunchDecay < PunchDecayMin || st.PunchDecay > PunchDecayMax {
		t.Errorf("PunchDecay = %v outside [%v,%v]", st.PunchDecay, PunchDecayMin, PunchDecayMax)
	}
	// Strong beat at full release pushes toward the cap.
	st.OnShowBeat(0.5, 2.0, 0, 1.0, 0)
	if st.PunchDecay != PunchDecayMax {
		t.Errorf("PunchDecay = %v, want cap %v", st.PunchDecay, PunchDecayMax)
	}
}

func TestBeatPhaseAdvancesAndStaysBounded(t *testing.T) {
	st := NewShowState(42)
	prev := st.BeatPhase
	for i := 0; i < 10000; i++ {
		st.OnShowBeat(0.9, 1.0, 0, 0.5, float64(i))
		if st.BeatPhase == prev {
			t.Fatalf("phase did not move on beat %d", i)
		}
		if st.BeatPhase >= PhaseWrapPeriod+GoldenRatio*1.3+PhaseJitterSpan {
			t.Fatalf("phase %v escaped the wrap period", st.BeatPhase)
		}
		prev = st.BeatPhase
	}
}

func TestOnSceneAdvancedResets(t *testing.T) {
	st := NewShowState(3)
	st.BeatsSinceScene = 17
	for i := 0; i < 500; i++ {
		st.OnSceneAdvanced()
		if st.BeatsSinceScene != 0 {
			t.Fatalf("BeatsSinceScene = %d, want 0", st.BeatsSinceScene)
		}
		if st.PhraseJitter < PhraseJitterLo || st.PhraseJitter >= PhraseJitterHi {
			t.Fatalf("PhraseJitter = %v outside [%v,%v)", st.PhraseJitter, PhraseJitterLo, PhraseJitterHi)
		}
		st.BeatsSinceScene = 9
	}
}

func TestGhostNotesNeverAdvance(t *testing.T) {
	st := NewShowState(5)
	st.Momentum = 1.0
	st.BeatsSinceScene = 50 // maximal time pressure

	for i := 0; i < 2000; i++ {
		if st.ShouldAdvanceScene(1.0, 0.99) {
			t.Fatal("ghost note advanced the scene")
		}
	}
}

func TestAdvanceRateGrowsWithBeats(t *testing.T) {
	countAdvances := func(seed uint64, beatsSinceScene int) int {
		st := NewShowState(seed)
		st.Momentum = 0.5
		st.BeatsSinceScene = beatsSinceScene
		st.PhraseJitter = 6
		n := 0
		for i := 0; i < 2000; i++ {
			if st.ShouldAdvanceScene(0.7, 1.2) {
				n++
			}
		}
		return n
	}

	early := countAdvances(11, 2)
	late := countAdvances(11, 12)
	if late <= early {
		t.Errorf("advance rate did not grow: %d at 2 beats vs %d at 12", early, late)
	}
	// Sanity on the magnitudes: sigmoid(-2)≈0.12 vs capped 0.95.
	if early > 700 {
		t.Errorf("early advance count %d implausibly high", early)
	}
	if late < 1500 {
		t.Errorf("late advance count %d implausibly low", late)
	}
}
