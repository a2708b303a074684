package domain

import "testing"

func TestPhaseFor(t *testing.T) {
	cases := []struct {
		number int
		want   Phase
		guide  bool
	}{
		{1, PhaseOpening, false},
		{3, PhaseOpening, false},
		{4, PhaseBehavioral, true},
		{6, PhaseBehavioral, true},
		{7, PhaseTechnical, false},
		{8, PhaseTechnical, false},
		{9, PhaseClosing, false},
		{10, PhaseClosing, false},
		{11, PhaseTerminal, false},
		{42, PhaseTerminal, false},
	}
	for _, tc := range cases {
		got := PhaseFor(tc.number)
		if got.Phase != tc.want {
			t.Fatalf("question %d: expected %s, got %s", tc.number, tc.want, got.Phase)
		}
		if got.STARGuide != tc.guide {
			t.Fatalf("question %d: expected star guide %v", tc.number, tc.guide)
		}
	}
}

func TestPhaseFor_StrategiesPresentForActivePhases(t *testing.T) {
	for n := 1; n <= TotalQuestions; n++ {
		if PhaseFor(n).Strategy == "" {
			t.Fatalf("question %d has no strategy", n)
		}
	}
	if PhaseFor(TotalQuestions+1).Strategy != "" {
		t.Fatalf("terminal phase must not carry a strategy")
	}
}
