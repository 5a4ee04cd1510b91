package models

import "testing"

func TestConflictType_Valid(t *testing.T) {
	for _, ct := range ConflictTypes() {
		if !ct.Valid() {
			t.Errorf("ConflictType %q should be valid", ct)
		}
	}

	invalid := []ConflictType{"", "unknown", "Architecture_Decision", "manual"}
	for _, ct := range invalid {
		if ct.Valid() {
			t.Errorf("ConflictType %q should be invalid", ct)
		}
	}
}

func TestPhase_Valid(t *testing.T) {
	valid := []Phase{
		PhaseContextLoading, PhaseIdeaCollection, PhaseSynthesis,
		PhaseRankedVoting, PhaseCommitment,
	}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("Phase %q should be valid", p)
		}
	}

	if Phase("voting").Valid() {
		t.Error("Phase \"voting\" should be invalid")
	}
	if Phase("").Valid() {
		t.Error("empty phase should be invalid")
	}
}

func TestPhase_Next(t *testing.T) {
	order := []Phase{
		PhaseContextLoading, PhaseIdeaCollection, PhaseSynthesis,
		PhaseRankedVoting, PhaseCommitment,
	}
	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok {
			t.Fatalf("Phase %q should have a successor", order[i])
		}
		if next != order[i+1] {
			t.Errorf("Phase %q successor = %q, want %q", order[i], next, order[i+1])
		}
	}

	if _, ok := PhaseCommitment.Next(); ok {
		t.Error("commitment should have no successor")
	}
	if _, ok := Phase("bogus").Next(); ok {
		t.Error("unknown phase should have no successor")
	}
}

func TestPhase_Terminal(t *testing.T) {
	if !PhaseCommitment.Terminal() {
		t.Error("commitment should be terminal")
	}
	for _, p := range []Phase{PhaseContextLoading, PhaseIdeaCollection, PhaseSynthesis, PhaseRankedVoting} {
		if p.Terminal() {
			t.Errorf("Phase %q should not be terminal", p)
		}
	}
}
