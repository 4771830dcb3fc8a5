package types

import "testing"

func TestNormalizeAssayType(t *testing.T) {
	tests := []struct {
		in   string
		want AssayType
	}{
		{"enzymatic_activity", AssayEnzymatic},
		{"splicing", AssaySplicing},
		{"in_vivo", AssayInVivo},
		{"other", AssayOther},
		{"western blot", AssayOther},
		{"", AssayOther},
		{"ENZYMATIC_ACTIVITY", AssayOther},
	}
	for _, tt := range tests {
		if got := NormalizeAssayType(tt.in); got != tt.want {
			t.Errorf("NormalizeAssayType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDirection(t *testing.T) {
	tests := []struct {
		in   string
		want EffectDirection
	}{
		{"damaging", DirectionDamaging},
		{"not_damaging", DirectionNotDamaging},
		{"inconclusive", DirectionInconclusive},
		{"benign", DirectionInconclusive},
		{"", DirectionInconclusive},
	}
	for _, tt := range tests {
		if got := NormalizeDirection(tt.in); got != tt.want {
			t.Errorf("NormalizeDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		name      string
		validated bool
		repl      bool
		want      ConfidenceTier
	}{
		{"validated and replicated", true, true, TierHigh},
		{"validated only", true, false, TierModerate},
		{"replicated only", false, true, TierModerate},
		{"neither", false, false, TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FunctionalExperiment{ValidatedAssay: tt.validated, Replicated: tt.repl}
			if got := e.Tier(); got != tt.want {
				t.Errorf("Tier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScorable(t *testing.T) {
	if !(FunctionalExperiment{Direction: DirectionDamaging}).Scorable() {
		t.Error("damaging should be scorable")
	}
	if !(FunctionalExperiment{Direction: DirectionNotDamaging}).Scorable() {
		t.Error("not_damaging should be scorable")
	}
	if (FunctionalExperiment{Direction: DirectionInconclusive}).Scorable() {
		t.Error("inconclusive should not be scorable")
	}
}

func TestHasText(t *testing.T) {
	if (CandidatePaper{}).HasText() {
		t.Error("empty paper should have no text")
	}
	if !(CandidatePaper{Title: "t"}).HasText() {
		t.Error("title alone should count as text")
	}
	if !(CandidatePaper{Abstract: "a"}).HasText() {
		t.Error("abstract alone should count as text")
	}
}
